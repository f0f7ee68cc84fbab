package utils

import (
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures the diagnostics logger.
type LoggerOptions struct {
	Verbose bool
	// LogFile enables a rotating JSON log alongside console output when set.
	LogFile string
	// Console defaults to stderr.
	Console io.Writer
}

// NewLogger builds the diagnostics logger. Console output is warn level, or debug when verbose.
// The returned close function flushes and releases the log file.
func NewLogger(options LoggerOptions) (*zap.Logger, func()) {
	console := options.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := zapcore.WarnLevel
	if options.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.TimeKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(console), consoleLevel),
	}

	var logFile *lumberjack.Logger
	if options.LogFile != "" {
		logFile = &lumberjack.Logger{
			Filename:   options.LogFile,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(logFile),
			zapcore.DebugLevel,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("run_id", uuid.NewString()))

	return logger, func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
}
