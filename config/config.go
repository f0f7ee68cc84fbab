package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/morler/repolens/providers"
	"github.com/morler/repolens/report"
	"github.com/morler/repolens/scanner/models"
	"github.com/morler/repolens/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version          string                      `mapstructure:"version"`
	Theme            string                      `mapstructure:"theme"`
	LogFile          string                      `mapstructure:"log_file"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
	Scan             *models.ScanOptions         `mapstructure:"scan"`
	Report           *report.Options             `mapstructure:"report"`
}

var defaultScan = models.DefaultScanOptions()
var defaultReport = report.DefaultOptions()

// DefaultConfig values
var DefaultConfig = Config{
	Version: "1.0.0",
	Theme:   "dracula",
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:       "anthropic",
		BaseURL:        "",
		Model:          "claude-sonnet-4-20250514",
		ApiKey:         "",
		MaxTokens:      4000,
		RequestTimeout: 120 * time.Second,
		Retries:        1,
		RetryDelay:     2 * time.Second,
	},
	Scan:   &defaultScan,
	Report: &defaultReport,
}

// configName is the config file looked up in the working directory (yml, yaml or json).
const configName = "repolens-config"

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs builds the configuration from defaults, an optional file, environment
// variables and flags, in increasing order of precedence.
func LoadConfigs(cmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	// Set default values using Viper
	setDefaults(v)

	// Explicitly bind environment variables to config keys
	bindEnv(v)

	// Check if the user provided a config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType(GetConfigFileType(cfgFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		// Look for configuration files in the current directory
		v.SetConfigName(configName)
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Bind CLI flags to override config values
	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the scanner or requester cannot honour.
func (c *Config) Validate() error {
	if c.Scan == nil || c.Report == nil || c.AIProviderConfig == nil {
		return errors.New("incomplete configuration")
	}
	if c.Scan.MaxFiles <= 0 {
		return fmt.Errorf("scan.max_files must be positive, got %d", c.Scan.MaxFiles)
	}
	if c.Scan.MaxFileSize <= 0 {
		return fmt.Errorf("scan.max_file_size must be positive, got %d", c.Scan.MaxFileSize)
	}
	if c.Scan.TreeDepth < 0 {
		return fmt.Errorf("scan.tree_depth must not be negative, got %d", c.Scan.TreeDepth)
	}
	if err := utils.ValidateGlobPatterns(c.Scan.IgnorePatterns); err != nil {
		return err
	}
	if c.Report.TruncateChars <= 0 {
		return fmt.Errorf("report.truncate_chars must be positive, got %d", c.Report.TruncateChars)
	}
	if !providers.IsKnownProvider(c.AIProviderConfig.Provider) {
		return fmt.Errorf("%w: %q", providers.ErrUnknownProvider, c.AIProviderConfig.Provider)
	}
	if c.AIProviderConfig.MaxTokens <= 0 {
		return fmt.Errorf("ai_provider_config.max_tokens must be positive, got %d", c.AIProviderConfig.MaxTokens)
	}
	if c.AIProviderConfig.Retries < 0 {
		return fmt.Errorf("ai_provider_config.retries must not be negative, got %d", c.AIProviderConfig.Retries)
	}
	return nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("log_file", DefaultConfig.LogFile)
	v.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	v.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	v.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	v.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	v.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
	v.SetDefault("ai_provider_config.request_timeout", DefaultConfig.AIProviderConfig.RequestTimeout)
	v.SetDefault("ai_provider_config.retries", DefaultConfig.AIProviderConfig.Retries)
	v.SetDefault("ai_provider_config.retry_delay", DefaultConfig.AIProviderConfig.RetryDelay)
	v.SetDefault("scan.ignore_patterns", DefaultConfig.Scan.IgnorePatterns)
	v.SetDefault("scan.high_priority_files", DefaultConfig.Scan.HighPriorityFiles)
	v.SetDefault("scan.medium_priority_files", DefaultConfig.Scan.MediumPriorityFiles)
	v.SetDefault("scan.source_extensions", DefaultConfig.Scan.SourceExtensions)
	v.SetDefault("scan.max_file_size", DefaultConfig.Scan.MaxFileSize)
	v.SetDefault("scan.max_files", DefaultConfig.Scan.MaxFiles)
	v.SetDefault("scan.tree_depth", DefaultConfig.Scan.TreeDepth)
	v.SetDefault("scan.respect_gitignore", DefaultConfig.Scan.RespectGitignore)
	v.SetDefault("report.truncate_chars", DefaultConfig.Report.TruncateChars)
	v.SetDefault("report.language", DefaultConfig.Report.Language)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("theme", "THEME")
	_ = v.BindEnv("log_file", "LOG_FILE")
	_ = v.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = v.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = v.BindEnv("ai_provider_config.model", "MODEL")
	_ = v.BindEnv("ai_provider_config.api_key", "API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ai_provider_config.max_tokens", "MAX_TOKENS")
	_ = v.BindEnv("report.language", "REPORT_LANGUAGE")
}

// flagBindings maps configuration keys to persistent flag names.
var flagBindings = map[string]string{
	"theme":                         "theme",
	"log_file":                      "log_file",
	"ai_provider_config.provider":   "provider",
	"ai_provider_config.base_url":   "base_url",
	"ai_provider_config.model":      "model",
	"ai_provider_config.api_key":    "api_key",
	"ai_provider_config.max_tokens": "max_tokens",
	"ai_provider_config.retries":    "retries",
	"scan.max_files":                "max_files",
	"scan.max_file_size":            "max_file_size",
	"scan.tree_depth":               "tree_depth",
	"scan.respect_gitignore":        "gitignore",
	"report.language":               "language",
	"report.truncate_chars":         "truncate_chars",
}

// bindFlags binds the CLI flags to configuration values. Only flags the user set override
// file and environment values. cmd may be the root or any subcommand.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagBindings {
		flag := lookupFlag(cmd, name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// lookupFlag finds a flag defined on cmd or inherited from the root's persistent flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma style used to highlight the report in the terminal, or 'none' to disable highlighting.")
	rootCmd.PersistentFlags().String("log_file", DefaultConfig.LogFile, "Write a rotating JSON diagnostics log to this file.")

	// AI Provider configuration
	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider ('anthropic', 'openai' or 'ollama').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "Override the base URL of the AI provider.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The model used to write the report.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI service provider.")
	rootCmd.PersistentFlags().Int("max_tokens", DefaultConfig.AIProviderConfig.MaxTokens, "Maximum number of tokens the model may generate.")
	rootCmd.PersistentFlags().Int("retries", DefaultConfig.AIProviderConfig.Retries, "Retries after a transient provider failure.")

	// Scan configuration
	rootCmd.PersistentFlags().Int("max_files", DefaultConfig.Scan.MaxFiles, "Maximum number of key files included in the prompt.")
	rootCmd.PersistentFlags().Int64("max_file_size", DefaultConfig.Scan.MaxFileSize, "Files larger than this many bytes are never included.")
	rootCmd.PersistentFlags().Int("tree_depth", DefaultConfig.Scan.TreeDepth, "Depth of the rendered directory tree.")
	rootCmd.PersistentFlags().Bool("gitignore", DefaultConfig.Scan.RespectGitignore, "Also exclude paths matched by the project's .gitignore.")

	// Report configuration
	rootCmd.PersistentFlags().String("language", DefaultConfig.Report.Language, "Language the report should be written in.")
	rootCmd.PersistentFlags().Int("truncate_chars", DefaultConfig.Report.TruncateChars, "Characters of each key file included in the prompt.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// ResolveCwd returns the working directory used to look up the config file.
func ResolveCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}
