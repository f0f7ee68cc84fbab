package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/morler/repolens/config"
	"github.com/morler/repolens/constants/lipgloss"
	"github.com/morler/repolens/providers"
	"github.com/morler/repolens/report"
	"github.com/morler/repolens/scanner"
	scanner_contracts "github.com/morler/repolens/scanner/contracts"
	"github.com/morler/repolens/scanner/models"
	"github.com/morler/repolens/token_management"
	token_contracts "github.com/morler/repolens/token_management/contracts"
	"github.com/morler/repolens/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RootDependencies struct {
	Config          *config.Config
	Cwd             string
	ProjectPath     string
	OutputPath      string
	Verbose         bool
	Logger          *zap.Logger
	Scanner         scanner_contracts.IScanner
	TokenManagement token_contracts.ITokenManagement
	closeLogger     func()
}

var (
	outputPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "repolens <project_path>",
	Short: "Generate a learning guide for an unfamiliar codebase.",
	Long: `repolens scans a project directory, picks the files that best explain it
(readmes, manifests, entry points and source files) and asks an AI provider to write
a structured report: overview, tech stack, architecture, setup instructions, a learning
roadmap and improvement suggestions. When the provider cannot be reached a basic local
analysis is produced instead.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd, args)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		code := handleReportCommand(ctx, rootDependencies)
		cancel()

		rootDependencies.closeLogger()
		os.Exit(code)
	},
}

func init() {
	config.InitFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print scan details, token usage and full error traces.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to this file instead of the console.")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func handleRootCommand(cmd *cobra.Command, args []string) *RootDependencies {
	rootDependencies := &RootDependencies{Verbose: verbose, OutputPath: outputPath}

	cwd, err := config.ResolveCwd()
	if err != nil {
		exitWithError(err, verbose)
	}
	rootDependencies.Cwd = cwd

	rootDependencies.Config, err = config.LoadConfigs(cmd, cwd)
	if err != nil {
		exitWithError(err, verbose)
	}

	rootDependencies.ProjectPath, err = filepath.Abs(args[0])
	if err != nil {
		exitWithError(err, verbose)
	}

	rootDependencies.Logger, rootDependencies.closeLogger = utils.NewLogger(utils.LoggerOptions{
		Verbose: verbose,
		LogFile: rootDependencies.Config.LogFile,
	})

	rootDependencies.Scanner = scanner.NewScanner(*rootDependencies.Config.Scan, rootDependencies.Logger)
	rootDependencies.TokenManagement = token_management.NewTokenManager()

	return rootDependencies
}

// handleReportCommand runs scan, request and output, returning the process exit code.
// Cancelling ctx stops the run without writing any output.
func handleReportCommand(ctx context.Context, rootDependencies *RootDependencies) int {
	cfg := rootDependencies.Config
	logger := rootDependencies.Logger

	if providers.RequiresApiKey(cfg.AIProviderConfig.Provider) && cfg.AIProviderConfig.ApiKey == "" {
		fmt.Println(lipgloss.Red.Render("An API key is required: pass --api_key or set API_KEY / ANTHROPIC_API_KEY."))
		return 1
	}

	provider, err := providers.NewProvider(cfg.AIProviderConfig)
	if err != nil {
		printError(err, rootDependencies.Verbose)
		return 1
	}

	snapshot, code := scanProject(ctx, rootDependencies)
	if snapshot == nil {
		return code
	}

	requester := report.NewRequester(provider, *cfg.AIProviderConfig, *cfg.Report, rootDependencies.TokenManagement, logger)

	spinner := newSpinner()
	spinnerRequest, _ := spinner.Start(fmt.Sprintf("Generating report with %s (%s)...", provider.Name(), cfg.AIProviderConfig.Model))
	reportText, err := requester.RequestReport(ctx, snapshot)
	_ = spinnerRequest.Stop()

	if err != nil {
		fmt.Println(lipgloss.Yellow.Render("Interrupted, no report was written."))
		logger.Debug("report request cancelled", zap.Error(err))
		return 130
	}

	if rootDependencies.Verbose {
		rootDependencies.TokenManagement.DisplayTokens(provider.Name(), cfg.AIProviderConfig.Model)
	}

	if rootDependencies.OutputPath != "" {
		if ctx.Err() != nil {
			fmt.Println(lipgloss.Yellow.Render("Interrupted, no report was written."))
			return 130
		}
		if err := utils.WriteReportFile(rootDependencies.OutputPath, rootDependencies.ProjectPath, reportText, time.Now()); err != nil {
			printError(err, rootDependencies.Verbose)
			return 1
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✅ Report saved to %s", rootDependencies.OutputPath)))
		return 0
	}

	if err := printReport(os.Stdout, reportText, cfg.Theme); err != nil {
		printError(err, rootDependencies.Verbose)
		return 1
	}
	return 0
}

// scanProject runs the scanner behind a spinner. A nil snapshot means the run is over
// and the returned code should be used as the exit status.
func scanProject(ctx context.Context, rootDependencies *RootDependencies) (*models.ProjectSnapshot, int) {
	spinner := newSpinner()
	spinnerScan, _ := spinner.Start(fmt.Sprintf("Scanning %s...", rootDependencies.ProjectPath))

	snapshot, err := rootDependencies.Scanner.Scan(ctx, rootDependencies.ProjectPath)
	_ = spinnerScan.Stop()

	if err != nil {
		var rootErr *scanner.RootPathError
		switch {
		case errors.As(err, &rootErr):
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: %v", rootErr)))
			return nil, 1
		case errors.Is(err, context.Canceled):
			fmt.Println(lipgloss.Yellow.Render("Interrupted."))
			return nil, 130
		default:
			printError(err, rootDependencies.Verbose)
			return nil, 1
		}
	}

	if rootDependencies.Verbose {
		fmt.Println(lipgloss.BoxStyle.Render(fmt.Sprintf(
			"Files: %d - Directories: %d - Size: %.2fMiB - Key files: %d - Skipped: %d\nFingerprint: %s",
			snapshot.Stats.TotalFiles, snapshot.Stats.TotalDirs, snapshot.Stats.SizeMiB(),
			len(snapshot.KeyFiles), len(snapshot.Skipped), snapshot.Fingerprint())))
		for _, skipped := range snapshot.Skipped {
			fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("  skipped %s (%s)", skipped.RelativePath, skipped.Reason)))
		}
	}

	return snapshot, 0
}

func printReport(out *os.File, reportText string, theme string) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, lipgloss.BannerStyle.Render("📚 Project Learning Guide"))
	fmt.Fprintln(out, rule+"\n")
	if err := utils.RenderMarkdown(out, reportText, theme, utils.ShouldHighlight(out, theme)); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n"+rule)
	return nil
}

func newSpinner() *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true).WithWriter(os.Stderr)
}

func printError(err error, verbose bool) {
	fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: %v", err)))
	if verbose {
		writeErrorChain(os.Stderr, err)
	}
}

func exitWithError(err error, verbose bool) {
	printError(err, verbose)
	os.Exit(1)
}

// writeErrorChain prints every wrapped error, outermost first.
func writeErrorChain(w io.Writer, err error) {
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(w, "%s%T: %v\n", strings.Repeat("  ", depth), err, err)
		err = errors.Unwrap(err)
	}
}
