package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/morler/repolens/constants/lipgloss"
	"github.com/morler/repolens/report"
	"github.com/morler/repolens/scanner/models"
	"github.com/spf13/cobra"
)

// scanCmd: repolens scan
var scanCmd = &cobra.Command{
	Use:   "scan <project_path>",
	Short: "Show what would be sent to the AI provider without calling it.",
	Long: `The 'scan' subcommand walks the project exactly like the report command does and prints
the directory tree, the file statistics and the key files selected for the prompt. No provider
is contacted and no API key is needed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd, args)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		code := handleScanCommand(ctx, rootDependencies)
		cancel()

		rootDependencies.closeLogger()
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(ctx context.Context, rootDependencies *RootDependencies) int {
	snapshot, code := scanProject(ctx, rootDependencies)
	if snapshot == nil {
		return code
	}

	fmt.Println(describeSnapshot(snapshot))
	return 0
}

func describeSnapshot(snapshot *models.ProjectSnapshot) string {
	out := lipgloss.Info.Render("Directory structure") + "\n" + snapshot.Tree + "\n\n"

	out += lipgloss.Info.Render("Statistics") + "\n"
	out += fmt.Sprintf("Files: %d\nDirectories: %d\nTotal size: %.2fMiB\nFile types: %s\n\n",
		snapshot.Stats.TotalFiles, snapshot.Stats.TotalDirs, snapshot.Stats.SizeMiB(),
		report.FormatFileTypes(snapshot.Stats, 10))

	out += lipgloss.Info.Render("Key files") + "\n"
	if len(snapshot.KeyFiles) == 0 {
		out += lipgloss.Gray.Render("(none)") + "\n"
	}
	for i, file := range snapshot.KeyFiles {
		out += fmt.Sprintf("%2d. %s %s\n", i+1, file.RelativePath,
			lipgloss.Gray.Render(fmt.Sprintf("[%s, %d bytes]", file.Rank, file.Size)))
	}

	if len(snapshot.Skipped) > 0 {
		out += "\n" + lipgloss.Info.Render("Skipped") + "\n"
		for _, skipped := range snapshot.Skipped {
			out += lipgloss.Yellow.Render(fmt.Sprintf("- %s (%s)", skipped.RelativePath, skipped.Reason)) + "\n"
		}
	}

	out += "\n" + lipgloss.Gray.Render("Fingerprint: "+snapshot.Fingerprint())
	return out
}
