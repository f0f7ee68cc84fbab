package cmd

import (
	"fmt"

	"github.com/morler/repolens/constants/lipgloss"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X github.com/morler/repolens/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the repolens version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(lipgloss.BlueSky.Render("repolens " + version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
