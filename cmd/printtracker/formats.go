package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/formats"
	"github.com/philipparndt/printtracker/version"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported model file extensions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader("Supported formats")
		for _, ext := range formats.Default().SupportedExtensions() {
			ui.PrintItem(ext)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintKeyValue("Version", version.GetVersion())
		ui.PrintKeyValue("Commit", version.GitCommit)
		ui.PrintKeyValue("Built", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd, versionCmd)
}
