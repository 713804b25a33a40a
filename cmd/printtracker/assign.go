package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/project"
)

var projectRoot string

var assignCmd = &cobra.Command{
	Use:   "assign <file|folder> <profile>",
	Short: "Assign a printer profile to a file or to every file in a folder",
	Long: `Record which printer profile a model is printed with. Assigning to a folder
assigns every file below it. The assignment is stored in the project's
projectSaveData.json and used by scan.`,
	Args: cobra.ExactArgs(2),
	Run:  runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&projectRoot, "project", ".", "project root folder")
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) {
	svc := mustServices()

	p, err := svc.profiles.Lookup(args[1])
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	items, err := project.Open(projectRoot, svc.formats)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error reading project: %v", err))
		os.Exit(1)
	}

	target, err := filepath.Abs(args[0])
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if err := project.Assign(items, target, p.ID); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if err := project.Save(projectRoot, items); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("%s now uses %q", args[0], p.Name))
}
