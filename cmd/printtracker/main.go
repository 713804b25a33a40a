package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/version"
)

var (
	profilesPath string
	profileRef   string
)

var rootCmd = &cobra.Command{
	Use:   "printtracker",
	Short: "Estimate print time and filament use for 3D model files",
	Long: `printtracker reads STL (ASCII and binary), OBJ, 3MF and AMF files and
estimates their dimensions, print duration and filament consumption for a
printer profile. Project folders can be scanned as a whole, and files can be
watched so estimates refresh whenever a model is re-exported.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles", "", "printer profiles file (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&profileRef, "profile", "p", "", "printer profile name or id (default: reference profile)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
