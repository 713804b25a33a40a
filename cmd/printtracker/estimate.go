package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/analysis"
	"github.com/philipparndt/printtracker/pkg/estimate"
)

var showBreakdown bool

var estimateCmd = &cobra.Command{
	Use:   "estimate <file>...",
	Short: "Estimate print time and filament use",
	Long:  "Estimate dimensions, print duration and filament consumption of one or more model files for the selected printer profile.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runEstimate,
}

func init() {
	estimateCmd.Flags().BoolVarP(&showBreakdown, "breakdown", "b", false, "show the time spent per stage")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := loadServices()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	p, err := svc.selectedProfile()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	failed := false
	for _, file := range args {
		report, err := svc.analyzer.AnalyzeWith(ctx, file, p)
		if err != nil {
			ui.PrintError(fmt.Sprintf("%s: %v", file, err))
			failed = true
			continue
		}
		printReport(report)
	}

	if failed {
		os.Exit(1)
	}
}

func printReport(r *analysis.Report) {
	ui.PrintTitle(filepath.Base(r.Path))
	ui.PrintKeyValue("Profile", r.Profile)
	ui.PrintKeyValue("Dimensions", analysis.FormatDimensions(r.Dimensions))
	ui.PrintKeyValue("Volume", analysis.FormatMeasurement(r.Model.VolumeMm3, "mm³"))

	if r.PrintTime == 0 && r.Material.VolumeMm3 == 0 {
		ui.PrintWarning("model is degenerate, no estimate available")
		return
	}

	ui.PrintHeader("Estimate")
	ui.PrintHighlight(fmt.Sprintf("%s, %s of filament (%s)",
		estimate.FormatDuration(r.PrintTime),
		estimate.FormatWeight(r.Material.WeightGrams),
		estimate.FormatLength(r.Material.FilamentLengthMeters)))

	if !showBreakdown {
		return
	}

	b := r.Breakdown
	ui.PrintHeader("Breakdown")
	ui.PrintKeyValue("First layer", estimate.FormatDuration(b.FirstLayer))
	ui.PrintKeyValue("Main layers", estimate.FormatDuration(b.MainLayers))
	ui.PrintKeyValue("Travel", estimate.FormatDuration(b.Travel))
	if b.Support > 0 {
		ui.PrintKeyValue("Supports", estimate.FormatDuration(b.Support))
	}
	ui.PrintKeyValue("Calibration", fmt.Sprintf("x%.2f", b.Calibration))
	ui.PrintKeyValue("Extruded volume", analysis.FormatMeasurement(r.Material.VolumeMm3, "mm³"))
}
