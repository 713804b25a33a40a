package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/analysis"
	"github.com/philipparndt/printtracker/pkg/estimate"
	"github.com/philipparndt/printtracker/pkg/project"
)

var (
	scanJobs int
	scanSave bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Estimate every model in a project folder",
	Long: `Walk a project folder, estimate every supported model with the profile
assigned to it (or the reference profile) and print a summary table.
Profile assignments are read from and written to projectSaveData.json.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanJobs, "jobs", "j", 0, "number of files analyzed in parallel (default: CPU count)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "write the scanned tree to projectSaveData.json")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	root := scanRoot(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := loadServices()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	items, err := project.Open(root, svc.formats)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error reading project: %v", err))
		os.Exit(1)
	}

	files := project.Files(items)
	if len(files) == 0 {
		ui.PrintWarning(fmt.Sprintf("no supported files found in %s", root))
		return
	}

	jobs := make([]analysis.Job, len(files))
	for i, f := range files {
		jobs[i] = analysis.Job{Path: f.Path(), ProfileID: f.AssignedPrinterProfileID}
	}

	ui.PrintTitle(fmt.Sprintf("Scanning %s", root))
	ui.PrintInfo(fmt.Sprintf("%s files", humanize.Comma(int64(len(jobs)))))

	svc.analyzer.OnProgress = func(done, total int) {
		ui.PrintProgress(done, total, "analyzing")
	}
	results, err := svc.analyzer.AnalyzeAll(ctx, jobs, scanJobs)
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("scan interrupted: %v", err))
	}

	printScanTable(root, results)

	if scanSave {
		if err := project.Save(root, items); err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess(fmt.Sprintf("saved %s", filepath.Join(root, project.SaveFileName)))
	}
}

// scanRoot returns the absolute project folder named by args, defaulting to
// the working directory. Job paths are absolute, so table names are made
// relative to it.
func scanRoot(args []string) string {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return root
}

func printScanTable(root string, results []analysis.Result) {
	table := ui.NewTable(32, 26, 10, 8)
	table.Header("File", "Dimensions (mm)", "Time", "Weight")

	var total estimate.MaterialEstimate
	var totalTime time.Duration
	failed := 0
	for _, r := range results {
		name, err := filepath.Rel(root, r.Job.Path)
		if err != nil {
			name = r.Job.Path
		}
		if r.Err != nil {
			table.Row(name, "error: "+r.Err.Error())
			failed++
			continue
		}

		d := r.Report.Dimensions
		table.Row(name,
			fmt.Sprintf("%.1f x %.1f x %.1f", d.Width, d.Height, d.Depth),
			estimate.FormatDuration(r.Report.PrintTime),
			estimate.FormatWeight(r.Report.Material.WeightGrams))

		total.WeightGrams += r.Report.Material.WeightGrams
		total.FilamentLengthMeters += r.Report.Material.FilamentLengthMeters
		totalTime = estimate.AddDurations(totalTime, r.Report.PrintTime)
	}

	ui.PrintSeparator()
	ui.PrintKeyValue("Total time", estimate.FormatDuration(totalTime))
	ui.PrintKeyValue("Total filament", fmt.Sprintf("%s (%s)",
		estimate.FormatWeight(total.WeightGrams), estimate.FormatLength(total.FilamentLengthMeters)))
	if failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d of %d files could not be analyzed", failed, len(results)))
	}
}
