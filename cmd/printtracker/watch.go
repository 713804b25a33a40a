package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/profile"
	"github.com/philipparndt/printtracker/pkg/watcher"
)

var watchDebounce time.Duration

// outputMu keeps the multi-line reports of concurrent estimates apart
var outputMu sync.Mutex

var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Re-estimate models whenever they change on disk",
	Long: `Print an estimate for each file, then watch the files and print a fresh
estimate after every change. Stop with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait this long after the last change before re-estimating")
	watchCmd.Flags().BoolVarP(&showBreakdown, "breakdown", "b", false, "show the time spent per stage")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := mustServices()
	p, err := svc.selectedProfile()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	for _, file := range args {
		report(ctx, svc, file, p)
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := fw.RemoveAll(); err != nil {
			ui.PrintWarning(fmt.Sprintf("watcher: %v", err))
		}
		fw.Close()
	}()

	fw.OnError = func(err error) {
		ui.PrintError(fmt.Sprintf("watcher: %v", err))
	}

	changes := make(chan string)
	notify := func(path string) {
		select {
		case changes <- path:
		case <-ctx.Done():
		}
	}
	if err := fw.WatchModels(args, svc.models, notify); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	fw.Start()

	ui.PrintInfo(fmt.Sprintf("watching %d files, press Ctrl+C to stop", len(fw.Watched())))

	// A newer change to a file supersedes the estimate still running for it.
	running := make(map[string]context.CancelFunc)
	defer func() {
		for _, cancel := range running {
			cancel()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-changes:
			if cancel, ok := running[path]; ok {
				cancel()
			}
			runCtx, cancel := context.WithCancel(ctx)
			running[path] = cancel
			outputMu.Lock()
			ui.PrintStep(fmt.Sprintf("%s changed at %s", filepath.Base(path), time.Now().Format("15:04:05")))
			outputMu.Unlock()
			go report(runCtx, svc, path, p)
		}
	}
}

func report(ctx context.Context, svc *services, path string, p profile.PrinterProfile) {
	r, err := svc.analyzer.AnalyzeWith(ctx, path, p)
	if errors.Is(err, context.Canceled) {
		return
	}

	outputMu.Lock()
	defer outputMu.Unlock()
	if err != nil {
		ui.PrintError(fmt.Sprintf("%s: %v", path, err))
		return
	}
	printReport(r)
}
