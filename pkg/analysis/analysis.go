// Package analysis runs the estimators over models loaded by path.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/printtracker/pkg/estimate"
	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

// ModelSource provides print models by path, typically a cache
type ModelSource interface {
	GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error)
}

// ProfileResolver maps a profile id to a profile, falling back to the
// reference profile for unknown ids.
type ProfileResolver interface {
	Resolve(id uuid.UUID) profile.PrinterProfile
}

// Report contains every measurement and estimate for one file
type Report struct {
	Path       string
	Profile    string
	Model      mesh.PrintModel
	Dimensions mesh.Dimensions
	PrintTime  time.Duration
	Breakdown  estimate.TimeBreakdown
	Material   estimate.MaterialEstimate
}

// Analyzer combines the model source with the estimators
type Analyzer struct {
	models   ModelSource
	profiles ProfileResolver

	// OnProgress, when set, is called by AnalyzeAll after every finished
	// job. Calls are serialized.
	OnProgress func(done, total int)
}

// New creates an analyzer
func New(models ModelSource, profiles ProfileResolver) *Analyzer {
	return &Analyzer{models: models, profiles: profiles}
}

// AnalyseMesh returns the bounding dimensions of a model. It exists so that
// dimensions can later be derived differently without a new import.
func AnalyseMesh(m mesh.PrintModel) mesh.Dimensions {
	return m.Dimensions
}

// Analyze reports on path using the profile with the given id.
// Unknown or nil ids use the reference profile.
func (a *Analyzer) Analyze(ctx context.Context, path string, profileID uuid.UUID) (*Report, error) {
	return a.AnalyzeWith(ctx, path, a.profiles.Resolve(profileID))
}

// AnalyzeWith reports on path using an explicit profile.
//
// ctx is checked before the mesh analysis, the time estimate and the
// material estimate. A cancelled request leaves the model cache untouched.
func (a *Analyzer) AnalyzeWith(ctx context.Context, path string, p profile.PrinterProfile) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := a.models.GetPrintModel(ctx, path)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Path:       path,
		Profile:    p.Name,
		Model:      model,
		Dimensions: AnalyseMesh(model),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Breakdown, err = estimate.EstimatePrintTimeBreakdown(&model, &p)
	if err != nil {
		return nil, err
	}
	report.PrintTime = report.Breakdown.Total

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Material, err = estimate.EstimateMaterial(&model, &p)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Job is one file to analyze in a batch
type Job struct {
	Path      string
	ProfileID uuid.UUID
}

// Result pairs a job with its report or error
type Result struct {
	Job    Job
	Report *Report
	Err    error
}

// AnalyzeAll analyzes jobs concurrently with at most limit in flight
// (GOMAXPROCS when limit < 1). Results keep the order of jobs; a failing
// job does not stop the others. The returned error is only set when ctx
// ends before all jobs ran.
func (a *Analyzer) AnalyzeAll(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(limit)

	var mu sync.Mutex
	done := 0
	progress := func() {
		if a.OnProgress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		a.OnProgress(done, len(jobs))
	}

	for i, job := range jobs {
		results[i].Job = job
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			report, err := a.Analyze(ctx, job.Path, job.ProfileID)
			results[i].Report = report
			results[i].Err = err
			progress()
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

// FormatMeasurement formats a measurement with its unit
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "mm"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// FormatDimensions formats dimensions as "W x H x D mm"
func FormatDimensions(d mesh.Dimensions) string {
	return fmt.Sprintf("%.2f x %.2f x %.2f mm", d.Width, d.Height, d.Depth)
}
