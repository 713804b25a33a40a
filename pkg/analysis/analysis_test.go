package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/printtracker/pkg/cache"
	"github.com/philipparndt/printtracker/pkg/importer"
	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

func cubeModel() mesh.PrintModel {
	return mesh.PrintModel{
		VolumeMm3:      1000,
		SurfaceAreaMm2: 600,
		HeightMm:       10,
		Dimensions:     mesh.Dimensions{Width: 10, Height: 10, Depth: 10},
	}
}

type stubSource struct {
	calls atomic.Int32
	err   error
}

func (s *stubSource) GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error) {
	s.calls.Add(1)
	if s.err != nil {
		return mesh.PrintModel{}, s.err
	}
	return cubeModel(), nil
}

func TestAnalyseMesh(t *testing.T) {
	m := cubeModel()
	assert.Equal(t, m.Dimensions, AnalyseMesh(m))
}

func TestAnalyzeUsesReferenceForUnknownProfile(t *testing.T) {
	a := New(&stubSource{}, profile.NewRegistry())

	report, err := a.Analyze(context.Background(), "cube.stl", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, profile.ReferenceName, report.Profile)
	assert.Equal(t, cubeModel().Dimensions, report.Dimensions)
	assert.InDelta(t, 455.127, report.PrintTime.Seconds(), 1e-3)
	assert.InDelta(t, 1.4384, report.Material.WeightGrams, 1e-9)
}

func TestAnalyzeWithAssignedProfile(t *testing.T) {
	reg := profile.NewRegistry()
	p := profile.Derive("Slow")
	p.CalibrationFactor = 2
	require.NoError(t, reg.Add(p))

	a := New(&stubSource{}, reg)
	fast, err := a.Analyze(context.Background(), "cube.stl", uuid.Nil)
	require.NoError(t, err)
	slow, err := a.Analyze(context.Background(), "cube.stl", p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Slow", slow.Profile)
	assert.Greater(t, slow.PrintTime, fast.PrintTime)
}

func TestAnalyzeCancelledBeforeMeshAnalysis(t *testing.T) {
	src := &stubSource{}
	a := New(src, profile.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, "cube.stl", uuid.Nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.calls.Load())
}

// cancellingSource cancels the request once the model has been delivered
type cancellingSource struct {
	cancel context.CancelFunc
}

func (s *cancellingSource) GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error) {
	s.cancel()
	return cubeModel(), nil
}

func TestAnalyzeCancelledBeforeEstimates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := New(&cancellingSource{cancel: cancel}, profile.NewRegistry())

	report, err := a.Analyze(ctx, "cube.stl", uuid.Nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}

func TestAnalyzeCancellationKeepsCacheEntry(t *testing.T) {
	imp := importer.Func(func(path string) (mesh.PrintModel, error) {
		return cubeModel(), nil
	})
	c := cache.New(imp)

	ctx, cancel := context.WithCancel(context.Background())
	a := New(&cancelAfterSource{inner: c, cancel: cancel}, profile.NewRegistry())

	_, err := a.Analyze(ctx, "cube.stl", uuid.Nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, c.Len())
}

type cancelAfterSource struct {
	inner  ModelSource
	cancel context.CancelFunc
}

func (s *cancelAfterSource) GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error) {
	m, err := s.inner.GetPrintModel(ctx, path)
	s.cancel()
	return m, err
}

func TestAnalyzePropagatesImportError(t *testing.T) {
	boom := errors.New("boom")
	a := New(&stubSource{err: boom}, profile.NewRegistry())

	_, err := a.Analyze(context.Background(), "cube.stl", uuid.Nil)
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeAll(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, fmt.Sprintf("tri%d.stl", i))
		src := fmt.Sprintf("solid t\nvertex 0 0 0\nvertex %d 0 0\nvertex 0 %d 0\nendsolid t\n", i+1, i+1)
		require.NoError(t, os.WriteFile(p, []byte(src), 0644))
		jobs = append(jobs, Job{Path: p})
	}
	jobs = append(jobs, Job{Path: filepath.Join(dir, "notes.xyz")})

	a := New(cache.New(nil), profile.NewRegistry())
	var calls []int
	a.OnProgress = func(done, total int) {
		assert.Equal(t, len(jobs), total)
		calls = append(calls, done)
	}
	results, err := a.AnalyzeAll(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, calls)

	for i := 0; i < 5; i++ {
		require.NoError(t, results[i].Err)
		assert.Equal(t, jobs[i].Path, results[i].Job.Path)
		assert.InDelta(t, float64(i+1), results[i].Report.Dimensions.Width, 1e-6)
	}
	assert.ErrorIs(t, results[5].Err, importer.ErrUnsupportedFormat)
}

func TestAnalyzeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(&stubSource{}, profile.NewRegistry())
	results, err := a.AnalyzeAll(ctx, []Job{{Path: "a.stl"}, {Path: "b.stl"}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestFormatDimensions(t *testing.T) {
	assert.Equal(t, "10.00 x 20.50 x 3.00 mm", FormatDimensions(mesh.Dimensions{Width: 10, Height: 20.5, Depth: 3}))
	assert.Equal(t, "1.50 mm", FormatMeasurement(1.5, ""))
	assert.Equal(t, "2.00 g", FormatMeasurement(2, "g"))
}
