package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/analysis"
	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

// cubeSource returns a 10 mm cube for every path
type cubeSource struct{}

func (cubeSource) GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error) {
	dims := mesh.Dimensions{Width: 10, Height: 10, Depth: 10}
	return mesh.PrintModel{VolumeMm3: 1000, SurfaceAreaMm2: 600, HeightMm: 10, Dimensions: dims}, nil
}

// lockedBuffer lets the race detector see only the writes made by report
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestConcurrentReportsDoNotInterleave(t *testing.T) {
	var out lockedBuffer
	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = &out, &out
	t.Cleanup(func() { ui.Out, ui.Err = prevOut, prevErr })

	registry := profile.NewRegistry()
	svc := &services{profiles: registry, analyzer: analysis.New(cubeSource{}, registry)}

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report(context.Background(), svc, fmt.Sprintf("part%d.stl", i), registry.Default())
		}()
	}
	wg.Wait()

	var lines []string
	for _, l := range strings.Split(out.buf.String(), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	titles := 0
	for i, l := range lines {
		if !strings.Contains(l, "╭─") {
			continue
		}
		titles++
		require.Less(t, i+5, len(lines))
		assert.Contains(t, lines[i+1], "Profile:")
		assert.Contains(t, lines[i+2], "Dimensions:")
		assert.Contains(t, lines[i+3], "Volume:")
		assert.Contains(t, lines[i+5], "filament")
	}
	assert.Equal(t, n, titles)
}
