package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/analysis"
)

func TestScanRootResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	root := scanRoot(nil)
	assert.True(t, filepath.IsAbs(root))

	var buf bytes.Buffer
	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = &buf, &buf
	t.Cleanup(func() { ui.Out, ui.Err = prevOut, prevErr })

	// Job paths come from the project tree and are absolute.
	long := filepath.Join(root, "some", "deeply", "nested", "folder", "bracket.stl")
	printScanTable(root, []analysis.Result{{Job: analysis.Job{Path: long}, Err: os.ErrNotExist}})

	assert.Contains(t, buf.String(), filepath.Join("some", "deeply", "nested"))
	assert.NotContains(t, buf.String(), dir)
}
