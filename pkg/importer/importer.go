// Package importer turns a mesh file path into a PrintModel.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/reader"
)

// ErrUnsupportedFormat is returned for files whose extension has no reader
var ErrUnsupportedFormat = reader.ErrUnsupportedFormat

// UnsupportedFormatError names the rejected extension
type UnsupportedFormatError = reader.UnsupportedFormatError

// Importer loads a PrintModel from a file
type Importer interface {
	Import(path string) (mesh.PrintModel, error)
}

// FileImporter reads models from the local file system
type FileImporter struct{}

// Import implements Importer
func (FileImporter) Import(path string) (mesh.PrintModel, error) {
	return ImportModel(path)
}

// ImportModel opens path with the reader matching its extension and builds
// the model in a single pass over the vertices.
func ImportModel(path string) (mesh.PrintModel, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !reader.Supports(ext) {
		return mesh.PrintModel{}, &UnsupportedFormatError{Ext: ext}
	}

	stream, err := reader.Open(path)
	if err != nil {
		return mesh.PrintModel{}, fmt.Errorf("failed to import %s: %w", filepath.Base(path), err)
	}
	defer stream.Close()

	model, err := mesh.Build(stream)
	if err != nil {
		return mesh.PrintModel{}, fmt.Errorf("failed to import %s: %w", filepath.Base(path), err)
	}
	return model, nil
}

// Func adapts a plain function to the Importer interface
type Func func(path string) (mesh.PrintModel, error)

// Import implements Importer
func (f Func) Import(path string) (mesh.PrintModel, error) {
	return f(path)
}
