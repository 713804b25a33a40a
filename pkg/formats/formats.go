// Package formats is the whitelist of importable mesh file extensions.
package formats

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/philipparndt/printtracker/pkg/reader"
)

// Registry holds a case-insensitive set of extensions
type Registry struct {
	exts map[string]struct{}
}

// New creates a registry from extensions with or without a leading dot
func New(exts ...string) *Registry {
	r := &Registry{exts: make(map[string]struct{}, len(exts))}
	for _, ext := range exts {
		if n := normalize(ext); n != "" {
			r.exts[n] = struct{}{}
		}
	}
	return r
}

// Default returns the registry of every format the readers can decode
func Default() *Registry {
	return New(reader.Extensions()...)
}

func normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// IsExtensionSupported reports whether ext is in the set. Blank input is
// never supported.
func (r *Registry) IsExtensionSupported(ext string) bool {
	n := normalize(ext)
	if n == "" {
		return false
	}
	_, ok := r.exts[n]
	return ok
}

// IsFileSupported checks the extension of a file name or path
func (r *Registry) IsFileSupported(path string) bool {
	return r.IsExtensionSupported(filepath.Ext(path))
}

// SupportedExtensions returns the set as a sorted slice
func (r *Registry) SupportedExtensions() []string {
	out := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
