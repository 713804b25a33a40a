// Package reader streams triangle vertices out of mesh files.
//
// Every supported format is decoded into the same flat sequence of vertices
// in millimeters. Consumers group consecutive vertices in triples to form
// triangles.
package reader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Vertex is a single point in millimeters
type Vertex struct {
	X, Y, Z float32
}

// Format identifies a mesh file encoding
type Format int

const (
	Unknown Format = iota
	STLASCII
	STLBinary
	OBJ
	ThreeMF
	AMF
)

func (f Format) String() string {
	switch f {
	case STLASCII:
		return "STL (ASCII)"
	case STLBinary:
		return "STL (binary)"
	case OBJ:
		return "OBJ"
	case ThreeMF:
		return "3MF"
	case AMF:
		return "AMF"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedFormat is returned for extensions without a decoder
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrTruncated is returned when a binary file ends in the middle of a record
	ErrTruncated = errors.New("unexpected end of file")
)

// UnsupportedFormatError names the extension that could not be dispatched
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported format: file has no extension"
	}
	return fmt.Sprintf("unsupported format: %q", e.Ext)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// ParseError reports a value that could not be parsed as a number
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// decoder yields one vertex per call and io.EOF once the input is exhausted
type decoder interface {
	next() (Vertex, error)
}

type openFunc func(path string) (*Stream, error)

// openers maps a lower case extension to the function that opens it.
// Adding a format means adding a Format value and an entry here.
var openers = map[string]openFunc{
	".stl": openSTL,
	".obj": openOBJ,
	".3mf": open3MF,
	".amf": openAMF,
}

// Extensions returns the extensions that have a decoder, sorted
func Extensions() []string {
	exts := make([]string, 0, len(openers))
	for ext := range openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether ext (with leading dot, any case) has a decoder
func Supports(ext string) bool {
	_, ok := openers[strings.ToLower(ext)]
	return ok
}

// Open opens path and returns a vertex stream chosen by its extension.
// STL files are further classified as ASCII or binary by their first bytes.
func Open(path string) (*Stream, error) {
	ext := strings.ToLower(filepath.Ext(path))
	open, ok := openers[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	return open(path)
}

// OpenFormat opens path with an explicit format, skipping detection
func OpenFormat(path string, format Format) (*Stream, error) {
	switch format {
	case STLASCII, STLBinary:
		return openSTLAs(path, format)
	case OBJ:
		return openOBJ(path)
	case ThreeMF:
		return open3MF(path)
	case AMF:
		return openAMF(path)
	default:
		return nil, &UnsupportedFormatError{Ext: format.String()}
	}
}

// Stream iterates over the vertices of one file.
//
// The underlying file is released as soon as the stream is exhausted or hits
// an error. Callers that stop early must call Close. A Stream is not safe for
// concurrent use.
type Stream struct {
	format Format
	closer io.Closer
	dec    decoder
	cur    Vertex
	err    error
	done   bool
}

func newStream(format Format, dec decoder, closer io.Closer) *Stream {
	return &Stream{format: format, dec: dec, closer: closer}
}

// Format returns the decoded format
func (s *Stream) Format() Format {
	return s.format
}

// Next advances to the next vertex
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	v, err := s.dec.next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.finish()
		return false
	}
	s.cur = v
	return true
}

// Vertex returns the vertex read by the last call to Next
func (s *Stream) Vertex() Vertex {
	return s.cur
}

// Err returns the first error other than io.EOF
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying file. It is safe to call more than once.
func (s *Stream) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *Stream) finish() {
	if err := s.Close(); err != nil && s.err == nil {
		s.err = fmt.Errorf("failed to close file: %w", err)
	}
}

// Collect drains the stream into a slice. It is meant for small files and tests.
func (s *Stream) Collect() ([]Vertex, error) {
	defer s.Close()
	var out []Vertex
	for s.Next() {
		out = append(out, s.Vertex())
	}
	return out, s.Err()
}

// multiCloser closes every closer in order and returns the first error
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
