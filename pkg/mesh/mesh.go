// Package mesh derives print measurements from a stream of triangle vertices.
package mesh

import (
	"math"

	"github.com/philipparndt/printtracker/pkg/geometry"
	"github.com/philipparndt/printtracker/pkg/reader"
)

// Dimensions is the extent of a mesh along each axis in millimeters
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// EmptyDimensions is reported for meshes without vertices. It is a
// placeholder, not a measurement, and keeps ratios downstream finite.
var EmptyDimensions = Dimensions{Width: 1, Height: 1, Depth: 1}

// PrintModel summarizes the geometry of one mesh file
type PrintModel struct {
	VolumeMm3      float64    `json:"volume_mm3"`
	SurfaceAreaMm2 float64    `json:"surface_area_mm2"`
	HeightMm       float64    `json:"height_mm"`
	Dimensions     Dimensions `json:"dimensions"`
}

// VertexSource is a vertex iterator such as *reader.Stream
type VertexSource interface {
	Next() bool
	Vertex() reader.Vertex
	Err() error
}

// Builder accumulates volume, surface area and bounds from vertices fed in
// triangle order. A trailing one or two vertices that do not complete a
// triangle are ignored.
type Builder struct {
	pending     [2]geometry.Vector3
	n           int
	signedVol   float64
	area        float64
	bounds      geometry.BoundingBox
	vertexCount int
	triangles   int
	longestEdge float64
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{bounds: geometry.NewBoundingBox()}
}

// Add feeds the next vertex
func (b *Builder) Add(v reader.Vertex) {
	p := geometry.FromFloat32(v.X, v.Y, v.Z)
	b.bounds.Extend(p)
	b.vertexCount++

	if b.n < 2 {
		b.pending[b.n] = p
		b.n++
		return
	}

	tri := geometry.NewTriangle(b.pending[0], b.pending[1], p)
	b.signedVol += tri.SignedVolume()
	b.area += tri.Area()
	b.longestEdge = math.Max(b.longestEdge, tri.LongestEdge())
	b.triangles++
	b.n = 0
}

// Triangles returns the number of complete triangles seen so far
func (b *Builder) Triangles() int {
	return b.triangles
}

// Vertices returns the number of vertices seen so far
func (b *Builder) Vertices() int {
	return b.vertexCount
}

// Bounds returns the bounding box of every vertex seen so far
func (b *Builder) Bounds() geometry.BoundingBox {
	return b.bounds
}

// LongestEdge returns the longest triangle edge seen so far
func (b *Builder) LongestEdge() float64 {
	return b.longestEdge
}

// Model returns the measurements accumulated so far
func (b *Builder) Model() PrintModel {
	dims := EmptyDimensions
	if !b.bounds.IsEmpty() {
		size := b.bounds.Size()
		dims = Dimensions{Width: size.X, Height: size.Y, Depth: size.Z}
	}

	return PrintModel{
		VolumeMm3:      math.Abs(b.signedVol),
		SurfaceAreaMm2: b.area,
		HeightMm:       dims.Height,
		Dimensions:     dims,
	}
}

// Build drains src and returns the resulting model
func Build(src VertexSource) (PrintModel, error) {
	b := NewBuilder()
	for src.Next() {
		b.Add(src.Vertex())
	}
	if err := src.Err(); err != nil {
		return PrintModel{}, err
	}
	return b.Model(), nil
}
