// Package estimate predicts filament use and print duration from a
// PrintModel and a PrinterProfile.
//
// Both estimators split the print into a first layer, the main layers and
// supports. The first layer is computed first and its volume is subtracted
// before the main layers are sized.
package estimate

import (
	"errors"
	"math"

	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

var (
	// ErrNilModel is returned when no model is passed to an estimator
	ErrNilModel = errors.New("estimate: model must not be nil")
	// ErrNilProfile is returned when no profile is passed to an estimator
	ErrNilProfile = errors.New("estimate: profile must not be nil")
)

const (
	minFlowPercent = 0.01
	minFlowRate    = 0.001 // mm³/s
)

// FlowMultiplier converts a flow percentage to a factor, never below 0.0001
func FlowMultiplier(percent float64) float64 {
	return math.Max(percent, minFlowPercent) / 100
}

// ResolveSpeed picks the region specific speed, falling back to the general
// speed when it is not set, and derates it by the clamped efficiency.
func ResolveSpeed(specific, general, efficiency float64) float64 {
	base := specific
	if base <= 0 {
		base = math.Max(general, 0)
	}
	return base * clamp(efficiency, 0.1, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// LayerCalculation is the volume breakdown of one stage of the print
type LayerCalculation struct {
	HeightMm           float64
	VolumeMm3          float64
	PerimeterVolumeMm3 float64
	InfillVolumeMm3    float64
}

// Extruded returns the filament volume laid down in this stage
func (l LayerCalculation) Extruded() float64 {
	return l.PerimeterVolumeMm3 + l.InfillVolumeMm3
}

// perimeterVolume models the walls as the surface area unrolled into lines
// of the given width and height.
func perimeterVolume(surfaceArea, height, lineWidth float64, walls int, flowPercent float64) float64 {
	if height <= 0 {
		return 0
	}
	length := surfaceArea / height
	return length * lineWidth * height * float64(walls) * FlowMultiplier(flowPercent)
}

// degenerate reports whether a model is too small to estimate
func degenerate(m *mesh.PrintModel) bool {
	return m.VolumeMm3 <= 0 || m.HeightMm <= 0
}

// FirstLayer sizes the initial layer. Its height is capped by the model height.
func FirstLayer(m mesh.PrintModel, p profile.PrinterProfile) LayerCalculation {
	if m.HeightMm <= 0 {
		return LayerCalculation{}
	}

	height := math.Min(p.InitialLayerHeight, m.HeightMm)
	volume := m.VolumeMm3 * (height / m.HeightMm)

	return LayerCalculation{
		HeightMm:           height,
		VolumeMm3:          volume,
		PerimeterVolumeMm3: perimeterVolume(m.SurfaceAreaMm2, height, p.InitialLayerLineWidth, p.WallCount, p.FlowPercentPerimeter),
		InfillVolumeMm3:    volume * p.InfillDensity * FlowMultiplier(p.FlowPercentInfill),
	}
}

// MainLayers sizes everything above the first layer. VolumeMm3 is the model
// volume left after the first layer and is never negative.
func MainLayers(m mesh.PrintModel, p profile.PrinterProfile, first LayerCalculation) LayerCalculation {
	remaining := math.Max(0, m.VolumeMm3-first.VolumeMm3)
	if remaining <= 0 {
		return LayerCalculation{HeightMm: p.LayerHeight}
	}

	return LayerCalculation{
		HeightMm:           p.LayerHeight,
		VolumeMm3:          remaining,
		PerimeterVolumeMm3: perimeterVolume(m.SurfaceAreaMm2, p.LayerHeight, p.LineWidth, p.WallCount, p.FlowPercentPerimeter),
		InfillVolumeMm3:    remaining * p.InfillDensity * FlowMultiplier(p.FlowPercentInfill),
	}
}

// SupportVolume returns the support material volume, zero when supports are off
func SupportVolume(m mesh.PrintModel, p profile.PrinterProfile) float64 {
	if !p.SupportsEnabled {
		return 0
	}
	return m.VolumeMm3 * p.SupportVolumeFactor * p.SupportDensity
}

func checkArgs(m *mesh.PrintModel, p *profile.PrinterProfile) error {
	if m == nil {
		return ErrNilModel
	}
	if p == nil {
		return ErrNilProfile
	}
	return nil
}
