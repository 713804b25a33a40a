package estimate

import (
	"math"

	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

const (
	// FilamentDiameterMm is the assumed filament diameter
	FilamentDiameterMm = 1.75
	// FilamentDensity is the assumed material density in g/mm³ (PLA)
	FilamentDensity = 0.00124
)

// filamentArea is the cross section of the filament in mm²
var filamentArea = math.Pi * math.Pow(FilamentDiameterMm/2, 2)

// MaterialEstimate is the predicted filament consumption
type MaterialEstimate struct {
	VolumeMm3            float64 `json:"volume_mm3"`
	FilamentLengthMeters float64 `json:"filament_length_m"`
	WeightGrams          float64 `json:"weight_g"`
}

// EstimateMaterial predicts the filament used to print m with p.
// Degenerate models yield a zero estimate.
func EstimateMaterial(m *mesh.PrintModel, p *profile.PrinterProfile) (MaterialEstimate, error) {
	if err := checkArgs(m, p); err != nil {
		return MaterialEstimate{}, err
	}
	if degenerate(m) {
		return MaterialEstimate{}, nil
	}

	first := FirstLayer(*m, *p)
	rest := MainLayers(*m, *p, first)
	total := first.Extruded() + rest.Extruded() + SupportVolume(*m, *p)

	return MaterialEstimate{
		VolumeMm3:            total,
		FilamentLengthMeters: total / filamentArea / 1000,
		WeightGrams:          total * FilamentDensity,
	}, nil
}
