// Package profile defines printer profiles and the registry that holds them.
package profile

import (
	"fmt"

	"github.com/google/uuid"
)

// ReferenceID identifies the built-in reference profile
var ReferenceID = uuid.Nil

// ReferenceName is the display name of the reference profile
const ReferenceName = "Reference 0.4mm FDM Printer"

// PrinterProfile describes the slicer settings used for estimates.
//
// Speeds are in mm/s, lengths in mm, flows in percent (100 = nominal),
// densities and efficiencies as 0..1 fractions. Out of range efficiencies and
// calibration factors are accepted here and clamped by the estimators.
type PrinterProfile struct {
	ID   uuid.UUID `yaml:"id"`
	Name string    `yaml:"name"`

	// Hardware
	NozzleDiameter float64 `yaml:"nozzle_diameter"`

	// Normal layers
	LayerHeight float64 `yaml:"layer_height"`
	LineWidth   float64 `yaml:"line_width"`

	// Initial layer
	InitialLayerHeight        float64 `yaml:"initial_layer_height"`
	InitialLayerLineWidth     float64 `yaml:"initial_layer_line_width"`
	InitialLayerFlowGeneral   float64 `yaml:"initial_layer_flow_general"`
	InitialLayerFlowPerimeter float64 `yaml:"initial_layer_flow_perimeter"`
	InitialLayerFlowInfill    float64 `yaml:"initial_layer_flow_infill"`

	// Flow
	FlowPercentGeneral   float64 `yaml:"flow_percent_general"`
	FlowPercentPerimeter float64 `yaml:"flow_percent_perimeter"`
	FlowPercentInfill    float64 `yaml:"flow_percent_infill"`

	// Speeds
	PrintSpeedGeneral float64 `yaml:"print_speed_general"`
	PrintSpeedWall    float64 `yaml:"print_speed_wall"`
	PrintSpeedInfill  float64 `yaml:"print_speed_infill"`
	TravelSpeed       float64 `yaml:"travel_speed"`

	InitialLayerPrintSpeedWall    float64 `yaml:"initial_layer_print_speed_wall"`
	InitialLayerPrintSpeedInfill  float64 `yaml:"initial_layer_print_speed_infill"`
	InitialLayerPrintSpeedGeneral float64 `yaml:"initial_layer_print_speed_general"`
	InitialLayerTravelSpeed       float64 `yaml:"initial_layer_travel_speed"`

	// Efficiency
	WallSpeedEfficiency   float64 `yaml:"wall_speed_efficiency"`
	InfillSpeedEfficiency float64 `yaml:"infill_speed_efficiency"`

	// Geometry
	WallCount     int     `yaml:"wall_count"`
	InfillDensity float64 `yaml:"infill_density"`

	// Supports
	SupportsEnabled        bool    `yaml:"supports_enabled"`
	SupportDensity         float64 `yaml:"support_density"`
	SupportVolumeFactor    float64 `yaml:"support_volume_factor"`
	PrintSpeedSupport      float64 `yaml:"print_speed_support"`
	SupportSpeedEfficiency float64 `yaml:"support_speed_efficiency"`
	SupportTravelFactor    float64 `yaml:"support_travel_factor"`

	// Time calibration
	TravelTimeFactor  float64 `yaml:"travel_time_factor"`
	CalibrationFactor float64 `yaml:"calibration_factor"`
}

// Reference returns a fresh copy of the built-in reference profile
func Reference() PrinterProfile {
	return PrinterProfile{
		ID:   ReferenceID,
		Name: ReferenceName,

		NozzleDiameter: 0.4,

		LayerHeight: 0.2,
		LineWidth:   0.4,

		InitialLayerHeight:        0.2,
		InitialLayerLineWidth:     0.4,
		InitialLayerFlowGeneral:   1.0,
		InitialLayerFlowPerimeter: 1.0,
		InitialLayerFlowInfill:    1.0,

		FlowPercentGeneral:   100,
		FlowPercentPerimeter: 100,
		FlowPercentInfill:    100,

		PrintSpeedGeneral: 50,
		PrintSpeedWall:    35,
		PrintSpeedInfill:  50,
		TravelSpeed:       150,

		InitialLayerPrintSpeedWall:    25,
		InitialLayerPrintSpeedInfill:  25,
		InitialLayerPrintSpeedGeneral: 25,
		InitialLayerTravelSpeed:       100,

		WallSpeedEfficiency:   0.95,
		InfillSpeedEfficiency: 0.95,

		WallCount:       2,
		InfillDensity:   0.2,
		SupportsEnabled: false,

		TravelTimeFactor:  0.1,
		CalibrationFactor: 0.85,
	}
}

// Derive returns a copy of the reference profile with a new id and name.
// It is the starting point for user defined profiles.
func Derive(name string) PrinterProfile {
	p := Reference()
	p.ID = uuid.New()
	p.Name = name
	return p
}

// IsReference reports whether p is the built-in profile
func (p PrinterProfile) IsReference() bool {
	return p.ID == ReferenceID
}

// Validate checks the invariants a stored profile must satisfy
func (p PrinterProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile %s: name must be specified", p.ID)
	}
	if p.WallCount < 0 {
		return fmt.Errorf("profile %q: wall_count must not be negative, got %d", p.Name, p.WallCount)
	}
	if p.InfillDensity < 0 || p.InfillDensity > 1 {
		return fmt.Errorf("profile %q: infill_density must be between 0 and 1, got %g", p.Name, p.InfillDensity)
	}
	if p.LayerHeight < 0 || p.InitialLayerHeight < 0 {
		return fmt.Errorf("profile %q: layer heights must not be negative", p.Name)
	}
	return nil
}
