package estimate

import (
	"math"
	"time"

	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/profile"
)

// TimeBreakdown holds the stage durations behind a print time estimate.
// Stage values are before calibration; Total includes it.
type TimeBreakdown struct {
	FirstLayer  time.Duration
	MainLayers  time.Duration
	Travel      time.Duration
	Support     time.Duration
	Calibration float64
	Total       time.Duration
}

// extrusionSeconds converts a volume to seconds at the given volumetric flow
func extrusionSeconds(volume, flow float64) float64 {
	return volume / math.Max(flow, minFlowRate)
}

// maxSeconds is the largest second count a time.Duration can hold
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// seconds converts s to a Duration, saturating instead of overflowing
func seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	if s >= maxSeconds {
		return math.MaxInt64
	}
	return time.Duration(s * float64(time.Second))
}

// AddDurations sums durations, saturating at the largest Duration.
// Negative inputs are treated as zero.
func AddDurations(ds ...time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		if d <= 0 {
			continue
		}
		if total > math.MaxInt64-d {
			return math.MaxInt64
		}
		total += d
	}
	return total
}

// EstimatePrintTime predicts how long printing m with p takes
func EstimatePrintTime(m *mesh.PrintModel, p *profile.PrinterProfile) (time.Duration, error) {
	b, err := EstimatePrintTimeBreakdown(m, p)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// EstimatePrintTimeBreakdown is EstimatePrintTime with per stage durations.
// Degenerate models, including models without surface area, yield zero.
func EstimatePrintTimeBreakdown(m *mesh.PrintModel, p *profile.PrinterProfile) (TimeBreakdown, error) {
	if err := checkArgs(m, p); err != nil {
		return TimeBreakdown{}, err
	}
	if degenerate(m) || m.SurfaceAreaMm2 <= 0 {
		return TimeBreakdown{}, nil
	}

	first := FirstLayer(*m, *p)
	firstSecs := firstLayerSeconds(first, *p)
	mainSecs := mainLayerSeconds(MainLayers(*m, *p, first), *p)

	extrusion := firstSecs + mainSecs
	travel := extrusion * clamp(p.TravelTimeFactor, 0.05, 0.5)
	support := supportSeconds(*m, *p)
	calibration := clamp(p.CalibrationFactor, 0.5, 2.5)
	total := math.Max(0, (extrusion+travel+support)*calibration)

	return TimeBreakdown{
		FirstLayer:  seconds(firstSecs),
		MainLayers:  seconds(mainSecs),
		Travel:      seconds(travel),
		Support:     seconds(support),
		Calibration: calibration,
		Total:       seconds(total),
	}, nil
}

func firstLayerSeconds(l LayerCalculation, p profile.PrinterProfile) float64 {
	wall := ResolveSpeed(p.InitialLayerPrintSpeedWall, p.InitialLayerPrintSpeedGeneral, p.WallSpeedEfficiency)
	infill := ResolveSpeed(p.InitialLayerPrintSpeedInfill, p.InitialLayerPrintSpeedGeneral, p.InfillSpeedEfficiency)

	lane := p.InitialLayerLineWidth * l.HeightMm
	return extrusionSeconds(l.PerimeterVolumeMm3, lane*wall) +
		extrusionSeconds(l.InfillVolumeMm3, lane*infill)
}

func mainLayerSeconds(l LayerCalculation, p profile.PrinterProfile) float64 {
	if l.VolumeMm3 <= 0 {
		return 0
	}

	wall := ResolveSpeed(p.PrintSpeedWall, p.PrintSpeedGeneral, p.WallSpeedEfficiency)
	infill := ResolveSpeed(p.PrintSpeedInfill, p.PrintSpeedGeneral, p.InfillSpeedEfficiency)

	lane := p.LineWidth * p.LayerHeight
	return extrusionSeconds(l.PerimeterVolumeMm3, lane*wall) +
		extrusionSeconds(l.InfillVolumeMm3, lane*infill)
}

func supportSeconds(m mesh.PrintModel, p profile.PrinterProfile) float64 {
	if !p.SupportsEnabled {
		return 0
	}

	speed := ResolveSpeed(p.PrintSpeedSupport, p.PrintSpeedGeneral, p.SupportSpeedEfficiency)
	printing := extrusionSeconds(SupportVolume(m, p), p.LineWidth*p.LayerHeight*speed)
	return printing + printing*p.SupportTravelFactor
}
