package scan

import (
	"fmt"
	"math"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/units"
)

// borderSlewMinutes is the fixed budget for slewing to the scan start and
// back from its end.
const borderSlewMinutes = 5.0

// Generator builds scans from a slit width, timing parameters, and the
// target's apparent angular diameter at the scan start time. Inputs must
// already be expressed in the generator's units.
type Generator struct {
	FOVWidth    float64 // slit width along x, in AngularUnit
	Target      string
	StartTime   time.Time
	TimeUnit    units.Time
	AngularUnit units.Angle

	MeasurementSlewRate float64 // vertical rate while scanning, instrument-limited
	TransferSlewRate    float64 // rate between lines, spacecraft-limited

	TargetAngularDiameter float64 // apparent diameter at StartTime, in AngularUnit
}

// NewGenerator validates and returns the generator.
func NewGenerator(g Generator) (*Generator, error) {
	if g.FOVWidth <= 0 {
		return nil, fmt.Errorf("%w: FOV width must be positive: %g", mosaic.ErrInvalidParameter, g.FOVWidth)
	}
	if g.Target == "" {
		return nil, fmt.Errorf("%w: target must be set", mosaic.ErrInvalidParameter)
	}
	if g.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time must be set", mosaic.ErrInvalidParameter)
	}
	if g.MeasurementSlewRate <= 0 {
		return nil, fmt.Errorf("%w: measurement slew rate must be positive: %g", mosaic.ErrInvalidParameter, g.MeasurementSlewRate)
	}
	if g.TransferSlewRate <= 0 {
		return nil, fmt.Errorf("%w: transfer slew rate must be positive: %g", mosaic.ErrInvalidParameter, g.TransferSlewRate)
	}
	if g.TargetAngularDiameter <= 0 {
		return nil, fmt.Errorf("%w: target angular diameter must be positive: %g", mosaic.ErrInvalidParameter, g.TargetAngularDiameter)
	}
	return &g, nil
}

// GenerateSymmetric builds a scan covering the full disk plus margin,
// symmetric about the target center. Each line sweeps the whole vertical
// extent top to bottom in one continuous slew.
func (g *Generator) GenerateSymmetric(margin, minOverlap float64) (*Scan, error) {
	if err := validateMarginOverlap(margin, minOverlap); err != nil {
		return nil, err
	}
	diameterToCover := g.TargetAngularDiameter * (1.0 + margin)
	plan, err := mosaic.OptimizeStepsCentered(diameterToCover, g.FOVWidth, minOverlap)
	if err != nil {
		return nil, err
	}
	return g.buildScan(plan, diameterToCover)
}

// GenerateSunside builds a scan whose horizontal extent covers only the
// illuminated shape's width plus margin, centered on the shape. Lines are
// not filtered against the shape: every line still sweeps the full disk
// height, so a line that clips the terminator is kept as generated.
func (g *Generator) GenerateSunside(margin, minOverlap float64, shape geometry.Polygon) (*Scan, error) {
	if err := validateMarginOverlap(margin, minOverlap); err != nil {
		return nil, err
	}
	if len(shape) < 3 {
		return nil, fmt.Errorf("%w: illuminated shape must have at least 3 vertices", mosaic.ErrInvalidParameter)
	}
	diameterToCover := g.TargetAngularDiameter * (1.0 + margin)

	minX, maxX := shape.BoundsX()
	shapeWidth := (maxX - minX) * (1.0 + margin)
	plan, err := mosaic.OptimizeStepsCentered(shapeWidth, g.FOVWidth, minOverlap)
	if err != nil {
		return nil, err
	}
	// Recenter the line placement on the shape, not on the disk.
	plan.Start += (maxX + minX) / 2

	return g.buildScan(plan, diameterToCover)
}

// buildScan assembles the Scan from a horizontal stepping plan and the
// vertical extent to sweep.
func (g *Generator) buildScan(plan mosaic.SteppingPlan, diameterToCover float64) (*Scan, error) {
	return NewScan(Scan{
		FOVWidth:       g.FOVWidth,
		Target:         g.Target,
		StartTime:      g.StartTime,
		TimeUnit:       g.TimeUnit,
		AngularUnit:    g.AngularUnit,
		ScanSlewRate:   g.MeasurementSlewRate,
		LineSlewTime:   math.Abs(plan.Step) / g.TransferSlewRate,
		BorderSlewTime: units.ConvertTime(borderSlewMinutes, units.Min, g.TimeUnit),
		Start:          geom.Coord{X: plan.Start, Y: diameterToCover / 2},
		Delta:          geom.Coord{X: plan.Step, Y: -diameterToCover},
		NumberOfLines:  plan.Count,
	})
}

// validateMarginOverlap checks the shared generator preconditions.
func validateMarginOverlap(margin, minOverlap float64) error {
	if margin <= -1.0 {
		return fmt.Errorf("%w: margin must be larger than -1.0: %g", mosaic.ErrInvalidParameter, margin)
	}
	if minOverlap < 0.0 || minOverlap >= 1.0 {
		return fmt.Errorf("%w: overlap must be in [0.0, 1.0): %g", mosaic.ErrInvalidParameter, minOverlap)
	}
	return nil
}
