package mosaic

import (
	"fmt"
	"math"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

// tourOptimizationPasses bounds the 2-opt improvement rounds applied to
// sun-side visiting orders.
const tourOptimizationPasses = 10

// Generator builds disk mosaics from a FOV, timing parameters, and the
// target's apparent angular diameter at the mosaic start time. The angular
// diameter (and, for sun-side mosaics, the illuminated shape) come from an
// external geometry query and must already be expressed in AngularUnit;
// the generator performs no unit conversion.
type Generator struct {
	FOVSize     geom.Coord
	Target      string
	StartTime   time.Time
	TimeUnit    units.Time
	AngularUnit units.Angle

	DwellTime float64 // per frame, in TimeUnit
	SlewRate  float64 // AngularUnit per TimeUnit

	TargetAngularDiameter float64 // apparent diameter at StartTime, in AngularUnit
}

// NewGenerator validates and returns the generator.
func NewGenerator(g Generator) (*Generator, error) {
	if g.FOVSize.X <= 0 || g.FOVSize.Y <= 0 {
		return nil, fmt.Errorf("%w: FOV size must be positive: (%g, %g)", ErrInvalidParameter, g.FOVSize.X, g.FOVSize.Y)
	}
	if g.Target == "" {
		return nil, fmt.Errorf("%w: target must be set", ErrInvalidParameter)
	}
	if g.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time must be set", ErrInvalidParameter)
	}
	if g.DwellTime < 0 {
		return nil, fmt.Errorf("%w: dwell time must be non-negative: %g", ErrInvalidParameter, g.DwellTime)
	}
	if g.SlewRate <= 0 {
		return nil, fmt.Errorf("%w: slew rate must be positive: %g", ErrInvalidParameter, g.SlewRate)
	}
	if g.TargetAngularDiameter <= 0 {
		return nil, fmt.Errorf("%w: target angular diameter must be positive: %g", ErrInvalidParameter, g.TargetAngularDiameter)
	}
	return &g, nil
}

// GenerateSymmetric builds a symmetric raster mosaic covering the target
// disk plus the given fractional margin, with at least minOverlap
// fractional overlap between neighboring frames on both axes.
func (g *Generator) GenerateSymmetric(margin, minOverlap float64) (*DiskMosaic, error) {
	if err := validateMarginOverlap(margin, minOverlap); err != nil {
		return nil, err
	}
	diameterToCover := g.TargetAngularDiameter * (1.0 + margin)

	xPlan, err := OptimizeStepsCentered(diameterToCover, g.FOVSize.X, minOverlap)
	if err != nil {
		return nil, err
	}
	yPlan, err := OptimizeStepsCentered(diameterToCover, g.FOVSize.Y, minOverlap)
	if err != nil {
		return nil, err
	}

	// Slew through points along y within a line, through lines along x.
	return NewDiskMosaic(DiskMosaic{
		FOVSize:       g.FOVSize,
		Target:        g.Target,
		StartTime:     g.StartTime,
		TimeUnit:      g.TimeUnit,
		AngularUnit:   g.AngularUnit,
		DwellTime:     g.DwellTime,
		PointSlewTime: math.Abs(yPlan.Step) / g.SlewRate,
		LineSlewTime:  math.Abs(xPlan.Step) / g.SlewRate,
		Start:         geom.Coord{X: xPlan.Start, Y: yPlan.Start},
		Delta:         geom.Coord{X: xPlan.Step, Y: yPlan.Step},
		PointsX:       xPlan.Count,
		PointsY:       yPlan.Count,
	})
}

// GenerateSunside builds a mosaic restricted to the sunlit portion of the
// disk. The vertical extent covers the whole disk plus margin; the
// horizontal extent covers only the illuminated shape's own width plus
// margin, centered on the shape. Grid frames with no overlap with the
// shape are dropped and the survivors are reordered into a short tour.
func (g *Generator) GenerateSunside(margin, minOverlap float64, shape geometry.Polygon) (*CustomMosaic, error) {
	if err := validateMarginOverlap(margin, minOverlap); err != nil {
		return nil, err
	}
	if len(shape) < 3 {
		return nil, fmt.Errorf("%w: illuminated shape must have at least 3 vertices", ErrInvalidParameter)
	}
	diameterToCover := g.TargetAngularDiameter * (1.0 + margin)

	yPlan, err := OptimizeStepsCentered(diameterToCover, g.FOVSize.Y, minOverlap)
	if err != nil {
		return nil, err
	}

	minX, maxX := shape.BoundsX()
	shapeWidth := (maxX - minX) * (1.0 + margin)
	xPlan, err := OptimizeStepsCentered(shapeWidth, g.FOVSize.X, minOverlap)
	if err != nil {
		return nil, err
	}
	// Recenter the horizontal placement on the shape, not on the disk.
	xPlan.Start += (maxX + minX) / 2

	// Full serpentine grid, then drop frames that miss the sunlit shape.
	grid := &DiskMosaic{
		FOVSize:     g.FOVSize,
		Target:      g.Target,
		StartTime:   g.StartTime,
		TimeUnit:    g.TimeUnit,
		AngularUnit: g.AngularUnit,
		DwellTime:   g.DwellTime,
		Start:       geom.Coord{X: xPlan.Start, Y: yPlan.Start},
		Delta:       geom.Coord{X: xPlan.Step, Y: yPlan.Step},
		PointsX:     xPlan.Count,
		PointsY:     yPlan.Count,
	}
	var kept []geom.Coord
	for _, r := range grid.Rectangles() {
		if shape.OverlapsRect(r) {
			kept = append(kept, r.Center)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no frames overlap the illuminated shape", ErrInvalidParameter)
	}

	order := SolveTour(distanceMatrix(kept), tourOptimizationPasses)
	sorted := make([]geom.Coord, len(kept))
	for i, idx := range order {
		sorted[i] = kept[idx]
	}

	return NewCustomMosaic(CustomMosaic{
		FOVSize:     g.FOVSize,
		Target:      g.Target,
		StartTime:   g.StartTime,
		TimeUnit:    g.TimeUnit,
		AngularUnit: g.AngularUnit,
		DwellTime:   g.DwellTime,
		SlewRate:    g.SlewRate,
		Points:      sorted,
	})
}

// validateMarginOverlap checks the shared generator preconditions.
func validateMarginOverlap(margin, minOverlap float64) error {
	if margin <= -1.0 {
		return fmt.Errorf("%w: margin must be larger than -1.0: %g", ErrInvalidParameter, margin)
	}
	if minOverlap < 0.0 || minOverlap >= 1.0 {
		return fmt.Errorf("%w: overlap must be in [0.0, 1.0): %g", ErrInvalidParameter, minOverlap)
	}
	return nil
}

// distanceMatrix builds the full pairwise Euclidean distance matrix.
func distanceMatrix(points []geom.Coord) [][]float64 {
	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = points[j].Minus(points[i]).Magnitude()
		}
	}
	return dist
}
