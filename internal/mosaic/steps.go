// Package mosaic generates raster and custom (sun-side) mosaic pointing
// plans: evenly spaced frame grids that cover a target disk with a minimum
// number of frames under overlap and margin constraints, serialized as
// pointing-request blocks.
package mosaic

import (
	"fmt"
	"math"
)

// stepEpsilon counteracts floating-point rounding in the step-count
// division: without it, an exact integer quotient can round up and add a
// frame that is not needed.
const stepEpsilon = 1e-5

// SteppingPlan is the result of the 1-D centered placement optimizer:
// Count frame centers at Start + i*Step for i in [0, Count).
type SteppingPlan struct {
	Count int
	Start float64
	Step  float64
}

// Positions returns the frame center positions in placement order.
func (p SteppingPlan) Positions() []float64 {
	out := make([]float64, p.Count)
	for i := range out {
		out[i] = p.Start + float64(i)*p.Step
	}
	return out
}

// OptimizeStepsCentered places frame centers along one axis so that
// [-diameterToCover/2, +diameterToCover/2] is covered by frames of width
// frameWidth with at least minOverlap fractional overlap between neighbors,
// using the fewest frames possible, symmetric about 0.
//
// With a single frame the step value is a placeholder (1.0). With an even
// number of steps (odd frame count) one frame is guaranteed exactly at 0;
// with an odd number of steps no frame passes through the center. Downstream
// serialization depends on this exact tie-break.
func OptimizeStepsCentered(diameterToCover, frameWidth, minOverlap float64) (SteppingPlan, error) {
	if frameWidth <= 0.0 {
		return SteppingPlan{}, fmt.Errorf("%w: frame width must be positive: %g", ErrInvalidParameter, frameWidth)
	}
	if minOverlap < 0.0 || minOverlap >= 1.0 {
		return SteppingPlan{}, fmt.Errorf("%w: overlap must be in [0.0, 1.0): %g", ErrInvalidParameter, minOverlap)
	}

	// One frame suffices.
	if diameterToCover <= frameWidth {
		return SteppingPlan{Count: 1, Start: 0.0, Step: 1.0}, nil
	}

	effectiveFOV := frameWidth * (1 - minOverlap)
	steps := int(math.Ceil((diameterToCover-frameWidth)/effectiveFOV - stepEpsilon))

	if steps%2 == 1 {
		// Odd step count: even number of frames, none through the center.
		first := -diameterToCover/2 + frameWidth/2
		last := -first
		return SteppingPlan{
			Count: steps + 1,
			Start: first,
			Step:  (last - first) / float64(steps),
		}, nil
	}

	// Even step count: odd number of frames, one exactly at 0.
	edge := -diameterToCover/2 + frameWidth/2
	return SteppingPlan{
		Count: steps + 1,
		Start: edge,
		Step:  (0 - edge) / float64(steps/2),
	}, nil
}
