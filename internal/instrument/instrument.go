// Package instrument plans complete observations for concrete instruments:
// it queries a geometry provider, derives exposure and dwell times from
// smear limits, runs the mosaic and scan generators, and compensates for
// the target growing during the observation.
package instrument

import (
	"fmt"

	"github.com/jbeda/geom"
)

// Camera describes a framing camera that acquires one frame per mosaic
// position.
type Camera struct {
	Name          string
	FOV           geom.Coord // full field of view, deg
	DetectorPxX   int
	DetectorPxY   int
	SlewRate      float64 // spacecraft slew rate while repointing, deg/s
	FilterSwitch  float64 // time to rotate the filter wheel one position, s
	BitsPerPixel  int
	MaxSmearPx    float64 // scene motion budget during one exposure, pixels
	MaxExposure   float64 // hard exposure ceiling, s
}

// DefaultCamera returns the narrow-angle framing camera configuration.
func DefaultCamera() Camera {
	return Camera{
		Name:         "NAC",
		FOV:          geom.Coord{X: 1.72, Y: 1.29},
		DetectorPxX:  2000,
		DetectorPxY:  1504,
		SlewRate:     0.025,
		FilterSwitch: 5.0,
		BitsPerPixel: 14,
		MaxSmearPx:   0.25,
		MaxExposure:  20.0,
	}
}

// Validate checks the camera configuration.
func (c Camera) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("camera: name must be set")
	}
	if c.FOV.X <= 0 || c.FOV.Y <= 0 {
		return fmt.Errorf("camera %s: FOV must be positive: (%g, %g)", c.Name, c.FOV.X, c.FOV.Y)
	}
	if c.DetectorPxX <= 0 || c.DetectorPxY <= 0 {
		return fmt.Errorf("camera %s: detector size must be positive: %dx%d", c.Name, c.DetectorPxX, c.DetectorPxY)
	}
	if c.SlewRate <= 0 {
		return fmt.Errorf("camera %s: slew rate must be positive: %g", c.Name, c.SlewRate)
	}
	if c.FilterSwitch < 0 {
		return fmt.Errorf("camera %s: filter switch time must be non-negative: %g", c.Name, c.FilterSwitch)
	}
	if c.BitsPerPixel <= 0 {
		return fmt.Errorf("camera %s: bits per pixel must be positive: %d", c.Name, c.BitsPerPixel)
	}
	if c.MaxSmearPx <= 0 {
		return fmt.Errorf("camera %s: smear budget must be positive: %g", c.Name, c.MaxSmearPx)
	}
	if c.MaxExposure <= 0 {
		return fmt.Errorf("camera %s: max exposure must be positive: %g", c.Name, c.MaxExposure)
	}
	return nil
}

// FrameMbits returns the data volume of one frame through one filter.
func (c Camera) FrameMbits() float64 {
	return float64(c.DetectorPxX) * float64(c.DetectorPxY) * float64(c.BitsPerPixel) / 1e6
}

// Slit describes a pushbroom spectrometer slit that sweeps lines across the
// target.
type Slit struct {
	Name          string
	Width         float64 // slit length across track, deg
	Height        float64 // slit height along track, deg
	LineMbits     float64 // data volume per acquired line
	MaxTransfer   float64 // spacecraft slew rate between lines, deg/s
	LineDwell     float64 // integration time per slit-height line, s
}

// DefaultSlit returns the imaging spectrometer slit configuration. The
// slit height is 125 microradians.
func DefaultSlit() Slit {
	return Slit{
		Name:        "VIS-NIR",
		Width:       3.4,
		Height:      125e-6 * 180 / 3.141592653589793,
		LineMbits:   7.168,
		MaxTransfer: 0.025,
		LineDwell:   0.5,
	}
}

// Validate checks the slit configuration.
func (s Slit) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("slit: name must be set")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("slit %s: dimensions must be positive: (%g, %g)", s.Name, s.Width, s.Height)
	}
	if s.LineMbits <= 0 {
		return fmt.Errorf("slit %s: line data volume must be positive: %g", s.Name, s.LineMbits)
	}
	if s.MaxTransfer <= 0 {
		return fmt.Errorf("slit %s: transfer rate must be positive: %g", s.Name, s.MaxTransfer)
	}
	if s.LineDwell <= 0 {
		return fmt.Errorf("slit %s: line dwell must be positive: %g", s.Name, s.LineDwell)
	}
	return nil
}

// MeasurementRate returns the vertical scan rate that gives every
// slit-height line its full integration time, in deg/s.
func (s Slit) MeasurementRate() float64 {
	return s.Height / s.LineDwell
}
