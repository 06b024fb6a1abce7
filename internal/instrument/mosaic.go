package instrument

import (
	"fmt"
	"io"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/ephem"
	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/logging"
	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/units"
)

// Growth compensation reruns the generator with the angular diameter at the
// end of the previous attempt until the duration settles.
const (
	maxGrowthIterations = 10
	growthConvergence   = time.Second
)

// MosaicPlanner turns a camera, a geometry provider, and an observation
// request into a ready pointing plan.
type MosaicPlanner struct {
	Camera   Camera
	Provider ephem.Provider
	Log      *logging.Logger

	TimeUnit    units.Time
	AngularUnit units.Angle
}

// MosaicRequest is one planned mosaic observation.
type MosaicRequest struct {
	Target    string
	StartTime time.Time
	Margin    float64
	Overlap   float64

	// Filters is the number of filter-wheel positions imaged per mosaic
	// position. Must be at least 1.
	Filters int

	// Exposure is the per-filter exposure time in seconds. Zero derives
	// the longest exposure the smear budget allows at StartTime.
	Exposure float64
}

// MosaicPlan is a planned mosaic with its derived bookkeeping. Exactly one
// of Disk and Custom is set.
type MosaicPlan struct {
	Disk   *mosaic.DiskMosaic
	Custom *mosaic.CustomMosaic

	Target          string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	FrameCount      int
	Filters         int
	Exposure        float64 // per filter, s
	DwellTime       float64 // per position, TimeUnit of the planner
	DataVolumeMbits float64
	Iterations      int

	timeUnit units.Time
}

// CenterPoints returns the frame centers in acquisition order.
func (p *MosaicPlan) CenterPoints() []geom.Coord {
	if p.Disk != nil {
		return p.Disk.CenterPoints()
	}
	return p.Custom.CenterPoints()
}

// Rectangles returns the frame footprints in acquisition order.
func (p *MosaicPlan) Rectangles() []geometry.Rectangle {
	if p.Disk != nil {
		return p.Disk.Rectangles()
	}
	return p.Custom.Rectangles()
}

// WritePTR writes the plan's pointing request block.
func (p *MosaicPlan) WritePTR(w io.Writer, decimalPlaces int) {
	if p.Disk != nil {
		p.Disk.WritePTR(w, decimalPlaces)
		return
	}
	p.Custom.WritePTR(w, decimalPlaces)
}

func (pl *MosaicPlanner) validate(req MosaicRequest) error {
	if err := pl.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: %v", mosaic.ErrInvalidParameter, err)
	}
	if pl.Provider == nil {
		return fmt.Errorf("%w: planner needs a geometry provider", mosaic.ErrInvalidParameter)
	}
	if req.Target == "" {
		return fmt.Errorf("%w: target must be set", mosaic.ErrInvalidParameter)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start time must be set", mosaic.ErrInvalidParameter)
	}
	if req.Filters < 1 {
		return fmt.Errorf("%w: filter count must be at least 1: %d", mosaic.ErrInvalidParameter, req.Filters)
	}
	if req.Exposure < 0 {
		return fmt.Errorf("%w: exposure must be non-negative: %g", mosaic.ErrInvalidParameter, req.Exposure)
	}
	if !pl.Provider.Available(req.Target) {
		return fmt.Errorf("%w: provider %s has no geometry for %q",
			ephem.ErrGeometryUnavailable, pl.Provider.Name(), req.Target)
	}
	return nil
}

// exposureFor returns the per-filter exposure in seconds: the requested
// value, or the smear-limited maximum when the request leaves it at zero.
func (pl *MosaicPlanner) exposureFor(req MosaicRequest) (float64, error) {
	if req.Exposure > 0 {
		return req.Exposure, nil
	}
	footprint, err := pl.Provider.PixelFootprint(req.Target, req.StartTime, pl.Camera.FOV.X, pl.Camera.DetectorPxX)
	if err != nil {
		return 0, err
	}
	velocity, err := pl.Provider.NadirSurfaceVelocity(req.Target, req.StartTime)
	if err != nil {
		return 0, err
	}
	if velocity <= 0 {
		return pl.Camera.MaxExposure, nil
	}
	exposure := pl.Camera.MaxSmearPx * footprint / velocity
	if exposure > pl.Camera.MaxExposure {
		exposure = pl.Camera.MaxExposure
	}
	pl.logf("smear-limited exposure for %s: %.3f s (footprint %.3f km, nadir velocity %.4f km/s)",
		req.Target, exposure, footprint, velocity)
	return exposure, nil
}

// dwellFor returns the per-position dwell in the planner's time unit: all
// filter exposures plus the wheel moves between them.
func (pl *MosaicPlanner) dwellFor(exposure float64, filters int) float64 {
	dwellSec := exposure*float64(filters) + pl.Camera.FilterSwitch*float64(filters-1)
	return units.ConvertTime(dwellSec, units.Sec, pl.TimeUnit)
}

func (pl *MosaicPlanner) generatorFor(req MosaicRequest, dwell, diameter float64) (*mosaic.Generator, error) {
	return mosaic.NewGenerator(mosaic.Generator{
		FOVSize: geom.Coord{
			X: units.ConvertAngle(pl.Camera.FOV.X, units.Deg, pl.AngularUnit),
			Y: units.ConvertAngle(pl.Camera.FOV.Y, units.Deg, pl.AngularUnit),
		},
		Target:                req.Target,
		StartTime:             req.StartTime,
		TimeUnit:              pl.TimeUnit,
		AngularUnit:           pl.AngularUnit,
		DwellTime:             dwell,
		SlewRate:              pl.slewRate(),
		TargetAngularDiameter: diameter,
	})
}

// slewRate returns the spacecraft slew rate in planner units.
func (pl *MosaicPlanner) slewRate() float64 {
	perSec := units.ConvertAngle(pl.Camera.SlewRate, units.Deg, pl.AngularUnit)
	return perSec * units.ConvertTime(1, pl.TimeUnit, units.Sec)
}

// PlanDisk plans a symmetric full-disk mosaic, enlarging the grid until it
// still covers the target at the end of the observation.
func (pl *MosaicPlanner) PlanDisk(req MosaicRequest) (*MosaicPlan, error) {
	if err := pl.validate(req); err != nil {
		return nil, err
	}
	exposure, err := pl.exposureFor(req)
	if err != nil {
		return nil, err
	}
	dwell := pl.dwellFor(exposure, req.Filters)

	diameter, err := pl.Provider.AngularDiameter(req.Target, req.StartTime, pl.AngularUnit)
	if err != nil {
		return nil, err
	}

	var m *mosaic.DiskMosaic
	var lastDuration time.Duration
	iterations := 0
	for i := 0; i < maxGrowthIterations; i++ {
		iterations = i + 1
		gen, err := pl.generatorFor(req, dwell, diameter)
		if err != nil {
			return nil, err
		}
		m, err = gen.GenerateSymmetric(req.Margin, req.Overlap)
		if err != nil {
			return nil, err
		}
		duration := m.Duration()
		pl.logf("disk mosaic iteration %d: %dx%d frames, diameter %.6g %s, duration %s",
			iterations, m.PointsX, m.PointsY, diameter, pl.AngularUnit, duration)

		endDiameter, err := pl.Provider.AngularDiameter(req.Target, m.EndTime(), pl.AngularUnit)
		if err != nil {
			return nil, err
		}
		converged := absDuration(duration-lastDuration) < growthConvergence
		lastDuration = duration
		if endDiameter <= diameter || converged {
			break
		}
		diameter = endDiameter
	}

	frames := m.PointsX * m.PointsY
	return pl.finishPlan(req, exposure, dwell, frames, iterations, m, nil), nil
}

// PlanSunside plans a mosaic restricted to the sunlit side of the target,
// with the same growth compensation as PlanDisk. The illuminated shape is
// re-queried each iteration alongside the diameter.
func (pl *MosaicPlanner) PlanSunside(req MosaicRequest) (*MosaicPlan, error) {
	if err := pl.validate(req); err != nil {
		return nil, err
	}
	exposure, err := pl.exposureFor(req)
	if err != nil {
		return nil, err
	}
	dwell := pl.dwellFor(exposure, req.Filters)

	diameter, err := pl.Provider.AngularDiameter(req.Target, req.StartTime, pl.AngularUnit)
	if err != nil {
		return nil, err
	}
	shape, err := pl.Provider.IlluminatedShape(req.Target, req.StartTime, pl.AngularUnit)
	if err != nil {
		return nil, err
	}

	var m *mosaic.CustomMosaic
	var lastDuration time.Duration
	iterations := 0
	for i := 0; i < maxGrowthIterations; i++ {
		iterations = i + 1
		gen, err := pl.generatorFor(req, dwell, diameter)
		if err != nil {
			return nil, err
		}
		m, err = gen.GenerateSunside(req.Margin, req.Overlap, shape)
		if err != nil {
			return nil, err
		}
		duration := m.Duration()
		pl.logf("sunside mosaic iteration %d: %d frames, diameter %.6g %s, duration %s",
			iterations, len(m.Points), diameter, pl.AngularUnit, duration)

		end := m.EndTime()
		endDiameter, err := pl.Provider.AngularDiameter(req.Target, end, pl.AngularUnit)
		if err != nil {
			return nil, err
		}
		converged := absDuration(duration-lastDuration) < growthConvergence
		lastDuration = duration
		if endDiameter <= diameter || converged {
			break
		}
		diameter = endDiameter
		shape, err = pl.Provider.IlluminatedShape(req.Target, end, pl.AngularUnit)
		if err != nil {
			return nil, err
		}
	}

	return pl.finishPlan(req, exposure, dwell, len(m.Points), iterations, nil, m), nil
}

func (pl *MosaicPlanner) finishPlan(req MosaicRequest, exposure, dwell float64, frames, iterations int,
	disk *mosaic.DiskMosaic, custom *mosaic.CustomMosaic) *MosaicPlan {

	plan := &MosaicPlan{
		Disk:            disk,
		Custom:          custom,
		Target:          req.Target,
		StartTime:       req.StartTime,
		FrameCount:      frames,
		Filters:         req.Filters,
		Exposure:        exposure,
		DwellTime:       dwell,
		DataVolumeMbits: float64(frames) * float64(req.Filters) * pl.Camera.FrameMbits(),
		Iterations:      iterations,
		timeUnit:        pl.TimeUnit,
	}
	if disk != nil {
		plan.Duration = disk.Duration()
		plan.EndTime = disk.EndTime()
	} else {
		plan.Duration = custom.Duration()
		plan.EndTime = custom.EndTime()
	}
	return plan
}

func (pl *MosaicPlanner) logf(format string, args ...interface{}) {
	if pl.Log != nil {
		pl.Log.Debug(format, args...)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
