package instrument

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/litescript/ls-mosaics/internal/ephem"
	"github.com/litescript/ls-mosaics/internal/logging"
	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/scan"
	"github.com/litescript/ls-mosaics/internal/units"
)

// ScanPlanner turns a spectrometer slit, a geometry provider, and an
// observation request into a ready slit-scan plan.
type ScanPlanner struct {
	Slit     Slit
	Provider ephem.Provider
	Log      *logging.Logger

	TimeUnit    units.Time
	AngularUnit units.Angle
}

// ScanRequest is one planned slit-scan observation.
type ScanRequest struct {
	Target    string
	StartTime time.Time
	Margin    float64
	Overlap   float64
}

// ScanPlan is a planned slit scan with its derived bookkeeping.
type ScanPlan struct {
	Scan *scan.Scan

	Target          string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	Lines           int
	DataVolumeMbits float64
	Iterations      int
}

// WritePTR writes the plan's pointing request block.
func (p *ScanPlan) WritePTR(w io.Writer, decimalPlaces int) {
	p.Scan.WritePTR(w, decimalPlaces)
}

func (pl *ScanPlanner) validate(req ScanRequest) error {
	if err := pl.Slit.Validate(); err != nil {
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
	if !pl.Provider.Available(req.Target) {
		return fmt.Errorf("%w: provider %s has no geometry for %q",
			ephem.ErrGeometryUnavailable, pl.Provider.Name(), req.Target)
	}
	return nil
}

func (pl *ScanPlanner) generatorFor(req ScanRequest, diameter float64) (*scan.Generator, error) {
	return scan.NewGenerator(scan.Generator{
		FOVWidth:              units.ConvertAngle(pl.Slit.Width, units.Deg, pl.AngularUnit),
		Target:                req.Target,
		StartTime:             req.StartTime,
		TimeUnit:              pl.TimeUnit,
		AngularUnit:           pl.AngularUnit,
		MeasurementSlewRate:   pl.rate(pl.Slit.MeasurementRate()),
		TransferSlewRate:      pl.rate(pl.Slit.MaxTransfer),
		TargetAngularDiameter: diameter,
	})
}

// rate converts a deg/s rate into planner units.
func (pl *ScanPlanner) rate(degPerSec float64) float64 {
	perSec := units.ConvertAngle(degPerSec, units.Deg, pl.AngularUnit)
	return perSec * units.ConvertTime(1, pl.TimeUnit, units.Sec)
}

// PlanDisk plans a full-disk slit scan, enlarging the scan until it still
// covers the target at the end of the observation.
func (pl *ScanPlanner) PlanDisk(req ScanRequest) (*ScanPlan, error) {
	return pl.plan(req, func(gen *scan.Generator) (*scan.Scan, error) {
		return gen.GenerateSymmetric(req.Margin, req.Overlap)
	})
}

// PlanSunside plans a slit scan whose lines are laid out over the sunlit
// width of the target. Lines are never filtered: each sweep covers the full
// disk height even where it crosses the terminator.
func (pl *ScanPlanner) PlanSunside(req ScanRequest) (*ScanPlan, error) {
	return pl.plan(req, func(gen *scan.Generator) (*scan.Scan, error) {
		shape, err := pl.Provider.IlluminatedShape(req.Target, gen.StartTime, pl.AngularUnit)
		if err != nil {
			return nil, err
		}
		return gen.GenerateSunside(req.Margin, req.Overlap, shape)
	})
}

func (pl *ScanPlanner) plan(req ScanRequest, generate func(*scan.Generator) (*scan.Scan, error)) (*ScanPlan, error) {
	if err := pl.validate(req); err != nil {
		return nil, err
	}
	diameter, err := pl.Provider.AngularDiameter(req.Target, req.StartTime, pl.AngularUnit)
	if err != nil {
		return nil, err
	}

	var s *scan.Scan
	var lastDuration time.Duration
	iterations := 0
	for i := 0; i < maxGrowthIterations; i++ {
		iterations = i + 1
		gen, err := pl.generatorFor(req, diameter)
		if err != nil {
			return nil, err
		}
		s, err = generate(gen)
		if err != nil {
			return nil, err
		}
		duration := s.Duration()
		pl.logf("scan iteration %d: %d lines, diameter %.6g %s, duration %s",
			iterations, s.NumberOfLines, diameter, pl.AngularUnit, duration)

		endDiameter, err := pl.Provider.AngularDiameter(req.Target, s.EndTime(), pl.AngularUnit)
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

	return &ScanPlan{
		Scan:            s,
		Target:          req.Target,
		StartTime:       req.StartTime,
		EndTime:         s.EndTime(),
		Duration:        s.Duration(),
		Lines:           s.NumberOfLines,
		DataVolumeMbits: pl.dataVolume(s),
		Iterations:      iterations,
	}, nil
}

// dataVolume estimates the scan's output: one slit-height line of data for
// every slit height swept, over every scan line.
func (pl *ScanPlanner) dataVolume(s *scan.Scan) float64 {
	slitHeight := units.ConvertAngle(pl.Slit.Height, units.Deg, pl.AngularUnit)
	linesPerSweep := math.Ceil(math.Abs(s.Delta.Y) / slitHeight)
	return pl.Slit.LineMbits * linesPerSweep * float64(s.NumberOfLines)
}

func (pl *ScanPlanner) logf(format string, args ...interface{}) {
	if pl.Log != nil {
		pl.Log.Debug(format, args...)
	}
}
