// Command ls-mosaics plans spacecraft camera mosaics and spectrometer slit
// scans and emits the pointing request blocks the mission-planning tool
// ingests.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jbeda/geom"
	"golang.org/x/term"

	"github.com/litescript/ls-mosaics/internal/ephem"
	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/instrument"
	"github.com/litescript/ls-mosaics/internal/logging"
	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/ui"
	"github.com/litescript/ls-mosaics/internal/units"
	"github.com/litescript/ls-mosaics/internal/version"
)

const timeLayout = "2006-01-02T15:04:05"

var (
	reportMode  bool
	previewMode bool
	versionMode bool
)

func main() {
	target := flag.String("target", "", "Target body name (required)")
	startStr := flag.String("time", "", "Observation start time, e.g. 2031-04-25T18:40:00 (required)")
	mode := flag.String("mode", "mosaic", "Observation type: mosaic, sunside, scan, sunside-scan")
	margin := flag.Float64("margin", 0.1, "Extra coverage beyond the target disk, fraction of its diameter")
	overlap := flag.Float64("overlap", 0.1, "Minimum fractional overlap between neighboring frames")
	angularUnitStr := flag.String("angular-unit", "deg", "Angular unit for the PTR (deg, rad, arcMin, arcSec)")
	timeUnitStr := flag.String("time-unit", "min", "Time unit for the PTR (sec, min, hour)")
	filters := flag.Int("filters", 1, "Filter positions imaged per mosaic position")
	exposure := flag.Float64("exposure", 0, "Per-filter exposure in seconds (0 = smear-limited maximum)")
	decimals := flag.Int("decimals", 3, "Decimal places for PTR values")
	outPath := flag.String("out", "-", "PTR output file (- for stdout)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	radius := flag.Float64("radius", 1560.8, "Target radius, km")
	caDist := flag.Float64("ca-dist", 10000, "Flyby closest-approach distance, km")
	caTimeStr := flag.String("ca-time", "", "Closest-approach time (defaults to -time)")
	speed := flag.Float64("speed", 4.0, "Flyby relative speed, km/s")
	phase := flag.Float64("phase", 60, "Sun phase angle, deg")

	flag.BoolVar(&reportMode, "report", false, "Print a plan summary to stderr")
	flag.BoolVar(&previewMode, "preview", false, "Show an interactive preview (TTY only)")
	flag.BoolVar(&versionMode, "version", false, "Print version and exit")
	flag.Parse()

	if versionMode {
		fmt.Printf("ls-mosaics %s\n", version.Version)
		return
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	if *target == "" || *startStr == "" {
		fmt.Fprintln(os.Stderr, "both -target and -time are required")
		flag.Usage()
		os.Exit(2)
	}
	start, err := time.Parse(timeLayout, *startStr)
	if err != nil {
		fatal(logger, "parsing -time: %v", err)
	}
	caTime := start
	if *caTimeStr != "" {
		caTime, err = time.Parse(timeLayout, *caTimeStr)
		if err != nil {
			fatal(logger, "parsing -ca-time: %v", err)
		}
	}
	angularUnit, err := units.ParseAngle(*angularUnitStr)
	if err != nil {
		fatal(logger, "%v", err)
	}
	timeUnit, err := units.ParseTime(*timeUnitStr)
	if err != nil {
		fatal(logger, "%v", err)
	}

	provider, err := ephem.NewFlybyProvider(ephem.FlybyProvider{
		TargetName:          *target,
		TargetRadiusKm:      *radius,
		ClosestApproachKm:   *caDist,
		ClosestApproachTime: caTime,
		SpeedKmPerSec:       *speed,
		PhaseAngleDeg:       *phase,
	})
	if err != nil {
		fatal(logger, "%v", err)
	}

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatal(logger, "creating %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	var (
		rects   []geometry.Rectangle
		centers []geom.Coord
		title   string
	)

	switch *mode {
	case "mosaic", "sunside":
		planner := &instrument.MosaicPlanner{
			Camera:      instrument.DefaultCamera(),
			Provider:    provider,
			Log:         logger,
			TimeUnit:    timeUnit,
			AngularUnit: angularUnit,
		}
		req := instrument.MosaicRequest{
			Target:    *target,
			StartTime: start,
			Margin:    *margin,
			Overlap:   *overlap,
			Filters:   *filters,
			Exposure:  *exposure,
		}
		var plan *instrument.MosaicPlan
		if *mode == "mosaic" {
			plan, err = planner.PlanDisk(req)
		} else {
			plan, err = planner.PlanSunside(req)
		}
		if err != nil {
			fatalPlan(logger, err)
		}
		plan.WritePTR(out, *decimals)
		if reportMode {
			instrument.WriteMosaicReport(os.Stderr, plan)
		}
		rects, centers = plan.Rectangles(), plan.CenterPoints()
		title = fmt.Sprintf("%s mosaic of %s", planner.Camera.Name, *target)

	case "scan", "sunside-scan":
		planner := &instrument.ScanPlanner{
			Slit:        instrument.DefaultSlit(),
			Provider:    provider,
			Log:         logger,
			TimeUnit:    timeUnit,
			AngularUnit: angularUnit,
		}
		req := instrument.ScanRequest{
			Target:    *target,
			StartTime: start,
			Margin:    *margin,
			Overlap:   *overlap,
		}
		var plan *instrument.ScanPlan
		if *mode == "scan" {
			plan, err = planner.PlanDisk(req)
		} else {
			plan, err = planner.PlanSunside(req)
		}
		if err != nil {
			fatalPlan(logger, err)
		}
		plan.WritePTR(out, *decimals)
		if reportMode {
			instrument.WriteScanReport(os.Stderr, plan)
		}
		rects, centers = plan.Scan.Rectangles(), plan.Scan.CenterPoints()
		title = fmt.Sprintf("%s scan of %s", planner.Slit.Name, *target)

	default:
		fatal(logger, "unknown -mode %q (valid: mosaic, sunside, scan, sunside-scan)", *mode)
	}

	if previewMode {
		runPreview(logger, provider, *target, start, angularUnit, *mode, title, rects, centers)
	}
}

// runPreview shows the interactive plan preview when stdout is a terminal.
func runPreview(logger *logging.Logger, provider ephem.Provider, target string,
	start time.Time, unit units.Angle, mode, title string,
	rects []geometry.Rectangle, centers []geom.Coord) {

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Warn("stdout is not a terminal, skipping preview")
		return
	}
	diameter, err := provider.AngularDiameter(target, start, unit)
	if err != nil {
		fatal(logger, "%v", err)
	}
	var shape geometry.Polygon
	if mode == "sunside" || mode == "sunside-scan" {
		shape, err = provider.IlluminatedShape(target, start, unit)
		if err != nil {
			fatal(logger, "%v", err)
		}
	}
	model := ui.NewPreviewModel(title, unit, diameter, shape, rects, centers)
	if err := ui.Run(model); err != nil {
		fatal(logger, "running preview: %v", err)
	}
}

// fatalPlan distinguishes bad requests from missing geometry in the exit
// message.
func fatalPlan(logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, mosaic.ErrInvalidParameter):
		fatal(logger, "invalid request: %v", err)
	case errors.Is(err, ephem.ErrGeometryUnavailable):
		fatal(logger, "no geometry: %v", err)
	default:
		fatal(logger, "%v", err)
	}
}

func fatal(logger *logging.Logger, format string, args ...interface{}) {
	logger.Error(format, args...)
	os.Exit(1)
}
