// Package scan generates slit-scan pointing plans: vertical slews of fixed
// length, tiled horizontally with the same centered placement optimizer the
// mosaic generators use.
package scan

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/units"
)

// Lead-in and tail margins required by the mission-planning tool around a
// scan block. The lead-in is shorter than for mosaics; the border slew
// carries the rest of the settling budget.
const (
	scanLeadIn = 10 * time.Second
	scanTail   = 1 * time.Minute
)

// Scan is a slit-scan observation: a slit oriented along the x-axis slews
// vertically at a fixed rate, once per line, with the lines tiled along x.
type Scan struct {
	FOVWidth    float64 // slit width along x, in AngularUnit
	Target      string
	StartTime   time.Time
	TimeUnit    units.Time
	AngularUnit units.Angle

	ScanSlewRate   float64 // vertical sweep rate, AngularUnit per TimeUnit
	LineSlewTime   float64 // time from the end of one line to the start of the next
	BorderSlewTime float64 // time to reach the scan start and to return at the end

	Start         geom.Coord // top of the first line
	Delta         geom.Coord // x: line spacing, y: signed scan length
	NumberOfLines int
}

// NewScan validates and returns the scan.
func NewScan(s Scan) (*Scan, error) {
	if s.FOVWidth <= 0 {
		return nil, fmt.Errorf("%w: FOV width must be positive: %g", mosaic.ErrInvalidParameter, s.FOVWidth)
	}
	if s.Target == "" {
		return nil, fmt.Errorf("%w: target must be set", mosaic.ErrInvalidParameter)
	}
	if s.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time must be set", mosaic.ErrInvalidParameter)
	}
	if s.ScanSlewRate <= 0 {
		return nil, fmt.Errorf("%w: scan slew rate must be positive: %g", mosaic.ErrInvalidParameter, s.ScanSlewRate)
	}
	if s.LineSlewTime <= 0 {
		return nil, fmt.Errorf("%w: line slew time must be positive: %g", mosaic.ErrInvalidParameter, s.LineSlewTime)
	}
	if s.BorderSlewTime <= 0 {
		return nil, fmt.Errorf("%w: border slew time must be positive: %g", mosaic.ErrInvalidParameter, s.BorderSlewTime)
	}
	if s.NumberOfLines < 1 {
		return nil, fmt.Errorf("%w: number of lines must be at least 1: %d", mosaic.ErrInvalidParameter, s.NumberOfLines)
	}
	return &s, nil
}

// CenterPoints returns the center of each scan line in acquisition order.
func (s *Scan) CenterPoints() []geom.Coord {
	points := make([]geom.Coord, s.NumberOfLines)
	for i := range points {
		points[i] = geom.Coord{
			X: s.Start.X + float64(i)*s.Delta.X,
			Y: s.Start.Y + s.Delta.Y/2,
		}
	}
	return points
}

// Rectangles returns the swath footprint of each scan line in acquisition
// order.
func (s *Scan) Rectangles() []geometry.Rectangle {
	size := geom.Coord{X: s.FOVWidth, Y: math.Abs(s.Delta.Y)}
	centers := s.CenterPoints()
	rects := make([]geometry.Rectangle, len(centers))
	for i, c := range centers {
		rects[i] = geometry.NewRect(c, size)
	}
	return rects
}

// Duration returns the total scan duration: per-line sweeps, line slews,
// and both border slews, excluding the lead-in and tail margins.
func (s *Scan) Duration() time.Duration {
	sweep := math.Abs(s.Delta.Y) / s.ScanSlewRate
	total := 2*s.BorderSlewTime +
		float64(s.NumberOfLines)*sweep +
		float64(s.NumberOfLines-1)*s.LineSlewTime
	return units.Duration(total, s.TimeUnit)
}

// EndTime returns the earliest possible end time for the pointing request,
// truncated to whole seconds.
func (s *Scan) EndTime() time.Time {
	return s.StartTime.Add(scanLeadIn + s.Duration() + scanTail).Truncate(time.Second)
}

// PTR returns the pointing request block for this scan.
func (s *Scan) PTR(decimalPlaces int) string {
	var b strings.Builder
	s.WritePTR(&b, decimalPlaces)
	return b.String()
}

// WritePTR writes the pointing request block: a scan offsetAngles section.
// The downstream tool's x-axis runs opposite to the instrument frame, so
// xStart and lineDelta are emitted sign-flipped.
func (s *Scan) WritePTR(w io.Writer, decimalPlaces int) {
	dp := decimalPlaces
	au := s.AngularUnit
	tu := s.TimeUnit

	// The in-block scan start waits out the lead-in plus the first border
	// slew.
	scanStart := s.StartTime.Add(scanLeadIn + units.Duration(s.BorderSlewTime, s.TimeUnit))

	fmt.Fprintf(w, "<block ref=\"OBS\">\n")
	fmt.Fprintf(w, "\t<startTime> %s </startTime>\n", s.StartTime.Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<endTime> %s </endTime>\n", s.EndTime().Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<attitude ref=\"track\">\n")
	fmt.Fprintf(w, "\t\t<boresight ref=\"SC_Zaxis\"/>\n")
	fmt.Fprintf(w, "\t\t<target ref=\"%s\"/>\n", s.Target)
	fmt.Fprintf(w, "\t\t<offsetRefAxis frame=\"SC\">\n")
	fmt.Fprintf(w, "\t\t\t<x>1.0</x>\n\t\t\t<y>0.0</y>\n\t\t\t<z>0.0</z>\n")
	fmt.Fprintf(w, "\t\t</offsetRefAxis>\n")
	fmt.Fprintf(w, "\t\t<offsetAngles ref=\"scan\">\n")
	fmt.Fprintf(w, "\t\t\t<startTime>%s</startTime>\n", scanStart.Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t\t\t<numberOfLines> %d </numberOfLines>\n", s.NumberOfLines)
	fmt.Fprintf(w, "\t\t\t<xStart units=\"%s\">%.*f</xStart>\n", au, dp, -s.Start.X)
	fmt.Fprintf(w, "\t\t\t<yStart units=\"%s\">%.*f</yStart>\n", au, dp, s.Start.Y)
	fmt.Fprintf(w, "\t\t\t<lineDelta units=\"%s\">%.*f</lineDelta>\n", au, dp, -s.Delta.X)
	fmt.Fprintf(w, "\t\t\t<scanDelta units=\"%s\">%.*f</scanDelta>\n", au, dp, s.Delta.Y)
	fmt.Fprintf(w, "\t\t\t<scanSpeed units=\"%s/%s\">%.*f</scanSpeed>\n", au, tu, dp, s.ScanSlewRate)
	fmt.Fprintf(w, "\t\t\t<scanSlewTime units=\"%s\">1.0</scanSlewTime>\n", tu)
	fmt.Fprintf(w, "\t\t\t<lineSlewTime units=\"%s\">%.*f</lineSlewTime>\n", tu, dp, s.LineSlewTime)
	fmt.Fprintf(w, "\t\t\t<borderSlewTime units=\"%s\">%.*f</borderSlewTime>\n", tu, dp, s.BorderSlewTime)
	fmt.Fprintf(w, "\t\t\t<lineAxis>Y</lineAxis>\n")
	fmt.Fprintf(w, "\t\t\t<keepLineDir>false</keepLineDir>\n")
	fmt.Fprintf(w, "\t\t</offsetAngles>\n")
	fmt.Fprintf(w, "\t\t<phaseAngle ref=\"powerOptimised\">\n")
	fmt.Fprintf(w, "\t\t\t<yDir> false </yDir>\n")
	fmt.Fprintf(w, "\t\t</phaseAngle>\n")
	fmt.Fprintf(w, "\t</attitude>\n")
	fmt.Fprintf(w, "</block>\n")
}

// ptrTimeLayout is the ISO-8601 second-resolution stamp used in PTR blocks.
const ptrTimeLayout = "2006-01-02T15:04:05"
