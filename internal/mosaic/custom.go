package mosaic

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

// CustomMosaic is a mosaic over an explicit ordered list of frame centers,
// used when the visiting order does not follow a raster grid (sun-side
// mosaics reordered by the tour solver). Each point is dwelled on for the
// same time; the slew time between consecutive points follows from their
// angular distance and a single scalar slew rate.
type CustomMosaic struct {
	FOVSize     geom.Coord
	Target      string
	StartTime   time.Time
	TimeUnit    units.Time
	AngularUnit units.Angle

	DwellTime float64 // per point, in TimeUnit
	SlewRate  float64 // AngularUnit per TimeUnit

	Points []geom.Coord // frame centers in order of acquisition
}

// NewCustomMosaic validates and returns the mosaic.
func NewCustomMosaic(m CustomMosaic) (*CustomMosaic, error) {
	if m.FOVSize.X < 0 || m.FOVSize.Y < 0 {
		return nil, fmt.Errorf("%w: FOV size must be non-negative: (%g, %g)", ErrInvalidParameter, m.FOVSize.X, m.FOVSize.Y)
	}
	if m.Target == "" {
		return nil, fmt.Errorf("%w: target must be set", ErrInvalidParameter)
	}
	if m.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time must be set", ErrInvalidParameter)
	}
	if m.DwellTime < 0 {
		return nil, fmt.Errorf("%w: dwell time must be non-negative: %g", ErrInvalidParameter, m.DwellTime)
	}
	if m.SlewRate <= 0 {
		return nil, fmt.Errorf("%w: slew rate must be positive: %g", ErrInvalidParameter, m.SlewRate)
	}
	if len(m.Points) < 1 {
		return nil, fmt.Errorf("%w: at least one point required", ErrInvalidParameter)
	}
	m.Points = append([]geom.Coord(nil), m.Points...)
	return &m, nil
}

// SlewToNext returns the slew time from point i to point i+1.
func (m *CustomMosaic) SlewToNext(i int) (float64, error) {
	if i < 0 || i >= len(m.Points)-1 {
		return 0, fmt.Errorf("%w: point index out of range: %d", ErrInvalidParameter, i)
	}
	dist := m.Points[i+1].Minus(m.Points[i]).Magnitude()
	return dist / m.SlewRate, nil
}

// slewTimes returns the slew time of every leg between consecutive points.
func (m *CustomMosaic) slewTimes() []float64 {
	legs := make([]float64, len(m.Points)-1)
	for i := range legs {
		legs[i], _ = m.SlewToNext(i)
	}
	return legs
}

// CenterPoints returns the frame centers in order of acquisition.
func (m *CustomMosaic) CenterPoints() []geom.Coord {
	return append([]geom.Coord(nil), m.Points...)
}

// Rectangles returns the frame footprints in order of acquisition.
func (m *CustomMosaic) Rectangles() []geometry.Rectangle {
	rects := make([]geometry.Rectangle, len(m.Points))
	for i, c := range m.Points {
		rects[i] = geometry.NewRect(c, m.FOVSize)
	}
	return rects
}

// Duration returns the total imaging duration excluding lead-in and tail.
func (m *CustomMosaic) Duration() time.Duration {
	total := m.DwellTime * float64(len(m.Points))
	for _, s := range m.slewTimes() {
		total += s
	}
	return units.Duration(total, m.TimeUnit)
}

// EndTime returns the earliest possible end time for the pointing request.
func (m *CustomMosaic) EndTime() time.Time {
	return m.StartTime.Add(rasterLeadIn + m.Duration() + rasterTail)
}

// PTR returns the pointing request block for this mosaic.
func (m *CustomMosaic) PTR(decimalPlaces int) string {
	var b strings.Builder
	m.WritePTR(&b, decimalPlaces)
	return b.String()
}

// WritePTR writes the pointing request block: a custom offsetAngles section
// listing explicit delta-time/angle tables. Each point contributes two half
// dwells (the tool requires a vertex at the middle of every dwell) followed
// by the slew to the next point; the final slew entry is zero.
func (m *CustomMosaic) WritePTR(w io.Writer, decimalPlaces int) {
	legs := m.slewTimes()

	// Field width: enough for the longest integer part plus the decimal
	// point, sign and requested decimals.
	maxVal := m.DwellTime
	for _, s := range legs {
		if s > maxVal {
			maxVal = s
		}
	}
	intDigits := len(fmt.Sprintf("%.0f", maxVal))
	width := intDigits + decimalPlaces + 2

	cell := func(v float64) string {
		return fmt.Sprintf(" %*.*f", width, decimalPlaces, v)
	}

	var deltaTimes, xAngles, xRates, yAngles, yRates strings.Builder
	fmt.Fprintf(&deltaTimes, "<deltaTimes units='%s'> ", m.TimeUnit)
	fmt.Fprintf(&xAngles, "<xAngles units='%s'>    ", m.AngularUnit)
	fmt.Fprintf(&xRates, "<xRates units='%s/%s'> ", m.AngularUnit, m.TimeUnit)
	fmt.Fprintf(&yAngles, "<yAngles units='%s'>    ", m.AngularUnit)
	fmt.Fprintf(&yRates, "<yRates units='%s/%s'> ", m.AngularUnit, m.TimeUnit)

	for i, p := range m.Points {
		slew := 0.0
		if i < len(legs) {
			slew = legs[i]
		}
		deltaTimes.WriteString(cell(m.DwellTime / 2))
		deltaTimes.WriteString(cell(m.DwellTime / 2))
		deltaTimes.WriteString(cell(slew))
		for j := 0; j < 3; j++ {
			xAngles.WriteString(cell(p.X))
			yAngles.WriteString(cell(p.Y))
			xRates.WriteString(cell(0.0))
			yRates.WriteString(cell(0.0))
		}
	}
	deltaTimes.WriteString(" </deltaTimes>")
	xAngles.WriteString(" </xAngles>")
	xRates.WriteString(" </xRates>")
	yAngles.WriteString(" </yAngles>")
	yRates.WriteString(" </yRates>")

	fmt.Fprintf(w, "<block ref=\"OBS\">\n")
	fmt.Fprintf(w, "\t<startTime> %s </startTime>\n", m.StartTime.Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<endTime> %s </endTime>\n", m.EndTime().Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<attitude ref=\"track\">\n")
	fmt.Fprintf(w, "\t\t<boresight ref=\"SC_Zaxis\"/>\n")
	fmt.Fprintf(w, "\t\t<target ref=\"%s\"/>\n", m.Target)
	fmt.Fprintf(w, "\t\t<offsetRefAxis frame=\"SC\">\n")
	fmt.Fprintf(w, "\t\t\t<x>1.0</x>\n\t\t\t<y>0.0</y>\n\t\t\t<z>0.0</z>\n")
	fmt.Fprintf(w, "\t\t</offsetRefAxis>\n")
	fmt.Fprintf(w, "\t\t<offsetAngles ref=\"custom\">\n")
	fmt.Fprintf(w, "\t\t\t<startTime>%s</startTime>\n", m.StartTime.Add(rasterLeadIn).Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t\t\t%s\n", deltaTimes.String())
	fmt.Fprintf(w, "\t\t\t%s\n", xAngles.String())
	fmt.Fprintf(w, "\t\t\t%s\n", xRates.String())
	fmt.Fprintf(w, "\t\t\t%s\n", yAngles.String())
	fmt.Fprintf(w, "\t\t\t%s\n", yRates.String())
	fmt.Fprintf(w, "\t\t</offsetAngles>\n")
	fmt.Fprintf(w, "\t\t<phaseAngle ref=\"powerOptimised\">\n")
	fmt.Fprintf(w, "\t\t\t<yDir> false </yDir>\n")
	fmt.Fprintf(w, "\t\t</phaseAngle>\n")
	fmt.Fprintf(w, "\t</attitude>\n")
	fmt.Fprintf(w, "</block>\n")
}
