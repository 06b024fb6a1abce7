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

// Lead-in and tail margins required by the mission-planning tool around
// every pointing block.
const (
	rasterLeadIn = 1 * time.Minute
	rasterTail   = 1 * time.Minute
)

// DiskMosaic is a raster mosaic: a symmetric grid of frame positions
// visited in serpentine order. Center points and end time are derived,
// not stored. Values are read-only after construction.
type DiskMosaic struct {
	FOVSize     geom.Coord
	Target      string
	StartTime   time.Time
	TimeUnit    units.Time
	AngularUnit units.Angle

	// All durations are in TimeUnit, all angles in AngularUnit.
	DwellTime     float64
	PointSlewTime float64 // slew between points within a line
	LineSlewTime  float64 // slew from the end of one line to the next

	Start  geom.Coord // first frame center
	Delta  geom.Coord // spacing between frame centers
	PointsX, PointsY int
}

// NewDiskMosaic validates and returns the mosaic. A validation failure
// returns ErrInvalidParameter and no mosaic.
func NewDiskMosaic(m DiskMosaic) (*DiskMosaic, error) {
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
	if m.PointSlewTime < 0 {
		return nil, fmt.Errorf("%w: point slew time must be non-negative: %g", ErrInvalidParameter, m.PointSlewTime)
	}
	if m.LineSlewTime < 0 {
		return nil, fmt.Errorf("%w: line slew time must be non-negative: %g", ErrInvalidParameter, m.LineSlewTime)
	}
	if m.PointsX < 1 || m.PointsY < 1 {
		return nil, fmt.Errorf("%w: need at least 1 point in both axes: (%d, %d)", ErrInvalidParameter, m.PointsX, m.PointsY)
	}
	return &m, nil
}

// CenterPoints returns the frame centers in order of acquisition:
// serpentine over the grid, outer axis x, inner axis y reversed on every
// odd column.
func (m *DiskMosaic) CenterPoints() []geom.Coord {
	points := make([]geom.Coord, 0, m.PointsX*m.PointsY)
	for x := 0; x < m.PointsX; x++ {
		cx := m.Start.X + float64(x)*m.Delta.X
		if x%2 == 0 {
			for y := 0; y < m.PointsY; y++ {
				points = append(points, geom.Coord{X: cx, Y: m.Start.Y + float64(y)*m.Delta.Y})
			}
		} else {
			for y := m.PointsY - 1; y >= 0; y-- {
				points = append(points, geom.Coord{X: cx, Y: m.Start.Y + float64(y)*m.Delta.Y})
			}
		}
	}
	return points
}

// Rectangles returns the frame footprints in order of acquisition.
func (m *DiskMosaic) Rectangles() []geometry.Rectangle {
	centers := m.CenterPoints()
	rects := make([]geometry.Rectangle, len(centers))
	for i, c := range centers {
		rects[i] = geometry.NewRect(c, m.FOVSize)
	}
	return rects
}

// Duration returns the total imaging duration: all dwells plus all slews,
// excluding the lead-in and tail margins.
func (m *DiskMosaic) Duration() time.Duration {
	lineSlews := m.PointsX - 1
	pointSlewsPerLine := m.PointsY - 1
	slew := float64(lineSlews)*m.LineSlewTime +
		float64(pointSlewsPerLine*m.PointsX)*m.PointSlewTime
	dwell := m.DwellTime * float64(m.PointsX*m.PointsY)
	return units.Duration(slew+dwell, m.TimeUnit)
}

// EndTime returns the earliest possible end time for the pointing request,
// including the lead-in and tail margins, truncated to whole seconds.
func (m *DiskMosaic) EndTime() time.Time {
	return m.StartTime.Add(rasterLeadIn + m.Duration() + rasterTail).Truncate(time.Second)
}

// PTR returns the pointing request block for this mosaic.
func (m *DiskMosaic) PTR(decimalPlaces int) string {
	var b strings.Builder
	m.WritePTR(&b, decimalPlaces)
	return b.String()
}

// WritePTR writes the pointing request block: a raster offsetAngles section
// under a tracking attitude.
func (m *DiskMosaic) WritePTR(w io.Writer, decimalPlaces int) {
	dp := decimalPlaces
	au := m.AngularUnit
	tu := m.TimeUnit
	fmt.Fprintf(w, "<block ref=\"OBS\">\n")
	fmt.Fprintf(w, "\t<startTime> %s </startTime>\n", m.StartTime.Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<endTime> %s </endTime>\n", m.EndTime().Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t<attitude ref=\"track\">\n")
	fmt.Fprintf(w, "\t\t<boresight ref=\"SC_Zaxis\"/>\n")
	fmt.Fprintf(w, "\t\t<target ref=\"%s\"/>\n", m.Target)
	fmt.Fprintf(w, "\t\t<offsetRefAxis frame=\"SC\">\n")
	fmt.Fprintf(w, "\t\t\t<x>1.0</x>\n\t\t\t<y>0.0</y>\n\t\t\t<z>0.0</z>\n")
	fmt.Fprintf(w, "\t\t</offsetRefAxis>\n")
	fmt.Fprintf(w, "\t\t<offsetAngles ref=\"raster\">\n")
	fmt.Fprintf(w, "\t\t\t<startTime>%s</startTime>\n", m.StartTime.Add(rasterLeadIn).Format(ptrTimeLayout))
	fmt.Fprintf(w, "\t\t\t<xPoints>%d</xPoints>\n", m.PointsX)
	fmt.Fprintf(w, "\t\t\t<yPoints>%d</yPoints>\n", m.PointsY)
	fmt.Fprintf(w, "\t\t\t<xStart units=\"%s\">%.*f</xStart>\n", au, dp, m.Start.X)
	fmt.Fprintf(w, "\t\t\t<yStart units=\"%s\">%.*f</yStart>\n", au, dp, m.Start.Y)
	fmt.Fprintf(w, "\t\t\t<xDelta units=\"%s\">%.*f</xDelta>\n", au, dp, m.Delta.X)
	fmt.Fprintf(w, "\t\t\t<yDelta units=\"%s\">%.*f</yDelta>\n", au, dp, m.Delta.Y)
	fmt.Fprintf(w, "\t\t\t<pointSlewTime units=\"%s\">%.*f</pointSlewTime>\n", tu, dp, m.PointSlewTime)
	fmt.Fprintf(w, "\t\t\t<lineSlewTime units=\"%s\">%.*f</lineSlewTime>\n", tu, dp, m.LineSlewTime)
	fmt.Fprintf(w, "\t\t\t<dwellTime units=\"%s\">%.*f</dwellTime>\n", tu, dp, m.DwellTime)
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
