package mosaic

import (
	"errors"
	"math"
	"testing"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

func testGenerator(t *testing.T, fov geom.Coord, diameter float64) *Generator {
	t.Helper()
	g, err := NewGenerator(Generator{
		FOVSize:               fov,
		Target:                "CALLISTO",
		StartTime:             testStart(t),
		TimeUnit:              units.Min,
		AngularUnit:           units.Deg,
		DwellTime:             0.5,
		SlewRate:              1.5, // deg per min
		TargetAngularDiameter: diameter,
	})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestGenerateSymmetric(t *testing.T) {
	// Apparent diameter observed in radians, planned in degrees.
	diameter := units.ConvertAngle(0.19167923151263316, units.Rad, units.Deg)
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, diameter)

	m, err := g.GenerateSymmetric(0.1, 0.1)
	if err != nil {
		t.Fatalf("GenerateSymmetric: %v", err)
	}

	if m.PointsX != 5 || m.PointsY != 7 {
		t.Fatalf("grid = %dx%d, want 5x7", m.PointsX, m.PointsY)
	}
	if !almostEqual(m.Start.X, -4.54032604229169) || !almostEqual(m.Start.Y, -5.04032604229169) {
		t.Errorf("Start = (%v, %v), want (-4.54032604229169, -5.04032604229169)", m.Start.X, m.Start.Y)
	}
	if !almostEqual(m.Delta.X, 2.2701630211458452) || !almostEqual(m.Delta.Y, 1.6801086807638965) {
		t.Errorf("Delta = (%v, %v), want (2.2701630211458452, 1.6801086807638965)", m.Delta.X, m.Delta.Y)
	}

	// Slew times follow from the step sizes and the slew rate.
	if want := math.Abs(m.Delta.Y) / 1.5; !almostEqual(m.PointSlewTime, want) {
		t.Errorf("PointSlewTime = %v, want %v", m.PointSlewTime, want)
	}
	if want := math.Abs(m.Delta.X) / 1.5; !almostEqual(m.LineSlewTime, want) {
		t.Errorf("LineSlewTime = %v, want %v", m.LineSlewTime, want)
	}
	if got := len(m.CenterPoints()); got != 35 {
		t.Errorf("frame count = %d, want 35", got)
	}
}

func TestGenerateSymmetricSingleFrame(t *testing.T) {
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, 1.5)

	m, err := g.GenerateSymmetric(0, 0)
	if err != nil {
		t.Fatalf("GenerateSymmetric: %v", err)
	}
	if m.PointsX != 1 || m.PointsY != 1 {
		t.Errorf("grid = %dx%d, want 1x1", m.PointsX, m.PointsY)
	}
	if !almostEqual(m.Start.X, 0) || !almostEqual(m.Start.Y, 0) {
		t.Errorf("single frame not centered: (%v, %v)", m.Start.X, m.Start.Y)
	}
}

func TestGenerateSymmetricInvalid(t *testing.T) {
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, 10)

	if _, err := g.GenerateSymmetric(-1.0, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("margin -1.0: error = %v, want ErrInvalidParameter", err)
	}
	if _, err := g.GenerateSymmetric(0, 1.0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("overlap 1.0: error = %v, want ErrInvalidParameter", err)
	}
}

// halfDiskShape approximates the sunlit right half of a disk with a
// rectangle spanning x in [0, radius].
func halfDiskShape(radius float64) geometry.Polygon {
	return geometry.Polygon{
		{X: 0, Y: -radius},
		{X: radius, Y: -radius},
		{X: radius, Y: radius},
		{X: 0, Y: radius},
	}
}

func TestGenerateSunside(t *testing.T) {
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, 10)

	m, err := g.GenerateSunside(0, 0, halfDiskShape(5))
	if err != nil {
		t.Fatalf("GenerateSunside: %v", err)
	}

	// Horizontal extent follows the shape width (5), recentered on the
	// shape: two columns at x = 1.5 and 3.5. Vertical extent follows the
	// full disk: five rows. All ten frames touch the shape.
	if got := len(m.Points); got != 10 {
		t.Fatalf("frame count = %d, want 10", got)
	}
	for i, p := range m.Points {
		if !almostEqual(p.X, 1.5) && !almostEqual(p.X, 3.5) {
			t.Errorf("Points[%d].X = %v, want 1.5 or 3.5", i, p.X)
		}
		if p.Y < -4-floatTol || p.Y > 4+floatTol {
			t.Errorf("Points[%d].Y = %v outside [-4, 4]", i, p.Y)
		}
	}

	// Every frame overlaps the illuminated shape.
	shape := halfDiskShape(5)
	for i, r := range m.Rectangles() {
		if !shape.OverlapsRect(r) {
			t.Errorf("Rectangles()[%d] does not overlap the shape", i)
		}
	}
}

func TestGenerateSunsideFiltersDarkFrames(t *testing.T) {
	// A sliver of illumination: only frames near x = 0 survive even though
	// the disk is wide.
	g := testGenerator(t, geom.Coord{X: 1, Y: 1}, 10)
	shape := geometry.Polygon{
		{X: -0.2, Y: -4},
		{X: 0.2, Y: -4},
		{X: 0.2, Y: 4},
		{X: -0.2, Y: 4},
	}

	m, err := g.GenerateSunside(0, 0, shape)
	if err != nil {
		t.Fatalf("GenerateSunside: %v", err)
	}
	full, err := g.GenerateSymmetric(0, 0)
	if err != nil {
		t.Fatalf("GenerateSymmetric: %v", err)
	}
	if fullCount := full.PointsX * full.PointsY; len(m.Points) >= fullCount {
		t.Errorf("sunside kept %d frames, full grid has %d", len(m.Points), fullCount)
	}
	for i, p := range m.Points {
		if math.Abs(p.X) > 0.7+floatTol {
			t.Errorf("Points[%d].X = %v too far from the illuminated sliver", i, p.X)
		}
	}
}

func TestGenerateSunsideInvalidShape(t *testing.T) {
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, 10)

	_, err := g.GenerateSunside(0, 0, geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestGenerateSunsideTourOrder(t *testing.T) {
	g := testGenerator(t, geom.Coord{X: 3, Y: 2}, 10)

	m, err := g.GenerateSunside(0, 0, halfDiskShape(5))
	if err != nil {
		t.Fatalf("GenerateSunside: %v", err)
	}

	// The tour must visit each kept frame exactly once, and must not be
	// longer than visiting them in grid order.
	dist := distanceMatrix(m.Points)
	identity := make([]int, len(m.Points))
	for i := range identity {
		identity[i] = i
	}
	if got := PathLength(dist, identity); got < 0 {
		t.Fatalf("path length negative: %v", got)
	}

	seen := make(map[[2]float64]int)
	for _, p := range m.Points {
		seen[[2]float64{p.X, p.Y}]++
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("frame %v visited %d times", k, n)
		}
	}
}
