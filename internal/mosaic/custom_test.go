package mosaic

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/units"
)

func testCustomMosaic(t *testing.T) *CustomMosaic {
	t.Helper()
	m, err := NewCustomMosaic(CustomMosaic{
		FOVSize:     geom.Coord{X: 1.72, Y: 1.29},
		Target:      "CALLISTO",
		StartTime:   testStart(t),
		TimeUnit:    units.Min,
		AngularUnit: units.Deg,
		DwellTime:   2,
		SlewRate:    1,
		Points: []geom.Coord{
			{X: 0, Y: 0},
			{X: 3, Y: 4},
			{X: 6, Y: 8},
		},
	})
	if err != nil {
		t.Fatalf("NewCustomMosaic: %v", err)
	}
	return m
}

func TestCustomMosaicSlewToNext(t *testing.T) {
	m := testCustomMosaic(t)

	// Both legs are 3-4-5 triangles at unit slew rate.
	for i := 0; i < 2; i++ {
		got, err := m.SlewToNext(i)
		if err != nil {
			t.Fatalf("SlewToNext(%d): %v", i, err)
		}
		if !almostEqual(got, 5) {
			t.Errorf("SlewToNext(%d) = %v, want 5", i, got)
		}
	}

	if _, err := m.SlewToNext(2); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SlewToNext(2) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := m.SlewToNext(-1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SlewToNext(-1) error = %v, want ErrInvalidParameter", err)
	}
}

func TestCustomMosaicDuration(t *testing.T) {
	m := testCustomMosaic(t)

	// 3 dwells of 2 min plus 2 slews of 5 min.
	want := units.Duration(3*2+2*5, units.Min)
	if got := m.Duration(); got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}

	wantEnd := m.StartTime.Add(time.Minute + want + time.Minute)
	if got := m.EndTime(); !got.Equal(wantEnd) {
		t.Errorf("EndTime() = %v, want %v", got, wantEnd)
	}
}

func TestCustomMosaicValidation(t *testing.T) {
	base := CustomMosaic{
		FOVSize:     geom.Coord{X: 1, Y: 1},
		Target:      "CALLISTO",
		StartTime:   time.Date(2031, 4, 25, 18, 40, 0, 0, time.UTC),
		TimeUnit:    units.Min,
		AngularUnit: units.Deg,
		DwellTime:   1,
		SlewRate:    1,
		Points:      []geom.Coord{{X: 0, Y: 0}},
	}

	tests := []struct {
		name   string
		mutate func(*CustomMosaic)
	}{
		{"empty target", func(m *CustomMosaic) { m.Target = "" }},
		{"zero slew rate", func(m *CustomMosaic) { m.SlewRate = 0 }},
		{"negative dwell", func(m *CustomMosaic) { m.DwellTime = -1 }},
		{"no points", func(m *CustomMosaic) { m.Points = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			if _, err := NewCustomMosaic(m); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestCustomMosaicPTR(t *testing.T) {
	m := testCustomMosaic(t)
	ptr := m.PTR(3)

	wantFragments := []string{
		"<offsetAngles ref=\"custom\">",
		"<target ref=\"CALLISTO\"/>",
		// Custom blocks start after the one-minute lead-in.
		"<startTime>2031-04-25T18:41:47</startTime>",
		"<deltaTimes units='min'>",
		"<xAngles units='deg'>",
		"<xRates units='deg/min'>",
		"<yAngles units='deg'>",
		"<yRates units='deg/min'>",
		// Last point has no following slew.
		"0.000 </deltaTimes>",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(ptr, frag) {
			t.Errorf("PTR missing %q\nfull PTR:\n%s", frag, ptr)
		}
	}

	// Every point contributes two half dwells plus a slew entry, and every
	// angle is repeated across all three entries.
	deltaLine := extractLine(t, ptr, "<deltaTimes")
	if got, want := strings.Count(deltaLine, "."), 3*len(m.Points); got != want {
		t.Errorf("deltaTimes has %d entries, want %d", got, want)
	}
	xLine := extractLine(t, ptr, "<xAngles")
	if got, want := strings.Count(xLine, "."), 3*len(m.Points); got != want {
		t.Errorf("xAngles has %d entries, want %d", got, want)
	}
	if !strings.Contains(deltaLine, "1.000  1.000  5.000") {
		t.Errorf("deltaTimes should split each dwell around the vertex: %s", deltaLine)
	}
}

// extractLine returns the PTR line starting with the given tag prefix.
func extractLine(t *testing.T, ptr, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(ptr, "\n") {
		if strings.Contains(line, prefix) {
			return line
		}
	}
	t.Fatalf("PTR has no line containing %q:\n%s", prefix, ptr)
	return ""
}
