package scan

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/mosaic"
	"github.com/litescript/ls-mosaics/internal/units"
)

const floatTol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTol
}

func testStart(t *testing.T) time.Time {
	t.Helper()
	start, err := time.Parse("2006-01-02T15:04:05", "2031-04-25T20:05:00")
	if err != nil {
		t.Fatalf("parsing fixture time: %v", err)
	}
	return start
}

func testScan(t *testing.T) *Scan {
	t.Helper()
	s, err := NewScan(Scan{
		FOVWidth:       3.4,
		Target:         "EUROPA",
		StartTime:      testStart(t),
		TimeUnit:       units.Min,
		AngularUnit:    units.Deg,
		ScanSlewRate:   2,
		LineSlewTime:   1,
		BorderSlewTime: 5,
		Start:          geom.Coord{X: -3, Y: 5},
		Delta:          geom.Coord{X: 3, Y: -10},
		NumberOfLines:  3,
	})
	if err != nil {
		t.Fatalf("NewScan: %v", err)
	}
	return s
}

func TestScanCenterPointsAndRectangles(t *testing.T) {
	s := testScan(t)

	centers := s.CenterPoints()
	if len(centers) != 3 {
		t.Fatalf("CenterPoints() has %d entries, want 3", len(centers))
	}
	wantX := []float64{-3, 0, 3}
	for i, c := range centers {
		if !almostEqual(c.X, wantX[i]) {
			t.Errorf("CenterPoints()[%d].X = %v, want %v", i, c.X, wantX[i])
		}
		// Line centers sit mid-sweep.
		if !almostEqual(c.Y, 0) {
			t.Errorf("CenterPoints()[%d].Y = %v, want 0", i, c.Y)
		}
	}

	for i, r := range s.Rectangles() {
		if !almostEqual(r.Size.X, 3.4) || !almostEqual(r.Size.Y, 10) {
			t.Errorf("Rectangles()[%d].Size = (%v, %v), want (3.4, 10)", i, r.Size.X, r.Size.Y)
		}
	}
}

func TestScanDuration(t *testing.T) {
	s := testScan(t)

	// 2 border slews of 5, 3 sweeps of 10/2, 2 line slews of 1.
	want := units.Duration(2*5+3*5+2*1, units.Min)
	if got := s.Duration(); got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}

	// 10 s lead-in, 1 min tail, truncated to whole seconds.
	wantEnd := s.StartTime.Add(10*time.Second + want + time.Minute).Truncate(time.Second)
	if got := s.EndTime(); !got.Equal(wantEnd) {
		t.Errorf("EndTime() = %v, want %v", got, wantEnd)
	}
}

func TestScanValidation(t *testing.T) {
	valid := Scan{
		FOVWidth:       3.4,
		Target:         "EUROPA",
		StartTime:      time.Date(2031, 4, 25, 20, 5, 0, 0, time.UTC),
		TimeUnit:       units.Min,
		AngularUnit:    units.Deg,
		ScanSlewRate:   2,
		LineSlewTime:   1,
		BorderSlewTime: 5,
		Start:          geom.Coord{X: 0, Y: 5},
		Delta:          geom.Coord{X: 1, Y: -10},
		NumberOfLines:  1,
	}

	tests := []struct {
		name   string
		mutate func(*Scan)
	}{
		{"empty target", func(s *Scan) { s.Target = "" }},
		{"zero scan rate", func(s *Scan) { s.ScanSlewRate = 0 }},
		{"zero line slew", func(s *Scan) { s.LineSlewTime = 0 }},
		{"zero border slew", func(s *Scan) { s.BorderSlewTime = 0 }},
		{"zero lines", func(s *Scan) { s.NumberOfLines = 0 }},
		{"zero width", func(s *Scan) { s.FOVWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if _, err := NewScan(s); !errors.Is(err, mosaic.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestScanPTR(t *testing.T) {
	s := testScan(t)
	ptr := s.PTR(3)

	wantFragments := []string{
		"<offsetAngles ref=\"scan\">",
		"<target ref=\"EUROPA\"/>",
		"<numberOfLines> 3 </numberOfLines>",
		// x values flip sign for the downstream tool's axis convention.
		"<xStart units=\"deg\">3.000</xStart>",
		"<lineDelta units=\"deg\">-3.000</lineDelta>",
		"<yStart units=\"deg\">5.000</yStart>",
		"<scanDelta units=\"deg\">-10.000</scanDelta>",
		"<scanSpeed units=\"deg/min\">2.000</scanSpeed>",
		"<scanSlewTime units=\"min\">1.0</scanSlewTime>",
		"<lineSlewTime units=\"min\">1.000</lineSlewTime>",
		"<borderSlewTime units=\"min\">5.000</borderSlewTime>",
		// In-block start waits out the 10 s lead-in and the 5 min border
		// slew.
		"<startTime>2031-04-25T20:10:10</startTime>",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(ptr, frag) {
			t.Errorf("PTR missing %q\nfull PTR:\n%s", frag, ptr)
		}
	}

	wantEnd := s.EndTime().Format("2006-01-02T15:04:05")
	if !strings.Contains(ptr, "<endTime> "+wantEnd+" </endTime>") {
		t.Errorf("PTR end time does not match EndTime() = %s\nfull PTR:\n%s", wantEnd, ptr)
	}
}
