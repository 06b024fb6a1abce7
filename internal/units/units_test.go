package units

import (
	"math"
	"testing"
	"time"
)

func TestAngleString(t *testing.T) {
	tests := []struct {
		unit Angle
		want string
	}{
		{Deg, "deg"},
		{Rad, "rad"},
		{ArcMin, "arcMin"},
		{ArcSec, "arcSec"},
		{Angle(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.unit.String(); got != tt.want {
			t.Errorf("Angle(%d).String() = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

func TestParseAngleRoundTrip(t *testing.T) {
	for _, unit := range []Angle{Deg, Rad, ArcMin, ArcSec} {
		got, err := ParseAngle(unit.String())
		if err != nil {
			t.Errorf("ParseAngle(%q): %v", unit.String(), err)
		}
		if got != unit {
			t.Errorf("ParseAngle(%q) = %v, want %v", unit.String(), got, unit)
		}
	}
	if _, err := ParseAngle("furlong"); err == nil {
		t.Error("ParseAngle accepted an unknown unit")
	}
}

func TestParseTimeRoundTrip(t *testing.T) {
	for _, unit := range []Time{Sec, Min, Hour} {
		got, err := ParseTime(unit.String())
		if err != nil {
			t.Errorf("ParseTime(%q): %v", unit.String(), err)
		}
		if got != unit {
			t.Errorf("ParseTime(%q) = %v, want %v", unit.String(), got, unit)
		}
	}
	if _, err := ParseTime("fortnight"); err == nil {
		t.Error("ParseTime accepted an unknown unit")
	}
}

func TestConvertAngle(t *testing.T) {
	tests := []struct {
		value    float64
		from, to Angle
		want     float64
	}{
		{1, Deg, Deg, 1},
		{math.Pi, Rad, Deg, 180},
		{180, Deg, Rad, math.Pi},
		{1, Deg, ArcMin, 60},
		{1, Deg, ArcSec, 3600},
		{120, ArcMin, Deg, 2},
		{math.Pi / 2, Rad, ArcSec, 90 * 3600},
	}
	for _, tt := range tests {
		got := ConvertAngle(tt.value, tt.from, tt.to)
		if math.Abs(got-tt.want) > 1e-9*math.Abs(tt.want) {
			t.Errorf("ConvertAngle(%v, %v, %v) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertTime(t *testing.T) {
	tests := []struct {
		value    float64
		from, to Time
		want     float64
	}{
		{1, Sec, Sec, 1},
		{90, Sec, Min, 1.5},
		{2, Hour, Min, 120},
		{30, Min, Hour, 0.5},
	}
	for _, tt := range tests {
		got := ConvertTime(tt.value, tt.from, tt.to)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ConvertTime(%v, %v, %v) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		value float64
		unit  Time
		want  time.Duration
	}{
		{90, Sec, 90 * time.Second},
		{1.5, Min, 90 * time.Second},
		{0.5, Hour, 30 * time.Minute},
	}
	for _, tt := range tests {
		if got := Duration(tt.value, tt.unit); got != tt.want {
			t.Errorf("Duration(%v, %v) = %v, want %v", tt.value, tt.unit, got, tt.want)
		}
	}
}
