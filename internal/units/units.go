// Package units defines the angular and time units carried by pointing
// requests, and conversions between them. Generators never convert units
// implicitly: callers pick one angular and one time unit up front and
// pre-convert every input.
package units

import (
	"fmt"
	"math"
	"time"
)

// Angle is an angular unit accepted by the PTR tooling.
type Angle int

const (
	Deg Angle = iota
	Rad
	ArcMin
	ArcSec
)

// String returns the unit label used inside PTR documents.
func (a Angle) String() string {
	switch a {
	case Deg:
		return "deg"
	case Rad:
		return "rad"
	case ArcMin:
		return "arcMin"
	case ArcSec:
		return "arcSec"
	default:
		return "unknown"
	}
}

// ParseAngle parses a PTR angular unit label.
func ParseAngle(s string) (Angle, error) {
	switch s {
	case "deg":
		return Deg, nil
	case "rad":
		return Rad, nil
	case "arcMin":
		return ArcMin, nil
	case "arcSec":
		return ArcSec, nil
	default:
		return Deg, fmt.Errorf("unknown angular unit %q (valid: deg, rad, arcMin, arcSec)", s)
	}
}

// Time is a time unit accepted by the PTR tooling.
type Time int

const (
	Sec Time = iota
	Min
	Hour
)

// String returns the unit label used inside PTR documents.
func (t Time) String() string {
	switch t {
	case Sec:
		return "sec"
	case Min:
		return "min"
	case Hour:
		return "hour"
	default:
		return "unknown"
	}
}

// ParseTime parses a PTR time unit label.
func ParseTime(s string) (Time, error) {
	switch s {
	case "sec":
		return Sec, nil
	case "min":
		return Min, nil
	case "hour":
		return Hour, nil
	default:
		return Sec, fmt.Errorf("unknown time unit %q (valid: sec, min, hour)", s)
	}
}

// degPerUnit maps an angular unit to its size expressed in degrees.
func degPerUnit(a Angle) float64 {
	switch a {
	case Deg:
		return 1.0
	case Rad:
		return 180.0 / math.Pi
	case ArcMin:
		return 1.0 / 60.0
	case ArcSec:
		return 1.0 / 3600.0
	default:
		return 1.0
	}
}

// secPerUnit maps a time unit to its length in seconds.
func secPerUnit(t Time) float64 {
	switch t {
	case Sec:
		return 1.0
	case Min:
		return 60.0
	case Hour:
		return 3600.0
	default:
		return 1.0
	}
}

// ConvertAngle converts an angular value between units.
func ConvertAngle(value float64, from, to Angle) float64 {
	if from == to {
		return value
	}
	return value * degPerUnit(from) / degPerUnit(to)
}

// ConvertTime converts a time value between units.
func ConvertTime(value float64, from, to Time) float64 {
	if from == to {
		return value
	}
	return value * secPerUnit(from) / secPerUnit(to)
}

// Duration converts a unit-valued time span to a time.Duration.
func Duration(value float64, u Time) time.Duration {
	return time.Duration(value * secPerUnit(u) * float64(time.Second))
}
