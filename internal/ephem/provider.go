// Package ephem supplies the observation geometry the mosaic and scan
// generators consume: apparent angular diameter, sunlit silhouette, and the
// surface-motion quantities the exposure calculators need. Generators treat
// one query result as constant for the whole generator call.
package ephem

import (
	"errors"
	"time"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

// ErrGeometryUnavailable reports that a geometry query cannot be resolved
// for the requested time (no valid sight line to the target). It is
// propagated unchanged; callers have no basis to retry with a guessed
// geometry.
var ErrGeometryUnavailable = errors.New("geometry unavailable")

// Provider defines the interface for observation geometry sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// AngularDiameter returns the target's apparent angular diameter at t,
	// in the requested angular unit.
	AngularDiameter(target string, t time.Time, unit units.Angle) (float64, error)

	// IlluminatedShape returns the sunlit silhouette of the target at t as
	// a polygon in observer-frame angular coordinates (+x toward the Sun),
	// in the requested angular unit.
	IlluminatedShape(target string, t time.Time, unit units.Angle) (geometry.Polygon, error)

	// NadirSurfaceVelocity returns the ground speed of the sub-observer
	// point at t, in km/s.
	NadirSurfaceVelocity(target string, t time.Time) (float64, error)

	// PixelFootprint returns the size of one detector pixel projected onto
	// the surface at the sub-observer point, in km, for an instrument with
	// the given full FOV angle (degrees) across fovPx pixels.
	PixelFootprint(target string, t time.Time, fovAngleDeg float64, fovPx int) (float64, error)

	// Available reports whether this provider can supply geometry for the
	// target.
	Available(target string) bool
}
