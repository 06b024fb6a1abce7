package ephem

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

// shapeVertexCount is the number of vertices per silhouette half (limb and
// terminator). Coarse enough to keep frame filtering cheap, fine enough
// that the polygon tracks the limb to well under a frame width.
const shapeVertexCount = 24

// FlybyProvider models a straight-line flyby past a spherical target. The
// spacecraft passes at ClosestApproachKm with constant speed; the Sun sits
// along +x in the instrument frame at a fixed phase angle. It is the
// geometry source used when no ephemeris kernel is on hand, and the one the
// planning tests run against.
type FlybyProvider struct {
	TargetName          string
	TargetRadiusKm      float64
	ClosestApproachKm   float64   // distance at closest approach, center to spacecraft
	ClosestApproachTime time.Time // epoch of closest approach
	SpeedKmPerSec       float64   // relative speed along the flyby asymptote
	PhaseAngleDeg       float64   // Sun-target-observer angle, held constant
}

// NewFlybyProvider validates and returns the provider.
func NewFlybyProvider(p FlybyProvider) (*FlybyProvider, error) {
	if p.TargetName == "" {
		return nil, fmt.Errorf("flyby provider: target name must be set")
	}
	if p.TargetRadiusKm <= 0 {
		return nil, fmt.Errorf("flyby provider: target radius must be positive: %g", p.TargetRadiusKm)
	}
	if p.ClosestApproachKm <= p.TargetRadiusKm {
		return nil, fmt.Errorf("flyby provider: closest approach %g km is inside the target (radius %g km)",
			p.ClosestApproachKm, p.TargetRadiusKm)
	}
	if p.ClosestApproachTime.IsZero() {
		return nil, fmt.Errorf("flyby provider: closest approach time must be set")
	}
	if p.SpeedKmPerSec <= 0 {
		return nil, fmt.Errorf("flyby provider: speed must be positive: %g", p.SpeedKmPerSec)
	}
	if p.PhaseAngleDeg < 0 || p.PhaseAngleDeg >= 180 {
		return nil, fmt.Errorf("flyby provider: phase angle must be in [0, 180): %g", p.PhaseAngleDeg)
	}
	return &p, nil
}

// Name implements Provider.
func (p *FlybyProvider) Name() string {
	return "flyby"
}

// Available implements Provider. The provider models exactly one target.
func (p *FlybyProvider) Available(target string) bool {
	return strings.EqualFold(target, p.TargetName)
}

// Distance returns the center-to-spacecraft range at t, in km.
func (p *FlybyProvider) Distance(t time.Time) float64 {
	dt := t.Sub(p.ClosestApproachTime).Seconds()
	along := p.SpeedKmPerSec * dt
	return math.Sqrt(p.ClosestApproachKm*p.ClosestApproachKm + along*along)
}

func (p *FlybyProvider) checkTarget(target string) error {
	if !p.Available(target) {
		return fmt.Errorf("%w: flyby provider models %q, not %q",
			ErrGeometryUnavailable, p.TargetName, target)
	}
	return nil
}

// AngularDiameter implements Provider.
func (p *FlybyProvider) AngularDiameter(target string, t time.Time, unit units.Angle) (float64, error) {
	if err := p.checkTarget(target); err != nil {
		return 0, err
	}
	d := p.Distance(t)
	if d <= p.TargetRadiusKm {
		return 0, fmt.Errorf("%w: observer range %g km is inside the target at %s",
			ErrGeometryUnavailable, d, t.Format(time.RFC3339))
	}
	diameterRad := 2 * math.Asin(p.TargetRadiusKm/d)
	return units.ConvertAngle(diameterRad, units.Rad, unit), nil
}

// IlluminatedShape implements Provider. The silhouette is the sunlit limb
// half-circle on the +x side closed by the terminator, projected as a
// half-ellipse whose width shrinks with the cosine of the phase angle. At
// zero phase the polygon is the full disk; near 180 degrees it degenerates
// toward the terminator line.
func (p *FlybyProvider) IlluminatedShape(target string, t time.Time, unit units.Angle) (geometry.Polygon, error) {
	diameter, err := p.AngularDiameter(target, t, unit)
	if err != nil {
		return nil, err
	}
	radius := diameter / 2
	cosPhase := math.Cos(p.PhaseAngleDeg * math.Pi / 180)

	shape := make(geometry.Polygon, 0, 2*shapeVertexCount)
	// Sunlit limb, bottom to top along the +x side.
	for i := 0; i <= shapeVertexCount; i++ {
		theta := -math.Pi/2 + math.Pi*float64(i)/float64(shapeVertexCount)
		shape = append(shape, geom.Coord{
			X: radius * math.Cos(theta),
			Y: radius * math.Sin(theta),
		})
	}
	// Terminator, top back down to the bottom, excluding the shared poles.
	for i := 1; i < shapeVertexCount; i++ {
		phi := math.Pi/2 + math.Pi*float64(i)/float64(shapeVertexCount)
		shape = append(shape, geom.Coord{
			X: radius * cosPhase * math.Cos(phi),
			Y: radius * math.Sin(phi),
		})
	}
	return shape, nil
}

// NadirSurfaceVelocity implements Provider. It is the apparent ground speed
// of the sub-observer point: the cross-track component of the flyby
// velocity, scaled down to the surface.
func (p *FlybyProvider) NadirSurfaceVelocity(target string, t time.Time) (float64, error) {
	if err := p.checkTarget(target); err != nil {
		return 0, err
	}
	d := p.Distance(t)
	if d <= p.TargetRadiusKm {
		return 0, fmt.Errorf("%w: observer range %g km is inside the target at %s",
			ErrGeometryUnavailable, d, t.Format(time.RFC3339))
	}
	crossTrack := p.SpeedKmPerSec * p.ClosestApproachKm / d
	return crossTrack * p.TargetRadiusKm / d, nil
}

// PixelFootprint implements Provider. The footprint is computed at the
// sub-observer point, so the range to the surface is the center range minus
// the target radius.
func (p *FlybyProvider) PixelFootprint(target string, t time.Time, fovAngleDeg float64, fovPx int) (float64, error) {
	if err := p.checkTarget(target); err != nil {
		return 0, err
	}
	if fovAngleDeg <= 0 || fovPx <= 0 {
		return 0, fmt.Errorf("%w: FOV angle and pixel count must be positive: %g deg, %d px",
			ErrGeometryUnavailable, fovAngleDeg, fovPx)
	}
	d := p.Distance(t)
	if d <= p.TargetRadiusKm {
		return 0, fmt.Errorf("%w: observer range %g km is inside the target at %s",
			ErrGeometryUnavailable, d, t.Format(time.RFC3339))
	}
	surfaceRange := d - p.TargetRadiusKm
	halfWidthKm := math.Tan(fovAngleDeg/2*math.Pi/180) * surfaceRange
	return halfWidthKm / (float64(fovPx) / 2), nil
}
