package ephem

import (
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// PositionClass tells what kind of position a computation produced.
type PositionClass int

const (
	// ClassBarycentric marks positions measured from the solar-system
	// barycenter.
	ClassBarycentric PositionClass = iota

	// ClassGeometric marks instantaneous body-to-body positions with
	// no light-time correction.
	ClassGeometric

	// ClassAstrometric marks light-time corrected positions as an
	// observer would record them.
	ClassAstrometric
)

// String returns the class name.
func (c PositionClass) String() string {
	switch c {
	case ClassBarycentric:
		return "barycentric"
	case ClassGeometric:
		return "geometric"
	case ClassAstrometric:
		return "astrometric"
	default:
		return "unknown"
	}
}

// State is a position and velocity pair at one instant.
type State struct {
	Position astro.Vec3 // AU, equatorial J2000
	Velocity astro.Vec3 // AU/day
	Time     timescale.Time
	Class    PositionClass
}

// RADec returns the right ascension and declination of the state's
// direction, in degrees.
func (s State) RADec() (raDeg, decDeg float64) {
	return astro.RADecOf(s.Position)
}

// DistanceAU returns the length of the position vector in AU.
func (s State) DistanceAU() float64 {
	return s.Position.Norm()
}

// DistanceKm returns the length of the position vector in kilometers.
func (s State) DistanceKm() float64 {
	return s.Position.Norm() * astro.AU
}

// SpeedKmS returns the magnitude of the velocity in km/s.
func (s State) SpeedKmS() float64 {
	return s.Velocity.Norm() * astro.AU / 86400
}

// RadialVelocityKmS returns the line-of-sight speed in km/s, positive
// for motion away from the chain center.
func (s State) RadialVelocityKmS() float64 {
	r := s.Position.Norm()
	if r == 0 {
		return 0
	}
	auPerDay := s.Velocity.Dot(s.Position.Scale(1 / r))
	return auPerDay * astro.AU / 86400
}

// LightTimeSec returns the one-way light travel time across the
// position vector, in seconds.
func (s State) LightTimeSec() float64 {
	return astro.LightTimeFromAU(s.Position.Norm())
}

// RotationProvider supplies a frame rotation for an instant.
// Surface-fixed observers use it to carry the local horizon frame.
type RotationProvider interface {
	// RotationAt returns the matrix taking equatorial J2000 axes into
	// the provider's frame at time t.
	RotationAt(t timescale.Time) astro.Matrix3
}

// ObserverState records where the observing body was when an
// observation was made.
type ObserverState struct {
	Position astro.Vec3 // AU from the solar-system barycenter
	Velocity astro.Vec3 // AU/day

	// Geocentric reports whether the observer is the Earth or rides
	// on it.
	Geocentric bool

	// Rotation takes equatorial axes into the observer's east, north,
	// up frame at the nominal observation time. Nil unless the
	// observer is surface-fixed.
	Rotation *astro.Matrix3
}

// Observation is a light-time corrected state plus solve metadata.
type Observation struct {
	State

	// LightTimeDays is the converged one-way light travel time.
	LightTimeDays float64

	// Observer is the observing body's own barycentric state at the
	// nominal time.
	Observer ObserverState
}

// AltAz returns the azimuth and elevation of the observed direction in
// the observer's local frame, in degrees. ok is false when the
// observer carries no frame rotation.
func (o Observation) AltAz() (azDeg, elDeg float64, ok bool) {
	if o.Observer.Rotation == nil {
		return 0, 0, false
	}
	enu := o.Observer.Rotation.MulVec(o.Position)
	r := enu.Norm()
	if r == 0 {
		return 0, 0, true
	}
	azDeg = math.Atan2(enu.X, enu.Y) * 180 / math.Pi
	if azDeg < 0 {
		azDeg += 360
	}
	elDeg = math.Asin(enu.Z/r) * 180 / math.Pi
	return azDeg, elDeg, true
}
