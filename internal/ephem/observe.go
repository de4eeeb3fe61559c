package ephem

import (
	"fmt"
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

const (
	// lightTimeTolerance is the fixed-point convergence threshold for
	// successive light-time estimates, in days.
	lightTimeTolerance = 1e-12

	// maxLightTimeRounds bounds the fixed-point iteration.
	maxLightTimeRounds = 10
)

// Solution is a reusable observer and target pairing that corrects for
// light travel time. Unlike Geometry it keeps both chains anchored at
// the barycenter: the retarded target evaluation needs true positions.
type Solution struct {
	center, target BodyID
	minus, plus    Chain
	rotation       RotationProvider
	geocentric     bool
}

// Observe prepares light-time corrected observations of other as seen
// from b. Both bodies must anchor to the barycenter of a single merged
// registry.
func (b *Body) Observe(other *Body) (*Solution, error) {
	reg, err := mergedRegistry(b, other)
	if err != nil {
		return nil, err
	}
	minus, plus, err := rootedChains(reg, b.id, other.id)
	if err != nil {
		return nil, err
	}
	return &Solution{
		center:     b.id,
		target:     other.id,
		minus:      minus,
		plus:       plus,
		rotation:   b.rotation,
		geocentric: ridesOnEarth(b.id, minus),
	}, nil
}

// Center returns the observing body id.
func (s *Solution) Center() BodyID {
	return s.center
}

// Target returns the observed body id.
func (s *Solution) Target() BodyID {
	return s.target
}

// At observes the target at an instant. The observer chain is tallied
// once at t; only the target chain is re-evaluated at progressively
// better estimates of t minus the light travel time, until successive
// estimates agree within the tolerance. An estimate that is still
// moving after the round bound is never returned.
func (s *Solution) At(t timescale.Time) (Observation, error) {
	centerPos, centerVel := tally(nil, s.minus, t)
	targetPos, targetVel := tally(nil, s.plus, t)
	distance := targetPos.Sub(centerPos).Norm()

	prev := 0.0
	for round := 0; round < maxLightTimeRounds; round++ {
		lt := distance / astro.CAUDay
		if math.Abs(lt-prev) < lightTimeTolerance {
			return s.observation(t, targetPos, targetVel, centerPos, centerVel, lt), nil
		}
		targetPos, targetVel = tally(nil, s.plus, t.SubDays(lt))
		distance = targetPos.Sub(centerPos).Norm()
		prev = lt
	}
	return Observation{}, fmt.Errorf("observing body %d from body %d: %w",
		s.target, s.center, ErrLightTimeDivergence)
}

func (s *Solution) observation(t timescale.Time, targetPos, targetVel, centerPos, centerVel astro.Vec3, lt float64) Observation {
	class := ClassAstrometric
	if s.center == Barycenter {
		class = ClassBarycentric
	}
	obs := Observation{
		State: State{
			Position: targetPos.Sub(centerPos),
			Velocity: targetVel.Sub(centerVel),
			Time:     t,
			Class:    class,
		},
		LightTimeDays: lt,
		Observer: ObserverState{
			Position:   centerPos,
			Velocity:   centerVel,
			Geocentric: s.geocentric,
		},
	}
	if s.rotation != nil {
		// The horizon frame belongs to the nominal time, not the
		// retarded one.
		r := s.rotation.RotationAt(t)
		obs.Observer.Rotation = &r
	}
	return obs
}

// ridesOnEarth reports whether the observing body is the Earth or sits
// below it in the chain.
func ridesOnEarth(center BodyID, chain Chain) bool {
	if center == Earth {
		return true
	}
	for _, s := range chain {
		if s.Center == Earth {
			return true
		}
	}
	return false
}
