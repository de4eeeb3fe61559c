package ephem

import (
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// Geometry is a reusable instantaneous-vector computation between two
// bodies, with both chains pruned to their deepest common ancestor.
type Geometry struct {
	center, target BodyID
	minus, plus    Chain
}

// GeometryOf prepares the instantaneous vector from b to other. Both
// bodies must anchor to the barycenter of a single merged registry.
func (b *Body) GeometryOf(other *Body) (*Geometry, error) {
	reg, err := mergedRegistry(b, other)
	if err != nil {
		return nil, err
	}
	minus, plus, err := rootedChains(reg, b.id, other.id)
	if err != nil {
		return nil, err
	}
	minus, plus = pruneCommon(minus, plus)
	return &Geometry{center: b.id, target: other.id, minus: minus, plus: plus}, nil
}

// Center returns the observing body id.
func (g *Geometry) Center() BodyID {
	return g.center
}

// Target returns the observed body id.
func (g *Geometry) Target() BodyID {
	return g.target
}

// At evaluates the relative state at an instant. One tally over the
// pruned chains; no light-time correction.
func (g *Geometry) At(t timescale.Time) State {
	pos, vel := tally(g.minus, g.plus, t)
	class := ClassGeometric
	if g.center == Barycenter {
		class = ClassBarycentric
	}
	return State{Position: pos, Velocity: vel, Time: t, Class: class}
}
