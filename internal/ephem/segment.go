// Package ephem resolves solar-system geometry from chains of ephemeris
// segments and corrects observations for light travel time.
package ephem

import (
	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// BodyID identifies a solar-system body in the NAIF numbering scheme.
type BodyID int

const (
	// Barycenter is the solar-system barycenter, the root every usable
	// segment chain must reach.
	Barycenter BodyID = 0

	// Earth is the geocenter. Observations flag observers that ride on it.
	Earth BodyID = 399
)

// ComputeFunc evaluates a segment at an instant, returning position and
// velocity of the segment target relative to the segment center, in AU
// and AU per day on equatorial J2000 axes. Implementations are pure:
// no error path, no retained state, safe for concurrent calls.
type ComputeFunc func(t timescale.Time) (pos, vel astro.Vec3)

// Segment is one edge of the ephemeris forest: the motion of exactly
// one target body around one center body. Segments are shared by
// pointer and never mutated; pointer identity is segment identity.
type Segment struct {
	Center  BodyID
	Target  BodyID
	Compute ComputeFunc
}

// Chain is a run of segments read root first, each segment's center
// being the previous segment's target.
type Chain []*Segment

// tally aggregates segment evaluations at one instant: plus segments
// add their vectors, minus segments subtract. Every position this
// package produces funnels through here.
func tally(minus, plus Chain, t timescale.Time) (pos, vel astro.Vec3) {
	for _, s := range minus {
		p, v := s.Compute(t)
		pos = pos.Sub(p)
		vel = vel.Sub(v)
	}
	for _, s := range plus {
		p, v := s.Compute(t)
		pos = pos.Add(p)
		vel = vel.Add(v)
	}
	return pos, vel
}

// pruneCommon strips the prefix two chains with a shared root have in
// common, leaving only the hops below their deepest common ancestor.
func pruneCommon(minus, plus Chain) (Chain, Chain) {
	i := 0
	for i < len(minus) && i < len(plus) && minus[i] == plus[i] {
		i++
	}
	return minus[i:], plus[i:]
}
