package ui

import (
	"fmt"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/state"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// trackedRow names one canvas body, in draw and cycle order.
type trackedRow struct {
	name string
	kind state.BodyKind
}

var trackedRows = []trackedRow{
	{"sun", state.KindSun},
	{"mercury", state.KindInner},
	{"venus", state.KindInner},
	{"earth", state.KindInner},
	{"moon", state.KindMoon},
	{"mars", state.KindInner},
	{"jupiter", state.KindGiant},
	{"saturn", state.KindGiant},
	{"uranus", state.KindGiant},
	{"neptune", state.KindGiant},
	{"pluto", state.KindInner},
}

// trackedBody pairs a row with its prepared solutions.
type trackedBody struct {
	row trackedRow
	id  ephem.BodyID

	helio *ephem.Geometry // heliocentric placement, nil for the sun itself
	obs   *ephem.Solution // observer pairing, nil when the body is the observer
}

// Tracker evaluates orrery frames. Pairings are prepared once; Frame is
// cheap enough to call on every tick.
type Tracker struct {
	site   string
	bodies []trackedBody
}

// NewTracker resolves the canvas body set against the catalog and
// prepares observer pairings. site names the surface observer carried
// in frames, empty for a geocentric observer.
func NewTracker(cat *ephem.Catalog, observer *ephem.Body, site string) (*Tracker, error) {
	sun, err := cat.Body("sun")
	if err != nil {
		return nil, err
	}

	tr := &Tracker{site: site}
	for _, row := range trackedRows {
		target, err := cat.Body(row.name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", row.name, err)
		}
		tb := trackedBody{row: row, id: target.ID()}
		if target.ID() != sun.ID() {
			g, err := sun.GeometryOf(target)
			if err != nil {
				return nil, fmt.Errorf("placing %s heliocentrically: %w", row.name, err)
			}
			tb.helio = g
		}
		if target.ID() != observer.ID() {
			sol, err := observer.Observe(target)
			if err != nil {
				return nil, fmt.Errorf("pairing observer with %s: %w", row.name, err)
			}
			tb.obs = sol
		}
		tr.bodies = append(tr.bodies, tb)
	}
	return tr, nil
}

// Site returns the surface observer name, empty for geocentric.
func (tr *Tracker) Site() string {
	return tr.site
}

// Frame evaluates every tracked body at an instant. Bodies without an
// observer pairing (the observer's own planet) keep zeroed readouts.
func (tr *Tracker) Frame(t timescale.Time) (*state.Frame, error) {
	frame := &state.Frame{Time: t, Site: tr.site}
	for _, tb := range tr.bodies {
		bf := state.BodyFrame{Name: tb.row.name, ID: tb.id, Kind: tb.row.kind}

		if tb.helio != nil {
			st := tb.helio.At(t)
			bf.Helio = astro.EquatorialToEcliptic(st.Position)
		}

		if tb.obs != nil {
			obs, err := tb.obs.At(t)
			if err != nil {
				return nil, fmt.Errorf("observing %s: %w", tb.row.name, err)
			}
			bf.RADeg, bf.DecDeg = obs.RADec()
			bf.DistanceAU = obs.DistanceAU()
			bf.LightTimeSec = obs.LightTimeDays * 86400
			bf.RangeRateKmS = obs.RadialVelocityKmS()
			if az, el, ok := obs.AltAz(); ok {
				bf.AzDeg, bf.ElDeg, bf.HasHorizon = az, el, true
			}
		}

		frame.Bodies = append(frame.Bodies, bf)
	}
	return frame, nil
}
