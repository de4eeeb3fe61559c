package kernel

import (
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// Built-in planetary theory: Keplerian elements with secular rates
// from Standish, "Keplerian Elements for Approximate Positions of the
// Major Planets" (JPL, 1800 AD - 2050 AD table), plus the truncated
// lunar series in moon.go. Positions are good to a few arcminutes
// near the present epoch.

// EMRAT is the Earth/Moon mass ratio (DE value).
const EMRAT = 81.3005691

// orbitalElements holds mean elements at J2000 and their per-century
// rates. Angles in degrees, semi-major axis in AU.
type orbitalElements struct {
	a, aDot       float64 // semi-major axis
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination to the ecliptic
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of the ascending node
}

// heliocentricElements maps planet-system barycenters to their mean
// elements about the Sun. Entry 3 is the Earth-Moon barycenter.
var heliocentricElements = map[ephem.BodyID]orbitalElements{
	NAIFMercuryBary: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		peri: 77.45779628, periDot: 0.16047689,
		node: 48.33076593, nodeDot: -0.12534081,
	},
	NAIFVenusBary: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		peri: 131.60246718, periDot: 0.00268329,
		node: 76.67984255, nodeDot: -0.27769418,
	},
	NAIFEarthMoonBary: {
		a: 1.00000261, aDot: 0.00000562,
		e: 0.01671123, eDot: -0.00004392,
		i: -0.00001531, iDot: -0.01294668,
		l: 100.46457166, lDot: 35999.37244981,
		peri: 102.93768193, periDot: 0.32327364,
		node: 0.0, nodeDot: 0.0,
	},
	NAIFMarsBary: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		peri: -23.94362959, periDot: 0.44441088,
		node: 49.55953891, nodeDot: -0.29257343,
	},
	NAIFJupiterBary: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		peri: 14.72847983, periDot: 0.21252668,
		node: 100.47390909, nodeDot: 0.20469106,
	},
	NAIFSaturnBary: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		peri: 92.59887831, periDot: -0.41897216,
		node: 113.66242448, nodeDot: -0.28867794,
	},
	NAIFUranusBary: {
		a: 19.18916464, aDot: -0.00196176,
		e: 0.04725744, eDot: -0.00004397,
		i: 0.77263783, iDot: -0.00242939,
		l: 313.23810451, lDot: 428.48202785,
		peri: 170.95427630, periDot: 0.40805281,
		node: 74.01692503, nodeDot: 0.04240589,
	},
	NAIFNeptuneBary: {
		a: 30.06992276, aDot: 0.00026291,
		e: 0.00859048, eDot: 0.00005105,
		i: 1.77004347, iDot: 0.00035372,
		l: -55.12002969, lDot: 218.45945325,
		peri: 44.96476227, periDot: -0.32241464,
		node: 131.78422574, nodeDot: -0.00508664,
	},
	NAIFPlutoBary: {
		a: 39.48686035, aDot: 0.00449751,
		e: 0.24885238, eDot: 0.00006016,
		i: 17.14104260, iDot: 0.00000501,
		l: 238.96535011, lDot: 145.18042903,
		peri: 224.09702598, periDot: -0.00968827,
		node: 110.30167986, nodeDot: -0.00809981,
	},
}

const degToRad = math.Pi / 180

// keplerState evaluates the elements at jdTDB and returns heliocentric
// position (AU) and velocity (AU/day), equatorial J2000.
func keplerState(el orbitalElements, jdTDB float64) (pos, vel astro.Vec3) {
	T := (jdTDB - timescale.J2000) / 36525.0

	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	inc := (el.i + el.iDot*T) * degToRad
	node := (el.node + el.nodeDot*T) * degToRad
	argPeri := (el.peri + el.periDot*T - el.node - el.nodeDot*T) * degToRad

	// Mean anomaly, folded into (-180, 180] before the solve.
	mDeg := math.Mod(el.l+el.lDot*T-el.peri-el.periDot*T, 360)
	if mDeg > 180 {
		mDeg -= 360
	} else if mDeg < -180 {
		mDeg += 360
	}
	E := solveKepler(mDeg*degToRad, e)

	sinE, cosE := math.Sin(E), math.Cos(E)
	b := a * math.Sqrt(1-e*e)

	// Perifocal coordinates and their rates. The mean motion is the
	// rate of the mean anomaly, not of the mean longitude.
	n := (el.lDot - el.periDot) * degToRad / 36525.0
	anomalyRate := n / (1 - e*cosE)
	perifocalPos := astro.Vec3{X: a * (cosE - e), Y: b * sinE}
	perifocalVel := astro.Vec3{X: -a * sinE * anomalyRate, Y: b * cosE * anomalyRate}

	// Frame-rotation matrices, so the perifocal-to-ecliptic transform
	// takes the negated angles.
	rot := astro.RotationZ(-node).Mul(astro.RotationX(-inc)).Mul(astro.RotationZ(-argPeri))
	pos = astro.EclipticToEquatorial(rot.MulVec(perifocalPos))
	vel = astro.EclipticToEquatorial(rot.MulVec(perifocalVel))
	return pos, vel
}

// solveKepler inverts Kepler's equation M = E - e*sin(E) by Newton
// iteration. Inputs and output in radians.
func solveKepler(m, e float64) float64 {
	E := m + e*math.Sin(m)
	for i := 0; i < 20; i++ {
		delta := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return E
}

// analyticSegments assembles the full built-in segment set: the Sun
// pinned at the solar-system barycenter, heliocentric planet-system
// barycenters, Earth and Moon about their common barycenter, and
// zero-offset hops from each single-planet system's barycenter to the
// planet itself.
func analyticSegments() []*ephem.Segment {
	segs := []*ephem.Segment{
		// The built-in theory pins the Sun to the barycenter; the true
		// offset stays below 0.01 AU.
		{Center: NAIFSSB, Target: NAIFSun, Compute: zeroCompute},
		{Center: NAIFEarthMoonBary, Target: NAIFEarth, Compute: earthFromEMB},
		{Center: NAIFEarthMoonBary, Target: NAIFMoon, Compute: moonFromEMB},
	}
	for id, el := range heliocentricElements {
		el := el // per-iteration copy for the closure under pre-1.22 loop semantics
		segs = append(segs, &ephem.Segment{
			Center: NAIFSun,
			Target: id,
			Compute: func(t timescale.Time) (astro.Vec3, astro.Vec3) {
				return keplerState(el, t.TDB())
			},
		})
	}
	segs = append(segs, planetAtBarycenterSegments()...)
	return segs
}

// planetSystemBarycenter maps each single-planet body to its system's
// barycenter. Moons of these systems are beyond the built-in sources,
// so the planet sits at the barycenter itself.
var planetSystemBarycenter = map[ephem.BodyID]ephem.BodyID{
	NAIFMercury: NAIFMercuryBary,
	NAIFVenus:   NAIFVenusBary,
	NAIFMars:    NAIFMarsBary,
	NAIFJupiter: NAIFJupiterBary,
	NAIFSaturn:  NAIFSaturnBary,
	NAIFUranus:  NAIFUranusBary,
	NAIFNeptune: NAIFNeptuneBary,
	NAIFPluto:   NAIFPlutoBary,
}

func planetAtBarycenterSegments() []*ephem.Segment {
	segs := make([]*ephem.Segment, 0, len(planetSystemBarycenter))
	for planet, bary := range planetSystemBarycenter {
		segs = append(segs, &ephem.Segment{Center: bary, Target: planet, Compute: zeroCompute})
	}
	return segs
}

func zeroCompute(timescale.Time) (astro.Vec3, astro.Vec3) {
	return astro.Vec3{}, astro.Vec3{}
}

// earthFromEMB places the Earth opposite the Moon about the Earth-Moon
// barycenter, scaled by the mass ratio.
func earthFromEMB(t timescale.Time) (astro.Vec3, astro.Vec3) {
	pos, vel := moonGeocentricState(t.TDB())
	k := -1.0 / (1.0 + EMRAT)
	return pos.Scale(k), vel.Scale(k)
}

// moonFromEMB places the Moon on the far side of the same barycenter.
func moonFromEMB(t timescale.Time) (astro.Vec3, astro.Vec3) {
	pos, vel := moonGeocentricState(t.TDB())
	k := EMRAT / (1.0 + EMRAT)
	return pos.Scale(k), vel.Scale(k)
}
