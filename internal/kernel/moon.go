package kernel

import (
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// Truncated ELP-derived lunar series (Meeus, Astronomical Algorithms
// ch. 47). The dominant periodic terms only; geocentric positions land
// within roughly 0.2 degrees of the full theory.

// moonGeocentric returns the Moon's geocentric position in AU,
// equatorial J2000, at jdTDB.
func moonGeocentric(jdTDB float64) astro.Vec3 {
	T := (jdTDB - timescale.J2000) / 36525.0

	// Fundamental arguments, degrees.
	Lp := 218.3164477 + 481267.88123421*T - 0.0015786*T*T +
		T*T*T/538841.0 - T*T*T*T/65194000.0
	D := 297.8501921 + 445267.1114034*T - 0.0018819*T*T +
		T*T*T/545868.0 - T*T*T*T/113065000.0
	M := 357.5291092 + 35999.0502909*T - 0.0001536*T*T
	Mp := 134.9633964 + 477198.8675055*T + 0.0087414*T*T +
		T*T*T/69699.0 - T*T*T*T/14712000.0
	F := 93.2720950 + 483202.0175233*T - 0.0036539*T*T -
		T*T*T/3526000.0 + T*T*T*T/863310000.0

	sin := func(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
	cos := func(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }

	// Longitude perturbations, degrees.
	dL := 6.288774*sin(Mp) +
		1.274027*sin(2*D-Mp) +
		0.658314*sin(2*D) +
		0.213618*sin(2*Mp) -
		0.185116*sin(M) -
		0.114332*sin(2*F) +
		0.058793*sin(2*D-2*Mp) +
		0.057066*sin(2*D-M-Mp) +
		0.053322*sin(2*D+Mp) +
		0.045758*sin(2*D-M) -
		0.040923*sin(M-Mp) -
		0.034720*sin(D) -
		0.030383*sin(M+Mp)

	// Latitude, degrees.
	lat := 5.128122*sin(F) +
		0.280602*sin(Mp+F) +
		0.277693*sin(Mp-F) +
		0.173237*sin(2*D-F) +
		0.055413*sin(2*D-Mp+F) +
		0.046271*sin(2*D-Mp-F) +
		0.032573*sin(2*D+F) +
		0.017198*sin(2*Mp+F)

	// Distance, kilometers.
	distKm := 385000.56 -
		20905.355*cos(Mp) -
		3699.111*cos(2*D-Mp) -
		2955.968*cos(2*D) -
		569.925*cos(2*Mp) +
		48.888*cos(M) -
		3.149*cos(2*F) +
		246.158*cos(2*D-2*Mp) -
		152.138*cos(2*D-M-Mp) -
		170.733*cos(2*D+Mp) -
		204.586*cos(2*D-M) -
		129.620*cos(M-Mp) +
		108.743*cos(D) +
		104.755*cos(M+Mp) +
		79.661*cos(Mp-2*F)

	lon := Lp + dL

	// The series yields coordinates of date; refer the longitude back
	// to J2000 by undoing general precession (50.29 arcsec per year).
	lon -= 1.3969713 * T

	lonRad := lon * math.Pi / 180
	latRad := lat * math.Pi / 180
	r := astro.KmToAU(distKm)

	ecliptic := astro.Vec3{
		X: r * math.Cos(latRad) * math.Cos(lonRad),
		Y: r * math.Cos(latRad) * math.Sin(lonRad),
		Z: r * math.Sin(latRad),
	}
	return astro.EclipticToEquatorial(ecliptic)
}

// moonGeocentricState returns geocentric position and velocity of the
// Moon in AU and AU/day. Velocity comes from a central difference; the
// series has no closed-form derivative worth carrying at this
// truncation.
func moonGeocentricState(jdTDB float64) (pos, vel astro.Vec3) {
	const h = 0.01 // days
	pos = moonGeocentric(jdTDB)
	before := moonGeocentric(jdTDB - h)
	after := moonGeocentric(jdTDB + h)
	vel = after.Sub(before).Scale(1 / (2 * h))
	return pos, vel
}
