// Package topos models ground sites: WGS-84 coordinates become
// ephemeris segments hanging from Earth, and each site carries the
// rotation taking equatorial vectors into its local horizon frame.
package topos

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// WGS-84 ellipsoid.
const (
	equatorialRadiusKm = 6378.137
	flattening         = 1 / 298.257223563
)

// gmstRateRadPerDay is the advance of Greenwich mean sidereal time per
// UT1 day.
const gmstRateRadPerDay = 360.98564736629 * math.Pi / 180

// Site ids are allocated above the range NAIF reserves for real Earth
// stations.
var siteCounter int64 = 399900

// Topos is a fixed site on the Earth's surface. Construct with New;
// the coordinates are read once there.
type Topos struct {
	Name   string
	LatDeg float64
	LonDeg float64
	ElevM  float64

	id      ephem.BodyID
	ecefAU  astro.Vec3
	latRad  float64
	lonRad  float64
	segment *ephem.Segment
}

// New creates a site at geodetic latitude and longitude in degrees
// (east positive) and elevation in meters, and allocates its body id.
func New(name string, latDeg, lonDeg, elevM float64) *Topos {
	tp := &Topos{
		Name:   name,
		LatDeg: latDeg,
		LonDeg: lonDeg,
		ElevM:  elevM,
		id:     ephem.BodyID(atomic.AddInt64(&siteCounter, 1)),
		latRad: latDeg * math.Pi / 180,
		lonRad: lonDeg * math.Pi / 180,
	}
	tp.ecefAU = tp.ecef()
	tp.segment = &ephem.Segment{
		Center:  ephem.Earth,
		Target:  tp.id,
		Compute: tp.compute,
	}
	return tp
}

// ecef returns the site's Earth-fixed position in AU.
func (tp *Topos) ecef() astro.Vec3 {
	sinLat, cosLat := math.Sin(tp.latRad), math.Cos(tp.latRad)
	e2 := flattening * (2 - flattening)
	// Prime-vertical radius of curvature.
	n := equatorialRadiusKm / math.Sqrt(1-e2*sinLat*sinLat)
	h := tp.ElevM / 1000
	rho := (n + h) * cosLat
	return astro.Vec3{
		X: rho * math.Cos(tp.lonRad) / astro.AU,
		Y: rho * math.Sin(tp.lonRad) / astro.AU,
		Z: ((n*(1-e2) + h) * sinLat) / astro.AU,
	}
}

// ID returns the site's allocated body id.
func (tp *Topos) ID() ephem.BodyID {
	return tp.id
}

// Segment returns the Earth-to-site segment. The pointer is stable, so
// registering the same site twice stays idempotent.
func (tp *Topos) Segment() *ephem.Segment {
	return tp.segment
}

// compute returns the site's geocentric position and velocity in the
// equatorial frame, spun up from the Earth-fixed position by sidereal
// time. Precession, nutation, and polar motion are below the accuracy
// carried here.
func (tp *Topos) compute(t timescale.Time) (astro.Vec3, astro.Vec3) {
	gmst := sidereal.Mean(t.UT1()).Angle().Rad()
	pos := astro.RotationZ(-gmst).MulVec(tp.ecefAU)
	vel := astro.Vec3{
		X: -gmstRateRadPerDay * pos.Y,
		Y: gmstRateRadPerDay * pos.X,
	}
	return pos, vel
}

// RotationAt returns the matrix taking equatorial vectors into the
// site's east-north-up frame at t. Topos satisfies the rotation
// provider wanted by surface bodies.
func (tp *Topos) RotationAt(t timescale.Time) astro.Matrix3 {
	theta := sidereal.Mean(t.UT1()).Angle().Rad() + tp.lonRad
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	sinLat, cosLat := math.Sin(tp.latRad), math.Cos(tp.latRad)
	return astro.Matrix3{
		{-sinT, cosT, 0},
		{-sinLat * cosT, -sinLat * sinT, cosLat},
		{cosLat * cosT, cosLat * sinT, sinLat},
	}
}

// SunUp reports whether the Sun is above the site's horizon at the
// given instant, from the low-precision solar series and ignoring
// refraction.
func (tp *Topos) SunUp(at time.Time) bool {
	ts := timescale.FromTime(at.UTC())
	ra, dec := astro.SunPosition(ts.TT())
	hor := astro.EquatorialToHorizontal(
		astro.SkyCoord{RAdeg: ra, DecDeg: dec},
		astro.Site{Name: tp.Name, LatDeg: tp.LatDeg, LonDeg: tp.LonDeg, ElevM: tp.ElevM},
		ts.UT1(),
	)
	return hor.ElDeg > 0
}

// Built-in sites: the three deep-space network complexes and the
// Greenwich reference.
var (
	Goldstone = New("Goldstone", 35.4267, -116.8900, 1036)
	Canberra  = New("Canberra", -35.4014, 148.9817, 692)
	Madrid    = New("Madrid", 40.4314, -4.2481, 834)
	Greenwich = New("Greenwich", 51.4769, -0.0005, 46)
)

// Sites maps lowercase names to the built-in sites.
var Sites = map[string]*Topos{
	"goldstone": Goldstone,
	"canberra":  Canberra,
	"madrid":    Madrid,
	"greenwich": Greenwich,
}

// Site looks up a built-in site by name, case-insensitively.
func Site(name string) (*Topos, error) {
	if tp, ok := Sites[normalize(name)]; ok {
		return tp, nil
	}
	return nil, fmt.Errorf("unknown site %q", name)
}

func normalize(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
