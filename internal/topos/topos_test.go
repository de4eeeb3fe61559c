package topos

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

const jdJune2024 = 2460477.0

func TestECEFKnownPoints(t *testing.T) {
	tests := []struct {
		name       string
		lat, lon   float64
		elevM      float64
		wantKm     astro.Vec3
		tolKm      float64
	}{
		{
			name:   "equator prime meridian",
			wantKm: astro.Vec3{X: 6378.137},
			tolKm:  1e-6,
		},
		{
			name:   "north pole",
			lat:    90,
			wantKm: astro.Vec3{Z: 6356.752314},
			tolKm:  1e-3,
		},
		{
			name:   "equator lon 90 elevated",
			lon:    90,
			elevM:  1000,
			wantKm: astro.Vec3{Y: 6379.137},
			tolKm:  1e-6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := New(tt.name, tt.lat, tt.lon, tt.elevM)
			gotKm := tp.ecefAU.Scale(astro.AU)
			if diff := gotKm.Sub(tt.wantKm).Norm(); diff > tt.tolKm {
				t.Errorf("ecef = %v km, want %v within %v km", gotKm, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestSiteIDsAreUniqueAndStable(t *testing.T) {
	a := New("a", 0, 0, 0)
	b := New("b", 0, 0, 0)
	if a.ID() == b.ID() {
		t.Errorf("two sites share id %d", a.ID())
	}
	if a.Segment() != a.Segment() {
		t.Error("Segment() returned different pointers for the same site")
	}
	if a.Segment().Target != a.ID() || a.Segment().Center != ephem.Earth {
		t.Errorf("segment = %d -> %d, want earth -> %d", a.Segment().Center, a.Segment().Target, a.ID())
	}
}

func TestComputeSpinsWithSiderealTime(t *testing.T) {
	tp := New("equatorial site", 0, 0, 0)
	ts := timescale.FromTDB(jdJune2024)

	pos, _ := tp.compute(ts)
	r := pos.Norm() * astro.AU
	if math.Abs(r-6378.137) > 1e-3 {
		t.Errorf("geocentric distance = %v km, want equatorial radius", r)
	}
	// A site on the prime meridian culminates at right ascension equal
	// to Greenwich sidereal time.
	ra, dec := astro.RADecOf(pos)
	if math.Abs(dec) > 1e-6 {
		t.Errorf("declination = %v, want 0 for an equatorial site", dec)
	}

	later := ts.AddDays(0.25)
	posLater, _ := tp.compute(later)
	raLater, _ := astro.RADecOf(posLater)
	advance := math.Mod(raLater-ra+360, 360)
	// A quarter UT1 day advances sidereal time by a bit over 90 degrees.
	if math.Abs(advance-90.246) > 0.01 {
		t.Errorf("RA advance over 6 hours = %v deg, want about 90.246", advance)
	}
}

func TestComputeVelocityMatchesFiniteDifference(t *testing.T) {
	tp := Goldstone
	ts := timescale.FromTDB(jdJune2024 + 0.3)
	const h = 1e-4

	_, vel := tp.compute(ts)
	before, _ := tp.compute(ts.SubDays(h))
	after, _ := tp.compute(ts.AddDays(h))
	numeric := after.Sub(before).Scale(1 / (2 * h))
	if diff := numeric.Sub(vel).Norm(); diff > 1e-10 {
		t.Errorf("velocity off finite difference by %v AU/day", diff)
	}

	// Surface speed at Goldstone's latitude is about 380 m/s.
	speedKmS := vel.Norm() * astro.AU / 86400
	if speedKmS < 0.35 || speedKmS > 0.41 {
		t.Errorf("surface speed = %v km/s, want near 0.38", speedKmS)
	}
}

func TestRotationAtIsOrthonormal(t *testing.T) {
	ts := timescale.FromTDB(jdJune2024 + 0.7)
	r := Madrid.RotationAt(ts)
	product := r.Mul(r.Transpose())
	identity := astro.Identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(product[i][j]-identity[i][j]) > 1e-12 {
				t.Fatalf("R*R^T[%d][%d] = %v, want identity", i, j, product[i][j])
			}
		}
	}
}

func TestRotationAtZenith(t *testing.T) {
	// For an equatorial site the geodetic vertical is the radial
	// direction, so its own position vector maps to straight up.
	tp := New("zenith site", 0, 45, 0)
	ts := timescale.FromTDB(jdJune2024 + 0.123)
	pos, _ := tp.compute(ts)
	enu := tp.RotationAt(ts).MulVec(pos.Normalized())
	if math.Abs(enu.X) > 1e-9 || math.Abs(enu.Y) > 1e-9 || math.Abs(enu.Z-1) > 1e-9 {
		t.Errorf("ENU of zenith = %v, want (0, 0, 1)", enu)
	}

	// At mid latitudes geodetic and geocentric verticals differ by a
	// fraction of a degree, no more.
	posG, _ := Goldstone.compute(ts)
	enuG := Goldstone.RotationAt(ts).MulVec(posG.Normalized())
	elDeg := math.Asin(enuG.Z) * 180 / math.Pi
	if elDeg < 89.5 || elDeg > 90.0001 {
		t.Errorf("geocentric radial elevation at Goldstone = %v deg, want just under 90", elDeg)
	}
}

func TestNorthPointsAtPole(t *testing.T) {
	ts := timescale.FromTDB(jdJune2024)
	r := Canberra.RotationAt(ts)
	// The celestial pole has no east component. For a southern site it
	// sits below the horizon, toward true north.
	enu := r.MulVec(astro.Vec3{Z: 1})
	if math.Abs(enu.X) > 1e-12 {
		t.Errorf("pole east component = %v, want 0", enu.X)
	}
	wantN := math.Cos(Canberra.LatDeg * math.Pi / 180)
	wantU := math.Sin(Canberra.LatDeg * math.Pi / 180)
	if math.Abs(enu.Y-wantN) > 1e-12 || math.Abs(enu.Z-wantU) > 1e-12 {
		t.Errorf("pole ENU = %v, want N %v U %v", enu, wantN, wantU)
	}
}

func TestSiteLookup(t *testing.T) {
	tp, err := Site("Goldstone")
	if err != nil || tp != Goldstone {
		t.Errorf("Site(Goldstone) = %v, %v", tp, err)
	}
	if _, err := Site("atacama"); err == nil {
		t.Error("Site(atacama) expected error")
	}
}

func TestSunUp(t *testing.T) {
	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	if !Greenwich.SunUp(noon) {
		t.Error("SunUp(summer noon) = false at Greenwich")
	}
	midnight := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	if Greenwich.SunUp(midnight) {
		t.Error("SunUp(summer midnight) = true at Greenwich")
	}
	// High summer above the Arctic Circle never sets.
	svalbard := New("Svalbard", 78.2, 15.6, 0)
	if !svalbard.SunUp(midnight) {
		t.Error("SunUp(midnight) = false during polar day")
	}
}

func TestSurfaceObserverThroughRegistry(t *testing.T) {
	// A site hangs off Earth in a registry rooted at the barycenter.
	earthSeg := &ephem.Segment{
		Center: ephem.Barycenter,
		Target: ephem.Earth,
		Compute: func(timescale.Time) (astro.Vec3, astro.Vec3) {
			return astro.Vec3{X: 1}, astro.Vec3{}
		},
	}
	reg, err := ephem.NewRegistry(earthSeg)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	catalog := ephem.NewCatalog(reg, nil)

	tp := New("test pad", 10, 20, 0)
	site, err := catalog.SurfaceBody(tp.Segment(), tp)
	if err != nil {
		t.Fatalf("SurfaceBody() error = %v", err)
	}

	ts := timescale.FromTDB(jdJune2024)
	state, err := site.At(ts)
	if err != nil {
		t.Fatalf("At() error = %v", err)
	}
	sitePos, _ := tp.compute(ts)
	want := astro.Vec3{X: 1}.Add(sitePos)
	if diff := state.Position.Sub(want).Norm(); diff > 1e-15 {
		t.Errorf("surface body position off by %v", diff)
	}
}
