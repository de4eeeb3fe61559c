package astro

import (
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/sidereal"
)

// 2024-06-15 12:00 UTC
const jdJune2024 = 2460477.0

func TestGreenwichMeanSiderealTime(t *testing.T) {
	// At J2000 epoch (JD 2451545.0), GMST should be approximately 280.46°
	gmst := GreenwichMeanSiderealTime(2451545.0)

	if math.Abs(gmst-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}

	// GMST should be in range 0-360
	if gmst < 0 || gmst >= 360 {
		t.Errorf("GMST out of range: %v", gmst)
	}
}

func TestGreenwichMeanSiderealTime_AgainstMeeus(t *testing.T) {
	// The IAU 1982 polynomial should agree with the reference implementation
	// to well under an arcsecond of time over recent decades.
	jds := []float64{2451545.0, 2455197.5, jdJune2024}

	for _, jd := range jds {
		want := sidereal.Mean(jd).Angle().Deg()
		want = math.Mod(want, 360)
		if want < 0 {
			want += 360
		}

		got := GreenwichMeanSiderealTime(jd)

		diff := math.Abs(got - want)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 0.01 {
			t.Errorf("GreenwichMeanSiderealTime(%v) = %v, reference gives %v", jd, got, want)
		}
	}
}

func TestLocalSiderealTime(t *testing.T) {
	// At longitude 0 (Greenwich), LST should equal GMST
	gmst := GreenwichMeanSiderealTime(jdJune2024)
	lst0 := LocalSiderealTime(jdJune2024, 0)
	if math.Abs(lst0-gmst) > 0.001 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	// At longitude +90° (east), LST should be GMST + 90°
	lst90 := LocalSiderealTime(jdJune2024, 90)
	expected90 := math.Mod(gmst+90, 360)
	if math.Abs(lst90-expected90) > 0.001 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, expected90)
	}

	// LST should always be in 0-360 range
	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(jdJune2024, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestRADecOf(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec3
		wantRA float64
		wantDc float64
	}{
		{"vernal equinox direction", Vec3{X: 1}, 0, 0},
		{"90 degrees RA", Vec3{Y: 1}, 90, 0},
		{"north celestial pole", Vec3{Z: 1}, 0, 90},
		{"south celestial pole", Vec3{Z: -2.5}, 0, -90},
		{"negative RA wraps", Vec3{X: 1, Y: -1}, 315, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := RADecOf(tt.v)
			if math.Abs(ra-tt.wantRA) > 1e-9 {
				t.Errorf("RADecOf() ra = %v, want %v", ra, tt.wantRA)
			}
			if math.Abs(dec-tt.wantDc) > 1e-9 {
				t.Errorf("RADecOf() dec = %v, want %v", dec, tt.wantDc)
			}
		})
	}
}

func TestEquatorialToHorizontal_Polaris(t *testing.T) {
	// Polaris is approximately at RA=37.95°, Dec=89.26° (very close to NCP)
	// From northern latitudes, it should always be visible (El > 0)
	// with El ≈ latitude

	polaris := SkyCoord{
		RAdeg:  37.95,
		DecDeg: 89.26,
	}

	// Site at 35°N (roughly Goldstone latitude)
	site := Site{
		LatDeg: 35.0,
		LonDeg: -117.0, // west longitude
	}

	result := EquatorialToHorizontal(polaris, site, jdJune2024)

	// Polaris elevation should be approximately equal to site latitude (±5°)
	expectedEl := site.LatDeg
	if math.Abs(result.ElDeg-expectedEl) > 5 {
		t.Errorf("Polaris elevation = %v°, expected ~%v° (latitude)", result.ElDeg, expectedEl)
	}

	// Polaris should always be visible from the northern hemisphere
	if result.ElDeg < 0 {
		t.Errorf("Polaris should be visible from 35°N, got El=%v°", result.ElDeg)
	}

	// Original RA/Dec should be preserved
	if result.RAdeg != polaris.RAdeg || result.DecDeg != polaris.DecDeg {
		t.Error("RA/Dec should be preserved after transformation")
	}
}

func TestEquatorialToHorizontal_ZenithStar(t *testing.T) {
	// A star at the zenith has Dec = site latitude and HA = 0,
	// which means RA = LST at that moment

	site := Site{
		LatDeg: 35.0,
		LonDeg: -117.0,
	}

	lst := LocalSiderealTime(jdJune2024, site.LonDeg)

	zenithStar := SkyCoord{
		RAdeg:  lst,
		DecDeg: site.LatDeg,
	}

	result := EquatorialToHorizontal(zenithStar, site, jdJune2024)

	if math.Abs(result.ElDeg-90) > 1 {
		t.Errorf("Zenith star elevation = %v°, expected ~90°", result.ElDeg)
	}
}

func TestEquatorialToHorizontal_SouthernStar(t *testing.T) {
	// A star at Dec = -60° should never be visible from 35°N:
	// max elevation = 90 - lat + dec = 90 - 35 + (-60) = -5°

	southernStar := SkyCoord{
		RAdeg:  0,
		DecDeg: -60,
	}

	site := Site{
		LatDeg: 35.0,
		LonDeg: -117.0,
	}

	for hour := 0; hour < 24; hour += 6 {
		jd := jdJune2024 + float64(hour)/24
		result := EquatorialToHorizontal(southernStar, site, jd)

		if result.ElDeg > 0 {
			t.Errorf("Star at Dec=-60° visible from 35°N at jd %v: El=%v°", jd, result.ElDeg)
		}
	}
}

func TestEquatorialToHorizontal_PreservesRange(t *testing.T) {
	star := SkyCoord{
		RAdeg:   100,
		DecDeg:  20,
		RangeKm: 1.5e8, // ~1 AU
	}

	site := Site{LatDeg: 35, LonDeg: -117}

	result := EquatorialToHorizontal(star, site, jdJune2024)

	if result.RangeKm != star.RangeKm {
		t.Errorf("RangeKm not preserved: got %v, want %v", result.RangeKm, star.RangeKm)
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{360, 2 * math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		got := degToRad(tt.deg)
		if math.Abs(got-tt.rad) > 1e-10 {
			t.Errorf("degToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
	}
}

func TestRadToDeg(t *testing.T) {
	tests := []struct {
		rad float64
		deg float64
	}{
		{0, 0},
		{math.Pi / 2, 90},
		{math.Pi, 180},
		{2 * math.Pi, 360},
	}

	for _, tt := range tests {
		got := radToDeg(tt.rad)
		if math.Abs(got-tt.deg) > 1e-10 {
			t.Errorf("radToDeg(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}

func TestEquatorialToHorizontal_AzimuthRange(t *testing.T) {
	// Azimuth must always land in 0-360
	site := Site{LatDeg: 35, LonDeg: -117}

	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -80.0; dec <= 80; dec += 20 {
			star := SkyCoord{RAdeg: ra, DecDeg: dec}
			result := EquatorialToHorizontal(star, site, jdJune2024)

			if result.AzDeg < 0 || result.AzDeg >= 360 {
				t.Errorf("Azimuth out of range for RA=%v, Dec=%v: Az=%v",
					ra, dec, result.AzDeg)
			}
		}
	}
}
