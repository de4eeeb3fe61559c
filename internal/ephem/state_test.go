package ephem

import (
	"math"
	"testing"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

func TestPositionClassString(t *testing.T) {
	tests := []struct {
		class PositionClass
		want  string
	}{
		{ClassBarycentric, "barycentric"},
		{ClassGeometric, "geometric"},
		{ClassAstrometric, "astrometric"},
		{PositionClass(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStateRADec(t *testing.T) {
	s := State{Position: astro.Vec3{Y: 1}}
	ra, dec := s.RADec()
	if math.Abs(ra-90) > 1e-9 || math.Abs(dec) > 1e-9 {
		t.Errorf("RADec() = %v, %v, want 90, 0", ra, dec)
	}
}

func TestStateDistances(t *testing.T) {
	s := State{Position: astro.Vec3{X: 3, Y: 4}}

	if got := s.DistanceAU(); math.Abs(got-5) > 1e-12 {
		t.Errorf("DistanceAU() = %v, want 5", got)
	}
	if got := s.DistanceKm(); math.Abs(got-5*astro.AU) > 1e-3 {
		t.Errorf("DistanceKm() = %v, want %v", got, 5*astro.AU)
	}
	if got := s.LightTimeSec(); math.Abs(got-5*astro.LightTimeSecPerAU) > 1e-6 {
		t.Errorf("LightTimeSec() = %v, want %v", got, 5*astro.LightTimeSecPerAU)
	}
}

func TestStateRadialVelocity(t *testing.T) {
	tests := []struct {
		name string
		pos  astro.Vec3
		vel  astro.Vec3
		want float64 // AU/day along the line of sight
	}{
		{"receding", astro.Vec3{X: 1}, astro.Vec3{X: 0.1, Y: 0.2}, 0.1},
		{"approaching", astro.Vec3{X: 1}, astro.Vec3{X: -0.1}, -0.1},
		{"transverse only", astro.Vec3{X: 1}, astro.Vec3{Y: 0.3}, 0},
		{"zero range", astro.Vec3{}, astro.Vec3{X: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Position: tt.pos, Velocity: tt.vel}
			want := tt.want * astro.AU / 86400
			if got := s.RadialVelocityKmS(); math.Abs(got-want) > 1e-9 {
				t.Errorf("RadialVelocityKmS() = %v, want %v", got, want)
			}
		})
	}
}

func TestStateSpeed(t *testing.T) {
	s := State{Velocity: astro.Vec3{X: 3, Y: 4}}
	want := 5 * astro.AU / 86400
	if got := s.SpeedKmS(); math.Abs(got-want) > 1e-9 {
		t.Errorf("SpeedKmS() = %v, want %v", got, want)
	}
}

func TestObservationAltAz(t *testing.T) {
	ident := astro.Identity3()

	tests := []struct {
		name   string
		pos    astro.Vec3
		wantAz float64
		wantEl float64
	}{
		{"north on the horizon", astro.Vec3{Y: 1}, 0, 0},
		{"east on the horizon", astro.Vec3{X: 1}, 90, 0},
		{"straight up", astro.Vec3{Z: 1}, 0, 90},
		{"southwest", astro.Vec3{X: -1, Y: -1}, 225, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Observation{State: State{Position: tt.pos}}
			obs.Observer.Rotation = &ident

			az, el, ok := obs.AltAz()
			if !ok {
				t.Fatal("AltAz() ok = false, want true")
			}
			if math.Abs(az-tt.wantAz) > 1e-9 {
				t.Errorf("AltAz() azimuth = %v, want %v", az, tt.wantAz)
			}
			if math.Abs(el-tt.wantEl) > 1e-9 {
				t.Errorf("AltAz() elevation = %v, want %v", el, tt.wantEl)
			}
		})
	}
}

func TestObservationAltAzWithoutRotation(t *testing.T) {
	obs := Observation{State: State{Position: astro.Vec3{X: 1}}}
	if _, _, ok := obs.AltAz(); ok {
		t.Error("AltAz() ok = true for an observer with no frame, want false")
	}
}
