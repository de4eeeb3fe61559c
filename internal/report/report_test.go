package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

const jdTest = 2460477.0

func TestNewStateExport(t *testing.T) {
	st := ephem.State{
		Position: astro.Vec3{X: 0, Y: 1.5, Z: 0},
		Velocity: astro.Vec3{X: 0.01},
		Time:     timescale.FromTDB(jdTest),
		Class:    ephem.ClassGeometric,
	}
	e := NewStateExport("mars barycenter", "earth", st)

	if e.Body != "mars barycenter" || e.Center != "earth" {
		t.Errorf("names = %q from %q", e.Body, e.Center)
	}
	if e.Class != "geometric" {
		t.Errorf("Class = %q, want geometric", e.Class)
	}
	if e.TDBJD != jdTest {
		t.Errorf("TDBJD = %v, want %v", e.TDBJD, jdTest)
	}
	if e.DistanceAU != 1.5 {
		t.Errorf("DistanceAU = %v, want 1.5", e.DistanceAU)
	}
	if math.Abs(e.DistanceKm-1.5*astro.AU) > 1e-6 {
		t.Errorf("DistanceKm = %v, want %v", e.DistanceKm, 1.5*astro.AU)
	}
	if math.Abs(e.RADeg-90) > 1e-12 {
		t.Errorf("RADeg = %v, want 90", e.RADeg)
	}
	if e.DecDeg != 0 {
		t.Errorf("DecDeg = %v, want 0", e.DecDeg)
	}
	if !strings.Contains(e.RA, "6ʰ") {
		t.Errorf("RA = %q, want sexagesimal 6h", e.RA)
	}
	wantSpeed := 0.01 * astro.AU / 86400
	if math.Abs(e.SpeedKmS-wantSpeed) > 1e-12 {
		t.Errorf("SpeedKmS = %v, want %v", e.SpeedKmS, wantSpeed)
	}
	if e.PositionAU != [3]float64{0, 1.5, 0} {
		t.Errorf("PositionAU = %v", e.PositionAU)
	}
}

func TestNewObservationExport(t *testing.T) {
	rot := astro.Identity3()
	obs := ephem.Observation{
		State: ephem.State{
			// Receding along the line of sight at 0.001 AU/day.
			Position: astro.Vec3{Y: 2},
			Velocity: astro.Vec3{Y: 0.001},
			Time:     timescale.FromTDB(jdTest),
			Class:    ephem.ClassAstrometric,
		},
		LightTimeDays: 2 / astro.CAUDay,
		Observer:      ephem.ObserverState{Rotation: &rot},
	}
	e := NewObservationExport("jupiter barycenter", "goldstone", obs)

	wantLT := 2 / astro.CAUDay * 86400
	if math.Abs(e.LightTimeSec-wantLT) > 1e-9 {
		t.Errorf("LightTimeSec = %v, want %v", e.LightTimeSec, wantLT)
	}
	if e.LightTime == "" {
		t.Error("LightTime string empty")
	}
	wantVR := 0.001 * astro.AU / 86400
	if math.Abs(e.RadialVelocityKmS-wantVR) > 1e-12 {
		t.Errorf("RadialVelocityKmS = %v, want %v", e.RadialVelocityKmS, wantVR)
	}
	if len(e.Doppler) != 3 {
		t.Fatalf("Doppler rows = %d, want 3", len(e.Doppler))
	}
	for _, d := range e.Doppler {
		if d.ShiftHz >= 0 {
			t.Errorf("band %s shift = %v, want negative for a receding target", d.Band, d.ShiftHz)
		}
	}
	if e.Horizon == nil {
		t.Fatal("Horizon nil for an observer with a frame")
	}
	if math.Abs(e.Horizon.AzimuthDeg) > 1e-9 || math.Abs(e.Horizon.ElevationDeg) > 1e-9 {
		t.Errorf("Horizon = %+v, want az 0 el 0", e.Horizon)
	}
	if e.ElongationDeg < 0 || e.ElongationDeg > 180 {
		t.Errorf("ElongationDeg = %v, want within [0, 180]", e.ElongationDeg)
	}
}

func TestObservationExportWithoutFrame(t *testing.T) {
	obs := ephem.Observation{
		State: ephem.State{
			Position: astro.Vec3{X: 1},
			Time:     timescale.FromTDB(jdTest),
			Class:    ephem.ClassAstrometric,
		},
		LightTimeDays: 1 / astro.CAUDay,
	}
	e := NewObservationExport("sun", "earth", obs)
	if e.Horizon != nil {
		t.Errorf("Horizon = %+v, want nil", e.Horizon)
	}
}

func TestDopplerShiftHz(t *testing.T) {
	// 10 km/s receding on X band: 10/c of 8.42 GHz, shifted down.
	got := DopplerShiftHz(10, FreqXBand)
	want := -10.0 / 299792.458 * 8420e6
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("DopplerShiftHz = %v, want %v", got, want)
	}
	if DopplerShiftHz(-10, FreqXBand) <= 0 {
		t.Error("approaching target should shift the carrier up")
	}
	if DopplerShiftHz(0, FreqKaBand) != 0 {
		t.Error("zero radial velocity should not shift")
	}
}

func TestFormatRADec(t *testing.T) {
	if got := FormatRA(90); !strings.Contains(got, "6ʰ") {
		t.Errorf("FormatRA(90) = %q, want 6h", got)
	}
	if got := FormatDec(-45.5); !strings.Contains(got, "45°") || !strings.Contains(got, "-") {
		t.Errorf("FormatDec(-45.5) = %q, want signed 45deg", got)
	}
	if got := FormatDec(0); !strings.Contains(got, "0°") {
		t.Errorf("FormatDec(0) = %q, want 0deg", got)
	}
}

func TestNewChainExport(t *testing.T) {
	names := map[ephem.BodyID]string{
		0:   "ssb",
		3:   "emb",
		399: "earth",
	}
	nameOf := func(id ephem.BodyID) string { return names[id] }
	chain := ephem.Chain{
		{Center: 0, Target: 3},
		{Center: 3, Target: 399},
	}
	e := NewChainExport("earth", 0, chain, nameOf)

	if e.Root != "ssb" || e.Body != "earth" {
		t.Errorf("root %q body %q", e.Root, e.Body)
	}
	if len(e.Segments) != 2 {
		t.Fatalf("Segments = %d, want 2", len(e.Segments))
	}
	first := e.Segments[0]
	if first.CenterID != 0 || first.Target != "emb" {
		t.Errorf("first segment = %+v", first)
	}
	last := e.Segments[1]
	if last.Center != "emb" || last.TargetID != 399 {
		t.Errorf("last segment = %+v", last)
	}
}

func TestWriteJSONShape(t *testing.T) {
	st := ephem.State{
		Position: astro.Vec3{X: 1},
		Time:     timescale.FromTDB(jdTest),
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewStateExport("sun", "", st)); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"body", "class", "tdb_jd", "position_au", "distance_au", "ra", "dec"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing key %q", key)
		}
	}
	if _, ok := decoded["center"]; ok {
		t.Error("empty center should be omitted")
	}
}

func TestWriteStateTable(t *testing.T) {
	st := ephem.State{
		Position: astro.Vec3{X: 1.5},
		Velocity: astro.Vec3{Y: 0.01},
		Time:     timescale.FromTDB(jdTest),
		Class:    ephem.ClassBarycentric,
	}
	var buf bytes.Buffer
	WriteStateTable(&buf, NewStateExport("mars barycenter", "", st))

	out := buf.String()
	for _, want := range []string{"mars barycenter", "barycentric", "Distance:", "1.500000 AU", "Speed:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteObservationIncludesReadouts(t *testing.T) {
	rot := astro.Identity3()
	obs := ephem.Observation{
		State: ephem.State{
			Position: astro.Vec3{Y: 2},
			Velocity: astro.Vec3{Y: 0.001},
			Time:     timescale.FromTDB(jdTest),
			Class:    ephem.ClassAstrometric,
		},
		LightTimeDays: 2 / astro.CAUDay,
		Observer:      ephem.ObserverState{Rotation: &rot},
	}
	var buf bytes.Buffer
	WriteObservation(&buf, NewObservationExport("jupiter barycenter", "goldstone", obs))

	out := buf.String()
	for _, want := range []string{"jupiter barycenter", "goldstone", "Light time:", "Radial vel:", "Elongation:", "Horizon:", "Doppler:", "Ka"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteChain(t *testing.T) {
	e := ChainExport{
		Body: "moon",
		Root: "ssb",
		Segments: []SegmentExport{
			{CenterID: 0, Center: "ssb", TargetID: 3, Target: "emb"},
			{CenterID: 3, Center: "emb", TargetID: 301, Target: "moon"},
		},
	}
	var buf bytes.Buffer
	WriteChain(&buf, e)
	out := buf.String()
	if !strings.Contains(out, "Chain for moon") || !strings.Contains(out, "301") {
		t.Errorf("unexpected chain output:\n%s", out)
	}

	buf.Reset()
	WriteChain(&buf, ChainExport{Body: "ssb", Root: "ssb"})
	if !strings.Contains(buf.String(), "no segments") {
		t.Errorf("root-only chain output:\n%s", buf.String())
	}
}

func TestWriteWindows(t *testing.T) {
	var buf bytes.Buffer
	WriteWindows(&buf, "moon", "goldstone", []WindowExport{
		{Rise: "2024-06-15T02:00:00Z", Transit: "2024-06-15T06:00:00Z", Set: "2024-06-15T10:00:00Z", MaxElevationDeg: 63.2},
	})
	out := buf.String()
	for _, want := range []string{"moon", "goldstone", "Rise", "63.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "daylight") {
		t.Errorf("unflagged window marked daylight:\n%s", out)
	}

	buf.Reset()
	WriteWindows(&buf, "moon", "goldstone", []WindowExport{
		{Rise: "2024-06-15T14:00:00Z", Transit: "2024-06-15T18:00:00Z", Set: "2024-06-15T22:00:00Z", MaxElevationDeg: 40, Daylight: true},
	})
	if !strings.Contains(buf.String(), "daylight") {
		t.Errorf("daylight window output:\n%s", buf.String())
	}

	buf.Reset()
	WriteWindows(&buf, "moon", "goldstone", []WindowExport{{AlwaysVisible: true, MaxElevationDeg: 80}})
	if !strings.Contains(buf.String(), "always up") {
		t.Errorf("always-visible output:\n%s", buf.String())
	}

	buf.Reset()
	WriteWindows(&buf, "moon", "goldstone", []WindowExport{{NeverVisible: true}})
	if !strings.Contains(buf.String(), "never up") {
		t.Errorf("never-visible output:\n%s", buf.String())
	}

	buf.Reset()
	WriteWindows(&buf, "moon", "goldstone", nil)
	if !strings.Contains(buf.String(), "No windows") {
		t.Errorf("empty output:\n%s", buf.String())
	}
}

func TestWriteBodies(t *testing.T) {
	var buf bytes.Buffer
	WriteBodies(&buf, []BodyExport{
		{ID: 0, Code: "SSB", Name: "solar system barycenter", Aliases: []string{"barycenter"}},
		{ID: 499, Code: "MAR", Name: "mars"},
	})
	out := buf.String()
	for _, want := range []string{"SSB", "barycenter", "499", "mars"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km       float64
		contains string
	}{
		{0, "0 km"},
		{1000, "km"},
		{2e6, "M km"},
		{5e9, "B km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.km); !strings.Contains(got, tt.contains) {
			t.Errorf("FormatDistance(%v) = %q, want to contain %q", tt.km, got, tt.contains)
		}
	}
}
