package topos

import (
	"testing"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/kernel"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

func moonFromGoldstone(t *testing.T) *ephem.Solution {
	t.Helper()
	catalog, err := kernel.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	site, err := catalog.SurfaceBody(Goldstone.Segment(), Goldstone)
	if err != nil {
		t.Fatalf("SurfaceBody() error = %v", err)
	}
	moon, err := catalog.Body("moon")
	if err != nil {
		t.Fatalf("Body(moon) error = %v", err)
	}
	sol, err := site.Observe(moon)
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	return sol
}

func TestElevationTraceArgumentChecks(t *testing.T) {
	sol := moonFromGoldstone(t)
	start := timescale.FromTDB(jdJune2024)
	if _, err := ElevationTrace(sol, start, 0, time.Minute); err == nil {
		t.Error("zero span expected error")
	}
	if _, err := ElevationTrace(sol, start, time.Hour, -time.Minute); err == nil {
		t.Error("negative step expected error")
	}
}

func TestElevationTraceNeedsHorizonFrame(t *testing.T) {
	catalog, err := kernel.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	earth, err := catalog.Body("earth")
	if err != nil {
		t.Fatalf("Body(earth) error = %v", err)
	}
	moon, err := catalog.Body("moon")
	if err != nil {
		t.Fatalf("Body(moon) error = %v", err)
	}
	sol, err := earth.Observe(moon)
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if _, err := ElevationTrace(sol, timescale.FromTDB(jdJune2024), time.Hour, 10*time.Minute); err == nil {
		t.Error("geocentric observer expected error")
	}
}

func TestElevationTraceOfMoon(t *testing.T) {
	sol := moonFromGoldstone(t)
	start := timescale.FromTDB(jdJune2024)

	trace, err := ElevationTrace(sol, start, 4*time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatalf("ElevationTrace() error = %v", err)
	}
	if len(trace) != 25 {
		t.Fatalf("len(trace) = %d, want 25", len(trace))
	}
	for i, s := range trace {
		if s.ElDeg < -90 || s.ElDeg > 90 {
			t.Errorf("sample %d elevation = %v, out of range", i, s.ElDeg)
		}
		if i > 0 && !s.Time.After(trace[i-1].Time) {
			t.Errorf("sample %d time %v not after %v", i, s.Time, trace[i-1].Time)
		}
	}
	spanned := trace[len(trace)-1].Time.Sub(trace[0].Time)
	if d := (spanned - 4*time.Hour).Abs(); d > time.Second {
		t.Errorf("trace spans %v, want 4h", spanned)
	}

	// The trace feeds straight into window detection.
	windows, err := astro.FindWindows(trace, astro.DefaultMinElevation)
	if err != nil {
		t.Fatalf("FindWindows() error = %v", err)
	}
	if len(windows) == 0 || !windows[0].Valid {
		t.Errorf("windows = %+v, want at least one valid window", windows)
	}
}
