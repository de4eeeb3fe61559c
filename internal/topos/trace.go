package topos

import (
	"fmt"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// DefaultTraceStep is the sampling interval window scans use. One
// minute keeps rise and set interpolation well inside the accuracy of
// the underlying series.
const DefaultTraceStep = time.Minute

// ElevationTrace samples a target's elevation above a site's horizon
// from start through start+span at the given step. The solution must
// come from a surface observer; without a horizon frame there is no
// elevation to read.
func ElevationTrace(sol *ephem.Solution, start timescale.Time, span, step time.Duration) ([]astro.ElevationSample, error) {
	if step <= 0 || span <= 0 {
		return nil, fmt.Errorf("elevation trace needs positive span and step")
	}
	n := int(span/step) + 1
	samples := make([]astro.ElevationSample, 0, n)
	stepDays := float64(step) / float64(24*time.Hour)
	for i := 0; i < n; i++ {
		ts := start.AddDays(stepDays * float64(i))
		obs, err := sol.At(ts)
		if err != nil {
			return nil, fmt.Errorf("tracing elevation at step %d: %w", i, err)
		}
		_, el, ok := obs.AltAz()
		if !ok {
			return nil, fmt.Errorf("observer has no horizon frame")
		}
		samples = append(samples, astro.ElevationSample{Time: obs.Time.UTC(), ElDeg: el})
	}
	return samples, nil
}
