package astro

import (
	"errors"
	"math"
	"time"
)

// ElevationSample is a precomputed elevation of a target above a site's
// horizon at a specific time. Callers produce samples however they like
// (typically by observing a body from a surface site at regular steps);
// the window scanner here only interpolates between them.
type ElevationSample struct {
	Time  time.Time
	ElDeg float64
}

// VisibilityWindow represents a rise-transit-set cycle for an object.
type VisibilityWindow struct {
	Rise          time.Time // Time object rises above the threshold
	Transit       time.Time // Time of highest elevation within the window
	Set           time.Time // Time object sets below the threshold
	MaxElevation  float64   // Peak elevation in degrees
	Valid         bool      // Whether a valid window was found
	AlwaysVisible bool      // Object never sets (circumpolar)
	NeverVisible  bool      // Object never rises
}

// DefaultMinElevation is the default threshold for considering an object
// "visible". Zero degrees; callers wanting a refraction or terrain margin
// pass their own threshold.
const DefaultMinElevation = 0.0

// Errors for visibility calculations.
var (
	ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")
	ErrNoValidWindow       = errors.New("no valid visibility window found in time range")
)

// FindWindows scans chronologically ordered elevation samples and returns
// every rise-to-set window above minElDeg. Windows clipped by the span's
// edges are still reported with the corresponding Rise or Set left zero.
// Circumpolar and never-visible targets yield a single flagged window.
func FindWindows(samples []ElevationSample, minElDeg float64) ([]VisibilityWindow, error) {
	if len(samples) < 3 {
		return nil, ErrInsufficientSamples
	}

	minEl := 90.0
	maxEl := -90.0
	maxElIdx := 0
	for i, s := range samples {
		if s.ElDeg < minEl {
			minEl = s.ElDeg
		}
		if s.ElDeg > maxEl {
			maxEl = s.ElDeg
			maxElIdx = i
		}
	}

	if minEl > minElDeg {
		// Always above the threshold over the whole span
		return []VisibilityWindow{{
			Transit:       samples[maxElIdx].Time,
			MaxElevation:  maxEl,
			Valid:         true,
			AlwaysVisible: true,
		}}, nil
	}
	if maxEl < minElDeg {
		return []VisibilityWindow{{
			Valid:        true,
			NeverVisible: true,
		}}, nil
	}

	var windows []VisibilityWindow

	up := samples[0].ElDeg > minElDeg
	var cur VisibilityWindow
	var curStart int
	if up {
		// Already above threshold at span start: rise unknown
		cur = VisibilityWindow{}
		curStart = 0
	}

	for i := 1; i < len(samples); i++ {
		prev := samples[i-1]
		s := samples[i]

		switch {
		case !up && prev.ElDeg <= minElDeg && s.ElDeg > minElDeg:
			cur = VisibilityWindow{
				Rise: interpolateCrossing(prev.Time, s.Time, prev.ElDeg, s.ElDeg, minElDeg),
			}
			curStart = i - 1
			up = true

		case up && prev.ElDeg > minElDeg && s.ElDeg <= minElDeg:
			cur.Set = interpolateCrossing(prev.Time, s.Time, prev.ElDeg, s.ElDeg, minElDeg)
			cur.Transit, cur.MaxElevation = refineTransit(samples[curStart : i+1])
			cur.Valid = true
			windows = append(windows, cur)
			up = false
		}
	}

	if up {
		// Span ended while still above threshold: set unknown
		cur.Transit, cur.MaxElevation = refineTransit(samples[curStart:])
		cur.Valid = true
		windows = append(windows, cur)
	}

	if len(windows) == 0 {
		return nil, ErrNoValidWindow
	}
	return windows, nil
}

// FindWindow returns the first visibility window in the sample span.
func FindWindow(samples []ElevationSample, minElDeg float64) (VisibilityWindow, error) {
	windows, err := FindWindows(samples, minElDeg)
	if err != nil {
		return VisibilityWindow{}, err
	}
	return windows[0], nil
}

// refineTransit locates the peak elevation within a sample run, refining
// the discrete maximum with parabolic interpolation when neighbors exist.
func refineTransit(run []ElevationSample) (time.Time, float64) {
	if len(run) == 0 {
		return time.Time{}, 0
	}

	maxIdx := 0
	for i, s := range run {
		if s.ElDeg > run[maxIdx].ElDeg {
			maxIdx = i
		}
	}

	if maxIdx == 0 || maxIdx == len(run)-1 {
		return run[maxIdx].Time, run[maxIdx].ElDeg
	}

	// Parabola through the peak and its neighbors.
	// Normalized time: t = -1 (prev), t = 0 (max), t = +1 (next)
	y0 := run[maxIdx-1].ElDeg
	y1 := run[maxIdx].ElDeg
	y2 := run[maxIdx+1].ElDeg

	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	// Maximum at t = -b/(2a), but only if the parabola opens downward
	if a >= 0 {
		return run[maxIdx].Time, y1
	}

	tMax := -b / (2 * a)
	if tMax < -1 {
		tMax = -1
	} else if tMax > 1 {
		tMax = 1
	}

	dt := run[maxIdx].Time.Sub(run[maxIdx-1].Time)
	refinedTime := run[maxIdx].Time.Add(time.Duration(float64(dt) * tMax))
	refinedEl := a*tMax*tMax + b*tMax + c

	return refinedTime, refinedEl
}

// interpolateCrossing finds the time when elevation crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}

	// Linear interpolation: find t where el = threshold
	fraction := (threshold - el1) / (el2 - el1)

	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
