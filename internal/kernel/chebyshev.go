package kernel

import (
	"fmt"
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// Chebyshev arcs compress a span of sampled states into polynomial
// coefficients, the same representation JPL development ephemerides
// use. Fitting samples taken at the Chebyshev nodes makes the fit an
// exact interpolation, no linear solve required.

// Arc holds Chebyshev coefficients over [StartJD, StopJD]. Pos carries
// one coefficient series per axis. Vel is optional; when empty,
// velocity comes from the analytic derivative of Pos.
type Arc struct {
	StartJD float64
	StopJD  float64
	Pos     [3][]float64
	Vel     [3][]float64
}

// Nodes returns the n Chebyshev sampling epochs for an arc over
// [startJD, stopJD]. FitArc expects its samples in this exact order.
func Nodes(n int, startJD, stopJD float64) []float64 {
	mid := (startJD + stopJD) / 2
	half := (stopJD - startJD) / 2
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = mid + half*math.Cos(math.Pi*(float64(k)+0.5)/float64(n))
	}
	return out
}

// FitArc interpolates position samples, and optionally velocity
// samples, taken at Nodes(len(pos), startJD, stopJD). A nil vel slice
// leaves the arc to differentiate its position polynomial instead.
func FitArc(startJD, stopJD float64, pos, vel []astro.Vec3) (Arc, error) {
	if len(pos) < 2 {
		return Arc{}, fmt.Errorf("fitting arc: need at least 2 samples, have %d", len(pos))
	}
	if stopJD <= startJD {
		return Arc{}, fmt.Errorf("fitting arc: empty span [%v, %v]", startJD, stopJD)
	}
	if vel != nil && len(vel) != len(pos) {
		return Arc{}, fmt.Errorf("fitting arc: %d velocity samples against %d positions", len(vel), len(pos))
	}
	arc := Arc{StartJD: startJD, StopJD: stopJD}
	for axis := 0; axis < 3; axis++ {
		arc.Pos[axis] = fitAxis(component(pos, axis))
		if vel != nil {
			arc.Vel[axis] = fitAxis(component(vel, axis))
		}
	}
	return arc, nil
}

// Contains reports whether jd falls inside the arc's span.
func (a Arc) Contains(jd float64) bool {
	return jd >= a.StartJD && jd <= a.StopJD
}

// At evaluates the arc at jd, returning position and velocity in the
// fitted units (AU and AU/day for kernel arcs). Epochs outside the
// span follow the polynomial rather than failing.
func (a Arc) At(jd float64) (pos, vel astro.Vec3) {
	x := (2*jd - a.StartJD - a.StopJD) / (a.StopJD - a.StartJD)
	pos = astro.Vec3{
		X: clenshaw(a.Pos[0], x),
		Y: clenshaw(a.Pos[1], x),
		Z: clenshaw(a.Pos[2], x),
	}
	if len(a.Vel[0]) > 0 {
		vel = astro.Vec3{
			X: clenshaw(a.Vel[0], x),
			Y: clenshaw(a.Vel[1], x),
			Z: clenshaw(a.Vel[2], x),
		}
		return pos, vel
	}
	scale := 2 / (a.StopJD - a.StartJD)
	vel = astro.Vec3{
		X: clenshaw(derivativeCoeffs(a.Pos[0]), x) * scale,
		Y: clenshaw(derivativeCoeffs(a.Pos[1]), x) * scale,
		Z: clenshaw(derivativeCoeffs(a.Pos[2]), x) * scale,
	}
	return pos, vel
}

func component(vs []astro.Vec3, axis int) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		switch axis {
		case 0:
			out[i] = v.X
		case 1:
			out[i] = v.Y
		default:
			out[i] = v.Z
		}
	}
	return out
}

// fitAxis computes Chebyshev coefficients from samples at the standard
// nodes via the discrete cosine sum. The returned series uses the
// halved-c0 convention that clenshaw expects.
func fitAxis(samples []float64) []float64 {
	n := len(samples)
	coeffs := make([]float64, n)
	for j := 0; j < n; j++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += samples[k] * math.Cos(float64(j)*math.Pi*(float64(k)+0.5)/float64(n))
		}
		coeffs[j] = 2 * sum / float64(n)
	}
	return coeffs
}

// clenshaw evaluates a Chebyshev series with halved first coefficient
// at x in [-1, 1].
func clenshaw(c []float64, x float64) float64 {
	var b1, b2 float64
	for j := len(c) - 1; j >= 1; j-- {
		b1, b2 = 2*x*b1-b2+c[j], b1
	}
	return x*b1 - b2 + c[0]/2
}

// derivativeCoeffs returns the Chebyshev series of the derivative,
// taken over the canonical [-1, 1] interval.
func derivativeCoeffs(c []float64) []float64 {
	n := len(c)
	if n <= 1 {
		return []float64{0}
	}
	d := make([]float64, n+1)
	for j := n - 1; j >= 1; j-- {
		d[j-1] = d[j+1] + 2*float64(j)*c[j]
	}
	return d[:n-1]
}
