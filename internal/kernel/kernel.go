package kernel

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// Source selects which ephemeris backend a kernel is built from.
type Source int

const (
	SourceAnalytic Source = iota // built-in planetary theory
	SourceHorizons               // JPL Horizons vectors, arc-fitted
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceAnalytic:
		return "analytic"
	case SourceHorizons:
		return "horizons"
	default:
		return "unknown"
	}
}

// ParseSource parses a source name.
func ParseSource(s string) (Source, error) {
	switch s {
	case "analytic", "builtin":
		return SourceAnalytic, nil
	case "horizons", "jpl":
		return SourceHorizons, nil
	default:
		return SourceAnalytic, fmt.Errorf("unknown ephemeris source %q", s)
	}
}

// Defaults for Horizons-backed kernels.
const (
	DefaultSamplesPerBody = 32
	DefaultSpanDays       = 40.0
)

// Options configures Open.
type Options struct {
	Source Source

	// Horizons backend. StartJD and StopJD bound the fitted window;
	// both zero means a window around the current date.
	HorizonsURL    string
	Timeout        time.Duration
	StartJD        float64
	StopJD         float64
	SamplesPerBody int

	// CachePath enables the on-disk span cache when non-empty.
	CachePath string
	CacheTTL  time.Duration

	// Progress, when set, is called after each body's span is ready.
	Progress func(done, total int)

	Log *logging.Logger
}

// Kernel is an opened ephemeris: a catalog of bodies plus whatever
// backing resources it holds.
type Kernel struct {
	Catalog *ephem.Catalog
	Source  Source

	// Fitted window, zero for the analytic source.
	StartJD float64
	StopJD  float64

	store *Store
}

// Builtin returns a catalog over the built-in analytic theory. It
// needs no network, no disk, and covers the Sun, the planets, Pluto,
// and the Moon.
func Builtin() (*ephem.Catalog, error) {
	reg, err := ephem.NewRegistry(analyticSegments()...)
	if err != nil {
		return nil, fmt.Errorf("building analytic segment set: %w", err)
	}
	return ephem.NewCatalog(reg, Decode), nil
}

// Open builds a kernel per opts. The Horizons source fetches a span of
// state vectors per body, consulting the cache first, and fits
// Chebyshev arcs over the window; evaluation outside the window
// extrapolates the fit and degrades with distance.
func Open(ctx context.Context, opts Options) (*Kernel, error) {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	switch opts.Source {
	case SourceAnalytic:
		catalog, err := Builtin()
		if err != nil {
			return nil, err
		}
		log.Debug("opened analytic kernel: %d segments", catalog.Registry().Len())
		return &Kernel{Catalog: catalog, Source: SourceAnalytic}, nil
	case SourceHorizons:
		return openHorizons(ctx, opts, log)
	default:
		return nil, fmt.Errorf("unknown ephemeris source %d", opts.Source)
	}
}

// horizonsTargets lists the bodies fetched barycentrically, in fetch
// order.
var horizonsTargets = []ephem.BodyID{
	NAIFSun,
	NAIFMercuryBary,
	NAIFVenusBary,
	NAIFEarthMoonBary,
	NAIFMarsBary,
	NAIFJupiterBary,
	NAIFSaturnBary,
	NAIFUranusBary,
	NAIFNeptuneBary,
	NAIFPlutoBary,
	NAIFEarth,
	NAIFMoon,
}

func openHorizons(ctx context.Context, opts Options, log *logging.Logger) (*Kernel, error) {
	startJD, stopJD := opts.StartJD, opts.StopJD
	if startJD == 0 && stopJD == 0 {
		now := timescale.Now().TDB()
		startJD = now - DefaultSpanDays/8
		stopJD = startJD + DefaultSpanDays
	}
	if stopJD <= startJD {
		return nil, fmt.Errorf("horizons window [%v, %v] is empty", startJD, stopJD)
	}
	samples := opts.SamplesPerBody
	if samples <= 0 {
		samples = DefaultSamplesPerBody
	}

	var store *Store
	if opts.CachePath != "" {
		var err error
		store, err = OpenStore(opts.CachePath, opts.CacheTTL)
		if err != nil {
			return nil, err
		}
	}
	closeOnErr := func() {
		if store != nil {
			store.Close()
		}
	}

	client := NewHorizonsClient(opts.HorizonsURL, opts.Timeout)
	segs := make([]*ephem.Segment, 0, len(horizonsTargets)+len(planetSystemBarycenter))
	for i, id := range horizonsTargets {
		span, err := loadSpan(ctx, store, client, id, startJD, stopJD, samples, log)
		if err != nil {
			closeOnErr()
			return nil, err
		}
		arc, err := fitSpan(span)
		if err != nil {
			closeOnErr()
			return nil, fmt.Errorf("fitting span for body %d: %w", id, err)
		}
		segs = append(segs, &ephem.Segment{Center: NAIFSSB, Target: id, Compute: arcCompute(arc)})
		if opts.Progress != nil {
			opts.Progress(i+1, len(horizonsTargets))
		}
	}
	segs = append(segs, planetAtBarycenterSegments()...)

	reg, err := ephem.NewRegistry(segs...)
	if err != nil {
		closeOnErr()
		return nil, fmt.Errorf("building horizons segment set: %w", err)
	}
	log.Info("opened horizons kernel: %d bodies over JD [%v, %v]", len(horizonsTargets), startJD, stopJD)
	return &Kernel{
		Catalog: ephem.NewCatalog(reg, Decode),
		Source:  SourceHorizons,
		StartJD: startJD,
		StopJD:  stopJD,
		store:   store,
	}, nil
}

// loadSpan returns a covering span from the cache, or fetches and
// caches one.
func loadSpan(ctx context.Context, store *Store, client *HorizonsClient, id ephem.BodyID, startJD, stopJD float64, samples int, log *logging.Logger) (Span, error) {
	if store != nil {
		span, ok, err := store.Get(id, startJD, stopJD)
		if err != nil {
			return Span{}, err
		}
		if ok {
			log.Debug("cache hit for body %d", id)
			return span, nil
		}
	}
	log.Debug("fetching body %d over JD [%v, %v]", id, startJD, stopJD)
	fetched, err := client.StateVectors(ctx, id, Nodes(samples, startJD, stopJD))
	if err != nil {
		return Span{}, err
	}
	span := Span{StartJD: startJD, StopJD: stopJD, Samples: fetched}
	if store != nil {
		// A cache write failure costs a refetch next time, not the
		// query in hand.
		if err := store.Put(id, span); err != nil {
			log.Warn("caching body %d failed: %v", id, err)
		}
	}
	return span, nil
}

// fitSpan pairs a span's samples with the Chebyshev nodes of its
// window and fits position and velocity arcs. Sample order does not
// matter; epochs do.
func fitSpan(span Span) (Arc, error) {
	n := len(span.Samples)
	if n < 2 {
		return Arc{}, fmt.Errorf("need at least 2 samples, have %d", n)
	}
	nodes := Nodes(n, span.StartJD, span.StopJD)
	// Tolerate the epoch precision the wire format carries.
	const epochTol = 1e-6
	pos := make([]astro.Vec3, n)
	vel := make([]astro.Vec3, n)
	used := make([]bool, n)
	for k, node := range nodes {
		found := false
		for si, s := range span.Samples {
			if used[si] || math.Abs(s.TDB-node) > epochTol {
				continue
			}
			pos[k], vel[k] = s.Pos, s.Vel
			used[si] = true
			found = true
			break
		}
		if !found {
			return Arc{}, fmt.Errorf("no sample at node JD %v", node)
		}
	}
	return FitArc(span.StartJD, span.StopJD, pos, vel)
}

func arcCompute(arc Arc) ephem.ComputeFunc {
	return func(t timescale.Time) (astro.Vec3, astro.Vec3) {
		return arc.At(t.TDB())
	}
}

// Close releases the kernel's backing resources.
func (k *Kernel) Close() error {
	if k.store != nil {
		return k.store.Close()
	}
	return nil
}
