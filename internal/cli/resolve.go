package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/kernel"
	"github.com/litescript/ls-ephemeris/internal/timescale"
	"github.com/litescript/ls-ephemeris/internal/topos"
)

// timeLayouts are the calendar forms parseTimeFlag accepts, tried in
// order. All are read as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeFlag reads a --time value: empty means now, a calendar
// string is UTC, and a bare number is a TDB Julian date.
func parseTimeFlag(s string) (timescale.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return timescale.Now(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return timescale.FromTime(t.UTC()), nil
		}
	}
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		if jd < 2000000 || jd > 3000000 {
			return timescale.Time{}, fmt.Errorf("julian date %v out of range", jd)
		}
		return timescale.FromTDB(jd), nil
	}
	return timescale.Time{}, fmt.Errorf("cannot parse time %q (want RFC3339, a UTC date, or a Julian date)", s)
}

// parseSiteSpec resolves a --site value: a named site from the
// built-in table, or raw "lat,lon[,elev]" coordinates in degrees and
// meters.
func parseSiteSpec(spec string) (*topos.Topos, error) {
	if tp, err := topos.Site(spec); err == nil {
		return tp, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("unknown site %q (want a named site or lat,lon[,elev])", spec)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in %q: %w", spec, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in %q: %w", spec, err)
	}
	var elev float64
	if len(parts) == 3 {
		elev, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad elevation in %q: %w", spec, err)
		}
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 360 {
		return nil, fmt.Errorf("longitude %v out of range [-180, 360]", lon)
	}
	return topos.New(spec, lat, lon, elev), nil
}

// openKernel builds a kernel per the loaded config. For the Horizons
// source the fitted window is centered on at, so queries near that
// epoch stay inside the fit.
func openKernel(ctx context.Context, at timescale.Time) (*kernel.Kernel, error) {
	src, err := kernel.ParseSource(cfg.Source.Kind)
	if err != nil {
		return nil, err
	}
	opts := kernel.Options{
		Source:         src,
		HorizonsURL:    cfg.Source.HorizonsURL,
		Timeout:        cfg.Source.Timeout(),
		SamplesPerBody: cfg.Source.SamplesPerBody,
		CachePath:      cfg.CachePath(),
		CacheTTL:       cfg.Cache.TTL(),
		Log:            log,
	}
	if src == kernel.SourceHorizons {
		span := cfg.Source.SpanDays
		if span <= 0 {
			span = kernel.DefaultSpanDays
		}
		opts.StartJD = at.TDB() - span/2
		opts.StopJD = at.TDB() + span/2
	}
	return kernel.Open(ctx, opts)
}

// siteObserver mounts a surface site on the catalog's Earth.
func siteObserver(cat *ephem.Catalog, spec string) (*ephem.Body, *topos.Topos, error) {
	tp, err := parseSiteSpec(spec)
	if err != nil {
		return nil, nil, err
	}
	obs, err := cat.SurfaceBody(tp.Segment(), tp)
	if err != nil {
		return nil, nil, fmt.Errorf("placing site %s: %w", tp.Name, err)
	}
	return obs, tp, nil
}

// displayName returns the catalog name for a resolved body.
func displayName(b *ephem.Body) string {
	return kernel.Name(b.ID())
}
