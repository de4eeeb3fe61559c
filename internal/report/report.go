// Package report renders computed ephemerides as text tables and JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// StateExport is the JSON-serializable form of one computed state.
type StateExport struct {
	Body       string     `json:"body"`
	Center     string     `json:"center,omitempty"`
	Class      string     `json:"class"`
	TDBJD      float64    `json:"tdb_jd"`
	UTC        time.Time  `json:"utc"`
	PositionAU [3]float64 `json:"position_au"`
	VelocityAU [3]float64 `json:"velocity_au_day"`
	RA         string     `json:"ra"`
	Dec        string     `json:"dec"`
	RADeg      float64    `json:"ra_deg"`
	DecDeg     float64    `json:"dec_deg"`
	DistanceAU float64    `json:"distance_au"`
	DistanceKm float64    `json:"distance_km"`
	SpeedKmS   float64    `json:"speed_km_s"`
}

// NewStateExport flattens a computed state. center stays empty for
// barycentric states.
func NewStateExport(body, center string, st ephem.State) StateExport {
	ra, dec := st.RADec()
	return StateExport{
		Body:       body,
		Center:     center,
		Class:      st.Class.String(),
		TDBJD:      st.Time.TDB(),
		UTC:        st.Time.UTC(),
		PositionAU: [3]float64{st.Position.X, st.Position.Y, st.Position.Z},
		VelocityAU: [3]float64{st.Velocity.X, st.Velocity.Y, st.Velocity.Z},
		RA:         FormatRA(ra),
		Dec:        FormatDec(dec),
		RADeg:      ra,
		DecDeg:     dec,
		DistanceAU: st.DistanceAU(),
		DistanceKm: st.DistanceKm(),
		SpeedKmS:   st.SpeedKmS(),
	}
}

// HorizonExport carries the local-horizon readout of a surface observer.
type HorizonExport struct {
	AzimuthDeg   float64 `json:"azimuth_deg"`
	ElevationDeg float64 `json:"elevation_deg"`
}

// ObservationExport extends a state with light-time solution readouts.
type ObservationExport struct {
	StateExport
	LightTimeSec      float64         `json:"light_time_s"`
	LightTime         string          `json:"light_time"`
	RadialVelocityKmS float64         `json:"radial_velocity_km_s"`
	ElongationDeg     float64         `json:"elongation_deg"`
	Doppler           []DopplerExport `json:"doppler,omitempty"`
	Horizon           *HorizonExport  `json:"horizon,omitempty"`
}

// NewObservationExport flattens a solved observation.
func NewObservationExport(target, observer string, obs ephem.Observation) ObservationExport {
	ltSec := obs.LightTimeDays * 86400
	e := ObservationExport{
		StateExport:       NewStateExport(target, observer, obs.State),
		LightTimeSec:      ltSec,
		LightTime:         astro.FormatLightTime(ltSec),
		RadialVelocityKmS: obs.RadialVelocityKmS(),
		Doppler:           dopplerRows(obs.RadialVelocityKmS()),
	}
	e.ElongationDeg = astro.SunSeparation(e.RADeg, e.DecDeg, obs.Time.TT())
	if az, el, ok := obs.AltAz(); ok {
		e.Horizon = &HorizonExport{AzimuthDeg: az, ElevationDeg: el}
	}
	return e
}

// SegmentExport is one hop of a resolved chain.
type SegmentExport struct {
	CenterID int    `json:"center_id"`
	Center   string `json:"center"`
	TargetID int    `json:"target_id"`
	Target   string `json:"target"`
}

// ChainExport is the root-first list of segments placing a body.
type ChainExport struct {
	Body     string          `json:"body"`
	Root     string          `json:"root"`
	Segments []SegmentExport `json:"segments"`
}

// NewChainExport flattens a chain. nameOf turns body ids into names.
func NewChainExport(body string, root ephem.BodyID, chain ephem.Chain, nameOf func(ephem.BodyID) string) ChainExport {
	e := ChainExport{Body: body, Root: nameOf(root)}
	for _, seg := range chain {
		e.Segments = append(e.Segments, SegmentExport{
			CenterID: int(seg.Center),
			Center:   nameOf(seg.Center),
			TargetID: int(seg.Target),
			Target:   nameOf(seg.Target),
		})
	}
	return e
}

// WindowExport is a JSON-friendly visibility window.
type WindowExport struct {
	Rise            string  `json:"rise,omitempty"`
	Transit         string  `json:"transit,omitempty"`
	Set             string  `json:"set,omitempty"`
	MaxElevationDeg float64 `json:"max_elevation_deg"`
	AlwaysVisible   bool    `json:"always_visible,omitempty"`
	NeverVisible    bool    `json:"never_visible,omitempty"`
	Daylight        bool    `json:"daylight,omitempty"`
}

// NewWindowExport flattens a visibility window. Zero times export as
// empty strings so partial windows read cleanly.
func NewWindowExport(w astro.VisibilityWindow) WindowExport {
	e := WindowExport{
		MaxElevationDeg: w.MaxElevation,
		AlwaysVisible:   w.AlwaysVisible,
		NeverVisible:    w.NeverVisible,
	}
	if !w.Rise.IsZero() {
		e.Rise = w.Rise.UTC().Format(time.RFC3339)
	}
	if !w.Transit.IsZero() {
		e.Transit = w.Transit.UTC().Format(time.RFC3339)
	}
	if !w.Set.IsZero() {
		e.Set = w.Set.UTC().Format(time.RFC3339)
	}
	return e
}

// BodyExport is one row of the catalog listing.
type BodyExport struct {
	ID      int      `json:"id"`
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// WriteJSON writes any export as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStateTable writes a state as aligned label/value lines.
func WriteStateTable(w io.Writer, e StateExport) {
	writeHeading(w, e)
	fmt.Fprintf(w, "%-16s %s\n", "Class:", e.Class)
	fmt.Fprintf(w, "%-16s %s\n", "Time:", formatEpoch(e))
	fmt.Fprintf(w, "%-16s [%s] AU\n", "Position:", formatTriplet(e.PositionAU))
	fmt.Fprintf(w, "%-16s [%s] AU/day\n", "Velocity:", formatTriplet(e.VelocityAU))
	fmt.Fprintf(w, "%-16s %s   %s\n", "RA/Dec:", e.RA, e.Dec)
	fmt.Fprintf(w, "%-16s %s\n", "Distance:", formatDistanceBoth(e.DistanceAU, e.DistanceKm))
	fmt.Fprintf(w, "%-16s %s km/s\n", "Speed:", trimFloat(e.SpeedKmS, 3))
}

// WriteObservation writes a solved observation with its derived readouts.
func WriteObservation(w io.Writer, e ObservationExport) {
	writeHeading(w, e.StateExport)
	fmt.Fprintf(w, "%-16s %s\n", "Class:", e.Class)
	fmt.Fprintf(w, "%-16s %s\n", "Time:", formatEpoch(e.StateExport))
	fmt.Fprintf(w, "%-16s %s   %s\n", "RA/Dec:", e.RA, e.Dec)
	fmt.Fprintf(w, "%-16s %s\n", "Distance:", formatDistanceBoth(e.DistanceAU, e.DistanceKm))
	fmt.Fprintf(w, "%-16s %s (%s s)\n", "Light time:", e.LightTime, trimFloat(e.LightTimeSec, 3))
	fmt.Fprintf(w, "%-16s %s km/s\n", "Radial vel:", trimFloat(e.RadialVelocityKmS, 4))
	var sunNote string
	switch astro.GetSunSeparationTier(e.ElongationDeg) {
	case astro.SunSepWarning:
		sunNote = " (sun warning)"
	case astro.SunSepCaution:
		sunNote = " (sun caution)"
	}
	fmt.Fprintf(w, "%-16s %s°%s\n", "Elongation:", trimFloat(e.ElongationDeg, 1), sunNote)
	if e.Horizon != nil {
		fmt.Fprintf(w, "%-16s az %s°  el %s°\n", "Horizon:",
			trimFloat(e.Horizon.AzimuthDeg, 2), trimFloat(e.Horizon.ElevationDeg, 2))
	}
	if len(e.Doppler) > 0 {
		fmt.Fprintf(w, "%-16s", "Doppler:")
		for i, d := range e.Doppler {
			if i > 0 {
				fmt.Fprintf(w, "%-16s", "")
			}
			fmt.Fprintf(w, " %-3s %8s MHz  %+.1f Hz\n", d.Band, trimFloat(d.CarrierMHz, 0), d.ShiftHz)
		}
	}
}

// WriteChain writes the resolved segment chain, root first.
func WriteChain(w io.Writer, e ChainExport) {
	fmt.Fprintf(w, "Chain for %s (root %s)\n", e.Body, e.Root)
	fmt.Fprintln(w, strings.Repeat("─", 48))
	if len(e.Segments) == 0 {
		fmt.Fprintln(w, "Body is the root; no segments to walk")
		return
	}
	for _, s := range e.Segments {
		fmt.Fprintf(w, "%4d %-18s → %4d %-18s\n", s.CenterID, s.Center, s.TargetID, s.Target)
	}
}

// WriteWindows writes visibility windows as a table.
func WriteWindows(w io.Writer, target, site string, windows []WindowExport) {
	fmt.Fprintf(w, "Visibility of %s from %s\n", target, site)
	fmt.Fprintln(w, strings.Repeat("─", 86))
	if len(windows) == 0 {
		fmt.Fprintln(w, "No windows in span")
		return
	}
	fmt.Fprintf(w, "%-22s %-22s %-22s %s\n", "Rise", "Transit", "Set", "Max el")
	fmt.Fprintln(w, strings.Repeat("─", 86))
	for _, win := range windows {
		var day string
		if win.Daylight {
			day = "  daylight"
		}
		switch {
		case win.AlwaysVisible:
			fmt.Fprintf(w, "%-22s %-22s %-22s %5.1f°%s\n", "always up", orDash(win.Transit), "", win.MaxElevationDeg, day)
		case win.NeverVisible:
			fmt.Fprintf(w, "%-22s\n", "never up")
		default:
			fmt.Fprintf(w, "%-22s %-22s %-22s %5.1f°%s\n",
				orDash(win.Rise), orDash(win.Transit), orDash(win.Set), win.MaxElevationDeg, day)
		}
	}
}

// WriteBodies writes the catalog table.
func WriteBodies(w io.Writer, bodies []BodyExport) {
	fmt.Fprintf(w, "%6s %-6s %-26s %s\n", "ID", "Code", "Name", "Aliases")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, b := range bodies {
		fmt.Fprintf(w, "%6d %-6s %-26s %s\n", b.ID, b.Code, b.Name, strings.Join(b.Aliases, ", "))
	}
}

// FormatRA renders a right ascension in sexagesimal hours.
func FormatRA(raDeg float64) string {
	return fmt.Sprintf("%2.1s", sexa.FmtRA(unit.RA(raDeg*math.Pi/180)))
}

// FormatDec renders a declination in sexagesimal degrees.
func FormatDec(decDeg float64) string {
	return fmt.Sprintf("%2.1s", sexa.FmtAngle(unit.AngleFromDeg(decDeg)))
}

func writeHeading(w io.Writer, e StateExport) {
	if e.Center != "" {
		fmt.Fprintf(w, "%s ← %s\n", e.Body, e.Center)
	} else {
		fmt.Fprintln(w, e.Body)
	}
}

func formatEpoch(e StateExport) string {
	return fmt.Sprintf("%s UTC (JD %.6f TDB)", e.UTC.Format("2006-01-02 15:04:05"), e.TDBJD)
}

func formatTriplet(v [3]float64) string {
	return fmt.Sprintf("%+.9f %+.9f %+.9f", v[0], v[1], v[2])
}

// formatDistanceBoth pairs the AU figure with a rounded km readout.
func formatDistanceBoth(au, km float64) string {
	return fmt.Sprintf("%s AU (%s)", trimFloat(au, 6), FormatDistance(km))
}

// FormatDistance returns a human-readable distance string.
func FormatDistance(km float64) string {
	switch {
	case km <= 0:
		return "0 km"
	case km < 1e6:
		return formatWithUnit(km, "km")
	case km < 1e9:
		return formatWithUnit(km/1e6, "M km")
	default:
		return formatWithUnit(km/1e9, "B km")
	}
}

func formatWithUnit(value float64, unitName string) string {
	switch {
	case value < 10:
		return trimFloat(value, 2) + " " + unitName
	case value < 100:
		return trimFloat(value, 1) + " " + unitName
	default:
		return trimFloat(value, 0) + " " + unitName
	}
}

func trimFloat(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
