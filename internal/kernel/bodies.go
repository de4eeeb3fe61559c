// Package kernel builds ephemeris catalogs: the named-body table, the
// built-in analytic planetary theory, and the JPL Horizons backed
// source with its on-disk arc cache.
package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// BodyInfo carries naming information for one solar-system body.
type BodyInfo struct {
	Code    string       // short code (e.g. "MAR")
	Name    string       // display name
	ID      ephem.BodyID // NAIF id
	Aliases []string     // alternative names
}

// NAIF ids for the bodies the built-in kernels carry.
// Numbering per https://naif.jpl.nasa.gov/pub/naif/toolkit_docs/C/req/naif_ids.html
const (
	NAIFSSB            ephem.BodyID = 0
	NAIFMercuryBary    ephem.BodyID = 1
	NAIFVenusBary      ephem.BodyID = 2
	NAIFEarthMoonBary  ephem.BodyID = 3
	NAIFMarsBary       ephem.BodyID = 4
	NAIFJupiterBary    ephem.BodyID = 5
	NAIFSaturnBary     ephem.BodyID = 6
	NAIFUranusBary     ephem.BodyID = 7
	NAIFNeptuneBary    ephem.BodyID = 8
	NAIFPlutoBary      ephem.BodyID = 9
	NAIFSun            ephem.BodyID = 10
	NAIFMoon           ephem.BodyID = 301
	NAIFEarth          ephem.BodyID = 399
	NAIFMercury        ephem.BodyID = 199
	NAIFVenus          ephem.BodyID = 299
	NAIFMars           ephem.BodyID = 499
	NAIFJupiter        ephem.BodyID = 599
	NAIFSaturn         ephem.BodyID = 699
	NAIFUranus         ephem.BodyID = 799
	NAIFNeptune        ephem.BodyID = 899
	NAIFPluto          ephem.BodyID = 999
)

// Bodies is the canonical list of named bodies.
var Bodies = []BodyInfo{
	{Code: "SSB", Name: "Solar System Barycenter", ID: NAIFSSB, Aliases: []string{"BARYCENTER"}},
	{Code: "SUN", Name: "Sun", ID: NAIFSun},

	{Code: "MERB", Name: "Mercury Barycenter", ID: NAIFMercuryBary},
	{Code: "VENB", Name: "Venus Barycenter", ID: NAIFVenusBary},
	{Code: "EMB", Name: "Earth-Moon Barycenter", ID: NAIFEarthMoonBary, Aliases: []string{"EARTH BARYCENTER"}},
	{Code: "MARB", Name: "Mars Barycenter", ID: NAIFMarsBary},
	{Code: "JUPB", Name: "Jupiter Barycenter", ID: NAIFJupiterBary},
	{Code: "SATB", Name: "Saturn Barycenter", ID: NAIFSaturnBary},
	{Code: "URAB", Name: "Uranus Barycenter", ID: NAIFUranusBary},
	{Code: "NEPB", Name: "Neptune Barycenter", ID: NAIFNeptuneBary},
	{Code: "PLUB", Name: "Pluto Barycenter", ID: NAIFPlutoBary, Aliases: []string{"PLUTO SYSTEM BARYCENTER"}},

	{Code: "MER", Name: "Mercury", ID: NAIFMercury},
	{Code: "VEN", Name: "Venus", ID: NAIFVenus},
	{Code: "EAR", Name: "Earth", ID: NAIFEarth},
	{Code: "MOO", Name: "Moon", ID: NAIFMoon, Aliases: []string{"LUNA"}},
	{Code: "MAR", Name: "Mars", ID: NAIFMars},
	{Code: "JUP", Name: "Jupiter", ID: NAIFJupiter},
	{Code: "SAT", Name: "Saturn", ID: NAIFSaturn},
	{Code: "URA", Name: "Uranus", ID: NAIFUranus},
	{Code: "NEP", Name: "Neptune", ID: NAIFNeptune},
	{Code: "PLU", Name: "Pluto", ID: NAIFPluto},
}

// BodiesByID maps NAIF ids to body info for quick lookup.
var BodiesByID = func() map[ephem.BodyID]BodyInfo {
	m := make(map[ephem.BodyID]BodyInfo, len(Bodies))
	for _, b := range Bodies {
		m[b.ID] = b
	}
	return m
}()

// BodiesByName maps normalized names, codes, and aliases to body info.
var BodiesByName = func() map[string]BodyInfo {
	m := make(map[string]BodyInfo, len(Bodies)*3)
	for _, b := range Bodies {
		m[normalizeName(b.Name)] = b
		m[normalizeName(b.Code)] = b
		for _, alias := range b.Aliases {
			m[normalizeName(alias)] = b
		}
	}
	// Spellings that differ from the canonical names.
	addVariation := func(variation, code string) {
		for _, b := range Bodies {
			if b.Code == code {
				m[normalizeName(variation)] = b
				return
			}
		}
	}
	addVariation("SOLAR-SYSTEM BARYCENTER", "SSB")
	addVariation("EARTH MOON BARYCENTER", "EMB")
	addVariation("EARTH-MOON-BARYCENTER", "EMB")
	return m
}()

// normalizeName lowercases a body name and collapses repeated spaces
// for matching.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Decode resolves a body name, short code, or numeric NAIF id string to
// a body id. Numeric ids pass through unchecked; the registry decides
// later whether it can place them.
func Decode(name string) (ephem.BodyID, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("empty body name: %w", ephem.ErrUnknownBody)
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return ephem.BodyID(n), nil
	}
	if b, ok := BodiesByName[normalizeName(trimmed)]; ok {
		return b.ID, nil
	}
	return 0, fmt.Errorf("body %q: %w", name, ephem.ErrUnknownBody)
}

// Name returns the display name for a body id, or a numeric fallback
// for ids outside the table.
func Name(id ephem.BodyID) string {
	if b, ok := BodiesByID[id]; ok {
		return b.Name
	}
	return fmt.Sprintf("body %d", id)
}
