package astro

import (
	"math"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (J2000)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	// Distance (optional)
	RangeKm float64
}

// Site represents a ground-based observing location.
type Site struct {
	Name   string  // Optional name for the site
	LatDeg float64 // Geodetic latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	ElevM  float64 // Elevation above the reference ellipsoid in meters
}

// RADecOf returns the right ascension and declination, in degrees, of an
// equatorial direction vector. The vector need not be normalized.
func RADecOf(v Vec3) (raDeg, decDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}
	raDeg = radToDeg(math.Atan2(v.Y, v.X))
	if raDeg < 0 {
		raDeg += 360
	}
	decDeg = radToDeg(math.Asin(v.Z / r))
	return raDeg, decDeg
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given site and UT1 Julian date.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, site Site, jdUT1 float64) SkyCoord {
	lat := degToRad(site.LatDeg)
	ra := degToRad(eq.RAdeg)
	dec := degToRad(eq.DecDeg)

	lst := LocalSiderealTime(jdUT1, site.LonDeg)
	lstRad := degToRad(lst)

	// Hour Angle = LST - RA
	ha := lstRad - ra

	// Altitude (elevation)
	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(sinAlt)

	// Azimuth
	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	// Clamp cosAz to [-1, 1] to handle floating point errors
	if cosAz > 1 {
		cosAz = 1
	} else if cosAz < -1 {
		cosAz = -1
	}

	az := math.Acos(cosAz)

	// Adjust azimuth quadrant: if hour angle is positive, azimuth is west of south
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:   eq.RAdeg,
		DecDeg:  eq.DecDeg,
		AzDeg:   radToDeg(az),
		ElDeg:   radToDeg(alt),
		RangeKm: eq.RangeKm,
	}
}

// LocalSiderealTime returns the Local Sidereal Time in degrees for a
// UT1 Julian date and site longitude.
func LocalSiderealTime(jdUT1, lonDeg float64) float64 {
	lst := GreenwichMeanSiderealTime(jdUT1) + lonDeg

	// Normalize to 0-360
	for lst < 0 {
		lst += 360
	}
	for lst >= 360 {
		lst -= 360
	}

	return lst
}

// GreenwichMeanSiderealTime returns GMST in degrees for a UT1 Julian date.
// Uses the IAU 1982 formula.
func GreenwichMeanSiderealTime(jdUT1 float64) float64 {
	// Julian centuries since J2000.0
	T := (jdUT1 - 2451545.0) / 36525.0

	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jdUT1-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	gmst = math.Mod(gmst, 360)
	if gmst < 0 {
		gmst += 360
	}

	return gmst
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
