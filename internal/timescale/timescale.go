// Package timescale converts between civil time and the uniform
// timescales used for ephemeris computation.
package timescale

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// J2000 is the standard reference epoch, 2000 January 1 12:00 TT,
	// expressed as a Julian date.
	J2000 = 2451545.0

	secondsPerDay = 86400.0
	julianCentury = 36525.0

	// unixEpochJD is 1970 January 1 00:00 UTC as a Julian date.
	unixEpochJD = 2440587.5
)

// Time is a single instant carried on the two timescales the ephemeris
// layer needs: Terrestrial Time for Earth-rotation work and Barycentric
// Dynamical Time for evaluating solar-system positions. The zero value
// is the year -4712; construct instants with the From functions.
type Time struct {
	tt  float64
	tdb float64
}

// FromTime converts a civil timestamp to ephemeris time. The UT1-UTC
// offset stays below a second and is ignored; ΔT supplies the UTC to
// TT step.
func FromTime(t time.Time) Time {
	jdUTC := julian.TimeToJD(t.UTC())
	return FromTT(jdUTC + deltaTSeconds(jdUTC)/secondsPerDay)
}

// Now returns the current instant on the ephemeris timescales.
func Now() Time {
	return FromTime(time.Now())
}

// FromCalendar builds a Time from a Gregorian calendar date on the UTC
// scale. The day may carry a fraction.
func FromCalendar(year, month int, day float64) Time {
	jdUTC := julian.CalendarGregorianToJD(year, month, day)
	return FromTT(jdUTC + deltaTSeconds(jdUTC)/secondsPerDay)
}

// FromTT builds a Time from a Terrestrial Time Julian date.
func FromTT(jd float64) Time {
	return Time{tt: jd, tdb: jd + tdbMinusTT(jd)/secondsPerDay}
}

// FromTDB builds a Time from a Barycentric Dynamical Time Julian date.
// The periodic TDB-TT term varies slowly enough that a single inversion
// step lands within nanoseconds.
func FromTDB(jd float64) Time {
	return Time{tt: jd - tdbMinusTT(jd)/secondsPerDay, tdb: jd}
}

// TT returns the instant as a Terrestrial Time Julian date.
func (t Time) TT() float64 { return t.tt }

// TDB returns the instant as a Barycentric Dynamical Time Julian date.
func (t Time) TDB() float64 { return t.tdb }

// UT1 returns the instant as a Universal Time Julian date, recovered
// from TT by removing ΔT.
func (t Time) UT1() float64 {
	return t.tt - deltaTSeconds(t.tt)/secondsPerDay
}

// SubDays steps the instant back by d days on the TDB scale. Light-time
// correction iterates with this.
func (t Time) SubDays(d float64) Time {
	return FromTDB(t.tdb - d)
}

// AddDays steps the instant forward by d days on the TDB scale.
func (t Time) AddDays(d float64) Time {
	return FromTDB(t.tdb + d)
}

// UTC converts the instant back to a civil timestamp, rounded to the
// nearest millisecond. UT1 stands in for UTC here, so the result can
// drift from true UTC by up to a second.
func (t Time) UTC() time.Time {
	ms := math.Round((t.UT1() - unixEpochJD) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// deltaTSeconds estimates ΔT, the excess of Terrestrial Time over
// Universal Time, using the Espenak and Meeus polynomial fits.
// Accuracy is a few seconds across the supported span.
func deltaTSeconds(jd float64) float64 {
	y := 2000.0 + (jd-J2000)/365.25
	switch {
	case y >= 2005 && y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y >= 1986 && y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y >= 2050 && y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// tdbMinusTT is the periodic difference between TDB and TT in seconds,
// truncated to the two dominant terms of the Fairhead and Bretagnon
// series. The full difference never exceeds 2 ms.
func tdbMinusTT(jdTT float64) float64 {
	tc := (jdTT - J2000) / julianCentury
	return 0.001657*math.Sin(628.3076*tc+6.2401) +
		0.000022*math.Sin(575.3385*tc+4.2970)
}
