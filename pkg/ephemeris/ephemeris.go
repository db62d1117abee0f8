// Package ephemeris provides the small amount of observational astronomy the
// toolkit needs: the Sun's horizontal position at an observatory site and the
// astronomical-darkness test used to annotate observation runs.
package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Site is an observatory location. Longitude is east-positive.
type Site struct {
	Latitude  unit.Angle
	Longitude unit.Angle
}

// astronomicalNight is the Sun altitude below which the sky counts as
// astronomically dark.
var astronomicalNight = unit.AngleFromDeg(-18)

// SunHorizontal returns the Sun's altitude and azimuth (from north through
// east) at the site for the given instant.
func SunHorizontal(t time.Time, site Site) (alt, az unit.Angle) {
	jd := julian.TimeToJD(t.UTC())
	ra, dec := solar.ApparentEquatorial(jd)

	// local apparent hour angle
	gst := sidereal.Apparent(jd).Angle()
	ha := gst.Rad() + site.Longitude.Rad() - ra.Rad()

	sinLat, cosLat := site.Latitude.Sincos()
	sinDec, cosDec := dec.Sincos()
	sinHA, cosHA := math.Sincos(ha)

	alt = unit.Angle(math.Asin(sinLat*sinDec + cosLat*cosDec*cosHA))
	// horizontal components: north and east of the direction to the Sun
	north := sinDec*cosLat - cosDec*sinLat*cosHA
	east := -cosDec * sinHA
	az = unit.Angle(math.Atan2(east, north)).Mod1()
	return alt, az
}

// IsAstronomicallyDark reports whether the Sun is at least 18° below the
// horizon at the site.
func IsAstronomicallyDark(t time.Time, site Site) bool {
	alt, _ := SunHorizontal(t, site)
	return alt < astronomicalNight
}
