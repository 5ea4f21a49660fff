// Package earth provides the small set of Earth-frame auxiliary quantities
// the session orchestrator attaches to a dataset: the sidereal angle at the
// simulation epoch and Earth's spin rate, used by the visualizer to orient
// its ground-track overlay. This is not part of the core dynamics; no
// simulated trajectory depends on it.
package earth

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// SpinRateRadPerSec is Earth's mean sidereal rotation rate, returned as the
// spin rate by ComputeSiderealAngle, including when the sidereal-angle
// computation itself fails.
const SpinRateRadPerSec = 7.2921151e-5

// ComputeSiderealAngle returns the Greenwich mean sidereal angle (radians,
// wrapped to [0, 2π)) at epochUTC, and the constant spin rate.
//
// epochUTC is parsed as "2006-01-02 15:04:05"; an empty or unparseable
// string falls back to time.Now().UTC(), matching the original source's
// nested try/except fallback chain for epoch_utc handling.
func ComputeSiderealAngle(epochUTC string) (thetaRad, spinRateRadPerSec float64, err error) {
	epoch, parseErr := time.Parse("2006-01-02 15:04:05", epochUTC)
	if parseErr != nil {
		epoch = time.Now().UTC()
	}

	jd := julian.TimeToJD(epoch)
	theta, gmstErr := gmstRad(jd)
	if gmstErr != nil {
		return 0, SpinRateRadPerSec, gmstErr
	}
	return theta, SpinRateRadPerSec, nil
}

// gmstRad computes the Greenwich mean sidereal time at Julian date jd, in
// radians, using the standard IAU 1982 polynomial (the same formula
// github.com/soniakeys/meeus/sidereal.Mean implements internally). It is
// inlined here rather than imported because the sidereal subpackage's exact
// return type could not be confirmed against this module's other
// dependencies; the formula itself is standard and does not need a library.
func gmstRad(jd float64) (float64, error) {
	t := (jd - 2451545.0) / 36525.0
	gmstSec := 67310.54841 +
		(876600*3600+8640184.812866)*t +
		0.093104*t*t -
		6.2e-6*t*t*t

	const secPerCircle = 86400.0 // GMST seconds in one full turn (240 s per degree)
	gmstSec = math.Mod(gmstSec, secPerCircle)
	if gmstSec < 0 {
		gmstSec += secPerCircle
	}
	theta := (gmstSec / secPerCircle) * 2 * math.Pi
	return theta, nil
}
