// Package resample converts an irregularly-spaced integrator trajectory
// into a fixed-rate sample grid suitable for smooth playback, mirroring
// the original source's evaluate_gui: linear interpolation for vector
// channels, SLERP for the quaternion channel.
package resample

import (
	"errors"
	"math"

	"github.com/caba-llero/pytellite/dynamics"
	"github.com/caba-llero/pytellite/quaternion"
)

// ErrInvalidSampling is returned when playbackSpeed or sampleRate is
// non-positive.
var ErrInvalidSampling = errors.New("resample: playback_speed and sample_rate must be positive")

// Dataset is the resampled, fixed-rate trajectory served to the browser
// client as flat parallel arrays, one entry per sample: the attitude
// quaternion split into qx/qy/qz/qw, body angular velocity into p/q/r, and
// reaction-wheel momentum into hx/hy/hz, rather than kept as tuples, so the
// wire payload needs no client-side unpacking. SampleRate and the two
// earth_* fields are carried alongside the arrays for the same reason: a
// client replaying the dataset needs them to reconstruct wall-clock time
// and the ground-track overlay without a second round trip.
//
// Position, velocity, and the derived Euler angles are not part of that
// minimal wire contract but are kept as supplementary arrays — the
// original simulation's evaluate_gui returns them too — under names
// (rx/ry/rz, vx/vy/vz) chosen not to collide with the angular-rate p/q/r
// keys.
type Dataset struct {
	T []float64 `json:"t"`

	QX []float64 `json:"qx"`
	QY []float64 `json:"qy"`
	QZ []float64 `json:"qz"`
	QW []float64 `json:"qw"`

	P []float64 `json:"p"`
	Q []float64 `json:"q"`
	R []float64 `json:"r"`

	HX []float64 `json:"hx"`
	HY []float64 `json:"hy"`
	HZ []float64 `json:"hz"`

	SampleRate float64 `json:"sample_rate"`

	EarthInitialSiderealAngleRad float64 `json:"earth_initial_sidereal_angle_rad"`
	EarthSpinRateRadps           float64 `json:"earth_spin_rate_radps"`

	RX []float64 `json:"rx"`
	RY []float64 `json:"ry"`
	RZ []float64 `json:"rz"`

	VX []float64 `json:"vx"`
	VY []float64 `json:"vy"`
	VZ []float64 `json:"vz"`

	Roll  []float64 `json:"roll"`
	Pitch []float64 `json:"pitch"`
	Yaw   []float64 `json:"yaw"`
}

// Evaluate resamples the integrator's (t, y) trajectory onto a uniform grid
// of spacing Δ = playbackSpeed/sampleRate, stopping strictly before the
// trajectory's final time. Returns an empty Dataset when t has fewer than 2
// points (nothing to interpolate between). The earth_* fields are left
// zero; the caller attaches them, since computing a sidereal angle needs
// the configuration's epoch, which Evaluate is never given.
func Evaluate(t []float64, y [][]float64, playbackSpeed, sampleRate float64) (Dataset, error) {
	if playbackSpeed <= 0 || sampleRate <= 0 {
		return Dataset{}, ErrInvalidSampling
	}
	if len(t) < 2 {
		return Dataset{SampleRate: sampleRate}, nil
	}

	delta := playbackSpeed / sampleRate
	tFinal := t[len(t)-1]
	m := int(math.Ceil(tFinal / delta))

	ts := make([]float64, 0, m)
	for i := 0; i < m; i++ {
		ts = append(ts, float64(i)*delta)
	}

	n := len(ts)
	ds := Dataset{
		T:          ts,
		SampleRate: sampleRate,
		QX:         make([]float64, n),
		QY:         make([]float64, n),
		QZ:         make([]float64, n),
		QW:         make([]float64, n),
		P:          make([]float64, n),
		Q:          make([]float64, n),
		R:          make([]float64, n),
		HX:         make([]float64, n),
		HY:         make([]float64, n),
		HZ:         make([]float64, n),
		RX:         make([]float64, n),
		RY:         make([]float64, n),
		RZ:         make([]float64, n),
		VX:         make([]float64, n),
		VY:         make([]float64, n),
		VZ:         make([]float64, n),
		Roll:       make([]float64, n),
		Pitch:      make([]float64, n),
		Yaw:        make([]float64, n),
	}

	qKeys := make([]quaternion.Quaternion, len(t))
	for i, row := range y {
		s := dynamics.Unpack(row)
		qKeys[i] = s.Q
	}
	qSampled := quaternion.SlerpArray(ts, t, qKeys)

	seg := 0
	for k, tk := range ts {
		for seg < len(t)-2 && tk > t[seg+1] {
			seg++
		}
		t0, t1 := t[seg], t[seg+1]
		frac := 0.0
		if t1 > t0 {
			frac = (tk - t0) / (t1 - t0)
		}
		s0 := dynamics.Unpack(y[seg])
		s1 := dynamics.Unpack(y[seg+1])

		r := lerp3(s0.R, s1.R, frac)
		v := lerp3(s0.V, s1.V, frac)
		w := lerp3(s0.W, s1.W, frac)
		h := lerp3(s0.H, s1.H, frac)

		ds.RX[k], ds.RY[k], ds.RZ[k] = r[0], r[1], r[2]
		ds.VX[k], ds.VY[k], ds.VZ[k] = v[0], v[1], v[2]
		ds.P[k], ds.Q[k], ds.R[k] = w[0], w[1], w[2]
		ds.HX[k], ds.HY[k], ds.HZ[k] = h[0], h[1], h[2]

		q := qSampled[k]
		ds.QX[k], ds.QY[k], ds.QZ[k], ds.QW[k] = q.X, q.Y, q.Z, q.W

		roll, pitch, yaw := quaternion.ToEuler(q)
		ds.Roll[k], ds.Pitch[k], ds.Yaw[k] = roll, pitch, yaw
	}

	return ds, nil
}

func lerp3(a, b dynamics.Vec3, frac float64) [3]float64 {
	return [3]float64{
		a[0] + frac*(b[0]-a[0]),
		a[1] + frac*(b[1]-a[1]),
		a[2] + frac*(b[2]-a[2]),
	}
}
