// Package dynamics builds the state-derivative function f(t, y) for the
// coupled translational/rotational equations of motion: two-body orbital
// mechanics plus rigid-body attitude dynamics with an inertia tensor, an
// optional reaction wheel, and a selectable attitude-control law.
package dynamics

import (
	"math"

	"github.com/caba-llero/pytellite/quaternion"
)

// StateLen is the dimension of the combined state vector y.
const StateLen = 16

// GM is Earth's gravitational parameter, μ, in m³/s².
const GM = 3.986004418e14

// State is the unpacked view of the 16-element state vector
// y = [r(3), v(3), ω(3), q(4), h(3)].
type State struct {
	R Vec3               // position, inertial frame, m
	V Vec3               // velocity, inertial frame, m/s
	W Vec3               // body angular velocity, rad/s
	Q quaternion.Quaternion // body-to-inertial attitude
	H Vec3               // reaction-wheel momentum, body frame, kg·m²/s
}

// Vec3 is a 3-vector; kept distinct from quaternion.Vec3 only by package
// boundary, not by representation.
type Vec3 [3]float64

// Unpack splits a flat 16-element state vector into its named sub-vectors.
// Panics if y does not have length StateLen: a mis-sized state vector is an
// internal invariant violation, not a recoverable runtime condition.
func Unpack(y []float64) State {
	if len(y) != StateLen {
		panic("dynamics: state vector must have length 16")
	}
	return State{
		R: Vec3{y[0], y[1], y[2]},
		V: Vec3{y[3], y[4], y[5]},
		W: Vec3{y[6], y[7], y[8]},
		Q: quaternion.Quaternion{X: y[9], Y: y[10], Z: y[11], W: y[12]},
		H: Vec3{y[13], y[14], y[15]},
	}
}

// Pack flattens a State back into a 16-element state vector, writing into
// dst if it has the right length, or allocating a new slice otherwise.
func Pack(s State, dst []float64) []float64 {
	if cap(dst) < StateLen {
		dst = make([]float64, StateLen)
	}
	dst = dst[:StateLen]
	dst[0], dst[1], dst[2] = s.R[0], s.R[1], s.R[2]
	dst[3], dst[4], dst[5] = s.V[0], s.V[1], s.V[2]
	dst[6], dst[7], dst[8] = s.W[0], s.W[1], s.W[2]
	dst[9], dst[10], dst[11], dst[12] = s.Q.X, s.Q.Y, s.Q.Z, s.Q.W
	dst[13], dst[14], dst[15] = s.H[0], s.H[1], s.H[2]
	return dst
}

func add(a, b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func sub(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func scale(s float64, a Vec3) Vec3 { return Vec3{s * a[0], s * a[1], s * a[2]} }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(a Vec3) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
