package dynamics

import (
	"math"

	"github.com/caba-llero/pytellite/quaternion"
)

// ControlType selects which attitude-control law produces the commanded
// torque L_c. It is int-backed, mirroring the original Python source's
// internal 0/1/2 representation, while presenting the tagged-variant shape
// the control law itself needs (kp, kd, q_cmd only matter for the two
// tracking laws).
type ControlType int

const (
	// ZeroTorque commands no torque; the reaction wheel momentum stays
	// constant at its initial value.
	ZeroTorque ControlType = iota
	// LinearTracking is the small-angle linearized tracking law.
	LinearTracking
	// NonlinearTracking is the globally convergent tracking law.
	NonlinearTracking
)

func (c ControlType) String() string {
	switch c {
	case ZeroTorque:
		return "zero_torque"
	case LinearTracking:
		return "linear_tracking"
	case NonlinearTracking:
		return "nonlinear_tracking"
	default:
		return "unknown"
	}
}

// ControlLaw is a fully-parameterized control policy: its Type selects the
// formula, Kp/Kd/QCmd parameterize the two tracking laws and are ignored by
// ZeroTorque.
type ControlLaw struct {
	Type ControlType
	Kp   float64
	Kd   float64
	QCmd quaternion.Quaternion
}

// Torque computes the commanded body-frame torque L_c for the given
// attitude q and angular velocity ω, dispatching on c.Type. No virtual
// dispatch and no heap allocation: a plain value switch over an int-backed
// enum.
func (c ControlLaw) Torque(q quaternion.Quaternion, w Vec3) Vec3 {
	switch c.Type {
	case ZeroTorque:
		return Vec3{0, 0, 0}
	case LinearTracking:
		e := attitudeError(c.QCmd, q)
		return sub(scale(-c.Kp, Vec3{e.X, e.Y, e.Z}), scale(c.Kd, w))
	case NonlinearTracking:
		e := attitudeError(c.QCmd, q)
		s := math.Copysign(1, e.W)
		return sub(scale(-c.Kp*s, Vec3{e.X, e.Y, e.Z}), scale(c.Kd, w))
	default:
		return Vec3{0, 0, 0}
	}
}

// attitudeError computes q_e = inv(q_cmd) ⊗ q, the attitude error
// quaternion used by both tracking laws.
func attitudeError(qCmd, q quaternion.Quaternion) quaternion.Quaternion {
	return quaternion.MulCross(quaternion.Inv(qCmd), q)
}

// ParseControlType normalizes the accepted string aliases to a ControlType.
// Any unrecognized value silently falls back to ZeroTorque, matching the
// original source's permissive behavior.
func ParseControlType(alias string) ControlType {
	switch alias {
	case "none", "zero_torque":
		return ZeroTorque
	case "inertial", "inertial_linear", "tracking":
		return LinearTracking
	case "inertial_nonlinear", "nonlinear_tracking":
		return NonlinearTracking
	default:
		return ZeroTorque
	}
}
