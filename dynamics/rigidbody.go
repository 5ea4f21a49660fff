package dynamics

import "github.com/caba-llero/pytellite/quaternion"

// Inertia is a diagonal body-frame inertia tensor J = diag(Jxx, Jyy, Jzz).
// The source system only ever configures principal-axis inertia (spec
// §3's `spacecraft.inertia` is a 3-vector), so J is kept diagonal rather
// than a general symmetric 3×3 matrix: J·ω and J⁻¹·ω are then plain
// elementwise products, avoiding a matrix solve on the hot path.
type Inertia struct {
	Jxx, Jyy, Jzz float64
}

func (j Inertia) apply(v Vec3) Vec3 {
	return Vec3{j.Jxx * v[0], j.Jyy * v[1], j.Jzz * v[2]}
}

func (j Inertia) applyInverse(v Vec3) Vec3 {
	return Vec3{v[0] / j.Jxx, v[1] / j.Jyy, v[2] / j.Jzz}
}

// RigidBody couples an inertia tensor with a control law to produce the
// full state-derivative function f(t, y).
type RigidBody struct {
	J       Inertia
	Control ControlLaw
}

// Derivative evaluates f(t, y) and writes ẏ into dst (or a freshly
// allocated slice if dst is too small), following the two-body + Euler's
// equations + attitude kinematics formulas of the state-derivative
// contract. It is pure and allocates nothing beyond the returned slice
// when dst is reused across calls by the integrator.
//
// t is accepted for interface symmetry with the integrator's Derivative
// signature; the dynamics here are autonomous (no explicit time
// dependence).
func (rb RigidBody) Derivative(t float64, y []float64, dst []float64) []float64 {
	s := Unpack(y)

	rNorm := norm(s.R)
	var accel Vec3
	if rNorm != 0 {
		accel = scale(-GM/(rNorm*rNorm*rNorm), s.R)
	}

	qDot := quaternion.MulDotVec(s.Q, quaternion.Vec3(s.W))
	qDot = quaternion.Quaternion{
		X: 0.5 * qDot.X,
		Y: 0.5 * qDot.Y,
		Z: 0.5 * qDot.Z,
		W: 0.5 * qDot.W,
	}

	lc := rb.Control.Torque(s.Q, s.W)

	jw := rb.J.apply(s.W)
	jwPlusH := add(jw, s.H)
	gyroscopic := cross(s.W, jwPlusH)
	wDot := rb.J.applyInverse(sub(lc, gyroscopic))

	hDot := scale(-1, lc)

	out := Derivative{
		RDot: s.V,
		VDot: accel,
		WDot: wDot,
		QDot: qDot,
		HDot: hDot,
	}
	return PackDerivative(out, dst)
}

// Derivative is the unpacked view of ẏ, mirroring State's layout.
type Derivative struct {
	RDot Vec3
	VDot Vec3
	WDot Vec3
	QDot quaternion.Quaternion
	HDot Vec3
}

// PackDerivative flattens a Derivative into a 16-element slice, reusing dst
// when it has sufficient capacity.
func PackDerivative(d Derivative, dst []float64) []float64 {
	s := State{R: d.RDot, V: d.VDot, W: d.WDot, Q: d.QDot, H: d.HDot}
	return Pack(s, dst)
}
