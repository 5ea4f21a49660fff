// Package quaternion implements scalar-last quaternion algebra for attitude
// kinematics: q = (x, y, z, w) with w = cos(θ/2), (x,y,z) = sin(θ/2)·axis.
//
// Two distinct products are kept separate rather than collapsed into a
// single overloaded multiply, because the attitude kinematics equation
// (Markley, Eq. 3.20) requires the ⊙ operator specifically — using ⊗ there
// silently flips the sign convention.
package quaternion

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Quaternion is a scalar-last 4-tuple. The zero value is NOT a unit
// quaternion; use Identity() for that.
type Quaternion struct {
	X, Y, Z, W float64
}

// Identity returns the rotation-free quaternion (0,0,0,1).
func Identity() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// Vec3 is a body- or inertial-frame 3-vector, kept distinct from Quaternion
// so call sites can't accidentally feed a vector where a rotation is meant.
type Vec3 [3]float64

func (q Quaternion) array() [4]float64 { return [4]float64{q.X, q.Y, q.Z, q.W} }

func fromArray(a [4]float64) Quaternion { return Quaternion{a[0], a[1], a[2], a[3]} }

// Psi is the Ψ(q) matrix function (Markley Eq. 2.87), shape 4×3.
func Psi(q Quaternion) *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		q.W, q.Z, -q.Y,
		-q.Z, q.W, q.X,
		q.Y, -q.X, q.W,
		-q.X, -q.Y, -q.Z,
	})
}

// Xi is the Ξ(q) matrix function (Markley Eq. 2.88), shape 4×3.
func Xi(q Quaternion) *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		q.W, -q.Z, q.Y,
		q.Z, q.W, -q.X,
		-q.Y, q.X, q.W,
		-q.X, -q.Y, -q.Z,
	})
}

// MulCrossOperator returns M_cross(q) = [Ψ(q) | q], shape 4×4 (Markley Eq. 2.85).
func MulCrossOperator(q Quaternion) *mat.Dense {
	psi := Psi(q)
	m := mat.NewDense(4, 4, nil)
	m.Augment(psi, mat.NewDense(4, 1, q.array()[:]))
	return m
}

// MulDotOperator returns M_dot(q) = [Ξ(q) | q], shape 4×4 (Markley Eq. 2.86).
func MulDotOperator(q Quaternion) *mat.Dense {
	xi := Xi(q)
	m := mat.NewDense(4, 4, nil)
	m.Augment(xi, mat.NewDense(4, 1, q.array()[:]))
	return m
}

// MulCross computes the ⊗ product q1 ⊗ q2 = M_cross(q1)·q2.
//
// Composition of rotations uses this operator; it is NOT interchangeable
// with MulDot (see package doc).
func MulCross(q1, q2 Quaternion) Quaternion {
	// Closed form of M_cross(q1)·q2, avoiding a matrix allocation on what is
	// otherwise a per-integration-step hot path (control-error quaternion,
	// §4.2).
	return Quaternion{
		X: q1.W*q2.X + q1.Z*q2.Y - q1.Y*q2.Z + q1.X*q2.W,
		Y: -q1.Z*q2.X + q1.W*q2.Y + q1.X*q2.Z + q1.Y*q2.W,
		Z: q1.Y*q2.X - q1.X*q2.Y + q1.W*q2.Z + q1.Z*q2.W,
		W: -q1.X*q2.X - q1.Y*q2.Y - q1.Z*q2.Z + q1.W*q2.W,
	}
}

// MulDot computes the ⊙ product q1 ⊙ q2 = M_dot(q1)·q2.
//
// This is the operator mandated by the attitude kinematics equation
// q̇ = ½ q ⊙ ω (§4.2); using MulCross there is a bug, not a style choice.
func MulDot(q1, q2 Quaternion) Quaternion {
	return Quaternion{
		X: q1.W*q2.X - q1.Z*q2.Y + q1.Y*q2.Z + q1.X*q2.W,
		Y: q1.Z*q2.X + q1.W*q2.Y - q1.X*q2.Z + q1.Y*q2.W,
		Z: -q1.Y*q2.X + q1.X*q2.Y + q1.W*q2.Z + q1.Z*q2.W,
		W: -q1.X*q2.X - q1.Y*q2.Y - q1.Z*q2.Z + q1.W*q2.W,
	}
}

// vecAsQuat promotes a pure 3-vector to a quaternion with zero scalar part,
// as both product operators require when the right operand is a vector.
func vecAsQuat(v Vec3) Quaternion {
	return Quaternion{v[0], v[1], v[2], 0}
}

// MulCrossVec is MulCross with the right operand promoted from a 3-vector.
func MulCrossVec(q Quaternion, v Vec3) Quaternion {
	return MulCross(q, vecAsQuat(v))
}

// MulDotVec is MulDot with the right operand promoted from a 3-vector.
func MulDotVec(q Quaternion, v Vec3) Quaternion {
	return MulDot(q, vecAsQuat(v))
}

// Conj returns the conjugate (-x,-y,-z,w).
func Conj(q Quaternion) Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

// Norm returns ‖q‖.
func Norm(q Quaternion) float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q/‖q‖, or the identity quaternion when ‖q‖ = 0.
func Normalize(q Quaternion) Quaternion {
	n := Norm(q)
	if n == 0 {
		return Identity()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Inv returns the inverse conj(q)/‖q‖². Safe (returns identity) on a
// zero-norm input.
func Inv(q Quaternion) Quaternion {
	n := Norm(q)
	if n == 0 {
		return Identity()
	}
	c := Conj(q)
	n2 := n * n
	return Quaternion{c.X / n2, c.Y / n2, c.Z / n2, c.W / n2}
}

// dot is the plain 4-vector inner product of two quaternions.
func dot(a, b Quaternion) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Slerp spherically interpolates between two unit quaternions at t ∈ [0,1].
// Falls back to linear interpolation when the endpoints are nearly
// coincident (|dot| > 0.9995), and flips q1's sign to take the short arc
// when dot < 0.
func Slerp(q0, q1 Quaternion, t float64) Quaternion {
	a := Normalize(q0)
	b := Normalize(q1)
	d := dot(a, b)
	if d < 0 {
		b = Quaternion{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return Quaternion{
			X: (1-t)*a.X + t*b.X,
			Y: (1-t)*a.Y + t*b.Y,
			Z: (1-t)*a.Z + t*b.Z,
			W: (1-t)*a.W + t*b.W,
		}
	}
	theta := math.Acos(clamp(d, -1, 1))
	s0 := math.Sin(theta)
	w0 := math.Sin((1-t)*theta) / s0
	w1 := math.Sin(t*theta) / s0
	return Quaternion{
		X: w0*a.X + w1*b.X,
		Y: w0*a.Y + w1*b.Y,
		Z: w0*a.Z + w1*b.Z,
		W: w0*a.W + w1*b.W,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SlerpArray interpolates a keyframed quaternion trajectory onto a dense
// sample grid. tKeys must be sorted ascending and tSampled must fall within
// [tKeys[0], tKeys[len(tKeys)-1]].
//
// Slerp alone picks the short arc between the two keyframes it's handed,
// independently of what sign any neighboring segment settled on. Chaining
// independent Slerp calls across keyframes can therefore land consecutive
// segments on opposite signs of the same physical orientation at the shared
// boundary keyframe, producing a visible sign flip in the sampled output
// even though the underlying attitude is continuous. To avoid that, the
// keyframes are first walked once to pick a single consistent sign for each
// one relative to its predecessor, and every segment interpolates between
// that shared, pre-corrected pair.
func SlerpArray(tSampled, tKeys []float64, qKeys []Quaternion) []Quaternion {
	out := make([]Quaternion, len(tSampled))
	if len(tKeys) == 0 {
		return out
	}
	if len(tKeys) == 1 {
		for i := range out {
			out[i] = qKeys[0]
		}
		return out
	}
	corrected := make([]Quaternion, len(qKeys))
	corrected[0] = Normalize(qKeys[0])
	for i := 1; i < len(qKeys); i++ {
		q := Normalize(qKeys[i])
		if dot(corrected[i-1], q) < 0 {
			q = Quaternion{-q.X, -q.Y, -q.Z, -q.W}
		}
		corrected[i] = q
	}
	seg := 0
	for i, ts := range tSampled {
		for seg < len(tKeys)-2 && ts > tKeys[seg+1] {
			seg++
		}
		t0, t1 := tKeys[seg], tKeys[seg+1]
		frac := 0.0
		if t1 > t0 {
			frac = (ts - t0) / (t1 - t0)
		}
		out[i] = Slerp(corrected[seg], corrected[seg+1], frac)
	}
	return out
}

// RotToQuat converts a 3×3 rotation matrix to a quaternion using the
// numerically stable branch selection of Markley Eq. 2.135: pick whichever
// of {tr(A), A00, A11, A22} is largest to avoid dividing by a near-zero term.
func RotToQuat(a *mat.Dense) Quaternion {
	tr := a.At(0, 0) + a.At(1, 1) + a.At(2, 2)
	a00, a11, a22 := a.At(0, 0), a.At(1, 1), a.At(2, 2)
	m := math.Max(math.Max(tr, a00), math.Max(a11, a22))

	var x, y, z, w float64
	switch {
	case m == tr:
		w = math.Sqrt(1+tr) / 2
		x = (a.At(2, 1) - a.At(1, 2)) / (4 * w)
		y = (a.At(0, 2) - a.At(2, 0)) / (4 * w)
		z = (a.At(1, 0) - a.At(0, 1)) / (4 * w)
	case m == a00:
		x = math.Sqrt(1+2*a00-tr) / 2
		y = (a.At(0, 1) + a.At(1, 0)) / (4 * x)
		z = (a.At(0, 2) + a.At(2, 0)) / (4 * x)
		w = (a.At(2, 1) - a.At(1, 2)) / (4 * x)
	case m == a11:
		y = math.Sqrt(1+2*a11-tr) / 2
		x = (a.At(0, 1) + a.At(1, 0)) / (4 * y)
		z = (a.At(1, 2) + a.At(2, 1)) / (4 * y)
		w = (a.At(0, 2) - a.At(2, 0)) / (4 * y)
	default: // m == a22
		z = math.Sqrt(1+2*a22-tr) / 2
		x = (a.At(0, 2) + a.At(2, 0)) / (4 * z)
		y = (a.At(1, 2) + a.At(2, 1)) / (4 * z)
		w = (a.At(1, 0) - a.At(0, 1)) / (4 * z)
	}
	return Quaternion{x, y, z, w}
}

// ToRotationMatrix returns R(q) = Ψ(q)ᵀ·Ξ(q), the body-to-inertial rotation
// matrix: the transpose of the attitude matrix Ξ(q)ᵀ·Ψ(q) of Markley
// Eq. 2.129, which maps inertial components into the body frame.
func ToRotationMatrix(q Quaternion) *mat.Dense {
	var r mat.Dense
	r.Mul(Psi(q).T(), Xi(q))
	return &r
}

// ToEuler returns (roll, pitch, yaw) in the ZYX sequence.
func ToEuler(q Quaternion) (roll, pitch, yaw float64) {
	a := ToRotationMatrix(q)
	pitch = math.Asin(-a.At(2, 0))
	yaw = math.Atan2(a.At(1, 0), a.At(0, 0))
	roll = math.Atan2(a.At(2, 1), a.At(2, 2))
	return
}

// IsUnit reports whether q has unit norm to within tol.
func IsUnit(q Quaternion, tol float64) bool {
	return floats.EqualWithinAbs(Norm(q), 1, tol)
}
