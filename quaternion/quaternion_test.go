package quaternion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const tol = 1e-9

func almostEqual(a, b float64) bool {
	return floats.EqualWithinAbs(a, b, tol)
}

func TestMulDotIdentity(t *testing.T) {
	q := Quaternion{0.1, 0.2, 0.3, 0.9}
	q = Normalize(q)
	got := MulDot(q, Identity())
	if !almostEqual(got.X, q.X) || !almostEqual(got.Y, q.Y) ||
		!almostEqual(got.Z, q.Z) || !almostEqual(got.W, q.W) {
		t.Fatalf("q ⊙ identity = %v, want %v", got, q)
	}
}

func TestMulCrossIdentity(t *testing.T) {
	q := Normalize(Quaternion{0.1, -0.4, 0.2, 0.8})
	got := MulCross(Identity(), q)
	if !almostEqual(got.X, q.X) || !almostEqual(got.Y, q.Y) ||
		!almostEqual(got.Z, q.Z) || !almostEqual(got.W, q.W) {
		t.Fatalf("identity ⊗ q = %v, want %v", got, q)
	}
}

func TestInvComposesToIdentity(t *testing.T) {
	q := Normalize(Quaternion{0.3, 0.1, -0.2, 0.7})
	inv := Inv(q)
	got := MulCross(q, inv)
	if !almostEqual(got.W, 1) || !almostEqual(got.X, 0) ||
		!almostEqual(got.Y, 0) || !almostEqual(got.Z, 0) {
		t.Fatalf("q ⊗ inv(q) = %v, want identity", got)
	}
}

func TestNormalizeZeroReturnsIdentity(t *testing.T) {
	got := Normalize(Quaternion{0, 0, 0, 0})
	want := Identity()
	if got != want {
		t.Fatalf("Normalize(zero) = %v, want %v", got, want)
	}
}

func TestSlerpEndpoints(t *testing.T) {
	q0 := Normalize(Quaternion{0, 0, 0, 1})
	q1 := Normalize(Quaternion{0, 0, 0.7071, 0.7071})

	got0 := Slerp(q0, q1, 0)
	if !almostEqual(got0.X, q0.X) || !almostEqual(got0.W, q0.W) {
		t.Fatalf("Slerp(t=0) = %v, want %v", got0, q0)
	}

	got1 := Slerp(q0, q1, 1)
	if !almostEqual(got1.Z, q1.Z) || !almostEqual(got1.W, q1.W) {
		t.Fatalf("Slerp(t=1) = %v, want %v", got1, q1)
	}
}

func TestSlerpShortestArc(t *testing.T) {
	q0 := Quaternion{0, 0, 0, 1}
	q1 := Quaternion{0, 0, 0, -1} // antipodal representation of the same rotation
	mid := Slerp(q0, q1, 0.5)
	if !almostEqual(Norm(mid), 1) {
		t.Fatalf("Slerp midpoint not unit norm: %v (norm=%f)", mid, Norm(mid))
	}
	if !almostEqual(mid.W, 1) {
		t.Fatalf("Slerp between antipodal reps should not travel the long way: got %v", mid)
	}
}

func TestRotToQuatRoundTrip(t *testing.T) {
	original := Normalize(Quaternion{0.2, -0.3, 0.1, 0.9})
	r := ToRotationMatrix(original)
	back := RotToQuat(r)

	// q and -q represent the same rotation; accept either sign.
	same := almostEqual(back.X, original.X) && almostEqual(back.Y, original.Y) &&
		almostEqual(back.Z, original.Z) && almostEqual(back.W, original.W)
	flipped := almostEqual(back.X, -original.X) && almostEqual(back.Y, -original.Y) &&
		almostEqual(back.Z, -original.Z) && almostEqual(back.W, -original.W)
	if !same && !flipped {
		t.Fatalf("RotToQuat(ToRotationMatrix(q)) = %v, want %v (or its negation)", back, original)
	}
}

func TestToEulerIdentityIsZero(t *testing.T) {
	roll, pitch, yaw := ToEuler(Identity())
	if !almostEqual(roll, 0) || !almostEqual(pitch, 0) || !almostEqual(yaw, 0) {
		t.Fatalf("ToEuler(identity) = (%f, %f, %f), want zeros", roll, pitch, yaw)
	}
}

func TestToEulerYaw90(t *testing.T) {
	// Pure yaw of 90 degrees about Z: q = (0, 0, sin(45°), cos(45°)).
	s := math.Sqrt2 / 2
	q := Quaternion{0, 0, s, s}
	_, _, yaw := ToEuler(q)
	if !almostEqual(yaw, math.Pi/2) {
		t.Fatalf("yaw = %f, want pi/2", yaw)
	}
}

func TestSlerpArrayMonotoneAndUnit(t *testing.T) {
	keys := []float64{0, 1, 2}
	qs := []Quaternion{
		Identity(),
		Normalize(Quaternion{0, 0, 0.3827, 0.9239}), // 45 deg about Z
		Normalize(Quaternion{0, 0, 0.7071, 0.7071}), // 90 deg about Z
	}
	samples := []float64{0, 0.5, 1, 1.5, 2}
	out := SlerpArray(samples, keys, qs)
	if len(out) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(out), len(samples))
	}
	for i, q := range out {
		if !almostEqual(Norm(q), 1) {
			t.Fatalf("sample %d not unit norm: %v", i, q)
		}
	}
}

// TestSlerpArraySignContinuityAcrossSegments covers property 11: when
// adjacent keyframes are related by a rotation of more than 180 degrees,
// Slerp's own short-arc sign flip must not produce a discontinuity at the
// shared boundary between two segments.
func TestSlerpArraySignContinuityAcrossSegments(t *testing.T) {
	keys := []float64{0, 1, 2}
	angle := func(theta float64) Quaternion {
		return Quaternion{0, 0, math.Sin(theta / 2), math.Cos(theta / 2)}
	}
	qs := []Quaternion{angle(0), angle(1.2 * math.Pi), angle(2.4 * math.Pi)} // 216 deg/keyframe
	samples := []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}
	out := SlerpArray(samples, keys, qs)
	for i := 1; i < len(out); i++ {
		if dot(out[i-1], out[i]) < 0 {
			t.Fatalf("sample %d: sign discontinuity between %v and %v", i, out[i-1], out[i])
		}
	}
}

func TestIsUnit(t *testing.T) {
	if !IsUnit(Identity(), 1e-12) {
		t.Fatal("identity should be unit")
	}
	if IsUnit(Quaternion{1, 1, 1, 1}, 1e-12) {
		t.Fatal("(1,1,1,1) should not be unit")
	}
}
