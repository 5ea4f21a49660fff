package earth

import (
	"math"
	"testing"
)

func TestComputeSiderealAngleIsWrapped(t *testing.T) {
	theta, spin, err := ComputeSiderealAngle("2024-01-01 00:00:00")
	if err != nil {
		t.Fatalf("ComputeSiderealAngle returned error: %v", err)
	}
	if theta < 0 || theta >= 2*math.Pi {
		t.Fatalf("theta = %f, want in [0, 2*pi)", theta)
	}
	if spin != SpinRateRadPerSec {
		t.Fatalf("spin = %f, want %f", spin, SpinRateRadPerSec)
	}
}

func TestComputeSiderealAngleFallsBackOnEmptyEpoch(t *testing.T) {
	theta, _, err := ComputeSiderealAngle("")
	if err != nil {
		t.Fatalf("ComputeSiderealAngle returned error: %v", err)
	}
	if theta < 0 || theta >= 2*math.Pi {
		t.Fatalf("theta = %f, want in [0, 2*pi)", theta)
	}
}

func TestComputeSiderealAngleFallsBackOnMalformedEpoch(t *testing.T) {
	theta, _, err := ComputeSiderealAngle("not-a-date")
	if err != nil {
		t.Fatalf("ComputeSiderealAngle returned error: %v", err)
	}
	if theta < 0 || theta >= 2*math.Pi {
		t.Fatalf("theta = %f, want in [0, 2*pi)", theta)
	}
}

func TestComputeSiderealAngleDeterministicForSameEpoch(t *testing.T) {
	a, _, _ := ComputeSiderealAngle("2024-06-15 12:00:00")
	b, _, _ := ComputeSiderealAngle("2024-06-15 12:00:00")
	if a != b {
		t.Fatalf("same epoch produced different angles: %f vs %f", a, b)
	}
}
