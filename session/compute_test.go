package session

import (
	"math"
	"testing"
)

func TestComputeBaselineProducesSamples(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Simulation.TMax = 10
	cfg.Simulation.SampleRate = 10
	cfg.Simulation.PlaybackSpeed = 1

	result, err := Compute(cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if result.Metrics.NumIntegrationPoints <= 0 {
		t.Fatal("expected a positive integration point count")
	}
	if result.Metrics.ComputeTimeS <= 0 {
		t.Fatal("expected a positive compute time")
	}
	wantPerPoint := result.Metrics.ComputeTimeS / float64(result.Metrics.NumIntegrationPoints)
	if math.Abs(result.Metrics.TimePerIntegrationPointS-wantPerPoint) > 1e-12 {
		t.Fatalf("TimePerIntegrationPointS = %f, want %f", result.Metrics.TimePerIntegrationPointS, wantPerPoint)
	}
	wantSamples := int(math.Floor(cfg.Simulation.TMax * cfg.Simulation.SampleRate / cfg.Simulation.PlaybackSpeed))
	if len(result.Dataset.T) < wantSamples-1 || len(result.Dataset.T) > wantSamples+1 {
		t.Fatalf("len(dataset.T) = %d, want approximately %d", len(result.Dataset.T), wantSamples)
	}
	if result.Dataset.EarthSpinRateRadps <= 0 {
		t.Fatal("expected a positive earth spin rate")
	}
}

func TestComputeRejectsInvalidTMax(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Simulation.TMax = -1
	if _, err := Compute(cfg); err == nil {
		t.Fatal("expected ConfigInvalid for t_max=-1")
	}
}

// TestComputeIsDeterministic covers E5.
func TestComputeIsDeterministic(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Simulation.TMax = 5
	cfg.Simulation.SampleRate = 20

	r1, err := Compute(cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	r2, err := Compute(cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if len(r1.Dataset.T) != len(r2.Dataset.T) {
		t.Fatalf("non-deterministic sample count: %d vs %d", len(r1.Dataset.T), len(r2.Dataset.T))
	}
	for i := range r1.Dataset.T {
		if r1.Dataset.T[i] != r2.Dataset.T[i] ||
			r1.Dataset.RX[i] != r2.Dataset.RX[i] ||
			r1.Dataset.QX[i] != r2.Dataset.QX[i] || r1.Dataset.QW[i] != r2.Dataset.QW[i] {
			t.Fatalf("non-deterministic output at sample %d", i)
		}
	}
}

func TestComputeControlTrackingConverges(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Simulation.TMax = 60
	cfg.Simulation.SampleRate = 5
	cfg.Control.ControlType = "nonlinear_tracking"
	cfg.Control.Kp = 1
	cfg.Control.Kd = 2
	cfg.Control.QCmd = [4]float64{0, 0, 0.479, 0.878}

	result, err := Compute(cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	last := len(result.Dataset.T) - 1
	final := [4]float64{result.Dataset.QX[last], result.Dataset.QY[last], result.Dataset.QZ[last], result.Dataset.QW[last]}
	want := cfg.Control.QCmd
	dot := final[0]*want[0] + final[1]*want[1] + final[2]*want[2] + final[3]*want[3]
	if math.Abs(math.Abs(dot)-1) > 5e-2 {
		t.Fatalf("final quaternion %v not close to commanded %v (dot=%f)", final, want, dot)
	}
}

func TestComputeZeroTorqueKeepsWheelMomentumZero(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Simulation.TMax = 5
	cfg.Simulation.SampleRate = 10
	result, err := Compute(cfg)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	for i := range result.Dataset.T {
		if result.Dataset.HX[i] != 0 || result.Dataset.HY[i] != 0 || result.Dataset.HZ[i] != 0 {
			t.Fatalf("h[%d] = (%f,%f,%f), want zero under ZeroTorque", i,
				result.Dataset.HX[i], result.Dataset.HY[i], result.Dataset.HZ[i])
		}
	}
}
