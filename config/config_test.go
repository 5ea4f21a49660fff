package config

import (
	"errors"
	"testing"
)

func sampleDefaults() SimulationConfig {
	return SimulationConfig{
		Name: "sample",
		Spacecraft: Spacecraft{
			Inertia: [3]float64{1, 1, 1},
			Shape:   [3]float64{0.1, 0.1, 0.3},
		},
		InitialConditions: InitialConditions{
			Frame:        "inertial",
			QBI:          [4]float64{0, 0, 0, 1},
			OmegaBIRadps: [3]float64{0, 0, 0},
		},
		Simulation: Simulation{
			TMax:          1000,
			PlaybackSpeed: 1,
			SampleRate:    30,
			RTol:          1e-12,
			ATol:          1e-12,
		},
		Control: Control{
			ControlType: "none",
			QCmd:        [4]float64{0, 0, 0, 1},
		},
	}
}

// TestMergeEmptyOverrideReturnsDefaults covers property 12 (empty override).
func TestMergeEmptyOverrideReturnsDefaults(t *testing.T) {
	base := sampleDefaults()
	merged := Merge(base, map[string]interface{}{})
	if merged != base {
		t.Fatalf("Merge(defaults, {}) = %+v, want %+v", merged, base)
	}
}

func TestMergeTwiceEqualsMergeOnce(t *testing.T) {
	base := sampleDefaults()
	override := map[string]interface{}{
		"t_max":       200.0,
		"sample_rate": 10.0,
		"control":     map[string]interface{}{"control_type": "tracking", "kp": 1.0},
	}
	once := Merge(base, override)
	twice := Merge(once, override)
	if once != twice {
		t.Fatalf("merge is not idempotent: once=%+v twice=%+v", once, twice)
	}
}

func TestMergeSetsFrameInertialWhenQBIProvided(t *testing.T) {
	base := sampleDefaults()
	base.InitialConditions.Frame = ""
	merged := Merge(base, map[string]interface{}{
		"q_bi": []interface{}{0.0, 0.0, 0.0, 1.0},
	})
	if merged.InitialConditions.Frame != "inertial" {
		t.Fatalf("Frame = %q, want inertial", merged.InitialConditions.Frame)
	}
}

func TestMergeAcceptsFlatControlFields(t *testing.T) {
	base := sampleDefaults()
	merged := Merge(base, map[string]interface{}{
		"control_type": "nonlinear_tracking",
		"kp":           2.0,
		"kd":           3.0,
	})
	if merged.Control.ControlType != "nonlinear_tracking" || merged.Control.Kp != 2 || merged.Control.Kd != 3 {
		t.Fatalf("flat control merge = %+v", merged.Control)
	}
}

func TestMergeAcceptsNestedControlFields(t *testing.T) {
	base := sampleDefaults()
	merged := Merge(base, map[string]interface{}{
		"control": map[string]interface{}{
			"control_type": "inertial",
			"kp":           5.0,
		},
	})
	if merged.Control.ControlType != "inertial" || merged.Control.Kp != 5 {
		t.Fatalf("nested control merge = %+v", merged.Control)
	}
}

func TestMergeIgnoresUnknownKeys(t *testing.T) {
	base := sampleDefaults()
	merged := Merge(base, map[string]interface{}{"bogus_field": 42.0})
	if merged != base {
		t.Fatalf("unknown key should be ignored: got %+v", merged)
	}
}

func TestValidateRejectsNonInertialFrame(t *testing.T) {
	cfg := sampleDefaults()
	cfg.InitialConditions.Frame = "orbit"
	if err := Validate(cfg); !errors.Is(err, ErrConfigUnknownFrame) {
		t.Fatalf("expected ErrConfigUnknownFrame, got %v", err)
	}
}

func TestValidateRejectsNonPositiveInertia(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Spacecraft.Inertia = [3]float64{1, 0, 1}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero inertia component")
	}
}

func TestValidateRejectsNonUnitQBI(t *testing.T) {
	cfg := sampleDefaults()
	cfg.InitialConditions.QBI = [4]float64{1, 1, 1, 1}
	if err := Validate(cfg); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for non-unit q_bi, got %v", err)
	}
}

func TestValidateRejectsNonUnitQCmd(t *testing.T) {
	cfg := sampleDefaults()
	cfg.Control.QCmd = [4]float64{0, 0, 0, 0}
	if err := Validate(cfg); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for non-unit qc, got %v", err)
	}
}

func TestValidateAcceptsSampleDefaults(t *testing.T) {
	if err := Validate(sampleDefaults()); err != nil {
		t.Fatalf("sample defaults should validate: %v", err)
	}
}

func TestResolvedControlLawDefaultsToZeroTorque(t *testing.T) {
	cfg := sampleDefaults()
	law := ResolvedControlLaw(cfg)
	if law.Type.String() != "zero_torque" {
		t.Fatalf("Type = %v, want zero_torque", law.Type)
	}
}
