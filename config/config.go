// Package config loads and merges simulation configuration: bundled YAML
// presets via viper, and per-request JSON overrides via a typed,
// field-by-field deep merge.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/caba-llero/pytellite/quaternion"
)

// quaternionUnitTol is the tolerance IsUnit checks quaternion norms
// against during validation.
const quaternionUnitTol = 1e-3

// ErrConfigInvalid is returned when a numeric field fails a bound check.
var ErrConfigInvalid = errors.New("config: invalid value")

// ErrConfigUnknownFrame is returned when initial_conditions.frame is not a
// recognized value. The spec's "orbit" frame initialization is explicitly
// unimplemented (§9 Open Questions) — any frame other than "inertial" is
// rejected with this error rather than guessed at.
var ErrConfigUnknownFrame = errors.New("config: unknown or unimplemented initial_conditions.frame")

// Spacecraft describes the rigid body.
type Spacecraft struct {
	Inertia [3]float64 `yaml:"inertia" json:"inertia"`
	Shape   [3]float64 `yaml:"shape" json:"shape"`
}

// Orbit is a visualization aid only; the core dynamics consume R/V
// directly via InitialConditions.
type Orbit struct {
	SemiMajorAxisM float64 `yaml:"semi_major_axis_m" json:"semi_major_axis_m"`
	Eccentricity   float64 `yaml:"eccentricity" json:"eccentricity"`
	InclinationRad float64 `yaml:"inclination_rad" json:"inclination_rad"`
}

// InitialConditions is the attitude/orbit state at t=0.
type InitialConditions struct {
	Frame        string     `yaml:"frame" json:"frame"`
	QBI          [4]float64 `yaml:"q_bi" json:"q_bi"`
	OmegaBIRadps [3]float64 `yaml:"omega_bi_radps" json:"omega_bi_radps"`
	REciM        [3]float64 `yaml:"r_eci_m" json:"r_eci_m"`
	VEciMps      [3]float64 `yaml:"v_eci_mps" json:"v_eci_mps"`
	Orbit        Orbit      `yaml:"orbit" json:"orbit"`
}

// Simulation bundles the numerical settings.
type Simulation struct {
	DtSim         float64 `yaml:"dt_sim" json:"dt_sim"` // legacy; unused by core
	TMax          float64 `yaml:"t_max" json:"t_max"`
	PlaybackSpeed float64 `yaml:"playback_speed" json:"playback_speed"`
	SampleRate    float64 `yaml:"sample_rate" json:"sample_rate"`
	RTol          float64 `yaml:"rtol" json:"rtol"`
	ATol          float64 `yaml:"atol" json:"atol"`
}

// Control is the raw (pre-normalization) control configuration as it
// appears in YAML/JSON, before ControlType alias resolution.
type Control struct {
	ControlType string     `yaml:"control_type" json:"control_type"`
	Kp          float64    `yaml:"kp" json:"kp"`
	Kd          float64    `yaml:"kd" json:"kd"`
	QCmd        [4]float64 `yaml:"qc" json:"qc"`
}

// SimulationConfig is the full configuration record, matching spec §6's
// YAML schema.
type SimulationConfig struct {
	Name              string            `yaml:"name" json:"name"`
	Spacecraft        Spacecraft        `yaml:"spacecraft" json:"spacecraft"`
	InitialConditions InitialConditions `yaml:"initial_conditions" json:"initial_conditions"`
	Simulation        Simulation        `yaml:"simulation" json:"simulation"`
	Control           Control           `yaml:"control" json:"control"`
	EpochUTC          string            `yaml:"epoch_utc" json:"epoch_utc,omitempty"`
}

// defaultsCandidates is the fallback chain the original source's
// _load_defaults() used: try the Markley textbook example first, then the
// intermediate-axis (tennis-racket) example, then any remaining preset.
var defaultsCandidates = []string{
	"config_markley_7_1.yaml",
	"config_intermediateaxis.yaml",
}

// LoadDefaults loads the bundled default preset from presetsDir, trying
// defaultsCandidates in order and falling back to the first *.yaml file
// found in the directory. Returns an error if no preset file exists.
func LoadDefaults(presetsDir string) (SimulationConfig, error) {
	for _, name := range defaultsCandidates {
		path := filepath.Join(presetsDir, name)
		if _, err := os.Stat(path); err == nil {
			return loadYAMLFile(path)
		}
	}

	matches, err := filepath.Glob(filepath.Join(presetsDir, "*.yaml"))
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("config: scanning %s: %w", presetsDir, err)
	}
	if len(matches) == 0 {
		return SimulationConfig{}, fmt.Errorf("config: no preset *.yaml found in %s", presetsDir)
	}
	return loadYAMLFile(matches[0])
}

func loadYAMLFile(path string) (SimulationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return SimulationConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg SimulationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SimulationConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate applies the bound checks of the ConfigInvalid/ConfigUnknownFrame
// taxonomy (§7).
func Validate(cfg SimulationConfig) error {
	if cfg.InitialConditions.Frame != "inertial" {
		return fmt.Errorf("%w: %q", ErrConfigUnknownFrame, cfg.InitialConditions.Frame)
	}
	for i, j := range cfg.Spacecraft.Inertia {
		if j <= 0 {
			return fmt.Errorf("%w: spacecraft.inertia[%d] must be positive, got %f", ErrConfigInvalid, i, j)
		}
	}
	if cfg.Simulation.TMax <= 0 {
		return fmt.Errorf("%w: simulation.t_max must be positive", ErrConfigInvalid)
	}
	if cfg.Simulation.SampleRate <= 0 {
		return fmt.Errorf("%w: simulation.sample_rate must be positive", ErrConfigInvalid)
	}
	if cfg.Simulation.PlaybackSpeed <= 0 {
		return fmt.Errorf("%w: simulation.playback_speed must be positive", ErrConfigInvalid)
	}
	if cfg.Simulation.RTol < 0 || cfg.Simulation.ATol < 0 {
		return fmt.Errorf("%w: simulation.rtol/atol must be non-negative", ErrConfigInvalid)
	}
	if err := requireUnitQuaternion(cfg.InitialConditions.QBI, "initial_conditions.q_bi"); err != nil {
		return err
	}
	if err := requireUnitQuaternion(cfg.Control.QCmd, "control.qc"); err != nil {
		return err
	}
	return nil
}

// requireUnitQuaternion rejects a quaternion that is not already, to
// within quaternionUnitTol, a unit quaternion. The integrator renormalizes
// the attitude state on the fly during propagation (see
// session.renormalizeQuaternion), but a configuration whose q_bi/qc starts
// far enough from unit norm that "after normalization" no longer
// approximates the caller's intent is rejected here rather than silently
// coerced.
func requireUnitQuaternion(a [4]float64, field string) error {
	if !quaternion.IsUnit(toQuaternion(a), quaternionUnitTol) {
		return fmt.Errorf("%w: %s is not a unit quaternion after normalization attempt", ErrConfigInvalid, field)
	}
	return nil
}

func toQuaternion(a [4]float64) quaternion.Quaternion {
	return quaternion.Quaternion{X: a[0], Y: a[1], Z: a[2], W: a[3]}
}
