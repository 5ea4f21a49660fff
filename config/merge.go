package config

import (
	"github.com/caba-llero/pytellite/dynamics"
	"github.com/caba-llero/pytellite/quaternion"
)

// Merge applies a partial override (already decoded from JSON into a
// generic map, so that arrays surface as []interface{} and numbers as
// float64) onto base, by-field: unrecognized keys are ignored, q_bi
// implies frame="inertial", and the control fields may be read from a
// nested "control" object or from the top level of payload, matching the
// original source's flat-or-nested convenience.
func Merge(base SimulationConfig, payload map[string]interface{}) SimulationConfig {
	cfg := base

	if v, ok := float64Slice3(payload["inertia"]); ok {
		cfg.Spacecraft.Inertia = v
	}
	if v, ok := float64Slice3(payload["shape"]); ok {
		cfg.Spacecraft.Shape = v
	}
	if v, ok := float64Slice4(payload["q_bi"]); ok {
		cfg.InitialConditions.Frame = "inertial"
		cfg.InitialConditions.QBI = v
	}
	if v, ok := float64Slice3(payload["omega_bi_radps"]); ok {
		cfg.InitialConditions.OmegaBIRadps = v
	}
	if v, ok := floatField(payload["dt_sim"]); ok {
		cfg.Simulation.DtSim = v
	}
	if v, ok := floatField(payload["t_max"]); ok {
		cfg.Simulation.TMax = v
	}
	if v, ok := floatField(payload["playback_speed"]); ok {
		cfg.Simulation.PlaybackSpeed = v
	}
	if v, ok := floatField(payload["sample_rate"]); ok {
		cfg.Simulation.SampleRate = v
	}
	if v, ok := floatField(payload["rtol"]); ok {
		cfg.Simulation.RTol = v
	}
	if v, ok := floatField(payload["atol"]); ok {
		cfg.Simulation.ATol = v
	}

	ctrlPayload := payload
	if nested, ok := payload["control"].(map[string]interface{}); ok {
		ctrlPayload = nested
	}
	if v, ok := stringField(ctrlPayload["control_type"]); ok {
		cfg.Control.ControlType = v
	} else if v, ok := stringField(ctrlPayload["ctrl"]); ok {
		cfg.Control.ControlType = v
	}
	if v, ok := floatField(ctrlPayload["kp"]); ok {
		cfg.Control.Kp = v
	}
	if v, ok := floatField(ctrlPayload["kd"]); ok {
		cfg.Control.Kd = v
	}
	if v, ok := float64Slice4(ctrlPayload["qc"]); ok {
		cfg.Control.QCmd = v
	}

	return cfg
}

// ResolvedControlLaw builds a dynamics.ControlLaw from the (already
// alias-normalized) control fields of cfg.
func ResolvedControlLaw(cfg SimulationConfig) dynamics.ControlLaw {
	return dynamics.ControlLaw{
		Type: dynamics.ParseControlType(cfg.Control.ControlType),
		Kp:   cfg.Control.Kp,
		Kd:   cfg.Control.Kd,
		QCmd: quatFromArray(cfg.Control.QCmd),
	}
}

func quatFromArray(a [4]float64) quaternion.Quaternion {
	return quaternion.Quaternion{X: a[0], Y: a[1], Z: a[2], W: a[3]}
}

func floatField(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func stringField(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func float64Slice3(v interface{}) ([3]float64, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 3 {
		return [3]float64{}, false
	}
	var out [3]float64
	for i, e := range arr {
		f, ok := e.(float64)
		if !ok {
			return [3]float64{}, false
		}
		out[i] = f
	}
	return out, true
}

func float64Slice4(v interface{}) ([4]float64, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 4 {
		return [4]float64{}, false
	}
	var out [4]float64
	for i, e := range arr {
		f, ok := e.(float64)
		if !ok {
			return [4]float64{}, false
		}
		out[i] = f
	}
	return out, true
}
