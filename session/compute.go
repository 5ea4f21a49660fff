// Package session implements the compute orchestrator (§4.5): it merges a
// configuration, drives dynamics+integrator+resample end to end, and
// exposes a streaming session state machine for the WebSocket transport.
package session

import (
	"fmt"
	"time"

	"github.com/caba-llero/pytellite/config"
	"github.com/caba-llero/pytellite/dynamics"
	"github.com/caba-llero/pytellite/earth"
	"github.com/caba-llero/pytellite/integrator"
	"github.com/caba-llero/pytellite/quaternion"
	"github.com/caba-llero/pytellite/resample"
)

// Metrics reports the compute-time budget and dataset size, per §4.5: wall
// time around compute_states only (not resampling), the integration-point
// count, the average per-point cost, and a sizeof(double)*(1+16)*N byte
// proxy.
type Metrics struct {
	ComputeTimeS             float64 `json:"compute_time_s"`
	NumIntegrationPoints     int     `json:"num_integration_points"`
	TimePerIntegrationPointS float64 `json:"time_per_integration_point_s"`
	SolverStateSizeBytes     int64   `json:"solver_state_size_bytes"`
	SolverStateSizeReadable  string  `json:"solver_state_size_readable"`
}

// Result bundles the outcome of a single Compute call.
type Result struct {
	Dataset resample.Dataset
	Metrics Metrics
}

// Compute runs the full pipeline for a validated configuration: builds the
// initial state vector, integrates it, and resamples the trajectory for
// playback.
func Compute(cfg config.SimulationConfig) (Result, error) {
	if err := config.Validate(cfg); err != nil {
		return Result{}, err
	}

	y0 := initialState(cfg)
	law := config.ResolvedControlLaw(cfg)

	j := dynamics.Inertia{
		Jxx: cfg.Spacecraft.Inertia[0],
		Jyy: cfg.Spacecraft.Inertia[1],
		Jzz: cfg.Spacecraft.Inertia[2],
	}
	rb := dynamics.RigidBody{J: j, Control: law}

	intCfg := integrator.Config{
		RTol:        cfg.Simulation.RTol,
		ATol:        cfg.Simulation.ATol,
		Renormalize: renormalizeQuaternion,
	}

	start := time.Now()
	t, y, err := integrator.Solve(y0, cfg.Simulation.TMax, intCfg, rb.Derivative)
	computeElapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	computeTimeS := computeElapsed.Seconds()
	metrics := Metrics{
		ComputeTimeS:             computeTimeS,
		NumIntegrationPoints:     len(t),
		TimePerIntegrationPointS: computeTimeS / float64(len(t)),
		SolverStateSizeBytes:     int64(8 * (1 + dynamics.StateLen) * len(t)),
	}
	metrics.SolverStateSizeReadable = humanSize(metrics.SolverStateSizeBytes)

	ds, err := resample.Evaluate(t, y, cfg.Simulation.PlaybackSpeed, cfg.Simulation.SampleRate)
	if err != nil {
		return Result{}, err
	}

	thetaRad, spinRateRadPerSec, err := earth.ComputeSiderealAngle(cfg.EpochUTC)
	if err != nil {
		return Result{}, fmt.Errorf("session: computing earth sidereal angle: %w", err)
	}
	ds.EarthInitialSiderealAngleRad = thetaRad
	ds.EarthSpinRateRadps = spinRateRadPerSec

	return Result{Dataset: ds, Metrics: metrics}, nil
}

// initialState builds y0 from the validated configuration's initial
// conditions; reaction-wheel momentum always starts at zero (spec §9: a
// configuration that never activates control keeps h ≡ 0 throughout).
func initialState(cfg config.SimulationConfig) []float64 {
	ic := cfg.InitialConditions
	s := dynamics.State{
		R: ic.REciM,
		V: ic.VEciMps,
		W: ic.OmegaBIRadps,
		Q: quaternion.Quaternion{X: ic.QBI[0], Y: ic.QBI[1], Z: ic.QBI[2], W: ic.QBI[3]},
		H: dynamics.Vec3{0, 0, 0},
	}
	return dynamics.Pack(s, nil)
}

func renormalizeQuaternion(y []float64) {
	s := dynamics.Unpack(y)
	s.Q = quaternion.Normalize(s.Q)
	dynamics.Pack(s, y)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for x := n / unit; x >= unit; x /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
