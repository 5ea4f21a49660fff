// Package integrator provides an adaptive embedded Runge-Kutta solver
// (Dormand-Prince 5(4)) for the coupled translational/rotational equations
// of motion: variable step size with an embedded error estimate, rather
// than a fixed-step scheme.
package integrator

import (
	"errors"
	"math"
)

// ErrIntegrationDiverged is returned when the step-size controller cannot
// make progress under the given tolerances — the computed next step falls
// below the floor step size before reaching t_max.
var ErrIntegrationDiverged = errors.New("integrator: step size diverged below floor, cannot satisfy tolerances")

// Derivative evaluates f(t, y) and writes the result into dst, returning
// dst (or a freshly allocated slice if dst lacks capacity). It must be pure
// and must not retain y or dst between calls.
type Derivative func(t float64, y []float64, dst []float64) []float64

// Renormalizer is applied to an accepted state after every successful step,
// e.g. to renormalize a quaternion sub-vector back to unit length. A nil
// Renormalizer is a no-op.
type Renormalizer func(y []float64)

// Config bundles the adaptive solver's tunables. RTol and ATol default to
// 1e-12 per the state-derivative contract when left at zero.
type Config struct {
	RTol, ATol   float64
	InitialStep  float64 // guessed if zero
	MinStep      float64 // floor step size; defaults to 1e-10 * max(t_max, 1) if zero
	MaxStep      float64 // defaults to t_max if zero
	Renormalize  Renormalizer
}

// Dormand-Prince 5(4) Butcher tableau coefficients.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// b5: 5th-order solution weights (same as the final stage row — DOPRI5
	// is FSAL, first-same-as-last).
	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	// b4: 4th-order (embedded) solution weights, for the error estimate.
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// Solve integrates ẏ = f(t, y) from t=0 to t=tMax starting at y0, using the
// adaptive Dormand-Prince 5(4) method with componentwise mixed tolerance
// step control (§4.3). It returns the accepted time grid and the
// corresponding states (row-major: y[i] is the full state at t[i]).
func Solve(y0 []float64, tMax float64, cfg Config, f Derivative) (t []float64, y [][]float64, err error) {
	rtol, atol := cfg.RTol, cfg.ATol
	if rtol == 0 {
		rtol = 1e-12
	}
	if atol == 0 {
		atol = 1e-12
	}
	minStep := cfg.MinStep
	if minStep == 0 {
		minStep = 1e-10 * math.Max(tMax, 1)
	}
	maxStep := cfg.MaxStep
	if maxStep == 0 {
		maxStep = tMax
	}

	n := len(y0)
	yCur := append([]float64(nil), y0...)
	tCur := 0.0

	h := cfg.InitialStep
	if h == 0 {
		h = maxStep / 100
		if h < minStep {
			h = minStep
		}
	}

	t = append(t, tCur)
	y = append(y, append([]float64(nil), yCur...))

	stages := make([][]float64, 7)
	for i := range stages {
		stages[i] = make([]float64, n)
	}
	yTrial := make([]float64, n)
	y5 := make([]float64, n)
	y4 := make([]float64, n)

	const safety = 0.9
	const maxGrow = 5.0
	const minShrink = 0.2

	for tCur < tMax {
		if tCur+h > tMax {
			h = tMax - tCur
		}
		if h < minStep {
			h = minStep
		}

		stages[0] = f(tCur, yCur, stages[0])
		for s := 1; s < 7; s++ {
			for i := 0; i < n; i++ {
				acc := 0.0
				for j := 0; j < s; j++ {
					acc += dpA[s][j] * stages[j][i]
				}
				yTrial[i] = yCur[i] + h*acc
			}
			stages[s] = f(tCur+dpC[s]*h, yTrial, stages[s])
		}

		for i := 0; i < n; i++ {
			var acc5, acc4 float64
			for s := 0; s < 7; s++ {
				acc5 += dpB5[s] * stages[s][i]
				acc4 += dpB4[s] * stages[s][i]
			}
			y5[i] = yCur[i] + h*acc5
			y4[i] = yCur[i] + h*acc4
		}

		errNorm := 0.0
		for i := 0; i < n; i++ {
			sc := atol + rtol*math.Max(math.Abs(yCur[i]), math.Abs(y5[i]))
			e := (y5[i] - y4[i]) / sc
			errNorm += e * e
		}
		errNorm = math.Sqrt(errNorm / float64(n))
		if math.IsNaN(errNorm) {
			// A non-finite trial state is a failed step, not an unmeasurable one.
			errNorm = math.Inf(1)
		}

		if errNorm <= 1 {
			tCur += h
			copy(yCur, y5)
			if cfg.Renormalize != nil {
				cfg.Renormalize(yCur)
			}
			t = append(t, tCur)
			y = append(y, append([]float64(nil), yCur...))
		}

		var factor float64
		if errNorm == 0 {
			factor = maxGrow
		} else {
			factor = safety * math.Pow(errNorm, -0.2)
			factor = math.Min(maxGrow, math.Max(minShrink, factor))
		}
		hNext := h * factor

		if errNorm > 1 && hNext < minStep {
			return t, y, ErrIntegrationDiverged
		}
		if hNext < minStep {
			hNext = minStep
		}
		if hNext > maxStep {
			hNext = maxStep
		}
		h = hNext
	}

	return t, y, nil
}
