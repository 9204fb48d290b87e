// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"math"

	"github.com/cpmech/framefem/assemble"
	"github.com/cpmech/framefem/flog"
	"github.com/cpmech/framefem/model"
)

// Integrator selects the time-stepping scheme Dynamic uses.
type Integrator string

const (
	Newmark           Integrator = "newmark"
	CentralDifference Integrator = "central-difference"
)

// DynamicOptions configures a transient analysis. Forces is the
// (n+1) x N external-force history; rows beyond its length clamp to the
// last available row. Zeta, Omega1 and Omega2 drive the Rayleigh
// damping mapping; if Omega1/Omega2 are both zero, OmegaRef is used
// instead for beta-only proportional damping.
type DynamicOptions struct {
	Dt       float64
	Steps    int
	Method   Integrator
	BetaN    float64 // Newmark beta, default 0.25
	GammaN   float64 // Newmark gamma, default 0.5
	Zeta     float64 // target damping ratio
	Omega1   float64 // rad/s, first target frequency for Rayleigh alpha/beta
	Omega2   float64 // rad/s, second target frequency
	OmegaRef float64 // rad/s, used only when Omega1/Omega2 are unset
	Forces   [][]float64
	U0, V0   []float64
}

// DefaultDynamicOptions returns the unconditionally stable average-
// acceleration Newmark parameters.
func DefaultDynamicOptions() DynamicOptions {
	return DynamicOptions{Method: Newmark, BetaN: 0.25, GammaN: 0.5}
}

// rayleigh computes Rayleigh damping coefficients (alpha, beta) from a
// target damping ratio and either two target angular frequencies or a
// single reference frequency. zeta is treated as a pure ratio
// throughout (not a percentage) in both branches below.
func rayleigh(opts DynamicOptions) (alpha, beta float64) {
	if opts.Omega1 > 0 && opts.Omega2 > 0 {
		sum := opts.Omega1 + opts.Omega2
		alpha = 2 * opts.Zeta * opts.Omega1 * opts.Omega2 / sum
		beta = 2 * opts.Zeta / sum
		return
	}
	if opts.OmegaRef > 0 {
		return 0, 2 * opts.Zeta / opts.OmegaRef
	}
	return 0, 0
}

// forceAt returns the external force row for step i, clamping to the
// last available row when the history is shorter than requested.
func forceAt(forces [][]float64, i, n int) []float64 {
	if len(forces) == 0 {
		return make([]float64, n)
	}
	if i >= len(forces) {
		i = len(forces) - 1
	}
	row := forces[i]
	if len(row) == n {
		return row
	}
	out := make([]float64, n)
	copy(out, row)
	return out
}

// Dynamic integrates the transient equation of motion M*a + C*v + K*u =
// F(t) over the requested time grid, via Newmark-beta or central
// difference. K and M are assembled once (penalty-constrained); C =
// alpha*M + beta*K is formed from the requested Rayleigh mapping. The
// effective stiffness (or effective mass) is formed once for the fixed
// Δt; no factorization is kept between steps, so each step that needs a
// solve runs a full denseSolve elimination.
func Dynamic(ctx context.Context, s *model.Store, opts DynamicOptions) (*Outcome[DynamicResult], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Dt <= 0 || opts.Steps <= 0 {
		return nil, model.Errorf(model.KindModelInvalid, "dynamic options must have positive Dt and Steps")
	}
	dm := s.BuildDOFMap()
	if dm.N == 0 {
		return nil, model.Errorf(model.KindModelInvalid, "model has no active degrees of freedom")
	}
	n := dm.N

	kappa, err := penaltyScale(s, dm)
	if err != nil {
		return nil, err
	}
	Kdense, err := assemble.Dense(s, dm)
	if err != nil {
		return nil, err
	}
	applyPenaltyDense(Kdense, s, dm, kappa)

	Mdiag, err := assemble.LumpedMass(s, dm)
	if err != nil {
		return nil, err
	}
	for i, d := range Mdiag {
		if d <= 0 {
			Mdiag[i] = 1e-12
		}
	}

	alpha, beta := rayleigh(opts)
	Cdense := make([][]float64, n)
	for i := 0; i < n; i++ {
		Cdense[i] = make([]float64, n)
		Cdense[i][i] = alpha * Mdiag[i]
		if beta != 0 {
			for j := 0; j < n; j++ {
				Cdense[i][j] += beta * Kdense[i][j]
			}
		}
	}

	u0 := make([]float64, n)
	v0 := make([]float64, n)
	copy(u0, opts.U0)
	copy(v0, opts.V0)

	var result DynamicResult
	result.Time = make([]float64, opts.Steps+1)
	result.U = make([][]float64, opts.Steps+1)
	result.V = make([][]float64, opts.Steps+1)
	result.A = make([][]float64, opts.Steps+1)
	for i := range result.Time {
		result.Time[i] = float64(i) * opts.Dt
	}

	F0 := forceAt(opts.Forces, 0, n)
	Ku0 := matVecDense(Kdense, u0)
	Cv0 := matVecDense(Cdense, v0)
	a0 := make([]float64, n)
	for i := 0; i < n; i++ {
		a0[i] = (F0[i] - Cv0[i] - Ku0[i]) / Mdiag[i]
	}
	result.U[0], result.V[0], result.A[0] = u0, v0, a0

	if opts.Method == CentralDifference {
		err = centralDifference(ctx, Kdense, Cdense, Mdiag, beta, opts, &result)
	} else {
		err = newmark(ctx, Kdense, Cdense, Mdiag, opts, &result)
	}
	if err != nil {
		return nil, err
	}

	result.MaxU = maxAbsColumns(result.U, n)
	result.MaxV = maxAbsColumns(result.V, n)
	result.MaxA = maxAbsColumns(result.A, n)

	return &Outcome[DynamicResult]{Result: result}, nil
}

// maxAbsColumns returns, for each of the n DOFs, the maximum absolute
// value across the time axis.
func maxAbsColumns(history [][]float64, n int) []float64 {
	out := make([]float64, n)
	for _, row := range history {
		for i, v := range row {
			if a := math.Abs(v); a > out[i] {
				out[i] = a
			}
		}
	}
	return out
}

// newmark implements the implicit average-acceleration family:
// effective stiffness K* = K + a0*M + a1*C formed once (Δt is held
// fixed across the run), per-step effective force assembled from the
// previous state, K* solved afresh with denseSolve each step, then acceleration and
// velocity updated from the standard Newmark recurrences.
func newmark(ctx context.Context, Kdense, Cdense [][]float64, Mdiag []float64, opts DynamicOptions, result *DynamicResult) error {
	n := len(Mdiag)
	betaN := opts.BetaN
	if betaN == 0 {
		betaN = 0.25
	}
	gammaN := opts.GammaN
	if gammaN == 0 {
		gammaN = 0.5
	}
	dt := opts.Dt
	a0c := 1 / (betaN * dt * dt)
	a1c := gammaN / (betaN * dt)
	a2c := 1 / (betaN * dt)
	a3c := 1/(2*betaN) - 1
	a4c := gammaN/betaN - 1
	a5c := (dt / 2) * (gammaN/betaN - 2)

	Kstar := make([][]float64, n)
	for i := 0; i < n; i++ {
		Kstar[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			Kstar[i][j] = Kdense[i][j] + a1c*Cdense[i][j]
		}
		Kstar[i][i] += a0c * Mdiag[i]
	}

	u, v, a := result.U[0], result.V[0], result.A[0]
	for i := 0; i < opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return model.Errorf(model.KindCancelled, "dynamic analysis cancelled at step %d: %v", i, err)
		}
		flog.Step(result.Time[i+1])

		Fnext := forceAt(opts.Forces, i+1, n)
		predM := make([]float64, n)
		predC := make([]float64, n)
		for k := 0; k < n; k++ {
			predM[k] = Mdiag[k] * (a0c*u[k] + a2c*v[k] + a3c*a[k])
			predC[k] = a1c*u[k] + a4c*v[k] + a5c*a[k]
		}
		Cpred := matVecDense(Cdense, predC)

		Fstar := make([]float64, n)
		for k := 0; k < n; k++ {
			Fstar[k] = Fnext[k] + predM[k] + Cpred[k]
		}

		unext, err := denseSolve(Kstar, Fstar)
		if err != nil {
			return model.Errorf(model.KindNumericalInstability, "newmark effective-stiffness solve failed at step %d: %v", i, err)
		}

		anext := make([]float64, n)
		vnext := make([]float64, n)
		for k := 0; k < n; k++ {
			anext[k] = a0c*(unext[k]-u[k]) - a2c*v[k] - a3c*a[k]
			vnext[k] = v[k] + dt*((1-gammaN)*a[k]+gammaN*anext[k])
			if math.IsNaN(unext[k]) || math.IsInf(unext[k], 0) {
				return model.Errorf(model.KindNumericalInstability, "non-finite displacement at step %d dof %d", i, k)
			}
		}

		result.U[i+1], result.V[i+1], result.A[i+1] = unext, vnext, anext
		u, v, a = unext, vnext, anext
	}
	return nil
}

// centralDifference implements the explicit scheme. When damping is
// purely mass-proportional (beta == 0), the effective mass
// M* = M + (Δt/2)*C stays diagonal and each step is a plain division;
// when beta != 0 (stiffness-proportional damping requested), M* gains a
// dense (Δt/2)*beta*K term and the step instead factors through
// denseSolve.
func centralDifference(ctx context.Context, Kdense, Cdense [][]float64, Mdiag []float64, beta float64, opts DynamicOptions, result *DynamicResult) error {
	n := len(Mdiag)
	dt := opts.Dt

	var Mstar [][]float64
	if beta != 0 {
		Mstar = make([][]float64, n)
		for i := 0; i < n; i++ {
			Mstar[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				Mstar[i][j] = (dt / 2) * Cdense[i][j]
			}
			Mstar[i][i] += Mdiag[i]
		}
	}

	u, v := result.U[0], result.V[0]
	for i := 0; i < opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return model.Errorf(model.KindCancelled, "dynamic analysis cancelled at step %d: %v", i, err)
		}
		flog.Step(result.Time[i+1])

		Fi := forceAt(opts.Forces, i, n)
		Ku := matVecDense(Kdense, u)
		Cv := matVecDense(Cdense, v)
		Fstar := make([]float64, n)
		for k := 0; k < n; k++ {
			Fstar[k] = Fi[k] - Ku[k] - Cv[k]
		}

		var anext []float64
		if beta == 0 {
			anext = make([]float64, n)
			for k := 0; k < n; k++ {
				anext[k] = Fstar[k] / (Mdiag[k] + (dt/2)*Cdense[k][k])
			}
		} else {
			var err error
			anext, err = denseSolve(Mstar, Fstar)
			if err != nil {
				return model.Errorf(model.KindNumericalInstability, "central-difference effective-mass solve failed at step %d: %v", i, err)
			}
		}

		vnext := make([]float64, n)
		unext := make([]float64, n)
		for k := 0; k < n; k++ {
			vnext[k] = v[k] + dt*anext[k]
			unext[k] = u[k] + dt*vnext[k]
			if math.IsNaN(unext[k]) || math.IsInf(unext[k], 0) {
				return model.Errorf(model.KindNumericalInstability, "non-finite displacement at step %d dof %d", i, k)
			}
		}

		result.U[i+1], result.V[i+1], result.A[i+1] = unext, vnext, anext
		u, v = unext, vnext
	}
	return nil
}
