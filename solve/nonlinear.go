// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"math"

	"github.com/cpmech/framefem/assemble"
	"github.com/cpmech/framefem/model"
)

// nlState is the Newton-Raphson load step's state machine.
type nlState int

const (
	nlPredict nlState = iota
	nlIterate
	nlConverged
	nlDiverged
)

// lineSearchC1/lineSearchMaxHalvings are the Armijo backtracking
// parameters: halve the step until the residual norm decreases by at
// least c1 times the full-step prediction, or give up after 10
// halvings and accept the last halved step.
const (
	lineSearchC1          = 1e-4
	lineSearchMaxHalvings = 10
)

// NonlinearOptions configures the load-controlled Newton-Raphson solve.
type NonlinearOptions struct {
	Steps     int     // number of load increments spanning lambda in (0,1]
	MaxIter   int     // Newton iterations per step before declaring divergence
	Tol       float64 // relative residual tolerance for convergence
	LineSearch bool   // enable Armijo backtracking
}

// DefaultNonlinearOptions returns reasonable defaults: a modest fixed
// number of steps/iterations, tight but not absurd tolerance.
func DefaultNonlinearOptions() NonlinearOptions {
	return NonlinearOptions{Steps: 10, MaxIter: 30, Tol: 1e-8, LineSearch: true}
}

// Nonlinear drives a load-controlled Newton-Raphson solve of
// K(u)*u = lambda*Fext, where K(u) = K_elastic + K_geometric(N(u)) is the
// tangent stiffness recomputed every iteration from the current axial
// forces (material plasticity and arc-length continuation are out of
// scope). PREDICT applies the load increment and solves with the
// previous tangent, ITERATE Newton-corrects against the residual, and
// divergence is flagged the moment the residual grows since the last
// iteration, or when a load step uses up MaxIter without converging.
func Nonlinear(ctx context.Context, s *model.Store, opts NonlinearOptions) (*Outcome[NonlinearResult], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	dm := s.BuildDOFMap()
	if dm.N == 0 {
		return nil, model.Errorf(model.KindModelInvalid, "model has no active degrees of freedom")
	}
	if opts.Steps <= 0 || opts.MaxIter <= 0 {
		return nil, model.Errorf(model.KindModelInvalid, "nonlinear options must have positive Steps and MaxIter")
	}

	Fext := assemble.Loads(s, dm)
	kappa, err := penaltyScale(s, dm)
	if err != nil {
		return nil, err
	}

	u := make([]float64, dm.N)
	result := NonlinearResult{}

	for step := 0; step < opts.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, model.Errorf(model.KindCancelled, "nonlinear analysis cancelled: %v", err)
		}
		lambda := float64(step+1) / float64(opts.Steps)
		Ftarget := scaleVec(Fext, lambda)

		state := nlPredict
		var prevNorm float64
		iterUsed := 0

		for it := 0; it < opts.MaxIter; it++ {
			iterUsed = it + 1

			Kt, err := assembleTangentDense(s, dm, u)
			if err != nil {
				return nil, err
			}
			applyPenaltyDense(Kt, s, dm, kappa)

			Fint := matVecDense(Kt, u)
			R := make([]float64, dm.N)
			for i := range R {
				R[i] = Ftarget[i] - Fint[i]
			}
			applyPenaltyResidual(R, s, dm, kappa, lambda)

			norm := vecNorm(R)
			result.ResidualNorms = append(result.ResidualNorms, norm)
			if state == nlPredict {
				state = nlIterate
			} else if norm > prevNorm && it > 0 {
				state = nlDiverged
				break
			}
			if norm < opts.Tol*math.Max(1, vecNorm(Ftarget)) {
				state = nlConverged
				break
			}
			prevNorm = norm

			du, err := denseSolve(Kt, R)
			if err != nil {
				return nil, model.Errorf(model.KindNonlinearDiverged, "tangent system singular at step %d iter %d: %v", step, it, err)
			}

			if opts.LineSearch {
				du = armijoLineSearch(s, dm, kappa, u, du, Ftarget, norm)
			}
			for i := range u {
				u[i] += du[i]
			}
		}

		if state != nlConverged {
			result.Converged = false
			result.LoadFactors = append(result.LoadFactors, lambda)
			result.U = append(result.U, append([]float64(nil), u...))
			result.Iterations = append(result.Iterations, iterUsed)
			return &Outcome[NonlinearResult]{Result: result, Diagnostics: []string{"diverged"}},
				model.Errorf(model.KindNonlinearDiverged, "nonlinear solve diverged at load factor %.6g", lambda)
		}

		result.LoadFactors = append(result.LoadFactors, lambda)
		result.U = append(result.U, append([]float64(nil), u...))
		result.Iterations = append(result.Iterations, iterUsed)
	}

	result.Converged = true
	return &Outcome[NonlinearResult]{Result: result}, nil
}

// armijoLineSearch halves the Newton correction until the residual norm
// at the trial point has dropped by at least lineSearchC1 times the full
// step's predicted improvement, or the halving budget runs out.
func armijoLineSearch(s *model.Store, dm *model.DOFMap, kappa float64, u, du []float64, Ftarget []float64, norm0 float64) []float64 {
	alpha := 1.0
	best := du
	for try := 0; try < lineSearchMaxHalvings; try++ {
		trial := make([]float64, len(u))
		for i := range u {
			trial[i] = u[i] + alpha*du[i]
		}
		Kt, err := assembleTangentDense(s, dm, trial)
		if err != nil {
			alpha /= 2
			continue
		}
		applyPenaltyDense(Kt, s, dm, kappa)
		Fint := matVecDense(Kt, trial)
		R := make([]float64, len(u))
		for i := range R {
			R[i] = Ftarget[i] - Fint[i]
		}
		norm := vecNorm(R)
		if norm <= (1-lineSearchC1*alpha)*norm0 {
			best = scaleVec(du, alpha)
			break
		}
		alpha /= 2
		best = scaleVec(du, alpha)
	}
	return best
}

func scaleVec(v []float64, a float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * a
	}
	return out
}

func vecNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func matVecDense(A [][]float64, x []float64) []float64 {
	n := len(A)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		row := A[i]
		for j, v := range row {
			if v != 0 {
				sum += v * x[j]
			}
		}
		out[i] = sum
	}
	return out
}

// assembleTangentDense sums the elastic and geometric (axial-force-
// driven) stiffness contributions evaluated at the current state u.
func assembleTangentDense(s *model.Store, dm *model.DOFMap, u []float64) ([][]float64, error) {
	Ke, err := assemble.Dense(s, dm)
	if err != nil {
		return nil, err
	}
	Kg, err := assemble.DenseGeometric(s, dm, u)
	if err != nil {
		return nil, err
	}
	for i := range Ke {
		for j := range Ke[i] {
			Ke[i][j] += Kg[i][j]
		}
	}
	return Ke, nil
}

// penaltyScale picks the penalty stiffness from the elastic system's
// diagonal, the same scale static analysis uses.
func penaltyScale(s *model.Store, dm *model.DOFMap) (float64, error) {
	st, err := assemble.Stiffness(s, dm)
	if err != nil {
		return 0, err
	}
	m := 0.0
	for _, d := range st.Diag {
		if a := math.Abs(d); a > m {
			m = a
		}
	}
	if m == 0 {
		return penaltyFactorNL, nil
	}
	return penaltyFactorNL * m, nil
}

const penaltyFactorNL = 1e8

func applyPenaltyDense(K [][]float64, s *model.Store, dm *model.DOFMap, kappa float64) {
	for _, c := range s.Constraints() {
		eq := dm.Eq[c.NodeID]
		for i := 0; i < model.NDOF; i++ {
			if c.Fixed[i] && eq[i] >= 0 {
				K[eq[i]][eq[i]] += kappa
			}
		}
	}
}

// applyPenaltyResidual folds each fixed DOF's prescribed-value penalty
// term into the residual: R[d] += kappa*lambda*value. The -kappa*u[d]
// half of the penalty term already enters through Fint = Kt*u, since
// applyPenaltyDense put kappa on Kt's diagonal; together they match the
// static path's K[d][d]+=kappa, F[d]+=kappa*value.
func applyPenaltyResidual(R []float64, s *model.Store, dm *model.DOFMap, kappa, lambda float64) {
	for _, c := range s.Constraints() {
		eq := dm.Eq[c.NodeID]
		for i := 0; i < model.NDOF; i++ {
			if c.Fixed[i] && eq[i] >= 0 {
				R[eq[i]] += kappa * lambda * c.Values[i]
			}
		}
	}
}
