// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"

	"github.com/cpmech/framefem/assemble"
	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/la"
)

// Static runs a linear static analysis: assemble K and F, apply
// constraints by the penalty method, factorize and solve, then recover
// reactions. Context cancellation is checked before the (potentially
// expensive) factorization so a caller can abort a large solve.
func Static(ctx context.Context, s *model.Store) (*Outcome[StaticResult], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	dm := s.BuildDOFMap()
	if dm.N == 0 {
		return nil, model.Errorf(model.KindModelInvalid, "model has no active degrees of freedom")
	}

	st, err := assemble.Stiffness(s, dm)
	if err != nil {
		return nil, err
	}
	F := assemble.Loads(s, dm)
	Fext := append([]float64(nil), F...)

	assemble.ApplyConstraints(st, F, s, dm)

	if err := ctx.Err(); err != nil {
		return nil, model.Errorf(model.KindCancelled, "static analysis cancelled: %v", err)
	}

	u, err := factorAndSolve(st, F)
	if err != nil {
		return nil, err
	}

	r := reactions(s, dm, u, Fext)

	return &Outcome[StaticResult]{Result: StaticResult{U: u, R: r}}, nil
}

// factorAndSolve factorizes the (penalty-augmented) stiffness triplet
// and solves K*u = F via gosl's sparse direct solver
// (GetSolver/InitR/Fact/SolveR).
func factorAndSolve(st *assemble.Stiff, F []float64) ([]float64, error) {
	solver := la.GetSolver("umfpack")
	defer solver.Clean()

	symmetric := false
	verbose := false
	timing := false
	if err := solver.InitR(st.K, symmetric, verbose, timing); err != nil {
		return nil, model.Errorf(model.KindLinearSolveFailed, "linear solver init failed: %v", err)
	}
	if err := solver.Fact(); err != nil {
		return nil, model.Errorf(model.KindLinearSolveFailed, "factorization failed: %v", err)
	}
	u := make([]float64, len(F))
	if err := solver.SolveR(u, F, false); err != nil {
		return nil, model.Errorf(model.KindLinearSolveFailed, "solve failed: %v", err)
	}
	return u, nil
}

// reactions recovers support reactions as R = K_unconstrained*u - F_ext,
// evaluated only at constrained DOFs.
func reactions(s *model.Store, dm *model.DOFMap, u, fext []float64) []float64 {
	r := make([]float64, dm.N)
	dense, err := assemble.Dense(s, dm)
	if err != nil {
		return r
	}
	constrained := make([]bool, dm.N)
	for _, c := range s.Constraints() {
		eq := dm.Eq[c.NodeID]
		for i := 0; i < model.NDOF; i++ {
			if c.Fixed[i] && eq[i] >= 0 {
				constrained[eq[i]] = true
			}
		}
	}
	for i := 0; i < dm.N; i++ {
		if !constrained[i] {
			continue
		}
		var ku float64
		for j := 0; j < dm.N; j++ {
			ku += dense[i][j] * u[j]
		}
		r[i] = ku - fext[i]
	}
	return r
}
