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

// Modal extracts the nModes lowest natural frequencies and mode shapes
// of K*phi = omega^2 * M*phi, via shift-invert subspace iteration on
// the (penalty-constrained) stiffness against the lumped mass matrix.
func Modal(ctx context.Context, s *model.Store, nModes int) (*Outcome[ModalResult], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if nModes <= 0 {
		return nil, model.Errorf(model.KindModelInvalid, "nModes must be > 0")
	}
	dm := s.BuildDOFMap()
	if dm.N == 0 {
		return nil, model.Errorf(model.KindModelInvalid, "model has no active degrees of freedom")
	}

	st, err := assemble.Stiffness(s, dm)
	if err != nil {
		return nil, err
	}
	zeroF := make([]float64, dm.N)
	assemble.ApplyConstraints(st, zeroF, s, dm)

	Mdiag, err := assemble.LumpedMass(s, dm)
	if err != nil {
		return nil, err
	}
	for i, d := range Mdiag {
		if d <= 0 {
			Mdiag[i] = 1e-12 // a massless constrained DOF carries no inertia; keep it from poisoning the pencil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, model.Errorf(model.KindCancelled, "modal analysis cancelled: %v", err)
	}

	solveK, cleanup, err := factoredSolver(st.K, dm.N)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	applyM := func(x []float64) []float64 {
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = Mdiag[i] * v
		}
		return out
	}

	p := nModes + 4
	if p > dm.N {
		p = dm.N
	}
	seed := initialSubspace(dm.N, p, Mdiag)

	sigma, vectors, err := shiftInvertSubspace(solveK, applyM, dm.N, p, seed)
	if err != nil {
		return nil, err
	}

	// sigma = 1/omega^2, descending: the tail (smallest sigma) holds the
	// highest frequencies of the subspace; ascending-frequency order
	// wants ascending omega, i.e. descending sigma, which is already the
	// order shiftInvertSubspace returns.
	n := nModes
	if n > len(sigma) {
		n = len(sigma)
	}
	freqs := make([]float64, n)
	modes := make([][]float64, n)
	for k := 0; k < n; k++ {
		omega2 := 1 / sigma[k]
		if omega2 < 0 {
			omega2 = 0
		}
		freqs[k] = math.Sqrt(omega2) / (2 * math.Pi)
		modes[k] = vectors[k]
	}

	return &Outcome[ModalResult]{Result: ModalResult{Frequencies: freqs, Modes: modes}}, nil
}
