// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"sort"

	"github.com/cpmech/framefem/assemble"
	"github.com/cpmech/framefem/model"
)

// Buckling finds the nModes lowest-magnitude critical load factors and
// buckling mode shapes for (K + lambda*Kg)*phi = 0, rearranged as
// Kg*phi = -(1/lambda)*K*phi. Kg is driven by the axial forces of a
// reference linear static solve under the applied loads.
func Buckling(ctx context.Context, s *model.Store, nModes int) (*Outcome[BucklingResult], error) {
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

	staticOut, err := Static(ctx, s)
	if err != nil {
		return nil, err
	}
	uRef := staticOut.Result.U

	st, err := assemble.Stiffness(s, dm)
	if err != nil {
		return nil, err
	}
	zeroF := make([]float64, dm.N)
	assemble.ApplyConstraints(st, zeroF, s, dm)

	KgDense, err := assemble.DenseGeometric(s, dm, uRef)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, model.Errorf(model.KindCancelled, "buckling analysis cancelled: %v", err)
	}

	solveK, cleanup, err := factoredSolver(st.K, dm.N)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	applyKg := func(x []float64) []float64 {
		out := make([]float64, dm.N)
		for i := 0; i < dm.N; i++ {
			var sum float64
			row := KgDense[i]
			for j, v := range row {
				if v != 0 {
					sum += v * x[j]
				}
			}
			out[i] = sum
		}
		return out
	}

	diag := make([]float64, dm.N)
	for i := range diag {
		diag[i] = 1
	}
	p := nModes + 4
	if p > dm.N {
		p = dm.N
	}
	seed := initialSubspace(dm.N, p, diag)

	sigma, vectors, err := shiftInvertSubspace(solveK, applyKg, dm.N, p, seed)
	if err != nil {
		return nil, err
	}

	// sigma = -1/lambda here; lambda = -1/sigma. Sort by |lambda| ascending.
	type pair struct {
		lambda float64
		vec    []float64
	}
	pairs := make([]pair, 0, len(sigma))
	for k, sg := range sigma {
		if sg == 0 {
			continue
		}
		pairs = append(pairs, pair{lambda: -1 / sg, vec: vectors[k]})
	}
	sort.Slice(pairs, func(a, b int) bool {
		return absf(pairs[a].lambda) < absf(pairs[b].lambda)
	})

	n := nModes
	if n > len(pairs) {
		n = len(pairs)
	}
	factors := make([]float64, n)
	modes := make([][]float64, n)
	for k := 0; k < n; k++ {
		factors[k] = pairs[k].lambda
		modes[k] = pairs[k].vec
	}

	return &Outcome[BucklingResult]{Result: BucklingResult{LoadFactors: factors, Modes: modes}}, nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
