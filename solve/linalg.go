// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import "github.com/cpmech/framefem/model"

// denseSolve solves A*x = b by Gauss elimination with partial pivoting.
// Newton's tangent system is refactored every iteration, so the small
// frame/truss models this package targets are solved directly in dense
// form here rather than paying gosl/la's sparse factorization overhead
// once per iteration (the static/modal/buckling paths instead factor
// once and reuse it, where that cost amortizes).
func denseSolve(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		copy(aug[i], A[i])
		aug[i][n] = b[i]
	}
	for col := 0; col < n; col++ {
		piv := col
		best := aug[col][col]
		for row := col + 1; row < n; row++ {
			if absf(aug[row][col]) > absf(best) {
				piv, best = row, aug[row][col]
			}
		}
		if absf(aug[piv][col]) < 1e-300 {
			return nil, model.Errorf(model.KindNumericalInstability, "singular tangent matrix at column %d", col)
		}
		aug[col], aug[piv] = aug[piv], aug[col]
		pv := aug[col][col]
		for j := col; j <= n; j++ {
			aug[col][j] /= pv
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			f := aug[row][col]
			if f == 0 {
				continue
			}
			for j := col; j <= n; j++ {
				aug[row][j] -= f * aug[col][j]
			}
		}
	}
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, nil
}
