// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"math"
	"sort"

	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/la"
	"github.com/katalvlaran/lvlath/matrix"
	"github.com/katalvlaran/lvlath/matrix/ops"
)

// subspaceIterTol/subspaceIterMax bound the shift-invert subspace
// iteration's convergence: it stops when every tracked Ritz value's
// change between sweeps drops below the tolerance (relative to the
// value when its magnitude exceeds 1, absolute otherwise), or after
// the sweep budget, whichever comes first.
const (
	subspaceIterTol = 1e-10
	subspaceIterMax = 60
)

// matVec is a matrix-free B*x application: modal analysis uses the
// diagonal mass matrix, buckling uses the assembled geometric stiffness.
type matVec func(x []float64) []float64

// shiftInvertSubspace finds the p Ritz pairs of K^{-1}*B with the largest
// magnitude (the shift-invert strategy: smallest |eigenvalue| of the
// original generalized pencil K*phi = (1/sigma)*B*phi corresponds to the
// largest sigma here), by subspace (simultaneous) iteration: factor K
// once, repeatedly solve K*Z = B*X, B-orthonormalize Z, project K^{-1}*B
// onto it as a small dense generalized eigenproblem, and Ritz-rotate
// the basis.
//
// This substitutes for literal shift-and-invert Lanczos, since no
// available dependency exposes a generalized eigensolver: the inner
// (small, dense) eigensolve uses lvlath's ops.Eigen Jacobi routine on
// the reduced pencil instead.
func shiftInvertSubspace(solveK func([]float64) ([]float64, error), applyB matVec, n, p int, seed [][]float64) (sigma []float64, vectors [][]float64, err error) {
	if p > n {
		p = n
	}
	X := seed

	var Kr, Mr [][]float64
	var ritzVec [][]float64
	prevSigma := make([]float64, p)

	for iter := 0; iter < subspaceIterMax; iter++ {
		Z := make([][]float64, p)
		for k := 0; k < p; k++ {
			bx := applyB(X[k])
			z, serr := solveK(bx)
			if serr != nil {
				return nil, nil, model.Errorf(model.KindEigenSolveFailed, "shift-invert solve failed: %v", serr)
			}
			Z[k] = z
		}

		mOrthonormalize(Z, applyB)

		// Kr = Z^T * B * K^{-1} * B * Z, the projection of K^{-1}*B onto the
		// B-orthonormal basis Z; its eigenvalues approximate sigma.
		Kr = make([][]float64, p)
		for i := range Kr {
			Kr[i] = make([]float64, p)
		}
		BKBZ := make([][]float64, p)
		for k := 0; k < p; k++ {
			w, serr := solveK(applyB(Z[k]))
			if serr != nil {
				return nil, nil, model.Errorf(model.KindEigenSolveFailed, "shift-invert solve failed: %v", serr)
			}
			BKBZ[k] = applyB(w)
		}
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				Kr[i][j] = dotVec(Z[i], BKBZ[j])
			}
		}

		Mr = make([][]float64, p)
		for i := range Mr {
			Mr[i] = make([]float64, p)
		}
		BZ := make([][]float64, p)
		for k := 0; k < p; k++ {
			BZ[k] = applyB(Z[k])
		}
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				Mr[i][j] = dotVec(Z[i], BZ[j])
			}
		}

		sig, y, serr := solveReducedGeneralized(Kr, Mr)
		if serr != nil {
			return nil, nil, serr
		}

		ritzVec = make([][]float64, p)
		for k := 0; k < p; k++ {
			v := make([]float64, n)
			for i := 0; i < n; i++ {
				var sum float64
				for j := 0; j < p; j++ {
					sum += Z[j][i] * y[j][k]
				}
				v[i] = sum
			}
			ritzVec[k] = v
		}

		converged := true
		for k := 0; k < p; k++ {
			if math.Abs(sig[k]-prevSigma[k]) > subspaceIterTol*math.Max(1, math.Abs(sig[k])) {
				converged = false
			}
		}
		copy(prevSigma, sig)
		X = ritzVec
		sigma = sig
		vectors = ritzVec
		if converged {
			break
		}
	}
	return sigma, vectors, nil
}

func dotVec(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// mOrthonormalize performs B-weighted (modified) Gram-Schmidt on the
// columns of Z in place.
func mOrthonormalize(Z [][]float64, applyB matVec) {
	for k := 0; k < len(Z); k++ {
		for j := 0; j < k; j++ {
			bz := applyB(Z[j])
			proj := dotVec(Z[k], bz)
			for i := range Z[k] {
				Z[k][i] -= proj * Z[j][i]
			}
		}
		bz := applyB(Z[k])
		norm := math.Sqrt(math.Max(dotVec(Z[k], bz), 1e-300))
		for i := range Z[k] {
			Z[k][i] /= norm
		}
	}
}

// solveReducedGeneralized solves the small dense generalized symmetric
// eigenproblem Kr*y = sigma*Mr*y by Cholesky-reducing Mr = L*L^T, forming
// the standard symmetric problem A = L^{-1} Kr L^{-T}, and diagonalizing
// A with lvlath's Jacobi ops.Eigen. Eigenvalues come back descending
// (largest sigma first), matching the shift-invert convergence target.
func solveReducedGeneralized(Kr, Mr [][]float64) ([]float64, [][]float64, error) {
	p := len(Kr)
	L, err := cholesky(Mr)
	if err != nil {
		return nil, nil, model.Errorf(model.KindEigenSolveFailed, "reduced mass matrix not positive definite: %v", err)
	}
	Linv := invertLowerTriangular(L)

	A := matMulDense(matMulDense(Linv, Kr), transposeDense(Linv))

	dm, derr := matrix.NewDense(p, p)
	if derr != nil {
		return nil, nil, model.Errorf(model.KindEigenSolveFailed, "reduced eigen setup failed: %v", derr)
	}
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			_ = dm.Set(i, j, A[i][j])
		}
	}
	eigvals, Q, eerr := ops.Eigen(dm, 1e-12, 200)
	if eerr != nil {
		return nil, nil, model.Errorf(model.KindEigenSolveFailed, "reduced eigensolve failed: %v", eerr)
	}

	order := make([]int, p)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return eigvals[order[a]] > eigvals[order[b]] })

	sigma := make([]float64, p)
	LinvT := transposeDense(Linv)
	y := make([][]float64, p)
	for k := 0; k < p; k++ {
		idx := order[k]
		sigma[k] = eigvals[idx]
		col := make([]float64, p)
		for i := 0; i < p; i++ {
			v, _ := Q.At(i, idx)
			col[i] = v
		}
		// y = L^{-T} * q
		yk := make([]float64, p)
		for i := 0; i < p; i++ {
			var s float64
			for j := 0; j < p; j++ {
				s += LinvT[i][j] * col[j]
			}
			yk[i] = s
		}
		y[k] = yk
	}
	// y currently holds rows indexed by eigenvector component; transpose
	// into column-major [component][mode] for the caller's convenience.
	yCols := make([][]float64, p)
	for i := 0; i < p; i++ {
		yCols[i] = make([]float64, p)
		for k := 0; k < p; k++ {
			yCols[i][k] = y[k][i]
		}
	}
	return sigma, yCols, nil
}

func cholesky(A [][]float64) ([][]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += L[i][k] * L[j][k]
			}
			if i == j {
				d := A[i][i] - sum
				if d <= 0 {
					return nil, model.Errorf(model.KindEigenSolveFailed, "non-positive pivot at %d", i)
				}
				L[i][j] = math.Sqrt(d)
			} else {
				L[i][j] = (A[i][j] - sum) / L[j][j]
			}
		}
	}
	return L, nil
}

func invertLowerTriangular(L [][]float64) [][]float64 {
	n := len(L)
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		b := make([]float64, n)
		b[col] = 1
		x := make([]float64, n)
		for i := 0; i < n; i++ {
			sum := b[i]
			for j := 0; j < i; j++ {
				sum -= L[i][j] * x[j]
			}
			x[i] = sum / L[i][i]
		}
		for i := 0; i < n; i++ {
			inv[i][col] = x[i]
		}
	}
	return inv
}

func matMulDense(a, b [][]float64) [][]float64 {
	n, k, m := len(a), len(b), len(b[0])
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
	}
	for i := 0; i < n; i++ {
		for p := 0; p < k; p++ {
			if a[i][p] == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				out[i][j] += a[i][p] * b[p][j]
			}
		}
	}
	return out
}

func transposeDense(a [][]float64) [][]float64 {
	n := len(a)
	m := len(a[0])
	out := make([][]float64, m)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out[j][i] = a[i][j]
		}
	}
	return out
}

// factoredSolver wraps a one-time la.GetSolver factorization of K into a
// reusable K^{-1}*rhs closure for the shift-invert iteration.
func factoredSolver(K *la.Triplet, n int) (func([]float64) ([]float64, error), func(), error) {
	solver := la.GetSolver("umfpack")
	if err := solver.InitR(K, false, false, false); err != nil {
		return nil, nil, model.Errorf(model.KindEigenSolveFailed, "solver init failed: %v", err)
	}
	if err := solver.Fact(); err != nil {
		return nil, nil, model.Errorf(model.KindEigenSolveFailed, "factorization failed: %v", err)
	}
	solve := func(rhs []float64) ([]float64, error) {
		x := make([]float64, n)
		if err := solver.SolveR(x, rhs, false); err != nil {
			return nil, err
		}
		return x, nil
	}
	return solve, solver.Clean, nil
}

// initialSubspace builds p deterministic starting vectors for the
// subspace iteration: unit vectors at the p DOFs with the largest
// diagonal mass (the standard "largest diagonal entry" seed heuristic).
// The unit vectors are returned as they are, without B-normalization.
func initialSubspace(n, p int, diag []float64) [][]float64 {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return diag[order[a]] > diag[order[b]] })

	X := make([][]float64, p)
	for k := 0; k < p; k++ {
		v := make([]float64, n)
		v[order[k%n]] = 1
		X[k] = v
	}
	return X
}
