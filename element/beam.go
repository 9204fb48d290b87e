// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package element

import "github.com/cpmech/framefem/model"

// localBeamStiffness builds the 12x12 Euler-Bernoulli local stiffness
// matrix for a 3D beam/frame element, DOF order per node (ux,uy,uz,rx,ry,rz).
// Axial and torsion are the familiar 2x2 blocks; the two bending planes
// each carry the (12,6L,4L^2,2L^2) pattern, with the y-bending plane's
// off-diagonal signs flipped relative to z-bending, the standard
// right-hand-rule consequence of w/ry sharing a plane orthogonal to
// v/rz.
func localBeamStiffness(E, G, A, Iy, Iz, J, L float64) [][]float64 {
	K := la12()

	ea := E * A / L
	K[0][0], K[0][6] = ea, -ea
	K[6][0], K[6][6] = -ea, ea

	gj := G * J / L
	K[3][3], K[3][9] = gj, -gj
	K[9][3], K[9][9] = -gj, gj

	// bending about local z: transverse v (1,7), rotation rz (5,11)
	bz := bending4(E, Iz, L)
	placeBending(K, bz, 1, 5, 7, 11, +1)

	// bending about local y: transverse w (2,8), rotation ry (4,10)
	by := bending4(E, Iy, L)
	placeBending(K, by, 2, 4, 8, 10, -1)

	return K
}

// bending4 returns the standard 4x4 Euler-Bernoulli bending stiffness
// block for one plane: [v1,theta1,v2,theta2] order.
func bending4(E, I, L float64) [4][4]float64 {
	L2, L3 := L*L, L*L*L
	c := E * I
	return [4][4]float64{
		{12 * c / L3, 6 * c / L2, -12 * c / L3, 6 * c / L2},
		{6 * c / L2, 4 * c / L, -6 * c / L2, 2 * c / L},
		{-12 * c / L3, -6 * c / L2, 12 * c / L3, -6 * c / L2},
		{6 * c / L2, 2 * c / L, -6 * c / L2, 4 * c / L},
	}
}

// placeBending scatters a 4x4 bending block into K at the given transverse
// (t1,t2) and rotational (r1,r2) DOF indices. sign flips the coupling
// terms between translation and rotation for the y-bending plane, whose
// moment-curvature relation has the opposite sense to z-bending under a
// consistent right-handed local frame.
func placeBending(K [][]float64, b [4][4]float64, t1, r1, t2, r2 int, sign float64) {
	idx := [4]int{t1, r1, t2, r2}
	signs := [4]float64{1, sign, 1, sign}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			K[idx[i]][idx[j]] += signs[i] * signs[j] * b[i][j]
		}
	}
}

func la12() [][]float64 { return newDense(12) }

// rotationBlocks builds the 12x12 block-diagonal transformation matrix
// (four copies of the 3x3 direction-cosine matrix) mapping a global DOF
// vector into local components.
func rotationBlocks(o Orientation) [][]float64 {
	T := newDense(12)
	for b := 0; b < 4; b++ {
		off := b * 3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				T[off+i][off+j] = o.Row[i][j]
			}
		}
	}
	return T
}

// matMul computes the dense product A * B; these are small (12x12)
// products, no sparse/BLAS machinery needed here.
func matMul(a, b [][]float64) [][]float64 {
	n := len(a)
	k := len(b)
	out := newDense(n)
	for i := 0; i < n; i++ {
		for j := 0; j < len(b[0]); j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += a[i][p] * b[p][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func transpose(a [][]float64) [][]float64 {
	n := len(a)
	out := newDense(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j][i] = a[i][j]
		}
	}
	return out
}

// beamStiffness builds the global 12x12 stiffness matrix for a beam/frame
// element: local Euler-Bernoulli stiffness rotated by T^T K_local T, where
// T is the block-diagonal direction-cosine transform from beamOrientation.
func beamStiffness(n1, n2 *model.Node, mat *model.Material, sec *model.Section, dofs []int) (*Result, error) {
	o := beamOrientation(n1.Coords(), n2.Coords())
	_, length := trussOrientation(n1.Coords(), n2.Coords())
	if length == 0 {
		return nil, model.Errorf(model.KindAssemblyFailed, "beam element has zero length")
	}
	Klocal := localBeamStiffness(mat.E, mat.G(), sec.Area, sec.Iy, sec.Iz, sec.J, length)
	T := rotationBlocks(o)
	Kglobal := matMul(matMul(transpose(T), Klocal), T)
	return &Result{K: Kglobal, DOFs: dofs}, nil
}

// beamAxialForce recovers the element's axial force from a reference
// displacement state, the same way trussAxialForce does, used to drive
// the beam's geometric stiffness kernel.
func beamAxialForce(n1, n2 *model.Node, mat *model.Material, sec *model.Section, dofs []int, uRef []float64) float64 {
	o := beamOrientation(n1.Coords(), n2.Coords())
	_, length := trussOrientation(n1.Coords(), n2.Coords())
	if length == 0 {
		return 0
	}
	ue := elemDisp(uRef, dofs)
	var g1, g2 [3]float64
	for i := 0; i < 3; i++ {
		g1[i] = ue[i]
		g2[i] = ue[6+i]
	}
	l1 := localTranslation(o, g1)
	l2 := localTranslation(o, g2)
	elong := l2[0] - l1[0]
	return mat.E * sec.Area / length * elong
}

// localTranslation projects a global translation vector onto the local
// axes (row i of o.Row dotted with v).
func localTranslation(o Orientation, v [3]float64) [3]float64 {
	var l [3]float64
	for i := 0; i < 3; i++ {
		l[i] = dot(o.Row[i], v)
	}
	return l
}

// beamGeometric builds the standard 3D beam geometric stiffness matrix
// driven by the element's axial force N, using the same consistent-
// geometric pattern applied independently to each bending plane, then
// rotated to global exactly as the elastic stiffness is.
func beamGeometric(n1, n2 *model.Node, axial float64, dofs []int) (*Result, error) {
	o := beamOrientation(n1.Coords(), n2.Coords())
	_, L := trussOrientation(n1.Coords(), n2.Coords())
	if L == 0 {
		return nil, model.Errorf(model.KindAssemblyFailed, "beam element has zero length")
	}
	Klocal := la12()
	g := geomBending4(axial, L)
	placeBending(Klocal, g, 1, 5, 7, 11, +1)
	placeBending(Klocal, g, 2, 4, 8, 10, -1)

	T := rotationBlocks(o)
	Kglobal := matMul(matMul(transpose(T), Klocal), T)
	return &Result{K: Kglobal, DOFs: dofs}, nil
}

// geomBending4 is the standard consistent geometric stiffness block for
// one bending plane under axial force N over length L.
func geomBending4(N, L float64) [4][4]float64 {
	f := N / (30 * L)
	return [4][4]float64{
		{36 * f, 3 * L * f, -36 * f, 3 * L * f},
		{3 * L * f, 4 * L * L * f, -3 * L * f, -L * L * f},
		{-36 * f, -3 * L * f, 36 * f, -3 * L * f},
		{3 * L * f, -L * L * f, -3 * L * f, 4 * L * L * f},
	}
}
