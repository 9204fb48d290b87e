// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package element

import "github.com/cpmech/framefem/model"

// trussStiffness builds the 12x12 (6 DOF per node) global stiffness block
// for a 2-node truss: the closed-form axial EA/L relation embedded at the
// translational DOFs and rotated to global via the outer product of the
// element's direction cosines (rotational DOFs stay zero).
func trussStiffness(n1, n2 *model.Node, mat *model.Material, sec *model.Section, dofs []int) (*Result, error) {
	axis, length := trussOrientation(n1.Coords(), n2.Coords())
	if length == 0 {
		return nil, model.Errorf(model.KindAssemblyFailed, "truss element has zero length")
	}
	k := mat.E * sec.Area / length

	K := newDense(12)
	// cc^T, the 3x3 outer product of the direction cosines
	var cc [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cc[i][j] = axis[i] * axis[j]
		}
	}
	// translational block offsets: node 1 at 0, node 2 at 6
	add := func(rowOff, colOff int, sign float64) {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				K[rowOff+i][colOff+j] += sign * k * cc[i][j]
			}
		}
	}
	add(0, 0, 1)
	add(0, 6, -1)
	add(6, 0, -1)
	add(6, 6, 1)

	return &Result{K: K, DOFs: dofs}, nil
}

// lumpedMass splits m = rho*A*L equally between the two nodes'
// translational DOFs, leaving rotational DOFs and off-diagonal terms
// zero.
func lumpedMass(n1, n2 *model.Node, mat *model.Material, sec *model.Section, dofs []int) (*Result, error) {
	_, length := trussOrientation(n1.Coords(), n2.Coords())
	half := 0.5 * mat.Rho * sec.Area * length

	M := newDense(12)
	for i := 0; i < 3; i++ {
		M[i][i] = half
		M[6+i][6+i] = half
	}
	return &Result{K: M, DOFs: dofs}, nil
}

// trussAxialForce recovers the element's axial force N = (EA/L) * (elongation)
// from a reference displacement state; this is the scalar the geometric
// stiffness kernel is driven by.
func trussAxialForce(n1, n2 *model.Node, mat *model.Material, sec *model.Section, dofs []int, uRef []float64) float64 {
	axis, length := trussOrientation(n1.Coords(), n2.Coords())
	if length == 0 {
		return 0
	}
	ue := elemDisp(uRef, dofs)
	var u1, u2 [3]float64
	for i := 0; i < 3; i++ {
		u1[i] = ue[i]
		u2[i] = ue[6+i]
	}
	elong := dot(axis, [3]float64{u2[0] - u1[0], u2[1] - u1[1], u2[2] - u1[2]})
	return mat.E * sec.Area / length * elong
}

// trussGeometric builds the standard 2-node truss geometric stiffness
// block, (N/L) * (I - cc^T) at the translational DOFs, which stiffens
// (N>0, tension) or softens (N<0, compression) the transverse directions.
func trussGeometric(n1, n2 *model.Node, axial float64, dofs []int) (*Result, error) {
	axis, length := trussOrientation(n1.Coords(), n2.Coords())
	if length == 0 {
		return nil, model.Errorf(model.KindAssemblyFailed, "truss element has zero length")
	}
	kg := axial / length

	Kg := newDense(12)
	var proj [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			delta := 0.0
			if i == j {
				delta = 1
			}
			proj[i][j] = delta - axis[i]*axis[j]
		}
	}
	add := func(rowOff, colOff int, sign float64) {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				Kg[rowOff+i][colOff+j] += sign * kg * proj[i][j]
			}
		}
	}
	add(0, 0, 1)
	add(0, 6, -1)
	add(6, 0, -1)
	add(6, 6, 1)

	return &Result{K: Kg, DOFs: dofs}, nil
}
