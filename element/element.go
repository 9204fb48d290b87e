// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package element

import (
	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/la"
)

// Result is the dense local/global element matrix plus the global DOF
// index list (including -1 sentinels for masked-off slots) each
// row/column maps to.
type Result struct {
	K    [][]float64
	DOFs []int
}

// dofsFor builds the 12-entry (6 per node) global DOF index list for a
// 2-node element, in the node-order the element stores its node ids.
func dofsFor(dm *model.DOFMap, nodeIDs []int64) []int {
	dofs := make([]int, 0, model.NDOF*len(nodeIDs))
	for _, nid := range nodeIDs {
		eq := dm.Eq[nid]
		for i := 0; i < model.NDOF; i++ {
			dofs = append(dofs, eq[i])
		}
	}
	return dofs
}

// Stiffness dispatches to the per-kind stiffness kernel. Plate/shell/solid
// are enumerated in model.ElementKind but have no stiffness formulation:
// asking for one returns KindElementUnimplemented.
func Stiffness(s *model.Store, e *model.Element, dm *model.DOFMap) (*Result, error) {
	n1 := s.Node(e.NodeIDs[0])
	n2 := s.Node(e.NodeIDs[1])
	mat := s.Material(e.MaterialID)
	sec := s.Section(e.SectionID)

	switch e.Kind {
	case model.Truss:
		return trussStiffness(n1, n2, mat, sec, dofsFor(dm, e.NodeIDs))
	case model.Beam, model.Frame:
		return beamStiffness(n1, n2, mat, sec, dofsFor(dm, e.NodeIDs))
	default:
		return nil, model.Errorf(model.KindElementUnimplemented, "element kind %q not implemented", e.Kind)
	}
}

// Mass dispatches to the per-kind lumped-mass kernel (diagonal only;
// assembly consumes just the diagonal entries).
func Mass(s *model.Store, e *model.Element, dm *model.DOFMap) (*Result, error) {
	n1 := s.Node(e.NodeIDs[0])
	n2 := s.Node(e.NodeIDs[1])
	mat := s.Material(e.MaterialID)
	sec := s.Section(e.SectionID)

	switch e.Kind {
	case model.Truss, model.Beam, model.Frame:
		return lumpedMass(n1, n2, mat, sec, dofsFor(dm, e.NodeIDs))
	default:
		return nil, model.Errorf(model.KindElementUnimplemented, "element kind %q not implemented", e.Kind)
	}
}

// GeometricStiffness dispatches to the per-kind geometric stiffness
// kernel driven by the element's axial force under a reference linear
// solution u_ref.
func GeometricStiffness(s *model.Store, e *model.Element, dm *model.DOFMap, uRef []float64) (*Result, error) {
	n1 := s.Node(e.NodeIDs[0])
	n2 := s.Node(e.NodeIDs[1])
	mat := s.Material(e.MaterialID)
	sec := s.Section(e.SectionID)
	dofs := dofsFor(dm, e.NodeIDs)

	switch e.Kind {
	case model.Truss:
		axial := trussAxialForce(n1, n2, mat, sec, dofs, uRef)
		return trussGeometric(n1, n2, axial, dofs)
	case model.Beam, model.Frame:
		axial := beamAxialForce(n1, n2, mat, sec, dofs, uRef)
		return beamGeometric(n1, n2, axial, dofs)
	default:
		return nil, model.Errorf(model.KindElementUnimplemented, "element kind %q not implemented", e.Kind)
	}
}

// elemDisp extracts the element's local displacement slice from the
// global vector u, treating a -1 DOF (masked off) as zero.
func elemDisp(u []float64, dofs []int) []float64 {
	ue := make([]float64, len(dofs))
	for i, d := range dofs {
		if d >= 0 {
			ue[i] = u[d]
		}
	}
	return ue
}

// newDense allocates a zeroed n x n matrix via gosl/la, used for every
// element's K/M scratch matrix.
func newDense(n int) [][]float64 {
	return la.MatAlloc(n, n)
}
