// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble builds the global sparse stiffness/geometric-stiffness
// matrices, the diagonal lumped-mass vector, and the global load vector
// from a model.Store and model.DOFMap, and applies essential boundary
// conditions by the penalty method.
//
// Each element's contribution is scattered into a gosl/la.Triplet, with
// duplicate (row,col) entries accumulated rather than overwritten, the
// same shape used by any finite-element Jacobian assembly.
package assemble

import (
	"github.com/cpmech/framefem/element"
	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/la"
)

// Stiff bundles the assembled stiffness triplet with its diagonal (the
// penalty method needs max|K_ii| to pick a constraint stiffness that
// dominates without destroying the matrix's conditioning).
type Stiff struct {
	K    *la.Triplet
	Diag []float64
}

// estimateNNZ bounds the triplet capacity: each 2-node element
// contributes up to (2*NDOF)^2 entries.
func estimateNNZ(s *model.Store) int {
	return len(s.Elements()) * (2 * model.NDOF) * (2 * model.NDOF)
}

// Stiffness assembles the global stiffness triplet by summing each
// element's contribution at its global DOF indices, skipping any -1
// (masked-off) slot. The returned Stiff.Diag tracks the assembled
// diagonal so the penalty method (ApplyConstraints) can scale off it
// without re-reading the triplet.
func Stiffness(s *model.Store, dm *model.DOFMap) (*Stiff, error) {
	K := new(la.Triplet)
	K.Init(dm.N, dm.N, estimateNNZ(s))
	diag := make([]float64, dm.N)
	for _, eid := range s.Elements() {
		e := s.Element(eid)
		res, err := element.Stiffness(s, e, dm)
		if err != nil {
			return nil, err
		}
		addBlock(K, res, diag)
	}
	return &Stiff{K: K, Diag: diag}, nil
}

// GeometricStiffness assembles the global geometric stiffness triplet
// driven by the reference linear displacement uRef.
func GeometricStiffness(s *model.Store, dm *model.DOFMap, uRef []float64) (*la.Triplet, error) {
	Kg := new(la.Triplet)
	Kg.Init(dm.N, dm.N, estimateNNZ(s))
	diag := make([]float64, dm.N)
	for _, eid := range s.Elements() {
		e := s.Element(eid)
		res, err := element.GeometricStiffness(s, e, dm, uRef)
		if err != nil {
			return nil, err
		}
		addBlock(Kg, res, diag)
	}
	return Kg, nil
}

// addBlock scatters a dense element result into the global triplet,
// skipping rows/columns whose global DOF is -1, and accumulates the
// diagonal into diag (same accumulation the triplet itself performs,
// kept in parallel so callers can read it without inspecting the
// triplet's internal storage).
func addBlock(K *la.Triplet, res *element.Result, diag []float64) {
	for i, gi := range res.DOFs {
		if gi < 0 {
			continue
		}
		for j, gj := range res.DOFs {
			if gj < 0 {
				continue
			}
			v := res.K[i][j]
			if v != 0 {
				K.Put(gi, gj, v)
				if gi == gj {
					diag[gi] += v
				}
			}
		}
	}
}

// LumpedMass assembles the global diagonal lumped-mass vector: each
// element's translational/rotational mass contributions are summed onto
// the diagonal only.
func LumpedMass(s *model.Store, dm *model.DOFMap) ([]float64, error) {
	Mdiag := make([]float64, dm.N)
	for _, eid := range s.Elements() {
		e := s.Element(eid)
		res, err := element.Mass(s, e, dm)
		if err != nil {
			return nil, err
		}
		for i, gi := range res.DOFs {
			if gi < 0 {
				continue
			}
			Mdiag[gi] += res.K[i][i]
		}
	}
	return Mdiag, nil
}

// Dense assembles the global stiffness directly into a dense n x n
// matrix instead of a triplet. Model sizes this package targets (frame
// and truss structures, not continuum meshes) keep n small enough that
// solve's eigen/Newton kernels can work with dense arrays throughout,
// matching lvlath's ops.Eigen, which expects a dense symmetric input.
func Dense(s *model.Store, dm *model.DOFMap) ([][]float64, error) {
	return denseAssembly(s, dm, func(e *model.Element) (*element.Result, error) {
		return element.Stiffness(s, e, dm)
	})
}

// DenseGeometric assembles the global geometric stiffness, driven by
// uRef, directly into a dense n x n matrix.
func DenseGeometric(s *model.Store, dm *model.DOFMap, uRef []float64) ([][]float64, error) {
	return denseAssembly(s, dm, func(e *model.Element) (*element.Result, error) {
		return element.GeometricStiffness(s, e, dm, uRef)
	})
}

func denseAssembly(s *model.Store, dm *model.DOFMap, perElement func(*model.Element) (*element.Result, error)) ([][]float64, error) {
	K := make([][]float64, dm.N)
	for i := range K {
		K[i] = make([]float64, dm.N)
	}
	for _, eid := range s.Elements() {
		e := s.Element(eid)
		res, err := perElement(e)
		if err != nil {
			return nil, err
		}
		for i, gi := range res.DOFs {
			if gi < 0 {
				continue
			}
			for j, gj := range res.DOFs {
				if gj < 0 {
					continue
				}
				K[gi][gj] += res.K[i][j]
			}
		}
	}
	return K, nil
}

// Loads assembles the global load vector from node-applied loads. Every
// node load's six components are accumulated directly onto F at the
// node's active DOFs as global components; a load's Frame and Kind are
// not consulted. Element-applied loads are skipped.
func Loads(s *model.Store, dm *model.DOFMap) []float64 {
	F := make([]float64, dm.N)
	for _, l := range s.Loads() {
		if !l.HasNode {
			continue
		}
		eq := dm.Eq[l.NodeID]
		for i := 0; i < model.NDOF; i++ {
			if eq[i] >= 0 {
				F[eq[i]] += l.Values[i]
			}
		}
	}
	return F
}
