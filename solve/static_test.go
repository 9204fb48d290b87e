// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"testing"

	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/chk"
)

func cantileverTrussStore() *model.Store {
	s := model.NewStore()
	s.AddNode(model.Node{ID: 1, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(model.Node{ID: 2, X: 2, Active: [6]bool{true, true, true, true, true, true}})
	s.AddMaterial(model.Material{ID: 1, E: 2e11, Nu: 0.3, Rho: 7850})
	s.AddSection(model.Section{ID: 1, Area: 0.01, Iy: 8e-6, Iz: 8e-6, J: 1.6e-5})
	s.AddElement(model.Element{ID: 1, Kind: model.Truss, NodeIDs: []int64{1, 2}, MaterialID: 1, SectionID: 1, HasSection: true})
	s.AddConstraint(model.Constraint{ID: 1, NodeID: 1, Fixed: [6]bool{true, true, true, true, true, true}})
	s.AddConstraint(model.Constraint{ID: 2, NodeID: 2, Fixed: [6]bool{false, true, true, true, true, true}})
	s.AddLoad(model.Load{ID: 1, NodeID: 2, HasNode: true, Kind: model.LoadForce, Frame: model.FrameGlobal, Values: [6]float64{1e4, 0, 0, 0, 0, 0}})
	return s
}

func Test_static_cantilever_closed_form(tst *testing.T) {

	chk.PrintTitle("static_cantilever_closed_form. u = P*L/(E*A)")

	s := cantileverTrussStore()
	out, err := Static(context.Background(), s)
	if err != nil {
		tst.Fatalf("static solve failed: %v", err)
	}

	dm := s.BuildDOFMap()
	P, E, A, L := 1.0e4, 2e11, 0.01, 2.0
	uAna := P * L / (E * A)
	chk.AnaNum(tst, "ux at node 2", 1e-9, out.Result.U[dm.Eq[2][0]], uAna, chk.Verbose)
}

func Test_static_reaction_balances_load(tst *testing.T) {

	chk.PrintTitle("static_reaction_balances_load. fixed-end reaction equals -applied force")

	s := cantileverTrussStore()
	out, err := Static(context.Background(), s)
	if err != nil {
		tst.Fatalf("static solve failed: %v", err)
	}
	dm := s.BuildDOFMap()
	chk.Scalar(tst, "Rx at node 1", 1e-3, out.Result.R[dm.Eq[1][0]], -1e4)
}

func Test_static_empty_model_fails(tst *testing.T) {

	chk.PrintTitle("static_empty_model_fails. store with no nodes is model_invalid")

	s := model.NewStore()
	_, err := Static(context.Background(), s)
	if err == nil {
		tst.Fatalf("expected error on empty model")
	}
	if model.KindOf(err) != model.KindModelInvalid {
		tst.Fatalf("expected model_invalid, got %v", model.KindOf(err))
	}
}

func Test_static_cancelled_context(tst *testing.T) {

	chk.PrintTitle("static_cancelled_context. pre-cancelled context returns cancelled kind")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := cantileverTrussStore()
	_, err := Static(ctx, s)
	if err == nil {
		tst.Fatalf("expected cancellation error")
	}
	if model.KindOf(err) != model.KindCancelled {
		tst.Fatalf("expected cancelled, got %v", model.KindOf(err))
	}
}
