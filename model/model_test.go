// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_dofmap_basic(tst *testing.T) {

	chk.PrintTitle("dofmap_basic. two nodes, one with only ux active")

	s := NewStore()
	s.AddNode(Node{ID: 10, X: 0, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 20, X: 1, Active: [6]bool{true, false, false, false, false, false}})

	dm := s.BuildDOFMap()
	chk.IntAssert(dm.N, 7)

	eq10 := dm.Eq[10]
	for i := 0; i < 6; i++ {
		chk.IntAssert(eq10[i], i)
	}
	eq20 := dm.Eq[20]
	chk.IntAssert(eq20[0], 6)
	for i := 1; i < 6; i++ {
		chk.IntAssert(eq20[i], -1)
	}
}

func Test_dofmap_insertion_order(tst *testing.T) {

	chk.PrintTitle("dofmap_insertion_order. ids out of numeric order")

	s := NewStore()
	// insert id 100 after id 2, with a larger id than a third node added later
	s.AddNode(Node{ID: 2, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 100, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 3, Active: [6]bool{true, true, true, true, true, true}})

	dm := s.BuildDOFMap()
	chk.IntAssert(dm.Eq[2][0], 0)
	chk.IntAssert(dm.Eq[100][0], 6)
	chk.IntAssert(dm.Eq[3][0], 12)
}

func Test_validate_dangling_material(tst *testing.T) {

	chk.PrintTitle("validate_dangling_material")

	s := NewStore()
	s.AddNode(Node{ID: 1, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 2, Active: [6]bool{true, true, true, true, true, true}})
	s.AddSection(Section{ID: 1, Area: 0.01})
	s.AddElement(Element{ID: 1, Kind: Truss, NodeIDs: []int64{1, 2}, MaterialID: 99, SectionID: 1, HasSection: true})

	err := s.Validate()
	if err == nil {
		tst.Fatalf("expected validation error for dangling material id")
	}
	if KindOf(err) != KindModelInvalid {
		tst.Fatalf("expected model_invalid, got %v", KindOf(err))
	}
}

func Test_validate_duplicate_material_id(tst *testing.T) {

	chk.PrintTitle("validate_duplicate_material_id")

	s := NewStore()
	s.AddNode(Node{ID: 1, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 2, Active: [6]bool{true, true, true, true, true, true}})
	s.AddMaterial(Material{ID: 1, E: 2e11, Nu: 0.3, Rho: 7850})
	s.AddMaterial(Material{ID: 1, E: 1e11, Nu: 0.25, Rho: 7000})
	s.AddSection(Section{ID: 1, Area: 0.01})
	s.AddElement(Element{ID: 1, Kind: Truss, NodeIDs: []int64{1, 2}, MaterialID: 1, SectionID: 1, HasSection: true})

	err := s.Validate()
	if err == nil {
		tst.Fatalf("expected validation error for duplicate material id")
	}
	if KindOf(err) != KindModelInvalid {
		tst.Fatalf("expected model_invalid, got %v", KindOf(err))
	}
}

func Test_validate_duplicate_node_and_element_id(tst *testing.T) {

	chk.PrintTitle("validate_duplicate_node_and_element_id")

	nodeDup := NewStore()
	nodeDup.AddNode(Node{ID: 1, Active: [6]bool{true, true, true, true, true, true}})
	nodeDup.AddNode(Node{ID: 1, X: 1, Active: [6]bool{true, true, true, true, true, true}})
	if err := nodeDup.Validate(); err == nil || KindOf(err) != KindModelInvalid {
		tst.Fatalf("expected model_invalid for duplicate node id, got %v", err)
	}

	elemDup := NewStore()
	elemDup.AddNode(Node{ID: 1, Active: [6]bool{true, true, true, true, true, true}})
	elemDup.AddNode(Node{ID: 2, Active: [6]bool{true, true, true, true, true, true}})
	elemDup.AddMaterial(Material{ID: 1, E: 2e11, Nu: 0.3, Rho: 7850})
	elemDup.AddSection(Section{ID: 1, Area: 0.01})
	elemDup.AddElement(Element{ID: 1, Kind: Truss, NodeIDs: []int64{1, 2}, MaterialID: 1, SectionID: 1, HasSection: true})
	elemDup.AddElement(Element{ID: 1, Kind: Truss, NodeIDs: []int64{2, 1}, MaterialID: 1, SectionID: 1, HasSection: true})
	if err := elemDup.Validate(); err == nil || KindOf(err) != KindModelInvalid {
		tst.Fatalf("expected model_invalid for duplicate element id, got %v", err)
	}
}

func Test_json_roundtrip(tst *testing.T) {

	chk.PrintTitle("json_roundtrip. model isomorphic after encode/decode")

	s := NewStore()
	s.AddNode(Node{ID: 1, X: 0, Y: 0, Z: 0, Active: [6]bool{true, true, true, true, true, true}})
	s.AddNode(Node{ID: 2, X: 1, Y: 0, Z: 0, Active: [6]bool{true, true, true, true, true, true}})
	s.AddMaterial(Material{ID: 1, Name: "steel", E: 2e11, Nu: 0.3, Rho: 7850})
	s.AddSection(Section{ID: 1, Area: 0.01})
	s.AddElement(Element{ID: 1, Kind: Truss, NodeIDs: []int64{1, 2}, MaterialID: 1, SectionID: 1, HasSection: true})
	s.AddLoad(Load{ID: 1, NodeID: 2, HasNode: true, Kind: LoadForce, Frame: FrameGlobal, Values: [6]float64{1e5, 0, 0, 0, 0, 0}})
	s.AddConstraint(Constraint{ID: 1, NodeID: 1, Fixed: [6]bool{true, true, true, true, true, true}})

	data, err := Marshal(s)
	if err != nil {
		tst.Fatalf("marshal failed: %v", err)
	}
	s2, err := ParseModel(data)
	if err != nil {
		tst.Fatalf("parse failed: %v", err)
	}

	chk.IntAssert(len(s2.Nodes()), len(s.Nodes()))
	chk.IntAssert(len(s2.Elements()), len(s.Elements()))
	n1 := s2.Node(2)
	chk.Scalar(tst, "node 2 x", 1e-17, n1.X, 1.0)
	e1 := s2.Element(1)
	chk.IntAssert(int(e1.MaterialID), 1)
}

func Test_json_defaults(tst *testing.T) {

	chk.PrintTitle("json_defaults. missing mask/kind/frame take documented defaults")

	raw := []byte(`{
		"nodes":[{"id":1,"x":0,"y":0,"z":0},{"id":2,"x":1,"y":0,"z":0}],
		"materials":[{"id":1,"name":"steel","E":2e11,"nu":0.3,"rho":7850}],
		"sections":[{"id":1,"area":0.01,"Ix":0,"Iy":0,"Iz":0,"J":0}],
		"elements":[{"id":1,"type":"truss","node_ids":[1,2],"material_id":1,"section_id":1}],
		"loads":[{"id":1,"node_id":2,"values":[1e5,0,0,0,0,0]}],
		"constraints":[{"id":1,"node_id":1,"fixed":[true,true,true,true,true,true]}]
	}`)
	s, err := ParseModel(raw)
	if err != nil {
		tst.Fatalf("parse failed: %v", err)
	}
	n1 := s.Node(1)
	for i := 0; i < 6; i++ {
		if !n1.Active[i] {
			tst.Fatalf("expected default mask all-true")
		}
	}
	l := s.Loads()[0]
	if l.Kind != LoadForce {
		tst.Fatalf("expected default load kind 'force', got %q", l.Kind)
	}
	if l.Frame != FrameGlobal {
		tst.Fatalf("expected default load frame 'global', got %q", l.Frame)
	}
}
