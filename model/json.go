// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "encoding/json"

// Model is the JSON transport schema: field names match the entity
// attribute names, element Kind is the lowercase kind string, all
// numeric fields are float64, all ids are int64. Unknown fields are
// ignored by encoding/json's default behaviour; missing optional fields
// take the documented defaults applied in ToStore, via small typed
// decoders rather than reflection-based defaulting.
type Model struct {
	Nodes       []NodeJSON       `json:"nodes"`
	Materials   []MaterialJSON   `json:"materials"`
	Sections    []SectionJSON    `json:"sections"`
	Elements    []ElementJSON    `json:"elements"`
	Loads       []LoadJSON       `json:"loads"`
	Constraints []ConstraintJSON `json:"constraints"`
}

// NodeJSON is the wire shape of a Node.
type NodeJSON struct {
	ID   int64   `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Mask *[6]bool `json:"mask,omitempty"`
}

// MaterialJSON is the wire shape of a Material.
type MaterialJSON struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	E    float64  `json:"E"`
	Nu   float64  `json:"nu"`
	Rho  float64  `json:"rho"`
	Fy   *float64 `json:"fy,omitempty"`
	Fu   *float64 `json:"fu,omitempty"`
}

// SectionJSON is the wire shape of a Section.
type SectionJSON struct {
	ID   int64    `json:"id"`
	Area float64  `json:"area"`
	Ix   float64  `json:"Ix"`
	Iy   float64  `json:"Iy"`
	Iz   float64  `json:"Iz"`
	J    float64  `json:"J"`
	Sy   *float64 `json:"Sy,omitempty"`
	Sz   *float64 `json:"Sz,omitempty"`
}

// ElementJSON is the wire shape of an Element.
type ElementJSON struct {
	ID         int64   `json:"id"`
	Type       string  `json:"type"`
	NodeIDs    []int64 `json:"node_ids"`
	MaterialID int64   `json:"material_id"`
	SectionID  *int64  `json:"section_id,omitempty"`
}

// LoadJSON is the wire shape of a Load. Kind defaults to "force" and
// Frame defaults to "global" when omitted.
type LoadJSON struct {
	ID        int64      `json:"id"`
	NodeID    *int64     `json:"node_id,omitempty"`
	ElementID *int64     `json:"element_id,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Frame     string     `json:"frame,omitempty"`
	Values    [6]float64 `json:"values"`
}

// ConstraintJSON is the wire shape of a Constraint.
type ConstraintJSON struct {
	ID     int64      `json:"id"`
	NodeID int64      `json:"node_id"`
	Fixed  [6]bool    `json:"fixed"`
	Values [6]float64 `json:"values,omitempty"`
}

// ToStore builds a fresh Store from the decoded wire model, applying the
// documented defaults (all-true DOF mask, "force" load kind, "global"
// load frame) for anything the JSON left unset.
func (jm *Model) ToStore() *Store {
	s := NewStore()
	for _, n := range jm.Nodes {
		node := Node{ID: n.ID, X: n.X, Y: n.Y, Z: n.Z}
		if n.Mask != nil {
			node.Active = *n.Mask
		} else {
			for i := range node.Active {
				node.Active[i] = true
			}
		}
		s.AddNode(node)
	}
	for _, m := range jm.Materials {
		mat := Material{ID: m.ID, Name: m.Name, E: m.E, Nu: m.Nu, Rho: m.Rho}
		if m.Fy != nil {
			mat.Fy, mat.HasFy = *m.Fy, true
		}
		if m.Fu != nil {
			mat.Fu, mat.HasFu = *m.Fu, true
		}
		s.AddMaterial(mat)
	}
	for _, sj := range jm.Sections {
		sec := Section{ID: sj.ID, Area: sj.Area, Ix: sj.Ix, Iy: sj.Iy, Iz: sj.Iz, J: sj.J}
		if sj.Sy != nil {
			sec.Sy = *sj.Sy
		}
		if sj.Sz != nil {
			sec.Sz = *sj.Sz
		}
		s.AddSection(sec)
	}
	for _, ej := range jm.Elements {
		e := Element{ID: ej.ID, Kind: ElementKind(ej.Type), NodeIDs: ej.NodeIDs, MaterialID: ej.MaterialID}
		if ej.SectionID != nil {
			e.SectionID, e.HasSection = *ej.SectionID, true
		}
		s.AddElement(e)
	}
	for _, lj := range jm.Loads {
		l := Load{ID: lj.ID, Values: lj.Values}
		if lj.NodeID != nil {
			l.NodeID, l.HasNode = *lj.NodeID, true
		}
		if lj.ElementID != nil {
			l.ElementID, l.HasElement = *lj.ElementID, true
		}
		l.Kind = LoadKind(lj.Kind)
		if l.Kind == "" {
			l.Kind = LoadForce
		}
		l.Frame = LoadFrame(lj.Frame)
		if l.Frame == "" {
			l.Frame = FrameGlobal
		}
		s.AddLoad(l)
	}
	for _, cj := range jm.Constraints {
		s.AddConstraint(Constraint{ID: cj.ID, NodeID: cj.NodeID, Fixed: cj.Fixed, Values: cj.Values})
	}
	return s
}

// FromStore serializes a Store back into the wire Model schema.
func FromStore(s *Store) *Model {
	jm := &Model{}
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		mask := n.Active
		jm.Nodes = append(jm.Nodes, NodeJSON{ID: n.ID, X: n.X, Y: n.Y, Z: n.Z, Mask: &mask})
	}
	for _, m := range s.materials {
		mj := MaterialJSON{ID: m.ID, Name: m.Name, E: m.E, Nu: m.Nu, Rho: m.Rho}
		if m.HasFy {
			fy := m.Fy
			mj.Fy = &fy
		}
		if m.HasFu {
			fu := m.Fu
			mj.Fu = &fu
		}
		jm.Materials = append(jm.Materials, mj)
	}
	for _, sec := range s.sections {
		sj := SectionJSON{ID: sec.ID, Area: sec.Area, Ix: sec.Ix, Iy: sec.Iy, Iz: sec.Iz, J: sec.J}
		if sec.Sy != 0 {
			sy := sec.Sy
			sj.Sy = &sy
		}
		if sec.Sz != 0 {
			sz := sec.Sz
			sj.Sz = &sz
		}
		jm.Sections = append(jm.Sections, sj)
	}
	for _, id := range s.elemOrder {
		e := s.elements[id]
		ej := ElementJSON{ID: e.ID, Type: string(e.Kind), NodeIDs: e.NodeIDs, MaterialID: e.MaterialID}
		if e.HasSection {
			sid := e.SectionID
			ej.SectionID = &sid
		}
		jm.Elements = append(jm.Elements, ej)
	}
	for _, l := range s.loads {
		lj := LoadJSON{ID: l.ID, Kind: string(l.Kind), Frame: string(l.Frame), Values: l.Values}
		if l.HasNode {
			nid := l.NodeID
			lj.NodeID = &nid
		}
		if l.HasElement {
			eid := l.ElementID
			lj.ElementID = &eid
		}
		jm.Loads = append(jm.Loads, lj)
	}
	for _, c := range s.constraints {
		jm.Constraints = append(jm.Constraints, ConstraintJSON{ID: c.ID, NodeID: c.NodeID, Fixed: c.Fixed, Values: c.Values})
	}
	return jm
}

// ParseModel decodes a JSON document into a Store.
func ParseModel(data []byte) (*Store, error) {
	var jm Model
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, Errorf(KindModelInvalid, "invalid model JSON: %v", err)
	}
	return jm.ToStore(), nil
}

// Marshal serializes a Store to its JSON wire schema.
func Marshal(s *Store) ([]byte, error) {
	return json.Marshal(FromStore(s))
}
