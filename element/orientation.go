// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package element implements the per-element-kind stiffness and mass
// kernel: given an element and the model store, it returns a dense
// local-to-global element matrix and the global DOF index list each
// row/column maps to.
//
// Stiffness matrices are built from closed-form 2-node formulas (no
// shape-function numerical integration). beamOrientation handles the
// full 3D case, including the otherwise-ambiguous near-vertical member,
// rather than falling back to an identity transformation placeholder.
package element

import "math"

// axisThreshold is the cosine beyond which the element axis is
// considered "nearly parallel to global Y", triggering the deterministic
// reference-axis switch below.
const axisThreshold = 0.999

// Orientation is the 3x3 direction-cosine matrix whose rows are the
// element's local x, y, z axes expressed in global coordinates.
type Orientation struct {
	Row [3][3]float64
}

// Local2Global maps a vector's local components v into global components.
func (o Orientation) Local2Global(v [3]float64) [3]float64 {
	var g [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g[i] += o.Row[j][i] * v[j]
		}
	}
	return g
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// beamOrientation builds the local axis system for a 2-node line element
// whose local x is the element axis (p2-p1, normalized). Local y defaults
// to aligning with global Y; when the element axis is nearly parallel to
// global Y (|axis.Y| > 0.999) the reference switches to global Z instead,
// resolving the otherwise-ambiguous near-vertical-member case
// deterministically.
func beamOrientation(p1, p2 [3]float64) Orientation {
	axis := normalize([3]float64{p2[0] - p1[0], p2[1] - p1[1], p2[2] - p1[2]})

	ref := [3]float64{0, 1, 0}
	if math.Abs(axis[1]) > axisThreshold {
		ref = [3]float64{0, 0, 1}
	}

	localZ := normalize(cross(axis, ref))
	localY := normalize(cross(localZ, axis))

	return Orientation{Row: [3][3]float64{axis, localY, localZ}}
}

// trussOrientation returns only the local-x (axial) direction cosines;
// a truss element carries no bending frame.
func trussOrientation(p1, p2 [3]float64) (axis [3]float64, length float64) {
	d := [3]float64{p2[0] - p1[0], p2[1] - p1[1], p2[2] - p1[2]}
	length = math.Sqrt(dot(d, d))
	if length == 0 {
		return [3]float64{1, 0, 0}, 0
	}
	return [3]float64{d[0] / length, d[1] / length, d[2] / length}, length
}
