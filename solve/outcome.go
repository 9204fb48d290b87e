// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements the five analysis operations: static, modal,
// buckling, nonlinear, and dynamic. Each returns an Outcome[T] envelope
// carrying the result together with any diagnostic messages, without
// resorting to sentinel fields scattered across T; a diverged nonlinear
// run, for instance, returns its partial history with a "diverged"
// diagnostic alongside its error.
package solve

// Outcome wraps a solve's result together with any non-fatal diagnostic
// messages accumulated along the way: errors that abort the analysis
// are returned separately, distinct from conditions worth surfacing
// but not fatal.
type Outcome[T any] struct {
	Result     T
	Diagnostics []string
}

// StaticResult is the result of a linear static analysis.
type StaticResult struct {
	U []float64 // global displacement vector, one entry per DOF
	R []float64 // global reaction vector (nonzero only at constrained DOFs)
}

// ModalResult is the result of a modal (natural frequency) analysis.
type ModalResult struct {
	Frequencies []float64   // natural frequencies, Hz, ascending
	Modes       [][]float64 // Modes[k] is the k-th mode shape, one entry per DOF
}

// BucklingResult is the result of a linearized buckling analysis.
type BucklingResult struct {
	LoadFactors []float64   // critical load factors, ascending by |factor|
	Modes       [][]float64 // buckling mode shapes, one entry per DOF
}

// NonlinearResult is the result of a Newton-Raphson nonlinear static
// analysis.
type NonlinearResult struct {
	LoadFactors   []float64   // the load factor reached at each recorded step
	U             [][]float64 // displacement history, one vector per recorded step
	Converged     bool        // false if the run stopped on divergence (residual growth or MaxIter used up in a step)
	Iterations    []int       // Newton iterations consumed per step
	ResidualNorms []float64   // residual norm at every Newton iteration, across all steps
}

// DynamicResult is the result of a transient (time-history) analysis.
type DynamicResult struct {
	Time []float64   // time stamps
	U    [][]float64 // displacement history, one vector per time stamp
	V    [][]float64 // velocity history
	A    [][]float64 // acceleration history
	MaxU []float64   // max|u| per DOF across the time axis
	MaxV []float64   // max|v| per DOF across the time axis
	MaxA []float64   // max|a| per DOF across the time axis
}
