// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flog provides the informational (non-error) trace points a
// solve uses to report iteration progress: load-step/Newton-iteration
// lines, time-step progress, and a quiet mode. It never carries error
// propagation (model.Error/model.Errorf does that); these are purely
// console traces, kept separate from error reporting.
package flog

import "github.com/cpmech/gosl/io"

// Verbose controls whether Header/Iter/Step/Info emit anything. Off by default so
// library callers get silence unless they opt in.
var Verbose = false

// Header prints a fixed-width column banner, e.g. before a Newton or
// time-stepping loop.
func Header(cols ...string) {
	if !Verbose {
		return
	}
	io.Pf("\n")
	for _, c := range cols {
		io.Pf("%16s", c)
	}
	io.Pf("\n")
}

// Iter logs one Newton iteration's progress line.
func Iter(step, it int, residual, delta float64) {
	if !Verbose {
		return
	}
	io.Pf("%8d%8d%16.6e%16.6e\n", step, it, residual, delta)
}

// Step prints a one-line in-place progress indicator for a time-stepping
// or load-stepping loop, overwriting itself via a carriage return.
func Step(t float64) {
	if !Verbose {
		return
	}
	io.PfWhite("t = %30.15f\r", t)
}

// Info prints a free-form informational line.
func Info(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	io.Pf(format, args...)
}
