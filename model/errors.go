// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy every public framefem operation
// reports through (never via panic).
type Kind string

// error taxonomy
const (
	KindModelInvalid         Kind = "model_invalid"
	KindElementUnimplemented Kind = "element_unimplemented"
	KindAssemblyFailed       Kind = "assembly_failed"
	KindLinearSolveFailed    Kind = "linear_solve_failed"
	KindEigenSolveFailed     Kind = "eigen_solve_failed"
	KindNonlinearDiverged    Kind = "nonlinear_diverged"
	KindNumericalInstability Kind = "numerical_instability"
	KindCancelled            Kind = "cancelled"
)

// Error is the typed, discriminable error every framefem package
// returns instead of panicking. Kind is recoverable with errors.As so
// callers can branch on the taxonomy tag.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Errorf builds an *Error from a format string plus args, the way a
// plain error is built, except the kind tag travels with it instead of
// being lost in the message text.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy tag from err, or "" if err is not (or does
// not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
