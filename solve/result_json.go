// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import "math"

// The *JSON types below are the Result JSON schemas, one per analysis
// kind. They are the wire-facing counterpart to model's
// Model/NodeJSON/etc: plain structs with json tags, no behaviour, kept
// next to the solvers that produce them rather than in model (importing
// solve's result types from model would cycle back into solve).

// StaticResultJSON is the static result schema.
type StaticResultJSON struct {
	Success        bool      `json:"success"`
	Displacements  []float64 `json:"displacements,omitempty"`
	MaxDisplacement float64  `json:"max_displacement,omitempty"`
	TotalDOFs      int       `json:"total_dofs,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// StaticJSON converts a static Outcome to its wire schema.
func StaticJSON(out *Outcome[StaticResult]) StaticResultJSON {
	u := out.Result.U
	return StaticResultJSON{
		Success:         true,
		Displacements:   u,
		MaxDisplacement: maxAbsSlice(u),
		TotalDOFs:       len(u),
	}
}

// StaticFailureJSON builds the failure-shaped static result.
func StaticFailureJSON(err error) StaticResultJSON {
	return StaticResultJSON{Success: false, Error: err.Error()}
}

// ModalResultJSON is the modal result schema.
type ModalResultJSON struct {
	Success     bool        `json:"success"`
	Frequencies []float64   `json:"frequencies,omitempty"`
	ModeShapes  [][]float64 `json:"mode_shapes,omitempty"`
	NumModes    int         `json:"num_modes,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// ModalJSON converts a modal Outcome to its wire schema.
func ModalJSON(out *Outcome[ModalResult]) ModalResultJSON {
	return ModalResultJSON{
		Success:     true,
		Frequencies: out.Result.Frequencies,
		ModeShapes:  out.Result.Modes,
		NumModes:    len(out.Result.Frequencies),
	}
}

// ModalFailureJSON builds the failure-shaped modal result.
func ModalFailureJSON(err error) ModalResultJSON {
	return ModalResultJSON{Success: false, Error: err.Error()}
}

// BucklingResultJSON is the buckling result schema; critical_loads[0]
// is the smallest-|lambda|.
type BucklingResultJSON struct {
	Success       bool        `json:"success"`
	CriticalLoads []float64   `json:"critical_loads,omitempty"`
	BucklingModes [][]float64 `json:"buckling_modes,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// BucklingJSON converts a buckling Outcome to its wire schema.
func BucklingJSON(out *Outcome[BucklingResult]) BucklingResultJSON {
	return BucklingResultJSON{
		Success:       true,
		CriticalLoads: out.Result.LoadFactors,
		BucklingModes: out.Result.Modes,
	}
}

// BucklingFailureJSON builds the failure-shaped buckling result.
func BucklingFailureJSON(err error) BucklingResultJSON {
	return BucklingResultJSON{Success: false, Error: err.Error()}
}

// NonlinearResultJSON is the nonlinear result schema: the static
// fields plus load_factor/convergence_history/load_displacement_curve.
type NonlinearResultJSON struct {
	Success               bool        `json:"success"`
	Displacements         []float64   `json:"displacements,omitempty"`
	MaxDisplacement       float64     `json:"max_displacement,omitempty"`
	TotalDOFs             int         `json:"total_dofs,omitempty"`
	LoadFactor            float64     `json:"load_factor,omitempty"`
	ConvergenceHistory    []float64   `json:"convergence_history,omitempty"`
	LoadDisplacementCurve [][]float64 `json:"load_displacement_curve,omitempty"`
	Error                 string      `json:"error,omitempty"`
}

// NonlinearJSON converts a nonlinear Outcome to its wire schema.
// convergence_history is the residual norm at every Newton iteration
// across all steps; the load-displacement curve pairs each recorded
// step's load factor with its max absolute displacement.
func NonlinearJSON(out *Outcome[NonlinearResult]) NonlinearResultJSON {
	r := out.Result
	var u []float64
	var lambda float64
	if len(r.U) > 0 {
		u = r.U[len(r.U)-1]
		lambda = r.LoadFactors[len(r.LoadFactors)-1]
	}
	curve := make([][]float64, len(r.LoadFactors))
	for i := range r.LoadFactors {
		curve[i] = []float64{r.LoadFactors[i], maxAbsSlice(r.U[i])}
	}
	return NonlinearResultJSON{
		Success:               r.Converged,
		Displacements:         u,
		MaxDisplacement:       maxAbsSlice(u),
		TotalDOFs:             len(u),
		LoadFactor:            lambda,
		ConvergenceHistory:    r.ResidualNorms,
		LoadDisplacementCurve: curve,
	}
}

// NonlinearFailureJSON builds the failure-shaped nonlinear result,
// keeping whatever partial history the solve produced before diverging.
func NonlinearFailureJSON(out *Outcome[NonlinearResult], err error) NonlinearResultJSON {
	var j NonlinearResultJSON
	if out != nil {
		j = NonlinearJSON(out)
	}
	j.Success = false
	j.Error = err.Error()
	return j
}

// DynamicResultJSON is the dynamic result schema: time vector plus
// u/v/a histories and max magnitudes.
type DynamicResultJSON struct {
	Success bool        `json:"success"`
	Time    []float64   `json:"time,omitempty"`
	U       [][]float64 `json:"u,omitempty"`
	V       [][]float64 `json:"v,omitempty"`
	A       [][]float64 `json:"a,omitempty"`
	MaxU    []float64   `json:"max_u,omitempty"`
	MaxV    []float64   `json:"max_v,omitempty"`
	MaxA    []float64   `json:"max_a,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DynamicJSON converts a dynamic Outcome to its wire schema.
func DynamicJSON(out *Outcome[DynamicResult]) DynamicResultJSON {
	r := out.Result
	return DynamicResultJSON{
		Success: true,
		Time:    r.Time,
		U:       r.U,
		V:       r.V,
		A:       r.A,
		MaxU:    r.MaxU,
		MaxV:    r.MaxV,
		MaxA:    r.MaxA,
	}
}

// DynamicFailureJSON builds the failure-shaped dynamic result.
func DynamicFailureJSON(err error) DynamicResultJSON {
	return DynamicResultJSON{Success: false, Error: err.Error()}
}

func maxAbsSlice(v []float64) float64 {
	var m float64
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
