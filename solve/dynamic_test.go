// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/framefem/model"
	"github.com/cpmech/gosl/chk"
)

func Test_dynamic_newmark_free_vibration_conserves_amplitude(tst *testing.T) {

	chk.PrintTitle("dynamic_newmark_free_vibration. undamped SHM amplitude stays near u0")

	s, freqHz := singleDOFBarStore()
	dm := s.BuildDOFMap()
	dof := dm.Eq[2][0]

	omega := 2 * math.Pi * freqHz
	period := 2 * math.Pi / omega

	u0 := make([]float64, dm.N)
	u0[dof] = 1e-4

	opts := DefaultDynamicOptions()
	opts.Dt = period / 200
	opts.Steps = 400 // two full periods
	opts.U0 = u0

	out, err := Dynamic(context.Background(), s, opts)
	if err != nil {
		tst.Fatalf("dynamic solve failed: %v", err)
	}

	amp := out.Result.MaxU[dof]
	rel := math.Abs(amp-1e-4) / 1e-4
	if rel > 0.05 {
		tst.Fatalf("amplitude drifted: got %.6g, want ~1e-4 (rel err %.4f)", amp, rel)
	}
}

func Test_dynamic_central_difference_matches_newmark(tst *testing.T) {

	chk.PrintTitle("dynamic_central_difference_matches_newmark. same free-vibration amplitude")

	s, freqHz := singleDOFBarStore()
	dm := s.BuildDOFMap()
	dof := dm.Eq[2][0]

	omega := 2 * math.Pi * freqHz
	period := 2 * math.Pi / omega

	u0 := make([]float64, dm.N)
	u0[dof] = 1e-4

	opts := DefaultDynamicOptions()
	opts.Method = CentralDifference
	opts.Dt = period / 400 // explicit scheme needs a finer grid for stability
	opts.Steps = 800
	opts.U0 = u0

	out, err := Dynamic(context.Background(), s, opts)
	if err != nil {
		tst.Fatalf("dynamic solve failed: %v", err)
	}

	amp := out.Result.MaxU[dof]
	rel := math.Abs(amp-1e-4) / 1e-4
	if rel > 0.1 {
		tst.Fatalf("amplitude drifted: got %.6g, want ~1e-4 (rel err %.4f)", amp, rel)
	}
}

func Test_dynamic_requires_positive_dt_and_steps(tst *testing.T) {

	chk.PrintTitle("dynamic_requires_positive_dt_and_steps. zero Dt/Steps is model_invalid")

	s, _ := singleDOFBarStore()
	_, err := Dynamic(context.Background(), s, DynamicOptions{Dt: 0, Steps: 10})
	if err == nil || model.KindOf(err) != model.KindModelInvalid {
		tst.Fatalf("expected model_invalid, got %v", err)
	}
}

func Test_dynamic_time_grid_length(tst *testing.T) {

	chk.PrintTitle("dynamic_time_grid_length. n steps yields n+1 samples")

	s, _ := singleDOFBarStore()
	opts := DefaultDynamicOptions()
	opts.Dt = 1e-5
	opts.Steps = 10
	out, err := Dynamic(context.Background(), s, opts)
	if err != nil {
		tst.Fatalf("dynamic solve failed: %v", err)
	}
	if len(out.Result.Time) != 11 {
		tst.Fatalf("expected 11 time samples, got %d", len(out.Result.Time))
	}
	chk.Scalar(tst, "t[10]", 1e-12, out.Result.Time[10], 10*opts.Dt)
}
