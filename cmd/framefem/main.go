// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command framefem runs one analysis (static, modal, buckling,
// nonlinear or dynamic) against a JSON model file and prints the
// matching Result JSON schema to stdout. It is a thin demonstration
// CLI, not the library's primary interface — the core is a library
// meant to be embedded behind the caller's own transport. The dynamic
// branch runs with DefaultDynamicOptions, which leaves Dt and Steps at
// zero, and the CLI takes no argument to set them, so a dynamic run
// prints the model_invalid failure envelope.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cpmech/framefem/flog"
	"github.com/cpmech/framefem/model"
	"github.com/cpmech/framefem/solve"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	kind := io.ArgToString(1, "static")
	verbose := io.ArgToBool(2, false)
	flog.Verbose = verbose

	if verbose {
		io.PfWhite("\nframefem -- frame/truss finite element analysis\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"model file", "fnamepath", fnamepath,
			"analysis kind", "kind", kind,
			"verbose", "verbose", verbose,
		))
	}

	b, err := io.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read model file %q: %v", fnamepath, err)
	}
	s, err := model.ParseModel(b)
	if err != nil {
		chk.Panic("invalid model: %v", err)
	}

	out, err := run(s, kind)
	if err != nil {
		io.Pf("%s\n", mustJSON(out))
		chk.Panic("analysis %q failed: %v", kind, err)
	}
	io.Pf("%s\n", mustJSON(out))
}

// run dispatches to the requested analysis and returns the already-
// JSON-shaped result (success or failure envelope).
func run(s *model.Store, kind string) (interface{}, error) {
	ctx := context.Background()
	switch kind {
	case "modal":
		out, err := solve.Modal(ctx, s, 5)
		if err != nil {
			return solve.ModalFailureJSON(err), err
		}
		return solve.ModalJSON(out), nil
	case "buckling":
		out, err := solve.Buckling(ctx, s, 5)
		if err != nil {
			return solve.BucklingFailureJSON(err), err
		}
		return solve.BucklingJSON(out), nil
	case "nonlinear":
		out, err := solve.Nonlinear(ctx, s, solve.DefaultNonlinearOptions())
		if err != nil {
			return solve.NonlinearFailureJSON(out, err), err
		}
		return solve.NonlinearJSON(out), nil
	case "dynamic":
		out, err := solve.Dynamic(ctx, s, solve.DefaultDynamicOptions())
		if err != nil {
			return solve.DynamicFailureJSON(err), err
		}
		return solve.DynamicJSON(out), nil
	default:
		out, err := solve.Static(ctx, s)
		if err != nil {
			return solve.StaticFailureJSON(err), err
		}
		return solve.StaticJSON(out), nil
	}
}

func mustJSON(v interface{}) []byte {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		chk.Panic("result marshal failed: %v", err)
	}
	return b
}
