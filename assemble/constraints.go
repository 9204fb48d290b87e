// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assemble

import (
	"math"

	"github.com/cpmech/framefem/model"
)

// penaltyFactor multiplies the assembled stiffness's largest diagonal
// entry to obtain the constraint spring stiffness kappa, enforcing each
// essential boundary condition via a large penalty spring (kappa >>
// ||K||_inf) rather than bordering the system with Lagrange multipliers.
const penaltyFactor = 1e8

// ApplyConstraints folds each fixed DOF into K and F by the penalty
// method: K[d][d] += kappa, F[d] += kappa*value. Applied after Stiffness
// and Loads, before factorization.
func ApplyConstraints(st *Stiff, F []float64, s *model.Store, dm *model.DOFMap) {
	kappa := penaltyFactor * maxAbs(st.Diag)
	if kappa == 0 {
		kappa = penaltyFactor
	}
	for _, c := range s.Constraints() {
		eq := dm.Eq[c.NodeID]
		for i := 0; i < model.NDOF; i++ {
			if !c.Fixed[i] {
				continue
			}
			d := eq[i]
			if d < 0 {
				continue
			}
			st.K.Put(d, d, kappa)
			st.Diag[d] += kappa
			F[d] += kappa * c.Values[i]
		}
	}
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
