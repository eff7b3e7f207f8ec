// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/fun/dbf"
)

// EssentialBc holds a prescribed value of one equation
//  y[Eq] = Fcn(t, X)
type EssentialBc struct {
	Eq  int       // equation number
	Fcn dbf.T     // function of time and space
	X   []float64 // coordinates of the vertex
}

// EssentialBcs holds all essential boundary conditions. The rows of the
// constrained equations are replaced by
//  R[eq] = y[eq] - value   and   K[eq][eq] = 1
type EssentialBcs struct {
	Bcs  []*EssentialBc       // sorted by equation number
	eq2b map[int]*EssentialBc // equation => bc
}

// Init initialises this structure
func (o *EssentialBcs) Init() {
	o.Bcs = nil
	o.eq2b = make(map[int]*EssentialBc)
}

// Set sets the condition of an equation; a previous condition is replaced
func (o *EssentialBcs) Set(eq int, fcn dbf.T, x []float64) {
	if bc, ok := o.eq2b[eq]; ok {
		bc.Fcn, bc.X = fcn, x
		return
	}
	bc := &EssentialBc{Eq: eq, Fcn: fcn, X: x}
	o.eq2b[eq] = bc
	o.Bcs = append(o.Bcs, bc)
	sort.Slice(o.Bcs, func(i, j int) bool { return o.Bcs[i].Eq < o.Bcs[j].Eq })
}

// Has tells whether an equation is constrained
func (o *EssentialBcs) Has(eq int) bool {
	_, ok := o.eq2b[eq]
	return ok
}

// Value returns the prescribed value of a constrained equation
func (o *EssentialBc) Value(t float64) float64 {
	return o.Fcn.F(t, o.X)
}

// Apply sets the prescribed values at time t into y
func (o *EssentialBcs) Apply(y []float64, t float64) {
	for _, bc := range o.Bcs {
		y[bc.Eq] = bc.Value(t)
	}
}

// Eqs returns the constrained equations
func (o *EssentialBcs) Eqs() (eqs []int) {
	for _, bc := range o.Bcs {
		eqs = append(eqs, bc.Eq)
	}
	return
}
