// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package evals implements evaluators of finite element problems. Every
// evaluator is generic on the scalar type and is instantiated once per
// evaluation kind
package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/chk"
)

// GatherSolution copies the nodal values of the unknowns, and optionally their
// rates, from the global vectors of a workset. The local dofs of a cell are
// ordered node by node; derivatives are seeded according to the kind:
//  Residual -- no derivatives
//  Jacobian -- d(x)/d(dof) = Beta and d(xdot)/d(dof) = Alpha for each local dof
//  Tangent  -- one derivative: Beta·V for x and Alpha·V for xdot
type GatherSolution[T ad.Number[T]] struct {
	phx.Base
	Kind phx.Kind  // evaluation kind of this instance
	Vals []phx.Tag // [neq] <Cell,Node> values
	Dots []phx.Tag // [neq] <Cell,Node> rates; may be empty

	nnode int
	val   []phx.Out[T]
	dot   []phx.Out[T]
}

// NewGatherSolution returns a new evaluator; dotNames may be nil
func NewGatherSolution[T ad.Number[T]](kind phx.Kind, dl *phx.Layouts, names, dotNames []string) (o *GatherSolution[T]) {
	o = &GatherSolution[T]{Kind: kind, nnode: dl.Nnode}
	o.SetName("Gather Solution")
	for _, n := range names {
		o.Vals = append(o.Vals, phx.NewTag(n, dl.NodeScalar))
	}
	for _, n := range dotNames {
		o.Dots = append(o.Dots, phx.NewTag(n, dl.NodeScalar))
	}
	if len(o.Dots) > 0 && len(o.Dots) != len(o.Vals) {
		chk.Panic("gather solution: number of rates (%d) must be equal to the number of values (%d)", len(o.Dots), len(o.Vals))
	}
	o.Evaluates(o.Vals...)
	o.Evaluates(o.Dots...)
	return
}

// Setup binds fields
func (o *GatherSolution[T]) Setup(b *phx.Binder[T]) (err error) {
	o.val = make([]phx.Out[T], len(o.Vals))
	for i, t := range o.Vals {
		if o.val[i], err = b.Out(t); err != nil {
			return
		}
	}
	o.dot = make([]phx.Out[T], len(o.Dots))
	for i, t := range o.Dots {
		if o.dot[i], err = b.Out(t); err != nil {
			return
		}
	}
	return
}

// Evaluate gathers the values of all cells
func (o *GatherSolution[T]) Evaluate(ws *phx.Workset) error {
	neq := len(o.Vals)
	nd := o.nnode * neq
	return ws.ForEachCell(func(c int) error {
		eqs := ws.Eqs[c]
		if len(eqs) != nd {
			return chk.Err("cell %d has %d equations but %d are needed", ws.Begin+c, len(eqs), nd)
		}
		for n := 0; n < o.nnode; n++ {
			for e := 0; e < neq; e++ {
				l := n*neq + e
				I := eqs[l]
				o.val[e].Set2(c, n, o.seed(ws, nd, l, I, ws.X[I], ws.Beta))
				if len(o.dot) > 0 {
					xdot := 0.0
					if ws.Xdot != nil {
						xdot = ws.Xdot[I]
					}
					o.dot[e].Set2(c, n, o.seed(ws, nd, l, I, xdot, ws.Alpha))
				}
			}
		}
		return nil
	})
}

// seed returns the value v of local dof l with global equation I
func (o *GatherSolution[T]) seed(ws *phx.Workset, nd, l, I int, v, coef float64) T {
	var z T
	switch o.Kind {
	case phx.Jacobian:
		d := make([]float64, nd)
		d[l] = coef
		return z.Seed(v, d)
	case phx.Tangent:
		if ws.V == nil {
			return z.Lift(v)
		}
		return z.Seed(v, []float64{coef * ws.V[I]})
	}
	return z.Lift(v)
}
