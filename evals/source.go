// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/fun/dbf"
)

// Source computes s(t, x) at integration points from a time-space function;
// x is interpolated from the coordinates of nodes
type Source[T ad.Number[T]] struct {
	phx.Base
	BF, Out phx.Tag
	Fcn     dbf.T

	nnode, nqp, ndim int
	bf               phx.In[T]
	s                phx.Out[T]
}

// NewSource returns a new evaluator
func NewSource[T ad.Number[T]](dl *phx.Layouts, fcn dbf.T, bf, output string) (o *Source[T]) {
	o = &Source[T]{Fcn: fcn, nnode: dl.Nnode, nqp: dl.Nqp, ndim: dl.Ndim}
	o.SetName("Source " + output)
	o.BF = phx.NewTag(bf, dl.NodeQpScalar)
	o.Out = phx.NewTag(output, dl.QpScalar)
	o.Depends(o.BF)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *Source[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.bf, err = b.In(o.BF); err != nil {
		return
	}
	o.s, err = b.Out(o.Out)
	return
}

// Evaluate computes the source of all cells
func (o *Source[T]) Evaluate(ws *phx.Workset) error {
	return ws.ForEachCell(func(c int) error {
		x := make([]float64, o.ndim)
		for q := 0; q < o.nqp; q++ {
			for d := range x {
				x[d] = 0
				for n := 0; n < o.nnode; n++ {
					x[d] += o.bf.At3(c, n, q).Val() * ws.Coords[c][n][d]
				}
			}
			o.s.Set2(c, q, ad.Const[T](o.Fcn.F(ws.Time, x)))
		}
		return nil
	})
}
