// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
)

// DOFInterpolation interpolates nodal values to integration points
//  u(c,q) = Σ_n u(c,n) BF(c,n,q)
type DOFInterpolation[T ad.Number[T]] struct {
	phx.Base
	Nodal, BF, Out phx.Tag

	nnode, nqp int
	u          phx.In[T]
	bf         phx.In[T]
	res        phx.Out[T]
}

// NewDOFInterpolation returns a new evaluator; output may be equal to nodal
// because the layouts differ
func NewDOFInterpolation[T ad.Number[T]](dl *phx.Layouts, nodal, bf, output string) (o *DOFInterpolation[T]) {
	o = &DOFInterpolation[T]{nnode: dl.Nnode, nqp: dl.Nqp}
	o.SetName("Interpolate " + nodal)
	o.Nodal = phx.NewTag(nodal, dl.NodeScalar)
	o.BF = phx.NewTag(bf, dl.NodeQpScalar)
	o.Out = phx.NewTag(output, dl.QpScalar)
	o.Depends(o.Nodal, o.BF)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *DOFInterpolation[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.u, err = b.In(o.Nodal); err != nil {
		return
	}
	if o.bf, err = b.In(o.BF); err != nil {
		return
	}
	o.res, err = b.Out(o.Out)
	return
}

// Evaluate interpolates all cells
func (o *DOFInterpolation[T]) Evaluate(ws *phx.Workset) error {
	return ws.ForEachCell(func(c int) error {
		for q := 0; q < o.nqp; q++ {
			var sum T
			for n := 0; n < o.nnode; n++ {
				sum = sum.Add(o.u.At2(c, n).Mul(o.bf.At3(c, n, q)))
			}
			o.res.Set2(c, q, sum)
		}
		return nil
	})
}

// DOFGradInterpolation computes gradients of nodal values at integration points
//  grad(c,q,d) = Σ_n u(c,n) GradBF(c,n,q,d)
type DOFGradInterpolation[T ad.Number[T]] struct {
	phx.Base
	Nodal, GradBF, Out phx.Tag

	nnode, nqp, ndim int
	u                phx.In[T]
	gbf              phx.In[T]
	res              phx.Out[T]
}

// NewDOFGradInterpolation returns a new evaluator
func NewDOFGradInterpolation[T ad.Number[T]](dl *phx.Layouts, nodal, gradBF, output string) (o *DOFGradInterpolation[T]) {
	o = &DOFGradInterpolation[T]{nnode: dl.Nnode, nqp: dl.Nqp, ndim: dl.Ndim}
	o.SetName("Gradient of " + nodal)
	o.Nodal = phx.NewTag(nodal, dl.NodeScalar)
	o.GradBF = phx.NewTag(gradBF, dl.NodeQpVector)
	o.Out = phx.NewTag(output, dl.QpVector)
	o.Depends(o.Nodal, o.GradBF)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *DOFGradInterpolation[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.u, err = b.In(o.Nodal); err != nil {
		return
	}
	if o.gbf, err = b.In(o.GradBF); err != nil {
		return
	}
	o.res, err = b.Out(o.Out)
	return
}

// Evaluate computes the gradients of all cells
func (o *DOFGradInterpolation[T]) Evaluate(ws *phx.Workset) error {
	return ws.ForEachCell(func(c int) error {
		for q := 0; q < o.nqp; q++ {
			for d := 0; d < o.ndim; d++ {
				var sum T
				for n := 0; n < o.nnode; n++ {
					sum = sum.Add(o.u.At2(c, n).Mul(o.gbf.At4(c, n, q, d)))
				}
				o.res.Set3(c, q, d, sum)
			}
		}
		return nil
	})
}
