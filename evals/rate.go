// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/chk"
)

// Rate computes the backward Euler rate at integration points
//  rate(c,q) = (u(c,q) - uold(c,q)) / Δt
type Rate[T ad.Number[T]] struct {
	phx.Base
	Value, Old, Out phx.Tag

	nqp  int
	u    phx.In[T]
	uold phx.In[T]
	rate phx.Out[T]
}

// NewRate returns a new evaluator
func NewRate[T ad.Number[T]](dl *phx.Layouts, value, old, output string) (o *Rate[T]) {
	o = &Rate[T]{nqp: dl.Nqp}
	o.SetName("Rate of " + value)
	o.Value = phx.NewTag(value, dl.QpScalar)
	o.Old = phx.NewTag(old, dl.QpScalar)
	o.Out = phx.NewTag(output, dl.QpScalar)
	o.Depends(o.Value, o.Old)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *Rate[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.u, err = b.In(o.Value); err != nil {
		return
	}
	if o.uold, err = b.In(o.Old); err != nil {
		return
	}
	o.rate, err = b.Out(o.Out)
	return
}

// Evaluate computes the rates of all cells
func (o *Rate[T]) Evaluate(ws *phx.Workset) error {
	if ws.Dt <= 0 {
		return chk.Err("time step must be positive. Δt = %g is invalid", ws.Dt)
	}
	return ws.ForEachCell(func(c int) error {
		for q := 0; q < o.nqp; q++ {
			o.rate.Set2(c, q, o.u.At2(c, q).Sub(o.uold.At2(c, q)).MulF(1.0/ws.Dt))
		}
		return nil
	})
}

// Scale multiplies a field by a constant
type Scale[T ad.Number[T]] struct {
	phx.Base
	Input, Out phx.Tag
	Coef       float64

	in  phx.In[T]
	res phx.Out[T]
}

// NewScale returns a new evaluator; the output has the layout of the input
func NewScale[T ad.Number[T]](input phx.Tag, output string, coef float64) (o *Scale[T]) {
	o = &Scale[T]{Input: input, Out: phx.NewTag(output, input.Layout), Coef: coef}
	o.SetName("Scale " + input.Name)
	o.Depends(o.Input)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *Scale[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.in, err = b.In(o.Input); err != nil {
		return
	}
	o.res, err = b.Out(o.Out)
	return
}

// Evaluate scales all values; fields without a Cell dimension are scaled entirely
func (o *Scale[T]) Evaluate(ws *phx.Workset) error {
	n := o.in.Len()
	if o.Input.Layout.HasCell() {
		n = ws.NumCells * o.Input.Layout.PerCell()
	}
	for i := 0; i < n; i++ {
		o.res.Set(i, o.in.Get(i).MulF(o.Coef))
	}
	return nil
}
