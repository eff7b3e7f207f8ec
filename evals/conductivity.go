// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/mdl/diffusion"
	"github.com/cpmech/gofield/phx"
)

// ThermalConductivity computes k(u) at integration points
type ThermalConductivity[T ad.Number[T]] struct {
	phx.Base
	Input, Out phx.Tag
	Model      *diffusion.M1

	nqp int
	u   phx.In[T]
	k   phx.Out[T]
}

// NewThermalConductivity returns a new evaluator
func NewThermalConductivity[T ad.Number[T]](dl *phx.Layouts, model *diffusion.M1, input, output string) (o *ThermalConductivity[T]) {
	o = &ThermalConductivity[T]{Model: model, nqp: dl.Nqp}
	o.SetName("Thermal Conductivity")
	o.Input = phx.NewTag(input, dl.QpScalar)
	o.Out = phx.NewTag(output, dl.QpScalar)
	o.Depends(o.Input)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *ThermalConductivity[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.u, err = b.In(o.Input); err != nil {
		return
	}
	o.k, err = b.Out(o.Out)
	return
}

// Evaluate computes k of all cells
func (o *ThermalConductivity[T]) Evaluate(ws *phx.Workset) error {
	return ws.ForEachCell(func(c int) error {
		for q := 0; q < o.nqp; q++ {
			o.k.Set2(c, q, diffusion.Kval(o.Model, o.u.At2(c, q)))
		}
		return nil
	})
}
