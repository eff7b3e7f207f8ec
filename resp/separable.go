// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resp

import (
	"math"

	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Local computes the contributions of the cells of a workset to a response
type Local[T ad.Number[T]] interface {
	Dependents() []phx.Tag                              // fields read by Contribute
	Bind(b *phx.Binder[T]) error                        // binds the dependent fields
	Contribute(ws *phx.Workset, local phx.Out[T]) error // fills local(cell, component)
}

// Separable is a response that is a reduction of cell contributions. Before the
// loop over worksets, the global value is reset; each workset fills the local
// field and adds it to the global value; after the loop, the global value is
// reduced across partitions and published in the output field.
// For Dual scalars only the value part is reduced; the local field keeps the
// derivatives of each cell
type Separable[T ad.Number[T]] struct {
	phx.Base
	Op      Op      // reduction
	Reducer Reducer // partitions

	// fields
	LocalTag  phx.Tag // <Cell,Tensor0> contributions of each cell
	GlobalTag phx.Tag // reduced value; Scalar if there is one component

	// internal
	n       int
	payload Local[T]
	local   phx.Out[T]
	global  phx.Out[T]
	acc     []float64
	col     []float64
}

// NewSeparable returns a new response with n components named output
func NewSeparable[T ad.Number[T]](output string, dl *phx.Layouts, n int, op Op, red Reducer, payload Local[T]) (o *Separable[T]) {
	if red == nil {
		red = Serial{}
	}
	o = &Separable[T]{Op: op, Reducer: red, n: n, payload: payload}
	o.SetName("Response " + output)
	o.LocalTag = phx.NewTag(output+" Local", dl.CellComponents(n))
	if n == 1 {
		o.GlobalTag = phx.NewTag(output, dl.Scalar)
	} else {
		o.GlobalTag = phx.NewTag(output, dl.Components(n))
	}
	o.Depends(payload.Dependents()...)
	o.Evaluates(o.LocalTag, o.GlobalTag)
	o.acc = make([]float64, n)
	o.col = make([]float64, dl.WorksetSize)
	return
}

// Setup binds fields
func (o *Separable[T]) Setup(b *phx.Binder[T]) (err error) {
	if err = o.payload.Bind(b); err != nil {
		return
	}
	if o.local, err = b.Out(o.LocalTag); err != nil {
		return
	}
	o.global, err = b.Out(o.GlobalTag)
	return
}

// PreEvaluate resets the global value
func (o *Separable[T]) PreEvaluate() error {
	for i := range o.acc {
		o.acc[i] = o.Op.identity()
	}
	o.global.Zero()
	return nil
}

// Evaluate computes the contributions of a workset and adds them to the global value
func (o *Separable[T]) Evaluate(ws *phx.Workset) (err error) {
	o.local.Zero()
	if err = o.payload.Contribute(ws, o.local); err != nil {
		return
	}
	nc := ws.NumCells
	if nc == 0 {
		return
	}
	for i := 0; i < o.n; i++ {
		for c := 0; c < nc; c++ {
			o.col[c] = o.local.At2(c, i).Val()
		}
		switch o.Op {
		case Sum:
			o.acc[i] += floats.Sum(o.col[:nc])
		case Max:
			o.acc[i] = math.Max(o.acc[i], floats.Max(o.col[:nc]))
		default:
			return chk.Err("reduction %v is not available", o.Op)
		}
	}
	o.publish()
	return
}

// PostEvaluate reduces the global value across partitions
func (o *Separable[T]) PostEvaluate() (err error) {
	if err = o.Reducer.Reduce(o.Op, o.acc); err != nil {
		return
	}
	o.publish()
	return
}

// Values returns the current global values
func (o *Separable[T]) Values() []float64 {
	return append([]float64{}, o.acc...)
}

func (o *Separable[T]) publish() {
	for i, v := range o.acc {
		o.global.Set(i, ad.Const[T](v))
	}
}
