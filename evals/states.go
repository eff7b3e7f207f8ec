// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gofield/state"
	"github.com/cpmech/gosl/chk"
)

// LoadState copies the last accepted values of a state variable into a field
type LoadState[T ad.Number[T]] struct {
	phx.Base
	Out phx.Tag

	mgr *state.Manager
	v   *state.Variable
	res phx.Out[T]
}

// NewLoadState returns a new evaluator; the field has the layout of the state
func NewLoadState[T ad.Number[T]](mgr *state.Manager, v *state.Variable, output string) (o *LoadState[T]) {
	if v.OutputOnly {
		chk.Panic("load state: state %q is output only", v.Name)
	}
	o = &LoadState[T]{mgr: mgr, v: v}
	o.SetName("Load State " + v.Name)
	o.Out = phx.NewTag(output, v.Layout)
	o.Evaluates(o.Out)
	return
}

// Setup binds fields
func (o *LoadState[T]) Setup(b *phx.Binder[T]) (err error) {
	o.res, err = b.Out(o.Out)
	return
}

// Evaluate loads the values of the cells of the workset
func (o *LoadState[T]) Evaluate(ws *phx.Workset) error {
	vals, err := o.mgr.LoadOld(o.v, ws)
	if err != nil {
		return err
	}
	for i, v := range vals {
		o.res.Set(i, ad.Const[T](v))
	}
	return nil
}

// SaveState copies the values of a field into the new values of a state
// variable. It evaluates a dummy field that must be required by the field manager
type SaveState[T ad.Number[T]] struct {
	phx.Base
	Input, Saved phx.Tag

	mgr *state.Manager
	v   *state.Variable
	in  phx.In[T]
}

// NewSaveState returns a new evaluator; the field must have the layout of the state
func NewSaveState[T ad.Number[T]](mgr *state.Manager, v *state.Variable, input string) (o *SaveState[T]) {
	o = &SaveState[T]{mgr: mgr, v: v}
	o.SetName("Save State " + v.Name)
	o.Input = phx.NewTag(input, v.Layout)
	o.Saved = phx.NewTag("Save "+v.Name, phx.DummyLayout())
	o.Depends(o.Input)
	o.Evaluates(o.Saved)
	return
}

// Setup binds fields
func (o *SaveState[T]) Setup(b *phx.Binder[T]) (err error) {
	o.in, err = b.In(o.Input)
	return
}

// Evaluate saves the values of the cells of the workset
func (o *SaveState[T]) Evaluate(ws *phx.Workset) error {
	vals := make([]float64, ws.NumCells*o.Input.Layout.PerCell())
	for i := range vals {
		vals[i] = o.in.Get(i).Val()
	}
	return o.mgr.SaveNew(o.v, ws, vals)
}
