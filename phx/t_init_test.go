// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

// testEval is an evaluator used in tests; it records calls and runs fcn
type testEval[T ad.Number[T]] struct {
	Base
	setups int
	calls  *[]string
	setup  func(b *Binder[T]) error
	fcn    func(ws *Workset) error
}

func newTestEval[T ad.Number[T]](name string, calls *[]string, deps, outs []Tag) *testEval[T] {
	o := &testEval[T]{calls: calls}
	o.SetName(name)
	o.Depends(deps...)
	o.Evaluates(outs...)
	return o
}

func (o *testEval[T]) Setup(b *Binder[T]) error {
	o.setups++
	if o.setup != nil {
		return o.setup(b)
	}
	return nil
}

func (o *testEval[T]) Evaluate(ws *Workset) error {
	if o.calls != nil {
		*o.calls = append(*o.calls, o.Name())
	}
	if o.fcn != nil {
		return o.fcn(ws)
	}
	return nil
}

// tags returns tags with the same layout
func tags(l *Layout, names ...string) (res []Tag) {
	for _, n := range names {
		res = append(res, NewTag(n, l))
	}
	return
}
