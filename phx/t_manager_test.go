// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// volume sums the weights of all integration points of a workset
type volume[T ad.Number[T]] struct {
	Base
	weights In[T]
	vol     Out[T]
	nqp     int
}

func newVolume[T ad.Number[T]](dl *Layouts) *volume[T] {
	o := &volume[T]{nqp: dl.Nqp}
	o.SetName("Volume")
	o.Depends(NewTag("weights", dl.QpScalar))
	o.Evaluates(NewTag("volume", dl.Scalar))
	return o
}

func (o *volume[T]) Setup(b *Binder[T]) (err error) {
	if o.weights, err = b.In(o.Dependents()[0]); err != nil {
		return
	}
	o.vol, err = b.Out(o.Evaluated()[0])
	return
}

func (o *volume[T]) Evaluate(ws *Workset) error {
	var sum T
	for c := 0; c < ws.NumCells; c++ {
		for q := 0; q < o.nqp; q++ {
			sum = sum.Add(o.weights.At2(c, q))
		}
	}
	o.vol.Set(0, sum)
	return nil
}

// energy multiplies the volume by a constant
type energy[T ad.Number[T]] struct {
	Base
	coef float64
	vol  In[T]
	res  Out[T]
}

func newEnergy[T ad.Number[T]](dl *Layouts, coef float64) *energy[T] {
	o := &energy[T]{coef: coef}
	o.SetName("Energy")
	o.Depends(NewTag("volume", dl.Scalar))
	o.Evaluates(NewTag("energy", dl.Scalar))
	return o
}

func (o *energy[T]) Setup(b *Binder[T]) (err error) {
	if o.vol, err = b.In(o.Dependents()[0]); err != nil {
		return
	}
	o.res, err = b.Out(o.Evaluated()[0])
	return
}

func (o *energy[T]) Evaluate(ws *Workset) error {
	o.res.Set(0, o.vol.Get(0).MulF(o.coef))
	return nil
}

func ones(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = 1
	}
	return res
}

// register adds the volume and energy evaluators for one kind
func register[T ad.Number[T]](fm *FieldManager, kind Kind, dl *Layouts) error {
	if err := Add[T](fm, kind, newEnergy[T](dl, 2.5)); err != nil {
		return err
	}
	return Add[T](fm, kind, newVolume[T](dl))
}

func Test_manager01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager01. volume and energy")

	ncells, nqp := 3, 4
	dl := NewLayouts(ncells, 2, nqp, 1)
	fm := NewFieldManager("manager01", ncells, Residual, Jacobian)
	fm.Verbose = chk.Verbose
	fm.MarkExternal(NewTag("weights", dl.QpScalar))
	if err := register[ad.Real](fm, Residual, dl); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := register[ad.Dual](fm, Jacobian, dl); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Strings(tst, "order", fm.Order(), []string{"Volume", "Energy"})

	N := ncells * nqp
	ws := &Workset{NumCells: ncells, Inputs: map[string][]float64{"weights": ones(N)}}
	if err := fm.Evaluate(Residual, ws); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	vol, err := Get[ad.Real](fm, Residual, NewTag("volume", dl.Scalar))
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	ene, err := Get[ad.Real](fm, Residual, NewTag("energy", dl.Scalar))
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "volume", 1e-15, vol.Get(0).Val(), float64(N))
	chk.Float64(tst, "energy", 1e-15, ene.Get(0).Val(), 2.5*float64(N))

	// same values for the Jacobian kind
	if err = fm.Evaluate(Jacobian, ws); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	dene, err := Get[ad.Dual](fm, Jacobian, NewTag("energy", dl.Scalar))
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "energy (Jacobian)", 1e-15, dene.Get(0).V, 2.5*float64(N))

	// wrong scalar type
	if _, err = Get[ad.Real](fm, Jacobian, NewTag("energy", dl.Scalar)); err == nil {
		tst.Errorf("Get with wrong scalar should have failed\n")
	}
}

func Test_manager02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager02. workset failures")

	dl := NewLayouts(2, 1, 1, 1)
	fm := NewFieldManager("manager02", 2, Residual)
	var calls []string
	a := newTestEval[ad.Real]("a", &calls, nil, tags(dl.CellScalar, "a"))
	b := newTestEval[ad.Real]("b", &calls, tags(dl.CellScalar, "a"), tags(dl.CellScalar, "b"))
	c := newTestEval[ad.Real]("c", &calls, tags(dl.CellScalar, "b"), tags(dl.CellScalar, "c"))
	b.fcn = func(ws *Workset) error {
		if ws.Index == 7 {
			return chk.Err("negative Jacobian determinant")
		}
		if ws.Index == 8 {
			var x []float64
			x[1] = 0
		}
		return nil
	}
	for _, e := range []*testEval[ad.Real]{a, b, c} {
		Add[ad.Real](fm, Residual, e)
	}
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}

	// error
	err := fm.Evaluate(Residual, &Workset{Index: 7, NumCells: 2})
	var werr *WorksetEvaluationError
	if !errors.As(err, &werr) {
		tst.Errorf("Evaluate should have failed. err = %v\n", err)
		return
	}
	io.Pforan("%v\n", err)
	chk.String(tst, werr.Evaluator, "b")
	chk.Int(tst, "workset", werr.Workset, 7)
	chk.Strings(tst, "calls", calls, []string{"a", "b"})

	// panic
	calls = nil
	err = fm.Evaluate(Residual, &Workset{Index: 8, NumCells: 2})
	if !errors.As(err, &werr) {
		tst.Errorf("Evaluate should have failed. err = %v\n", err)
		return
	}
	chk.Strings(tst, "calls", calls, []string{"a", "b"})

	// too many cells
	if err = fm.Evaluate(Residual, &Workset{NumCells: 3}); err == nil {
		tst.Errorf("Evaluate should have failed with too many cells\n")
		return
	}

	// missing external input
	fm.MarkExternal(NewTag("w", dl.CellScalar))
	if err = fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	err = fm.Evaluate(Residual, &Workset{NumCells: 2})
	if !errors.As(err, &werr) {
		tst.Errorf("Evaluate should have failed. err = %v\n", err)
		return
	}
	chk.String(tst, werr.Evaluator, "external fields")
}

func Test_manager03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager03. frozen declarations and shape mismatch")

	dl := NewLayouts(2, 3, 4, 2)
	fm := NewFieldManager("manager03", 2, Residual)
	a := newTestEval[ad.Real]("a", nil, nil, tags(dl.QpScalar, "u"))
	b := newTestEval[ad.Real]("b", nil, tags(dl.QpScalar, "u"), tags(dl.NodeScalar, "r"))
	Add[ad.Real](fm, Residual, a)
	Add[ad.Real](fm, Residual, b)

	// frozen
	err := b.AddDependent(NewTag("v", dl.QpScalar))
	var frozen *GraphFrozenError
	if !errors.As(err, &frozen) {
		tst.Errorf("AddDependent should have failed. err = %v\n", err)
		return
	}
	if err = a.AddEvaluated(NewTag("w", dl.QpScalar)); !errors.As(err, &frozen) {
		tst.Errorf("AddEvaluated should have failed. err = %v\n", err)
		return
	}

	// binding with another layout
	b.setup = func(bnd *Binder[ad.Real]) error {
		_, e := bnd.In(NewTag("u", dl.NodeScalar))
		return e
	}
	err = fm.Finalize()
	var shape *ShapeMismatchError
	if !errors.As(err, &shape) {
		tst.Errorf("Finalize should have failed with shape mismatch. err = %v\n", err)
		return
	}
	io.Pforan("%v\n", err)
	chk.String(tst, shape.Evaluator, "b")
	chk.String(tst, shape.Tag, "u")
	var serr *SetupError
	if !errors.As(err, &serr) {
		tst.Errorf("Finalize should have returned a setup error. err = %v\n", err)
		return
	}
	chk.String(tst, serr.Manager, "manager03")
	chk.String(tst, serr.Evaluator, "b")

	// layout with another batch size
	fm = NewFieldManager("batch", 2, Residual)
	Add[ad.Real](fm, Residual, newTestEval[ad.Real]("big", nil, nil, tags(NewLayouts(5, 3, 4, 2).QpScalar, "u")))
	if err = fm.Finalize(); !errors.As(err, &shape) {
		tst.Errorf("Finalize should have failed with shape mismatch. err = %v\n", err)
	}
}

func Test_manager04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager04. capabilities of binders")

	dl := NewLayouts(1, 1, 1, 1)
	fm := NewFieldManager("manager04", 1, Residual)
	a := newTestEval[ad.Real]("a", nil, nil, tags(dl.Scalar, "a", "secret"))
	b := newTestEval[ad.Real]("b", nil, tags(dl.Scalar, "a"), tags(dl.Scalar, "b"))
	Add[ad.Real](fm, Residual, a)
	Add[ad.Real](fm, Residual, b)

	// undeclared field
	b.setup = func(bnd *Binder[ad.Real]) error {
		_, e := bnd.In(NewTag("secret", dl.Scalar))
		return e
	}
	if err := fm.Finalize(); err == nil {
		tst.Errorf("reading an undeclared field should have failed\n")
		return
	}

	// writing a dependent field
	b.setup = func(bnd *Binder[ad.Real]) error {
		_, e := bnd.Out(NewTag("a", dl.Scalar))
		return e
	}
	if err := fm.Finalize(); err == nil {
		tst.Errorf("writing a dependent field should have failed\n")
		return
	}

	// optional field
	b.setup = func(bnd *Binder[ad.Real]) error {
		v, e := bnd.Optional(Tag{})
		if e != nil {
			return e
		}
		if v.Bound() {
			return chk.Err("optional view should be unbound")
		}
		_, e = bnd.In(NewTag("a", dl.Scalar))
		return e
	}
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
	}
}

func Test_manager06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager06. same name with other layouts")

	// p evaluates u at integration points; e evaluates u at nodes
	dl := NewLayouts(1, 2, 3, 1)
	fm := NewFieldManager("manager06", 1, Residual)
	p := newTestEval[ad.Real]("p", nil, nil, tags(dl.QpScalar, "u"))
	e := newTestEval[ad.Real]("e", nil, nil, tags(dl.NodeScalar, "u"))
	Add[ad.Real](fm, Residual, p)
	Add[ad.Real](fm, Residual, e)

	// e cannot write the field of p
	var stolen Out[ad.Real]
	e.setup = func(bnd *Binder[ad.Real]) (err error) {
		stolen, err = bnd.Out(NewTag("u", dl.QpScalar))
		return
	}
	err := fm.Finalize()
	var shape *ShapeMismatchError
	if !errors.As(err, &shape) {
		tst.Errorf("Finalize should have failed with shape mismatch. err = %v\n", err)
		return
	}
	io.Pforan("%v\n", err)
	chk.String(tst, shape.Evaluator, "e")
	chk.String(tst, shape.Tag, "u")
	if stolen.Bound() {
		tst.Errorf("view of field of p must not be bound\n")
		return
	}

	// nor read it
	e.setup = func(bnd *Binder[ad.Real]) (err error) {
		_, err = bnd.In(NewTag("u", dl.QpScalar))
		return
	}
	if err = fm.Finalize(); !errors.As(err, &shape) {
		tst.Errorf("Finalize should have failed with shape mismatch. err = %v\n", err)
		return
	}

	// each evaluator writes its own u
	e.setup = func(bnd *Binder[ad.Real]) (err error) {
		var u Out[ad.Real]
		if u, err = bnd.Out(NewTag("u", dl.NodeScalar)); err != nil {
			return
		}
		e.fcn = func(ws *Workset) error {
			u.Set(0, 999)
			return nil
		}
		return
	}
	if err = fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err = fm.Evaluate(Residual, &Workset{NumCells: 1}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	uq, err := Get[ad.Real](fm, Residual, NewTag("u", dl.QpScalar))
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	un, err := Get[ad.Real](fm, Residual, NewTag("u", dl.NodeScalar))
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "u at integration points", 1e-15, uq.Get(0).Val(), 0)
	chk.Float64(tst, "u at nodes", 1e-15, un.Get(0).Val(), 999)
}

func Test_manager05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("manager05. finalize, kinds and clearing")

	dl := NewLayouts(2, 1, 1, 1)
	fm := NewFieldManager("manager05", 2, Residual, Tangent)
	a := newTestEval[ad.Real]("acc", nil, nil, []Tag{NewTag("batch", dl.CellScalar), NewTag("global", dl.Scalar)})
	var batch, global Out[ad.Real]
	a.setup = func(b *Binder[ad.Real]) (err error) {
		if batch, err = b.Out(NewTag("batch", dl.CellScalar)); err != nil {
			return
		}
		global, err = b.Out(NewTag("global", dl.Scalar))
		return
	}
	a.fcn = func(ws *Workset) error {
		for c := 0; c < ws.NumCells; c++ {
			batch.Set1(c, batch.At1(c).AddF(1))
			global.Set(0, global.Get(0).AddF(1))
		}
		return nil
	}
	Add[ad.Real](fm, Residual, a)

	// wrong scalar type for kind
	if err := Add[ad.Real](fm, Tangent, newTestEval[ad.Real]("acc", nil, nil, nil)); err == nil {
		tst.Errorf("Add with wrong scalar type should have failed\n")
		return
	}
	if err := Add[ad.Dual](fm, Jacobian, newTestEval[ad.Dual]("acc", nil, nil, nil)); err == nil {
		tst.Errorf("Add with kind not run by the field manager should have failed\n")
		return
	}

	// mismatched kinds
	t := newTestEval[ad.Dual]("acc", nil, nil, []Tag{NewTag("batch", dl.CellScalar)})
	Add[ad.Dual](fm, Tangent, t)
	err := fm.Finalize()
	var mismatch *KindMismatchError
	if !errors.As(err, &mismatch) {
		tst.Errorf("Finalize should have failed with kind mismatch. err = %v\n", err)
		return
	}
	io.Pforan("%v\n", err)

	// matching kinds
	fm = NewFieldManager("manager05", 2, Residual, Tangent)
	Add[ad.Real](fm, Residual, a)
	Add[ad.Dual](fm, Tangent, newTestEval[ad.Dual]("acc", nil, nil, []Tag{NewTag("batch", dl.CellScalar), NewTag("global", dl.Scalar)}))
	if err = fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err = fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Int(tst, "number of setups", a.setups, 1)

	// batch fields are cleared; global fields are kept
	ws := &Workset{NumCells: 2}
	for i := 0; i < 3; i++ {
		if err = fm.Evaluate(Residual, ws); err != nil {
			tst.Errorf("%v\n", err)
			return
		}
	}
	chk.Array(tst, "batch", 1e-15, []float64{batch.At1(0).Val(), batch.At1(1).Val()}, []float64{1, 1})
	chk.Float64(tst, "global", 1e-15, global.Get(0).Val(), 6)
}

func Test_workset01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("workset01. parallel cell loops")

	for _, threads := range []int{0, 1, 3, 8, 20} {
		ws := &Workset{NumCells: 13, Threads: threads}
		visits := make([]int32, ws.NumCells)
		err := ws.ForEachCell(func(c int) error {
			atomic.AddInt32(&visits[c], 1)
			return nil
		})
		if err != nil {
			tst.Errorf("%v\n", err)
			return
		}
		for c, v := range visits {
			if v != 1 {
				tst.Errorf("threads=%d: cell %d visited %d times\n", threads, c, v)
				return
			}
		}
		err = ws.ForEachCell(func(c int) error {
			if c == 11 {
				return chk.Err("cell %d failed", c)
			}
			return nil
		})
		if err == nil {
			tst.Errorf("threads=%d: ForEachCell should have failed\n", threads)
			return
		}

		// panics in goroutines are returned
		var empty []float64
		err = ws.ForEachCell(func(c int) error {
			if c == 12 {
				empty[c] = 1
			}
			return nil
		})
		if err == nil {
			tst.Errorf("threads=%d: ForEachCell should have returned the panic\n", threads)
			return
		}
	}
}

func Test_workset02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("workset02. panic in a threaded evaluator")

	dl := NewLayouts(4, 1, 1, 1)
	fm := NewFieldManager("workset02", 4, Residual)
	a := newTestEval[ad.Real]("a", nil, nil, tags(dl.CellScalar, "a"))
	a.fcn = func(ws *Workset) error {
		var empty []float64
		return ws.ForEachCell(func(c int) error {
			empty[c+8] = 1
			return nil
		})
	}
	Add[ad.Real](fm, Residual, a)
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	err := fm.Evaluate(Residual, &Workset{Index: 3, NumCells: 4, Threads: 2})
	var werr *WorksetEvaluationError
	if !errors.As(err, &werr) {
		tst.Errorf("Evaluate should have failed. err = %v\n", err)
		return
	}
	io.Pforan("%v\n", err)
	chk.String(tst, werr.Evaluator, "a")
	chk.Int(tst, "workset", werr.Workset, 3)
}
