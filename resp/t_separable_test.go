// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resp

import (
	"testing"

	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// twins simulates two partitions with identical contributions
type twins struct{}

func (o twins) Reduce(op Op, vals []float64) error {
	if op == Sum {
		for i := range vals {
			vals[i] *= 2
		}
	}
	return nil
}

// worksets returns worksets with integer weights and integrand
func worksets(nws, size, nqp int) (res []*phx.Workset) {
	k := 0
	for i := 0; i < nws; i++ {
		nc := size
		if i == nws-1 {
			nc = size - 1
		}
		w := make([]float64, nc*nqp)
		f := make([]float64, nc*nqp)
		for j := range w {
			w[j] = float64(1 + k%3)
			f[j] = float64(k%7 - 2)
			k++
		}
		res = append(res, &phx.Workset{Index: i, NumCells: nc, Threads: 2, Inputs: map[string][]float64{"w": w, "f": f}})
	}
	return
}

func build[T ad.Number[T]](fm *phx.FieldManager, kind phx.Kind, dl *phx.Layouts, red Reducer) error {
	if err := phx.Add[T](fm, kind, NewSeparable[T]("energy", dl, 1, Sum, red, NewIntegral[T](dl, "w", "f", 0.5))); err != nil {
		return err
	}
	if err := phx.Add[T](fm, kind, NewSeparable[T]("volume", dl, 1, Sum, red, NewIntegral[T](dl, "w", "", 1))); err != nil {
		return err
	}
	return phx.Add[T](fm, kind, NewSeparable[T]("peak", dl, 1, Max, red, NewFieldMax[T](dl, "f")))
}

func run(fm *phx.FieldManager, kind phx.Kind, wss []*phx.Workset, order []int) error {
	if err := fm.PreEvaluate(kind); err != nil {
		return err
	}
	for _, i := range order {
		if err := fm.Evaluate(kind, wss[i]); err != nil {
			return err
		}
	}
	return fm.PostEvaluate(kind)
}

func Test_separable01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("separable01. reduction does not depend on the order of worksets")

	size, nqp := 4, 3
	dl := phx.NewLayouts(size, 2, nqp, 1)
	fm := phx.NewFieldManager("responses", size, phx.Residual, phx.Jacobian)
	fm.MarkExternal(phx.NewTag("w", dl.QpScalar), phx.NewTag("f", dl.QpScalar))
	if err := build[ad.Real](fm, phx.Residual, dl, Serial{}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := build[ad.Dual](fm, phx.Jacobian, dl, Serial{}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}

	// serial sums
	wss := worksets(5, size, nqp)
	var energy, volume float64
	peak := -1e30
	for _, ws := range wss {
		w, f := ws.Inputs["w"], ws.Inputs["f"]
		for j := range w {
			energy += 0.5 * w[j] * f[j]
			volume += w[j]
			if f[j] > peak {
				peak = f[j]
			}
		}
	}
	io.Pforan("energy = %v  volume = %v  peak = %v\n", energy, volume, peak)

	for _, order := range [][]int{{0, 1, 2, 3, 4}, {4, 2, 0, 3, 1}, {3, 4, 1, 0, 2}} {
		for _, kind := range []phx.Kind{phx.Residual, phx.Jacobian} {
			if err := run(fm, kind, wss, order); err != nil {
				tst.Errorf("%v\n", err)
				return
			}
			vals := make([]float64, 3)
			for i, name := range []string{"energy", "volume", "peak"} {
				tag := phx.NewTag(name, dl.Scalar)
				if kind == phx.Residual {
					v, err := phx.Get[ad.Real](fm, kind, tag)
					if err != nil {
						tst.Errorf("%v\n", err)
						return
					}
					vals[i] = v.Get(0).Val()
				} else {
					v, err := phx.Get[ad.Dual](fm, kind, tag)
					if err != nil {
						tst.Errorf("%v\n", err)
						return
					}
					vals[i] = v.Get(0).Val()
				}
			}
			chk.Array(tst, io.Sf("%v %v", kind, order), 1e-15, vals, []float64{energy, volume, peak})
		}
	}
}

func Test_separable02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("separable02. reduction across partitions")

	size, nqp := 2, 2
	dl := phx.NewLayouts(size, 2, nqp, 1)
	fm := phx.NewFieldManager("partitions", size, phx.Residual)
	fm.MarkExternal(phx.NewTag("w", dl.QpScalar), phx.NewTag("f", dl.QpScalar))
	volume := NewSeparable[ad.Real]("volume", dl, 1, Sum, twins{}, NewIntegral[ad.Real](dl, "w", "", 1))
	phx.Add[ad.Real](fm, phx.Residual, volume)
	if err := fm.Finalize(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	ws := &phx.Workset{NumCells: 2, Inputs: map[string][]float64{"w": {1, 1, 1, 1}, "f": {0, 0, 0, 0}}}
	if err := run(fm, phx.Residual, []*phx.Workset{ws, ws}, []int{0, 1}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Array(tst, "volume", 1e-15, volume.Values(), []float64{16})

	// local contributions of the last workset
	loc, err := phx.Get[ad.Real](fm, phx.Residual, volume.LocalTag)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Array(tst, "local", 1e-15, []float64{loc.At2(0, 0).Val(), loc.At2(1, 0).Val()}, []float64{2, 2})

	// second loop starts from zero
	if err := run(fm, phx.Residual, []*phx.Workset{ws}, []int{0}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Array(tst, "volume", 1e-15, volume.Values(), []float64{8})
}
