// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_layout01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("layout01")

	dl := NewLayouts(10, 4, 4, 2)
	chk.String(tst, dl.QpVector.String(), "<Cell,QuadPoint,Dim>(10,4,2)")
	chk.Int(tst, "len(qp vector)", dl.QpVector.Len(), 80)
	chk.Int(tst, "per cell", dl.QpVector.PerCell(), 8)
	chk.Int(tst, "len(scalar)", dl.Scalar.Len(), 1)
	chk.Int(tst, "len(dummy)", dl.Dummy.Len(), 0)
	chk.Int(tst, "rank(node qp vector)", dl.NodeQpVector.Rank(), 4)
	if !dl.QpScalar.HasCell() || dl.Scalar.HasCell() {
		tst.Errorf("HasCell failed\n")
		return
	}

	// equality
	a := NewTag("Temperature", dl.NodeScalar)
	b := NewTag("Temperature", dl.QpScalar)
	c := NewTag("Temperature", NewLayout([]Dim{Cell, Node}, []int{10, 4}))
	if a.Equal(b) {
		tst.Errorf("tags with different layouts must differ\n")
		return
	}
	if !a.Equal(c) || a.Key() != c.Key() {
		tst.Errorf("tags with same name and layout must be equal\n")
		return
	}

	// names
	l, err := dl.ByName("qp_scalar")
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if l != dl.QpScalar {
		tst.Errorf("ByName returned the wrong layout\n")
		return
	}
	if _, err = dl.ByName("hexahedron"); err == nil {
		tst.Errorf("ByName should have failed\n")
	}
}

func Test_layout02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("layout02. invalid layouts panic")

	check := func(name string, fcn func()) {
		defer func() {
			if r := recover(); r == nil {
				tst.Errorf("%s should have panicked\n", name)
			}
		}()
		fcn()
	}
	check("sizes", func() { NewLayout([]Dim{Cell}, []int{1, 2}) })
	check("cell", func() { NewLayout([]Dim{Node, Cell}, []int{1, 2}) })
	check("zero", func() { NewLayout([]Dim{Cell, Node}, []int{0, 2}) })
}

func Test_field01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field01. views")

	l := NewLayout([]Dim{Cell, Node, QuadPoint, SpaceDim}, []int{2, 3, 4, 5})
	f := newField[float64](NewTag("x", l))
	out := Out[float64]{In[float64]{f}}
	out.Set4(1, 2, 3, 4, 7)
	out.Set3(1, 0, 1, 3)
	chk.Float64(tst, "last", 1e-15, out.Get(l.Len()-1), 7)
	chk.Float64(tst, "At4", 1e-15, out.At4(1, 2, 3, 4), 7)
	chk.Float64(tst, "At3", 1e-15, out.At3(1, 0, 1), 3)
	chk.Float64(tst, "flat At3", 1e-15, out.Get(60+1), 3)
	out.Zero()
	chk.Float64(tst, "zeroed", 1e-15, out.At4(1, 2, 3, 4), 0)
}
