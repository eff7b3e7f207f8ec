// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/google/go-cmp/cmp"
)

func vertIds(verts []*Vertex) (ids []int) {
	for _, v := range verts {
		ids = append(ids, v.Id)
	}
	return
}

func Test_mesh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh01. line")

	msh := GenLine(4, 2)
	chk.Int(tst, "nverts", len(msh.Verts), 5)
	chk.Int(tst, "ncells", len(msh.Cells), 4)
	chk.Int(tst, "nnode", msh.Nnode(), 2)
	chk.Float64(tst, "x(2)", 1e-15, msh.Verts[2].C[0], 1)
	chk.Ints(tst, "cell 3", msh.Cells[3].Verts, []int{3, 4})
	chk.Ints(tst, "tag -1", vertIds(msh.VertTag2verts[-1]), []int{0})
	chk.Ints(tst, "tag -2", vertIds(msh.VertTag2verts[-2]), []int{4})
	chk.Float64(tst, "xmax", 1e-15, msh.Xmax, 2)
}

func Test_mesh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh02. quadrilaterals")

	//  8 o---o---o---o 11
	//    | 3 | 4 | 5 |
	//  4 o---o---o---o 7
	//    | 0 | 1 | 2 |
	//  0 o---o---o---o 3
	msh := GenQuad(3, 2, 3, 1)
	chk.Int(tst, "nverts", len(msh.Verts), 12)
	chk.Int(tst, "ncells", len(msh.Cells), 6)
	chk.Ints(tst, "cell 4", msh.Cells[4].Verts, []int{5, 6, 10, 9})
	chk.Array(tst, "x(6)", 1e-15, msh.Verts[6].C, []float64{2, 0.5})
	chk.Ints(tst, "left", vertIds(msh.VertTag2verts[-10]), []int{0, 4, 8})
	chk.Ints(tst, "right", vertIds(msh.VertTag2verts[-11]), []int{3, 7, 11})
	chk.Ints(tst, "bottom", vertIds(msh.VertTag2verts[-20]), []int{0, 1, 2, 3})
	chk.Ints(tst, "top", vertIds(msh.VertTag2verts[-21]), []int{8, 9, 10, 11})
	if diff := cmp.Diff([]int{-10, -20}, msh.Verts[0].Tags); diff != "" {
		tst.Errorf("tags of corner mismatch (-want +got):\n%s", diff)
	}
	chk.Float64(tst, "ymax", 1e-15, msh.Ymax, 1)

	// single cell
	one := GenQuad(1, 1, 2, 2)
	chk.Ints(tst, "cell 0", one.Cells[0].Verts, []int{0, 1, 3, 2})
	if diff := cmp.Diff([]int{-11, -21}, one.Verts[3].Tags); diff != "" {
		tst.Errorf("tags of top-right corner mismatch (-want +got):\n%s", diff)
	}
	chk.Int(tst, "nnode", one.Nnode(), 4)

	// errors
	for _, dat := range []*inp.MeshData{
		{Type: "lin2", Nx: 0, Lx: 1},
		{Type: "qua4", Nx: 2, Lx: 1},
		{Type: "tri3", Nx: 2, Lx: 1},
	} {
		if _, err := NewMesh(dat); err == nil {
			tst.Errorf("mesh %+v should have failed\n", dat)
		}
	}
}

func Test_worksets01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("worksets01. splitting cells")

	msh := GenLine(10, 1)
	wss := NewWorksets(msh, 4, 2, 0, 1)
	chk.Int(tst, "nworksets", len(wss), 3)
	var sizes, begins []int
	for _, ws := range wss {
		sizes = append(sizes, ws.NumCells)
		begins = append(begins, ws.Begin)
		chk.String(tst, ws.Block, Block)
		chk.Int(tst, "threads", ws.Threads, 2)
	}
	chk.Ints(tst, "sizes", sizes, []int{4, 4, 2})
	chk.Ints(tst, "begins", begins, []int{0, 4, 8})
	chk.Ints(tst, "eqs of last cell", wss[2].Eqs[1], []int{9, 10})
	chk.Float64(tst, "x of last node", 1e-15, wss[2].Coords[1][1][0], 1)

	// two processors
	p0 := NewWorksets(msh, 4, 1, 0, 2)
	p1 := NewWorksets(msh, 4, 1, 1, 2)
	chk.Int(tst, "proc 0", len(p0), 2)
	chk.Int(tst, "proc 1", len(p1), 1)
	chk.Ints(tst, "indices", []int{p0[0].Index, p1[0].Index, p0[1].Index}, []int{0, 1, 2})
}
