// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gofield/phx"

// Block is the name of the element block holding all cells of a generated mesh
const Block = "domain"

// NewWorksets splits the cells of a mesh into worksets with at most size cells.
// Worksets are numbered in the order of cells and the ones with index%nproc == proc
// belong to this processor. There is one unknown per vertex
func NewWorksets(msh *Mesh, size, threads, proc, nproc int) (wss []*phx.Workset) {
	ncells := len(msh.Cells)
	idx := 0
	for begin := 0; begin < ncells; begin += size {
		end := min(begin+size, ncells)
		if idx%nproc != proc {
			idx++
			continue
		}
		ws := &phx.Workset{
			Index:    idx,
			Block:    Block,
			Begin:    begin,
			NumCells: end - begin,
			Threads:  threads,
		}
		for _, cell := range msh.Cells[begin:end] {
			coords := make([][]float64, len(cell.Verts))
			for n, v := range cell.Verts {
				coords[n] = msh.Verts[v].C
			}
			ws.Coords = append(ws.Coords, coords)
			ws.Conn = append(ws.Conn, cell.Verts)
			ws.Eqs = append(ws.Eqs, cell.Verts)
		}
		wss = append(wss, ws)
		idx++
	}
	return
}
