// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"github.com/cpmech/gosl/chk"
	"golang.org/x/sync/errgroup"
)

// Workset holds a batch of cells of one element block and the data needed to
// evaluate them. Worksets are built by the caller and never persisted
type Workset struct {

	// cells
	Index    int    // index of this workset within the partition
	Block    string // element block name
	Begin    int    // index of the first cell within the block
	NumCells int    // number of cells; not greater than the field manager's workset size

	// geometry and numbering
	Coords [][][]float64 // [ncells][nnode][ndim] coordinates of nodes
	Conn   [][]int       // [ncells][nnode] global vertex ids
	Eqs    [][]int       // [ncells][nnode*neq] global equation numbers

	// time and linearisation
	Time  float64 // current time
	Dt    float64 // current time step
	Alpha float64 // coefficient of derivatives w.r.t. xdot
	Beta  float64 // coefficient of derivatives w.r.t. x

	// global vectors
	X    []float64 // current iterate
	Xdot []float64 // time derivative of the iterate
	V    []float64 // direction of the Tangent kind

	// fields supplied by the caller, by tag name; values are in row-major order
	Inputs map[string][]float64

	// parallel cell loops
	Threads int // number of goroutines; ≤ 1 means serial
}

// ForEachCell calls fcn for every cell of the workset. Cells are independent
// and may run concurrently; the first error is returned. Panics are returned
// as errors
func (o *Workset) ForEachCell(fcn func(c int) error) error {
	n := o.NumCells
	if o.Threads < 2 || n < 2 {
		return cellRange(fcn, 0, n)
	}
	nchunks := o.Threads
	if nchunks > n {
		nchunks = n
	}
	size := (n + nchunks - 1) / nchunks
	var g errgroup.Group
	g.SetLimit(o.Threads)
	for start := 0; start < n; start += size {
		a, b := start, start+size
		if b > n {
			b = n
		}
		g.Go(func() error { return cellRange(fcn, a, b) })
	}
	return g.Wait()
}

// cellRange calls fcn for cells a ≤ c < b
func cellRange(fcn func(c int) error, a, b int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("panic in cell loop: %v", r)
		}
	}()
	for c := a; c < b; c++ {
		if err = fcn(c); err != nil {
			return
		}
	}
	return
}
