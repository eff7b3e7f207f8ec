// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phx implements the evaluator dependency graph: field tags and layouts,
// the evaluator contract, the graph builder and the field manager that runs
// evaluators over worksets for each evaluation kind
package phx

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Dim names one dimension of a field layout
type Dim int

// dimensions
const (
	Cell      Dim = iota // batch of cells in a workset
	Node                 // nodes of a cell
	QuadPoint            // integration points of a cell
	SpaceDim             // space dimension
	Tensor0              // tensor component (first index)
	Tensor1              // tensor component (second index)
)

var dimNames = []string{"Cell", "Node", "QuadPoint", "Dim", "Tensor0", "Tensor1"}

// String returns the name of the dimension
func (o Dim) String() string {
	if o < 0 || int(o) >= len(dimNames) {
		return io.Sf("Dim(%d)", int(o))
	}
	return dimNames[o]
}

// Layout holds an ordered list of named dimensions with sizes.
// A layout with no dimensions is a scalar holding one value.
// The Cell dimension, if present, must be the first one.
type Layout struct {
	dims  []Dim
	sizes []int
	dummy bool
	key   string
}

// NewLayout returns a new layout. It panics if dims and sizes do not match
func NewLayout(dims []Dim, sizes []int) *Layout {
	if len(dims) != len(sizes) {
		chk.Panic("layout: number of dimensions (%d) must be equal to the number of sizes (%d)", len(dims), len(sizes))
	}
	for i, d := range dims {
		if d == Cell && i > 0 {
			chk.Panic("layout: the Cell dimension must be the first one")
		}
		if sizes[i] < 1 {
			chk.Panic("layout: size of dimension %v must be positive. %d is invalid", d, sizes[i])
		}
	}
	o := &Layout{dims: append([]Dim{}, dims...), sizes: append([]int{}, sizes...)}
	names := make([]string, len(dims))
	vals := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.String()
		vals[i] = io.Sf("%d", sizes[i])
	}
	o.key = "<" + strings.Join(names, ",") + ">(" + strings.Join(vals, ",") + ")"
	return o
}

// DummyLayout returns a layout without storage; it is used by tags that
// only express an ordering, such as "state was saved"
func DummyLayout() *Layout {
	return &Layout{dummy: true, key: "<Dummy>"}
}

// Rank returns the number of dimensions
func (o *Layout) Rank() int { return len(o.dims) }

// Dim returns the i-th dimension
func (o *Layout) Dim(i int) Dim { return o.dims[i] }

// Size returns the size of the i-th dimension
func (o *Layout) Size(i int) int { return o.sizes[i] }

// Dims returns a copy of the dimensions
func (o *Layout) Dims() []Dim { return append([]Dim{}, o.dims...) }

// Sizes returns a copy of the sizes
func (o *Layout) Sizes() []int { return append([]int{}, o.sizes...) }

// IsDummy tells whether this layout has no storage
func (o *Layout) IsDummy() bool { return o.dummy }

// HasCell tells whether the first dimension is the batch of cells
func (o *Layout) HasCell() bool { return len(o.dims) > 0 && o.dims[0] == Cell }

// Len returns the total number of values
func (o *Layout) Len() int {
	if o.dummy {
		return 0
	}
	n := 1
	for _, s := range o.sizes {
		n *= s
	}
	return n
}

// PerCell returns the number of values of each cell; it equals Len if the
// layout has no Cell dimension
func (o *Layout) PerCell() int {
	if o.dummy {
		return 0
	}
	if !o.HasCell() {
		return o.Len()
	}
	return o.Len() / o.sizes[0]
}

// Equal tells whether both layouts have the same dimensions and sizes
func (o *Layout) Equal(b *Layout) bool {
	if o == nil || b == nil {
		return o == b
	}
	return o.key == b.key
}

// String returns a representation such as <Cell,QuadPoint>(10,4)
func (o *Layout) String() string {
	if o == nil {
		return "<nil>"
	}
	return o.key
}

// Layouts holds the standard layouts of a problem
type Layouts struct {
	WorksetSize int // max number of cells in a workset
	Nnode       int // number of nodes per cell
	Nqp         int // number of integration points per cell
	Ndim        int // space dimension

	NodeScalar   *Layout // <Cell,Node>
	NodeVector   *Layout // <Cell,Node,Dim>
	QpScalar     *Layout // <Cell,QuadPoint>
	QpVector     *Layout // <Cell,QuadPoint,Dim>
	QpTensor     *Layout // <Cell,QuadPoint,Dim,Dim>
	NodeQpScalar *Layout // <Cell,Node,QuadPoint>
	NodeQpVector *Layout // <Cell,Node,QuadPoint,Dim>
	CellScalar   *Layout // <Cell>
	Scalar       *Layout // no dimensions
	Dummy        *Layout // no storage
}

// NewLayouts returns the standard layouts
func NewLayouts(worksetSize, nnode, nqp, ndim int) (o *Layouts) {
	o = &Layouts{WorksetSize: worksetSize, Nnode: nnode, Nqp: nqp, Ndim: ndim}
	w := worksetSize
	o.NodeScalar = NewLayout([]Dim{Cell, Node}, []int{w, nnode})
	o.NodeVector = NewLayout([]Dim{Cell, Node, SpaceDim}, []int{w, nnode, ndim})
	o.QpScalar = NewLayout([]Dim{Cell, QuadPoint}, []int{w, nqp})
	o.QpVector = NewLayout([]Dim{Cell, QuadPoint, SpaceDim}, []int{w, nqp, ndim})
	o.QpTensor = NewLayout([]Dim{Cell, QuadPoint, SpaceDim, SpaceDim}, []int{w, nqp, ndim, ndim})
	o.NodeQpScalar = NewLayout([]Dim{Cell, Node, QuadPoint}, []int{w, nnode, nqp})
	o.NodeQpVector = NewLayout([]Dim{Cell, Node, QuadPoint, SpaceDim}, []int{w, nnode, nqp, ndim})
	o.CellScalar = NewLayout([]Dim{Cell}, []int{w})
	o.Scalar = NewLayout(nil, nil)
	o.Dummy = DummyLayout()
	return
}

// CellComponents returns the <Cell,Tensor0> layout with n components per cell
func (o *Layouts) CellComponents(n int) *Layout {
	return NewLayout([]Dim{Cell, Tensor0}, []int{o.WorksetSize, n})
}

// Components returns the <Tensor0> layout with n components
func (o *Layouts) Components(n int) *Layout {
	return NewLayout([]Dim{Tensor0}, []int{n})
}

// ByName returns a standard layout given its name in input files
func (o *Layouts) ByName(name string) (*Layout, error) {
	switch name {
	case "node_scalar":
		return o.NodeScalar, nil
	case "node_vector":
		return o.NodeVector, nil
	case "qp_scalar":
		return o.QpScalar, nil
	case "qp_vector":
		return o.QpVector, nil
	case "qp_tensor":
		return o.QpTensor, nil
	case "node_qp_scalar":
		return o.NodeQpScalar, nil
	case "node_qp_vector":
		return o.NodeQpVector, nil
	case "cell_scalar":
		return o.CellScalar, nil
	case "scalar":
		return o.Scalar, nil
	case "dummy":
		return o.Dummy, nil
	}
	return nil, chk.Err("layout %q is not available", name)
}
