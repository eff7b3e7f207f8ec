// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gofield/shp"
	"github.com/cpmech/gosl/chk"
)

// BasisFields holds the names of the fields computed by ComputeBasis
type BasisFields struct {
	BF      string // <Cell,Node,QuadPoint> shape functions
	WBF     string // <Cell,Node,QuadPoint> shape functions times weights
	GradBF  string // <Cell,Node,QuadPoint,Dim> gradients of shape functions
	WGradBF string // <Cell,Node,QuadPoint,Dim> gradients times weights
	Weights string // <Cell,QuadPoint> integration weights times Jacobian determinants
}

// DefaultBasisFields returns the usual names
func DefaultBasisFields() BasisFields {
	return BasisFields{"BF", "wBF", "Grad BF", "wGrad BF", "Weights"}
}

// ComputeBasis computes shape functions, their gradients and integration
// weights at the integration points of each cell from the coordinates of the workset
type ComputeBasis[T ad.Number[T]] struct {
	phx.Base
	BF, WBF, GradBF, WGradBF, Weights phx.Tag

	shape *shp.Shape
	ips   []*shp.Ipoint
	ndim  int
	bf    phx.Out[T]
	wbf   phx.Out[T]
	gbf   phx.Out[T]
	wgbf  phx.Out[T]
	wts   phx.Out[T]
}

// NewComputeBasis returns a new evaluator for cells of type geoType with nip integration points
func NewComputeBasis[T ad.Number[T]](dl *phx.Layouts, geoType string, nip int, names BasisFields) (o *ComputeBasis[T], err error) {
	o = &ComputeBasis[T]{ndim: dl.Ndim}
	o.SetName("Compute Basis")
	if o.shape, err = shp.Get(geoType); err != nil {
		return nil, err
	}
	if o.ips, err = shp.GaussIps(geoType, nip); err != nil {
		return nil, err
	}
	if o.shape.Nverts != dl.Nnode || o.shape.Gndim != dl.Ndim || nip != dl.Nqp {
		return nil, chk.Err("shape %q with %d points does not match layouts with nnode=%d, ndim=%d, nqp=%d", geoType, nip, dl.Nnode, dl.Ndim, dl.Nqp)
	}
	o.BF = phx.NewTag(names.BF, dl.NodeQpScalar)
	o.WBF = phx.NewTag(names.WBF, dl.NodeQpScalar)
	o.GradBF = phx.NewTag(names.GradBF, dl.NodeQpVector)
	o.WGradBF = phx.NewTag(names.WGradBF, dl.NodeQpVector)
	o.Weights = phx.NewTag(names.Weights, dl.QpScalar)
	o.Evaluates(o.BF, o.WBF, o.GradBF, o.WGradBF, o.Weights)
	return
}

// Setup binds fields
func (o *ComputeBasis[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.bf, err = b.Out(o.BF); err != nil {
		return
	}
	if o.wbf, err = b.Out(o.WBF); err != nil {
		return
	}
	if o.gbf, err = b.Out(o.GradBF); err != nil {
		return
	}
	if o.wgbf, err = b.Out(o.WGradBF); err != nil {
		return
	}
	o.wts, err = b.Out(o.Weights)
	return
}

// Evaluate computes the basis of all cells. The shape scratch data is shared,
// thus cells run in sequence
func (o *ComputeBasis[T]) Evaluate(ws *phx.Workset) (err error) {
	for c := 0; c < ws.NumCells; c++ {
		for q, ip := range o.ips {
			if err = o.shape.CalcAtIp(ws.Coords[c], ip, true); err != nil {
				return chk.Err("cell %d:\n%v", ws.Begin+c, err)
			}
			w := ip.W * o.shape.J
			o.wts.Set2(c, q, ad.Const[T](w))
			for n := 0; n < o.shape.Nverts; n++ {
				s := o.shape.S[n]
				o.bf.Set3(c, n, q, ad.Const[T](s))
				o.wbf.Set3(c, n, q, ad.Const[T](s*w))
				for d := 0; d < o.ndim; d++ {
					g := o.shape.G[n][d]
					o.gbf.Set4(c, n, q, d, ad.Const[T](g))
					o.wgbf.Set4(c, n, q, d, ad.Const[T](g*w))
				}
			}
		}
	}
	return
}
