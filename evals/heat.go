// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evals

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
)

// HeatFields holds the names of the fields used by HeatResid. Rate and Source
// may be empty
type HeatFields struct {
	Rate         string // <Cell,QuadPoint> ∂u/∂t
	Gradient     string // <Cell,QuadPoint,Dim> ∇u
	Conductivity string // <Cell,QuadPoint> k
	Source       string // <Cell,QuadPoint> s
	WBF          string // <Cell,Node,QuadPoint>
	WGradBF      string // <Cell,Node,QuadPoint,Dim>
	Residual     string // <Cell,Node>
}

// DefaultHeatFields returns the usual names
func DefaultHeatFields() HeatFields {
	return HeatFields{
		Rate:         "Temperature_dot",
		Gradient:     "Temperature Gradient",
		Conductivity: "Thermal Conductivity",
		Source:       "Heat Source",
		WBF:          "wBF",
		WGradBF:      "wGrad BF",
		Residual:     "Temperature Residual",
	}
}

// HeatResid computes the residual of the heat equation
//  ρc ∂u/∂t - ∇·(k ∇u) - s = 0
// in weak form:
//  R(c,n) = Σ_q [ ρc rate wBF(n) + k ∇u·wGradBF(n) - s wBF(n) ]
type HeatResid[T ad.Number[T]] struct {
	phx.Base
	RhoC float64 // ρc

	// fields
	Rate, Gradient, Conductivity, Source, WBF, WGradBF, Residual phx.Tag

	nnode, nqp, ndim int
	rate             phx.In[T]
	grad             phx.In[T]
	k                phx.In[T]
	s                phx.In[T]
	wbf              phx.In[T]
	wgbf             phx.In[T]
	res              phx.Out[T]
}

// NewHeatResid returns a new evaluator
func NewHeatResid[T ad.Number[T]](dl *phx.Layouts, names HeatFields, rhoC float64) (o *HeatResid[T]) {
	o = &HeatResid[T]{RhoC: rhoC, nnode: dl.Nnode, nqp: dl.Nqp, ndim: dl.Ndim}
	o.SetName("Heat Residual")
	if names.Rate != "" {
		o.Rate = phx.NewTag(names.Rate, dl.QpScalar)
	}
	if names.Source != "" {
		o.Source = phx.NewTag(names.Source, dl.QpScalar)
	}
	o.Gradient = phx.NewTag(names.Gradient, dl.QpVector)
	o.Conductivity = phx.NewTag(names.Conductivity, dl.QpScalar)
	o.WBF = phx.NewTag(names.WBF, dl.NodeQpScalar)
	o.WGradBF = phx.NewTag(names.WGradBF, dl.NodeQpVector)
	o.Residual = phx.NewTag(names.Residual, dl.NodeScalar)
	o.Depends(o.Rate, o.Gradient, o.Conductivity, o.Source, o.WBF, o.WGradBF)
	o.Evaluates(o.Residual)
	return
}

// Setup binds fields
func (o *HeatResid[T]) Setup(b *phx.Binder[T]) (err error) {
	if o.rate, err = b.Optional(o.Rate); err != nil {
		return
	}
	if o.s, err = b.Optional(o.Source); err != nil {
		return
	}
	if o.grad, err = b.In(o.Gradient); err != nil {
		return
	}
	if o.k, err = b.In(o.Conductivity); err != nil {
		return
	}
	if o.wbf, err = b.In(o.WBF); err != nil {
		return
	}
	if o.wgbf, err = b.In(o.WGradBF); err != nil {
		return
	}
	o.res, err = b.Out(o.Residual)
	return
}

// Evaluate computes the residual of all cells
func (o *HeatResid[T]) Evaluate(ws *phx.Workset) error {
	return ws.ForEachCell(func(c int) error {
		for n := 0; n < o.nnode; n++ {
			var r T
			for q := 0; q < o.nqp; q++ {
				k := o.k.At2(c, q)
				for d := 0; d < o.ndim; d++ {
					r = r.Add(k.Mul(o.grad.At3(c, q, d)).Mul(o.wgbf.At4(c, n, q, d)))
				}
				var f T
				if o.rate.Bound() {
					f = o.rate.At2(c, q).MulF(o.RhoC)
				}
				if o.s.Bound() {
					f = f.Sub(o.s.At2(c, q))
				}
				r = r.Add(f.Mul(o.wbf.At3(c, n, q)))
			}
			o.res.Set2(c, n, r)
		}
		return nil
	})
}
