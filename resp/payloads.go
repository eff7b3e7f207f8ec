// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resp

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/phx"
)

// Integral computes Scale * ∫ f dV over each cell. Without integrand, it
// computes the volume
type Integral[T ad.Number[T]] struct {
	Weights   phx.Tag // <Cell,QuadPoint> integration weights times Jacobian determinants
	Integrand phx.Tag // <Cell,QuadPoint> optional
	Scale     float64 // multiplier

	nqp int
	w   phx.In[T]
	f   phx.In[T]
}

// NewIntegral returns a new payload; integrand may be empty
func NewIntegral[T ad.Number[T]](dl *phx.Layouts, weights, integrand string, scale float64) (o *Integral[T]) {
	o = &Integral[T]{Weights: phx.NewTag(weights, dl.QpScalar), Scale: scale, nqp: dl.Nqp}
	if integrand != "" {
		o.Integrand = phx.NewTag(integrand, dl.QpScalar)
	}
	return
}

// Dependents returns the weights and the integrand
func (o *Integral[T]) Dependents() []phx.Tag {
	if o.Integrand.IsZero() {
		return []phx.Tag{o.Weights}
	}
	return []phx.Tag{o.Weights, o.Integrand}
}

// Bind binds the fields
func (o *Integral[T]) Bind(b *phx.Binder[T]) (err error) {
	if o.w, err = b.In(o.Weights); err != nil {
		return
	}
	o.f, err = b.Optional(o.Integrand)
	return
}

// Contribute integrates over each cell
func (o *Integral[T]) Contribute(ws *phx.Workset, local phx.Out[T]) error {
	return ws.ForEachCell(func(c int) error {
		var sum T
		for q := 0; q < o.nqp; q++ {
			if o.f.Bound() {
				sum = sum.Add(o.w.At2(c, q).Mul(o.f.At2(c, q)))
			} else {
				sum = sum.Add(o.w.At2(c, q))
			}
		}
		local.Set2(c, 0, sum.MulF(o.Scale))
		return nil
	})
}

// FieldMax computes the largest value of a field over the integration points of each cell
type FieldMax[T ad.Number[T]] struct {
	Field phx.Tag // <Cell,QuadPoint>

	nqp int
	f   phx.In[T]
}

// NewFieldMax returns a new payload
func NewFieldMax[T ad.Number[T]](dl *phx.Layouts, field string) *FieldMax[T] {
	return &FieldMax[T]{Field: phx.NewTag(field, dl.QpScalar), nqp: dl.Nqp}
}

// Dependents returns the field
func (o *FieldMax[T]) Dependents() []phx.Tag { return []phx.Tag{o.Field} }

// Bind binds the field
func (o *FieldMax[T]) Bind(b *phx.Binder[T]) (err error) {
	o.f, err = b.In(o.Field)
	return
}

// Contribute finds the largest value of each cell
func (o *FieldMax[T]) Contribute(ws *phx.Workset, local phx.Out[T]) error {
	return ws.ForEachCell(func(c int) error {
		res := o.f.At2(c, 0)
		for q := 1; q < o.nqp; q++ {
			res = ad.Max(res, o.f.At2(c, q))
		}
		local.Set2(c, 0, res)
		return nil
	})
}
