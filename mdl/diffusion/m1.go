// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// M1 implements a model for diffusion problems with nonlinear coefficient
//
//   k(u) = kcte * (a0  +  a1 u  +  a2 u² +  a3 u³)
//
type M1 struct {
	a0, a1, a2, a3 float64
	Kcte           float64 // isotropic coefficient
	Rho            float64 // density times specific heat (transient term)
}

// Init initialises this structure
func (o *M1) Init(prms dbf.Params) (err error) {
	o.a0, o.Kcte, o.Rho = 1, 1, 1
	for _, p := range prms {
		switch p.N {
		case "a0":
			o.a0 = p.V
		case "a1":
			o.a1 = p.V
		case "a2":
			o.a2 = p.V
		case "a3":
			o.a3 = p.V
		case "k":
			o.Kcte = p.V
		case "rho":
			o.Rho = p.V
		default:
			return chk.Err("M1 model: parameter %q is not available", p.N)
		}
	}
	if o.Kcte <= 0 {
		return chk.Err("M1 model: 'k' must be positive. %g is invalid", o.Kcte)
	}
	return
}

// Kval computes k(u)
func (o *M1) Kval(u float64) float64 {
	return o.Kcte * (o.a0 + o.a1*u + o.a2*u*u + o.a3*u*u*u)
}

// DkDu computes dk/du
func (o *M1) DkDu(u float64) float64 {
	return o.Kcte * (o.a1 + 2.0*o.a2*u + 3.0*o.a3*u*u)
}

// Kval computes k(u) for any scalar type; derivatives follow from the arithmetic of T
func Kval[T ad.Number[T]](o *M1, u T) T {
	return u.MulF(o.a3).AddF(o.a2).Mul(u).AddF(o.a1).Mul(u).AddF(o.a0).MulF(o.Kcte)
}
