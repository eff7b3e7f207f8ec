// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// Dual holds a value and its partial derivatives with respect to a set of
// independent variables. A nil D means all derivatives are zero; slices of
// different lengths are combined as if the shorter one were padded with zeros.
// Results of operations never share D with their operands
type Dual struct {
	V float64   // value
	D []float64 // derivatives
}

// Var returns the i-th independent variable out of n with value v
func Var(v float64, n, i int) Dual {
	d := make([]float64, n)
	d[i] = 1
	return Dual{v, d}
}

// Deriv returns the i-th derivative
func (a Dual) Deriv(i int) float64 {
	if i < len(a.D) {
		return a.D[i]
	}
	return 0
}

// String returns a representation such as "2(1,0,3)"
func (a Dual) String() string {
	l := io.Sf("%g(", a.V)
	for i, d := range a.D {
		if i > 0 {
			l += ","
		}
		l += io.Sf("%g", d)
	}
	return l + ")"
}

func (a Dual) Add(b Dual) Dual { return Dual{a.V + b.V, lin(1, a.D, 1, b.D)} }
func (a Dual) Sub(b Dual) Dual { return Dual{a.V - b.V, lin(1, a.D, -1, b.D)} }
func (a Dual) Mul(b Dual) Dual { return Dual{a.V * b.V, lin(b.V, a.D, a.V, b.D)} }
func (a Dual) Neg() Dual       { return Dual{-a.V, scale(-1, a.D)} }

func (a Dual) Div(b Dual) Dual {
	v := a.V / b.V
	return Dual{v, lin(1/b.V, a.D, -v/b.V, b.D)}
}

func (a Dual) AddF(c float64) Dual { return Dual{a.V + c, clone(a.D)} }
func (a Dual) MulF(c float64) Dual { return Dual{a.V * c, scale(c, a.D)} }

func (a Dual) Sqrt() Dual {
	s := math.Sqrt(a.V)
	return Dual{s, scale(0.5/s, a.D)}
}

func (a Dual) Sin() Dual { return Dual{math.Sin(a.V), scale(math.Cos(a.V), a.D)} }
func (a Dual) Cos() Dual { return Dual{math.Cos(a.V), scale(-math.Sin(a.V), a.D)} }

func (a Dual) Exp() Dual {
	e := math.Exp(a.V)
	return Dual{e, scale(e, a.D)}
}

func (a Dual) Log() Dual { return Dual{math.Log(a.V), scale(1/a.V, a.D)} }

func (a Dual) Pow(p float64) Dual {
	if p == 0 {
		return Dual{1, nil}
	}
	return Dual{math.Pow(a.V, p), scale(p*math.Pow(a.V, p-1), a.D)}
}

func (a Dual) PowN(n int) Dual {
	if n == 0 {
		return Dual{1, nil}
	}
	return Dual{powi(a.V, n), scale(float64(n)*powi(a.V, n-1), a.D)}
}

func (a Dual) Abs() Dual {
	if a.V < 0 {
		return a.Neg()
	}
	return Dual{a.V, clone(a.D)}
}

func (a Dual) Less(b Dual) bool { return a.V < b.V }

func (a Dual) Val() float64                     { return a.V }
func (a Dual) Lift(c float64) Dual              { return Dual{c, nil} }
func (a Dual) Seed(v float64, d []float64) Dual { return Dual{v, clone(d)} }

// Grad returns D itself; callers must not modify it
func (a Dual) Grad() []float64 { return a.D }

// clone returns a copy of a; nil if a is empty
func clone(a []float64) []float64 {
	if len(a) == 0 {
		return nil
	}
	return append([]float64(nil), a...)
}

// lin computes ca*a + cb*b
func lin(ca float64, a []float64, cb float64, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return nil
	}
	res := make([]float64, n)
	for i, v := range a {
		res[i] = ca * v
	}
	for i, v := range b {
		res[i] += cb * v
	}
	return res
}

// scale computes c*a
func scale(c float64, a []float64) []float64 {
	if len(a) == 0 {
		return nil
	}
	res := make([]float64, len(a))
	for i, v := range a {
		res[i] = c * v
	}
	return res
}
