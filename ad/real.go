// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import "math"

// Real is the scalar of the residual kind
type Real float64

func (a Real) Add(b Real) Real     { return a + b }
func (a Real) Sub(b Real) Real     { return a - b }
func (a Real) Mul(b Real) Real     { return a * b }
func (a Real) Div(b Real) Real     { return a / b }
func (a Real) Neg() Real           { return -a }
func (a Real) AddF(c float64) Real { return a + Real(c) }
func (a Real) MulF(c float64) Real { return a * Real(c) }
func (a Real) Sqrt() Real          { return Real(math.Sqrt(float64(a))) }
func (a Real) Sin() Real           { return Real(math.Sin(float64(a))) }
func (a Real) Cos() Real           { return Real(math.Cos(float64(a))) }
func (a Real) Exp() Real           { return Real(math.Exp(float64(a))) }
func (a Real) Log() Real           { return Real(math.Log(float64(a))) }
func (a Real) Pow(p float64) Real  { return Real(math.Pow(float64(a), p)) }
func (a Real) PowN(n int) Real     { return Real(powi(float64(a), n)) }
func (a Real) Abs() Real           { return Real(math.Abs(float64(a))) }
func (a Real) Less(b Real) bool    { return a < b }

func (a Real) Val() float64                     { return float64(a) }
func (a Real) Grad() []float64                  { return nil }
func (a Real) Lift(c float64) Real              { return Real(c) }
func (a Real) Seed(v float64, d []float64) Real { return Real(v) }

// powi computes x^n by repeated squaring
func powi(x float64, n int) float64 {
	if n < 0 {
		return 1.0 / powi(x, -n)
	}
	res := 1.0
	for n > 0 {
		if n&1 == 1 {
			res *= x
		}
		x *= x
		n >>= 1
	}
	return res
}
