// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ad implements the scalar types used by the evaluation kinds: plain
// values (Real) and forward-mode automatic differentiation numbers (Dual)
package ad

// Number defines the arithmetic available to evaluators; it is satisfied by
// Real and Dual so that the same evaluator code runs for every evaluation kind
type Number[T any] interface {
	Add(b T) T        // a + b
	Sub(b T) T        // a - b
	Mul(b T) T        // a * b
	Div(b T) T        // a / b
	Neg() T           // -a
	AddF(c float64) T // a + c
	MulF(c float64) T // a * c
	Sqrt() T          // √a
	Sin() T           // sin(a)
	Cos() T           // cos(a)
	Exp() T           // exp(a)
	Log() T           // ln(a)
	Pow(p float64) T  // a^p
	PowN(n int) T     // a^n with integer n
	Abs() T           // |a|
	Less(b T) bool    // compares values only

	Val() float64                  // value part
	Grad() []float64               // derivative part; nil for values and constants
	Lift(c float64) T              // constant of this type
	Seed(v float64, d []float64) T // number with value v and derivatives d
}

// Const returns the constant c as a T
func Const[T Number[T]](c float64) T {
	var z T
	return z.Lift(c)
}

// Value returns the value part of a
func Value[T Number[T]](a T) float64 {
	return a.Val()
}

// Max returns the largest of a and b (by value)
func Max[T Number[T]](a, b T) T {
	if a.Less(b) {
		return b
	}
	return a
}

// Min returns the smallest of a and b (by value)
func Min[T Number[T]](a, b T) T {
	if b.Less(a) {
		return b
	}
	return a
}

// Sum returns the sum of all items in v
func Sum[T Number[T]](v []T) (res T) {
	for _, a := range v {
		res = res.Add(a)
	}
	return
}
