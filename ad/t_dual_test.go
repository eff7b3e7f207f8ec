// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// fcn exercises all operations of Number; it is used with both Real and Dual
func fcn[T Number[T]](x T) T {
	two := Const[T](2)
	a := x.Sin().Mul(x.Sqrt()).Div(x.PowN(2).AddF(1))
	b := x.Exp().Mul(x.Log()).Sub(x.Cos().MulF(3))
	c := x.Pow(1.5).Add(x.Neg().Abs()).Div(two)
	return Max(a.Add(b), c).Add(Min(a, c))
}

func Test_dual01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dual01. derivatives versus finite differences")

	for _, x := range utl.LinSpace(0.5, 3.0, 6) {
		res := fcn(Var(x, 1, 0))
		if chk.Verbose {
			io.Pforan("x = %v  f = %v\n", x, res)
		}
		chk.Float64(tst, "value", 1e-14, res.V, float64(fcn(Real(x))))
		chk.DerivScaSca(tst, io.Sf("df/dx @ %g", x), 1e-8, res.Deriv(0), x, 1e-3, chk.Verbose, func(t float64) float64 {
			return fcn(Real(t)).Val()
		})
	}
}

func Test_dual02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dual02. several variables and constants")

	x := Var(2, 3, 0)
	y := Var(3, 3, 1)
	z := Var(0.5, 3, 2)

	// f = x*y + y/z - x^3
	f := x.Mul(y).Add(y.Div(z)).Sub(x.PowN(3))
	chk.Float64(tst, "f", 1e-15, f.V, 6+6-8)
	chk.Array(tst, "df", 1e-15, f.D, []float64{3 - 12, 2 + 2, -3 / 0.25})

	// constants carry no derivatives
	c := Const[Dual](4)
	if c.D != nil {
		tst.Errorf("constants must have nil derivatives\n")
		return
	}
	g := c.Mul(c).AddF(1)
	chk.Float64(tst, "g", 1e-15, g.V, 17)
	if len(g.Grad()) != 0 {
		tst.Errorf("product of constants must have no derivatives\n")
		return
	}

	// mixed lengths
	h := Dual{1, []float64{1}}.Add(Dual{2, []float64{0, 5}})
	chk.Array(tst, "dh", 1e-15, h.D, []float64{1, 5})
	chk.Float64(tst, "deriv beyond length", 1e-15, h.Deriv(7), 0)

	// zero powers
	chk.Float64(tst, "x^0", 1e-15, x.PowN(0).V, 1)
	chk.Float64(tst, "x^-2", 1e-15, x.PowN(-2).V, 0.25)
	chk.Float64(tst, "d(x^-2)/dx", 1e-15, x.PowN(-2).D[0], -2.0/8.0)

	// results own their derivatives
	u := Var(2, 2, 0)
	for name, r := range map[string]Dual{"AddF": u.AddF(1), "Abs": u.Abs(), "Mul": u.Mul(u)} {
		r.D[0] = 100
		chk.Array(tst, "du after "+name, 1e-15, u.D, []float64{1, 0})
	}
	seed := []float64{0.5, 1}
	s := Dual{}.Seed(3, seed)
	seed[0] = 100
	chk.Array(tst, "seeded", 1e-15, s.D, []float64{0.5, 1})
}

func Test_real01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("real01")

	a, b := Real(3), Real(-4)
	chk.Float64(tst, "a+b", 1e-15, a.Add(b).Val(), -1)
	chk.Float64(tst, "a*b", 1e-15, a.Mul(b).Val(), -12)
	chk.Float64(tst, "|b|", 1e-15, b.Abs().Val(), 4)
	chk.Float64(tst, "a^3", 1e-15, a.PowN(3).Val(), 27)
	chk.Float64(tst, "max", 1e-15, Max(a, b).Val(), 3)
	chk.Float64(tst, "min", 1e-15, Min(a, b).Val(), -4)
	chk.Float64(tst, "sum", 1e-15, Sum([]Real{a, b, 1}).Val(), 0)
	chk.Float64(tst, "sqrt", 1e-15, Real(2).Sqrt().Val(), math.Sqrt2)
	if a.Grad() != nil {
		tst.Errorf("reals have no derivatives\n")
	}
	chk.Float64(tst, "seed", 1e-15, a.Seed(7, []float64{1}).Val(), 7)
}
