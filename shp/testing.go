// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)
	ana := shape.DSdR.GetDeep2()

	// numerical
	S := make([]float64, shape.Nverts)
	x := make([]float64, 3)
	for n := 0; n < shape.Nverts; n++ {
		for j := 0; j < shape.Gndim; j++ {
			chk.DerivScaSca(tst, io.Sf("dS%d/dR%d", n, j), tol, ana[n][j], r[j], 1e-1, verbose, func(t float64) float64 {
				copy(x, r)
				x[j] = t
				shape.Func(S, nil, x, false)
				return S[n]
			})
		}
	}
}

// CheckIps checks that the weights of integration points add up to the
// measure of the reference geometry
func CheckIps(tst *testing.T, ips []*Ipoint, measure, tol float64) {
	sum := 0.0
	for _, ip := range ips {
		sum += ip.W
	}
	chk.Float64(tst, "sum of weights", tol, sum, measure)
}
