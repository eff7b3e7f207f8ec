// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shp implements shape functions and integration points
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm/msh"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
)

// Shape holds the shape functions of a geometry and the scratch data computed at a point.
// Shapes are not safe for concurrent use
type Shape struct {

	// geometry
	Type      string      // name; e.g. "lin2", "qua4"
	Gndim     int         // geometry dimension
	Nverts    int         // number of vertices
	NatCoords [][]float64 // [gndim][nverts] natural coordinates of vertices

	// functions
	Func msh.ShapeFunction

	// computed by Func
	S    la.Vector  // [nverts] shape functions
	DSdR *la.Matrix // [nverts][gndim] derivatives w.r.t. natural coordinates

	// computed by CalcAtIp
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t. natural coordinates
	DRdx [][]float64 // [gndim][gndim] inverse of DxdR
	G    [][]float64 // [nverts][gndim] derivatives of shape functions w.r.t. real coordinates
	J    float64     // determinant of DxdR

	r la.Vector // natural coordinates of the current point
}

// Ipoint holds the natural coordinates and weight of an integration point
type Ipoint struct {
	R, S, T, W float64
}

// available holds the geometries with a Jacobian implemented by CalcAtIp
var available = map[string]bool{"lin2": true, "qua4": true}

// Get returns a new shape structure
func Get(geoType string) (o *Shape, err error) {
	if !available[geoType] {
		return nil, chk.Err("shape %q is not available", geoType)
	}
	idx := msh.TypeKeyToIndex[geoType]
	o = &Shape{
		Type:      geoType,
		Gndim:     msh.GeomNdim[idx],
		Nverts:    msh.NumVerts[idx],
		NatCoords: msh.NatCoords[idx],
		Func:      msh.Functions[idx],
	}
	o.S = la.NewVector(o.Nverts)
	o.DSdR = la.NewMatrix(o.Nverts, o.Gndim)
	o.DxdR = utl.Alloc(o.Gndim, o.Gndim)
	o.DRdx = utl.Alloc(o.Gndim, o.Gndim)
	o.G = utl.Alloc(o.Nverts, o.Gndim)
	o.r = la.NewVector(3)
	return
}

// CalcAtIp computes S and, if derivs is true, DxdR, DRdx, G and J at an integration point
//  x -- [nverts][gndim] coordinates of vertices
func (o *Shape) CalcAtIp(x [][]float64, ip *Ipoint, derivs bool) (err error) {
	o.r[0], o.r[1], o.r[2] = ip.R, ip.S, ip.T
	o.Func(o.S, o.DSdR, o.r, derivs)
	if !derivs {
		return
	}

	// dxdR := sum_n x[n] * dSdR[n]
	for i := 0; i < o.Gndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[n][i] * o.DSdR.Get(n, j)
			}
		}
	}

	// dRdx := inv(dxdR)
	switch o.Gndim {
	case 1:
		o.J = o.DxdR[0][0]
		if math.Abs(o.J) > 0 {
			o.DRdx[0][0] = 1.0 / o.J
		}
	case 2:
		a, b, c, d := o.DxdR[0][0], o.DxdR[0][1], o.DxdR[1][0], o.DxdR[1][1]
		o.J = a*d - b*c
		if math.Abs(o.J) > 0 {
			o.DRdx[0][0], o.DRdx[0][1] = d/o.J, -b/o.J
			o.DRdx[1][0], o.DRdx[1][1] = -c/o.J, a/o.J
		}
	}
	if o.J <= 0 {
		return chk.Err("%s: Jacobian determinant must be positive. J = %g is invalid", o.Type, o.J)
	}

	// G := dSdR * dRdx
	for n := 0; n < o.Nverts; n++ {
		for i := 0; i < o.Gndim; i++ {
			o.G[n][i] = 0
			for j := 0; j < o.Gndim; j++ {
				o.G[n][i] += o.DSdR.Get(n, j) * o.DRdx[j][i]
			}
		}
	}
	return
}
