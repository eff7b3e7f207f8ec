// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm/msh"
)

// GaussIps returns the Gauss-Legendre integration points of a geometry. nip is the total
// number of points and must be a power of the geometry dimension; e.g. 1, 2 or 3 for
// "lin2" and 1, 4 or 9 for "qua4"
func GaussIps(geoType string, nip int) (ips []*Ipoint, err error) {
	if !available[geoType] {
		return nil, chk.Err("cannot find integration points for shape %q", geoType)
	}
	gndim := msh.GeomNdim[msh.TypeKeyToIndex[geoType]]
	n1d := int(math.Round(math.Pow(float64(nip), 1.0/float64(gndim))))
	if nip < 1 || int(math.Pow(float64(n1d), float64(gndim))) != nip {
		return nil, chk.Err("cannot find %d Gauss points for shape %q", nip, geoType)
	}
	for _, p := range msh.QuadPointsGaussLegendre(gndim, nip) {
		ips = append(ips, &Ipoint{R: p[0], S: p[1], T: p[2], W: p[3]})
	}
	return
}
