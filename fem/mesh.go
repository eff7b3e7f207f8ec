// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm/msh"
	"github.com/cpmech/gosl/utl"
)

// Vertex holds vertex data
type Vertex struct {
	Id   int       // identifier; also the equation number of the unknown
	Tags []int     // boundary tags; empty if the vertex is interior
	C    []float64 // coordinates
}

// Cell holds cell data
type Cell struct {
	Id    int   // identifier
	Verts []int // vertices; counter-clockwise in 2D
}

// Mesh holds a structured mesh of lin2 or qua4 cells. Boundary vertices are tagged as follows:
//  lin2 -- -1 at x=0 and -2 at x=lx
//  qua4 -- -10 at x=0, -11 at x=lx, -20 at y=0 and -21 at y=ly
type Mesh struct {
	GeoType string    // "lin2" or "qua4"
	Ndim    int       // space dimension
	Verts   []*Vertex // vertices
	Cells   []*Cell   // cells

	// derived
	VertTag2verts map[int][]*Vertex // vertex tag => vertices
	Xmin, Xmax    float64           // limits along x
	Ymin, Ymax    float64           // limits along y
}

// quadEdgeTags converts the edge tags of msh.GenQuadRegionHL (bottom=10, right=20, top=30,
// left=40) into vertex tags. Corner vertices receive the tag of the vertical edge first
var quadEdgeTags = [][2]int{{40, -10}, {20, -11}, {10, -20}, {30, -21}}

// NewMesh generates the mesh described by dat
func NewMesh(dat *inp.MeshData) (o *Mesh, err error) {
	if dat.Nx < 1 || dat.Lx <= 0 {
		return nil, chk.Err("mesh needs nx ≥ 1 and lx > 0. nx=%d and lx=%g are invalid", dat.Nx, dat.Lx)
	}
	switch dat.Type {
	case "lin2":
		return GenLine(dat.Nx, dat.Lx), nil
	case "qua4":
		if dat.Ny < 1 || dat.Ly <= 0 {
			return nil, chk.Err("qua4 mesh needs ny ≥ 1 and ly > 0. ny=%d and ly=%g are invalid", dat.Ny, dat.Ly)
		}
		return GenQuad(dat.Nx, dat.Ny, dat.Lx, dat.Ly), nil
	}
	return nil, chk.Err("cannot generate mesh of type %q", dat.Type)
}

// GenLine generates nx lin2 cells from x=0 to x=lx
func GenLine(nx int, lx float64) (o *Mesh) {
	m := new(msh.Mesh)
	x := utl.LinSpace(0, lx, nx+1)
	for i := 0; i <= nx; i++ {
		m.Verts = append(m.Verts, &msh.Vertex{ID: i, X: []float64{x[i]}})
	}
	m.Verts[0].Tag, m.Verts[nx].Tag = -1, -2
	for i := 0; i < nx; i++ {
		m.Cells = append(m.Cells, &msh.Cell{ID: i, Tag: -1, TypeKey: "lin2", V: []int{i, i + 1}})
	}
	m.CheckAndCalcDerivedVars()
	o = fromMsh(m)
	for _, tag := range []int{-1, -2} {
		for _, v := range m.Tmaps.VertexTag2verts[tag] {
			o.tag(v.ID, tag)
		}
	}
	o.derived()
	return
}

// GenQuad generates nx×ny qua4 cells over [0,lx]×[0,ly]. Vertex ids run along x first
func GenQuad(nx, ny int, lx, ly float64) (o *Mesh) {
	m := msh.GenQuadRegionHL(msh.TypeQua4, nx, ny, 0, lx, 0, ly)
	o = fromMsh(m)
	for _, et := range quadEdgeTags {
		for _, v := range m.Tmaps.EdgeTag2verts[et[0]] {
			o.tag(v.ID, et[1])
		}
	}
	o.derived()
	return
}

// Nnode returns the number of vertices per cell
func (o *Mesh) Nnode() int {
	return msh.NumVerts[msh.TypeKeyToIndex[o.GeoType]]
}

// fromMsh copies vertices and cells of a gosl mesh
func fromMsh(m *msh.Mesh) (o *Mesh) {
	o = &Mesh{Ndim: m.Ndim, GeoType: m.Cells[0].TypeKey}
	o.Verts = make([]*Vertex, len(m.Verts))
	for i, v := range m.Verts {
		o.Verts[i] = &Vertex{Id: v.ID, C: v.X}
	}
	o.Cells = make([]*Cell, len(m.Cells))
	for i, c := range m.Cells {
		o.Cells[i] = &Cell{Id: c.ID, Verts: c.V}
	}
	o.Xmin, o.Xmax = m.Xmin[0], m.Xmax[0]
	if o.Ndim > 1 {
		o.Ymin, o.Ymax = m.Xmin[1], m.Xmax[1]
	}
	return
}

// tag adds a boundary tag to a vertex
func (o *Mesh) tag(vid, tag int) {
	o.Verts[vid].Tags = append(o.Verts[vid].Tags, tag)
}

// derived computes the map of vertex tags
func (o *Mesh) derived() {
	o.VertTag2verts = make(map[int][]*Vertex)
	for _, v := range o.Verts {
		for _, tag := range v.Tags {
			o.VertTag2verts[tag] = append(o.VertTag2verts[tag], v)
		}
	}
}
