// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	goio "io"

	"github.com/cpmech/gosl/chk"
	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode is an evaluator in the Graphviz output
type dotNode struct {
	id   int64
	name string
}

func (o dotNode) ID() int64     { return o.id }
func (o dotNode) DOTID() string { return o.name }

// dotEdge connects a producer to a consumer; it is labelled with the fields
type dotEdge struct {
	simple.Edge
	label string
}

func (o dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: o.label}}
}

// WriteGraphviz writes the dependency graph of the active evaluators in DOT format.
// The field manager must be finalized
func (o *FieldManager) WriteGraphviz(w goio.Writer) (err error) {
	if !o.final {
		return chk.Err("field manager %q must be finalized before writing its graph", o.Name)
	}
	g := simple.NewDirectedGraph()
	nodes := make(map[int]gg.Node)
	for _, i := range o.active {
		n := dotNode{int64(i), o.graph.nodes[i].Name()}
		nodes[i] = n
		g.AddNode(n)
	}
	for _, i := range o.active {
		for _, j := range o.graph.edges[i] {
			label := ""
			for _, t := range o.graph.nodes[i].Dependents() {
				if p, ok := o.graph.producers[t.Key()]; ok && p == j {
					if label != "" {
						label += `\n`
					}
					label += t.Name
				}
			}
			g.SetEdge(dotEdge{simple.Edge{F: nodes[j], T: nodes[i]}, label})
		}
	}
	b, err := dot.Marshal(g, o.Name, "", "  ")
	if err != nil {
		return chk.Err("cannot encode graph of field manager %q:\n%v", o.Name, err)
	}
	_, err = w.Write(append(b, '\n'))
	return
}
