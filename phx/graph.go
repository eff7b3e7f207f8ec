// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

// graph holds the evaluators and the producer of each dependent field
type graph struct {
	nodes     []EvalNode
	producers map[string]int // tag key => index of producer
	edges     [][]int        // index of producers of the dependents of each node
	order     []int          // producers before consumers
}

// newGraph resolves the dependencies of nodes and sorts them. Tags in external
// are supplied by the caller and need no producer
func newGraph(nodes []EvalNode, external []Tag) (o *graph, err error) {

	// producers
	o = &graph{nodes: nodes, producers: make(map[string]int)}
	ext := make(map[string]bool)
	for _, t := range external {
		ext[t.Key()] = true
	}
	for i, n := range nodes {
		for _, t := range n.Evaluated() {
			k := t.Key()
			if j, ok := o.producers[k]; ok {
				return nil, &DuplicateProducerError{t.String(), nodes[j].Name(), n.Name()}
			}
			if ext[k] {
				return nil, &DuplicateProducerError{t.String(), "external", n.Name()}
			}
			o.producers[k] = i
		}
	}

	// dependencies
	o.edges = make([][]int, len(nodes))
	for i, n := range nodes {
		seen := make(map[int]bool)
		for _, t := range n.Dependents() {
			k := t.Key()
			j, ok := o.producers[k]
			if !ok {
				if ext[k] {
					continue
				}
				return nil, &MissingDependencyError{t.String(), n.Name()}
			}
			if !seen[j] {
				seen[j] = true
				o.edges[i] = append(o.edges[i], j)
			}
		}
	}

	// sort
	err = o.sort()
	return
}

// sort runs a depth-first search in registration order; producers are
// appended after all of their own producers
func (o *graph) sort() error {
	const (
		white = iota
		grey
		black
	)
	colour := make([]int, len(o.nodes))
	var path []int
	var visit func(i int) error
	visit = func(i int) error {
		colour[i] = grey
		path = append(path, i)
		for _, j := range o.edges[i] {
			switch colour[j] {
			case grey:
				return o.cycle(path, j)
			case white:
				if err := visit(j); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		colour[i] = black
		o.order = append(o.order, i)
		return nil
	}
	for i := range o.nodes {
		if colour[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycle returns the error listing the evaluators in path starting at j
func (o *graph) cycle(path []int, j int) error {
	start := 0
	for k, i := range path {
		if i == j {
			start = k
			break
		}
	}
	var names []string
	for _, i := range path[start:] {
		names = append(names, o.nodes[i].Name())
	}
	names = append(names, o.nodes[j].Name())
	return &CyclicDependencyError{names}
}

// needed returns the part of the order required to evaluate tags. All nodes are
// returned if tags is empty
func (o *graph) needed(tags []Tag) (active []int, err error) {
	if len(tags) == 0 {
		return o.order, nil
	}
	mark := make([]bool, len(o.nodes))
	var walk func(i int)
	walk = func(i int) {
		if mark[i] {
			return
		}
		mark[i] = true
		for _, j := range o.edges[i] {
			walk(j)
		}
	}
	for _, t := range tags {
		i, ok := o.producers[t.Key()]
		if !ok {
			return nil, &MissingDependencyError{t.String(), "required fields"}
		}
		walk(i)
	}
	for _, i := range o.order {
		if mark[i] {
			active = append(active, i)
		}
	}
	return
}
