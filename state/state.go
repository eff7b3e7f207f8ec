// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state implements state variables that persist across time steps
package state

import (
	"sort"

	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gosl/chk"
)

// Variable holds the values of a state variable of one element block at the
// last accepted step (old) and at the step being computed (new)
type Variable struct {
	Name       string      // name; unique within the block
	Layout     *phx.Layout // layout of values; must have a Cell dimension
	Block      string      // element block
	Init       float64     // initial value
	OutputOnly bool        // cannot be loaded by evaluators

	perCell int       // values per cell
	old     []float64 // [ncells*perCell] last accepted values
	new     []float64 // [ncells*perCell] values being computed
}

// Manager holds all state variables
type Manager struct {
	vars      []*Variable
	byKey     map[string]*Variable
	allocated map[string]int // block => number of cells
}

// NewManager returns a new state manager
func NewManager() *Manager {
	return &Manager{byKey: make(map[string]*Variable), allocated: make(map[string]int)}
}

func key(block, name string) string { return block + "/" + name }

// Register adds a state variable to a block. It must be called before the
// block is allocated
func (o *Manager) Register(name string, layout *phx.Layout, init float64, block string, outputOnly bool) (v *Variable, err error) {
	if _, ok := o.allocated[block]; ok {
		return nil, chk.Err("cannot register state %q because block %q was already allocated", name, block)
	}
	if !layout.HasCell() {
		return nil, chk.Err("layout of state %q must have a Cell dimension. %v is invalid", name, layout)
	}
	k := key(block, name)
	if _, ok := o.byKey[k]; ok {
		return nil, chk.Err("state %q is already registered in block %q", name, block)
	}
	v = &Variable{Name: name, Layout: layout, Block: block, Init: init, OutputOnly: outputOnly, perCell: layout.PerCell()}
	o.vars = append(o.vars, v)
	o.byKey[k] = v
	return
}

// Allocate allocates the state variables of a block with ncells cells and
// sets them to their initial values
func (o *Manager) Allocate(block string, ncells int) (err error) {
	if _, ok := o.allocated[block]; ok {
		return chk.Err("states of block %q are already allocated", block)
	}
	for _, v := range o.vars {
		if v.Block != block {
			continue
		}
		n := ncells * v.perCell
		v.old = make([]float64, n)
		v.new = make([]float64, n)
		for i := 0; i < n; i++ {
			v.old[i] = v.Init
			v.new[i] = v.Init
		}
	}
	o.allocated[block] = ncells
	return
}

// Get returns a state variable
func (o *Manager) Get(block, name string) (v *Variable, err error) {
	v, ok := o.byKey[key(block, name)]
	if !ok {
		return nil, chk.Err("state %q is not registered in block %q", name, block)
	}
	return
}

// LoadOld returns the last accepted values of the cells of a workset. The
// returned slice belongs to the manager and must not be modified
func (o *Manager) LoadOld(v *Variable, ws *phx.Workset) (vals []float64, err error) {
	if v.OutputOnly {
		return nil, chk.Err("state %q is output only and cannot be loaded", v.Name)
	}
	a, b, err := o.span(v, ws)
	if err != nil {
		return
	}
	return v.old[a:b], nil
}

// SaveNew stores the values computed for the cells of a workset. They become
// visible to LoadOld after AcceptStep
func (o *Manager) SaveNew(v *Variable, ws *phx.Workset, vals []float64) (err error) {
	a, b, err := o.span(v, ws)
	if err != nil {
		return
	}
	if len(vals) != b-a {
		return chk.Err("state %q: %d values are needed but %d were given", v.Name, b-a, len(vals))
	}
	copy(v.new[a:b], vals)
	return
}

// AcceptStep makes the new values the old ones
func (o *Manager) AcceptStep() {
	for _, v := range o.vars {
		v.old, v.new = v.new, v.old
		copy(v.new, v.old)
	}
}

// RejectStep discards the new values
func (o *Manager) RejectStep() {
	for _, v := range o.vars {
		copy(v.new, v.old)
	}
}

// Fields returns a copy of the last accepted values of all variables of a block
func (o *Manager) Fields(block string) map[string][]float64 {
	res := make(map[string][]float64)
	for _, v := range o.vars {
		if v.Block == block {
			res[v.Name] = append([]float64{}, v.old...)
		}
	}
	return res
}

// Names returns the sorted names of the variables of a block
func (o *Manager) Names(block string) (names []string) {
	for _, v := range o.vars {
		if v.Block == block {
			names = append(names, v.Name)
		}
	}
	sort.Strings(names)
	return
}

// span returns the range of values of the cells of a workset
func (o *Manager) span(v *Variable, ws *phx.Workset) (a, b int, err error) {
	if ws.Block != v.Block {
		return 0, 0, chk.Err("state %q belongs to block %q but workset %d belongs to block %q", v.Name, v.Block, ws.Index, ws.Block)
	}
	ncells, ok := o.allocated[v.Block]
	if !ok {
		return 0, 0, chk.Err("states of block %q are not allocated", v.Block)
	}
	if ws.Begin < 0 || ws.Begin+ws.NumCells > ncells {
		return 0, 0, chk.Err("cells [%d,%d) of workset %d are out of block %q with %d cells", ws.Begin, ws.Begin+ws.NumCells, ws.Index, v.Block, ncells)
	}
	return ws.Begin * v.perCell, (ws.Begin + ws.NumCells) * v.perCell, nil
}
