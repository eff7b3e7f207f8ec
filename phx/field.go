// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import "github.com/cpmech/gosl/chk"

// field holds the values of one tag in row-major order
type field[T any] struct {
	tag     Tag
	data    []T
	strides []int
}

func newField[T any](tag Tag) *field[T] {
	o := &field[T]{tag: tag, data: make([]T, tag.Layout.Len())}
	r := tag.Layout.Rank()
	o.strides = make([]int, r)
	s := 1
	for i := r - 1; i >= 0; i-- {
		o.strides[i] = s
		s *= tag.Layout.Size(i)
	}
	return o
}

// clear sets all values to zero
func (o *field[T]) clear() {
	var z T
	for i := range o.data {
		o.data[i] = z
	}
}

// In is a read-only view of a field
type In[T any] struct {
	f *field[T]
}

// Tag returns the tag of the field
func (o In[T]) Tag() Tag { return o.f.tag }

// Size returns the size of the i-th dimension
func (o In[T]) Size(i int) int { return o.f.tag.Layout.Size(i) }

// Len returns the total number of values
func (o In[T]) Len() int { return len(o.f.data) }

// Get returns the i-th value in row-major order
func (o In[T]) Get(i int) T { return o.f.data[i] }

// At1 returns the value at (i)
func (o In[T]) At1(i int) T { return o.f.data[i] }

// At2 returns the value at (i,j)
func (o In[T]) At2(i, j int) T { return o.f.data[i*o.f.strides[0]+j] }

// At3 returns the value at (i,j,k)
func (o In[T]) At3(i, j, k int) T {
	s := o.f.strides
	return o.f.data[i*s[0]+j*s[1]+k]
}

// At4 returns the value at (i,j,k,l)
func (o In[T]) At4(i, j, k, l int) T {
	s := o.f.strides
	return o.f.data[i*s[0]+j*s[1]+k*s[2]+l]
}

// Values returns a copy of all values
func (o In[T]) Values() []T { return append([]T{}, o.f.data...) }

// Bound tells whether the view refers to a field; views of optional fields
// that were not given are unbound
func (o In[T]) Bound() bool { return o.f != nil }

// Out is a writable view of a field
type Out[T any] struct {
	In[T]
}

// Set sets the i-th value in row-major order
func (o Out[T]) Set(i int, v T) { o.f.data[i] = v }

// Set1 sets the value at (i)
func (o Out[T]) Set1(i int, v T) { o.f.data[i] = v }

// Set2 sets the value at (i,j)
func (o Out[T]) Set2(i, j int, v T) { o.f.data[i*o.f.strides[0]+j] = v }

// Set3 sets the value at (i,j,k)
func (o Out[T]) Set3(i, j, k int, v T) {
	s := o.f.strides
	o.f.data[i*s[0]+j*s[1]+k] = v
}

// Set4 sets the value at (i,j,k,l)
func (o Out[T]) Set4(i, j, k, l int, v T) {
	s := o.f.strides
	o.f.data[i*s[0]+j*s[1]+k*s[2]+l] = v
}

// Zero sets all values to zero
func (o Out[T]) Zero() { o.f.clear() }

// arena holds all fields of one evaluation kind
type arena[T any] struct {
	fields []*field[T]
	byName map[string][]*field[T]
}

func newArena[T any](tags []Tag) *arena[T] {
	o := &arena[T]{byName: make(map[string][]*field[T])}
	for _, t := range tags {
		if t.Layout.IsDummy() {
			continue
		}
		f := newField[T](t)
		o.fields = append(o.fields, f)
		o.byName[t.Name] = append(o.byName[t.Name], f)
	}
	return o
}

// find returns the field with the same name and layout as tag
func (o *arena[T]) find(tag Tag, owner string) (*field[T], error) {
	list, ok := o.byName[tag.Name]
	if !ok {
		return nil, chk.Err("field %s is not allocated", tag)
	}
	for _, f := range list {
		if f.tag.Layout.Equal(tag.Layout) {
			return f, nil
		}
	}
	return nil, &ShapeMismatchError{owner, tag.Name, tag.Layout.String(), list[0].tag.Layout.String()}
}

// clearBatch zeroes the fields with a Cell dimension
func (o *arena[T]) clearBatch() {
	for _, f := range o.fields {
		if f.tag.Layout.HasCell() {
			f.clear()
		}
	}
}

// Binder gives an evaluator views of the fields it declared, and only those
// Fields are identified by name and layout
type Binder[T any] struct {
	arena *arena[T]
	owner string
	deps  map[string]bool   // tag key => dependent
	outs  map[string]bool   // tag key => evaluated
	names map[string]string // name => declared layout
}

func newBinder[T any](a *arena[T], n EvalNode) *Binder[T] {
	o := &Binder[T]{arena: a, owner: n.Name(), deps: make(map[string]bool), outs: make(map[string]bool), names: make(map[string]string)}
	declare := func(t Tag) {
		if _, ok := o.names[t.Name]; !ok {
			o.names[t.Name] = t.Layout.String()
		}
	}
	for _, t := range n.Dependents() {
		o.deps[t.Key()] = true
		declare(t)
	}
	for _, t := range n.Evaluated() {
		o.outs[t.Key()] = true
		declare(t)
	}
	return o
}

// undeclared returns the error for a tag that was not declared with this layout
func (o *Binder[T]) undeclared(tag Tag, action string) error {
	if layout, ok := o.names[tag.Name]; ok {
		return &ShapeMismatchError{o.owner, tag.Name, tag.Layout.String(), layout}
	}
	return chk.Err("evaluator %q cannot %s field %q because it was not declared", o.owner, action, tag.Name)
}

// In returns a read-only view of a dependent or evaluated field
func (o *Binder[T]) In(tag Tag) (v In[T], err error) {
	if !o.deps[tag.Key()] && !o.outs[tag.Key()] {
		return v, o.undeclared(tag, "read")
	}
	f, err := o.arena.find(tag, o.owner)
	if err != nil {
		return
	}
	return In[T]{f}, nil
}

// Out returns a writable view of an evaluated field
func (o *Binder[T]) Out(tag Tag) (v Out[T], err error) {
	if !o.outs[tag.Key()] {
		if o.deps[tag.Key()] {
			return v, chk.Err("evaluator %q cannot write field %q because it is one of its dependent fields", o.owner, tag.Name)
		}
		return v, o.undeclared(tag, "write")
	}
	f, err := o.arena.find(tag, o.owner)
	if err != nil {
		return
	}
	return Out[T]{In[T]{f}}, nil
}

// Optional returns a read-only view of tag if tag is not zero; otherwise it
// returns an unbound view
func (o *Binder[T]) Optional(tag Tag) (v In[T], err error) {
	if tag.IsZero() {
		return
	}
	return o.In(tag)
}
