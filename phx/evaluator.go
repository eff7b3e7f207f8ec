// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import "github.com/cpmech/gosl/chk"

// EvalNode defines what the graph builder needs to know about an evaluator.
// Implementations must embed Base
type EvalNode interface {
	Name() string      // name used in messages and graphs
	Dependents() []Tag // fields read by Evaluate
	Evaluated() []Tag  // fields written by Evaluate
	base() *Base       // access to the declarations
}

// Evaluator computes some fields from other fields over the cells of a workset.
// One instance is registered per evaluation kind
type Evaluator[T any] interface {
	EvalNode

	// Setup binds views to the declared fields. It is called once after
	// allocation, in dependency order
	Setup(b *Binder[T]) error

	// Evaluate computes the evaluated fields for all cells of a workset.
	// It may be called any number of times
	Evaluate(ws *Workset) error
}

// PreEvaluator is implemented by evaluators that reset data before a loop over worksets
type PreEvaluator interface {
	PreEvaluate() error
}

// PostEvaluator is implemented by evaluators that finish data after a loop over worksets
type PostEvaluator interface {
	PostEvaluate() error
}

// Base holds the name and the declared fields of an evaluator
type Base struct {
	name   string
	deps   []Tag
	outs   []Tag
	frozen bool
}

// SetName sets the name of the evaluator
func (o *Base) SetName(name string) { o.name = name }

// Name returns the name of the evaluator
func (o *Base) Name() string { return o.name }

// Dependents returns the dependent fields
func (o *Base) Dependents() []Tag { return o.deps }

// Evaluated returns the evaluated fields
func (o *Base) Evaluated() []Tag { return o.outs }

// AddDependent declares a field read by this evaluator
func (o *Base) AddDependent(tag Tag) error {
	if o.frozen {
		return &GraphFrozenError{o.name, tag.String()}
	}
	o.deps = append(o.deps, tag)
	return nil
}

// AddEvaluated declares a field written by this evaluator
func (o *Base) AddEvaluated(tag Tag) error {
	if o.frozen {
		return &GraphFrozenError{o.name, tag.String()}
	}
	o.outs = append(o.outs, tag)
	return nil
}

// Depends declares dependent fields while constructing an evaluator; zero
// tags are skipped. It panics if the evaluator was already registered
func (o *Base) Depends(tags ...Tag) {
	for _, t := range tags {
		if t.IsZero() {
			continue
		}
		if err := o.AddDependent(t); err != nil {
			chk.Panic("%v", err)
		}
	}
}

// Evaluates declares evaluated fields while constructing an evaluator; zero
// tags are skipped. It panics if the evaluator was already registered
func (o *Base) Evaluates(tags ...Tag) {
	for _, t := range tags {
		if t.IsZero() {
			continue
		}
		if err := o.AddEvaluated(t); err != nil {
			chk.Panic("%v", err)
		}
	}
}

func (o *Base) base() *Base { return o }
