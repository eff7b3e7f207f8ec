// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"strings"

	"github.com/cpmech/gosl/io"
)

// DuplicateProducerError is returned when two evaluators evaluate the same tag
type DuplicateProducerError struct {
	Tag    string // tag evaluated twice
	First  string // first producer
	Second string // second producer
}

func (o *DuplicateProducerError) Error() string {
	return io.Sf("field %s is evaluated by both %q and %q", o.Tag, o.First, o.Second)
}

// MissingDependencyError is returned when a dependent tag has no producer and
// was not marked as external
type MissingDependencyError struct {
	Tag       string // unresolved tag
	Evaluator string // evaluator requiring the tag
}

func (o *MissingDependencyError) Error() string {
	return io.Sf("field %s required by %q is not evaluated by any evaluator", o.Tag, o.Evaluator)
}

// CyclicDependencyError is returned when evaluators depend on each other
type CyclicDependencyError struct {
	Cycle []string // evaluator names; the first one is repeated at the end
}

func (o *CyclicDependencyError) Error() string {
	return io.Sf("cyclic dependency among evaluators: %s", strings.Join(o.Cycle, " -> "))
}

// ShapeMismatchError is returned when a tag is bound or allocated with a
// layout different from the declared one
type ShapeMismatchError struct {
	Evaluator string
	Tag       string
	Declared  string // layout requested
	Allocated string // layout found in storage
}

func (o *ShapeMismatchError) Error() string {
	return io.Sf("field %q of evaluator %q has layout %s but storage has %s", o.Tag, o.Evaluator, o.Declared, o.Allocated)
}

// WorksetEvaluationError is returned when an evaluator fails during a workset
type WorksetEvaluationError struct {
	Evaluator string
	Workset   int
	Kind      Kind
	Err       error
}

func (o *WorksetEvaluationError) Error() string {
	return io.Sf("evaluator %q failed on workset %d (%v):\n%v", o.Evaluator, o.Workset, o.Kind, o.Err)
}

func (o *WorksetEvaluationError) Unwrap() error { return o.Err }

// SetupError is returned by Finalize when an evaluator cannot bind its fields
type SetupError struct {
	Manager   string
	Evaluator string
	Kind      Kind
	Err       error
}

func (o *SetupError) Error() string {
	return io.Sf("field manager %q cannot set up evaluator %q (%v):\n%v", o.Manager, o.Evaluator, o.Kind, o.Err)
}

func (o *SetupError) Unwrap() error { return o.Err }

// GraphFrozenError is returned when fields are declared after registration
type GraphFrozenError struct {
	Evaluator string
	Tag       string
}

func (o *GraphFrozenError) Error() string {
	return io.Sf("cannot declare field %s in %q after it has been registered", o.Tag, o.Evaluator)
}

// KindMismatchError is returned when the evaluators of one kind differ from
// the evaluators of the first kind
type KindMismatchError struct {
	Kind      Kind
	Evaluator string
	Reason    string
}

func (o *KindMismatchError) Error() string {
	return io.Sf("evaluators of kind %v do not match the first kind at %q: %s", o.Kind, o.Evaluator, o.Reason)
}
