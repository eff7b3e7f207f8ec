// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// FieldManager holds the evaluators of all evaluation kinds, the storage of
// their fields and the order in which they run
type FieldManager struct {

	// input
	Name        string // name used in messages
	WorksetSize int    // max number of cells in a workset
	Verbose     bool   // show messages

	// kinds
	kinds []Kind
	sets  map[Kind]kindSet

	// graph
	external []Tag  // fields supplied through Workset.Inputs
	required []Tag  // fields that must be evaluated; empty means all
	graph    *graph // resolved graph of the first kind
	active   []int  // evaluators to run, in order
	final    bool   // Finalize was called and nothing changed since
}

// kindSet holds the evaluators and the storage of one kind
type kindSet interface {
	nodes() []EvalNode
	finalize(tags []Tag, order []int) error
	evaluate(active []int, external []Tag, ws *Workset) error
	pre(active []int) error
	post(active []int) error
}

// NewFieldManager returns a new field manager for the given kinds
func NewFieldManager(name string, worksetSize int, kinds ...Kind) (o *FieldManager) {
	if worksetSize < 1 {
		chk.Panic("field manager %q: workset size must be positive. %d is invalid", name, worksetSize)
	}
	if len(kinds) == 0 {
		chk.Panic("field manager %q: at least one evaluation kind must be given", name)
	}
	o = &FieldManager{Name: name, WorksetSize: worksetSize, kinds: kinds, sets: make(map[Kind]kindSet)}
	return
}

// Kinds returns the evaluation kinds
func (o *FieldManager) Kinds() []Kind { return o.kinds }

// Add registers an evaluator for the given kind. The scalar type T must be the
// one of kind. After this call, the evaluator cannot declare new fields
func Add[T ad.Number[T]](o *FieldManager, kind Kind, e Evaluator[T]) (err error) {
	if !o.hasKind(kind) {
		return chk.Err("field manager %q does not run evaluation kind %v", o.Name, kind)
	}
	if err = checkScalar[T](kind); err != nil {
		return chk.Err("cannot add evaluator %q to field manager %q:\n%v", e.Name(), o.Name, err)
	}
	set, ok := o.sets[kind]
	if !ok {
		set = &evalSet[T]{kind: kind}
		o.sets[kind] = set
	}
	s := set.(*evalSet[T])
	e.base().frozen = true
	s.evals = append(s.evals, e)
	o.final = false
	return
}

// MarkExternal marks fields that are supplied by the caller through Workset.Inputs
func (o *FieldManager) MarkExternal(tags ...Tag) {
	o.external = append(o.external, tags...)
	o.final = false
}

// Require restricts evaluation to the evaluators needed to compute tags
func (o *FieldManager) Require(tags ...Tag) {
	o.required = append(o.required, tags...)
	o.final = false
}

// Finalize resolves the dependency graph, allocates the fields of every kind and
// binds the evaluators. Calling it again without changes does nothing
func (o *FieldManager) Finalize() (err error) {
	if o.final {
		return
	}

	// reference kind
	first, ok := o.sets[o.kinds[0]]
	if !ok {
		return chk.Err("field manager %q has no evaluators of kind %v", o.Name, o.kinds[0])
	}
	nodes := first.nodes()
	for _, kind := range o.kinds[1:] {
		set, ok := o.sets[kind]
		if !ok {
			return chk.Err("field manager %q has no evaluators of kind %v", o.Name, kind)
		}
		if err = compareNodes(kind, nodes, set.nodes()); err != nil {
			return
		}
	}

	// graph
	o.graph, err = newGraph(nodes, o.external)
	if err != nil {
		return
	}
	o.active, err = o.graph.needed(o.required)
	if err != nil {
		return
	}

	// storage
	tags, err := o.collectTags(nodes)
	if err != nil {
		return
	}
	for _, kind := range o.kinds {
		if err = o.sets[kind].finalize(tags, o.graph.order); err != nil {
			if serr, ok := err.(*SetupError); ok {
				serr.Manager = o.Name
			}
			return
		}
	}
	o.final = true

	// message
	if o.Verbose {
		io.Pf("> field manager %q: %d evaluators (%d active), %d fields, kinds %v\n", o.Name, len(nodes), len(o.active), len(tags), o.kinds)
	}
	return
}

// Order returns the names of the evaluators that run, in order
func (o *FieldManager) Order() (names []string) {
	if o.graph == nil {
		return
	}
	for _, i := range o.active {
		names = append(names, o.graph.nodes[i].Name())
	}
	return
}

// Evaluate runs the evaluators of kind over one workset. Fields with a Cell
// dimension are zeroed first; the evaluation stops at the first failure
func (o *FieldManager) Evaluate(kind Kind, ws *Workset) (err error) {
	set, err := o.ready(kind)
	if err != nil {
		return
	}
	if ws.NumCells > o.WorksetSize {
		return chk.Err("workset %d has %d cells but field manager %q was sized for %d", ws.Index, ws.NumCells, o.Name, o.WorksetSize)
	}
	return set.evaluate(o.active, o.external, ws)
}

// PreEvaluate calls PreEvaluate of the evaluators of kind that implement it
func (o *FieldManager) PreEvaluate(kind Kind) (err error) {
	set, err := o.ready(kind)
	if err != nil {
		return
	}
	return set.pre(o.active)
}

// PostEvaluate calls PostEvaluate of the evaluators of kind that implement it
func (o *FieldManager) PostEvaluate(kind Kind) (err error) {
	set, err := o.ready(kind)
	if err != nil {
		return
	}
	return set.post(o.active)
}

// Get returns a read-only view of a field of kind
func Get[T ad.Number[T]](o *FieldManager, kind Kind, tag Tag) (v In[T], err error) {
	set, err := o.ready(kind)
	if err != nil {
		return
	}
	s, ok := set.(*evalSet[T])
	if !ok {
		var z T
		return v, chk.Err("scalar type %T cannot be used with evaluation kind %v", z, kind)
	}
	f, err := s.arena.find(tag, "field manager "+o.Name)
	if err != nil {
		return
	}
	return In[T]{f}, nil
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *FieldManager) hasKind(kind Kind) bool {
	for _, k := range o.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (o *FieldManager) ready(kind Kind) (kindSet, error) {
	if !o.final {
		return nil, chk.Err("field manager %q must be finalized before evaluation", o.Name)
	}
	set, ok := o.sets[kind]
	if !ok {
		return nil, chk.Err("field manager %q does not run evaluation kind %v", o.Name, kind)
	}
	return set, nil
}

// collectTags returns all distinct tags and checks the batch size of layouts
func (o *FieldManager) collectTags(nodes []EvalNode) (tags []Tag, err error) {
	seen := make(map[string]bool)
	add := func(t Tag, owner string) error {
		if seen[t.Key()] {
			return nil
		}
		seen[t.Key()] = true
		if t.Layout.HasCell() && t.Layout.Size(0) != o.WorksetSize {
			return &ShapeMismatchError{owner, t.Name, t.Layout.String(), io.Sf("<Cell,...>(%d,...)", o.WorksetSize)}
		}
		tags = append(tags, t)
		return nil
	}
	for _, t := range o.external {
		if err = add(t, "external"); err != nil {
			return
		}
	}
	for _, n := range nodes {
		for _, t := range n.Evaluated() {
			if err = add(t, n.Name()); err != nil {
				return
			}
		}
	}
	return
}

// compareNodes checks that the evaluators of kind match the reference ones
func compareNodes(kind Kind, ref, nodes []EvalNode) error {
	if len(ref) != len(nodes) {
		return &KindMismatchError{kind, "", io.Sf("%d evaluators instead of %d", len(nodes), len(ref))}
	}
	same := func(a, b []Tag) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	}
	for i, n := range nodes {
		if n.Name() != ref[i].Name() {
			return &KindMismatchError{kind, n.Name(), io.Sf("expected %q at position %d", ref[i].Name(), i)}
		}
		if !same(n.Dependents(), ref[i].Dependents()) {
			return &KindMismatchError{kind, n.Name(), "dependent fields differ"}
		}
		if !same(n.Evaluated(), ref[i].Evaluated()) {
			return &KindMismatchError{kind, n.Name(), "evaluated fields differ"}
		}
	}
	return nil
}

// evalSet holds the evaluators and fields of one kind with scalar T
type evalSet[T ad.Number[T]] struct {
	kind  Kind
	evals []Evaluator[T]
	arena *arena[T]
}

func (o *evalSet[T]) nodes() []EvalNode {
	res := make([]EvalNode, len(o.evals))
	for i, e := range o.evals {
		res[i] = e
	}
	return res
}

func (o *evalSet[T]) finalize(tags []Tag, order []int) (err error) {
	o.arena = newArena[T](tags)
	for _, i := range order {
		e := o.evals[i]
		if err = e.Setup(newBinder(o.arena, e)); err != nil {
			return &SetupError{Evaluator: e.Name(), Kind: o.kind, Err: err}
		}
	}
	return
}

func (o *evalSet[T]) evaluate(active []int, external []Tag, ws *Workset) (err error) {
	o.arena.clearBatch()
	for _, t := range external {
		if err = o.load(t, ws); err != nil {
			return &WorksetEvaluationError{"external fields", ws.Index, o.kind, err}
		}
	}
	for _, i := range active {
		e := o.evals[i]
		if err = run(e, ws); err != nil {
			return &WorksetEvaluationError{e.Name(), ws.Index, o.kind, err}
		}
	}
	return
}

// load copies the values of an external field from the workset
func (o *evalSet[T]) load(t Tag, ws *Workset) (err error) {
	if t.Layout.IsDummy() {
		return
	}
	vals, ok := ws.Inputs[t.Name]
	if !ok {
		return chk.Err("workset does not supply external field %q", t.Name)
	}
	f, err := o.arena.find(t, "external")
	if err != nil {
		return
	}
	n := len(f.data)
	if t.Layout.HasCell() {
		n = ws.NumCells * t.Layout.PerCell()
	}
	if len(vals) < n {
		return chk.Err("external field %q has %d values but %d are needed", t.Name, len(vals), n)
	}
	var z T
	for i := 0; i < n; i++ {
		f.data[i] = z.Lift(vals[i])
	}
	return
}

func (o *evalSet[T]) pre(active []int) (err error) {
	for _, i := range active {
		if p, ok := o.evals[i].(PreEvaluator); ok {
			if err = p.PreEvaluate(); err != nil {
				return chk.Err("pre-evaluation of %q (%v) failed:\n%v", o.evals[i].Name(), o.kind, err)
			}
		}
	}
	return
}

func (o *evalSet[T]) post(active []int) (err error) {
	for _, i := range active {
		if p, ok := o.evals[i].(PostEvaluator); ok {
			if err = p.PostEvaluate(); err != nil {
				return chk.Err("post-evaluation of %q (%v) failed:\n%v", o.evals[i].Name(), o.kind, err)
			}
		}
	}
	return
}

// run calls Evaluate and converts panics into errors
func run[T any](e Evaluator[T], ws *Workset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("panic: %v", r)
		}
	}()
	return e.Evaluate(ws)
}
