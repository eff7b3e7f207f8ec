// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Kind is an evaluation kind. Each kind runs the same evaluators with its own
// scalar type
type Kind int

// evaluation kinds
const (
	Residual Kind = iota // values; scalar ad.Real
	Jacobian             // values and derivatives w.r.t. the local unknowns; scalar ad.Dual
	Tangent              // values and directional derivative J·v; scalar ad.Dual
)

var kindNames = []string{"Residual", "Jacobian", "Tangent"}

// String returns the name of the kind
func (o Kind) String() string {
	if o < 0 || int(o) >= len(kindNames) {
		return io.Sf("Kind(%d)", int(o))
	}
	return kindNames[o]
}

// KindByName returns the kind given its name, e.g. "residual" or "Jacobian"
func KindByName(name string) (Kind, error) {
	switch name {
	case "residual", "Residual":
		return Residual, nil
	case "jacobian", "Jacobian":
		return Jacobian, nil
	case "tangent", "Tangent":
		return Tangent, nil
	}
	return 0, chk.Err("evaluation kind %q is not available", name)
}

// checkScalar returns an error if T is not the scalar type of kind
func checkScalar[T ad.Number[T]](kind Kind) error {
	var z T
	ok := false
	switch any(z).(type) {
	case ad.Real:
		ok = kind == Residual
	case ad.Dual:
		ok = kind == Jacobian || kind == Tangent
	}
	if !ok {
		return chk.Err("scalar type %T cannot be used with evaluation kind %v", z, kind)
	}
	return nil
}
