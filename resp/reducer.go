// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resp implements responses: functionals computed cell by cell and
// reduced over worksets and partitions
package resp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Op is a reduction operation
type Op int

// operations
const (
	Sum Op = iota // sum of contributions
	Max           // largest contribution
)

// String returns the name of the operation
func (o Op) String() string {
	if o == Max {
		return "max"
	}
	return "sum"
}

// identity returns the neutral value of the operation
func (o Op) identity() float64 {
	if o == Max {
		return math.Inf(-1)
	}
	return 0
}

// Reducer combines values across partitions, in place
type Reducer interface {
	Reduce(op Op, vals []float64) error
}

// Serial is the reducer of a single partition
type Serial struct{}

// Reduce does nothing because the values are already complete
func (o Serial) Reduce(op Op, vals []float64) error { return nil }

// communicator combines values of all processes; dest and orig must differ
type communicator interface {
	AllReduceSum(dest, orig []float64)
	AllReduceMax(dest, orig []float64)
}

// MPI reduces values across all MPI processes
type MPI struct {
	comm communicator
	work []float64 // local values sent to the other processes
}

// NewMPI returns a reducer over all processes; MPI must be on
func NewMPI() (o *MPI, err error) {
	if !mpi.IsOn() {
		return nil, chk.Err("MPI reducer requires MPI to be on")
	}
	return &MPI{comm: mpi.NewCommunicator(nil)}, nil
}

// Reduce combines vals with the values of all other processes
func (o *MPI) Reduce(op Op, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	if len(o.work) != len(vals) {
		o.work = make([]float64, len(vals))
	}
	copy(o.work, vals)
	switch op {
	case Sum:
		o.comm.AllReduceSum(vals, o.work)
	case Max:
		o.comm.AllReduceMax(vals, o.work)
	default:
		return chk.Err("reduction %v is not available", op)
	}
	return nil
}

// NewReducer returns the MPI reducer if more than one process is running and
// the serial reducer otherwise
func NewReducer() Reducer {
	if mpi.IsOn() && mpi.WorldSize() > 1 {
		r, err := NewMPI()
		if err == nil {
			return r
		}
	}
	return Serial{}
}
