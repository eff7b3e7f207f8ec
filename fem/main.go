// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the finite element side of the evaluators engine:
// mesh generation, worksets, assembly and the time loop
package fem

import (
	"sort"
	"time"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

// Main holds all data for a simulation using the finite element method
type Main struct {
	Prob    *inp.Problem // problem data
	Summary *Summary     // results of accepted steps
	Dom     *Domain      // domain
	Solver  Solver       // time loop
	Nproc   int          // number of processors
	Proc    int          // processor id
	ShowMsg bool         // show messages
}

// NewMain returns a new Main structure
//  Input:
//   filename      -- problem (.sim, .json or .hcl) filename including full path
//   allowParallel -- allow parallel execution; otherwise, run in serial mode regardless whether MPI is on or not
//   verbose       -- show messages
func NewMain(filename string, allowParallel, verbose bool) (o *Main, err error) {
	prob, err := inp.ReadProblem(filename)
	if err != nil {
		return
	}
	return NewMainFromProblem(prob, allowParallel, verbose)
}

// NewMainFromProblem returns a new Main structure from problem data
func NewMainFromProblem(prob *inp.Problem, allowParallel, verbose bool) (o *Main, err error) {

	// multiprocessing data
	o = &Main{Prob: prob, Nproc: 1}
	if mpi.IsOn() && allowParallel {
		o.Proc = mpi.WorldRank()
		o.Nproc = mpi.WorldSize()
	}
	o.ShowMsg = (verbose || prob.Data.Verbose) && o.Proc == 0
	if o.ShowMsg {
		io.Pf("> Problem %q read\n", prob.Key)
	}

	// domain and solver
	o.Summary = NewSummary()
	if o.Dom, err = NewDomain(prob, o.Proc, o.Nproc, o.ShowMsg); err != nil {
		return nil, chk.Err("cannot allocate domain:\n%v", err)
	}
	if o.Solver, err = NewSolver(prob.Solver.Type, o.Dom, o.Summary); err != nil {
		return nil, err
	}
	return
}

// Run runs the simulation
func (o *Main) Run() (err error) {
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()
	if o.ShowMsg {
		io.Pf("> Running FE solver\n")
	}
	return o.Solver.Run(o.Prob.Control.Tf, o.Prob.Control.Dt)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints the final message with cpu time and responses
func (o *Main) onexit(cputime time.Time, prevErr error) error {
	if !o.ShowMsg {
		return prevErr
	}
	if prevErr != nil {
		io.PfRed("> Failed\n")
		return prevErr
	}
	io.PfGreen("> Success\n")
	io.Pf("> CPU time = %v\n", time.Since(cputime))
	io.Pf("> steps = %d, iterations = %d, rejected = %d\n", o.Summary.Nsteps, o.Summary.Nits, o.Summary.Ndiv)
	names := make([]string, 0, len(o.Summary.Resps))
	for name := range o.Summary.Resps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vals := o.Summary.Resps[name]
		io.Pf("> %s = %g\n", name, vals[len(vals)-1])
	}
	return nil
}
