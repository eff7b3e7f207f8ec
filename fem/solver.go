// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solver implements the actual solver (time loop)
type Solver interface {
	Run(tf, dt float64) (err error)
}

// allocators holds all available solvers
var allocators = map[string]func(dom *Domain, sum *Summary) Solver{
	"imp": func(dom *Domain, sum *Summary) Solver { return &Implicit{Dom: dom, Sum: sum} },
}

// NewSolver returns a solver by name
func NewSolver(name string, dom *Domain, sum *Summary) (Solver, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", name)
	}
	return alloc(dom, sum), nil
}

// Summary records the responses at output times. Output happens at the first accepted
// step reaching each multiple of Control.DtOut and at the final time
type Summary struct {
	Times  []float64            // output times
	Resps  map[string][]float64 // response name => values at output times
	Nsteps int                  // number of accepted steps
	Nits   int                  // total number of Newton iterations
	Ndiv   int                  // number of rejected steps
}

// NewSummary returns a new summary
func NewSummary() *Summary {
	return &Summary{Resps: make(map[string][]float64)}
}

// record appends the values at an output time
func (o *Summary) record(t float64, resps map[string]float64) {
	o.Times = append(o.Times, t)
	for name, v := range resps {
		o.Resps[name] = append(o.Resps[name], v)
	}
}

// Implicit solves with backward Euler steps and Newton iterations. If divergence
// control is on, a failed step is rejected and repeated with half the time step
type Implicit struct {
	Dom *Domain  // domain
	Sum *Summary // summary; may be nil
}

// Run runs the time loop from the current time up to tf
func (o *Implicit) Run(tf, dt float64) (err error) {
	d := o.Dom
	dat := d.Prob.Solver
	ndiv := 0
	Δt := dt
	t := d.Sol.T
	tol := 1e-10 * max(1, math.Abs(tf))
	dtout := d.Prob.Control.DtOut
	if dtout <= 0 {
		dtout = dt
	}
	tout := t + dtout
	for t < tf-tol {

		// new step
		Δt = min(Δt, tf-t)
		d.backup()
		d.Sol.T = t + Δt
		d.Sol.Dt = Δt
		d.EssenBcs.Apply(d.Sol.Y, d.Sol.T)
		if d.ShowMsg {
			io.Pf("> t = %g, Δt = %g\n", d.Sol.T, Δt)
		}

		// iterations
		nit, errNewton := o.newton(dat)
		if o.Sum != nil {
			o.Sum.Nits += nit
		}
		if errNewton != nil {
			if !dat.DvgCtrl {
				return chk.Err("step to t = %g failed:\n%v", d.Sol.T, errNewton)
			}
			d.restore()
			ndiv++
			Δt /= 2
			if o.Sum != nil {
				o.Sum.Ndiv++
			}
			if ndiv > dat.NdvgMax || Δt < dat.DtMin {
				return chk.Err("divergence control failed after %d reductions (Δt = %g):\n%v", ndiv, Δt, errNewton)
			}
			if d.ShowMsg {
				io.Pforan(">> step rejected; trying again with Δt = %g\n", Δt)
			}
			continue
		}

		// accept step
		resps, err := d.EvalResponses()
		if err != nil {
			return err
		}
		d.States.AcceptStep()
		t = d.Sol.T
		if o.Sum != nil {
			o.Sum.Nsteps++
			if t >= tout-tol || t >= tf-tol {
				o.Sum.record(t, resps)
				for tout <= t+tol {
					tout += dtout
				}
			}
		}
		ndiv = 0
		Δt = dt
	}
	return
}

// newton runs Newton iterations at the current time. The residual is evaluated
// after each update so the saved states correspond to the converged solution.
// Iterations stop when the residual is below FbTol or when every |ΔY| is below
// Itol·(Atol + Rtol·|Y|)
func (o *Implicit) newton(dat *inp.SolverData) (nit int, err error) {
	d := o.Dom
	var lu mat.LU
	var dy mat.VecDense
	rhs := mat.NewVecDense(d.Ny, nil)
	prev := 0.0
	converged := false
	for it := 0; ; it++ {

		// residual
		if err = d.AssembleResidual(); err != nil {
			return
		}
		fb := floats.Norm(d.Fb, math.Inf(1))
		if dat.ShowR && d.ShowMsg {
			io.Pf("%13s%4d%23.15e\n", "", it, fb)
		}
		if math.IsNaN(fb) || math.IsInf(fb, 0) {
			return it, chk.Err("residual is not finite at iteration %d", it)
		}
		if fb < dat.FbMin || fb < dat.FbTol || converged {
			return it, nil
		}
		if it == dat.NmaxIt {
			return it, chk.Err("Newton did not converge after %d iterations. |R| = %g", it, fb)
		}
		if dat.DvgCtrl && it > 1 && fb > prev {
			return it, chk.Err("Newton is diverging at iteration %d. |R| = %g > %g", it, fb, prev)
		}
		prev = fb

		// Jacobian
		if err = d.AssembleJacobian(); err != nil {
			return
		}
		K, err := d.DenseJacobian()
		if err != nil {
			return it, err
		}
		lu.Factorize(K)

		// solve K·ΔY = -R
		for i, r := range d.Fb {
			rhs.SetVec(i, -r)
		}
		if err = lu.SolveVecTo(&dy, false, rhs); err != nil {
			return it, chk.Err("cannot solve linear system:\n%v", err)
		}

		// update
		converged = true
		for i := range d.Sol.Y {
			d.Sol.ΔY[i] = dy.AtVec(i)
			d.Sol.Y[i] += d.Sol.ΔY[i]
			if math.Abs(d.Sol.ΔY[i]) > dat.Itol*(dat.Atol+dat.Rtol*math.Abs(d.Sol.Y[i])) {
				converged = false
			}
		}
	}
}
