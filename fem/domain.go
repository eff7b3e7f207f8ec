// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"os"

	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gofield/mdl/diffusion"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gofield/resp"
	"github.com/cpmech/gofield/state"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Solution holds the solution at nodes
type Solution struct {
	T  float64   // current time
	Dt float64   // current time step
	Y  []float64 // [ny] unknowns
	ΔY []float64 // [ny] last Newton increment
}

// Domain holds the cells of this processor, the field managers running the
// evaluators and the global residual and Jacobian
type Domain struct {

	// input
	Prob    *inp.Problem // problem data
	Msh     *Mesh        // generated mesh
	Proc    int          // this processor number
	Nproc   int          // number of processors
	Distr   bool         // distributed run
	ShowMsg bool         // show messages

	// engine
	Dl     *phx.Layouts      // layouts
	Kinds  []phx.Kind        // evaluation kinds
	Fm     *phx.FieldManager // evaluators of the residual and its derivatives
	Rm     *phx.FieldManager // evaluators of responses; nil if there are none
	States *state.Manager    // state variables
	Red    resp.Reducer      // combines values of all processors
	Wss    []*phx.Workset    // worksets of this processor

	// fields
	Resid phx.Tag   // <Cell,Node> residual
	Saved []phx.Tag // saved states
	Resps []phx.Tag // responses

	// boundary conditions
	EssenBcs EssentialBcs

	// solution and linear system
	Ny  int         // number of equations
	Sol *Solution   // solution
	Fb  la.Vector   // [ny] residual R
	Kb  *la.Triplet // [ny][ny] Jacobian dR/dy

	// auxiliary
	models map[string]*diffusion.M1 // material name => model
	bkpSol *Solution                // backup solution for divergence control
}

// NewDomain allocates a domain and its field managers
//  Input:
//   prob  -- problem data
//   proc  -- this processor number
//   nproc -- number of processors; worksets are distributed among them
func NewDomain(prob *inp.Problem, proc, nproc int, verbose bool) (o *Domain, err error) {

	// new domain
	o = &Domain{Prob: prob, Proc: proc, Nproc: nproc, Distr: nproc > 1, ShowMsg: verbose && proc == 0}
	o.models = make(map[string]*diffusion.M1)
	o.Msh, err = NewMesh(prob.Mesh)
	if err != nil {
		return nil, err
	}
	ncells := len(o.Msh.Cells)

	// layouts and worksets
	size := prob.Data.WorksetSize
	if size < 1 || size > ncells {
		size = ncells
	}
	o.Dl = phx.NewLayouts(size, o.Msh.Nnode(), prob.Mesh.Nip, o.Msh.Ndim)
	o.Wss = NewWorksets(o.Msh, size, prob.Data.Threads, proc, nproc)
	o.Red = resp.Serial{}
	if o.Distr {
		o.Red = resp.NewReducer()
	}

	// kinds
	for _, name := range prob.Data.Kinds {
		kind, err := phx.KindByName(name)
		if err != nil {
			return nil, err
		}
		o.Kinds = append(o.Kinds, kind)
	}
	if !o.hasKind(phx.Residual) || !o.hasKind(phx.Jacobian) {
		return nil, chk.Err("kinds must include residual and jacobian. %v is invalid", prob.Data.Kinds)
	}

	// states
	o.States = state.NewManager()
	for _, s := range prob.States {
		layout, err := o.Dl.ByName(s.Layout)
		if err != nil {
			return nil, err
		}
		if _, err = o.States.Register(s.Name, layout, s.Init, Block, s.Output); err != nil {
			return nil, err
		}
	}
	if err = o.States.Allocate(Block, ncells); err != nil {
		return
	}

	// evaluators of the residual and its derivatives
	o.Fm = phx.NewFieldManager("domain", size, o.Kinds...)
	o.Fm.Verbose = o.ShowMsg
	for _, kind := range o.Kinds {
		var reg registry
		if kind == phx.Residual {
			reg, err = addEvaluators[ad.Real](o, o.Fm, kind, false)
		} else {
			reg, err = addEvaluators[ad.Dual](o, o.Fm, kind, false)
		}
		if err != nil {
			return
		}
		o.Saved = reg.saved
	}
	o.Resid = phx.NewTag(prob.Data.Residual, o.Dl.NodeScalar)
	o.Fm.Require(append([]phx.Tag{o.Resid}, o.Saved...)...)
	if err = o.Fm.Finalize(); err != nil {
		return
	}

	// evaluators of responses
	if len(prob.Responses) > 0 {
		o.Rm = phx.NewFieldManager("responses", size, phx.Residual)
		o.Rm.Verbose = o.ShowMsg
		var reg registry
		if reg, err = addEvaluators[ad.Real](o, o.Rm, phx.Residual, true); err != nil {
			return
		}
		o.Resps = reg.resps
		o.Rm.Require(o.Resps...)
		if err = o.Rm.Finalize(); err != nil {
			return
		}
	}

	// graph
	if prob.Data.Graph != "" && proc == 0 {
		if err = o.writeGraph(prob.Data.Graph); err != nil {
			return
		}
	}

	// essential boundary conditions
	o.EssenBcs.Init()
	for _, nbc := range prob.NodeBcs {
		verts, ok := o.Msh.VertTag2verts[nbc.Tag]
		if !ok {
			return nil, chk.Err("cannot find vertices with tag = %d to assign node boundary conditions", nbc.Tag)
		}
		fcn, err := prob.Functions.Get(nbc.Func)
		if err != nil {
			return nil, err
		}
		for _, v := range verts {
			o.EssenBcs.Set(v.Id, fcn, v.C)
		}
	}

	// solution and linear system
	o.Ny = len(o.Msh.Verts)
	o.Sol = &Solution{Y: make([]float64, o.Ny), ΔY: make([]float64, o.Ny)}
	o.Fb = la.NewVector(o.Ny)
	nnode := o.Msh.Nnode()
	o.Kb = new(la.Triplet)
	o.Kb.Init(o.Ny, o.Ny, ncells*nnode*nnode+o.Ny)
	o.SetIniVals()

	// message
	if o.ShowMsg {
		io.Pf(">> Mesh %s with %d cells and %d vertices\n", o.Msh.GeoType, ncells, len(o.Msh.Verts))
		io.Pf(">> Number of equations = %d\n", o.Ny)
		io.Pf(">> Number of worksets in this processor = %d\n", len(o.Wss))
		io.Pf(">> Evaluators = %v\n", o.Fm.Order())
	}
	return
}

// SetIniVals sets the initial values of the unknowns; a state with the name of the
// unknown gives the initial value
func (o *Domain) SetIniVals() {
	ini := 0.0
	for _, s := range o.Prob.States {
		if s.Name == o.Prob.Data.Unknown {
			ini = s.Init
		}
	}
	o.Sol.T = 0
	for i := range o.Sol.Y {
		o.Sol.Y[i] = ini
		o.Sol.ΔY[i] = 0
	}
	o.EssenBcs.Apply(o.Sol.Y, 0)
}

// AssembleResidual evaluates the residual kind in all worksets and assembles Fb
func (o *Domain) AssembleResidual() (err error) {
	for i := range o.Fb {
		o.Fb[i] = 0
	}
	for _, ws := range o.Wss {
		o.prepare(ws, nil)
		if err = o.Fm.Evaluate(phx.Residual, ws); err != nil {
			return
		}
		r, err := phx.Get[ad.Real](o.Fm, phx.Residual, o.Resid)
		if err != nil {
			return err
		}
		for c := 0; c < ws.NumCells; c++ {
			for n, I := range ws.Eqs[c] {
				o.Fb[I] += r.At2(c, n).Val()
			}
		}
	}
	if err = o.Red.Reduce(resp.Sum, o.Fb); err != nil {
		return
	}
	for _, bc := range o.EssenBcs.Bcs {
		o.Fb[bc.Eq] = o.Sol.Y[bc.Eq] - bc.Value(o.Sol.T)
	}
	return
}

// LocalJacobians evaluates the Jacobian kind in a workset and returns the
// [nnode][nnode] matrix of each cell
func (o *Domain) LocalJacobians(ws *phx.Workset) (ks []*mat.Dense, err error) {
	o.prepare(ws, nil)
	if err = o.Fm.Evaluate(phx.Jacobian, ws); err != nil {
		return
	}
	r, err := phx.Get[ad.Dual](o.Fm, phx.Jacobian, o.Resid)
	if err != nil {
		return
	}
	nnode := o.Dl.Nnode
	ks = make([]*mat.Dense, ws.NumCells)
	for c := range ks {
		ks[c] = mat.NewDense(nnode, nnode, nil)
		for n := 0; n < nnode; n++ {
			rn := r.At2(c, n)
			for l := 0; l < nnode; l++ {
				ks[c].Set(n, l, rn.Deriv(l))
			}
		}
	}
	return
}

// AssembleJacobian assembles the local Jacobians of all worksets into Kb
func (o *Domain) AssembleJacobian() (err error) {
	o.Kb.Start()
	for _, ws := range o.Wss {
		ks, err := o.LocalJacobians(ws)
		if err != nil {
			return err
		}
		for c, K := range ks {
			eqs := ws.Eqs[c]
			for n, I := range eqs {
				if o.EssenBcs.Has(I) {
					continue
				}
				for l, J := range eqs {
					o.Kb.Put(I, J, K.At(n, l))
				}
			}
		}
	}
	if o.Proc == 0 {
		for _, bc := range o.EssenBcs.Bcs {
			o.Kb.Put(bc.Eq, bc.Eq, 1)
		}
	}
	return
}

// DenseJacobian returns Kb as a dense matrix with the contributions of all processors
func (o *Domain) DenseJacobian() (K *mat.Dense, err error) {
	d := o.Kb.ToDense()
	K = mat.NewDense(o.Ny, o.Ny, nil)
	for i := 0; i < o.Ny; i++ {
		for j := 0; j < o.Ny; j++ {
			K.Set(i, j, d.Get(i, j))
		}
	}
	err = o.Red.Reduce(resp.Sum, K.RawMatrix().Data)
	return
}

// ApplyTangent evaluates the tangent kind along v and returns J·v. Rows of
// constrained equations return v
func (o *Domain) ApplyTangent(v []float64) (jv []float64, err error) {
	if !o.hasKind(phx.Tangent) {
		return nil, chk.Err("tangent kind is not available")
	}
	if len(v) != o.Ny {
		return nil, chk.Err("direction must have %d components. %d is invalid", o.Ny, len(v))
	}
	jv = make([]float64, o.Ny)
	for _, ws := range o.Wss {
		o.prepare(ws, v)
		err = o.Fm.Evaluate(phx.Tangent, ws)
		ws.V = nil
		if err != nil {
			return
		}
		r, err := phx.Get[ad.Dual](o.Fm, phx.Tangent, o.Resid)
		if err != nil {
			return nil, err
		}
		for c := 0; c < ws.NumCells; c++ {
			for n, I := range ws.Eqs[c] {
				if !o.EssenBcs.Has(I) {
					jv[I] += r.At2(c, n).Deriv(0)
				}
			}
		}
	}
	if err = o.Red.Reduce(resp.Sum, jv); err != nil {
		return
	}
	for _, bc := range o.EssenBcs.Bcs {
		jv[bc.Eq] = v[bc.Eq]
	}
	return
}

// EvalResponses evaluates all responses at the current solution
func (o *Domain) EvalResponses() (vals map[string]float64, err error) {
	vals = make(map[string]float64)
	if o.Rm == nil {
		return
	}
	if err = o.Rm.PreEvaluate(phx.Residual); err != nil {
		return
	}
	for _, ws := range o.Wss {
		o.prepare(ws, nil)
		if err = o.Rm.Evaluate(phx.Residual, ws); err != nil {
			return
		}
	}
	if err = o.Rm.PostEvaluate(phx.Residual); err != nil {
		return
	}
	for _, tag := range o.Resps {
		g, err := phx.Get[ad.Real](o.Rm, phx.Residual, tag)
		if err != nil {
			return nil, err
		}
		vals[tag.Name] = g.Get(0).Val()
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// prepare sets the time, the linearisation coefficients and the global vectors of a workset
func (o *Domain) prepare(ws *phx.Workset, v []float64) {
	ws.Time = o.Sol.T
	ws.Dt = o.Sol.Dt
	ws.Beta = 1
	ws.Alpha = 0
	if o.Sol.Dt > 0 {
		ws.Alpha = 1.0 / o.Sol.Dt
	}
	ws.X = o.Sol.Y
	ws.V = v
}

// hasKind tells whether the domain runs a kind
func (o *Domain) hasKind(kind phx.Kind) bool {
	for _, k := range o.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// writeGraph writes the evaluators graph to a DOT file
func (o *Domain) writeGraph(filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return chk.Err("cannot create graph file %q:\n%v", filename, err)
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	if err = o.Fm.WriteGraphviz(f); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf(">> Graph of evaluators written to %q\n", filename)
	}
	return
}

// backup saves a copy of the solution
func (o *Domain) backup() {
	if o.bkpSol == nil {
		o.bkpSol = &Solution{Y: make([]float64, o.Ny), ΔY: make([]float64, o.Ny)}
	}
	o.bkpSol.T = o.Sol.T
	o.bkpSol.Dt = o.Sol.Dt
	copy(o.bkpSol.Y, o.Sol.Y)
	copy(o.bkpSol.ΔY, o.Sol.ΔY)
}

// restore restores the solution and discards the new values of states
func (o *Domain) restore() {
	o.Sol.T = o.bkpSol.T
	o.Sol.Dt = o.bkpSol.Dt
	copy(o.Sol.Y, o.bkpSol.Y)
	copy(o.Sol.ΔY, o.bkpSol.ΔY)
	o.States.RejectStep()
}
