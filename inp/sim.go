// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from (.sim or .json) JSON files and
// (.hcl) HCL files
package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Data holds global data for simulations
type Data struct {
	Desc        string   `json:"desc"        hcl:"desc,optional"`        // description of simulation
	Verbose     bool     `json:"verbose"     hcl:"verbose,optional"`     // show messages
	Steady      bool     `json:"steady"      hcl:"steady,optional"`      // steady simulation; one step without rate terms
	Threads     int      `json:"threads"     hcl:"threads,optional"`     // number of goroutines in cell loops
	WorksetSize int      `json:"worksetsize" hcl:"worksetsize,optional"` // max number of cells per workset; 0 means all cells
	Kinds       []string `json:"kinds"       hcl:"kinds,optional"`       // evaluation kinds; e.g. ["residual", "jacobian"]
	Unknown     string   `json:"unknown"     hcl:"unknown,optional"`     // name of the unknown field; e.g. "Temperature"
	Residual    string   `json:"residual"    hcl:"residual,optional"`    // name of the residual field
	Graph       string   `json:"graph"       hcl:"graph,optional"`       // file to write the evaluators graph (DOT); empty means none
}

// MeshData holds the data of the generated mesh
type MeshData struct {
	Type string  `json:"type" hcl:"type"`          // "lin2" or "qua4"
	Nx   int     `json:"nx"   hcl:"nx"`            // number of cells along x
	Ny   int     `json:"ny"   hcl:"ny,optional"`   // number of cells along y ("qua4")
	Lx   float64 `json:"lx"   hcl:"lx"`            // length along x
	Ly   float64 `json:"ly"   hcl:"ly,optional"`   // length along y ("qua4")
	Nip  int     `json:"nip"  hcl:"nip,optional"`  // number of integration points; 0 means default
}

// PrmData holds one parameter
type PrmData struct {
	N string  `json:"n" hcl:"n"` // name
	V float64 `json:"v" hcl:"v"` // value
}

// MatData holds material data
type MatData struct {
	Name  string     `json:"name"  hcl:"name,label"` // name of material
	Model string     `json:"model" hcl:"model"`      // name of model; e.g. "m1"
	Prms  []*PrmData `json:"prms"  hcl:"prm,block"`  // parameters
}

// EvalData holds the definition of one evaluator. Fields maps the roles of the
// evaluator to field names; roles that are not given take default names
type EvalData struct {
	Type   string            `json:"type"   hcl:"type,label"`      // type of evaluator; e.g. "gather", "heat"
	Name   string            `json:"name"   hcl:"name,optional"`   // optional name
	Fields map[string]string `json:"fields" hcl:"fields,optional"` // role => field name
	Mat    string            `json:"mat"    hcl:"mat,optional"`    // material name
	Func   string            `json:"func"   hcl:"func,optional"`   // function name
	State  string            `json:"state"  hcl:"state,optional"`  // state variable name
	Prms   []*PrmData        `json:"prms"   hcl:"prm,block"`       // extra parameters
}

// StateData holds the definition of a state variable
type StateData struct {
	Name   string  `json:"name"   hcl:"name,label"`      // name
	Layout string  `json:"layout" hcl:"layout,optional"` // layout; e.g. "qp_scalar" (default)
	Init   float64 `json:"init"   hcl:"init,optional"`   // initial value
	Output bool    `json:"output" hcl:"output,optional"` // output only
}

// RespData holds the definition of a response
type RespData struct {
	Name    string  `json:"name"    hcl:"name,label"`       // name of response; also the name of its output field
	Type    string  `json:"type"    hcl:"type"`             // "integral" or "max"
	Field   string  `json:"field"   hcl:"field,optional"`   // field at integration points; empty means volume in "integral"
	Weights string  `json:"weights" hcl:"weights,optional"` // weighted measure; default "Weights"
	Scale   float64 `json:"scale"   hcl:"scale,optional"`   // multiplier; 0 means 1
}

// NodeBcData holds an essential boundary condition applied to the vertices with a tag
type NodeBcData struct {
	Tag  int    `json:"tag"  hcl:"tag"`  // vertex tag; e.g. -1
	Func string `json:"func" hcl:"func"` // function of time and space; e.g. "zero"
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf"    hcl:"tf,optional"`    // final time
	Dt    float64 `json:"dt"    hcl:"dt,optional"`    // time step size
	DtOut float64 `json:"dtout" hcl:"dtout,optional"` // time step size for output
}

// SolverData holds FEM solver data. In HCL files, numeric fields that are not
// given take default values but dvgctrl must be set explicitly
type SolverData struct {
	Type    string  `json:"type"    hcl:"type,optional"`    // solver type; "imp" (implicit Newton)
	NmaxIt  int     `json:"nmaxit"  hcl:"nmaxit,optional"`  // number of max iterations
	Atol    float64 `json:"atol"    hcl:"atol,optional"`    // absolute tolerance
	Rtol    float64 `json:"rtol"    hcl:"rtol,optional"`    // relative tolerance
	FbTol   float64 `json:"fbtol"   hcl:"fbtol,optional"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"   hcl:"fbmin,optional"`   // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl" hcl:"dvgctrl,optional"` // use divergence control
	NdvgMax int     `json:"ndvgmax" hcl:"ndvgmax,optional"` // max number of step reductions
	DtMin   float64 `json:"dtmin"   hcl:"dtmin,optional"`   // minimum value of Dt
	ShowR   bool    `json:"showr"   hcl:"showr,optional"`   // show residual

	// constants
	Eps float64 `json:"eps" hcl:"eps,optional"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// Problem holds all input data of a simulation
type Problem struct {
	Data       *Data         `json:"data"       hcl:"data,block"`
	Mesh       *MeshData     `json:"mesh"       hcl:"mesh,block"`
	Functions  FuncsData     `json:"functions"  hcl:"function,block"`
	Materials  []*MatData    `json:"materials"  hcl:"material,block"`
	Evaluators []*EvalData   `json:"evaluators" hcl:"evaluator,block"`
	States     []*StateData  `json:"states"     hcl:"state,block"`
	Responses  []*RespData   `json:"responses"  hcl:"response,block"`
	NodeBcs    []*NodeBcData `json:"nodebcs"    hcl:"nodebc,block"`
	Control    *TimeControl  `json:"control"    hcl:"control,block"`
	Solver     *SolverData   `json:"solver"     hcl:"solver,block"`

	// derived
	Key string // simulation key; e.g. mysim01.sim => mysim01
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {
	o.Type = "imp"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.DvgCtrl = true
	o.NdvgMax = 10
	o.DtMin = 1e-8
	o.Eps = 1e-16
}

// fillZeros sets default values to the numeric fields that were not given
func (o *SolverData) fillZeros() {
	var def SolverData
	def.SetDefault()
	setInt := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	setFloat := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	if o.Type == "" {
		o.Type = def.Type
	}
	setInt(&o.NmaxIt, def.NmaxIt)
	setInt(&o.NdvgMax, def.NdvgMax)
	setFloat(&o.Atol, def.Atol)
	setFloat(&o.Rtol, def.Rtol)
	setFloat(&o.FbTol, def.FbTol)
	setFloat(&o.FbMin, def.FbMin)
	setFloat(&o.DtMin, def.DtMin)
	setFloat(&o.Eps, def.Eps)
}

// PostProcess computes derived values
func (o *SolverData) PostProcess() {
	o.Itol = max(10.0*o.Eps/o.Rtol, min(0.01, math.Sqrt(o.Rtol)))
}

// ReadProblem reads a problem file. The format is selected by the extension:
// .sim and .json are JSON files; .hcl are HCL files
func ReadProblem(filename string) (o *Problem, err error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, chk.Err("cannot read problem file %q:\n%v", filename, err)
	}
	return ParseProblem(filename, b)
}

// ParseProblem parses the contents of a problem file; filename selects the format
func ParseProblem(filename string, src []byte) (o *Problem, err error) {

	// new problem with default solver data
	o = new(Problem)
	o.Solver = new(SolverData)
	o.Solver.SetDefault()

	// decode
	ext := filepath.Ext(filename)
	switch ext {
	case ".sim", ".json":
		if err = json.Unmarshal(src, o); err != nil {
			return nil, chk.Err("cannot unmarshal problem file %q:\n%v", filename, err)
		}
	case ".hcl":
		file, diags := hclparse.NewParser().ParseHCL(src, filename)
		if diags.HasErrors() {
			return nil, chk.Err("cannot parse problem file %q:\n%v", filename, diags)
		}
		if diags = gohcl.DecodeBody(file.Body, evalContext(), o); diags.HasErrors() {
			return nil, chk.Err("cannot decode problem file %q:\n%v", filename, diags)
		}
		if o.Solver == nil {
			o.Solver = new(SolverData)
			o.Solver.SetDefault()
		} else {
			o.Solver.fillZeros()
		}
	default:
		return nil, chk.Err("extension %q of problem file %q is not supported", ext, filename)
	}
	o.Key = strings.TrimSuffix(filepath.Base(filename), ext)
	err = o.PostProcess()
	return
}

// PostProcess sets defaults and checks the problem
func (o *Problem) PostProcess() (err error) {

	// data
	if o.Data == nil {
		o.Data = new(Data)
	}
	if len(o.Data.Kinds) == 0 {
		o.Data.Kinds = []string{"residual", "jacobian"}
	}
	if o.Data.Unknown == "" {
		o.Data.Unknown = "Temperature"
	}
	if o.Data.Residual == "" {
		o.Data.Residual = o.Data.Unknown + " Residual"
	}

	// mesh
	if o.Mesh == nil {
		return chk.Err("mesh data must be given")
	}
	if o.Mesh.Nip == 0 {
		switch o.Mesh.Type {
		case "lin2":
			o.Mesh.Nip = 2
		case "qua4":
			o.Mesh.Nip = 4
		}
	}

	// control
	if o.Control == nil {
		o.Control = new(TimeControl)
	}
	if o.Data.Steady {
		if o.Control.Tf == 0 {
			o.Control.Tf = 1
		}
		o.Control.Dt = o.Control.Tf
	}
	if o.Control.Dt <= 0 {
		return chk.Err("time step must be positive. dt = %g is invalid", o.Control.Dt)
	}
	if o.Control.DtOut <= 0 {
		o.Control.DtOut = o.Control.Dt
	}

	// states and responses
	for _, s := range o.States {
		if s.Layout == "" {
			s.Layout = "qp_scalar"
		}
	}
	for _, r := range o.Responses {
		if r.Weights == "" {
			r.Weights = "Weights"
		}
		if r.Scale == 0 {
			r.Scale = 1
		}
	}

	// evaluators
	if len(o.Evaluators) == 0 {
		return chk.Err("at least one evaluator must be given")
	}
	for _, e := range o.Evaluators {
		if e.Fields == nil {
			e.Fields = make(map[string]string)
		}
	}

	// solver
	o.Solver.PostProcess()
	return
}

// Field returns the field name of a role or def if the role was not given
func (o *EvalData) Field(role, def string) string {
	if name, ok := o.Fields[role]; ok {
		return name
	}
	return def
}

// GetMat returns a material by name
func (o *Problem) GetMat(name string) (*MatData, error) {
	for _, m := range o.Materials {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, chk.Err("cannot find material named %q", name)
}

// evalContext returns the variables available to expressions in HCL files
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi": cty.NumberFloatVal(math.Pi),
		},
	}
}
