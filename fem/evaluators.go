// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gofield/ad"
	"github.com/cpmech/gofield/evals"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gofield/mdl/diffusion"
	"github.com/cpmech/gofield/phx"
	"github.com/cpmech/gofield/resp"
	"github.com/cpmech/gofield/state"
	"github.com/cpmech/gosl/chk"
)

// registry holds the tags produced while registering evaluators
type registry struct {
	saved []phx.Tag // dummy tags of evaluators that save states
	resps []phx.Tag // global tags of responses
}

// addEvaluators registers the evaluators of the problem for one kind. Field names
// are resolved here from the roles given in the input data. Responses are only
// added if withResps is true
func addEvaluators[T ad.Number[T]](o *Domain, fm *phx.FieldManager, kind phx.Kind, withResps bool) (reg registry, err error) {
	add := func(dat *inp.EvalData, e phx.Evaluator[T]) error {
		if dat != nil && dat.Name != "" {
			e.(interface{ SetName(string) }).SetName(dat.Name)
		}
		return phx.Add[T](fm, kind, e)
	}
	for _, dat := range o.Prob.Evaluators {
		var e phx.Evaluator[T]
		e, err = newEvaluator[T](o, kind, dat, &reg)
		if err != nil {
			return reg, chk.Err("cannot allocate evaluator of type %q:\n%v", dat.Type, err)
		}
		if err = add(dat, e); err != nil {
			return
		}
	}
	if !withResps {
		return
	}
	for _, r := range o.Prob.Responses {
		var sep *resp.Separable[T]
		sep, err = newResponse[T](o, r)
		if err != nil {
			return reg, chk.Err("cannot allocate response %q:\n%v", r.Name, err)
		}
		if err = add(nil, sep); err != nil {
			return
		}
		reg.resps = append(reg.resps, sep.GlobalTag)
	}
	return
}

// newEvaluator allocates one evaluator
func newEvaluator[T ad.Number[T]](o *Domain, kind phx.Kind, dat *inp.EvalData, reg *registry) (e phx.Evaluator[T], err error) {
	dl := o.Dl
	u := o.Prob.Data.Unknown
	switch dat.Type {

	case "gather":
		return evals.NewGatherSolution[T](kind, dl, []string{dat.Field("output", u)}, nil), nil

	case "basis":
		def := evals.DefaultBasisFields()
		names := evals.BasisFields{
			BF:      dat.Field("bf", def.BF),
			WBF:     dat.Field("wbf", def.WBF),
			GradBF:  dat.Field("gradbf", def.GradBF),
			WGradBF: dat.Field("wgradbf", def.WGradBF),
			Weights: dat.Field("weights", def.Weights),
		}
		return evals.NewComputeBasis[T](dl, o.Msh.GeoType, o.Prob.Mesh.Nip, names)

	case "interp":
		return evals.NewDOFInterpolation[T](dl, dat.Field("nodal", u), dat.Field("bf", "BF"), dat.Field("output", u)), nil

	case "grad":
		return evals.NewDOFGradInterpolation[T](dl, dat.Field("nodal", u), dat.Field("gradbf", "Grad BF"), dat.Field("output", u+" Gradient")), nil

	case "conductivity":
		m, err := o.model(dat.Mat)
		if err != nil {
			return nil, err
		}
		return evals.NewThermalConductivity[T](dl, m, dat.Field("input", u), dat.Field("output", "Thermal Conductivity")), nil

	case "source":
		fcn, err := o.Prob.Functions.Get(dat.Func)
		if err != nil {
			return nil, err
		}
		return evals.NewSource[T](dl, fcn, dat.Field("bf", "BF"), dat.Field("output", "Heat Source")), nil

	case "loadstate":
		v, err := o.state(dat.State)
		if err != nil {
			return nil, err
		}
		if v.OutputOnly {
			return nil, chk.Err("state %q is output only and cannot be loaded", v.Name)
		}
		return evals.NewLoadState[T](o.States, v, dat.Field("output", v.Name+"_old")), nil

	case "savestate":
		v, err := o.state(dat.State)
		if err != nil {
			return nil, err
		}
		s := evals.NewSaveState[T](o.States, v, dat.Field("input", v.Name))
		reg.saved = append(reg.saved, s.Saved)
		return s, nil

	case "rate":
		return evals.NewRate[T](dl, dat.Field("value", u), dat.Field("old", u+"_old"), dat.Field("output", u+"_dot")), nil

	case "heat":
		rhoC := 1.0
		if dat.Mat != "" {
			m, err := o.model(dat.Mat)
			if err != nil {
				return nil, err
			}
			rhoC = m.Rho
		}
		def := evals.DefaultHeatFields()
		rate := u + "_dot"
		if o.Prob.Data.Steady {
			rate = ""
		}
		names := evals.HeatFields{
			Rate:         dat.Field("rate", rate),
			Gradient:     dat.Field("gradient", u+" Gradient"),
			Conductivity: dat.Field("conductivity", def.Conductivity),
			Source:       dat.Field("source", def.Source),
			WBF:          dat.Field("wbf", def.WBF),
			WGradBF:      dat.Field("wgradbf", def.WGradBF),
			Residual:     dat.Field("residual", o.Prob.Data.Residual),
		}
		return evals.NewHeatResid[T](dl, names, rhoC), nil

	case "scale":
		layout, err := dl.ByName(dat.Field("layout", "qp_scalar"))
		if err != nil {
			return nil, err
		}
		input := dat.Field("input", u)
		coef := 1.0
		for _, p := range dat.Prms {
			if p.N == "coef" {
				coef = p.V
			}
		}
		return evals.NewScale[T](phx.NewTag(input, layout), dat.Field("output", "Scaled "+input), coef), nil
	}
	return nil, chk.Err("evaluator type %q is not available", dat.Type)
}

// newResponse allocates one response
func newResponse[T ad.Number[T]](o *Domain, dat *inp.RespData) (r *resp.Separable[T], err error) {
	switch dat.Type {
	case "integral":
		payload := resp.NewIntegral[T](o.Dl, dat.Weights, dat.Field, dat.Scale)
		return resp.NewSeparable[T](dat.Name, o.Dl, 1, resp.Sum, o.Red, payload), nil
	case "max":
		if dat.Field == "" {
			return nil, chk.Err("response of type \"max\" needs a field")
		}
		return resp.NewSeparable[T](dat.Name, o.Dl, 1, resp.Max, o.Red, resp.NewFieldMax[T](o.Dl, dat.Field)), nil
	}
	return nil, chk.Err("response type %q is not available", dat.Type)
}

// model returns the diffusion model of a material; models are shared by all kinds
func (o *Domain) model(matName string) (m *diffusion.M1, err error) {
	if m, ok := o.models[matName]; ok {
		return m, nil
	}
	mat, err := o.Prob.GetMat(matName)
	if err != nil {
		return
	}
	mdl, err := diffusion.New(mat.Model)
	if err != nil {
		return
	}
	if err = mdl.Init(inp.Params(mat.Prms)); err != nil {
		return nil, chk.Err("cannot initialise model of material %q:\n%v", matName, err)
	}
	m, ok := mdl.(*diffusion.M1)
	if !ok {
		return nil, chk.Err("model %q of material %q does not compute conductivities", mat.Model, matName)
	}
	o.models[matName] = m
	return
}

// state returns a state variable of the block
func (o *Domain) state(name string) (*state.Variable, error) {
	if name == "" {
		name = o.Prob.Data.Unknown
	}
	return o.States.Get(Block, name)
}
