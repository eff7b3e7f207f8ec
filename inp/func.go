// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// FuncData holds function definition
type FuncData struct {
	Name string     `json:"name" hcl:"name,label"` // name of function. ex: zero, load, myfunction1, etc.
	Type string     `json:"type" hcl:"type"`       // type of function. ex: cte, rmp
	Prms []*PrmData `json:"prms" hcl:"prm,block"`  // parameters
}

// Funcs holds functions
type FuncsData []*FuncData

// Get returns function by name
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "zero" || name == "none" {
		return &dbf.Zero, nil
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = newFunc(f.Type, Params(f.Prms))
			if err != nil {
				err = chk.Err("cannot get function named %q because of the following error:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q\n", name)
	return
}

// newFunc allocates a function; dbf panics on unknown types or parameters
func newFunc(typ string, prms dbf.Params) (fcn dbf.T, err error) {
	defer func() {
		if r := recover(); r != nil {
			fcn, err = nil, chk.Err("%v", r)
		}
	}()
	fcn = dbf.New(typ, prms)
	return
}

// Params converts parameters to the gosl format
func Params(prms []*PrmData) (res dbf.Params) {
	for _, p := range prms {
		res = append(res, &dbf.P{N: p.N, V: p.V})
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////////

// String prints one function
func (o FuncData) String() string {
	l := io.Sf("    {\n      \"name\":%q, \"type\":%q, \"prms\" : [", o.Name, o.Type)
	for i, p := range o.Prms {
		if i > 0 {
			l += ","
		}
		l += io.Sf("\n        {\"n\":%q, \"v\":%g}", p.N, p.V)
	}
	return l + "\n      ]\n    }"
}

// String prints functions
func (o FuncsData) String() string {
	if len(o) == 0 {
		return "  \"functions\" : []"
	}
	l := "  \"functions\" : [\n"
	for i, f := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", f)
	}
	l += "\n  ]"
	return l
}
