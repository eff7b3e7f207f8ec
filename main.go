// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gofield/fem"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.WorldRank() == 0 {
				io.PfRed("\nERROR: %v", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop()
	}()
	mpi.Start()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "inp/data/heat1d", ".sim", true)
	verbose := io.ArgToBool(1, true)
	allowParallel := io.ArgToBool(2, true)

	// message
	if mpi.WorldRank() == 0 && verbose {
		io.PfWhite("\nGofield -- evaluators engine for the finite element method\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"allow parallel run", "allowParallel", allowParallel,
		))
	}

	// analysis data
	analysis, err := fem.NewMain(fnamepath, allowParallel, verbose)
	if err != nil {
		chk.Panic("cannot allocate simulation:\n%v", err)
	}

	// run simulation
	if err = analysis.Run(); err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}
