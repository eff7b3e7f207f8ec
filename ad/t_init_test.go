// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import "github.com/cpmech/gosl/chk"

func verbose() {
	chk.Verbose = true
}
