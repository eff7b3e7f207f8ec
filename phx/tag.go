// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phx

import "github.com/cpmech/gosl/io"

// Tag identifies a field by name and layout. Two tags are equal only if both
// the name and the layout are equal
type Tag struct {
	Name   string
	Layout *Layout
}

// NewTag returns a new tag
func NewTag(name string, layout *Layout) Tag {
	return Tag{name, layout}
}

// Key returns a string that is unique for each (name, layout) pair
func (o Tag) Key() string {
	if o.Layout == nil {
		return o.Name + "<nil>"
	}
	return o.Name + o.Layout.String()
}

// Equal compares two tags
func (o Tag) Equal(b Tag) bool {
	return o.Name == b.Name && o.Layout.Equal(b.Layout)
}

// IsZero tells whether the tag was not set; evaluators use it for optional fields
func (o Tag) IsZero() bool {
	return o.Name == "" && o.Layout == nil
}

// String returns a representation such as "Temperature"<Cell,Node>(10,4)
func (o Tag) String() string {
	return io.Sf("%q", o.Name) + o.Layout.String()
}
