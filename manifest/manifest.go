// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest implements the Subset Manifest component (C4): named
// character subsets plus named groups of subsets, as shipped in the
// "gfsubsets" and "glyphsets" data-package variants and consumed by the
// manifest-driven splitter (C7).
package manifest

import (
	"fmt"

	"github.com/Lymia/mkwebfont/base/omap"
	"github.com/Lymia/mkwebfont/charset"
)

// Subset is one named character subset, e.g. "latin" or "gf-zhsimp-s12".
type Subset struct {
	Name string
	Map  *charset.Set
}

// Group is an ordered collection of subsets sharing a selection
// criterion, typically CJK shards split from one script.
type Group struct {
	Name     string
	Subsets  []string
	Manifest *Manifest `json:"-"`
}

// Manifest is a set of named subsets and named groups of subsets, backed
// by a by-name index for both.
type Manifest struct {
	Subsets *omap.Map[*Subset]
	Groups  *omap.Map[*Group]
}

// New returns an empty Manifest.
func New() *Manifest {
	return &Manifest{Subsets: omap.New[*Subset](), Groups: omap.New[*Group]()}
}

// AddSubset registers a subset. It is an ambiguity error (§7) to register
// two subsets with the same name.
func (m *Manifest) AddSubset(name string, cps *charset.Set) error {
	if m.Subsets.Has(name) {
		return fmt.Errorf("manifest: duplicate subset name %q", name)
	}
	m.Subsets.Set(name, &Subset{Name: name, Map: cps})
	return nil
}

// AddGroup registers a named, ordered group of subset names. Every
// member must already be a registered subset.
func (m *Manifest) AddGroup(name string, subsetNames []string) error {
	for _, s := range subsetNames {
		if !m.Subsets.Has(s) {
			return fmt.Errorf("manifest: group %q references unknown subset %q", name, s)
		}
	}
	m.Groups.Set(name, &Group{Name: name, Subsets: subsetNames, Manifest: m})
	return nil
}

// Subset looks up a subset by name.
func (m *Manifest) Subset(name string) (*Subset, bool) {
	return m.Subsets.At(name)
}

// Group looks up a group by name.
func (m *Manifest) Group(name string) (*Group, bool) {
	return m.Groups.At(name)
}

// GroupSubsets resolves a group's member subsets in order.
func (m *Manifest) GroupSubsets(g *Group) []*Subset {
	out := make([]*Subset, 0, len(g.Subsets))
	for _, name := range g.Subsets {
		if s, ok := m.Subsets.At(name); ok {
			out = append(out, s)
		}
	}
	return out
}

// Grouped reports whether a subset is a member of any group.
func (m *Manifest) Grouped(name string) bool {
	for _, g := range m.Groups.Values {
		for _, s := range g.Subsets {
			if s == name {
				return true
			}
		}
	}
	return false
}
