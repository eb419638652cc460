// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splitter implements the Splitter component (C7): choosing the
// partition of a font's assigned codepoints into named subsets, via a
// manifest-driven pass, an adjacency-driven pass, and a residual bin
// packer for whatever remains.
package splitter

import (
	"sort"

	"github.com/Lymia/mkwebfont/charset"
)

// Subset is one (name, codepoints) pair chosen for a font.
type Subset struct {
	Name       string
	Codepoints *charset.Set
}

// Params holds the tunable constants from §4.7's table.
type Params struct {
	RejectSubsetThreshold       int
	AcceptSubsetCountThreshold  int
	AcceptSubsetRatioThreshold  float64
	AcceptGroupRatioThreshold   float64
	HighPriorityRatioThreshold  float64
	HighPrioritySubsets         []string
	ResidualClassMaxSize        int
}

// DefaultParams returns the defaults listed in §4.7.
func DefaultParams() Params {
	return Params{
		RejectSubsetThreshold:      20,
		AcceptSubsetCountThreshold: 20,
		AcceptSubsetRatioThreshold: 0.10,
		AcceptGroupRatioThreshold:  0.25,
		HighPriorityRatioThreshold: 0.25,
		HighPrioritySubsets:        []string{"latin", "latin-ext"},
		ResidualClassMaxSize:       200,
	}
}

// sortSubsetsByName gives the byte-identical, deterministic tie-break
// order required by invariant 6 ("splitter determinism").
func sortSubsetsByName(s []Subset) {
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
}
