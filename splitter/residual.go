// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splitter

import (
	"fmt"
	"sort"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/manifest"
)

// ResidualSplitter bin-packs whatever codepoints survive the primary
// strategy, per §4.7's three-step residual algorithm.
type ResidualSplitter struct {
	params   Params
	manifest *manifest.Manifest
	miscIdx  int
}

func NewResidualSplitter(m *manifest.Manifest, params Params) *ResidualSplitter {
	return &ResidualSplitter{params: params, manifest: m}
}

// Run packs remaining into "misc{idx}" subsets.
func (r *ResidualSplitter) Run(remaining *charset.Set) []Subset {
	var out []Subset
	half := r.params.RejectSubsetThreshold / 2

	transients := r.buildTransients(remaining, half)

	var immediate []*charset.Set
	var packable []*charset.Set
	for _, t := range transients {
		if t.Len() >= r.params.ResidualClassMaxSize {
			immediate = append(immediate, t)
		} else if !t.IsEmpty() {
			packable = append(packable, t)
		}
	}

	for _, t := range immediate {
		out = append(out, r.emit(t))
	}

	bins := firstFitDecreasing(packable, r.params.ResidualClassMaxSize)
	for _, bin := range bins {
		merged := charset.NewSet()
		for _, t := range bin {
			merged = merged.Union(t)
		}
		out = append(out, r.emit(merged))
	}
	return out
}

func (r *ResidualSplitter) emit(cps *charset.Set) Subset {
	name := fmt.Sprintf("misc%d", r.miscIdx)
	r.miscIdx++
	return Subset{Name: name, Codepoints: cps}
}

// buildTransients implements residual splitter step 1: manifest
// intersections first, then a per-Unicode-block split of whatever is
// still left, capped at ResidualClassMaxSize per transient.
func (r *ResidualSplitter) buildTransients(remaining *charset.Set, minIntersection int) []*charset.Set {
	var transients []*charset.Set
	left := remaining.Clone()

	if r.manifest != nil {
		var allSubsets []*manifest.Subset
		seen := map[string]bool{}
		for _, name := range r.manifest.Subsets.Names {
			sub, _ := r.manifest.Subset(name)
			if !seen[sub.Name] {
				seen[sub.Name] = true
				allSubsets = append(allSubsets, sub)
			}
		}
		sort.Slice(allSubsets, func(i, j int) bool { return allSubsets[i].Name < allSubsets[j].Name })

		for _, sub := range allSubsets {
			inter := left.Intersect(sub.Map)
			if inter.Len() > minIntersection {
				transients = append(transients, inter)
				left = left.Difference(inter)
			}
		}
	}

	if !left.IsEmpty() {
		transients = append(transients, splitByBlockCapped(left, r.params.ResidualClassMaxSize)...)
	}
	return transients
}

func splitByBlockCapped(cps *charset.Set, cap int) []*charset.Set {
	byBlock := map[string][]rune{}
	var order []string
	cps.Iter(func(c rune) {
		block := charset.MergedBlock(c)
		if _, ok := byBlock[block]; !ok {
			order = append(order, block)
		}
		byBlock[block] = append(byBlock[block], c)
	})
	sort.Strings(order)

	var out []*charset.Set
	for _, block := range order {
		runes := byBlock[block]
		for len(runes) > 0 {
			n := cap
			if n > len(runes) {
				n = len(runes)
			}
			out = append(out, charset.FromSlice(runes[:n]))
			runes = runes[n:]
		}
	}
	return out
}

// firstFitDecreasing packs sets into bins of the given capacity,
// largest-first.
func firstFitDecreasing(sets []*charset.Set, capacity int) [][]*charset.Set {
	sorted := make([]*charset.Set, len(sets))
	copy(sorted, sets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Len() > sorted[j].Len() })

	var bins [][]*charset.Set
	var binSizes []int
	for _, s := range sorted {
		placed := false
		for i := range bins {
			if binSizes[i]+s.Len() <= capacity {
				bins[i] = append(bins[i], s)
				binSizes[i] += s.Len()
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, []*charset.Set{s})
			binSizes = append(binSizes, s.Len())
		}
	}
	return bins
}
