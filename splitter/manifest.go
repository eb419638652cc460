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

// ManifestSplitter runs the manifest-driven strategy of §4.7 (high
// priority pass, group pass, solo-subset pass) over one font's assigned
// codepoints.
type ManifestSplitter struct {
	params   Params
	manifest *manifest.Manifest
	cps      *charset.Set
	preload  *charset.Set

	fulfilled        *charset.Set
	processedSubsets map[string]bool
	processedGroups  map[string]bool
	preloadDone      bool
	miscIdx          int

	out []Subset
}

// NewManifestSplitter prepares a splitter for the codepoints cps
// (already filtered to get_used_chars) with the given preload set.
func NewManifestSplitter(m *manifest.Manifest, cps, preload *charset.Set, params Params) *ManifestSplitter {
	return &ManifestSplitter{
		params:           params,
		manifest:         m,
		cps:              cps,
		preload:          preload,
		fulfilled:        charset.NewSet(),
		processedSubsets: map[string]bool{},
		processedGroups:  map[string]bool{},
	}
}

// uniqueAvailable returns (font.cps ∩ s.map) − fulfilled.
func (s *ManifestSplitter) uniqueAvailable(sub *manifest.Subset) *charset.Set {
	return s.cps.Intersect(sub.Map).Difference(s.fulfilled)
}

func (s *ManifestSplitter) uniqueAvailableRatio(sub *manifest.Subset) float64 {
	denom := sub.Map.Difference(s.fulfilled).Len()
	if denom == 0 {
		return 0
	}
	return float64(s.uniqueAvailable(sub).Len()) / float64(denom)
}

// Run executes the full manifest-splitter algorithm (high-priority pass,
// group pass, solo-subset pass) and returns the emitted subsets plus
// whatever codepoints remain unfulfilled (for the residual pass).
func (s *ManifestSplitter) Run() ([]Subset, *charset.Set) {
	s.highPriorityPass()
	s.groupPass()
	s.soloSubsetPass()

	remaining := s.cps.Difference(s.fulfilled)
	return s.out, remaining
}

func (s *ManifestSplitter) highPriorityPass() {
	for _, name := range s.params.HighPrioritySubsets {
		sub, ok := s.manifest.Subset(name)
		if !ok {
			continue
		}
		if s.uniqueAvailableRatio(sub) >= s.params.HighPriorityRatioThreshold {
			s.doSubset(sub, true)
		}
	}
}

func (s *ManifestSplitter) groupRatio(g *manifest.Group) float64 {
	subs := s.manifest.GroupSubsets(g)
	if len(subs) == 0 {
		return 0
	}
	total := 0.0
	for _, sub := range subs {
		total += s.uniqueAvailableRatio(sub)
	}
	return total / float64(len(subs))
}

func (s *ManifestSplitter) groupPass() {
	for {
		var best *manifest.Group
		bestRatio := -1.0
		for _, name := range s.manifest.Groups.Names {
			if s.processedGroups[name] {
				continue
			}
			g, _ := s.manifest.Group(name)
			r := s.groupRatio(g)
			if r > bestRatio {
				bestRatio = r
				best = g
			}
		}
		if best == nil {
			return
		}
		s.processedGroups[best.Name] = true
		if bestRatio < s.params.AcceptGroupRatioThreshold {
			continue
		}
		subs := s.manifest.GroupSubsets(best)
		sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
		for _, sub := range subs {
			s.doSubset(sub, false)
		}
	}
}

func (s *ManifestSplitter) soloSubsetPass() {
	for {
		var bestByRatio *manifest.Subset
		bestRatio := -1.0
		for _, name := range s.manifest.Subsets.Names {
			if s.processedSubsets[name] {
				continue
			}
			sub, _ := s.manifest.Subset(name)
			r := s.uniqueAvailableRatio(sub)
			if r > bestRatio {
				bestRatio = r
				bestByRatio = sub
			}
		}
		if bestByRatio != nil && bestRatio >= s.params.AcceptSubsetRatioThreshold {
			s.doSubset(bestByRatio, false)
			continue
		}

		var bestByCount *manifest.Subset
		bestCount := -1
		for _, name := range s.manifest.Subsets.Names {
			if s.processedSubsets[name] {
				continue
			}
			sub, _ := s.manifest.Subset(name)
			c := s.uniqueAvailable(sub).Len()
			if c > bestCount {
				bestCount = c
				bestByCount = sub
			}
		}
		if bestByCount != nil && bestCount >= s.params.AcceptSubsetCountThreshold {
			s.doSubset(bestByCount, false)
			continue
		}
		return
	}
}

// doSubset implements the emit rule from §4.7, including the first-emit
// preload fold.
func (s *ManifestSplitter) doSubset(sub *manifest.Subset, neverReject bool) {
	s.processedSubsets[sub.Name] = true
	newCps := s.uniqueAvailable(sub)
	if !neverReject && newCps.Len() < s.params.RejectSubsetThreshold {
		return
	}

	name := sub.Name
	if !s.preloadDone {
		s.preloadDone = true
		if !s.preload.IsEmpty() {
			name = fmt.Sprintf("%s+pl", sub.Name)
			newCps = newCps.Union(s.preload)
		}
	}

	s.fulfilled = s.fulfilled.Union(newCps)
	s.out = append(s.out, Subset{Name: name, Codepoints: newCps})
}
