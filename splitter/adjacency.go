// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splitter

import (
	"sort"

	"github.com/Lymia/mkwebfont/adjacency"
	"github.com/Lymia/mkwebfont/charset"
)

const (
	adjacencySubsetTarget  = 75
	adjacencyCandidatePool = 512
)

// AdjacencySplitter implements §4.7's modularity-maximizing clustering
// strategy: seed a subset with the highest-frequency remaining
// codepoint, then greedily grow it by maximum delta_modularity.
type AdjacencySplitter struct {
	arr *adjacency.Array
	cps []rune // ascending by character_frequency
}

// NewAdjacencySplitter prepares a splitter over cps (already restricted
// to the font's assigned codepoints), ordered by the given adjacency
// array's character frequency.
func NewAdjacencySplitter(arr *adjacency.Array, cps *charset.Set) *AdjacencySplitter {
	list := cps.Slice()
	sort.Slice(list, func(i, j int) bool {
		fi, fj := arr.CharacterFrequency(list[i]), arr.CharacterFrequency(list[j])
		if fi != fj {
			return fi < fj
		}
		return list[i] < list[j]
	})
	return &AdjacencySplitter{arr: arr, cps: list}
}

// Run emits subsets named "adja", "adjb", ..., "adjz", then "adja1",
// "adjb1", ... until every codepoint has been assigned.
func (s *AdjacencySplitter) Run() []Subset {
	var out []Subset
	idx := 0
	for len(s.cps) > 0 {
		seed := s.cps[len(s.cps)-1]
		s.cps = s.cps[:len(s.cps)-1]

		cluster := []rune{seed}
		clusterSet := map[rune]bool{seed: true}

		for len(cluster) < adjacencySubsetTarget && len(s.cps) > 0 {
			poolStart := len(s.cps) - adjacencyCandidatePool
			if poolStart < 0 {
				poolStart = 0
			}
			pool := s.cps[poolStart:]

			bestPos := -1
			bestScore := 0.0
			for i, c := range pool {
				score := s.arr.DeltaModularity(c, cluster)
				if bestPos == -1 || score > bestScore {
					bestPos = i
					bestScore = score
				}
			}
			if bestPos == -1 {
				break
			}
			chosen := pool[bestPos]
			cluster = append(cluster, chosen)
			clusterSet[chosen] = true

			absPos := poolStart + bestPos
			s.cps = append(s.cps[:absPos], s.cps[absPos+1:]...)
		}

		out = append(out, Subset{Name: clusterName(idx), Codepoints: charset.FromSlice(cluster)})
		idx++
	}
	return out
}

func clusterName(idx int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "adj" + string(letters[idx%26]) + itoa(idx/26)
}

func itoa(v int) string {
	if v == 0 {
		return ""
	}
	digits := []byte{}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}
