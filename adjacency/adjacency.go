// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adjacency implements the Adjacency Array component (C3): a
// triangular matrix of character pair co-occurrence counts over a fixed
// alphabet, log-quantized to one byte per cell, plus the modularity query
// the adjacency splitter (C7) uses to cluster characters that tend to
// appear together on real pages.
package adjacency

import (
	"math"

	"github.com/Lymia/mkwebfont/charset"
)

// DefaultBase is the default log-quantization base k from §4.3.
const DefaultBase = 1.5

// CodepointMeta is the per-codepoint metadata table entry.
type CodepointMeta struct {
	EdgeTotal uint64
	BlockID   string
	// Place is the codepoint's position in the alphabet's CodepointList,
	// or -1 if the codepoint is not part of the alphabet.
	Place int
}

// Array is the triangular co-occurrence matrix over an alphabet A.
type Array struct {
	CodepointList []rune
	place         map[rune]int
	Meta          map[rune]CodepointMeta

	// data holds one quantized byte per cell of the triangular matrix,
	// indexed by PlaceIdx(a, b).
	data []byte

	Base      float64
	EdgeTotal uint64
}

// NumCells returns T(n) = n(n+1)/2, the length of the triangular data
// vector for an alphabet of size n.
func NumCells(n int) int {
	return n * (n + 1) / 2
}

// PlaceIdx returns the triangular-matrix cell index for the (unordered)
// pair (a, b), given their positions a, b in the alphabet.
func PlaceIdx(a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return NumCells(hi+1) - (lo + 1)
}

// NewBuilder starts building an Array over the given alphabet, with
// log-quantization base k (0 selects DefaultBase).
func NewBuilder(alphabet *charset.Set, k float64) *Builder {
	if k <= 0 {
		k = DefaultBase
	}
	cps := alphabet.Slice()
	place := make(map[rune]int, len(cps))
	for i, c := range cps {
		place[c] = i
	}
	return &Builder{
		arr: &Array{
			CodepointList: cps,
			place:         place,
			Meta:          make(map[rune]CodepointMeta, len(cps)),
			data:          make([]byte, NumCells(len(cps))),
			Base:          k,
		},
		raw: make([]uint64, NumCells(len(cps))),
	}
}

// Builder accumulates raw (unquantized) pair counts before Finish quantizes
// them into an Array.
type Builder struct {
	arr *Array
	raw []uint64
}

// AddBitmap accumulates co-occurrence counts from one decoded sample
// bitmap, given the mapping from the bitmap's local indices to Unicode
// scalar values. Per §4.3, only indices whose remapped codepoint is in
// the alphabet contribute; for every unordered pair (including a
// codepoint paired with itself, on the diagonal) among the filtered
// indices, the corresponding cell is incremented once.
func (b *Builder) AddBitmap(localIndices []int, localToRune []rune) {
	tmp := make([]int, 0, len(localIndices))
	for _, li := range localIndices {
		if li < 0 || li >= len(localToRune) {
			continue
		}
		c := localToRune[li]
		if p, ok := b.arr.place[c]; ok {
			tmp = append(tmp, p)
		}
	}
	for i := 0; i < len(tmp); i++ {
		for j := i; j < len(tmp); j++ {
			b.raw[PlaceIdx(tmp[i], tmp[j])]++
		}
	}
}

// Merge adds another builder's raw counts into b, cell-wise. Both
// builders must share the same alphabet (same CodepointList order).
func (b *Builder) Merge(other *Builder) {
	for i := range b.raw {
		b.raw[i] += other.raw[i]
	}
}

// Finish quantizes the accumulated raw counts into the final Array,
// computing per-codepoint and global edge totals and assigning merged
// block ids.
func (b *Builder) Finish() *Array {
	arr := b.arr
	edgeTotal := make([]uint64, len(arr.CodepointList))
	var global uint64

	for i, c := range arr.CodepointList {
		for j := i; j < len(arr.CodepointList); j++ {
			v := b.raw[PlaceIdx(i, j)]
			arr.data[PlaceIdx(i, j)] = encode(v, arr.Base)
			if i == j {
				edgeTotal[i] += v
			} else {
				edgeTotal[i] += v
				edgeTotal[j] += v
				global += v
			}
		}
		arr.Meta[c] = CodepointMeta{
			EdgeTotal: edgeTotal[i],
			BlockID:   charset.MergedBlock(c),
			Place:     i,
		}
	}
	arr.EdgeTotal = global
	return arr
}

// encode implements §4.3's log-quantization: enc(v) = 0 if v==0 else
// 1 + round(log_k(v)).
func encode(v uint64, k float64) byte {
	if v == 0 {
		return 0
	}
	e := 1 + math.Round(math.Log(float64(v))/math.Log(k))
	if e < 0 {
		e = 0
	}
	if e > 255 {
		e = 255
	}
	return byte(e)
}

// decode is the inverse of encode: decode(0) == 0, decode(e) == k^(e-1).
func decode(e byte, k float64) uint64 {
	if e == 0 {
		return 0
	}
	return uint64(math.Round(math.Pow(k, float64(e)-1)))
}

// CharacterFrequency returns the decoded diagonal count for c, or 0 if c
// is not in the alphabet.
func (a *Array) CharacterFrequency(c rune) uint64 {
	p, ok := a.place[c]
	if !ok {
		return 0
	}
	return decode(a.data[PlaceIdx(p, p)], a.Base)
}

// IsSameBlock reports whether a and b share a merged block id. The same
// codepoint is trivially same-block.
func (arr *Array) IsSameBlock(a, b rune) bool {
	if a == b {
		return true
	}
	ma, ok1 := arr.Meta[a]
	mb, ok2 := arr.Meta[b]
	if !ok1 || !ok2 {
		return charset.MergedBlock(a) == charset.MergedBlock(b)
	}
	return ma.BlockID == mb.BlockID
}

// Pairing implements §4.3's pairing query: if both codepoints are in the
// alphabet, it is the decoded off-diagonal count (plus the same-block
// bonus when non-zero); if both are known to the metadata table but not
// in the alphabet, it is 1 for same block, 0 otherwise.
func (arr *Array) Pairing(a, b rune) uint64 {
	pa, inA := arr.place[a]
	pb, inB := arr.place[b]
	if inA && inB {
		v := decode(arr.data[PlaceIdx(pa, pb)], arr.Base)
		if v > 0 && a != b && arr.IsSameBlock(a, b) {
			v++
		}
		return v
	}
	_, knownA := arr.Meta[a]
	_, knownB := arr.Meta[b]
	if knownA && knownB {
		if arr.IsSameBlock(a, b) {
			return 1
		}
		return 0
	}
	return 0
}

// DeltaModularity returns the change in Newman graph modularity from
// adding c to the existing cluster S, per §4.3's formula:
//
//	Σ_{s∈S} pairing(c,s) − (edge_total(c)·Σ_{s∈S} edge_total(s)) / (2·total_edges)
//
// Implementations must follow this formula exactly for reproducibility;
// it is not a paraphrase.
func (arr *Array) DeltaModularity(c rune, s []rune) float64 {
	var sumPairing float64
	var sumEdgeS float64
	for _, m := range s {
		sumPairing += float64(arr.Pairing(c, m))
		sumEdgeS += float64(arr.Meta[m].EdgeTotal)
	}
	if arr.EdgeTotal == 0 {
		return sumPairing
	}
	edgeC := float64(arr.Meta[c].EdgeTotal)
	return sumPairing - (edgeC*sumEdgeS)/(2*float64(arr.EdgeTotal))
}

// Place returns the alphabet position of c, and whether c is a member of
// the alphabet.
func (arr *Array) Place(c rune) (int, bool) {
	p, ok := arr.place[c]
	return p, ok
}
