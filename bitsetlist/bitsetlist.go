// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitsetlist implements the Bitset List component (C2): a flat
// container of per-page character bitmaps, grouped into sections that
// each carry their own codepoint remap table so a page's bitmap only
// needs to encode the characters actually observed in that section.
package bitsetlist

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Section is one append-only group of samples sharing a codepoint remap
// table. Bitmaps append to the end of Data; Index holds, for each sample,
// the byte offset into Data where its bitmap begins.
type Section struct {
	Source        string
	CodepointList []rune
	Index         []int
	Data          []byte

	// runeToIdx maps a codepoint already interned in CodepointList back
	// to its index, so repeated characters across samples reuse the same
	// bitmap bit.
	runeToIdx map[rune]int
}

// List is a sequence of sections.
type List struct {
	Sections []*Section
}

// New returns an empty List.
func New() *List {
	return &List{}
}

// Filter decides whether a codepoint should be interned into a section's
// codepoint list (and thus be representable in its bitmaps) at all.
type Filter func(c rune) bool

// AddSection appends and returns a new, empty section with the given
// source label.
func (l *List) AddSection(source string) *Section {
	s := &Section{Source: source, runeToIdx: make(map[rune]int)}
	l.Sections = append(l.Sections, s)
	return s
}

// dedupeWindow implements the rolling "last-seen" dedupe trick from §4.2:
// an array of u16 "last seen at sample idx" values sized to cover every
// codepoint below charset.MaxCodepoint, plus a rolling per-sample counter
// that is reset (by zeroing the array) on overflow. This keeps PushSample
// O(len(text)) without allocating a hash set per call.
type dedupeWindow struct {
	lastSeen []uint16
	idx      uint16
}

// newDedupeWindow allocates a dedupe window big enough for BMP+astral
// codepoints below limit.
func newDedupeWindow(limit rune) *dedupeWindow {
	return &dedupeWindow{lastSeen: make([]uint16, limit)}
}

// startSample advances the rolling per-sample counter, zeroing the
// window when the counter overflows.
func (d *dedupeWindow) startSample() {
	d.idx++
	if d.idx == 0 {
		// overflow: every slot compares equal to 0 again, so zero them
		// and restart numbering at 1.
		for i := range d.lastSeen {
			d.lastSeen[i] = 0
		}
		d.idx = 1
	}
}

// seen reports whether c was already seen in the current sample, marking
// it seen for next time. The caller must call startSample first.
func (d *dedupeWindow) seen(c rune) bool {
	if int(c) >= len(d.lastSeen) {
		return false
	}
	if d.lastSeen[c] == d.idx {
		return true
	}
	d.lastSeen[c] = d.idx
	return false
}

// Builder drives PushSample calls against a Section, owning the dedupe
// window so repeated calls stay O(|text|) each.
type Builder struct {
	section *Section
	dedupe  *dedupeWindow
}

// NewBuilder returns a Builder appending samples to section.
func NewBuilder(section *Section) *Builder {
	return &Builder{section: section, dedupe: newDedupeWindow(0x110000)}
}

// PushSample converts text into one bitmap recording every distinct
// codepoint c < 0x110000 for which filter(c) is true, then appends the
// bitmap to the section's data blob.
func (b *Builder) PushSample(text string, filter Filter) {
	b.dedupe.startSample()
	s := b.section

	var bits []int
	for _, c := range text {
		if c >= 0x110000 {
			continue
		}
		if b.dedupe.seen(c) {
			continue
		}
		if filter != nil && !filter(c) {
			continue
		}
		idx, ok := s.runeToIdx[c]
		if !ok {
			idx = len(s.CodepointList)
			s.CodepointList = append(s.CodepointList, c)
			s.runeToIdx[c] = idx
		}
		bits = append(bits, idx)
	}

	bitmap := encodeBitmap(bits)
	s.Index = append(s.Index, len(s.Data))
	s.Data = append(s.Data, bitmap...)
}

// Bitmap is a decoded sample: the sorted set of codepoint-list indices
// observed in that sample.
type Bitmap struct {
	Indices []int
}

// Len returns the number of samples in the section.
func (s *Section) Len() int {
	return len(s.Index)
}

// Bitmap decodes and returns the i'th sample's bitmap.
func (s *Section) Bitmap(i int) (Bitmap, error) {
	if i < 0 || i >= len(s.Index) {
		return Bitmap{}, fmt.Errorf("bitsetlist: sample index %d out of range", i)
	}
	start := s.Index[i]
	end := len(s.Data)
	if i+1 < len(s.Index) {
		end = s.Index[i+1]
	}
	return decodeBitmap(s.Data[start:end])
}

// Characters decodes the i'th sample directly into codepoints.
func (s *Section) Characters(i int) ([]rune, error) {
	bm, err := s.Bitmap(i)
	if err != nil {
		return nil, err
	}
	out := make([]rune, 0, len(bm.Indices))
	for _, idx := range bm.Indices {
		if idx < 0 || idx >= len(s.CodepointList) {
			return nil, fmt.Errorf("bitsetlist: sample index references out-of-range codepoint %d", idx)
		}
		out = append(out, s.CodepointList[idx])
	}
	return out, nil
}

func encodeBitmap(indices []int) []byte {
	sort.Ints(indices)
	buf := make([]byte, 0, len(indices)*2+binary.MaxVarintLen32)
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(indices)))
	buf = append(buf, tmp[:n]...)
	prev := -1
	for _, idx := range indices {
		n := binary.PutUvarint(tmp[:], uint64(idx-prev-1))
		buf = append(buf, tmp[:n]...)
		prev = idx
	}
	return buf
}

func decodeBitmap(data []byte) (Bitmap, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return Bitmap{}, fmt.Errorf("bitsetlist: truncated bitmap header")
	}
	data = data[n:]
	out := Bitmap{Indices: make([]int, 0, count)}
	prev := -1
	for i := uint64(0); i < count; i++ {
		gap, n := binary.Uvarint(data)
		if n <= 0 {
			return Bitmap{}, fmt.Errorf("bitsetlist: truncated bitmap entry %d", i)
		}
		data = data[n:]
		idx := prev + 1 + int(gap)
		out.Indices = append(out.Indices, idx)
		prev = idx
	}
	return out, nil
}

// Optimize rebuilds the section, reinterning codepoints in descending
// frequency order and reencoding every bitmap against the new mapping.
// The result is semantically identical (every sample decodes to the same
// set of codepoints) but compresses better, since the varint gap-encoding
// used by encodeBitmap favors small, frequently-reused indices.
func (s *Section) Optimize() error {
	freq := make([]int, len(s.CodepointList))
	samples := make([]Bitmap, s.Len())
	for i := range s.Index {
		bm, err := s.Bitmap(i)
		if err != nil {
			return err
		}
		samples[i] = bm
		for _, idx := range bm.Indices {
			freq[idx]++
		}
	}

	order := make([]int, len(s.CodepointList))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })

	remap := make([]int, len(order))
	newList := make([]rune, len(order))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = newIdx
		newList[newIdx] = s.CodepointList[oldIdx]
	}

	var newData []byte
	newIndex := make([]int, 0, len(samples))
	for _, bm := range samples {
		remapped := make([]int, len(bm.Indices))
		for i, idx := range bm.Indices {
			remapped[i] = remap[idx]
		}
		newIndex = append(newIndex, len(newData))
		newData = append(newData, encodeBitmap(remapped)...)
	}

	s.CodepointList = newList
	s.Index = newIndex
	s.Data = newData
	s.runeToIdx = make(map[rune]int, len(newList))
	for i, c := range newList {
		s.runeToIdx[c] = i
	}
	return nil
}

// Split partitions the list's sections round-robin into n sublists,
// preserving per-section provenance so parallel consumers (e.g. the
// adjacency builder's per-worker accumulation) can each own a disjoint
// subset of sections.
func (l *List) Split(n int) []*List {
	out := make([]*List, n)
	for i := range out {
		out[i] = New()
	}
	for i, s := range l.Sections {
		out[i%n].Sections = append(out[i%n].Sections, s)
	}
	return out
}
