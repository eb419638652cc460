// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjbuild

import (
	"fmt"
	"os"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/Lymia/mkwebfont/adjacency"
	"github.com/Lymia/mkwebfont/bitsetlist"
	"github.com/Lymia/mkwebfont/charset"
)

const (
	// MaxCharacters excludes pages that look like dictionary/listing
	// pages from adjacency accumulation.
	MaxCharacters = 1750
	// MinCount is the minimum global frequency for a codepoint to join
	// the adjacency alphabet.
	MinCount = 50

	sectionCount  = 16
	adjacencyBase = 1.5
)

// Ingest streams every WET shard in paths and pushes each record's text
// into list, sectioned round-robin.
func Ingest(paths []string, list *bitsetlist.List, filter bitsetlist.Filter) error {
	sections := make([]*bitsetlist.Builder, sectionCount)
	for i := 0; i < sectionCount; i++ {
		sections[i] = bitsetlist.NewBuilder(list.AddSection(fmt.Sprintf("shard%d", i)))
	}

	idx := 0
	for _, path := range paths {
		if err := ingestOne(path, func(text string) {
			sections[idx%sectionCount].PushSample(text, filter)
			idx++
		}); err != nil {
			return fmt.Errorf("adjbuild: ingesting %s: %w", path, err)
		}
	}
	return nil
}

func ingestOne(path string, push func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return StreamWET(f, func(rec WETRecord) error {
		push(rec.Text)
		return nil
	})
}

// DefaultCodepointFilter keeps every codepoint below charset.MaxCodepoint;
// the alphabet-narrowing happens later in the Count/Filter stages.
func DefaultCodepointFilter(c rune) bool {
	return c < charset.MaxCodepoint
}

// Histogram is a per-codepoint global frequency count plus a page count.
type Histogram struct {
	Freq      map[rune]uint64
	PageCount uint64
}

// Count implements §4.11 step 3: per-section frequency histograms plus a
// page count. Pages whose bitset exceeds MaxCharacters are left out of
// both the page count and the histogram, the same pages Accumulate
// skips, since the histogram exists only to seed the adjacency alphabet.
func Count(list *bitsetlist.List) (*Histogram, error) {
	type partial struct {
		freq  map[rune]uint64
		pages uint64
	}
	partials := make([]partial, len(list.Sections))

	g := new(errgroup.Group)
	for i, sec := range list.Sections {
		i, sec := i, sec
		g.Go(func() error {
			freq := map[rune]uint64{}
			var pages uint64
			for idx := 0; idx < sec.Len(); idx++ {
				bm, err := sec.Bitmap(idx)
				if err != nil {
					return err
				}
				if len(bm.Indices) > MaxCharacters {
					continue
				}
				pages++
				chars, err := sec.Characters(idx)
				if err != nil {
					return err
				}
				for _, c := range chars {
					freq[c]++
				}
			}
			partials[i] = partial{freq: freq, pages: pages}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &Histogram{Freq: map[rune]uint64{}}
	for _, p := range partials {
		h.PageCount += p.pages
		for c, n := range p.freq {
			h.Freq[c] += n
		}
	}
	return h, nil
}

// FilterAlphabet implements §4.11 step 4.
func FilterAlphabet(h *Histogram) *charset.Set {
	out := charset.NewSet()
	for c, n := range h.Freq {
		if n < MinCount {
			continue
		}
		if unicode.Is(unicode.C, c) || unicode.Is(unicode.Z, c) {
			continue
		}
		out.Insert(c)
	}
	return out
}

// Accumulate implements §4.11 step 5: parallel per-section partial
// builders, merged cell-wise.
func Accumulate(list *bitsetlist.List, alphabet *charset.Set) (*adjacency.Builder, error) {
	partials := make([]*adjacency.Builder, len(list.Sections))

	g := new(errgroup.Group)
	for i, sec := range list.Sections {
		i, sec := i, sec
		g.Go(func() error {
			b := adjacency.NewBuilder(alphabet, adjacencyBase)
			for idx := 0; idx < sec.Len(); idx++ {
				bm, err := sec.Bitmap(idx)
				if err != nil {
					return err
				}
				if len(bm.Indices) > MaxCharacters {
					continue
				}
				chars, err := sec.Characters(idx)
				if err != nil {
					return err
				}
				b.AddBitmap(bm.Indices, chars)
			}
			partials[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := adjacency.NewBuilder(alphabet, adjacencyBase)
	for _, p := range partials {
		merged.Merge(p)
	}
	return merged, nil
}

// Build runs the full offline pipeline (steps 1-6) over the given WET
// shard paths, returning the final adjacency array.
func Build(shardPaths []string) (*adjacency.Array, error) {
	list := bitsetlist.New()
	if err := Ingest(shardPaths, list, DefaultCodepointFilter); err != nil {
		return nil, err
	}
	for _, sec := range list.Sections {
		if err := sec.Optimize(); err != nil {
			return nil, fmt.Errorf("adjbuild: optimizing section %s: %w", sec.Source, err)
		}
	}

	hist, err := Count(list)
	if err != nil {
		return nil, err
	}
	alphabet := FilterAlphabet(hist)

	builder, err := Accumulate(list, alphabet)
	if err != nil {
		return nil, err
	}
	return builder.Finish(), nil
}

