// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/adjacency"
	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/manifest"
)

func buildManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m := manifest.New()
	assert.NoError(t, m.AddSubset("latin", charset.FromRange('A', 'Z')))
	assert.NoError(t, m.AddSubset("numbers", charset.FromRange('0', '9')))
	return m
}

func TestManifestSplitterHighPriority(t *testing.T) {
	m := buildManifest(t)
	cps := charset.FromRange('A', 'Z')
	s := NewManifestSplitter(m, cps, charset.NewSet(), DefaultParams())
	out, remaining := s.Run()

	assert.Len(t, out, 1)
	assert.Equal(t, "latin", out[0].Name)
	assert.True(t, remaining.IsEmpty())
}

func TestManifestSplitterRejectsSmallSubset(t *testing.T) {
	m := buildManifest(t)
	cps := charset.FromSlice([]rune{'0', '1'}) // below reject_subset_threshold
	params := DefaultParams()
	s := NewManifestSplitter(m, cps, charset.NewSet(), params)
	out, remaining := s.Run()

	assert.Empty(t, out)
	assert.True(t, remaining.Equal(cps))
}

func TestManifestSplitterPreloadFold(t *testing.T) {
	m := buildManifest(t)
	cps := charset.FromRange('A', 'Z')
	preload := charset.FromSlice([]rune{'A'})
	s := NewManifestSplitter(m, cps, preload, DefaultParams())
	out, _ := s.Run()

	assert.Len(t, out, 1)
	assert.Equal(t, "latin+pl", out[0].Name)
}

// TestManifestSplitterPreloadFoldOutsideSubsetRange exercises the actual
// fold: a preloaded codepoint outside "latin"'s own range must still ship
// with the first emitted subset, and must not reappear in "numbers".
func TestManifestSplitterPreloadFoldOutsideSubsetRange(t *testing.T) {
	m := buildManifest(t)
	cps := charset.FromRange('A', 'Z').Union(charset.FromSlice([]rune{'5'}))
	preload := charset.FromSlice([]rune{'A', '5'})
	s := NewManifestSplitter(m, cps, preload, DefaultParams())
	out, remaining := s.Run()

	assert.Equal(t, "latin+pl", out[0].Name)
	assert.True(t, out[0].Codepoints.Contains('5'), "preloaded codepoint outside latin's range must fold into the first subset")

	for _, sub := range out {
		if sub.Name != "latin+pl" {
			assert.False(t, sub.Codepoints.Contains('5'), "preloaded codepoint must not be emitted a second time")
		}
	}
	assert.False(t, remaining.Contains('5'))
}

func TestResidualSplitterPacksByBlock(t *testing.T) {
	m := buildManifest(t)
	remaining := charset.FromRange(0x1F600, 0x1F610) // emoji, no manifest subset covers it
	r := NewResidualSplitter(m, DefaultParams())
	out := r.Run(remaining)

	total := charset.NewSet()
	for _, s := range out {
		total = total.Union(s.Codepoints)
		assert.LessOrEqual(t, s.Codepoints.Len(), DefaultParams().ResidualClassMaxSize)
	}
	assert.True(t, total.Equal(remaining))
}

func TestAdjacencySplitterCoversAllCodepoints(t *testing.T) {
	alphabet := charset.FromSlice([]rune{'a', 'b', 'c', 'd'})
	b := adjacency.NewBuilder(alphabet, adjacency.DefaultBase)
	b.AddBitmap([]int{0, 1, 2, 3}, []rune{'a', 'b', 'c', 'd'})
	arr := b.Finish()

	s := NewAdjacencySplitter(arr, alphabet)
	out := s.Run()

	total := charset.NewSet()
	for _, sub := range out {
		total = total.Union(sub.Codepoints)
	}
	assert.True(t, total.Equal(alphabet))
}
