// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAlgebra(t *testing.T) {
	a := FromSlice([]rune{'a', 'b', 'c', 'x'})
	b := FromSlice([]rune{'b', 'c', 'd'})

	assert.Equal(t, []rune{'a', 'b', 'c', 'd', 'x'}, a.Union(b).Slice())
	assert.Equal(t, []rune{'b', 'c'}, a.Intersect(b).Slice())
	assert.Equal(t, []rune{'a', 'x'}, a.Difference(b).Slice())
	assert.Equal(t, 4, a.Len())
	assert.True(t, a.Contains('a'))
	assert.False(t, a.Contains('z'))
}

func TestEmptySetNeverPanics(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains('a'))
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Union(NewSet()).Slice())
	assert.Empty(t, s.Intersect(NewSet()).Slice())
	assert.Empty(t, s.Difference(NewSet()).Slice())
	assert.Empty(t, s.Ranges())
	s.Iter(func(rune) { t.Fatal("iter over empty set should not call fn") })
}

func TestRanges(t *testing.T) {
	s := FromSlice([]rune{1, 2, 3, 5, 6, 10})
	assert.Equal(t, []Range{{1, 3}, {5, 6}, {10, 10}}, s.Ranges())
}

func TestCompressRoundTrip(t *testing.T) {
	s := FromRange(0x41, 0x5A)
	s.InsertRange(0x0400, 0x040F)
	s.Insert(0x1F600)

	packed := s.Compress()
	got, err := Decompress(packed)
	assert.NoError(t, err)
	assert.True(t, got.Equal(s))
}

func TestCompressEmpty(t *testing.T) {
	s := NewSet()
	got, err := Decompress(s.Compress())
	assert.NoError(t, err)
	assert.True(t, got.Equal(s))
}
