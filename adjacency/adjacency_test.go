// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjacency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/charset"
)

func buildSmall(t *testing.T) *Array {
	t.Helper()
	alphabet := charset.FromSlice([]rune{'a', 'b', 'c'})
	b := NewBuilder(alphabet, DefaultBase)
	localToRune := []rune{'a', 'b', 'c'}

	// "ab" three times, "bc" once, "a" alone once.
	b.AddBitmap([]int{0, 1}, localToRune)
	b.AddBitmap([]int{0, 1}, localToRune)
	b.AddBitmap([]int{0, 1}, localToRune)
	b.AddBitmap([]int{1, 2}, localToRune)
	b.AddBitmap([]int{0}, localToRune)
	return b.Finish()
}

func TestSymmetry(t *testing.T) {
	arr := buildSmall(t)
	for _, a := range []rune{'a', 'b', 'c'} {
		for _, b := range []rune{'a', 'b', 'c'} {
			assert.Equal(t, arr.Pairing(a, b), arr.Pairing(b, a))
		}
	}
	assert.Equal(t, arr.Pairing('a', 'a'), arr.CharacterFrequency('a'))

	pa, _ := arr.Place('a')
	pb, _ := arr.Place('b')
	assert.Equal(t, PlaceIdx(pa, pb), PlaceIdx(pb, pa))
}

func TestQuantizationMonotonic(t *testing.T) {
	for v1 := uint64(0); v1 < 500; v1 += 7 {
		for v2 := v1; v2 < 500; v2 += 11 {
			e1 := encode(v1, DefaultBase)
			e2 := encode(v2, DefaultBase)
			assert.LessOrEqual(t, decode(e1, DefaultBase), decode(e2, DefaultBase))
		}
	}
}

func TestUnknownCodepointIsZero(t *testing.T) {
	arr := buildSmall(t)
	assert.Equal(t, uint64(0), arr.CharacterFrequency('z'))
	assert.Equal(t, uint64(0), arr.Pairing('a', 'z'))
}

func TestSameBlockBonus(t *testing.T) {
	alphabet := charset.FromSlice([]rune{'a', 'b'})
	b := NewBuilder(alphabet, DefaultBase)
	// never co-occur, so raw pairing is 0, but both are Basic Latin.
	b.AddBitmap([]int{0}, []rune{'a', 'b'})
	b.AddBitmap([]int{1}, []rune{'a', 'b'})
	arr := b.Finish()

	assert.True(t, arr.IsSameBlock('a', 'b'))
	// raw count is 0 so the bonus does not apply per §4.3 (bonus only
	// added "to all non-zero pair queries"); this keeps genuinely
	// unrelated-but-same-block pairs at 0 rather than a phantom edge.
	assert.Equal(t, uint64(0), arr.Pairing('a', 'b'))
}

func TestDeltaModularityFormula(t *testing.T) {
	arr := buildSmall(t)
	s := []rune{'b'}
	got := arr.DeltaModularity('a', s)

	pairing := float64(arr.Pairing('a', 'b'))
	edgeA := float64(arr.Meta['a'].EdgeTotal)
	edgeB := float64(arr.Meta['b'].EdgeTotal)
	want := pairing - (edgeA*edgeB)/(2*float64(arr.EdgeTotal))

	assert.InDelta(t, want, got, 1e-9)
}

func TestSerializeRoundTrip(t *testing.T) {
	arr := buildSmall(t)
	meta, err := DecodeMeta(arr.EncodeMeta())
	assert.NoError(t, err)
	raw := arr.EncodeRaw()

	got, err := FromParts(meta, raw)
	assert.NoError(t, err)

	assert.Equal(t, arr.CharacterFrequency('a'), got.CharacterFrequency('a'))
	assert.Equal(t, arr.Pairing('a', 'b'), got.Pairing('a', 'b'))
	assert.Equal(t, arr.EdgeTotal, got.EdgeTotal)
}

func TestBuilderMerge(t *testing.T) {
	alphabet := charset.FromSlice([]rune{'a', 'b'})
	b1 := NewBuilder(alphabet, DefaultBase)
	b1.AddBitmap([]int{0, 1}, []rune{'a', 'b'})
	b2 := NewBuilder(alphabet, DefaultBase)
	b2.AddBitmap([]int{0, 1}, []rune{'a', 'b'})

	b1.Merge(b2)
	arr := b1.Finish()
	assert.Equal(t, uint64(2), arr.CharacterFrequency('a'))
}
