// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/fontface"
)

func TestParseUnicodeRange(t *testing.T) {
	cps, err := parseUnicodeRange("U+0041-0043,U+005A")
	assert.NoError(t, err)
	assert.True(t, cps.Equal(charset.FromSlice([]rune{'A', 'B', 'C', 'Z'})))
}

func TestParseUnicodeRangeWildcard(t *testing.T) {
	cps, err := parseUnicodeRange("U+004?")
	assert.NoError(t, err)
	assert.True(t, cps.Equal(charset.FromRange(0x40, 0x4F)))
}

func TestParseLineStack(t *testing.T) {
	l, err := parseLine("Primary, Fallback: hello", "")
	assert.NoError(t, err)
	assert.Equal(t, KindStack, l.Kind)
	assert.Equal(t, []string{"Primary", "Fallback"}, l.Fonts)
	assert.True(t, l.Charset.Equal(charset.FromSlice([]rune("hello"))))
}

func TestParseLineExclude(t *testing.T) {
	l, err := parseLine("exclude: *:#U+2000-206F", "")
	assert.NoError(t, err)
	assert.Equal(t, KindExclude, l.Kind)
	assert.Equal(t, []string{"*"}, l.Fonts)
}

func TestStackAssignmentSplitsAndExcludes(t *testing.T) {
	faceA := &fontface.Face{FontID: 1, Codepoints: charset.FromSlice([]rune("abc"))}
	faceB := &fontface.Face{FontID: 2, Codepoints: charset.FromSlice([]rune("abcxyz"))}

	resolver := NewResolver(map[string]*FontGroup{
		"A": {Name: "A", Faces: []*fontface.Face{faceA}},
		"B": {Name: "B", Faces: []*fontface.Face{faceB}},
	})

	lines := []Line{{Kind: KindStack, Fonts: []string{"A", "B"}, Charset: charset.FromSlice([]rune("abcxyz"))}}
	out, err := Build(lines, resolver)
	assert.NoError(t, err)

	assert.True(t, out.GetUsedChars(faceA).Equal(charset.FromSlice([]rune("abc"))))
	assert.True(t, out.GetUsedChars(faceB).Equal(charset.FromSlice([]rune("xyz"))))
	assert.True(t, out.GetRangeExclusions(faceA).Equal(charset.FromSlice([]rune("xyz"))))
	assert.True(t, out.FallbackRequired.IsEmpty())
}

func TestStackAssignmentFallback(t *testing.T) {
	faceA := &fontface.Face{FontID: 3, Codepoints: charset.FromSlice([]rune("abc"))}
	resolver := NewResolver(map[string]*FontGroup{"A": {Name: "A", Faces: []*fontface.Face{faceA}}})

	lines := []Line{{Kind: KindStack, Fonts: []string{"A"}, Charset: charset.FromSlice([]rune("abz"))}}
	out, err := Build(lines, resolver)
	assert.NoError(t, err)
	assert.True(t, out.FallbackRequired.Equal(charset.FromSlice([]rune("z"))))
}

func TestGlobalExcludeAppliesEverywhere(t *testing.T) {
	faceA := &fontface.Face{FontID: 4, Codepoints: charset.FromRange(0x20, 0x7E)}
	resolver := NewResolver(map[string]*FontGroup{"A": {Name: "A", Faces: []*fontface.Face{faceA}}})

	lines := []Line{
		{Kind: KindStack, Fonts: []string{"*"}, Charset: charset.FromRange(0x20, 0x7E)},
		{Kind: KindExclude, Fonts: []string{"*"}, Charset: charset.FromRange(0x30, 0x39)},
	}
	out, err := Build(lines, resolver)
	assert.NoError(t, err)
	used := out.GetUsedChars(faceA)
	assert.False(t, used.Contains('5'))
	assert.True(t, used.Contains('A'))
}
