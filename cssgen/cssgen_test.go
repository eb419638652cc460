// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cssgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/encoder"
	"github.com/Lymia/mkwebfont/fontface"
)

func TestGenerateFontFaceOmitsNormalStyle(t *testing.T) {
	fonts := []*encoder.WebfontInfo{{
		Family:      "Example",
		Style:       fontface.StyleRegular,
		WeightRange: fontface.WeightRange{Min: 400, Max: 400},
		Subsets: []encoder.SubsetInfo{{
			Name:     "latin",
			FileName: "example-latin.woff2",
			Ranges:   []charset.Range{{Lo: 0x41, Hi: 0x5A}},
		}},
	}}
	out := Generate(fonts, GenerateOptions{URLPrefix: "/fonts/"})
	assert.Contains(t, out, `font-family: "Example"`)
	assert.NotContains(t, out, "font-style")
	assert.Contains(t, out, "font-weight: 400;")
	assert.Contains(t, out, "unicode-range: U+0041-005A;")
	assert.Contains(t, out, `url("/fonts/example-latin.woff2")`)
}

func TestGenerateVariableWeightRange(t *testing.T) {
	fonts := []*encoder.WebfontInfo{{
		Family:      "Variable",
		Style:       fontface.StyleItalic,
		WeightRange: fontface.WeightRange{Min: 100, Max: 900},
		Subsets: []encoder.SubsetInfo{{
			FileName: "v.woff2",
			Ranges:   []charset.Range{{Lo: 0x41, Hi: 0x41}},
		}},
	}}
	out := Generate(fonts, GenerateOptions{})
	assert.Contains(t, out, "font-weight: 100 900;")
	assert.Contains(t, out, "font-style: italic;")
}

func TestRewriteFontFamilyAppendsFallback(t *testing.T) {
	opts := RewriteOptions{AddFallback: map[string]string{"Inter": "sans-serif"}}
	out, changed := RewriteFontFamily(`"Inter", Arial`, opts)
	assert.True(t, changed)
	assert.Contains(t, out, "sans-serif")
}

func TestRewriteFontFamilyNoOpWhenAlreadyPresent(t *testing.T) {
	opts := RewriteOptions{AddFallback: map[string]string{"Inter": "sans-serif"}}
	_, changed := RewriteFontFamily(`"Inter", sans-serif`, opts)
	assert.False(t, changed)
}
