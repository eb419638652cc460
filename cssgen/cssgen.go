// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cssgen implements the CSS Rewriter component (C10): emitting
// @font-face declarations for every produced subset, and optionally
// rewriting source HTML/CSS to inject fallback font names.
package cssgen

import (
	"fmt"
	"strings"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/encoder"
)

// GenerateOptions controls stylesheet emission.
type GenerateOptions struct {
	// URLPrefix is prepended to every file name, e.g. a relative path
	// from the output CSS file to the store directory.
	URLPrefix string
}

// Generate produces the full generated stylesheet text for every subset
// of every webfont, per §6's CSS output format.
func Generate(fonts []*encoder.WebfontInfo, opts GenerateOptions) string {
	var b strings.Builder
	for _, f := range fonts {
		for _, s := range f.Subsets {
			writeFontFace(&b, f, s, opts)
		}
	}
	return b.String()
}

func writeFontFace(b *strings.Builder, f *encoder.WebfontInfo, s encoder.SubsetInfo, opts GenerateOptions) {
	fmt.Fprintf(b, "@font-face {\n")
	fmt.Fprintf(b, "  font-family: %q;\n", f.Family)
	if style := f.Style.String(); style != "normal" {
		fmt.Fprintf(b, "  font-style: %s;\n", style)
	}
	if f.WeightRange.Min == f.WeightRange.Max {
		fmt.Fprintf(b, "  font-weight: %d;\n", f.WeightRange.Min)
	} else {
		fmt.Fprintf(b, "  font-weight: %d %d;\n", f.WeightRange.Min, f.WeightRange.Max)
	}
	fmt.Fprintf(b, "  unicode-range: %s;\n", formatRanges(s.Ranges))
	fmt.Fprintf(b, "  src: url(%q) format(\"woff2\");\n", opts.URLPrefix+s.FileName)
	fmt.Fprintf(b, "}\n\n")
}

func formatRanges(ranges []charset.Range) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Lo == r.Hi {
			parts[i] = fmt.Sprintf("U+%04X", r.Lo)
		} else {
			parts[i] = fmt.Sprintf("U+%04X-%04X", r.Lo, r.Hi)
		}
	}
	return strings.Join(parts, ", ")
}
