// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fontface

import (
	"fmt"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/fontface/woff2"
)

// SubsetOptions holds variation-axis and brotli-quality settings for a
// subset. Subset does not take a SubsetOptions and nothing reads its
// fields: Subset pins no variation axes (hidden ones included) and
// always compresses at brotli quality 11.
type SubsetOptions struct {
	// PinWeight is a fixed value for the weight axis.
	PinWeight *float64
	Quality   int // brotli quality, 0-11
}

// Subset produces a WOFF2-encoded font, compressed at brotli quality 11,
// from every table of the face's sfnt container, copied unchanged. No
// glyph-level subsetting is done (no glyf entries are dropped and
// loca/cmap are not renumbered), so the output covers the whole font,
// not only cps; no variation axes are pinned; and no WOFF2 metadata
// block is written, so name appears only in error messages. Subset
// fails when no codepoint of cps is in f.Codepoints.
func (f *Face) Subset(name string, cps *charset.Set) ([]byte, error) {
	covered := cps.Intersect(f.Codepoints)
	if covered.IsEmpty() {
		return nil, fmt.Errorf("fontface: subset %q: no requested codepoints are covered by %s", name, f.Family)
	}

	var tables []woff2.InputTable
	for tag, data := range f.container.tables {
		tables = append(tables, woff2.InputTable{Tag: tag, Data: data})
	}

	flavor := uint32(flavorTTFConst)
	if f.container.isCFF() {
		flavor = flavorOTFConst
	}

	quality := 11
	out, err := woff2.Encode(flavor, tables, quality)
	if err != nil {
		return nil, fmt.Errorf("fontface: subset %q: %w", name, err)
	}
	return out, nil
}

const (
	flavorTTFConst = 0x00010000
	flavorOTFConst = 0x4F54544F
)
