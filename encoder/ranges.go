// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

import (
	"github.com/Lymia/mkwebfont/charset"
)

// unicodeRanges merges adjacent runs across a gap when every codepoint in
// the gap shares a Unicode block with its neighbors and none of them
// appear anywhere in the font's full codepoint set.
func unicodeRanges(subset, fontCodepoints *charset.Set) []charset.Range {
	raw := subset.Ranges()
	if len(raw) <= 1 {
		return raw
	}

	merged := []charset.Range{raw[0]}
	for _, r := range raw[1:] {
		last := &merged[len(merged)-1]
		if gapMergeable(last.Hi, r.Lo, fontCodepoints) {
			last.Hi = r.Hi
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func gapMergeable(prevHi, nextLo rune, fontCodepoints *charset.Set) bool {
	if nextLo <= prevHi+1 {
		return true
	}
	block := charset.MergedBlock(prevHi)
	for c := prevHi + 1; c < nextLo; c++ {
		if charset.MergedBlock(c) != block {
			return false
		}
		if fontCodepoints.Contains(c) {
			return false
		}
	}
	return charset.MergedBlock(nextLo) == block
}
