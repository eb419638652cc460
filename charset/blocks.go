// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charset

import "sort"

// Go's standard unicode package only ships script and category tables,
// not Unicode block tables, and none of the example dependencies expose
// a block table either, so we carry a compact one here: (first
// codepoint, block name) pairs covering the blocks that
// matter to web font subsetting, in ascending order. A codepoint's block
// is the name attached to the greatest entry whose Lo is <= it.
var blockTable = []struct {
	Lo   rune
	Name string
}{
	{0x0000, "Basic Latin"},
	{0x0080, "Latin-1 Supplement"},
	{0x0100, "Latin Extended-A"},
	{0x0180, "Latin Extended-B"},
	{0x0250, "IPA Extensions"},
	{0x02B0, "Spacing Modifier Letters"},
	{0x0300, "Combining Diacritical Marks"},
	{0x0370, "Greek and Coptic"},
	{0x0400, "Cyrillic"},
	{0x0500, "Cyrillic Supplement"},
	{0x0530, "Armenian"},
	{0x0590, "Hebrew"},
	{0x0600, "Arabic"},
	{0x0750, "Arabic Supplement"},
	{0x0900, "Devanagari"},
	{0x0980, "Bengali"},
	{0x0A00, "Gurmukhi"},
	{0x0A80, "Gujarati"},
	{0x0B00, "Oriya"},
	{0x0B80, "Tamil"},
	{0x0C00, "Telugu"},
	{0x0C80, "Kannada"},
	{0x0D00, "Malayalam"},
	{0x0E00, "Thai"},
	{0x0E80, "Lao"},
	{0x0F00, "Tibetan"},
	{0x10A0, "Georgian"},
	{0x1100, "Hangul Jamo"},
	{0x1E00, "Latin Extended Additional"},
	{0x1F00, "Greek Extended"},
	{0x2000, "General Punctuation"},
	{0x2070, "Superscripts and Subscripts"},
	{0x20A0, "Currency Symbols"},
	{0x2100, "Letterlike Symbols"},
	{0x2150, "Number Forms"},
	{0x2190, "Arrows"},
	{0x2200, "Mathematical Operators"},
	{0x2300, "Miscellaneous Technical"},
	{0x2460, "Enclosed Alphanumerics"},
	{0x2500, "Box Drawing"},
	{0x25A0, "Geometric Shapes"},
	{0x2600, "Miscellaneous Symbols"},
	{0x2700, "Dingbats"},
	{0x2E80, "CJK Radicals Supplement"},
	{0x2F00, "Kangxi Radicals"},
	{0x3000, "CJK Symbols and Punctuation"},
	{0x3040, "Hiragana"},
	{0x30A0, "Katakana"},
	{0x3100, "Bopomofo"},
	{0x3130, "Hangul Compatibility Jamo"},
	{0x3200, "Enclosed CJK Letters and Months"},
	{0x3300, "CJK Compatibility"},
	{0x3400, "CJK Unified Ideographs Extension A"},
	{0x4E00, "CJK Unified Ideographs"},
	{0xA000, "Yi Syllables"},
	{0xAC00, "Hangul Syllables"},
	{0xD800, "Surrogates"},
	{0xE000, "Private Use Area"},
	{0xF900, "CJK Compatibility Ideographs"},
	{0xFB00, "Alphabetic Presentation Forms"},
	{0xFB50, "Arabic Presentation Forms-A"},
	{0xFE00, "Variation Selectors"},
	{0xFE30, "CJK Compatibility Forms"},
	{0xFE70, "Arabic Presentation Forms-B"},
	{0xFF00, "Halfwidth and Fullwidth Forms"},
	{0x10000, "Linear B Syllabary"},
	{0x1F300, "Miscellaneous Symbols and Pictographs"},
	{0x1F600, "Emoticons"},
	{0x1F900, "Supplemental Symbols and Pictographs"},
	{0x20000, "CJK Unified Ideographs Extension B"},
	{0x2A700, "CJK Unified Ideographs Extension C"},
	{0xF0000, "Supplementary Private Use Area-A"},
	{0x100000, "Supplementary Private Use Area-B"},
}

// Block returns the name of the greatest blockTable entry whose Lo is <= c,
// or "" if c is negative. Codepoints in gaps between listed blocks, or
// past the last entry, get the name of the preceding entry.
func Block(c rune) string {
	i := sort.Search(len(blockTable), func(i int) bool { return blockTable[i].Lo > c }) - 1
	if i < 0 {
		return ""
	}
	return blockTable[i].Name
}

// MergedBlock collapses related blocks into one name, per §4.3's rule
// that e.g. all "Latin Extended-*" blocks merge into "Latin Extended" and
// the CJK ideograph extensions collapse together. Used for the adjacency
// array's block_id assignment (C3) and is exported for reuse by the
// encoder's unicode-range merging (C8).
func MergedBlock(c rune) string {
	name := Block(c)
	switch {
	case name == "":
		return name
	case hasPrefixAny(name, "Latin Extended-", "Latin Extended Additional"):
		return "Latin Extended"
	case hasPrefixAny(name, "CJK Unified Ideographs Extension"):
		return "CJK Unified Ideographs"
	case hasPrefixAny(name, "CJK Compatibility Ideographs"):
		return "CJK Unified Ideographs"
	case hasPrefixAny(name, "Private Use Area", "Supplementary Private Use Area"):
		return "Private Use"
	case hasPrefixAny(name, "Arabic Presentation Forms", "Arabic Supplement"):
		return "Arabic"
	default:
		return name
	}
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
