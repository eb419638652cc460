// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

// QualityReport summarizes a produced webfont's subsetting for operator
// inspection: how many subsets were emitted, their combined byte size
// and codepoint count, and the largest individual subset. It holds no
// measurement of the unsplit font to compare against. This
// mirrors the original Rust implementation's quality_report, dropped
// from the distilled spec but useful when tuning splitter parameters.
type QualityReport struct {
	Family          string
	SubsetCount     int
	TotalBytes      int
	LargestSubset   string
	LargestBytes    int
	CodepointsTotal int
}

// BuildQualityReport summarizes a produced WebfontInfo.
func BuildQualityReport(info *WebfontInfo) QualityReport {
	r := QualityReport{Family: info.Family, SubsetCount: len(info.Subsets)}
	for _, s := range info.Subsets {
		r.TotalBytes += len(s.Data)
		r.CodepointsTotal += s.Codepoints.Len()
		if len(s.Data) > r.LargestBytes {
			r.LargestBytes = len(s.Data)
			r.LargestSubset = s.Name
		}
	}
	return r
}
