// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

import (
	"fmt"
	"strings"
)

const maxTokenLen = 20

// sanitizeToken keeps only alnum runes and clamps to maxTokenLen, per
// §4.8's file-name prefix rule.
func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxTokenLen {
			break
		}
	}
	return b.String()
}

// filePrefix builds the `{family}{sep}{style}_{version}_{subset}` prefix
// described in §4.8. separator and style token are emitted only when
// non-empty.
func filePrefix(family, style string, variable bool, version, subsetName string) string {
	familyTok := sanitizeToken(family)

	styleTok := ""
	if variable {
		styleTok = "Variable"
	} else {
		styleTok = sanitizeToken(style)
	}

	versionDigits := sanitizeDigits(version)

	var b strings.Builder
	b.WriteString(familyTok)
	if styleTok != "" {
		b.WriteByte('-')
		b.WriteString(styleTok)
	}
	b.WriteByte('_')
	b.WriteString(versionDigits)
	b.WriteByte('_')
	b.WriteString(subsetName)
	return b.String()
}

func sanitizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// finalFileName appends the shared content-hash fragment and extension.
func finalFileName(prefix, hashFragment string) string {
	return fmt.Sprintf("%s-%s.woff2", prefix, hashFragment)
}
