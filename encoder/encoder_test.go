// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilePrefixStatic(t *testing.T) {
	p := filePrefix("Roboto Condensed", "Bold Italic", false, "2.137", "latin")
	assert.Equal(t, "RobotoCondensed-BoldItalic_2137_latin", p)
}

func TestFilePrefixVariable(t *testing.T) {
	p := filePrefix("Inter", "", true, "4.0", "latin")
	assert.Equal(t, "Inter-Variable_40_latin", p)
}

func TestFilePrefixClampsLength(t *testing.T) {
	p := filePrefix("ThisIsAVeryLongFamilyNameIndeedYes", "Regular", false, "1.0", "s")
	assert.Equal(t, "ThisIsAVeryLongFamil-Regular_10_s", p)
	assert.Contains(t, p, "_10_s")
}

func TestSanitizeTokenDropsNonAlnum(t *testing.T) {
	assert.Equal(t, "NotoSansJP", sanitizeToken("Noto Sans JP"))
}
