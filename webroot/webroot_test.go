// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestAnalyzeSimpleDocument(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeTemp(t, dir, "index.html", `<html><body>
		<style>p { font-family: "Primary", sans-serif; font-weight: 400; }</style>
		<p>hello</p>
	</body></html>`)

	a := NewAnalyzer(dir)
	info, err := a.AnalyzeFiles([]string{htmlPath})
	assert.NoError(t, err)
	assert.NotEmpty(t, info.Usages)

	found := false
	for _, u := range info.Usages {
		if len(u.FontStacks) > 0 && u.FontStacks[0][0] == "Primary" {
			found = true
			assert.True(t, u.Chars.Contains('h'))
		}
	}
	assert.True(t, found)
}

func TestAnalyzeDisplayNoneSuppressesText(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeTemp(t, dir, "index.html", `<html><body>
		<style>.hidden { display: none; }</style>
		<p class="hidden">invisibletext</p>
		<p>visibletext</p>
	</body></html>`)

	a := NewAnalyzer(dir)
	info, err := a.AnalyzeFiles([]string{htmlPath})
	assert.NoError(t, err)

	for _, u := range info.Usages {
		assert.False(t, u.Chars.Contains('n')) // "invisibletext" must never contribute
	}
}

func TestSelectorConditionalPseudo(t *testing.T) {
	assert.True(t, selectorIsConditional("a:hover"))
	assert.False(t, selectorIsConditional("a.button"))
	assert.True(t, selectorIsConditional(":has(a:hover)"))
}

func TestResolveStylesheetRefEscapePrevented(t *testing.T) {
	dir := t.TempDir()
	_, err := resolveStylesheetRef(dir, filepath.Join(dir, "index.html"), "../../etc/passwd")
	assert.Error(t, err)
}
