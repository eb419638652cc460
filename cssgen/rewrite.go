// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cssgen

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/Lymia/mkwebfont/base/errors"
)

// RewriteOptions controls in-place HTML/CSS rewriting.
type RewriteOptions struct {
	// AddFallback maps a font-family name to the fallback family to
	// append when that family appears in a font-family declaration.
	AddFallback map[string]string
	// MirrorInline additionally mirrors the fallback rewrite into
	// inline style="" attributes and <style> tag bodies.
	MirrorInline bool
}

// PickStylesheetTarget implements Design Note (c): prefer a
// `<link rel="mkwebfont-out">`; else the single listed href that does
// not yet exist on disk, if exactly one; else the first listed
// stylesheet link. Warns (via diag) in every other branch.
func PickStylesheetTarget(doc *html.Node, webroot string, diag *errors.Diagnostics) (*html.Node, bool) {
	var links []*html.Node
	var marked *html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			rel := attrVal(n, "rel")
			if rel == "mkwebfont-out" {
				marked = n
			} else if rel == "stylesheet" {
				links = append(links, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if marked != nil {
		return marked, true
	}
	if len(links) == 0 {
		diag.Warn("cssgen", "no <link rel=\"stylesheet\"> found to inject @font-face rules into")
		return nil, false
	}

	var nonExistent []*html.Node
	for _, l := range links {
		href := attrVal(l, "href")
		if href == "" {
			continue
		}
		if _, err := os.Stat(webroot + "/" + href); os.IsNotExist(err) {
			nonExistent = append(nonExistent, l)
		}
	}
	if len(nonExistent) == 1 {
		return nonExistent[0], true
	}
	if len(nonExistent) > 1 {
		diag.Warn("cssgen", "multiple candidate stylesheets missing from disk; falling back to the first listed")
	} else {
		diag.Warn("cssgen", "no <link rel=\"mkwebfont-out\"> and no stylesheet missing from disk; falling back to the first listed")
	}
	return links[0], true
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// RewriteFontFamily appends a configured fallback family to font-family
// declaration value fam if fam's primary family is present in
// opts.AddFallback. fam is the raw declaration value (comma-separated
// family list).
func RewriteFontFamily(fam string, opts RewriteOptions) (string, bool) {
	parts := strings.Split(fam, ",")
	if len(parts) == 0 {
		return fam, false
	}
	primary := strings.Trim(strings.TrimSpace(parts[0]), `"'`)
	fallback, ok := opts.AddFallback[primary]
	if !ok {
		return fam, false
	}
	for _, p := range parts {
		if strings.Trim(strings.TrimSpace(p), `"'`) == fallback {
			return fam, false
		}
	}
	return fam + ", " + fallback, true
}

// RewriteInlineStyle rewrites every font-family declaration in a
// style="…" attribute value, per RewriteOptions.MirrorInline.
func RewriteInlineStyle(style string, opts RewriteOptions) string {
	decls := strings.Split(style, ";")
	for i, d := range decls {
		kv := strings.SplitN(d, ":", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(kv[0])) != "font-family" {
			continue
		}
		if rewritten, changed := RewriteFontFamily(strings.TrimSpace(kv[1]), opts); changed {
			decls[i] = fmt.Sprintf("%s: %s", strings.TrimSpace(kv[0]), rewritten)
		}
	}
	return strings.Join(decls, ";")
}

// AppendFontFaceRules appends generated @font-face CSS text to an
// existing stylesheet's byte contents.
func AppendFontFaceRules(existing []byte, generated string) []byte {
	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(generated)
	return buf.Bytes()
}
