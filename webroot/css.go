// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webroot implements the Webroot Analyzer component (C9):
// parsing a site's HTML and CSS to derive per-font-stack character
// usage, preload hints, and style/weight ranges.
package webroot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// interestingProps are the declarations §4.9 step 3 tracks; everything
// else is ignored during cascade resolution.
var interestingProps = map[string]bool{
	"font-family": true,
	"font-weight": true,
	"font-style":  true,
	"display":     true,
	"content":     true,
}

// Declaration is one interesting CSS declaration attached to a rule.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a parsed, flattened CSS rule: one or more comma-separated
// selectors, its interesting declarations, and whether it only
// conditionally applies (inside a media query, or guarded by a
// pseudo-class/functional pseudo-class that isn't always true).
type Rule struct {
	Selectors   []string
	Decls       []Declaration
	Conditional bool
	Specificity int
}

// cssCacheKey identifies one parse by content + resolved root, per §4.9's
// "async-friendly bounded LRU keyed by (source text, resolved root path)".
type cssCacheKey struct {
	text string
	root string
}

// cssCache is a small bounded, concurrency-safe memoizing cache for
// parsed stylesheets.
type cssCache struct {
	mu       sync.Mutex
	capacity int
	order    []cssCacheKey
	entries  map[cssCacheKey][]Rule
}

func newCSSCache(capacity int) *cssCache {
	return &cssCache{capacity: capacity, entries: map[cssCacheKey][]Rule{}}
}

func (c *cssCache) getOrParse(text, root string) ([]Rule, error) {
	key := cssCacheKey{text: text, root: root}

	c.mu.Lock()
	if rules, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return rules, nil
	}
	c.mu.Unlock()

	rules, err := parseStylesheet(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[key] = rules
		c.order = append(c.order, key)
	}
	return rules, nil
}

// parseStylesheet parses raw CSS text into flattened Rules, dropping
// everything but the interesting declarations. Nested at-rules
// (@media, @supports) mark their contents conditional; every other
// at-rule is dropped without a warning.
func parseStylesheet(text string) ([]Rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("webroot: parsing stylesheet: %w", err)
	}
	var out []Rule
	for _, r := range sheet.Rules {
		out = append(out, flattenRule(r, false)...)
	}
	return out, nil
}

func flattenRule(r *css.Rule, conditional bool) []Rule {
	if r.Kind == css.AtRule {
		if r.Name == "media" || r.Name == "supports" {
			var out []Rule
			for _, nested := range r.Rules {
				out = append(out, flattenRule(nested, true)...)
			}
			return out
		}
		return nil
	}

	var decls []Declaration
	for _, d := range r.Declarations {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if !interestingProps[prop] {
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: strings.TrimSpace(d.Value)})
	}
	if len(decls) == 0 {
		return nil
	}

	var selectors []string
	isCond := conditional
	for _, sel := range r.Selectors {
		sel = strings.TrimSpace(sel)
		if selectorIsConditional(sel) {
			isCond = true
		}
		selectors = append(selectors, sel)
	}

	return []Rule{{
		Selectors:   selectors,
		Decls:       decls,
		Conditional: isCond,
		Specificity: maxSpecificity(selectors),
	}}
}

// selectorIsConditional flags pseudo-classes and functional pseudo
// selectors (:hover, :focus, :has(), :is(), :where(), :not()) whose
// containing combinators may themselves be conditional.
func selectorIsConditional(sel string) bool {
	conditionalPseudos := []string{":hover", ":focus", ":active", ":visited", ":focus-within", ":focus-visible"}
	for _, p := range conditionalPseudos {
		if strings.Contains(sel, p) {
			return true
		}
	}
	functional := []string{":has(", ":is(", ":where(", ":not("}
	for _, p := range functional {
		idx := strings.Index(sel, p)
		if idx < 0 {
			continue
		}
		depth := 0
		for i := idx + len(p) - 1; i < len(sel); i++ {
			switch sel[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					inner := sel[idx+len(p) : i]
					if selectorContainsConditionalPseudo(inner) {
						return true
					}
				}
			}
		}
	}
	return false
}

func selectorContainsConditionalPseudo(inner string) bool {
	for _, p := range []string{":hover", ":focus", ":active", ":visited"} {
		if strings.Contains(inner, p) {
			return true
		}
	}
	return false
}

// resolveStylesheetRef resolves an href relative to the current file
// path, refusing to escape the webroot.
func resolveStylesheetRef(webroot, currentFile, href string) (string, error) {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//") {
		return "", fmt.Errorf("webroot: external stylesheet %q not supported", href)
	}
	base := filepath.Dir(currentFile)
	resolved := filepath.Clean(filepath.Join(base, href))

	rootAbs, err := filepath.Abs(webroot)
	if err != nil {
		return "", err
	}
	resolvedAbs, err := filepath.Abs(resolved)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(rootAbs, resolvedAbs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("webroot: stylesheet reference %q escapes webroot", href)
	}
	return resolvedAbs, nil
}

func readFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
