// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webroot

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/Lymia/mkwebfont/base/errors"
)

const defaultCSSCacheCapacity = 256

// Analyzer runs the C9 pipeline over a set of HTML files rooted at
// webroot, with an optional caller-injected stylesheet applied to every
// document before its own rules.
type Analyzer struct {
	Webroot      string
	InjectedCSS  string
	Diagnostics  errors.Diagnostics

	cache *cssCache
}

// NewAnalyzer prepares an Analyzer rooted at webroot.
func NewAnalyzer(webroot string) *Analyzer {
	return &Analyzer{Webroot: webroot, cache: newCSSCache(defaultCSSCacheCapacity)}
}

// AnalyzeFiles runs steps 1-7 of §4.9 over every listed HTML file and
// merges their usage buckets into one WebrootInfo.
func (a *Analyzer) AnalyzeFiles(htmlFiles []string) (*WebrootInfo, error) {
	merged := map[string]*Usage{}

	for _, path := range htmlFiles {
		usages, err := a.analyzeFile(path)
		if err != nil {
			return nil, fmt.Errorf("webroot: %s: %w", path, err)
		}
		for _, u := range usages {
			key := sampleKey(u.FontStacks, u.Weights, u.Styles)
			if existing, ok := merged[key]; ok {
				existing.Chars = existing.Chars.Union(u.Chars)
			} else {
				uCopy := u
				merged[key] = &uCopy
			}
		}
	}

	info := &WebrootInfo{}
	for _, u := range merged {
		info.Usages = append(info.Usages, *u)
	}
	return info, nil
}

func (a *Analyzer) analyzeFile(path string) ([]Usage, error) {
	text, err := readFileText(path)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// Base user-agent rules: <script> and <style> text is never rendered.
	rules := []Rule{{Selectors: []string{"script", "style"}, Decls: []Declaration{{Property: "display", Value: "none"}}, Specificity: 1}}
	if a.InjectedCSS != "" {
		injected, err := a.cache.getOrParse(a.InjectedCSS, a.Webroot)
		if err != nil {
			return nil, err
		}
		rules = append(rules, injected...)
	}

	gathered, err := a.gatherCSS(doc, path)
	if err != nil {
		return nil, err
	}
	rules = append(rules, gathered...)

	return analyzeDocument(doc, rules), nil
}

// gatherCSS implements §4.9 step 2: every <style> tag's text and every
// linked stylesheet resolved relative to path, refusing to escape the
// webroot. A 404'd or escaping stylesheet is a warning, not a fatal
// error, per §7.
func (a *Analyzer) gatherCSS(doc *html.Node, path string) ([]Rule, error) {
	var rules []Rule
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "style":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					parsed, err := a.cache.getOrParse(n.FirstChild.Data, a.Webroot)
					if err != nil {
						a.Diagnostics.Warn("webroot", "inline <style> in %s: %v", path, err)
					} else {
						rules = append(rules, parsed...)
					}
				}
			case "link":
				if nodeAttr(n, "rel") != "stylesheet" {
					break
				}
				href := nodeAttr(n, "href")
				if href == "" {
					break
				}
				resolved, err := resolveStylesheetRef(a.Webroot, path, href)
				if err != nil {
					a.Diagnostics.Warn("webroot", "stylesheet %q referenced from %s: %v", href, path, err)
					break
				}
				text, err := readFileText(resolved)
				if err != nil {
					a.Diagnostics.Warn("webroot", "stylesheet %q referenced from %s: %v", href, path, err)
					break
				}
				parsed, err := a.cache.getOrParse(text, a.Webroot)
				if err != nil {
					a.Diagnostics.Warn("webroot", "stylesheet %q referenced from %s: %v", href, path, err)
					break
				}
				rules = append(rules, parsed...)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rules, nil
}
