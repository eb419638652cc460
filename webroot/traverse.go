// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webroot

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/Lymia/mkwebfont/charset"
)

// Usage is one aggregated (font_stack, style_set, weight_set) → observed
// character set bucket, per §4.9 step 7.
type Usage struct {
	FontStacks [][]string
	Styles     []string
	Weights    []int
	Chars      *charset.Set
}

// WebrootInfo is the C9 output record: every distinct usage bucket
// observed across the analyzed documents.
type WebrootInfo struct {
	Usages []Usage
}

type sample struct {
	stacks  [][]string
	weights []int
	styles  []string
	text    strings.Builder
}

func sampleKey(stacks [][]string, weights []int, styles []string) string {
	s1 := make([]string, len(stacks))
	for i, st := range stacks {
		s1[i] = strings.Join(st, ",")
	}
	sort.Strings(s1)

	w1 := make([]string, len(weights))
	for i, w := range weights {
		w1[i] = fmt.Sprintf("%d", w)
	}
	sort.Strings(w1)

	s2 := append([]string{}, styles...)
	sort.Strings(s2)

	return strings.Join(s1, "|") + "#" + strings.Join(w1, "|") + "#" + strings.Join(s2, "|")
}

// traverser walks the DOM in document order, flushing coalesced text
// samples into collected whenever the active tuple changes.
type traverser struct {
	rules      []Rule
	collected  map[string]*sample
	cur        *sample
	curKey     string
}

func newTraverser(rules []Rule) *traverser {
	return &traverser{rules: rules, collected: map[string]*sample{}}
}

func (t *traverser) flush() {
	if t.cur != nil && t.cur.text.Len() > 0 {
		existing, ok := t.collected[t.curKey]
		if !ok {
			t.collected[t.curKey] = t.cur
		} else {
			existing.text.WriteString(t.cur.text.String())
		}
	}
	t.cur = nil
	t.curKey = ""
}

func (t *traverser) visit(n *html.Node, ancestors []*html.Node, parentState *elementState) {
	if n.Type == html.ElementNode {
		own := applyRulesToElement(n, ancestors, t.rules)
		merged := mergeChild(parentState, own)
		resolved := resolveNode(merged)

		if resolved.Hidden {
			t.flush()
			return
		}

		for _, c := range resolved.Contents {
			t.flush()
			key := sampleKey(resolved.FontStacks, resolved.Weights, resolved.Styles)
			s := &sample{stacks: resolved.FontStacks, weights: resolved.Weights, styles: resolved.Styles}
			s.text.WriteString(c)
			t.collected[key+"#pseudo"] = s
		}

		childAncestors := append(append([]*html.Node{}, ancestors...), n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.visit(c, childAncestors, merged)
		}
		return
	}

	if n.Type == html.TextNode {
		text := n.Data
		if strings.TrimSpace(text) == "" {
			return
		}
		resolved := resolveNode(parentState)
		key := sampleKey(resolved.FontStacks, resolved.Weights, resolved.Styles)
		if key != t.curKey {
			t.flush()
			t.cur = &sample{stacks: resolved.FontStacks, weights: resolved.Weights, styles: resolved.Styles}
			t.curKey = key
		}
		t.cur.text.WriteString(text)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.visit(c, ancestors, parentState)
	}
}

// analyzeDocument walks doc's body in document order and aggregates
// samples into Usage buckets (§4.9 steps 6-7).
func analyzeDocument(doc *html.Node, rules []Rule) []Usage {
	t := newTraverser(rules)
	root := newElementState()
	t.visit(doc, nil, root)
	t.flush()

	usages := make([]Usage, 0, len(t.collected))
	for _, s := range t.collected {
		usages = append(usages, Usage{
			FontStacks: s.stacks,
			Styles:     s.styles,
			Weights:    s.weights,
			Chars:      charset.FromSlice([]rune(s.text.String())),
		})
	}
	sort.Slice(usages, func(i, j int) bool {
		return sampleKey(usages[i].FontStacks, usages[i].Weights, usages[i].Styles) <
			sampleKey(usages[j].FontStacks, usages[j].Weights, usages[j].Styles)
	})
	return usages
}
