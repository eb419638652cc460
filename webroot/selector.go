// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webroot

import (
	"strings"

	"golang.org/x/net/html"
)

// simpleSelector is one compound selector step (tag, id, classes).
// Pseudo-classes are stripped before matching, having been accounted for
// in Rule.Conditional. Attribute selectors are not parsed: they stay in
// the tag, id or class text they follow, so such a step matches nothing.
type simpleSelector struct {
	tag     string
	id      string
	classes []string
}

// compiledSelector is a selector list split on the descendant combinator
// (the only combinator this analyzer matches; child/sibling combinators
// are treated as descendant, a conservative over-match documented as a
// simplification).
type compiledSelector struct {
	steps []simpleSelector
}

func compileSelector(sel string) compiledSelector {
	sel = stripPseudo(sel)
	sel = strings.ReplaceAll(sel, ">", " ")
	sel = strings.ReplaceAll(sel, "+", " ")
	sel = strings.ReplaceAll(sel, "~", " ")
	fields := strings.Fields(sel)

	var steps []simpleSelector
	for _, f := range fields {
		steps = append(steps, parseCompound(f))
	}
	return compiledSelector{steps: steps}
}

func stripPseudo(sel string) string {
	var b strings.Builder
	depth := 0
	skipping := false
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		if c == ':' && depth == 0 {
			skipping = true
			continue
		}
		if skipping {
			switch {
			case c == '(':
				depth++
			case c == ')':
				if depth > 0 {
					depth--
				}
				if depth == 0 {
					skipping = false
				}
			case depth == 0 && (c == ' ' || c == '.' || c == '#' || c == '>' || c == '+' || c == '~'):
				skipping = false
				b.WriteByte(c)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func parseCompound(f string) simpleSelector {
	var s simpleSelector
	cur := ""
	flush := func(kind byte) {
		switch kind {
		case 't':
			s.tag = cur
		case '#':
			s.id = cur
		case '.':
			if cur != "" {
				s.classes = append(s.classes, cur)
			}
		}
		cur = ""
	}
	kind := byte('t')
	for _, r := range f {
		switch r {
		case '#':
			flush(kind)
			kind = '#'
		case '.':
			flush(kind)
			kind = '.'
		default:
			cur += string(r)
		}
	}
	flush(kind)
	return s
}

// specificity approximates CSS specificity as (#ids, #classes, #tags).
func specificity(sel string) int {
	c := compileSelector(sel)
	ids, classes, tags := 0, 0, 0
	for _, s := range c.steps {
		if s.id != "" {
			ids++
		}
		classes += len(s.classes)
		if s.tag != "" {
			tags++
		}
	}
	return ids*1_000_000 + classes*1_000 + tags
}

func maxSpecificity(selectors []string) int {
	best := 0
	for _, s := range selectors {
		if v := specificity(s); v > best {
			best = v
		}
	}
	return best
}

// matches reports whether node satisfies the last step of the compiled
// selector, with every earlier step found among node's ancestors in
// order (descendant matching only).
func (c compiledSelector) matches(node *html.Node, ancestors []*html.Node) bool {
	if len(c.steps) == 0 {
		return false
	}
	last := c.steps[len(c.steps)-1]
	if !last.matchesNode(node) {
		return false
	}
	remaining := c.steps[:len(c.steps)-1]
	ai := len(ancestors) - 1
	for i := len(remaining) - 1; i >= 0; i-- {
		found := false
		for ; ai >= 0; ai-- {
			if remaining[i].matchesNode(ancestors[ai]) {
				found = true
				ai--
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s simpleSelector) matchesNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && s.tag != "*" && !strings.EqualFold(n.Data, s.tag) {
		return false
	}
	if s.id != "" && nodeAttr(n, "id") != s.id {
		return false
	}
	for _, cls := range s.classes {
		if !hasClass(n, cls) {
			return false
		}
	}
	return true
}

func nodeAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, cls string) bool {
	for _, c := range strings.Fields(nodeAttr(n, "class")) {
		if c == cls {
			return true
		}
	}
	return false
}
