// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webroot

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// PropertyBucket accumulates the active values a cascade step contributed
// to one property on one element, per §4.9 step 4.
type PropertyBucket struct {
	Values      map[string]bool
	Overwritten bool
}

func newBucket() *PropertyBucket {
	return &PropertyBucket{Values: map[string]bool{}}
}

func (b *PropertyBucket) clone() *PropertyBucket {
	nb := newBucket()
	nb.Overwritten = b.Overwritten
	for v := range b.Values {
		nb.Values[v] = true
	}
	return nb
}

func (b *PropertyBucket) sorted() []string {
	out := make([]string, 0, len(b.Values))
	for v := range b.Values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// elementState holds the four tracked property buckets plus the
// `display` bucket used only to detect unconditional display:none.
type elementState struct {
	fontFamily *PropertyBucket
	fontWeight *PropertyBucket
	fontStyle  *PropertyBucket
	content    *PropertyBucket
	display    *PropertyBucket
}

func newElementState() *elementState {
	return &elementState{
		fontFamily: newBucket(),
		fontWeight: newBucket(),
		fontStyle:  newBucket(),
		content:    newBucket(),
		display:    newBucket(),
	}
}

func (s *elementState) bucket(prop string) *PropertyBucket {
	switch prop {
	case "font-family":
		return s.fontFamily
	case "font-weight":
		return s.fontWeight
	case "font-style":
		return s.fontStyle
	case "content":
		return s.content
	case "display":
		return s.display
	default:
		return nil
	}
}

func (s *elementState) clone() *elementState {
	return &elementState{
		fontFamily: s.fontFamily.clone(),
		fontWeight: s.fontWeight.clone(),
		fontStyle:  s.fontStyle.clone(),
		content:    s.content.clone(),
		display:    s.display.clone(),
	}
}

// applyDeclaration implements the Override/Inherit/conditional semantics
// of §4.9 step 4.
func applyDeclaration(s *elementState, d Declaration, conditional bool) {
	b := s.bucket(d.Property)
	if b == nil {
		return
	}
	value := strings.TrimSpace(d.Value)
	if d.Property != "font-family" {
		value = strings.ToLower(value)
	}

	if conditional {
		b.Values[value] = true
		return
	}
	if strings.EqualFold(value, "inherit") {
		b.Values = map[string]bool{}
		b.Overwritten = false
		return
	}
	b.Values = map[string]bool{value: true}
	b.Overwritten = true
}

// ResolvedNodeProperties is the resolved per-node property state of
// §4.9 step 5: possible font stacks, weights, styles, and pseudo content.
type ResolvedNodeProperties struct {
	FontStacks [][]string
	Weights    []int
	Styles     []string
	Contents   []string
	Hidden     bool
}

func resolveNode(state *elementState) ResolvedNodeProperties {
	var stacks [][]string
	for fam := range state.fontFamily.Values {
		var stack []string
		for _, part := range strings.Split(fam, ",") {
			part = strings.TrimSpace(part)
			part = strings.Trim(part, `"'`)
			if part != "" {
				stack = append(stack, part)
			}
		}
		if len(stack) > 0 {
			stacks = append(stacks, stack)
		}
	}

	var weights []int
	for w := range state.fontWeight.Values {
		if n, ok := parseWeightKeyword(w); ok {
			weights = append(weights, n)
		}
	}

	var styles []string
	for st := range state.fontStyle.Values {
		styles = append(styles, st)
	}

	var contents []string
	for c := range state.content.Values {
		contents = append(contents, c)
	}

	hidden := state.display.Values["none"]

	return ResolvedNodeProperties{FontStacks: stacks, Weights: weights, Styles: styles, Contents: contents, Hidden: hidden}
}

func parseWeightKeyword(v string) (int, bool) {
	switch v {
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	case "bolder":
		return 700, true
	case "lighter":
		return 300, true
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// mergeChild merges parent into child per step 5: "clearing when
// overwritten was set" — a bucket the child itself set unconditionally
// is left alone; otherwise the parent's active values are folded in.
func mergeChild(parent, child *elementState) *elementState {
	out := child.clone()
	mergeBucket(out.fontFamily, parent.fontFamily)
	mergeBucket(out.fontWeight, parent.fontWeight)
	mergeBucket(out.fontStyle, parent.fontStyle)
	mergeBucket(out.content, parent.content)
	mergeBucket(out.display, parent.display)
	return out
}

func mergeBucket(child, parent *PropertyBucket) {
	if child.Overwritten {
		return
	}
	for v := range parent.Values {
		child.Values[v] = true
	}
	if parent.Overwritten {
		child.Overwritten = true
	}
}

// applyRulesToElement applies every matching rule (in ascending
// specificity order) plus the inline style attribute (applied last,
// unconditionally per Design Note (a)) to produce this element's own
// (unmerged) state.
func applyRulesToElement(n *html.Node, ancestors []*html.Node, rules []Rule) *elementState {
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Specificity < rules[j].Specificity })

	s := newElementState()
	for _, r := range rules {
		matched := false
		for _, sel := range r.Selectors {
			if compileSelector(sel).matches(n, ancestors) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, d := range r.Decls {
			applyDeclaration(s, d, r.Conditional)
		}
	}

	if style := nodeAttr(n, "style"); style != "" {
		for _, d := range parseInlineStyle(style) {
			applyDeclaration(s, d, false)
		}
	}
	return s
}

func parseInlineStyle(style string) []Declaration {
	var out []Declaration
	for _, decl := range strings.Split(style, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(parts[0]))
		if !interestingProps[prop] {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: strings.TrimSpace(parts[1])})
	}
	return out
}
