// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assign

import (
	"fmt"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/fontface"
)

// FontAssignment holds the four per-font character sets from §3.
type FontAssignment struct {
	Subset          *charset.Set
	Exclusion       *charset.Set
	Preload         *charset.Set
	RangeExclusions *charset.Set
}

func newFontAssignment() *FontAssignment {
	return &FontAssignment{
		Subset:          charset.NewSet(),
		Exclusion:       charset.NewSet(),
		Preload:         charset.NewSet(),
		RangeExclusions: charset.NewSet(),
	}
}

// AssignedSubsets is the output of the assignment pass (§3 "Assigned
// subsets").
type AssignedSubsets struct {
	perFont map[int64]*FontAssignment

	AllSubset    *charset.Set
	AllExclusion *charset.Set
	AllPreload   *charset.Set

	FallbackRequired *charset.Set
}

func newAssignedSubsets() *AssignedSubsets {
	return &AssignedSubsets{
		perFont:          map[int64]*FontAssignment{},
		AllSubset:        charset.NewSet(),
		AllExclusion:     charset.NewSet(),
		AllPreload:       charset.NewSet(),
		FallbackRequired: charset.NewSet(),
	}
}

func (a *AssignedSubsets) forFont(f *fontface.Face) *FontAssignment {
	fa, ok := a.perFont[f.FontID]
	if !ok {
		fa = newFontAssignment()
		a.perFont[f.FontID] = fa
	}
	return fa
}

// FontGroup is a set of faces that are to be treated as interchangeable
// within a stack (e.g. the same family loaded from multiple files) and
// which must share an identical codepoint set.
type FontGroup struct {
	Name  string
	Faces []*fontface.Face
}

func (g *FontGroup) available() *charset.Set {
	if len(g.Faces) == 0 {
		return charset.NewSet()
	}
	return g.Faces[0].Codepoints
}

// Resolver maps the font names used in spec lines and stack specs to
// FontGroups.
type Resolver interface {
	Resolve(name string) (*FontGroup, error)
	AllGroups() []*FontGroup
}

// mapResolver is the straightforward in-memory Resolver built from a
// name->group map.
type mapResolver struct {
	groups map[string]*FontGroup
	all    []*FontGroup
}

// NewResolver builds a Resolver from a name->FontGroup map.
func NewResolver(groups map[string]*FontGroup) Resolver {
	r := &mapResolver{groups: groups}
	for _, g := range groups {
		r.all = append(r.all, g)
	}
	return r
}

func (r *mapResolver) Resolve(name string) (*FontGroup, error) {
	g, ok := r.groups[name]
	if !ok {
		return nil, fmt.Errorf("assign: unknown font %q referenced in spec", name)
	}
	return g, nil
}

func (r *mapResolver) AllGroups() []*FontGroup { return r.all }

// Build runs the full assignment algorithm in §4.6 over the parsed spec
// lines, resolving font/stack names against resolver.
func Build(lines []Line, resolver Resolver) (*AssignedSubsets, error) {
	out := newAssignedSubsets()

	for _, line := range lines {
		switch line.Kind {
		case KindExclude:
			if err := applyToFonts(line, resolver, out, func(fa *FontAssignment) {
				fa.Exclusion = fa.Exclusion.Union(line.Charset)
			}, func() {
				out.AllExclusion = out.AllExclusion.Union(line.Charset)
			}); err != nil {
				return nil, err
			}
		case KindPreload:
			if err := applyToFonts(line, resolver, out, func(fa *FontAssignment) {
				fa.Preload = fa.Preload.Union(line.Charset)
			}, func() {
				out.AllPreload = out.AllPreload.Union(line.Charset)
			}); err != nil {
				return nil, err
			}
		case KindStack:
			if err := applyStack(line, resolver, out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func applyToFonts(line Line, resolver Resolver, out *AssignedSubsets,
	perFace func(*FontAssignment), global func()) error {
	for _, name := range line.Fonts {
		if name == "*" {
			global()
			continue
		}
		g, err := resolver.Resolve(name)
		if err != nil {
			return err
		}
		for _, f := range g.Faces {
			perFace(out.forFont(f))
		}
	}
	return nil
}

// applyStack implements §4.6's "Stack assignment" algorithm exactly.
func applyStack(line Line, resolver Resolver, out *AssignedSubsets) error {
	if len(line.Fonts) == 1 && line.Fonts[0] == "*" {
		out.AllSubset = out.AllSubset.Union(line.Charset)
		return nil
	}

	groups := make([]*FontGroup, 0, len(line.Fonts))
	for _, name := range line.Fonts {
		g, err := resolver.Resolve(name)
		if err != nil {
			return err
		}
		groups = append(groups, g)
	}

	current := line.Charset
	reversePass := make([]*charset.Set, len(groups))
	for i, g := range groups {
		fulfilled := g.available().Intersect(current)
		reversePass[i] = fulfilled
		for _, f := range g.Faces {
			fa := out.forFont(f)
			fa.Subset = fa.Subset.Union(fulfilled)
		}
		current = current.Difference(fulfilled)
	}
	out.FallbackRequired = out.FallbackRequired.Union(current)

	for i := range groups {
		for j := 0; j < i; j++ {
			for _, f := range groups[j].Faces {
				fa := out.forFont(f)
				fa.RangeExclusions = fa.RangeExclusions.Union(reversePass[i])
			}
		}
	}
	return nil
}

// GetUsedChars implements §4.6's get_used_chars query.
func (a *AssignedSubsets) GetUsedChars(f *fontface.Face) *charset.Set {
	fa := a.forFont(f)
	included := fa.Subset.Union(a.AllSubset)
	excluded := fa.Exclusion.Union(a.AllExclusion)
	return included.Difference(excluded).Intersect(f.Codepoints)
}

// GetPreloadChars implements §4.6's get_preload_chars query.
func (a *AssignedSubsets) GetPreloadChars(f *fontface.Face) *charset.Set {
	fa := a.forFont(f)
	used := a.GetUsedChars(f)
	preload := fa.Preload.Union(a.AllPreload)
	return used.Intersect(preload)
}

// GetRangeExclusions returns the characters f must not ship because a
// later font in some stack it belongs to already covers them.
func (a *AssignedSubsets) GetRangeExclusions(f *fontface.Face) *charset.Set {
	return a.forFont(f).RangeExclusions
}
