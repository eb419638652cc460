// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fontface

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Lymia/mkwebfont/charset"
)

// Style is the inferred style enum from §3.
type Style int

const (
	StyleRegular Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	default:
		return "normal"
	}
}

// WeightRange is an inclusive [Min, Max] weight range; a static font has
// Min == Max.
type WeightRange struct {
	Min, Max int
}

// nextFontID is the process-wide monotonic font_id counter from §3.
var nextFontID atomic.Int64

// Face is an immutable record for one face within a font container.
type Face struct {
	FontID int64

	raw       []byte
	faceIndex int

	Family      string
	StyleString string
	Version     string

	InferredStyle  Style
	InferredWeight int
	WeightRange    WeightRange

	Axes []VariationAxis

	Codepoints *charset.Set

	container *container
}

// Load parses every face in data (a TTF, OTF, or TTC). WOFF/WOFF2 input
// is rejected per §4.5's fail-fast load contract.
func Load(data []byte) ([]*Face, error) {
	offsets, err := splitCollection(data)
	if err != nil {
		return nil, err
	}
	faces := make([]*Face, 0, len(offsets))
	for i, off := range offsets {
		f, err := loadOne(data, off, i)
		if err != nil {
			return nil, fmt.Errorf("fontface: face %d: %w", i, err)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func loadOne(data []byte, offset uint32, faceIndex int) (*Face, error) {
	c, err := parseContainer(data, offset)
	if err != nil {
		return nil, err
	}

	var names []nameRecord
	if raw, ok := c.table(tagName); ok {
		names = parseName(raw)
	}

	family, _ := nameByID(names, 16) // typographic family
	if family == "" {
		family, _ = nameByID(names, 1)
	}
	subfamily, _ := nameByID(names, 17) // typographic subfamily
	if subfamily == "" {
		subfamily, _ = nameByID(names, 2)
	}
	if subfamily == "" {
		subfamily = "Regular"
	}

	version := ""
	if v, ok := nameByID(names, 5); ok {
		version = strings.TrimSpace(strings.SplitN(v, ";", 2)[0])
	}

	var axes []VariationAxis
	if raw, ok := c.table(tagFvar); ok {
		axes = parseFvar(raw, names)
	}

	style := StyleRegular
	lower := strings.ToLower(subfamily)
	switch {
	case strings.Contains(lower, "italic"):
		style = StyleItalic
	case strings.Contains(lower, "oblique"):
		style = StyleOblique
	}
	if head, ok := parseHead(mustTable(c, tagHead)); ok {
		if head.MacStyle&0x02 != 0 && style == StyleRegular {
			style = StyleItalic
		}
	}

	weight := inferWeightFromName(subfamily)
	if os2, ok := parseOS2(mustTable(c, tagOS2)); ok && os2.WeightClass != 0 {
		weight = int(os2.WeightClass)
	}

	wr := WeightRange{Min: weight, Max: weight}
	for _, a := range axes {
		if a.MappedTo == "weight" {
			wr = WeightRange{Min: int(a.Min), Max: int(a.Max)}
			break
		}
	}

	cps := charset.NewSet()
	if raw, ok := c.table(tagCmap); ok {
		cps, err = cmapCodepoints(raw)
		if err != nil {
			return nil, fmt.Errorf("cmap: %w", err)
		}
	}

	return &Face{
		FontID:         nextFontID.Add(1),
		raw:            data,
		faceIndex:      faceIndex,
		Family:         family,
		StyleString:    subfamily,
		Version:        version,
		InferredStyle:  style,
		InferredWeight: weight,
		WeightRange:    wr,
		Axes:           axes,
		Codepoints:     cps,
		container:      c,
	}, nil
}

func mustTable(c *container, tag sfntTag) []byte {
	t, _ := c.table(tag)
	return t
}

// IsVariable reports whether the face carries any variation axes.
func (f *Face) IsVariable() bool {
	return len(f.Axes) > 0
}

// String renders a human-readable description, in the terse
// "FONT{...}"-style the pack's font libraries use for debug output.
func (f *Face) String() string {
	return fmt.Sprintf("FACE{%s %s id=%d weight=%s}", f.Family, f.StyleString,
		f.FontID, strconv.Itoa(f.InferredWeight))
}
