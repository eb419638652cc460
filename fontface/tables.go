// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fontface

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/Lymia/mkwebfont/charset"
)

// nameRecord is one decoded OpenType "name" table record. mkwebfont
// reads these name IDs from it: family (1, or 16 typographic family when present), subfamily
// (2, or 17 typographic subfamily), and version string (5).
type nameRecord struct {
	platformID, encodingID, languageID, nameID uint16
	value                                       string
}

func parseName(data []byte) []nameRecord {
	if len(data) < 6 {
		return nil
	}
	count := binary.BigEndian.Uint16(data[2:4])
	storageOffset := binary.BigEndian.Uint16(data[4:6])
	var out []nameRecord
	const recSize = 12
	for i := 0; i < int(count); i++ {
		off := 6 + i*recSize
		if off+recSize > len(data) {
			break
		}
		rec := data[off : off+recSize]
		platformID := binary.BigEndian.Uint16(rec[0:2])
		encodingID := binary.BigEndian.Uint16(rec[2:4])
		languageID := binary.BigEndian.Uint16(rec[4:6])
		nameID := binary.BigEndian.Uint16(rec[6:8])
		length := binary.BigEndian.Uint16(rec[8:10])
		strOff := binary.BigEndian.Uint16(rec[10:12])
		start := int(storageOffset) + int(strOff)
		end := start + int(length)
		if start < 0 || end > len(data) || start > end {
			continue
		}
		raw := data[start:end]
		var value string
		if platformID == 1 {
			value = string(raw) // Macintosh Roman, close enough to ASCII for our purposes.
		} else {
			value = decodeUTF16BE(raw)
		}
		out = append(out, nameRecord{platformID, encodingID, languageID, nameID, value})
	}
	return out
}

func decodeUTF16BE(b []byte) string {
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u16))
}

// nameByID returns the first record for the given name ID, preferring
// Windows/Unicode platform records (which cover the full BMP) over
// Macintosh ones.
func nameByID(records []nameRecord, id uint16) (string, bool) {
	var mac string
	for _, r := range records {
		if r.nameID != id {
			continue
		}
		if r.platformID == 3 || r.platformID == 0 {
			return r.value, true
		}
		if mac == "" {
			mac = r.value
		}
	}
	if mac != "" {
		return mac, true
	}
	return "", false
}

// headInfo is the decoded subset of the "head" table.
type headInfo struct {
	UnitsPerEm uint16
	MacStyle   uint16
}

func parseHead(data []byte) (headInfo, bool) {
	if len(data) < 54 {
		return headInfo{}, false
	}
	return headInfo{
		UnitsPerEm: binary.BigEndian.Uint16(data[18:20]),
		MacStyle:   binary.BigEndian.Uint16(data[44:46]),
	}, true
}

// os2Info is the decoded subset of the "OS/2" table.
type os2Info struct {
	WeightClass uint16
	Selection   uint16
}

func parseOS2(data []byte) (os2Info, bool) {
	if len(data) < 64 {
		return os2Info{}, false
	}
	return os2Info{
		WeightClass: binary.BigEndian.Uint16(data[4:6]),
		Selection:   binary.BigEndian.Uint16(data[62:64]),
	}, true
}

// VariationAxis describes one "fvar" axis: a name, a four-byte tag (e.g.
// "wght"), a [min,max] range, the default value, and whether it is
// flagged hidden.
type VariationAxis struct {
	Name    string
	Tag     string
	Min     float64
	Default float64
	Max     float64
	Hidden  bool
	// MappedTo names a well-known axis this one corresponds to, when
	// recognized (today, only "weight" for tag "wght").
	MappedTo string
}

func parseFvar(data []byte, names []nameRecord) []VariationAxis {
	if len(data) < 16 {
		return nil
	}
	axesArrayOffset := binary.BigEndian.Uint16(data[4:6])
	axisCount := binary.BigEndian.Uint16(data[8:10])
	axisSize := binary.BigEndian.Uint16(data[10:12])
	var out []VariationAxis
	for i := 0; i < int(axisCount); i++ {
		off := int(axesArrayOffset) + i*int(axisSize)
		if off+20 > len(data) {
			break
		}
		rec := data[off : off+20]
		tag := string(rec[0:4])
		minV := f2dot14From32(binary.BigEndian.Uint32(rec[4:8]))
		defV := f2dot14From32(binary.BigEndian.Uint32(rec[8:12]))
		maxV := f2dot14From32(binary.BigEndian.Uint32(rec[12:16]))
		flags := binary.BigEndian.Uint16(rec[16:18])
		nameID := binary.BigEndian.Uint16(rec[18:20])

		axisName := tag
		if n, ok := nameByID(names, nameID); ok {
			axisName = n
		}
		mapped := ""
		if tag == "wght" {
			mapped = "weight"
		}
		out = append(out, VariationAxis{
			Name: axisName, Tag: tag, Min: minV, Default: defV, Max: maxV,
			Hidden: flags&0x0001 != 0, MappedTo: mapped,
		})
	}
	return out
}

// f2dot14From32 decodes a 32-bit fixed fvar axis value as a plain
// float64 (fvar stores axis values as Fixed 16.16, not F2Dot14, despite
// some implementations' confusion between the two table formats).
func f2dot14From32(v uint32) float64 {
	return float64(int32(v)) / 65536.0
}

// cmapCodepoints returns the set of codepoints with a non-zero glyph
// mapping in the font's "best" cmap subtable (Windows Unicode BMP or
// full-repertoire preferred, falling back to any subtable present).
func cmapCodepoints(data []byte) (*charset.Set, error) {
	if len(data) < 4 {
		return charset.NewSet(), nil
	}
	numTables := binary.BigEndian.Uint16(data[2:4])

	type candidate struct {
		platformID, encodingID uint16
		offset                 uint32
	}
	var best *candidate
	rank := func(platformID, encodingID uint16) int {
		switch {
		case platformID == 3 && encodingID == 10:
			return 4
		case platformID == 3 && encodingID == 1:
			return 3
		case platformID == 0:
			return 2
		default:
			return 1
		}
	}
	bestRank := -1
	for i := 0; i < int(numTables); i++ {
		off := 4 + i*8
		if off+8 > len(data) {
			break
		}
		platformID := binary.BigEndian.Uint16(data[off : off+2])
		encodingID := binary.BigEndian.Uint16(data[off+2 : off+4])
		subOffset := binary.BigEndian.Uint32(data[off+4 : off+8])
		if r := rank(platformID, encodingID); r > bestRank {
			bestRank = r
			best = &candidate{platformID, encodingID, subOffset}
		}
	}
	if best == nil || int(best.offset) >= len(data) {
		return charset.NewSet(), nil
	}
	return parseCmapSubtable(data[best.offset:])
}

func parseCmapSubtable(data []byte) (*charset.Set, error) {
	out := charset.NewSet()
	if len(data) < 2 {
		return out, nil
	}
	format := binary.BigEndian.Uint16(data[0:2])
	switch format {
	case 4:
		return parseCmapFormat4(data)
	case 12:
		return parseCmapFormat12(data)
	case 6:
		return parseCmapFormat6(data)
	case 0:
		return parseCmapFormat0(data)
	default:
		// Unsupported subtable formats (2, 8, 10, 13, 14) are rare for
		// web fonts; treat as empty rather than failing the whole load.
		return out, nil
	}
}

func parseCmapFormat0(data []byte) (*charset.Set, error) {
	out := charset.NewSet()
	if len(data) < 262 {
		return out, nil
	}
	glyphIDs := data[6:262]
	for c, g := range glyphIDs {
		if g != 0 {
			out.Insert(rune(c))
		}
	}
	return out, nil
}

func parseCmapFormat6(data []byte) (*charset.Set, error) {
	out := charset.NewSet()
	if len(data) < 10 {
		return out, nil
	}
	first := binary.BigEndian.Uint16(data[6:8])
	count := binary.BigEndian.Uint16(data[8:10])
	for i := 0; i < int(count); i++ {
		off := 10 + i*2
		if off+2 > len(data) {
			break
		}
		if binary.BigEndian.Uint16(data[off:off+2]) != 0 {
			out.Insert(rune(first) + rune(i))
		}
	}
	return out, nil
}

func parseCmapFormat4(data []byte) (*charset.Set, error) {
	out := charset.NewSet()
	if len(data) < 14 {
		return out, nil
	}
	segCountX2 := binary.BigEndian.Uint16(data[6:8])
	segCount := int(segCountX2 / 2)

	endBase := 14
	startBase := endBase + int(segCountX2) + 2
	deltaBase := startBase + int(segCountX2)
	rangeBase := deltaBase + int(segCountX2)
	if rangeBase+int(segCountX2) > len(data) {
		return out, nil
	}

	for i := 0; i < segCount; i++ {
		end := binary.BigEndian.Uint16(data[endBase+i*2:])
		start := binary.BigEndian.Uint16(data[startBase+i*2:])
		delta := int16(binary.BigEndian.Uint16(data[deltaBase+i*2:]))
		rangeOffset := binary.BigEndian.Uint16(data[rangeBase+i*2:])
		if start == 0xFFFF && end == 0xFFFF {
			continue
		}
		for c := uint32(start); c <= uint32(end); c++ {
			var glyph uint16
			if rangeOffset == 0 {
				glyph = uint16(int32(c) + int32(delta))
			} else {
				idx := rangeBase + i*2 + int(rangeOffset) + int(c-uint32(start))*2
				if idx+2 > len(data) {
					continue
				}
				g := binary.BigEndian.Uint16(data[idx : idx+2])
				if g == 0 {
					continue
				}
				glyph = uint16(int32(g) + int32(delta))
			}
			if glyph != 0 {
				out.Insert(rune(c))
			}
			if c == 0xFFFF {
				break
			}
		}
	}
	return out, nil
}

func parseCmapFormat12(data []byte) (*charset.Set, error) {
	out := charset.NewSet()
	if len(data) < 16 {
		return out, nil
	}
	numGroups := binary.BigEndian.Uint32(data[12:16])
	for i := uint32(0); i < numGroups; i++ {
		off := 16 + i*12
		if int(off)+12 > len(data) {
			break
		}
		startChar := binary.BigEndian.Uint32(data[off : off+4])
		endChar := binary.BigEndian.Uint32(data[off+4 : off+8])
		out.InsertRange(rune(startChar), rune(endChar))
	}
	return out, nil
}

// inferWeightFromName implements §4.5's lowercased keyword table.
func inferWeightFromName(style string) int {
	s := strings.ToLower(style)
	switch {
	case strings.Contains(s, "thin"), strings.Contains(s, "hairline"):
		return 100
	case strings.Contains(s, "extralight"), strings.Contains(s, "ultralight"):
		return 200
	case strings.Contains(s, "light"):
		return 300
	case strings.Contains(s, "medium"):
		return 500
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		return 600
	case strings.Contains(s, "extrabold"), strings.Contains(s, "ultrabold"):
		return 800
	case strings.Contains(s, "extrablack"), strings.Contains(s, "ultrablack"):
		return 950
	case strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		return 900
	case strings.Contains(s, "bold"):
		return 700
	case strings.Contains(s, "regular"):
		return 400
	default:
		return 400
	}
}
