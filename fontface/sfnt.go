// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fontface implements the Font Face component (C5): an
// immutable record for one face within a possibly-multi-face container,
// with derived family/style/weight/variation-axis/codepoint metadata and
// a subset operation that produces WOFF2 bytes.
//
// Table parsing here follows the same binary-reader-over-raw-bytes shape
// used by seehuhn.de/go/sfnt (see other_examples/...seehuhn-go-sfnt...)
// and unidoc/unipdf's internal font readers, rather than relying on a
// single off-the-shelf sfnt library: no library in the retrieved pack
// exposes fvar/OS2/name-table and cmap access together, and pulling one
// in only for cmap while hand-rolling the rest would mean two different
// table-parsing conventions for one font.
package fontface

import (
	"encoding/binary"
	"fmt"
)

// sfntTag is a four-byte OpenType table tag.
type sfntTag = string

const (
	tagCmap = "cmap"
	tagHead = "head"
	tagName = "name"
	tagOS2  = "OS/2"
	tagFvar = "fvar"
	tagMaxp = "maxp"
	tagHhea = "hhea"
	tagHmtx = "hmtx"
	tagLoca = "loca"
	tagGlyf = "glyf"
	tagCFF  = "CFF "
)

// container is one parsed sfnt directory: the raw font bytes plus each
// table's byte range.
type container struct {
	raw    []byte
	tables map[sfntTag][]byte
	sfntVersion uint32
}

// ErrUnsupportedFormat is returned when the input is not a bare
// TTF/OTF/TTC (e.g. it is already WOFF/WOFF2-compressed), per §4.5's
// "fail fast" load contract.
var ErrUnsupportedFormat = fmt.Errorf("fontface: input is not a TTF/OTF/TTC (WOFF/WOFF2 input is not accepted)")

// splitCollection returns the byte offset of each face's sfnt directory
// within data. A plain (non-collection) font yields a single offset, 0.
func splitCollection(data []byte) ([]uint32, error) {
	if len(data) >= 4 && string(data[:4]) == "ttcf" {
		if len(data) < 16 {
			return nil, fmt.Errorf("fontface: truncated TTC header")
		}
		numFonts := binary.BigEndian.Uint32(data[8:12])
		if uint64(16)+uint64(numFonts)*4 > uint64(len(data)) {
			return nil, fmt.Errorf("fontface: truncated TTC directory")
		}
		offsets := make([]uint32, numFonts)
		for i := range offsets {
			offsets[i] = binary.BigEndian.Uint32(data[12+4*i:])
		}
		return offsets, nil
	}
	return []uint32{0}, nil
}

// parseContainer reads the sfnt table directory starting at offset
// within data, validating the magic (fail-fast on WOFF/WOFF2/anything
// else per §4.5).
func parseContainer(data []byte, offset uint32) (*container, error) {
	if uint64(offset)+12 > uint64(len(data)) {
		return nil, fmt.Errorf("fontface: truncated sfnt header")
	}
	d := data[offset:]
	version := binary.BigEndian.Uint32(d[0:4])
	switch version {
	case 0x00010000, 0x4F54544F, 0x74727565: // TTF, OTTO (CFF), 'true'
	case 0x774F4646, 0x774F4632: // 'wOFF', 'wOF2'
		return nil, ErrUnsupportedFormat
	default:
		return nil, ErrUnsupportedFormat
	}

	numTables := binary.BigEndian.Uint16(d[4:6])
	c := &container{raw: data, tables: make(map[sfntTag][]byte, numTables), sfntVersion: version}

	const recSize = 16
	need := 12 + int(numTables)*recSize
	if need > len(d) {
		return nil, fmt.Errorf("fontface: truncated table directory")
	}
	for i := 0; i < int(numTables); i++ {
		rec := d[12+i*recSize : 12+(i+1)*recSize]
		tag := string(rec[0:4])
		off := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		if uint64(off)+uint64(length) > uint64(len(data)) {
			return nil, fmt.Errorf("fontface: table %q out of bounds", tag)
		}
		c.tables[tag] = data[off : off+length]
	}
	return c, nil
}

func (c *container) table(tag sfntTag) ([]byte, bool) {
	t, ok := c.tables[tag]
	return t, ok
}

func (c *container) isCFF() bool {
	_, ok := c.table(tagCFF)
	return ok
}
