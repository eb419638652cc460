// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package woff2 writes the WOFF2 container format. Table data is stored
// untransformed (no glyf/loca reconstitution), a valid simplification
// allowed by the WOFF2 spec for table transform type 3 ("no transform").
// Binary layout here mirrors the popper/pusher style of
// other_examples/...tdewolff-canvas__font_util.go.go's parseWOFF2, run in
// reverse to write rather than read.
package woff2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/andybalholm/brotli"
)

const (
	signature  = 0x774F4632 // 'wOF2'
	flavorTTF  = 0x00010000
	flavorOTF  = 0x4F54544F
	headerSize = 48
	tableRecordSize = 20 // per-table directory entry, untransformed layout
)

// InputTable is one sfnt table to pack into a WOFF2 container.
type InputTable struct {
	Tag  string
	Data []byte
}

// Encode packages the given sfnt tables, in any order (they are sorted by
// tag), into a WOFF2 file at the given brotli quality (0-11).
func Encode(flavor uint32, tables []InputTable, quality int) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("woff2: no tables")
	}
	sorted := make([]InputTable, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	var tableData bytes.Buffer
	var totalSfntSize uint32 = 12 + uint32(len(sorted))*16 // sfnt header + directory
	type dirEntry struct {
		tag              string
		origLength       uint32
		transformLength  uint32
	}
	var dir []dirEntry
	for _, t := range sorted {
		dir = append(dir, dirEntry{tag: t.Tag, origLength: uint32(len(t.Data))})
		tableData.Write(t.Data)
		pad := (4 - len(t.Data)%4) % 4
		totalSfntSize += uint32(len(t.Data))
		for i := 0; i < pad; i++ {
			totalSfntSize++
		}
	}

	compressed, err := brotliCompress(tableData.Bytes(), quality)
	if err != nil {
		return nil, fmt.Errorf("woff2: brotli compress: %w", err)
	}

	var out bytes.Buffer
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], signature)
	binary.BigEndian.PutUint32(header[4:8], flavor)
	// length, numTables, reserved, totalSfntSize, totalCompressedSize,
	// majorVersion, minorVersion, metaOffset/Length/OrigLength,
	// privOffset/Length are filled after layout is known.
	binary.BigEndian.PutUint16(header[12:14], uint16(len(sorted)))
	binary.BigEndian.PutUint32(header[16:20], totalSfntSize)
	binary.BigEndian.PutUint32(header[20:24], uint32(len(compressed)))
	binary.BigEndian.PutUint16(header[24:26], 1)
	binary.BigEndian.PutUint16(header[26:28], 0)

	out.Write(header)
	for _, e := range dir {
		flags := tagToFlags(e.tag)
		if e.tag == "glyf" || e.tag == "loca" {
			flags |= 0xC0 // transform version 3: stored untransformed
		}
		out.WriteByte(flags)
		writeUintBase128(&out, e.origLength)
	}
	out.Write(compressed)
	for out.Len()%4 != 0 {
		out.WriteByte(0)
	}

	final := out.Bytes()
	binary.BigEndian.PutUint32(final[8:12], uint32(len(final)))
	return final, nil
}

func brotliCompress(data []byte, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// knownTags is the WOFF2 known-table-tag list used to pack the table
// directory flags byte; tag 63 ("arbitrary") is used for anything else.
var knownTags = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post", "cvt ",
	"fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT", "EBLC", "gasp",
	"hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea", "vmtx", "BASE", "GDEF",
	"GPOS", "GSUB", "EBSC", "JSTF", "MATH", "CBDT", "CBLC", "COLR", "CPAL",
	"SVG ", "sbix", "acnt", "avar", "bdat", "bloc", "bsln", "cvar", "fdsc",
	"feat", "fmtx", "fvar", "gvar", "hsty", "just", "lcar", "mort", "morx",
	"opbd", "prop", "trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

func tagToFlags(tag string) byte {
	for i, t := range knownTags {
		if t == tag {
			return byte(i)
		}
	}
	return 63
}

func writeUintBase128(buf *bytes.Buffer, v uint32) {
	var bytesOut []byte
	bytesOut = append(bytesOut, byte(v&0x7F))
	v >>= 7
	for v != 0 {
		bytesOut = append(bytesOut, byte(v&0x7F)|0x80)
		v >>= 7
	}
	for i := len(bytesOut) - 1; i >= 0; i-- {
		buf.WriteByte(bytesOut[i])
	}
}
