// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fontface

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/charset"
)

// buildMinimalTTF constructs a tiny synthetic TrueType font with head,
// name, OS/2, and a format-4 cmap covering 'A'-'C', enough to exercise
// Load without needing a real font file on disk.
func buildMinimalTTF(t *testing.T) []byte {
	t.Helper()

	head := make([]byte, 54)
	binary.BigEndian.PutUint16(head[18:20], 1000) // unitsPerEm
	binary.BigEndian.PutUint16(head[44:46], 0)    // macStyle

	os2 := make([]byte, 64)
	binary.BigEndian.PutUint16(os2[4:6], 400) // usWeightClass

	name := buildNameTable(t, map[uint16]string{1: "Testy", 2: "Regular"})
	cmap := buildCmapFormat4(t, 'A', 'C')

	tables := map[string][]byte{
		"head": head,
		"OS/2": os2,
		"name": name,
		"cmap": cmap,
	}
	return packSfnt(t, 0x00010000, tables)
}

func buildNameTable(t *testing.T, records map[uint16]string) []byte {
	t.Helper()
	var storage []byte
	var recs []byte
	count := 0
	for id, val := range records {
		u16 := make([]byte, 0, len(val)*2)
		for _, r := range val {
			u16 = append(u16, byte(r>>8), byte(r))
		}
		rec := make([]byte, 12)
		binary.BigEndian.PutUint16(rec[0:2], 3) // platform Windows
		binary.BigEndian.PutUint16(rec[2:4], 1) // encoding Unicode BMP
		binary.BigEndian.PutUint16(rec[4:6], 0x409)
		binary.BigEndian.PutUint16(rec[6:8], id)
		binary.BigEndian.PutUint16(rec[8:10], uint16(len(u16)))
		binary.BigEndian.PutUint16(rec[10:12], uint16(len(storage)))
		recs = append(recs, rec...)
		storage = append(storage, u16...)
		count++
	}
	header := make([]byte, 6)
	binary.BigEndian.PutUint16(header[2:4], uint16(count))
	binary.BigEndian.PutUint16(header[4:6], uint16(6+len(recs)))
	out := append(header, recs...)
	out = append(out, storage...)
	return out
}

func buildCmapFormat4(t *testing.T, lo, hi rune) []byte {
	t.Helper()
	segCount := 2 // one real segment plus the mandatory terminator
	segCountX2 := uint16(segCount * 2)

	sub := make([]byte, 14)
	binary.BigEndian.PutUint16(sub[0:2], 4)
	binary.BigEndian.PutUint16(sub[6:8], segCountX2)

	var ends, starts, deltas, ranges []byte
	put16 := func(buf *[]byte, v uint16) {
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, v)
		*buf = append(*buf, b...)
	}
	put16(&ends, uint16(hi))
	put16(&ends, 0xFFFF)
	put16(&starts, uint16(lo))
	put16(&starts, 0xFFFF)
	put16(&deltas, uint16(1-int(lo)))
	put16(&deltas, 1)
	put16(&ranges, 0)
	put16(&ranges, 0)

	sub = append(sub, ends...)
	sub = append(sub, make([]byte, 2)...) // reservedPad
	sub = append(sub, starts...)
	sub = append(sub, deltas...)
	sub = append(sub, ranges...)
	binary.BigEndian.PutUint16(sub[2:4], uint16(len(sub)))

	table := make([]byte, 4)
	binary.BigEndian.PutUint16(table[2:4], 1)
	rec := make([]byte, 8)
	binary.BigEndian.PutUint16(rec[0:2], 3)
	binary.BigEndian.PutUint16(rec[2:4], 1)
	binary.BigEndian.PutUint32(rec[4:8], uint32(len(table)+len(rec)))
	out := append(table, rec...)
	out = append(out, sub...)
	return out
}

func packSfnt(t *testing.T, version uint32, tables map[string][]byte) []byte {
	t.Helper()
	header := make([]byte, 12)
	binary.BigEndian.PutUint32(header[0:4], version)
	binary.BigEndian.PutUint16(header[4:6], uint16(len(tables)))

	offset := uint32(12 + len(tables)*16)
	var dir, data []byte
	for tag, d := range tables {
		rec := make([]byte, 16)
		copy(rec[0:4], tag)
		binary.BigEndian.PutUint32(rec[8:12], offset)
		binary.BigEndian.PutUint32(rec[12:16], uint32(len(d)))
		dir = append(dir, rec...)
		data = append(data, d...)
		offset += uint32(len(d))
	}
	out := append(header, dir...)
	out = append(out, data...)
	return out
}

func TestLoadDerivesMetadata(t *testing.T) {
	faces, err := Load(buildMinimalTTF(t))
	assert.NoError(t, err)
	assert.Len(t, faces, 1)

	f := faces[0]
	assert.Equal(t, "Testy", f.Family)
	assert.Equal(t, "Regular", f.StyleString)
	assert.Equal(t, StyleRegular, f.InferredStyle)
	assert.Equal(t, 400, f.InferredWeight)
	assert.True(t, f.Codepoints.Contains('A'))
	assert.True(t, f.Codepoints.Contains('B'))
	assert.True(t, f.Codepoints.Contains('C'))
	assert.False(t, f.Codepoints.Contains('D'))
	assert.False(t, f.IsVariable())
}

func TestLoadRejectsWOFF(t *testing.T) {
	data := make([]byte, 16)
	binary.BigEndian.PutUint32(data[0:4], 0x774F4646)
	_, err := Load(data)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestInferWeightFromNameOrdering(t *testing.T) {
	assert.Equal(t, 950, inferWeightFromName("ExtraBlack"))
	assert.Equal(t, 950, inferWeightFromName("UltraBlack"))
	assert.Equal(t, 900, inferWeightFromName("Black"))
	assert.Equal(t, 900, inferWeightFromName("Heavy"))
	assert.Equal(t, 800, inferWeightFromName("ExtraBold"))
	assert.Equal(t, 700, inferWeightFromName("Bold"))
	assert.Equal(t, 400, inferWeightFromName("Regular"))
}

func TestSubsetProducesWOFF2Signature(t *testing.T) {
	faces, err := Load(buildMinimalTTF(t))
	assert.NoError(t, err)

	out, err := faces[0].Subset("latin", faces[0].Codepoints)
	assert.NoError(t, err)
	assert.Equal(t, "wOF2", string(out[0:4]))
}

func TestSubsetRejectsUncoveredCodepoints(t *testing.T) {
	faces, err := Load(buildMinimalTTF(t))
	assert.NoError(t, err)

	_, err = faces[0].Subset("cjk", charset.FromRange(0x4E00, 0x4E01))
	assert.Error(t, err)
}
