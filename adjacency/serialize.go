// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjacency

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Meta is the decoded form of the adjacency_array_meta data-package
// section (§4.3's "metadata blob"): the alphabet list, per-codepoint
// info, encoder parameters, and the global edge total. The raw
// triangular matrix itself lives in the sibling adjacency_array section,
// whose raw bytes are passed to FromParts alongside the decoded Meta.
type Meta struct {
	CodepointList []rune
	EdgeTotal     []uint64
	BlockID       []string
	Base          float64
	GlobalEdges   uint64
}

// EncodeMeta serializes the array's metadata blob.
func (a *Array) EncodeMeta() []byte {
	buf := make([]byte, 0, 16+len(a.CodepointList)*12)
	var tmp [binary.MaxVarintLen64]byte

	putU := func(v uint64) {
		n := binary.PutUvarint(tmp[:], v)
		buf = append(buf, tmp[:n]...)
	}
	putStr := func(s string) {
		putU(uint64(len(s)))
		buf = append(buf, s...)
	}

	var baseBits [8]byte
	binary.LittleEndian.PutUint64(baseBits[:], math.Float64bits(a.Base))
	buf = append(buf, baseBits[:]...)

	putU(a.EdgeTotal)
	putU(uint64(len(a.CodepointList)))
	for _, c := range a.CodepointList {
		putU(uint64(c))
		m := a.Meta[c]
		putU(m.EdgeTotal)
		putStr(m.BlockID)
	}
	return buf
}

// DecodeMeta is the inverse of EncodeMeta.
func DecodeMeta(data []byte) (*Meta, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("adjacency: meta blob truncated")
	}
	base := math.Float64frombits(binary.LittleEndian.Uint64(data[:8]))
	rest := data[8:]

	readU := func() (uint64, error) {
		v, n := binary.Uvarint(rest)
		if n <= 0 {
			return 0, fmt.Errorf("adjacency: meta blob truncated")
		}
		rest = rest[n:]
		return v, nil
	}
	readStr := func() (string, error) {
		l, err := readU()
		if err != nil {
			return "", err
		}
		if uint64(len(rest)) < l {
			return "", fmt.Errorf("adjacency: meta blob truncated string")
		}
		s := string(rest[:l])
		rest = rest[l:]
		return s, nil
	}

	global, err := readU()
	if err != nil {
		return nil, err
	}
	n, err := readU()
	if err != nil {
		return nil, err
	}

	m := &Meta{Base: base, GlobalEdges: global}
	for i := uint64(0); i < n; i++ {
		cp, err := readU()
		if err != nil {
			return nil, err
		}
		edge, err := readU()
		if err != nil {
			return nil, err
		}
		block, err := readStr()
		if err != nil {
			return nil, err
		}
		m.CodepointList = append(m.CodepointList, rune(cp))
		m.EdgeTotal = append(m.EdgeTotal, edge)
		m.BlockID = append(m.BlockID, block)
	}
	return m, nil
}

// EncodeRaw serializes the quantized triangular matrix as a raw byte
// array, suitable for the adjacency_array data-package section.
func (a *Array) EncodeRaw() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out
}

// FromParts reconstructs an Array from a decoded Meta and the raw
// triangular matrix bytes, as loaded from a data package.
func FromParts(meta *Meta, raw []byte) (*Array, error) {
	want := NumCells(len(meta.CodepointList))
	if len(raw) != want {
		return nil, fmt.Errorf("adjacency: raw matrix has %d cells, want %d for alphabet of size %d",
			len(raw), want, len(meta.CodepointList))
	}
	arr := &Array{
		CodepointList: meta.CodepointList,
		place:         make(map[rune]int, len(meta.CodepointList)),
		Meta:          make(map[rune]CodepointMeta, len(meta.CodepointList)),
		data:          raw,
		Base:          meta.Base,
		EdgeTotal:     meta.GlobalEdges,
	}
	for i, c := range meta.CodepointList {
		arr.place[c] = i
		arr.Meta[c] = CodepointMeta{EdgeTotal: meta.EdgeTotal[i], BlockID: meta.BlockID[i], Place: i}
	}
	return arr, nil
}
