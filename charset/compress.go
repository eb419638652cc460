// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charset

import (
	"encoding/binary"
	"fmt"
)

// Compress encodes the set as a run-length list of (gap, length) varint
// pairs, suitable for embedding in a data package: gap is the distance
// from the end of the previous run (or from zero) to the start of this
// run, and length is the run's codepoint count. This is compact for the
// scripts and shards the manifest and glyphsets deal with, which are
// themselves built from contiguous Unicode ranges.
func (s *Set) Compress() []byte {
	ranges := s.Ranges()
	buf := make([]byte, 0, len(ranges)*4+binary.MaxVarintLen32)
	var tmp [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(tmp[:], uint64(len(ranges)))
	buf = append(buf, tmp[:n]...)

	prevEnd := rune(-1)
	for _, r := range ranges {
		gap := uint64(r.Lo - prevEnd - 1)
		length := uint64(r.Hi - r.Lo + 1)
		n = binary.PutUvarint(tmp[:], gap)
		buf = append(buf, tmp[:n]...)
		n = binary.PutUvarint(tmp[:], length)
		buf = append(buf, tmp[:n]...)
		prevEnd = r.Hi
	}
	return buf
}

// Decompress is the inverse of Compress.
func Decompress(data []byte) (*Set, error) {
	rest := data
	count, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, fmt.Errorf("charset: decompress: truncated run count")
	}
	rest = rest[n:]

	s := &Set{}
	prevEnd := rune(-1)
	for i := uint64(0); i < count; i++ {
		gap, n := binary.Uvarint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("charset: decompress: truncated gap in run %d", i)
		}
		rest = rest[n:]

		length, n := binary.Uvarint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("charset: decompress: truncated length in run %d", i)
		}
		rest = rest[n:]

		lo := prevEnd + 1 + rune(gap)
		hi := lo + rune(length) - 1
		s.InsertRange(lo, hi)
		prevEnd = hi
	}
	return s, nil
}
