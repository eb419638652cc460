// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"encoding/binary"
	"fmt"

	"github.com/Lymia/mkwebfont/charset"
)

// Encode serializes the manifest for the raw_subsets data-package
// section (shipped in two variants, "gfsubsets" and "glyphsets", that
// both deserialize into this same shape per §4.4).
func (m *Manifest) Encode() []byte {
	var buf []byte
	var tmp [binary.MaxVarintLen64]byte

	putU := func(v uint64) {
		n := binary.PutUvarint(tmp[:], v)
		buf = append(buf, tmp[:n]...)
	}
	putStr := func(s string) {
		putU(uint64(len(s)))
		buf = append(buf, s...)
	}
	putBytes := func(b []byte) {
		putU(uint64(len(b)))
		buf = append(buf, b...)
	}

	putU(uint64(m.Subsets.Len()))
	for i, name := range m.Subsets.Names {
		putStr(name)
		putBytes(m.Subsets.Values[i].Map.Compress())
	}

	putU(uint64(m.Groups.Len()))
	for i, name := range m.Groups.Names {
		putStr(name)
		g := m.Groups.Values[i]
		putU(uint64(len(g.Subsets)))
		for _, s := range g.Subsets {
			putStr(s)
		}
	}
	return buf
}

// Decode is the inverse of Encode.
func Decode(data []byte) (*Manifest, error) {
	rest := data
	readU := func() (uint64, error) {
		v, n := binary.Uvarint(rest)
		if n <= 0 {
			return 0, fmt.Errorf("manifest: truncated")
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
			return "", fmt.Errorf("manifest: truncated string")
		}
		s := string(rest[:l])
		rest = rest[l:]
		return s, nil
	}
	readBytes := func() ([]byte, error) {
		l, err := readU()
		if err != nil {
			return nil, err
		}
		if uint64(len(rest)) < l {
			return nil, fmt.Errorf("manifest: truncated bytes")
		}
		b := rest[:l]
		rest = rest[l:]
		return b, nil
	}

	m := New()
	nSubsets, err := readU()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nSubsets; i++ {
		name, err := readStr()
		if err != nil {
			return nil, err
		}
		packed, err := readBytes()
		if err != nil {
			return nil, err
		}
		cps, err := charset.Decompress(packed)
		if err != nil {
			return nil, fmt.Errorf("manifest: subset %q: %w", name, err)
		}
		if err := m.AddSubset(name, cps); err != nil {
			return nil, err
		}
	}

	nGroups, err := readU()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nGroups; i++ {
		name, err := readStr()
		if err != nil {
			return nil, err
		}
		nMembers, err := readU()
		if err != nil {
			return nil, err
		}
		members := make([]string, 0, nMembers)
		for j := uint64(0); j < nMembers; j++ {
			s, err := readStr()
			if err != nil {
				return nil, err
			}
			members = append(members, s)
		}
		if err := m.AddGroup(name, members); err != nil {
			return nil, err
		}
	}
	return m, nil
}
