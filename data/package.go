// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data implements the §6 data-package container format: a
// sealed, blake3-hashed, zstd-compressed bundle of named byte sections
// used to ship the adjacency array, subset manifests, and validation
// corpus.
package data

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"
)

const (
	magic      = "mkwbfont"
	versionTag = "v0.1"
)

// ErrHashMismatch is returned by Decode when either stored hash does not
// match the actual payload, per §7's data-package error kind.
var ErrHashMismatch = fmt.Errorf("data: hash mismatch")

// ErrUnsupportedVersion is returned when the version tag is not one this
// build understands.
var ErrUnsupportedVersion = fmt.Errorf("data: unsupported version tag")

// Package is the decoded in-memory form of a data package.
type Package struct {
	PackageID string
	Timestamp uint64
	Meta      map[string]int64
	Files     map[string][]byte
}

// Section looks up a named section, per §6 "Sections are looked up by
// key".
func (p *Package) Section(name string) ([]byte, bool) {
	b, ok := p.Files[name]
	return b, ok
}

// Encode serializes p into the sealed container format.
func Encode(p *Package) ([]byte, error) {
	payload := encodePayload(p)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("data: creating zstd encoder: %w", err)
	}
	compressed := enc.EncodeAll(payload, nil)
	_ = enc.Close()

	dataHash := blake3.Sum256(payload)
	compressedHash := blake3.Sum256(compressed)

	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteString(versionTag)
	buf.Write(dataHash[:])
	buf.Write(compressedHash[:])
	buf.Write(compressed)
	return buf.Bytes(), nil
}

// Decode parses and verifies a sealed container, returning
// ErrHashMismatch or ErrUnsupportedVersion on failure.
func Decode(raw []byte) (*Package, error) {
	const headerLen = 8 + 4 + 32 + 32
	if len(raw) < headerLen {
		return nil, fmt.Errorf("data: truncated header")
	}
	if string(raw[0:8]) != magic {
		return nil, fmt.Errorf("data: bad magic")
	}
	if string(raw[8:12]) != versionTag {
		return nil, ErrUnsupportedVersion
	}
	dataHash := raw[12:44]
	compressedHash := raw[44:76]
	compressed := raw[76:]

	actualCompressedHash := blake3.Sum256(compressed)
	if !bytes.Equal(actualCompressedHash[:], compressedHash) {
		return nil, ErrHashMismatch
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("data: creating zstd decoder: %w", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("data: decompressing: %w", err)
	}

	actualDataHash := blake3.Sum256(payload)
	if !bytes.Equal(actualDataHash[:], dataHash) {
		return nil, ErrHashMismatch
	}

	return decodePayload(payload)
}

func encodePayload(p *Package) []byte {
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

	putStr(p.PackageID)
	putU(p.Timestamp)

	metaKeys := sortedKeys(p.Meta)
	putU(uint64(len(metaKeys)))
	for _, k := range metaKeys {
		putStr(k)
		putU(uint64(p.Meta[k]))
	}

	fileKeys := make([]string, 0, len(p.Files))
	for k := range p.Files {
		fileKeys = append(fileKeys, k)
	}
	sort.Strings(fileKeys)
	putU(uint64(len(fileKeys)))
	for _, k := range fileKeys {
		putStr(k)
		putBytes(p.Files[k])
	}
	return buf
}

func sortedKeys(m map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func decodePayload(data []byte) (*Package, error) {
	rest := data
	readU := func() (uint64, error) {
		v, n := binary.Uvarint(rest)
		if n <= 0 {
			return 0, fmt.Errorf("data: truncated payload")
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
			return "", fmt.Errorf("data: truncated string")
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
			return nil, fmt.Errorf("data: truncated bytes")
		}
		b := rest[:l]
		rest = rest[l:]
		return b, nil
	}

	p := &Package{Meta: map[string]int64{}, Files: map[string][]byte{}}
	var err error
	if p.PackageID, err = readStr(); err != nil {
		return nil, err
	}
	if p.Timestamp, err = readU(); err != nil {
		return nil, err
	}

	nMeta, err := readU()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nMeta; i++ {
		k, err := readStr()
		if err != nil {
			return nil, err
		}
		v, err := readU()
		if err != nil {
			return nil, err
		}
		p.Meta[k] = int64(v)
	}

	nFiles, err := readU()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nFiles; i++ {
		k, err := readStr()
		if err != nil {
			return nil, err
		}
		v, err := readBytes()
		if err != nil {
			return nil, err
		}
		p.Files[k] = v
	}

	return p, nil
}
