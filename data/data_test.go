// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePackage() *Package {
	return &Package{
		PackageID: "test-pkg",
		Timestamp: 12345,
		Meta:      map[string]int64{"count": 7},
		Files:     map[string][]byte{"section_a": []byte("hello"), "section_b": []byte("world")},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw, err := Encode(samplePackage())
	assert.NoError(t, err)

	p, err := Decode(raw)
	assert.NoError(t, err)
	assert.Equal(t, "test-pkg", p.PackageID)
	assert.Equal(t, uint64(12345), p.Timestamp)
	assert.Equal(t, int64(7), p.Meta["count"])

	s, ok := p.Section("section_a")
	assert.True(t, ok)
	assert.Equal(t, "hello", string(s))
}

func TestDecodeDetectsCorruption(t *testing.T) {
	raw, err := Encode(samplePackage())
	assert.NoError(t, err)

	corrupt := append([]byte{}, raw...)
	corrupt[len(corrupt)-1] ^= 0xFF
	_, err = Decode(corrupt)
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	raw, err := Encode(samplePackage())
	assert.NoError(t, err)
	raw[8] = 'x'
	_, err = Decode(raw)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestCachedLoadHitsCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg.bin")
	raw, err := Encode(samplePackage())
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(path, raw, 0o644))

	called := false
	p, err := CachedLoad(path, func() ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, "test-pkg", p.PackageID)
}

func TestCachedLoadRefetchesOnCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg.bin")
	raw, err := Encode(samplePackage())
	assert.NoError(t, err)
	corrupt := append([]byte{}, raw...)
	corrupt[len(corrupt)-1] ^= 0xFF
	assert.NoError(t, os.WriteFile(path, corrupt, 0o644))

	p, err := CachedLoad(path, func() ([]byte, error) {
		return raw, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "test-pkg", p.PackageID)
}

func TestStorageLoadsOnce(t *testing.T) {
	s := NewStorage()
	calls := 0
	s.Register("x", func() (*Package, error) {
		calls++
		return samplePackage(), nil
	})
	_, err := s.Get("x")
	assert.NoError(t, err)
	_, err = s.Get("x")
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
