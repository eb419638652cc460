// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/charset"
)

func buildSample(t *testing.T) *Manifest {
	t.Helper()
	m := New()
	assert.NoError(t, m.AddSubset("latin", charset.FromRange(0x41, 0x5A)))
	assert.NoError(t, m.AddSubset("gf-zhsimp-s0", charset.FromRange(0x4E00, 0x4E10)))
	assert.NoError(t, m.AddSubset("gf-zhsimp-s1", charset.FromRange(0x4E11, 0x4E20)))
	assert.NoError(t, m.AddGroup("gf-zhsimp", []string{"gf-zhsimp-s0", "gf-zhsimp-s1"}))
	return m
}

func TestDuplicateSubsetIsError(t *testing.T) {
	m := buildSample(t)
	assert.Error(t, m.AddSubset("latin", charset.FromRange(0, 1)))
}

func TestGroupUnknownSubsetIsError(t *testing.T) {
	m := buildSample(t)
	assert.Error(t, m.AddGroup("bad", []string{"nope"}))
}

func TestGroupSubsetsResolves(t *testing.T) {
	m := buildSample(t)
	g, ok := m.Group("gf-zhsimp")
	assert.True(t, ok)
	subs := m.GroupSubsets(g)
	assert.Len(t, subs, 2)
	assert.Equal(t, "gf-zhsimp-s0", subs[0].Name)
}

func TestSerializeRoundTrip(t *testing.T) {
	m := buildSample(t)
	got, err := Decode(m.Encode())
	assert.NoError(t, err)

	s, ok := got.Subset("latin")
	assert.True(t, ok)
	assert.True(t, s.Map.Equal(charset.FromRange(0x41, 0x5A)))

	g, ok := got.Group("gf-zhsimp")
	assert.True(t, ok)
	assert.Equal(t, []string{"gf-zhsimp-s0", "gf-zhsimp-s1"}, g.Subsets)
}
