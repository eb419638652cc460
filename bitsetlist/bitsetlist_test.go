// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitsetlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allChars(rune) bool { return true }

func TestPushSampleDedupesAndRoundTrips(t *testing.T) {
	l := New()
	sec := l.AddSection("page-1")
	b := NewBuilder(sec)

	b.PushSample("hello hello", allChars)
	b.PushSample("world", allChars)

	assert.Equal(t, 2, sec.Len())

	chars, err := sec.Characters(0)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []rune("helo "), chars)

	chars, err = sec.Characters(1)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []rune("world"), chars)
}

func TestPushSampleFilter(t *testing.T) {
	l := New()
	sec := l.AddSection("page-1")
	b := NewBuilder(sec)

	onlyLetters := func(c rune) bool { return c != ' ' }
	b.PushSample("a b c", onlyLetters)

	chars, err := sec.Characters(0)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []rune("abc"), chars)
}

func TestOptimizePreservesSamples(t *testing.T) {
	l := New()
	sec := l.AddSection("page-1")
	b := NewBuilder(sec)

	b.PushSample("aaabbbccc", allChars)
	b.PushSample("ccddee", allChars)
	b.PushSample("z", allChars)

	before := make([][]rune, sec.Len())
	for i := range before {
		before[i], _ = sec.Characters(i)
	}

	assert.NoError(t, sec.Optimize())

	// most frequent codepoint across all samples should now be index 0.
	assert.Equal(t, 'c', sec.CodepointList[0])

	for i := range before {
		after, err := sec.Characters(i)
		assert.NoError(t, err)
		assert.ElementsMatch(t, before[i], after)
	}
}

func TestSplitRoundRobin(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		l.AddSection("s")
	}
	parts := l.Split(2)
	assert.Len(t, parts[0].Sections, 3)
	assert.Len(t, parts[1].Sections, 2)
}

func TestDedupeWindowOverflow(t *testing.T) {
	l := New()
	sec := l.AddSection("s")
	b := NewBuilder(sec)
	b.dedupe.idx = 0xFFFE

	b.PushSample("a", allChars)
	b.PushSample("a", allChars)

	chars0, _ := sec.Characters(0)
	chars1, _ := sec.Characters(1)
	assert.Equal(t, []rune{'a'}, chars0)
	assert.Equal(t, []rune{'a'}, chars1)
}
