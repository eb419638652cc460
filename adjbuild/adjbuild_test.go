// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lymia/mkwebfont/bitsetlist"
	"github.com/Lymia/mkwebfont/charset"
)

func writeWETRecord(b *strings.Builder, uri, text string) {
	b.WriteString("WARC/1.0\r\n")
	b.WriteString("WARC-Type: conversion\r\n")
	b.WriteString("WARC-Target-URI: " + uri + "\r\n")
	b.WriteString("Content-Length: " + itoa(len(text)) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(text)
	b.WriteString("\r\n\r\n")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestStreamWETExtractsConversionRecords(t *testing.T) {
	var b strings.Builder
	writeWETRecord(&b, "http://example.com/a", "hello world")
	writeWETRecord(&b, "http://example.com/b", "second page")

	var got []WETRecord
	err := StreamWET(strings.NewReader(b.String()), func(r WETRecord) error {
		got = append(got, r)
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "hello world", got[0].Text)
	assert.Equal(t, "http://example.com/b", got[1].URI)
}

func TestFilterAlphabetAppliesMinCountAndCategory(t *testing.T) {
	h := &Histogram{Freq: map[rune]uint64{
		'a': 100, // frequent letter, kept
		'b': 10,  // below MinCount, dropped
		' ': 500, // separator, dropped regardless of frequency
	}}
	alphabet := FilterAlphabet(h)
	assert.True(t, alphabet.Contains('a'))
	assert.False(t, alphabet.Contains('b'))
	assert.False(t, alphabet.Contains(' '))
}

func TestScriptSeedIsDeterministic(t *testing.T) {
	assert.Equal(t, scriptSeed("latin"), scriptSeed("latin"))
	assert.NotEqual(t, scriptSeed("latin"), scriptSeed("cyrillic"))
}

func TestAccumulateAndFinishProducesArray(t *testing.T) {
	list := bitsetlist.New()
	sec := list.AddSection("s0")
	b := bitsetlist.NewBuilder(sec)
	b.PushSample("abcabc", DefaultCodepointFilter)
	b.PushSample("abc", DefaultCodepointFilter)

	alphabet := charset.FromSlice([]rune("abc"))
	builder, err := Accumulate(list, alphabet)
	assert.NoError(t, err)
	arr := builder.Finish()
	assert.Greater(t, arr.CharacterFrequency('a'), uint64(0))
}
