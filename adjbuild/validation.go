// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjbuild

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/Lymia/mkwebfont/bitsetlist"
	"github.com/Lymia/mkwebfont/charset"
)

// ScriptSpec names one validation-corpus script bucket, per §4.11 step 7.
type ScriptSpec struct {
	Name            string
	Include         []charset.Range
	Exclude         []charset.Range
	LanguageEndonyms []rune // characters treated as language-selector noise
}

// DefaultScripts lists the script buckets named in §4.11.
func DefaultScripts() []ScriptSpec {
	return []ScriptSpec{
		{Name: "latin", Include: []charset.Range{{Lo: 0x0041, Hi: 0x007A}}},
		{Name: "latin-ext", Include: []charset.Range{{Lo: 0x0100, Hi: 0x024F}}},
		{Name: "cyrillic", Include: []charset.Range{{Lo: 0x0400, Hi: 0x04FF}}},
		{Name: "greek", Include: []charset.Range{{Lo: 0x0370, Hi: 0x03FF}}},
		{Name: "arabic", Include: []charset.Range{{Lo: 0x0600, Hi: 0x06FF}}},
		{Name: "chinese", Include: []charset.Range{{Lo: 0x4E00, Hi: 0x9FFF}}},
		{Name: "japanese", Include: []charset.Range{{Lo: 0x3040, Hi: 0x30FF}}},
		{Name: "korean", Include: []charset.Range{{Lo: 0xAC00, Hi: 0xD7A3}}},
	}
}

func inRanges(c rune, ranges []charset.Range) bool {
	for _, r := range ranges {
		if c >= r.Lo && c <= r.Hi {
			return true
		}
	}
	return false
}

// scriptSeed derives a deterministic seed from the script name, per
// §5's "deterministic given a fixed seed derived from the script name".
func scriptSeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

// BuildValidationCorpus implements §4.11 step 7: for each script, sample
// up to n distinct pages from held out whose bitset has at least one
// codepoint in the script's include ranges and none in its exclude
// ranges, skipping pages dominated by the script's language-endonym list.
func BuildValidationCorpus(held *bitsetlist.List, scripts []ScriptSpec, n int) (*bitsetlist.List, error) {
	out := bitsetlist.New()

	for _, script := range scripts {
		rng := rand.New(rand.NewSource(scriptSeed(script.Name)))
		section := out.AddSection(script.Name)
		builder := bitsetlist.NewBuilder(section)

		candidates, err := collectCandidates(held, script)
		if err != nil {
			return nil, err
		}
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		taken := 0
		for _, text := range candidates {
			if taken >= n {
				break
			}
			builder.PushSample(text, DefaultCodepointFilter)
			taken++
		}
	}
	return out, nil
}

func collectCandidates(held *bitsetlist.List, script ScriptSpec) ([]string, error) {
	var out []string
	for _, sec := range held.Sections {
		for idx := 0; idx < sec.Len(); idx++ {
			chars, err := sec.Characters(idx)
			if err != nil {
				return nil, err
			}
			if !matchesScript(chars, script) {
				continue
			}
			out = append(out, string(chars))
		}
	}
	sort.Strings(out) // deterministic ordering before the seeded shuffle
	return out, nil
}

func matchesScript(chars []rune, script ScriptSpec) bool {
	hasInclude := false
	nonASCII := 0
	endonymHits := 0
	for _, c := range chars {
		if inRanges(c, script.Exclude) {
			return false
		}
		if inRanges(c, script.Include) {
			hasInclude = true
		}
		if c > 0x7F {
			nonASCII++
			for _, e := range script.LanguageEndonyms {
				if c == e {
					endonymHits++
					break
				}
			}
		}
	}
	if !hasInclude {
		return false
	}
	if nonASCII > 0 && endonymHits*2 > nonASCII {
		return false // dominated by a language-selector endonym list
	}
	return true
}
