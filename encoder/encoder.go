// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoder implements the Font Encoder component (C8): running
// each chosen subset's WOFF2 encode in parallel, then assigning
// content-addressed, CDN-safe file names.
package encoder

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/fontface"
)

// SubsetInfo is the per-produced-subset output record (§3).
type SubsetInfo struct {
	Name       string
	FileName   string
	Codepoints *charset.Set
	Ranges     []charset.Range
	Data       []byte
}

// WebfontInfo is the per-face output record (§3).
type WebfontInfo struct {
	Family      string
	StyleString string
	Style       fontface.Style
	WeightRange fontface.WeightRange
	Subsets     []SubsetInfo
}

// Encoder schedules WOFF2 encodes for one font face and assembles the
// resulting WebfontInfo.
type Encoder struct {
	face    *fontface.Face
	version string

	mu       []subsetRequest
}

type subsetRequest struct {
	name string
	cps  *charset.Set
}

// New creates an encoder bound to one font face.
func New(face *fontface.Face) *Encoder {
	return &Encoder{face: face, version: face.Version}
}

// AddSubset schedules a named subset to be encoded when ProduceWebfont
// runs.
func (e *Encoder) AddSubset(name string, cps *charset.Set) {
	e.mu = append(e.mu, subsetRequest{name: name, cps: cps})
}

// ProduceWebfont awaits all scheduled encodes, names the outputs, and
// returns the assembled WebfontInfo. Per §7, a subset encode failure
// fails the whole font.
func (e *Encoder) ProduceWebfont(ctx context.Context) (*WebfontInfo, error) {
	type result struct {
		prefix string
		info   SubsetInfo
	}
	results := make([]result, len(e.mu))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range e.mu {
		i, req := i, req
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := e.face.Subset(req.name, req.cps)
			if err != nil {
				return fmt.Errorf("encoder: subset %q: %w", req.name, err)
			}
			prefix := filePrefix(e.face.Family, e.face.StyleString, e.face.IsVariable(), e.version, req.name)
			results[i] = result{
				prefix: prefix,
				info: SubsetInfo{
					Name:       req.name,
					Codepoints: req.cps,
					Ranges:     unicodeRanges(req.cps, e.face.Codepoints),
					Data:       data,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].prefix < results[j].prefix })

	hasher := blake3.New(32, nil)
	for _, r := range results {
		digest := blake3.Sum256(r.info.Data)
		hasher.Write(digest[:])
	}
	hashFragment := fmt.Sprintf("%x", hasher.Sum(nil))[:12]

	subsets := make([]SubsetInfo, len(results))
	for i, r := range results {
		r.info.FileName = finalFileName(r.prefix, hashFragment)
		subsets[i] = r.info
	}

	return &WebfontInfo{
		Family:      e.face.Family,
		StyleString: e.face.StyleString,
		Style:       e.face.InferredStyle,
		WeightRange: e.face.WeightRange,
		Subsets:     subsets,
	}, nil
}
