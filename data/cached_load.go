// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"errors"
	"fmt"
	"os"
)

// Fetcher produces the raw bytes of a data package when the cache is
// missing or corrupt. In this build it is always filesystem-backed (a
// copy from a bundled data directory); no network fetch is performed.
type Fetcher func() ([]byte, error)

// CachedLoad implements §7's retry policy: load path, verify via Decode,
// and on ErrHashMismatch delete the cached copy and fetch exactly once
// more before failing fatally.
func CachedLoad(path string, fetch Fetcher) (*Package, error) {
	if raw, err := os.ReadFile(path); err == nil {
		p, decodeErr := Decode(raw)
		if decodeErr == nil {
			return p, nil
		}
		if !errors.Is(decodeErr, ErrHashMismatch) {
			return nil, fmt.Errorf("data: loading cached package %s: %w", path, decodeErr)
		}
		_ = os.Remove(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("data: reading cache %s: %w", path, err)
	}

	raw, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("data: fetching package for %s: %w", path, err)
	}
	p, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("data: refetched package still invalid: %w", err)
	}
	if err := AtomicWrite(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("data: caching refetched package: %w", err)
	}
	return p, nil
}
