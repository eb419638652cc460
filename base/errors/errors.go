// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides small helpers layered on top of the standard
// library errors package, for the "log and keep going" error handling
// style used throughout mkwebfont: most pipeline stages operate on many
// independent fonts, subsets or pages, and a single failure should be
// logged and attributed to its unit of work rather than aborting siblings.
package errors

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// Log logs err at error level, with caller info, if it is non-nil, and
// returns it unchanged. The intended usage is:
//
//	return errors.Log(doThing())
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 logs err if non-nil and returns v regardless. Useful for adapting
// a (value, error) pair into a "best effort" value in contexts (like the
// splitter or webroot analyzer) where a warning must not abort the rest
// of the batch.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// CallerInfo returns the file:line of the caller of the function that
// called CallerInfo, for inclusion in log messages.
func CallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown:0"
	}
	return file + ":" + strconv.Itoa(line)
}

// Warning is a non-fatal diagnostic raised while processing an individual
// unit of work (a font, a page, a stylesheet). Per-failure diagnostics are
// collected on a side channel rather than aborting the whole batch; see
// the Diagnostics type for the collector used across packages.
type Warning struct {
	// Source names the unit of work the warning is about (a font name,
	// a file path, a CSS rule).
	Source string
	// Message is the human-readable diagnostic text.
	Message string
}

func (w Warning) String() string {
	if w.Source == "" {
		return w.Message
	}
	return w.Source + ": " + w.Message
}

// Diagnostics accumulates warnings produced while processing a batch of
// independent units of work. It is not safe for concurrent use; callers
// that fan out across goroutines should collect into per-goroutine slices
// and merge them once all goroutines have completed.
type Diagnostics struct {
	Warnings []Warning
}

// Warn records a warning against source.
func (d *Diagnostics) Warn(source, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{Source: source, Message: fmt.Sprintf(format, args...)})
}
