// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assign implements the Subset Assignment component (C6):
// turning a sequence of user spec lines plus an optional webroot usage
// record into per-font subset/exclusion/preload/range-exclusion sets.
package assign

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Lymia/mkwebfont/charset"
)

// Line is one parsed spec statement.
type Line struct {
	Kind    LineKind
	Fonts   []string // font names, or ["*"] for "every font"
	Charset *charset.Set
}

type LineKind int

const (
	KindStack LineKind = iota
	KindExclude
	KindPreload
)

// ParseFile reads a spec file, recursively inlining `@path` includes, and
// returns the flattened, parsed line list.
func ParseFile(path string) ([]Line, error) {
	return parseFile(path, map[string]bool{})
}

// ParseLines parses already-split spec lines. Any `@path` line among them
// is inlined recursively, with the path resolved relative to baseDir.
func ParseLines(lines []string, baseDir string) ([]Line, error) {
	return parseLines(lines, baseDir, map[string]bool{})
}

func parseFile(path string, seen map[string]bool) ([]Line, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("assign: resolving %q: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("assign: recursive @include of %q", path)
	}
	seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assign: opening spec file %q: %w", path, err)
	}
	defer f.Close()

	var raw []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("assign: reading spec file %q: %w", path, err)
	}
	return parseLines(raw, filepath.Dir(abs), seen)
}

func parseLines(raw []string, baseDir string, seen map[string]bool) ([]Line, error) {
	var out []Line
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#!") {
			continue
		}
		if strings.HasPrefix(line, "@") {
			included, err := parseFile(filepath.Join(baseDir, line[1:]), seen)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
			continue
		}
		parsed, err := parseLine(line, baseDir)
		if err != nil {
			return nil, fmt.Errorf("assign: %w", err)
		}
		out = append(out, parsed)
	}
	return out, nil
}

func parseLine(line, baseDir string) (Line, error) {
	kind := KindStack
	body := line
	switch {
	case strings.HasPrefix(line, "exclude:"):
		kind = KindExclude
		body = strings.TrimSpace(line[len("exclude:"):])
	case strings.HasPrefix(line, "preload:"):
		kind = KindPreload
		body = strings.TrimSpace(line[len("preload:"):])
	}

	idx := strings.LastIndex(body, ":")
	if idx < 0 {
		return Line{}, fmt.Errorf("malformed spec line %q: missing ':' separating fonts from charset", line)
	}
	fontPart := strings.TrimSpace(body[:idx])
	charsetPart := strings.TrimSpace(body[idx+1:])

	var fonts []string
	if fontPart == "*" {
		fonts = []string{"*"}
	} else {
		for _, f := range strings.Split(fontPart, ",") {
			f = strings.TrimSpace(f)
			if f != "" {
				fonts = append(fonts, f)
			}
		}
	}

	cps, err := parseCharset(charsetPart, baseDir)
	if err != nil {
		return Line{}, fmt.Errorf("parsing charset in %q: %w", line, err)
	}

	return Line{Kind: kind, Fonts: fonts, Charset: cps}, nil
}

// parseCharset implements §4.6's charset syntax: `@file`, a `#`-prefixed
// unicode-range list, or literal characters.
func parseCharset(spec, baseDir string) (*charset.Set, error) {
	switch {
	case strings.HasPrefix(spec, "@"):
		data, err := os.ReadFile(filepath.Join(baseDir, spec[1:]))
		if err != nil {
			return nil, err
		}
		return charset.FromSlice([]rune(string(data))), nil
	case strings.HasPrefix(spec, "#"):
		return parseUnicodeRange(spec[1:])
	default:
		return charset.FromSlice([]rune(spec)), nil
	}
}

// parseUnicodeRange parses a comma-separated `U+XXXX-YYYY` / `U+ZZZ?`
// list, as used by CSS unicode-range and this spec's `#`-prefixed form.
func parseUnicodeRange(spec string) (*charset.Set, error) {
	out := charset.NewSet()
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if !strings.HasPrefix(tok, "U+") && !strings.HasPrefix(tok, "u+") {
			return nil, fmt.Errorf("unicode-range token %q missing U+ prefix", tok)
		}
		tok = tok[2:]

		if strings.Contains(tok, "?") {
			lo, hi, err := wildcardRange(tok)
			if err != nil {
				return nil, err
			}
			out.InsertRange(lo, hi)
			continue
		}
		if dash := strings.Index(tok, "-"); dash >= 0 {
			lo, err := parseHexRune(tok[:dash])
			if err != nil {
				return nil, err
			}
			hi, err := parseHexRune(tok[dash+1:])
			if err != nil {
				return nil, err
			}
			out.InsertRange(lo, hi)
			continue
		}
		v, err := parseHexRune(tok)
		if err != nil {
			return nil, err
		}
		out.Insert(v)
	}
	return out, nil
}

func wildcardRange(tok string) (rune, rune, error) {
	lo := strings.ReplaceAll(tok, "?", "0")
	hi := strings.ReplaceAll(tok, "?", "F")
	loV, err := parseHexRune(lo)
	if err != nil {
		return 0, 0, err
	}
	hiV, err := parseHexRune(hi)
	if err != nil {
		return 0, 0, err
	}
	return loV, hiV, nil
}

func parseHexRune(s string) (rune, error) {
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex codepoint %q: %w", s, err)
	}
	return rune(v), nil
}
