// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/manifest"
)

const gfUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0"

type webfontsIndex struct {
	Items []webfontsEntry `json:"items"`
}

type webfontsEntry struct {
	Family  string   `json:"family"`
	Subsets []string `json:"subsets"`
}

// scrapeGfSubsets rebuilds the Google-Fonts-derived subset manifest by
// fetching every family's generated stylesheet and reading its
// unicode-range comments, the same data source Google Fonts itself
// assigns subset names from.
func scrapeGfSubsets(apiKey string) (*manifest.Manifest, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	index, err := fetchWebfontsIndex(client, apiKey)
	if err != nil {
		return nil, err
	}

	raw := map[string]*charset.Set{}
	groupMembers := map[string][]string{}

	for _, font := range index.Items {
		cjkTag := classifyCJK(font.Subsets)
		css, err := fetchFamilyCSS(client, font.Family)
		if err != nil {
			return nil, fmt.Errorf("fetching css for %q: %w", font.Family, err)
		}

		parsed, err := parseSubsetCSS(css, cjkTag)
		if err != nil {
			return nil, fmt.Errorf("parsing css for %q: %w", font.Family, err)
		}
		for name, cps := range parsed {
			if existing, ok := raw[name]; ok {
				raw[name] = existing.Union(cps)
			} else {
				raw[name] = cps
			}
		}
	}

	m := manifest.New()
	var names []string
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasPrefix(name, "group-") {
			rest := strings.TrimPrefix(name, "group-")
			parts := strings.SplitN(rest, "-s", 2)
			if len(parts) != 2 {
				continue
			}
			subclass, idx := parts[0], parts[1]
			subsetName := subclass + idx
			if err := m.AddSubset(subsetName, raw[name]); err != nil {
				return nil, err
			}
			groupMembers[subclass] = append(groupMembers[subclass], subsetName)
			continue
		}
		if err := m.AddSubset(name, raw[name]); err != nil {
			return nil, err
		}
	}

	var groupNames []string
	for g := range groupMembers {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)
	for _, g := range groupNames {
		members := groupMembers[g]
		sort.Strings(members)
		if err := m.AddGroup(g, members); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func classifyCJK(subsets []string) string {
	has := func(name string) bool {
		for _, s := range subsets {
			if s == name {
				return true
			}
		}
		return false
	}
	hits := 0
	tag := "unk"
	check := func(name, t string) {
		if has(name) {
			hits++
			tag = t
		}
	}
	check("chinese-simplified", "zhsimp")
	check("chinese-traditional", "zhtrad")
	check("chinese-hongkong", "zhhk")
	check("korean", "kr")
	check("japanese", "jp")
	check("emoji", "emoji")
	if hits > 1 {
		return "unk"
	}
	return tag
}

func fetchWebfontsIndex(client *http.Client, apiKey string) (*webfontsIndex, error) {
	url := fmt.Sprintf("https://www.googleapis.com/webfonts/v1/webfonts?key=%s", apiKey)
	body, err := fetchText(client, url)
	if err != nil {
		return nil, err
	}
	var idx webfontsIndex
	if err := json.Unmarshal([]byte(body), &idx); err != nil {
		return nil, fmt.Errorf("decoding webfonts index: %w", err)
	}
	return &idx, nil
}

func fetchFamilyCSS(client *http.Client, family string) (string, error) {
	url := fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s", family)
	return fetchText(client, url)
}

func fetchText(client *http.Client, url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", gfUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseSubsetCSS extracts subset name -> codepoints from a generated
// @font-face stylesheet: each rule is preceded by a "/* name */" comment
// naming its subset, and CJK subsets are named by a bracketed shard index
// instead ("/* [12] */"), grouped under cjkTag.
func parseSubsetCSS(css, cjkTag string) (map[string]*charset.Set, error) {
	ranges := map[string]*charset.Set{}
	var current string

	for _, rawLine := range strings.Split(css, "\n") {
		line := strings.TrimSpace(rawLine)

		if strings.HasPrefix(line, "/*") {
			comment := line
			comment = strings.TrimPrefix(comment, "/*")
			if idx := strings.Index(comment, "*/"); idx >= 0 {
				comment = comment[:idx]
			}
			comment = strings.TrimSpace(comment)

			if strings.HasPrefix(comment, "[") && strings.HasSuffix(comment, "]") {
				shard := strings.TrimSuffix(strings.TrimPrefix(comment, "["), "]")
				current = fmt.Sprintf("group-%s-s%s", cjkTag, shard)
			} else {
				current = comment
			}
			continue
		}

		if strings.HasPrefix(line, "unicode-range:") {
			if current == "" {
				continue
			}
			value := strings.TrimPrefix(line, "unicode-range:")
			value = strings.TrimSuffix(strings.TrimSpace(value), ";")

			set, err := parseUnicodeRangeList(value)
			if err != nil {
				return nil, err
			}
			ranges[current] = set
			current = ""
		}
	}
	return ranges, nil
}

func parseUnicodeRangeList(value string) (*charset.Set, error) {
	out := charset.NewSet()
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if !strings.HasPrefix(entry, "U+") {
			return nil, fmt.Errorf("unicode-range entry %q missing U+ prefix", entry)
		}
		entry = entry[2:]

		if idx := strings.Index(entry, "-"); idx >= 0 {
			lo, err := strconv.ParseInt(entry[:idx], 16, 32)
			if err != nil {
				return nil, err
			}
			hi, err := strconv.ParseInt(entry[idx+1:], 16, 32)
			if err != nil {
				return nil, err
			}
			out.InsertRange(rune(lo), rune(hi))
		} else {
			v, err := strconv.ParseInt(entry, 16, 32)
			if err != nil {
				return nil, err
			}
			out.Insert(rune(v))
		}
	}
	return out, nil
}
