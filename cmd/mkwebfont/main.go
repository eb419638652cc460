// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mkwebfont produces web-optimized font packages: subsetted
// WOFF2 files plus CSS @font-face declarations, from one or more input
// font files and an optional spec describing how they are used.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"

	"github.com/Lymia/mkwebfont/adjacency"
	"github.com/Lymia/mkwebfont/assign"
	"github.com/Lymia/mkwebfont/base/errors"
	"github.com/Lymia/mkwebfont/charset"
	"github.com/Lymia/mkwebfont/cssgen"
	"github.com/Lymia/mkwebfont/data"
	"github.com/Lymia/mkwebfont/encoder"
	"github.com/Lymia/mkwebfont/fontface"
	"github.com/Lymia/mkwebfont/manifest"
	"github.com/Lymia/mkwebfont/splitter"
	"github.com/Lymia/mkwebfont/webroot"
)

type config struct {
	store         string
	output        string
	storeURI      string
	verbose       bool
	specFile      string
	webroot       string
	manifestFile  string
	adjacencyFile string
}

func main() {
	cfg, fontPaths, err := parseFlags()
	if err != nil {
		errors.Log(err)
		os.Exit(1)
	}
	setupLogging(cfg.verbose)

	if err := run(cfg, fontPaths); err != nil {
		errors.Log(err)
		os.Exit(1)
	}
}

func parseFlags() (config, []string, error) {
	var cfg config
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a TOML config file of flag defaults")
	flag.StringVar(&cfg.store, "store", "fonts", "directory to write subsetted WOFF2 files into")
	flag.StringVar(&cfg.output, "output", "fonts.css", "path to write the generated stylesheet to")
	flag.StringVar(&cfg.storeURI, "store-uri", "", "URI prefix for font file references in the generated CSS")
	flag.BoolVar(&cfg.verbose, "verbose", false, "enable debug logging")
	flag.StringVar(&cfg.specFile, "spec", "", "path to a subset assignment spec file")
	flag.StringVar(&cfg.webroot, "webroot", "", "webroot directory to analyze HTML/CSS usage from")
	flag.StringVar(&cfg.manifestFile, "manifest", "", "path to a sealed subset-manifest data package (C4)")
	flag.StringVar(&cfg.adjacencyFile, "adjacency-data", "", "path to a sealed adjacency-array data package (C3), used as the splitter's fallback strategy when the manifest leaves codepoints unassigned")
	flag.Parse()

	if configPath != "" {
		fc, err := loadFileConfig(configPath)
		if err != nil {
			return cfg, nil, fmt.Errorf("mkwebfont: %w", err)
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		applyFileConfig(&cfg, fc, explicit)
	}
	return cfg, flag.Args(), nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(cfg config, fontPaths []string) error {
	if len(fontPaths) == 0 {
		return fmt.Errorf("mkwebfont: at least one font path is required")
	}

	faces, resolver, err := loadFonts(fontPaths)
	if err != nil {
		return err
	}

	var diag errors.Diagnostics

	var lines []assign.Line
	switch {
	case cfg.specFile != "":
		lines, err = assign.ParseFile(cfg.specFile)
		if err != nil {
			return fmt.Errorf("mkwebfont: loading spec: %w", err)
		}
	case cfg.webroot != "":
		used, err := webrootUsageCharset(cfg.webroot, &diag)
		if err != nil {
			return fmt.Errorf("mkwebfont: analyzing webroot: %w", err)
		}
		lines = []assign.Line{{Kind: assign.KindStack, Fonts: []string{"*"}, Charset: used}}
	default:
		lines = []assign.Line{{Kind: assign.KindStack, Fonts: []string{"*"}, Charset: unionAllCodepoints(faces)}}
	}

	assigned, err := assign.Build(lines, resolver)
	if err != nil {
		return fmt.Errorf("mkwebfont: %w", err)
	}

	m := manifest.New()
	if cfg.manifestFile != "" {
		m, err = loadManifest(cfg.manifestFile)
		if err != nil {
			return fmt.Errorf("mkwebfont: loading manifest: %w", err)
		}
	}

	var adj *adjacency.Array
	if cfg.adjacencyFile != "" {
		adj, err = loadAdjacency(cfg.adjacencyFile)
		if err != nil {
			return fmt.Errorf("mkwebfont: loading adjacency data: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.store, 0o755); err != nil {
		return fmt.Errorf("mkwebfont: creating store directory: %w", err)
	}

	var webfonts []*encoder.WebfontInfo
	for _, face := range faces {
		wf, err := produceWebfont(face, assigned, m, adj, &diag)
		if err != nil {
			diag.Warn("mkwebfont", "font %q failed: %v", face.Family, err)
			continue
		}
		webfonts = append(webfonts, wf)
		for _, s := range wf.Subsets {
			if err := writeSubsetFile(cfg.store, s); err != nil {
				return fmt.Errorf("mkwebfont: writing subset file: %w", err)
			}
		}

		report := encoder.BuildQualityReport(wf)
		slog.Debug("subsetting quality report",
			"family", report.Family,
			"subsets", report.SubsetCount,
			"total_bytes", report.TotalBytes,
			"largest_subset", report.LargestSubset,
			"largest_bytes", report.LargestBytes)
	}

	css := cssgen.Generate(webfonts, cssgen.GenerateOptions{URLPrefix: cfg.storeURI})
	if err := data.AtomicWrite(cfg.output, []byte(css), 0o644); err != nil {
		return fmt.Errorf("mkwebfont: writing stylesheet: %w", err)
	}

	for _, w := range diag.Warnings {
		slog.Warn(w.String())
	}
	return nil
}

// webrootUsageCharset walks webroot for HTML files and returns the union
// of every codepoint the webroot analyzer (C9) found actually in use.
func webrootUsageCharset(root string, diag *errors.Diagnostics) (*charset.Set, error) {
	var htmlFiles []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".html", ".htm":
			htmlFiles = append(htmlFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	analyzer := webroot.NewAnalyzer(root)
	info, err := analyzer.AnalyzeFiles(htmlFiles)
	if err != nil {
		return nil, err
	}
	diag.Warnings = append(diag.Warnings, analyzer.Diagnostics.Warnings...)

	used := charset.NewSet()
	for _, u := range info.Usages {
		used = used.Union(u.Chars)
	}
	return used, nil
}

func unionAllCodepoints(faces []*fontface.Face) *charset.Set {
	out := charset.NewSet()
	for _, f := range faces {
		out = out.Union(f.Codepoints)
	}
	return out
}

func loadFonts(paths []string) ([]*fontface.Face, assign.Resolver, error) {
	var faces []*fontface.Face
	groups := map[string]*assign.FontGroup{}

	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("mkwebfont: reading %s: %w", p, err)
		}
		if kind, err := filetype.Match(raw); err == nil && (kind.Extension == "woff" || kind.Extension == "woff2") {
			return nil, nil, fmt.Errorf("mkwebfont: %s is already WOFF-compressed; pass the original TTF/OTF/TTC instead", p)
		}
		fs, err := fontface.Load(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("mkwebfont: loading %s: %w", p, err)
		}
		name := filepath.Base(p)
		groups[name] = &assign.FontGroup{Name: name, Faces: fs}
		faces = append(faces, fs...)
	}
	return faces, assign.NewResolver(groups), nil
}

// produceWebfont runs the manifest-driven splitter (C7) first; any
// codepoints it leaves unassigned fall back to the adjacency-driven
// strategy when an adjacency array was loaded, per §4.7, and otherwise
// to the residual splitter's Unicode-block-based binning.
func produceWebfont(face *fontface.Face, assigned *assign.AssignedSubsets, m *manifest.Manifest, adj *adjacency.Array, diag *errors.Diagnostics) (*encoder.WebfontInfo, error) {
	used := assigned.GetUsedChars(face)
	preload := assigned.GetPreloadChars(face)

	params := splitter.DefaultParams()
	ms := splitter.NewManifestSplitter(m, used, preload, params)
	subsets, remaining := ms.Run()

	if !remaining.IsEmpty() {
		if adj != nil {
			as := splitter.NewAdjacencySplitter(adj, remaining)
			subsets = append(subsets, as.Run()...)
		} else {
			rs := splitter.NewResidualSplitter(m, params)
			subsets = append(subsets, rs.Run(remaining)...)
		}
	}

	enc := encoder.New(face)
	for _, s := range subsets {
		enc.AddSubset(s.Name, s.Codepoints)
	}
	return enc.ProduceWebfont(context.Background())
}

func loadManifest(path string) (*manifest.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	pkg, err := data.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	sec, ok := pkg.Section("raw_subsets")
	if !ok {
		return nil, fmt.Errorf("%s: missing raw_subsets section", path)
	}
	return manifest.Decode(sec)
}

func loadAdjacency(path string) (*adjacency.Array, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	pkg, err := data.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	metaRaw, ok := pkg.Section("adjacency_array_meta")
	if !ok {
		return nil, fmt.Errorf("%s: missing adjacency_array_meta section", path)
	}
	rawMatrix, ok := pkg.Section("adjacency_array")
	if !ok {
		return nil, fmt.Errorf("%s: missing adjacency_array section", path)
	}
	meta, err := adjacency.DecodeMeta(metaRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return adjacency.FromParts(meta, rawMatrix)
}

func writeSubsetFile(store string, s encoder.SubsetInfo) error {
	return data.AtomicWrite(filepath.Join(store, s.FileName), s.Data, 0o644)
}
