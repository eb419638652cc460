// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mkwebfont-adjgen runs the offline adjacency-builder pipeline
// (C11): ingesting Common Crawl WET shards into the quantized adjacency
// array plus a per-script validation corpus, and sealing the result into
// a data package. Its "gfsubsets" subcommand scrapes the Google Fonts
// CSS API into a subset manifest, gated on the WEBFONT_APIKEY
// environment variable.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lymia/mkwebfont/adjbuild"
	"github.com/Lymia/mkwebfont/base/errors"
	"github.com/Lymia/mkwebfont/bitsetlist"
	"github.com/Lymia/mkwebfont/data"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mkwebfont-adjgen <build|gfsubsets> [flags]")
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "gfsubsets":
		err = runGfsubsets(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		errors.Log(err)
		os.Exit(1)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("out", "adjacency.mkwbfont", "path to write the sealed adjacency data package to")
	validationOut := fs.String("validation-out", "", "optional path to write a sealed validation-corpus data package")
	corpusSize := fs.Int("validation-size", 5000, "pages sampled per script into the validation corpus")
	fs.Parse(args)

	shards := fs.Args()
	if len(shards) == 0 {
		return fmt.Errorf("adjgen build: at least one WET shard path is required")
	}

	slog.Info("ingesting shards", "count", len(shards))
	arr, err := adjbuild.Build(shards)
	if err != nil {
		return fmt.Errorf("adjgen build: %w", err)
	}

	pkg := &data.Package{
		PackageID: "adjacency",
		Meta:      map[string]int64{"alphabet_size": int64(len(arr.CodepointList))},
		Files: map[string][]byte{
			"adjacency_array_meta": arr.EncodeMeta(),
			"adjacency_array":      arr.EncodeRaw(),
		},
	}
	if err := writePackage(*out, pkg); err != nil {
		return fmt.Errorf("adjgen build: %w", err)
	}
	slog.Info("wrote adjacency package", "path", *out, "alphabet_size", len(arr.CodepointList))

	if *validationOut != "" {
		if err := buildValidation(shards, *corpusSize, *validationOut); err != nil {
			return fmt.Errorf("adjgen build: %w", err)
		}
	}
	return nil
}

// buildValidation re-ingests the same shards into a second list (sectioned
// round-robin by Ingest, as in Build), has BuildValidationCorpus assemble
// one section per script from it, and seals the sampled corpus.
func buildValidation(shardPaths []string, corpusSize int, out string) error {
	held := bitsetlist.New()
	if err := adjbuild.Ingest(shardPaths, held, adjbuild.DefaultCodepointFilter); err != nil {
		return err
	}

	corpus, err := adjbuild.BuildValidationCorpus(held, adjbuild.DefaultScripts(), corpusSize)
	if err != nil {
		return err
	}

	files := map[string][]byte{}
	for _, sec := range corpus.Sections {
		files["validation_"+sec.Source] = sec.Data
	}
	pkg := &data.Package{PackageID: "validation", Files: files}
	return writePackage(out, pkg)
}

func runGfsubsets(args []string) error {
	fs := flag.NewFlagSet("gfsubsets", flag.ExitOnError)
	out := fs.String("out", "gfsubsets.mkwbfont", "path to write the sealed subset-manifest data package to")
	fs.Parse(args)

	apiKey := os.Getenv("WEBFONT_APIKEY")
	if apiKey == "" {
		return fmt.Errorf("adjgen gfsubsets: WEBFONT_APIKEY must be set; this subcommand scrapes the Google Fonts API and is not meant to run in CI")
	}

	m, err := scrapeGfSubsets(apiKey)
	if err != nil {
		return fmt.Errorf("adjgen gfsubsets: %w", err)
	}

	pkg := &data.Package{
		PackageID: "gfsubsets",
		Files:     map[string][]byte{"raw_subsets": m.Encode()},
	}
	if err := writePackage(*out, pkg); err != nil {
		return fmt.Errorf("adjgen gfsubsets: %w", err)
	}
	slog.Info("wrote gfsubsets package", "path", *out)
	return nil
}

func writePackage(path string, pkg *data.Package) error {
	encoded, err := data.Encode(pkg)
	if err != nil {
		return fmt.Errorf("encoding package: %w", err)
	}
	return data.AtomicWrite(path, encoded, 0o644)
}
