// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig holds defaults loadable from a TOML config file, overridden
// by any flag the user passes explicitly on the command line.
type fileConfig struct {
	Store    string `toml:"store"`
	Output   string `toml:"output"`
	StoreURI string `toml:"store_uri"`
	Spec     string `toml:"spec"`
	Webroot  string `toml:"webroot"`
	Verbose  bool   `toml:"verbose"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyFileConfig fills any cfg field still at its flag default from fc,
// so an explicit flag always wins over the config file.
func applyFileConfig(cfg *config, fc *fileConfig, explicit map[string]bool) {
	if !explicit["store"] && fc.Store != "" {
		cfg.store = fc.Store
	}
	if !explicit["output"] && fc.Output != "" {
		cfg.output = fc.Output
	}
	if !explicit["store-uri"] && fc.StoreURI != "" {
		cfg.storeURI = fc.StoreURI
	}
	if !explicit["spec"] && fc.Spec != "" {
		cfg.specFile = fc.Spec
	}
	if !explicit["webroot"] && fc.Webroot != "" {
		cfg.webroot = fc.Webroot
	}
	if !explicit["verbose"] && fc.Verbose {
		cfg.verbose = fc.Verbose
	}
}
