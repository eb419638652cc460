// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"os"
	"sync"
)

// Storage is the process-wide lazily-initialized cache of data-package
// backed objects described in §5 ("Shared mutable state"): each entry is
// loaded at most once and shared by reference thereafter. A single mutex
// guards every entry and is held while a loader runs.
type Storage struct {
	mu      sync.Mutex
	loaders map[string]func() (*Package, error)
	loaded  map[string]*Package
	errs    map[string]error
}

// NewStorage creates an empty Storage with no loaders registered.
func NewStorage() *Storage {
	return &Storage{
		loaders: map[string]func() (*Package, error){},
		loaded:  map[string]*Package{},
		errs:    map[string]error{},
	}
}

// Register installs a loader for a named package, invoked at most once.
func (s *Storage) Register(name string, loader func() (*Package, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[name] = loader
}

// Get returns the named package, loading it on first access.
func (s *Storage) Get(name string) (*Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.loaded[name]; ok {
		return p, nil
	}
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	loader, ok := s.loaders[name]
	if !ok {
		return nil, fmt.Errorf("data: no loader registered for package %q", name)
	}
	p, err := loader()
	if err != nil {
		s.errs[name] = err
		return nil, err
	}
	s.loaded[name] = p
	return p, nil
}

// DataDir resolves the directory data packages are loaded from, honoring
// MKWEBFONT_APPIMAGE_DATA when set.
func DataDir(fallback string) string {
	if dir := os.Getenv("MKWEBFONT_APPIMAGE_DATA"); dir != "" {
		return dir
	}
	return fallback
}
