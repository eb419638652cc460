// Copyright (c) 2026, The mkwebfont Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package omap implements a small ordered map: a slice of values in
// insertion order plus a name-to-index lookup. It backs the by-name
// subset and group indices of the subset manifest, where both "iterate
// in a stable order" and "look up by name" are needed.
package omap

// Map is an ordered map keyed by string name.
type Map[V any] struct {
	Values []V
	Names  []string

	index map[string]int
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{index: make(map[string]int)}
}

func (m *Map[V]) initIndex() {
	if m.index == nil {
		m.index = make(map[string]int, len(m.Names))
		for i, n := range m.Names {
			m.index[n] = i
		}
	}
}

// Set inserts or replaces the value for name.
func (m *Map[V]) Set(name string, v V) {
	m.initIndex()
	if i, ok := m.index[name]; ok {
		m.Values[i] = v
		return
	}
	m.index[name] = len(m.Values)
	m.Values = append(m.Values, v)
	m.Names = append(m.Names, name)
}

// At returns the value for name, and whether it was present.
func (m *Map[V]) At(name string) (V, bool) {
	m.initIndex()
	if i, ok := m.index[name]; ok {
		return m.Values[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether name is present.
func (m *Map[V]) Has(name string) bool {
	m.initIndex()
	_, ok := m.index[name]
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.Values)
}
