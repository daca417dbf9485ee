// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package complete finds tab-completion candidates and lays them out for
// display on a terminal.
package complete

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/marcelocantos/gosh/internal/resolve"
)

// Engine finds completion candidates for a word prefix.
type Engine struct {
	Dirs []string // search path, in order
	Base string   // directory relative prefixes are resolved against
}

// Find returns the unique candidates for prefix in discovery order. Command
// names from the search path come first (only when prefix has no path
// separator), then filesystem entries. Directories carry a trailing "/".
func (e *Engine) Find(prefix string) []string {
	if prefix == "" {
		return nil
	}
	set := newOrderedSet()
	if !strings.ContainsRune(prefix, os.PathSeparator) {
		e.fromPath(set, prefix)
	}
	e.fromFS(set, prefix)
	return set.items
}

func (e *Engine) fromPath(set *orderedSet, prefix string) {
	for _, dir := range e.Dirs {
		d := e.abs(dir)
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			name := ent.Name()
			if !visible(name, prefix) || !strings.HasPrefix(name, prefix) {
				continue
			}
			if resolve.IsExecutable(filepath.Join(d, name)) {
				set.add(name)
			}
		}
	}
}

func (e *Engine) fromFS(set *orderedSet, prefix string) {
	dirPart, fragment := "", prefix
	if i := strings.LastIndexByte(prefix, os.PathSeparator); i >= 0 {
		dirPart, fragment = prefix[:i+1], prefix[i+1:]
	}

	scan := dirPart
	if scan == "" {
		scan = "."
	}
	d := e.abs(scan)
	entries, err := os.ReadDir(d)
	if err != nil {
		return
	}
	for _, ent := range entries {
		name := ent.Name()
		if !visible(name, fragment) || !strings.HasPrefix(name, fragment) {
			continue
		}
		info, err := os.Stat(filepath.Join(d, name))
		if err != nil {
			continue
		}
		match := dirPart + name
		if info.IsDir() {
			match += string(os.PathSeparator)
		}
		set.add(match)
	}
}

func (e *Engine) abs(p string) string {
	if p == "" {
		p = "."
	}
	if filepath.IsAbs(p) || e.Base == "" {
		return p
	}
	return filepath.Join(e.Base, p)
}

// visible hides dot-files unless the user is already typing one.
func visible(name, fragment string) bool {
	return !strings.HasPrefix(name, ".") || strings.HasPrefix(fragment, ".")
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
