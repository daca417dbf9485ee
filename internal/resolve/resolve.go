// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package resolve locates executables on a search path and suggests the
// nearest known name when a lookup misses.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Default suggestion bounds.
const (
	DefaultThreshold = 4  // accept edit distances 1..3
	DefaultMaxLen    = 32 // longer strings never match
)

// Resolver searches Dirs in order. Relative names and relative Dirs entries
// are interpreted against Base.
type Resolver struct {
	Dirs []string
	Base string

	// Threshold is the exclusive upper bound on an accepted suggestion
	// distance. Zero means DefaultThreshold.
	Threshold int
	// MaxLen caps the length of names compared by Suggest. Zero means
	// DefaultMaxLen.
	MaxLen int
}

// SplitPath splits a PATH-style list. Empty entries are kept; they mean the
// base directory.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, string(os.PathListSeparator))
}

// IsExecutable reports whether path is a regular file the current user may
// execute.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

// Resolve returns the executable a command name refers to. A name containing
// a path separator must itself be an executable regular file; otherwise the
// first match in Dirs wins. Nothing is cached.
func (r *Resolver) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		p := r.abs(name)
		if IsExecutable(p) {
			return p, true
		}
		return "", false
	}
	for _, dir := range r.Dirs {
		p := filepath.Join(r.dir(dir), name)
		if IsExecutable(p) {
			return p, true
		}
	}
	return "", false
}

// Executables lists every executable name reachable through Dirs, in
// discovery order: search path order, then directory listing order.
// Duplicates are kept; callers that care dedupe.
func (r *Resolver) Executables() []string {
	var names []string
	for _, dir := range r.Dirs {
		d := r.dir(dir)
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if IsExecutable(filepath.Join(d, e.Name())) {
				names = append(names, e.Name())
			}
		}
	}
	return names
}

// Suggest returns the executable name closest to name, provided its edit
// distance is below the threshold. Ties keep the first name discovered.
func (r *Resolver) Suggest(name string) (string, bool) {
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	maxLen := r.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	best, bestDist := "", threshold
	for _, cand := range r.Executables() {
		d := Distance(name, cand, maxLen)
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, best != ""
}

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) || r.Base == "" {
		return p
	}
	return filepath.Join(r.Base, p)
}

func (r *Resolver) dir(d string) string {
	if d == "" {
		d = "."
	}
	return r.abs(d)
}
