// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package lineedit

import (
	"os"

	"golang.org/x/term"
)

// Terminal switches the controlling terminal in and out of raw mode.
type Terminal interface {
	// IsTerminal reports whether input is an interactive terminal.
	IsTerminal() bool

	// MakeRaw enters raw mode and returns a function that restores the
	// previous state.
	MakeRaw() (restore func() error, err error)
}

// NewTerminal returns a Terminal for the given file, normally os.Stdin.
func NewTerminal(f *os.File) Terminal {
	return &fdTerminal{fd: int(f.Fd())}
}

type fdTerminal struct {
	fd int
}

func (t *fdTerminal) IsTerminal() bool { return term.IsTerminal(t.fd) }

func (t *fdTerminal) MakeRaw() (func() error, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(t.fd, state) }, nil
}
