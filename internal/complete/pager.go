// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package complete

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// DefaultColumnCap bounds the width of one display column, padding included.
const DefaultColumnCap = 30

const morePrompt = "--More-- (n)ext (b)ack (q)uit"

// Pager prints candidates in columns, one terminal page at a time. It is
// used while the terminal is in raw mode, so every line ends in "\r\n".
type Pager struct {
	In  io.ByteReader
	Out io.Writer

	// Size reports the terminal width and height. Nil means 80x24.
	Size func() (width, height int)
	// ColumnCap bounds the column width. Zero means DefaultColumnCap.
	ColumnCap int
}

// TerminalSize returns a Size function for the terminal on fd, falling back
// to 80x24 when the size is unavailable.
func TerminalSize(fd int) func() (int, int) {
	return func() (int, int) {
		w, h, err := term.GetSize(fd)
		if err != nil || w <= 0 || h <= 0 {
			return 80, 24
		}
		return w, h
	}
}

// Layout computes the column width, column count and row count for cands
// on a terminal width columns wide.
func Layout(cands []string, width, columnCap int) (colWidth, cols, rows int) {
	if columnCap <= 0 {
		columnCap = DefaultColumnCap
	}
	for _, c := range cands {
		colWidth = max(colWidth, utf8.RuneCountInString(c))
	}
	colWidth = min(colWidth+2, columnCap)
	cols = max(width/colWidth, 1)
	rows = (len(cands) + cols - 1) / cols
	return colWidth, cols, rows
}

// Show renders cands. With more rows than fit on one page it stops after
// each page and reads a single key: n, space or enter moves forward, b moves
// back, and q, escape, ^C, ^D or a read error quit at once. Other keys move
// forward, so the pager always terminates.
func (p *Pager) Show(cands []string) error {
	if len(cands) == 0 {
		return nil
	}
	width, height := 80, 24
	if p.Size != nil {
		width, height = p.Size()
	}
	colWidth, cols, rows := Layout(cands, width, p.ColumnCap)
	pageRows := max(height-1, 1)
	pages := (rows + pageRows - 1) / pageRows

	if _, err := io.WriteString(p.Out, "\r\n"); err != nil {
		return err
	}
	for page := 0; page < pages; {
		first := page * pageRows
		last := min(first+pageRows, rows)
		for r := first; r < last; r++ {
			if err := p.writeRow(cands, r, cols, colWidth); err != nil {
				return err
			}
		}
		if page == pages-1 {
			return nil
		}

		fmt.Fprint(p.Out, morePrompt)
		key, err := p.In.ReadByte()
		fmt.Fprint(p.Out, "\r\x1b[K")
		if err != nil {
			return nil
		}
		switch key {
		case 'q', 'Q', 0x1b, 0x03, 0x04:
			return nil
		case 'b', 'B':
			page = max(page-1, 0)
		default:
			page++
		}
	}
	return nil
}

func (p *Pager) writeRow(cands []string, row, cols, colWidth int) error {
	var sb strings.Builder
	for c := 0; c < cols; c++ {
		i := row*cols + c
		if i >= len(cands) {
			break
		}
		sb.WriteString(cands[i])
		if c < cols-1 && i < len(cands)-1 {
			if pad := colWidth - utf8.RuneCountInString(cands[i]); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	sb.WriteString("\r\n")
	_, err := io.WriteString(p.Out, sb.String())
	return err
}
