// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package lineedit reads command lines from a terminal in raw mode, with
// cursor movement, history recall and tab completion.
package lineedit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/marcelocantos/gosh/internal/history"
)

// DefaultMaxLine is the longest line, in runes, Read will build.
const DefaultMaxLine = 4096

// ErrLineTooLong aborts a Read whose buffer would exceed the limit.
var ErrLineTooLong = errors.New("lineedit: line too long")

// Key codes handled by the editor.
const (
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyTab       = '\t'
	keyNewline   = '\n'
	keyReturn    = '\r'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// Completer proposes replacements for the word under the cursor.
type Completer interface {
	Complete(word string) []string
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(word string) []string

func (f CompleterFunc) Complete(word string) []string { return f(word) }

// Lister displays several completion candidates.
type Lister interface {
	Show(candidates []string) error
}

// Editor reads lines. In, Out and History are shared across reads; the
// edit buffer and history cursor are local to each Read.
type Editor struct {
	// In may read ahead of the current line. Share it with every other
	// consumer of the shell's input; a child process handed the underlying
	// file does not see bytes already buffered here.
	In  *bufio.Reader
	Out io.Writer

	// Term controls raw mode. When nil or not a terminal, Read falls back
	// to plain line input.
	Term Terminal

	History   *history.History
	Completer Completer
	Lister    Lister

	MaxLine int // default DefaultMaxLine
}

// Read displays prompt and returns the next line without its terminator.
// io.EOF means input has ended.
func (e *Editor) Read(prompt string) (string, error) {
	if e.Term == nil || !e.Term.IsTerminal() {
		return e.readPlain(prompt)
	}
	restore, err := e.Term.MakeRaw()
	if err != nil {
		return e.readPlain(prompt)
	}
	defer restore()

	l := &line{
		ed:      e,
		prompt:  prompt,
		width:   PromptWidth(prompt),
		histPos: e.historyLen(),
		max:     e.maxLine(),
	}
	l.refresh()
	return l.run()
}

func (e *Editor) maxLine() int {
	if e.MaxLine <= 0 {
		return DefaultMaxLine
	}
	return e.MaxLine
}

func (e *Editor) historyLen() int {
	if e.History == nil {
		return 0
	}
	return e.History.Len()
}

func (e *Editor) remember(s string) {
	if e.History != nil && s != "" {
		e.History.Add(s)
	}
}

// readPlain serves non-interactive input: one line per call, no editing.
func (e *Editor) readPlain(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.Out, prompt)
	}
	s, err := e.In.ReadString('\n')
	if s == "" && err != nil {
		return "", io.EOF
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
	if len([]rune(s)) > e.maxLine() {
		return "", ErrLineTooLong
	}
	e.remember(s)
	return s, nil
}

// line is the state of one interactive Read.
type line struct {
	ed      *Editor
	prompt  string
	width   int
	buf     []rune
	pos     int
	histPos int
	max     int
}

func (l *line) run() (string, error) {
	out := l.ed.Out
	for {
		r, _, err := l.ed.In.ReadRune()
		if err != nil {
			fmt.Fprint(out, "\r\n")
			return "", io.EOF
		}
		switch r {
		case keyReturn, keyNewline:
			fmt.Fprint(out, "\r\n")
			s := string(l.buf)
			l.ed.remember(s)
			return s, nil
		case keyCtrlD:
			if len(l.buf) == 0 {
				fmt.Fprint(out, "\r\n")
				return "", io.EOF
			}
		case keyDelete, keyBackspace:
			if l.pos > 0 {
				l.buf = append(l.buf[:l.pos-1], l.buf[l.pos:]...)
				l.pos--
				l.refresh()
			}
		case keyTab:
			if err := l.complete(); err != nil {
				return "", err
			}
		case keyEscape:
			l.escape()
		default:
			if r < 0x20 || r == utf8.RuneError {
				continue
			}
			if len(l.buf)+1 > l.max {
				fmt.Fprint(out, "\r\n")
				return "", ErrLineTooLong
			}
			l.buf = append(l.buf, 0)
			copy(l.buf[l.pos+1:], l.buf[l.pos:])
			l.buf[l.pos] = r
			l.pos++
			l.refresh()
		}
	}
}

// escape consumes an escape sequence and applies the ones it knows.
func (l *line) escape() {
	in := l.ed.In
	intro, err := in.ReadByte()
	if err != nil || (intro != '[' && intro != 'O') {
		return
	}
	b, err := in.ReadByte()
	if err != nil {
		return
	}
	switch b {
	case 'A':
		l.historyPrev()
	case 'B':
		l.historyNext()
	case 'C':
		if l.pos < len(l.buf) {
			l.pos++
			l.refresh()
		}
	case 'D':
		if l.pos > 0 {
			l.pos--
			l.refresh()
		}
	case 'H':
		l.moveTo(0)
	case 'F':
		l.moveTo(len(l.buf))
	default:
		if intro != '[' || b < '0' || b > '9' {
			return
		}
		// Numeric form: ESC [ n ~
		param := []byte{b}
		for {
			c, err := in.ReadByte()
			if err != nil {
				return
			}
			if c == '~' {
				break
			}
			if c < '0' || c > '9' {
				return
			}
			param = append(param, c)
		}
		switch string(param) {
		case "1", "7":
			l.moveTo(0)
		case "4", "8":
			l.moveTo(len(l.buf))
		case "3":
			if l.pos < len(l.buf) {
				l.buf = append(l.buf[:l.pos], l.buf[l.pos+1:]...)
				l.refresh()
			}
		}
	}
}

func (l *line) moveTo(pos int) {
	if pos != l.pos {
		l.pos = pos
		l.refresh()
	}
}

func (l *line) historyPrev() {
	if l.histPos == 0 {
		return
	}
	l.histPos--
	s, _ := l.ed.History.At(l.histPos)
	l.setBuffer(s)
}

func (l *line) historyNext() {
	n := l.ed.historyLen()
	if l.histPos >= n {
		return
	}
	l.histPos++
	if l.histPos == n {
		l.setBuffer("")
		return
	}
	s, _ := l.ed.History.At(l.histPos)
	l.setBuffer(s)
}

func (l *line) setBuffer(s string) {
	l.buf = []rune(s)
	l.pos = len(l.buf)
	l.refresh()
}

// wordDelims end the word tab completion works on.
const wordDelims = " \t|<>"

func (l *line) complete() error {
	if l.ed.Completer == nil {
		return nil
	}
	start := l.pos
	for start > 0 && !strings.ContainsRune(wordDelims, l.buf[start-1]) {
		start--
	}
	word := string(l.buf[start:l.pos])
	cands := l.ed.Completer.Complete(word)
	switch len(cands) {
	case 0:
		return nil
	case 1:
		cand := []rune(cands[0])
		tail := l.buf[l.pos:]
		if start+len(cand)+len(tail) > l.max {
			fmt.Fprint(l.ed.Out, "\r\n")
			return ErrLineTooLong
		}
		buf := make([]rune, 0, start+len(cand)+len(tail))
		buf = append(buf, l.buf[:start]...)
		buf = append(buf, cand...)
		buf = append(buf, tail...)
		l.buf = buf
		l.pos = start + len(cand)
		l.refresh()
	default:
		if l.ed.Lister != nil {
			// A failed listing only loses the display.
			_ = l.ed.Lister.Show(cands)
		}
		l.refresh()
	}
	return nil
}

// refresh repaints the whole line and places the cursor.
func (l *line) refresh() {
	var b strings.Builder
	b.WriteByte('\r')
	b.WriteString(l.prompt)
	b.WriteString(string(l.buf))
	b.WriteString("\x1b[K\r")
	if col := l.width + l.pos; col > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", col)
	}
	io.WriteString(l.ed.Out, b.String())
}
