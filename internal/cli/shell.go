// Package cli wires the shell together and runs it, interactively or for a
// single command line.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/complete"
	"github.com/marcelocantos/gosh/internal/config"
	"github.com/marcelocantos/gosh/internal/history"
	"github.com/marcelocantos/gosh/internal/lineedit"
	"github.com/marcelocantos/gosh/internal/pipeline"
)

// StatusSyntaxError is the status of a line that fails to parse.
const StatusSyntaxError = 2

// Options configures a Shell.
type Options struct {
	Config    *config.Config // nil means config.DefaultConfig()
	NoHistory bool           // neither load nor record the journal

	// Dir is the starting directory; empty means the process's.
	Dir string
	// Environ seeds the session environment; nil means os.Environ().
	Environ []string

	// Standard streams; nil means the process's own.
	In  *os.File
	Out *os.File
	Err *os.File

	// Term overrides terminal detection on In.
	Term lineedit.Terminal
}

// Shell is a configured gosh instance.
type Shell struct {
	cfg     *config.Config
	sess    *builtin.Session
	reg     *builtin.Registry
	editor  *lineedit.Editor
	exec    *pipeline.Executor
	journal *history.Journal

	interactive bool
	err         *os.File
}

// New builds a shell from opts. Journal problems are reported and the
// shell continues without one.
func New(opts Options) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	in := orFile(opts.In, os.Stdin)
	out := orFile(opts.Out, os.Stdout)
	errOut := orFile(opts.Err, os.Stderr)

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		dir = wd
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	sess := builtin.NewSession(dir, environ)
	sess.Stdin, sess.Stdout, sess.Stderr = in, out, errOut
	sess.History = history.New(cfg.History.Capacity)
	cfg.ApplySession(sess)

	reg := builtin.Default()
	reg.Register(&Help{Registry: reg})

	term := opts.Term
	if term == nil {
		term = lineedit.NewTerminal(in)
	}

	sh := &Shell{
		cfg:         cfg,
		sess:        sess,
		reg:         reg,
		interactive: term.IsTerminal(),
		err:         errOut,
	}

	if cfg.History.Persist && !opts.NoHistory && cfg.History.Path != "" {
		if err := history.Restore(sess.History, cfg.History.Path); err != nil {
			fmt.Fprintf(errOut, "gosh: history: %v\n", err)
		}
		j, err := history.OpenJournal(cfg.History.Path)
		if err != nil {
			fmt.Fprintf(errOut, "gosh: history: %v\n", err)
		} else {
			sh.journal = j
		}
	}

	// The editor, heredoc capture and the completion pager share one
	// buffered reader so no typed-ahead input is lost between them.
	reader := bufio.NewReader(in)
	heredoc := &pipeline.HeredocReader{In: reader}
	if sh.interactive {
		heredoc.Prompt = out
	}

	sh.editor = &lineedit.Editor{
		In:        reader,
		Out:       out,
		Term:      term,
		History:   sess.History,
		Completer: lineedit.CompleterFunc(sh.complete),
		Lister: &complete.Pager{
			In:        reader,
			Out:       out,
			Size:      complete.TerminalSize(int(out.Fd())),
			ColumnCap: cfg.Completion.ColumnCap,
		},
		MaxLine: cfg.Editor.MaxLine,
	}
	sh.exec = &pipeline.Executor{
		Session:          sess,
		Builtins:         reg,
		Heredoc:          heredoc,
		Stdin:            in,
		Stdout:           out,
		Stderr:           errOut,
		SuggestThreshold: cfg.Suggest.Threshold,
		SuggestMaxLen:    cfg.Suggest.MaxLen,
	}
	return sh, nil
}

func orFile(f, def *os.File) *os.File {
	if f == nil {
		return def
	}
	return f
}

// Session returns the shell's session.
func (sh *Shell) Session() *builtin.Session { return sh.sess }

// complete offers candidates for word using the session's current search
// path and directory.
func (sh *Shell) complete(word string) []string {
	e := &complete.Engine{Dirs: sh.sess.SearchPath(), Base: sh.sess.Dir}
	return e.Find(word)
}

// Interactive reads and runs lines until input ends or exit is requested,
// and returns the shell's exit status.
func (sh *Shell) Interactive() int {
	stop := catchInterrupts()
	defer stop()

	for {
		prompt := ""
		if sh.interactive {
			prompt = Prompt(sh.sess, sh.cfg.Prompt)
		}
		line, err := sh.editor.Read(prompt)
		if errors.Is(err, lineedit.ErrLineTooLong) {
			fmt.Fprintf(sh.err, "gosh: %v\n", err)
			sh.sess.LastStatus = StatusSyntaxError
			continue
		}
		if err != nil {
			break
		}

		sh.RunLine(line)
		if code, ok := sh.sess.ExitRequested(); ok {
			return code
		}
	}
	return sh.sess.LastStatus
}

// RunCommand runs one line non-interactively and returns the status the
// shell should exit with.
func (sh *Shell) RunCommand(line string) int {
	status := sh.RunLine(line)
	if code, ok := sh.sess.ExitRequested(); ok {
		return code
	}
	return status
}

// RunLine parses and executes one line and returns its status. An empty
// line leaves the previous status in place.
func (sh *Shell) RunLine(line string) int {
	opts := sh.cfg.ParseOptions()
	opts.Alias = sh.sess.Alias

	p, err := pipeline.Parse(line, opts)
	if errors.Is(err, pipeline.ErrEmptyLine) {
		return sh.sess.LastStatus
	}
	if err != nil {
		fmt.Fprintf(sh.sess.Stderr, "gosh: %v\n", err)
		sh.sess.LastStatus = StatusSyntaxError
		return StatusSyntaxError
	}

	cwd := sh.sess.Dir
	start := time.Now()
	status := sh.exec.Execute(p)
	sh.sess.LastStatus = status
	sh.record(line, p.Names(), status, time.Since(start), cwd)
	return status
}

func (sh *Shell) record(line string, stages []string, status int, d time.Duration, cwd string) {
	if sh.journal == nil {
		return
	}
	// Best-effort: a journal failure never fails the command.
	_ = sh.journal.Record(line, stages, status, d, cwd)
}
