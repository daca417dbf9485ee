package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/resolve"
)

// Executor runs parsed pipelines.
type Executor struct {
	Session  *builtin.Session
	Builtins *builtin.Registry
	Heredoc  *HeredocReader
	Spawner  Spawner // nil means ExecSpawner

	// Streams handed to external stages; nil means the process's own.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	SuggestThreshold int
	SuggestMaxLen    int
}

func (e *Executor) spawner() Spawner {
	if e.Spawner == nil {
		return ExecSpawner{}
	}
	return e.Spawner
}

func (e *Executor) stdin() *os.File  { return orFile(e.Stdin, os.Stdin) }
func (e *Executor) stdout() *os.File { return orFile(e.Stdout, os.Stdout) }
func (e *Executor) stderr() *os.File { return orFile(e.Stderr, os.Stderr) }

func orFile(f, def *os.File) *os.File {
	if f == nil {
		return def
	}
	return f
}

// diag is where the executor's own messages go.
func (e *Executor) diag() io.Writer {
	if e.Session != nil && e.Session.Stderr != nil {
		return e.Session.Stderr
	}
	return e.stderr()
}

func (e *Executor) isBuiltin(name string) bool {
	return e.Builtins != nil && e.Builtins.IsBuiltin(name)
}

// Execute runs p to completion and returns the status of its last stage.
// Every stage is resolved before anything starts; a stage that cannot be
// resolved aborts the pipeline with status 127 and nothing is spawned.
func (e *Executor) Execute(p *Pipeline) int {
	if p == nil || len(p.Commands) == 0 {
		return 0
	}
	paths, ok := e.validate(p)
	if !ok {
		return StatusNotFound
	}
	if len(p.Commands) == 1 && paths[0] == "" {
		return e.runBuiltin(&p.Commands[0])
	}
	return e.runStages(p, paths)
}

// validate resolves every stage. Builtins get an empty path.
func (e *Executor) validate(p *Pipeline) ([]string, bool) {
	r := e.Session.Resolver()
	r.Threshold = e.SuggestThreshold
	r.MaxLen = e.SuggestMaxLen

	paths := make([]string, len(p.Commands))
	for i := range p.Commands {
		name := p.Commands[i].Name
		if e.isBuiltin(name) {
			continue
		}
		path, found := r.Resolve(name)
		if !found {
			e.reportNotFound(r, name)
			return nil, false
		}
		paths[i] = path
	}
	return paths, true
}

func (e *Executor) reportNotFound(r *resolve.Resolver, name string) {
	w := e.diag()
	fmt.Fprintf(w, "gosh: %s: command not found\n", name)
	if s, ok := r.Suggest(name); ok {
		fmt.Fprintf(w, "gosh: did you mean %q?\n", s)
	}
}

// runBuiltin runs a lone builtin against the live session, swapping its
// streams for any redirection and restoring them afterwards.
func (e *Executor) runBuiltin(c *Command) int {
	s := e.Session
	savedIn, savedOut := s.Stdin, s.Stdout
	defer func() { s.Stdin, s.Stdout = savedIn, savedOut }()

	in, err := e.openInput(c)
	if err != nil {
		fmt.Fprintf(e.diag(), "gosh: %v\n", err)
		return StatusOpenFailed
	}
	if in != nil {
		defer in.Close()
		s.Stdin = in
	}

	if c.Output.IsRedirect() {
		out, err := e.openOutput(c)
		if err != nil {
			fmt.Fprintf(e.diag(), "gosh: %v\n", err)
			return StatusOpenFailed
		}
		defer out.Close()
		s.Stdout = out
	}

	return e.Builtins.Execute(s, c.Args)
}

// openInput returns the stdin override for a single stage, or nil.
func (e *Executor) openInput(c *Command) (*os.File, error) {
	if c.HeredocDelim != "" {
		return e.Heredoc.Capture(c.HeredocDelim)
	}
	if c.InputPath != "" {
		f, err := os.Open(e.Session.Abs(c.InputPath))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.InputPath, unwrapPath(err))
		}
		return f, nil
	}
	return nil, nil
}

func (e *Executor) openOutput(c *Command) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if c.Output == OutputRedirectAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(e.Session.Abs(c.RedirectPath), flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.RedirectPath, unwrapPath(err))
	}
	return f, nil
}

func unwrapPath(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

// runStages wires and starts every stage, then waits for them in order.
func (e *Executor) runStages(p *Pipeline, paths []string) int {
	n := len(p.Commands)
	status := make([]int, n)
	procs := make([]Process, n)
	failed := make([]bool, n)

	// Heredoc bodies are read before any descriptor exists, in stage order.
	heredocs := make([]*os.File, n)
	defer func() {
		for _, f := range heredocs {
			if f != nil {
				f.Close()
			}
		}
	}()
	for i := range p.Commands {
		c := &p.Commands[i]
		if c.HeredocDelim == "" {
			continue
		}
		f, err := e.Heredoc.Capture(c.HeredocDelim)
		if err != nil {
			fmt.Fprintf(e.diag(), "gosh: %v\n", err)
			status[i], failed[i] = StatusOpenFailed, true
			continue
		}
		heredocs[i] = f
	}

	pipes := make([][2]*os.File, 0, n-1)
	closePipes := func() {
		for _, pp := range pipes {
			pp[0].Close()
			pp[1].Close()
		}
		pipes = nil
	}
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes()
			fmt.Fprintf(e.diag(), "gosh: pipe: %v\n", err)
			return StatusNotFound
		}
		pipes = append(pipes, [2]*os.File{r, w})
	}

	spawnFailed := false
	for i := range p.Commands {
		if failed[i] {
			continue
		}
		c := &p.Commands[i]
		last := i == n-1
		if !last && c.Output.IsRedirect() {
			fmt.Fprintln(e.diag(), "gosh: ignoring output redirection on non-final pipeline stage")
		}

		var opened []*os.File
		stdin, stdout := e.stdin(), e.stdout()
		var err error
		switch {
		case heredocs[i] != nil:
			stdin = heredocs[i]
		case c.InputPath != "":
			stdin, err = e.openInput(c)
			if err == nil {
				opened = append(opened, stdin)
			}
		case i > 0:
			stdin = pipes[i-1][0]
		}
		if err == nil {
			switch {
			case !last:
				stdout = pipes[i][1]
			case c.Output.IsRedirect():
				stdout, err = e.openOutput(c)
				if err == nil {
					opened = append(opened, stdout)
				}
			}
		}
		if err != nil {
			closeFiles(opened)
			fmt.Fprintf(e.diag(), "gosh: %v\n", err)
			status[i] = StatusOpenFailed
			continue
		}

		var proc Process
		if paths[i] == "" {
			proc, err = e.startBuiltin(c, stdin, stdout)
		} else {
			proc, err = e.spawner().Spawn(SpawnRequest{
				Path:   paths[i],
				Args:   c.Args,
				Stdin:  stdin,
				Stdout: stdout,
				Stderr: e.stderr(),
				Dir:    e.Session.Dir,
				Env:    e.Session.Environ(),
			})
		}
		closeFiles(opened)

		if err != nil {
			if paths[i] != "" && isExecFailure(err) {
				fmt.Fprintf(e.diag(), "gosh: %s: %v\n", c.Name, unwrapPath(err))
				status[i] = StatusCannotExec
				continue
			}
			fmt.Fprintf(e.diag(), "gosh: spawn: %v\n", err)
			spawnFailed = true
			break
		}
		procs[i] = proc
	}

	closePipes()
	for i, proc := range procs {
		if proc != nil {
			status[i] = proc.Wait()
		}
	}
	if spawnFailed {
		return StatusNotFound
	}
	return status[n-1]
}

// startBuiltin runs a builtin stage on a clone of the session, so changes
// it makes stay out of the shell. Pipe ends and opened files are duplicated
// for the stage, which closes its copies when it returns.
func (e *Executor) startBuiltin(c *Command, stdin, stdout *os.File) (Process, error) {
	var owned []*os.File
	in, out := stdin, stdout
	if stdin != e.stdin() {
		d, err := dupFile(stdin)
		if err != nil {
			return nil, err
		}
		in = d
		owned = append(owned, d)
	}
	if stdout != e.stdout() {
		d, err := dupFile(stdout)
		if err != nil {
			closeFiles(owned)
			return nil, err
		}
		out = d
		owned = append(owned, d)
	}

	clone := e.Session.Clone()
	clone.Stdin = in
	clone.Stdout = out
	clone.Stderr = e.stderr()

	p := &builtinProcess{done: make(chan int, 1)}
	go func() {
		code := e.Builtins.Execute(clone, c.Args)
		closeFiles(owned)
		p.done <- code
	}()
	return p, nil
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}
