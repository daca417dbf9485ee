package builtin

import (
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/marcelocantos/gosh/internal/history"
	"github.com/marcelocantos/gosh/internal/resolve"
)

// Session is the mutable state a shell carries between command lines:
// working directory, environment, shell variables and aliases. Builtins
// receive it explicitly; nothing is kept in process-wide globals, and the
// process working directory is never changed.
type Session struct {
	Dir     string
	History *history.History

	// Standard streams for builtins. The executor swaps these for the
	// duration of a redirected builtin and restores them afterwards.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// LastStatus is the exit status of the previous command line.
	LastStatus int

	env     map[string]string
	vars    map[string]string
	aliases map[string]string

	exitRequested bool
	exitCode      int
}

// NewSession creates a session rooted at dir with the given environment in
// KEY=VALUE form.
func NewSession(dir string, environ []string) *Session {
	s := &Session{
		Dir:     dir,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		env:     make(map[string]string),
		vars:    make(map[string]string),
		aliases: make(map[string]string),
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		s.env[k] = v
	}
	return s
}

// Clone returns an independent copy. Changes made through the copy are not
// visible in s; pipeline stages that run builtins get a clone.
func (s *Session) Clone() *Session {
	c := *s
	c.env = maps.Clone(s.env)
	c.vars = maps.Clone(s.vars)
	c.aliases = maps.Clone(s.aliases)
	c.exitRequested = false
	c.exitCode = 0
	return &c
}

// Getenv returns an exported variable.
func (s *Session) Getenv(key string) (string, bool) {
	v, ok := s.env[key]
	return v, ok
}

// Setenv exports key=value.
func (s *Session) Setenv(key, value string) {
	s.env[key] = value
}

// Environ returns the exported environment as sorted KEY=VALUE pairs.
func (s *Session) Environ() []string {
	out := make([]string, 0, len(s.env))
	for _, k := range slices.Sorted(maps.Keys(s.env)) {
		out = append(out, k+"="+s.env[k])
	}
	return out
}

// Var returns a shell variable, falling back to the environment.
func (s *Session) Var(name string) (string, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	return s.Getenv(name)
}

// SetVar sets a shell variable without exporting it.
func (s *Session) SetVar(name, value string) {
	s.vars[name] = value
}

// Unset removes name from both the shell variables and the environment. It
// reports whether anything was removed.
func (s *Session) Unset(name string) bool {
	_, inVars := s.vars[name]
	_, inEnv := s.env[name]
	delete(s.vars, name)
	delete(s.env, name)
	return inVars || inEnv
}

// Alias returns the expansion for name.
func (s *Session) Alias(name string) (string, bool) {
	v, ok := s.aliases[name]
	return v, ok
}

// SetAlias defines or replaces an alias.
func (s *Session) SetAlias(name, value string) {
	s.aliases[name] = value
}

// Unalias removes an alias and reports whether it existed.
func (s *Session) Unalias(name string) bool {
	_, ok := s.aliases[name]
	delete(s.aliases, name)
	return ok
}

// Abs interprets p relative to the session directory.
func (s *Session) Abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

// SearchPath returns the entries of the session's PATH.
func (s *Session) SearchPath() []string {
	path, _ := s.Getenv("PATH")
	return resolve.SplitPath(path)
}

// Resolver returns a resolver over the session's current PATH and directory.
func (s *Session) Resolver() *resolve.Resolver {
	return &resolve.Resolver{Dirs: s.SearchPath(), Base: s.Dir}
}

// RequestExit records that the shell should stop after the current line.
func (s *Session) RequestExit(code int) {
	s.exitRequested = true
	s.exitCode = code
}

// ExitRequested reports whether exit was requested, and with which status.
func (s *Session) ExitRequested() (int, bool) {
	return s.exitCode, s.exitRequested
}

func sortedPairs(m map[string]string) [][2]string {
	out := make([][2]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, [2]string{k, m[k]})
	}
	return out
}
