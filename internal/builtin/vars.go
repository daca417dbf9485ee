package builtin

import (
	"errors"
	"fmt"
	"strings"
)

type Export struct{}

var _ Builtin = (*Export)(nil)

func (e *Export) Name() string        { return "export" }
func (e *Export) Description() string { return "export variables to the environment of commands" }

func (e *Export) Run(s *Session, args []string) error {
	if len(args) == 0 {
		for _, kv := range sortedPairs(s.env) {
			fmt.Fprintf(s.Stdout, "export %s=%s\n", kv[0], kv[1])
		}
		return nil
	}
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if name == "" {
			return fmt.Errorf("%q: not a valid identifier", arg)
		}
		if !hasValue {
			value, _ = s.Var(name)
		}
		s.SetVar(name, value)
		s.Setenv(name, value)
	}
	return nil
}

type Set struct{}

var _ Builtin = (*Set)(nil)

func (c *Set) Name() string        { return "set" }
func (c *Set) Description() string { return "set or list shell variables" }

func (c *Set) Run(s *Session, args []string) error {
	if len(args) == 0 {
		for _, kv := range sortedPairs(s.vars) {
			fmt.Fprintf(s.Stdout, "%s=%s\n", kv[0], kv[1])
		}
		return nil
	}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			continue
		}
		s.SetVar(name, value)
	}
	return nil
}

type Unset struct{}

var _ Builtin = (*Unset)(nil)

func (u *Unset) Name() string        { return "unset" }
func (u *Unset) Description() string { return "remove shell and environment variables" }

func (u *Unset) Run(s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: unset name")
	}
	missing := false
	for _, name := range args {
		if !s.Unset(name) {
			missing = true
		}
	}
	if missing {
		return &ExitError{Code: 1}
	}
	return nil
}
