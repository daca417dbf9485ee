package builtin

import (
	"errors"
	"fmt"
	"strings"
)

type Alias struct{}

var _ Builtin = (*Alias)(nil)

func (a *Alias) Name() string        { return "alias" }
func (a *Alias) Description() string { return "define or list aliases" }

func (a *Alias) Run(s *Session, args []string) error {
	if len(args) == 0 {
		for _, kv := range sortedPairs(s.aliases) {
			fmt.Fprintf(s.Stdout, "alias %s='%s'\n", kv[0], kv[1])
		}
		return nil
	}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			v, found := s.Alias(name)
			if !found {
				return fmt.Errorf("%s: not found", name)
			}
			fmt.Fprintf(s.Stdout, "alias %s='%s'\n", name, v)
			continue
		}
		if name == "" {
			return fmt.Errorf("%q: invalid alias name", arg)
		}
		s.SetAlias(name, value)
	}
	return nil
}

type Unalias struct{}

var _ Builtin = (*Unalias)(nil)

func (u *Unalias) Name() string        { return "unalias" }
func (u *Unalias) Description() string { return "remove aliases" }

func (u *Unalias) Run(s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: unalias name")
	}
	for _, name := range args {
		if !s.Unalias(name) {
			return fmt.Errorf("%s: not found", name)
		}
	}
	return nil
}
