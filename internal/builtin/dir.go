package builtin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Cd struct{}

var _ Builtin = (*Cd)(nil)

func (c *Cd) Name() string        { return "cd" }
func (c *Cd) Description() string { return "change the working directory" }

func (c *Cd) Run(s *Session, args []string) error {
	var target string
	if len(args) == 0 {
		home, ok := s.Getenv("HOME")
		if !ok || home == "" {
			return errors.New("home directory not set")
		}
		target = home
	} else {
		target = args[0]
	}

	if target == "~" || strings.HasPrefix(target, "~/") {
		home, ok := s.Getenv("HOME")
		if !ok || home == "" {
			return errors.New("HOME not set")
		}
		target = filepath.Join(home, target[1:])
	}

	dir := filepath.Clean(s.Abs(target))
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%s: No such file or directory", target)
	case os.IsPermission(err):
		return fmt.Errorf("%s: Permission denied", target)
	case err != nil:
		return fmt.Errorf("%s: %w", target, err)
	case !info.IsDir():
		return fmt.Errorf("%s: Not a directory", target)
	}

	s.Setenv("OLDPWD", s.Dir)
	s.Dir = dir
	s.Setenv("PWD", dir)
	return nil
}

type Pwd struct{}

var _ Builtin = (*Pwd)(nil)

func (p *Pwd) Name() string        { return "pwd" }
func (p *Pwd) Description() string { return "print the working directory" }

func (p *Pwd) Run(s *Session, args []string) error {
	_, err := fmt.Fprintln(s.Stdout, s.Dir)
	return err
}
