package builtin

import (
	"fmt"
	"strconv"
	"strings"
)

type Echo struct{}

var _ Builtin = (*Echo)(nil)

func (e *Echo) Name() string        { return "echo" }
func (e *Echo) Description() string { return "write arguments to standard output" }

func (e *Echo) Run(s *Session, args []string) error {
	_, err := fmt.Fprintln(s.Stdout, strings.Join(args, " "))
	return err
}

type Exit struct{}

var _ Builtin = (*Exit)(nil)

func (e *Exit) Name() string        { return "exit" }
func (e *Exit) Description() string { return "leave the shell" }

// Run requests shell exit. Without an argument the previous status is used.
func (e *Exit) Run(s *Session, args []string) error {
	code := s.LastStatus
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			s.RequestExit(2)
			return fmt.Errorf("%s: numeric argument required", args[0])
		}
		code = n & 0xff
	}
	s.RequestExit(code)
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

type History struct{}

var _ Builtin = (*History)(nil)

func (h *History) Name() string        { return "history" }
func (h *History) Description() string { return "list command history" }

func (h *History) Run(s *Session, args []string) error {
	if s.History == nil {
		return nil
	}
	for i, line := range s.History.Entries() {
		fmt.Fprintf(s.Stdout, "%5d  %s\n", i+1, line)
	}
	return nil
}
