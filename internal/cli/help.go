package cli

import (
	"fmt"
	"io"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/pipeline"
)

// Help is the help builtin. It lists the builtins in Registry.
type Help struct {
	Registry *builtin.Registry
}

var _ builtin.Builtin = (*Help)(nil)

func (h *Help) Name() string        { return "help" }
func (h *Help) Description() string { return "show builtins and pipeline syntax" }

func (h *Help) Run(s *builtin.Session, args []string) error {
	if len(args) == 0 {
		PrintHelp(s.Stdout, h.Registry)
		return nil
	}
	for _, name := range args {
		b, ok := h.Registry.Lookup(name)
		if !ok {
			return fmt.Errorf("no help topics match %q", name)
		}
		fmt.Fprintf(s.Stdout, "%s: %s\n", b.Name(), b.Description())
	}
	return nil
}

// PrintHelp writes general usage followed by the builtin list.
func PrintHelp(w io.Writer, reg *builtin.Registry) {
	fmt.Fprintln(w, "gosh: an interactive shell")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  gosh                     start an interactive session")
	fmt.Fprintln(w, "  gosh -c LINE             run one command line and exit")
	fmt.Fprintln(w, "  gosh journal [-n N]      show recently executed lines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "pipeline operators:")
	fmt.Fprintf(w, "  %-3s pipe (stdout → stdin)\n", pipeline.OpPipe)
	fmt.Fprintf(w, "  %-3s redirect stdout to file\n", pipeline.OpRedirectOut)
	fmt.Fprintf(w, "  %-3s append stdout to file\n", pipeline.OpAppend)
	fmt.Fprintf(w, "  %-3s redirect stdin from file\n", pipeline.OpRedirectIn)
	fmt.Fprintf(w, "  %-3s read stdin up to a delimiter line\n", pipeline.OpHeredoc)
	if reg == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "builtins:")
	listBuiltins(w, reg)
}

func listBuiltins(w io.Writer, reg *builtin.Registry) {
	for _, b := range reg.All() {
		fmt.Fprintf(w, "  %-10s %s\n", b.Name(), b.Description())
	}
}
