// Package builtin implements the commands that run inside the shell process
// and the session state they operate on.
package builtin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Builtin is a command executed in the shell's own process.
type Builtin interface {
	// Name returns the command name.
	Name() string

	// Description returns a one-line summary for help output.
	Description() string

	// Run executes the builtin with args (the command name excluded),
	// reading and writing through the session's streams.
	Run(s *Session, args []string) error
}

// ExitError carries a non-zero status that needs no further message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Registry maps builtin names to implementations.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]Builtin)}
}

// Register adds a builtin to the registry.
func (r *Registry) Register(b Builtin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[b.Name()] = b
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builtins[name]
	return b, ok
}

// IsBuiltin reports whether name is a registered builtin.
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// All returns all registered builtins sorted by name.
func (r *Registry) All() []Builtin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Builtin, 0, len(r.builtins))
	for _, b := range r.builtins {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

// Execute runs argv[0] with the remaining arguments and returns its exit
// status. Errors other than *ExitError are reported on the session's stderr
// and yield status 1.
func (r *Registry) Execute(s *Session, argv []string) int {
	if len(argv) == 0 {
		return 0
	}
	b, ok := r.Lookup(argv[0])
	if !ok {
		fmt.Fprintf(s.Stderr, "gosh: %s: not a builtin\n", argv[0])
		return 1
	}
	return statusOf(argv[0], b.Run(s, argv[1:]), s)
}

func statusOf(name string, err error, s *Session) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(s.Stderr, "gosh: %s: %v\n", name, err)
	return 1
}
