package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Exit statuses produced by the executor itself.
const (
	StatusNotFound   = 127 // resolution or spawn failure
	StatusCannotExec = 126 // the kernel rejected a resolved program
	StatusOpenFailed = 1   // an input or redirect file could not be opened
	statusSignalBase = 128
)

// SpawnRequest describes one child process. Only the three standard
// streams are passed on; every other descriptor is close-on-exec.
type SpawnRequest struct {
	Path   string
	Args   []string
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	Dir    string
	Env    []string
}

// Process is a started pipeline stage.
type Process interface {
	// Wait blocks until the stage ends and returns its exit status:
	// 0-255 for a normal exit, 128+N for death by signal N.
	Wait() int
}

// Spawner starts child processes.
type Spawner interface {
	Spawn(req SpawnRequest) (Process, error)
}

// ExecSpawner starts real processes with os/exec.
type ExecSpawner struct{}

var _ Spawner = ExecSpawner{}

func (ExecSpawner) Spawn(req SpawnRequest) (Process, error) {
	cmd := &exec.Cmd{
		Path:   req.Path,
		Args:   req.Args,
		Dir:    req.Dir,
		Env:    req.Env,
		Stdin:  req.Stdin,
		Stdout: req.Stdout,
		Stderr: req.Stderr,
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() int {
	// A non-zero exit is reported through ProcessState; only a failed
	// wait leaves it nil.
	_ = p.cmd.Wait()
	if p.cmd.ProcessState == nil {
		return StatusNotFound
	}
	return waitStatus(p.cmd.ProcessState)
}

func waitStatus(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return statusSignalBase + int(ws.Signal())
	}
	return ps.ExitCode() & 0xff
}

// isExecFailure reports whether a start error means the kernel refused
// this particular program, as opposed to the shell being unable to create
// processes at all.
func isExecFailure(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, unix.ENOEXEC) ||
		errors.Is(err, unix.ENOTDIR) ||
		errors.Is(err, unix.ETXTBSY)
}

// builtinProcess runs a builtin stage on its own goroutine.
type builtinProcess struct {
	done chan int
}

func (p *builtinProcess) Wait() int { return <-p.done }

// dupFile duplicates f as a new close-on-exec descriptor so that a builtin
// stage can own and close its streams independently of the parent.
func dupFile(f *os.File) (*os.File, error) {
	fd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}
