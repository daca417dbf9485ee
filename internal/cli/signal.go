package cli

import (
	"os"
	"os/signal"
	"syscall"
)

// catchInterrupts keeps SIGINT and SIGQUIT from terminating the shell while
// a pipeline runs. Caught signals revert to their default action in
// children on exec, so the foreground pipeline still receives them.
// Returns a cleanup function to deregister the handler.
func catchInterrupts() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGQUIT)
	go func() {
		for range ch {
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
