package pandad

import (
	"context"
	"os"
	"os/exec"
)

// ProcessLauncher returns a Launcher that spawns the daemon executable
// from the given working directory, passing the ordered serials as its
// positional arguments. The child inherits stdout and stderr, and its
// exit (clean or not) unblocks the supervision loop.
func ProcessLauncher(executable, dir string) Launcher {
	return func(ctx context.Context, serials []string) error {
		cmd := exec.CommandContext(ctx, executable, serials...)
		cmd.Dir = dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
}
