// Package system runs resolved tool executables in the foreground.
//
// The child inherits stdio and this process's group. While it runs,
// terminal signals that already reach the whole group are caught and
// dropped, signals aimed at this process alone are relayed to the child,
// and the wait continues. The child decides how to react and its real
// exit status is what gets reported.
package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"slices"

	"github.com/danmuck/toolshim/internal/logging"
)

// ErrSpawn marks failures to start the child or to wait on it.
var ErrSpawn = errors.New("system: failed to run tool")

// Executor runs tools with the process's own stdio.
type Executor struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// RunInterruptible runs path with args and returns its exit code.
func (e Executor) RunInterruptible(ctx context.Context, path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = orStd(e.Stdin, os.Stdin)
	cmd.Stdout = orStd(e.Stdout, os.Stdout)
	cmd.Stderr = orStd(e.Stderr, os.Stderr)
	return wait(ctx, cmd)
}

// RunInterruptible runs path with the process's stdio.
func RunInterruptible(ctx context.Context, path string, args []string) (int, error) {
	return Executor{}.RunInterruptible(ctx, path, args)
}

func wait(ctx context.Context, cmd *exec.Cmd) (int, error) {
	logger := logging.Logger("system")

	// Subscribe before starting so nothing arriving during spawn is lost.
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, slices.Concat(groupSignals, relaySignals)...)
	defer signal.Stop(sigCh)

	if err := cmd.Start(); err != nil {
		return spawnExitCode(err), fmt.Errorf("%w %s: %w", ErrSpawn, cmd.Path, err)
	}
	logger.Debug().Str("path", cmd.Path).Int("pid", cmd.Process.Pid).Strs("args", cmd.Args[1:]).Msg("started")

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	ctxDone := ctx.Done()
	for {
		select {
		case err := <-done:
			return exitCode(cmd, err)
		case sig := <-sigCh:
			if !slices.Contains(relaySignals, sig) {
				// The child got its own copy from the terminal.
				logger.Debug().Str("signal", sig.String()).Msg("group signal, not relaying")
				continue
			}
			logger.Debug().Str("signal", sig.String()).Int("pid", cmd.Process.Pid).Msg("relaying signal")
			if err := forward(cmd.Process, sig); err != nil {
				logger.Warn().Err(err).Str("signal", sig.String()).Msg("relay failed")
			}
		case <-ctxDone:
			// Cancellation is delivered like an operator interrupt; the
			// child still decides when to exit.
			ctxDone = nil
			logger.Debug().Int("pid", cmd.Process.Pid).Msg("context cancelled, interrupting child")
			if err := interrupt(cmd.Process); err != nil {
				logger.Warn().Err(err).Msg("interrupt failed")
			}
		}
	}
}

func exitCode(cmd *exec.Cmd, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := signalExitCode(exitErr.ProcessState); ok {
			return code, nil
		}
		return exitErr.ExitCode(), nil
	}
	return 1, fmt.Errorf("%w %s: wait: %w", ErrSpawn, cmd.Path, err)
}

// spawnExitCode follows the shell convention: 127 for a missing
// executable, 126 for one that exists but cannot be run.
func spawnExitCode(err error) int {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
		return 127
	}
	if errors.Is(err, os.ErrPermission) {
		return 126
	}
	return 1
}

func orStd(f, fallback *os.File) *os.File {
	if f != nil {
		return f
	}
	return fallback
}
