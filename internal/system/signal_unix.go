//go:build unix

package system

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// groupSignals come from the terminal and reach the whole foreground
// process group, the child included. They are caught only so this process
// outlives them.
var groupSignals = []os.Signal{unix.SIGINT, unix.SIGQUIT}

// relaySignals are usually sent to this pid alone and are passed on.
var relaySignals = []os.Signal{unix.SIGTERM, unix.SIGHUP}

func forward(proc *os.Process, sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return proc.Signal(sig)
	}
	return unix.Kill(proc.Pid, s)
}

func interrupt(proc *os.Process) error {
	return unix.Kill(proc.Pid, unix.SIGINT)
}

// signalExitCode maps death by signal N to 128+N, as shells report it.
func signalExitCode(state *os.ProcessState) (int, bool) {
	if state == nil {
		return 0, false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return 128 + int(ws.Signal()), true
}
