//go:build !unix

package system

import "os"

// Console interrupts reach every process attached to the console, the
// child included, so there is nothing to relay; the wait just continues.
var groupSignals = []os.Signal{os.Interrupt}

var relaySignals []os.Signal

func forward(*os.Process, os.Signal) error {
	return nil
}

func interrupt(proc *os.Process) error {
	return proc.Kill()
}

func signalExitCode(*os.ProcessState) (int, bool) {
	return 0, false
}
