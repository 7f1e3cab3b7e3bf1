package runner

import (
	"errors"
	"fmt"
)

// Stage is a step of the dispatch pipeline, in execution order.
type Stage int

const (
	StageNotStarted Stage = iota
	StageIdentityResolved
	StageAliasParsed
	StageHomeLoaded
	StageSpecResolved
	StagePathResolved
	StageChildRunning
	StageTerminated
)

var stageNames = map[Stage]string{
	StageNotStarted:       "not_started",
	StageIdentityResolved: "identity_resolved",
	StageAliasParsed:      "alias_parsed",
	StageHomeLoaded:       "home_loaded",
	StageSpecResolved:     "spec_resolved",
	StagePathResolved:     "path_resolved",
	StageChildRunning:     "child_running",
	StageTerminated:       "terminated",
}

var stageActions = map[Stage]string{
	StageAliasParsed:  "parse alias",
	StageHomeLoaded:   "load home",
	StageSpecResolved: "resolve spec",
	StagePathResolved: "resolve path",
	StageTerminated:   "run tool",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError is a dispatch failure. Stage is the transition that failed.
type StageError struct {
	Stage Stage
	Alias string
	Err   error
	// Code is the process status to exit with; zero means 1.
	Code int
}

func (e *StageError) Error() string {
	action, ok := stageActions[e.Stage]
	if !ok {
		action = e.Stage.String()
	}
	return fmt.Sprintf("%s (alias %q): %v", action, e.Alias, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func (e *StageError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// ExitCode picks the process status for an error returned by Run.
func ExitCode(err error) int {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.ExitCode()
	}
	return 1
}
