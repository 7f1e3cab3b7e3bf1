// Package runner dispatches an aliased invocation to the tool it names.
//
// A run walks a fixed pipeline: parse the alias, load the home, discover
// the nearest spec, resolve its executable path, run it, and exit with its
// code. Any failing step ends the run with a *StageError; later steps are
// never attempted.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/toolshim/internal/buildinfo"
	"github.com/danmuck/toolshim/internal/logging"
	"github.com/danmuck/toolshim/internal/tool"
)

// Home is the loaded tool registry.
type Home interface {
	// ToolPath computes where spec's executable lives. It does not touch
	// the disk.
	ToolPath(spec tool.Spec) string
	ManifestPath() string
}

type HomeLoader interface {
	Load(ctx context.Context) (Home, error)
}

type Discoverer interface {
	Discover(ctx context.Context, home Home, alias tool.Alias) (tool.Spec, error)
}

type Executor interface {
	RunInterruptible(ctx context.Context, path string, args []string) (int, error)
}

type HomeLoaderFunc func(ctx context.Context) (Home, error)

func (f HomeLoaderFunc) Load(ctx context.Context) (Home, error) { return f(ctx) }

type DiscoverFunc func(ctx context.Context, home Home, alias tool.Alias) (tool.Spec, error)

func (f DiscoverFunc) Discover(ctx context.Context, home Home, alias tool.Alias) (tool.Spec, error) {
	return f(ctx, home, alias)
}

type ExecutorFunc func(ctx context.Context, path string, args []string) (int, error)

func (f ExecutorFunc) RunInterruptible(ctx context.Context, path string, args []string) (int, error) {
	return f(ctx, path, args)
}

// Config wires a Runner to its collaborators.
type Config struct {
	// Args is the full process argument list, argv[0] included.
	Args       []string
	Homes      HomeLoader
	Discoverer Discoverer
	Executor   Executor
	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)
}

// Runner dispatches one invocation.
type Runner struct {
	name       string
	args       []string
	homes      HomeLoader
	discoverer Discoverer
	executor   Executor
	exit       func(int)
	stage      Stage
}

// New builds a runner for the already-resolved invocation name.
func New(name string, cfg Config) *Runner {
	exit := cfg.Exit
	if exit == nil {
		exit = os.Exit
	}
	return &Runner{
		name:       name,
		args:       cfg.Args,
		homes:      cfg.Homes,
		discoverer: cfg.Discoverer,
		executor:   cfg.Executor,
		exit:       exit,
		stage:      StageIdentityResolved,
	}
}

func (r *Runner) Name() string { return r.name }

// Stage reports how far the last run got.
func (r *Runner) Stage() Stage { return r.stage }

// ShouldRun reports whether the binary was invoked under an alias rather
// than its own package name. Case is ignored: aliases are case-insensitive,
// and Windows shells may report TOOLSHIM.EXE for a direct call.
func (r *Runner) ShouldRun() bool {
	return !strings.EqualFold(r.name, buildinfo.PackageName)
}

// ForwardedArgs is every process argument after argv[0], in order.
func (r *Runner) ForwardedArgs() []string {
	if len(r.args) <= 1 {
		return []string{}
	}
	out := make([]string, len(r.args)-1)
	copy(out, r.args[1:])
	return out
}

// Run dispatches to the aliased tool. On success it does not return: the
// process exits with the child's code, since a forwarding shim has
// nothing left to clean up once the child is gone. It returns an error
// only when dispatch fails before that point.
func (r *Runner) Run(ctx context.Context) error {
	logger := logging.Logger("runner").With().Str("invoked_as", r.name).Logger()

	alias, err := tool.ParseAlias(r.name)
	if err != nil {
		return r.fail(StageAliasParsed, r.name, err)
	}
	r.stage = StageAliasParsed

	home, err := r.homes.Load(ctx)
	if err != nil {
		return r.fail(StageHomeLoaded, alias.Name(), err)
	}
	r.stage = StageHomeLoaded

	spec, err := r.discoverer.Discover(ctx, home, alias)
	if err != nil {
		return r.fail(StageSpecResolved, alias.Name(), fmt.Errorf("failed to find tool '%s': %w", alias, err))
	}
	r.stage = StageSpecResolved

	path := home.ToolPath(spec)
	r.stage = StagePathResolved
	args := r.ForwardedArgs()
	logger.Debug().Str("spec", spec.String()).Str("path", path).Strs("args", args).Msg("dispatching")

	r.stage = StageChildRunning
	code, err := r.executor.RunInterruptible(ctx, path, args)
	if err != nil {
		failure := r.fail(StageTerminated, alias.Name(), err)
		if code > 0 {
			failure.Code = code
		}
		return failure
	}
	r.stage = StageTerminated
	logger.Debug().Int("code", code).Msg("child exited")

	r.exit(code)
	return nil
}

func (r *Runner) fail(stage Stage, alias string, err error) *StageError {
	return &StageError{Stage: stage, Alias: alias, Err: err}
}
