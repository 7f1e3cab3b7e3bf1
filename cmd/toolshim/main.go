// toolshim runs project-pinned tools through alias links.
//
// Invoked under its own name it is a small CLI (list, which, link).
// Invoked under any other name, typically a link in ~/.toolshim/bin, it
// resolves that name to the nearest manifest entry and runs the installed
// tool in its place.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/toolshim/internal/identity"
	"github.com/danmuck/toolshim/internal/logging"
	"github.com/danmuck/toolshim/internal/manifest"
	"github.com/danmuck/toolshim/internal/runner"
	"github.com/danmuck/toolshim/internal/storage"
	"github.com/danmuck/toolshim/internal/system"
	"github.com/danmuck/toolshim/internal/tool"
)

func main() {
	envErr := storage.PreloadEnv()
	logging.ConfigureRuntime()
	if envErr != nil {
		log.Warn().Err(envErr).Msg("ignoring home env file")
	}

	name, err := identity.FromArgs(os.Args)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot determine invocation name")
	}

	r := runner.New(name, runner.Config{
		Args:       os.Args,
		Homes:      runner.HomeLoaderFunc(loadHome),
		Discoverer: runner.DiscoverFunc(discover),
		Executor:   system.Executor{},
	})
	if r.ShouldRun() {
		if err := r.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(runner.ExitCode(err))
		}
		return
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "toolshim: %v\n", err)
		os.Exit(1)
	}
}

func loadHome(ctx context.Context) (runner.Home, error) {
	home, err := storage.LoadFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return home, nil
}

func discover(ctx context.Context, home runner.Home, alias tool.Alias) (tool.Spec, error) {
	return manifest.Finder{}.Discover(ctx, home, alias)
}
