package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/toolshim/internal/manifest"
	"github.com/danmuck/toolshim/internal/storage"
)

// workspace is the loaded state shared by the direct subcommands.
type workspace struct {
	home   *storage.Home
	finder manifest.Finder
}

func openWorkspace(ctx context.Context, cmd *cobra.Command) (*workspace, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	home, err := storage.LoadFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("load home: %w", err)
	}
	return &workspace{home: home, finder: manifest.Finder{Dir: dir}}, nil
}

func addDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("dir", "C", "", "Directory to resolve manifests from (default: working directory)")
}
