package main

import (
	"github.com/spf13/cobra"

	"github.com/danmuck/toolshim/internal/buildinfo"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   buildinfo.PackageName,
		Short: "Run project-pinned tools through alias links",
		Long: "toolshim resolves tool aliases against the nearest toolshim.toml\n" +
			"(or aftman.toml) and runs the pinned, installed version of the tool.\n" +
			"Link an alias with 'toolshim link' and put ~/.toolshim/bin on PATH.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: buildinfo.Version,
	}
	root.AddCommand(newListCmd())
	root.AddCommand(newWhichCmd())
	root.AddCommand(newLinkCmd())
	return root
}
