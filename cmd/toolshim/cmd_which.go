package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/toolshim/internal/tool"
)

func newWhichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which <alias>",
		Short: "Print the executable an alias resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias, err := tool.ParseAlias(args[0])
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			spec, err := ws.finder.Discover(cmd.Context(), ws.home, alias)
			if err != nil {
				return fmt.Errorf("failed to find tool '%s': %w", alias, err)
			}
			if !ws.home.IsInstalled(spec) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not installed\n", spec)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ws.home.ToolPath(spec))
			return nil
		},
	}
	addDirFlag(cmd)
	return cmd
}
