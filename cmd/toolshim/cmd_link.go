package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/toolshim/internal/tool"
)

func newLinkCmd() *cobra.Command {
	var self string
	cmd := &cobra.Command{
		Use:   "link [alias...]",
		Short: "Create alias links to toolshim in the home bin directory",
		Long: "Link every alias in effect (or only the named ones) so that running\n" +
			"the alias from ~/.toolshim/bin dispatches through toolshim.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if self == "" {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate toolshim executable: %w", err)
				}
				self = exe
			}

			var aliases []tool.Alias
			if len(args) > 0 {
				for _, raw := range args {
					alias, err := tool.ParseAlias(raw)
					if err != nil {
						return err
					}
					aliases = append(aliases, alias)
				}
			} else {
				entries, err := ws.finder.DiscoverAll(cmd.Context(), ws.home)
				if err != nil {
					return err
				}
				for _, entry := range entries {
					aliases = append(aliases, tool.MustParseAlias(entry.Alias))
				}
			}

			for _, alias := range aliases {
				link, err := ws.home.LinkAlias(alias, self)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "linked %s -> %s\n", alias, link)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&self, "target", "", "Executable the links point at (default: this binary)")
	_ = cmd.Flags().MarkHidden("target")
	addDirFlag(cmd)
	return cmd
}
