package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listedTool struct {
	Alias     string `yaml:"alias"`
	Spec      string `yaml:"spec"`
	Installed bool   `yaml:"installed"`
	Source    string `yaml:"source"`
}

func newListCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools in effect for a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			entries, err := ws.finder.DiscoverAll(cmd.Context(), ws.home)
			if err != nil {
				return err
			}

			tools := make([]listedTool, 0, len(entries))
			for _, entry := range entries {
				tools = append(tools, listedTool{
					Alias:     entry.Alias,
					Spec:      entry.Spec.String(),
					Installed: ws.home.IsInstalled(entry.Spec),
					Source:    entry.Source,
				})
			}

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(tools); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			}
			if len(tools) == 0 {
				fmt.Fprintln(out, "No tools found.")
				return nil
			}
			for _, t := range tools {
				mark := " "
				if !t.Installed {
					mark = "!"
				}
				fmt.Fprintf(out, "%s %-16s %s\n", mark, t.Alias, t.Spec)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the list as YAML")
	addDirFlag(cmd)
	return cmd
}
