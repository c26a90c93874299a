package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scribe/internal/agents"
)

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the available pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, v := range agents.DefaultVariants().All() {
				pref := v.PreferenceLabel
				if pref == "" {
					pref = "-"
				}
				rows = append(rows, []string{v.Name, v.Source, v.SubjectLabel, pref, v.Tool})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Source", "Subject", "Preference", "MCP tool"}, rows))
			return nil
		},
	}
}
