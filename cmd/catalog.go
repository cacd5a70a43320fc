package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ghforecast/internal/domain"
)

// catalogCmd lists the selectable entries.
var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "List the repositories and aggregates that can be fetched",
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := newCatalog()
		if err != nil {
			return err
		}

		def := cat.DefaultSelection()
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"Label", "Key", "Mode", "Default"})

		var rows [][]string
		for _, e := range cat.Entries() {
			key := e.Key
			if e.IsAggregate() {
				key = "(all repositories)"
			}
			marker := ""
			if e.Key == def.Key && e.Mode == domain.ModeDefault {
				marker = "*"
			}
			rows = append(rows, []string{e.Label, key, e.Mode.String(), marker})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	},
}
