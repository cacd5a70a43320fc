package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ghforecast/internal/history"
)

// historyCmd prints recently recorded fetch cycles.
var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recent fetch cycles",
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistory(true)
		if err != nil {
			return err
		}
		defer store.Close()

		if !store.Enabled() {
			return fmt.Errorf("fetch history: %w", history.ErrDisabled)
		}

		entries, err := store.Recent(rootCtx, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No fetches recorded yet.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"Started", "Label", "Mode", "Seq", "Outcome", "Duration", "Error"})

		var rows [][]string
		for _, e := range entries {
			rows = append(rows, []string{
				e.StartedAt.Local().Format(time.DateTime),
				e.Label,
				e.Mode,
				strconv.FormatUint(e.Seq, 10),
				string(e.Outcome),
				e.Duration.Round(time.Millisecond).String(),
				e.Error,
			})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	},
}
