package cmd

import (
	"github.com/spf13/cobra"

	"ghforecast/internal/eventbus"
	"ghforecast/internal/history"
	"ghforecast/internal/mcpserver"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the ghforecast MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents list the catalog and fetch analytics via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := newCatalog()
		if err != nil {
			return err
		}

		store, err := openHistory(false)
		if err != nil {
			return err
		}
		defer store.Close()

		bus := eventbus.New()
		if store.Enabled() {
			rec := history.NewRecorder(store, bus)
			defer rec.Stop()
		}
		// Drain queued history events before the recorder stops
		defer bus.Close()

		return mcpserver.Start(rootCtx, mcpserver.Deps{
			Catalog: cat,
			Fetcher: newClient(),
			Bus:     bus,
			History: store,
			Timeout: cfg.Backend.Timeout,
		})
	},
}
