package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ghforecast/internal/eventbus"
	"ghforecast/internal/export"
	"ghforecast/internal/fetch"
	"ghforecast/internal/history"
	"ghforecast/internal/selection"
	"ghforecast/internal/viewmodel"
)

// errBinaryToTerminal is returned when a binary format would be printed to a terminal
var errBinaryToTerminal = errors.New("refusing to write binary output to a terminal, use --file")

// fetchCmd runs one fetch cycle and prints the derived dashboard.
var fetchCmd = &cobra.Command{
	Use:   "fetch <repository|label>",
	Short: "Fetch analytics for one catalog entry",
	Long: `Resolve a repository key or label against the catalog, fetch its analytics from the
backend and print the derived dashboard.

Formats:
- text: tables of every chart and image block
- json: the render variant as JSON
- csv, parquet: one row per series point or image
- png: one chart rendered as a bar chart image`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		output, _ := flags.GetString("output")
		file, _ := flags.GetString("file")
		chart, _ := flags.GetInt("chart")
		width, _ := flags.GetInt("width")
		noColor, _ := flags.GetBool("no-color")

		format, err := export.ParseFormat(output)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		v, err := fetchVariant(ctx, args[0])
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if file != "" {
			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		} else if format.Binary() && term.IsTerminal(int(os.Stdout.Fd())) {
			return errBinaryToTerminal
		}

		return export.Write(w, v, format, export.Options{
			Width:   width,
			NoColor: noColor || file != "",
			Chart:   chart,
		})
	},
}

// fetchVariant runs Select, Begin, Run and Apply for query and derives the variant
func fetchVariant(ctx context.Context, query string) (viewmodel.RenderVariant, error) {
	cat, err := newCatalog()
	if err != nil {
		return viewmodel.RenderVariant{}, err
	}
	entry, err := cat.Resolve(query)
	if err != nil {
		return viewmodel.RenderVariant{}, err
	}

	store, err := openHistory(false)
	if err != nil {
		return viewmodel.RenderVariant{}, err
	}
	defer store.Close()

	bus := eventbus.New()
	if store.Enabled() {
		rec := history.NewRecorder(store, bus)
		defer rec.Stop()
	}
	defer bus.Close()

	sel := selection.NewStore(bus)
	controller := fetch.NewController(newClient(), bus, fetch.WithTimeout(cfg.Backend.Timeout))
	defer controller.Close()

	snap := sel.Select(entry)
	ticket, fetchCtx := controller.Begin(snap)

	runCtx, stop := context.WithCancel(fetchCtx)
	defer stop()
	unhook := context.AfterFunc(ctx, stop)
	defer unhook()

	controller.Apply(controller.Run(runCtx, ticket))
	return viewmodel.Derive(viewmodel.ContextFor(snap, controller.State())), nil
}
