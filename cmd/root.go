// Package cmd defines the command-line interface for ghforecast.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ghforecast/internal/backend"
	"ghforecast/internal/catalog"
	"ghforecast/internal/config"
	"ghforecast/internal/history"
)

// All linker flags will be set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg holds the validated configuration after sharedSetup.
var cfg *config.Config

// configSvc is the service cfg was loaded from.
var configSvc config.ConfigService

// rootCmd runs the dashboard when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "ghforecast",
	Short:         "Issue activity and forecasts for a set of GitHub repositories.",
	Long:          `ghforecast charts created and closed issues, star and fork counts, and forecast images served by the analytics backend.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PreRunE:       sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDashboard(rootCtx)
	},
}

// dashboardCmd is the explicit spelling of the root command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Run the terminal dashboard",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDashboard(rootCtx)
	},
}

// sharedSetup loads configuration from defaults, file, environment and flags.
func sharedSetup(_ *cobra.Command, _ []string) error {
	v := viper.GetViper()
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
	}

	configSvc = config.NewConfigService(v)
	loaded, err := configSvc.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// sharedSetupWrapper adapts sharedSetup to Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(cmd, args)
}

// newClient builds the backend client for cfg.
func newClient() *backend.Client {
	return backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Path)
}

// newCatalog builds the catalog for cfg.
func newCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return cat, nil
}

// openHistory opens the configured history store. When required is false a
// failure is logged and a discarding store is returned instead.
func openHistory(required bool) (*history.Store, error) {
	b, err := history.ParseBackend(cfg.History.Backend)
	if err == nil {
		var st *history.Store
		st, err = history.Open(b, cfg.History.DSN)
		if err == nil {
			return st, nil
		}
	}
	if required {
		return nil, err
	}
	log.Printf("Warning: fetch history disabled: %v", err)
	return history.Open(history.BackendNone, "")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, config.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}

// PrintError reports err on stderr the way every command does.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}
