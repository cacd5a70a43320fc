package cmd

import (
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Add primary subcommands to the root command
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the config subcommands to the parent config command
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	// Bind persistent flags of rootCmd to Viper under their config keys
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file")
	flags.String("backend-url", "", "Base URL of the analytics backend")
	flags.Duration("timeout", 0, "Bound on each backend request (0 = none)")
	flags.String("history-backend", "", "History backend: sqlite or postgres or mysql or none")
	flags.String("history-dsn", "", "History database connection string or sqlite path")
	mustBind("config", flags.Lookup("config"))
	mustBind("backend.base_url", flags.Lookup("backend-url"))
	mustBind("backend.timeout", flags.Lookup("timeout"))
	mustBind("history.backend", flags.Lookup("history-backend"))
	mustBind("history.dsn", flags.Lookup("history-dsn"))

	// Flags of fetchCmd
	fetchCmd.Flags().StringP("output", "o", "text", "Output format: text or json or csv or parquet or png")
	fetchCmd.Flags().String("file", "", "Optional path to write output to")
	fetchCmd.Flags().Int("chart", 0, "Index of the chart rendered by the png format")
	fetchCmd.Flags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	fetchCmd.Flags().Bool("no-color", false, "Disable colored output")

	// Flags of historyCmd
	historyCmd.Flags().IntP("limit", "l", 20, "Number of rows to display")

	// Flags of configInitCmd
	configInitCmd.Flags().String("path", "", "Where to write the config file (default: $HOME/.ghforecast.toml)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

// mustBind binds a flag to a config key. Flags are declared statically, so a
// failure is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		log.Panicf("Error binding flag %s: %v", key, err)
	}
}
