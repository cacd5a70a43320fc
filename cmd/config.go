package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"ghforecast/internal/config"
)

// configCmd groups config file management.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the ghforecast config file",
}

// configInitCmd writes the default configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to locate home directory: %w", err)
			}
			path = filepath.Join(home, config.FileName)
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}

		svc := config.NewConfigService(nil)
		if err := svc.SaveToPath(config.DefaultConfig(), path); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

// configShowCmd prints the merged configuration.
var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the effective configuration as TOML",
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if used := configSvc.Path(); used != "" {
			cmd.Printf("# %s\n", used)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
