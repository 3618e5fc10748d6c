package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgekit/edgectl/internal/config"
)

// newConfigCmd creates the config subcommand group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the edgectl configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd(), newConfigPathCmd())
	return cmd
}

// newConfigInitCmd writes a config file populated with defaults.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the configuration file with default values",
		Args:  cobra.NoArgs,
		Example: `  # Create the default configuration
  edgectl config init

  # Overwrite an existing configuration
  edgectl config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.GetConfigFilePath()
			if err != nil {
				return err
			}

			if !force {
				if _, statErr := os.Stat(path); statErr == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				} else if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if err := config.EnsureConfigDir(); err != nil {
				return err
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}
			cfg.SetConfigPath(path)
			if err := cfg.Save(); err != nil {
				return err
			}

			cmd.Printf("Generated configuration file at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// newConfigValidateCmd loads and validates the active configuration.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cmd.Printf("Configuration at %s is valid\n", cfg.ConfigPath())
			return nil
		},
	}
}

// newConfigPathCmd prints the active config file path.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.GetConfigFilePath()
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
}
