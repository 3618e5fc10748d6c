// Package cli wires the edgectl cobra commands: dig, translate, cache
// maintenance, and config management.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/edgekit/edgectl/internal/api"
	"github.com/edgekit/edgectl/internal/cache"
	"github.com/edgekit/edgectl/internal/config"
	"github.com/edgekit/edgectl/internal/edgegrid"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root cobra command for the edgectl CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edgectl",
		Short:   "Edge network diagnostics CLI",
		Long:    "edgectl: run DNS and error-reference diagnostics against the edge network API",
		Version: ver,
		Example: `  # Resolve a hostname from an edge server
  edgectl dig www.example.com

  # Resolve AAAA records, bypassing the response cache
  edgectl dig www.example.com --query-type AAAA --no-cache

  # Translate an edge error reference code
  edgectl translate 9.abcdef12.1700000000.1a2b3c --trace

  # Inspect and clear the response cache
  edgectl cache info
  edgectl cache clear`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			config.CloseLogFile()
		},
	}

	cmd.PersistentFlags().String("edgerc", "", "path to the EdgeGrid credentials file (default ~/.edgerc)")
	cmd.PersistentFlags().String("section", "", "credentials section to use (default \"default\")")
	cmd.PersistentFlags().String("cache-dir", "", "response cache directory")
	cmd.PersistentFlags().Int("cache-ttl", 0, "response cache TTL in seconds (0 = config default)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the response cache")
	cmd.PersistentFlags().Int("timeout", 0, "request timeout in seconds (0 = config default)")
	cmd.PersistentFlags().String("proxy", "", "proxy URL for API requests")
	cmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate validation")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newDigCmd(), newTranslateCmd(), newCacheCmd(), newConfigCmd())

	return cmd
}

// resolveConfig loads the config file and applies CLI flag overrides on
// top. Flags beat environment, environment beats file.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, &api.ConfigError{Msg: "loading configuration", Err: err}
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("edgerc"); v != "" {
		cfg.Auth.EdgercPath = config.ExpandPath(v)
	}
	if v, _ := flags.GetString("section"); v != "" {
		cfg.Auth.Section = v
	}
	if v, _ := flags.GetString("cache-dir"); v != "" {
		cfg.Cache.Directory = config.ExpandPath(v)
	}
	if v, _ := flags.GetInt("cache-ttl"); v != 0 {
		if v < 0 {
			return nil, &api.ConfigError{Msg: fmt.Sprintf("cache-ttl must be positive, got %d", v)}
		}
		cfg.Cache.TTLSeconds = v
	}
	if v, _ := flags.GetBool("no-cache"); v {
		cfg.Cache.Enabled = false
	}
	if v, _ := flags.GetInt("timeout"); v != 0 {
		cfg.Network.TimeoutSeconds = v
	}
	if v, _ := flags.GetString("proxy"); v != "" {
		cfg.Network.Proxy = v
	}
	if v, _ := flags.GetBool("insecure"); v {
		cfg.Network.ValidateCerts = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, &api.ConfigError{Msg: "invalid configuration", Err: err}
	}

	return cfg, nil
}

// newAPIClient builds the signed API client from resolved configuration:
// credentials, cache store, and network settings are threaded in explicitly
// at construction.
func newAPIClient(cmd *cobra.Command) (*api.Client, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	creds, err := edgegrid.Load(cfg.Auth.EdgercPath, cfg.Auth.Section)
	if err != nil {
		return nil, &api.ConfigError{Msg: "loading credentials", Err: err}
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.NewStore(cfg.Cache.Directory)
		if err != nil {
			// A store that cannot even be created degrades to uncached
			// operation, visibly.
			logger.Warn().Err(err).Str("dir", cfg.Cache.Directory).Msg("cache unavailable, running uncached")
			cfg.Cache.Enabled = false
		}
	}

	return api.NewClient(api.Options{
		Credentials:   creds,
		Cache:         store,
		CacheEnabled:  cfg.Cache.Enabled,
		TTLSeconds:    cfg.Cache.TTLSeconds,
		Timeout:       time.Duration(cfg.Network.TimeoutSeconds) * time.Second,
		ValidateCerts: cfg.Network.ValidateCerts,
		Proxy:         cfg.Network.Proxy,
		Logger:        config.ComponentLogger("api"),
	})
}

// setupLogging initializes the global logger from config plus the --debug
// flag and tags the package logger.
func setupLogging(cmd *cobra.Command) error {
	loggingCfg := config.GetLoggingConfig()

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			cmd.PrintErrf("Warning: could not create log directory: %v\n", err)
			loggingCfg.File = ""
		}
	}

	if err := config.InitLogger(loggingCfg); err != nil {
		return err
	}
	logger = config.ComponentLogger("cli")

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}
