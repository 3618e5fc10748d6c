package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgekit/edgectl/internal/cache"
)

// newCacheCmd creates the cache subcommand group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the response cache",
	}

	cmd.AddCommand(newCacheClearCmd(), newCacheInfoCmd(), newCachePruneCmd())
	return cmd
}

// storeFromFlags opens the cache store from resolved configuration. Cache
// maintenance never needs credentials.
func storeFromFlags(cmd *cobra.Command) (*cache.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cache.NewStore(cfg.Cache.Directory)
}

// newCacheClearCmd removes every cached response.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storeFromFlags(cmd)
			if err != nil {
				return err
			}

			count, _ := store.Count()
			if err := store.Clear(); err != nil {
				return err
			}

			logger.Info().Int("entries", count).Str("dir", store.Directory()).Msg("cache cleared")
			cmd.Printf("Removed %d cached responses from %s\n", count, store.Directory())
			return nil
		},
	}
}

// newCacheInfoCmd reports cache statistics.
func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show response cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			store, err := cache.NewStore(cfg.Cache.Directory)
			if err != nil {
				return err
			}

			count, err := store.Count()
			if err != nil {
				return err
			}
			size, err := store.Size()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory: %s\n", store.Directory())
			fmt.Fprintf(out, "Entries:   %d\n", count)
			fmt.Fprintf(out, "Size:      %d bytes\n", size)
			fmt.Fprintf(out, "TTL:       %ds\n", cfg.Cache.TTLSeconds)
			fmt.Fprintf(out, "Enabled:   %t\n", cfg.Cache.Enabled)
			return nil
		},
	}
}

// newCachePruneCmd removes only expired entries.
func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storeFromFlags(cmd)
			if err != nil {
				return err
			}

			before, _ := store.Count()
			if err := store.CleanupExpired(); err != nil {
				return err
			}
			after, _ := store.Count()

			cmd.Printf("Pruned %d expired responses, %d remain\n", before-after, after)
			return nil
		},
	}
}
