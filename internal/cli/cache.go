package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached datasets and rendered charts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached dataset and chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	if c.Config.Cache.Backend == config.BackendNone {
		printInfo("Caching is disabled")
		return nil
	}

	logger := loggerFromContext(ctx)
	ch, err := c.Config.OpenCache(ctx)
	if err != nil {
		return err
	}
	defer ch.Close()
	logger.Debug("clearing cache", "backend", c.Config.Cache.Backend)

	var count int
	switch cc := ch.(type) {
	case *cache.FileCache:
		count, err = cc.Clear()
		if err == nil {
			defer printDetail("Directory: %s", cc.Dir())
		}
	case *cache.RedisCache:
		count, err = cc.DeletePrefix(ctx, keyPrefix)
		if err == nil {
			defer printDetail("Redis: %s (keys %s*)", c.Config.Cache.RedisAddr, keyPrefix)
		}
	default:
		return fmt.Errorf("cache backend %q cannot be cleared", c.Config.Cache.Backend)
	}
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	logger.Debug("cache cleared", "entries", count)
	if count == 0 {
		printInfo("Cache is empty")
		return nil
	}
	printSuccess("Cleared %d cached entries", count)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached entries are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				addr := c.Config.Cache.RedisAddr
				if !strings.Contains(addr, "://") {
					addr = "redis://" + addr
				}
				fmt.Fprintln(cmd.OutOrStdout(), addr)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir, err := c.Config.CacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}
