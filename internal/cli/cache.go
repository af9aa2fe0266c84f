package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the translations and sources cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, out := cmd.Context(), cmd.OutOrStdout()
			ch := c.newCache(ctx)
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if _, null := ch.(*cache.NullCache); null || !ok {
				printInfo(out, "Cache is disabled")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(out, "Cleared %s cache", c.Config.Cache.Backend)
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail(out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, out := c.Config.Cache, cmd.OutOrStdout()
			switch cc.Backend {
			case cache.BackendRedis:
				fmt.Fprintf(out, "redis://%s/%d\n", cc.RedisAddr, cc.RedisDB)
				return nil
			case cache.BackendNone:
				printInfo(out, "Cache is disabled")
				return nil
			}
			if cc.Dir != "" {
				fmt.Fprintln(out, cc.Dir)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}
