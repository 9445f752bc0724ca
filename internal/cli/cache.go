package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled, nothing to clear")
				return nil
			}
			ch, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := ch.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", c.Config.Cache.Backend)
			if c.Config.Cache.Backend == config.BackendFile {
				printDetail("Directory: %s", c.Config.Cache.Dir)
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
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheLocation describes the configured backend's location.
func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Backend {
	case config.BackendFile:
		return cfg.Dir
	case config.BackendRedis:
		return "redis://" + cfg.RedisAddr
	case config.BackendMongo:
		return cfg.MongoURI + "/" + cfg.MongoDatabase + "." + cfg.MongoCollection
	}
	return cfg.Backend
}
