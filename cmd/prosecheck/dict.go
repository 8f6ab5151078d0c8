package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"prosecheck/internal/config"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage custom words shared through redis",
	Long: `Custom words are always accepted by the spelling checker. They live in a
redis set configured under [redis] in ` + config.FileName + ` or through ` + config.EnvRedisAddr + `.`,
}

var dictAddCmd = &cobra.Command{
	Use:   "add <word>...",
	Short: "Accept words as correctly spelled",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(cmd, func(ctx context.Context, s *session) error {
			if err := s.store.Add(ctx, args...); err != nil {
				return fmt.Errorf("dict add: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d word(s)\n", len(args))
			return nil
		})
	},
}

var dictRemoveCmd = &cobra.Command{
	Use:     "remove <word>...",
	Aliases: []string{"rm"},
	Short:   "Forget custom words",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(cmd, func(ctx context.Context, s *session) error {
			if err := s.store.Remove(ctx, args...); err != nil {
				return fmt.Errorf("dict remove: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d word(s)\n", len(args))
			return nil
		})
	},
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the custom words",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordStore(cmd, func(ctx context.Context, s *session) error {
			words, err := s.store.All(ctx)
			if err != nil {
				return fmt.Errorf("dict list: %w", err)
			}
			for _, w := range words {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return nil
		})
	},
}

func init() {
	dictCmd.AddCommand(dictAddCmd, dictRemoveCmd, dictListCmd)
}

// withWordStore connects to redis from the config found above the working
// directory and runs fn with the store.
func withWordStore(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cfg, err := loadConfig(cmd, ".")
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return errors.New("no redis configured: set [redis].addr or " + config.EnvRedisAddr)
	}
	ctx := cmd.Context()
	s := &session{cfg: cfg}
	defer s.Close()
	store, err := s.openRedis(ctx)
	if err != nil {
		return err
	}
	s.store = store
	return fn(ctx, s)
}
