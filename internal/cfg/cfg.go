// Package cfg provides configuration and command-line interface setup for ytgrab.
package cfg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/domain/keys"
	"ytgrab/internal/models"
	"ytgrab/internal/parsing"
	"ytgrab/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Handlers run the work behind each command.
type Handlers struct {
	Serve   func(ctx context.Context, s *models.Settings) error
	History func(ctx context.Context, dbPath string, q models.HistoryQuery) error
}

// NewRootCmd returns the ytgrab command tree bound to a fresh viper instance.
func NewRootCmd(h Handlers) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(keys.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // "extract-timeout" reads YTGRAB_EXTRACT_TIMEOUT
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "ytgrab",
		Short:         "ytgrab serves YouTube video info and downloads over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigFile(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := Load(v)
			if err != nil {
				return err
			}
			if h.Serve == nil {
				return errors.New("no serve handler configured")
			}
			return h.Serve(cmd.Context(), s)
		},
	}

	if err := initProgramFlags(rootCmd, v); err != nil {
		panic(fmt.Sprintf("failed to bind program flags: %v", err))
	}
	rootCmd.AddCommand(initHistoryCmd(v, h))
	return rootCmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, h Handlers) error {
	return NewRootCmd(h).ExecuteContext(ctx)
}

// initHistoryCmd returns the 'history' subcommand.
func initHistoryCmd(v *viper.Viper, h Handlers) *cobra.Command {
	var (
		limit    int
		since    string
		endpoint string
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent requests recorded in the history database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := v.GetString(keys.HistoryDB)
			if dbPath == "" {
				return fmt.Errorf("no history database configured, set --%s", keys.HistoryDB)
			}

			q := models.HistoryQuery{
				Limit:    limit,
				Endpoint: endpoint,
			}
			if since != "" {
				t, err := parsing.ParseSince(since, time.Now())
				if err != nil {
					return fmt.Errorf("invalid --%s value %q: %w", keys.HistorySince, since, err)
				}
				q.Since = t
			}
			if h.History == nil {
				return errors.New("no history handler configured")
			}
			return h.History(cmd.Context(), dbPath, q)
		},
	}

	historyCmd.Flags().IntVar(&limit, keys.HistoryLimit, 0, "Maximum number of records to list")
	historyCmd.Flags().StringVar(&since, keys.HistorySince, "", "Only list records newer than this (e.g. 7d, 12h, 2024-05-01)")
	historyCmd.Flags().StringVar(&endpoint, keys.HistoryEndpoint, "", "Only list records for this endpoint (e.g. /download)")
	return historyCmd
}

// loadConfigFile reads the config file named by --config-file, if any.
func loadConfigFile(v *viper.Viper) error {
	file := v.GetString(keys.ConfigFile)
	if file == "" {
		return nil
	}
	if _, err := validation.ValidateFile(file); err != nil {
		return fmt.Errorf(errconsts.ConfigFileLoadFail, file, err)
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf(errconsts.ConfigFileLoadFail, file, err)
	}
	return nil
}
