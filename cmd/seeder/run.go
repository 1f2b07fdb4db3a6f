package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vadim/nested-seeder/internal/app"
	"github.com/vadim/nested-seeder/internal/config"
)

type runFlags struct {
	count     int
	delay     time.Duration
	timeout   time.Duration
	endpoint  string
	community string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create test posts",
		Long: `Create numbered test posts, one request at a time.

Each attempt prints one line; failed posts are counted and the batch continues.
The bearer token is read from API_TOKEN.`,
		Example: "  seeder run --count 10 --delay 250ms --community golang",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)

			logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

			seeder, err := app.NewSeeder(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			defer seeder.Close()

			_, err = seeder.Seed(cmd.Context())
			return err
		},
	}

	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "number of posts to create (env NUM_POSTS)")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "pause after every request (env POST_DELAY)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-request timeout (env HTTP_TIMEOUT)")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "create-post URL (env API_URL)")
	cmd.Flags().StringVar(&f.community, "community", "", "community to post to (env SUB_NAME)")

	return cmd
}

// apply overrides configuration with the flags that were set explicitly
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Batch.Count = f.count
	}
	if flags.Changed("delay") {
		cfg.Batch.Delay = f.delay
	}
	if flags.Changed("timeout") {
		cfg.Target.Timeout = f.timeout
	}
	if flags.Changed("endpoint") {
		cfg.Target.URL = f.endpoint
	}
	if flags.Changed("community") {
		cfg.Target.Community = f.community
	}
}
