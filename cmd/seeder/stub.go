package main

import (
	"github.com/spf13/cobra"

	"github.com/vadim/nested-seeder/internal/app"
)

func newStubCmd() *cobra.Command {
	var port string
	var rateLimit float64

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local stand-in of the posts API",
		Long: `Serve POST/GET /api/posts in memory so runs can be tried without the real backend.

Set STUB_TOKEN to require a specific bearer token and STUB_RATE_LIMIT to answer 429 when exceeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Stub.Port = port
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.Stub.RateLimit = rateLimit
			}

			logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

			stub, err := app.NewStub(cfg.Stub, logger)
			if err != nil {
				return err
			}

			return stub.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (env STUB_PORT)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "requests per second before answering 429, 0 disables (env STUB_RATE_LIMIT)")

	return cmd
}
