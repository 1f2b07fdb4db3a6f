package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadim/nested-seeder/internal/config"
)

// newRootCmd returns the root command of the seeder CLI
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seeder",
		Short:         "Seed a Nested posts API with test posts",
		Long:          "seeder creates numbered test posts through the posts API, one request at a time, and prints a tally.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			fmt.Fprintln(cmd.OutOrStdout(), "\nTip: run 'seeder run' to create posts, or 'seeder stub' for a local API.")
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: environment and .env)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStubCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the config file if one was given, the environment otherwise
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		cfg, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("loading %s: %w", cfgFile, err)
		}
		return cfg, nil
	}
	return config.Load()
}
