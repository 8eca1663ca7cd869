// Command mortgage-agent serves the mortgage calculator API and offers CLI
// access to the same calculation and rate lookup.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

var envFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mortgage-agent",
		Short: "Mortgage payment calculator with live rates and an AI assistant.",
		Long: `mortgage-agent computes fixed-rate amortized payments and serves current
mortgage rates (API Ninjas, with static fallbacks) plus a chat assistant
backed by an OpenAI-compatible completion API.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading the environment")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCalcCmd())
	cmd.AddCommand(newRatesCmd())

	return cmd
}
