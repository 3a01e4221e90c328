package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time:
//
//	go build -ldflags "-X main.version=1.2.3" ./cmd/embed
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "embed",
		Short:         "Metabase embed link issuer",
		Long:          `Issues short-lived signed Metabase dashboard embed links.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		// Inside Lambda the binary is started as bootstrap with no arguments.
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Getenv(lambdaRuntimeAPIEnv) != "" {
				return runLambda(configPath)
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./config/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newLambdaCmd(&configPath),
		newSignCmd(&configPath),
	)

	return rootCmd
}
