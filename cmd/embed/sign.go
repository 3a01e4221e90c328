package main

import (
	"fmt"

	appembed "github.com/astro-web3/metabase-embed/internal/app/embed"
	"github.com/astro-web3/metabase-embed/internal/config"
	"github.com/spf13/cobra"
)

func newSignCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <dashboard>",
		Short: "Print an embed link for a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			appService, cleanup, err := appembed.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			link, err := appService.IssueLink(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), link.URL)
			return err
		},
	}
}
