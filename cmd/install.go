package main

import (
	"webverify/pkg/browser/pwdriver"
	"webverify/pkg/logger"

	"github.com/spf13/cobra"
)

func installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Installs the playwright driver and chromium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pwdriver.Install(ctx); err != nil {
				return err
			}
			logger.Info(ctx, "playwright driver and chromium installed")

			return nil
		},
	}
}
