package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("refusing to clear data without --yes")

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all persisted data and reset the virtual clock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.ClearData(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
