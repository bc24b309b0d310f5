package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/rivals/internal/app"
)

func newStatusCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Run one scheduler tick and print the clock and leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			return printStatus(ctx, cmd.OutOrStdout(), svc, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of leaderboard rows to print")
	return cmd
}

func printStatus(ctx context.Context, w io.Writer, svc *service.Service, limit int) error {
	if err := svc.Tick(ctx); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	stats, err := svc.GetStats(ctx)
	if err != nil {
		return err
	}
	entries, err := svc.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Now:          %s\n", stats.Now.Format(time.RFC3339))
	fmt.Fprintf(w, "Accelerated:  %t\n", stats.Accelerated)
	fmt.Fprintf(w, "Day / week:   %s / %s\n", stats.DayKey, stats.WeekKey)
	fmt.Fprintf(w, "Weekly task:  %s\n", stats.WeeklyTaskState)
	fmt.Fprintf(w, "Submissions:  %d\n", stats.Submissions)
	fmt.Fprintln(w)
	for _, e := range entries {
		marker := " "
		if e.IsUser {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %2d. %-10s %5d\n", marker, e.Rank, e.Name, e.Points)
	}
	return nil
}
