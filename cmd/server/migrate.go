package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpulse/backend/internal/infrastructure/db"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	var pruneTimeline time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and optionally prune old timeline events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// bootstrap already runs migrations
			d, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			if pruneTimeline > 0 {
				deleted, err := db.NewTimelineRepository(d.db, d.log).CleanupOld(cmd.Context(), pruneTimeline)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d timeline events\n", deleted)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&pruneTimeline, "prune-timeline", 0, "delete timeline events older than this (e.g. 720h)")
	return cmd
}
