package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	transporthttp "github.com/taskpulse/backend/internal/transport/http"
)

func newRemindCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run a single reminder scan and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			comp := transporthttp.Wire(transporthttp.RouterConfig{
				DB:     d.db,
				Logger: d.log,
				Config: d.cfg,
			})
			report := comp.Reminders.ScanAndRemind(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
