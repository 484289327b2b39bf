package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/pkg/client"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var (
		m  client.Measurement
		at string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Push a measurement for rule evaluation",
		Example: `  voltcast ingest --user owner@example.com --metric battery_capacity --value 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid timestamp %q: %w", at, err)
				}
				m.Timestamp = ts
			}

			if err := apiClient.Ingest(context.Background(), m); err != nil {
				return fmt.Errorf("failed to ingest measurement: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Data processed")
			return nil
		},
	}

	cmd.Flags().StringVar(&m.UserID, "user", "", "user the measurement belongs to")
	cmd.Flags().StringVar(&m.MetricType, "metric", "", "metric name")
	cmd.Flags().Float64Var(&m.Value, "value", 0, "measured value")
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 timestamp (default now)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("metric")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
