package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			summary := map[string]string{"server": apiClient.BaseURL()}
			if health, err := apiClient.Health(ctx); err != nil {
				summary["liveness"] = "error: " + err.Error()
			} else {
				summary["liveness"] = health.Status
			}
			if ready, err := apiClient.Ready(ctx); err != nil {
				summary["readiness"] = "error: " + err.Error()
			} else {
				summary["readiness"] = ready.Status
				summary["database"] = ready.Database
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(out, format, summary)
			}

			fmt.Fprintln(out, "VoltCast Alerting")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Server:     %s\n", summary["server"])
			fmt.Fprintf(out, "  Liveness:   %s\n", summary["liveness"])
			fmt.Fprintf(out, "  Readiness:  %s\n", summary["readiness"])
			if db := summary["database"]; db != "" {
				fmt.Fprintf(out, "  Database:   %s\n", db)
			}
			return nil
		},
	}
}
