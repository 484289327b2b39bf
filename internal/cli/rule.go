package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pratik-mahalle/voltcast-alerts/pkg/client"
	"github.com/spf13/cobra"
)

func newRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rule",
		Aliases: []string{"rules"},
		Short:   "Manage alert rules",
	}

	cmd.AddCommand(newRuleCreateCmd())
	cmd.AddCommand(newRuleListCmd())
	cmd.AddCommand(newRuleDeleteCmd())

	return cmd
}

func newRuleCreateCmd() *cobra.Command {
	var req client.CreateRuleRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alert rule",
		Example: `  voltcast rule create --user owner@example.com --metric battery_capacity \
    --condition LESS_THAN --threshold 20 --channel EMAIL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Condition = strings.ToUpper(req.Condition)
			req.DeliveryChannel = strings.ToUpper(req.DeliveryChannel)

			rule, err := apiClient.Rules().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(cmd.OutOrStdout(), format, rule)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule %d created: %s %s via %s\n",
				rule.ID, rule.MetricType, formatCondition(rule.Condition, rule.ThresholdValue), rule.DeliveryChannel)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.UserID, "user", "", "owner of the rule (an email address enables EMAIL delivery)")
	cmd.Flags().StringVar(&req.MetricType, "metric", "", "metric name, e.g. battery_capacity")
	cmd.Flags().Float64Var(&req.ThresholdValue, "threshold", 0, "threshold value")
	cmd.Flags().StringVar(&req.Condition, "condition", client.ConditionGreaterThan, "GREATER_THAN, LESS_THAN or EQUALS")
	cmd.Flags().StringVar(&req.DeliveryChannel, "channel", client.ChannelDashboard, "EMAIL, DASHBOARD or SMS")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("metric")
	_ = cmd.MarkFlagRequired("threshold")

	return cmd
}

func newRuleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's active rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := apiClient.Rules().ListForUser(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(cmd.OutOrStdout(), format, rules)
			}

			t := NewTable(cmd.OutOrStdout(), "ID", "METRIC", "CONDITION", "CHANNEL", "STATUS")
			for _, r := range rules {
				t.AddRow(
					strconv.FormatInt(r.ID, 10),
					truncate(r.MetricType, 40),
					formatCondition(r.Condition, r.ThresholdValue),
					r.DeliveryChannel,
					formatActive(r.IsActive),
				)
			}
			t.Render()
			return nil
		},
	}
}

func newRuleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <rule-id>",
		Aliases: []string{"deactivate"},
		Short:   "Deactivate a rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %s", args[0])
			}

			if err := apiClient.Rules().Deactivate(context.Background(), id); err != nil {
				return fmt.Errorf("failed to deactivate rule: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rule %d deactivated\n", id)
			return nil
		},
	}
}
