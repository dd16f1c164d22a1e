package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"hrms-backend/lib/hrms-client/session"
)

func newAnalyticsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Workforce analytics (admin only)",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			if !a.store.IsAdmin() {
				return session.ErrForbidden
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "burnout",
		Short: "Employees with long hours or mostly negative moods in the last two weeks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			risks, err := a.client.BurnoutRisks(cmd.Context())
			if err != nil {
				return err
			}
			table := make([][]string, 0, len(risks))
			for _, risk := range risks {
				table = append(table, []string{risk.ID, risk.Name, risk.Department, money(risk.AvgHours), fmt.Sprintf("%.0f%%", risk.NegativeMoodShare*100)})
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, risks,
				[]string{"ID", "NAME", "DEPARTMENT", "AVG HOURS", "NEGATIVE MOOD"}, table)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "happiness",
		Short: "Mood distribution of the last 30 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			buckets, err := a.client.Happiness(cmd.Context())
			if err != nil {
				return err
			}
			table := make([][]string, 0, len(buckets))
			for _, bucket := range buckets {
				table = append(table, []string{bucket.Name, fmt.Sprintf("%d%%", bucket.Value)})
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, buckets, []string{"MOOD", "SHARE"}, table)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Server side headcount figures for today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	})
	return cmd
}
