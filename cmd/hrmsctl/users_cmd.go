package main

import (
	"github.com/spf13/cobra"
	"hrms-backend/lib/hrms-client/session"
)

func newUsersCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Employee directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			users := session.FilterDirectory(a.store.Users(), search)
			table := make([][]string, 0, len(users))
			for _, user := range users {
				table = append(table, []string{user.ID, user.Name, user.Email, user.Role.ToHuman(), user.Position, user.Department, deref(user.Phone)})
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, users,
				[]string{"ID", "NAME", "EMAIL", "ROLE", "POSITION", "DEPARTMENT", "PHONE"}, table)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name, email or department")
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Today's figures computed from the cached collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			stats := session.BuildDashboardStats(a.store.Snapshot(), a.today())
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
