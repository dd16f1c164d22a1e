package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"hrms-backend/lib/hrms-client/session"
	"hrms-backend/models"
	leaveapimodels "hrms-backend/models/api/leave"
)

func newLeaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave requests",
	}
	cmd.AddCommand(newLeaveApplyCmd(a))
	cmd.AddCommand(newLeaveListCmd(a))
	cmd.AddCommand(newLeaveReviewCmd(a, "approve", models.LeaveApproved))
	cmd.AddCommand(newLeaveReviewCmd(a, "reject", models.LeaveRejected))
	return cmd
}

func newLeaveApplyCmd(a *app) *cobra.Command {
	var request leaveapimodels.LeaveRequest
	var leaveType string
	cmd := &cobra.Command{
		Use:   "apply --type <type> --from <date> --to <date> --reason <text>",
		Short: "File a leave request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			request.Type = models.LeaveType(strings.ToUpper(leaveType))
			if err := a.store.ApplyLeave(ctx, request); err != nil {
				return err
			}
			return a.printLeaveCounts(cmd)
		},
	}
	cmd.Flags().StringVar(&leaveType, "type", "", "PAID, SICK, UNPAID or CASUAL")
	cmd.Flags().StringVar(&request.StartDate, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&request.EndDate, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&request.Reason, "reason", "", "reason")
	return cmd
}

func (a *app) printLeaveCounts(cmd *cobra.Command) error {
	identity, _ := a.store.Identity()
	counts := session.LeaveCounts(a.store.Snapshot(), identity.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "pending: %d  approved: %d  rejected: %d\n",
		counts[models.LeavePending], counts[models.LeaveApproved], counts[models.LeaveRejected])
	return nil
}

func newLeaveListCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all requests (admin) or the own ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			identity, _ := a.store.Identity()
			leaves := session.VisibleLeaves(a.store.Snapshot(), identity)
			filtered := make([]leaveapimodels.LeaveRequest, 0, len(leaves))
			table := make([][]string, 0, len(leaves))
			for _, leave := range leaves {
				if status != "" && !strings.EqualFold(status, string(leave.Status)) {
					continue
				}
				filtered = append(filtered, leave)
				table = append(table, []string{leave.ID, leave.UserName, string(leave.Type), leave.StartDate, leave.EndDate, string(leave.Status), leave.Reason, deref(leave.AdminComment)})
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, filtered,
				[]string{"ID", "NAME", "TYPE", "FROM", "TO", "STATUS", "REASON", "COMMENT"}, table)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only PENDING, APPROVED or REJECTED requests")
	return cmd
}

func newLeaveReviewCmd(a *app, use string, status models.LeaveStatus) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: "Mark a pending request " + strings.ToLower(string(status)) + " (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireAdmin(ctx); err != nil {
				return err
			}
			var c *string
			if comment != "" {
				c = &comment
			}
			if err := a.store.UpdateLeaveStatus(ctx, args[0], status, c); err != nil {
				return err
			}
			pending := 0
			for _, leave := range a.store.Leaves() {
				if leave.Status == models.LeavePending {
					pending++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done, pending requests: %d\n", pending)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "comment shown to the employee")
	return cmd
}
