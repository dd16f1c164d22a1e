package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"hrms-backend/lib/hrms-client/session"
	"hrms-backend/models"
)

func newCheckInCmd(a *app) *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's arrival",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			var m *models.Mood
			if mood != "" {
				value := models.Mood(strings.ToUpper(mood))
				m = &value
			}
			if err := a.store.CheckIn(ctx, m); err != nil {
				return err
			}
			return a.printToday(cmd)
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "HAPPY, NEUTRAL, SAD, TIRED or STRESSED")
	return cmd
}

func newCheckOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Record today's departure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			if err := a.store.CheckOut(ctx); err != nil {
				return err
			}
			return a.printToday(cmd)
		},
	}
}

func (a *app) printToday(cmd *cobra.Command) error {
	identity, _ := a.store.Identity()
	rec := session.TodayRecord(a.store.Snapshot(), identity.ID, a.today())
	if rec == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "not checked in today")
		return nil
	}
	hours := "-"
	if rec.TotalHours != nil {
		hours = fmt.Sprintf("%.2f", *rec.TotalHours)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  in: %s  out: %s  hours: %s\n", rec.Date, deref(rec.CheckIn), deref(rec.CheckOut), hours)
	return nil
}

func newAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance records",
	}
	cmd.AddCommand(newAttendanceListCmd(a))
	cmd.AddCommand(newAttendanceExportCmd(a))
	return cmd
}

func newAttendanceListCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the day's records (admin) or the own history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			if date == "" {
				date = a.today()
			}
			identity, _ := a.store.Identity()
			rows := session.VisibleAttendance(a.store.Snapshot(), identity, date)
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				mood := "-"
				if row.Mood != nil {
					mood = string(*row.Mood)
				}
				table = append(table, []string{row.Date, row.UserName, row.Department, string(row.Status), deref(row.CheckIn), deref(row.CheckOut), mood})
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, rows,
				[]string{"DATE", "NAME", "DEPARTMENT", "STATUS", "CHECK-IN", "CHECK-OUT", "MOOD"}, table)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day for the admin view, YYYY-MM-DD, today when empty")
	return cmd
}

func newAttendanceExportCmd(a *app) *cobra.Command {
	var from, to, out string
	cmd := &cobra.Command{
		Use:   "export --out <file.xlsx>",
		Short: "Download the attendance report (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if !a.store.IsAdmin() {
				return session.ErrForbidden
			}
			data, err := a.client.ExportAttendance(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			return writeFile(out, data)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&out, "out", "", "output file")
	return cmd
}
