package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"hrms-backend/lib/hrms-client/session"
	payrollapimodels "hrms-backend/models/api/payroll"
)

func newPayrollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll records and payslips",
	}
	cmd.AddCommand(newPayrollPreviewCmd(a))
	cmd.AddCommand(newPayrollListCmd(a))
	cmd.AddCommand(newPayrollGenerateCmd(a))
	cmd.AddCommand(newPayrollPayCmd(a))
	cmd.AddCommand(newPayrollSlipCmd(a))
	cmd.AddCommand(newPayrollExportCmd(a))
	return cmd
}

func payrollTable(records []payrollapimodels.PayrollRecord) [][]string {
	table := make([][]string, 0, len(records))
	for _, rec := range records {
		table = append(table, []string{rec.ID, rec.UserName, rec.Month, money(rec.BasicSalary), money(rec.Allowances), money(rec.Deductions), money(rec.NetSalary), string(rec.Status)})
	}
	return table
}

var payrollHeader = []string{"ID", "NAME", "MONTH", "BASIC", "ALLOWANCES", "DEDUCTIONS", "NET", "STATUS"}

func newPayrollPreviewCmd(a *app) *cobra.Command {
	var month, userID string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a monthly breakdown from the annual salary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			if month == "" {
				month = a.currentMonth()
			}
			if err := payrollapimodels.ValidateMonth(month); err != nil {
				return err
			}
			user, err := a.findUser(userID)
			if err != nil {
				return err
			}
			rec := session.PayrollBreakdown(user, month)
			if rec == nil {
				return errors.Errorf("%s has no salary set", user.Name)
			}
			records := []payrollapimodels.PayrollRecord{*rec}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, records, payrollHeader, payrollTable(records))
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM, the current month when empty")
	cmd.Flags().StringVar(&userID, "user", "", "user id, the logged in user when empty")
	return cmd
}

func newPayrollListCmd(a *app) *cobra.Command {
	var filter payrollapimodels.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated payroll records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.client.ListPayroll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, records, payrollHeader, payrollTable(records))
		},
	}
	cmd.Flags().StringVar(&filter.Month, "month", "", "YYYY-MM")
	cmd.Flags().StringVar(&filter.UserID, "user", "", "user id (admin only)")
	return cmd
}

func newPayrollGenerateCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the month's payroll for every employee with a salary (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.store.IsAdmin() {
				return session.ErrForbidden
			}
			if month == "" {
				month = a.currentMonth()
			}
			records, err := a.client.GeneratePayroll(cmd.Context(), month)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, records, payrollHeader, payrollTable(records))
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM, the current month when empty")
	return cmd
}

func newPayrollPayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a payroll record paid (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.IsAdmin() {
				return session.ErrForbidden
			}
			rec, err := a.client.PayPayroll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records := []payrollapimodels.PayrollRecord{rec}
			return printTable(cmd.OutOrStdout(), a.opts.JSON, records, payrollHeader, payrollTable(records))
		},
	}
}

func newPayrollSlipCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "slip <id> --out <file.pdf>",
		Short: "Download a payslip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			data, err := a.client.DownloadPayslip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeFile(out, data)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file")
	return cmd
}

func newPayrollExportCmd(a *app) *cobra.Command {
	var month, out string
	cmd := &cobra.Command{
		Use:   "export --out <file.xlsx>",
		Short: "Download the month's payroll report (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if !a.store.IsAdmin() {
				return session.ErrForbidden
			}
			if month == "" {
				month = a.currentMonth()
			}
			data, err := a.client.ExportPayroll(cmd.Context(), month)
			if err != nil {
				return err
			}
			return writeFile(out, data)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM, the current month when empty")
	cmd.Flags().StringVar(&out, "out", "", "output file")
	return cmd
}
