package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"hrms-backend/models"
	authapimodels "hrms-backend/models/api/auth"
	usersapimodels "hrms-backend/models/api/users"
)

const passwordEnv = "HRMS_PASSWORD"

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login --email <email>",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				return errors.New("--password or " + passwordEnv + " is required")
			}
			ok, err := a.store.Login(cmd.Context(), email, password)
			if !ok && err == nil {
				return errors.New("invalid credentials")
			}
			if err != nil && !ok {
				return err
			}
			identity, _ := a.store.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", identity.Name, identity.Role.ToHuman())
			// the session is stored even when the first refresh failed
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password, "+passwordEnv+" is used when empty")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, ok := a.store.Identity()
			if !ok {
				return errors.New("not logged in")
			}
			return printJSON(cmd.OutOrStdout(), identity)
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var request authapimodels.RegisterRequest
	var role string
	var salary float64
	cmd := &cobra.Command{
		Use:   "register --name <name> --email <email> --password <password>",
		Short: "Create an employee account (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			request.Role = models.UserRole(strings.ToUpper(role))
			if cmd.Flags().Changed("salary") {
				request.Salary = &salary
			}
			if err := request.Validate(); err != nil {
				return err
			}
			user, err := a.store.Register(cmd.Context(), request)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&request.Name, "name", "", "full name")
	cmd.Flags().StringVar(&request.Email, "email", "", "email")
	cmd.Flags().StringVar(&request.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(models.EmployeeRole), "ADMIN or EMPLOYEE")
	cmd.Flags().StringVar(&request.Position, "position", "", "job title")
	cmd.Flags().StringVar(&request.Department, "department", "", "department")
	cmd.Flags().StringVar(&request.JoinDate, "join-date", "", "join date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&salary, "salary", 0, "annual salary")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	var userID, name, email, position, department, phone, address string
	var salary float64
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the own profile, or another user's with --user (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.loggedIn(ctx); err != nil {
				return err
			}
			target, err := a.findUser(userID)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				target.Name = name
			}
			if flags.Changed("email") {
				target.Email = email
			}
			if flags.Changed("position") {
				target.Position = position
			}
			if flags.Changed("department") {
				target.Department = department
			}
			if flags.Changed("phone") {
				target.Phone = &phone
			}
			if flags.Changed("address") {
				target.Address = &address
			}
			if flags.Changed("salary") {
				target.Salary = &salary
			}
			updated, err := a.store.UpdateProfile(ctx, target)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id, the logged in user when empty")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&position, "position", "", "job title")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cmd.Flags().Float64Var(&salary, "salary", 0, "annual salary (admin only)")
	return cmd
}

func (a *app) findUser(userID string) (usersapimodels.User, error) {
	identity, _ := a.store.Identity()
	if userID == "" || userID == identity.ID {
		return identity, nil
	}
	for _, user := range a.store.Users() {
		if user.ID == userID {
			return user, nil
		}
	}
	return usersapimodels.User{}, errors.Errorf("user %s not found", userID)
}
