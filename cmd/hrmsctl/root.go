package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"hrms-backend/config"
	"hrms-backend/lib/hrms-client/apiclient"
	"hrms-backend/lib/hrms-client/session"
	"hrms-backend/models"
)

type rootOptions struct {
	BaseURL    string
	SessionDir string
	Debug      bool
	JSON       bool
}

// app is built once per invocation in PersistentPreRunE unless store is wired up front.
type app struct {
	client apiclient.Provider
	store  *session.Store
	opts   *rootOptions
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{opts: &rootOptions{}, now: time.Now})
}

func newRootCmdFor(a *app) *cobra.Command {
	opts := a.opts
	cmd := &cobra.Command{
		Use:           "hrmsctl",
		Short:         "Command line client for the HRMS API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "API base URL (overrides hrmsctl.yml)")
	cmd.PersistentFlags().StringVar(&opts.SessionDir, "session-dir", "", "directory of the stored session (overrides hrmsctl.yml)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print JSON instead of tables")

	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newDashboardCmd(a))
	cmd.AddCommand(newCheckInCmd(a))
	cmd.AddCommand(newCheckOutCmd(a))
	cmd.AddCommand(newAttendanceCmd(a))
	cmd.AddCommand(newLeaveCmd(a))
	cmd.AddCommand(newUsersCmd(a))
	cmd.AddCommand(newProfileCmd(a))
	cmd.AddCommand(newPayrollCmd(a))
	cmd.AddCommand(newAnalyticsCmd(a))
	return cmd
}

func (a *app) init() error {
	if a.store != nil {
		return nil
	}
	if err := config.InitClientConfig(); err != nil {
		return errors.Wrap(err, "client config load failed")
	}
	conf := config.ClientConf
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if conf.LogLevelDebug || a.opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	baseURL := conf.BaseURL
	if a.opts.BaseURL != "" {
		baseURL = a.opts.BaseURL
	}
	sessionDir := conf.SessionDir
	if a.opts.SessionDir != "" {
		sessionDir = a.opts.SessionDir
	}

	a.client = apiclient.New(baseURL, apiclient.WithTimeout(time.Duration(conf.TimeoutInSec)*time.Second))
	store, err := session.NewStore(a.client, session.NewFileStorage(sessionDir), session.WithClock(a.now))
	if err != nil {
		return errors.Wrap(err, "session restore failed")
	}
	a.store = store
	return nil
}

// loggedIn restores the snapshot for commands that read the cached collections.
func (a *app) loggedIn(ctx context.Context) error {
	if !a.store.IsLoggedIn() {
		return errors.New("not logged in, run `hrmsctl login` first")
	}
	return a.store.Refresh(ctx)
}

func (a *app) requireAdmin(ctx context.Context) error {
	if err := a.loggedIn(ctx); err != nil {
		return err
	}
	if !a.store.IsAdmin() {
		return session.ErrForbidden
	}
	return nil
}

func (a *app) today() string {
	return a.now().Format(models.DateLayout)
}

func (a *app) currentMonth() string {
	return a.now().Format(models.MonthLayout)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
