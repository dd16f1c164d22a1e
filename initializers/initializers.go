package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"hrms-backend/config"
	"hrms-backend/fiberlog"
	"hrms-backend/lib/analytics"
	attendancehandler "hrms-backend/lib/attendance"
	absencejob "hrms-backend/lib/attendance/absence-job"
	attendancecloseworker "hrms-backend/lib/attendance/close-worker"
	authhandler "hrms-backend/lib/auth"
	xlsexport "hrms-backend/lib/export/xls"
	filestorage "hrms-backend/lib/file-storage"
	leavehandler "hrms-backend/lib/leave"
	"hrms-backend/lib/notify"
	payrollhandler "hrms-backend/lib/payroll"
	"hrms-backend/lib/rbac"
	usershandler "hrms-backend/lib/users"
	connectionhub "hrms-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	filestorage.NewHandler()
	xlsexport.NewHandler()
	notify.NewHandler()
	usershandler.NewHandler()
	authhandler.NewHandler()
	attendancehandler.NewHandler()
	leavehandler.NewHandler()
	payrollhandler.NewHandler()
	analytics.NewHandler()
	rbac.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// closes check-ins left open on previous days
	interval := time.Duration(config.Conf.Workers.AttendanceCloseIntervalMin) * time.Minute
	attendancecloseworker.StartWorker(ctx, interval)

	if !makeTimeGap(ctx) {
		return
	}
	if err := absencejob.Start(ctx, config.Conf.Workers.AbsenceSchedule); err != nil {
		log.WithError(err).Error("absence job start failed")
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
