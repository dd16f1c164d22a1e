package attendancecloseworker

import (
	"context"
	"time"

	attendancehandler "hrms-backend/lib/attendance"
	baseworker "hrms-backend/lib/utils/base-worker"
)

type staleCloser interface {
	CloseStale(ctx context.Context) (int, error)
}

func StartWorker(ctx context.Context, interval time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("AttendanceCloseWorker", 15*time.Second, interval),
		handler:  attendancehandler.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	handler staleCloser
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	closed, err := i.handler.CloseStale(ctx)
	if err != nil {
		logger.WithError(err).Error("stale attendance close failed")
		return
	}
	if closed > 0 {
		logger.WithField("closed", closed).Info("stale attendance records closed")
	}
}
