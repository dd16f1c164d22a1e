package absencejob

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	attendancehandler "hrms-backend/lib/attendance"
	"hrms-backend/lib/utils/helpers"
)

type absenceMarker interface {
	MarkAbsent(ctx context.Context, date string) (int, error)
}

// Start schedules the daily absence run, the scheduler stops with ctx.
func Start(ctx context.Context, schedule string) error {
	job := &impl{
		handler: attendancehandler.Instance,
		now:     time.Now,
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() { job.run(ctx) })
	if err != nil {
		return errors.Wrapf(err, "bad absence schedule %q", schedule)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.WithField("worker_name", "AbsenceJob").Info("worker stopped")
	}()
	return nil
}

type impl struct {
	handler absenceMarker
	now     func() time.Time
}

func (i impl) run(ctx context.Context) {
	logger := log.WithField("worker_name", "AbsenceJob")
	now := i.now()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		logger.Debug("weekend, skipped")
		return
	}
	date := helpers.FormatDate(now)
	marked, err := i.handler.MarkAbsent(ctx, date)
	if err != nil {
		logger.WithError(err).Error("absence marking failed")
		return
	}
	logger.
		WithField("date", date).
		WithField("marked", marked).
		Info("absence marking finished")
}
