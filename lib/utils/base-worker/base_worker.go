package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(WorkerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    WorkerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	logger := log.
		WithField("worker_name", i.WorkerName)
	return logger
}

func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context)) {
	period := i.firstRunDelay
	logger := i.GetLogger()
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-time.After(period):
			logger.Debug("job started")
			i.runJob(ctx, jobFunc)
			logger.Debug("job finished")
		}
		period = i.runInterval
	}
}

// a panic in one run must not stop the loop
func (i BaseImpl) runJob(ctx context.Context, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			i.GetLogger().
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	jobFunc(ctx)
}
