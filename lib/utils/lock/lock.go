package lock

import (
	"context"
	"sync"
	"time"
)

const retryInterval = 10 * time.Millisecond

var held sync.Map

// WithDelay runs safeCode while holding the named key.
// success is false when the key could not be taken before wait elapsed or ctx ended.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	if !acquire(ctx, key, wait) {
		return false, nil
	}
	defer held.Delete(key)
	return true, safeCode()
}

func acquire(ctx context.Context, key string, wait time.Duration) bool {
	if _, busy := held.LoadOrStore(key, struct{}{}); !busy {
		return true
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	retry := time.NewTicker(retryInterval)
	defer retry.Stop()
	for {
		select {
		case <-deadline.C:
			return false
		case <-ctx.Done():
			return false
		case <-retry.C:
			if _, busy := held.LoadOrStore(key, struct{}{}); !busy {
				return true
			}
		}
	}
}
