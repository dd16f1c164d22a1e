package helpers

import (
	"context"
	"math"
	"time"

	"hrms-backend/models"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// FormatDate returns the local calendar date in YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func FormatMonth(t time.Time) string {
	return t.Format(models.MonthLayout)
}

func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, date, time.Local)
}

// DateInRange compares YYYY-MM-DD strings, bounds included.
func DateInRange(date, start, end string) bool {
	return start <= date && date <= end
}

// HoursBetween returns worked hours rounded to two decimals, never negative.
func HoursBetween(from, to time.Time) float64 {
	hours := to.Sub(from).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

func Ptr[T any](v T) *T {
	return &v
}
