package attendanceapimodels

import (
	"time"

	"github.com/pkg/errors"
	"hrms-backend/models"
)

type AttendanceRecord struct {
	ID         string                  `json:"id"`
	UserID     string                  `json:"userId"`
	Date       string                  `json:"date"`
	CheckIn    *string                 `json:"checkIn,omitempty"`
	CheckOut   *string                 `json:"checkOut,omitempty"`
	Status     models.AttendanceStatus `json:"status"`
	TotalHours *float64                `json:"totalHours,omitempty"`
	Mood       *models.Mood            `json:"mood,omitempty"`
}

// SaveRequest is an upsert keyed by (userId, date).
type SaveRequest struct {
	UserID     string                  `json:"userId"`
	Date       string                  `json:"date"`
	CheckIn    *string                 `json:"checkIn,omitempty"`
	CheckOut   *string                 `json:"checkOut,omitempty"`
	Status     models.AttendanceStatus `json:"status,omitempty"`
	TotalHours *float64                `json:"totalHours,omitempty"` // advisory, recomputed by the server
	Mood       *models.Mood            `json:"mood,omitempty"`
}

func (r SaveRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("userId is required")
	}
	if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	if r.Status != "" && !r.Status.IsValid() {
		return errors.Errorf("unknown attendance status: %v", r.Status)
	}
	if r.Mood != nil && !r.Mood.IsValid() {
		return errors.Errorf("unknown mood: %v", *r.Mood)
	}
	for _, ts := range []*string{r.CheckIn, r.CheckOut} {
		if ts == nil {
			continue
		}
		if _, err := time.Parse(time.RFC3339, *ts); err != nil {
			return errors.New("check-in/check-out must be RFC3339 timestamps")
		}
	}
	return nil
}

type CheckInRequest struct {
	UserID string       `json:"userId"`
	Mood   *models.Mood `json:"mood,omitempty"`
}

func (r CheckInRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("userId is required")
	}
	if r.Mood != nil && !r.Mood.IsValid() {
		return errors.Errorf("unknown mood: %v", *r.Mood)
	}
	return nil
}

type CheckOutRequest struct {
	UserID string `json:"userId"`
}

func (r CheckOutRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("userId is required")
	}
	return nil
}

type Filter struct {
	UserID string `query:"userId"`
	Date   string `query:"date"`
	From   string `query:"from"`
	To     string `query:"to"`
}

func (f Filter) Validate() error {
	for name, value := range map[string]string{"date": f.Date, "from": f.From, "to": f.To} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, value); err != nil {
			return errors.Errorf("%s must be YYYY-MM-DD", name)
		}
	}
	if f.From != "" && f.To != "" && f.To < f.From {
		return errors.New("to must not be before from")
	}
	return nil
}
