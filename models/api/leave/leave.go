package leaveapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"hrms-backend/models"
)

type LeaveRequest struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	UserName     string             `json:"userName,omitempty"`
	Type         models.LeaveType   `json:"type"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	Reason       string             `json:"reason"`
	Status       models.LeaveStatus `json:"status"`
	AdminComment *string            `json:"adminComment,omitempty"`
	AppliedOn    string             `json:"appliedOn,omitempty"`
}

type CreateLeave struct {
	UserID    string           `json:"userId"`
	Type      models.LeaveType `json:"type"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Reason    string           `json:"reason"`
}

func (r CreateLeave) Validate() error {
	if r.UserID == "" {
		return errors.New("userId is required")
	}
	if !r.Type.IsValid() {
		return errors.Errorf("unknown leave type: %v", r.Type)
	}
	start, err := time.Parse(models.DateLayout, r.StartDate)
	if err != nil {
		return errors.New("startDate must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(models.DateLayout, r.EndDate)
	if err != nil {
		return errors.New("endDate must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return errors.New("endDate must not be before startDate")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("reason is required")
	}
	return nil
}

// StatusUpdate accepts both "comment" and "adminComment" spellings.
type StatusUpdate struct {
	Status       models.LeaveStatus `json:"status"`
	Comment      *string            `json:"comment,omitempty"`
	AdminComment *string            `json:"adminComment,omitempty"`
}

func (r StatusUpdate) Validate() error {
	if !r.Status.IsTerminal() {
		return errors.New("status must be APPROVED or REJECTED")
	}
	return nil
}

func (r StatusUpdate) GetComment() *string {
	if r.AdminComment != nil && *r.AdminComment != "" {
		return r.AdminComment
	}
	if r.Comment != nil && *r.Comment != "" {
		return r.Comment
	}
	return nil
}

type Filter struct {
	UserID string `query:"userId"`
}
