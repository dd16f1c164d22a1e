package leavehandler

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	leavestore "hrms-backend/lib/leave/store"
	"hrms-backend/lib/notify"
	usersstore "hrms-backend/lib/users/store"
	"hrms-backend/lib/utils/helpers"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/models"
	leaveapimodels "hrms-backend/models/api/leave"
	dbmodels "hrms-backend/models/db"
	wsmodels "hrms-backend/models/ws"
)

type Provider interface {
	List(actor models.Actor, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error)
	Create(actor models.Actor, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error)
	UpdateStatus(actor models.Actor, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		leaveStore: leavestore.NewInstance(db.DB),
		userStore:  usersstore.NewInstance(db.DB),
		notifier:   notify.Instance,
		now:        time.Now,
	}
	initchecker.CheckInit(
		"leaveStore", instance.leaveStore,
		"userStore", instance.userStore,
		"notifier", instance.notifier,
	)
	Instance = instance
}

type impl struct {
	leaveStore leavestore.Provider
	userStore  usersstore.Provider
	notifier   notify.Provider
	now        func() time.Time
}

func (i impl) List(actor models.Actor, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error) {
	userID := filter.UserID
	if !actor.Role.IsAdmin() {
		userID = actor.UserID
	}
	list, err := i.leaveStore.List(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("leave list failed")
		return nil, err
	}
	result := make([]leaveapimodels.LeaveRequest, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) Create(actor models.Actor, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error) {
	if !actor.CanAccess(request.UserID) {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrForbidden, "leave can be requested for own account only")
	}
	user, err := i.userStore.GetByID(request.UserID)
	if err != nil {
		return leaveapimodels.LeaveRequest{}, err
	}
	if user == nil {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrBadRequest, "user not found")
	}
	rec := dbmodels.Leave{
		UserID:    request.UserID,
		Type:      request.Type,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		Reason:    strings.TrimSpace(request.Reason),
		Status:    models.LeavePending,
		AppliedOn: helpers.FormatDate(i.now()),
	}
	id, err := i.leaveStore.Create(rec)
	if err != nil {
		log.
			WithField("user_id", request.UserID).
			WithError(err).
			Error("leave create failed")
		return leaveapimodels.LeaveRequest{}, err
	}
	rec.ID = id
	rec.User = user
	return rec.ToModel(), nil
}

func (i impl) UpdateStatus(actor models.Actor, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error) {
	if !actor.Role.IsAdmin() {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrForbidden, "only an admin can review leave requests")
	}
	logger := log.
		WithField("leave_id", id).
		WithField("status", request.Status)
	rec, err := i.leaveStore.GetByID(id)
	if err != nil {
		logger.WithError(err).Error("leave lookup failed")
		return leaveapimodels.LeaveRequest{}, err
	}
	if rec == nil {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrNotFound, "leave request not found")
	}
	if !rec.Status.CanMoveTo(request.Status) {
		return leaveapimodels.LeaveRequest{}, errors.Wrapf(models.ErrConflict, "leave request is already %s", rec.Status)
	}
	updated, err := i.leaveStore.SetStatus(id, request.Status, request.GetComment())
	if err != nil {
		logger.WithError(err).Error("leave status update failed")
		return leaveapimodels.LeaveRequest{}, err
	}
	if !updated {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrConflict, "leave request was reviewed concurrently")
	}
	rec, err = i.leaveStore.GetByID(id)
	if err != nil {
		logger.WithError(err).Error("reviewed leave reload failed")
		return leaveapimodels.LeaveRequest{}, err
	}
	if rec == nil {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrNotFound, "leave request not found")
	}
	i.notifier.SendNotification(rec.UserID, wsmodels.LeaveStatusChangedCode,
		fmt.Sprintf("Leave request %s", strings.ToLower(string(rec.Status))),
		statusMessage(*rec))
	return rec.ToModel(), nil
}

func statusMessage(rec dbmodels.Leave) string {
	msg := fmt.Sprintf("Your %s leave request for %s - %s was %s.",
		strings.ToLower(string(rec.Type)), rec.StartDate, rec.EndDate, strings.ToLower(string(rec.Status)))
	if rec.AdminComment != nil && *rec.AdminComment != "" {
		msg += " Comment: " + *rec.AdminComment
	}
	return msg
}
