package attendancehandler

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	attendancestore "hrms-backend/lib/attendance/store"
	xlsexport "hrms-backend/lib/export/xls"
	leavestore "hrms-backend/lib/leave/store"
	usersstore "hrms-backend/lib/users/store"
	"hrms-backend/lib/utils/helpers"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/lib/utils/lock"
	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	List(actor models.Actor, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error)
	Save(ctx context.Context, actor models.Actor, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error)
	CheckIn(ctx context.Context, actor models.Actor, request attendanceapimodels.CheckInRequest) (attendanceapimodels.AttendanceRecord, error)
	CheckOut(ctx context.Context, actor models.Actor, request attendanceapimodels.CheckOutRequest) (attendanceapimodels.AttendanceRecord, error)
	Export(from, to string) (*bytes.Buffer, error)
	CloseStale(ctx context.Context) (int, error)
	MarkAbsent(ctx context.Context, date string) (int, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		attendanceStore: attendancestore.NewInstance(db.DB),
		userStore:       usersstore.NewInstance(db.DB),
		leaveStore:      leavestore.NewInstance(db.DB),
		exporter:        xlsexport.Instance,
		now:             time.Now,
	}
	initchecker.CheckInit(
		"attendanceStore", instance.attendanceStore,
		"userStore", instance.userStore,
		"leaveStore", instance.leaveStore,
		"exporter", instance.exporter,
	)
	Instance = instance
}

type impl struct {
	attendanceStore attendancestore.Provider
	userStore       usersstore.Provider
	leaveStore      leavestore.Provider
	exporter        xlsexport.Provider
	now             func() time.Time
}

const lockWait = 5 * time.Second

func lockKey(userID, date string) string {
	return "attendance:" + userID + ":" + date
}

func (i impl) List(actor models.Actor, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error) {
	if !actor.Role.IsAdmin() {
		filter.UserID = actor.UserID
	}
	list, err := i.attendanceStore.List(attendancestore.ListFilter{
		UserID: filter.UserID,
		Date:   filter.Date,
		From:   filter.From,
		To:     filter.To,
	})
	if err != nil {
		log.
			WithField("filter", filter).
			WithError(err).
			Error("attendance list failed")
		return nil, err
	}
	result := make([]attendanceapimodels.AttendanceRecord, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// Save creates the (userId, date) record or updates the existing one.
func (i impl) Save(ctx context.Context, actor models.Actor, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error) {
	if !actor.CanAccess(request.UserID) {
		return attendanceapimodels.AttendanceRecord{}, errors.Wrap(models.ErrForbidden, "attendance can be recorded for own account only")
	}
	checkIn, err := parseTimestamp(request.CheckIn)
	if err != nil {
		return attendanceapimodels.AttendanceRecord{}, err
	}
	checkOut, err := parseTimestamp(request.CheckOut)
	if err != nil {
		return attendanceapimodels.AttendanceRecord{}, err
	}
	var result dbmodels.Attendance
	err = i.withLock(ctx, request.UserID, request.Date, func() error {
		existing, err := i.attendanceStore.GetByUserDate(request.UserID, request.Date)
		if err != nil {
			return err
		}
		if existing == nil {
			rec := dbmodels.Attendance{
				UserID:   request.UserID,
				Date:     request.Date,
				CheckIn:  checkIn,
				CheckOut: checkOut,
				Status:   request.Status,
				Mood:     request.Mood,
			}
			if rec.Status == "" {
				rec.Status = models.AttendancePresent
			}
			rec.TotalHours = totalHours(rec.CheckIn, rec.CheckOut, request.TotalHours)
			id, err := i.attendanceStore.Create(rec)
			if err != nil {
				return err
			}
			rec.ID = id
			result = rec
			return nil
		}
		updMap := map[string]interface{}{}
		if checkIn != nil && existing.CheckIn == nil {
			existing.CheckIn = checkIn
			updMap["check_in"] = *checkIn
		}
		if checkOut != nil {
			existing.CheckOut = checkOut
			updMap["check_out"] = *checkOut
		}
		if request.Status != "" {
			existing.Status = request.Status
			updMap["status"] = request.Status
		}
		if request.Mood != nil {
			existing.Mood = request.Mood
			updMap["mood"] = *request.Mood
		}
		if hours := totalHours(existing.CheckIn, existing.CheckOut, request.TotalHours); hours != nil {
			existing.TotalHours = hours
			updMap["total_hours"] = *hours
		}
		if len(updMap) > 0 {
			if err := i.attendanceStore.Update(existing.ID, updMap); err != nil {
				return err
			}
		}
		result = *existing
		return nil
	})
	if err != nil {
		log.
			WithField("user_id", request.UserID).
			WithField("date", request.Date).
			WithError(err).
			Error("attendance save failed")
		return attendanceapimodels.AttendanceRecord{}, err
	}
	return result.ToModel(), nil
}

// CheckIn returns the existing record when the user already has one for today.
func (i impl) CheckIn(ctx context.Context, actor models.Actor, request attendanceapimodels.CheckInRequest) (attendanceapimodels.AttendanceRecord, error) {
	if !actor.CanAccess(request.UserID) {
		return attendanceapimodels.AttendanceRecord{}, errors.Wrap(models.ErrForbidden, "attendance can be recorded for own account only")
	}
	now := i.now()
	date := helpers.FormatDate(now)
	var result dbmodels.Attendance
	err := i.withLock(ctx, request.UserID, date, func() error {
		existing, err := i.attendanceStore.GetByUserDate(request.UserID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			result = *existing
			return nil
		}
		rec := dbmodels.Attendance{
			UserID:  request.UserID,
			Date:    date,
			CheckIn: &now,
			Status:  models.AttendancePresent,
			Mood:    request.Mood,
		}
		id, err := i.attendanceStore.Create(rec)
		if err != nil {
			return err
		}
		rec.ID = id
		result = rec
		return nil
	})
	if err != nil {
		log.
			WithField("user_id", request.UserID).
			WithError(err).
			Error("check-in failed")
		return attendanceapimodels.AttendanceRecord{}, err
	}
	return result.ToModel(), nil
}

func (i impl) CheckOut(ctx context.Context, actor models.Actor, request attendanceapimodels.CheckOutRequest) (attendanceapimodels.AttendanceRecord, error) {
	if !actor.CanAccess(request.UserID) {
		return attendanceapimodels.AttendanceRecord{}, errors.Wrap(models.ErrForbidden, "attendance can be recorded for own account only")
	}
	now := i.now()
	date := helpers.FormatDate(now)
	var result dbmodels.Attendance
	err := i.withLock(ctx, request.UserID, date, func() error {
		existing, err := i.attendanceStore.GetByUserDate(request.UserID, date)
		if err != nil {
			return err
		}
		if existing == nil || existing.CheckIn == nil || existing.CheckOut != nil {
			return errors.Wrap(models.ErrNotFound, "no open check-in for today")
		}
		hours := helpers.HoursBetween(*existing.CheckIn, now)
		err = i.attendanceStore.Update(existing.ID, map[string]interface{}{
			"check_out":   now,
			"total_hours": hours,
		})
		if err != nil {
			return err
		}
		existing.CheckOut = &now
		existing.TotalHours = &hours
		result = *existing
		return nil
	})
	if err != nil {
		return attendanceapimodels.AttendanceRecord{}, err
	}
	return result.ToModel(), nil
}

func (i impl) Export(from, to string) (*bytes.Buffer, error) {
	list, err := i.attendanceStore.List(attendancestore.ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	rows := make([]xlsexport.AttendanceRow, 0, len(list))
	for _, rec := range list {
		row := xlsexport.AttendanceRow{AttendanceRecord: rec.ToModel()}
		if rec.User != nil {
			row.UserName = rec.User.Name
			row.Department = rec.User.Department
		}
		rows = append(rows, row)
	}
	return i.exporter.ExportAttendance(rows)
}

// CloseStale marks records from previous days that were never checked out as HALF_DAY.
func (i impl) CloseStale(ctx context.Context) (int, error) {
	today := helpers.FormatDate(i.now())
	list, err := i.attendanceStore.ListOpenBefore(today)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		err = i.attendanceStore.Update(rec.ID, map[string]interface{}{
			"status": models.AttendanceHalfDay,
		})
		if err != nil {
			log.
				WithField("attendance_id", rec.ID).
				WithError(err).
				Error("stale attendance close failed")
			continue
		}
		closed++
	}
	return closed, nil
}

// MarkAbsent writes LEAVE or ABSENT records for users without attendance on date.
func (i impl) MarkAbsent(ctx context.Context, date string) (int, error) {
	users, err := i.userStore.List()
	if err != nil {
		return 0, err
	}
	leaves, err := i.leaveStore.ListApprovedOn(date)
	if err != nil {
		return 0, err
	}
	onLeave := map[string]bool{}
	for _, l := range leaves {
		onLeave[l.UserID] = true
	}
	marked := 0
	for _, user := range users {
		if helpers.IsContextDone(ctx) {
			break
		}
		status := models.AttendanceAbsent
		if onLeave[user.ID] {
			status = models.AttendanceLeave
		}
		err = i.withLock(ctx, user.ID, date, func() error {
			existing, err := i.attendanceStore.GetByUserDate(user.ID, date)
			if err != nil || existing != nil {
				return err
			}
			_, err = i.attendanceStore.Create(dbmodels.Attendance{
				UserID: user.ID,
				Date:   date,
				Status: status,
			})
			if err == nil {
				marked++
			}
			return err
		})
		if err != nil {
			log.
				WithField("user_id", user.ID).
				WithField("date", date).
				WithError(err).
				Error("absence mark failed")
		}
	}
	return marked, nil
}

func (i impl) withLock(ctx context.Context, userID, date string, safeCode func() error) error {
	ok, err := lock.WithDelay(ctx, lockKey(userID, date), lockWait, safeCode)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(models.ErrConflict, "attendance record is busy, try again")
	}
	return nil
}

func parseTimestamp(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, errors.Wrap(models.ErrBadRequest, "timestamps must be RFC3339")
	}
	return &t, nil
}

// totalHours prefers the server computed value, the advisory one is kept only when it cannot be computed.
func totalHours(checkIn, checkOut *time.Time, advisory *float64) *float64 {
	if checkIn != nil && checkOut != nil {
		hours := helpers.HoursBetween(*checkIn, *checkOut)
		return &hours
	}
	return advisory
}
