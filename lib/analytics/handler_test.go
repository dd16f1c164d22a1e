package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	attendancestore "hrms-backend/lib/attendance/store"
	"hrms-backend/lib/utils/helpers"
	"hrms-backend/models"
	dbmodels "hrms-backend/models/db"
)

type fakeAttendanceStore struct {
	recs []dbmodels.Attendance
}

func (f fakeAttendanceStore) Create(rec dbmodels.Attendance) (string, error)        { return "", nil }
func (f fakeAttendanceStore) Update(id string, updMap map[string]interface{}) error { return nil }
func (f fakeAttendanceStore) GetByID(id string) (*dbmodels.Attendance, error)       { return nil, nil }
func (f fakeAttendanceStore) GetByUserDate(u, d string) (*dbmodels.Attendance, error) {
	return nil, nil
}
func (f fakeAttendanceStore) ListOpenBefore(date string) ([]dbmodels.Attendance, error) {
	return nil, nil
}

func (f fakeAttendanceStore) List(filter attendancestore.ListFilter) ([]dbmodels.Attendance, error) {
	var list []dbmodels.Attendance
	for _, r := range f.recs {
		if (filter.From == "" || r.Date >= filter.From) && (filter.To == "" || r.Date <= filter.To) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (f fakeAttendanceStore) CountByStatus(date string, status models.AttendanceStatus) (int64, error) {
	var n int64
	for _, r := range f.recs {
		if r.Date == date && r.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	users []dbmodels.User
}

func (f fakeUserStore) Create(rec dbmodels.User) (string, error)                  { return rec.ID, nil }
func (f fakeUserStore) Update(userID string, updMap map[string]interface{}) error { return nil }
func (f fakeUserStore) Delete(userID string) error                                { return nil }
func (f fakeUserStore) List() ([]dbmodels.User, error)                            { return f.users, nil }
func (f fakeUserStore) GetByID(userID string) (*dbmodels.User, error)             { return nil, nil }
func (f fakeUserStore) FindByEmail(email string) (*dbmodels.User, error)          { return nil, nil }
func (f fakeUserStore) ExistByEmail(email string) (bool, error)                   { return false, nil }
func (f fakeUserStore) Count() (int64, error)                                     { return int64(len(f.users)), nil }

type fakeLeaveStore struct {
	leaves []dbmodels.Leave
}

func (f fakeLeaveStore) Create(rec dbmodels.Leave) (string, error)    { return "", nil }
func (f fakeLeaveStore) GetByID(id string) (*dbmodels.Leave, error)   { return nil, nil }
func (f fakeLeaveStore) List(userID string) ([]dbmodels.Leave, error) { return f.leaves, nil }
func (f fakeLeaveStore) SetStatus(id string, s models.LeaveStatus, c *string) (bool, error) {
	return false, nil
}

func (f fakeLeaveStore) ListApprovedOn(date string) ([]dbmodels.Leave, error) {
	var list []dbmodels.Leave
	for _, l := range f.leaves {
		if l.Status == models.LeaveApproved && helpers.DateInRange(date, l.StartDate, l.EndDate) {
			list = append(list, l)
		}
	}
	return list, nil
}

func (f fakeLeaveStore) CountByStatus(status models.LeaveStatus) (int64, error) {
	var n int64
	for _, l := range f.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func record(userID, date string, hours float64, mood models.Mood) dbmodels.Attendance {
	return dbmodels.Attendance{
		UserID:     userID,
		Date:       date,
		Status:     models.AttendancePresent,
		TotalHours: helpers.Ptr(hours),
		Mood:       &mood,
	}
}

func newTestHandler(recs []dbmodels.Attendance) impl {
	return impl{
		userStore: fakeUserStore{users: []dbmodels.User{
			{BaseModel: dbmodels.BaseModel{ID: "u1"}, Name: "Jane"},
			{BaseModel: dbmodels.BaseModel{ID: "u2"}, Name: "Bob"},
			{BaseModel: dbmodels.BaseModel{ID: "u3"}, Name: "Ann"},
		}},
		attendanceStore: fakeAttendanceStore{recs: recs},
		leaveStore: fakeLeaveStore{leaves: []dbmodels.Leave{
			{UserID: "u3", Status: models.LeaveApproved, StartDate: "2024-05-09", EndDate: "2024-05-11"},
			{UserID: "u2", Status: models.LeavePending, StartDate: "2024-06-01", EndDate: "2024-06-02"},
		}},
		now: func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local) },
	}
}

func TestBurnout(t *testing.T) {
	h := newTestHandler([]dbmodels.Attendance{
		// long hours
		record("u1", "2024-05-08", 10, models.MoodHappy),
		record("u1", "2024-05-09", 11, models.MoodHappy),
		// mostly negative mood
		record("u2", "2024-05-07", 8, models.MoodTired),
		record("u2", "2024-05-08", 8, models.MoodStressed),
		record("u2", "2024-05-09", 8, models.MoodHappy),
		// outside the window
		record("u3", "2024-04-01", 14, models.MoodSad),
		record("u3", "2024-04-02", 14, models.MoodSad),
		record("u3", "2024-04-03", 14, models.MoodSad),
	})
	risks, err := h.BurnoutRisks()
	require.NoError(t, err)
	require.Len(t, risks, 2)
	require.Equal(t, "u1", risks[0].ID)
	require.Equal(t, 10.5, risks[0].AvgHours)
	require.Equal(t, "u2", risks[1].ID)
	require.Equal(t, 0.67, risks[1].NegativeMoodShare)
}

func TestHappiness(t *testing.T) {
	t.Run("default distribution", func(t *testing.T) {
		buckets, err := newTestHandler(nil).Happiness()
		require.NoError(t, err)
		require.Len(t, buckets, 3)
		require.Equal(t, "Happy", buckets[0].Name)
		require.Equal(t, 70, buckets[0].Value)
		require.Equal(t, "#EF4444", buckets[2].Color)
	})
	t.Run("from moods", func(t *testing.T) {
		h := newTestHandler([]dbmodels.Attendance{
			record("u1", "2024-05-08", 8, models.MoodHappy),
			record("u1", "2024-05-09", 8, models.MoodHappy),
			record("u2", "2024-05-09", 8, models.MoodNeutral),
			record("u3", "2024-05-09", 8, models.MoodSad),
		})
		buckets, err := h.Happiness()
		require.NoError(t, err)
		require.Equal(t, 50, buckets[0].Value)
		require.Equal(t, 25, buckets[1].Value)
		require.Equal(t, 25, buckets[2].Value)
	})
}

func TestStats(t *testing.T) {
	h := newTestHandler([]dbmodels.Attendance{
		record("u1", "2024-05-10", 8, models.MoodHappy),
		record("u2", "2024-05-09", 8, models.MoodHappy),
	})
	stats, err := h.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalEmployees)
	require.Equal(t, 1, stats.PresentToday)
	require.Equal(t, 1, stats.OnLeave)
	require.Equal(t, 1, stats.PendingLeaves)
}
