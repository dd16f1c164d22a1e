package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"hrms-backend/lib/hrms-client/apiclient"
	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	usersapimodels "hrms-backend/models/api/users"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeAPI, TokenStorage, *testClock) {
	api := newFakeAPI()
	storage := NewMemoryStorage()
	clock := &testClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	store, err := NewStore(api, storage, WithClock(clock.Now))
	require.NoError(t, err)
	return store, api, storage, clock
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	t.Run("valid credentials", func(t *testing.T) {
		store, _, storage, _ := newTestStore(t)
		ok, err := store.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)
		require.True(t, ok)

		identity, loggedIn := store.Identity()
		require.True(t, loggedIn)
		require.Equal(t, "a1", identity.ID)
		require.True(t, store.IsAdmin())
		require.Len(t, store.Users(), 2)

		value, found, err := storage.Get(TokenKey)
		require.NoError(t, err)
		require.True(t, found)
		stored, err := decodeSession(value)
		require.NoError(t, err)
		require.Equal(t, "a1", stored.User.ID)
		require.Equal(t, "token-a1", stored.Token)
	})
	t.Run("wrong password", func(t *testing.T) {
		store, _, storage, _ := newTestStore(t)
		ok, err := store.Login(ctx, "admin@hrms.com", "wrong")
		require.NoError(t, err)
		require.False(t, ok)
		require.False(t, store.IsLoggedIn())
		_, found, err := storage.Get(TokenKey)
		require.NoError(t, err)
		require.False(t, found)
	})
	t.Run("refresh failure keeps the session", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		api.failAttendance = true
		ok, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.Error(t, err)
		require.True(t, ok)
		require.True(t, store.IsLoggedIn())
		require.Empty(t, store.Users())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store, _, storage, _ := newTestStore(t)
	ok, err := store.Login(ctx, "jane@hrms.com", "jane123")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, store.Users())

	require.NoError(t, store.Logout())
	require.False(t, store.IsLoggedIn())
	require.Empty(t, store.Users())
	require.Empty(t, store.Attendance())
	require.Empty(t, store.Leaves())
	_, found, err := storage.Get(TokenKey)
	require.NoError(t, err)
	require.False(t, found)

	require.ErrorIs(t, store.CheckIn(ctx, nil), ErrNotLoggedIn)
}

func TestRestore(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		api := newFakeAPI()
		storage := NewMemoryStorage()
		value, err := encodeSession(storedSession{User: api.users[1], Token: "token-u1"})
		require.NoError(t, err)
		require.NoError(t, storage.Set(TokenKey, value))

		store, err := NewStore(api, storage)
		require.NoError(t, err)
		identity, ok := store.Identity()
		require.True(t, ok)
		require.Equal(t, "u1", identity.ID)
		require.Equal(t, "token-u1", api.token)
	})
	t.Run("corrupt session is removed", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(TokenKey, "%%%not-base64"))

		store, err := NewStore(newFakeAPI(), storage)
		require.NoError(t, err)
		require.False(t, store.IsLoggedIn())
		_, found, err := storage.Get(TokenKey)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func TestAttendance(t *testing.T) {
	ctx := context.Background()
	t.Run("check-in is idempotent per day", func(t *testing.T) {
		store, api, _, clock := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)

		mood := models.MoodHappy
		require.NoError(t, store.CheckIn(ctx, &mood))
		first := TodayRecord(store.Snapshot(), "u1", "2024-05-10")
		require.NotNil(t, first)

		clock.Advance(time.Hour)
		require.NoError(t, store.CheckIn(ctx, nil))
		require.Equal(t, 1, api.countAttendance("u1", "2024-05-10"))
		second := TodayRecord(store.Snapshot(), "u1", "2024-05-10")
		require.Equal(t, *first.CheckIn, *second.CheckIn)
		require.Equal(t, models.AttendancePresent, second.Status)
	})
	t.Run("check-out without check-in does nothing", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)

		require.NoError(t, store.CheckOut(ctx))
		require.Empty(t, api.saveCalls)
	})
	t.Run("check-out sends worked hours", func(t *testing.T) {
		store, api, _, clock := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)
		require.NoError(t, store.CheckIn(ctx, nil))

		clock.Advance(8*time.Hour + 30*time.Minute)
		require.NoError(t, store.CheckOut(ctx))

		require.Len(t, api.saveCalls, 2)
		last := api.saveCalls[1]
		require.NotNil(t, last.TotalHours)
		require.Equal(t, 8.5, *last.TotalHours)
		rec := TodayRecord(store.Snapshot(), "u1", "2024-05-10")
		require.NotNil(t, rec.CheckOut)
	})
	t.Run("check-out with a broken check-in time fails", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		broken := "09:00"
		api.attendance = append(api.attendance, attendanceapimodels.AttendanceRecord{
			ID: "r1", UserID: "u1", Date: "2024-05-10", CheckIn: &broken, Status: models.AttendancePresent,
		})
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)

		err = store.CheckOut(ctx)
		require.Error(t, err)
		require.Contains(t, err.Error(), "r1")
		require.Empty(t, api.saveCalls)
	})
	t.Run("unknown mood", func(t *testing.T) {
		store, _, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)
		mood := models.Mood("ANGRY")
		require.ErrorIs(t, store.CheckIn(ctx, &mood), ErrValidation)
	})
}

func TestLeaves(t *testing.T) {
	ctx := context.Background()
	request := leaveapimodels.LeaveRequest{
		Type:      models.LeaveSick,
		StartDate: "2024-05-13",
		EndDate:   "2024-05-14",
		Reason:    "flu",
	}

	t.Run("apply then approve", func(t *testing.T) {
		api := newFakeAPI()
		employee, err := NewStore(api, NewMemoryStorage())
		require.NoError(t, err)
		_, err = employee.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)
		require.NoError(t, employee.ApplyLeave(ctx, request))

		leaves := employee.Leaves()
		require.Len(t, leaves, 1)
		require.Equal(t, models.LeavePending, leaves[0].Status)
		require.Equal(t, "u1", leaves[0].UserID)
		before := LeaveCounts(employee.Snapshot(), "u1")

		admin, err := NewStore(api, NewMemoryStorage())
		require.NoError(t, err)
		_, err = admin.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)
		comment := "get well"
		require.NoError(t, admin.UpdateLeaveStatus(ctx, leaves[0].ID, models.LeaveApproved, &comment))

		api.SetToken("token-u1")
		require.NoError(t, employee.Refresh(ctx))
		after := LeaveCounts(employee.Snapshot(), "u1")
		require.Equal(t, before[models.LeaveApproved]+1, after[models.LeaveApproved])
		require.Equal(t, before[models.LeavePending]-1, after[models.LeavePending])
		require.Equal(t, "get well", *employee.Leaves()[0].AdminComment)
	})
	t.Run("terminal request cannot move again", func(t *testing.T) {
		store, _, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)
		require.NoError(t, store.ApplyLeave(ctx, request))
		id := store.Leaves()[0].ID
		require.NoError(t, store.UpdateLeaveStatus(ctx, id, models.LeaveRejected, nil))
		snap := store.Snapshot()

		err = store.UpdateLeaveStatus(ctx, id, models.LeaveApproved, nil)
		require.Error(t, err)
		require.True(t, apiclient.IsConflict(err))
		require.Equal(t, snap, store.Snapshot())
		require.Equal(t, models.LeaveRejected, store.Leaves()[0].Status)
	})
	t.Run("employee cannot review", func(t *testing.T) {
		store, _, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)
		require.ErrorIs(t, store.UpdateLeaveStatus(ctx, "l1", models.LeaveApproved, nil), ErrForbidden)
	})
	t.Run("validation", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)

		bad := request
		bad.EndDate = "2024-05-12"
		require.ErrorIs(t, store.ApplyLeave(ctx, bad), ErrValidation)
		bad = request
		bad.Reason = "   "
		require.ErrorIs(t, store.ApplyLeave(ctx, bad), ErrValidation)
		bad = request
		bad.Type = ""
		require.ErrorIs(t, store.ApplyLeave(ctx, bad), ErrValidation)
		require.Empty(t, api.leaves)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store, _, storage, _ := newTestStore(t)
	_, err := store.Login(ctx, "jane@hrms.com", "jane123")
	require.NoError(t, err)

	identity, _ := store.Identity()
	address := "Main st. 1"
	identity.Address = &address
	updated, err := store.UpdateProfile(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, address, *updated.Address)

	current, ok := store.Identity()
	require.True(t, ok)
	require.Equal(t, updated, current)
	require.Equal(t, "+1 555 0100", *current.Phone)

	value, _, err := storage.Get(TokenKey)
	require.NoError(t, err)
	stored, err := decodeSession(value)
	require.NoError(t, err)
	require.Equal(t, address, *stored.User.Address)
	require.Equal(t, "token-u1", stored.Token)

	t.Run("logout during update keeps the store logged out", func(t *testing.T) {
		store, api, storage, _ := newTestStore(t)
		_, err := store.Login(ctx, "jane@hrms.com", "jane123")
		require.NoError(t, err)
		api.mu.Lock()
		api.updateUserHook = func() {
			_ = store.Logout()
		}
		api.mu.Unlock()

		identity, _ := store.Identity()
		identity.Position = "Lead"
		updated, err := store.UpdateProfile(ctx, identity)
		require.NoError(t, err)
		require.Equal(t, "Lead", updated.Position)
		require.False(t, store.IsLoggedIn())
		require.Empty(t, store.Users())
		_, found, err := storage.Get(TokenKey)
		require.NoError(t, err)
		require.False(t, found)
	})
	t.Run("other user keeps identity", func(t *testing.T) {
		admin, _, _, _ := newTestStore(t)
		_, err := admin.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)
		other := admin.Users()[1]
		other.Department = "Marketing"
		_, err = admin.UpdateProfile(ctx, other)
		require.NoError(t, err)
		self, _ := admin.Identity()
		require.Equal(t, "a1", self.ID)
		require.Equal(t, "Marketing", FilterDirectory(admin.Users(), "jane")[0].Department)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := newTestStore(t)
	_, err := store.Login(ctx, "admin@hrms.com", "admin123")
	require.NoError(t, err)

	user, err := store.Register(ctx, authRegister("Bob", "bob@hrms.com"))
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	identity, _ := store.Identity()
	require.Equal(t, "a1", identity.ID)
	require.Len(t, store.Users(), 3)
}

func TestStaleRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("older refresh is discarded", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)

		entered := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		api.mu.Lock()
		api.listUsersHook = func() {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
			}
		}
		api.mu.Unlock()

		done := make(chan error, 1)
		go func() {
			done <- store.Refresh(ctx)
		}()
		<-entered
		api.addUser(usersapimodels.User{ID: "u9", Name: "Late Hire", Email: "late@hrms.com", Role: models.EmployeeRole})
		require.NoError(t, store.Refresh(ctx))
		require.Len(t, store.Users(), 3)

		close(release)
		require.NoError(t, <-done)
		require.Len(t, store.Users(), 3)
	})
	t.Run("logout wins over a refresh in flight", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)

		entered := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		api.mu.Lock()
		api.listUsersHook = func() {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
			}
		}
		api.mu.Unlock()

		done := make(chan error, 1)
		go func() {
			done <- store.Refresh(ctx)
		}()
		<-entered
		require.NoError(t, store.Logout())
		close(release)
		require.NoError(t, <-done)
		require.False(t, store.IsLoggedIn())
		require.Empty(t, store.Users())
	})
	t.Run("older refresh applies when the newer one fails", func(t *testing.T) {
		store, api, _, _ := newTestStore(t)
		_, err := store.Login(ctx, "admin@hrms.com", "admin123")
		require.NoError(t, err)
		api.addUser(usersapimodels.User{ID: "u9", Name: "Late Hire", Email: "late@hrms.com", Role: models.EmployeeRole})

		entered := make(chan struct{})
		release := make(chan struct{})
		firstAttendance := make(chan struct{})
		var userCalls, attendanceCalls atomic.Int32
		api.mu.Lock()
		api.listUsersHook = func() {
			if userCalls.Add(1) == 1 {
				close(entered)
				<-release
			}
		}
		api.attendanceHook = func() error {
			if attendanceCalls.Add(1) == 1 {
				close(firstAttendance)
				return nil
			}
			return &apiclient.APIError{StatusCode: http.StatusInternalServerError}
		}
		api.mu.Unlock()

		done := make(chan error, 1)
		go func() {
			done <- store.Refresh(ctx)
		}()
		<-entered
		<-firstAttendance
		require.Error(t, store.Refresh(ctx))
		require.Len(t, store.Users(), 2)

		close(release)
		require.NoError(t, <-done)
		require.Len(t, store.Users(), 3)
	})
}

func authRegister(name, email string) authapimodels.RegisterRequest {
	return authapimodels.RegisterRequest{
		User: usersapimodels.User{
			Name:       name,
			Email:      email,
			Role:       models.EmployeeRole,
			Department: "Support",
			JoinDate:   "2024-05-01",
		},
		Password: "secret",
	}
}
