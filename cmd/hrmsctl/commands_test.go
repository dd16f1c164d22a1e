package main

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"hrms-backend/lib/hrms-client/apiclient"
	"hrms-backend/lib/hrms-client/session"
	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	usersapimodels "hrms-backend/models/api/users"
)

// fakeBackend serves the endpoints the commands below use, other calls hit the nil Provider and panic.
type fakeBackend struct {
	apiclient.Provider

	mu         sync.Mutex
	users      []usersapimodels.User
	attendance []attendanceapimodels.AttendanceRecord
	leaves     []leaveapimodels.LeaveRequest
	saves      []attendanceapimodels.SaveRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: []usersapimodels.User{
			{ID: "a1", Name: "Admin User", Email: "admin@hrms.com", Role: models.AdminRole, Department: "IT"},
			{ID: "u1", Name: "Jane Doe", Email: "jane@hrms.com", Role: models.EmployeeRole, Department: "Sales"},
		},
		leaves: []leaveapimodels.LeaveRequest{
			{ID: "l1", UserID: "u1", Type: models.LeaveSick, StartDate: "2024-05-13", EndDate: "2024-05-14", Reason: "flu", Status: models.LeavePending},
		},
	}
}

func (f *fakeBackend) SetToken(token string) {}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (authapimodels.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return authapimodels.LoginResponse{User: user, Token: "token-" + user.ID}, nil
		}
	}
	return authapimodels.LoginResponse{}, apiclient.ErrInvalidCredentials
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]usersapimodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]usersapimodels.User{}, f.users...), nil
}

func (f *fakeBackend) ListAttendance(ctx context.Context, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]attendanceapimodels.AttendanceRecord{}, f.attendance...), nil
}

func (f *fakeBackend) ListLeaves(ctx context.Context, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leaveapimodels.LeaveRequest{}, f.leaves...), nil
}

func (f *fakeBackend) SaveAttendance(ctx context.Context, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, request)
	for idx, rec := range f.attendance {
		if rec.UserID == request.UserID && rec.Date == request.Date {
			if request.CheckOut != nil {
				rec.CheckOut = request.CheckOut
				rec.TotalHours = request.TotalHours
			}
			f.attendance[idx] = rec
			return rec, nil
		}
	}
	rec := attendanceapimodels.AttendanceRecord{
		ID:      "r1",
		UserID:  request.UserID,
		Date:    request.Date,
		CheckIn: request.CheckIn,
		Status:  request.Status,
		Mood:    request.Mood,
	}
	f.attendance = append(f.attendance, rec)
	return rec, nil
}

func (f *fakeBackend) UpdateLeaveStatus(ctx context.Context, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for idx, rec := range f.leaves {
		if rec.ID != id {
			continue
		}
		if !rec.Status.CanMoveTo(request.Status) {
			return leaveapimodels.LeaveRequest{}, &apiclient.APIError{StatusCode: http.StatusConflict}
		}
		rec.Status = request.Status
		rec.AdminComment = request.GetComment()
		f.leaves[idx] = rec
		return rec, nil
	}
	return leaveapimodels.LeaveRequest{}, &apiclient.APIError{StatusCode: http.StatusNotFound}
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		email     string
		seed      func(backend *fakeBackend)
		args      []string
		wantErr   string
		wantOut   []string
		rejectOut []string
		check     func(t *testing.T, backend *fakeBackend)
	}{
		{
			name:    "check-in with mood",
			email:   "jane@hrms.com",
			args:    []string{"checkin", "--mood", "happy"},
			wantOut: []string{"2024-05-10  in: 2024-05-10T09:00:00Z  out: -"},
			check: func(t *testing.T, backend *fakeBackend) {
				require.Len(t, backend.saves, 1)
				require.Equal(t, models.MoodHappy, *backend.saves[0].Mood)
			},
		},
		{
			name:    "check-out without check-in",
			email:   "jane@hrms.com",
			args:    []string{"checkout"},
			wantOut: []string{"not checked in today"},
			check: func(t *testing.T, backend *fakeBackend) {
				require.Empty(t, backend.saves)
			},
		},
		{
			name:  "check-out after check-in",
			email: "jane@hrms.com",
			seed: func(backend *fakeBackend) {
				checkIn := "2024-05-10T07:30:00Z"
				backend.attendance = append(backend.attendance, attendanceapimodels.AttendanceRecord{
					ID: "r1", UserID: "u1", Date: "2024-05-10", CheckIn: &checkIn, Status: models.AttendancePresent,
				})
			},
			args:    []string{"checkout"},
			wantOut: []string{"out: 2024-05-10T09:00:00Z  hours: 1.50"},
			check: func(t *testing.T, backend *fakeBackend) {
				require.Len(t, backend.saves, 1)
				require.Equal(t, 1.5, *backend.saves[0].TotalHours)
			},
		},
		{
			name:    "admin approves leave",
			email:   "admin@hrms.com",
			args:    []string{"leave", "approve", "l1", "--comment", "get well"},
			wantOut: []string{"done, pending requests: 0"},
			check: func(t *testing.T, backend *fakeBackend) {
				require.Equal(t, models.LeaveApproved, backend.leaves[0].Status)
				require.Equal(t, "get well", *backend.leaves[0].AdminComment)
			},
		},
		{
			name:    "employee cannot approve leave",
			email:   "jane@hrms.com",
			args:    []string{"leave", "approve", "l1"},
			wantErr: session.ErrForbidden.Error(),
			check: func(t *testing.T, backend *fakeBackend) {
				require.Equal(t, models.LeavePending, backend.leaves[0].Status)
			},
		},
		{
			name:    "leave list for employee",
			email:   "jane@hrms.com",
			args:    []string{"leave", "list", "--status", "pending"},
			wantOut: []string{"l1", "Jane Doe", "SICK", "flu"},
		},
		{
			name:      "directory search",
			email:     "admin@hrms.com",
			args:      []string{"users", "--search", "sales"},
			wantOut:   []string{"Jane Doe", "jane@hrms.com"},
			rejectOut: []string{"Admin User"},
		},
		{
			name:    "not logged in",
			args:    []string{"leave", "list"},
			wantErr: "not logged in",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			if tt.seed != nil {
				tt.seed(backend)
			}
			store, err := session.NewStore(backend, session.NewMemoryStorage(), session.WithClock(now))
			require.NoError(t, err)
			if tt.email != "" {
				ok, err := store.Login(ctx, tt.email, "secret")
				require.NoError(t, err)
				require.True(t, ok)
			}

			a := &app{client: backend, store: store, opts: &rootOptions{}, now: now}
			cmd := newRootCmdFor(a)
			out := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetErr(out)
			cmd.SetArgs(tt.args)
			err = cmd.ExecuteContext(ctx)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				require.Contains(t, out.String(), want)
			}
			for _, reject := range tt.rejectOut {
				require.NotContains(t, out.String(), reject)
			}
			if tt.check != nil {
				tt.check(t, backend)
			}
		})
	}
}
