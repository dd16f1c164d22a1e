package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"hrms-backend/lib/hrms-client/apiclient"
	"hrms-backend/models"
	analyticsapimodels "hrms-backend/models/api/analytics"
	attendanceapimodels "hrms-backend/models/api/attendance"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	payrollapimodels "hrms-backend/models/api/payroll"
	usersapimodels "hrms-backend/models/api/users"
)

// fakeAPI is an in-memory backend following the server rules the store relies on.
type fakeAPI struct {
	mu             sync.Mutex
	token          string
	users          []usersapimodels.User
	passwords      map[string]string
	attendance     []attendanceapimodels.AttendanceRecord
	leaves         []leaveapimodels.LeaveRequest
	nextID         int
	saveCalls      []attendanceapimodels.SaveRequest
	listUsersHook  func()
	attendanceHook func() error
	updateUserHook func()
	failAttendance bool
}

func newFakeAPI() *fakeAPI {
	salary := 120000.0
	phone := "+1 555 0100"
	return &fakeAPI{
		users: []usersapimodels.User{
			{ID: "a1", Name: "Admin User", Email: "admin@hrms.com", Role: models.AdminRole, Department: "IT", JoinDate: "2024-01-01"},
			{ID: "u1", Name: "Jane Doe", Email: "jane@hrms.com", Role: models.EmployeeRole, Department: "Sales", JoinDate: "2024-02-01", Phone: &phone, Salary: &salary},
		},
		passwords: map[string]string{"admin@hrms.com": "admin123", "jane@hrms.com": "jane123"},
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeAPI) caller() (usersapimodels.User, error) {
	for _, u := range f.users {
		if f.token == "token-"+u.ID {
			return u, nil
		}
	}
	return usersapimodels.User{}, &apiclient.APIError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}
}

func (f *fakeAPI) addUser(u usersapimodels.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
}

func (f *fakeAPI) countAttendance(userID, date string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rec := range f.attendance {
		if rec.UserID == userID && rec.Date == date {
			n++
		}
	}
	return n
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) InitAdmin(ctx context.Context) error { return nil }

func (f *fakeAPI) Login(ctx context.Context, email, password string) (authapimodels.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[email] != password {
		return authapimodels.LoginResponse{}, apiclient.ErrInvalidCredentials
	}
	for _, u := range f.users {
		if u.Email == email {
			return authapimodels.LoginResponse{User: u, Token: "token-" + u.ID}, nil
		}
	}
	return authapimodels.LoginResponse{}, apiclient.ErrInvalidCredentials
}

func (f *fakeAPI) Register(ctx context.Context, request authapimodels.RegisterRequest) (usersapimodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == request.Email {
			return usersapimodels.User{}, &apiclient.APIError{StatusCode: http.StatusBadRequest, Message: "email already exists"}
		}
	}
	user := request.User
	user.ID = f.id("u")
	f.users = append(f.users, user)
	f.passwords[user.Email] = request.Password
	return user, nil
}

func (f *fakeAPI) Me(ctx context.Context) (usersapimodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caller()
}

func (f *fakeAPI) Permissions(ctx context.Context) (map[models.Module][]models.Permission, error) {
	return map[models.Module][]models.Permission{}, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]usersapimodels.User, error) {
	f.mu.Lock()
	list := append([]usersapimodels.User{}, f.users...)
	hook := f.listUsersHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return list, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error) {
	user, err := f.updateUser(userID, request)
	f.mu.Lock()
	hook := f.updateUserHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return user, err
}

func (f *fakeAPI) updateUser(userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for idx, u := range f.users {
		if u.ID != userID {
			continue
		}
		if request.Name != nil {
			u.Name = *request.Name
		}
		if request.Email != nil {
			u.Email = *request.Email
		}
		if request.Position != nil {
			u.Position = *request.Position
		}
		if request.Department != nil {
			u.Department = *request.Department
		}
		u.Phone = request.Phone
		u.Address = request.Address
		if request.Salary != nil {
			u.Salary = request.Salary
		}
		f.users[idx] = u
		return u, nil
	}
	return usersapimodels.User{}, &apiclient.APIError{StatusCode: http.StatusNotFound, Message: "user not found"}
}

func (f *fakeAPI) DeleteUser(ctx context.Context, userID string) error { return nil }

func (f *fakeAPI) UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (usersapimodels.User, error) {
	return usersapimodels.User{}, nil
}

func (f *fakeAPI) DownloadAvatar(ctx context.Context, userID string) ([]byte, error) { return nil, nil }

func (f *fakeAPI) ListAttendance(ctx context.Context, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error) {
	f.mu.Lock()
	hook := f.attendanceHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAttendance {
		return nil, &apiclient.APIError{StatusCode: http.StatusInternalServerError}
	}
	return append([]attendanceapimodels.AttendanceRecord{}, f.attendance...), nil
}

func (f *fakeAPI) SaveAttendance(ctx context.Context, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls = append(f.saveCalls, request)
	for idx, rec := range f.attendance {
		if rec.UserID != request.UserID || rec.Date != request.Date {
			continue
		}
		if rec.CheckIn == nil {
			rec.CheckIn = request.CheckIn
		}
		if request.CheckOut != nil {
			rec.CheckOut = request.CheckOut
			rec.TotalHours = request.TotalHours
		}
		if request.Status != "" {
			rec.Status = request.Status
		}
		f.attendance[idx] = rec
		return rec, nil
	}
	rec := attendanceapimodels.AttendanceRecord{
		ID:       f.id("r"),
		UserID:   request.UserID,
		Date:     request.Date,
		CheckIn:  request.CheckIn,
		CheckOut: request.CheckOut,
		Status:   request.Status,
		Mood:     request.Mood,
	}
	f.attendance = append(f.attendance, rec)
	return rec, nil
}

func (f *fakeAPI) CheckIn(ctx context.Context, request attendanceapimodels.CheckInRequest) (attendanceapimodels.AttendanceRecord, error) {
	return attendanceapimodels.AttendanceRecord{}, nil
}

func (f *fakeAPI) CheckOut(ctx context.Context, request attendanceapimodels.CheckOutRequest) (attendanceapimodels.AttendanceRecord, error) {
	return attendanceapimodels.AttendanceRecord{}, nil
}

func (f *fakeAPI) ExportAttendance(ctx context.Context, from, to string) ([]byte, error) {
	return nil, nil
}

func (f *fakeAPI) ListLeaves(ctx context.Context, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leaveapimodels.LeaveRequest{}, f.leaves...), nil
}

func (f *fakeAPI) CreateLeave(ctx context.Context, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := leaveapimodels.LeaveRequest{
		ID:        f.id("l"),
		UserID:    request.UserID,
		Type:      request.Type,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		Reason:    request.Reason,
		Status:    models.LeavePending,
	}
	f.leaves = append(f.leaves, rec)
	return rec, nil
}

func (f *fakeAPI) UpdateLeaveStatus(ctx context.Context, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.caller()
	if err != nil {
		return leaveapimodels.LeaveRequest{}, err
	}
	if !caller.IsAdmin() {
		return leaveapimodels.LeaveRequest{}, &apiclient.APIError{StatusCode: http.StatusForbidden}
	}
	for idx, rec := range f.leaves {
		if rec.ID != id {
			continue
		}
		if !rec.Status.CanMoveTo(request.Status) {
			return leaveapimodels.LeaveRequest{}, &apiclient.APIError{StatusCode: http.StatusConflict, Message: "leave request is already " + string(rec.Status)}
		}
		rec.Status = request.Status
		rec.AdminComment = request.GetComment()
		f.leaves[idx] = rec
		return rec, nil
	}
	return leaveapimodels.LeaveRequest{}, &apiclient.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeAPI) ListPayroll(ctx context.Context, filter payrollapimodels.Filter) ([]payrollapimodels.PayrollRecord, error) {
	return nil, nil
}

func (f *fakeAPI) GeneratePayroll(ctx context.Context, month string) ([]payrollapimodels.PayrollRecord, error) {
	return nil, nil
}

func (f *fakeAPI) PayPayroll(ctx context.Context, id string) (payrollapimodels.PayrollRecord, error) {
	return payrollapimodels.PayrollRecord{}, nil
}

func (f *fakeAPI) DownloadPayslip(ctx context.Context, id string) ([]byte, error) { return nil, nil }

func (f *fakeAPI) ExportPayroll(ctx context.Context, month string) ([]byte, error) { return nil, nil }

func (f *fakeAPI) BurnoutRisks(ctx context.Context) ([]analyticsapimodels.BurnoutRisk, error) {
	return nil, nil
}

func (f *fakeAPI) Happiness(ctx context.Context) ([]analyticsapimodels.HappinessBucket, error) {
	return nil, nil
}

func (f *fakeAPI) Stats(ctx context.Context) (analyticsapimodels.Stats, error) {
	return analyticsapimodels.Stats{}, nil
}
