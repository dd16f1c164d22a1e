package apiv1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hrms-backend/config"
	authhandler "hrms-backend/lib/auth"
	leavehandler "hrms-backend/lib/leave"
	"hrms-backend/lib/rbac"
	authutils "hrms-backend/lib/utils/auth-utils"
	"hrms-backend/models"
	apimodels "hrms-backend/models/api"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	usersapimodels "hrms-backend/models/api/users"
)

type fakeAuth struct {
	lastActor *models.Actor
}

func (f *fakeAuth) Login(request authapimodels.LoginRequest) (authapimodels.LoginResponse, error) {
	if request.Password != "secret" {
		return authapimodels.LoginResponse{}, models.ErrInvalidCredentials
	}
	return authapimodels.LoginResponse{User: usersapimodels.User{ID: "u1", Email: request.Email}, Token: "token"}, nil
}

func (f *fakeAuth) Register(actor *models.Actor, request authapimodels.RegisterRequest) (usersapimodels.User, error) {
	f.lastActor = actor
	if request.Email == "taken@hrms.com" {
		return usersapimodels.User{}, errors.Wrap(models.ErrBadRequest, "email already exists")
	}
	return request.User, nil
}

func (f *fakeAuth) Me(userID string) (usersapimodels.User, error) {
	return usersapimodels.User{ID: userID}, nil
}

func (f *fakeAuth) InitAdmin(email, password string) (bool, error) {
	return true, nil
}

type fakeLeaves struct {
	status map[string]models.LeaveStatus
}

func (f *fakeLeaves) List(actor models.Actor, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error) {
	return []leaveapimodels.LeaveRequest{}, nil
}

func (f *fakeLeaves) Create(actor models.Actor, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error) {
	return leaveapimodels.LeaveRequest{ID: "l1", UserID: actor.UserID, Status: models.LeavePending}, nil
}

func (f *fakeLeaves) UpdateStatus(actor models.Actor, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error) {
	current, ok := f.status[id]
	if !ok {
		return leaveapimodels.LeaveRequest{}, errors.Wrap(models.ErrNotFound, "leave request not found")
	}
	if !current.CanMoveTo(request.Status) {
		return leaveapimodels.LeaveRequest{}, errors.Wrapf(models.ErrConflict, "leave request is already %s", current)
	}
	f.status[id] = request.Status
	return leaveapimodels.LeaveRequest{ID: id, Status: request.Status}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *fakeAuth) {
	conf := new(config.Configuration)
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 3600
	config.Conf = conf
	rbac.NewHandler()

	auth := &fakeAuth{}
	authhandler.Instance = auth
	leavehandler.Instance = &fakeLeaves{status: map[string]models.LeaveStatus{
		"pending":  models.LeavePending,
		"approved": models.LeaveApproved,
	}}

	app := fiber.New()
	api := fiber.New()
	app.Mount("/api/v1", api)
	InitAuthApiRouters(api)
	InitLeaveApiRouters(api)
	return app, auth
}

func doRequest(t *testing.T, app *fiber.App, method, path string, role models.UserRole, body interface{}) (int, apimodels.RawResponse) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if role != "" {
		token, err := authutils.GetToken("u-"+string(role), "Test", role)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	result := apimodels.RawResponse{}
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(respBody) > 0 {
		require.NoError(t, json.Unmarshal(respBody, &result))
	}
	return resp.StatusCode, result
}

func TestAuthApi(t *testing.T) {
	app, auth := newTestApp(t)

	t.Run("login", func(t *testing.T) {
		status, resp := doRequest(t, app, "POST", "/api/v1/login", "", authapimodels.LoginRequest{Email: "jane@hrms.com", Password: "secret"})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, apimodels.StatusSuccess, resp.Status)

		status, resp = doRequest(t, app, "POST", "/api/v1/login", "", authapimodels.LoginRequest{Email: "jane@hrms.com", Password: "wrong"})
		require.Equal(t, fiber.StatusUnauthorized, status)
		require.Equal(t, apimodels.StatusFail, resp.Status)
	})

	t.Run("register", func(t *testing.T) {
		request := authapimodels.RegisterRequest{
			User:     usersapimodels.User{Name: "Bob", Email: "bob@hrms.com", Role: models.EmployeeRole, JoinDate: "2024-01-01"},
			Password: "password",
		}
		status, _ := doRequest(t, app, "POST", "/api/v1/register", "", request)
		require.Equal(t, fiber.StatusCreated, status)
		require.Nil(t, auth.lastActor)

		status, _ = doRequest(t, app, "POST", "/api/v1/register", models.AdminRole, request)
		require.Equal(t, fiber.StatusCreated, status)
		require.NotNil(t, auth.lastActor)
		require.Equal(t, models.AdminRole, auth.lastActor.Role)

		request.Email = "taken@hrms.com"
		status, resp := doRequest(t, app, "POST", "/api/v1/register", "", request)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, "email already exists", resp.Message)
	})

	t.Run("me requires token", func(t *testing.T) {
		status, _ := doRequest(t, app, "GET", "/api/v1/me", "", nil)
		require.Equal(t, fiber.StatusUnauthorized, status)

		status, _ = doRequest(t, app, "GET", "/api/v1/me", models.EmployeeRole, nil)
		require.Equal(t, fiber.StatusOK, status)
	})

	t.Run("permissions", func(t *testing.T) {
		status, resp := doRequest(t, app, "GET", "/api/v1/permissions", models.EmployeeRole, nil)
		require.Equal(t, fiber.StatusOK, status)
		permissions := map[models.Module][]models.Permission{}
		require.NoError(t, json.Unmarshal(resp.Data, &permissions))
		require.Contains(t, permissions[models.LeaveModule], models.CreatePermission)
	})
}

func TestLeaveApi(t *testing.T) {
	app, _ := newTestApp(t)
	approve := leaveapimodels.StatusUpdate{Status: models.LeaveApproved}

	t.Run("employee can not review", func(t *testing.T) {
		status, _ := doRequest(t, app, "PUT", "/api/v1/leaves/pending/status", models.EmployeeRole, approve)
		require.Equal(t, fiber.StatusForbidden, status)
	})
	t.Run("bad status", func(t *testing.T) {
		status, _ := doRequest(t, app, "PUT", "/api/v1/leaves/pending/status", models.AdminRole, leaveapimodels.StatusUpdate{Status: models.LeavePending})
		require.Equal(t, fiber.StatusBadRequest, status)
	})
	t.Run("missing request", func(t *testing.T) {
		status, _ := doRequest(t, app, "PUT", "/api/v1/leaves/unknown/status", models.AdminRole, approve)
		require.Equal(t, fiber.StatusNotFound, status)
	})
	t.Run("terminal request", func(t *testing.T) {
		status, resp := doRequest(t, app, "PUT", "/api/v1/leaves/approved", models.AdminRole, approve)
		require.Equal(t, fiber.StatusConflict, status)
		require.Equal(t, "leave request is already APPROVED", resp.Message)
	})
	t.Run("approve", func(t *testing.T) {
		status, resp := doRequest(t, app, "PUT", "/api/v1/leaves/pending/status", models.AdminRole, approve)
		require.Equal(t, fiber.StatusOK, status)
		rec := leaveapimodels.LeaveRequest{}
		require.NoError(t, json.Unmarshal(resp.Data, &rec))
		require.Equal(t, models.LeaveApproved, rec.Status)
	})
	t.Run("employee applies", func(t *testing.T) {
		request := leaveapimodels.CreateLeave{
			UserID:    "u-EMPLOYEE",
			Type:      models.LeaveSick,
			StartDate: "2024-01-10",
			EndDate:   "2024-01-12",
			Reason:    "flu",
		}
		status, _ := doRequest(t, app, "POST", "/api/v1/leaves", models.EmployeeRole, request)
		require.Equal(t, fiber.StatusCreated, status)
	})
}
