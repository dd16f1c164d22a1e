package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/models"
	apimodels "hrms-backend/models/api"
	analyticsapimodels "hrms-backend/models/api/analytics"
	attendanceapimodels "hrms-backend/models/api/attendance"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	payrollapimodels "hrms-backend/models/api/payroll"
	usersapimodels "hrms-backend/models/api/users"
)

type Provider interface {
	SetToken(token string)

	InitAdmin(ctx context.Context) error
	Login(ctx context.Context, email, password string) (authapimodels.LoginResponse, error)
	Register(ctx context.Context, request authapimodels.RegisterRequest) (usersapimodels.User, error)
	Me(ctx context.Context) (usersapimodels.User, error)
	Permissions(ctx context.Context) (map[models.Module][]models.Permission, error)

	ListUsers(ctx context.Context) ([]usersapimodels.User, error)
	UpdateUser(ctx context.Context, userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error)
	DeleteUser(ctx context.Context, userID string) error
	UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (usersapimodels.User, error)
	DownloadAvatar(ctx context.Context, userID string) ([]byte, error)

	ListAttendance(ctx context.Context, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error)
	CheckIn(ctx context.Context, request attendanceapimodels.CheckInRequest) (attendanceapimodels.AttendanceRecord, error)
	CheckOut(ctx context.Context, request attendanceapimodels.CheckOutRequest) (attendanceapimodels.AttendanceRecord, error)
	ExportAttendance(ctx context.Context, from, to string) ([]byte, error)

	ListLeaves(ctx context.Context, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error)
	CreateLeave(ctx context.Context, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error)

	ListPayroll(ctx context.Context, filter payrollapimodels.Filter) ([]payrollapimodels.PayrollRecord, error)
	GeneratePayroll(ctx context.Context, month string) ([]payrollapimodels.PayrollRecord, error)
	PayPayroll(ctx context.Context, id string) (payrollapimodels.PayrollRecord, error)
	DownloadPayslip(ctx context.Context, id string) ([]byte, error)
	ExportPayroll(ctx context.Context, month string) ([]byte, error)

	BurnoutRisks(ctx context.Context) ([]analyticsapimodels.BurnoutRisk, error)
	Happiness(ctx context.Context) ([]analyticsapimodels.HappinessBucket, error)
	Stats(ctx context.Context) (analyticsapimodels.Stats, error)
}

type Option func(*impl)

func WithHTTPClient(client *http.Client) Option {
	return func(i *impl) {
		i.httpClient = client
	}
}

// WithTimeout applies to a copy of the HTTP client, a client passed with WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(i *impl) {
		i.timeout = &timeout
	}
}

func New(baseURL string, opts ...Option) Provider {
	return newClient(baseURL, opts...)
}

func newClient(baseURL string, opts ...Option) *impl {
	i := &impl{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.timeout != nil {
		client := *i.httpClient
		client.Timeout = *i.timeout
		i.httpClient = &client
	}
	return i
}

const defaultTimeout = 15 * time.Second

type impl struct {
	baseURL    string
	httpClient *http.Client
	timeout    *time.Duration
	mu         sync.RWMutex
	token      string
}

const (
	initPath          = "/init"
	loginPath         = "/login"
	registerPath      = "/register"
	mePath            = "/me"
	permissionsPath   = "/permissions"
	usersPath         = "/users"
	userPath          = "/users/%s"
	avatarPath        = "/users/%s/avatar"
	attendancePath    = "/attendance"
	checkInPath       = "/attendance/checkin"
	checkOutPath      = "/attendance/checkout"
	attendanceExport  = "/attendance/export"
	leavesPath        = "/leaves"
	leaveStatusPath   = "/leaves/%s/status"
	payrollPath       = "/payroll"
	payrollGenerate   = "/payroll/generate"
	payrollPayPath    = "/payroll/%s/pay"
	payrollSlipPath   = "/payroll/%s/slip"
	payrollExportPath = "/payroll/export"
	burnoutPath       = "/analytics/burnout"
	happinessPath     = "/analytics/happiness"
	statsPath         = "/stats"
)

func (i *impl) SetToken(token string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.token = token
}

func (i *impl) getToken() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.token
}

func (i *impl) InitAdmin(ctx context.Context) error {
	return i.doJSON(ctx, http.MethodGet, initPath, nil, nil, nil)
}

func (i *impl) Login(ctx context.Context, email, password string) (authapimodels.LoginResponse, error) {
	resp := authapimodels.LoginResponse{}
	err := i.doJSON(ctx, http.MethodPost, loginPath, nil, authapimodels.LoginRequest{Email: email, Password: password}, &resp)
	if StatusCode(err) == http.StatusUnauthorized {
		return resp, ErrInvalidCredentials
	}
	return resp, err
}

func (i *impl) Register(ctx context.Context, request authapimodels.RegisterRequest) (usersapimodels.User, error) {
	resp := usersapimodels.User{}
	err := i.doJSON(ctx, http.MethodPost, registerPath, nil, request, &resp)
	return resp, err
}

func (i *impl) Me(ctx context.Context) (usersapimodels.User, error) {
	resp := usersapimodels.User{}
	err := i.doJSON(ctx, http.MethodGet, mePath, nil, nil, &resp)
	return resp, err
}

func (i *impl) Permissions(ctx context.Context) (map[models.Module][]models.Permission, error) {
	resp := map[models.Module][]models.Permission{}
	err := i.doJSON(ctx, http.MethodGet, permissionsPath, nil, nil, &resp)
	return resp, err
}

func (i *impl) ListUsers(ctx context.Context) ([]usersapimodels.User, error) {
	resp := []usersapimodels.User{}
	err := i.doJSON(ctx, http.MethodGet, usersPath, nil, nil, &resp)
	return resp, err
}

func (i *impl) UpdateUser(ctx context.Context, userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error) {
	resp := usersapimodels.User{}
	err := i.doJSON(ctx, http.MethodPut, fmt.Sprintf(userPath, url.PathEscape(userID)), nil, request, &resp)
	return resp, err
}

func (i *impl) DeleteUser(ctx context.Context, userID string) error {
	return i.doJSON(ctx, http.MethodDelete, fmt.Sprintf(userPath, url.PathEscape(userID)), nil, nil, nil)
}

func (i *impl) UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (usersapimodels.User, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return usersapimodels.User{}, errors.Wrap(err, "avatar form build failed")
	}
	if _, err = part.Write(data); err != nil {
		return usersapimodels.User{}, errors.Wrap(err, "avatar form build failed")
	}
	if err = writer.Close(); err != nil {
		return usersapimodels.User{}, errors.Wrap(err, "avatar form build failed")
	}
	resp := usersapimodels.User{}
	path := fmt.Sprintf(avatarPath, url.PathEscape(userID))
	raw, err := i.send(ctx, http.MethodPost, path, nil, body, writer.FormDataContentType())
	if err != nil {
		return resp, err
	}
	return resp, decodeEnvelope(raw, &resp)
}

func (i *impl) DownloadAvatar(ctx context.Context, userID string) ([]byte, error) {
	return i.send(ctx, http.MethodGet, fmt.Sprintf(avatarPath, url.PathEscape(userID)), nil, nil, "")
}

func (i *impl) ListAttendance(ctx context.Context, filter attendanceapimodels.Filter) ([]attendanceapimodels.AttendanceRecord, error) {
	query := url.Values{}
	addQuery(query, "userId", filter.UserID)
	addQuery(query, "date", filter.Date)
	addQuery(query, "from", filter.From)
	addQuery(query, "to", filter.To)
	resp := []attendanceapimodels.AttendanceRecord{}
	err := i.doJSON(ctx, http.MethodGet, attendancePath, query, nil, &resp)
	return resp, err
}

func (i *impl) SaveAttendance(ctx context.Context, request attendanceapimodels.SaveRequest) (attendanceapimodels.AttendanceRecord, error) {
	resp := attendanceapimodels.AttendanceRecord{}
	err := i.doJSON(ctx, http.MethodPost, attendancePath, nil, request, &resp)
	return resp, err
}

func (i *impl) CheckIn(ctx context.Context, request attendanceapimodels.CheckInRequest) (attendanceapimodels.AttendanceRecord, error) {
	resp := attendanceapimodels.AttendanceRecord{}
	err := i.doJSON(ctx, http.MethodPost, checkInPath, nil, request, &resp)
	return resp, err
}

func (i *impl) CheckOut(ctx context.Context, request attendanceapimodels.CheckOutRequest) (attendanceapimodels.AttendanceRecord, error) {
	resp := attendanceapimodels.AttendanceRecord{}
	err := i.doJSON(ctx, http.MethodPost, checkOutPath, nil, request, &resp)
	return resp, err
}

func (i *impl) ExportAttendance(ctx context.Context, from, to string) ([]byte, error) {
	query := url.Values{}
	addQuery(query, "from", from)
	addQuery(query, "to", to)
	return i.send(ctx, http.MethodGet, attendanceExport, query, nil, "")
}

func (i *impl) ListLeaves(ctx context.Context, filter leaveapimodels.Filter) ([]leaveapimodels.LeaveRequest, error) {
	query := url.Values{}
	addQuery(query, "userId", filter.UserID)
	resp := []leaveapimodels.LeaveRequest{}
	err := i.doJSON(ctx, http.MethodGet, leavesPath, query, nil, &resp)
	return resp, err
}

func (i *impl) CreateLeave(ctx context.Context, request leaveapimodels.CreateLeave) (leaveapimodels.LeaveRequest, error) {
	resp := leaveapimodels.LeaveRequest{}
	err := i.doJSON(ctx, http.MethodPost, leavesPath, nil, request, &resp)
	return resp, err
}

func (i *impl) UpdateLeaveStatus(ctx context.Context, id string, request leaveapimodels.StatusUpdate) (leaveapimodels.LeaveRequest, error) {
	resp := leaveapimodels.LeaveRequest{}
	err := i.doJSON(ctx, http.MethodPut, fmt.Sprintf(leaveStatusPath, url.PathEscape(id)), nil, request, &resp)
	return resp, err
}

func (i *impl) ListPayroll(ctx context.Context, filter payrollapimodels.Filter) ([]payrollapimodels.PayrollRecord, error) {
	query := url.Values{}
	addQuery(query, "userId", filter.UserID)
	addQuery(query, "month", filter.Month)
	resp := []payrollapimodels.PayrollRecord{}
	err := i.doJSON(ctx, http.MethodGet, payrollPath, query, nil, &resp)
	return resp, err
}

func (i *impl) GeneratePayroll(ctx context.Context, month string) ([]payrollapimodels.PayrollRecord, error) {
	resp := []payrollapimodels.PayrollRecord{}
	err := i.doJSON(ctx, http.MethodPost, payrollGenerate, nil, payrollapimodels.GenerateRequest{Month: month}, &resp)
	return resp, err
}

func (i *impl) PayPayroll(ctx context.Context, id string) (payrollapimodels.PayrollRecord, error) {
	resp := payrollapimodels.PayrollRecord{}
	err := i.doJSON(ctx, http.MethodPut, fmt.Sprintf(payrollPayPath, url.PathEscape(id)), nil, nil, &resp)
	return resp, err
}

func (i *impl) DownloadPayslip(ctx context.Context, id string) ([]byte, error) {
	return i.send(ctx, http.MethodGet, fmt.Sprintf(payrollSlipPath, url.PathEscape(id)), nil, nil, "")
}

func (i *impl) ExportPayroll(ctx context.Context, month string) ([]byte, error) {
	query := url.Values{}
	addQuery(query, "month", month)
	return i.send(ctx, http.MethodGet, payrollExportPath, query, nil, "")
}

func (i *impl) BurnoutRisks(ctx context.Context) ([]analyticsapimodels.BurnoutRisk, error) {
	resp := []analyticsapimodels.BurnoutRisk{}
	err := i.doJSON(ctx, http.MethodGet, burnoutPath, nil, nil, &resp)
	return resp, err
}

func (i *impl) Happiness(ctx context.Context) ([]analyticsapimodels.HappinessBucket, error) {
	resp := []analyticsapimodels.HappinessBucket{}
	err := i.doJSON(ctx, http.MethodGet, happinessPath, nil, nil, &resp)
	return resp, err
}

func (i *impl) Stats(ctx context.Context) (analyticsapimodels.Stats, error) {
	resp := analyticsapimodels.Stats{}
	err := i.doJSON(ctx, http.MethodGet, statsPath, nil, nil, &resp)
	return resp, err
}

func addQuery(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

// doJSON sends request as JSON and decodes the data field of the envelope into resp.
func (i *impl) doJSON(ctx context.Context, method, path string, query url.Values, request, resp interface{}) error {
	var body io.Reader
	contentType := ""
	if request != nil {
		raw, err := json.Marshal(request)
		if err != nil {
			return errors.Wrap(err, "request serialization failed")
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	raw, err := i.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	return decodeEnvelope(raw, resp)
}

func decodeEnvelope(raw []byte, resp interface{}) error {
	if resp == nil || len(raw) == 0 {
		return nil
	}
	envelope := apimodels.RawResponse{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "response deserialization failed")
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, resp); err != nil {
		return errors.Wrap(err, "response data deserialization failed")
	}
	return nil
}

// send performs one request without retries and returns the raw body of a 2xx answer.
func (i *impl) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	uri := i.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	logger := log.
		WithField("external_request", uri).
		WithField("method", method)

	r, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, errors.Wrap(err, "request build failed")
	}
	r.Header.Set("Accept", "application/json")
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if token := i.getToken(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := i.httpClient.Do(r)
	if err != nil {
		logger.WithError(err).Error("hrms api request failed")
		return nil, errors.Wrap(err, "hrms api request failed")
	}
	defer response.Body.Close()
	logger = logger.WithField("response_status_code", response.StatusCode)

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		logger.WithError(err).Error("hrms api response read failed")
		return nil, errors.Wrap(err, "hrms api response read failed")
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		logger.Debug("hrms api request done")
		return responseBody, nil
	}

	apiErr := &APIError{StatusCode: response.StatusCode}
	envelope := apimodels.RawResponse{}
	if json.Unmarshal(responseBody, &envelope) == nil {
		apiErr.Message = envelope.Message
	}
	logger.WithField("response_message", apiErr.Message).Warn("hrms api returned an error")
	return nil, apiErr
}
