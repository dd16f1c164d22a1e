package session

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"hrms-backend/lib/hrms-client/apiclient"
	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
	authapimodels "hrms-backend/models/api/auth"
	leaveapimodels "hrms-backend/models/api/leave"
	usersapimodels "hrms-backend/models/api/users"
)

// Snapshot is the last fully fetched state of the three collections.
type Snapshot struct {
	Users      []usersapimodels.User
	Attendance []attendanceapimodels.AttendanceRecord
	Leaves     []leaveapimodels.LeaveRequest
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Users:      slices.Clone(s.Users),
		Attendance: slices.Clone(s.Attendance),
		Leaves:     slices.Clone(s.Leaves),
	}
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds the session identity and the cached collections. It is safe for concurrent use.
type Store struct {
	client  apiclient.Provider
	storage TokenStorage
	now     func() time.Time

	// seq numbers refreshes in start order.
	seq atomic.Uint64

	mu       sync.RWMutex
	identity *usersapimodels.User
	token    string
	snapshot Snapshot
	// applied is the seq of the refresh the snapshot came from.
	applied uint64
	// epoch changes on logout and on a switch to another user, refreshes started before are dropped.
	epoch uint64
}

// NewStore restores the stored session, a corrupt one is removed and the store starts logged out.
func NewStore(client apiclient.Provider, storage TokenStorage, opts ...Option) (*Store, error) {
	s := &Store{
		client:  client,
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore() error {
	value, found, err := s.storage.Get(TokenKey)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	stored, err := decodeSession(value)
	if err != nil {
		log.WithError(err).Warn("stored session is corrupt, starting logged out")
		return s.storage.Remove(TokenKey)
	}
	s.identity = &stored.User
	s.token = stored.Token
	s.client.SetToken(stored.Token)
	return nil
}

func (s *Store) getLogger() *log.Entry {
	logger := log.WithField("component", "session")
	if identity, ok := s.Identity(); ok {
		logger = logger.WithField("user_id", identity.ID)
	}
	return logger
}

// Login returns false without an error when the server rejects the credentials.
// The session is kept when the following refresh fails, the refresh error is returned with true.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, apiclient.ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}
	if resp.User.ID == "" || resp.Token == "" {
		return false, errors.New("login response has no user or token")
	}
	if err = s.setSession(resp.User, resp.Token); err != nil {
		return false, err
	}
	if err = s.Refresh(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) setSession(user usersapimodels.User, token string) error {
	value, err := encodeSession(storedSession{User: user, Token: token})
	if err != nil {
		return err
	}
	if err = s.storage.Set(TokenKey, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil || s.identity.ID != user.ID {
		s.epoch++
		s.snapshot = Snapshot{}
	}
	s.identity = &user
	s.token = token
	s.client.SetToken(token)
	return nil
}

// Logout clears the session without a server call, a refresh still in flight is discarded.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.epoch++
	s.identity = nil
	s.token = ""
	s.snapshot = Snapshot{}
	s.client.SetToken("")
	s.mu.Unlock()
	return s.storage.Remove(TokenKey)
}

// Register creates an account without logging in as it.
func (s *Store) Register(ctx context.Context, request authapimodels.RegisterRequest) (usersapimodels.User, error) {
	user, err := s.client.Register(ctx, request)
	if err != nil {
		return usersapimodels.User{}, err
	}
	return user, s.refreshAfter(ctx, "register")
}

// Refresh fetches all three collections and replaces the snapshot when all of them succeed.
// The result is dropped when a newer refresh was already applied or the session changed meanwhile.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.seq.Add(1)
	s.mu.RLock()
	epoch := s.epoch
	loggedIn := s.identity != nil
	s.mu.RUnlock()
	if !loggedIn {
		s.apply(seq, epoch, Snapshot{})
		return nil
	}

	var next Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Users, err = s.client.ListUsers(gctx)
		return errors.Wrap(err, "users fetch failed")
	})
	g.Go(func() (err error) {
		next.Attendance, err = s.client.ListAttendance(gctx, attendanceapimodels.Filter{})
		return errors.Wrap(err, "attendance fetch failed")
	})
	g.Go(func() (err error) {
		next.Leaves, err = s.client.ListLeaves(gctx, leaveapimodels.Filter{})
		return errors.Wrap(err, "leaves fetch failed")
	})
	if err := g.Wait(); err != nil {
		s.getLogger().WithError(err).Error("refresh failed")
		return err
	}
	if !s.apply(seq, epoch, next) {
		s.getLogger().WithField("seq", seq).Debug("stale refresh discarded")
	}
	return nil
}

func (s *Store) apply(seq, epoch uint64, next Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || seq <= s.applied {
		return false
	}
	s.snapshot = next
	s.applied = seq
	return true
}

func (s *Store) refreshAfter(ctx context.Context, operation string) error {
	return errors.Wrapf(s.Refresh(ctx), "refresh after %s failed", operation)
}

func (s *Store) requireIdentity() (usersapimodels.User, error) {
	identity, ok := s.Identity()
	if !ok {
		return usersapimodels.User{}, ErrNotLoggedIn
	}
	return identity, nil
}

func (s *Store) today() string {
	return s.now().Format(models.DateLayout)
}

// CheckIn records today's arrival, a repeated call keeps the first check-in time.
func (s *Store) CheckIn(ctx context.Context, mood *models.Mood) error {
	identity, err := s.requireIdentity()
	if err != nil {
		return err
	}
	if mood != nil && !mood.IsValid() {
		return validationError("unknown mood %v", *mood)
	}
	now := s.now().Format(time.RFC3339)
	_, err = s.client.SaveAttendance(ctx, attendanceapimodels.SaveRequest{
		UserID:  identity.ID,
		Date:    s.today(),
		CheckIn: &now,
		Status:  models.AttendancePresent,
		Mood:    mood,
	})
	if err != nil {
		return err
	}
	return s.refreshAfter(ctx, "check-in")
}

// CheckOut is a no-op when today has no record with a check-in.
// The hours sent are a hint, the server computes its own value.
func (s *Store) CheckOut(ctx context.Context) error {
	identity, err := s.requireIdentity()
	if err != nil {
		return err
	}
	rec := TodayRecord(s.Snapshot(), identity.ID, s.today())
	if rec == nil || rec.CheckIn == nil {
		return nil
	}
	checkIn, err := time.Parse(time.RFC3339, *rec.CheckIn)
	if err != nil {
		s.getLogger().
			WithField("record_id", rec.ID).
			WithField("check_in", *rec.CheckIn).
			Warn("today's check-in is not a valid timestamp")
		return errors.Wrapf(err, "check-in of record %s is not a valid timestamp", rec.ID)
	}
	now := s.now()
	hours := math.Round(now.Sub(checkIn).Hours()*100) / 100
	checkOut := now.Format(time.RFC3339)
	_, err = s.client.SaveAttendance(ctx, attendanceapimodels.SaveRequest{
		UserID:     identity.ID,
		Date:       rec.Date,
		CheckOut:   &checkOut,
		TotalHours: &hours,
	})
	if err != nil {
		return err
	}
	return s.refreshAfter(ctx, "check-out")
}

// ApplyLeave files a request for the current identity, it always starts PENDING.
func (s *Store) ApplyLeave(ctx context.Context, request leaveapimodels.LeaveRequest) error {
	identity, err := s.requireIdentity()
	if err != nil {
		return err
	}
	create := leaveapimodels.CreateLeave{
		UserID:    identity.ID,
		Type:      request.Type,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		Reason:    strings.TrimSpace(request.Reason),
	}
	if err = validateLeave(create); err != nil {
		return err
	}
	if _, err = s.client.CreateLeave(ctx, create); err != nil {
		return err
	}
	return s.refreshAfter(ctx, "leave apply")
}

func validateLeave(request leaveapimodels.CreateLeave) error {
	if !request.Type.IsValid() {
		return validationError("leave type is required")
	}
	start, err := time.Parse(models.DateLayout, request.StartDate)
	if err != nil {
		return validationError("start date is required")
	}
	end, err := time.Parse(models.DateLayout, request.EndDate)
	if err != nil {
		return validationError("end date is required")
	}
	if end.Before(start) {
		return validationError("end date is before start date")
	}
	if request.Reason == "" {
		return validationError("reason is required")
	}
	return nil
}

// UpdateLeaveStatus never changes the snapshot locally, a rejected transition leaves it as is.
func (s *Store) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus, comment *string) error {
	if _, err := s.requireIdentity(); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return ErrForbidden
	}
	if !status.IsTerminal() {
		return validationError("status must be APPROVED or REJECTED")
	}
	_, err := s.client.UpdateLeaveStatus(ctx, id, leaveapimodels.StatusUpdate{
		Status:       status,
		AdminComment: comment,
	})
	if err != nil {
		return err
	}
	return s.refreshAfter(ctx, "leave review")
}

// UpdateProfile sends the full record, the session identity is replaced by the server copy when it is the same user.
func (s *Store) UpdateProfile(ctx context.Context, user usersapimodels.User) (usersapimodels.User, error) {
	s.mu.RLock()
	identity, token := s.identity, s.token
	s.mu.RUnlock()
	if identity == nil {
		return usersapimodels.User{}, ErrNotLoggedIn
	}
	if user.ID == "" {
		return usersapimodels.User{}, validationError("user id is required")
	}
	updated, err := s.client.UpdateUser(ctx, user.ID, usersapimodels.UpdateFromUser(user))
	if err != nil {
		return usersapimodels.User{}, err
	}
	if updated.ID == identity.ID {
		if err = s.replaceIdentity(updated, token); err != nil {
			return updated, err
		}
	}
	return updated, s.refreshAfter(ctx, "profile update")
}

// replaceIdentity stores user as the session identity unless the session changed since token was read.
func (s *Store) replaceIdentity(user usersapimodels.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil || s.identity.ID != user.ID || s.token != token {
		log.
			WithField("component", "session").
			WithField("user_id", user.ID).
			Debug("session changed during profile update, identity kept")
		return nil
	}
	value, err := encodeSession(storedSession{User: user, Token: token})
	if err != nil {
		return err
	}
	if err = s.storage.Set(TokenKey, value); err != nil {
		return err
	}
	s.identity = &user
	return nil
}

// Identity returns a copy of the logged in user.
func (s *Store) Identity() (usersapimodels.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return usersapimodels.User{}, false
	}
	return *s.identity, true
}

func (s *Store) IsLoggedIn() bool {
	_, ok := s.Identity()
	return ok
}

func (s *Store) IsAdmin() bool {
	identity, ok := s.Identity()
	return ok && identity.IsAdmin()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.clone()
}

func (s *Store) Users() []usersapimodels.User {
	return s.Snapshot().Users
}

func (s *Store) Attendance() []attendanceapimodels.AttendanceRecord {
	return s.Snapshot().Attendance
}

func (s *Store) Leaves() []leaveapimodels.LeaveRequest {
	return s.Snapshot().Leaves
}
