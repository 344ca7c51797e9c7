package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func strPtr(s string) *string { return &s }

func visitor() *domain.Session {
	return &domain.Session{Identity: domain.Identity{UserID: "U1", DisplayName: "Ann"}}
}

// asVisitor attaches a visitor session the way RequireVisitor does.
func asVisitor(req *http.Request, sess *domain.Session) *http.Request {
	return req.WithContext(middleware.SetSession(req.Context(), sess))
}

// asOperator attaches an operator id the way RequireOperator does.
func asOperator(req *http.Request, operatorID string) *http.Request {
	return req.WithContext(middleware.SetOperatorID(req.Context(), operatorID))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeEnvelope decodes the API envelope and unmarshals data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	mu sync.Mutex

	courses    []*domain.Course
	activities []*domain.ActivityWithCourse
	listErr    error
	lastCourse string

	registerReg     *domain.Registration
	registerCreated bool
	registerErr     error
	lastInput       domain.RegistrationInput
	lastSession     *domain.Session
	lastOperatorID  string

	mine    []*domain.RegistrationWithActivity
	mineErr error
	getReg  *domain.Registration
	getErr  error

	sub    *fakeSubscription
	subErr error
}

func (f *fakeRegistrationService) ListCourses(_ context.Context) ([]*domain.Course, error) {
	return f.courses, f.listErr
}

func (f *fakeRegistrationService) ListUpcomingActivities(_ context.Context, courseID string) ([]*domain.ActivityWithCourse, error) {
	f.lastCourse = courseID
	return f.activities, f.listErr
}

func (f *fakeRegistrationService) Register(_ context.Context, sess *domain.Session, input domain.RegistrationInput) (*domain.Registration, bool, error) {
	f.lastSession = sess
	f.lastInput = input
	return f.registerReg, f.registerCreated, f.registerErr
}

func (f *fakeRegistrationService) RegisterOnBehalf(_ context.Context, operatorID string, input domain.RegistrationInput) (*domain.Registration, error) {
	f.lastOperatorID = operatorID
	f.lastInput = input
	return f.registerReg, f.registerErr
}

func (f *fakeRegistrationService) ListMine(_ context.Context, _ *domain.Session) ([]*domain.RegistrationWithActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mine, f.mineErr
}

func (f *fakeRegistrationService) setMine(items []*domain.RegistrationWithActivity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mine = items
}

func (f *fakeRegistrationService) GetMine(_ context.Context, _ *domain.Session, _ string) (*domain.Registration, error) {
	return f.getReg, f.getErr
}

func (f *fakeRegistrationService) Subscribe(_ context.Context, _ *domain.Session) (domain.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.sub, nil
}

type fakeSubscription struct {
	ch     chan domain.RegistrationChange
	once   sync.Once
	closed chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan domain.RegistrationChange, 4), closed: make(chan struct{})}
}

func (s *fakeSubscription) Changes() <-chan domain.RegistrationChange { return s.ch }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// fakeRosterService implements domain.RosterService for handler tests.
type fakeRosterService struct {
	rows       []*domain.ActivityHeadcount
	activity   *domain.Activity
	regs       []*domain.Registration
	course     *domain.Course
	reg        *domain.Registration
	err        error
	lastID     string
	lastSeat   string
	lastName   string
	lastCreate domain.NewActivityInput
}

func (f *fakeRosterService) ListActivities(_ context.Context) ([]*domain.ActivityHeadcount, error) {
	return f.rows, f.err
}

func (f *fakeRosterService) GetRoster(_ context.Context, activityID string) (*domain.Activity, []*domain.Registration, error) {
	f.lastID = activityID
	return f.activity, f.regs, f.err
}

func (f *fakeRosterService) AssignSeat(_ context.Context, registrationID, seat string) (*domain.Registration, error) {
	f.lastID = registrationID
	f.lastSeat = seat
	return f.reg, f.err
}

func (f *fakeRosterService) CreateCourse(_ context.Context, name string) (*domain.Course, error) {
	f.lastName = name
	return f.course, f.err
}

func (f *fakeRosterService) CreateActivity(_ context.Context, input domain.NewActivityInput) (*domain.Activity, error) {
	f.lastCreate = input
	return f.activity, f.err
}

// fakeProfileService implements domain.ProfileService for handler tests.
type fakeProfileService struct {
	profile   *domain.VisitorProfile
	err       error
	lastInput domain.ProfileInput
}

func (f *fakeProfileService) Get(_ context.Context, _ *domain.Session) (*domain.VisitorProfile, error) {
	return f.profile, f.err
}

func (f *fakeProfileService) Setup(_ context.Context, _ *domain.Session, input domain.ProfileInput) (*domain.VisitorProfile, error) {
	f.lastInput = input
	return f.profile, f.err
}

// fakeAuthService implements domain.OperatorAuthService for handler tests.
type fakeAuthService struct {
	token        string
	op           *domain.Operator
	err          error
	lastUsername string
}

func (f *fakeAuthService) Login(_ context.Context, username, _ string) (string, *domain.Operator, error) {
	f.lastUsername = username
	return f.token, f.op, f.err
}

func (f *fakeAuthService) EnsureOperator(_ context.Context, _, _, _ string) (*domain.Operator, error) {
	return f.op, f.err
}

// fakeNotificationService implements domain.NotificationService for handler tests.
type fakeNotificationService struct {
	err     error
	lastReq domain.NotificationRequest
}

func (f *fakeNotificationService) Send(_ context.Context, req domain.NotificationRequest) error {
	f.lastReq = req
	return f.err
}

func (f *fakeNotificationService) NotifyRegistered(_ context.Context, _, _ string) error { return nil }

func (f *fakeNotificationService) NotifyCheckedIn(_ context.Context, _, _, _ string) error { return nil }

// fakeCheckInService implements domain.CheckInService for desk endpoint tests.
type fakeCheckInService struct {
	res        *domain.Resolution
	resolveErr error
	updated    *domain.Registration
	confirmErr error
	lastSeat   string
	lastOp     string
}

func (f *fakeCheckInService) Resolve(_ context.Context, _ string) (*domain.Resolution, error) {
	return f.res, f.resolveErr
}

func (f *fakeCheckInService) ResolveByNationalID(_ context.Context, _, _ string) (*domain.Resolution, error) {
	return f.res, f.resolveErr
}

func (f *fakeCheckInService) ConfirmCheckIn(_ context.Context, operatorID string, _ *domain.Resolution, seat string) (*domain.Registration, error) {
	f.lastOp = operatorID
	f.lastSeat = seat
	return f.updated, f.confirmErr
}

type fakeQR struct {
	png       []byte
	err       error
	lastToken string
}

func (f *fakeQR) PNG(token string) ([]byte, error) {
	f.lastToken = token
	return f.png, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(_ context.Context) error { return f.err }

func fmtInvalid(rule string) error {
	return fmt.Errorf("register: %w: %s", domain.ErrInvalidInput, rule)
}
