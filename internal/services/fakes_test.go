package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"activitycheckin/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// fakeRegistrationRepo keeps registrations in insertion order and counts writes.
type fakeRegistrationRepo struct {
	mu      sync.Mutex
	regs    []*domain.Registration
	writes  int
	err     error
	markErr error
}

func (m *fakeRegistrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes++
	cp := *reg
	m.regs = append(m.regs, &cp)
	return nil
}

func (m *fakeRegistrationRepo) find(id string) *domain.Registration {
	for _, r := range m.regs {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r := m.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *fakeRegistrationRepo) filter(keep func(*domain.Registration) bool) []*domain.Registration {
	out := []*domain.Registration{}
	for _, r := range m.regs {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Registration) int { return a.RegisteredAt.Compare(b.RegisteredAt) })
	return out
}

func (m *fakeRegistrationRepo) FindByActivityAndNationalID(_ context.Context, activityID, nationalID string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.filter(func(r *domain.Registration) bool {
		return r.ActivityID == activityID && r.NationalID == nationalID
	}), nil
}

func (m *fakeRegistrationRepo) FindByActivityAndVisitor(_ context.Context, activityID, visitorID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	found := m.filter(func(r *domain.Registration) bool {
		return r.ActivityID == activityID && r.VisitorID != nil && *r.VisitorID == visitorID
	})
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return found[0], nil
}

func (m *fakeRegistrationRepo) ListByActivity(_ context.Context, activityID string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.filter(func(r *domain.Registration) bool { return r.ActivityID == activityID }), nil
}

func (m *fakeRegistrationRepo) ListByVisitor(_ context.Context, visitorID string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.filter(func(r *domain.Registration) bool { return r.VisitorID != nil && *r.VisitorID == visitorID })
	slices.Reverse(out)
	return out, nil
}

func (m *fakeRegistrationRepo) CountByActivity(context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := map[string]int{}
	for _, r := range m.regs {
		counts[r.ActivityID]++
	}
	return counts, nil
}

func (m *fakeRegistrationRepo) MarkCheckedIn(_ context.Context, id, seatNumber string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return nil, m.markErr
	}
	r := m.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	m.writes++
	r.Status = domain.StatusCheckedIn
	r.SeatNumber = &seatNumber
	cp := *r
	return &cp, nil
}

func (m *fakeRegistrationRepo) UpdateSeat(_ context.Context, id string, seatNumber *string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r := m.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	m.writes++
	r.SeatNumber = seatNumber
	cp := *r
	return &cp, nil
}

type fakeActivityRepo struct {
	activities map[string]*domain.Activity
	created    []*domain.Activity
	err        error
}

func (m *fakeActivityRepo) Create(_ context.Context, a *domain.Activity) error {
	if m.err != nil {
		return m.err
	}
	a.ID = "new-activity"
	m.created = append(m.created, a)
	return nil
}

func (m *fakeActivityRepo) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.activities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *fakeActivityRepo) List(_ context.Context, f domain.ActivityFilter) ([]*domain.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Activity{}
	for _, a := range m.activities {
		if f.CourseID != "" && (a.CourseID == nil || *a.CourseID != f.CourseID) {
			continue
		}
		if f.From != nil && a.ActivityDate.Before(*f.From) {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *domain.Activity) int { return b.ActivityDate.Compare(a.ActivityDate) })
	return out, nil
}

func (m *fakeActivityRepo) GetByIDs(_ context.Context, ids []string) ([]*domain.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Activity{}
	for _, id := range ids {
		if a, ok := m.activities[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses []*domain.Course
	err     error
}

func (m *fakeCourseRepo) Create(_ context.Context, c *domain.Course) error {
	if m.err != nil {
		return m.err
	}
	c.ID = "new-course"
	c.CreatedAt = time.Now()
	m.courses = append(m.courses, c)
	return nil
}

func (m *fakeCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *fakeCourseRepo) List(context.Context) ([]*domain.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

type fakeLogRepo struct {
	entries []*domain.CheckInLogEntry
	err     error
}

func (m *fakeLogRepo) Append(_ context.Context, e *domain.CheckInLogEntry) error {
	if m.err != nil {
		return m.err
	}
	e.ID = int64(len(m.entries) + 1)
	e.Timestamp = time.Now()
	m.entries = append(m.entries, e)
	return nil
}

// fakeNotifier records calls to the in-process notification gateway.
type fakeNotifier struct {
	registered []string
	checkedIn  []string
	err        error
}

func (m *fakeNotifier) Send(context.Context, domain.NotificationRequest) error { return m.err }

func (m *fakeNotifier) NotifyRegistered(_ context.Context, userID, activityName string) error {
	m.registered = append(m.registered, userID+"|"+activityName)
	return m.err
}

func (m *fakeNotifier) NotifyCheckedIn(_ context.Context, userID, activityName, seat string) error {
	m.checkedIn = append(m.checkedIn, strings.Join([]string{userID, activityName, seat}, "|"))
	return m.err
}

type fakePusher struct {
	to, text string
	calls    int
	err      error
}

func (m *fakePusher) Push(_ context.Context, to, text string) error {
	m.calls++
	m.to, m.text = to, text
	return m.err
}

// fakeRenderer renders "<name>:<activity>:<seat>".
type fakeRenderer struct {
	err error
}

func (m *fakeRenderer) Render(name string, data any) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	d := data.(domain.MessageData)
	return name + ":" + d.ActivityName + ":" + d.SeatNumber, nil
}

type fakeProfileRepo struct {
	profiles map[string]*domain.VisitorProfile
	err      error
}

func (m *fakeProfileRepo) Get(_ context.Context, visitorID string) (*domain.VisitorProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[visitorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *fakeProfileRepo) Upsert(_ context.Context, p *domain.VisitorProfile) error {
	if m.err != nil {
		return m.err
	}
	if m.profiles == nil {
		m.profiles = map[string]*domain.VisitorProfile{}
	}
	m.profiles[p.VisitorID] = p
	return nil
}

type fakeFeed struct {
	subscribed []string
	err        error
}

func (m *fakeFeed) Publish(context.Context, domain.RegistrationChange) error { return nil }

func (m *fakeFeed) Subscribe(_ context.Context, visitorID string) (domain.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.subscribed = append(m.subscribed, visitorID)
	return fakeSubscription{ch: make(chan domain.RegistrationChange)}, nil
}

type fakeSubscription struct {
	ch chan domain.RegistrationChange
}

func (s fakeSubscription) Changes() <-chan domain.RegistrationChange { return s.ch }
func (s fakeSubscription) Close() error                              { return nil }

func visitorSession(id string, profile *domain.VisitorProfile) *domain.Session {
	return &domain.Session{Identity: domain.Identity{UserID: id, DisplayName: "LINE " + id}, Profile: profile}
}
