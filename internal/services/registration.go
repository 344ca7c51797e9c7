package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"activitycheckin/internal/domain"
)

type registrationService struct {
	courseRepo       domain.CourseRepository
	activityRepo     domain.ActivityRepository
	registrationRepo domain.RegistrationRepository
	feed             domain.RegistrationFeed
	notifier         domain.NotificationService
	policy           domain.CapacityPolicy
	logger           *slog.Logger
	now              func() time.Time
}

// NewRegistrationService creates a RegistrationService. notifier may be nil, in which case
// no confirmation is pushed after a visitor registers.
func NewRegistrationService(
	courseRepo domain.CourseRepository,
	activityRepo domain.ActivityRepository,
	registrationRepo domain.RegistrationRepository,
	feed domain.RegistrationFeed,
	notifier domain.NotificationService,
	policy domain.CapacityPolicy,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		courseRepo:       courseRepo,
		activityRepo:     activityRepo,
		registrationRepo: registrationRepo,
		feed:             feed,
		notifier:         notifier,
		policy:           policy,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *registrationService) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListUpcomingActivities returns activities that have not started yet, soonest first.
func (s *registrationService) ListUpcomingActivities(ctx context.Context, courseID string) ([]*domain.ActivityWithCourse, error) {
	now := s.now()
	activities, err := s.activityRepo.List(ctx, domain.ActivityFilter{CourseID: strings.TrimSpace(courseID), From: &now})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	names, err := courseNames(ctx, s.courseRepo)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ActivityWithCourse, 0, len(activities))
	for _, a := range activities {
		result = append(result, &domain.ActivityWithCourse{Activity: a, CourseName: names.of(a.CourseID)})
	}
	slices.SortStableFunc(result, func(a, b *domain.ActivityWithCourse) int {
		return a.ActivityDate.Compare(b.ActivityDate)
	})
	return result, nil
}

func (s *registrationService) Register(ctx context.Context, sess *domain.Session, input domain.RegistrationInput) (*domain.Registration, bool, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, false, domain.ErrUnauthorized
	}
	visitorID := sess.VisitorID()

	// Blank form fields fall back to the stored profile, and the name to the platform display name.
	var profile domain.VisitorProfile
	if sess.Profile != nil {
		profile = *sess.Profile
	}
	input.ActivityID = strings.TrimSpace(input.ActivityID)
	input.StudentID = firstNonEmpty(input.StudentID, profile.StudentID)
	input.NationalID = firstNonEmpty(input.NationalID, profile.NationalID)
	input.FullName = firstNonEmpty(input.FullName, profile.FullName, sess.Identity.DisplayName)

	if input.ActivityID == "" {
		return nil, false, invalid("activityId is required")
	}
	if err := validateStudent(input.StudentID, input.NationalID); err != nil {
		return nil, false, err
	}

	activity, err := s.activityRepo.GetByID(ctx, input.ActivityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get activity: %w", err)
	}

	// A visitor who registers again gets their existing registration back.
	if existing, err := s.registrationRepo.FindByActivityAndVisitor(ctx, activity.ID, visitorID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("find registration by visitor: %w", err)
	}

	if err := s.checkAdmission(ctx, activity, input.NationalID); err != nil {
		return nil, false, err
	}

	reg := &domain.Registration{
		ID:           uuid.NewString(),
		ActivityID:   activity.ID,
		CourseID:     activity.CourseID,
		FullName:     input.FullName,
		StudentID:    input.StudentID,
		NationalID:   input.NationalID,
		VisitorID:    &visitorID,
		Status:       domain.StatusRegistered,
		RegisteredAt: s.now(),
		RegisteredBy: domain.RegisteredByVisitor,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, false, fmt.Errorf("create registration: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRegistered(ctx, visitorID, activity.Name); err != nil {
			s.logger.WarnContext(ctx, "registration notification failed",
				"registration_id", reg.ID, "visitor_id", visitorID, "err", err)
		}
	}
	return reg, true, nil
}

func (s *registrationService) RegisterOnBehalf(ctx context.Context, operatorID string, input domain.RegistrationInput) (*domain.Registration, error) {
	input.ActivityID = strings.TrimSpace(input.ActivityID)
	input.FullName = strings.TrimSpace(input.FullName)
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.NationalID = strings.TrimSpace(input.NationalID)

	if input.ActivityID == "" {
		return nil, invalid("activityId is required")
	}
	if input.FullName == "" {
		return nil, invalid("fullName is required")
	}
	if err := validateStudent(input.StudentID, input.NationalID); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.GetByID(ctx, input.ActivityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if err := s.checkAdmission(ctx, activity, input.NationalID); err != nil {
		return nil, err
	}

	reg := &domain.Registration{
		ID:           uuid.NewString(),
		ActivityID:   activity.ID,
		CourseID:     activity.CourseID,
		FullName:     input.FullName,
		StudentID:    input.StudentID,
		NationalID:   input.NationalID,
		Status:       domain.StatusRegistered,
		RegisteredAt: s.now(),
		RegisteredBy: domain.RegisteredByAdmin,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	s.logger.InfoContext(ctx, "registered on behalf", "registration_id", reg.ID, "operator_id", operatorID, "activity_id", activity.ID)
	return reg, nil
}

// checkAdmission runs the pre-write checks shared by both registration paths.
// The national id check is not atomic with the insert that follows it.
func (s *registrationService) checkAdmission(ctx context.Context, activity *domain.Activity, nationalID string) error {
	dupes, err := s.registrationRepo.FindByActivityAndNationalID(ctx, activity.ID, nationalID)
	if err != nil {
		return fmt.Errorf("find registration by national id: %w", err)
	}
	if len(dupes) > 0 {
		return domain.ErrDuplicate
	}

	if s.policy != domain.CapacityEnforce {
		return nil
	}
	counts, err := s.registrationRepo.CountByActivity(ctx)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if counts[activity.ID] >= activity.Capacity {
		return domain.ErrCapacityReached
	}
	return nil
}

// ListMine returns the visitor's registrations, newest first. Registrations whose
// activity no longer exists are left out.
func (s *registrationService) ListMine(ctx context.Context, sess *domain.Session) ([]*domain.RegistrationWithActivity, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, domain.ErrUnauthorized
	}
	regs, err := s.registrationRepo.ListByVisitor(ctx, sess.VisitorID())
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithActivity{}, nil
	}

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		if !slices.Contains(ids, reg.ActivityID) {
			ids = append(ids, reg.ActivityID)
		}
	}
	activities, err := s.activityRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}
	byID := make(map[string]*domain.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	result := make([]*domain.RegistrationWithActivity, 0, len(regs))
	for _, reg := range regs {
		a, ok := byID[reg.ActivityID]
		if !ok {
			continue
		}
		result = append(result, &domain.RegistrationWithActivity{Registration: reg, Activity: a})
	}
	return result, nil
}

func (s *registrationService) GetMine(ctx context.Context, sess *domain.Session, registrationID string) (*domain.Registration, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, domain.ErrUnauthorized
	}
	reg, err := s.registrationRepo.GetByID(ctx, strings.TrimSpace(registrationID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.VisitorID == nil || *reg.VisitorID != sess.VisitorID() {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

func (s *registrationService) Subscribe(ctx context.Context, sess *domain.Session) (domain.Subscription, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, domain.ErrUnauthorized
	}
	sub, err := s.feed.Subscribe(ctx, sess.VisitorID())
	if err != nil {
		return nil, fmt.Errorf("subscribe to registration changes: %w", err)
	}
	return sub, nil
}

type courseNameIndex map[string]string

func (idx courseNameIndex) of(courseID *string) string {
	if courseID == nil {
		return ""
	}
	return idx[*courseID]
}

func courseNames(ctx context.Context, repo domain.CourseRepository) (courseNameIndex, error) {
	courses, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	idx := make(courseNameIndex, len(courses))
	for _, c := range courses {
		idx[c.ID] = c.Name
	}
	return idx, nil
}
