package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"activitycheckin/internal/domain"
)

type rosterService struct {
	courseRepo       domain.CourseRepository
	activityRepo     domain.ActivityRepository
	registrationRepo domain.RegistrationRepository
	logger           *slog.Logger
	now              func() time.Time
}

// NewRosterService creates the RosterService behind the admin dashboard.
func NewRosterService(
	courseRepo domain.CourseRepository,
	activityRepo domain.ActivityRepository,
	registrationRepo domain.RegistrationRepository,
	logger *slog.Logger,
) domain.RosterService {
	return &rosterService{
		courseRepo:       courseRepo,
		activityRepo:     activityRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// ListActivities returns every activity, newest first, with its headcount.
func (s *rosterService) ListActivities(ctx context.Context) ([]*domain.ActivityHeadcount, error) {
	activities, err := s.activityRepo.List(ctx, domain.ActivityFilter{})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	counts, err := s.registrationRepo.CountByActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	names, err := courseNames(ctx, s.courseRepo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]*domain.ActivityHeadcount, 0, len(activities))
	for _, a := range activities {
		n := counts[a.ID]
		rows = append(rows, &domain.ActivityHeadcount{
			Activity:   a,
			CourseName: names.of(a.CourseID),
			Registered: n,
			IsFull:     n >= a.Capacity,
			Status:     a.StatusAt(now),
		})
	}
	return rows, nil
}

func (s *rosterService) GetRoster(ctx context.Context, activityID string) (*domain.Activity, []*domain.Registration, error) {
	activity, err := s.activityRepo.GetByID(ctx, strings.TrimSpace(activityID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get activity: %w", err)
	}
	regs, err := s.registrationRepo.ListByActivity(ctx, activity.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list registrations: %w", err)
	}
	return activity, regs, nil
}

// AssignSeat overwrites the seat regardless of check-in status. A blank seat clears it.
func (s *rosterService) AssignSeat(ctx context.Context, registrationID, seatNumber string) (*domain.Registration, error) {
	var seat *string
	if v := strings.TrimSpace(seatNumber); v != "" {
		seat = &v
	}
	reg, err := s.registrationRepo.UpdateSeat(ctx, strings.TrimSpace(registrationID), seat)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update seat: %w", err)
	}
	s.logger.InfoContext(ctx, "seat updated", "registration_id", reg.ID, "cleared", seat == nil)
	return reg, nil
}

func (s *rosterService) CreateCourse(ctx context.Context, name string) (*domain.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	course := &domain.Course{Name: name}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (s *rosterService) CreateActivity(ctx context.Context, input domain.NewActivityInput) (*domain.Activity, error) {
	activity := &domain.Activity{
		Name:         strings.TrimSpace(input.Name),
		ActivityDate: input.ActivityDate,
		Location:     strings.TrimSpace(input.Location),
		Capacity:     input.Capacity,
	}
	if activity.Name == "" {
		return nil, invalid("name is required")
	}
	if activity.ActivityDate.IsZero() {
		return nil, invalid("activityDate is required")
	}
	if activity.Capacity < 0 {
		return nil, invalid("capacity must not be negative")
	}
	if courseID := strings.TrimSpace(input.CourseID); courseID != "" {
		if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, invalid("course %q does not exist", courseID)
			}
			return nil, fmt.Errorf("get course: %w", err)
		}
		activity.CourseID = &courseID
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}
