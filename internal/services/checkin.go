package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"activitycheckin/internal/domain"
)

type checkInService struct {
	registrationRepo domain.RegistrationRepository
	activityRepo     domain.ActivityRepository
	logRepo          domain.CheckInLogRepository
	notifier         domain.NotificationService
	logger           *slog.Logger
}

// NewCheckInService creates the CheckInService used by the check-in desk.
func NewCheckInService(
	registrationRepo domain.RegistrationRepository,
	activityRepo domain.ActivityRepository,
	logRepo domain.CheckInLogRepository,
	notifier domain.NotificationService,
	logger *slog.Logger,
) domain.CheckInService {
	return &checkInService{
		registrationRepo: registrationRepo,
		activityRepo:     activityRepo,
		logRepo:          logRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// Resolve looks a scanned token up as a registration id.
func (s *checkInService) Resolve(ctx context.Context, token string) (*domain.Resolution, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("token is required")
	}
	reg, err := s.registrationRepo.GetByID(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &domain.Resolution{Registration: reg, ActivityName: s.activityName(ctx, reg.ActivityID), Matches: 1}, nil
}

// ResolveByNationalID is the manual fallback when a code cannot be scanned. Several matches
// resolve to the earliest registration.
func (s *checkInService) ResolveByNationalID(ctx context.Context, activityID, nationalID string) (*domain.Resolution, error) {
	activityID = strings.TrimSpace(activityID)
	nationalID = strings.TrimSpace(nationalID)
	if activityID == "" || nationalID == "" {
		return nil, invalid("activityId and nationalId are required")
	}
	regs, err := s.registrationRepo.FindByActivityAndNationalID(ctx, activityID, nationalID)
	if err != nil {
		return nil, fmt.Errorf("find registration by national id: %w", err)
	}
	if len(regs) == 0 {
		return nil, domain.ErrNotFound
	}
	if len(regs) > 1 {
		s.logger.WarnContext(ctx, "ambiguous manual search, using earliest registration",
			"activity_id", activityID, "matches", len(regs), "registration_id", regs[0].ID)
	}
	return &domain.Resolution{Registration: regs[0], ActivityName: s.activityName(ctx, activityID), Matches: len(regs)}, nil
}

// activityName returns "" when the activity cannot be read; the desk shows a blank name.
func (s *checkInService) activityName(ctx context.Context, activityID string) string {
	a, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "activity lookup failed", "activity_id", activityID, "err", err)
		}
		return ""
	}
	return a.Name
}

// ConfirmCheckIn marks the resolved registration checked in with the given seat, then
// appends the audit entry and notifies the visitor. Only the first step can fail the call.
// The already-checked-in test uses the resolved copy, so two desks confirming the same
// registration concurrently both succeed and the later seat wins.
func (s *checkInService) ConfirmCheckIn(ctx context.Context, operatorID string, res *domain.Resolution, seatNumber string) (*domain.Registration, error) {
	if res == nil || res.Registration == nil {
		return nil, invalid("nothing resolved to confirm")
	}
	seat := strings.TrimSpace(seatNumber)
	if seat == "" {
		return nil, invalid("seatNumber is required")
	}
	if res.Registration.CheckedIn() {
		return nil, domain.ErrAlreadyCheckedIn
	}

	updated, err := s.registrationRepo.MarkCheckedIn(ctx, res.Registration.ID, seat)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark checked in: %w", err)
	}

	entry := &domain.CheckInLogEntry{
		RegistrationID: updated.ID,
		StudentName:    updated.FullName,
		ActivityName:   res.ActivityName,
		AssignedSeat:   seat,
		OperatorID:     operatorID,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "check-in log append failed", "registration_id", updated.ID, "operator_id", operatorID, "err", err)
	}

	if updated.VisitorID != nil && s.notifier != nil {
		if err := s.notifier.NotifyCheckedIn(ctx, *updated.VisitorID, res.ActivityName, seat); err != nil {
			s.logger.WarnContext(ctx, "check-in notification failed",
				"registration_id", updated.ID, "visitor_id", *updated.VisitorID, "err", err)
		}
	}
	return updated, nil
}
