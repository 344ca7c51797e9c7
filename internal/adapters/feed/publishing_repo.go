package feed

import (
	"context"
	"log/slog"

	"activitycheckin/internal/domain"
)

// publishingRepository signals the feed after every successful write to a registration
// that belongs to a visitor. Reads pass through.
type publishingRepository struct {
	domain.RegistrationRepository
	feed   domain.RegistrationFeed
	logger *slog.Logger
}

// WithPublishing wraps repo so that Create, MarkCheckedIn and UpdateSeat publish a change.
// Publish failures are logged and never fail the write.
func WithPublishing(repo domain.RegistrationRepository, feed domain.RegistrationFeed, logger *slog.Logger) domain.RegistrationRepository {
	return &publishingRepository{RegistrationRepository: repo, feed: feed, logger: logger}
}

func (r *publishingRepository) publish(ctx context.Context, reg *domain.Registration) {
	if reg == nil || reg.VisitorID == nil {
		return
	}
	change := domain.RegistrationChange{VisitorID: *reg.VisitorID, RegistrationID: reg.ID}
	if err := r.feed.Publish(ctx, change); err != nil {
		r.logger.WarnContext(ctx, "registration change not published",
			"registration_id", reg.ID, "visitor_id", change.VisitorID, "err", err)
	}
}

func (r *publishingRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if err := r.RegistrationRepository.Create(ctx, reg); err != nil {
		return err
	}
	r.publish(ctx, reg)
	return nil
}

func (r *publishingRepository) MarkCheckedIn(ctx context.Context, id, seatNumber string) (*domain.Registration, error) {
	reg, err := r.RegistrationRepository.MarkCheckedIn(ctx, id, seatNumber)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, reg)
	return reg, nil
}

func (r *publishingRepository) UpdateSeat(ctx context.Context, id string, seatNumber *string) (*domain.Registration, error) {
	reg, err := r.RegistrationRepository.UpdateSeat(ctx, id, seatNumber)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, reg)
	return reg, nil
}
