package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activitycheckin/internal/domain"
)

type profileService struct {
	profileRepo domain.VisitorProfileRepository
	now         func() time.Time
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(profileRepo domain.VisitorProfileRepository) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, now: time.Now}
}

// Get returns domain.ErrNotFound until the visitor has completed setup.
func (s *profileService) Get(ctx context.Context, sess *domain.Session) (*domain.VisitorProfile, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := s.profileRepo.Get(ctx, sess.VisitorID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Setup(ctx context.Context, sess *domain.Session, input domain.ProfileInput) (*domain.VisitorProfile, error) {
	if sess == nil || sess.VisitorID() == "" {
		return nil, domain.ErrUnauthorized
	}
	p := &domain.VisitorProfile{
		VisitorID:  sess.VisitorID(),
		FullName:   strings.TrimSpace(input.FullName),
		StudentID:  strings.TrimSpace(input.StudentID),
		NationalID: strings.TrimSpace(input.NationalID),
		CreatedAt:  s.now(),
	}
	if p.FullName == "" {
		return nil, invalid("fullName is required")
	}
	if err := validateStudent(p.StudentID, p.NationalID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	sess.Profile = p
	return p, nil
}
