package services

import (
	"context"
	"fmt"
	"strings"

	"activitycheckin/internal/domain"
)

type notificationService struct {
	pusher   domain.Pusher
	renderer domain.MessageRenderer
}

// NewNotificationService returns a NotificationService that renders templates and pushes them once.
func NewNotificationService(pusher domain.Pusher, renderer domain.MessageRenderer) domain.NotificationService {
	return &notificationService{pusher: pusher, renderer: renderer}
}

// Send delivers req.Message, or the seat-assigned template when only SeatNumber is given.
func (s *notificationService) Send(ctx context.Context, req domain.NotificationRequest) error {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return invalid("userId is required")
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		seat := strings.TrimSpace(req.SeatNumber)
		if seat == "" {
			return invalid("message or seatNumber is required")
		}
		var err error
		if text, err = s.renderer.Render(domain.TemplateSeatAssigned, domain.MessageData{SeatNumber: seat}); err != nil {
			return fmt.Errorf("failed to render seat template: %w", err)
		}
	}
	return s.push(ctx, userID, text)
}

func (s *notificationService) NotifyRegistered(ctx context.Context, userID, activityName string) error {
	text, err := s.renderer.Render(domain.TemplateRegistrationConfirmed, domain.MessageData{ActivityName: activityName})
	if err != nil {
		return fmt.Errorf("failed to render registration template: %w", err)
	}
	return s.push(ctx, userID, text)
}

func (s *notificationService) NotifyCheckedIn(ctx context.Context, userID, activityName, seatNumber string) error {
	text, err := s.renderer.Render(domain.TemplateCheckInConfirmed, domain.MessageData{ActivityName: activityName, SeatNumber: seatNumber})
	if err != nil {
		return fmt.Errorf("failed to render check-in template: %w", err)
	}
	return s.push(ctx, userID, text)
}

func (s *notificationService) push(ctx context.Context, userID, text string) error {
	if err := s.pusher.Push(ctx, userID, text); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}
