package domain

import "context"

// Pusher delivers a text message to a messaging-platform user (infrastructure port).
type Pusher interface {
	Push(ctx context.Context, to, text string) error
}

// MessageRenderer renders a named notification template with the given data.
type MessageRenderer interface {
	Render(templateName string, data any) (string, error)
}

// Notification template names.
const (
	TemplateRegistrationConfirmed = "registration_confirmed"
	TemplateCheckInConfirmed      = "check_in_confirmed"
	TemplateSeatAssigned          = "seat_assigned"
)

// MessageData is the data every notification template is executed with.
type MessageData struct {
	ActivityName string
	SeatNumber   string
}

// NotificationRequest is the gateway input. SeatNumber is the legacy form used when Message is empty.
type NotificationRequest struct {
	UserID     string
	Message    string
	SeatNumber string
}

// NotificationService is the notification gateway. Nothing is retried.
type NotificationService interface {
	Send(ctx context.Context, req NotificationRequest) error
	NotifyRegistered(ctx context.Context, userID, activityName string) error
	NotifyCheckedIn(ctx context.Context, userID, activityName, seatNumber string) error
}
