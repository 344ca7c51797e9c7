package domain

import "context"

// RegistrationChange signals that a registration owned by VisitorID was written.
type RegistrationChange struct {
	VisitorID      string `json:"visitorId"`
	RegistrationID string `json:"registrationId"`
}

// Subscription is a live handle on a visitor's registration changes.
// Close releases it; Changes is closed once the subscription ends.
type Subscription interface {
	Changes() <-chan RegistrationChange
	Close() error
}

// RegistrationFeed publishes and subscribes to registration changes per visitor.
// Delivery is eventual; no ordering is guaranteed relative to the write that caused it.
type RegistrationFeed interface {
	Publish(ctx context.Context, change RegistrationChange) error
	Subscribe(ctx context.Context, visitorID string) (Subscription, error)
}
