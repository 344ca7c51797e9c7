package domain

import (
	"context"
	"time"
)

// Identity is what the messaging-platform login yields for the current visitor.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// IdentityProvider turns a platform access token into an Identity.
type IdentityProvider interface {
	Identify(ctx context.Context, accessToken string) (*Identity, error)
}

// VisitorProfile is the optional enrichment record keyed by the identity's user id.
// swagger:model VisitorProfile
type VisitorProfile struct {
	VisitorID  string    `json:"visitorId"`
	FullName   string    `json:"fullName"`
	StudentID  string    `json:"studentId"`
	NationalID string    `json:"nationalId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VisitorProfileRepository stores profiles keyed by visitor id.
type VisitorProfileRepository interface {
	Get(ctx context.Context, visitorID string) (*VisitorProfile, error)
	Upsert(ctx context.Context, profile *VisitorProfile) error
}

// Session is built once per request from the identity provider and handed to every
// visitor workflow call. Profile is nil until the visitor completes setup.
type Session struct {
	Identity Identity
	Profile  *VisitorProfile
}

// VisitorID returns the identity's user id.
func (s *Session) VisitorID() string {
	return s.Identity.UserID
}

// ProfileInput is the one-time profile setup form.
type ProfileInput struct {
	FullName   string
	StudentID  string
	NationalID string
}

// ProfileService reads and sets up visitor profiles.
type ProfileService interface {
	Get(ctx context.Context, sess *Session) (*VisitorProfile, error)
	Setup(ctx context.Context, sess *Session, input ProfileInput) (*VisitorProfile, error)
}
