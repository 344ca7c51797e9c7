package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the check-in state of a registration. It only moves forward.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusCheckedIn  RegistrationStatus = "checked-in"
)

// Who created a registration.
const (
	RegisteredByVisitor = "visitor"
	RegisteredByAdmin   = "admin"
)

// Registration is one visitor's (or an admin-entered student's) seat request for an activity.
// Its ID doubles as the scannable token.
// swagger:model Registration
type Registration struct {
	ID           string             `json:"id"`
	ActivityID   string             `json:"activityId"`
	CourseID     *string            `json:"courseId"`
	FullName     string             `json:"fullName"`
	StudentID    string             `json:"studentId"`
	NationalID   string             `json:"nationalId"`
	VisitorID    *string            `json:"visitorId"`
	Status       RegistrationStatus `json:"status"`
	SeatNumber   *string            `json:"seatNumber"`
	RegisteredAt time.Time          `json:"registeredAt"`
	RegisteredBy string             `json:"registeredBy"`
}

// CheckedIn reports whether the registration has already been checked in.
func (r *Registration) CheckedIn() bool {
	return r.Status == StatusCheckedIn
}

// RegistrationRepository defines storage operations for registrations.
// Update methods return the document as stored after the write.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	FindByActivityAndNationalID(ctx context.Context, activityID, nationalID string) ([]*Registration, error)
	FindByActivityAndVisitor(ctx context.Context, activityID, visitorID string) (*Registration, error)
	ListByActivity(ctx context.Context, activityID string) ([]*Registration, error)
	ListByVisitor(ctx context.Context, visitorID string) ([]*Registration, error)
	CountByActivity(ctx context.Context) (map[string]int, error)
	MarkCheckedIn(ctx context.Context, id, seatNumber string) (*Registration, error)
	UpdateSeat(ctx context.Context, id string, seatNumber *string) (*Registration, error)
}

// RegistrationWithActivity bundles a registration with its activity for the visitor view.
type RegistrationWithActivity struct {
	Registration *Registration `json:"registration"`
	Activity     *Activity     `json:"activity"`
}

// RegistrationInput carries the registration form. Empty fields may be filled from the session profile.
type RegistrationInput struct {
	ActivityID string
	FullName   string
	StudentID  string
	NationalID string
}

// RegistrationService covers the visitor-facing registration workflow and the admin
// register-on-behalf path.
type RegistrationService interface {
	ListCourses(ctx context.Context) ([]*Course, error)
	ListUpcomingActivities(ctx context.Context, courseID string) ([]*ActivityWithCourse, error)
	// Register returns (reg, created, err): created is false when the visitor was already registered.
	Register(ctx context.Context, sess *Session, input RegistrationInput) (*Registration, bool, error)
	RegisterOnBehalf(ctx context.Context, operatorID string, input RegistrationInput) (*Registration, error)
	ListMine(ctx context.Context, sess *Session) ([]*RegistrationWithActivity, error)
	GetMine(ctx context.Context, sess *Session, registrationID string) (*Registration, error)
	Subscribe(ctx context.Context, sess *Session) (Subscription, error)
}

// RosterService backs the admin dashboard and per-activity seat roster.
type RosterService interface {
	ListActivities(ctx context.Context) ([]*ActivityHeadcount, error)
	GetRoster(ctx context.Context, activityID string) (*Activity, []*Registration, error)
	AssignSeat(ctx context.Context, registrationID, seatNumber string) (*Registration, error)
	CreateCourse(ctx context.Context, name string) (*Course, error)
	CreateActivity(ctx context.Context, input NewActivityInput) (*Activity, error)
}
