package domain

import (
	"context"
	"time"
)

// CheckInLogEntry is an append-only audit record of one confirmed check-in.
// swagger:model CheckInLogEntry
type CheckInLogEntry struct {
	ID             int64     `json:"id"`
	RegistrationID string    `json:"registrationId"`
	StudentName    string    `json:"studentName"`
	ActivityName   string    `json:"activityName"`
	AssignedSeat   string    `json:"assignedSeat"`
	OperatorID     string    `json:"operatorId"`
	Timestamp      time.Time `json:"timestamp"`
}

// CheckInLogRepository appends audit entries. The store assigns ID and Timestamp.
type CheckInLogRepository interface {
	Append(ctx context.Context, entry *CheckInLogEntry) error
}

// Resolution is the outcome of resolving a token or a manual search.
// Matches is the number of registrations the lookup found; above one means the
// (activity, national id) pair was ambiguous and the earliest registration was taken.
// swagger:model Resolution
type Resolution struct {
	Registration *Registration `json:"registration"`
	ActivityName string        `json:"activityName"`
	Matches      int           `json:"matches"`
}

// CheckInService resolves registrations and performs the check-in transition.
type CheckInService interface {
	Resolve(ctx context.Context, token string) (*Resolution, error)
	ResolveByNationalID(ctx context.Context, activityID, nationalID string) (*Resolution, error)
	ConfirmCheckIn(ctx context.Context, operatorID string, res *Resolution, seatNumber string) (*Registration, error)
}
