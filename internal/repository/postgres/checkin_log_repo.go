package postgres

import (
	"context"
	"database/sql"

	"activitycheckin/internal/domain"
)

type checkInLogRepository struct {
	DB *sql.DB
}

func NewCheckInLogRepository(db *sql.DB) domain.CheckInLogRepository {
	return &checkInLogRepository{DB: db}
}

// Append inserts the entry; the database assigns the id and timestamp.
func (r *checkInLogRepository) Append(ctx context.Context, e *domain.CheckInLogEntry) error {
	query := `
		INSERT INTO check_in_logs (registration_id, student_name, activity_name, assigned_seat, operator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp
	`
	return r.DB.QueryRowContext(ctx, query, e.RegistrationID, e.StudentName, e.ActivityName, e.AssignedSeat, e.OperatorID).
		Scan(&e.ID, &e.Timestamp)
}
