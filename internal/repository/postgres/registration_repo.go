package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"activitycheckin/internal/domain"
)

const registrationColumns = `id, activity_id, course_id, full_name, student_id, national_id, visitor_id, status, seat_number, registered_at, registered_by`

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns the registrations collection backed by PostgreSQL.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var courseID, visitorID, seat sql.NullString
	var status string
	if err := row.Scan(&reg.ID, &reg.ActivityID, &courseID, &reg.FullName, &reg.StudentID, &reg.NationalID,
		&visitorID, &status, &seat, &reg.RegisteredAt, &reg.RegisteredBy); err != nil {
		return nil, err
	}
	reg.CourseID = ptr(courseID)
	reg.VisitorID = ptr(visitorID)
	reg.SeatNumber = ptr(seat)
	reg.Status = domain.RegistrationStatus(status)
	return reg, nil
}

func (r *registrationRepository) queryList(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []*domain.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Registration, error) {
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// Create inserts the registration. An empty ID is replaced by a fresh UUID, which becomes the token.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query, reg.ID, reg.ActivityID, nullable(reg.CourseID), reg.FullName, reg.StudentID,
		reg.NationalID, nullable(reg.VisitorID), string(reg.Status), nullable(reg.SeatNumber), reg.RegisteredAt, reg.RegisteredBy)
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *registrationRepository) FindByActivityAndNationalID(ctx context.Context, activityID, nationalID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE activity_id = $1 AND national_id = $2
		ORDER BY registered_at ASC
	`
	return r.queryList(ctx, query, activityID, nationalID)
}

func (r *registrationRepository) FindByActivityAndVisitor(ctx context.Context, activityID, visitorID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE activity_id = $1 AND visitor_id = $2
		ORDER BY registered_at ASC
		LIMIT 1
	`
	return r.queryOne(ctx, query, activityID, visitorID)
}

func (r *registrationRepository) ListByActivity(ctx context.Context, activityID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE activity_id = $1
		ORDER BY registered_at ASC
	`
	return r.queryList(ctx, query, activityID)
}

func (r *registrationRepository) ListByVisitor(ctx context.Context, visitorID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE visitor_id = $1
		ORDER BY registered_at DESC
	`
	return r.queryList(ctx, query, visitorID)
}

func (r *registrationRepository) CountByActivity(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT activity_id, COUNT(*) FROM registrations GROUP BY activity_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var activityID string
		var n int
		if err := rows.Scan(&activityID, &n); err != nil {
			return nil, err
		}
		counts[activityID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// MarkCheckedIn sets status and seat in one statement. It does not look at the current
// status: concurrent confirmations both succeed and the last write decides the seat.
func (r *registrationRepository) MarkCheckedIn(ctx context.Context, id, seatNumber string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $2, seat_number = $3
		WHERE id = $1
		RETURNING ` + registrationColumns
	return r.queryOne(ctx, query, id, string(domain.StatusCheckedIn), seatNumber)
}

func (r *registrationRepository) UpdateSeat(ctx context.Context, id string, seatNumber *string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET seat_number = $2
		WHERE id = $1
		RETURNING ` + registrationColumns
	return r.queryOne(ctx, query, id, nullable(seatNumber))
}
