package postgres

import (
	"context"
	"database/sql"
	"errors"

	"activitycheckin/internal/domain"
)

type visitorProfileRepository struct {
	DB *sql.DB
}

func NewVisitorProfileRepository(db *sql.DB) domain.VisitorProfileRepository {
	return &visitorProfileRepository{DB: db}
}

func (r *visitorProfileRepository) Get(ctx context.Context, visitorID string) (*domain.VisitorProfile, error) {
	query := `
		SELECT visitor_id, full_name, student_id, national_id, created_at
		FROM student_profiles
		WHERE visitor_id = $1
	`
	p := &domain.VisitorProfile{}
	err := r.DB.QueryRowContext(ctx, query, visitorID).
		Scan(&p.VisitorID, &p.FullName, &p.StudentID, &p.NationalID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Upsert writes the profile document under the visitor id, replacing any previous one.
func (r *visitorProfileRepository) Upsert(ctx context.Context, p *domain.VisitorProfile) error {
	query := `
		INSERT INTO student_profiles (visitor_id, full_name, student_id, national_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (visitor_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, student_id = EXCLUDED.student_id,
		    national_id = EXCLUDED.national_id, created_at = EXCLUDED.created_at
	`
	_, err := r.DB.ExecContext(ctx, query, p.VisitorID, p.FullName, p.StudentID, p.NationalID, p.CreatedAt)
	return err
}
