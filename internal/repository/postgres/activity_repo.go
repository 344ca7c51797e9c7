package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"activitycheckin/internal/domain"
)

const activityColumns = `id, name, course_id, activity_date, location, capacity`

type activityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{DB: db}
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	a := &domain.Activity{}
	var courseID sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &courseID, &a.ActivityDate, &a.Location, &a.Capacity); err != nil {
		return nil, err
	}
	a.CourseID = ptr(courseID)
	return a, nil
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	query := `
		INSERT INTO activities (name, course_id, activity_date, location, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.Name, nullable(a.CourseID), a.ActivityDate, a.Location, a.Capacity).Scan(&a.ID)
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns matching activities, newest first.
func (r *activityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	var where []string
	var args []any
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		where = append(where, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("activity_date >= $%d", len(args)))
	}
	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY activity_date DESC`
	return r.queryList(ctx, query, args...)
}

// GetByIDs returns the activities among ids that still exist, in no particular order.
func (r *activityRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Activity, error) {
	if len(ids) == 0 {
		return []*domain.Activity{}, nil
	}
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ANY($1)`
	return r.queryList(ctx, query, pq.Array(ids))
}

func (r *activityRepository) queryList(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
