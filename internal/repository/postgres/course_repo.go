package postgres

import (
	"context"
	"database/sql"
	"errors"

	"activitycheckin/internal/domain"
)

type courseRepository struct {
	DB *sql.DB
}

func NewCourseRepository(db *sql.DB) domain.CourseRepository {
	return &courseRepository{DB: db}
}

func (r *courseRepository) Create(ctx context.Context, c *domain.Course) error {
	query := `
		INSERT INTO courses (name)
		VALUES ($1)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	c := &domain.Course{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, created_at FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, created_at FROM courses ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []*domain.Course{}
	for rows.Next() {
		c := &domain.Course{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}
