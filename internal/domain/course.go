package domain

import (
	"context"
	"time"
)

// Course groups activities.
// swagger:model Course
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CourseRepository defines storage operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context) ([]*Course, error)
}
