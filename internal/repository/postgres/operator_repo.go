package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"activitycheckin/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

type operatorRepository struct {
	DB *sql.DB
}

func NewOperatorRepository(db *sql.DB) domain.OperatorRepository {
	return &operatorRepository{DB: db}
}

func (r *operatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	query := `
		INSERT INTO operators (username, display_name, password_hash, salt)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, op.Username, op.DisplayName, op.PasswordHash, op.Salt).Scan(&op.ID, &op.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `
		SELECT id, username, display_name, password_hash, salt, created_at
		FROM operators
		WHERE username = $1
	`
	op := &domain.Operator{}
	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&op.ID, &op.Username, &op.DisplayName, &op.PasswordHash, &op.Salt, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return op, nil
}
