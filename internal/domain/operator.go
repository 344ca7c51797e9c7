package domain

import (
	"context"
	"time"
)

// Operator is an administrator who checks visitors in and edits seats.
type Operator struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OperatorRepository defines storage operations for operators.
type OperatorRepository interface {
	Create(ctx context.Context, op *Operator) error
	GetByUsername(ctx context.Context, username string) (*Operator, error)
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated operator.
type TokenIssuer interface {
	Issue(operatorID, username string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated operator ID.
type TokenVerifier interface {
	Verify(token string) (operatorID string, err error)
}

// OperatorAuthService logs operators in and seeds the configured operator.
type OperatorAuthService interface {
	Login(ctx context.Context, username, password string) (token string, op *Operator, err error)
	EnsureOperator(ctx context.Context, username, password, displayName string) (*Operator, error)
}
