package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activitycheckin/internal/domain"
)

// operatorRole is the only role an operator token carries.
const operatorRole = "admin"

type operatorAuthService struct {
	operatorRepo domain.OperatorRepository
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	expiry       time.Duration
}

// NewOperatorAuthService creates an OperatorAuthService issuing tokens valid for expiry.
func NewOperatorAuthService(operatorRepo domain.OperatorRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer, expiry time.Duration) domain.OperatorAuthService {
	return &operatorAuthService{operatorRepo: operatorRepo, hasher: hasher, issuer: issuer, expiry: expiry}
}

// Login returns domain.ErrUnauthorized for an unknown username or a wrong password alike.
func (s *operatorAuthService) Login(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return "", nil, invalid("username and password are required")
	}
	op, err := s.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get operator: %w", err)
	}
	if err := s.hasher.Compare(op.PasswordHash, op.Salt, password); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue(op.ID, op.Username, []string{operatorRole}, s.expiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, op, nil
}

// EnsureOperator creates the operator if the username is free. An existing operator is
// returned unchanged, password included.
func (s *operatorAuthService) EnsureOperator(ctx context.Context, username, password, displayName string) (*domain.Operator, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	if op, err := s.operatorRepo.GetByUsername(ctx, username); err == nil {
		return op, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get operator: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}
	op := &domain.Operator{
		Username:     username,
		DisplayName:  firstNonEmpty(displayName, username),
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.operatorRepo.Create(ctx, op); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Another instance seeded it first.
			return s.operatorRepo.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("create operator: %w", err)
	}
	return op, nil
}
