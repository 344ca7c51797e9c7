package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitycheckin/internal/domain"
)

type fakeOperatorRepo struct {
	byName    map[string]*domain.Operator
	createErr error
	creates   int
}

func (m *fakeOperatorRepo) Create(_ context.Context, op *domain.Operator) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.creates++
	op.ID = "op-1"
	if m.byName == nil {
		m.byName = map[string]*domain.Operator{}
	}
	m.byName[op.Username] = op
	return nil
}

func (m *fakeOperatorRepo) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	op, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// plainHasher stores "salt:password" so tests stay fast.
type plainHasher struct{}

func (plainHasher) GenerateSalt() (string, error) { return "salt", nil }

func (plainHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }

func (plainHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	subject string
	roles   []string
	expiry  time.Duration
}

func (f *fakeIssuer) Issue(operatorID, _ string, roles []string, expiry time.Duration) (string, error) {
	f.subject, f.roles, f.expiry = operatorID, roles, expiry
	return "token-for-" + operatorID, nil
}

func TestOperatorAuthService_EnsureAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := &fakeOperatorRepo{}
	issuer := &fakeIssuer{}
	svc := NewOperatorAuthService(repo, plainHasher{}, issuer, 12*time.Hour)

	op, err := svc.EnsureOperator(ctx, "Admin", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Username)
	assert.Equal(t, "admin", op.DisplayName)

	again, err := svc.EnsureOperator(ctx, "admin", "other", "Desk")
	require.NoError(t, err)
	assert.Equal(t, op.ID, again.ID)
	assert.Equal(t, 1, repo.creates)

	token, got, err := svc.Login(ctx, " ADMIN ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "token-for-op-1", token)
	assert.Equal(t, "op-1", got.ID)
	assert.Equal(t, []string{"admin"}, issuer.roles)
	assert.Equal(t, 12*time.Hour, issuer.expiry)
}

func TestOperatorAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	repo := &fakeOperatorRepo{byName: map[string]*domain.Operator{
		"admin": {ID: "op-1", Username: "admin", PasswordHash: "salt:s3cret", Salt: "salt"},
	}}
	svc := NewOperatorAuthService(repo, plainHasher{}, &fakeIssuer{}, time.Hour)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "admin", "nope", domain.ErrUnauthorized},
		{"unknown user", "ghost", "s3cret", domain.ErrUnauthorized},
		{"empty password", "admin", "", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOperatorAuthService_EnsureOperator_RaceReturnsExisting(t *testing.T) {
	existing := &domain.Operator{ID: "op-9", Username: "admin"}
	repo := &fakeOperatorRepo{createErr: domain.ErrDuplicate}
	svc := &operatorAuthService{operatorRepo: &racingOperatorRepo{fakeOperatorRepo: repo, winner: existing}, hasher: plainHasher{}, issuer: &fakeIssuer{}}

	op, err := svc.EnsureOperator(context.Background(), "admin", "pw", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "op-9", op.ID)
}

// racingOperatorRepo reports no operator until Create loses to another writer.
type racingOperatorRepo struct {
	*fakeOperatorRepo
	winner *domain.Operator
	lost   bool
}

func (r *racingOperatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	err := r.fakeOperatorRepo.Create(ctx, op)
	r.lost = errors.Is(err, domain.ErrDuplicate)
	return err
}

func (r *racingOperatorRepo) GetByUsername(context.Context, string) (*domain.Operator, error) {
	if r.lost {
		return r.winner, nil
	}
	return nil, domain.ErrNotFound
}
