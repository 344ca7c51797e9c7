package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"activitycheckin/internal/domain"
)

func TestBcryptHasher_GenerateSalt_Unique(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{32}$`, salt)
		assert.False(t, seen[salt])
		seen[salt] = true
	}
}

func TestBcryptHasher_Compare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	otherSalt, err := h.GenerateSalt()
	require.NoError(t, err)
	hash, err := h.Hash(salt, "desk-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		salt     string
		password string
		wantErr  bool
	}{
		{name: "match", salt: salt, password: "desk-password"},
		{name: "wrong password", salt: salt, password: "wrong", wantErr: true},
		{name: "wrong salt", salt: otherSalt, password: "desk-password", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Compare(hash, tt.salt, tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := string(make([]byte, 200))
	hash, err := h.Hash("salt", long)
	require.NoError(t, err)
	require.NoError(t, h.Compare(hash, "salt", long))
}
