package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Login(t *testing.T) {
	op := &domain.Operator{ID: "op-1", Username: "admin", DisplayName: "Administrator", PasswordHash: "secret-hash"}
	tests := []struct {
		name       string
		body       string
		svc        *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{"ok", `{"username":"admin","password":"pw"}`, &fakeAuthService{token: "jwt", op: op}, http.StatusOK, ""},
		{"missing password", `{"username":"admin"}`, &fakeAuthService{}, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"bad credentials", `{"username":"admin","password":"nope"}`, &fakeAuthService{err: domain.ErrUnauthorized}, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{"store failure", `{"username":"admin","password":"pw"}`, &fakeAuthService{err: errors.New("boom")}, http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAuthController(testLogger, tt.svc)
			rr := httptest.NewRecorder()

			c.Login(rr, jsonRequest(http.MethodPost, "/api/auth/login", tt.body))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				apiErr := decodeEnvelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.NotContains(t, rr.Body.String(), "secret-hash")
			var got LoginResponse
			require.Nil(t, decodeEnvelope(t, rr, &got))
			assert.Equal(t, "jwt", got.Token)
			assert.Equal(t, "Bearer", got.TokenType)
			assert.Equal(t, "op-1", got.Operator.ID)
		})
	}
}
