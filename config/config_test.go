package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("IDENTITY_MODE", "")
	t.Setenv("CAPACITY_POLICY", "")
	t.Setenv("CHECKIN_ERROR_DISPLAY", "")
	t.Setenv("CHECKIN_DONE_DISPLAY", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, IdentityModeLINE, cfg.IdentityMode)
	assert.Equal(t, "advisory", cfg.CapacityPolicy)
	assert.Equal(t, 3*time.Second, cfg.CheckInErrorDisplay)
	assert.Equal(t, 2*time.Second, cfg.CheckInDoneDisplay)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
}

func TestLoad_DevelopmentUsesMockIdentity(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("IDENTITY_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, IdentityModeMock, cfg.IdentityMode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown capacity policy", "CAPACITY_POLICY", "sometimes"},
		{"unknown identity mode", "IDENTITY_MODE", "oauth"},
		{"bad duration", "CHECKIN_ERROR_DISPLAY", "three"},
		{"bad expiry", "JWT_EXPIRY_HOURS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("IDENTITY_MODE", "line")

	_, err := Load()
	require.Error(t, err)
}

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")

	logger.Info("dropped")
	logger.Warn("kept", "registration_id", "r1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "r1", rec["registration_id"])
	assert.Equal(t, "activitycheckin", rec["service"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
