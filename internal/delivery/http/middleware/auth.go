package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/domain"
)

type contextKey string

const (
	operatorIDKey contextKey = "operatorID"
	sessionKey    contextKey = "visitorSession"
)

// SetOperatorID returns a context with the operator ID set. Used by auth middleware.
func SetOperatorID(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorIDKey, operatorID)
}

// OperatorIDFromContext returns the authenticated operator ID from the context, if present.
func OperatorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(operatorIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The message is set when it fails.
func bearerToken(r *http.Request) (token, message string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireOperator returns a wrapper that validates the operator's Bearer JWT and sets the
// operator ID in the request context. If the token is missing or invalid, it responds
// with 401 and does not call next.
func RequireOperator(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			operatorID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "operator token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetOperatorID(r.Context(), operatorID))
			next(w, r)
		}
	}
}
