package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/domain"
)

// SetSession returns a context carrying the visitor session.
func SetSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the visitor session built by RequireVisitor, if present.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*domain.Session)
	return sess, ok && sess != nil
}

// RequireVisitor resolves the platform access token into a domain.Session. The token is
// read from the Authorization header, or from the access_token query parameter for
// websocket upgrades where browsers cannot set headers. The stored profile is attached
// when one exists.
func RequireVisitor(identities domain.IdentityProvider, profiles domain.VisitorProfileRepository, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				if q := strings.TrimSpace(r.URL.Query().Get("access_token")); q != "" {
					token, msg = q, ""
				}
			}
			if msg != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}

			identity, err := identities.Identify(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired access token")
					return
				}
				logger.ErrorContext(r.Context(), "identity lookup failed", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "identity provider unavailable")
				return
			}

			sess := &domain.Session{Identity: *identity}
			profile, err := profiles.Get(r.Context(), identity.UserID)
			switch {
			case err == nil:
				sess.Profile = profile
			case errors.Is(err, domain.ErrNotFound):
			default:
				logger.WarnContext(r.Context(), "profile lookup failed", "visitor_id", identity.UserID, "err", err)
			}

			next(w, r.WithContext(SetSession(r.Context(), sess)))
		}
	}
}
