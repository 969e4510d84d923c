package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/0xsarwagya/thahrav-new/pkg/httputil"
	"github.com/0xsarwagya/thahrav-new/pkg/logger"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	emailKey  contextKeyType = "email"
)

// Identity describes the authenticated principal resolved from a request.
type Identity struct {
	UserID string
	Email  string
}

// IdentityResolver resolves the request's ambient credentials (the session
// cookie) to an Identity. A nil Identity with a nil error means the request
// carries no valid session. The ResponseWriter is passed through so resolvers
// may refresh the cookie.
type IdentityResolver func(w http.ResponseWriter, r *http.Request) (*Identity, error)

// unauthorizedMessage is the fixed message for every request without a valid
// session. Requests rejected here never reach persistence.
const unauthorizedMessage = "Unauthorized: No valid session found"

// Session middleware resolves the session cookie and injects the caller's
// identity into the request context.
func Session(resolve IdentityResolver, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolve(w, r)
			if err != nil {
				l.ErrorContext(r.Context(), "session resolution failed",
					slog.String("error", err.Error()),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteErrorMessage(w, http.StatusInternalServerError,
					"Internal Server Error: Failed to resolve session")
				return
			}
			if identity == nil {
				httputil.WriteErrorMessage(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, identity.UserID)
			ctx = context.WithValue(ctx, emailKey, identity.Email)
			ctx = logger.WithUserID(ctx, identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteUnauthorized writes the fixed 401 envelope. Handlers use it when they
// re-check the context identity at their own boundary.
func WriteUnauthorized(w http.ResponseWriter) {
	httputil.WriteErrorMessage(w, http.StatusUnauthorized, unauthorizedMessage)
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// EmailFromContext extracts the authenticated email from the request context.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey).(string); ok {
		return email
	}
	return ""
}
