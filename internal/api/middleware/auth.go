package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/api/apierr"
	"github.com/mcoot/portfolio/internal/model"
)

type contextKey string

const sessionIDContextKey contextKey = "session_id"

// Authorizer checks that a token owns a session
type Authorizer interface {
	Authorize(ctx context.Context, id model.SessionID, token string) error
}

// SessionOwner creates middleware that requires the owner token of the session
// named by the {id} route variable
func SessionOwner(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.SessionID(mux.Vars(r)["id"])

			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := authorizer.Authorize(r.Context(), id, token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSessionID returns the authorized session ID from the request context
func GetSessionID(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(sessionIDContextKey).(model.SessionID)
	return id
}
