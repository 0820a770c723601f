package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/portfolio/internal/model"
)

const activeSessionContextKey contextKey = "activeSession"

// GetActiveSession returns the session the viewer owns, or empty if none
func GetActiveSession(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(activeSessionContextKey).(model.SessionID)
	return id
}

// ActiveSession looks up the viewer's remembered session and adds it to the
// context when the stored token still owns it
func ActiveSession(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cookie, err := r.Cookie(SessionIDCookieName); err == nil && cookie.Value != "" {
				id := model.SessionID(cookie.Value)
				if IsOwner(r, authorizer, id) {
					ctx = context.WithValue(ctx, activeSessionContextKey, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
