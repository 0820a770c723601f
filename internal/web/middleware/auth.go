package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/model"
)

type contextKey string

// Cookie names. The token cookie shares its name with the one the JSON API accepts.
const (
	TokenCookieName     = "session"
	SessionIDCookieName = "session_id"

	sessionCookieMaxAge = 24 * 60 * 60
)

// Authorizer checks that a token owns a session
type Authorizer interface {
	Authorize(ctx context.Context, id model.SessionID, token string) error
}

// SetSessionCookies remembers the viewer's session and owner token
func SetSessionCookies(w http.ResponseWriter, id model.SessionID, token string) {
	http.SetCookie(w, sessionCookie(TokenCookieName, token, sessionCookieMaxAge))
	http.SetCookie(w, sessionCookie(SessionIDCookieName, string(id), sessionCookieMaxAge))
}

// ClearSessionCookies forgets the viewer's session
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{TokenCookieName, SessionIDCookieName} {
		c := sessionCookie(name, "", -1)
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Token returns the owner token cookie, or empty if absent
func Token(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// IsOwner reports whether the request's token cookie owns the session
func IsOwner(r *http.Request, authorizer Authorizer, id model.SessionID) bool {
	token := Token(r)
	if token == "" {
		return false
	}
	return authorizer.Authorize(r.Context(), id, token) == nil
}

// RequireOwner rejects requests for the {id} session that do not carry its owner token.
// The viewer is redirected back to the game with a flash message.
func RequireOwner(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.SessionID(mux.Vars(r)["id"])
			if !IsOwner(r, authorizer, id) {
				if r.Header.Get("HX-Request") == "true" {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
				SetFlash(w, "error", "Only the player who started this game can control it")
				http.Redirect(w, r, "/play/"+string(id), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
