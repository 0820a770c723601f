package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/portfolio/internal/middleware"
	"github.com/mcoot/portfolio/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface.
// A panic renders the HTML error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error("Internal Server Error", "Something went wrong. Please try again later.").Render(r.Context(), w)
}
