package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/portfolio/internal/api/apierr"
	"github.com/mcoot/portfolio/internal/middleware"
)

// Recovery answers a panicking API handler with an INTERNAL_ERROR body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("surface", "api")), writeInternalError)
}

func writeInternalError(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Cache-Control", "no-store")
	apierr.WriteError(w, apierr.NewInternalError())
}
