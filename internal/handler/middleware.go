package handler

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
)

// middleware wraps next with request logging and CORS. Preflight requests
// are answered by the CORS layer; any other OPTIONS request reaches the mux.
func (h *TodoHandler) middleware(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})

	return hlog.NewHandler(h.log)(access(c.Handler(next)))
}
