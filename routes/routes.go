package routes

import (
	"log/slog"
	"net/http"
	"time"

	"invoicepro/handlers"
	"invoicepro/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// Handlers bundles everything the router dispatches to.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Documents *handlers.DocumentHandler
	Numbers   *handlers.NumberHandler
	Preview   *handlers.PreviewHandler
}

// Options tunes the middleware stack.
type Options struct {
	// AllowedOrigin is echoed in Access-Control-Allow-Origin; empty means "*".
	AllowedOrigin string
	// Development relaxes the secure headers (no HSTS, plain HTTP allowed).
	Development bool
	// AuthRequestsPerMinute bounds signup and login attempts per client IP.
	AuthRequestsPerMinute int
}

// CORS middleware
func withCORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Preview-Generation, X-Preview-Pending")

			// Handle preflight request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func NewRouter(h Handlers, opts Options, logger *slog.Logger) http.Handler {
	if opts.AuthRequestsPerMinute <= 0 {
		opts.AuthRequestsPerMinute = 10
	}
	sec := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		STSSeconds:         31536000,
		IsDevelopment:      opts.Development,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RecoverWrapper(logger))
	r.Use(sec.Handler)
	r.Use(withCORS(opts.AllowedOrigin))
	r.Use(metrics.Middleware)

	r.Get("/metrics", metrics.Handler().ServeHTTP)

	// User routes
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(opts.AuthRequestsPerMinute, time.Minute))
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
	})

	// Document routes
	r.Get("/defaults/{kind}", h.Documents.Defaults)
	r.Post("/forms/switch", h.Documents.Switch)
	r.Route("/documents", func(r chi.Router) {
		r.Post("/validate", h.Documents.Validate)
		r.Post("/pdf", h.Documents.PDF)
		r.Post("/print", h.Documents.Print)
		r.With(h.Auth.RequireAuth).Post("/share", h.Documents.Share)
		r.With(h.Auth.RequireAuth).Post("/share/complete", h.Documents.Complete)
	})

	// Numbering routes
	r.Route("/numbers", func(r chi.Router) {
		r.Get("/", h.Numbers.Status)
		r.With(h.Auth.RequireAuth).Put("/{kind}", h.Numbers.Override)
		r.With(h.Auth.RequireAuth).Post("/refresh", h.Numbers.Refresh)
	})

	r.Post("/preview", h.Preview.Schedule)
	r.Get("/preview", h.Preview.Latest)

	r.With(h.Auth.RequireAuth).Post("/logout", h.Auth.Logout)

	return r
}
