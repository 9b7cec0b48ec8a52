package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

// AuthConfig controls how requests are attributed to an operator.
type AuthConfig struct {
	BotToken string        // Empty disables verification; every request is the placeholder user
	MaxAge   time.Duration // Oldest accepted init data; 0 disables the check
}

// API serves the shift tracker to the mini app.
type API struct {
	Manager    *studio.Manager
	Planner    *studio.Planner
	Roles      studio.RoleSource
	Auth       AuthConfig
	StudioName string
	AppURL     string
	Logger     *log.Logger
	Now        func() time.Time
	Timeout    time.Duration // Per-request deadline, default 60s
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Router builds the HTTP handler.
func (a *API) Router() http.Handler {
	if a.Timeout <= 0 {
		a.Timeout = time.Minute
	}
	if a.Logger == nil {
		a.Logger = shared.NewLogger(io.Discard)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.Timeout))
	r.Use(loggingMiddleware(a.Logger))

	r.Get("/healthz", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(a.identityMiddleware)

		r.Get("/me", a.handleMe)
		r.Get("/stats", a.handleStats)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", a.handleHistory)
			r.Post("/", a.handleStartShift)
			r.Get("/active", a.handleActiveShift)
			r.Post("/active/end", a.handleEndShift)
		})

		r.Get("/tasks", a.handleTasks)
		r.Get("/schedule", a.handleSchedule)
		r.Get("/guides", a.handleGuides)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/report", a.handleReport)
		})
	})

	return r
}
