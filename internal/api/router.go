package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/cosense-mcp/internal/journal"
)

// Deps are the handlers and stores behind the HTTP routes. Nil fields leave the
// corresponding routes unmounted.
type Deps struct {
	// MCP serves the streamable MCP endpoint.
	MCP http.Handler
	// Events streams page events.
	Events http.Handler
	// Journal backs GET /journal.
	Journal journal.Journal
	// Ready reports whether the remote project is reachable.
	Ready ReadyFunc

	AuthEnabled bool
	Token       string
}

// NewRouter creates a chi router with all routes mounted. Health endpoints are
// never authenticated.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &healthHandler{ready: deps.Ready}
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.AuthEnabled, deps.Token))

		if deps.MCP != nil {
			r.Handle("/mcp", deps.MCP)
		}
		if deps.Events != nil {
			r.Get("/events", deps.Events.ServeHTTP)
		}
		if deps.Journal != nil {
			jh := &journalHandler{journal: deps.Journal}
			r.Get("/journal", jh.List)
		}
	})

	return r
}
