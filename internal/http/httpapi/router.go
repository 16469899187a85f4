package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"moodspec/internal/http/handlers"
	"moodspec/internal/infra"
	"moodspec/internal/middleware"
)

type Options struct {
	CORSAllowedOrigins []string
	// RateLimitPerMin applies to the routes that call the generation API.
	RateLimitPerMin int
	Logger          infra.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSAllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		r.Post("/v1/analyze", app.Analyze)
		r.Post("/v1/preview", app.Preview)
	})

	r.Post("/v1/handoff", app.HandoffPrompts)
	r.Post("/v1/bundle", app.Bundle)

	r.Route("/v1/credential", func(r chi.Router) {
		r.Get("/", app.CredentialStatus)
		r.Put("/", app.CredentialSet)
		r.Delete("/", app.CredentialDelete)
	})

	return r
}
