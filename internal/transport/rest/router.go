package rest

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/company-api/internal/auth"
	"github.com/frahmantamala/company-api/internal/employee"
	"github.com/frahmantamala/company-api/internal/staff"
	"github.com/frahmantamala/company-api/internal/transport"
	"github.com/frahmantamala/company-api/internal/transport/middleware"
	"github.com/frahmantamala/company-api/internal/transport/swagger"
	"github.com/frahmantamala/company-api/internal/user"
	"github.com/go-chi/chi"
)

const APIPrefix = "/api/v1"

// Handlers groups the domain handlers mounted under APIPrefix. Nil handlers are skipped.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Employees *employee.Handler
	Scaffold  *staff.Router
}

type Options struct {
	DB          *sql.DB
	Driver      string
	Logger      *slog.Logger
	OpenAPISpec []byte
	// Metrics is optional; when set its exposition is served at MetricsPath.
	Metrics     *middleware.Metrics
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) error {
	base := transport.NewBaseHandler(opts.Logger)
	healthHandler := NewHealthHandler(base, opts.DB, opts.Driver)

	var validator *middleware.OpenAPIValidator
	if len(opts.OpenAPISpec) > 0 {
		v, err := middleware.NewOpenAPIValidator(opts.OpenAPISpec, base.Logger)
		if err != nil {
			return fmt.Errorf("openapi validator: %w", err)
		}
		validator = v
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(base.Logger))
	router.Use(middleware.RecoveryMiddleware(base.Logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Method("GET", opts.MetricsPath, opts.Metrics.Handler())
	}

	if len(opts.OpenAPISpec) > 0 {
		router.Get(swagger.SpecPath, swagger.SpecHandler(opts.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		// Protected routes: the token is checked before parameters are validated
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			if validator != nil {
				pr.Use(validator.Middleware)
			}

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Employees != nil {
				pr.Route("/basic/employees", h.Employees.Routes)
			}

			if h.Scaffold != nil {
				pr.Route("/scaffold", h.Scaffold.Routes)
			}
		})
	})

	return nil
}
