package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/company-api/api"
	"github.com/frahmantamala/company-api/internal"
	"github.com/frahmantamala/company-api/internal/auth"
	authPostgres "github.com/frahmantamala/company-api/internal/auth/postgres"
	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/internal/employee"
	employeePostgres "github.com/frahmantamala/company-api/internal/employee/postgres"
	"github.com/frahmantamala/company-api/internal/staff"
	"github.com/frahmantamala/company-api/internal/transport/middleware"
	"github.com/frahmantamala/company-api/internal/transport/rest"
	"github.com/frahmantamala/company-api/internal/user"
	userPostgres "github.com/frahmantamala/company-api/internal/user/postgres"
	"github.com/frahmantamala/company-api/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let audit handlers finish before the pool goes away
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Error("Event bus drain error", "error", err)
		}
		if err := closeDB(deps.DB); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config

	sqlxDB, err := sqlxFromGorm(deps.DB, cfg.Database.Driver)
	if err != nil {
		return err
	}

	authService := auth.NewService(authPostgres.NewRepository(deps.DB), cfg.Security.BearerSecret, deps.Logger)
	userService := user.NewService(userPostgres.NewRepository(sqlxDB))
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.DB), deps.EventBus, deps.Logger)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Employees: employee.NewHandler(employeeService, cfg.Pagination.PageSize),
		Scaffold: staff.NewRouter(deps.DB, staff.Options{
			PageSize: cfg.Pagination.PageSize,
			Events:   deps.EventBus,
			Logger:   deps.Logger,
		}),
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	opts := rest.Options{
		DB:          sqlDB,
		Driver:      cfg.Database.Driver,
		Logger:      deps.Logger,
		OpenAPISpec: api.OpenAPISpec,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.Metrics = middleware.NewMetrics()
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	return rest.RegisterAllRoutes(deps.Router, handlers, opts)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := setup()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	events.SubscribeAudit(eventBus, lg, employee.Resource, staff.ResourceDepartment, staff.ResourceProject)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Logger:   lg,
	}, nil
}
