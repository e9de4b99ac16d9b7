package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/employee"
	"leavedesk/internal/domain/entitlement"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/payroll"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	employeeshandler "leavedesk/internal/transport/http/handlers/employees"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	payrollhandler "leavedesk/internal/transport/http/handlers/payroll"
	reportshandler "leavedesk/internal/transport/http/handlers/reports"
	"leavedesk/internal/transport/http/middleware"
)

// App bundles the router and its backing pool so tests can drive the HTTP
// surface without binding a listener.
type App struct {
	Config    config.Config
	Router    chi.Router
	DB        *pgxpool.Pool
	Collector *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	app := &App{
		Config:    cfg,
		DB:        pool,
		Collector: metrics.New(),
	}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() chi.Router {
	leaveService := leave.NewService(a.DB)
	employeeStore := employee.NewStore(a.DB)
	entitlementStore := entitlement.NewStore(a.DB)
	reportService := reports.NewService(reports.NewStore(a.DB))
	payrollService := payroll.NewService(employeeStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.WithIdentity)
	r.Use(middleware.Logger(a.Collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	r.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	if a.Config.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(a.Config.RateLimitPerMinute, time.Minute))
	}

	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	if a.Config.MetricsEnabled {
		r.Get("/metrics", a.handleMetrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		leavehandler.NewHandler(leaveService).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeStore, entitlementStore, leaveService).RegisterRoutes(r)
		reportshandler.NewHandler(reportService).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService).RegisterRoutes(r)
	})

	return r
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
}

func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.DB.Ping(ctx); err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "ready"}, reqID)
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, a.Collector.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// termination signal arrives, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "environment", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
