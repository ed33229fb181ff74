package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/logger"
	"github.com/Narendra1431-dot/Portfolio-web-development/common/telemetry"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/config"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/contact"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/health"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/kafka"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/messaging"
	appmetrics "github.com/Narendra1431-dot/Portfolio-web-development/internal/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/middleware"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/project"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	NotifyNone  = "none"
	NotifyNATS  = "nats"
	NotifyKafka = "kafka"

	healthCheckInterval = 15 * time.Second
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	store     *store.Store
	telemetry *telemetry.Telemetry
	closers   []func() error

	schemaMu    sync.Mutex
	schemaReady bool
}

// New loads configuration from the environment and wires the application.
func New() (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env, "db_driver", cfg.Database.Driver, "notify_driver", cfg.Notify.Driver)

	return NewWithConfig(context.Background(), cfg, slogLogger)
}

// NewWithConfig wires the application from cfg. An unreachable store does not
// fail startup; data routes answer 503 until a health check succeeds.
func NewWithConfig(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	telemetryEndpoint := ""
	if cfg.Telemetry.Enabled {
		telemetryEndpoint = cfg.Telemetry.OTLPEndpoint
	}
	tel, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName:    ServiceName,
		ServiceVersion: Version,
		Env:            cfg.Env,
		Endpoint:       telemetryEndpoint,
	}, slogLogger)
	if err != nil {
		return nil, err
	}
	app.telemetry = tel

	domainMetrics, err := appmetrics.New(tel.Metrics.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize domain metrics: %w", err)
	}

	database, err := store.OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := tel.Metrics.Database.RegisterDB(database.DB, tel.Metrics.Meter); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	app.store = store.New(database, store.Options{
		QueryTimeout: cfg.Database.QueryTimeoutDuration(),
		Metrics:      tel.Metrics,
		Logger:       slogLogger,
	})
	app.closers = append(app.closers, app.store.Close)

	dependencies := []string{"database"}
	if cfg.Notify.Driver == NotifyNATS || cfg.Notify.Driver == NotifyKafka {
		dependencies = append(dependencies, cfg.Notify.Driver)
	}
	if err := tel.Metrics.Health.RegisterDependencies(tel.Metrics.Meter, dependencies...); err != nil {
		slogLogger.Warn("failed to register dependency metrics", "error", err)
	}

	if err := app.store.Ping(ctx); err != nil {
		slogLogger.Error("database connection failed, serving 503 until it recovers", "error", err)
	} else if err := app.ensureSchema(ctx); err != nil {
		_ = app.store.Close()
		return nil, err
	}

	notifier, err := app.newNotifier(tel)
	if err != nil {
		_ = app.store.Close()
		return nil, err
	}

	app.router.Use(chimw.RequestID)
	app.router.Use(chimw.RealIP)
	app.router.Use(chimw.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints stay reachable while the store is down
	healthHandler := health.NewHandler(app, slogLogger)
	healthHandler.RegisterRoutes(app.router)

	contactRepo := contact.NewRepository(app.store, slogLogger)
	contactService := contact.NewService(contactRepo, notifier, slogLogger)
	contactHandler := contact.NewHandler(contactService, slogLogger, domainMetrics)

	projectRepo := project.NewRepository(app.store)
	projectService := project.NewService(projectRepo)
	projectHandler := project.NewHandler(projectService, slogLogger, domainMetrics)

	app.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireStore(app.store.Available))
		contactHandler.RegisterRoutes(r)
		projectHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app, nil
}

func (a *App) newNotifier(tel *telemetry.Telemetry) (contact.Notifier, error) {
	cfg := a.config.Notify
	switch cfg.Driver {
	case "", NotifyNone:
		return nil, nil
	case NotifyNATS:
		publisher, err := messaging.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject, a.logger, tel.Metrics)
		if err != nil {
			a.logger.Warn("failed to initialize NATS publisher", "error", err)
			return nil, nil
		}
		a.closers = append(a.closers, publisher.Close)
		return publisher, nil
	case NotifyKafka:
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.logger, tel.Metrics)
		if err != nil {
			a.logger.Warn("failed to initialize kafka publisher", "error", err)
			return nil, nil
		}
		a.closers = append(a.closers, publisher.Close)
		return publisher, nil
	default:
		return nil, fmt.Errorf("unsupported notify driver %q", cfg.Driver)
	}
}

// Ping checks the store and, once it is reachable, makes sure the schema exists.
func (a *App) Ping(ctx context.Context) error {
	if err := a.store.Ping(ctx); err != nil {
		return err
	}
	return a.ensureSchema(ctx)
}

func (a *App) ensureSchema(ctx context.Context) error {
	a.schemaMu.Lock()
	defer a.schemaMu.Unlock()
	if a.schemaReady {
		return nil
	}

	if err := a.store.Migrate(ctx, contact.Table, project.Table); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if a.config.Database.Seed {
		contacts := contact.Samples()
		if _, err := a.store.SeedIfEmpty(ctx, contact.Table.Name, &contacts); err != nil {
			return err
		}
		projects := project.Samples()
		if _, err := a.store.SeedIfEmpty(ctx, project.Table.Name, &projects); err != nil {
			return err
		}
	}

	a.schemaReady = true
	return nil
}

// StartHealthChecks pings the store until ctx is done so that availability
// recovers without a readiness probe.
func (a *App) StartHealthChecks(ctx context.Context) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wasAvailable := a.store.Available()
			err := a.Ping(ctx)
			switch {
			case err != nil && wasAvailable:
				a.logger.Error("database became unavailable", "error", err)
			case err == nil && !wasAvailable:
				a.logger.Info("database connection restored")
			}
		}
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
