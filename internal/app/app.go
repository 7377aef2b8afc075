package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"employee-service/internal/config"
	"employee-service/internal/db"
	"employee-service/internal/employee"
	"employee-service/internal/events"
	"employee-service/internal/health"
	"employee-service/internal/logger"
	"employee-service/internal/metrics"
	"employee-service/internal/middleware"
	"employee-service/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

type App struct {
	config *config.Config
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database, (*employee.Employee)(nil)); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// NATS producer setup (optional - service runs without it)
	var publisher employee.Publisher
	producer, err := events.NewProducer(cfg.NATS.URL, cfg.NATS.SubjectPrefix, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize NATS producer", "error", err)
	} else {
		publisher = producer
	}

	sink, err := upload.NewSink(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatal("failed to prepare uploads dir:", err)
	}

	employeeRepo := employee.NewRepository(database)
	validator := employee.NewValidator(employeeRepo.EmailExists, cfg.Uploads.MaxBytes)
	employeeService := employee.NewService(employeeRepo, validator, publisher, slogLogger)
	employeeHandler := employee.NewHandler(employeeService, sink, slogLogger, m)

	app.router.Route("/api", func(r chi.Router) {
		employeeHandler.RegisterRoutes(r)
	})

	// Stored employee photos are served straight from the uploads dir
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir)))
	app.router.Get("/uploads/*", uploadsFS.ServeHTTP)

	slogLogger.Info("application initialized successfully")

	return app
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
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}
