package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"records-service/internal/announcement"
	"records-service/internal/assignment"
	"records-service/internal/class"
	"records-service/internal/config"
	"records-service/internal/db"
	"records-service/internal/health"
	"records-service/internal/integrity"
	"records-service/internal/logger"
	"records-service/internal/messaging"
	"records-service/internal/metrics"
	"records-service/internal/middleware"
	"records-service/internal/roster"
	"records-service/internal/submission"
	"records-service/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

type App struct {
	config   *config.Config
	router   chi.Router
	server   *http.Server
	logger   *slog.Logger
	database *bun.DB
	producer *messaging.Producer
}

func New() *App {
	slogLogger := logger.New(ServiceName, Version)

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
	app.database = database

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	m, err := metrics.New(ctx, ServiceName, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// NATS producer setup
	natsProducer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.SubjectPrefix, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize NATS producer", "error", err)
		natsProducer = nil
	} else {
		slogLogger.Info("NATS producer initialized successfully")
	}
	app.producer = natsProducer

	// Constraint engine and cascade share the store with the repositories.
	engine := integrity.NewEngine(integrity.NewStoreView(database))
	cascade := integrity.NewCascade(database, m)

	userRepo := user.NewRepository(database, m)
	userService := user.NewService(userRepo, cascade)
	userHandler := user.NewHandler(userService, slogLogger)

	classRepo := class.NewRepository(database, m)
	classService := class.NewService(classRepo, cascade)
	classHandler := class.NewHandler(classService, slogLogger)

	rosterRepo := roster.NewRepository(database, m)
	rosterService := roster.NewService(rosterRepo, engine)
	rosterHandler := roster.NewHandler(rosterService, slogLogger)

	assignmentRepo := assignment.NewRepository(database, m)
	assignmentService := assignment.NewService(assignmentRepo, integrity.NewStoreView(database), cascade)
	assignmentHandler := assignment.NewHandler(assignmentService, slogLogger)

	submissionRepo := submission.NewRepository(database, m)
	submissionService := submission.NewService(
		submissionRepo,
		engine,
		cascade,
		publisherOrNil(natsProducer),
		m,
		slogLogger,
		cfg.Submission.MaxAttemptRetries,
	)
	submissionHandler := submission.NewHandler(submissionService, slogLogger)

	announcementRepo := announcement.NewRepository(database, m)
	announcementService := announcement.NewService(announcementRepo, engine, publisherOrNil(natsProducer), m, slogLogger)
	announcementHandler := announcement.NewHandler(announcementService, slogLogger)

	app.router.Route("/api", func(r chi.Router) {
		userHandler.RegisterRoutes(r)
		classHandler.RegisterRoutes(r)
		rosterHandler.RegisterRoutes(r)
		assignmentHandler.RegisterRoutes(r)
		submissionHandler.RegisterRoutes(r)
		announcementHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

// publisherOrNil keeps a nil *Producer from becoming a non-nil interface in
// the services that check for one.
func publisherOrNil(p *messaging.Producer) submission.EventPublisher {
	if p == nil {
		return nil
	}
	return p
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

	if a.producer != nil {
		a.producer.Close()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	db.Close(a.database)
	return nil
}
