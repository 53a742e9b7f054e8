package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zonetrack/apiserver/config"
	"github.com/zonetrack/apiserver/internal/db"
	"github.com/zonetrack/apiserver/internal/events"
	"github.com/zonetrack/apiserver/internal/handlers"
	"github.com/zonetrack/apiserver/internal/mq"
	"github.com/zonetrack/apiserver/internal/services"
	"github.com/zonetrack/apiserver/internal/storage"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/internal/throttle"
	"github.com/zonetrack/apiserver/internal/validation"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	closers    []func() error
	log        *zap.Logger
}

// Deps are the backends a router is built from.
type Deps struct {
	DB       *sql.DB
	Queue    *mq.MQ
	Objects  storage.ObjectStorage
	Limiter  *throttle.LoginLimiter
	Settings config.Settings
	Auth     config.AuthConfig
	Log      *zap.Logger
}

// New connects every configured backend and builds the server.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	srv := &Server{db: dbConn, log: log}

	queue, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, err
	}
	srv.queue = queue

	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, fmt.Errorf("object storage: %w", err)
	}

	limiter, closeLimiter, err := throttle.NewFromConfig(ctx, cfg.Redis, cfg.Auth)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, err
	}
	srv.closers = append(srv.closers, closeLimiter)

	router := NewRouter(Deps{
		DB:       dbConn,
		Queue:    queue,
		Objects:  objects,
		Limiter:  limiter,
		Settings: cfg.Settings,
		Auth:     cfg.Auth,
		Log:      log,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	srv.router = router
	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server configured",
		zap.Int("port", port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("mq", cfg.MQ.Provider),
		zap.String("storage", cfg.Storage.Provider),
		zap.Bool("login_throttle", cfg.Redis.Address != ""),
	)
	return srv, nil
}

// NewRouter wires repositories, services and handlers onto a chi router.
func NewRouter(deps Deps) *chi.Mux {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	queue := deps.Queue
	if queue == nil {
		queue = mq.New(mq.Noop{})
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = throttle.NewLoginLimiter(nil, 0, 0)
	}

	userRepo := store.NewUserRepository(deps.DB)
	zoneTypeRepo := store.NewZoneTypeRepository(deps.DB)
	zoneRepo := store.NewZoneRepository(deps.DB)
	assetRepo := store.NewAssetRepository(deps.DB)
	assetLogRepo := store.NewAssetLogRepository(deps.DB)
	alertRepo := store.NewAlertRepository(deps.DB)
	summaryRepo := store.NewSummaryRepository(deps.DB)
	txManager := store.NewTxManager(deps.DB)

	publisher := events.NewPublisher(queue)

	userService := services.NewUserService(userRepo, log.Named("users"))
	zoneTypeService := services.NewZoneTypeService(zoneTypeRepo)
	zoneService := services.NewZoneService(zoneRepo, zoneTypeRepo)
	alertService := services.NewAlertService(alertRepo, publisher, deps.Settings, log.Named("alerts"))
	assetService := services.NewAssetService(
		assetRepo,
		assetLogRepo,
		zoneRepo,
		txManager,
		alertService,
		publisher,
		deps.Settings,
		log.Named("assets"),
	)
	summaryService := services.NewSummaryService(summaryRepo, assetLogRepo)
	reportService := services.NewReportService(assetRepo, deps.Objects, log.Named("reports"))

	validate := validation.New()
	authHandler := handlers.NewAuthHandler(userService, limiter, deps.Auth.JWTSecret, deps.Auth.TokenTTL, validate, log)
	reportHandler := handlers.NewReportHandler(summaryService, reportService, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(log),
		middleware.Recoverer,
		instrument,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, authHandler)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, handlers.DBProber(deps.DB), validate, log)
		})
		r.Route("/zone-types", func(r chi.Router) {
			handlers.ZoneTypeRouter(r, zoneTypeService, validate, log)
		})
		r.Route("/zones", func(r chi.Router) {
			handlers.ZoneRouter(r, zoneService, assetService, deps.Settings.Zones.CapacityWarningThreshold, validate, log)
		})
		r.Route("/assets", func(r chi.Router) {
			handlers.AssetRouter(r, assetService, validate, log)
		})
		r.Route("/alerts", func(r chi.Router) {
			handlers.AlertRouter(r, alertService, log)
		})
		r.Route("/summary", func(r chi.Router) {
			handlers.SummaryRouter(r, reportHandler)
		})
		r.Route("/reports", func(r chi.Router) {
			handlers.ReportRouter(r, reportHandler)
		})
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes every backend.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
