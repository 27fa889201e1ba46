// Package api implements app.Runner for the listing pipeline API process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aptwatch/listing-pipeline/internal/metrics"
	"github.com/aptwatch/listing-pipeline/pkg/apartmentstore"
	apphttp "github.com/aptwatch/listing-pipeline/pkg/app/http"
	"github.com/aptwatch/listing-pipeline/pkg/config"
	"github.com/aptwatch/listing-pipeline/pkg/feed"
	"github.com/aptwatch/listing-pipeline/pkg/notify"
	"github.com/aptwatch/listing-pipeline/pkg/pgutil"
	"github.com/aptwatch/listing-pipeline/pkg/pipeline"
	"github.com/aptwatch/listing-pipeline/pkg/reconcile"
	"github.com/aptwatch/listing-pipeline/pkg/report"
	"github.com/aptwatch/listing-pipeline/pkg/scheduler"
	"github.com/aptwatch/listing-pipeline/pkg/sessionstore"
)

const (
	defaultHTTPMiddlewareTimeout = 60 * time.Second
	activeListingsPollInterval   = time.Minute
)

// Server holds configuration for the API process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new API Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires the stores, pipeline, scheduler, and HTTP server together and
// blocks until an OS shutdown signal is received or a fatal error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Listing Pipeline API")

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("Database connection established")

	apartments := apartmentstore.NewStore(db)
	sessions := sessionstore.NewStore(db)
	subscribers := notify.NewSubscriberStore(db)
	notifications := notify.NewNotificationStore(db)
	reports := report.NewStore(db)

	engine := reconcile.NewEngine(apartments, cfg.Import.InactiveGracePeriod, logger)

	var sender notify.Sender
	if cfg.Notifications.Enabled {
		sender = notify.NewTwilioSender(&cfg.Notifications)
		logger.Info("SMS notifications enabled", zap.String("from", cfg.Notifications.FromNumber))
	} else {
		sender = notify.NewNoopSender()
		logger.Info("SMS notifications disabled")
	}
	dispatcher := notify.NewDispatcher(apartments, subscribers, notifications, sender, nil, logger)

	svc := pipeline.NewLog(
		pipeline.NewService(engine, dispatcher, sessions, nil, logger),
		logger,
	)

	reporter := report.NewGenerator(apartments, reports, logger)

	sched := scheduler.New(cfg.Scheduler, cfg.Feeds.Sources, feed.NewClient(&cfg.Feeds, logger), svc, reporter, dispatcher, logger)
	go sched.Start(ctx)
	go s.pollActiveListings(ctx, apartments, logger)

	router := s.newRouter(svc, sched, reports, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

// pollActiveListings keeps the active-listings gauge current.
func (s *Server) pollActiveListings(ctx context.Context, apartments apartmentstore.Store, logger *zap.Logger) {
	ticker := time.NewTicker(activeListingsPollInterval)
	defer ticker.Stop()

	for {
		count, err := apartments.CountActive(ctx)
		if err != nil {
			logger.Warn("failed to count active listings", zap.Error(err))
		} else {
			metrics.ActiveListings.Set(float64(count))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) newRouter(svc pipeline.Service, sched *scheduler.Scheduler, reports report.Store, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		pipeline.RegisterRoutes(r, svc, cfg.Import.MaxUploadBytes, logger)
		scheduler.RegisterRoutes(r, sched, logger)
		report.RegisterRoutes(r, reports, logger)
	})

	return r
}
