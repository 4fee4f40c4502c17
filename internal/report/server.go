package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sklad-report/internal/report/data"
	"sklad-report/internal/report/handlers"
	"sklad-report/internal/report/middleware"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/threadsafe"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

// Server is the operational surface of the report service: trigger a run,
// read the latest statistics, health checking.
type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	reportService handlers.ReportService,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: createMux(
			reportService,
			logger,
		),
	}

	res := &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}

	return res
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	reportService handlers.ReportService,
	logger *logging.ZapLogger,
) *chi.Mux {
	latestStats := threadsafe.NewValue[data.BatchStatistics]()

	healthHandler := handlers.NewHealthHandler()
	reportRunHandler := handlers.NewReportRunHandler(reportService, latestStats, logger)
	statisticsHandler := handlers.NewStatisticsGettingHandler(latestStats, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)

	router.Route("/api/", func(router chi.Router) {
		router.Get("/health", healthHandler.ServeHTTP)
		router.Post("/report/run", reportRunHandler.ServeHTTP)
		router.Get("/report/statistics", statisticsHandler.ServeHTTP)
	})

	return router
}
