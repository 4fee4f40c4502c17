package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"sklad-report/cmd/reportd/config"
	"sklad-report/internal/report"
	"sklad-report/internal/report/data/database"
	"sklad-report/internal/report/data/dbrepository"
	"sklad-report/internal/report/moysklad"
	"sklad-report/internal/report/pipeline"
	"sklad-report/internal/report/sinks/csvsink"
	"sklad-report/internal/report/sinks/pgsink"
	"sklad-report/internal/report/sinks/sheetsink"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/pgxstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(zapcore.InfoLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is not actionable

	skladClient := moysklad.NewClient(cfg.Sklad, logger)

	sinks, err := createSinks(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	reportPipeline := pipeline.New(cfg.Pipeline, skladClient, skladClient, sinks, logger)

	server := report.NewServer(cfg.Server, reportPipeline, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func createSinks(cfg *config.Config, logger *logging.ZapLogger) ([]pipeline.ReportSink, error) {
	var sinks []pipeline.ReportSink

	if cfg.DB.ConnectionString != "" {
		dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
		storage, err := pgxstorage.New(dbFactory)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		repository := dbrepository.New(storage, logger)
		transactionManager := pgxstorage.NewTransactionsManager(storage)
		sinks = append(sinks, pgsink.New(transactionManager, repository, logger))
	}

	if cfg.Sheets.SpreadsheetID != "" {
		sheetSink, err := sheetsink.New(context.Background(), cfg.Sheets, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets sink: %w", err)
		}
		sinks = append(sinks, sheetSink)
	}

	if cfg.CSVOutputDir != "" {
		sinks = append(sinks, csvsink.New(cfg.CSVOutputDir, logger))
	}

	return sinks, nil
}

func run(rootCtx context.Context, cfg *config.Config, server *report.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
