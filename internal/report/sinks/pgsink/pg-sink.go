// Package pgsink persists report tables to Postgres, keyed by run id, inside
// a single transaction so a run is either fully stored or not at all.
package pgsink

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type ReportRepository interface {
	InsertRun(ctx context.Context, report *data.BatchReport) error
	InsertLine(ctx context.Context, runID uuid.UUID, line data.AllocationResult) error
	InsertOrderSummary(ctx context.Context, runID uuid.UUID, summary data.OrderSummary) error
	InsertStatistic(ctx context.Context, runID uuid.UUID, metric, value string) error
}

type Sink struct {
	transactionManager TransactionManager
	repository         ReportRepository
	logger             *logging.ZapLogger
}

func New(transactionManager TransactionManager, repository ReportRepository, logger *logging.ZapLogger) *Sink {
	return &Sink{
		transactionManager: transactionManager,
		repository:         repository,
		logger:             logger,
	}
}

func (s *Sink) Publish(ctx context.Context, report *data.BatchReport) error {
	return s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.InsertRun(ctx, report); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		for _, line := range report.Lines {
			if err := s.repository.InsertLine(ctx, report.RunID, line); err != nil {
				return fmt.Errorf("failed to insert line: %w", err)
			}
		}
		for _, summary := range report.Summaries {
			if err := s.repository.InsertOrderSummary(ctx, report.RunID, summary); err != nil {
				return fmt.Errorf("failed to insert order summary: %w", err)
			}
		}
		for _, row := range data.BuildStatisticsTable(report.Statistics).Rows {
			if err := s.repository.InsertStatistic(ctx, report.RunID, row[0], row[1]); err != nil {
				return fmt.Errorf("failed to insert statistic: %w", err)
			}
		}
		s.logger.DebugCtx(ctx, "report stored",
			zap.String("run-id", report.RunID.String()),
			zap.Int("lines", len(report.Lines)),
			zap.Int("orders", len(report.Summaries)))
		return nil
	})
}
