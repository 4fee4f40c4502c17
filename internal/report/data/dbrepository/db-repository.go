package dbrepository

import (
	"context"
	_ "embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/insert_run.sql
var insertRunQuery string

func (db *DBRepository) InsertRun(ctx context.Context, report *data.BatchReport) error {
	_, err := db.storage.Exec(
		ctx,
		insertRunQuery,
		report.RunID,
		report.From,
		report.To,
		report.GeneratedAt,
		report.Statistics.OrderCount,
	)
	return err //nolint:wrapcheck // unnecessary
}

//go:embed sql/insert_line.sql
var insertLineQuery string

func (db *DBRepository) InsertLine(ctx context.Context, runID uuid.UUID, line data.AllocationResult) error {
	_, err := db.storage.Exec(
		ctx,
		insertLineQuery,
		runID,
		line.OrderName,
		line.OrderMoment,
		line.ItemName,
		line.Article,
		line.Code,
		string(line.Kind),
		line.Quantity,
		line.UnitPrice,
		line.DiscountPercent,
		line.VatPercent,
		line.Revenue,
		line.UnitCost,
		line.ProductCost,
		line.AllocatedDelivery,
		line.AllocatedCommission,
		line.FullCost,
		line.Profit,
		line.MarginPercent,
		line.Source.String(),
	)
	return err //nolint:wrapcheck // unnecessary
}

//go:embed sql/insert_order_summary.sql
var insertOrderSummaryQuery string

func (db *DBRepository) InsertOrderSummary(ctx context.Context, runID uuid.UUID, summary data.OrderSummary) error {
	_, err := db.storage.Exec(
		ctx,
		insertOrderSummaryQuery,
		runID,
		summary.OrderName,
		summary.Revenue,
		summary.ProductCost,
		summary.Delivery,
		summary.Commission,
		summary.FullCost,
		summary.VatSum,
		summary.NetProfit,
		summary.MarginPercent,
		summary.PositionCount,
		summary.CostAvailable,
	)
	return err //nolint:wrapcheck // unnecessary
}

//go:embed sql/insert_statistic.sql
var insertStatisticQuery string

func (db *DBRepository) InsertStatistic(ctx context.Context, runID uuid.UUID, metric, value string) error {
	_, err := db.storage.Exec(ctx, insertStatisticQuery, runID, metric, value)
	return err //nolint:wrapcheck // unnecessary
}
