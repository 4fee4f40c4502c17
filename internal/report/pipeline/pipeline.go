package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sklad-report/internal/report/data"
	"sklad-report/internal/report/engine"
	"sklad-report/pkg/logging"
)

// OrderSource streams the orders of a half-open date interval. The sequence
// is lazy and restartable by calling FetchOrders again.
type OrderSource interface {
	FetchOrders(ctx context.Context, from, to time.Time, fn func(order data.Order) error) error
}

// ReportSink persists the computed report tables. Append, replace or update
// semantics are the sink's own policy.
type ReportSink interface {
	Publish(ctx context.Context, report *data.BatchReport) error
}

type Config struct {
	WorkersCount int
}

// Pipeline runs one report batch: stream orders, compute per-line and
// per-order figures, aggregate, publish. Order computation is pure and
// per-order, so orders are processed by a bounded worker group; the only
// shared state is the cost resolver's cache, which tolerates that.
type Pipeline struct {
	cfg    Config
	source OrderSource
	lookup engine.CatalogLookup
	sinks  []ReportSink
	logger *logging.ZapLogger
}

func New(
	cfg Config,
	source OrderSource,
	lookup engine.CatalogLookup,
	sinks []ReportSink,
	logger *logging.ZapLogger,
) *Pipeline {
	if cfg.WorkersCount <= 0 {
		cfg.WorkersCount = 1
	}
	return &Pipeline{
		cfg:    cfg,
		source: source,
		lookup: lookup,
		sinks:  sinks,
		logger: logger,
	}
}

type orderResult struct {
	index   int
	order   data.Order
	lines   []data.AllocationResult
	summary data.OrderSummary
}

// Run executes one batch over [from, to). Data-quality problems never fail
// the run; only a broken collaborator does.
func (p *Pipeline) Run(ctx context.Context, from, to time.Time) (*data.BatchReport, error) {
	runID := uuid.New()
	ctx = logging.WithContextFields(ctx, zap.String("run-id", runID.String()))
	p.logger.InfoCtx(ctx, "report run started", zap.Time("from", from), zap.Time("to", to))

	// Fresh resolver per batch: the article cache must not leak across runs.
	resolver := engine.NewCostResolver(p.lookup, p.logger)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.WorkersCount)

	var (
		mux     sync.Mutex
		results []orderResult
	)
	index := 0
	fetchErr := p.source.FetchOrders(groupCtx, from, to, func(order data.Order) error {
		i := index
		index++
		g.Go(func() error {
			lines, summary := processOrder(groupCtx, resolver, order)
			mux.Lock()
			results = append(results, orderResult{index: i, order: order, lines: lines, summary: summary})
			mux.Unlock()
			return nil
		})
		// Stop feeding once the group is done for; in-flight orders finish.
		return groupCtx.Err()
	})
	waitErr := g.Wait()
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to stream orders: %w", fetchErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("failed to process orders: %w", waitErr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	orders := make([]data.Order, 0, len(results))
	lines := make([]data.AllocationResult, 0, len(results))
	summaries := make([]data.OrderSummary, 0, len(results))
	for _, r := range results {
		orders = append(orders, r.order)
		lines = append(lines, r.lines...)
		summaries = append(summaries, r.summary)
	}

	report := &data.BatchReport{
		RunID:       runID,
		From:        from,
		To:          to,
		GeneratedAt: time.Now(),
		Lines:       lines,
		Summaries:   summaries,
		Statistics:  engine.Aggregate(summaries),
		Quality:     engine.BuildQualityReport(lines, summaries),
		Orders:      data.BuildOrdersTable(orders),
	}

	p.logger.InfoCtx(ctx, "report computed",
		zap.Int("orders", report.Quality.OrderCount),
		zap.Int("lines", report.Quality.LineCount),
		zap.String("line-cost-coverage-pct", report.Quality.LineCostCoveragePct.String()),
		zap.String("order-cost-coverage-pct", report.Quality.OrderCostCoveragePct.String()),
	)

	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, report); err != nil {
			return nil, fmt.Errorf("sink %T failed to publish report: %w", sink, err)
		}
	}

	p.logger.InfoCtx(ctx, "report run finished")
	return report, nil
}

func processOrder(ctx context.Context, resolver *engine.CostResolver, order data.Order) ([]data.AllocationResult, data.OrderSummary) {
	costs := engine.ExtractCosts(order.Attributes, data.MinorToDecimal(order.Sum))
	lineCosts := make([]data.CostInfo, len(order.Positions))
	for i, pos := range order.Positions {
		lineCosts[i] = resolver.ResolveUnitCost(ctx, pos.Entry)
	}
	return engine.Allocate(order, costs, lineCosts)
}
