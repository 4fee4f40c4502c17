package engine

import (
	"github.com/shopspring/decimal"

	"sklad-report/internal/report/data"
)

// Aggregate reduces order summaries into batch statistics. An empty batch
// yields all-zero statistics; the caller treats that as "no data".
func Aggregate(summaries []data.OrderSummary) data.BatchStatistics {
	stats := data.BatchStatistics{
		TotalRevenue:         decimal.Zero,
		TotalProductCost:     decimal.Zero,
		TotalDelivery:        decimal.Zero,
		TotalCommission:      decimal.Zero,
		TotalFullCost:        decimal.Zero,
		TotalVat:             decimal.Zero,
		TotalNetProfit:       decimal.Zero,
		AverageMarginPercent: decimal.Zero,
		AverageOrderRevenue:  decimal.Zero,
		OrderCount:           len(summaries),
	}
	if len(summaries) == 0 {
		return stats
	}

	marginTotal := decimal.Zero
	for _, s := range summaries {
		stats.TotalRevenue = stats.TotalRevenue.Add(s.Revenue)
		stats.TotalProductCost = stats.TotalProductCost.Add(s.ProductCost)
		stats.TotalDelivery = stats.TotalDelivery.Add(s.Delivery)
		stats.TotalCommission = stats.TotalCommission.Add(s.Commission)
		stats.TotalFullCost = stats.TotalFullCost.Add(s.FullCost)
		stats.TotalVat = stats.TotalVat.Add(s.VatSum)
		stats.TotalNetProfit = stats.TotalNetProfit.Add(s.NetProfit)
		marginTotal = marginTotal.Add(s.MarginPercent)
	}

	count := decimal.NewFromInt(int64(len(summaries)))
	stats.AverageMarginPercent = marginTotal.Div(count).Round(moneyScale)
	stats.AverageOrderRevenue = stats.TotalRevenue.Div(count).Round(moneyScale)
	return stats
}

// BuildQualityReport measures how much of a batch is backed by resolved
// costs, so consumers can judge how trustworthy the figures are.
func BuildQualityReport(lines []data.AllocationResult, summaries []data.OrderSummary) data.QualityReport {
	report := data.QualityReport{
		LineCount:            len(lines),
		OrderCount:           len(summaries),
		SourceCounts:         make(map[string]int),
		LineCostCoveragePct:  decimal.Zero,
		OrderCostCoveragePct: decimal.Zero,
	}

	for _, line := range lines {
		if line.UnitCost.IsPositive() {
			report.LinesWithCost++
			report.SourceCounts[line.Source.String()]++
		}
	}
	for _, s := range summaries {
		if s.CostAvailable {
			report.OrdersWithCost++
		}
	}

	if report.LineCount > 0 {
		report.LineCostCoveragePct = coverage(report.LinesWithCost, report.LineCount)
	}
	if report.OrderCount > 0 {
		report.OrderCostCoveragePct = coverage(report.OrdersWithCost, report.OrderCount)
	}
	return report
}

func coverage(part, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(oneHundred).
		Round(moneyScale)
}
