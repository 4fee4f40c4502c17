package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sklad-report/internal/report/data"
)

func summaryFixture(revenue, margin string, costAvailable bool) data.OrderSummary {
	return data.OrderSummary{
		Revenue:       decimal.RequireFromString(revenue),
		ProductCost:   decimal.RequireFromString("10"),
		Delivery:      decimal.RequireFromString("5"),
		Commission:    decimal.RequireFromString("2.5"),
		FullCost:      decimal.RequireFromString("17.5"),
		VatSum:        decimal.RequireFromString("1"),
		NetProfit:     decimal.RequireFromString("3"),
		MarginPercent: decimal.RequireFromString(margin),
		CostAvailable: costAvailable,
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Equal(t, 0, stats.OrderCount)
	assertDecimal(t, "0", stats.TotalRevenue, "total revenue")
	assertDecimal(t, "0", stats.AverageMarginPercent, "average margin")
	assertDecimal(t, "0", stats.AverageOrderRevenue, "average revenue")
}

func TestAggregate_TotalsAndMeans(t *testing.T) {
	summaries := []data.OrderSummary{
		summaryFixture("100", "20", true),
		summaryFixture("300", "40", true),
	}

	stats := Aggregate(summaries)

	assert.Equal(t, 2, stats.OrderCount)
	assertDecimal(t, "400", stats.TotalRevenue, "total revenue")
	assertDecimal(t, "20", stats.TotalProductCost, "total product cost")
	assertDecimal(t, "10", stats.TotalDelivery, "total delivery")
	assertDecimal(t, "5", stats.TotalCommission, "total commission")
	assertDecimal(t, "35", stats.TotalFullCost, "total full cost")
	assertDecimal(t, "2", stats.TotalVat, "total VAT")
	assertDecimal(t, "6", stats.TotalNetProfit, "total net profit")
	assertDecimal(t, "30", stats.AverageMarginPercent, "average margin")
	assertDecimal(t, "200", stats.AverageOrderRevenue, "average revenue")
}

func TestBuildQualityReport(t *testing.T) {
	lines := []data.AllocationResult{
		{UnitCost: decimal.RequireFromString("5"), Source: data.CostSource{Kind: data.CostSourceProduct}},
		{UnitCost: decimal.RequireFromString("3"), Source: data.CostSource{Kind: data.CostSourceProduct}},
		{UnitCost: decimal.RequireFromString("2"), Source: data.CostSource{Kind: data.CostSourceVariant}},
		{UnitCost: decimal.Zero, Source: data.CostSource{Kind: data.CostSourceNotFound}},
	}
	summaries := []data.OrderSummary{
		summaryFixture("100", "20", true),
		{Revenue: decimal.Zero, MarginPercent: decimal.Zero},
	}

	report := BuildQualityReport(lines, summaries)

	assert.Equal(t, 4, report.LineCount)
	assert.Equal(t, 3, report.LinesWithCost)
	assert.Equal(t, 2, report.SourceCounts["product"])
	assert.Equal(t, 1, report.SourceCounts["variant"])
	assert.Equal(t, 1, report.OrdersWithCost)
	assertDecimal(t, "75", report.LineCostCoveragePct, "line coverage")
	assertDecimal(t, "50", report.OrderCostCoveragePct, "order coverage")
}

func TestBuildQualityReport_Empty(t *testing.T) {
	report := BuildQualityReport(nil, nil)

	assert.Equal(t, 0, report.LineCount)
	assertDecimal(t, "0", report.LineCostCoveragePct, "line coverage")
	assertDecimal(t, "0", report.OrderCostCoveragePct, "order coverage")
}
