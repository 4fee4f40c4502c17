package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sklad-report/internal/report/data"
)

func productPosition(id string, quantity, priceMinor int64) data.Position {
	return data.Position{
		Quantity: quantity,
		Price:    priceMinor,
		Entry:    &data.Product{EntryInfo: data.EntryInfo{ID: id, Name: "item " + id}},
	}
}

func unitCost(value string) data.CostInfo {
	return data.CostInfo{
		UnitCost: decimal.RequireFromString(value),
		Source:   data.CostSource{Kind: data.CostSourceProduct},
	}
}

func TestAllocate_DeliverySplitByRevenueShare(t *testing.T) {
	order := data.Order{
		Name:   "A-1",
		Moment: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Sum:    100000, // 1000.00
		Positions: []data.Position{
			productPosition("p1", 1, 60000), // revenue 600
			productPosition("p2", 1, 40000), // revenue 400
		},
	}
	costs := data.ExtractedCosts{
		CommissionSum: decimal.Zero,
		DeliveryCost:  decimal.RequireFromString("50"),
	}

	lines, summary := Allocate(order, costs, []data.CostInfo{unitCost("0"), unitCost("0")})

	assertDecimal(t, "30", lines[0].AllocatedDelivery, "line 1 delivery")
	assertDecimal(t, "20", lines[1].AllocatedDelivery, "line 2 delivery")
	assertDecimal(t, "50", summary.Delivery, "order delivery")
}

func TestAllocate_AllocationsReconcileWithOrderTotals(t *testing.T) {
	// Awkward revenue proportions so shares are non-terminating fractions.
	order := data.Order{
		Name: "A-2",
		Sum:  100000,
		Positions: []data.Position{
			productPosition("p1", 3, 11100),
			productPosition("p2", 7, 5300),
			productPosition("p3", 1, 29800),
		},
	}
	costs := data.ExtractedCosts{
		CommissionSum: decimal.RequireFromString("99.99"),
		DeliveryCost:  decimal.RequireFromString("47.53"),
	}
	lineCosts := []data.CostInfo{unitCost("50"), unitCost("12.3"), unitCost("0")}

	lines, summary := Allocate(order, costs, lineCosts)

	deliverySum := decimal.Zero
	commissionSum := decimal.Zero
	fullCostSum := decimal.Zero
	for _, line := range lines {
		deliverySum = deliverySum.Add(line.AllocatedDelivery)
		commissionSum = commissionSum.Add(line.AllocatedCommission)
		fullCostSum = fullCostSum.Add(line.FullCost)
	}

	tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(lines))))
	assert.True(t, deliverySum.Sub(costs.DeliveryCost).Abs().LessThanOrEqual(tolerance),
		"delivery allocations %s must reconcile with %s", deliverySum, costs.DeliveryCost)
	assert.True(t, commissionSum.Sub(costs.CommissionSum).Abs().LessThanOrEqual(tolerance),
		"commission allocations %s must reconcile with %s", commissionSum, costs.CommissionSum)
	assert.True(t, fullCostSum.Sub(summary.FullCost).Abs().LessThanOrEqual(tolerance),
		"summary full cost %s must equal the sum of line full costs %s", summary.FullCost, fullCostSum)
}

func TestAllocate_ZeroRevenueOrderSplitsEqually(t *testing.T) {
	order := data.Order{
		Name: "A-3",
		Sum:  0,
		Positions: []data.Position{
			productPosition("p1", 1, 0),
			productPosition("p2", 1, 0),
			productPosition("p3", 1, 0),
			productPosition("p4", 1, 0),
		},
	}
	costs := data.ExtractedCosts{
		CommissionSum: decimal.RequireFromString("40"),
		DeliveryCost:  decimal.RequireFromString("100"),
	}
	lineCosts := []data.CostInfo{unitCost("0"), unitCost("0"), unitCost("0"), unitCost("0")}

	lines, _ := Allocate(order, costs, lineCosts)

	for _, line := range lines {
		assertDecimal(t, "25", line.AllocatedDelivery, "equal delivery split")
		assertDecimal(t, "10", line.AllocatedCommission, "equal commission split")
		assertDecimal(t, "0", line.MarginPercent, "zero-revenue margin")
	}
}

func TestAllocate_NoSharedCosts(t *testing.T) {
	order := data.Order{
		Name: "A-4",
		Sum:  50000,
		Positions: []data.Position{
			productPosition("p1", 2, 25000),
		},
	}
	costs := data.ExtractedCosts{
		CommissionPercent: decimal.Zero,
		CommissionSum:     decimal.Zero,
		DeliveryCost:      decimal.Zero,
	}

	lines, summary := Allocate(order, costs, []data.CostInfo{unitCost("100")})

	assertDecimal(t, "200", lines[0].ProductCost, "product cost")
	assertDecimal(t, "200", lines[0].FullCost, "full cost equals product cost")
	assertDecimal(t, "300", lines[0].Profit, "profit")
	assertDecimal(t, "60", lines[0].MarginPercent, "margin")
	assert.True(t, summary.CostAvailable)
}

func TestAllocate_MarginAndNetProfit(t *testing.T) {
	order := data.Order{
		Name:   "A-5",
		Sum:    100000,
		VatSum: 10000, // 100.00
		Positions: []data.Position{
			productPosition("p1", 1, 100000),
		},
	}
	costs := data.ExtractedCosts{
		CommissionSum: decimal.RequireFromString("100"),
		DeliveryCost:  decimal.RequireFromString("50"),
	}

	lines, summary := Allocate(order, costs, []data.CostInfo{unitCost("400")})

	// revenue 1000, full cost 400+100+50=550
	assertDecimal(t, "550", lines[0].FullCost, "line full cost")
	assertDecimal(t, "450", lines[0].Profit, "line profit")
	assertDecimal(t, "45", lines[0].MarginPercent, "line margin")
	// net profit 1000-550-100=350
	assertDecimal(t, "350", summary.NetProfit, "net profit")
	assertDecimal(t, "35", summary.MarginPercent, "order margin")
}

func TestAllocate_EmptyOrder(t *testing.T) {
	order := data.Order{Name: "A-6", Sum: 0}

	lines, summary := Allocate(order, data.ExtractedCosts{}, nil)

	assert.Empty(t, lines)
	assert.Equal(t, 0, summary.PositionCount)
	assert.False(t, summary.CostAvailable)
	assertDecimal(t, "0", summary.Revenue, "revenue")
	assertDecimal(t, "0", summary.MarginPercent, "margin")
}
