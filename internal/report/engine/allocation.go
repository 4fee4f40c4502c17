package engine

import (
	"github.com/shopspring/decimal"

	"sklad-report/internal/report/data"
)

const moneyScale = 2

// Allocate distributes an order's shared costs over its lines by revenue
// share and derives per-line and order-level profit figures. lineCosts is
// parallel to order.Positions.
//
// Rounding happens once, when a value is emitted; accumulation runs on exact
// decimals so that per-line allocations reconcile with the order totals.
func Allocate(order data.Order, costs data.ExtractedCosts, lineCosts []data.CostInfo) ([]data.AllocationResult, data.OrderSummary) {
	orderRevenue := data.MinorToDecimal(order.Sum)
	lineCount := len(order.Positions)

	results := make([]data.AllocationResult, 0, lineCount)
	totalProductCost := decimal.Zero
	totalFullCost := decimal.Zero

	for i, pos := range order.Positions {
		unitPrice := data.MinorToDecimal(pos.Price)
		quantity := decimal.NewFromInt(pos.Quantity)
		revenue := unitPrice.Mul(quantity)

		share := revenueShare(revenue, orderRevenue, lineCount)
		allocatedDelivery := costs.DeliveryCost.Mul(share)
		allocatedCommission := costs.CommissionSum.Mul(share)

		cost := lineCosts[i]
		productCost := cost.UnitCost.Mul(quantity)
		fullCost := productCost.Add(allocatedDelivery).Add(allocatedCommission)
		profit := revenue.Sub(fullCost)

		margin := decimal.Zero
		if revenue.IsPositive() {
			margin = profit.Div(revenue).Mul(oneHundred)
		}

		totalProductCost = totalProductCost.Add(productCost)
		totalFullCost = totalFullCost.Add(fullCost)

		info := pos.Entry.Info()
		results = append(results, data.AllocationResult{
			OrderName:           order.Name,
			OrderMoment:         order.Moment,
			ItemName:            info.Name,
			Article:             info.Article,
			Code:                info.Code,
			Kind:                pos.Entry.Kind(),
			Quantity:            pos.Quantity,
			UnitPrice:           unitPrice.Round(moneyScale),
			DiscountPercent:     pos.DiscountPercent,
			VatPercent:          pos.VatPercent,
			Revenue:             revenue.Round(moneyScale),
			UnitCost:            cost.UnitCost.Round(moneyScale),
			ProductCost:         productCost.Round(moneyScale),
			AllocatedDelivery:   allocatedDelivery.Round(moneyScale),
			AllocatedCommission: allocatedCommission.Round(moneyScale),
			FullCost:            fullCost.Round(moneyScale),
			Profit:              profit.Round(moneyScale),
			MarginPercent:       margin.Round(moneyScale),
			Source:              cost.Source,
		})
	}

	vatSum := data.MinorToDecimal(order.VatSum)
	netProfit := orderRevenue.Sub(totalFullCost).Sub(vatSum)

	orderMargin := decimal.Zero
	if orderRevenue.IsPositive() {
		orderMargin = netProfit.Div(orderRevenue).Mul(oneHundred)
	}

	summary := data.OrderSummary{
		OrderName:     order.Name,
		Revenue:       orderRevenue.Round(moneyScale),
		ProductCost:   totalProductCost.Round(moneyScale),
		Delivery:      costs.DeliveryCost.Round(moneyScale),
		Commission:    costs.CommissionSum.Round(moneyScale),
		FullCost:      totalFullCost.Round(moneyScale),
		VatSum:        vatSum.Round(moneyScale),
		NetProfit:     netProfit.Round(moneyScale),
		MarginPercent: orderMargin.Round(moneyScale),
		PositionCount: lineCount,
		CostAvailable: totalFullCost.IsPositive(),
	}

	return results, summary
}

// revenueShare is a line's weight in the shared-cost split. A zero-revenue
// order falls back to an equal split so the allocation stays defined.
func revenueShare(revenue, orderRevenue decimal.Decimal, lineCount int) decimal.Decimal {
	if orderRevenue.IsPositive() {
		return revenue.Div(orderRevenue)
	}
	if lineCount > 0 {
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(lineCount)))
	}
	return decimal.Zero
}
