package data

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const cellTimeLayout = "2006-01-02 15:04:05"

const (
	OrdersTableName     = "Orders"
	LinesTableName      = "Order lines"
	SummariesTableName  = "Order summaries"
	StatisticsTableName = "Batch statistics"
)

// Table is ordered-column tabular data ready for a sink.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// BatchReport is the full output of one pipeline run.
type BatchReport struct {
	RunID       uuid.UUID
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Lines       []AllocationResult
	Summaries   []OrderSummary
	Statistics  BatchStatistics
	Quality     QualityReport
	Orders      Table
}

// Tables returns the report tables in publish order.
func (r *BatchReport) Tables() []Table {
	return []Table{
		r.Orders,
		BuildLinesTable(r.Lines),
		BuildSummariesTable(r.Summaries),
		BuildStatisticsTable(r.Statistics),
	}
}

func BuildLinesTable(lines []AllocationResult) Table {
	t := Table{
		Name: LinesTableName,
		Columns: []string{
			"Order", "Order date", "Item", "Article", "Code", "Kind",
			"Quantity", "Unit price", "Discount %", "VAT %", "Revenue",
			"Unit cost", "Product cost", "Allocated delivery",
			"Allocated commission", "Full cost", "Profit", "Margin %",
			"Cost source",
		},
	}
	for _, line := range lines {
		t.Rows = append(t.Rows, []string{
			line.OrderName,
			line.OrderMoment.Format(cellTimeLayout),
			line.ItemName,
			line.Article,
			line.Code,
			string(line.Kind),
			strconv.FormatInt(line.Quantity, 10),
			line.UnitPrice.String(),
			line.DiscountPercent.String(),
			line.VatPercent.String(),
			line.Revenue.String(),
			line.UnitCost.String(),
			line.ProductCost.String(),
			line.AllocatedDelivery.String(),
			line.AllocatedCommission.String(),
			line.FullCost.String(),
			line.Profit.String(),
			line.MarginPercent.String(),
			line.Source.String(),
		})
	}
	return t
}

func BuildSummariesTable(summaries []OrderSummary) Table {
	t := Table{
		Name: SummariesTableName,
		Columns: []string{
			"Order", "Revenue", "Product cost", "Delivery", "Commission",
			"Full cost", "VAT", "Net profit", "Margin %", "Lines",
			"Cost available",
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.OrderName,
			s.Revenue.String(),
			s.ProductCost.String(),
			s.Delivery.String(),
			s.Commission.String(),
			s.FullCost.String(),
			s.VatSum.String(),
			s.NetProfit.String(),
			s.MarginPercent.String(),
			strconv.Itoa(s.PositionCount),
			formatFlag(s.CostAvailable),
		})
	}
	return t
}

func BuildStatisticsTable(stats BatchStatistics) Table {
	return Table{
		Name:    StatisticsTableName,
		Columns: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total revenue", stats.TotalRevenue.String()},
			{"Total product cost", stats.TotalProductCost.String()},
			{"Total delivery", stats.TotalDelivery.String()},
			{"Total commission", stats.TotalCommission.String()},
			{"Total full cost", stats.TotalFullCost.String()},
			{"Total VAT", stats.TotalVat.String()},
			{"Total net profit", stats.TotalNetProfit.String()},
			{"Average margin %", stats.AverageMarginPercent.String()},
			{"Order count", strconv.Itoa(stats.OrderCount)},
			{"Average order revenue", stats.AverageOrderRevenue.String()},
		},
	}
}

// BuildOrdersTable renders the order-header table uploaded alongside the
// computed ones.
func BuildOrdersTable(orders []Order) Table {
	t := Table{
		Name: OrdersTableName,
		Columns: []string{
			"Order", "Date", "Agent", "Organization", "Status", "Applicable",
			"Sum", "Paid", "Shipped", "Reserved", "VAT", "VAT included",
			"Shipment address",
		},
	}
	for _, o := range orders {
		t.Rows = append(t.Rows, []string{
			o.Name,
			o.Moment.Format(cellTimeLayout),
			o.Agent,
			o.Organization,
			o.Status,
			formatFlag(o.Applicable),
			MinorToDecimal(o.Sum).String(),
			MinorToDecimal(o.PaidSum).String(),
			MinorToDecimal(o.ShippedSum).String(),
			MinorToDecimal(o.ReservedSum).String(),
			MinorToDecimal(o.VatSum).String(),
			formatFlag(o.VatIncluded),
			o.ShipmentAddress,
		})
	}
	return t
}

func formatFlag(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

var minorUnitsPerUnit = decimal.NewFromInt(100)

// MinorToDecimal converts minor currency units to a decimal major-unit value.
func MinorToDecimal(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorUnitsPerUnit)
}
