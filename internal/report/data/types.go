package data

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Monetary fields on Order and Position are minor currency units (1/100 of a
// currency unit), as served by the source system. Derived report values are
// decimal major units.

type Order struct {
	ID              string
	Name            string
	Moment          time.Time
	Agent           string
	Organization    string
	Status          string
	Applicable      bool
	Sum             int64
	PaidSum         int64
	ShippedSum      int64
	ReservedSum     int64
	VatSum          int64
	VatIncluded     bool
	ShipmentAddress string
	Attributes      []Attribute
	Positions       []Position
}

type Attribute struct {
	Name  string
	Value string
}

type Position struct {
	Quantity        int64
	Price           int64
	DiscountPercent decimal.Decimal
	VatPercent      decimal.Decimal
	Entry           CatalogEntry
}

type EntryKind string

const (
	ProductKind EntryKind = "product"
	BundleKind  EntryKind = "bundle"
	VariantKind EntryKind = "variant"
)

// CatalogEntry is the closed set of catalog item kinds a position may
// reference. Each kind carries only what its cost resolution needs.
type CatalogEntry interface {
	Kind() EntryKind
	Info() EntryInfo
}

type EntryInfo struct {
	ID      string
	Name    string
	Article string
	Code    string
}

// Product is a simple catalog item with its own buy price (zero if unset).
type Product struct {
	EntryInfo
	BuyPrice int64
}

// Bundle is a kit without an intrinsic cost; its cost is borrowed from the
// product sharing its article.
type Bundle struct {
	EntryInfo
}

// Variant derives from a base product and may override its buy price.
// BaseProductRef locates the base product when it does not.
type Variant struct {
	EntryInfo
	BuyPrice       int64
	BaseProductRef string
}

func (p *Product) Kind() EntryKind { return ProductKind }
func (p *Product) Info() EntryInfo { return p.EntryInfo }
func (b *Bundle) Kind() EntryKind  { return BundleKind }
func (b *Bundle) Info() EntryInfo  { return b.EntryInfo }
func (v *Variant) Kind() EntryKind { return VariantKind }
func (v *Variant) Info() EntryInfo { return v.EntryInfo }

type CostSourceKind int

const (
	CostSourceNotFound CostSourceKind = iota
	CostSourceProduct
	CostSourceBaseProductByArticle
	CostSourceVariant
	CostSourceBaseProductOfVariant
)

// CostSource records which resolution rule produced a unit cost; it feeds the
// data-quality columns of the report.
type CostSource struct {
	Kind    CostSourceKind
	Article string
}

func (s CostSource) String() string {
	switch s.Kind {
	case CostSourceProduct:
		return "product"
	case CostSourceBaseProductByArticle:
		return fmt.Sprintf("base product (article %s)", s.Article)
	case CostSourceVariant:
		return "variant"
	case CostSourceBaseProductOfVariant:
		return "variant base product"
	default:
		return "not found"
	}
}

type CostInfo struct {
	UnitCost decimal.Decimal
	Source   CostSource
}

// ExtractedCosts is the structured result of scanning an order's custom
// attributes for shared costs.
type ExtractedCosts struct {
	CommissionPercent decimal.Decimal
	CommissionSum     decimal.Decimal
	DeliveryCost      decimal.Decimal
}

type AllocationResult struct {
	OrderName           string
	OrderMoment         time.Time
	ItemName            string
	Article             string
	Code                string
	Kind                EntryKind
	Quantity            int64
	UnitPrice           decimal.Decimal
	DiscountPercent     decimal.Decimal
	VatPercent          decimal.Decimal
	Revenue             decimal.Decimal
	UnitCost            decimal.Decimal
	ProductCost         decimal.Decimal
	AllocatedDelivery   decimal.Decimal
	AllocatedCommission decimal.Decimal
	FullCost            decimal.Decimal
	Profit              decimal.Decimal
	MarginPercent       decimal.Decimal
	Source              CostSource
}

type OrderSummary struct {
	OrderName     string
	Revenue       decimal.Decimal
	ProductCost   decimal.Decimal
	Delivery      decimal.Decimal
	Commission    decimal.Decimal
	FullCost      decimal.Decimal
	VatSum        decimal.Decimal
	NetProfit     decimal.Decimal
	MarginPercent decimal.Decimal
	PositionCount int
	CostAvailable bool
}

type BatchStatistics struct {
	TotalRevenue         decimal.Decimal
	TotalProductCost     decimal.Decimal
	TotalDelivery        decimal.Decimal
	TotalCommission      decimal.Decimal
	TotalFullCost        decimal.Decimal
	TotalVat             decimal.Decimal
	TotalNetProfit       decimal.Decimal
	AverageMarginPercent decimal.Decimal
	AverageOrderRevenue  decimal.Decimal
	OrderCount           int
}

// QualityReport quantifies how much of a batch is backed by resolved costs.
type QualityReport struct {
	LineCount            int
	LinesWithCost        int
	OrdersWithCost       int
	OrderCount           int
	SourceCounts         map[string]int
	LineCostCoveragePct  decimal.Decimal
	OrderCostCoveragePct decimal.Decimal
}
