package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sklad-report/internal/report/data"
)

func TestExtractCosts(t *testing.T) {
	tests := []struct {
		name           string
		attributes     []data.Attribute
		orderRevenue   string
		wantPercent    string
		wantCommission string
		wantDelivery   string
	}{
		{
			name:           "no attributes",
			attributes:     nil,
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "0",
			wantDelivery:   "0",
		},
		{
			name: "percent derives commission from revenue",
			attributes: []data.Attribute{
				{Name: "Commission %", Value: "10"},
			},
			orderRevenue:   "1000",
			wantPercent:    "10",
			wantCommission: "100",
			wantDelivery:   "0",
		},
		{
			name: "explicit sum wins over percent",
			attributes: []data.Attribute{
				{Name: "Commission %", Value: "10"},
				{Name: "Commission sum", Value: "50"},
			},
			orderRevenue:   "1000",
			wantPercent:    "10",
			wantCommission: "50",
			wantDelivery:   "0",
		},
		{
			name: "last percent wins",
			attributes: []data.Attribute{
				{Name: "Комиссия %", Value: "10"},
				{Name: "Комиссия маркетплейса %", Value: "15"},
			},
			orderRevenue:   "200",
			wantPercent:    "15",
			wantCommission: "30",
			wantDelivery:   "0",
		},
		{
			name: "commission on goods and on delivery pool together",
			attributes: []data.Attribute{
				{Name: "Комиссия за товар", Value: "40"},
				{Name: "Комиссия за доставку", Value: "15"},
			},
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "55",
			wantDelivery:   "0",
		},
		{
			name: "delivery cost accumulates across attributes",
			attributes: []data.Attribute{
				{Name: "Стоимость доставки", Value: "30"},
				{Name: "Delivery cost extra", Value: "20"},
			},
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "0",
			wantDelivery:   "50",
		},
		{
			name: "commission-on-delivery attribute is not delivery",
			attributes: []data.Attribute{
				{Name: "Комиссия за доставку, сумма", Value: "25"},
			},
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "25",
			wantDelivery:   "0",
		},
		{
			name: "delivery attribute without a cost word is ignored",
			attributes: []data.Attribute{
				{Name: "Тип доставки", Value: "5"},
			},
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "0",
			wantDelivery:   "0",
		},
		{
			name: "garbage and empty values are skipped",
			attributes: []data.Attribute{
				{Name: "Commission sum", Value: "not-a-number"},
				{Name: "Стоимость доставки", Value: ""},
				{Name: "Delivery price", Value: "  12.5 "},
			},
			orderRevenue:   "1000",
			wantPercent:    "0",
			wantCommission: "0",
			wantDelivery:   "12.5",
		},
		{
			name: "unrelated attributes yield zeros",
			attributes: []data.Attribute{
				{Name: "Маркетплейс", Value: "7"},
				{Name: "Трек-номер", Value: "123456"},
			},
			orderRevenue:   "500",
			wantPercent:    "0",
			wantCommission: "0",
			wantDelivery:   "0",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			revenue := decimal.RequireFromString(test.orderRevenue)
			costs := ExtractCosts(test.attributes, revenue)
			assertDecimal(t, test.wantPercent, costs.CommissionPercent, "commission percent")
			assertDecimal(t, test.wantCommission, costs.CommissionSum, "commission sum")
			assertDecimal(t, test.wantDelivery, costs.DeliveryCost, "delivery cost")
		})
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		"%s: want %s, got %s", msg, want, got)
}
