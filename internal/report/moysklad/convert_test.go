package moysklad

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad-report/internal/common/skladprotocol"
	"sklad-report/internal/report/data"
)

const orderJSON = `{
	"id": "ord-1",
	"name": "00042",
	"moment": "2026-03-15 10:30:00.000",
	"agent": {"meta": {"href": "", "type": "counterparty"}, "name": "Ozon"},
	"organization": {"meta": {"href": "", "type": "organization"}, "name": "ООО Ромашка"},
	"state": {"meta": {"href": "", "type": "state"}, "name": "Отгружен"},
	"applicable": true,
	"sum": 150000,
	"payedSum": 150000,
	"shippedSum": 0,
	"reservedSum": 0,
	"vatSum": 25000,
	"vatIncluded": true,
	"attributes": [
		{"name": "Комиссия %", "type": "double", "value": 12.5},
		{"name": "Стоимость доставки", "type": "string", "value": "50"},
		{"name": "Трек-номер", "type": "string", "value": "RA123"},
		{"name": "Пустое поле", "type": "string", "value": null}
	],
	"positions": {
		"rows": [
			{
				"quantity": 2,
				"price": 50000,
				"discount": 10,
				"vat": 20,
				"assortment": {
					"meta": {"href": "https://api.example/entity/product/p-1", "type": "product"},
					"name": "Футболка",
					"article": "TS-1",
					"code": "001",
					"buyPrice": {"value": 20000}
				}
			},
			{
				"quantity": 1,
				"price": 30000,
				"discount": 0,
				"vat": 20,
				"assortment": {
					"meta": {"href": "https://api.example/entity/bundle/b-1", "type": "bundle"},
					"name": "Набор",
					"article": "KIT-1",
					"code": "002"
				}
			},
			{
				"quantity": 1,
				"price": 20000,
				"discount": 0,
				"vat": 20,
				"assortment": {
					"meta": {"href": "https://api.example/entity/variant/v-1", "type": "variant"},
					"name": "Футболка (XL)",
					"code": "003",
					"product": {"meta": {"href": "https://api.example/entity/product/p-1", "type": "product"}, "name": ""}
				}
			}
		]
	}
}`

func TestConvertOrder(t *testing.T) {
	var row skladprotocol.Order
	require.NoError(t, json.Unmarshal([]byte(orderJSON), &row))

	order, err := convertOrder(row)
	require.NoError(t, err)

	assert.Equal(t, "00042", order.Name)
	assert.Equal(t, "Ozon", order.Agent)
	assert.Equal(t, "ООО Ромашка", order.Organization)
	assert.Equal(t, "Отгружен", order.Status)
	assert.True(t, order.Applicable)
	assert.Equal(t, int64(150000), order.Sum)
	assert.Equal(t, int64(25000), order.VatSum)
	assert.Equal(t, 2026, order.Moment.Year())

	require.Len(t, order.Attributes, 4)
	assert.Equal(t, data.Attribute{Name: "Комиссия %", Value: "12.5"}, order.Attributes[0])
	assert.Equal(t, data.Attribute{Name: "Стоимость доставки", Value: "50"}, order.Attributes[1])
	assert.Equal(t, data.Attribute{Name: "Пустое поле", Value: ""}, order.Attributes[3])

	require.Len(t, order.Positions, 3)

	product, ok := order.Positions[0].Entry.(*data.Product)
	require.True(t, ok)
	assert.Equal(t, "p-1", product.ID)
	assert.Equal(t, "TS-1", product.Article)
	assert.Equal(t, int64(20000), product.BuyPrice)
	assert.Equal(t, int64(2), order.Positions[0].Quantity)
	assert.Equal(t, int64(50000), order.Positions[0].Price)

	bundle, ok := order.Positions[1].Entry.(*data.Bundle)
	require.True(t, ok)
	assert.Equal(t, "KIT-1", bundle.Article)

	variant, ok := order.Positions[2].Entry.(*data.Variant)
	require.True(t, ok)
	assert.Equal(t, int64(0), variant.BuyPrice)
	assert.Equal(t, "https://api.example/entity/product/p-1", variant.BaseProductRef)
}

func TestConvertOrder_UnsupportedMoment(t *testing.T) {
	_, err := convertOrder(skladprotocol.Order{Name: "bad", Moment: "15.03.2026"})
	assert.Error(t, err)
}

func TestAssortmentID_FromHref(t *testing.T) {
	a := skladprotocol.Assortment{
		Meta: skladprotocol.Meta{Href: "https://api.example/entity/product/p-9", Type: "product"},
	}
	assert.Equal(t, "p-9", assortmentID(a))
}
