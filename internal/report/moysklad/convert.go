package moysklad

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sklad-report/internal/common/skladprotocol"
	"sklad-report/internal/report/data"
)

func convertOrder(row skladprotocol.Order) (data.Order, error) {
	moment, err := parseMoment(row.Moment)
	if err != nil {
		return data.Order{}, err
	}

	order := data.Order{
		ID:              row.ID,
		Name:            row.Name,
		Moment:          moment,
		Agent:           entityName(row.Agent),
		Organization:    entityName(row.Organization),
		Status:          entityName(row.State),
		Applicable:      row.Applicable,
		Sum:             row.Sum,
		PaidSum:         row.PayedSum,
		ShippedSum:      row.ShippedSum,
		ReservedSum:     row.ReservedSum,
		VatSum:          row.VatSum,
		VatIncluded:     row.VatIncluded,
		ShipmentAddress: row.ShipmentAddress,
	}
	for _, attr := range row.Attributes {
		order.Attributes = append(order.Attributes, data.Attribute{
			Name:  attr.Name,
			Value: attributeValueString(attr.Value),
		})
	}
	for _, pos := range row.Positions.Rows {
		order.Positions = append(order.Positions, convertPosition(pos))
	}
	return order, nil
}

func convertPosition(pos skladprotocol.Position) data.Position {
	return data.Position{
		Quantity:        int64(math.Round(pos.Quantity)),
		Price:           pos.Price,
		DiscountPercent: decimal.NewFromFloat(pos.Discount),
		VatPercent:      decimal.NewFromFloat(pos.Vat),
		Entry:           convertEntry(pos.Assortment),
	}
}

func convertEntry(a skladprotocol.Assortment) data.CatalogEntry {
	info := data.EntryInfo{
		ID:      assortmentID(a),
		Name:    a.Name,
		Article: a.Article,
		Code:    a.Code,
	}
	switch a.Meta.Type {
	case skladprotocol.BundleType:
		return &data.Bundle{EntryInfo: info}
	case skladprotocol.VariantType:
		variant := &data.Variant{EntryInfo: info, BuyPrice: buyPriceValue(a.BuyPrice)}
		if a.Product != nil {
			variant.BaseProductRef = a.Product.Meta.Href
		}
		return variant
	default:
		// Anything else (product, service) carries its own buy price or none.
		return &data.Product{EntryInfo: info, BuyPrice: buyPriceValue(a.BuyPrice)}
	}
}

func convertProduct(a skladprotocol.Assortment) *data.Product {
	return &data.Product{
		EntryInfo: data.EntryInfo{
			ID:      assortmentID(a),
			Name:    a.Name,
			Article: a.Article,
			Code:    a.Code,
		},
		BuyPrice: buyPriceValue(a.BuyPrice),
	}
}

func buyPriceValue(price *skladprotocol.Price) int64 {
	if price == nil {
		return 0
	}
	return price.Value
}

func entityName(e *skladprotocol.Entity) string {
	if e == nil {
		return ""
	}
	return e.Name
}

// assortmentID falls back to the href tail: expanded assortment objects do
// not always carry an id field.
func assortmentID(a skladprotocol.Assortment) string {
	if a.ID != "" {
		return a.ID
	}
	href := a.Meta.Href
	if idx := strings.LastIndex(href, "/"); idx >= 0 {
		return href[idx+1:]
	}
	return href
}

func parseMoment(raw string) (time.Time, error) {
	for _, layout := range []string{skladprotocol.MomentLayout, skladprotocol.MomentFilterLayout} {
		if moment, err := time.Parse(layout, raw); err == nil {
			return moment, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported moment format %q", raw)
}

// attributeValueString normalizes the free-form attribute value into a
// string; downstream parsing decides whether it is numeric.
func attributeValueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
