package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"sklad-report/internal/report/data"
)

// Marketplaces write shared costs into arbitrarily named custom attributes,
// in Russian or English. Classification is an ordered rule table over
// case-insensitive substrings of the attribute name: for commission the first
// matching rule wins per attribute, the delivery rule is applied
// independently. Rule order is part of the contract.

var commissionWords = []string{"комисс", "commission"}
var goodsWords = []string{"товар", "goods"}
var deliveryWords = []string{"доставк", "delivery"}
var sumWords = []string{"сумма", "sum"}
var deliveryCostWords = []string{"стоимость", "сумма", "цена", "cost", "price", "amount"}

type commissionRule struct {
	name  string
	match func(lower string) bool
	apply func(costs *data.ExtractedCosts, value decimal.Decimal)
}

var commissionRules = []commissionRule{
	{
		name: "commission on goods",
		match: func(lower string) bool {
			return containsAny(lower, commissionWords) && containsAny(lower, goodsWords)
		},
		apply: func(costs *data.ExtractedCosts, value decimal.Decimal) {
			costs.CommissionSum = costs.CommissionSum.Add(value)
		},
	},
	{
		// Commission charged on delivery is still commission, not delivery.
		name: "commission on delivery",
		match: func(lower string) bool {
			return containsAny(lower, commissionWords) && containsAny(lower, deliveryWords)
		},
		apply: func(costs *data.ExtractedCosts, value decimal.Decimal) {
			costs.CommissionSum = costs.CommissionSum.Add(value)
		},
	},
	{
		// Percent assignment: a later percent attribute replaces an earlier one.
		name: "commission percent",
		match: func(lower string) bool {
			return containsAny(lower, commissionWords) && strings.Contains(lower, "%")
		},
		apply: func(costs *data.ExtractedCosts, value decimal.Decimal) {
			costs.CommissionPercent = value
		},
	},
	{
		name: "commission sum",
		match: func(lower string) bool {
			return containsAny(lower, commissionWords) && containsAny(lower, sumWords)
		},
		apply: func(costs *data.ExtractedCosts, value decimal.Decimal) {
			costs.CommissionSum = costs.CommissionSum.Add(value)
		},
	},
}

func matchesDeliveryCost(lower string) bool {
	return containsAny(lower, deliveryWords) &&
		!containsAny(lower, commissionWords) &&
		containsAny(lower, deliveryCostWords)
}

// ExtractCosts scans order attributes for shared cost figures. Non-numeric
// values are skipped, not reported: garbage in custom fields is routine.
// When only a commission percent was found, the sum is derived from the order
// revenue; an explicit sum always takes precedence over the percent.
func ExtractCosts(attributes []data.Attribute, orderRevenue decimal.Decimal) data.ExtractedCosts {
	costs := data.ExtractedCosts{
		CommissionPercent: decimal.Zero,
		CommissionSum:     decimal.Zero,
		DeliveryCost:      decimal.Zero,
	}

	for _, attr := range attributes {
		value, ok := parseAttributeValue(attr.Value)
		if !ok {
			continue
		}
		lower := strings.ToLower(attr.Name)

		for _, rule := range commissionRules {
			if rule.match(lower) {
				rule.apply(&costs, value)
				break
			}
		}

		if matchesDeliveryCost(lower) {
			costs.DeliveryCost = costs.DeliveryCost.Add(value)
		}
	}

	if costs.CommissionPercent.IsPositive() && costs.CommissionSum.IsZero() {
		costs.CommissionSum = orderRevenue.Mul(costs.CommissionPercent).Div(oneHundred)
	}

	return costs
}

var oneHundred = decimal.NewFromInt(100)

func parseAttributeValue(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
