package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/threadsafe"
)

// CatalogLookup resolves base products in the catalog. A (nil, nil) return
// means the product does not exist; errors are transport failures.
type CatalogLookup interface {
	FindProductByArticle(ctx context.Context, article string) (*data.Product, error)
	FindBaseProduct(ctx context.Context, ref string) (*data.Product, error)
}

// CostResolver resolves the unit cost of catalog entries for one batch run.
// It memoizes both resolved costs (per entry identity) and looked-up base
// products (per article, since many bundles share one base product's
// article). Misses are memoized too, so an absent product costs one external
// call per batch, not one per line. A fresh resolver is created per batch;
// nothing survives a run.
type CostResolver struct {
	lookup   CatalogLookup
	products *threadsafe.Cache[string, *data.Product]
	costs    *threadsafe.Cache[string, data.CostInfo]
	logger   *logging.ZapLogger
}

func NewCostResolver(lookup CatalogLookup, logger *logging.ZapLogger) *CostResolver {
	return &CostResolver{
		lookup:   lookup,
		products: threadsafe.NewCache[string, *data.Product](),
		costs:    threadsafe.NewCache[string, data.CostInfo](),
		logger:   logger,
	}
}

// ResolveUnitCost returns the unit cost of an entry in major currency units
// together with the rule that produced it. Lookup failures degrade to a
// not-found cost; they never abort the batch.
func (r *CostResolver) ResolveUnitCost(ctx context.Context, entry data.CatalogEntry) data.CostInfo {
	return r.costs.GetOrCompute(entry.Info().ID, func() data.CostInfo {
		return r.resolve(ctx, entry)
	})
}

func (r *CostResolver) resolve(ctx context.Context, entry data.CatalogEntry) data.CostInfo {
	switch e := entry.(type) {
	case *data.Product:
		if e.BuyPrice > 0 {
			return data.CostInfo{
				UnitCost: data.MinorToDecimal(e.BuyPrice),
				Source:   data.CostSource{Kind: data.CostSourceProduct},
			}
		}
		return notFoundCost()
	case *data.Bundle:
		if e.Article == "" {
			return notFoundCost()
		}
		product := r.productByArticle(ctx, e.Article)
		if product != nil && product.BuyPrice > 0 {
			return data.CostInfo{
				UnitCost: data.MinorToDecimal(product.BuyPrice),
				Source: data.CostSource{
					Kind:    data.CostSourceBaseProductByArticle,
					Article: e.Article,
				},
			}
		}
		return notFoundCost()
	case *data.Variant:
		if e.BuyPrice > 0 {
			return data.CostInfo{
				UnitCost: data.MinorToDecimal(e.BuyPrice),
				Source:   data.CostSource{Kind: data.CostSourceVariant},
			}
		}
		if e.BaseProductRef == "" {
			return notFoundCost()
		}
		base := r.baseProduct(ctx, e.BaseProductRef)
		if base != nil && base.BuyPrice > 0 {
			return data.CostInfo{
				UnitCost: data.MinorToDecimal(base.BuyPrice),
				Source:   data.CostSource{Kind: data.CostSourceBaseProductOfVariant},
			}
		}
		return notFoundCost()
	default:
		return notFoundCost()
	}
}

func (r *CostResolver) productByArticle(ctx context.Context, article string) *data.Product {
	return r.products.GetOrCompute(article, func() *data.Product {
		product, err := r.lookup.FindProductByArticle(ctx, article)
		if err != nil {
			r.logger.WarnCtx(ctx, "product lookup by article failed",
				zap.String("article", article), zap.Error(err))
			return nil
		}
		return product
	})
}

func (r *CostResolver) baseProduct(ctx context.Context, ref string) *data.Product {
	return r.products.GetOrCompute(ref, func() *data.Product {
		product, err := r.lookup.FindBaseProduct(ctx, ref)
		if err != nil {
			r.logger.WarnCtx(ctx, "base product lookup failed",
				zap.String("ref", ref), zap.Error(err))
			return nil
		}
		return product
	})
}

func notFoundCost() data.CostInfo {
	return data.CostInfo{
		UnitCost: decimal.Zero,
		Source:   data.CostSource{Kind: data.CostSourceNotFound},
	}
}
