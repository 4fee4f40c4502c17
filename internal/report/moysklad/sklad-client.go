package moysklad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"sklad-report/internal/common/skladprotocol"
	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/timeutils"
)

const (
	defaultPageLimit = 100
	// pagePause keeps the client under the API rate limit between pages.
	pagePause = 200 * time.Millisecond
)

var defaultRetryDelays = []time.Duration{time.Second, 3 * time.Second, 5 * time.Second}

type Config struct {
	BaseURL            string
	Token              string
	RequestTimeout     time.Duration
	PageLimit          int
	RetryAttemptDelays []time.Duration
}

// Client talks to the MoySklad remap API. It implements both the order
// source and the catalog lookup of the report pipeline.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaultPageLimit
	}
	if len(cfg.RetryAttemptDelays) == 0 {
		cfg.RetryAttemptDelays = defaultRetryDelays
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Authorization", "Bearer "+cfg.Token).
		SetHeader("Accept-Encoding", "gzip")
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger,
	}
}

// FetchOrders streams customer orders of the half-open interval [from, to)
// page by page, with positions expanded so each order arrives complete.
// fn is called once per order in fetch order; its error aborts the stream.
func (c *Client) FetchOrders(ctx context.Context, from, to time.Time, fn func(order data.Order) error) error {
	momentFilter := fmt.Sprintf(
		"moment>=%s;moment<%s",
		from.Format(skladprotocol.MomentFilterLayout),
		to.Format(skladprotocol.MomentFilterLayout),
	)

	offset := 0
	for {
		page, err := c.fetchOrdersPage(ctx, momentFilter, offset)
		if err != nil {
			return fmt.Errorf("failed to fetch orders page at offset %d: %w", offset, err)
		}
		c.logger.DebugCtx(ctx, "orders page fetched",
			zap.Int("offset", offset), zap.Int("rows", len(page.Rows)))

		for _, row := range page.Rows {
			order, err := convertOrder(row)
			if err != nil {
				return fmt.Errorf("failed to convert order %q: %w", row.Name, err)
			}
			if err := fn(order); err != nil {
				return err
			}
		}

		if len(page.Rows) < c.cfg.PageLimit {
			return nil
		}
		offset += c.cfg.PageLimit
		if err := timeutils.SleepCtx(ctx, pagePause); err != nil {
			return err //nolint:wrapcheck // unnecessary
		}
	}
}

func (c *Client) fetchOrdersPage(ctx context.Context, momentFilter string, offset int) (skladprotocol.OrdersPage, error) {
	return timeutils.Retry(
		ctx,
		c.cfg.RetryAttemptDelays,
		func(ctx context.Context) (skladprotocol.OrdersPage, error) {
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"limit":  fmt.Sprint(c.cfg.PageLimit),
					"offset": fmt.Sprint(offset),
					"filter": momentFilter,
					"expand": "positions.assortment",
				}).
				Get("/entity/customerorder")
			if err != nil {
				return skladprotocol.OrdersPage{}, fmt.Errorf("get request failed: %w", err)
			}
			if resp.StatusCode() != 200 {
				return skladprotocol.OrdersPage{}, fmt.Errorf("unexpected status code %v", resp.StatusCode())
			}
			page := skladprotocol.OrdersPage{}
			if err := json.Unmarshal(resp.Body(), &page); err != nil {
				return skladprotocol.OrdersPage{}, fmt.Errorf("error unmarshalling orders page: %w", err)
			}
			return page, nil
		},
		func(_ skladprotocol.OrdersPage, err error) bool {
			if err != nil {
				c.logger.WarnCtx(ctx, "orders page fetch attempt failed", zap.Error(err))
				return true
			}
			return false
		},
	)
}

// FindProductByArticle resolves the product sharing a bundle's article.
// A missing product is (nil, nil), not an error.
func (c *Client) FindProductByArticle(ctx context.Context, article string) (*data.Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"filter": "article=" + article,
			"limit":  "1",
		}).
		Get("/entity/product")
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}
	page := skladprotocol.ProductsPage{}
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, fmt.Errorf("error unmarshalling products page: %w", err)
	}
	if len(page.Rows) == 0 {
		return nil, nil
	}
	return convertProduct(page.Rows[0]), nil
}

// FindBaseProduct fetches a product by the full href a variant references.
func (c *Client) FindBaseProduct(ctx context.Context, ref string) (*data.Product, error) {
	if ref == "" {
		return nil, nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get(ref)
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	switch resp.StatusCode() {
	case 404:
		return nil, nil
	case 200:
		assortment := skladprotocol.Assortment{}
		if err := json.Unmarshal(resp.Body(), &assortment); err != nil {
			return nil, fmt.Errorf("error unmarshalling product: %w", err)
		}
		return convertProduct(assortment), nil
	default:
		return nil, fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}
}
