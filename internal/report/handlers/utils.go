package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
)

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&out)
	return out, err
}

func tryWriteResponseJSON(w http.ResponseWriter, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(res)
	if err != nil {
		return err
	}
	return nil
}

// BatchStatisticsResponse is the JSON shape served to operators.
type BatchStatisticsResponse struct {
	TotalRevenue         float64 `json:"total_revenue"`
	TotalProductCost     float64 `json:"total_product_cost"`
	TotalDelivery        float64 `json:"total_delivery"`
	TotalCommission      float64 `json:"total_commission"`
	TotalFullCost        float64 `json:"total_full_cost"`
	TotalVat             float64 `json:"total_vat"`
	TotalNetProfit       float64 `json:"total_net_profit"`
	AverageMarginPercent float64 `json:"average_margin_percent"`
	AverageOrderRevenue  float64 `json:"average_order_revenue"`
	OrderCount           int     `json:"order_count"`
}

func statisticsToResponse(stats data.BatchStatistics) BatchStatisticsResponse {
	totalRevenue, _ := stats.TotalRevenue.Float64()
	totalProductCost, _ := stats.TotalProductCost.Float64()
	totalDelivery, _ := stats.TotalDelivery.Float64()
	totalCommission, _ := stats.TotalCommission.Float64()
	totalFullCost, _ := stats.TotalFullCost.Float64()
	totalVat, _ := stats.TotalVat.Float64()
	totalNetProfit, _ := stats.TotalNetProfit.Float64()
	averageMargin, _ := stats.AverageMarginPercent.Float64()
	averageRevenue, _ := stats.AverageOrderRevenue.Float64()
	return BatchStatisticsResponse{
		TotalRevenue:         totalRevenue,
		TotalProductCost:     totalProductCost,
		TotalDelivery:        totalDelivery,
		TotalCommission:      totalCommission,
		TotalFullCost:        totalFullCost,
		TotalVat:             totalVat,
		TotalNetProfit:       totalNetProfit,
		AverageMarginPercent: averageMargin,
		AverageOrderRevenue:  averageRevenue,
		OrderCount:           stats.OrderCount,
	}
}
