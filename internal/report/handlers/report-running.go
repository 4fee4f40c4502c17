package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/threadsafe"
)

const dateLayout = "2006-01-02"

type ReportRunRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ReportService interface {
	Run(ctx context.Context, from, to time.Time) (*data.BatchReport, error)
}

type ReportRunHandler struct {
	service     ReportService
	latestStats *threadsafe.Value[data.BatchStatistics]
	logger      *logging.ZapLogger
}

func NewReportRunHandler(
	service ReportService,
	latestStats *threadsafe.Value[data.BatchStatistics],
	logger *logging.ZapLogger,
) *ReportRunHandler {
	return &ReportRunHandler{
		service:     service,
		latestStats: latestStats,
		logger:      logger,
	}
}

// ServeHTTP runs a report batch over [from, to) and responds with the batch
// statistics. The run is synchronous; a batch over a month of orders takes
// a while, so callers set their own timeout.
func (h *ReportRunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[ReportRunRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "failed to decode report run request", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	from, err := time.Parse(dateLayout, request.From)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	to, err := time.Parse(dateLayout, request.To)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !to.After(from) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	report, err := h.service.Run(r.Context(), from, to)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "report run failed", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	h.latestStats.Set(report.Statistics)

	if err := tryWriteResponseJSON(w, statisticsToResponse(report.Statistics)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}
