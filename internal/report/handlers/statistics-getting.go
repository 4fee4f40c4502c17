package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"sklad-report/internal/report/data"
	"sklad-report/pkg/logging"
	"sklad-report/pkg/threadsafe"
)

type StatisticsGettingHandler struct {
	latestStats *threadsafe.Value[data.BatchStatistics]
	logger      *logging.ZapLogger
}

func NewStatisticsGettingHandler(
	latestStats *threadsafe.Value[data.BatchStatistics],
	logger *logging.ZapLogger,
) *StatisticsGettingHandler {
	return &StatisticsGettingHandler{
		latestStats: latestStats,
		logger:      logger,
	}
}

func (h *StatisticsGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.latestStats.Get()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := tryWriteResponseJSON(w, statisticsToResponse(stats)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}
