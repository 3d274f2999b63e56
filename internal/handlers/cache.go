package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"augur/internal/service"
	"augur/pkg/logging"
)

type CacheHandler struct {
	svc     *service.Service
	logger  logging.Logger
	metrics *AnalysisMetrics
}

func NewCacheHandler(svc *service.Service, logger logging.Logger, metrics *AnalysisMetrics) *CacheHandler {
	return &CacheHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *CacheHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"caches":  h.svc.CacheStats(),
	})
}

func (h *CacheHandler) HandleClear(c *gin.Context) {
	dropped := h.svc.ClearCaches()
	for purpose := range h.svc.CacheStats() {
		h.metrics.SetCacheEntries(purpose, 0)
	}

	h.logger.WithFields(logging.Fields{"entries_dropped": dropped}).Info("Caches cleared")
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"entries_dropped": dropped,
	})
}
