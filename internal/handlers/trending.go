package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"augur/internal/service"
	"augur/pkg/logging"
)

type TrendingHandler struct {
	svc    *service.Service
	logger logging.Logger
}

func NewTrendingHandler(svc *service.Service, logger logging.Logger) *TrendingHandler {
	return &TrendingHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *TrendingHandler) Handle(c *gin.Context) {
	region := c.Param("region")

	topics, err := h.svc.TrendingTopics(c.Request.Context(), region)
	if err != nil {
		h.logger.WithFields(logging.Fields{
			"region": region,
			"error":  err.Error(),
		}).Error("Trending snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Trending topics unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"region":  region,
		"topics":  topics,
	})
}
