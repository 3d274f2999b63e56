// Package handlers exposes the analysis pipeline over HTTP.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"augur/internal/analysis"
	"augur/internal/service"
	"augur/pkg/logging"
)

// viralityCeiling is the scale reported to HTTP clients; the breakdown
// itself stays on [0,1].
const viralityCeiling = 100

type AnalyzeHandler struct {
	svc     *service.Service
	logger  logging.Logger
	metrics *AnalysisMetrics
}

func NewAnalyzeHandler(svc *service.Service, logger logging.Logger, metrics *AnalysisMetrics) *AnalyzeHandler {
	return &AnalyzeHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

type analyzeRequest struct {
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
	PostID   string `json:"post_id"`
}

type scoreResponse struct {
	ViralityScore   float64            `json:"virality_score"`
	Composite       float64            `json:"composite"`
	Breakdown       analysis.Breakdown `json:"breakdown"`
	ToxicityScore   float64            `json:"toxicity_score"`
	EngagementScore float64            `json:"engagement_score"`
	Strategy        analysis.Strategy  `json:"strategy"`
	Features        analysis.Features  `json:"features"`
}

func newScoreResponse(s analysis.Score) scoreResponse {
	return scoreResponse{
		ViralityScore:   s.Breakdown.Normalize(viralityCeiling),
		Composite:       s.Composite,
		Breakdown:       s.Breakdown,
		ToxicityScore:   s.Toxicity,
		EngagementScore: s.Engagement,
		Strategy:        s.Strategy,
		Features:        s.Features,
	}
}

func (h *AnalyzeHandler) Handle(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format",
		})
		return
	}

	meta := analysis.Metadata{AuthorID: req.AuthorID, PostID: req.PostID}
	report, err := h.svc.Analyze(c.Request.Context(), req.Text, meta)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.metrics.IncAnalysis(string(report.Score.Strategy), "success")
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"score":             newScoreResponse(report.Score),
		"suggestions":       report.Suggestions,
		"algorithm_version": report.AlgorithmVersion,
		"processing_time":   report.ProcessingTimeMs,
	})
}

func (h *AnalyzeHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, analysis.ErrEmptyInput) {
		h.metrics.IncAnalysis("none", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Text must not be empty",
		})
		return
	}

	h.metrics.IncAnalysis("none", "error")
	h.logger.WithFields(logging.Fields{"error": err.Error()}).Error("Analysis failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Analysis failed",
	})
}
