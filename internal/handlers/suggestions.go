package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"augur/internal/analysis"
	"augur/internal/service"
	"augur/pkg/logging"
)

type SuggestionsHandler struct {
	svc    *service.Service
	logger logging.Logger
}

func NewSuggestionsHandler(svc *service.Service, logger logging.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *SuggestionsHandler) Handle(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format",
		})
		return
	}

	meta := analysis.Metadata{AuthorID: req.AuthorID, PostID: req.PostID}
	suggestions, err := h.svc.Suggestions(c.Request.Context(), req.Text, meta)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"suggestions": suggestions,
	})
}

// HandleHashtags serves hashtag recommendations for a post passed as the
// `text` query parameter.
func (h *SuggestionsHandler) HandleHashtags(c *gin.Context) {
	text := c.Query("text")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	hashtags, err := h.svc.HashtagSuggestions(c.Request.Context(), text, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"hashtags": hashtags,
	})
}

func (h *SuggestionsHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, analysis.ErrEmptyInput) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Text must not be empty",
		})
		return
	}

	h.logger.WithFields(logging.Fields{"error": err.Error()}).Error("Suggestion generation failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Suggestion generation failed",
	})
}
