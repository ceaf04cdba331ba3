package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSentimentSummary godoc
// @Summary      Per-asset sentiment summary
// @Description  Aggregates stored article sentiment per asset over a trailing window
// @Tags         sentiment
// @Produce      json
// @Param        days  query  int  false  "Window size in days (default 7)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/sentiment/summary [get]
func (h *Handler) GetSentimentSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment-summary")
	defer span.End()

	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	summaries, err := h.sentiment.Summarize(ctx, days, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_days": days,
		"assets":      summaries,
	})
}
