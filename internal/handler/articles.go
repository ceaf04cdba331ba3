package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetRecentArticles godoc
// @Summary      Recently stored articles
// @Description  Returns the most recently published articles with their sentiment scores
// @Tags         articles
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of articles (default 50, max 200)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/articles/recent [get]
func (h *Handler) GetRecentArticles(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-recent-articles")
	defer span.End()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	articles, err := h.sentiment.RecentArticles(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(articles),
		"articles": articles,
	})
}

// GetArticleCount godoc
// @Summary      Total stored article count
// @Tags         articles
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Failure      500  {object}  map[string]string
// @Router       /api/articles/count [get]
func (h *Handler) GetArticleCount(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-article-count")
	defer span.End()

	count, err := h.sentiment.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
