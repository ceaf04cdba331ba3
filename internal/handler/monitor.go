package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerMonitorRun godoc
// @Summary      Trigger a news monitoring cycle manually
// @Description  Fetches the configured news source once, scores and stores new articles
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/monitor/run [post]
func (h *Handler) TriggerMonitorRun(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "monitor service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-monitor-run")
	defer span.End()

	result, err := h.monitor.RunCycle(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"articles_fetched": result.ArticlesFetched,
		"new_articles":     result.NewArticles,
		"duplicates":       result.Duplicates,
		"skipped":          result.Skipped,
		"errors":           result.Errors,
	})
}
