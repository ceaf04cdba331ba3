package handler

import (
	"context"
	"time"

	"coinpulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type SentimentReader interface {
	Summarize(ctx context.Context, windowDays int, now time.Time) (map[string]domain.AssetSentimentSummary, error)
	RecentArticles(ctx context.Context, limit int) ([]domain.Article, error)
	Count(ctx context.Context) (int64, error)
}

type MonitorRunner interface {
	RunCycle(ctx context.Context) (domain.MonitorRunResult, error)
}

type Handler struct {
	tracer    trace.Tracer
	sentiment SentimentReader
	monitor   MonitorRunner
}

func New(tracer trace.Tracer, sentiment SentimentReader, monitor MonitorRunner) *Handler {
	return &Handler{
		tracer:    tracer,
		sentiment: sentiment,
		monitor:   monitor,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/sentiment/summary", h.GetSentimentSummary)
	r.GET("/api/articles/recent", h.GetRecentArticles)
	r.GET("/api/articles/count", h.GetArticleCount)
	r.POST("/api/monitor/run", h.TriggerMonitorRun)
}
