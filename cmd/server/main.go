package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinpulse/internal/bot"
	"coinpulse/internal/cache"
	"coinpulse/internal/config"
	"coinpulse/internal/db"
	"coinpulse/internal/handler"
	"coinpulse/internal/job"
	"coinpulse/internal/news"
	"coinpulse/internal/provider"
	"coinpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newRepositoryFunc = func(tracer trace.Tracer) *news.Repository {
		return news.NewRepository(db.Pool, tracer)
	}
	newSourceFunc          = buildSource
	newMonitorServiceFunc  = news.NewMonitorService
	newMonitorJobFunc      = job.NewMonitorJob
	startJobFunc           = func(j *job.MonitorJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// buildSource composes every configured upstream; without any configuration
// the built-in sample batch keeps the pipeline demonstrable.
func buildSource(tracer trace.Tracer, cfg *config.Config) news.SourceReader {
	var sources []provider.ArticleFetcher
	if cfg.NewsAPIKey != "" {
		sources = append(sources, provider.NewNewsAPIProvider(tracer, cfg.NewsAPIKey, cfg.NewsQuery, cfg.NewsPageSize))
	}
	if len(cfg.RSSFeedURLs) > 0 {
		sources = append(sources, provider.NewRSSSource(tracer, cfg.RSSFeedURLs))
	}
	if len(cfg.RedditSubreddits) > 0 {
		sources = append(sources, provider.NewRedditSource(tracer, cfg.RedditSubreddits))
	}

	switch len(sources) {
	case 0:
		return provider.NewSampleSource()
	case 1:
		return sources[0]
	default:
		return provider.NewMultiSource(sources...)
	}
}

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repository and run migrations
	repo := newRepositoryFunc(tracer)
	if db.Pool != nil {
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Build scorer: OpenAI when configured, lexicon otherwise
	var scorer news.Scorer = news.NewLexiconScorer()
	if cfg.OpenAIAPIKey != "" {
		scorer = news.NewFallbackScorer(news.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil)
		log.Println("OpenAI sentiment scoring enabled")
	}

	extractor := news.NewExtractor(nil)
	source := newSourceFunc(tracer, cfg)

	monitorService := newMonitorServiceFunc(
		tracer, repo, scorer, extractor, source,
		cache.Client, time.Duration(cfg.SummaryCacheTTLSecs)*time.Second,
	)

	// Start monitor job (background goroutine, stopped by ctx cancel)
	monitorJob := newMonitorJobFunc(tracer, monitorService, time.Duration(cfg.MonitorPollSecs)*time.Second)
	startJobFunc(monitorJob, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(monitorService, extractor, cfg.SummaryWindowDays)

	// Create handlers and routes
	h := newHandlerFunc(tracer, monitorService, monitorService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("coinpulse"))

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
