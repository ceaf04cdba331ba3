package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"coinpulse/internal/config"
	"coinpulse/internal/db"
	"coinpulse/internal/news"
	"coinpulse/internal/provider"
	"coinpulse/internal/report"
	"coinpulse/pkg/tracing"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initPostgresFunc   = db.InitPostgres
	initTracerFunc     = tracing.InitTracer
	newSourceFunc      = buildSource
	writeArtifactsFunc = report.WriteArtifacts
	exitFunc           = os.Exit
)

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

// A single monitoring pass: fetch, score, store, then dump a one-day summary
// and its report artifacts to the configured output directory.
func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	initPostgresFunc(ctx)
	if db.Pool == nil {
		log.Println("DATABASE_URL is required for a monitoring run")
		exitFunc(1)
		return
	}

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	repo := news.NewRepository(db.Pool, tracer)
	if err := repo.RunMigrations(ctx); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var scorer news.Scorer = news.NewLexiconScorer()
	if cfg.OpenAIAPIKey != "" {
		scorer = news.NewFallbackScorer(news.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil)
	}

	source := newSourceFunc(tracer, cfg)
	svc := news.NewMonitorService(tracer, repo, scorer, news.NewExtractor(nil), source, nil, 0)

	result, err := svc.RunCycle(ctx)
	if err != nil {
		log.Fatalf("monitoring run failed: %v", err)
	}
	log.Printf("Run complete: fetched=%d new=%d duplicates=%d skipped=%d",
		result.ArticlesFetched, result.NewArticles, result.Duplicates, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("Run warning: %s", e)
	}

	now := time.Now().UTC()
	summaries, err := svc.Summarize(ctx, 1, now)
	if err != nil {
		log.Fatalf("failed to summarize: %v", err)
	}

	articles, err := svc.RecentArticles(ctx, 200)
	if err != nil {
		log.Fatalf("failed to list articles: %v", err)
	}

	artifacts, err := writeArtifactsFunc(cfg.ReportOutputDir, summaries, articles, now)
	if err != nil {
		log.Fatalf("failed to write report artifacts: %v", err)
	}

	fmt.Print(report.BuildReport(summaries, now))
	log.Printf("Artifacts written: %s %s %s",
		artifacts.SummaryPath, artifacts.ArticlesPath, artifacts.ReportPath)
}
