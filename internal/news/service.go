package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"coinpulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// Store is the document-store contract the pipeline depends on.
type Store interface {
	InsertArticle(ctx context.Context, article domain.Article) (domain.InsertOutcome, error)
	ListWindow(ctx context.Context, from, to time.Time) ([]domain.Article, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Article, error)
	CountArticles(ctx context.Context) (int64, error)
}

// SourceReader pulls raw documents from an upstream news provider.
type SourceReader interface {
	FetchArticles(ctx context.Context) ([]domain.RawArticle, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

const defaultSummaryCacheTTL = 60 * time.Second

// MonitorService orchestrates the ingestion-to-aggregation pipeline:
// extract + score per document, store with URL dedup, aggregate on demand.
type MonitorService struct {
	tracer    trace.Tracer
	store     Store
	scorer    Scorer
	extractor *Extractor
	source    SourceReader
	redis     RedisClient
	cacheTTL  time.Duration
}

func NewMonitorService(
	tracer trace.Tracer,
	store Store,
	scorer Scorer,
	extractor *Extractor,
	source SourceReader,
	redisClient RedisClient,
	cacheTTL time.Duration,
) *MonitorService {
	if scorer == nil {
		scorer = NewLexiconScorer()
	}
	if extractor == nil {
		extractor = NewExtractor(nil)
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultSummaryCacheTTL
	}
	return &MonitorService{
		tracer:    tracer,
		store:     store,
		scorer:    scorer,
		extractor: extractor,
		source:    source,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
	}
}

// Ingest scores, tags, and stores a batch of raw documents. It returns the
// number of newly stored documents; duplicates and skipped documents do not
// count. A malformed document never aborts the rest of the batch, but a
// storage failure does, with the already-committed count reported alongside.
func (s *MonitorService) Ingest(ctx context.Context, articles []domain.RawArticle) (int, error) {
	result, err := s.ingestBatch(ctx, articles)
	return result.NewArticles, err
}

func (s *MonitorService) ingestBatch(ctx context.Context, articles []domain.RawArticle) (domain.MonitorRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "monitor-service.ingest")
	defer span.End()

	result := domain.MonitorRunResult{ArticlesFetched: len(articles)}
	for _, raw := range articles {
		article, err := s.enrich(ctx, raw)
		if err != nil {
			log.Printf("skipping article: %v", err)
			result.Skipped++
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		outcome, err := s.store.InsertArticle(ctx, article)
		if err != nil {
			// Storage failure is fatal for the run; everything committed so
			// far stays committed and re-running is safe (URL dedup).
			return result, fmt.Errorf("insert article %s: %w", article.URL, err)
		}
		switch outcome {
		case domain.OutcomeInserted:
			result.NewArticles++
		case domain.OutcomeAlreadyExists:
			result.Duplicates++
		}
	}
	return result, nil
}

// enrich builds the candidate document: sentiment and asset extraction both
// run over "title body" in that order, so scores stay reproducible.
func (s *MonitorService) enrich(ctx context.Context, raw domain.RawArticle) (domain.Article, error) {
	text := strings.TrimSpace(raw.Title + " " + raw.Body)

	publishedAt := raw.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	article := domain.Article{
		Title:           strings.TrimSpace(raw.Title),
		Body:            strings.TrimSpace(raw.Body),
		URL:             strings.TrimSpace(raw.URL),
		PublishedAt:     publishedAt.UTC(),
		Source:          strings.TrimSpace(raw.Source),
		SentimentScore:  s.scorer.Score(ctx, text),
		MentionedAssets: s.extractor.Extract(text),
	}
	if err := article.Validate(); err != nil {
		return domain.Article{}, err
	}
	return article, nil
}

// Summarize aggregates per-asset sentiment over [now-windowDays, now],
// reading through the optional Redis cache.
func (s *MonitorService) Summarize(ctx context.Context, windowDays int, now time.Time) (map[string]domain.AssetSentimentSummary, error) {
	ctx, span := s.tracer.Start(ctx, "monitor-service.summarize")
	defer span.End()

	if windowDays <= 0 {
		windowDays = 7
	}

	from, to := Window(windowDays, now)

	// The key carries the window end at minute granularity so a caller
	// summarizing as of an earlier time never sees a fresher window's result.
	cacheKey := fmt.Sprintf("sentiment:summary:%dd:%s", windowDays, to.Format("200601021504"))
	if cached := s.getSummaryCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	articles, err := s.store.ListWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}

	summary := Aggregate(articles)
	s.setSummaryCache(ctx, cacheKey, summary)
	return summary, nil
}

// Count reports the total number of stored documents.
func (s *MonitorService) Count(ctx context.Context) (int64, error) {
	return s.store.CountArticles(ctx)
}

// RecentArticles returns the newest stored documents.
func (s *MonitorService) RecentArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.store.ListRecent(ctx, limit)
}

// RunCycle executes one full pipeline pass: fetch from the news source, then
// ingest. A source failure fails the run; nothing has been stored yet at that
// point.
func (s *MonitorService) RunCycle(ctx context.Context) (domain.MonitorRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "monitor-service.run-cycle")
	defer span.End()

	if s.source == nil {
		return domain.MonitorRunResult{}, fmt.Errorf("no news source configured")
	}

	raw, err := s.source.FetchArticles(ctx)
	if err != nil {
		return domain.MonitorRunResult{}, fmt.Errorf("fetch articles: %w", err)
	}
	return s.ingestBatch(ctx, raw)
}

func (s *MonitorService) getSummaryCache(ctx context.Context, key string) map[string]domain.AssetSentimentSummary {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis cache read error: %v", err)
		}
		return nil
	}
	var out map[string]domain.AssetSentimentSummary
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("redis cache decode error: %v", err)
		return nil
	}
	return out
}

func (s *MonitorService) setSummaryCache(ctx context.Context, key string, summary map[string]domain.AssetSentimentSummary) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Printf("redis cache write error: %v", err)
	}
}
