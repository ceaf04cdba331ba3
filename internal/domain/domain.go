package domain

import (
	"fmt"
	"strings"
	"time"
)

// RawArticle is an unprocessed document as delivered by a news source.
type RawArticle struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
}

// Article is a scored and tagged document. URL is the natural key; a second
// insert with the same URL is a no-op. Fields other than CreatedAt are
// immutable once persisted.
type Article struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	URL             string    `json:"url"`
	PublishedAt     time.Time `json:"published_at"`
	Source          string    `json:"source"`
	SentimentScore  float64   `json:"sentiment_score"`
	MentionedAssets []string  `json:"mentioned_assets"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the invariants a document must satisfy before persistence.
func (a Article) Validate() error {
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("article url is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article title is required (url=%s)", a.URL)
	}
	if a.SentimentScore < -1 || a.SentimentScore > 1 {
		return fmt.Errorf("sentiment score %f out of range (url=%s)", a.SentimentScore, a.URL)
	}
	return nil
}

// InsertOutcome distinguishes a fresh insert from a duplicate URL. A duplicate
// is an expected result of re-running ingestion, not an error.
type InsertOutcome int

const (
	OutcomeInserted InsertOutcome = iota + 1
	OutcomeAlreadyExists
)

func (o InsertOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// AssetSentimentSummary holds windowed statistics for one asset.
// PositiveCount + NegativeCount + NeutralCount == ArticleCount.
type AssetSentimentSummary struct {
	Asset            string  `json:"asset"`
	AverageSentiment float64 `json:"avg_sentiment"`
	ArticleCount     int     `json:"article_count"`
	PositiveCount    int     `json:"positive_count"`
	NegativeCount    int     `json:"negative_count"`
	NeutralCount     int     `json:"neutral_count"`
	MaxSentiment     float64 `json:"max_sentiment"`
	MinSentiment     float64 `json:"min_sentiment"`
}

// SentimentLabel maps an average score to the report vocabulary.
func SentimentLabel(score float64) string {
	if score > 0.1 {
		return "BULLISH"
	}
	if score < -0.1 {
		return "BEARISH"
	}
	return "NEUTRAL"
}

// MonitorRunResult carries counters from one pipeline cycle.
type MonitorRunResult struct {
	ArticlesFetched int      `json:"articles_fetched"`
	NewArticles     int      `json:"new_articles"`
	Duplicates      int      `json:"duplicates"`
	Skipped         int      `json:"skipped"`
	Errors          []string `json:"errors,omitempty"`
}
