package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditUA   = "coinpulse/1.0"
	redditPostsPerSub = 40
)

// RedditSource treats hot posts from crypto subreddits as raw documents.
// Self-text becomes the body; link posts still carry sentiment in the title.
type RedditSource struct {
	client     *http.Client
	tracer     trace.Tracer
	limiter    *RateLimiter
	baseURL    string
	userAgent  string
	subreddits []string
}

func NewRedditSource(tracer trace.Tracer, subreddits []string) *RedditSource {
	cleaned := make([]string, 0, len(subreddits))
	for _, s := range subreddits {
		s = strings.TrimSpace(strings.TrimPrefix(s, "r/"))
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return &RedditSource{
		client:     &http.Client{Timeout: 20 * time.Second},
		tracer:     tracer,
		limiter:    NewRateLimiter(2, time.Second),
		baseURL:    redditBaseURL,
		userAgent:  defaultRedditUA,
		subreddits: cleaned,
	}
}

func (s *RedditSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	ctx, span := s.tracer.Start(ctx, "reddit.fetch-articles")
	defer span.End()

	if len(s.subreddits) == 0 {
		return nil, fmt.Errorf("no subreddits configured")
	}

	var out []domain.RawArticle
	for _, subreddit := range s.subreddits {
		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}
		posts, err := s.fetchHot(ctx, subreddit)
		if err != nil {
			log.Printf("reddit r/%s failed: %v", subreddit, err)
			continue
		}
		out = append(out, posts...)
	}
	return out, nil
}

func (s *RedditSource) fetchHot(ctx context.Context, subreddit string) ([]domain.RawArticle, error) {
	base := strings.TrimRight(s.baseURL, "/")
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, url.PathEscape(subreddit), redditPostsPerSub)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					ID         string  `json:"id"`
					Subreddit  string  `json:"subreddit"`
					Title      string  `json:"title"`
					SelfText   string  `json:"selftext"`
					CreatedUTC float64 `json:"created_utc"`
					Permalink  string  `json:"permalink"`
					URL        string  `json:"url"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reddit response: %w", err)
	}

	out := make([]domain.RawArticle, 0, len(payload.Data.Children))
	for _, row := range payload.Data.Children {
		data := row.Data
		title := sanitizeText(data.Title, 300)
		if strings.TrimSpace(data.ID) == "" || title == "" {
			continue
		}
		postURL := sanitizeText(data.URL, 500)
		if permalink := strings.TrimSpace(data.Permalink); permalink != "" {
			postURL = base + permalink
		}
		out = append(out, domain.RawArticle{
			Title:       title,
			Body:        sanitizeText(data.SelfText, 2000),
			URL:         postURL,
			PublishedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
			Source:      "r/" + sanitizeText(data.Subreddit, 120),
		})
	}
	return out, nil
}
