package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"coinpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const rssMaxItemsPerFeed = 40

// RSSSource pulls raw documents from a set of RSS feeds. It is the keyless
// alternative to the NewsAPI source; feeds are fetched sequentially through a
// shared rate limiter. One broken feed logs and moves on rather than failing
// the whole cycle.
type RSSSource struct {
	client   *http.Client
	tracer   trace.Tracer
	limiter  *RateLimiter
	feedURLs []string
}

func NewRSSSource(tracer trace.Tracer, feedURLs []string) *RSSSource {
	cleaned := make([]string, 0, len(feedURLs))
	for _, u := range feedURLs {
		u = strings.TrimSpace(u)
		if u != "" {
			cleaned = append(cleaned, u)
		}
	}
	return &RSSSource{
		client:   &http.Client{Timeout: 20 * time.Second},
		tracer:   tracer,
		limiter:  NewRateLimiter(4, time.Second),
		feedURLs: cleaned,
	}
}

func (s *RSSSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	ctx, span := s.tracer.Start(ctx, "rss.fetch-articles")
	defer span.End()

	if len(s.feedURLs) == 0 {
		return nil, fmt.Errorf("no rss feeds configured")
	}

	var out []domain.RawArticle
	for _, feedURL := range s.feedURLs {
		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			log.Printf("rss feed %s failed: %v", feedURL, err)
			continue
		}
		out = append(out, items...)
	}
	return out, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string) ([]domain.RawArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				Description string `xml:"description"`
				PubDate     string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	source := sanitizeText(rss.Channel.Title, 120)
	out := make([]domain.RawArticle, 0, len(rss.Channel.Items))
	for i, row := range rss.Channel.Items {
		if i >= rssMaxItemsPerFeed {
			break
		}
		title := sanitizeText(row.Title, 300)
		url := sanitizeText(row.Link, 500)
		if title == "" || url == "" {
			continue
		}
		out = append(out, domain.RawArticle{
			Title:       title,
			Body:        sanitizeText(htmlStrip(row.Description), 2000),
			URL:         url,
			PublishedAt: parseRSSDate(row.PubDate),
			Source:      source,
		})
	}
	return out, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
