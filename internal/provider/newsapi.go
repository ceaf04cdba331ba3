package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"coinpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIProvider fetches raw documents from the NewsAPI "everything"
// endpoint. It is a thin I/O shell: no scoring or extraction happens here.
type NewsAPIProvider struct {
	client   *http.Client
	tracer   trace.Tracer
	baseURL  string
	apiKey   string
	query    string
	pageSize int
}

func NewNewsAPIProvider(tracer trace.Tracer, apiKey, query string, pageSize int) *NewsAPIProvider {
	if strings.TrimSpace(query) == "" {
		query = "cryptocurrency OR bitcoin OR ethereum"
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	return &NewsAPIProvider{
		client:   &http.Client{Timeout: 20 * time.Second},
		tracer:   tracer,
		baseURL:  defaultNewsAPIBaseURL,
		apiKey:   strings.TrimSpace(apiKey),
		query:    query,
		pageSize: pageSize,
	}
}

// WithBaseURL points the provider at a different endpoint, used by tests.
func (p *NewsAPIProvider) WithBaseURL(baseURL string) *NewsAPIProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *NewsAPIProvider) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	_, span := p.tracer.Start(ctx, "newsapi.fetch-articles")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("news api key is required")
	}

	params := url.Values{}
	params.Set("q", p.query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(p.pageSize))

	endpoint := p.baseURL + "/everything?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("newsapi fetch error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode newsapi payload: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", payload.Status)
	}

	out := make([]domain.RawArticle, 0, len(payload.Articles))
	for _, row := range payload.Articles {
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		body := sanitizeText(row.Description, 2000)
		if body == "" {
			body = sanitizeText(row.Content, 2000)
		}
		out = append(out, domain.RawArticle{
			Title:       title,
			Body:        body,
			URL:         sanitizeText(row.URL, 500),
			PublishedAt: parsePublishedAt(row.PublishedAt),
			Source:      sanitizeText(row.Source.Name, 120),
		})
	}
	return out, nil
}

func parsePublishedAt(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC3339, time.RFC3339Nano, time.RFC1123Z, time.RFC1123}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func sanitizeText(v string, max int) string {
	v = strings.TrimSpace(strings.Join(strings.Fields(v), " "))
	if max > 0 && len(v) > max {
		// Cut on a rune start so truncation never leaves invalid UTF-8.
		cut := max
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	return v
}
