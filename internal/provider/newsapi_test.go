package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("provider-test")
}

func TestFetchArticlesMapsPayload(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "CryptoNews"},
					"title": "  Bitcoin   surges  ",
					"description": "Institutions keep buying.",
					"url": "https://example.com/a",
					"publishedAt": "2026-08-29T10:00:00Z"
				},
				{
					"source": {"name": "NoTitle"},
					"title": "",
					"description": "dropped",
					"url": "https://example.com/b"
				},
				{
					"source": {"name": "ContentOnly"},
					"title": "Fallback body",
					"content": "Body from content field.",
					"url": "https://example.com/c",
					"publishedAt": "not-a-date"
				}
			]
		}`))
	}))
	defer srv.Close()

	p := NewNewsAPIProvider(testTracer(), "secret", "bitcoin", 10).WithBaseURL(srv.URL)

	articles, err := p.FetchArticles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotQuery != "bitcoin" {
		t.Fatalf("expected query param, got %q", gotQuery)
	}
	if len(articles) != 2 {
		t.Fatalf("expected untitled row to be dropped, got %d articles", len(articles))
	}

	first := articles[0]
	if first.Title != "Bitcoin surges" {
		t.Fatalf("expected whitespace collapsed, got %q", first.Title)
	}
	if first.Body != "Institutions keep buying." {
		t.Fatalf("unexpected body: %q", first.Body)
	}
	want := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("expected parsed timestamp, got %v", first.PublishedAt)
	}

	second := articles[1]
	if second.Body != "Body from content field." {
		t.Fatalf("expected content fallback, got %q", second.Body)
	}
	if !second.PublishedAt.IsZero() {
		t.Fatalf("expected unparseable timestamp to be zero, got %v", second.PublishedAt)
	}
}

func TestFetchArticlesRequiresKey(t *testing.T) {
	p := NewNewsAPIProvider(testTracer(), "", "", 0)
	if _, err := p.FetchArticles(context.Background()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestFetchArticlesNonOKStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewNewsAPIProvider(testTracer(), "secret", "", 0).WithBaseURL(srv.URL)
	if _, err := p.FetchArticles(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchArticlesAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","articles":[]}`))
	}))
	defer srv.Close()

	p := NewNewsAPIProvider(testTracer(), "secret", "", 0).WithBaseURL(srv.URL)
	if _, err := p.FetchArticles(context.Background()); err == nil {
		t.Fatal("expected error for api-level error status")
	}
}

func TestParsePublishedAt(t *testing.T) {
	if ts := parsePublishedAt("2026-08-29T10:00:00Z"); ts.IsZero() {
		t.Fatal("expected RFC3339 to parse")
	}
	if ts := parsePublishedAt(""); !ts.IsZero() {
		t.Fatal("expected empty string to yield zero time")
	}
	if ts := parsePublishedAt("yesterday"); !ts.IsZero() {
		t.Fatal("expected junk to yield zero time")
	}
}

func TestSanitizeText(t *testing.T) {
	if got := sanitizeText("  a \n b\t c  ", 0); got != "a b c" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
	if got := sanitizeText("abcdef", 3); got != "abc" {
		t.Fatalf("expected truncation, got %q", got)
	}
}

func TestSanitizeTextTruncatesOnRuneBoundary(t *testing.T) {
	got := sanitizeText(strings.Repeat("é", 200), 301)
	if len(got) > 301 {
		t.Fatalf("expected truncation, got %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8 after truncation, got %q", got)
	}
	if got != strings.Repeat("é", 150) {
		t.Fatalf("expected cut at last whole rune, got %d bytes", len(got))
	}
}
