package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const redditFixture = `{
	"data": {
		"children": [
			{"data": {
				"id": "abc",
				"subreddit": "CryptoCurrency",
				"title": "Bitcoin adoption grows",
				"selftext": "Institutions keep\nbuying.",
				"created_utc": 1787479200,
				"permalink": "/r/CryptoCurrency/comments/abc/post/",
				"url": "https://example.com/external"
			}},
			{"data": {
				"id": "",
				"title": "orphan without id"
			}}
		]
	}
}`

func TestRedditSourceFetchArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/hot.json") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(redditFixture))
	}))
	defer srv.Close()

	s := NewRedditSource(testTracer(), []string{"r/CryptoCurrency"})
	s.baseURL = srv.URL

	articles, err := s.FetchArticles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected post without id to be dropped, got %d", len(articles))
	}

	post := articles[0]
	if post.Title != "Bitcoin adoption grows" {
		t.Fatalf("unexpected title: %q", post.Title)
	}
	if post.Body != "Institutions keep buying." {
		t.Fatalf("expected collapsed selftext, got %q", post.Body)
	}
	if !strings.HasPrefix(post.URL, srv.URL+"/r/CryptoCurrency/comments/") {
		t.Fatalf("expected permalink url, got %q", post.URL)
	}
	if post.Source != "r/CryptoCurrency" {
		t.Fatalf("unexpected source: %q", post.Source)
	}
	if post.PublishedAt.Location() != time.UTC || post.PublishedAt.IsZero() {
		t.Fatalf("expected UTC timestamp, got %v", post.PublishedAt)
	}
}

func TestRedditSourceSkipsBrokenSubreddit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(redditFixture))
	}))
	defer srv.Close()

	s := NewRedditSource(testTracer(), []string{"first", "second"})
	s.baseURL = srv.URL

	articles, err := s.FetchArticles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected second subreddit to survive first failing, got %d", len(articles))
	}
}

func TestRedditSourceRequiresSubreddits(t *testing.T) {
	s := NewRedditSource(testTracer(), nil)
	if _, err := s.FetchArticles(context.Background()); err == nil {
		t.Fatal("expected error without subreddits")
	}
}
