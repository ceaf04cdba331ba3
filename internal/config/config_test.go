package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("NEWS_QUERY", "")
	t.Setenv("NEWS_PAGE_SIZE", "")
	t.Setenv("RSS_FEED_URLS", "")
	t.Setenv("REDDIT_SUBREDDITS", "")
	t.Setenv("MONITOR_POLL_SECS", "")
	t.Setenv("SUMMARY_WINDOW_DAYS", "")
	t.Setenv("SUMMARY_CACHE_TTL_SECS", "")
	t.Setenv("REPORT_OUTPUT_DIR", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SSH_PORT", "")
	t.Setenv("SSH_HOST_KEY_PATH", "")

	cfg := Load()

	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
	if cfg.NewsQuery != "cryptocurrency OR bitcoin OR ethereum" {
		t.Fatalf("expected default query, got %s", cfg.NewsQuery)
	}
	if cfg.NewsPageSize != 50 {
		t.Fatalf("expected default page size, got %d", cfg.NewsPageSize)
	}
	if cfg.MonitorPollSecs != 900 {
		t.Fatalf("expected default poll interval, got %d", cfg.MonitorPollSecs)
	}
	if cfg.SummaryWindowDays != 7 {
		t.Fatalf("expected default window, got %d", cfg.SummaryWindowDays)
	}
	if cfg.SummaryCacheTTLSecs != 60 {
		t.Fatalf("expected default cache ttl, got %d", cfg.SummaryCacheTTLSecs)
	}
	if cfg.ReportOutputDir != "." {
		t.Fatalf("expected default report dir, got %s", cfg.ReportOutputDir)
	}
	if cfg.HTTPPort != 8080 || cfg.SSHPort != 2222 {
		t.Fatalf("expected default ports, got %d/%d", cfg.HTTPPort, cfg.SSHPort)
	}
	if cfg.SSHHostKeyPath != ".ssh/coinpulse_ed25519" {
		t.Fatalf("expected default host key path, got %s", cfg.SSHHostKeyPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coinpulse")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("NEWS_QUERY", "solana")
	t.Setenv("NEWS_PAGE_SIZE", "25")
	t.Setenv("MONITOR_POLL_SECS", "120")
	t.Setenv("SUMMARY_WINDOW_DAYS", "3")
	t.Setenv("SUMMARY_CACHE_TTL_SECS", "30")
	t.Setenv("REPORT_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("HTTP_PORT", "9090")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://localhost/coinpulse" {
		t.Fatalf("unexpected database url: %s", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://cache:6379" {
		t.Fatalf("unexpected redis url: %s", cfg.RedisURL)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.OpenAIModel)
	}
	if cfg.NewsQuery != "solana" {
		t.Fatalf("unexpected query: %s", cfg.NewsQuery)
	}
	if cfg.NewsPageSize != 25 {
		t.Fatalf("unexpected page size: %d", cfg.NewsPageSize)
	}
	if cfg.MonitorPollSecs != 120 {
		t.Fatalf("unexpected poll interval: %d", cfg.MonitorPollSecs)
	}
	if cfg.SummaryWindowDays != 3 {
		t.Fatalf("unexpected window: %d", cfg.SummaryWindowDays)
	}
	if cfg.SummaryCacheTTLSecs != 30 {
		t.Fatalf("unexpected cache ttl: %d", cfg.SummaryCacheTTLSecs)
	}
	if cfg.ReportOutputDir != "/tmp/reports" {
		t.Fatalf("unexpected report dir: %s", cfg.ReportOutputDir)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("unexpected http port: %d", cfg.HTTPPort)
	}
}

func TestLoadSourceLists(t *testing.T) {
	t.Setenv("RSS_FEED_URLS", "https://a.example/feed, https://b.example/rss ,")
	t.Setenv("REDDIT_SUBREDDITS", " CryptoCurrency ,Bitcoin")

	cfg := Load()

	if len(cfg.RSSFeedURLs) != 2 || cfg.RSSFeedURLs[1] != "https://b.example/rss" {
		t.Fatalf("unexpected feed urls: %v", cfg.RSSFeedURLs)
	}
	if len(cfg.RedditSubreddits) != 2 || cfg.RedditSubreddits[0] != "CryptoCurrency" {
		t.Fatalf("unexpected subreddits: %v", cfg.RedditSubreddits)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("NEWS_PAGE_SIZE", "nope")
	t.Setenv("MONITOR_POLL_SECS", "-5")
	t.Setenv("HTTP_PORT", "0")

	cfg := Load()

	if cfg.NewsPageSize != 50 {
		t.Fatalf("expected fallback page size, got %d", cfg.NewsPageSize)
	}
	if cfg.MonitorPollSecs != 900 {
		t.Fatalf("expected fallback poll interval, got %d", cfg.MonitorPollSecs)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected fallback port, got %d", cfg.HTTPPort)
	}
}

func TestLoadPageSizeCap(t *testing.T) {
	t.Setenv("NEWS_PAGE_SIZE", "500")
	cfg := Load()
	if cfg.NewsPageSize != 50 {
		t.Fatalf("expected page size above cap to fall back, got %d", cfg.NewsPageSize)
	}
}
