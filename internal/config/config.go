package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string

	OpenAIAPIKey string
	OpenAIModel  string

	NewsAPIKey       string
	NewsQuery        string
	NewsPageSize     int
	RSSFeedURLs      []string
	RedditSubreddits []string

	MonitorPollSecs     int
	SummaryWindowDays   int
	SummaryCacheTTLSecs int
	ReportOutputDir     string

	HTTPPort       int
	SSHPort        int
	SSHHostKeyPath string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		NewsAPIKey:       os.Getenv("NEWS_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram reports disabled")
	}
	for _, u := range strings.Split(os.Getenv("RSS_FEED_URLS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.RSSFeedURLs = append(cfg.RSSFeedURLs, u)
		}
	}
	for _, s := range strings.Split(os.Getenv("REDDIT_SUBREDDITS"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.RedditSubreddits = append(cfg.RedditSubreddits, s)
		}
	}
	if cfg.NewsAPIKey == "" && len(cfg.RSSFeedURLs) == 0 && len(cfg.RedditSubreddits) == 0 {
		log.Println("Warning: no news source configured, using built-in sample articles")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.NewsQuery = strings.TrimSpace(os.Getenv("NEWS_QUERY"))
	if cfg.NewsQuery == "" {
		cfg.NewsQuery = "cryptocurrency OR bitcoin OR ethereum"
	}

	cfg.NewsPageSize = 50
	if v := strings.TrimSpace(os.Getenv("NEWS_PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			cfg.NewsPageSize = n
		}
	}

	cfg.MonitorPollSecs = 900
	if v := strings.TrimSpace(os.Getenv("MONITOR_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MonitorPollSecs = n
		}
	}

	cfg.SummaryWindowDays = 7
	if v := strings.TrimSpace(os.Getenv("SUMMARY_WINDOW_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SummaryWindowDays = n
		}
	}

	cfg.SummaryCacheTTLSecs = 60
	if v := strings.TrimSpace(os.Getenv("SUMMARY_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SummaryCacheTTLSecs = n
		}
	}

	cfg.ReportOutputDir = strings.TrimSpace(os.Getenv("REPORT_OUTPUT_DIR"))
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "."
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/coinpulse_ed25519"
	}

	return cfg
}
