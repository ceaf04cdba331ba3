package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"coinpulse/internal/domain"
)

func sampleSummaries() map[string]domain.AssetSentimentSummary {
	return map[string]domain.AssetSentimentSummary{
		"bitcoin": {
			Asset: "bitcoin", AverageSentiment: 0.62, ArticleCount: 4,
			PositiveCount: 3, NeutralCount: 1, MaxSentiment: 0.9, MinSentiment: 0.1,
		},
		"ethereum": {
			Asset: "ethereum", AverageSentiment: -0.4, ArticleCount: 2,
			NegativeCount: 2, MaxSentiment: -0.2, MinSentiment: -0.6,
		},
		"solana": {
			Asset: "solana", AverageSentiment: 0.05, ArticleCount: 1,
			NeutralCount: 1, MaxSentiment: 0.05, MinSentiment: 0.05,
		},
	}
}

func TestBuildReportOrdersByAverage(t *testing.T) {
	out := BuildReport(sampleSummaries(), time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	btc := strings.Index(out, "BITCOIN")
	sol := strings.Index(out, "SOLANA")
	eth := strings.Index(out, "ETHEREUM")
	if btc < 0 || sol < 0 || eth < 0 {
		t.Fatalf("missing assets in report:\n%s", out)
	}
	if !(btc < sol && sol < eth) {
		t.Fatalf("expected strongest average first:\n%s", out)
	}

	if !strings.Contains(out, "BITCOIN: BULLISH") {
		t.Fatalf("expected bullish label:\n%s", out)
	}
	if !strings.Contains(out, "ETHEREUM: BEARISH") {
		t.Fatalf("expected bearish label:\n%s", out)
	}
	if !strings.Contains(out, "SOLANA: NEUTRAL") {
		t.Fatalf("expected neutral label:\n%s", out)
	}
	if !strings.Contains(out, "2026-08-30T12:00:00Z") {
		t.Fatalf("expected generation timestamp:\n%s", out)
	}
}

func TestBuildReportEmptyWindow(t *testing.T) {
	out := BuildReport(nil, time.Now())
	if !strings.Contains(out, "No articles in window.") {
		t.Fatalf("expected empty-window message:\n%s", out)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{ID: 1, Title: "t", URL: "https://example.com/a", SentimentScore: 0.5},
	}

	artifacts, err := WriteArtifacts(dir, sampleSummaries(), articles, generatedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, p := range []string{artifacts.SummaryPath, artifacts.ArticlesPath, artifacts.ReportPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected artifact %s: %v", p, err)
		}
		if !strings.Contains(p, "20260830_120000") {
			t.Fatalf("expected timestamped filename, got %s", p)
		}
	}

	data, err := os.ReadFile(artifacts.SummaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var decoded map[string]domain.AssetSentimentSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("summary artifact is not valid json: %v", err)
	}
	if decoded["bitcoin"].ArticleCount != 4 {
		t.Fatalf("unexpected summary content: %+v", decoded)
	}

	reportText, err := os.ReadFile(artifacts.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(reportText), "Market Sentiment Report") {
		t.Fatalf("unexpected report content:\n%s", reportText)
	}
}

func TestWriteArtifactsCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"
	if _, err := WriteArtifacts(dir, nil, nil, time.Now()); err != nil {
		t.Fatalf("expected nested dir to be created: %v", err)
	}
}
