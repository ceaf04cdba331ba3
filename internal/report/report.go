package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"coinpulse/internal/domain"
)

// BuildReport renders a plain-text market sentiment report, strongest
// average first.
func BuildReport(summaries map[string]domain.AssetSentimentSummary, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("=== Market Sentiment Report ===\n")
	fmt.Fprintf(&b, "Generated at: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	if len(summaries) == 0 {
		b.WriteString("No articles in window.\n")
		return b.String()
	}

	ordered := make([]domain.AssetSentimentSummary, 0, len(summaries))
	for _, s := range summaries {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].AverageSentiment != ordered[j].AverageSentiment {
			return ordered[i].AverageSentiment > ordered[j].AverageSentiment
		}
		return ordered[i].Asset < ordered[j].Asset
	})

	for _, s := range ordered {
		fmt.Fprintf(&b, "%s: %s (avg %.3f)\n", strings.ToUpper(s.Asset), domain.SentimentLabel(s.AverageSentiment), s.AverageSentiment)
		fmt.Fprintf(&b, "  articles: %d  positive: %d  negative: %d  neutral: %d\n",
			s.ArticleCount, s.PositiveCount, s.NegativeCount, s.NeutralCount)
		fmt.Fprintf(&b, "  range: [%.3f, %.3f]\n", s.MinSentiment, s.MaxSentiment)
	}

	return b.String()
}

// Artifacts are the files produced by a monitoring run.
type Artifacts struct {
	SummaryPath  string
	ArticlesPath string
	ReportPath   string
}

// WriteArtifacts persists the summary JSON, the article dump and the text
// report under dir, stamped with generatedAt.
func WriteArtifacts(dir string, summaries map[string]domain.AssetSentimentSummary, articles []domain.Article, generatedAt time.Time) (*Artifacts, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	stamp := generatedAt.UTC().Format("20060102_150405")
	out := &Artifacts{
		SummaryPath:  filepath.Join(dir, fmt.Sprintf("sentiment_summary_%s.json", stamp)),
		ArticlesPath: filepath.Join(dir, fmt.Sprintf("articles_%s.json", stamp)),
		ReportPath:   filepath.Join(dir, fmt.Sprintf("sentiment_report_%s.txt", stamp)),
	}

	if err := writeJSON(out.SummaryPath, summaries); err != nil {
		return nil, err
	}
	if err := writeJSON(out.ArticlesPath, articles); err != nil {
		return nil, err
	}
	if err := os.WriteFile(out.ReportPath, []byte(BuildReport(summaries, generatedAt)), 0o644); err != nil {
		return nil, fmt.Errorf("write report %s: %w", out.ReportPath, err)
	}

	return out, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
