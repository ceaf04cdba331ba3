package news

import (
	"time"

	"coinpulse/internal/domain"
)

// Polarity bucket thresholds. Scores exactly on a boundary count as neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Window computes the inclusive [from, to] aggregation window ending at now.
func Window(windowDays int, now time.Time) (time.Time, time.Time) {
	to := now.UTC()
	from := to.AddDate(0, 0, -windowDays)
	return from, to
}

// Aggregate computes per-asset summary statistics over the given documents.
// A document mentioning N assets contributes its score to all N groups.
// Assets without samples are absent from the result; an empty map is a normal
// outcome for a quiet window.
func Aggregate(articles []domain.Article) map[string]domain.AssetSentimentSummary {
	samples := make(map[string][]float64)
	for _, article := range articles {
		for _, asset := range article.MentionedAssets {
			if asset == "" {
				continue
			}
			samples[asset] = append(samples[asset], article.SentimentScore)
		}
	}

	out := make(map[string]domain.AssetSentimentSummary, len(samples))
	for asset, scores := range samples {
		if len(scores) == 0 {
			continue
		}

		summary := domain.AssetSentimentSummary{
			Asset:        asset,
			ArticleCount: len(scores),
			MaxSentiment: scores[0],
			MinSentiment: scores[0],
		}

		sum := 0.0
		for _, score := range scores {
			sum += score
			if score > summary.MaxSentiment {
				summary.MaxSentiment = score
			}
			if score < summary.MinSentiment {
				summary.MinSentiment = score
			}
			switch {
			case score > positiveThreshold:
				summary.PositiveCount++
			case score < negativeThreshold:
				summary.NegativeCount++
			default:
				summary.NeutralCount++
			}
		}
		summary.AverageSentiment = sum / float64(len(scores))
		out[asset] = summary
	}
	return out
}
