package provider

import (
	"context"
	"time"

	"coinpulse/internal/domain"
)

// SampleSource serves a small built-in batch of documents so the pipeline can
// run end to end without a news API key.
type SampleSource struct {
	now func() time.Time
}

func NewSampleSource() *SampleSource {
	return &SampleSource{now: time.Now}
}

func (s *SampleSource) FetchArticles(_ context.Context) ([]domain.RawArticle, error) {
	now := s.now().UTC()
	return []domain.RawArticle{
		{
			Title:       "Bitcoin Reaches New All-Time High Amid Institutional Adoption",
			Body:        "Bitcoin continues to surge as more institutions embrace cryptocurrency. The positive market sentiment reflects growing confidence in digital assets.",
			URL:         "https://example.com/bitcoin-ath",
			PublishedAt: now,
			Source:      "CryptoNews",
		},
		{
			Title:       "Ethereum Network Upgrade Causes Mixed Market Reactions",
			Body:        "The latest Ethereum upgrade has received mixed reactions from investors. While some are optimistic, others express concerns about potential issues.",
			URL:         "https://example.com/ethereum-upgrade",
			PublishedAt: now,
			Source:      "BlockchainDaily",
		},
		{
			Title:       "Regulatory Concerns Impact Cryptocurrency Market Sentiment",
			Body:        "New regulatory announcements have caused uncertainty in the crypto market. Investors are showing bearish sentiment amid unclear regulations.",
			URL:         "https://example.com/regulatory-concerns",
			PublishedAt: now,
			Source:      "FinanceToday",
		},
	}, nil
}
