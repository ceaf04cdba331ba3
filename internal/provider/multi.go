package provider

import (
	"context"
	"fmt"
	"log"

	"coinpulse/internal/domain"
)

// ArticleFetcher is the shape every news source in this package shares.
type ArticleFetcher interface {
	FetchArticles(ctx context.Context) ([]domain.RawArticle, error)
}

// MultiSource fans in several news sources. A failing source is logged and
// skipped; the fetch only fails when every source fails and nothing came back.
type MultiSource struct {
	sources []ArticleFetcher
}

func NewMultiSource(sources ...ArticleFetcher) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	if len(m.sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}

	var out []domain.RawArticle
	var lastErr error
	for _, src := range m.sources {
		articles, err := src.FetchArticles(ctx)
		if err != nil {
			log.Printf("news source failed: %v", err)
			lastErr = err
			continue
		}
		out = append(out, articles...)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}
