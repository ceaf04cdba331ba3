package news

import (
	"context"
	"errors"
	"log"
	"time"

	"coinpulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository is the durable document store. Articles are keyed by URL and
// their asset memberships live in a normalized join table so windowed
// aggregation never decodes a serialized collection.
type Repository struct {
	pool   pool
	tracer trace.Tracer
}

func NewRepository(pool pool, tracer trace.Tracer) *Repository {
	return &Repository{pool: pool, tracer: tracer}
}

const createArticlesSchema = `
CREATE TABLE IF NOT EXISTS articles (
    id              BIGSERIAL PRIMARY KEY,
    title           TEXT NOT NULL,
    body            TEXT NOT NULL DEFAULT '',
    url             TEXT NOT NULL UNIQUE,
    published_at    TIMESTAMPTZ NOT NULL,
    source          TEXT NOT NULL DEFAULT '',
    sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at);

CREATE TABLE IF NOT EXISTS article_assets (
    article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    asset      TEXT NOT NULL,
    PRIMARY KEY (article_id, asset)
);

CREATE INDEX IF NOT EXISTS idx_article_assets_asset ON article_assets (asset);
`

func (r *Repository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "news-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createArticlesSchema)
	return err
}

// InsertArticle persists a document and its asset memberships in one
// transaction. A URL that already exists makes the whole call a committed
// no-op reporting OutcomeAlreadyExists. The transaction is committed before
// return, so OutcomeInserted implies the document is durable.
func (r *Repository) InsertArticle(ctx context.Context, article domain.Article) (domain.InsertOutcome, error) {
	_, span := r.tracer.Start(ctx, "news-repo.insert-article")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO articles (title, body, url, published_at, source, sentiment_score)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (url) DO NOTHING
RETURNING id`,
		article.Title,
		article.Body,
		article.URL,
		article.PublishedAt.UTC(),
		article.Source,
		article.SentimentScore,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OutcomeAlreadyExists, nil
	}
	if err != nil {
		return 0, err
	}

	for _, asset := range article.MentionedAssets {
		if asset == "" {
			continue
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO article_assets (article_id, asset)
VALUES ($1, $2)
ON CONFLICT (article_id, asset) DO NOTHING`, id, asset); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return domain.OutcomeInserted, nil
}

// ListWindow returns documents with published_at in [from, to] inclusive that
// mention at least one tracked asset. Rows that fail to decode are skipped so
// one bad row cannot abort aggregation.
func (r *Repository) ListWindow(ctx context.Context, from, to time.Time) ([]domain.Article, error) {
	_, span := r.tracer.Start(ctx, "news-repo.list-window")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.title, a.body, a.url, a.published_at, a.source, a.sentiment_score, a.created_at,
       array_agg(s.asset ORDER BY s.asset)
FROM articles a
JOIN article_assets s ON s.article_id = a.id
WHERE a.published_at >= $1 AND a.published_at <= $2
GROUP BY a.id
ORDER BY a.published_at DESC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		article, err := scanArticleRow(rows)
		if err != nil {
			log.Printf("skipping undecodable article row: %v", err)
			continue
		}
		out = append(out, article)
	}
	return out, rows.Err()
}

// ListRecent returns the newest documents regardless of asset membership,
// for report artifacts and the read API.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	_, span := r.tracer.Start(ctx, "news-repo.list-recent")
	defer span.End()

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.title, a.body, a.url, a.published_at, a.source, a.sentiment_score, a.created_at,
       COALESCE(array_agg(s.asset ORDER BY s.asset) FILTER (WHERE s.asset IS NOT NULL), '{}'::text[])
FROM articles a
LEFT JOIN article_assets s ON s.article_id = a.id
GROUP BY a.id
ORDER BY a.published_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticleRow(rows)
		if err != nil {
			log.Printf("skipping undecodable article row: %v", err)
			continue
		}
		out = append(out, article)
	}
	return out, rows.Err()
}

func (r *Repository) CountArticles(ctx context.Context) (int64, error) {
	_, span := r.tracer.Start(ctx, "news-repo.count-articles")
	defer span.End()

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

func scanArticleRow(s interface{ Scan(dest ...any) error }) (domain.Article, error) {
	var out domain.Article
	var assets []string

	if err := s.Scan(
		&out.ID,
		&out.Title,
		&out.Body,
		&out.URL,
		&out.PublishedAt,
		&out.Source,
		&out.SentimentScore,
		&out.CreatedAt,
		&assets,
	); err != nil {
		return domain.Article{}, err
	}

	out.PublishedAt = out.PublishedAt.UTC()
	out.CreatedAt = out.CreatedAt.UTC()
	out.MentionedAssets = dedupeAssets(assets)
	return out, nil
}

func dedupeAssets(assets []string) []string {
	if len(assets) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(assets))
	out := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset == "" {
			continue
		}
		if _, ok := seen[asset]; ok {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, asset)
	}
	return out
}
