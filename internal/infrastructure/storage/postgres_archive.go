package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/ports"
)

// PostgresArchive records posted articles for audit. It is optional; the
// core state lives in the JSON file store.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Archive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// RecordPosted upserts the posted-article snapshot.
func (r *PostgresArchive) RecordPosted(ctx context.Context, article domain.Article, postIDs []string) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("posted_articles").
		Columns("external_id", "title", "url", "source", "published_at", "post_ids", "posted_at").
		Values(article.ID, article.Title, article.URL, article.Source,
			nullableTime(article), pq.StringArray(postIDs), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (external_id) DO UPDATE SET post_ids = EXCLUDED.post_ids, posted_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build archive insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("archive posted article: %w", err)
	}

	return nil
}

func nullableTime(article domain.Article) any {
	if !article.HasPublishedAt() {
		return nil
	}
	return article.PublishedAt
}
