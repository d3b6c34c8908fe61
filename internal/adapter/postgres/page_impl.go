package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	seed        TEXT NOT NULL,
	mode        TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	variant     TEXT NOT NULL DEFAULT '',
	html        TEXT NOT NULL,
	entropy     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pages_created_at_idx ON pages (created_at DESC);
`

// PageRepoImpl stores pages in PostgreSQL. Rows are insert-only.
type PageRepoImpl struct {
	db *pgxpool.Pool
}

var _ repository.PageRepository = (*PageRepoImpl)(nil)

func NewPageRepo(db *pgxpool.Pool) *PageRepoImpl {
	return &PageRepoImpl{db: db}
}

// EnsureSchema creates the pages table if it is missing.
func (r *PageRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Save inserts a page. An existing row with the same ID is left untouched and
// reported as ErrPageExists.
func (r *PageRepoImpl) Save(ctx context.Context, page *entity.StoredPage) error {
	entropyJSON, err := json.Marshal(page.Entropy)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pages (id, title, description, seed, mode, model, variant, html, entropy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING;
	`
	tag, err := r.db.Exec(ctx, query,
		page.ID,
		page.Title,
		page.Description,
		page.Seed,
		string(page.Mode),
		page.Model,
		page.Variant,
		page.HTML,
		entropyJSON,
		page.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page %s: %w", page.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", repository.ErrPageExists, page.ID)
	}
	return nil
}

// List returns pages newest first.
func (r *PageRepoImpl) List(ctx context.Context, opts entity.ListOptions) ([]*entity.StoredPage, error) {
	query := `
		SELECT id, title, description, seed, mode, model, variant, html, entropy, created_at
		FROM pages
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	pages, err := pgx.CollectRows(rows, scanPage)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepoImpl) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

func scanPage(row pgx.CollectableRow) (*entity.StoredPage, error) {
	var page entity.StoredPage
	var mode string
	var entropyJSON []byte

	err := row.Scan(
		&page.ID,
		&page.Title,
		&page.Description,
		&page.Seed,
		&mode,
		&page.Model,
		&page.Variant,
		&page.HTML,
		&entropyJSON,
		&page.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	page.Mode = entity.Mode(mode)

	if err := json.Unmarshal(entropyJSON, &page.Entropy); err != nil {
		return nil, err
	}
	return &page, nil
}
