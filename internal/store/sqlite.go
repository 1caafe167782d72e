package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"voiceorder/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	transcript TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS package_variants (
	article_id      TEXT NOT NULL,
	variant_id      TEXT NOT NULL,
	package_content TEXT NOT NULL DEFAULT '',
	multiple_qty    INTEGER NOT NULL,
	PRIMARY KEY (article_id, variant_id)
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_package_variants_article ON package_variants(article_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveOrder(ctx context.Context, transcript string, order *model.ParsedOrder) (*model.SavedOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal order")
	}
	saved := &model.SavedOrder{
		ID:         uuid.NewString(),
		Transcript: transcript,
		Order:      *order.Clone(),
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, transcript, payload, created_at) VALUES (?, ?, ?, ?)`,
		saved.ID, transcript, string(payload), saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert order")
	}
	return saved, nil
}

func (s *SQLiteStore) GetOrder(ctx context.Context, id string) (*model.SavedOrder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, transcript, payload, created_at FROM orders WHERE id = ?`, id)
	saved, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return saved, err
}

func (s *SQLiteStore) ListOrders(ctx context.Context, limit int) ([]model.SavedOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, transcript, payload, created_at FROM orders ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list orders")
	}
	defer rows.Close()

	var out []model.SavedOrder
	for rows.Next() {
		saved, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *saved)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list orders")
}

func (s *SQLiteStore) ReplaceVariants(ctx context.Context, entries []model.ArticleVariant) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM package_variants`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear variants")
	}
	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO package_variants (article_id, variant_id, package_content, multiple_qty) VALUES (?, ?, ?, ?)`,
			e.ArticleID, e.Variant.ID, e.Variant.PackageContent, e.Variant.MultipleQty,
		)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: insert variant")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(entries), nil
}

func (s *SQLiteStore) VariantsForArticle(ctx context.Context, articleID string) ([]model.PackageVariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variant_id, package_content, multiple_qty FROM package_variants
		 WHERE article_id = ? ORDER BY multiple_qty DESC`, articleID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: variants")
	}
	defer rows.Close()

	var out []model.PackageVariant
	for rows.Next() {
		var v model.PackageVariant
		if err := rows.Scan(&v.ID, &v.PackageContent, &v.MultipleQty); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan variant")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: variants")
}

// scanOrder decodes one orders row via the given Scan function.
func scanOrder(scan func(dest ...any) error) (*model.SavedOrder, error) {
	var (
		saved   model.SavedOrder
		payload string
	)
	if err := scan(&saved.ID, &saved.Transcript, &payload, &saved.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "store: scan order")
	}
	if err := json.Unmarshal([]byte(payload), &saved.Order); err != nil {
		return nil, eris.Wrap(err, "store: decode order payload")
	}
	return &saved, nil
}
