package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"voiceorder/internal/db"
	"voiceorder/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

var _ Store = (*PostgresStore)(nil)

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS orders (
	id         UUID PRIMARY KEY,
	transcript TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveOrder(ctx context.Context, transcript string, order *model.ParsedOrder) (*model.SavedOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal order")
	}
	saved := &model.SavedOrder{
		ID:         uuid.NewString(),
		Transcript: transcript,
		Order:      *order.Clone(),
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO orders (id, transcript, payload, created_at) VALUES ($1, $2, $3, $4)`,
		saved.ID, transcript, payload, saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert order")
	}
	return saved, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*model.SavedOrder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, transcript, payload, created_at FROM orders WHERE id = $1`, id)

	var (
		saved   model.SavedOrder
		payload []byte
	)
	err := row.Scan(&saved.ID, &saved.Transcript, &payload, &saved.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get order")
	}
	if err := json.Unmarshal(payload, &saved.Order); err != nil {
		return nil, eris.Wrap(err, "postgres: decode order payload")
	}
	return &saved, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context, limit int) ([]model.SavedOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, transcript, payload, created_at FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list orders")
	}
	defer rows.Close()

	var out []model.SavedOrder
	for rows.Next() {
		var (
			saved   model.SavedOrder
			payload []byte
		)
		if err := rows.Scan(&saved.ID, &saved.Transcript, &payload, &saved.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan order")
		}
		if err := json.Unmarshal(payload, &saved.Order); err != nil {
			return nil, eris.Wrap(err, "postgres: decode order payload")
		}
		out = append(out, saved)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list orders")
}

func (s *PostgresStore) ReplaceVariants(ctx context.Context, entries []model.ArticleVariant) (int, error) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM package_variants`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear variants")
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.ArticleID, e.Variant.ID, e.Variant.PackageContent, e.Variant.MultipleQty})
	}
	n, err := db.CopyRows(ctx, s.pool, "package_variants",
		[]string{"article_id", "variant_id", "package_content", "multiple_qty"}, rows)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PostgresStore) VariantsForArticle(ctx context.Context, articleID string) ([]model.PackageVariant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT variant_id, package_content, multiple_qty FROM package_variants
		 WHERE article_id = $1 ORDER BY multiple_qty DESC`, articleID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: variants")
	}
	defer rows.Close()

	var out []model.PackageVariant
	for rows.Next() {
		var v model.PackageVariant
		if err := rows.Scan(&v.ID, &v.PackageContent, &v.MultipleQty); err != nil {
			return nil, eris.Wrap(err, "postgres: scan variant")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "postgres: variants")
}
