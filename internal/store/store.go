// Package store persists confirmed orders and the package-variant catalog.
// Two backends exist: SQLite for single-operator setups and Postgres for
// shared deployments.
package store

import (
	"context"

	"voiceorder/internal/model"
)

// Store is the persistence interface of the voiceorder service.
type Store interface {
	// Orders
	SaveOrder(ctx context.Context, transcript string, order *model.ParsedOrder) (*model.SavedOrder, error)
	GetOrder(ctx context.Context, id string) (*model.SavedOrder, error)
	ListOrders(ctx context.Context, limit int) ([]model.SavedOrder, error)

	// Package-variant catalog. VariantsForArticle returns variants ordered
	// by descending package size, as the disambiguator expects.
	ReplaceVariants(ctx context.Context, rows []model.ArticleVariant) (int, error)
	VariantsForArticle(ctx context.Context, articleID string) ([]model.PackageVariant, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
