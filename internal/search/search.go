// Package search talks to the external catalog fuzzy-search service. The
// core only depends on the narrow Searcher contract so tests can swap in a
// deterministic stub.
package search

import (
	"context"

	"voiceorder/internal/model"
)

// Searcher returns ranked candidates for a free-text query, best first,
// capped at limit. Implementations must not reorder what the service
// returned.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.Candidate, error)
}

// Func adapts a plain function to the Searcher interface.
type Func func(ctx context.Context, query string, limit int) ([]model.Candidate, error)

// Search implements Searcher.
func (f Func) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	return f(ctx, query, limit)
}
