package validate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"voiceorder/internal/model"
	"voiceorder/internal/packaging"
)

// VariantSource supplies the packaging variants of a resolved article,
// ordered by descending package size. Implemented by the catalog store.
type VariantSource interface {
	VariantsForArticle(ctx context.Context, articleID string) ([]model.PackageVariant, error)
}

// VariantSourceFunc adapts a function to the VariantSource interface.
type VariantSourceFunc func(ctx context.Context, articleID string) ([]model.PackageVariant, error)

// VariantsForArticle implements VariantSource.
func (f VariantSourceFunc) VariantsForArticle(ctx context.Context, articleID string) ([]model.PackageVariant, error) {
	return f(ctx, articleID)
}

// Order validates every entity of a parsed order: the customer name and each
// item's article code are looked up concurrently, confidences and error
// strings are attached, and items whose resolved product comes in multiple
// package variants are marked for disambiguation.
//
// The input order is never mutated; the returned validation carries an
// enriched copy. A nil variants source skips the packaging step.
func (v *Validator) Order(ctx context.Context, in *model.ParsedOrder, variants VariantSource) *model.OrderValidation {
	out := in.Clone()
	result := &model.OrderValidation{
		Order:    out,
		Articles: make([]model.MatchResult, len(out.Items)),
	}

	g, gctx := errgroup.WithContext(ctx)

	if out.CustomerName != "" {
		g.Go(func() error {
			m := v.Customer(gctx, out.CustomerName)
			result.Customer = &m
			return nil
		})
	}

	for i := range out.Items {
		g.Go(func() error {
			m := v.Article(gctx, out.Items[i].ArticleCode)
			result.Articles[i] = m
			return nil
		})
	}

	// Lookups never fail (failures are not_found values), so Wait only
	// orders the goroutines.
	_ = g.Wait()

	if result.Customer != nil {
		out.CustomerConfidence = result.Customer.Confidence
		if result.Customer.Type == model.MatchNotFound {
			out.CustomerConfidence = 0
		}
	}

	for i := range out.Items {
		item := &out.Items[i]
		match := result.Articles[i]
		item.CodeConfidence = match.Confidence
		if match.Message != "" {
			item.Errors = append(item.Errors, match.Message)
		}
		if !match.Resolved() || variants == nil {
			continue
		}

		vs, err := variants.VariantsForArticle(ctx, match.Entity.ID)
		if err != nil || len(vs) < 2 {
			continue
		}
		pr := packaging.Disambiguate(item.Quantity, vs)
		item.NeedsDisambiguation = pr.NeedsDisambiguation
		item.PackageSolutions = pr.Solutions
	}

	return result
}
