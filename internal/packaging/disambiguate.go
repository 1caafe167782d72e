// Package packaging resolves how a requested quantity maps onto the discrete
// package sizes a product is sold in.
package packaging

import (
	"sort"

	"voiceorder/internal/model"
)

// Result is the outcome of one disambiguation call. NeedsDisambiguation is
// true iff more than one viable solution exists; the caller must then ask
// the user to choose instead of silently picking one.
type Result struct {
	NeedsDisambiguation bool                    `json:"needs_disambiguation"`
	Solutions           []model.PackageSolution `json:"solutions"`
}

// Disambiguate enumerates the viable packaging breakdowns for quantity given
// the product's package variants, ordered by descending package size.
//
// Two kinds of solutions are considered: the largest single variant that
// evenly divides the quantity, and a mixed pair of the largest and the
// smallest variant. Combinations across three or more variants are
// deliberately not explored; widening the search would change which
// breakdowns users are offered.
func Disambiguate(quantity int, variants []model.PackageVariant) Result {
	if quantity <= 0 || len(variants) == 0 {
		return Result{}
	}

	ordered := append([]model.PackageVariant(nil), variants...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MultipleQty > ordered[j].MultipleQty
	})

	var solutions []model.PackageSolution

	// Largest evenly-dividing single variant; first hit wins.
	for _, v := range ordered {
		if v.MultipleQty <= 0 || quantity%v.MultipleQty != 0 {
			continue
		}
		count := quantity / v.MultipleQty
		solutions = append(solutions, model.PackageSolution{
			TotalPackages: count,
			Breakdown: []model.PackageCount{
				{VariantID: v.ID, PackageContent: v.PackageContent, Count: count},
			},
		})
		break
	}

	// Mixed pair: fill with the largest variant, cover the remainder with
	// the smallest one.
	if len(ordered) >= 2 {
		large, small := ordered[0], ordered[len(ordered)-1]
		if large.MultipleQty > 0 && small.MultipleQty > 0 {
			largeCount := quantity / large.MultipleQty
			remainder := quantity % large.MultipleQty
			if remainder > 0 && largeCount > 0 && remainder%small.MultipleQty == 0 {
				smallCount := remainder / small.MultipleQty
				solutions = append(solutions, model.PackageSolution{
					TotalPackages: largeCount + smallCount,
					Breakdown: []model.PackageCount{
						{VariantID: large.ID, PackageContent: large.PackageContent, Count: largeCount},
						{VariantID: small.ID, PackageContent: small.PackageContent, Count: smallCount},
					},
				})
			}
		}
	}

	if len(solutions) == 0 {
		return Result{}
	}

	minTotal := solutions[0].TotalPackages
	for _, s := range solutions[1:] {
		if s.TotalPackages < minTotal {
			minTotal = s.TotalPackages
		}
	}
	for i := range solutions {
		solutions[i].IsOptimal = solutions[i].TotalPackages == minTotal
	}
	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].TotalPackages < solutions[j].TotalPackages
	})

	return Result{
		NeedsDisambiguation: len(solutions) > 1,
		Solutions:           solutions,
	}
}
