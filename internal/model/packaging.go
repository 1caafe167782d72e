package model

// PackageVariant is one sellable packaging configuration of a product.
// Read-only input to the disambiguator; supplied by the variant source
// ordered by descending package size.
type PackageVariant struct {
	ID             string `json:"id"`
	MultipleQty    int    `json:"multipleQty"`
	PackageContent string `json:"packageContent,omitempty"`
}

// ArticleVariant ties a package variant to the article it belongs to,
// as stored in the catalog.
type ArticleVariant struct {
	ArticleID string         `json:"article_id"`
	Variant   PackageVariant `json:"variant"`
}

// PackageCount is one entry of a packaging breakdown.
type PackageCount struct {
	VariantID      string `json:"variant_id"`
	PackageContent string `json:"packageContent,omitempty"`
	Count          int    `json:"count"`
}

// PackageSolution is one way to assemble a requested quantity out of whole
// packages. Counts times package sizes sum exactly to the target quantity.
type PackageSolution struct {
	TotalPackages int            `json:"total_packages"`
	Breakdown     []PackageCount `json:"breakdown"`
	IsOptimal     bool           `json:"is_optimal"`
}
