// Package model defines the shared domain types of the voice order pipeline.
package model

import "time"

// ParsedOrder is the structured result of one normalization+parse pass over a
// transcript. A re-parse always produces a new value; nothing mutates a
// ParsedOrder in place.
type ParsedOrder struct {
	CustomerID         string            `json:"customer_id,omitempty"`
	CustomerName       string            `json:"customer_name,omitempty"`
	CustomerConfidence float64           `json:"customer_confidence,omitempty"`
	Items              []ParsedOrderItem `json:"items"`
}

// ParsedOrderItem is one line item extracted from an item clause.
//
// Quantity 1 is the "unspecified" default, 0 signals an unparseable input.
// A zero confidence means the field was never located in the transcript.
type ParsedOrderItem struct {
	ArticleCode        string  `json:"article_code"`
	Description        string  `json:"description,omitempty"`
	Quantity           int     `json:"quantity"`
	Price              float64 `json:"price,omitempty"`
	CodeConfidence     float64 `json:"code_confidence,omitempty"`
	QuantityConfidence float64 `json:"quantity_confidence,omitempty"`
	PriceConfidence    float64 `json:"price_confidence,omitempty"`

	Errors []string `json:"errors,omitempty"`

	NeedsDisambiguation bool              `json:"needs_disambiguation,omitempty"`
	PackageSolutions    []PackageSolution `json:"package_solutions,omitempty"`
}

// Clone returns a deep copy of the order, so validation can enrich a copy
// without touching the parser's output.
func (o *ParsedOrder) Clone() *ParsedOrder {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = make([]ParsedOrderItem, len(o.Items))
	for i, item := range o.Items {
		out.Items[i] = item
		if len(item.Errors) > 0 {
			out.Items[i].Errors = append([]string(nil), item.Errors...)
		}
		if len(item.PackageSolutions) > 0 {
			out.Items[i].PackageSolutions = append([]PackageSolution(nil), item.PackageSolutions...)
		}
	}
	return &out
}

// SavedOrder is a confirmed order persisted by the store.
type SavedOrder struct {
	ID         string      `json:"id"`
	Transcript string      `json:"transcript"`
	Order      ParsedOrder `json:"order"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderValidation bundles a validated copy of an order with the per-entity
// match results that produced it.
type OrderValidation struct {
	Order    *ParsedOrder  `json:"order"`
	Customer *MatchResult  `json:"customer,omitempty"`
	Articles []MatchResult `json:"articles"`
}
