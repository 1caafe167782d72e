// Package validate classifies extracted article codes and customer names
// against the catalog fuzzy-search service. Lookup and transport failures are
// ordinary MatchNotFound values; nothing here returns an error to callers.
package validate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voiceorder/internal/model"
	"voiceorder/internal/search"
)

// Classification thresholds, in collaborator percentage points. Fixed policy,
// deliberately not configurable.
const (
	exactThreshold = 95
	fuzzyThreshold = 70

	basePatternConfidence = 0.7

	// Result-count limit passed to the collaborator.
	defaultLimit = 5
)

// Italian user-facing messages.
const (
	msgArticleNotFound   = "Articolo non trovato"
	msgCustomerNotFound  = "Cliente non trovato"
	msgSearchError       = "Errore durante la ricerca"
	msgDidYouMeanArticle = "Articolo non trovato, forse cercavi…"
	msgDidYouMeanCust    = "Cliente non trovato, forse cercavi…"
)

// Validator maps raw article codes and customer names to match-type
// classifications with ranked suggestions. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	articles  search.Searcher
	customers search.Searcher
	limit     int
}

// New creates a Validator over the two search endpoints.
func New(articles, customers search.Searcher) *Validator {
	return &Validator{articles: articles, customers: customers, limit: defaultLimit}
}

// Article validates an article code. Transport or decode failures degrade to
// a not_found result carrying a search-error message.
func (v *Validator) Article(ctx context.Context, code string) model.MatchResult {
	candidates, err := v.articles.Search(ctx, code, v.limit)
	if err != nil {
		zap.L().Warn("article search failed", zap.String("code", code), zap.Error(err))
		return notFound(msgSearchError)
	}
	if len(candidates) == 0 {
		return notFound(msgArticleNotFound)
	}

	top := candidates[0]
	if top.Confidence >= exactThreshold {
		t := model.MatchNormalized
		if top.Reason == "exact" {
			t = model.MatchExact
		}
		return resolved(t, top, candidates[1:])
	}

	// "Right family, wrong variant": evaluated before the generic mid-range
	// branch so a near-miss on the variant segment is reported as such.
	if result, ok := v.basePattern(code, candidates); ok {
		return result
	}

	if top.Confidence >= fuzzyThreshold {
		t := model.MatchFuzzy
		if top.Reason == "normalized" {
			t = model.MatchNormalized
		}
		return resolved(t, top, candidates[1:])
	}

	return model.MatchResult{
		Type:        model.MatchFuzzy,
		Confidence:  pct(top.Confidence),
		Suggestions: suggestions(candidates),
		Message:     msgDidYouMeanArticle,
	}
}

// Customer validates a customer name with the same threshold policy, using
// the phonetic classification in place of the article-only ones.
func (v *Validator) Customer(ctx context.Context, name string) model.MatchResult {
	candidates, err := v.customers.Search(ctx, name, v.limit)
	if err != nil {
		zap.L().Warn("customer search failed", zap.String("name", name), zap.Error(err))
		return notFound(msgSearchError)
	}
	if len(candidates) == 0 {
		return notFound(msgCustomerNotFound)
	}

	top := candidates[0]
	switch {
	case top.Confidence >= exactThreshold:
		t := model.MatchPhonetic
		if top.Reason == "exact" {
			t = model.MatchExact
		}
		return resolved(t, top, candidates[1:])
	case top.Confidence >= fuzzyThreshold:
		return resolved(model.MatchFuzzy, top, candidates[1:])
	default:
		return model.MatchResult{
			Type:        model.MatchFuzzy,
			Confidence:  pct(top.Confidence),
			Suggestions: suggestions(candidates),
			Message:     msgDidYouMeanCust,
		}
	}
}

// basePattern checks whether any candidate shares the requested code's
// two-segment prefix. If so the request names a known product family with an
// unknown variant segment, and every same-family candidate becomes a
// suggestion annotated with its variant and packaging.
func (v *Validator) basePattern(code string, candidates []model.Candidate) (model.MatchResult, bool) {
	segments := strings.Split(code, ".")
	if len(segments) < 2 {
		return model.MatchResult{}, false
	}
	prefix := segments[0] + "." + segments[1]

	var matching []model.Suggestion
	for _, c := range candidates {
		// Prefix must end on a segment boundary: "845.1040.016" is not part
		// of the "845.104" family.
		if c.Name != prefix && !strings.HasPrefix(c.Name, prefix+".") {
			continue
		}
		s := toSuggestion(c)
		s.Variant = strings.TrimPrefix(strings.TrimPrefix(c.Name, prefix), ".")
		s.Reason = model.MatchBasePattern
		matching = append(matching, s)
	}
	if len(matching) == 0 {
		return model.MatchResult{}, false
	}

	requested := strings.Join(segments[2:], ".")
	return model.MatchResult{
		Type:        model.MatchBasePattern,
		Confidence:  basePatternConfidence,
		BasePattern: prefix,
		Suggestions: matching,
		Message:     fmt.Sprintf("Variante %s non trovata per il codice %s", requested, prefix),
	}, true
}

// resolved builds a result that carries the top candidate as its entity and
// the remaining candidates as suggestions.
func resolved(t model.MatchType, top model.Candidate, rest []model.Candidate) model.MatchResult {
	entity := top
	return model.MatchResult{
		Type:        t,
		Confidence:  pct(top.Confidence),
		Entity:      &entity,
		Suggestions: suggestions(rest),
	}
}

func notFound(msg string) model.MatchResult {
	return model.MatchResult{Type: model.MatchNotFound, Message: msg}
}

func suggestions(candidates []model.Candidate) []model.Suggestion {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]model.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toSuggestion(c))
	}
	return out
}

func toSuggestion(c model.Candidate) model.Suggestion {
	return model.Suggestion{
		Code:       c.Name,
		Packaging:  packagingLabel(c),
		Confidence: pct(c.Confidence),
		Reason:     reasonType(c.Reason),
	}
}

// packagingLabel derives the short packaging descriptor shown on suggestion
// chips: the last two characters of the identifier plus the package content,
// "AB - 25pz", falling back to just the identifier part.
func packagingLabel(c model.Candidate) string {
	if len(c.ID) < 2 {
		return ""
	}
	code := c.ID[len(c.ID)-2:]
	if c.PackageContent == "" {
		return code
	}
	return fmt.Sprintf("%s - %spz", code, c.PackageContent)
}

// reasonType maps the collaborator's match-reason tags onto the MatchType
// vocabulary.
func reasonType(reason string) model.MatchType {
	switch reason {
	case "exact":
		return model.MatchExact
	case "normalized":
		return model.MatchNormalized
	case "phonetic":
		return model.MatchPhonetic
	case "base_match":
		return model.MatchBasePattern
	default:
		return model.MatchFuzzy
	}
}

func pct(confidence int) float64 {
	return float64(confidence) / 100
}
