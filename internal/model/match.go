package model

// MatchType classifies how well a catalog lookup matched a query.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchNormalized  MatchType = "normalized"
	MatchBasePattern MatchType = "base_pattern" // articles only
	MatchFuzzy       MatchType = "fuzzy"
	MatchPhonetic    MatchType = "phonetic" // customers only
	MatchNotFound    MatchType = "not_found"
)

// Candidate is one ranked result from the fuzzy-search collaborator.
// Confidence is an integer percentage (0–100) as returned on the wire.
type Candidate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	PackageContent string `json:"packageContent,omitempty"`
	MultipleQty    int    `json:"multipleQty,omitempty"`
	Confidence     int    `json:"confidence"`
	Reason         string `json:"reason"`
}

// Suggestion is a selectable alternative offered alongside a match result.
type Suggestion struct {
	Code       string    `json:"code"`
	Variant    string    `json:"variant,omitempty"`
	Packaging  string    `json:"packaging,omitempty"`
	Confidence float64   `json:"confidence"`
	Reason     MatchType `json:"reason"`
}

// MatchResult is the outcome of validating an article code or customer name.
// It is a plain value: lookup failures of any kind are expressed as
// MatchNotFound, never as an error.
type MatchResult struct {
	Type        MatchType    `json:"match_type"`
	Confidence  float64      `json:"confidence"`
	Entity      *Candidate   `json:"entity,omitempty"`
	BasePattern string       `json:"base_pattern,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// Resolved reports whether the result carries a usable entity without
// requiring user interaction.
func (m MatchResult) Resolved() bool {
	return m.Entity != nil && (m.Type == MatchExact || m.Type == MatchNormalized || m.Type == MatchPhonetic)
}
