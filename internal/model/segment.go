package model

// EntityKind tags a transcript segment with the entity it represents.
// The empty string marks plain, unannotated text.
type EntityKind string

const (
	EntityNone     EntityKind = ""
	EntityCustomer EntityKind = "customer"
	EntityArticle  EntityKind = "article"
	EntityQuantity EntityKind = "quantity"
	EntityPrice    EntityKind = "price"
)

// TranscriptSegment is one slice of the original transcript, optionally
// annotated with the entity found at that position. The ordered segment
// sequence for a transcript concatenates back to the transcript exactly.
type TranscriptSegment struct {
	Text       string     `json:"text"`
	Entity     EntityKind `json:"entity,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
}
