package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorder/internal/model"
)

func joinSegments(segments []model.TranscriptSegment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func segmentFor(t *testing.T, segments []model.TranscriptSegment, kind model.EntityKind) model.TranscriptSegment {
	t.Helper()
	for _, s := range segments {
		if s.Entity == kind {
			return s
		}
	}
	t.Fatalf("no %q segment in %v", kind, segments)
	return model.TranscriptSegment{}
}

func TestHighlight_AnnotatesEntities(t *testing.T) {
	transcript := "Cliente Mario Rossi, articolo SF1000 quantità 5"
	order := ParseTranscript(transcript)

	segments := Highlight(transcript, order)

	customer := segmentFor(t, segments, model.EntityCustomer)
	assert.Equal(t, "Mario Rossi", customer.Text)
	assert.InDelta(t, 0.9, customer.Confidence, 1e-9)

	article := segmentFor(t, segments, model.EntityArticle)
	assert.Equal(t, "SF1000", article.Text)

	quantity := segmentFor(t, segments, model.EntityQuantity)
	assert.Equal(t, "5", quantity.Text)
}

func TestHighlight_RoundTripReproducesTranscript(t *testing.T) {
	transcripts := []string{
		"Cliente Mario Rossi, articolo SF1000 quantità 5",
		"articolo H71 104 032 quantità 5",
		"codice cliente ab123 nome cliente Mario Rossi, articolo SF1000 quantità 2",
		"cliente Mario Rossi, articolo SF1000 quantità 5, poi H71 104 032 3 pezzi",
		"qualcosa che non è un ordine",
		"",
	}
	for _, transcript := range transcripts {
		order := ParseTranscript(transcript)
		segments := Highlight(transcript, order)
		assert.Equal(t, transcript, joinSegments(segments), "transcript %q", transcript)
	}
}

func TestHighlight_SpacedCodeLocatedInRawForm(t *testing.T) {
	transcript := "articolo H71 104 032 quantità 5"
	order := ParseTranscript(transcript)
	require.Len(t, order.Items, 1)
	require.Equal(t, "H71.104.032", order.Items[0].ArticleCode)

	segments := Highlight(transcript, order)

	article := segmentFor(t, segments, model.EntityArticle)
	assert.Equal(t, "H71 104 032", article.Text)
}

func TestHighlight_SpokenDotCodeLocated(t *testing.T) {
	transcript := "articolo 845 punto 104 punto 023 quantità 10"
	order := ParseTranscript(transcript)
	require.Len(t, order.Items, 1)

	segments := Highlight(transcript, order)

	article := segmentFor(t, segments, model.EntityArticle)
	assert.Equal(t, "845 punto 104 punto 023", article.Text)
	assert.Equal(t, transcript, joinSegments(segments))
}

func TestHighlight_QuantityAnchoredAfterKeyword(t *testing.T) {
	// The code contains a 5; the quantity 5 after "quantità" must be the
	// annotated one.
	transcript := "articolo SF5000 quantità 5"
	order := ParseTranscript(transcript)

	segments := Highlight(transcript, order)
	assert.Equal(t, transcript, joinSegments(segments))

	quantity := segmentFor(t, segments, model.EntityQuantity)
	assert.Equal(t, "5", quantity.Text)

	// The quantity segment must sit after the word "quantità".
	offset := 0
	for _, s := range segments {
		if s.Entity == model.EntityQuantity {
			break
		}
		offset += len(s.Text)
	}
	assert.Greater(t, offset, strings.Index(transcript, "quantità"))
}

func TestHighlight_NoOrder(t *testing.T) {
	segments := Highlight("testo qualsiasi", nil)
	require.Len(t, segments, 1)
	assert.Equal(t, "testo qualsiasi", segments[0].Text)
	assert.Equal(t, model.EntityNone, segments[0].Entity)
}

func TestHighlight_DefaultedQuantityNotAnnotated(t *testing.T) {
	transcript := "articolo SF1000"
	order := ParseTranscript(transcript)

	segments := Highlight(transcript, order)
	assert.Equal(t, transcript, joinSegments(segments))
	for _, s := range segments {
		assert.NotEqual(t, model.EntityQuantity, s.Entity)
	}
}
