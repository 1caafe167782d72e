package parser

import (
	"sort"
	"strconv"
	"strings"

	"voiceorder/internal/model"
)

// span marks one located entity inside the original transcript.
type span struct {
	start, end int
	kind       model.EntityKind
	confidence float64
}

// Highlight re-locates the extracted entities of a parsed order inside the
// original, non-normalized transcript and emits an ordered, gap-free segment
// sequence. Concatenating the segment texts always reproduces the transcript
// exactly; entities that cannot be located are simply not annotated.
func Highlight(transcript string, order *model.ParsedOrder) []model.TranscriptSegment {
	if order == nil || transcript == "" {
		return []model.TranscriptSegment{{Text: transcript}}
	}
	lower := strings.ToLower(transcript)

	var spans []span
	if order.CustomerName != "" && order.CustomerConfidence > 0 {
		if s, e, ok := findFold(lower, order.CustomerName, 0); ok {
			spans = append(spans, span{s, e, model.EntityCustomer, order.CustomerConfidence})
		}
	}

	// Quantity search is anchored at the literal word "quantità" when it
	// appears, so a digit that is part of an article code earlier in the
	// transcript is not picked up by mistake.
	qtyAnchor := strings.Index(lower, "quantità")
	if qtyAnchor < 0 {
		qtyAnchor = 0
	}

	for _, item := range order.Items {
		if item.ArticleCode != "" && item.CodeConfidence > 0 {
			if s, e, ok := findCode(lower, item.ArticleCode); ok {
				spans = append(spans, span{s, e, model.EntityArticle, item.CodeConfidence})
			}
		}
		if item.QuantityConfidence > 0 {
			if s, e, ok := findFold(lower, strconv.Itoa(item.Quantity), qtyAnchor); ok {
				spans = append(spans, span{s, e, model.EntityQuantity, item.QuantityConfidence})
			}
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	segments := make([]model.TranscriptSegment, 0, 2*len(spans)+1)
	cursor := 0
	for _, sp := range spans {
		if sp.start < cursor {
			// Overlapping spans are undefined behavior; keep the round-trip
			// invariant by dropping the later one.
			continue
		}
		if sp.start > cursor {
			segments = append(segments, model.TranscriptSegment{Text: transcript[cursor:sp.start]})
		}
		segments = append(segments, model.TranscriptSegment{
			Text:       transcript[sp.start:sp.end],
			Entity:     sp.kind,
			Confidence: sp.confidence,
		})
		cursor = sp.end
	}
	if cursor < len(transcript) {
		segments = append(segments, model.TranscriptSegment{Text: transcript[cursor:]})
	}
	if len(segments) == 0 {
		segments = append(segments, model.TranscriptSegment{Text: transcript})
	}
	return segments
}

// findFold finds the first case-insensitive occurrence of needle in the
// lowercased transcript, starting at from. Offsets are byte offsets into the
// original transcript.
func findFold(lower, needle string, from int) (start, end int, ok bool) {
	if needle == "" || from > len(lower) {
		return 0, 0, false
	}
	idx := strings.Index(lower[from:], strings.ToLower(needle))
	if idx < 0 {
		return 0, 0, false
	}
	start = from + idx
	return start, start + len(needle), true
}

// findCode locates a normalized article code in the raw transcript. Speech
// renders dot-delimited codes as spaced or spoken-out segments, so the dotted
// form, the space-separated form and the "punto"-spoken form are tried in
// that order.
func findCode(lower, code string) (start, end int, ok bool) {
	for _, variant := range []string{
		code,
		strings.ReplaceAll(code, ".", " "),
		strings.ReplaceAll(code, ".", " punto "),
	} {
		if s, e, found := findFold(lower, variant, 0); found {
			return s, e, true
		}
	}
	return 0, 0, false
}
