package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"voiceorder/internal/model"
)

// Confidence assigned per extraction pattern. Quantities found through the
// explicit keyword patterns score higher than trailing-number matches; a
// defaulted quantity carries no confidence so the highlighter skips it.
const (
	confCustomerName  = 0.9
	confArticleCode   = 0.8
	confQuantityKwNum = 0.95
	confQuantityNumKw = 0.85
	confQuantityQta   = 0.9
	confPrice         = 0.9
)

var itemTriggers = []string{
	"articolo", "articoli", "aggiungi", "aggiungere",
	"poi", "ancora", "inserisci", "metti",
}

var (
	triggerAlt = strings.Join(itemTriggers, "|")

	reCustomerID = regexp.MustCompile(
		`\b(?:cliente id|codice cliente|id cliente)\s+([a-z0-9]+)\b`)
	reCustomerName = regexp.MustCompile(
		`\b(?:nome cliente|cliente|nome)\s+([a-zàèéìòù][a-zàèéìòù ]*?)(?:,|$|\b(?:` + triggerAlt + `)\b)`)

	reTrigger = regexp.MustCompile(`(?:,\s*)?\b(?:` + triggerAlt + `)\b`)

	reQtyKeywordNumber = regexp.MustCompile(`\b(?:pezzo|pezzi|pz)\s+(\d+)\b`)
	reQtyNumberKeyword = regexp.MustCompile(`\b(\d+)\s*(?:pezzo|pezzi|pz)\b`)
	reQtyQuantita      = regexp.MustCompile(`\bquantità\s+(\d+)\b`)
	rePrice            = regexp.MustCompile(`\bprezzo\s+(\d+(?:[.,]\d+)?)`)

	titleCaser = cases.Title(language.Italian)
)

// Parse segments a normalized transcript into a customer clause and item
// clauses and extracts a structured order from them. Input must already have
// been through Normalize.
func Parse(normalized string) *model.ParsedOrder {
	order := &model.ParsedOrder{Items: []model.ParsedOrderItem{}}

	rest := normalized
	if m := reCustomerID.FindStringSubmatch(rest); m != nil {
		order.CustomerID = strings.ToUpper(m[1])
		// Drop the matched span so the name pattern cannot re-capture "id ...".
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	nameEnd := 0
	if m := reCustomerName.FindStringSubmatchIndex(rest); m != nil {
		name := strings.TrimSpace(rest[m[2]:m[3]])
		if name != "" {
			order.CustomerName = titleCaser.String(name)
			order.CustomerConfidence = confCustomerName
			nameEnd = m[3]
		}
	}

	clauses := itemClauses(rest)
	if len(clauses) == 0 && order.CustomerName != "" {
		// No trigger keyword anywhere: try to salvage a single item from the
		// text right after the customer name.
		if item, ok := extractFallbackItem(rest[nameEnd:]); ok {
			order.Items = append(order.Items, item)
		}
		return order
	}

	for _, clause := range clauses {
		if item, ok := extractItem(clause); ok {
			order.Items = append(order.Items, item)
		}
	}
	return order
}

// itemClauses locates the items region (from the first trigger keyword to the
// end of the text) and splits it at every subsequent trigger keyword.
func itemClauses(s string) []string {
	locs := reTrigger.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	var clauses []string
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		clause := strings.TrimSpace(s[loc[1]:end])
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

// extractItem pulls quantity, article code, optional price and description out
// of one item clause. It reports false when no code-like token remains, in
// which case the clause is dropped.
func extractItem(clause string) (model.ParsedOrderItem, bool) {
	item := model.ParsedOrderItem{Quantity: 1}

	qtyStart := len(clause)

	// Strict priority: "pz N" first, then the LAST "N pz" occurrence (the
	// last match avoids digits that belong to the article code), then
	// "quantità N".
	switch {
	case reQtyKeywordNumber.MatchString(clause):
		m := reQtyKeywordNumber.FindStringSubmatchIndex(clause)
		item.Quantity = atoiOr(clause[m[2]:m[3]], 1)
		item.QuantityConfidence = confQuantityKwNum
		qtyStart = m[0]
	case reQtyNumberKeyword.MatchString(clause):
		all := reQtyNumberKeyword.FindAllStringSubmatchIndex(clause, -1)
		m := all[len(all)-1]
		item.Quantity = atoiOr(clause[m[2]:m[3]], 1)
		item.QuantityConfidence = confQuantityNumKw
		qtyStart = m[0]
	case reQtyQuantita.MatchString(clause):
		m := reQtyQuantita.FindStringSubmatchIndex(clause)
		item.Quantity = atoiOr(clause[m[2]:m[3]], 1)
		item.QuantityConfidence = confQuantityQta
		qtyStart = m[0]
	}

	priceStart := len(clause)
	if m := rePrice.FindStringSubmatchIndex(clause); m != nil {
		raw := strings.Replace(clause[m[2]:m[3]], ",", ".", 1)
		if p, err := strconv.ParseFloat(raw, 64); err == nil {
			item.Price = p
			item.PriceConfidence = confPrice
		}
		priceStart = m[0]
	}

	// Everything before the quantity substring or before a trailing
	// "prezzo ..." clause is code + description material.
	end := qtyStart
	if priceStart < end {
		end = priceStart
	}
	codePart := strings.TrimSpace(strings.Trim(strings.TrimSpace(clause[:end]), ","))

	code, desc := splitCodeDescription(codePart)
	if code == "" {
		return model.ParsedOrderItem{}, false
	}
	item.ArticleCode = code
	item.CodeConfidence = confArticleCode
	if desc != "" {
		item.Description = titleCaser.String(desc)
	}
	return item, true
}

// reFallbackCode shapes a plausible article code for the trigger-less
// fallback: a letter prefix joined to a digit, then code characters.
var reFallbackCode = regexp.MustCompile(`^[a-z]+\d[a-z0-9.]*$`)

// extractFallbackItem is the stricter extraction used when no trigger keyword
// appears anywhere. Without a trigger the post-name text is usually trailing
// chatter, so an item is synthesized only when a code-shaped token (letters
// joined to digits) and an explicit quantity pattern are both present; bare
// numeric fragments never become order lines.
func extractFallbackItem(clause string) (model.ParsedOrderItem, bool) {
	item, ok := extractItem(clause)
	if !ok || item.QuantityConfidence == 0 {
		return model.ParsedOrderItem{}, false
	}
	if !reFallbackCode.MatchString(strings.ToLower(item.ArticleCode)) {
		return model.ParsedOrderItem{}, false
	}
	return item, true
}

// splitCodeDescription normalizes the code fragment, takes the first token
// containing a digit as the article code and treats the remaining trailing
// tokens as free-text description.
func splitCodeDescription(codePart string) (code, desc string) {
	norm := NormalizeCode(codePart)
	fields := strings.Fields(norm)
	for i, f := range fields {
		if strings.ContainsAny(f, "0123456789") {
			rest := append(append([]string{}, fields[:i]...), fields[i+1:]...)
			return f, strings.ToLower(strings.Join(rest, " "))
		}
	}
	return "", ""
}

// ParseTranscript is the full front half of the pipeline: normalization
// followed by clause segmentation and item extraction.
func ParseTranscript(raw string) *model.ParsedOrder {
	return Parse(Normalize(raw))
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
