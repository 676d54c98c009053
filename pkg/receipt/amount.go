package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

const numberPat = `([0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{1,2})?|[0-9]+(?:\.[0-9]{1,2})?)`

var (
	// A number within ~20 characters after a labeling keyword. The gap class
	// cannot cross a digit, so the first number after the label is captured.
	amountLabeledRE = regexp.MustCompile(`(?i)\b(?:transfer\s*amount|amount|amt|sent)\b[^0-9]{0,20}` + numberPat)
	// A number immediately preceded by an explicit currency marker.
	amountCurrencyRE = regexp.MustCompile(`(?i)(?:₱|\bphp\b)\s*` + numberPat)
	amountGroupedRE  = regexp.MustCompile(`\b[0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{1,2})?\b`)
	amountBareRE     = regexp.MustCompile(`\b[0-9]{4,6}\b`)
)

// extractAmount finds the paid amount in strict tier order: labeled, then
// currency-marked, then plausible bare numbers. Within a tier the largest
// match wins: OCR noise fragments one true amount into partial digit runs,
// and fee sub-amounts are typically smaller than the principal.
func extractAmount(text string) *float64 {
	if v := largestSubmatch(amountLabeledRE, text); v != nil {
		return v
	}
	if v := largestSubmatch(amountCurrencyRE, text); v != nil {
		return v
	}
	best := 0.0
	found := false
	for _, m := range amountGroupedRE.FindAllString(text, -1) {
		if v, ok := parseAmount(m); ok && (!found || v > best) {
			best = v
			found = true
		}
	}
	for _, m := range amountBareRE.FindAllString(text, -1) {
		if v, ok := parseAmount(m); ok && v >= 100 && (!found || v > best) {
			best = v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &best
}

func largestSubmatch(re *regexp.Regexp, text string) *float64 {
	best := 0.0
	found := false
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		if v, ok := parseAmount(m[1]); ok && (!found || v > best) {
			best = v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &best
}

// parseAmount normalizes a matched number (comma grouping stripped) into a
// positive value.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
