package receipt

import (
	"regexp"
	"strings"
)

const refTokenPat = `\s*(?:no|number|num|id|code)?\s*[-:.#]*\s*([A-Za-z0-9]{6,20})\b`

// Labeled reference patterns in priority order; first hit wins, no scoring.
var referenceREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:reference|ref)\b` + refTokenPat),
	regexp.MustCompile(`(?i)\bconfirmation\b` + refTokenPat),
	regexp.MustCompile(`(?i)\b(?:transaction|txn)\b` + refTokenPat),
	regexp.MustCompile(`(?i)\btrace\b` + refTokenPat),
}

var bareDigitRunRE = regexp.MustCompile(`\b[0-9]{6,20}\b`)

// extractReference finds a labeled reference/confirmation/transaction/trace
// token, falling back to the first bare 6-20 digit run. Captured tokens must
// carry at least one digit so label phrasing ("reference number below") is
// not mistaken for the token itself.
func extractReference(text string) *string {
	for _, re := range referenceREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			tok := strings.TrimSpace(m[1])
			if containsDigit(tok) {
				return &tok
			}
		}
	}
	if m := bareDigitRunRE.FindString(text); m != "" {
		return &m
	}
	return nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
