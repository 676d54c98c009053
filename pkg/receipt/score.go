package receipt

import "regexp"

// emptyScore is the sentinel for transcripts with no text at all; any
// non-empty transcript outranks it.
const emptyScore = -1e9

var (
	currencyRE = regexp.MustCompile(`(?i)₱|\bphp\b`)
	keywordRE  = regexp.MustCompile(`(?i)\b(?:amount|reference|ref|transaction|txn|date|time|transfer|account|receipt|invoice)\b`)
)

// score rates how much a transcript looks like a financial receipt. Money
// and keyword signal is weighted far above raw length so that a short but
// receipt-like transcript beats a long garbled one.
func score(text string) float64 {
	if text == "" {
		return emptyScore
	}
	length := len(text)
	digits := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	currency := len(currencyRE.FindAllStringIndex(text, -1))
	keywords := len(keywordRE.FindAllStringIndex(text, -1))
	den := length
	if den < 10 {
		den = 10
	}
	density := float64(digits) / float64(den)
	return 0.1*float64(length) +
		1.5*float64(digits) +
		8*float64(currency) +
		5*float64(keywords) +
		40*density
}
