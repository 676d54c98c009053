package receipt

import "regexp"

// bankPattern maps a canonical bank name to its detection patterns.
type bankPattern struct {
	name     string
	patterns []*regexp.Regexp
}

// Static dictionary of banks and e-wallets seen on local transfer receipts.
// Loaded once, never mutated.
var bankPatterns = []bankPattern{
	{"BDO", res(`\bbdo\b`, `banco\s+de\s+oro`)},
	{"BPI", res(`\bbpi\b`, `bank\s+of\s+the\s+philippine\s+islands`)},
	{"Metrobank", res(`\bmetrobank\b`, `metropolitan\s+bank`)},
	{"UnionBank", res(`\bunion\s*bank\b`, `\bub\s+online\b`)},
	{"Landbank", res(`\bland\s*bank\b`, `\blbp\b`)},
	{"PNB", res(`\bpnb\b`, `philippine\s+national\s+bank`)},
	{"Security Bank", res(`\bsecurity\s+bank\b`)},
	{"RCBC", res(`\brcbc\b`)},
	{"Chinabank", res(`\bchina\s*bank\b`, `\bcbc\b`)},
	{"EastWest", res(`\beast\s*west\b`)},
	{"GCash", res(`\bg-?cash\b`)},
	{"Maya", res(`\bmaya\b`, `\bpay\s*maya\b`)},
}

func res(pats ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(pats))
	for _, p := range pats {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

var (
	fromMarkerRE = regexp.MustCompile(`(?i)\b(?:from|sender|payer)\b`)
	toMarkerRE   = regexp.MustCompile(`(?i)\b(?:to|recipient|beneficiary)\b`)
	// Keywords that end a from/to context segment so the dictionary never
	// sees unrelated trailing text.
	boundaryRE = regexp.MustCompile(`(?i)\b(?:to|from|sender|payer|recipient|beneficiary|account|reference|ref|amount|date|time|fee|balance)\b`)
)

// extractBank resolves the bank via context: the sender's bank is the more
// relevant signal for payment verification, so the segment after a
// from/sender/payer marker is tried first, then the sending side of an
// "X to Y" phrase, then the recipient segment, then the whole text.
func extractBank(text string) *string {
	if loc := fromMarkerRE.FindStringIndex(text); loc != nil {
		if name := matchBank(segmentAfter(text, loc[1])); name != nil {
			return name
		}
	}
	if loc := toMarkerRE.FindStringIndex(text); loc != nil {
		if name := matchBank(segmentBefore(text, loc[0])); name != nil {
			return name
		}
		if name := matchBank(segmentAfter(text, loc[1])); name != nil {
			return name
		}
	}
	return matchBank(text)
}

// segmentAfter returns the text following pos up to the nearest boundary
// keyword.
func segmentAfter(text string, pos int) string {
	seg := text[pos:]
	if loc := boundaryRE.FindStringIndex(seg); loc != nil {
		seg = seg[:loc[0]]
	}
	return seg
}

// segmentBefore returns the text preceding pos back to the nearest boundary
// keyword.
func segmentBefore(text string, pos int) string {
	seg := text[:pos]
	if locs := boundaryRE.FindAllStringIndex(seg, -1); len(locs) > 0 {
		seg = seg[locs[len(locs)-1][1]:]
	}
	return seg
}

func matchBank(segment string) *string {
	if segment == "" {
		return nil
	}
	for _, bp := range bankPatterns {
		for _, re := range bp.patterns {
			if re.MatchString(segment) {
				name := bp.name
				return &name
			}
		}
	}
	return nil
}
