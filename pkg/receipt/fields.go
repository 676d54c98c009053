package receipt

// ExtractFields parses a transcript into the four suggestion fields. The
// extractors are independent: a miss on one field never blocks the others,
// and garbage or empty input yields the all-null Extraction.
func ExtractFields(text string) Extraction {
	out := Extraction{RawText: text}
	if text == "" {
		return out
	}
	out.Amount = extractAmount(text)
	out.Reference = extractReference(text)
	if span := extractDate(text); span != nil {
		dt := span.iso
		if tm := extractTime(text, span); tm != nil {
			dt += "T" + *tm
		}
		out.DateTime = &dt
	}
	out.Bank = extractBank(text)
	return out
}
