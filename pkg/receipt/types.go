package receipt

// Result is one OCR transcript with the engine's self-reported confidence (0-100).
// Confidence is advisory; variant selection is driven by score(), not by it.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SegMode selects how the OCR engine partitions the image into text regions.
type SegMode int

const (
	// SegModeBlock treats the image as a single uniform block of text.
	SegModeBlock SegMode = iota
	// SegModeSparse looks for sparse text scattered over the image.
	SegModeSparse
)

// Input is what a caller hands to the engine: either an already-recognized
// transcript (Text, which wins when non-empty) or a path to a receipt image.
type Input struct {
	Text      string
	ImagePath string
}

// Extraction is the suggestion record handed to the verification UI. Every
// field is independently nullable; absence of one never blocks the others.
// It is a suggestion only and is never committed without human review.
type Extraction struct {
	RawText   string   `json:"rawText"`
	Amount    *float64 `json:"suggestedAmount"`
	Reference *string  `json:"suggestedRef"`
	DateTime  *string  `json:"suggestedDateTime"`
	Bank      *string  `json:"suggestedBank"`
}

// dateSpan anchors the time-of-day search near the date mention.
type dateSpan struct {
	iso   string
	start int
	end   int
}
