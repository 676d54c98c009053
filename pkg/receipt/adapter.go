package receipt

import (
	"context"
	"log"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer is the external OCR capability. Implementations must contain
// their own failures: on any internal error they return a zero Result
// (empty text, confidence 0), never an error. Callers treat empty text as
// "no signal".
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string, mode SegMode) Result
}

// Tesseract recognizes text via the local Tesseract engine. A fresh gosseract
// client is built per call; the client is not safe for reuse across passes.
type Tesseract struct {
	Language string
}

// NewTesseract returns a recognizer using the eng traineddata.
func NewTesseract() *Tesseract {
	return &Tesseract{Language: "eng"}
}

func (t *Tesseract) Recognize(ctx context.Context, imagePath string, mode SegMode) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tesseract recover: %v", r)
			res = Result{}
		}
	}()
	if err := ctx.Err(); err != nil {
		return Result{}
	}
	cl := gosseract.NewClient()
	defer cl.Close()
	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	_ = cl.SetLanguage(lang)
	_ = cl.SetPageSegMode(segModeToPSM(mode))
	if err := cl.SetImage(imagePath); err != nil {
		return Result{}
	}
	text, err := cl.Text()
	if err != nil {
		log.Printf("tesseract error %s: %v", imagePath, err)
		return Result{}
	}
	text = collapseWhitespace(text)
	if text == "" {
		return Result{}
	}
	return Result{Text: text, Confidence: meanWordConfidence(cl)}
}

func segModeToPSM(mode SegMode) gosseract.PageSegMode {
	if mode == SegModeSparse {
		return gosseract.PSM_SPARSE_TEXT
	}
	return gosseract.PSM_SINGLE_BLOCK
}

// meanWordConfidence averages per-word confidences; 0 when unavailable.
func meanWordConfidence(cl *gosseract.Client) float64 {
	boxes, err := cl.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}

// collapseWhitespace flattens newlines/tabs and runs of spaces into single spaces.
func collapseWhitespace(t string) string {
	return strings.Join(strings.Fields(t), " ")
}
