package receipt

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeRaster tags the path with the angle instead of touching pixels.
type fakeRaster struct{}

func (fakeRaster) Rotate(path string, angle int) (string, error) {
	return fmt.Sprintf("%s@%d", path, angle), nil
}

// fakeRecognizer serves canned transcripts keyed by path.
type fakeRecognizer struct {
	texts map[string]string
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, imagePath string, _ SegMode) Result {
	f.calls++
	if t, ok := f.texts[imagePath]; ok {
		return Result{Text: t, Confidence: 70}
	}
	return Result{}
}

func TestBestTextLiteralBypassesRecognition(t *testing.T) {
	rec := &fakeRecognizer{}
	e := New(rec, fakeRaster{})
	got := e.BestText(context.Background(), Input{Text: "  Amount PHP 500  "})
	assert.Equal(t, "Amount PHP 500", got.Text)
	assert.Equal(t, 100.0, got.Confidence)
	assert.Zero(t, rec.calls)
}

func TestBestTextPicksLegibleOrientation(t *testing.T) {
	// Only the 90-degree rotation reads like a receipt; the rest are
	// garbled or empty and must score lower.
	rec := &fakeRecognizer{texts: map[string]string{
		"r.png":     "zq xv mmnb",
		"r.png@90":  "Transfer amount PHP 1,500.00 Ref No. 12345678 BDO",
		"r.png@180": "",
	}}
	e := New(rec, fakeRaster{})
	got := e.BestText(context.Background(), Input{ImagePath: "r.png"})
	assert.Equal(t, "Transfer amount PHP 1,500.00 Ref No. 12345678 BDO", got.Text)
	// 4 angles x 2 segmentation modes, evaluated sequentially.
	assert.Equal(t, 8, rec.calls)
}

func TestBestTextWithoutRasterOnlyOriginal(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{"r.png": "PHP 200"}}
	e := New(rec, nil)
	got := e.BestText(context.Background(), Input{ImagePath: "r.png"})
	assert.Equal(t, "PHP 200", got.Text)
	assert.Equal(t, 2, rec.calls)
}

func TestBestTextAllVariantsEmpty(t *testing.T) {
	e := New(&fakeRecognizer{}, fakeRaster{})
	got := e.BestText(context.Background(), Input{ImagePath: "r.png"})
	assert.Equal(t, Result{}, got)
}

func TestBestTextEmptyInput(t *testing.T) {
	e := New(&fakeRecognizer{}, fakeRaster{})
	assert.Equal(t, Result{}, e.BestText(context.Background(), Input{}))
}

func TestSuggestFullPipeline(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{
		"r.png@90": "Transfer amount PHP 9,000.00 Ref No. ABC123456 Date: Sep 21, 2025 10:20 AM BDO to BPI",
	}}
	e := New(rec, fakeRaster{})
	got := e.Suggest(context.Background(), Input{ImagePath: "r.png"})
	if assert.NotNil(t, got.Amount) {
		assert.Equal(t, 9000.0, *got.Amount)
	}
	if assert.NotNil(t, got.DateTime) {
		assert.Equal(t, "2025-09-21T10:20", *got.DateTime)
	}
	if assert.NotNil(t, got.Bank) {
		assert.Equal(t, "BDO", *got.Bank)
	}
}

func TestSuggestEmptyInputAllNull(t *testing.T) {
	e := New(&fakeRecognizer{}, fakeRaster{})
	got := e.Suggest(context.Background(), Input{})
	assert.Equal(t, Extraction{}, got)
}

func TestSuggestTextPathIdempotent(t *testing.T) {
	e := New(&fakeRecognizer{}, nil)
	in := Input{Text: "Amount: PHP 500.00, ref code 99999999"}
	a := e.Suggest(context.Background(), in)
	b := e.Suggest(context.Background(), in)
	assert.Equal(t, a, b)
}
