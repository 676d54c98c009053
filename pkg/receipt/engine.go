package receipt

import (
	"context"
	"os"
	"strings"
)

// Engine runs the recognition pipeline: orientation/segmentation variant
// search over the injected Recognizer, heuristic transcript selection, and
// field extraction. Both collaborators are injected at construction; the
// engine holds no mutable state and is safe for concurrent use as long as
// the collaborators are.
type Engine struct {
	rec    Recognizer
	raster RasterTransform
}

// New builds an engine. raster may be nil on platforms without raster
// manipulation; the variant search then only tries the original orientation.
func New(rec Recognizer, raster RasterTransform) *Engine {
	return &Engine{rec: rec, raster: raster}
}

var segModes = []SegMode{SegModeBlock, SegModeSparse}

// BestText returns the single best transcript for the input. Literal text is
// returned trimmed with confidence 100, bypassing recognition entirely.
// Image input walks the angle x segmentation matrix sequentially and keeps
// the strictly highest scoring transcript; ties keep the first seen. If every variant
// comes back empty the zero Result is returned, never an error.
func (e *Engine) BestText(ctx context.Context, in Input) Result {
	if t := strings.TrimSpace(in.Text); t != "" {
		return Result{Text: t, Confidence: 100}
	}
	if in.ImagePath == "" || e.rec == nil {
		return Result{}
	}
	angles := []int{0, 90, 180, 270}
	if e.raster == nil {
		angles = []int{0}
	}
	best := Result{}
	bestScore := emptyScore
	for _, angle := range angles {
		path := in.ImagePath
		if angle != 0 {
			rotated, err := e.raster.Rotate(in.ImagePath, angle)
			if err == nil && rotated != "" {
				path = rotated
			}
		}
		for _, mode := range segModes {
			res := e.rec.Recognize(ctx, path, mode)
			if s := score(res.Text); s > bestScore {
				bestScore = s
				best = res
			}
		}
		if path != in.ImagePath {
			_ = os.Remove(path)
		}
	}
	return best
}

// Suggest runs the full pipeline and returns the suggestion record. All
// fields are independently nullable; malformed or absent input degrades to
// the all-null Extraction instead of an error.
func (e *Engine) Suggest(ctx context.Context, in Input) Extraction {
	best := e.BestText(ctx, in)
	return ExtractFields(best.Text)
}
