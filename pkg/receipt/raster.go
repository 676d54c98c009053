package receipt

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// RasterTransform produces rotated copies of an image for re-recognition.
// Rotate returns a path to the rotated copy; implementations fall back to
// returning the original path when the transform fails, so the pipeline
// always has something to recognize.
type RasterTransform interface {
	Rotate(path string, angle int) (string, error)
}

// ImagingRaster rotates via the imaging library and boosts contrast to
// compensate for low-quality phone-camera receipt photos. Output is a
// lossless PNG temp file owned by the caller.
type ImagingRaster struct {
	// Contrast is the post-rotation contrast adjustment in percent.
	Contrast float64
}

// NewImagingRaster returns a transform with the default +15 contrast boost.
func NewImagingRaster() *ImagingRaster {
	return &ImagingRaster{Contrast: 15}
}

func (ir *ImagingRaster) Rotate(path string, angle int) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return path, fmt.Errorf("open image: %w", err)
	}
	switch angle {
	case 90:
		img = imaging.Rotate90(img)
	case 180:
		img = imaging.Rotate180(img)
	case 270:
		img = imaging.Rotate270(img)
	default:
		return path, fmt.Errorf("unsupported rotation angle %d", angle)
	}
	img = imaging.AdjustContrast(img, ir.Contrast)
	tmp, err := os.CreateTemp("", "receipt-rot-*.png")
	if err != nil {
		return path, fmt.Errorf("temp file: %w", err)
	}
	_ = tmp.Close()
	if err := imaging.Save(img, tmp.Name()); err != nil {
		_ = os.Remove(tmp.Name())
		return path, fmt.Errorf("save rotated: %w", err)
	}
	return tmp.Name(), nil
}
