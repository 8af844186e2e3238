package rasterflow

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// imageWatermark adapts a decoded, pre-scaled image.Image into the
// WatermarkSource the blend stage composites against. Loading and
// pre-scaling the watermark file is this module's stand-in for the
// "image-loading collaborator" spec.md §4.3/§6 delegates to, since the
// embedding CLI/PPD layer that would normally own file resolution is
// out of scope (spec.md §1).
type imageWatermark struct {
	img image.Image
}

// LoadWatermark decodes the image at path and resizes it to exactly
// width x height pixels using Lanczos resampling, mirroring
// caire's own imaging.Resize usage in calculateFitness/encodeImg.
func LoadWatermark(path string, width, height int) (WatermarkSource, error) {
	if width <= 0 || height <= 0 {
		return &imageWatermark{img: image.NewNRGBA(image.Rect(0, 0, 0, 0))}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rasterflow: could not open watermark file: %w", err)
	}
	defer f.Close()

	ctype, err := detectContentType(f)
	if err != nil {
		return nil, fmt.Errorf("rasterflow: could not inspect watermark file: %w", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("rasterflow: watermark file %q is not an image", path)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("rasterflow: could not decode watermark file: %w", err)
	}

	resized := imaging.Resize(src, width, height, imaging.Lanczos)
	return &imageWatermark{img: resized}, nil
}

func (w *imageWatermark) Size() (int, int) {
	b := w.img.Bounds()
	return b.Dx(), b.Dy()
}

func (w *imageWatermark) AlphaAt(x, y int) float64 {
	b := w.img.Bounds()
	_, _, _, a := w.img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return float64(a) / 0xFFFF
}

// detectContentType sniffs the file's MIME type from its first bytes,
// adapted from caire's utils.DetectContentType.
func detectContentType(f *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
