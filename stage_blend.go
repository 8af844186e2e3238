package rasterflow

import (
	"context"

	"github.com/esimov/rasterflow/compose"
	"github.com/esimov/rasterflow/utils"
)

// rect is an axis-aligned integer rectangle in printer coordinates.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(y int) bool {
	return y >= r.Y && y < r.Y+r.H
}

// WatermarkSource supplies the pre-scaled watermark raster the blend
// stage composites over the page. Its Size must equal bounds.Size —
// the scaling itself is delegated to an image-loading collaborator
// (see watermark.go) outside this stage, per spec.md §4.3.
type WatermarkSource interface {
	Size() (width, height int)
	// AlphaAt returns the stencil's own per-pixel opacity in [0,1] at
	// the given coordinate, relative to the watermark raster's origin.
	AlphaAt(x, y int) float64
}

// blendStage composites a watermark over a bounding rectangle of every
// scanline that falls inside it.
type blendStage struct {
	bpp         int
	bounds      rect
	color       compose.Color
	alpha       float64
	watermark   WatermarkSource
	outputWidth int
	filePath    string

	buf []byte
	y   int
}

func newBlendStage(page PageDescriptor) *blendStage {
	wmCfg := page.Watermark
	frame := rect{0, 0, page.DstWidth, page.DstHeight}

	ratio := utils.Clamp(wmCfg.SizeRatio, 0, 1)
	bounds := rect{
		W: int(float64(frame.W) * ratio),
		H: int(float64(frame.H) * ratio),
	}
	switch clampPosition(wmCfg.Position) {
	case PositionCenter:
		bounds.X = (frame.W - bounds.W) / 2
		bounds.Y = (frame.H - bounds.H) / 2
	case PositionTopLeft:
		bounds.X, bounds.Y = 0, 0
	case PositionTop:
		bounds.X = (frame.W - bounds.W) / 2
		bounds.Y = 0
	case PositionTopRight:
		bounds.X = frame.W - bounds.W
		bounds.Y = 0
	case PositionLeft:
		bounds.X = 0
		bounds.Y = (frame.H - bounds.H) / 2
	case PositionRight:
		bounds.X = frame.W - bounds.W
		bounds.Y = (frame.H - bounds.H) / 2
	case PositionBottomLeft:
		bounds.X = 0
		bounds.Y = frame.H - bounds.H
	case PositionBottom:
		bounds.X = (frame.W - bounds.W) / 2
		bounds.Y = frame.H - bounds.H
	case PositionBottomRight:
		bounds.X = frame.W - bounds.W
		bounds.Y = frame.H - bounds.H
	}

	colorIdx := utils.Clamp(wmCfg.Color, 0, len(compose.Colors)-1)
	densityIdx := utils.Clamp(wmCfg.Density, 0, len(compose.Densities)-1)

	color := compose.Colors[colorIdx]
	if page.BytesPerPixel == 1 {
		color = compose.Black
	}
	alpha := 1 - compose.Densities[densityIdx]

	return &blendStage{
		bpp:         page.BytesPerPixel,
		bounds:      bounds,
		color:       color,
		alpha:       alpha,
		outputWidth: page.DstWidth,
		filePath:    wmCfg.FilePath,
	}
}

// Init loads and pre-scales the watermark raster. Loading happens here,
// not at assembly time, so a missing or unreadable watermark file
// surfaces as a stage init error the driver can roll back from, rather
// than aborting BuildPipeline before the rest of the chain is even
// considered.
func (s *blendStage) Init() error {
	if s.watermark == nil {
		wm, err := LoadWatermark(s.filePath, s.bounds.W, s.bounds.H)
		if err != nil {
			return err
		}
		s.watermark = wm
	}
	s.buf = make([]byte, s.outputWidth*s.bpp)
	return nil
}

func (s *blendStage) Process(ctx context.Context, in Scanline) ([]Scanline, error) {
	if in.IsFlush() {
		return []Scanline{flushLine}, nil
	}

	y := s.y
	s.y++

	if !s.bounds.contains(y) {
		return []Scanline{in}, nil
	}

	bpp := s.bpp
	n := copy(s.buf, in.Bytes)
	for i := n; i < len(s.buf); i++ {
		s.buf[i] = padByte
	}

	wy := y - s.bounds.Y
	for px := s.bounds.X; px < s.bounds.X+s.bounds.W && px < s.outputWidth; px++ {
		wx := px - s.bounds.X
		maskAlpha := s.watermark.AlphaAt(wx, wy)
		if maskAlpha == 0 {
			continue
		}
		off := px * bpp
		backdrop := decodePixel(s.buf[off:off+bpp], bpp)
		out := compose.Over(backdrop, s.color, s.alpha, maskAlpha)
		encodePixel(s.buf[off:off+bpp], bpp, out)
	}

	return []Scanline{{Bytes: s.buf, ByteCount: len(s.buf), PixelCount: s.outputWidth}}, nil
}

func (s *blendStage) Free() {
	s.buf = nil
	s.watermark = nil
}

func decodePixel(b []byte, bpp int) compose.Color {
	if bpp == 1 {
		v := float64(b[0]) / 255
		return compose.Color{R: v, G: v, B: v}
	}
	return compose.Color{
		R: float64(b[0]) / 255,
		G: float64(b[1]) / 255,
		B: float64(b[2]) / 255,
	}
}

func encodePixel(b []byte, bpp int, c compose.Color) {
	clampByte := func(v float64) byte {
		v = utils.Clamp(v, 0, 1)
		return byte(v*255 + 0.5)
	}
	if bpp == 1 {
		lum := 0.299*c.R + 0.587*c.G + 0.114*c.B
		b[0] = clampByte(lum)
		return
	}
	b[0] = clampByte(c.R)
	b[1] = clampByte(c.G)
	b[2] = clampByte(c.B)
}
