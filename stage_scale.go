package rasterflow

import "context"

// scaleStage performs nearest-neighbour scaling with independent
// horizontal and vertical ratios. Vertical replication is driven by a
// line-carry DDA that persists across scanlines, since the stage only
// learns how many destination lines a source line is worth as each one
// arrives; horizontal remapping instead walks the destination row and
// divides back into the already-available source row, using a carry
// that resets every scanline.
type scaleStage struct {
	srcWidth, srcHeight int
	dstWidth, dstHeight int
	bytesPerPixel       int

	xScale, yScale float64

	// lineCarry accumulates the fractional part of yScale across input
	// scanlines — the DDA accumulator that decides how many printer
	// lines a given input line replicates into.
	lineCarry float64

	buf []byte // owned, reused scratch for one scaled scanline
}

func newScaleStage(srcW, srcH, dstW, dstH, bpp int) *scaleStage {
	return &scaleStage{
		srcWidth:      srcW,
		srcHeight:     srcH,
		dstWidth:      dstW,
		dstHeight:     dstH,
		bytesPerPixel: bpp,
	}
}

func (s *scaleStage) Init() error {
	s.xScale = float64(s.dstWidth) / float64(s.srcWidth)
	s.yScale = float64(s.dstHeight) / float64(s.srcHeight)
	s.buf = newScanlineBuffer(s.dstWidth, s.bytesPerPixel)
	return nil
}

func (s *scaleStage) Process(ctx context.Context, in Scanline) ([]Scanline, error) {
	if in.IsFlush() {
		return []Scanline{flushLine}, nil
	}

	printableLines := int(s.yScale)
	s.lineCarry += s.yScale - float64(printableLines)
	if s.lineCarry >= 1 {
		printableLines++
		s.lineCarry--
	}
	if printableLines <= 0 {
		return nil, nil
	}

	bpp := s.bytesPerPixel
	fillBytes(s.buf, padByte)

	maxSrcIdx := in.PixelCount - 1
	step := 1.0 / s.xScale
	srcPos := 0.0
	for j := 0; j < s.dstWidth; j++ {
		srcIdx := int(srcPos)
		if srcIdx > maxSrcIdx {
			srcIdx = maxSrcIdx
		}
		srcOff := srcIdx * bpp
		dstOff := j * bpp
		copy(s.buf[dstOff:dstOff+bpp], in.Bytes[srcOff:srcOff+bpp])
		srcPos += step
	}

	out := make([]Scanline, printableLines)
	line := Scanline{Bytes: s.buf, ByteCount: len(s.buf), PixelCount: s.dstWidth}
	for i := range out {
		out[i] = line
	}
	return out, nil
}

func (s *scaleStage) Free() {
	s.buf = nil
}
