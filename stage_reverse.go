package rasterflow

import "context"

// reverseStage buffers an entire page and emits it bottom-up on flush.
// It is the only stage that owns a full page's worth of scanlines,
// which is why a Pipeline that includes it disables the "duplicate"
// flag for its FetchPool sink (see Pipeline.Duplicate).
type reverseStage struct {
	topMargin     int
	numRaster     int
	bytesPerLine  int
	dstPixelCount int

	rows    [][]byte
	stored  int
	inCount int
}

func newReverseStage(srcHeight, dstWidth, dstHeight, bpp int) *reverseStage {
	topMargin := srcHeight - dstHeight
	if topMargin < 0 {
		topMargin = 0
	}
	return &reverseStage{
		topMargin:     topMargin,
		numRaster:     dstHeight,
		bytesPerLine:  dstWidth * bpp,
		dstPixelCount: dstWidth,
	}
}

func (s *reverseStage) Init() error {
	s.rows = make([][]byte, s.numRaster)
	for i := range s.rows {
		s.rows[i] = make([]byte, s.bytesPerLine)
	}
	return nil
}

func (s *reverseStage) Process(ctx context.Context, in Scanline) ([]Scanline, error) {
	if in.IsFlush() {
		out := make([]Scanline, 0, s.numRaster+1)
		for _, row := range s.rows {
			out = append(out, Scanline{Bytes: row, ByteCount: len(row), PixelCount: s.dstPixelCount})
		}
		out = append(out, flushLine)
		return out, nil
	}

	s.inCount++
	if s.inCount <= s.topMargin {
		return nil, nil
	}
	if s.stored < s.numRaster {
		slot := s.numRaster - 1 - s.stored
		n := copy(s.rows[slot], in.Bytes)
		for i := n; i < len(s.rows[slot]); i++ {
			s.rows[slot][i] = padByte
		}
		s.stored++
	}
	return nil, nil
}

func (s *reverseStage) Free() {
	s.rows = nil
}
