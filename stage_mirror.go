package rasterflow

import "context"

// mirrorStage flips each scanline horizontally. Per spec.md §4.4 its
// Init only needs bytes-per-pixel; the scratch buffer is sized lazily
// from the first scanline's pixel count and reused afterwards, so the
// steady-state path still performs no further allocations.
type mirrorStage struct {
	bytesPerPixel int
	buf           []byte
}

func newMirrorStage(bpp int) *mirrorStage {
	return &mirrorStage{bytesPerPixel: bpp}
}

func (s *mirrorStage) Init() error {
	return nil
}

func (s *mirrorStage) Process(ctx context.Context, in Scanline) ([]Scanline, error) {
	if in.IsFlush() {
		return []Scanline{flushLine}, nil
	}

	bpp := s.bytesPerPixel
	need := in.PixelCount * bpp
	if len(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	last := in.PixelCount - 1
	for i := 0; i < in.PixelCount; i++ {
		src := in.Bytes[(last-i)*bpp : (last-i)*bpp+bpp]
		copy(buf[i*bpp:i*bpp+bpp], src)
	}

	return []Scanline{{Bytes: buf, ByteCount: need, PixelCount: in.PixelCount}}, nil
}

func (s *mirrorStage) Free() {
	s.buf = nil
}
