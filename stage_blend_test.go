package rasterflow

import (
	"context"
	"testing"

	"github.com/esimov/rasterflow/compose"
	"github.com/stretchr/testify/assert"
)

type constAlphaWatermark struct {
	w, h  int
	alpha float64
}

func (c *constAlphaWatermark) Size() (int, int)          { return c.w, c.h }
func (c *constAlphaWatermark) AlphaAt(x, y int) float64 { return c.alpha }

func TestBlendStage_CompositesOnlyInsideBounds(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := &blendStage{
		bpp:         3,
		bounds:      rect{X: 1, Y: 0, W: 2, H: 2},
		color:       compose.Aqua,
		alpha:       0.75,
		outputWidth: 4,
		watermark:   &constAlphaWatermark{w: 2, h: 2, alpha: 1},
	}
	assert.NoError(s.Init())
	defer s.Free()

	white := make([]byte, 4*3)
	for i := range white {
		white[i] = 255
	}

	out, err := s.Process(ctx, Scanline{Bytes: white, ByteCount: len(white), PixelCount: 4})
	assert.NoError(err)
	assert.Len(out, 1)

	px := func(b []byte, i int) (byte, byte, byte) {
		return b[i*3], b[i*3+1], b[i*3+2]
	}

	r, g, b := px(out[0].Bytes, 0)
	assert.Equal(byte(255), r)
	assert.Equal(byte(255), g)
	assert.Equal(byte(255), b)

	r, g, b = px(out[0].Bytes, 1)
	assert.Equal(byte(64), r)
	assert.Equal(byte(255), g)
	assert.Equal(byte(255), b)

	r, g, b = px(out[0].Bytes, 3)
	assert.Equal(byte(255), r)
	assert.Equal(byte(255), g)
	assert.Equal(byte(255), b)
}

func TestBlendStage_RowsOutsideVerticalBoundsPassThroughUnchanged(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := &blendStage{
		bpp:         1,
		bounds:      rect{X: 0, Y: 1, W: 1, H: 1},
		color:       compose.Black,
		alpha:       0.75,
		outputWidth: 2,
		watermark:   &constAlphaWatermark{w: 1, h: 1, alpha: 1},
	}
	assert.NoError(s.Init())
	defer s.Free()

	row := []byte{10, 20}
	out, err := s.Process(ctx, Scanline{Bytes: row, ByteCount: 2, PixelCount: 2})
	assert.NoError(err)
	assert.Equal(row, out[0].Bytes)
}
