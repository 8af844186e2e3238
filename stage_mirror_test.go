package rasterflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorStage_ReversesEachScanline(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := newMirrorStage(1)
	assert.NoError(s.Init())
	defer s.Free()

	out, err := s.Process(ctx, Scanline{Bytes: []byte("ABC"), ByteCount: 3, PixelCount: 3})
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal("CBA", string(out[0].Bytes))

	out, err = s.Process(ctx, Scanline{Bytes: []byte("DEF"), ByteCount: 3, PixelCount: 3})
	assert.NoError(err)
	assert.Equal("FED", string(out[0].Bytes))

	out, err = s.Process(ctx, Scanline{})
	assert.NoError(err)
	assert.True(out[0].IsFlush())
}
