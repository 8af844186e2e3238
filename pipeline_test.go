package rasterflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPipeline_RejectsInvalidGeometry(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildPipeline(PageDescriptor{BytesPerPixel: 0, SrcWidth: 1, SrcHeight: 1, DstWidth: 1, DstHeight: 1}, ModePrinting)
	assert.Error(err)

	_, err = BuildPipeline(PageDescriptor{BytesPerPixel: 1, SrcWidth: 0, SrcHeight: 1, DstWidth: 1, DstHeight: 1}, ModePrinting)
	assert.Error(err)
}

func TestBuildPipeline_EmptyChainForPlainPage(t *testing.T) {
	assert := assert.New(t)

	p, err := BuildPipeline(PageDescriptor{BytesPerPixel: 1, SrcWidth: 4, SrcHeight: 4, DstWidth: 4, DstHeight: 4}, ModePrinting)
	assert.NoError(err)
	assert.Len(p.stages, 0)
	assert.True(p.Duplicate)
}

func TestBuildPipeline_ReverseForcesNonDuplicate(t *testing.T) {
	assert := assert.New(t)

	p, err := BuildPipeline(PageDescriptor{BytesPerPixel: 1, SrcWidth: 4, SrcHeight: 4, DstWidth: 4, DstHeight: 4, Reverse: true}, ModeFetching)
	assert.NoError(err)
	assert.False(p.Duplicate)
	assert.Len(p.stages, 1)
}

func TestBuildPipeline_OrdersStagesScaleBlendMirrorReverse(t *testing.T) {
	assert := assert.New(t)

	page := PageDescriptor{
		BytesPerPixel: 1,
		SrcWidth:      4, SrcHeight: 4,
		DstWidth: 4, DstHeight: 4,
		Scale: true, Mirror: true, Reverse: true,
		Watermark: &Watermark{Use: true, FilePath: "testdata/none.png", SizeRatio: 0.5},
	}
	p, err := BuildPipeline(page, ModePrinting)
	assert.NoError(err)
	assert.Len(p.stages, 4)

	_, isScale := p.stages[0].(*scaleStage)
	_, isBlend := p.stages[1].(*blendStage)
	_, isMirror := p.stages[2].(*mirrorStage)
	_, isReverse := p.stages[3].(*reverseStage)
	assert.True(isScale)
	assert.True(isBlend)
	assert.True(isMirror)
	assert.True(isReverse)
}
