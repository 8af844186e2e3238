package rasterflow

import "fmt"

// Pipeline describes one page's worth of raster processing: the page
// geometry and mode it was assembled for, plus the ordered stage chain
// BuildPipeline derived from it. A Pipeline is handed to NewDriver,
// which owns the actual stage lifecycle and scanline flow.
type Pipeline struct {
	Page PageDescriptor
	Mode ProcessMode

	// Duplicate controls whether the terminal FetchPool sink defensively
	// copies scanline bytes on Add, or borrows the caller-owned slice.
	// It is forced false whenever the chain ends in a reverse stage,
	// since that stage already owns every row it emits for the rest of
	// the page's lifetime.
	Duplicate bool

	stages []Stage
}

// BuildPipeline assembles the stage chain for a page, mirroring the
// fixed ordering raster_helper_create_pipeline lays down in the
// reference implementation: scale, then blend, then mirror, then
// reverse. Each stage is appended only if the page descriptor asks for
// it; a page with none of scale/mirror/reverse/watermark set produces
// an empty chain and the driver simply forwards scanlines untouched.
func BuildPipeline(page PageDescriptor, mode ProcessMode) (*Pipeline, error) {
	if page.BytesPerPixel <= 0 {
		return nil, fmt.Errorf("rasterflow: invalid bytes-per-pixel %d", page.BytesPerPixel)
	}
	if page.SrcWidth <= 0 || page.SrcHeight <= 0 || page.DstWidth <= 0 || page.DstHeight <= 0 {
		return nil, fmt.Errorf("rasterflow: page dimensions must be positive")
	}

	p := &Pipeline{
		Page:      page,
		Mode:      mode,
		Duplicate: true,
	}

	if page.Scale {
		p.stages = append(p.stages, newScaleStage(page.SrcWidth, page.SrcHeight, page.DstWidth, page.DstHeight, page.BytesPerPixel))
	}

	if page.Watermark != nil && page.Watermark.Use {
		p.stages = append(p.stages, newBlendStage(page))
	}

	if page.Mirror {
		p.stages = append(p.stages, newMirrorStage(page.BytesPerPixel))
	}

	if page.Reverse {
		p.stages = append(p.stages, newReverseStage(page.SrcHeight, page.DstWidth, page.DstHeight, page.BytesPerPixel))
		p.Duplicate = false
	}

	return p, nil
}
