package rasterflow

import (
	"context"
	"fmt"
)

// Driver owns a Pipeline's stage lifecycle and drives scanlines through
// it. It, not the stages themselves, holds the chain's ordering: each
// stage only knows how to transform one scanline into zero or more
// scanlines, and the driver is responsible for feeding a stage's output
// into the next stage in line. This keeps stages free of any
// back-reference to their neighbours, unlike a design where each stage
// holds a pointer to "the next one" and the chain becomes
// self-referencing.
type Driver struct {
	pipeline *Pipeline
	encoder  Encoder
	pool     *FetchPool

	scratch     []byte
	inRowCount  int
	outRowCount int

	initedUpTo int
}

// NewDriver initializes every stage of pipeline in order, rolling back
// (calling Free on what already succeeded, in reverse) at the first
// failure. In ModePrinting, encoder must be non-nil; in ModeFetching it
// is ignored and a FetchPool sized to the page's destination height is
// created instead.
func NewDriver(pipeline *Pipeline, encoder Encoder) (*Driver, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("rasterflow: nil pipeline")
	}
	if pipeline.Mode == ModePrinting && encoder == nil {
		return nil, fmt.Errorf("rasterflow: printing mode requires an encoder")
	}

	d := &Driver{
		pipeline: pipeline,
		encoder:  encoder,
		scratch:  newScanlineBuffer(pipeline.Page.SrcWidth, pipeline.Page.BytesPerPixel),
	}
	if pipeline.Mode == ModeFetching {
		d.pool = NewFetchPool(pipeline.Page.DstHeight)
	}

	for i, st := range pipeline.stages {
		if err := st.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				pipeline.stages[j].Free()
			}
			return nil, fmt.Errorf("rasterflow: stage %d init: %w", i, err)
		}
		d.initedUpTo = i + 1
	}

	return d, nil
}

// Feed pushes one source scanline through the chain, returning how many
// scanlines reached the terminal sink. Passing a zero-value Scanline
// flushes every stage and drains whatever scanlines they were holding
// back (the reverse stage's buffered page, in particular). ctx is
// checked between stages so a caller can cancel a page mid-flight; the
// check is non-blocking, matching how raster_to_epson polls for
// cancellation between scanlines rather than blocking on it.
//
// Once SrcHeight source scanlines have already been fed, Feed becomes
// a no-op for any further non-flush scanline, returning 0, nil rather
// than an error — a caller that overshoots the page's declared height
// is garbage-in that gets silently neutralised, not a fatal condition
// (a flush is still honored past that point, to drain buffering
// stages).
func (d *Driver) Feed(ctx context.Context, in Scanline) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	line := in
	if !in.IsFlush() {
		if d.inRowCount >= d.pipeline.Page.SrcHeight {
			return 0, nil
		}
		d.inRowCount++
		copyPadded(d.scratch, in.Bytes)
		line = Scanline{Bytes: d.scratch, ByteCount: len(d.scratch), PixelCount: d.pipeline.Page.SrcWidth}
	}

	return d.forward(ctx, 0, line)
}

// forward drives line through stages[idx:], recursing stage by stage,
// and sinks whatever reaches the end of the chain.
func (d *Driver) forward(ctx context.Context, idx int, line Scanline) (int, error) {
	if idx >= len(d.pipeline.stages) {
		return d.sink(line)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := d.pipeline.stages[idx].Process(ctx, line)
	if err != nil {
		return 0, fmt.Errorf("rasterflow: stage %d process: %w", idx, err)
	}

	count := 0
	for _, ol := range out {
		n, err := d.forward(ctx, idx+1, ol)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func (d *Driver) sink(line Scanline) (int, error) {
	if line.IsFlush() {
		return 0, nil
	}
	switch d.pipeline.Mode {
	case ModePrinting:
		emitted, err := d.emitToEncoder(line)
		if !emitted {
			return 0, err
		}
		return 1, err
	case ModeFetching:
		if err := d.emitToFetchpool(line); err != nil {
			return 0, err
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("rasterflow: unknown process mode %d", d.pipeline.Mode)
	}
}

// emitToEncoder forwards line to the encoder, unless the page's output
// row budget is already exhausted — a stage rounding a fraction of a
// scanline too many is silently dropped rather than surfaced as an
// error, the same safety net output_to_printer applies via its own
// output_raster_index/prt_print_area_y bound. A scanline shorter than
// the destination width is first copied into a buffer padded with
// 0xFF; the encoder always receives DstWidth pixels' worth of bytes.
// The returned bool reports whether a scanline actually reached the
// encoder.
func (d *Driver) emitToEncoder(line Scanline) (bool, error) {
	if d.outRowCount >= d.pipeline.Page.DstHeight {
		return false, nil
	}
	d.outRowCount++
	width := d.pipeline.Page.DstWidth
	lineBytes := width * d.pipeline.Page.BytesPerPixel
	bytes := line.Bytes
	if line.ByteCount < lineBytes {
		bytes = make([]byte, lineBytes)
		copyPadded(bytes, line.Bytes[:line.ByteCount])
	}
	return true, d.encoder.ScanlineOut(bytes, lineBytes, width)
}

func (d *Driver) emitToFetchpool(line Scanline) error {
	return d.pool.Add(FetchData{
		Bytes:      line.Bytes,
		ByteCount:  line.ByteCount,
		PixelCount: line.PixelCount,
		Duplicate:  d.pipeline.Duplicate,
	})
}

// Fetch reads the next available scanline from the driver's FetchPool
// into buf, truncating if buf is shorter than the scanline and padding
// with 0xFF if it is longer. It is only meaningful in ModeFetching. ok
// is false if no scanline is available yet; statusOut, if non-nil, is
// populated with the pool's current occupancy either way.
func (d *Driver) Fetch(buf []byte, statusOut *FetchStatus) (int, bool) {
	if d.pool == nil {
		return 0, false
	}
	data, ok := d.pool.Fetch()
	if statusOut != nil {
		*statusOut = d.pool.Status()
	}
	if !ok {
		return 0, false
	}
	n := copy(buf, data.Bytes)
	for i := n; i < len(buf); i++ {
		buf[i] = padByte
	}
	return n, true
}

// Free tears down every initialized stage in reverse order and
// releases the driver's scratch buffers and fetch pool.
func (d *Driver) Free() {
	for i := d.initedUpTo - 1; i >= 0; i-- {
		d.pipeline.stages[i].Free()
	}
	d.initedUpTo = 0
	d.scratch = nil
	if d.pool != nil {
		d.pool.Destroy()
		d.pool = nil
	}
}
