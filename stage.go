package rasterflow

import "context"

// Stage is one element of a Pipeline's processing chain. It owns its
// typed options and private state; it is never called concurrently
// with itself for the same Pipeline.
//
// Unlike a hand-rolled virtual-dispatch chain where each node holds a
// pointer into the next node's state, a Stage here knows nothing about
// its neighbours — the Driver owns the chain and drives execution by
// index, forwarding each Stage's emitted Scanlines to the next Stage
// itself. This avoids a self-referencing chain and the allocation it
// would need per link.
type Stage interface {
	// Init allocates the stage's working buffers. It never fails on
	// configuration garbage (out-of-range values are clamped); the
	// blend stage's Init also loads the watermark file and returns an
	// error when that file cannot be opened or decoded.
	Init() error
	// Process transforms one input Scanline — or, when in.IsFlush(),
	// the end-of-page signal — into zero or more Scanlines to forward,
	// in order, to the next element of the chain.
	Process(ctx context.Context, in Scanline) ([]Scanline, error)
	// Free releases the stage's private state.
	Free()
}
