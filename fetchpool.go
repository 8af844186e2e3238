package rasterflow

import "errors"

// ErrFetchPoolFull is returned by FetchPool.Add once the pool has
// accumulated dst_height entries for the current page.
var ErrFetchPoolFull = errors.New("rasterflow: fetch pool is full")

// FetchData is one scanline handed off to a FetchPool, either owned
// (Duplicate) or borrowed from the caller.
type FetchData struct {
	Bytes      []byte
	ByteCount  int
	PixelCount int
	Duplicate  bool
}

// FetchStatus reports the pool's occupancy.
type FetchStatus struct {
	RemainingWritable int
	RemainingReadable int
	PageComplete      bool
}

// FetchPool is a bounded, line-indexed store that decouples the
// pipeline's producing stage from an external pull-based consumer. Its
// write-cursor is monotonically non-decreasing; its read-cursor never
// exceeds the write-cursor.
type FetchPool struct {
	slots       []FetchData
	capacity    int
	writeCursor int
	readCursor  int
}

// NewFetchPool creates a pool with capacity N = dst_height slots.
func NewFetchPool(capacity int) *FetchPool {
	if capacity < 0 {
		capacity = 0
	}
	return &FetchPool{
		slots:    make([]FetchData, capacity),
		capacity: capacity,
	}
}

// Add appends a FetchData slot at the write-cursor. When data.Duplicate
// is true the pool takes a defensive copy of the scanline bytes;
// otherwise it records the slice as-is, and its validity past the
// owning stage's lifetime is the caller's contract.
func (p *FetchPool) Add(data FetchData) error {
	if p.writeCursor >= p.capacity {
		return ErrFetchPoolFull
	}
	if data.Duplicate {
		owned := make([]byte, len(data.Bytes))
		copy(owned, data.Bytes)
		data.Bytes = owned
	}
	p.slots[p.writeCursor] = data
	p.writeCursor++
	return nil
}

// Fetch returns the slot at the read-cursor and advances it, or false if
// no slot is available yet.
func (p *FetchPool) Fetch() (FetchData, bool) {
	if p.readCursor >= p.writeCursor {
		return FetchData{}, false
	}
	data := p.slots[p.readCursor]
	p.readCursor++
	return data, true
}

// Status reports the pool's current occupancy.
func (p *FetchPool) Status() FetchStatus {
	return FetchStatus{
		RemainingWritable: p.capacity - p.writeCursor,
		RemainingReadable: p.writeCursor - p.readCursor,
		PageComplete:      p.writeCursor >= p.capacity,
	}
}

// Destroy releases the pool's owned copies. Unowned (non-duplicate)
// references become invalid the instant the owning stage frees;
// callers must drain the pool before stage teardown.
func (p *FetchPool) Destroy() {
	p.slots = nil
	p.writeCursor = 0
	p.readCursor = 0
}
