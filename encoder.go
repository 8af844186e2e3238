package rasterflow

// Encoder is the vendor raster-encoder sink the driver writes finished
// scanlines to in ModePrinting. It stands in for the downstream
// raster-encoder ABI (eps_raster_scanline_out in the reference
// implementation): one call per output scanline, byteCount and
// pixelCount describing how much of bytes is meaningful.
type Encoder interface {
	ScanlineOut(bytes []byte, byteCount, pixelCount int) error
}
