/*
Package rasterflow implements the core of a print filter: a configurable
chain of scanline-processing stages (scale, watermark blend, mirror,
reverse) that sits between a raster producer and a vendor raster-encoding
sink.

A caller builds a Pipeline from a PageDescriptor, wraps it in a Driver,
and feeds scanlines one at a time:

	pipeline, err := rasterflow.BuildPipeline(page, rasterflow.ModePrinting)
	if err != nil {
		log.Fatal(err)
	}
	drv, err := rasterflow.NewDriver(pipeline, encoder)
	if err != nil {
		log.Fatal(err)
	}
	defer drv.Free()

	for _, line := range scanlines {
		if _, err := drv.Feed(ctx, line); err != nil {
			log.Fatal(err)
		}
	}
	drv.Feed(ctx, rasterflow.Scanline{}) // flush

The package performs only geometry and compositing at full source bit
depth; colour management, half-toning, dithering, error diffusion and
compression are left to the embedding vendor encoder.
*/
package rasterflow
