// Command rastertoprinter is a small demo harness around rasterflow: it
// reads a raw, fixed-width raster from a file (or stdin), drives it
// through a Pipeline and Driver, and writes the processed scanlines
// back out as raw bytes. It exists to exercise the library end to end;
// the flag-based input format it expects is not part of rasterflow
// itself and makes no attempt at real PPD/job-option parsing.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/esimov/rasterflow"
	"github.com/esimov/rasterflow/utils"
	"golang.org/x/term"
)

var (
	source = flag.String("in", "-", "Source raster file (- for stdin)")
	dest   = flag.String("out", "-", "Destination raster file (- for stdout)")

	srcWidth  = flag.Int("src-width", 0, "Source raster width in pixels")
	srcHeight = flag.Int("src-height", 0, "Source raster height in scanlines")
	dstWidth  = flag.Int("dst-width", 0, "Destination raster width in pixels")
	dstHeight = flag.Int("dst-height", 0, "Destination raster height in scanlines")
	bpp       = flag.Int("bpp", 1, "Bytes per pixel (1 = grayscale, 3 = RGB)")

	doScale   = flag.Bool("scale", false, "Enable nearest-neighbour scaling to dst-width/dst-height")
	doMirror  = flag.Bool("mirror", false, "Enable horizontal mirroring")
	doReverse = flag.Bool("reverse", false, "Enable bottom-up row reversal")

	wmPath    = flag.String("watermark", "", "Watermark image file path")
	wmRatio   = flag.Float64("wm-ratio", 0.25, "Watermark size ratio relative to the page, in [0,1]")
	wmPos     = flag.Int("wm-pos", 0, "Watermark position, 0 (center) through 8 (bottom right)")
	wmColor   = flag.Int("wm-color", 0, "Watermark color index")
	wmDensity = flag.Int("wm-density", 0, "Watermark density index")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rastertoprinter: run a raster page through the rasterflow pipeline\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *srcWidth <= 0 || *srcHeight <= 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("src-width and src-height are required", utils.ErrorMessage))
	}
	if *dstWidth <= 0 {
		*dstWidth = *srcWidth
	}
	if *dstHeight <= 0 {
		*dstHeight = *srcHeight
	}

	in, err := openInput(*source)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	defer in.Close()

	out, err := openOutput(*dest)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	defer out.Close()

	page := rasterflow.PageDescriptor{
		BytesPerPixel: *bpp,
		SrcWidth:      *srcWidth,
		SrcHeight:     *srcHeight,
		DstWidth:      *dstWidth,
		DstHeight:     *dstHeight,
		Scale:         *doScale,
		Mirror:        *doMirror,
		Reverse:       *doReverse,
	}
	if *wmPath != "" {
		page.Watermark = &rasterflow.Watermark{
			Use:       true,
			FilePath:  *wmPath,
			Color:     *wmColor,
			Density:   *wmDensity,
			SizeRatio: *wmRatio,
			Position:  rasterflow.Position(*wmPos),
		}
	}

	spinner := utils.NewSpinner(
		fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ rastertoprinter", utils.StatusMessage),
			utils.DecorateText("⇢ processing page...", utils.DefaultMessage)),
		time.Millisecond*80,
		true,
	)
	spinner.Start()

	start := time.Now()
	if err := run(page, in, out); err != nil {
		spinner.StopMsg = fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ rastertoprinter", utils.StatusMessage),
			utils.DecorateText("page processing failed ✘", utils.ErrorMessage))
		spinner.Stop()
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ rastertoprinter", utils.StatusMessage),
		utils.DecorateText("page processed successfully ✔", utils.SuccessMessage))
	spinner.Stop()
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(start)), utils.SuccessMessage))
}

// run assembles the pipeline and drives every source scanline, plus a
// trailing flush, through it.
func run(page rasterflow.PageDescriptor, r io.Reader, w io.Writer) error {
	pipeline, err := rasterflow.BuildPipeline(page, rasterflow.ModePrinting)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	enc := &writerEncoder{w: w}
	driver, err := rasterflow.NewDriver(pipeline, enc)
	if err != nil {
		return fmt.Errorf("starting driver: %w", err)
	}
	defer driver.Free()

	reader := newLineReader(r, page.SrcWidth*page.BytesPerPixel)
	ctx := context.Background()

	for i := 0; i < page.SrcHeight; i++ {
		line, err := reader.readLine()
		if err != nil {
			return fmt.Errorf("reading scanline %d: %w", i, err)
		}
		if _, err := driver.Feed(ctx, rasterflow.Scanline{Bytes: line, ByteCount: len(line), PixelCount: page.SrcWidth}); err != nil {
			return fmt.Errorf("feeding scanline %d: %w", i, err)
		}
	}
	if _, err := driver.Feed(ctx, rasterflow.Scanline{}); err != nil {
		return fmt.Errorf("flushing page: %w", err)
	}
	return nil
}

// lineReader pulls fixed-size raw scanlines off r, adapted from the
// per-line pull style of the CUPS raster decoder, but without its
// RLE framing since this harness's input is flat raw bytes.
type lineReader struct {
	br        *bufio.Reader
	lineBytes int
	buf       []byte
}

func newLineReader(r io.Reader, lineBytes int) *lineReader {
	return &lineReader{br: bufio.NewReader(r), lineBytes: lineBytes, buf: make([]byte, lineBytes)}
}

func (l *lineReader) readLine() ([]byte, error) {
	if _, err := io.ReadFull(l.br, l.buf); err != nil {
		return nil, err
	}
	return l.buf, nil
}

// writerEncoder is a demo Encoder that writes every scanline's
// meaningful bytes to an io.Writer.
type writerEncoder struct {
	w io.Writer
}

func (e *writerEncoder) ScanlineOut(bytes []byte, byteCount, pixelCount int) error {
	_, err := e.w.Write(bytes[:byteCount])
	return err
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, fmt.Errorf("refusing to write raw raster bytes to a terminal, redirect stdout")
		}
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
