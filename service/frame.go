package service

import (
	"fmt"

	"github.com/simratima/VidStegX/models"
)

// bytesPerPixel is fixed by the 24-bit B,G,R storage format. Other pixel
// formats are rejected at construction.
const bytesPerPixel = 3

// Frame is a single 24-bit raster. Pix holds the rows in B,G,R channel
// order. Stride is the signed byte distance between the starts of
// consecutive rows: positive for top-down storage, negative for bottom-up
// (row 0 stored last).
type Frame struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewFrame allocates a zeroed top-down frame.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	return &Frame{
		Width:  width,
		Height: height,
		Stride: width * bytesPerPixel,
		Pix:    make([]byte, width*height*bytesPerPixel),
	}, nil
}

// NewFrameWithStride wraps an existing pixel buffer. A negative stride
// declares bottom-up row order; the buffer length must be exactly
// |stride|*Height bytes.
func NewFrameWithStride(width, height, stride int, pix []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	abs := stride
	if abs < 0 {
		abs = -abs
	}
	if abs < width*bytesPerPixel {
		return nil, fmt.Errorf("stride %d too small for width %d", stride, width)
	}
	if len(pix) != abs*height {
		return nil, fmt.Errorf("pixel buffer length %d does not match %dx%d stride %d", len(pix), width, height, stride)
	}
	return &Frame{Width: width, Height: height, Stride: stride, Pix: pix}, nil
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Stride: f.Stride, Pix: pix}
}

// Equal reports whether two frames have identical geometry and pixels.
func (f *Frame) Equal(other *Frame) bool {
	if f.Width != other.Width || f.Height != other.Height {
		return false
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			fo, oo := f.offset(x, y), other.offset(x, y)
			if f.Pix[fo] != other.Pix[oo] || f.Pix[fo+1] != other.Pix[oo+1] || f.Pix[fo+2] != other.Pix[oo+2] {
				return false
			}
		}
	}
	return true
}

// offset maps (x, y) to the index of the blue byte of that pixel,
// accounting for the stride sign.
func (f *Frame) offset(x, y int) int {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		panic(fmt.Sprintf("pixel (%d,%d) out of bounds %dx%d", x, y, f.Width, f.Height))
	}
	if f.Stride >= 0 {
		return y*f.Stride + x*bytesPerPixel
	}
	// Bottom-up: row 0 lives at the end of the buffer.
	base := (f.Height - 1) * -f.Stride
	return base + y*f.Stride + x*bytesPerPixel
}

// PixelAccessor is a scoped hold on a frame's pixels. Acquire snapshots the
// buffer; all reads and writes go against the snapshot and are committed
// back in one step on Release. The frame must not be touched by anyone else
// while an accessor holds it.
type PixelAccessor struct {
	frame    *Frame
	pix      []byte
	released bool
}

// AcquirePixels takes the frame's pixel buffer for batched access.
func (f *Frame) AcquirePixels() *PixelAccessor {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &PixelAccessor{frame: f, pix: pix}
}

// Release commits all buffered writes to the frame. Safe to call more than
// once; later calls are no-ops.
func (a *PixelAccessor) Release() {
	if a.released {
		return
	}
	copy(a.frame.Pix, a.pix)
	a.released = true
}

// WithPixels runs fn with an accessor on the frame and guarantees the
// accessor is released on every exit path.
func (f *Frame) WithPixels(fn func(*PixelAccessor) error) error {
	acc := f.AcquirePixels()
	defer acc.Release()
	return fn(acc)
}

func (a *PixelAccessor) check() {
	if a.released {
		panic("use of released pixel accessor")
	}
}

// Blue returns the blue channel byte at (x, y).
func (a *PixelAccessor) Blue(x, y int) byte {
	a.check()
	return a.pix[a.frame.offset(x, y)]
}

// SetBlue writes the blue channel byte at (x, y).
func (a *PixelAccessor) SetBlue(x, y int, v byte) {
	a.check()
	a.pix[a.frame.offset(x, y)] = v
}

// Green returns the green channel byte at (x, y).
func (a *PixelAccessor) Green(x, y int) byte {
	a.check()
	return a.pix[a.frame.offset(x, y)+1]
}

// SetGreen writes the green channel byte at (x, y).
func (a *PixelAccessor) SetGreen(x, y int, v byte) {
	a.check()
	a.pix[a.frame.offset(x, y)+1] = v
}

// Red returns the red channel byte at (x, y).
func (a *PixelAccessor) Red(x, y int) byte {
	a.check()
	return a.pix[a.frame.offset(x, y)+2]
}

// SetRed writes the red channel byte at (x, y).
func (a *PixelAccessor) SetRed(x, y int, v byte) {
	a.check()
	a.pix[a.frame.offset(x, y)+2] = v
}

// Pixel returns the (blue, green, red) bytes at (x, y).
func (a *PixelAccessor) Pixel(x, y int) (b, g, r byte) {
	a.check()
	off := a.frame.offset(x, y)
	return a.pix[off], a.pix[off+1], a.pix[off+2]
}

// SetPixel writes all three channel bytes at (x, y).
func (a *PixelAccessor) SetPixel(x, y int, b, g, r byte) {
	a.check()
	off := a.frame.offset(x, y)
	a.pix[off], a.pix[off+1], a.pix[off+2] = b, g, r
}

// validateFrames checks a sequence for embedding or extraction: non-empty
// and dimensionally uniform.
func validateFrames(frames []*Frame) error {
	if len(frames) == 0 {
		return models.ErrEmptyFrames
	}
	w, h := frames[0].Width, frames[0].Height
	for _, f := range frames[1:] {
		if f.Width != w || f.Height != h {
			return models.ErrFrameMismatch
		}
	}
	return nil
}

// cloneFrames deep-copies a frame sequence.
func cloneFrames(frames []*Frame) []*Frame {
	out := make([]*Frame, len(frames))
	for i, f := range frames {
		out[i] = f.Clone()
	}
	return out
}
