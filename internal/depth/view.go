package depth

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
)

// Coord is a normalized position in the logical image: (0,0) is the first
// pixel, (1,1) the far corner, independent of the buffer's resolution.
type Coord struct {
	X, Y float32
}

// View is a read-only window onto a locked buffer. It is only handed out by
// Read and must not be retained after the callback returns.
type View struct {
	data   []byte
	width  int
	height int
	stride int
	format PixelFormat
}

// Read locks buf for reading, calls fn with a View of its contents and
// releases the lock on every exit path, panics included.
func Read(buf Buffer, fn func(View) error) error {
	if err := buf.LockReadOnly(); err != nil {
		return fmt.Errorf("%w: %w", ErrLockFailed, err)
	}
	defer buf.UnlockReadOnly()

	v := View{
		data:   buf.Bytes(),
		width:  buf.Width(),
		height: buf.Height(),
		stride: buf.BytesPerRow(),
		format: buf.PixelFormat(),
	}
	if v.width > 0 && v.height > 0 {
		if v.stride < v.rowBytes() {
			return fmt.Errorf("%w: row stride %d is shorter than a %d-byte row", ErrShortBuffer, v.stride, v.rowBytes())
		}
		if len(v.data) < v.minLen() {
			return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(v.data), v.minLen())
		}
	}
	return fn(v)
}

// rowBytes is the width of one row of pixels without padding.
func (v View) rowBytes() int {
	if n := v.width * v.format.BytesPerPixel(); n > 0 {
		return n
	}
	return v.width
}

// minLen is the smallest slice that covers every addressable pixel. The
// last row does not need its padding.
func (v View) minLen() int {
	return v.stride*(v.height-1) + v.rowBytes()
}

func (v View) Width() int               { return v.width }
func (v View) Height() int              { return v.height }
func (v View) PixelFormat() PixelFormat { return v.format }

// Sample decodes the pixel under a normalized coordinate. Coordinates are
// scaled by the buffer size in float32, truncated and clamped to the edge
// pixels, so out-of-range input never fails.
func (v View) Sample(c Coord) (float32, error) {
	if v.width <= 0 || v.height <= 0 {
		return 0, ErrEmptyBuffer
	}
	col := clampIndex(c.X*float32(v.width), v.width)
	row := clampIndex(c.Y*float32(v.height), v.height)
	return v.Pixel(col, row)
}

// clampIndex truncates p toward zero and clamps it to [0, dim-1].
// NaN lands on 0.
func clampIndex(p float32, dim int) int {
	if !(p > 0) {
		return 0
	}
	if p >= float32(dim-1) {
		return dim - 1
	}
	return int(p)
}

// Pixel decodes the pixel at an integer position.
//
// FormatBGRA8 reads the single byte at offset col of the row, the same
// element addressing used by the capture pipeline this decoder pairs with.
func (v View) Pixel(col, row int) (float32, error) {
	if col < 0 || col >= v.width || row < 0 || row >= v.height {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, col, row, v.width, v.height)
	}
	start := row * v.stride
	switch v.format {
	case FormatDepthFloat32:
		off := start + col*4
		return math.Float32frombits(binary.LittleEndian.Uint32(v.data[off : off+4])), nil
	case FormatBGRA8:
		return float32(v.data[start+col]) / float32(math.MaxUint8), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, v.format)
	}
}

// All yields every pixel in row-major order, rows 0..Height-1 and columns
// 0..Width-1. Pixels that cannot be decoded are yielded as 0.
func (v View) All() iter.Seq[float32] {
	return v.span(0, v.height, 0, v.width)
}

// Legacy yields the interior region used by the display export path:
// rows and columns starting at 1 and stopping before the last index.
func (v View) Legacy() iter.Seq[float32] {
	return v.span(1, v.height, 1, v.width)
}

func (v View) span(row0, row1, col0, col1 int) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		for row := row0; row < row1; row++ {
			for col := col0; col < col1; col++ {
				s, err := v.Pixel(col, row)
				if err != nil {
					s = 0
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Sample locks buf, decodes one normalized coordinate and unlocks.
func Sample(buf Buffer, c Coord) (float32, error) {
	var s float32
	err := Read(buf, func(v View) error {
		var err error
		s, err = v.Sample(c)
		return err
	})
	return s, err
}
