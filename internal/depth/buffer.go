package depth

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// Buffer is a row-major frame buffer owned by a frame source. Rows may be
// padded, so BytesPerRow can exceed Width*PixelFormat().BytesPerPixel().
//
// Bytes is only valid between LockReadOnly and UnlockReadOnly. Callers
// normally use Read instead of locking by hand.
type Buffer interface {
	Width() int
	Height() int
	BytesPerRow() int
	PixelFormat() PixelFormat
	LockReadOnly() error
	UnlockReadOnly()
	Bytes() []byte
}

// MemBuffer is an in-memory Buffer. Readers share an RWMutex read lock;
// Update takes the write lock.
type MemBuffer struct {
	mu          sync.RWMutex
	width       int
	height      int
	bytesPerRow int
	format      PixelFormat
	data        []byte
}

// NewMemBuffer wraps data without copying it. The slice must hold at least
// bytesPerRow*height bytes and each row must fit width pixels of format.
func NewMemBuffer(width, height, bytesPerRow int, format PixelFormat, data []byte) (*MemBuffer, error) {
	if width < 0 || height < 0 || bytesPerRow < 0 {
		return nil, fmt.Errorf("negative buffer geometry %dx%d stride %d", width, height, bytesPerRow)
	}
	if bpp := format.BytesPerPixel(); bpp > 0 && bytesPerRow < width*bpp {
		return nil, fmt.Errorf("bytes_per_row %d too small for %d %s pixels", bytesPerRow, width, format)
	}
	if len(data) < bytesPerRow*height {
		return nil, fmt.Errorf("buffer holds %d bytes, geometry needs %d", len(data), bytesPerRow*height)
	}
	return &MemBuffer{
		width:       width,
		height:      height,
		bytesPerRow: bytesPerRow,
		format:      format,
		data:        data,
	}, nil
}

// NewDepthBuffer builds a FormatDepthFloat32 buffer from row-major values,
// adding padding bytes to the end of every row.
func NewDepthBuffer(width, height, padding int, values []float32) (*MemBuffer, error) {
	if len(values) != width*height {
		return nil, fmt.Errorf("got %d depth values for %dx%d buffer", len(values), width, height)
	}
	stride := width*4 + padding
	data := make([]byte, stride*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			off := row*stride + col*4
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(values[row*width+col]))
		}
	}
	return NewMemBuffer(width, height, stride, FormatDepthFloat32, data)
}

// NewConfidenceBuffer builds a FormatOneComponent8 buffer from row-major
// confidence levels.
func NewConfidenceBuffer(width, height, padding int, levels []byte) (*MemBuffer, error) {
	if len(levels) != width*height {
		return nil, fmt.Errorf("got %d confidence levels for %dx%d buffer", len(levels), width, height)
	}
	stride := width + padding
	data := make([]byte, stride*height)
	for row := 0; row < height; row++ {
		copy(data[row*stride:], levels[row*width:(row+1)*width])
	}
	return NewMemBuffer(width, height, stride, FormatOneComponent8, data)
}

func (b *MemBuffer) Width() int               { return b.width }
func (b *MemBuffer) Height() int              { return b.height }
func (b *MemBuffer) BytesPerRow() int         { return b.bytesPerRow }
func (b *MemBuffer) PixelFormat() PixelFormat { return b.format }

// LockReadOnly acquires the shared read lock. It never fails for MemBuffer.
func (b *MemBuffer) LockReadOnly() error {
	b.mu.RLock()
	return nil
}

func (b *MemBuffer) UnlockReadOnly() { b.mu.RUnlock() }

// Bytes returns the backing storage. Only valid while locked.
func (b *MemBuffer) Bytes() []byte { return b.data }

// Update runs fn with exclusive access to the backing storage, for frame
// sources that reuse one buffer across frames.
func (b *MemBuffer) Update(fn func(data []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.data)
}
