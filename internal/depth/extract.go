package depth

import (
	"encoding/binary"
	"math"
	"slices"
)

// Grid is a dense, row-major image of decoded samples.
type Grid struct {
	Width  int
	Height int
	Pix    []float32
}

// NewGrid allocates a zeroed width x height grid.
func NewGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Grid{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the sample at (x, y). Out-of-range positions return NaN.
func (g *Grid) At(x, y int) float32 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return float32(math.NaN())
	}
	return g.Pix[y*g.Width+x]
}

// Set stores a sample at (x, y); out-of-range positions are ignored.
func (g *Grid) Set(x, y int, s float32) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = s
}

// Empty reports whether the grid has no pixels.
func (g *Grid) Empty() bool { return g == nil || g.Width == 0 || g.Height == 0 }

// ExtractAll decodes every pixel of buf in row-major order. The result has
// exactly Width*Height samples; undecodable pixels are 0. A zero-sized
// buffer or a failed lock returns an empty slice and an error wrapping
// ErrNoValue.
func ExtractAll(buf Buffer) ([]float32, error) {
	var out []float32
	err := Read(buf, func(v View) error {
		if v.width <= 0 || v.height <= 0 {
			return ErrEmptyBuffer
		}
		out = make([]float32, 0, v.width*v.height)
		out = slices.AppendSeq(out, v.All())
		return nil
	})
	if err != nil {
		return []float32{}, err
	}
	return out, nil
}

// ExtractLegacy decodes the interior region written by the display export
// path: (Width-1)*(Height-1) samples, skipping the first row and column.
func ExtractLegacy(buf Buffer) ([]float32, error) {
	var out []float32
	err := Read(buf, func(v View) error {
		if v.width <= 0 || v.height <= 0 {
			return ErrEmptyBuffer
		}
		out = make([]float32, 0, (v.width-1)*(v.height-1))
		out = slices.AppendSeq(out, v.Legacy())
		return nil
	})
	if err != nil {
		return []float32{}, err
	}
	return out, nil
}

// ExtractRows returns the legacy interior region sliced into rows.
func ExtractRows(buf Buffer) ([][]float32, error) {
	flat, err := ExtractLegacy(buf)
	if err != nil {
		return [][]float32{}, err
	}
	cols := buf.Width() - 1
	if cols <= 0 {
		return [][]float32{}, nil
	}
	rows := make([][]float32, 0, len(flat)/cols)
	for chunk := range slices.Chunk(flat, cols) {
		rows = append(rows, chunk)
	}
	return rows, nil
}

// ExtractGrid decodes buf into a Grid using the same range as ExtractAll.
func ExtractGrid(buf Buffer) (*Grid, error) {
	pix, err := ExtractAll(buf)
	if err != nil {
		return NewGrid(0, 0), err
	}
	return &Grid{Width: buf.Width(), Height: buf.Height(), Pix: pix}, nil
}

// EncodeFloat32LE serialises samples as consecutive little-endian float32
// values, four bytes each.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

// DecodeFloat32LE is the inverse of EncodeFloat32LE. Trailing bytes that do
// not form a whole value are ignored.
func DecodeFloat32LE(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
