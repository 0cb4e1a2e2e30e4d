package depth

import (
	"fmt"
	"math"
)

// MaxConfidence is the highest confidence level a sensor reports
// (low=0, medium=1, high=2).
const MaxConfidence = 2

// ToIntensity rescales a confidence level into an 8-bit visualization
// intensity: floor(level/MaxConfidence*255). Levels above MaxConfidence
// are treated as no confidence and map to 0.
func ToIntensity(level uint8) uint8 {
	if level > MaxConfidence {
		return 0
	}
	return uint8(math.Floor(float64(float32(level) / float32(MaxConfidence) * 255)))
}

// RemapConfidence converts a FormatOneComponent8 confidence buffer into a
// dense Width*Height intensity plane. The source buffer is not modified.
func RemapConfidence(buf Buffer) ([]byte, error) {
	var out []byte
	err := Read(buf, func(v View) error {
		if v.width <= 0 || v.height <= 0 {
			return ErrEmptyBuffer
		}
		if v.format != FormatOneComponent8 {
			return fmt.Errorf("%w: confidence remap needs %s, got %s", ErrUnsupportedFormat, FormatOneComponent8, v.format)
		}
		out = make([]byte, v.width*v.height)
		for row := 0; row < v.height; row++ {
			src := v.data[row*v.stride : row*v.stride+v.width]
			dst := out[row*v.width : (row+1)*v.width]
			for i, level := range src {
				dst[i] = ToIntensity(level)
			}
		}
		return nil
	})
	if err != nil {
		return []byte{}, err
	}
	return out, nil
}

// ConfidenceGrid is RemapConfidence scaled to [0,1] samples, ready for the
// same rendering path as depth grids.
func ConfidenceGrid(buf Buffer) (*Grid, error) {
	plane, err := RemapConfidence(buf)
	if err != nil {
		return NewGrid(0, 0), err
	}
	g := NewGrid(buf.Width(), buf.Height())
	for i, b := range plane {
		g.Pix[i] = float32(b) / float32(math.MaxUint8)
	}
	return g, nil
}
