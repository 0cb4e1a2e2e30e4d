package depth

import (
	"fmt"
	"strings"
)

// PixelFormat identifies the layout of one pixel in a frame buffer.
type PixelFormat uint8

const (
	FormatUnknown PixelFormat = iota
	// FormatDepthFloat32 holds one little-endian IEEE-754 float per pixel,
	// in meters.
	FormatDepthFloat32
	// FormatBGRA8 is an 8-bit four channel plane. Samples are normalized
	// to [0,1] by dividing by 255.
	FormatBGRA8
	// FormatOneComponent8 is a single byte per pixel, used by confidence
	// maps (levels 0..2).
	FormatOneComponent8
)

func (f PixelFormat) String() string {
	switch f {
	case FormatDepthFloat32:
		return "depth32"
	case FormatBGRA8:
		return "bgra8"
	case FormatOneComponent8:
		return "gray8"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the element size of the format, or 0 when unknown.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatDepthFloat32, FormatBGRA8:
		return 4
	case FormatOneComponent8:
		return 1
	default:
		return 0
	}
}

// ParsePixelFormat accepts the names produced by String.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "depth32", "depthfloat32":
		return FormatDepthFloat32, nil
	case "bgra8", "32bgra":
		return FormatBGRA8, nil
	case "gray8", "onecomponent8", "confidence":
		return FormatOneComponent8, nil
	}
	return FormatUnknown, fmt.Errorf("unknown pixel format %q", s)
}
