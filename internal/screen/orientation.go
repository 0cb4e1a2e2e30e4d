package screen

import (
	"fmt"
	"strings"
)

// Orientation is the interface orientation the viewport is displayed in.
type Orientation uint8

const (
	OrientationUnknown Orientation = iota
	Portrait
	PortraitUpsideDown
	LandscapeLeft
	LandscapeRight
)

// IsPortrait reports whether o belongs to the portrait family.
func (o Orientation) IsPortrait() bool {
	return o == Portrait || o == PortraitUpsideDown
}

// IsLandscape reports whether o belongs to the landscape family.
func (o Orientation) IsLandscape() bool {
	return o == LandscapeLeft || o == LandscapeRight
}

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case PortraitUpsideDown:
		return "portrait-upside-down"
	case LandscapeLeft:
		return "landscape-left"
	case LandscapeRight:
		return "landscape-right"
	default:
		return "unknown"
	}
}

// ParseOrientation accepts the names produced by String.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait":
		return Portrait, nil
	case "portrait-upside-down", "upside-down":
		return PortraitUpsideDown, nil
	case "landscape-left":
		return LandscapeLeft, nil
	case "landscape-right", "landscape":
		return LandscapeRight, nil
	case "unknown", "":
		return OrientationUnknown, nil
	}
	return OrientationUnknown, fmt.Errorf("unknown orientation %q", s)
}
