package depth

import (
	"errors"
	"fmt"
)

// ErrNoValue is the root of every "nothing decodable" condition.
var ErrNoValue = errors.New("depth: no value")

var (
	ErrEmptyBuffer       = fmt.Errorf("%w: buffer has zero width or height", ErrNoValue)
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported pixel format", ErrNoValue)
	ErrLockFailed        = fmt.Errorf("%w: buffer lock failed", ErrNoValue)
	ErrShortBuffer       = fmt.Errorf("%w: buffer shorter than declared geometry", ErrNoValue)
	ErrOutOfRange        = fmt.Errorf("%w: pixel index out of range", ErrNoValue)
)
