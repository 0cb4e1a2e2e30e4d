// Package depth decodes raw per-pixel sensor buffers (float depth maps,
// 8-bit colour/normalized planes and confidence maps) into scalar samples.
//
// Buffers are owned by the frame source. All reads go through Read, which
// holds the buffer's read lock for the duration of a callback and hands it
// a View: a borrowed, read-only byte view with a declared stride. Samples
// are copied float32 values, so nothing produced inside the callback
// aliases buffer memory after the lock is released.
//
// Functions in this package report "no value" through errors wrapping
// ErrNoValue rather than fabricating numbers. Bulk extraction never shrinks
// its output: pixels it cannot decode are emitted as 0.
package depth
