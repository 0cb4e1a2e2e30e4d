package depth

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Dump files carry one captured frame buffer so tools can replay it
// offline. Layout, little-endian:
//
//	"DPTH" | version u8 | format u8 | width u32 | height u32 | bytes_per_row u32 | data
const (
	dumpMagic   = "DPTH"
	dumpVersion = 1
	// maxDumpBytes bounds the payload accepted by ReadDump (256 MiB).
	maxDumpBytes = 256 << 20
)

type dumpHeader struct {
	Magic       [4]byte
	Version     uint8
	Format      uint8
	Width       uint32
	Height      uint32
	BytesPerRow uint32
}

// WriteDump serialises buf to w.
func WriteDump(w io.Writer, buf Buffer) error {
	return Read(buf, func(v View) error {
		h := dumpHeader{
			Version:     dumpVersion,
			Format:      uint8(v.format),
			Width:       uint32(v.width),
			Height:      uint32(v.height),
			BytesPerRow: uint32(v.stride),
		}
		copy(h.Magic[:], dumpMagic)

		bw := bufio.NewWriter(w)
		if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
			return fmt.Errorf("write dump header: %w", err)
		}
		n := v.stride * v.height
		if n > len(v.data) {
			n = len(v.data)
		}
		if _, err := bw.Write(v.data[:n]); err != nil {
			return fmt.Errorf("write dump data: %w", err)
		}
		// Keep the declared geometry readable when the last row was short.
		if pad := v.stride*v.height - n; pad > 0 {
			if _, err := bw.Write(make([]byte, pad)); err != nil {
				return fmt.Errorf("write dump padding: %w", err)
			}
		}
		return bw.Flush()
	})
}

// ReadDump parses a dump written by WriteDump into a new MemBuffer.
func ReadDump(r io.Reader) (*MemBuffer, error) {
	var h dumpHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read dump header: %w", err)
	}
	if string(h.Magic[:]) != dumpMagic {
		return nil, fmt.Errorf("not a depth dump: magic %q", h.Magic[:])
	}
	if h.Version != dumpVersion {
		return nil, fmt.Errorf("unsupported dump version %d", h.Version)
	}
	size := uint64(h.BytesPerRow) * uint64(h.Height)
	if size > maxDumpBytes {
		return nil, fmt.Errorf("dump payload too large: %d bytes (max %d)", size, maxDumpBytes)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read dump data: %w", err)
	}
	return NewMemBuffer(int(h.Width), int(h.Height), int(h.BytesPerRow), PixelFormat(h.Format), data)
}
