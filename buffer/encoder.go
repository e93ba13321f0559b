// Package buffer implements the codec's sequential byte and bit I/O: an
// append-only encoder buffer and a position-advancing decoder buffer,
// both little-endian on the wire regardless of host endianness, with a
// bit-mode sublayer for packed sub-byte fields using plain
// little-endian-within-byte bit packing.
package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-mesh-codec/errs"
)

// EncoderBuffer is an append-only byte sink with an optional bit-mode
// sublayer.
type EncoderBuffer struct {
	data []byte

	bitMode     bool
	bitSizePos  int // position of the size-prefix byte count, if encodeSizePrefix
	bitStart    int // byte offset where bit mode started writing
	bitCur      uint64
	bitCount    uint // number of valid low bits already packed into bitCur
	encSizePfx  bool
}

// NewEncoderBuffer creates an empty encoder buffer.
func NewEncoderBuffer() *EncoderBuffer {
	return &EncoderBuffer{}
}

// Bytes returns the accumulated byte slice. The slice is owned by the
// caller; further writes to the buffer may reallocate its own backing
// array without affecting a previously returned slice's contents, but a
// caller must not assume it can keep extending what it got back.
func (e *EncoderBuffer) Bytes() []byte {
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out
}

// Len returns the number of bytes written so far.
func (e *EncoderBuffer) Len() int { return len(e.data) }

// Reset clears the buffer for reuse.
func (e *EncoderBuffer) Reset() {
	e.data = e.data[:0]
	e.bitMode = false
}

func (e *EncoderBuffer) checkByteMode(op string) error {
	if e.bitMode {
		return errs.Wrap(op, errs.KindInvalidParameter, fmt.Errorf("buffer: byte write while bit mode is active"))
	}
	return nil
}

// WriteUint8 appends a single byte.
func (e *EncoderBuffer) WriteUint8(v uint8) error {
	if err := e.checkByteMode("buffer.WriteUint8"); err != nil {
		return err
	}
	e.data = append(e.data, v)
	return nil
}

// WriteUint16 appends v little-endian.
func (e *EncoderBuffer) WriteUint16(v uint16) error {
	if err := e.checkByteMode("buffer.WriteUint16"); err != nil {
		return err
	}
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.data = append(e.data, b[:]...)
	return nil
}

// WriteUint32 appends v little-endian.
func (e *EncoderBuffer) WriteUint32(v uint32) error {
	if err := e.checkByteMode("buffer.WriteUint32"); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.data = append(e.data, b[:]...)
	return nil
}

// WriteUint64 appends v little-endian.
func (e *EncoderBuffer) WriteUint64(v uint64) error {
	if err := e.checkByteMode("buffer.WriteUint64"); err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.data = append(e.data, b[:]...)
	return nil
}

// WriteFloat32 appends v as an IEEE-754 binary32, little-endian.
func (e *EncoderBuffer) WriteFloat32(v float32) error {
	return e.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends v as an IEEE-754 binary64, little-endian.
func (e *EncoderBuffer) WriteFloat64(v float64) error {
	return e.WriteUint64(math.Float64bits(v))
}

// WriteBytes appends b verbatim.
func (e *EncoderBuffer) WriteBytes(b []byte) error {
	if err := e.checkByteMode("buffer.WriteBytes"); err != nil {
		return err
	}
	e.data = append(e.data, b...)
	return nil
}

// WriteVarint appends v as an unsigned LEB128-style varint: 7 data bits
// per byte, high bit set means "more bytes follow".
func (e *EncoderBuffer) WriteVarint(v uint64) error {
	if err := e.checkByteMode("buffer.WriteVarint"); err != nil {
		return err
	}
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		e.data = append(e.data, b)
		if v == 0 {
			return nil
		}
	}
}

// WriteString appends s followed by a NUL terminator.
func (e *EncoderBuffer) WriteString(s string) error {
	if err := e.checkByteMode("buffer.WriteString"); err != nil {
		return err
	}
	e.data = append(e.data, s...)
	e.data = append(e.data, 0)
	return nil
}

// StartBitEncoding switches the buffer into bit mode. requiredBytes is a
// capacity hint (not a hard limit — the buffer still grows as needed). If
// encodeSizePrefix is set, a placeholder 4-byte little-endian uint32
// byte-count prefix is reserved and patched in by EndBitEncoding; the decoder symmetrically
// reads it in StartBitDecoding to know how many bytes to consume before
// returning to byte mode.
func (e *EncoderBuffer) StartBitEncoding(requiredBytes int, encodeSizePrefix bool) error {
	if e.bitMode {
		return errs.Wrap("buffer.StartBitEncoding", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode already active"))
	}
	e.bitMode = true
	e.encSizePfx = encodeSizePrefix
	e.bitCur = 0
	e.bitCount = 0
	if encodeSizePrefix {
		e.bitSizePos = len(e.data)
		e.data = append(e.data, 0, 0, 0, 0)
	}
	e.bitStart = len(e.data)
	if requiredBytes > 0 {
		if cap(e.data) < len(e.data)+requiredBytes {
			grown := make([]byte, len(e.data), len(e.data)+requiredBytes)
			copy(grown, e.data)
			e.data = grown
		}
	}
	return nil
}

// WriteBits packs the low n bits of v (0 <= n <= 64) into the flat bit
// stream, least-significant bit of the field first, so that bits land
// little-endian within each output byte: the k-th bit ever written
// occupies bit (k mod 8) of byte (k / 8).
func (e *EncoderBuffer) WriteBits(v uint64, n uint) error {
	if !e.bitMode {
		return errs.Wrap("buffer.WriteBits", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode not active"))
	}
	if n > 64 {
		return errs.Wrap("buffer.WriteBits", errs.KindInvalidParameter, fmt.Errorf("buffer: width %d > 64", n))
	}
	for i := uint(0); i < n; i++ {
		bit := (v >> i) & 1
		e.bitCur |= bit << e.bitCount
		e.bitCount++
		if e.bitCount == 8 {
			e.data = append(e.data, byte(e.bitCur))
			e.bitCur = 0
			e.bitCount = 0
		}
	}
	return nil
}

// EndBitEncoding flushes any partial byte (zero-padded in the high bits)
// and returns to byte mode, patching the size prefix if one was reserved.
func (e *EncoderBuffer) EndBitEncoding() error {
	if !e.bitMode {
		return errs.Wrap("buffer.EndBitEncoding", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode not active"))
	}
	if e.bitCount > 0 {
		e.data = append(e.data, byte(e.bitCur))
		e.bitCur = 0
		e.bitCount = 0
	}
	if e.encSizePfx {
		n := len(e.data) - e.bitStart
		binary.LittleEndian.PutUint32(e.data[e.bitSizePos:e.bitSizePos+4], uint32(n))
	}
	e.bitMode = false
	return nil
}
