package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-mesh-codec/errs"
)

// DecoderBuffer is a position-advancing byte source with the bit-mode
// sublayer symmetric to EncoderBuffer.
type DecoderBuffer struct {
	data []byte
	pos  int

	bitMode  bool
	bitEnd   int // byte offset bit mode must stop at (when a size prefix was read)
	bitCur   uint64
	bitCount uint
}

// NewDecoderBuffer wraps data for sequential reading. The slice is
// borrowed for the lifetime of the DecoderBuffer.
func NewDecoderBuffer(data []byte) *DecoderBuffer {
	return &DecoderBuffer{data: data}
}

// Position returns the current byte offset.
func (d *DecoderBuffer) Position() int { return d.pos }

// SetPosition seeks to an arbitrary byte offset (decoder-only random
// access).
func (d *DecoderBuffer) SetPosition(pos int) error {
	if pos < 0 || pos > len(d.data) {
		return errs.Wrap("buffer.SetPosition", errs.KindBufferUnderflow, fmt.Errorf("buffer: position %d out of range [0,%d]", pos, len(d.data)))
	}
	d.pos = pos
	return nil
}

// DecodedSize returns the total number of bytes available.
func (d *DecoderBuffer) DecodedSize() int { return len(d.data) }

// RemainingSize returns the number of unread bytes.
func (d *DecoderBuffer) RemainingSize() int { return len(d.data) - d.pos }

func (d *DecoderBuffer) checkByteMode(op string) error {
	if d.bitMode {
		return errs.Wrap(op, errs.KindInvalidParameter, fmt.Errorf("buffer: byte read while bit mode is active"))
	}
	return nil
}

func (d *DecoderBuffer) need(op string, n int) error {
	if d.pos+n > len(d.data) {
		return errs.Wrap(op, errs.KindBufferUnderflow, fmt.Errorf("buffer: need %d bytes, have %d", n, len(d.data)-d.pos))
	}
	return nil
}

// ReadUint8 reads a single byte.
func (d *DecoderBuffer) ReadUint8() (uint8, error) {
	if err := d.checkByteMode("buffer.ReadUint8"); err != nil {
		return 0, err
	}
	if err := d.need("buffer.ReadUint8", 1); err != nil {
		return 0, err
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

// ReadUint16 reads a little-endian uint16.
func (d *DecoderBuffer) ReadUint16() (uint16, error) {
	if err := d.checkByteMode("buffer.ReadUint16"); err != nil {
		return 0, err
	}
	if err := d.need("buffer.ReadUint16", 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (d *DecoderBuffer) ReadUint32() (uint32, error) {
	if err := d.checkByteMode("buffer.ReadUint32"); err != nil {
		return 0, err
	}
	if err := d.need("buffer.ReadUint32", 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (d *DecoderBuffer) ReadUint64() (uint64, error) {
	if err := d.checkByteMode("buffer.ReadUint64"); err != nil {
		return 0, err
	}
	if err := d.need("buffer.ReadUint64", 8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

// ReadFloat32 reads an IEEE-754 binary32.
func (d *DecoderBuffer) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE-754 binary64.
func (d *DecoderBuffer) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes reads and returns n raw bytes (a copy, safe to retain).
func (d *DecoderBuffer) ReadBytes(n int) ([]byte, error) {
	if err := d.checkByteMode("buffer.ReadBytes"); err != nil {
		return nil, err
	}
	if err := d.need("buffer.ReadBytes", n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, d.data[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}

// ReadVarint reads an unsigned LEB128-style varint.
func (d *DecoderBuffer) ReadVarint() (uint64, error) {
	if err := d.checkByteMode("buffer.ReadVarint"); err != nil {
		return 0, err
	}
	var v uint64
	var shift uint
	for {
		if shift >= 70 {
			return 0, errs.Wrap("buffer.ReadVarint", errs.KindCorruptBitstream, fmt.Errorf("buffer: varint too long"))
		}
		b, err := d.ReadUint8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// ReadString reads bytes up to and including the next NUL terminator and
// returns the string without it.
func (d *DecoderBuffer) ReadString() (string, error) {
	if err := d.checkByteMode("buffer.ReadString"); err != nil {
		return "", err
	}
	start := d.pos
	for {
		b, err := d.ReadUint8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(d.data[start : d.pos-1]), nil
		}
	}
}

// StartBitDecoding switches into bit mode. If decodeSizePrefix is set, a
// 4-byte little-endian byte count is read first and used to bound how
// much of the stream bit mode may consume; EndBitDecoding then seeks past
// any bits the encoder reserved but didn't use. The count, when present,
// is returned to the caller for diagnostics.
func (d *DecoderBuffer) StartBitDecoding(decodeSizePrefix bool) (numBytes int, err error) {
	if d.bitMode {
		return 0, errs.Wrap("buffer.StartBitDecoding", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode already active"))
	}
	if decodeSizePrefix {
		n, err := d.ReadUint32()
		if err != nil {
			return 0, err
		}
		numBytes = int(n)
		d.bitEnd = d.pos + numBytes
		if d.bitEnd > len(d.data) {
			return 0, errs.Wrap("buffer.StartBitDecoding", errs.KindBufferUnderflow, fmt.Errorf("buffer: declared bit region %d bytes exceeds remaining %d", numBytes, len(d.data)-d.pos))
		}
	} else {
		d.bitEnd = len(d.data)
	}
	d.bitMode = true
	d.bitCur = 0
	d.bitCount = 0
	return numBytes, nil
}

// ReadBits reads n bits (0 <= n <= 64) packed the way EncoderBuffer.WriteBits
// wrote them: least-significant bit of the stream first.
func (d *DecoderBuffer) ReadBits(n uint) (uint64, error) {
	if !d.bitMode {
		return 0, errs.Wrap("buffer.ReadBits", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode not active"))
	}
	if n > 64 {
		return 0, errs.Wrap("buffer.ReadBits", errs.KindInvalidParameter, fmt.Errorf("buffer: width %d > 64", n))
	}
	var v uint64
	for i := uint(0); i < n; i++ {
		if d.bitCount == 0 {
			if d.pos >= d.bitEnd {
				return 0, errs.Wrap("buffer.ReadBits", errs.KindBufferUnderflow, fmt.Errorf("buffer: read past end of bit region"))
			}
			d.bitCur = uint64(d.data[d.pos])
			d.pos++
			d.bitCount = 8
		}
		bit := d.bitCur & 1
		d.bitCur >>= 1
		d.bitCount--
		v |= bit << i
	}
	return v, nil
}

// EndBitDecoding returns to byte mode. If a size prefix was declared on
// encode, the position is snapped to the end of that declared region so
// any unused padding bits are skipped cleanly.
func (d *DecoderBuffer) EndBitDecoding() error {
	if !d.bitMode {
		return errs.Wrap("buffer.EndBitDecoding", errs.KindInvalidParameter, fmt.Errorf("buffer: bit mode not active"))
	}
	d.bitMode = false
	if d.pos < d.bitEnd {
		d.pos = d.bitEnd
	}
	d.bitCur = 0
	d.bitCount = 0
	return nil
}
