package entropy

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
)

// probBits is the quantization width of the adaptive bit probability.
const probBits = 8
const probMax = uint32(1) << probBits
const probHalf = probMax / 2

// RansBitEncoder encodes individual bits against an online-adapted
// probability estimate. It keeps a windowed count of ones vs. total
// bits, matching the decoder's adaptation so the two never diverge.
type RansBitEncoder struct {
	bits  []bool
	model *bitModel
}

// NewRansBitEncoder creates an empty bit sequence accumulator with a
// fresh (p=0.5) adaptive model.
func NewRansBitEncoder() *RansBitEncoder {
	return &RansBitEncoder{model: newBitModel()}
}

// EncodeBit appends bit to the pending sequence and advances the model.
func (e *RansBitEncoder) EncodeBit(bit bool) {
	e.bits = append(e.bits, bit)
	e.model.update(bit)
}

// Flush rANS-encodes the accumulated bits (using the probability each bit
// was observed under, recomputed by replaying the same adaptation from a
// fresh model so encoder and decoder start identically) and writes the
// coded stream to enc.
func (e *RansBitEncoder) Flush(enc *buffer.EncoderBuffer) error {
	// Recompute per-bit probabilities from a fresh model replay so the
	// table written matches exactly what the decoder will derive.
	m := newBitModel()
	probs := make([]uint32, len(e.bits))
	for i, b := range e.bits {
		probs[i] = m.probOfOne()
		m.update(b)
	}
	// See EncodeSymbols in rans.go: the working state must stay within
	// [ransRenormLower, ransRenormLower*256) so the 32-bit flush below
	// never truncates it.
	state := ransRenormLower
	out := make([]byte, 0, len(e.bits)/4+8)
	for i := len(e.bits) - 1; i >= 0; i-- {
		p1 := probs[i]
		bit := e.bits[i]
		var freq, cum uint64
		if bit {
			freq, cum = uint64(p1), 0
		} else {
			freq, cum = uint64(probMax-p1), uint64(p1)
		}
		if freq == 0 {
			freq = 1
		}
		maxState := ((ransRenormLower >> probBits) << 8) * freq
		for state >= maxState {
			out = append(out, byte(state&0xff))
			state >>= 8
		}
		state = (state/freq)*uint64(probMax) + (state % freq) + cum
	}
	if err := enc.WriteUint32(uint32(state)); err != nil {
		return err
	}
	if err := enc.WriteVarint(uint64(len(e.bits))); err != nil {
		return err
	}
	if err := enc.WriteVarint(uint64(len(out))); err != nil {
		return err
	}
	// The decoder consumes renorm bytes last-emitted first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return enc.WriteBytes(out)
}

// RansBitDecoder is the inverse of RansBitEncoder: it must be fed the
// exact number of bits the encoder flushed (read from the stream) and
// reproduces them in original order, adapting identically.
type RansBitDecoder struct {
	state uint64
	bytes []byte
	bp    int
	n     int
	i     int
	model *bitModel
}

// NewRansBitDecoder reads the header Flush wrote and prepares to decode
// its bits one at a time via DecodeBit.
func NewRansBitDecoder(dec *buffer.DecoderBuffer) (*RansBitDecoder, error) {
	state64, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	n64, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	nBytes, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	bytes, err := dec.ReadBytes(int(nBytes))
	if err != nil {
		return nil, err
	}
	return &RansBitDecoder{state: uint64(state64), bytes: bytes, n: int(n64), model: newBitModel()}, nil
}

// Remaining reports how many bits are left to decode.
func (d *RansBitDecoder) Remaining() int { return d.n - d.i }

// DecodeBit decodes the next bit.
func (d *RansBitDecoder) DecodeBit() (bool, error) {
	if d.i >= d.n {
		return false, errs.Wrap("entropy.RansBitDecoder.DecodeBit", errs.KindCorruptBitstream, fmt.Errorf("entropy: no more bits to decode"))
	}
	p1 := d.model.probOfOne()
	cf := uint32(d.state % uint64(probMax))
	bit := cf < p1
	var freq, cum uint64
	if bit {
		freq, cum = uint64(p1), 0
	} else {
		freq, cum = uint64(probMax-p1), uint64(p1)
	}
	if freq == 0 {
		freq = 1
	}
	d.state = freq*(d.state/uint64(probMax)) + uint64(cf) - cum
	for d.state < ransRenormLower {
		if d.bp >= len(d.bytes) {
			return false, errs.Wrap("entropy.RansBitDecoder.DecodeBit", errs.KindBufferUnderflow, fmt.Errorf("entropy: ran out of bit-coder input"))
		}
		d.state = (d.state << 8) | uint64(d.bytes[d.bp])
		d.bp++
	}
	d.model.update(bit)
	d.i++
	return bit, nil
}

// bitModel is a simple sliding-window adaptive probability estimator:
// probability of a 1 is (ones / total), quantized to probBits, clamped
// away from the extremes so freq is never zero.
type bitModel struct {
	ones  uint32
	total uint32
}

const bitModelWindow = 1 << 12

func newBitModel() *bitModel { return &bitModel{ones: bitModelWindow / 2, total: bitModelWindow} }

func (m *bitModel) probOfOne() uint32 {
	p := uint32(uint64(m.ones) * uint64(probMax) / uint64(m.total))
	if p == 0 {
		p = 1
	}
	if p >= probMax {
		p = probMax - 1
	}
	return p
}

func (m *bitModel) update(bit bool) {
	if bit {
		m.ones++
	}
	m.total++
	if m.total >= bitModelWindow*2 {
		m.ones /= 2
		m.total /= 2
	}
}

// EncodeFolded32 implements the folded-32 coder: the low headBits bits
// of v select a symbol coded through an rANS bit-probability head, and
// the remaining bits are written as a direct fixed-width tail. Values
// are expected to fit in 32 bits.
func EncodeFolded32(bitEnc *RansBitEncoder, direct *DirectBitWriter, v uint32, headBits, tailBits uint) error {
	if headBits+tailBits < 32 && v>>(headBits+tailBits) != 0 {
		return errs.Wrap("entropy.EncodeFolded32", errs.KindInvalidParameter, fmt.Errorf("entropy: value %d does not fit in %d+%d bits", v, headBits, tailBits))
	}
	head := v & ((1 << headBits) - 1)
	for i := uint(0); i < headBits; i++ {
		bitEnc.EncodeBit((head>>i)&1 != 0)
	}
	tail := v >> headBits
	return direct.WriteBits(uint64(tail), tailBits)
}

// DecodeFolded32 is the inverse of EncodeFolded32.
func DecodeFolded32(bitDec *RansBitDecoder, direct *DirectBitReader, headBits, tailBits uint) (uint32, error) {
	var head uint32
	for i := uint(0); i < headBits; i++ {
		b, err := bitDec.DecodeBit()
		if err != nil {
			return 0, err
		}
		if b {
			head |= 1 << i
		}
	}
	tail, err := direct.ReadBits(tailBits)
	if err != nil {
		return 0, err
	}
	return head | (uint32(tail) << headBits), nil
}
