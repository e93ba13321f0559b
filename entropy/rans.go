// Package entropy implements the codec's symbol and bit entropy coders:
// an rANS symbol coder over a small alphabet, an adaptive rANS bit coder
// with a folded-32 variant for wider values, and a direct (unmodeled)
// bit coder for raw payloads.
//
// A frequency table is gathered up front, written compactly, then
// symbols are run through a single accumulating state.
package entropy

import (
	"fmt"
	"sort"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
)

const (
	// ransBase is the nominal rANS state-space base from which the
	// renormalization threshold below is derived.
	ransBase = uint64(1) << 32
	// ransRenormLower is the renorm threshold: the working state is
	// always kept in [ransRenormLower, ransRenormLower*256), which is
	// what both flush (32-bit write) and refill operate against.
	ransRenormLower = uint64(1) << 16

	// MaxSymbols bounds the alphabet size: 2^12.
	MaxSymbols = 1 << 12
	// MaxPrecisionBits bounds L = 2^r.
	MaxPrecisionBits = 12
)

// Table is a normalized frequency table: Freq sums exactly to
// 1<<PrecisionBits. CumFreq[s] is the exclusive prefix sum used by both
// encoder and decoder.
type Table struct {
	PrecisionBits uint
	Freq          []uint32
	CumFreq       []uint32
}

// BuildTable gathers symbol frequencies over symbols (each < alphabetSize)
// and normalizes them to sum exactly to 1<<precisionBits, distributing
// the rounding residue onto the symbol with the largest raw count (ties
// broken by the lowest symbol id).
func BuildTable(symbols []uint32, alphabetSize int, precisionBits uint) (*Table, error) {
	if alphabetSize <= 0 || alphabetSize > MaxSymbols {
		return nil, errs.Wrap("entropy.BuildTable", errs.KindUnsupportedFeature, fmt.Errorf("entropy: alphabet size %d exceeds bound %d", alphabetSize, MaxSymbols))
	}
	if precisionBits == 0 || precisionBits > MaxPrecisionBits {
		return nil, errs.Wrap("entropy.BuildTable", errs.KindInvalidParameter, fmt.Errorf("entropy: precision bits %d out of [1,%d]", precisionBits, MaxPrecisionBits))
	}
	counts := make([]uint64, alphabetSize)
	for _, s := range symbols {
		if int(s) >= alphabetSize {
			return nil, errs.Wrap("entropy.BuildTable", errs.KindCorruptBitstream, fmt.Errorf("entropy: symbol %d out of alphabet [0,%d)", s, alphabetSize))
		}
		counts[s]++
	}
	total := uint64(len(symbols))
	l := uint64(1) << precisionBits
	freq := make([]uint32, alphabetSize)
	if total == 0 {
		// Degenerate: no symbols at all. Give all of L to symbol 0 so the
		// table is still well-formed (never consulted by an empty decode).
		freq[0] = uint32(l)
		return &Table{PrecisionBits: precisionBits, Freq: freq, CumFreq: cumulative(freq)}, nil
	}
	var assigned uint64
	for s, c := range counts {
		if c == 0 {
			continue
		}
		f := c * l / total
		if f == 0 {
			f = 1
		}
		freq[s] = uint32(f)
		assigned += f
	}
	residue := int64(l) - int64(assigned)
	if residue != 0 {
		best := -1
		for s := range counts {
			if counts[s] == 0 {
				continue
			}
			if best == -1 || counts[s] > counts[best] {
				best = s
			}
		}
		if best == -1 {
			best = 0
			freq[0] = 0
			counts[0] = 1
		}
		nv := int64(freq[best]) + residue
		if nv < 1 {
			return nil, errs.Wrap("entropy.BuildTable", errs.KindInternal, fmt.Errorf("entropy: residue distribution underflowed symbol %d", best))
		}
		freq[best] = uint32(nv)
	}
	return &Table{PrecisionBits: precisionBits, Freq: freq, CumFreq: cumulative(freq)}, nil
}

func cumulative(freq []uint32) []uint32 {
	cum := make([]uint32, len(freq)+1)
	for i, f := range freq {
		cum[i+1] = cum[i] + f
	}
	return cum
}

// WriteTable serializes t as: a varint alphabet size, a uint8 precision
// bits, then for each symbol either a varint of its count plus one or
// (for runs of zero-frequency symbols) a zero varint followed by a
// varint run length.
func WriteTable(enc *buffer.EncoderBuffer, t *Table) error {
	if err := enc.WriteVarint(uint64(len(t.Freq))); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(t.PrecisionBits)); err != nil {
		return err
	}
	i := 0
	for i < len(t.Freq) {
		if t.Freq[i] != 0 {
			if err := enc.WriteVarint(uint64(t.Freq[i]) + 1); err != nil {
				return err
			}
			i++
			continue
		}
		run := 0
		for i+run < len(t.Freq) && t.Freq[i+run] == 0 {
			run++
		}
		if err := enc.WriteVarint(0); err != nil {
			return err
		}
		if err := enc.WriteVarint(uint64(run)); err != nil {
			return err
		}
		i += run
	}
	return nil
}

// ReadTable parses a table written by WriteTable and validates that the
// frequencies sum exactly to 1<<PrecisionBits.
func ReadTable(dec *buffer.DecoderBuffer) (*Table, error) {
	n, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n == 0 || n > MaxSymbols {
		return nil, errs.Wrap("entropy.ReadTable", errs.KindUnsupportedFeature, fmt.Errorf("entropy: alphabet size %d invalid", n))
	}
	pb8, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	precisionBits := uint(pb8)
	if precisionBits == 0 || precisionBits > MaxPrecisionBits {
		return nil, errs.Wrap("entropy.ReadTable", errs.KindCorruptBitstream, fmt.Errorf("entropy: precision bits %d invalid", precisionBits))
	}
	freq := make([]uint32, n)
	i := uint64(0)
	for i < n {
		v, err := dec.ReadVarint()
		if err != nil {
			return nil, err
		}
		if v != 0 {
			freq[i] = uint32(v - 1)
			i++
			continue
		}
		run, err := dec.ReadVarint()
		if err != nil {
			return nil, err
		}
		if i+run > n {
			return nil, errs.Wrap("entropy.ReadTable", errs.KindCorruptBitstream, fmt.Errorf("entropy: zero run overruns table"))
		}
		i += run
	}
	var sum uint64
	for _, f := range freq {
		sum += uint64(f)
	}
	if sum != uint64(1)<<precisionBits {
		return nil, errs.Wrap("entropy.ReadTable", errs.KindCorruptBitstream, fmt.Errorf("entropy: frequencies sum to %d, want %d", sum, uint64(1)<<precisionBits))
	}
	return &Table{PrecisionBits: precisionBits, Freq: freq, CumFreq: cumulative(freq)}, nil
}

// symbolForCumFreq finds s such that CumFreq[s] <= cf < CumFreq[s+1].
func (t *Table) symbolForCumFreq(cf uint32) int {
	// Table alphabets are small (<=4096); binary search over CumFreq is
	// fast enough and avoids a separate fallback for the linear case.
	idx := sort.Search(len(t.CumFreq), func(i int) bool { return t.CumFreq[i] > cf })
	return idx - 1
}

// EncodeSymbols rANS-encodes symbols (each < len(t.Freq)) against t,
// writing the frequency table followed by the coded state. Symbols are
// consumed in reverse order internally so the decoder, which must run
// forward, sees the same stream.
func EncodeSymbols(enc *buffer.EncoderBuffer, symbols []uint32, t *Table) error {
	if err := WriteTable(enc, t); err != nil {
		return err
	}
	// The working state lives in [ransRenormLower, ransRenormLower*256)
	// throughout, so the flushed value always fits the 32 bits written
	// below; seeding with ransBase (2^32) instead would let state grow
	// past 32 bits and get silently truncated on flush.
	state := ransRenormLower
	out := make([]byte, 0, len(symbols)/2+8)
	l := uint64(1) << t.PrecisionBits
	for i := len(symbols) - 1; i >= 0; i-- {
		s := symbols[i]
		if int(s) >= len(t.Freq) || t.Freq[s] == 0 {
			return errs.Wrap("entropy.EncodeSymbols", errs.KindCorruptBitstream, fmt.Errorf("entropy: symbol %d has zero frequency", s))
		}
		freq := uint64(t.Freq[s])
		cum := uint64(t.CumFreq[s])
		// Renormalize: emit low bytes while state would overflow after
		// rescaling by freq.
		maxState := ((ransRenormLower >> t.PrecisionBits) << 8) * freq
		for state >= maxState {
			out = append(out, byte(state&0xff))
			state >>= 8
		}
		state = (state/freq)*l + (state % freq) + cum
	}
	if err := enc.WriteUint32(uint32(state)); err != nil {
		return err
	}
	if err := enc.WriteVarint(uint64(len(out))); err != nil {
		return err
	}
	// out was built by appending bytes as they're emitted during a
	// reverse scan; the decoder consumes them last-emitted first, so
	// reverse before writing.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return enc.WriteBytes(out)
}

// DecodeSymbols reads a table and coded state written by EncodeSymbols and
// reconstructs count symbols in forward order.
func DecodeSymbols(dec *buffer.DecoderBuffer, count int) ([]uint32, *Table, error) {
	t, err := ReadTable(dec)
	if err != nil {
		return nil, nil, err
	}
	state64, err := dec.ReadUint32()
	if err != nil {
		return nil, nil, err
	}
	state := uint64(state64)
	nBytes, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, err
	}
	bytes, err := dec.ReadBytes(int(nBytes))
	if err != nil {
		return nil, nil, err
	}
	bp := 0
	l := uint64(1) << t.PrecisionBits
	mask := l - 1
	symbols := make([]uint32, count)
	for i := 0; i < count; i++ {
		cf := uint32(state & mask)
		s := t.symbolForCumFreq(cf)
		if s < 0 || s >= len(t.Freq) {
			return nil, nil, errs.Wrap("entropy.DecodeSymbols", errs.KindCorruptBitstream, fmt.Errorf("entropy: cumulative frequency %d maps to no symbol", cf))
		}
		symbols[i] = uint32(s)
		freq := uint64(t.Freq[s])
		cum := uint64(t.CumFreq[s])
		state = freq*(state>>t.PrecisionBits) + uint64(cf) - cum
		for state < ransRenormLower {
			if bp >= len(bytes) {
				return nil, nil, errs.Wrap("entropy.DecodeSymbols", errs.KindBufferUnderflow, fmt.Errorf("entropy: ran out of rANS input bytes"))
			}
			state = (state << 8) | uint64(bytes[bp])
			bp++
		}
	}
	return symbols, t, nil
}
