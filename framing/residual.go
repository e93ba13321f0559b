package framing

import (
	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/entropy"
	"github.com/cocosip/go-mesh-codec/prediction"
)

// residualAlphabet is the number of distinct bit-lengths a zig-zag mapped
// int32 residual can take (0 through 32 inclusive).
const residualAlphabet = 33

// residualPrecisionBits is fixed at the entropy package's maximum; the
// rANS symbol coder normalizes any input frequency distribution to this
// precision regardless of how many residuals are coded.
const residualPrecisionBits = entropy.MaxPrecisionBits

// encodeResidualStream entropy-codes a sequence of signed residuals:
// each residual's zig-zag bit-length is rANS-coded against a frequency
// table (an alphabet small enough for the symbol coder), then the low
// bits of the value (all but the implicit leading one) are written as a
// direct bit field, avoiding a magnitude bound on the residual itself
// the way a raw fixed-alphabet symbol coder would impose.
func encodeResidualStream(enc *buffer.EncoderBuffer, residuals []int32) error {
	symbols := make([]uint32, len(residuals))
	lengths := make([]uint32, len(residuals))
	for i, r := range residuals {
		u := prediction.ZigZag(r)
		symbols[i] = u
		lengths[i] = uint32(residualBitLength(u))
	}
	table, err := entropy.BuildTable(lengths, residualAlphabet, residualPrecisionBits)
	if err != nil {
		return err
	}
	if err := entropy.EncodeSymbols(enc, lengths, table); err != nil {
		return err
	}
	if err := enc.StartBitEncoding(0, true); err != nil {
		return err
	}
	w := entropy.NewDirectBitWriter(enc)
	for i, u := range symbols {
		l := lengths[i]
		if l == 0 {
			continue
		}
		low := uint64(u) &^ (uint64(1) << (l - 1))
		if err := w.WriteBits(low, uint(l-1)); err != nil {
			return err
		}
	}
	return enc.EndBitEncoding()
}

// decodeResidualStream inverts encodeResidualStream.
func decodeResidualStream(dec *buffer.DecoderBuffer, count int) ([]int32, error) {
	lengths, _, err := entropy.DecodeSymbols(dec, count)
	if err != nil {
		return nil, err
	}
	if _, err := dec.StartBitDecoding(true); err != nil {
		return nil, err
	}
	r := entropy.NewDirectBitReader(dec)
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		l := lengths[i]
		if l == 0 {
			out[i] = prediction.UnZigZag(0)
			continue
		}
		low, err := r.ReadBits(uint(l - 1))
		if err != nil {
			return nil, err
		}
		u := (uint32(1) << (l - 1)) | uint32(low)
		out[i] = prediction.UnZigZag(u)
	}
	if err := dec.EndBitDecoding(); err != nil {
		return nil, err
	}
	return out, nil
}

func residualBitLength(v uint32) int {
	n := 0
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}
