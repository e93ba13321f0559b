package entropy

import "github.com/cocosip/go-mesh-codec/buffer"

// DirectBitWriter writes fixed-width bit fields with no probability
// model: raw payloads, fallback paths, and small headers. It is a thin
// named wrapper over buffer's bit-mode sublayer so call sites that need
// unmodeled bits read clearly next to the modeled rANS coders above.
type DirectBitWriter struct {
	enc *buffer.EncoderBuffer
}

// NewDirectBitWriter wraps enc, which must already be in bit mode
// (buffer.EncoderBuffer.StartBitEncoding).
func NewDirectBitWriter(enc *buffer.EncoderBuffer) *DirectBitWriter {
	return &DirectBitWriter{enc: enc}
}

// WriteBits writes the low n bits of v.
func (w *DirectBitWriter) WriteBits(v uint64, n uint) error {
	return w.enc.WriteBits(v, n)
}

// DirectBitReader is the DecoderBuffer-side counterpart of DirectBitWriter.
type DirectBitReader struct {
	dec *buffer.DecoderBuffer
}

// NewDirectBitReader wraps dec, which must already be in bit mode
// (buffer.DecoderBuffer.StartBitDecoding).
func NewDirectBitReader(dec *buffer.DecoderBuffer) *DirectBitReader {
	return &DirectBitReader{dec: dec}
}

// ReadBits reads n bits.
func (r *DirectBitReader) ReadBits(n uint) (uint64, error) {
	return r.dec.ReadBits(n)
}
