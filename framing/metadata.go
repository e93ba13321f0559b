package framing

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
)

// Metadata is a length-prefixed sequence of (key, value) pairs attached
// to a geometry or one of its attributes. Entries preserve insertion
// order: they are read back in the order they were written rather than
// into a map.
type Metadata struct {
	Keys   []string
	Values [][]byte
}

// Set appends or overwrites the value for key, preserving first-insertion
// order.
func (m *Metadata) Set(key string, value []byte) {
	for i, k := range m.Keys {
		if k == key {
			m.Values[i] = value
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

// Get returns the value for key, if present.
func (m *Metadata) Get(key string) ([]byte, bool) {
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}
	return nil, false
}

// zstdCompressThreshold is the raw metadata size above which the block
// is zstd-compressed. Below it, the flagged compression would cost more
// bytes in framing overhead than it could save.
const zstdCompressThreshold = 256

func encodeMetadataPlain(m *Metadata) []byte {
	enc := buffer.NewEncoderBuffer()
	_ = enc.WriteVarint(uint64(len(m.Keys)))
	for i, k := range m.Keys {
		_ = enc.WriteString(k)
		_ = enc.WriteVarint(uint64(len(m.Values[i])))
		_ = enc.WriteBytes(m.Values[i])
	}
	return enc.Bytes()
}

// writeMetadata serializes m (possibly empty) into enc, compressing the
// key/value block with zstd when it is large enough to be worth the
// dictionary overhead. Returns whether anything was written (callers use
// this to decide the header's metadata-present flag).
func writeMetadata(enc *buffer.EncoderBuffer, m *Metadata) (present bool, err error) {
	if m == nil || len(m.Keys) == 0 {
		return false, nil
	}
	plain := encodeMetadataPlain(m)
	compressed := false
	payload := plain
	if len(plain) >= zstdCompressThreshold {
		zw, werr := zstd.NewWriter(nil)
		if werr != nil {
			return false, errs.Wrap("framing.writeMetadata", errs.KindInternal, werr)
		}
		out := zw.EncodeAll(plain, nil)
		_ = zw.Close()
		if len(out) < len(plain) {
			payload = out
			compressed = true
		}
	}
	if err := enc.WriteUint8(boolByte(compressed)); err != nil {
		return false, err
	}
	if err := enc.WriteVarint(uint64(len(payload))); err != nil {
		return false, err
	}
	if err := enc.WriteBytes(payload); err != nil {
		return false, err
	}
	return true, nil
}

func readMetadata(dec *buffer.DecoderBuffer) (*Metadata, error) {
	compressedByte, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	n, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	payload, err := dec.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	plain := payload
	if compressedByte != 0 {
		zr, rerr := zstd.NewReader(bytes.NewReader(payload))
		if rerr != nil {
			return nil, errs.Wrap("framing.readMetadata", errs.KindCorruptBitstream, rerr)
		}
		defer zr.Close()
		out, rerr := io.ReadAll(zr)
		if rerr != nil {
			return nil, errs.Wrap("framing.readMetadata", errs.KindCorruptBitstream, rerr)
		}
		plain = out
	}
	inner := buffer.NewDecoderBuffer(plain)
	count, err := inner.ReadVarint()
	if err != nil {
		return nil, err
	}
	m := &Metadata{}
	for i := uint64(0); i < count; i++ {
		k, err := inner.ReadString()
		if err != nil {
			return nil, err
		}
		vn, err := inner.ReadVarint()
		if err != nil {
			return nil, err
		}
		v, err := inner.ReadBytes(int(vn))
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, k)
		m.Values = append(m.Values, v)
	}
	return m, nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
