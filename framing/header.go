package framing

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
)

// magic is the 5-byte header prefix.
const magic = "DRACO"

// MajorVersion/MinorVersion are the bitstream version this implementation
// writes. Decode rejects a stream whose major version is newer than
// MajorVersion; the minor version is read but not checked.
const (
	MajorVersion = 1
	MinorVersion = 0
)

// EncoderType is the top-level byte identifying which codec produced the
// payload.
type EncoderType uint8

const (
	EncoderTypePointCloudSequential EncoderType = 0
	EncoderTypeMeshSequential       EncoderType = 1
	EncoderTypeMeshEdgebreaker      EncoderType = 2
)

// flag bits within the header's u16 flags field.
const (
	flagMetadataPresent uint16 = 1 << 0
)

// header is the fixed-size prefix of every compressed stream.
type header struct {
	encoderType   EncoderType
	encoderMethod uint8
	flags         uint16
}

func writeHeader(enc *buffer.EncoderBuffer, h header) error {
	if err := enc.WriteBytes([]byte(magic)); err != nil {
		return err
	}
	if err := enc.WriteUint8(MajorVersion); err != nil {
		return err
	}
	if err := enc.WriteUint8(MinorVersion); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(h.encoderType)); err != nil {
		return err
	}
	if err := enc.WriteUint8(h.encoderMethod); err != nil {
		return err
	}
	return enc.WriteUint16(h.flags)
}

func readHeader(dec *buffer.DecoderBuffer) (header, error) {
	var h header
	raw, err := dec.ReadBytes(len(magic))
	if err != nil {
		return h, err
	}
	if string(raw) != magic {
		return h, errs.Wrap("framing.readHeader", errs.KindCorruptBitstream, fmt.Errorf("framing: bad magic %q", raw))
	}
	major, err := dec.ReadUint8()
	if err != nil {
		return h, err
	}
	if major > MajorVersion {
		return h, errs.Wrap("framing.readHeader", errs.KindUnsupportedVersion, fmt.Errorf("framing: stream major version %d newer than supported %d", major, MajorVersion))
	}
	if _, err := dec.ReadUint8(); err != nil { // minor version: informational only
		return h, err
	}
	et, err := dec.ReadUint8()
	if err != nil {
		return h, err
	}
	h.encoderType = EncoderType(et)
	if h.encoderMethod, err = dec.ReadUint8(); err != nil {
		return h, err
	}
	if h.flags, err = dec.ReadUint16(); err != nil {
		return h, err
	}
	return h, nil
}
