package framing

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
	"github.com/cocosip/go-mesh-codec/transform"
)

// attrWireMeta is the per-attribute header: semantic, data type,
// quantization params, and chosen prediction scheme.
type attrWireMeta struct {
	semantic      geometry.AttributeType
	dataType      geometry.DataType
	numComponents int
	normalized    bool
	quantBits     uint
	scheme        prediction.Scheme
}

func writeAttrMeta(enc *buffer.EncoderBuffer, m attrWireMeta) error {
	if err := enc.WriteUint8(uint8(m.semantic)); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(m.dataType)); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(m.numComponents)); err != nil {
		return err
	}
	if err := enc.WriteUint8(boolByte(m.normalized)); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(m.quantBits)); err != nil {
		return err
	}
	return enc.WriteUint8(uint8(m.scheme))
}

func readAttrMeta(dec *buffer.DecoderBuffer) (attrWireMeta, error) {
	var m attrWireMeta
	semantic, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	dataType, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	numComponents, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	normalized, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	quantBits, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	scheme, err := dec.ReadUint8()
	if err != nil {
		return m, err
	}
	m.semantic = geometry.AttributeType(semantic)
	m.dataType = geometry.DataType(dataType)
	m.numComponents = int(numComponents)
	m.normalized = normalized != 0
	m.quantBits = uint(quantBits)
	m.scheme = prediction.Scheme(scheme)
	return m, nil
}

func writeQuantizer(enc *buffer.EncoderBuffer, q *transform.Quantizer) error {
	if err := enc.WriteUint8(uint8(q.Mode)); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(len(q.Min))); err != nil {
		return err
	}
	for _, v := range q.Min {
		if err := enc.WriteFloat32(v); err != nil {
			return err
		}
	}
	if err := enc.WriteUint8(uint8(len(q.Range))); err != nil {
		return err
	}
	for _, v := range q.Range {
		if err := enc.WriteFloat32(v); err != nil {
			return err
		}
	}
	return nil
}

func readQuantizer(dec *buffer.DecoderBuffer, bits uint) (*transform.Quantizer, error) {
	mode, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	nMin, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	min := make([]float32, nMin)
	for i := range min {
		if min[i], err = dec.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	nRange, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	rng := make([]float32, nRange)
	for i := range rng {
		if rng[i], err = dec.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	if bits == 0 || bits > 30 {
		return nil, errs.Wrap("framing.readQuantizer", errs.KindCorruptBitstream, fmt.Errorf("framing: quantization bits %d invalid", bits))
	}
	return &transform.Quantizer{
		Mode:  transform.RangeMode(mode),
		Bits:  bits,
		Min:   min,
		Range: rng,
	}, nil
}
