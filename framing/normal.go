package framing

import (
	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
	"github.com/cocosip/go-mesh-codec/transform"
)

// Normal attributes always use the octahedral transform ,
// so they never go through the generic quantize-and-predict path in
// meshattr.go: the wire shape itself changes, three float components
// becoming two octahedral-quantized ones.

// writeMeshNormalAttribute octahedral-encodes attr's unit vectors and
// predicts each one from the area-weighted normal of already-decoded
// neighbor positions.
func writeMeshNormalAttribute(enc *buffer.EncoderBuffer, attr *geometry.PointAttribute, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, bits uint, posLookup func(geometry.PointIndex) ([]int32, bool)) error {
	type octa struct{ u, v uint32 }
	coded := make(map[geometry.PointIndex]octa, len(order))
	ctx := &prediction.Context{
		Corner:   ct,
		Position: posLookup,
	}

	flat := make([]int32, 0, len(order)*2)
	for i, p := range order {
		vi, err := attr.MappedValue(p)
		if err != nil {
			return err
		}
		x, err := attr.GetFloat32(vi, 0)
		if err != nil {
			return err
		}
		y, err := attr.GetFloat32(vi, 1)
		if err != nil {
			return err
		}
		z, err := attr.GetFloat32(vi, 2)
		if err != nil {
			return err
		}
		trueU, trueV := transform.EncodeOctahedral(x, y, z, bits)

		var predU, predV uint32
		if predU2, predV2, ok := prediction.GeometricNormalPredict(ctx, introCorner[i], bits); ok {
			predU, predV = predU2, predV2
		}
		flat = append(flat, int32(trueU)-int32(predU), int32(trueV)-int32(predV))
		coded[p] = octa{trueU, trueV}
	}

	meta := attrWireMeta{
		semantic:      attr.Type,
		dataType:      attr.DataType,
		numComponents: 2,
		normalized:    attr.Normalized,
		quantBits:     bits,
		scheme:        prediction.SchemeGeometricNormal,
	}
	if err := writeAttrMeta(enc, meta); err != nil {
		return err
	}
	return encodeResidualStream(enc, flat)
}

// readMeshNormalAttribute inverts writeMeshNormalAttribute (given the
// attribute's already-read header meta).
func readMeshNormalAttribute(dec *buffer.DecoderBuffer, meta attrWireMeta, id geometry.AttributeID, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, numPoints int, posLookup func(geometry.PointIndex) ([]int32, bool)) (*geometry.PointAttribute, error) {
	flat, err := decodeResidualStream(dec, len(order)*2)
	if err != nil {
		return nil, err
	}

	ctx := &prediction.Context{
		Corner:   ct,
		Position: posLookup,
	}

	attr, err := geometry.NewPointAttribute(id, meta.semantic, meta.dataType, 3, meta.normalized, numPoints)
	if err != nil {
		return nil, err
	}
	if err := attr.SetIdentityMapping(numPoints); err != nil {
		return nil, err
	}

	for i, p := range order {
		var predU, predV uint32
		if pu, pv, ok := prediction.GeometricNormalPredict(ctx, introCorner[i], meta.quantBits); ok {
			predU, predV = pu, pv
		}
		trueU := uint32(int32(predU) + flat[2*i])
		trueV := uint32(int32(predV) + flat[2*i+1])
		x, y, z := transform.DecodeOctahedral(trueU, trueV, meta.quantBits)
		if err := attr.SetFloat32(geometry.AttributeValueIndex(p), 0, x); err != nil {
			return nil, err
		}
		if err := attr.SetFloat32(geometry.AttributeValueIndex(p), 1, y); err != nil {
			return nil, err
		}
		if err := attr.SetFloat32(geometry.AttributeValueIndex(p), 2, z); err != nil {
			return nil, err
		}
	}
	return attr, nil
}
