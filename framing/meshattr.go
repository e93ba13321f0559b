// Attribute coding along an EdgeBreaker traversal order.
// Positions are coded first so later attributes' GeometricNormal and
// TexcoordPortable predictors can read already-decoded neighbor geometry
// through prediction.Context.Position.
package framing

import (
	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/entropy"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
	"github.com/cocosip/go-mesh-codec/transform"
)

// quantizedAttr is the traversal-order quantized values of one attribute,
// keyed by point index, kept around so later attributes can use it as
// neighbor context (the Position case) or so the caller can assemble the
// final geometry.PointAttribute.
type quantizedAttr map[geometry.PointIndex][]int32

// predictMesh dispatches to the scheme's predictor. crease only matters
// for SchemeMultiParallelogram, where it selects the single-parallelogram
// fallback over averaging every incident parallelogram at this vertex.
func predictMesh(scheme prediction.Scheme, ctx *prediction.Context, c geometry.CornerIndex, fallback []int32, crease bool) []int32 {
	switch scheme {
	case prediction.SchemeParallelogram:
		return prediction.ParallelogramPredict(ctx, c, fallback)
	case prediction.SchemeMultiParallelogram:
		return prediction.MultiParallelogramPredict(ctx, c, crease, fallback)
	case prediction.SchemeTexcoordPortable:
		return prediction.TexcoordPortablePredict(ctx, c, fallback)
	default:
		return fallback
	}
}

// encodeMeshAttributeValues quantizes attr's values at the points named by
// order (addressed in the coordinate space of ct: original point ids on
// the encoder, renumbered traversal ids on the decoder is not applicable
// here since this is the encode half) and predicts each one from its
// already-coded neighbors per scheme, returning per-point residuals and
// the quantized values themselves (for Position chaining).
func encodeMeshAttributeValues(attr *geometry.PointAttribute, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, scheme prediction.Scheme, bits uint, posLookup func(geometry.PointIndex) ([]int32, bool)) (residuals [][]int32, q *transform.Quantizer, values quantizedAttr, crease []bool, err error) {
	c := attr.NumComponents
	floatValues := make(map[geometry.PointIndex][]float32, len(order))
	min := make([]float32, c)
	max := make([]float32, c)
	for i, p := range order {
		vi, verr := attr.MappedValue(p)
		if verr != nil {
			return nil, nil, nil, nil, verr
		}
		row := make([]float32, c)
		for comp := 0; comp < c; comp++ {
			v, gerr := attr.GetFloat32(vi, comp)
			if gerr != nil {
				return nil, nil, nil, nil, gerr
			}
			row[comp] = v
			if i == 0 {
				min[comp] = v
				max[comp] = v
			} else if v < min[comp] {
				min[comp] = v
			} else if v > max[comp] {
				max[comp] = v
			}
		}
		floatValues[p] = row
	}
	q, err = transform.NewQuantizer(transform.RangePerComponent, bits, min, max)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	values = make(quantizedAttr, len(order))
	ctx := &prediction.Context{
		Corner:   ct,
		Value:    func(p geometry.PointIndex) ([]int32, bool) { v, ok := values[p]; return v, ok },
		Position: posLookup,
	}
	residuals = make([][]int32, len(order))
	if scheme == prediction.SchemeMultiParallelogram {
		crease = make([]bool, len(order))
	}
	prev := make([]int32, c)
	for i, p := range order {
		qv := make([]int32, c)
		for comp, v := range floatValues[p] {
			qv[comp] = int32(q.Quantize(comp, v))
		}
		var cr bool
		if scheme == prediction.SchemeMultiParallelogram {
			cr = prediction.ChooseCrease(ctx, introCorner[i], qv, prev)
			crease[i] = cr
		}
		pred := predictMesh(scheme, ctx, introCorner[i], prev, cr)
		r := make([]int32, c)
		for comp := range qv {
			r[comp] = qv[comp] - pred[comp]
		}
		residuals[i] = r
		values[p] = qv
		prev = qv
	}
	return residuals, q, values, crease, nil
}

// decodeMeshAttributeValues inverts encodeMeshAttributeValues: given the
// already-decoded residuals in traversal order, it reconstructs the
// quantized per-point values via the same predictor.
func decodeMeshAttributeValues(residuals [][]int32, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, scheme prediction.Scheme, numComponents int, crease []bool, posLookup func(geometry.PointIndex) ([]int32, bool)) quantizedAttr {
	values := make(quantizedAttr, len(order))
	ctx := &prediction.Context{
		Corner:   ct,
		Value:    func(p geometry.PointIndex) ([]int32, bool) { v, ok := values[p]; return v, ok },
		Position: posLookup,
	}
	prev := make([]int32, numComponents)
	for i, p := range order {
		var cr bool
		if crease != nil {
			cr = crease[i]
		}
		pred := predictMesh(scheme, ctx, introCorner[i], prev, cr)
		qv := make([]int32, numComponents)
		for comp := range qv {
			qv[comp] = pred[comp] + residuals[i][comp]
		}
		values[p] = qv
		prev = qv
	}
	return values
}

// writeMeshAttribute writes one attribute's full wire representation
// (metadata, quantizer side data, residual stream) and returns the
// quantized values for Position chaining.
func writeMeshAttribute(enc *buffer.EncoderBuffer, attr *geometry.PointAttribute, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, bits uint, scheme prediction.Scheme, posLookup func(geometry.PointIndex) ([]int32, bool)) (quantizedAttr, error) {
	residuals, q, values, crease, err := encodeMeshAttributeValues(attr, order, introCorner, ct, scheme, bits, posLookup)
	if err != nil {
		return nil, err
	}
	meta := attrWireMeta{
		semantic:      attr.Type,
		dataType:      attr.DataType,
		numComponents: attr.NumComponents,
		normalized:    attr.Normalized,
		quantBits:     bits,
		scheme:        scheme,
	}
	if err := writeAttrMeta(enc, meta); err != nil {
		return nil, err
	}
	if err := writeQuantizer(enc, q); err != nil {
		return nil, err
	}
	if scheme == prediction.SchemeMultiParallelogram {
		bitEnc := entropy.NewRansBitEncoder()
		for _, cr := range crease {
			bitEnc.EncodeBit(cr)
		}
		if err := bitEnc.Flush(enc); err != nil {
			return nil, errs.Wrap("framing.writeMeshAttribute", errs.KindInternal, err)
		}
	}
	flat := make([]int32, 0, len(order)*attr.NumComponents)
	for _, r := range residuals {
		flat = append(flat, r...)
	}
	if err := encodeResidualStream(enc, flat); err != nil {
		return nil, err
	}
	return values, nil
}

// readMeshAttribute inverts writeMeshAttribute (given the attribute's
// already-read header meta), building a fresh geometry.PointAttribute
// addressed by order (order[i] is the point whose value was coded at
// traversal step i) plus the quantized values for Position chaining.
func readMeshAttribute(dec *buffer.DecoderBuffer, meta attrWireMeta, id geometry.AttributeID, order []geometry.PointIndex, introCorner []geometry.CornerIndex, ct *corner.Table, numPoints int, posLookup func(geometry.PointIndex) ([]int32, bool)) (*geometry.PointAttribute, quantizedAttr, error) {
	q, err := readQuantizer(dec, meta.quantBits)
	if err != nil {
		return nil, nil, err
	}
	var crease []bool
	if meta.scheme == prediction.SchemeMultiParallelogram {
		bitDec, err := entropy.NewRansBitDecoder(dec)
		if err != nil {
			return nil, nil, errs.Wrap("framing.readMeshAttribute", errs.KindInternal, err)
		}
		crease = make([]bool, len(order))
		for i := range order {
			cr, err := bitDec.DecodeBit()
			if err != nil {
				return nil, nil, errs.Wrap("framing.readMeshAttribute", errs.KindInternal, err)
			}
			crease[i] = cr
		}
	}
	flat, err := decodeResidualStream(dec, len(order)*meta.numComponents)
	if err != nil {
		return nil, nil, err
	}
	residuals := make([][]int32, len(order))
	for i := range order {
		residuals[i] = flat[i*meta.numComponents : (i+1)*meta.numComponents]
	}
	values := decodeMeshAttributeValues(residuals, order, introCorner, ct, meta.scheme, meta.numComponents, crease, posLookup)

	attr, err := geometry.NewPointAttribute(id, meta.semantic, meta.dataType, meta.numComponents, meta.normalized, numPoints)
	if err != nil {
		return nil, nil, err
	}
	if err := attr.SetIdentityMapping(numPoints); err != nil {
		return nil, nil, err
	}
	for p, qv := range values {
		for comp, v := range qv {
			f := q.Dequantize(comp, uint32(v))
			if err := attr.SetFloat32(geometry.AttributeValueIndex(p), comp, f); err != nil {
				return nil, nil, err
			}
		}
	}
	return attr, values, nil
}
