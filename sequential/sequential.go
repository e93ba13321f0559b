// Package sequential implements the codec's attribute-only fallback:
// every PointCloud is compressed this way, and a Mesh falls back to it
// when connectivity compression is disabled. Attributes are coded in
// input order with delta prediction as the fixed default; a mesh's
// faces, when present, are carried as a separate block of point-index
// triples, varint-encoded with delta coding across faces.
package sequential

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
	"github.com/cocosip/go-mesh-codec/transform"
)

// EncodedAttribute is the wire-independent result of compressing one
// attribute in point order: the residual stream plus the quantizer side
// data needed to invert it. Framing serializes these fields; this package
// only computes them, so it stays free of the bitstream layout details
// owned by the framing package.
type EncodedAttribute struct {
	Quantizer *transform.Quantizer
	Residuals []int32 // point-major (NumComponents per point), len = NumPoints * NumComponents
}

// EncodeAttribute quantizes attr's values in point order 0..N-1 and
// delta-codes the residuals.
func EncodeAttribute(attr *geometry.PointAttribute, numPoints int, bits uint) (*EncodedAttribute, error) {
	c := attr.NumComponents
	values := make([][]float32, numPoints)
	for p := 0; p < numPoints; p++ {
		vi, err := attr.MappedValue(geometry.PointIndex(p))
		if err != nil {
			return nil, errs.Wrap("sequential.EncodeAttribute", errs.KindInvalidParameter, err)
		}
		row := make([]float32, c)
		for comp := 0; comp < c; comp++ {
			v, err := attr.GetFloat32(vi, comp)
			if err != nil {
				return nil, errs.Wrap("sequential.EncodeAttribute", errs.KindInvalidParameter, err)
			}
			row[comp] = v
		}
		values[p] = row
	}

	min := make([]float32, c)
	max := make([]float32, c)
	for comp := 0; comp < c; comp++ {
		min[comp] = values[0][comp]
		max[comp] = values[0][comp]
	}
	for _, row := range values {
		for comp, v := range row {
			if v < min[comp] {
				min[comp] = v
			}
			if v > max[comp] {
				max[comp] = v
			}
		}
	}
	q, err := transform.NewQuantizer(transform.RangePerComponent, bits, min, max)
	if err != nil {
		return nil, err
	}

	qvals := make([][]int32, numPoints)
	for p, row := range values {
		qv := make([]int32, c)
		for comp, v := range row {
			qv[comp] = int32(q.Quantize(comp, v))
		}
		qvals[p] = qv
	}
	residuals := prediction.DeltaResiduals(qvals)

	flat := make([]int32, 0, numPoints*c)
	for _, r := range residuals {
		flat = append(flat, r...)
	}
	return &EncodedAttribute{Quantizer: q, Residuals: flat}, nil
}

// DecodeAttribute inverts EncodeAttribute, writing numPoints direct
// values (identity-mapped) into a freshly built attribute.
func DecodeAttribute(id geometry.AttributeID, semantic geometry.AttributeType, dt geometry.DataType, numComponents int, normalized bool, numPoints int, q *transform.Quantizer, flatResiduals []int32) (*geometry.PointAttribute, error) {
	if len(flatResiduals) != numPoints*numComponents {
		return nil, errs.Wrap("sequential.DecodeAttribute", errs.KindCorruptBitstream, fmt.Errorf("sequential: residual count %d != %d*%d", len(flatResiduals), numPoints, numComponents))
	}
	residuals := make([][]int32, numPoints)
	for p := 0; p < numPoints; p++ {
		residuals[p] = flatResiduals[p*numComponents : (p+1)*numComponents]
	}
	qvals := prediction.DeltaReconstruct(residuals)

	attr, err := geometry.NewPointAttribute(id, semantic, dt, numComponents, normalized, numPoints)
	if err != nil {
		return nil, errs.Wrap("sequential.DecodeAttribute", errs.KindInvalidParameter, err)
	}
	if err := attr.SetIdentityMapping(numPoints); err != nil {
		return nil, errs.Wrap("sequential.DecodeAttribute", errs.KindInternal, err)
	}
	for p := 0; p < numPoints; p++ {
		for comp := 0; comp < numComponents; comp++ {
			v := q.Dequantize(comp, uint32(qvals[p][comp]))
			if err := attr.SetFloat32(geometry.AttributeValueIndex(p), comp, v); err != nil {
				return nil, errs.Wrap("sequential.DecodeAttribute", errs.KindInternal, err)
			}
		}
	}
	return attr, nil
}

// EncodeFaceBlock serializes faces as point-index triples, varint-coded
// with delta coding across the flattened index stream.
func EncodeFaceBlock(enc *buffer.EncoderBuffer, faces []geometry.Face) error {
	if err := enc.WriteVarint(uint64(len(faces))); err != nil {
		return err
	}
	var prev int32
	for _, f := range faces {
		for _, p := range f {
			d := int32(p) - prev
			if err := enc.WriteVarint(uint64(prediction.ZigZag(d))); err != nil {
				return err
			}
			prev = int32(p)
		}
	}
	return nil
}

// DecodeFaceBlock inverts EncodeFaceBlock.
func DecodeFaceBlock(dec *buffer.DecoderBuffer) ([]geometry.Face, error) {
	n, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	faces := make([]geometry.Face, n)
	var prev int32
	for i := uint64(0); i < n; i++ {
		var f geometry.Face
		for k := 0; k < 3; k++ {
			uv, err := dec.ReadVarint()
			if err != nil {
				return nil, err
			}
			d := prediction.UnZigZag(uint32(uv))
			prev += d
			f[k] = geometry.PointIndex(prev)
		}
		faces[i] = f
	}
	return faces, nil
}
