package framing

import (
	"sort"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/edgebreaker"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
	"github.com/cocosip/go-mesh-codec/sequential"
)

// Encode compresses a point cloud or mesh per opts: header, optional
// metadata block, connectivity (mesh + edgebreaker only), then one
// block per attribute in the point cloud's attribute order, position
// first.
func Encode(g *geometry.PointCloud, mesh *geometry.Mesh, opts *EncoderOptions, meta *Metadata) ([]byte, error) {
	if opts == nil {
		opts = NewEncoderOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.Validate(g); err != nil {
		return nil, errs.Wrap("framing.Encode", errs.KindInvalidParameter, err)
	}
	if mesh != nil {
		if err := geometry.ValidateMesh(mesh); err != nil {
			return nil, errs.Wrap("framing.Encode", errs.KindInvalidParameter, err)
		}
	}

	enc := buffer.NewEncoderBuffer()

	var encoderType EncoderType
	switch {
	case mesh == nil:
		encoderType = EncoderTypePointCloudSequential
	case opts.EncodingMethod == MethodEdgebreaker:
		encoderType = EncoderTypeMeshEdgebreaker
	default:
		encoderType = EncoderTypeMeshSequential
	}

	present, metaBytes, err := stageMetadata(meta)
	if err != nil {
		return nil, err
	}
	flags := uint16(0)
	if present {
		flags |= flagMetadataPresent
	}
	if err := writeHeader(enc, header{encoderType: encoderType, encoderMethod: uint8(opts.EncodingMethod), flags: flags}); err != nil {
		return nil, err
	}
	if present {
		if err := enc.WriteBytes(metaBytes); err != nil {
			return nil, err
		}
	}

	if err := enc.WriteVarint(uint64(g.NumPoints())); err != nil {
		return nil, err
	}
	attrs := g.Attributes()
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Type == geometry.AttributePosition && attrs[j].Type != geometry.AttributePosition
	})
	if err := enc.WriteVarint(uint64(len(attrs))); err != nil {
		return nil, err
	}

	switch encoderType {
	case EncoderTypeMeshEdgebreaker:
		if err := encodeMeshEdgebreaker(enc, mesh, attrs, opts); err != nil {
			return nil, err
		}
	case EncoderTypeMeshSequential:
		if err := sequential.EncodeFaceBlock(enc, mesh.Faces()); err != nil {
			return nil, err
		}
		if err := encodeAttributesSequential(enc, attrs, g.NumPoints(), opts); err != nil {
			return nil, err
		}
	default:
		if err := encodeAttributesSequential(enc, attrs, g.NumPoints(), opts); err != nil {
			return nil, err
		}
	}

	return enc.Bytes(), nil
}

func stageMetadata(m *Metadata) (bool, []byte, error) {
	if m == nil || len(m.Keys) == 0 {
		return false, nil, nil
	}
	tmp := buffer.NewEncoderBuffer()
	if _, err := writeMetadata(tmp, m); err != nil {
		return false, nil, err
	}
	return true, tmp.Bytes(), nil
}

func encodeAttributesSequential(enc *buffer.EncoderBuffer, attrs []*geometry.PointAttribute, numPoints int, opts *EncoderOptions) error {
	for _, attr := range attrs {
		bits := opts.quantizationBitsFor(attr)
		ea, err := sequential.EncodeAttribute(attr, numPoints, bits)
		if err != nil {
			return err
		}
		meta := attrWireMeta{
			semantic:      attr.Type,
			dataType:      attr.DataType,
			numComponents: attr.NumComponents,
			normalized:    attr.Normalized,
			quantBits:     bits,
			scheme:        prediction.SchemeDelta,
		}
		if err := writeAttrMeta(enc, meta); err != nil {
			return err
		}
		if err := writeQuantizer(enc, ea.Quantizer); err != nil {
			return err
		}
		if err := encodeResidualStream(enc, ea.Residuals); err != nil {
			return err
		}
	}
	return nil
}

func encodeMeshEdgebreaker(enc *buffer.EncoderBuffer, mesh *geometry.Mesh, attrs []*geometry.PointAttribute, opts *EncoderOptions) error {
	faces := mesh.Faces()
	conn, err := edgebreaker.Encode(faces)
	if err != nil {
		return err
	}
	if err := edgebreaker.ValidateSymbolCount(conn); err != nil {
		return err
	}
	if err := edgebreaker.WriteConnectivity(enc, conn); err != nil {
		return err
	}

	ct, err := corner.Build(faces)
	if err != nil {
		return err
	}

	var posValues quantizedAttr
	posLookup := func(p geometry.PointIndex) ([]int32, bool) {
		if posValues == nil {
			return nil, false
		}
		v, ok := posValues[p]
		return v, ok
	}

	for _, attr := range attrs {
		bits := opts.quantizationBitsFor(attr)
		if attr.Type == geometry.AttributeNormal {
			if err := writeMeshNormalAttribute(enc, attr, conn.VertexOrder, conn.IntroCorner, ct, bits, posLookup); err != nil {
				return err
			}
			continue
		}
		scheme := opts.schemeFor(attr)
		values, err := writeMeshAttribute(enc, attr, conn.VertexOrder, conn.IntroCorner, ct, bits, scheme, posLookup)
		if err != nil {
			return err
		}
		if attr.Type == geometry.AttributePosition {
			posValues = values
		}
	}
	return nil
}
