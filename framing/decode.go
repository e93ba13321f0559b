package framing

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/edgebreaker"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/sequential"
)

// Decoded is the result of Decode: the reconstructed geometry, its mesh
// view if the stream carried connectivity, and any metadata block.
type Decoded struct {
	Cloud    *geometry.PointCloud
	Mesh     *geometry.Mesh // nil for a point-cloud stream
	Metadata *Metadata
}

// Decode inverts Encode.
func Decode(data []byte) (*Decoded, error) {
	dec := buffer.NewDecoderBuffer(data)
	h, err := readHeader(dec)
	if err != nil {
		return nil, err
	}

	out := &Decoded{}
	if h.flags&flagMetadataPresent != 0 {
		m, err := readMetadata(dec)
		if err != nil {
			return nil, err
		}
		out.Metadata = m
	}

	numPoints64, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	numPoints := int(numPoints64)
	numAttrs64, err := dec.ReadVarint()
	if err != nil {
		return nil, err
	}
	numAttrs := int(numAttrs64)

	switch h.encoderType {
	case EncoderTypeMeshEdgebreaker:
		mesh, err := decodeMeshEdgebreaker(dec, numAttrs)
		if err != nil {
			return nil, err
		}
		out.Mesh = mesh
		out.Cloud = mesh.PointCloud
	case EncoderTypeMeshSequential:
		faces, err := sequential.DecodeFaceBlock(dec)
		if err != nil {
			return nil, err
		}
		cloud, err := decodeAttributesSequential(dec, numAttrs, numPoints)
		if err != nil {
			return nil, err
		}
		mesh := &geometry.Mesh{PointCloud: cloud}
		for _, f := range faces {
			if _, err := mesh.AddFace(f); err != nil {
				return nil, errs.Wrap("framing.Decode", errs.KindCorruptBitstream, err)
			}
		}
		out.Mesh = mesh
		out.Cloud = mesh.PointCloud
	default:
		cloud, err := decodeAttributesSequential(dec, numAttrs, numPoints)
		if err != nil {
			return nil, err
		}
		out.Cloud = cloud
	}
	return out, nil
}

func decodeAttributesSequential(dec *buffer.DecoderBuffer, numAttrs, numPoints int) (*geometry.PointCloud, error) {
	cloud := geometry.NewPointCloud()
	if err := cloud.SetNumPoints(numPoints); err != nil {
		return nil, errs.Wrap("framing.decodeAttributesSequential", errs.KindInternal, err)
	}
	for i := 0; i < numAttrs; i++ {
		meta, err := readAttrMeta(dec)
		if err != nil {
			return nil, err
		}
		q, err := readQuantizer(dec, meta.quantBits)
		if err != nil {
			return nil, err
		}
		flat, err := decodeResidualStream(dec, numPoints*meta.numComponents)
		if err != nil {
			return nil, err
		}
		attr, err := sequential.DecodeAttribute(geometry.AttributeID(i), meta.semantic, meta.dataType, meta.numComponents, meta.normalized, numPoints, q, flat)
		if err != nil {
			return nil, err
		}
		cloud.AddAttribute(attr)
	}
	return cloud, nil
}

func decodeMeshEdgebreaker(dec *buffer.DecoderBuffer, numAttrs int) (*geometry.Mesh, error) {
	symbols, splitVertex, componentFaces, err := edgebreaker.ReadConnectivity(dec)
	if err != nil {
		return nil, err
	}
	decoded, err := edgebreaker.Decode(symbols, splitVertex, componentFaces)
	if err != nil {
		return nil, err
	}

	ct, err := corner.Build(decoded.Faces)
	if err != nil {
		return nil, err
	}

	var posValues quantizedAttr
	posLookup := func(p geometry.PointIndex) ([]int32, bool) {
		if posValues == nil {
			return nil, false
		}
		v, ok := posValues[p]
		return v, ok
	}

	mesh := geometry.NewMesh()
	if err := mesh.SetNumPoints(decoded.NumVertices); err != nil {
		return nil, errs.Wrap("framing.decodeMeshEdgebreaker", errs.KindInternal, err)
	}

	order := make([]geometry.PointIndex, decoded.NumVertices)
	for i := range order {
		order[i] = geometry.PointIndex(i)
	}
	if len(order) != len(decoded.IntroCorner) {
		return nil, errs.Wrap("framing.decodeMeshEdgebreaker", errs.KindCorruptBitstream, fmt.Errorf("framing: %d vertices but %d intro corners", len(order), len(decoded.IntroCorner)))
	}

	for i := 0; i < numAttrs; i++ {
		meta, err := readAttrMeta(dec)
		if err != nil {
			return nil, err
		}
		if meta.semantic == geometry.AttributeNormal {
			attr, err := readMeshNormalAttribute(dec, meta, geometry.AttributeID(i), order, decoded.IntroCorner, ct, decoded.NumVertices, posLookup)
			if err != nil {
				return nil, err
			}
			mesh.AddAttribute(attr)
			continue
		}
		attr, values, err := readMeshAttribute(dec, meta, geometry.AttributeID(i), order, decoded.IntroCorner, ct, decoded.NumVertices, posLookup)
		if err != nil {
			return nil, err
		}
		mesh.AddAttribute(attr)
		if meta.semantic == geometry.AttributePosition {
			posValues = values
		}
	}

	for _, f := range decoded.Faces {
		if _, err := mesh.AddFace(f); err != nil {
			return nil, errs.Wrap("framing.decodeMeshEdgebreaker", errs.KindCorruptBitstream, err)
		}
	}
	return mesh, nil
}
