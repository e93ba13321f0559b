package geometry

import "fmt"

// AttributeType is the semantic role of an attribute.
type AttributeType uint8

const (
	AttributePosition AttributeType = iota
	AttributeNormal
	AttributeColor
	AttributeTexCoord
	AttributeGeneric
)

func (t AttributeType) String() string {
	switch t {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeColor:
		return "color"
	case AttributeTexCoord:
		return "tex_coord"
	case AttributeGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// DataType is the primitive storage type of one component of an attribute
// value.
type DataType uint8

const (
	DataTypeInt8 DataType = iota
	DataTypeUint8
	DataTypeInt16
	DataTypeUint16
	DataTypeInt32
	DataTypeUint32
	DataTypeInt64
	DataTypeUint64
	DataTypeFloat32
	DataTypeFloat64
	DataTypeBool
)

// ByteSize returns the storage width of a single component of this type.
func (t DataType) ByteSize() int {
	switch t {
	case DataTypeInt8, DataTypeUint8, DataTypeBool:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeFloat64:
		return 8
	default:
		return 0
	}
}

// AttributeID is the stable, insertion-order-assigned identifier of a
// PointAttribute within a geometry.
type AttributeID int32

// PointAttribute is a contiguous buffer of M values (M <= N) plus a
// point-to-value map of length N. When M == N and the map is the
// identity, the attribute is "direct"; otherwise "mapped" — shared
// values across points, as with seam-edge UVs.
type PointAttribute struct {
	ID             AttributeID
	Type           AttributeType
	DataType       DataType
	NumComponents  int
	Normalized     bool
	values         []byte        // M * NumComponents * DataType.ByteSize() bytes, tightly packed
	pointToValue   []AttributeValueIndex // length N
	numValues      int           // M
}

// NewPointAttribute allocates an attribute with numValues (M) raw values
// of the given shape. The point-to-value map must be set separately via
// SetIdentityMapping or SetMapping once N is known.
func NewPointAttribute(id AttributeID, typ AttributeType, dt DataType, numComponents int, normalized bool, numValues int) (*PointAttribute, error) {
	if numComponents < 1 || numComponents > 16 {
		return nil, fmt.Errorf("geometry: attribute %d: num_components %d out of [1,16]", id, numComponents)
	}
	if numValues < 0 {
		return nil, fmt.Errorf("geometry: attribute %d: negative value count", id)
	}
	stride := numComponents * dt.ByteSize()
	return &PointAttribute{
		ID:            id,
		Type:          typ,
		DataType:      dt,
		NumComponents: numComponents,
		Normalized:    normalized,
		values:        make([]byte, numValues*stride),
		numValues:     numValues,
	}, nil
}

// Stride returns the per-value byte width: num_components * sizeof(data_type).
func (a *PointAttribute) Stride() int {
	return a.NumComponents * a.DataType.ByteSize()
}

// NumValues returns M, the number of distinct stored values.
func (a *PointAttribute) NumValues() int {
	return a.numValues
}

// IsMapped reports whether this attribute uses a non-identity point map
// (shared values across points).
func (a *PointAttribute) IsMapped() bool {
	if a.pointToValue == nil {
		return false
	}
	for i, v := range a.pointToValue {
		if int(v) != i {
			return true
		}
	}
	return false
}

// SetIdentityMapping makes this a direct attribute over n points: M must
// equal n.
func (a *PointAttribute) SetIdentityMapping(n int) error {
	if n != a.numValues {
		return fmt.Errorf("geometry: attribute %d: identity mapping requires M == N (%d != %d)", a.ID, a.numValues, n)
	}
	a.pointToValue = make([]AttributeValueIndex, n)
	for i := range a.pointToValue {
		a.pointToValue[i] = AttributeValueIndex(i)
	}
	return nil
}

// SetMapping installs an explicit point-to-value map of length n. Every
// entry must satisfy map[i] < M.
func (a *PointAttribute) SetMapping(mapping []AttributeValueIndex) error {
	for i, v := range mapping {
		if int(v) < 0 || int(v) >= a.numValues {
			return fmt.Errorf("geometry: attribute %d: map[%d]=%d out of range [0,%d)", a.ID, i, v, a.numValues)
		}
	}
	a.pointToValue = make([]AttributeValueIndex, len(mapping))
	copy(a.pointToValue, mapping)
	return nil
}

// MappedValue returns the AttributeValueIndex backing point p.
func (a *PointAttribute) MappedValue(p PointIndex) (AttributeValueIndex, error) {
	if int(p) < 0 || int(p) >= len(a.pointToValue) {
		return 0, fmt.Errorf("geometry: attribute %d: point %d out of range [0,%d)", a.ID, p, len(a.pointToValue))
	}
	return a.pointToValue[p], nil
}

// RawBytes returns the byte range backing value index vi, bounds-checked.
func (a *PointAttribute) RawBytes(vi AttributeValueIndex) ([]byte, error) {
	stride := a.Stride()
	start := int(vi) * stride
	if int(vi) < 0 || int(vi) >= a.numValues {
		return nil, fmt.Errorf("geometry: attribute %d: value index %d out of range [0,%d)", a.ID, vi, a.numValues)
	}
	return a.values[start : start+stride], nil
}

// GetFloat32 reads the c-th component of value vi as float32, converting
// from the attribute's underlying DataType (honoring Normalized fixed-point
// interpretation for integer types).
func (a *PointAttribute) GetFloat32(vi AttributeValueIndex, c int) (float32, error) {
	raw, err := a.RawBytes(vi)
	if err != nil {
		return 0, err
	}
	if c < 0 || c >= a.NumComponents {
		return 0, fmt.Errorf("geometry: attribute %d: component %d out of range [0,%d)", a.ID, c, a.NumComponents)
	}
	sz := a.DataType.ByteSize()
	b := raw[c*sz : c*sz+sz]
	return decodeComponentFloat32(a.DataType, a.Normalized, b), nil
}

// SetFloat32 writes the c-th component of value vi from a float32,
// converting into the attribute's underlying DataType.
func (a *PointAttribute) SetFloat32(vi AttributeValueIndex, c int, v float32) error {
	raw, err := a.RawBytes(vi)
	if err != nil {
		return err
	}
	if c < 0 || c >= a.NumComponents {
		return fmt.Errorf("geometry: attribute %d: component %d out of range [0,%d)", a.ID, c, a.NumComponents)
	}
	sz := a.DataType.ByteSize()
	b := raw[c*sz : c*sz+sz]
	encodeComponentFloat32(a.DataType, a.Normalized, b, v)
	return nil
}
