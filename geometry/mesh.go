package geometry

import "fmt"

// Face is a triangle: three point indices drawn from [0, N).
type Face [3]PointIndex

// Mesh is a PointCloud plus an ordered sequence of triangular faces, and
// optionally per-corner attribute value maps (for attributes whose value
// varies by which triangle a point is seen from, e.g. hard normals at a
// crease, or UV seams).
type Mesh struct {
	*PointCloud
	faces []Face

	// cornerAttrValues, when present for an attribute id, gives the
	// AttributeValueIndex for corner c = 3*face + k directly, overriding
	// the attribute's point-to-value map in CornerAttributeValue. The
	// framing encoders read values through the point-to-value map only
	// and do not consult this map. Most
	// attributes don't need this: their PointAttribute mapping already
	// distinguishes seam values per point duplication. It exists for
	// attributes authored per-corner from the start.
	cornerAttrValues map[AttributeID][]AttributeValueIndex
}

// NewMesh creates an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{PointCloud: NewPointCloud()}
}

// NumFaces returns F.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Face returns the i-th face.
func (m *Mesh) Face(i FaceIndex) (Face, error) {
	if int(i) < 0 || int(i) >= len(m.faces) {
		return Face{}, fmt.Errorf("geometry: face %d out of range [0,%d)", i, len(m.faces))
	}
	return m.faces[i], nil
}

// Faces returns every face. The slice is owned by the caller.
func (m *Mesh) Faces() []Face {
	out := make([]Face, len(m.faces))
	copy(out, m.faces)
	return out
}

// SetFace sets (and, if needed, grows the face list to include) face i.
// Every index must be < NumPoints(); callers
// building a mesh incrementally should call SetNumPoints first.
func (m *Mesh) SetFace(i FaceIndex, f Face) error {
	for _, p := range f {
		if int(p) < 0 || int(p) >= m.NumPoints() {
			return fmt.Errorf("geometry: face %d: point %d out of range [0,%d)", i, p, m.NumPoints())
		}
	}
	if int(i) >= len(m.faces) {
		grown := make([]Face, i+1)
		copy(grown, m.faces)
		m.faces = grown
	}
	m.faces[i] = f
	return nil
}

// AddFace appends a new face and returns its index.
func (m *Mesh) AddFace(f Face) (FaceIndex, error) {
	idx := FaceIndex(len(m.faces))
	if err := m.SetFace(idx, f); err != nil {
		return 0, err
	}
	return idx, nil
}

// SetCornerAttributeValues installs an explicit per-corner value map for
// attribute id (length must be 3*NumFaces()).
func (m *Mesh) SetCornerAttributeValues(id AttributeID, values []AttributeValueIndex) error {
	if len(values) != 3*len(m.faces) {
		return fmt.Errorf("geometry: attribute %d: corner value map length %d != 3*faces (%d)", id, len(values), 3*len(m.faces))
	}
	if m.cornerAttrValues == nil {
		m.cornerAttrValues = make(map[AttributeID][]AttributeValueIndex)
	}
	cp := make([]AttributeValueIndex, len(values))
	copy(cp, values)
	m.cornerAttrValues[id] = cp
	return nil
}

// CornerAttributeValue resolves the AttributeValueIndex attribute id takes
// at corner c, preferring an explicit per-corner map when one was set and
// falling back to the attribute's point-to-value map otherwise.
func (m *Mesh) CornerAttributeValue(id AttributeID, c CornerIndex, vertex PointIndex) (AttributeValueIndex, error) {
	if vals, ok := m.cornerAttrValues[id]; ok {
		if int(c) < 0 || int(c) >= len(vals) {
			return 0, fmt.Errorf("geometry: attribute %d: corner %d out of range [0,%d)", id, c, len(vals))
		}
		return vals[c], nil
	}
	attr, ok := m.Attribute(id)
	if !ok {
		return 0, fmt.Errorf("geometry: no attribute with id %d", id)
	}
	return attr.MappedValue(vertex)
}
