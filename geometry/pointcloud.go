package geometry

import "fmt"

// PointCloud is an ordered collection of N points with a set of attached
// attributes. It is constructed empty and populated either by an
// external reader (encode side) or by the decoder (decode side); there
// is no shared ownership with either collaborator.
type PointCloud struct {
	numPoints  int
	attributes []*PointAttribute
	byID       map[AttributeID]int // index into attributes
	nextID     AttributeID
}

// NewPointCloud creates an empty point cloud.
func NewPointCloud() *PointCloud {
	return &PointCloud{byID: make(map[AttributeID]int)}
}

// NumPoints returns N.
func (pc *PointCloud) NumPoints() int { return pc.numPoints }

// SetNumPoints sets N. It is the caller's responsibility to size any
// attribute mappings to match before encoding (see geometry.Validate).
func (pc *PointCloud) SetNumPoints(n int) error {
	if n < 0 {
		return fmt.Errorf("geometry: negative point count %d", n)
	}
	pc.numPoints = n
	return nil
}

// AddAttribute appends attr to the cloud, assigning it a fresh stable id
// if its id is negative or already taken in this cloud, and returns the
// id it ends up with.
func (pc *PointCloud) AddAttribute(attr *PointAttribute) AttributeID {
	if attr.ID < 0 || pc.hasID(attr.ID) {
		attr.ID = pc.nextID
	}
	if attr.ID >= pc.nextID {
		pc.nextID = attr.ID + 1
	}
	pc.attributes = append(pc.attributes, attr)
	pc.byID[attr.ID] = len(pc.attributes) - 1
	return attr.ID
}

func (pc *PointCloud) hasID(id AttributeID) bool {
	_, ok := pc.byID[id]
	return ok
}

// Attribute returns the attribute with the given id.
func (pc *PointCloud) Attribute(id AttributeID) (*PointAttribute, bool) {
	idx, ok := pc.byID[id]
	if !ok {
		return nil, false
	}
	return pc.attributes[idx], true
}

// AttributeByType returns the first attribute of the given semantic type,
// in insertion order.
func (pc *PointCloud) AttributeByType(t AttributeType) (*PointAttribute, bool) {
	for _, a := range pc.attributes {
		if a.Type == t {
			return a, true
		}
	}
	return nil, false
}

// Attributes returns every attribute in insertion order. The slice is
// owned by the caller; mutating it does not affect the cloud.
func (pc *PointCloud) Attributes() []*PointAttribute {
	out := make([]*PointAttribute, len(pc.attributes))
	copy(out, pc.attributes)
	return out
}

// NumAttributes returns the number of attached attributes.
func (pc *PointCloud) NumAttributes() int { return len(pc.attributes) }
