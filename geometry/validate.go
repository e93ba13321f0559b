package geometry

import "fmt"

// Validate checks the point-cloud invariants a geometry must satisfy
// before it is handed to an encoder: every attribute map has length N
// with entries in range, attribute ids are unique, and a Position
// attribute is present. Face indices and points referenced by no face
// are checked by ValidateMesh, not here.
func Validate(pc *PointCloud) error {
	if pc == nil {
		return fmt.Errorf("geometry: nil point cloud")
	}
	if _, ok := pc.AttributeByType(AttributePosition); !ok {
		return fmt.Errorf("geometry: no Position attribute")
	}
	seen := make(map[AttributeID]bool, len(pc.attributes))
	for _, a := range pc.attributes {
		if seen[a.ID] {
			return fmt.Errorf("geometry: duplicate attribute id %d", a.ID)
		}
		seen[a.ID] = true
		if len(a.pointToValue) != pc.numPoints {
			return fmt.Errorf("geometry: attribute %d: map length %d != N (%d)", a.ID, len(a.pointToValue), pc.numPoints)
		}
		for i, v := range a.pointToValue {
			if int(v) < 0 || int(v) >= a.numValues {
				return fmt.Errorf("geometry: attribute %d: map[%d]=%d out of range [0,%d)", a.ID, i, v, a.numValues)
			}
		}
	}
	return nil
}

// ValidateMesh runs Validate on the mesh's point cloud, then additionally
// checks that every face index is < N and that every point is referenced
// by at least one face.
func ValidateMesh(m *Mesh) error {
	if m == nil {
		return fmt.Errorf("geometry: nil mesh")
	}
	if err := Validate(m.PointCloud); err != nil {
		return err
	}
	referenced := make([]bool, m.NumPoints())
	for i, f := range m.faces {
		for _, p := range f {
			if int(p) < 0 || int(p) >= m.NumPoints() {
				return fmt.Errorf("geometry: face %d: point %d out of range [0,%d)", i, p, m.NumPoints())
			}
			referenced[p] = true
		}
	}
	for p, ok := range referenced {
		if !ok {
			return fmt.Errorf("geometry: point %d is isolated (referenced by no face)", p)
		}
	}
	return nil
}
