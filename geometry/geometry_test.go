package geometry

import "testing"

func newPositionCloud(t *testing.T, n int) *PointCloud {
	t.Helper()
	pc := NewPointCloud()
	if err := pc.SetNumPoints(n); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	attr, err := NewPointAttribute(0, AttributePosition, DataTypeFloat32, 3, false, n)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := attr.SetIdentityMapping(n); err != nil {
		t.Fatalf("SetIdentityMapping: %v", err)
	}
	pc.AddAttribute(attr)
	return pc
}

func TestValidateRejectsNilCloud(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected an error validating a nil point cloud")
	}
}

func TestValidateRequiresPositionAttribute(t *testing.T) {
	pc := NewPointCloud()
	if err := pc.SetNumPoints(3); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	if err := Validate(pc); err == nil {
		t.Fatal("expected an error validating a cloud with no Position attribute")
	}
}

func TestValidateRejectsDuplicateAttributeID(t *testing.T) {
	pc := newPositionCloud(t, 3)
	dup, err := NewPointAttribute(0, AttributeColor, DataTypeUint8, 3, true, 3)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := dup.SetIdentityMapping(3); err != nil {
		t.Fatalf("SetIdentityMapping: %v", err)
	}
	// Bypass AddAttribute's own id-collision guard to exercise Validate's
	// independent check.
	pc.attributes = append(pc.attributes, dup)
	if err := Validate(pc); err == nil {
		t.Fatal("expected an error validating a cloud with two attributes sharing id 0")
	}
}

func TestValidateRejectsMapLengthMismatch(t *testing.T) {
	pc := newPositionCloud(t, 4)
	attr, _ := pc.AttributeByType(AttributePosition)
	if err := attr.SetMapping(make([]AttributeValueIndex, 2)); err != nil {
		t.Fatalf("SetMapping: %v", err)
	}
	if err := Validate(pc); err == nil {
		t.Fatal("expected an error validating a cloud whose attribute map length != N")
	}
}

func TestValidateAcceptsWellFormedCloud(t *testing.T) {
	pc := newPositionCloud(t, 5)
	if err := Validate(pc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateMeshRejectsOutOfRangeFaceIndex(t *testing.T) {
	pc := newPositionCloud(t, 3)
	m := &Mesh{PointCloud: pc, faces: []Face{{0, 1, 2}}}
	m.faces[0][2] = 9
	if err := ValidateMesh(m); err == nil {
		t.Fatal("expected an error validating a face referencing an out-of-range point")
	}
}

func TestValidateMeshRejectsIsolatedVertex(t *testing.T) {
	pc := newPositionCloud(t, 4)
	m := &Mesh{PointCloud: pc, faces: []Face{{0, 1, 2}}}
	if err := ValidateMesh(m); err == nil {
		t.Fatal("expected an error validating a mesh with a point referenced by no face")
	}
}

func TestValidateMeshAcceptsClosedTriangle(t *testing.T) {
	pc := newPositionCloud(t, 3)
	m := &Mesh{PointCloud: pc, faces: []Face{{0, 1, 2}}}
	if err := ValidateMesh(m); err != nil {
		t.Fatalf("ValidateMesh: %v", err)
	}
}

func TestMeshAddFaceAndSetFaceGrowsList(t *testing.T) {
	m := NewMesh()
	if err := m.SetNumPoints(6); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	idx, err := m.AddFace(Face{0, 1, 2})
	if err != nil {
		t.Fatalf("AddFace: %v", err)
	}
	if idx != 0 {
		t.Fatalf("AddFace index = %d, want 0", idx)
	}
	if err := m.SetFace(FaceIndex(2), Face{3, 4, 5}); err != nil {
		t.Fatalf("SetFace: %v", err)
	}
	if m.NumFaces() != 3 {
		t.Fatalf("NumFaces = %d, want 3", m.NumFaces())
	}
	f, err := m.Face(1)
	if err != nil {
		t.Fatalf("Face(1): %v", err)
	}
	if f != (Face{}) {
		t.Fatalf("Face(1) = %v, want zero value for the ungrown gap", f)
	}
}

func TestMeshSetFaceRejectsOutOfRangePoint(t *testing.T) {
	m := NewMesh()
	if err := m.SetNumPoints(3); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	if err := m.SetFace(0, Face{0, 1, 3}); err == nil {
		t.Fatal("expected an error setting a face with a point index >= NumPoints()")
	}
}

func TestPointAttributeMappedVsDirect(t *testing.T) {
	attr, err := NewPointAttribute(1, AttributeTexCoord, DataTypeFloat32, 2, false, 2)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := attr.SetMapping([]AttributeValueIndex{0, 0, 1}); err != nil {
		t.Fatalf("SetMapping: %v", err)
	}
	if !attr.IsMapped() {
		t.Fatal("expected IsMapped true for a non-identity map")
	}

	direct, err := NewPointAttribute(2, AttributePosition, DataTypeFloat32, 3, false, 3)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := direct.SetIdentityMapping(3); err != nil {
		t.Fatalf("SetIdentityMapping: %v", err)
	}
	if direct.IsMapped() {
		t.Fatal("expected IsMapped false for an identity map")
	}
}

func TestPointAttributeFloat32RoundTrip(t *testing.T) {
	attr, err := NewPointAttribute(0, AttributePosition, DataTypeFloat32, 3, false, 2)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := attr.SetFloat32(0, 0, 1.5); err != nil {
		t.Fatalf("SetFloat32: %v", err)
	}
	if err := attr.SetFloat32(1, 2, -2.25); err != nil {
		t.Fatalf("SetFloat32: %v", err)
	}
	got, err := attr.GetFloat32(0, 0)
	if err != nil {
		t.Fatalf("GetFloat32: %v", err)
	}
	if got != 1.5 {
		t.Fatalf("GetFloat32(0,0) = %v, want 1.5", got)
	}
	got, err = attr.GetFloat32(1, 2)
	if err != nil {
		t.Fatalf("GetFloat32: %v", err)
	}
	if got != -2.25 {
		t.Fatalf("GetFloat32(1,2) = %v, want -2.25", got)
	}
}

func TestPointAttributeRawBytesOutOfRange(t *testing.T) {
	attr, err := NewPointAttribute(0, AttributePosition, DataTypeFloat32, 3, false, 1)
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if _, err := attr.RawBytes(1); err == nil {
		t.Fatal("expected an error reading a value index >= M")
	}
}

func TestDataTypeByteSize(t *testing.T) {
	cases := []struct {
		dt   DataType
		want int
	}{
		{DataTypeInt8, 1},
		{DataTypeUint16, 2},
		{DataTypeFloat32, 4},
		{DataTypeFloat64, 8},
		{DataTypeBool, 1},
	}
	for _, c := range cases {
		if got := c.dt.ByteSize(); got != c.want {
			t.Errorf("%v.ByteSize() = %d, want %d", c.dt, got, c.want)
		}
	}
}
