package framing

import (
	"math"
	"testing"

	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
)

func buildPositionAttribute(t *testing.T, pts [][3]float32) *geometry.PointAttribute {
	t.Helper()
	attr, err := geometry.NewPointAttribute(0, geometry.AttributePosition, geometry.DataTypeFloat32, 3, false, len(pts))
	if err != nil {
		t.Fatalf("NewPointAttribute: %v", err)
	}
	if err := attr.SetIdentityMapping(len(pts)); err != nil {
		t.Fatalf("SetIdentityMapping: %v", err)
	}
	for i, p := range pts {
		for c := 0; c < 3; c++ {
			if err := attr.SetFloat32(geometry.AttributeValueIndex(i), c, p[c]); err != nil {
				t.Fatalf("SetFloat32: %v", err)
			}
		}
	}
	return attr
}

func buildMesh(t *testing.T, pts [][3]float32, faces []geometry.Face) *geometry.Mesh {
	t.Helper()
	mesh := geometry.NewMesh()
	if err := mesh.SetNumPoints(len(pts)); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	mesh.AddAttribute(buildPositionAttribute(t, pts))
	for _, f := range faces {
		if _, err := mesh.AddFace(f); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	return mesh
}

func positionsByIndex(t *testing.T, cloud *geometry.PointCloud) [][3]float32 {
	t.Helper()
	attr, ok := cloud.AttributeByType(geometry.AttributePosition)
	if !ok {
		t.Fatal("decoded cloud has no Position attribute")
	}
	out := make([][3]float32, cloud.NumPoints())
	for i := range out {
		vi, err := attr.MappedValue(geometry.PointIndex(i))
		if err != nil {
			t.Fatalf("MappedValue(%d): %v", i, err)
		}
		for c := 0; c < 3; c++ {
			v, err := attr.GetFloat32(vi, c)
			if err != nil {
				t.Fatalf("GetFloat32(%d,%d): %v", i, c, err)
			}
			out[i][c] = v
		}
	}
	return out
}

// TestUnitTriangleRoundTrip encodes and decodes a single triangle.
func TestUnitTriangleRoundTrip(t *testing.T) {
	pts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0.5, 1, 0}}
	faces := []geometry.Face{{0, 1, 2}}
	mesh := buildMesh(t, pts, faces)

	opts := NewEncoderOptions()
	stream, err := Encode(mesh.PointCloud, mesh, opts, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(stream) <= 20 || len(stream) >= 120 {
		t.Fatalf("stream length %d outside expected (20,120)", len(stream))
	}

	out, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Mesh == nil || out.Mesh.NumFaces() != 1 {
		t.Fatalf("expected 1 decoded face, got %v", out.Mesh)
	}
	tol := math.Pow(2, -13)
	got := positionsByIndex(t, out.Cloud)
	for i, p := range pts {
		for c := 0; c < 3; c++ {
			if math.Abs(float64(got[i][c]-p[c])) > tol {
				t.Errorf("point %d comp %d: got %v want %v (tol %v)", i, c, got[i][c], p[c], tol)
			}
		}
	}
}

// TestQuadRoundTrip checks that a re-encode of the decoded
// mesh reproduces the same byte stream.
func TestQuadRoundTrip(t *testing.T) {
	pts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	faces := []geometry.Face{{0, 1, 2}, {0, 2, 3}}
	mesh := buildMesh(t, pts, faces)

	opts := NewEncoderOptions()
	stream, err := Encode(mesh.PointCloud, mesh, opts, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Mesh.NumFaces() != 2 {
		t.Fatalf("expected 2 decoded faces, got %d", out.Mesh.NumFaces())
	}

	restream, err := Encode(out.Cloud, out.Mesh, opts, nil)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if len(restream) != len(stream) {
		t.Fatalf("re-encoded stream length %d != original %d", len(restream), len(stream))
	}
	for i := range stream {
		if stream[i] != restream[i] {
			t.Fatalf("re-encoded stream diverges at byte %d", i)
		}
	}
}

// TestPointCloudRoundTrip encodes and decodes a point cloud with no faces.
func TestPointCloudRoundTrip(t *testing.T) {
	const n = 100
	pts := make([][3]float32, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		phi := math.Pi * float64(i%17) / 17
		pts[i] = [3]float32{
			float32(math.Sin(phi) * math.Cos(theta)),
			float32(math.Sin(phi) * math.Sin(theta)),
			float32(math.Cos(phi)),
		}
	}
	cloud := geometry.NewPointCloud()
	if err := cloud.SetNumPoints(n); err != nil {
		t.Fatalf("SetNumPoints: %v", err)
	}
	cloud.AddAttribute(buildPositionAttribute(t, pts))

	opts := NewEncoderOptions()
	opts.EncodingMethod = MethodSequential
	bits := uint(11)
	opts.Attributes[0] = AttributeOptions{QuantizationBits: bits}

	stream, err := Encode(cloud, nil, opts, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Cloud.NumPoints() != n {
		t.Fatalf("got %d points, want %d", out.Cloud.NumPoints(), n)
	}
	got := positionsByIndex(t, out.Cloud)
	tol := math.Sqrt(3) * math.Pow(2, -10)
	for i := range pts {
		var d float64
		for c := 0; c < 3; c++ {
			diff := float64(got[i][c] - pts[i][c])
			d += diff * diff
		}
		if math.Sqrt(d) > tol {
			t.Errorf("point %d: distance %v exceeds tolerance %v", i, math.Sqrt(d), tol)
		}
	}
}

// TestDecodeCorruptedMagic checks that a mutated magic is rejected.
func TestDecodeCorruptedMagic(t *testing.T) {
	pts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	mesh := buildMesh(t, pts, []geometry.Face{{0, 1, 2}})
	stream, err := Encode(mesh.PointCloud, mesh, NewEncoderOptions(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	stream[4] = 'X' // "DRACO" -> "DRACX"

	out, err := Decode(stream)
	if err == nil {
		t.Fatal("expected CorruptBitstream error on mutated magic")
	}
	if !errs.Is(err, errs.KindCorruptBitstream) {
		t.Fatalf("expected CorruptBitstream, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil result on decode failure, got %v", out)
	}
}

// TestDecodeTruncatedStream checks that a truncated stream is rejected.
func TestDecodeTruncatedStream(t *testing.T) {
	pts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	mesh := buildMesh(t, pts, []geometry.Face{{0, 1, 2}})
	stream, err := Encode(mesh.PointCloud, mesh, NewEncoderOptions(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(stream) <= 10 {
		t.Fatal("fixture stream too short to truncate meaningfully")
	}
	truncated := stream[:len(stream)-10]

	out, err := Decode(truncated)
	if err == nil {
		t.Fatal("expected an error decoding a truncated stream")
	}
	if out != nil {
		t.Fatalf("expected nil result on decode failure, got %v", out)
	}
}
