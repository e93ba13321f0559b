package sequential

import (
	"bytes"
	"math"
	"testing"

	"github.com/icza/bitio"

	"github.com/cocosip/go-mesh-codec/buffer"
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

func TestEncodeDecodeAttributeRoundTrip(t *testing.T) {
	pts := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0.5, 0.5, 1},
	}
	attr := buildPositionAttribute(t, pts)

	enc, err := EncodeAttribute(attr, len(pts), 14)
	if err != nil {
		t.Fatalf("EncodeAttribute: %v", err)
	}
	if len(enc.Residuals) != len(pts)*3 {
		t.Fatalf("residual count = %d, want %d", len(enc.Residuals), len(pts)*3)
	}

	out, err := DecodeAttribute(0, geometry.AttributePosition, geometry.DataTypeFloat32, 3, false, len(pts), enc.Quantizer, enc.Residuals)
	if err != nil {
		t.Fatalf("DecodeAttribute: %v", err)
	}
	for i, p := range pts {
		vi, err := out.MappedValue(geometry.PointIndex(i))
		if err != nil {
			t.Fatalf("MappedValue(%d): %v", i, err)
		}
		for c := 0; c < 3; c++ {
			got, err := out.GetFloat32(vi, c)
			if err != nil {
				t.Fatalf("GetFloat32(%d,%d): %v", i, c, err)
			}
			if math.Abs(float64(got-p[c])) > 1e-3 {
				t.Errorf("point %d comp %d: got %v want %v", i, c, got, p[c])
			}
		}
	}
}

func TestEncodeDecodeFaceBlock(t *testing.T) {
	faces := []geometry.Face{
		{0, 1, 2},
		{2, 1, 3},
		{2, 3, 4},
	}
	enc := buffer.NewEncoderBuffer()
	if err := EncodeFaceBlock(enc, faces); err != nil {
		t.Fatalf("EncodeFaceBlock: %v", err)
	}
	dec := buffer.NewDecoderBuffer(enc.Bytes())
	got, err := DecodeFaceBlock(dec)
	if err != nil {
		t.Fatalf("DecodeFaceBlock: %v", err)
	}
	if len(got) != len(faces) {
		t.Fatalf("got %d faces, want %d", len(got), len(faces))
	}
	for i, f := range faces {
		if got[i] != f {
			t.Errorf("face %d: got %v want %v", i, got[i], f)
		}
	}
}

// TestFaceBlockBitsCrossCheck cross-checks the varint/zig-zag byte layout
// EncodeFaceBlock produces against an independent bit reader (icza/bitio),
// read byte-at-a-time, as a sanity check that the stream is plain bytes
// with no stray bit-mode framing leaking into the byte-mode region.
func TestFaceBlockBitsCrossCheck(t *testing.T) {
	faces := []geometry.Face{{0, 1, 2}, {5, 6, 7}}
	enc := buffer.NewEncoderBuffer()
	if err := EncodeFaceBlock(enc, faces); err != nil {
		t.Fatalf("EncodeFaceBlock: %v", err)
	}
	raw := enc.Bytes()

	br := bitio.NewReader(bytes.NewReader(raw))
	var readBack []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			break
		}
		readBack = append(readBack, b)
	}
	if len(readBack) != len(raw) {
		t.Fatalf("bitio read %d bytes, want %d", len(readBack), len(raw))
	}
	for i := range raw {
		if readBack[i] != raw[i] {
			t.Fatalf("byte %d: bitio read %#x, want %#x", i, readBack[i], raw[i])
		}
	}
}
