package transform

import (
	"math"
	"testing"
)

func TestQuantizeMonotonic(t *testing.T) {
	q, err := NewQuantizer(RangeScalar, 12, []float32{-1, -1, -1}, []float32{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	prev := q.Quantize(0, -1)
	for v := float32(-0.999); v <= 1; v += 0.001 {
		cur := q.Quantize(0, v)
		if cur < prev {
			t.Fatalf("quantization not monotonic at v=%v: prev=%d cur=%d", v, prev, cur)
		}
		prev = cur
	}
}

func TestQuantizeDequantizeRoundTrip(t *testing.T) {
	q, err := NewQuantizer(RangePerComponent, 14, []float32{0, -5}, []float32{10, 5})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float32{0, 2.5, 10} {
		qv := q.Quantize(0, v)
		dv := q.Dequantize(0, qv)
		if math.Abs(float64(dv-v)) > 10.0/float64(q.MaxValue())+1e-4 {
			t.Errorf("component 0: v=%v dequantized=%v exceeds step tolerance", v, dv)
		}
	}
}

func TestOctahedralRoundTrip(t *testing.T) {
	vectors := [][3]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{1, 1, 1}, {-1, -1, -1}, {0.5, -0.3, 0.8},
	}
	const bits = 12
	for _, v := range vectors {
		length := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
		nx, ny, nz := float32(float64(v[0])/length), float32(float64(v[1])/length), float32(float64(v[2])/length)

		u, vv := EncodeOctahedral(v[0], v[1], v[2], bits)
		dx, dy, dz := DecodeOctahedral(u, vv, bits)

		dot := float64(nx*dx + ny*dy + nz*dz)
		if dot > 1 {
			dot = 1
		}
		angle := math.Acos(dot)
		tolerance := math.Pow(2, 1-float64(bits)) * 4 // slack for folding-region vectors
		if angle > tolerance {
			t.Errorf("vector %v: angular error %v exceeds tolerance %v", v, angle, tolerance)
		}
	}
}

func TestOctahedralZeroVector(t *testing.T) {
	u, v := EncodeOctahedral(0, 0, 0, 8)
	// Octahedral coordinate 0 sits at round(0.5 * (2^8 - 1)) = 128.
	mid := uint32(1) << (8 - 1)
	if u != mid || v != mid {
		t.Errorf("zero vector encoded as (%d,%d), want midpoint (%d,%d)", u, v, mid, mid)
	}
}
