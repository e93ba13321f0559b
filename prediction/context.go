package prediction

import (
	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/geometry"
)

// Scheme identifies which prediction scheme produced (or must invert) a
// residual stream . It is transmitted as a per-attribute
// header byte.
type Scheme uint8

const (
	SchemeDelta Scheme = iota
	SchemeParallelogram
	SchemeMultiParallelogram
	SchemeTexcoordPortable
	SchemeGeometricNormal
)

func (s Scheme) String() string {
	switch s {
	case SchemeDelta:
		return "delta"
	case SchemeParallelogram:
		return "parallelogram"
	case SchemeMultiParallelogram:
		return "multi_parallelogram"
	case SchemeTexcoordPortable:
		return "texcoord_portable"
	case SchemeGeometricNormal:
		return "geometric_normal"
	default:
		return "unknown"
	}
}

// Context exposes the already-decoded neighborhood state a prediction
// scheme needs while processing one attribute in mesh traversal order
// . It is
// supplied by the EdgeBreaker codec, which alone knows the corner table
// and the decode/encode order.
type Context struct {
	Corner *corner.Table

	// Value returns the already-decoded component values for point p in
	// the attribute currently being predicted, or ok=false if p has not
	// been processed yet.
	Value func(p geometry.PointIndex) (v []int32, ok bool)

	// Position returns the already-decoded quantized position components
	// (always 3) for point p, used by GeometricNormal and
	// TexcoordPortable which predict from 3D geometry regardless of which
	// attribute is being coded. Both call it without a nil check; when no
	// position context is available it reports ok=false (e.g. while the
	// position attribute itself is being coded).
	Position func(p geometry.PointIndex) (v []int32, ok bool)
}

// opposingTriangleVertices returns (a, b, cPrime) for the parallelogram
// predicting the vertex at corner c: a, b are corner c's triangle's other
// two vertices (the opposite edge), cPrime is the apex of the
// neighbor face across that edge . ok is
// false when there is no neighbor face (boundary) — the caller must fall
// back to delta.
func opposingTriangleVertices(ct *corner.Table, c geometry.CornerIndex) (a, b, cPrime geometry.PointIndex, ok bool) {
	if ct.IsBoundary(c) {
		return 0, 0, 0, false
	}
	o := ct.Opposite(c)
	a = ct.Vertex(ct.Next(c))
	b = ct.Vertex(ct.Prev(c))
	cPrime = ct.Vertex(o)
	return a, b, cPrime, true
}
