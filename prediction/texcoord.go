package prediction

import (
	"math"

	"github.com/cocosip/go-mesh-codec/geometry"
)

// TexcoordPortablePredict predicts a 2-component UV value at corner c from
// the positions and UV values of the triangle's other two, already
// decoded, vertices . It derives a
// local 2D basis from the 3D edge to the reference vertex and its
// in-plane perpendicular, so the same affine coefficients that relate the
// predicted vertex's position to the reference edge are applied to the UV
// values — this stays stable under quantization and does not depend on
// the handedness of the source coordinate system, since it never
// computes an absolute orientation, only a ratio along and across one
// reference edge. Falls back to delta against fallback when any needed
// neighbor is unavailable or degenerate.
func TexcoordPortablePredict(ctx *Context, c geometry.CornerIndex, fallback []int32) []int32 {
	ct := ctx.Corner
	n := ct.Vertex(ct.Next(c))
	p := ct.Vertex(ct.Prev(c))
	cur := ct.Vertex(c)

	posN, okN := ctx.Position(n)
	posP, okP := ctx.Position(p)
	posCur, okCur := ctx.Position(cur)
	uvN, okUN := ctx.Value(n)
	uvP, okUP := ctx.Value(p)
	if !okN || !okP || !okCur || !okUN || !okUP || len(uvN) < 2 || len(uvP) < 2 {
		return DeltaPredictOne(fallback)
	}

	e1 := sub3(posP, posN)
	e2 := sub3(posCur, posN)
	n1sq := dot3(e1, e1)
	if n1sq == 0 {
		return DeltaPredictOne(fallback)
	}
	s := dot3(e2, e1) / n1sq

	perp := [3]float64{e2[0] - s*e1[0], e2[1] - s*e1[1], e2[2] - s*e1[2]}
	normal := cross3(e1, e2)
	e1rot := cross3(normal, e1)
	e1rotLen := math.Sqrt(dot3(e1rot, e1rot))

	var t float64
	if e1rotLen > 0 {
		e1Len := math.Sqrt(n1sq)
		unit := [3]float64{e1rot[0] / e1rotLen, e1rot[1] / e1rotLen, e1rot[2] / e1rotLen}
		t = dot3(perp, unit) / e1Len
	}

	uvRefU := float64(uvP[0] - uvN[0])
	uvRefV := float64(uvP[1] - uvN[1])
	// In-plane perpendicular of the UV reference edge, 90 degrees rotated.
	uvPerpU := -uvRefV
	uvPerpV := uvRefU

	predU := float64(uvN[0]) + s*uvRefU + t*uvPerpU
	predV := float64(uvN[1]) + s*uvRefV + t*uvPerpV

	out := make([]int32, len(uvN))
	out[0] = int32(math.Round(predU))
	out[1] = int32(math.Round(predV))
	for i := 2; i < len(uvN); i++ {
		out[i] = uvN[i]
	}
	return out
}

func sub3(a, b []int32) [3]float64 {
	return [3]float64{float64(a[0] - b[0]), float64(a[1] - b[1]), float64(a[2] - b[2])}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
