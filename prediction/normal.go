package prediction

import (
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/transform"
)

// GeometricNormalPredict predicts the octahedral-encoded normal at
// corner c's vertex from the area-weighted average of incident face
// normals, computed in the already-decoded quantized position space
// . The residual the caller forms is the
// signed difference between this prediction and the true value in
// octahedral coordinates. ok is false if no incident face has all three
// positions already decoded.
func GeometricNormalPredict(ctx *Context, c geometry.CornerIndex, bits uint) (u, v uint32, ok bool) {
	ct := ctx.Corner
	var sum [3]float64
	any := false

	start := c
	cur := c
	for {
		a := ct.Vertex(cur)
		b := ct.Vertex(ct.Next(cur))
		cc := ct.Vertex(ct.Prev(cur))
		pa, okA := ctx.Position(a)
		pb, okB := ctx.Position(b)
		pc, okC := ctx.Position(cc)
		if okA && okB && okC {
			e1 := sub3(pb, pa)
			e2 := sub3(pc, pa)
			n := cross3(e1, e2)
			sum[0] += n[0]
			sum[1] += n[1]
			sum[2] += n[2]
			any = true
		}
		next := ct.Opposite(ct.Next(cur))
		if next == geometry.InvalidCorner {
			break
		}
		cur = ct.Next(next)
		if cur == start {
			break
		}
	}
	if !any {
		return 0, 0, false
	}
	u, v = transform.EncodeOctahedral(float32(sum[0]), float32(sum[1]), float32(sum[2]), bits)
	return u, v, true
}
