package prediction

import "github.com/cocosip/go-mesh-codec/geometry"

// ParallelogramPredict predicts the value at corner c's vertex as a + b -
// c' from the opposite edge's endpoints and the apex of the neighboring
// face . It falls back to delta against
// fallback when the neighbor face is missing (boundary) or any of a, b,
// c' has not yet been decoded.
func ParallelogramPredict(ctx *Context, c geometry.CornerIndex, fallback []int32) []int32 {
	a, b, cp, ok := opposingTriangleVertices(ctx.Corner, c)
	if !ok {
		return DeltaPredictOne(fallback)
	}
	va, okA := ctx.Value(a)
	vb, okB := ctx.Value(b)
	vc, okC := ctx.Value(cp)
	if !okA || !okB || !okC {
		return DeltaPredictOne(fallback)
	}
	out := make([]int32, len(va))
	for i := range out {
		out[i] = va[i] + vb[i] - vc[i]
	}
	return out
}

// incidentParallelograms returns every valid (a,b,c') triple formed by a
// face incident to the vertex being predicted at corner c, by walking the
// corners around that vertex via Next/Opposite. The walk runs in one
// direction only and stops at the first boundary edge, so at a boundary
// vertex faces lying the other way round from c are not visited.
func incidentParallelograms(ctx *Context, c geometry.CornerIndex) [][3]geometry.PointIndex {
	var out [][3]geometry.PointIndex
	ct := ctx.Corner

	visit := func(corner geometry.CornerIndex) {
		a, b, cp, ok := opposingTriangleVertices(ct, corner)
		if !ok {
			return
		}
		if _, ok := ctx.Value(a); !ok {
			return
		}
		if _, ok := ctx.Value(b); !ok {
			return
		}
		if _, ok := ctx.Value(cp); !ok {
			return
		}
		out = append(out, [3]geometry.PointIndex{a, b, cp})
	}

	// Walk corners sharing the vertex at c by alternating Opposite/Next
	// around the fan, stopping when we return to c or hit a boundary.
	start := c
	cur := c
	for {
		visit(cur)
		next := ct.Opposite(ct.Next(cur))
		if next == geometry.InvalidCorner {
			break
		}
		cur = ct.Next(next)
		if cur == start {
			break
		}
	}
	return out
}

// MultiParallelogramPredict averages up to N parallelogram predictors
// from every valid opposite face meeting at the vertex being predicted.
// crease, when true, forces the single-parallelogram fallback at c
// instead of averaging.
func MultiParallelogramPredict(ctx *Context, c geometry.CornerIndex, crease bool, fallback []int32) []int32 {
	if crease {
		return ParallelogramPredict(ctx, c, fallback)
	}
	triples := incidentParallelograms(ctx, c)
	if len(triples) == 0 {
		return DeltaPredictOne(fallback)
	}
	n := len(fallback)
	sum := make([]int64, n)
	for _, tr := range triples {
		va, _ := ctx.Value(tr[0])
		vb, _ := ctx.Value(tr[1])
		vc, _ := ctx.Value(tr[2])
		for i := 0; i < n; i++ {
			sum[i] += int64(va[i]) + int64(vb[i]) - int64(vc[i])
		}
	}
	out := make([]int32, n)
	k := int64(len(triples))
	for i := range out {
		// Round to nearest, matching the average of k parallelogram
		// predictions.
		s := sum[i]
		if s >= 0 {
			out[i] = int32((s + k/2) / k)
		} else {
			out[i] = int32(-((-s + k/2) / k))
		}
	}
	return out
}

// ChooseCrease decides, for one vertex being predicted under the
// constrained multi-parallelogram scheme, whether to set its crease flag:
// true forces the single-parallelogram fallback instead of averaging
// every incident one, whichever yields the smaller zig-zag residual cost
// against the true quantized target. This is the per-vertex analogue of
// EstimatedCost/ChooseScheme's whole-attribute trial selection.
func ChooseCrease(ctx *Context, c geometry.CornerIndex, target, fallback []int32) bool {
	multi := MultiParallelogramPredict(ctx, c, false, fallback)
	single := MultiParallelogramPredict(ctx, c, true, fallback)
	return residualCost(target, single) < residualCost(target, multi)
}

func residualCost(target, pred []int32) uint64 {
	var cost uint64
	for i := range target {
		cost += uint64(bitLength(ZigZag(target[i]-pred[i]))) + 1
	}
	return cost
}
