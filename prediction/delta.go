package prediction

// DeltaResiduals computes residuals for values in processing order: value
// 0 has no predictor (residual = value itself); value i>0 predicts from
// value i-1. values is laid out component-major per entry (numComponents
// components per entry, interleaved in component order).
func DeltaResiduals(values [][]int32) [][]int32 {
	out := make([][]int32, len(values))
	var prev []int32
	for i, v := range values {
		r := make([]int32, len(v))
		if i == 0 {
			copy(r, v)
		} else {
			for c := range v {
				r[c] = v[c] - prev[c]
			}
		}
		out[i] = r
		prev = v
	}
	return out
}

// DeltaReconstruct inverts DeltaResiduals, rebuilding values from
// residuals in processing order.
func DeltaReconstruct(residuals [][]int32) [][]int32 {
	out := make([][]int32, len(residuals))
	var prev []int32
	for i, r := range residuals {
		v := make([]int32, len(r))
		if i == 0 {
			copy(v, r)
		} else {
			for c := range r {
				v[c] = prev[c] + r[c]
			}
		}
		out[i] = v
		prev = v
	}
	return out
}

// DeltaPredictOne predicts the next value from prev alone, for use by
// schemes that fall back to delta against the previously decoded value.
func DeltaPredictOne(prev []int32) []int32 {
	out := make([]int32, len(prev))
	copy(out, prev)
	return out
}
