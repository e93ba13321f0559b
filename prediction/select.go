package prediction

// EstimatedCost is a cheap stand-in for a full trial entropy-encode: the
// sum of each residual's zig-zag-mapped bit length, used to rank
// candidate schemes without paying for a real rANS pass per candidate.
// Lower is better.
func EstimatedCost(residuals [][]int32) uint64 {
	var cost uint64
	for _, r := range residuals {
		for _, c := range r {
			u := ZigZag(c)
			cost += uint64(bitLength(u)) + 1
		}
	}
	return cost
}

func bitLength(v uint32) int {
	n := 0
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}

// ChooseScheme picks the candidate with the smallest EstimatedCost among
// residualsByScheme, a map produced by running each candidate scheme over
// the same attribute. The framing encoder does not call it: schemes
// there come from a per-attribute override or DefaultScheme.
func ChooseScheme(residualsByScheme map[Scheme][][]int32) Scheme {
	best := SchemeDelta
	var bestCost uint64
	first := true
	for s, r := range residualsByScheme {
		c := EstimatedCost(r)
		if first || c < bestCost || (c == bestCost && s < best) {
			best = s
			bestCost = c
			first = false
		}
	}
	return best
}

// DefaultScheme returns the fixed, non-trial prediction scheme for a
// fast-path encode at the given decoding-speed hint, keyed by attribute
// kind. isPosition distinguishes the position attribute (which may use
// multi-parallelogram) from generic/color/other attributes (delta).
func DefaultScheme(isPosition, isTexcoord, isNormal bool, decodingSpeed int) Scheme {
	switch {
	case isNormal:
		return SchemeGeometricNormal
	case isTexcoord:
		if decodingSpeed >= 8 {
			return SchemeDelta
		}
		return SchemeTexcoordPortable
	case isPosition:
		if decodingSpeed >= 8 {
			return SchemeDelta
		}
		if decodingSpeed >= 5 {
			return SchemeParallelogram
		}
		return SchemeMultiParallelogram
	default:
		return SchemeDelta
	}
}
