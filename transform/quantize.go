// Package transform implements the codec's per-attribute value
// transforms: min/range quantization and octahedral normal encoding.
// Both are pure numeric transforms with no knowledge of mesh
// connectivity, built on fixed-point scaling generalized from a single
// global scale factor to per-attribute, per-component ranges.
package transform

import (
	"fmt"
	"math"

	"github.com/cocosip/go-mesh-codec/errs"
)

// RangeMode selects how Quantizer computes the divisor used for every
// component.
type RangeMode uint8

const (
	// RangeScalar uses a single range, the max spread across all
	// components, for every component.
	RangeScalar RangeMode = iota
	// RangePerComponent uses each component's own spread independently.
	RangePerComponent
)

// Quantizer holds the side-data a quantized attribute must carry
// alongside its encoded bits: per-component minimums, the range(s), and
// the bit width q.
type Quantizer struct {
	Mode       RangeMode
	Bits       uint
	Min        []float32
	Range      []float32 // len 1 if Mode == RangeScalar, else len(Min)
}

// NewQuantizer computes a Quantizer's Min/Range side-data from the
// observed per-component [min,max] pairs. bits must be in [1,30].
func NewQuantizer(mode RangeMode, bits uint, minv, maxv []float32) (*Quantizer, error) {
	if len(minv) != len(maxv) || len(minv) == 0 {
		return nil, errs.Wrap("transform.NewQuantizer", errs.KindInvalidParameter, fmt.Errorf("transform: mismatched or empty min/max (%d/%d)", len(minv), len(maxv)))
	}
	if bits == 0 || bits > 30 {
		return nil, errs.Wrap("transform.NewQuantizer", errs.KindInvalidParameter, fmt.Errorf("transform: quantization bits %d out of [1,30]", bits))
	}
	q := &Quantizer{Mode: mode, Bits: bits, Min: append([]float32(nil), minv...)}
	switch mode {
	case RangeScalar:
		var r float32
		for c := range minv {
			if d := maxv[c] - minv[c]; d > r {
				r = d
			}
		}
		if r == 0 {
			r = 1
		}
		q.Range = []float32{r}
	case RangePerComponent:
		q.Range = make([]float32, len(minv))
		for c := range minv {
			r := maxv[c] - minv[c]
			if r == 0 {
				r = 1
			}
			q.Range[c] = r
		}
	default:
		return nil, errs.Wrap("transform.NewQuantizer", errs.KindInvalidParameter, fmt.Errorf("transform: unknown range mode %d", mode))
	}
	return q, nil
}

func (q *Quantizer) rangeFor(c int) float32 {
	if q.Mode == RangeScalar {
		return q.Range[0]
	}
	return q.Range[c]
}

// MaxValue returns 2^Bits - 1, the largest representable quantized value.
func (q *Quantizer) MaxValue() uint32 { return uint32(1)<<q.Bits - 1 }

// Quantize maps component c's value v to an integer in [0, 2^Bits - 1]:
// q_c = round((v - min_c) / range * (2^q-1)), clamped.
func (q *Quantizer) Quantize(c int, v float32) uint32 {
	max := float64(q.MaxValue())
	t := (float64(v) - float64(q.Min[c])) / float64(q.rangeFor(c)) * max
	r := math.Round(t)
	if r < 0 {
		r = 0
	}
	if r > max {
		r = max
	}
	return uint32(r)
}

// Dequantize inverts Quantize: v ≈ min_c + q_c * range / (2^q-1).
func (q *Quantizer) Dequantize(c int, qv uint32) float32 {
	max := float64(q.MaxValue())
	v := float64(q.Min[c]) + float64(qv)*float64(q.rangeFor(c))/max
	return float32(v)
}
