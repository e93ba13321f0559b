package prediction

import (
	"math/rand"
	"testing"

	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/geometry"
)

func TestZigZagRoundTrip(t *testing.T) {
	vals := []int32{0, 1, -1, 2, -2, 2147483647, -2147483648, 12345, -54321}
	for _, v := range vals {
		u := ZigZag(v)
		got := UnZigZag(u)
		if got != v {
			t.Errorf("ZigZag roundtrip failed for %d: got %d via u=%d", v, got, u)
		}
	}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := int32(r.Uint32())
		if got := UnZigZag(ZigZag(v)); got != v {
			t.Fatalf("random roundtrip failed for %d, got %d", v, got)
		}
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	values := [][]int32{{10, 20}, {12, 18}, {15, 15}, {9, 40}}
	res := DeltaResiduals(values)
	got := DeltaReconstruct(res)
	for i := range values {
		for c := range values[i] {
			if got[i][c] != values[i][c] {
				t.Errorf("entry %d component %d: got %d want %d", i, c, got[i][c], values[i][c])
			}
		}
	}
}

func TestParallelogramPredictFallsBackOnBoundary(t *testing.T) {
	faces := []geometry.Face{{0, 1, 2}}
	ct, err := corner.Build(faces)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{
		Corner: ct,
		Value: func(p geometry.PointIndex) ([]int32, bool) {
			return nil, false
		},
	}
	fallback := []int32{5, 5, 5}
	got := ParallelogramPredict(ctx, geometry.CornerIndex(0), fallback)
	for i := range got {
		if got[i] != fallback[i] {
			t.Errorf("expected delta fallback, got %v", got)
		}
	}
}

func TestParallelogramPredictInteriorEdge(t *testing.T) {
	// Quad: faces (0,1,2) and (0,2,3). Corner at vertex 3 in face 1 (index
	// 2 of face 1, i.e. corner 5) has opposite edge (0,2) shared with
	// face 0, whose apex across that edge is vertex 1.
	faces := []geometry.Face{{0, 1, 2}, {0, 2, 3}}
	ct, err := corner.Build(faces)
	if err != nil {
		t.Fatal(err)
	}
	values := map[geometry.PointIndex][]int32{
		0: {0, 0, 0},
		1: {10, 0, 0},
		2: {10, 10, 0},
	}
	ctx := &Context{
		Corner: ct,
		Value: func(p geometry.PointIndex) ([]int32, bool) {
			v, ok := values[p]
			return v, ok
		},
	}
	// Corner 5 = face 1 (0,2,3), local index 2 -> vertex 3.
	pred := ParallelogramPredict(ctx, geometry.CornerIndex(5), []int32{0, 0, 0})
	// a = next(5) = vertex 0 (0,0,0), b = prev(5) = vertex 2 (10,10,0),
	// c' = vertex 1 (10,0,0): a + b - c' = (0,10,0).
	want := []int32{0, 10, 0}
	if len(pred) != 3 {
		t.Fatalf("expected 3 components, got %d", len(pred))
	}
	for i := range want {
		if pred[i] != want[i] {
			t.Fatalf("component %d: got %d, want %d (pred %v)", i, pred[i], want[i], pred)
		}
	}
}
