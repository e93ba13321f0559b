package corner

import (
	"testing"

	"github.com/cocosip/go-mesh-codec/geometry"
)

func TestBuildQuadOppositeSymmetry(t *testing.T) {
	faces := []geometry.Face{
		{0, 1, 2},
		{0, 2, 3},
	}
	tbl, err := Build(faces)
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < tbl.NumCorners(); c++ {
		ci := geometry.CornerIndex(c)
		o := tbl.Opposite(ci)
		if o == geometry.InvalidCorner {
			continue
		}
		if tbl.Opposite(o) != ci {
			t.Errorf("corner %d: opposite(%d) != %d (got %d)", c, o, c, tbl.Opposite(o))
		}
		e1a, e1b := tbl.Vertex(tbl.Next(ci)), tbl.Vertex(tbl.Prev(ci))
		e2a, e2b := tbl.Vertex(tbl.Next(o)), tbl.Vertex(tbl.Prev(o))
		if !((e1a == e2a && e1b == e2b) || (e1a == e2b && e1b == e2a)) {
			t.Errorf("corner %d/%d: edge endpoints mismatch", c, o)
		}
	}
	// The shared edge (0,2) should be the only interior edge: exactly two
	// corners (one per face) have a non-boundary opposite.
	interior := 0
	for c := 0; c < tbl.NumCorners(); c++ {
		if !tbl.IsBoundary(geometry.CornerIndex(c)) {
			interior++
		}
	}
	if interior != 2 {
		t.Errorf("interior corner count = %d, want 2", interior)
	}
}

func TestBuildNonManifoldRejected(t *testing.T) {
	// Three faces sharing edge (0,1): non-manifold.
	faces := []geometry.Face{
		{0, 1, 2},
		{0, 1, 3},
		{1, 0, 4},
	}
	if _, err := Build(faces); err == nil {
		t.Fatal("expected NonManifold error")
	}
}

func TestUnitTriangleBoundary(t *testing.T) {
	faces := []geometry.Face{{0, 1, 2}}
	tbl, err := Build(faces)
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < tbl.NumCorners(); c++ {
		if !tbl.IsBoundary(geometry.CornerIndex(c)) {
			t.Errorf("corner %d: expected boundary in a single isolated triangle", c)
		}
	}
}
