package edgebreaker

import (
	"testing"

	"github.com/cocosip/go-mesh-codec/geometry"
)

// sameFaceSet checks got and want describe the same triangulation modulo
// vertex re-indexing: both must have the same face count and vertex
// count, and there must exist a bijective relabeling of got's vertex ids
// onto want's under which every face matches as an unordered triple
// (EdgeBreaker is free to re-wind a face's starting corner). Found by
// brute-force backtracking, which is fine at the small vertex counts
// these tests use.
func sameFaceSet(t *testing.T, got, want []geometry.Face) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("face count mismatch: got %d want %d", len(got), len(want))
	}
	gv := distinctVertices(got)
	wv := distinctVertices(want)
	if len(gv) != len(wv) {
		t.Fatalf("vertex count mismatch: got %d want %d", len(gv), len(wv))
	}
	wantSet := make(map[[3]geometry.PointIndex]bool, len(want))
	for _, f := range want {
		wantSet[sortedTriple(f)] = true
	}
	assign := make(map[geometry.PointIndex]geometry.PointIndex, len(gv))
	used := make(map[geometry.PointIndex]bool, len(wv))
	if !findRelabeling(got, wantSet, gv, wv, assign, used) {
		t.Fatalf("faces %v are not a vertex re-indexing of %v", got, want)
	}
}

func distinctVertices(faces []geometry.Face) []geometry.PointIndex {
	seen := make(map[geometry.PointIndex]bool)
	var out []geometry.PointIndex
	for _, f := range faces {
		for _, v := range f {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func sortedTriple(f geometry.Face) [3]geometry.PointIndex {
	s := [3]geometry.PointIndex{f[0], f[1], f[2]}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if s[j] < s[i] {
				s[i], s[j] = s[j], s[i]
			}
		}
	}
	return s
}

func findRelabeling(got []geometry.Face, wantSet map[[3]geometry.PointIndex]bool, gv, wv []geometry.PointIndex, assign map[geometry.PointIndex]geometry.PointIndex, used map[geometry.PointIndex]bool) bool {
	if len(assign) == len(gv) {
		for _, f := range got {
			if !wantSet[sortedTriple(geometry.Face{assign[f[0]], assign[f[1]], assign[f[2]]})] {
				return false
			}
		}
		return true
	}
	g := gv[len(assign)]
	for _, w := range wv {
		if used[w] {
			continue
		}
		assign[g] = w
		used[w] = true
		if findRelabeling(got, wantSet, gv, wv, assign, used) {
			return true
		}
		delete(assign, g)
		delete(used, w)
	}
	return false
}

func TestEncodeSingleTriangle(t *testing.T) {
	faces := []geometry.Face{{0, 1, 2}}
	conn, err := Encode(faces)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateSymbolCount(conn); err != nil {
		t.Fatal(err)
	}
	if len(conn.Symbols) != 1 || conn.Symbols[0] != SymbolE {
		t.Fatalf("single triangle should encode as one E symbol, got %v", conn.Symbols)
	}

	dec, err := Decode(conn.Symbols, conn.SplitVertex, conn.ComponentFaces)
	if err != nil {
		t.Fatal(err)
	}
	sameFaceSet(t, dec.Faces, faces)
	if dec.NumVertices != 3 {
		t.Fatalf("expected 3 vertices, got %d", dec.NumVertices)
	}
}

func TestEncodeQuad(t *testing.T) {
	// Two triangles sharing an edge: a square split along one diagonal.
	faces := []geometry.Face{{0, 1, 2}, {0, 2, 3}}
	conn, err := Encode(faces)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateSymbolCount(conn); err != nil {
		t.Fatal(err)
	}
	if len(conn.Symbols) != 2 {
		t.Fatalf("quad should encode as 2 symbols, got %d: %v", len(conn.Symbols), conn.Symbols)
	}
	if len(conn.ComponentFaces) != 1 {
		t.Fatalf("two triangles sharing an edge form one component, got %d: %v", len(conn.ComponentFaces), conn.ComponentFaces)
	}

	dec, err := Decode(conn.Symbols, conn.SplitVertex, conn.ComponentFaces)
	if err != nil {
		t.Fatal(err)
	}
	if dec.NumVertices != 4 {
		t.Fatalf("expected 4 vertices, got %d", dec.NumVertices)
	}
	sameFaceSet(t, dec.Faces, faces)
}

func TestEncodeOctahedron(t *testing.T) {
	// A closed octahedron: 6 vertices, 8 faces, every edge shared by
	// exactly two faces.
	faces := []geometry.Face{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	conn, err := Encode(faces)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateSymbolCount(conn); err != nil {
		t.Fatal(err)
	}

	dec, err := Decode(conn.Symbols, conn.SplitVertex, conn.ComponentFaces)
	if err != nil {
		t.Fatal(err)
	}
	if dec.NumVertices != 6 {
		t.Fatalf("expected 6 vertices, got %d", dec.NumVertices)
	}
	sameFaceSet(t, dec.Faces, faces)
}

func TestNonManifoldRejected(t *testing.T) {
	// Three faces sharing the same edge (0,1): not a valid 2-manifold.
	faces := []geometry.Face{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}}
	_, err := Encode(faces)
	if err == nil {
		t.Fatal("expected NonManifold error")
	}
}
