// Package corner implements the half-edge-style corner table over a
// triangle mesh's face list: O(1) next/prev/face/vertex
// queries and an opposite-corner lookup built by pairing corners that
// share an unordered edge.
//
// Built as one deterministic pass over the face list producing a flat
// array, rather than grown incrementally with in-place editing.
package corner

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
)

// Table is a corner table built from exactly one Mesh's face list.
type Table struct {
	numFaces int
	vertex   []geometry.PointIndex   // length 3*numFaces, vertex(c)
	opposite []geometry.CornerIndex  // length 3*numFaces, opposite(c) or InvalidCorner
}

type edgeKey struct {
	lo, hi geometry.PointIndex
}

func makeEdgeKey(a, b geometry.PointIndex) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// Build constructs a Table from faces: for each face f and
// k in {0,1,2}, corner 3f+k takes vertex = faces[f][k]. Edges are keyed by
// the unordered pair of the corner's next/prev vertices; a third corner
// sharing an edge already paired is a NonManifold error.
func Build(faces []geometry.Face) (*Table, error) {
	nf := len(faces)
	t := &Table{
		numFaces: nf,
		vertex:   make([]geometry.PointIndex, 3*nf),
		opposite: make([]geometry.CornerIndex, 3*nf),
	}
	for i := range t.opposite {
		t.opposite[i] = geometry.InvalidCorner
	}
	for f, face := range faces {
		for k := 0; k < 3; k++ {
			t.vertex[3*f+k] = face[k]
		}
	}

	pending := make(map[edgeKey]geometry.CornerIndex, 3*nf)
	for c := 0; c < 3*nf; c++ {
		ci := geometry.CornerIndex(c)
		a := t.vertex[t.Next(ci)]
		b := t.vertex[t.Prev(ci)]
		key := makeEdgeKey(a, b)
		if other, ok := pending[key]; ok {
			if t.opposite[other] != geometry.InvalidCorner {
				return nil, errs.Wrap("corner.Build", errs.KindNonManifold, fmt.Errorf("corner: edge (%d,%d) shared by more than two corners", key.lo, key.hi))
			}
			t.opposite[ci] = other
			t.opposite[other] = ci
			continue
		}
		pending[key] = ci
	}
	return t, nil
}

// NumFaces returns F.
func (t *Table) NumFaces() int { return t.numFaces }

// NumCorners returns 3F.
func (t *Table) NumCorners() int { return len(t.vertex) }

// Next returns 3*(c/3) + (c+1)%3.
func (t *Table) Next(c geometry.CornerIndex) geometry.CornerIndex {
	f := int(c) / 3
	k := int(c) % 3
	return geometry.CornerIndex(3*f + (k+1)%3)
}

// Prev returns 3*(c/3) + (c+2)%3.
func (t *Table) Prev(c geometry.CornerIndex) geometry.CornerIndex {
	f := int(c) / 3
	k := int(c) % 3
	return geometry.CornerIndex(3*f + (k+2)%3)
}

// Face returns c/3.
func (t *Table) Face(c geometry.CornerIndex) geometry.FaceIndex {
	return geometry.FaceIndex(int(c) / 3)
}

// Vertex returns the point index at corner c.
func (t *Table) Vertex(c geometry.CornerIndex) geometry.PointIndex {
	return t.vertex[c]
}

// Opposite returns the corner on the adjacent face across the edge
// opposite c, or geometry.InvalidCorner for a boundary edge.
func (t *Table) Opposite(c geometry.CornerIndex) geometry.CornerIndex {
	return t.opposite[c]
}

// IsBoundary reports whether corner c's opposite edge has no neighbor.
func (t *Table) IsBoundary(c geometry.CornerIndex) bool {
	return t.opposite[c] == geometry.InvalidCorner
}

// LeftCorner returns the corner across the edge from prev(c), i.e. the
// corner reached by crossing the "left" edge of corner c's triangle.
func (t *Table) LeftCorner(c geometry.CornerIndex) geometry.CornerIndex {
	return t.Opposite(t.Next(c))
}

// RightCorner returns the corner across the edge from next(c).
func (t *Table) RightCorner(c geometry.CornerIndex) geometry.CornerIndex {
	return t.Opposite(t.Prev(c))
}

// CornersForVertex returns every corner whose Vertex is v, by linear scan.
// Used for per-vertex prediction (multi-parallelogram, geometric normal)
// where call frequency does not justify a cached reverse index.
func (t *Table) CornersForVertex(v geometry.PointIndex) []geometry.CornerIndex {
	var out []geometry.CornerIndex
	for c := 0; c < len(t.vertex); c++ {
		if t.vertex[c] == v {
			out = append(out, geometry.CornerIndex(c))
		}
	}
	return out
}
