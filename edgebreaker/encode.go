package edgebreaker

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/corner"
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
)

// Connectivity is the result of traversing a mesh's corner table: the
// symbol stream, one auxiliary pinch-vertex index per S symbol, the face
// count of every connected component , and the traversal order used to sequence attribute residuals.
type Connectivity struct {
	Symbols        []Symbol
	SplitVertex    []uint32 // one entry per S symbol, indexing VertexOrder
	ComponentFaces []int
	VertexOrder    []geometry.PointIndex

	// IntroCorner[i] is the corner (in the original mesh's corner table)
	// at which VertexOrder[i] was first visited: 3*seed+k for the seed
	// face's three vertices, or the apex corner o for every later C
	// symbol. Attribute prediction schemes that read mesh neighborhood
	// state (parallelogram, texcoord, geometric normal) use this corner
	// to find already-decoded neighbors.
	IntroCorner []geometry.CornerIndex
}

// Encode traverses every face of faces exactly once via a deterministic
// per-component EdgeBreaker walk.
func Encode(faces []geometry.Face) (*Connectivity, error) {
	ct, err := corner.Build(faces)
	if err != nil {
		return nil, err
	}
	nf := len(faces)
	visitedFace := make([]bool, nf)
	visitedVertex := make(map[geometry.PointIndex]bool)
	vertexPos := make(map[geometry.PointIndex]int) // position in VertexOrder

	conn := &Connectivity{}

	closed := func(g geometry.CornerIndex) bool {
		o := ct.Opposite(g)
		if o == geometry.InvalidCorner {
			return true
		}
		return visitedFace[ct.Face(o)]
	}

	markVisited := func(v geometry.PointIndex, introCorner geometry.CornerIndex) {
		if !visitedVertex[v] {
			visitedVertex[v] = true
			vertexPos[v] = len(conn.VertexOrder)
			conn.VertexOrder = append(conn.VertexOrder, v)
			conn.IntroCorner = append(conn.IntroCorner, introCorner)
		}
	}

	for {
		seed, ok := nextSeedFace(faces, visitedFace)
		if !ok {
			break
		}
		faceCount := encodeComponent(ct, faces, seed, visitedFace, visitedVertex, vertexPos, markVisited, closed, conn)
		conn.ComponentFaces = append(conn.ComponentFaces, faceCount)
	}
	return conn, nil
}

// nextSeedFace returns the unvisited face with the lowest minimum vertex
// id.
func nextSeedFace(faces []geometry.Face, visitedFace []bool) (geometry.FaceIndex, bool) {
	best := geometry.FaceIndex(-1)
	var bestMin geometry.PointIndex
	for i, f := range faces {
		if visitedFace[i] {
			continue
		}
		m := f[0]
		for _, p := range f[1:] {
			if p < m {
				m = p
			}
		}
		if best == -1 || m < bestMin {
			best = geometry.FaceIndex(i)
			bestMin = m
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func encodeComponent(
	ct *corner.Table,
	faces []geometry.Face,
	seed geometry.FaceIndex,
	visitedFace []bool,
	visitedVertex map[geometry.PointIndex]bool,
	vertexPos map[geometry.PointIndex]int,
	markVisited func(geometry.PointIndex, geometry.CornerIndex),
	closed func(geometry.CornerIndex) bool,
	conn *Connectivity,
) int {
	visitedFace[seed] = true
	faceCount := 1
	for k, v := range faces[seed] {
		markVisited(v, geometry.CornerIndex(3*int(seed)+k))
	}

	// Any of the seed face's three corners can start the walk, but a
	// corner whose opposite edge is a mesh boundary immediately reads as
	// closed and ends the component after just the seed face, stranding
	// the other two edges unexplored. Prefer a corner with a live
	// opposite face so the traversal actually spreads into the rest of
	// the component; an isolated seed triangle (all three boundary) has
	// no such corner and falls back to corner 0, which correctly emits a
	// lone E.
	current := geometry.CornerIndex(3 * int(seed))
	for k := 0; k < 3; k++ {
		c := geometry.CornerIndex(3*int(seed) + k)
		if ct.Opposite(c) != geometry.InvalidCorner {
			current = c
			break
		}
	}
	var stack []geometry.CornerIndex

	for {
		if closed(current) {
			conn.Symbols = append(conn.Symbols, SymbolE)
			if len(stack) == 0 {
				break
			}
			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}
		o := ct.Opposite(current)
		apex := ct.Vertex(o)
		visitedFace[ct.Face(o)] = true
		faceCount++
		rightGate := ct.Prev(o)
		leftGate := ct.Next(o)

		if !visitedVertex[apex] {
			markVisited(apex, o)
			conn.Symbols = append(conn.Symbols, SymbolC)
			current = rightGate
			continue
		}

		leftClosed := closed(leftGate)
		rightClosed := closed(rightGate)
		switch {
		case leftClosed && !rightClosed:
			conn.Symbols = append(conn.Symbols, SymbolL)
			current = rightGate
		case rightClosed && !leftClosed:
			conn.Symbols = append(conn.Symbols, SymbolR)
			current = leftGate
		case !leftClosed && !rightClosed:
			conn.Symbols = append(conn.Symbols, SymbolS)
			conn.SplitVertex = append(conn.SplitVertex, uint32(vertexPos[apex]))
			stack = append(stack, leftGate)
			current = rightGate
		default:
			conn.Symbols = append(conn.Symbols, SymbolE)
			if len(stack) == 0 {
				return faceCount
			}
			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return faceCount
}

// ValidateSymbolCount checks the conservation property: a component
// with F faces emits exactly F symbols.
func ValidateSymbolCount(conn *Connectivity) error {
	total := 0
	for _, f := range conn.ComponentFaces {
		total += f
	}
	if total != len(conn.Symbols) {
		return errs.Wrap("edgebreaker.ValidateSymbolCount", errs.KindInternal, fmt.Errorf("edgebreaker: %d faces but %d symbols", total, len(conn.Symbols)))
	}
	return nil
}
