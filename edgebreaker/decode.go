package edgebreaker

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
)

// Decoded is the reconstructed connectivity: the face list and the
// traversal order in which vertices were first introduced (needed by
// attribute decoding, which must walk vertices in the same order the
// encoder did).
type Decoded struct {
	Faces       []geometry.Face
	VertexOrder []geometry.PointIndex
	NumVertices int

	// IntroCorner[i] is the corner, in the Table built over Faces, at
	// which VertexOrder[i] is first introduced — the decode-side
	// counterpart of Connectivity.IntroCorner, giving attribute
	// prediction the same neighborhood anchor the encoder used.
	IntroCorner []geometry.CornerIndex
}

// gate is an active boundary edge: a face will be attached outside the
// edge (from, to) in the loop's traversal direction.
type gate struct {
	from, to geometry.PointIndex
}

// Decode rebuilds connectivity from a symbol stream produced by Encode.
//
// The reconstruction maintains, per connected component, an explicit
// boundary loop of vertex ids (the set of already-placed vertices still
// bordering unvisited area) instead of growing a corner table with
// dangling Opposite pointers — splitting (S) then resolves to the pinch
// vertex named by splitVertex[...] rather than requiring the decoder to
// search for it, removing the ambiguity the base Rossignac algorithm
// leaves for generic (non-disk) topology.
func Decode(symbols []Symbol, splitVertex []uint32, componentFaces []int) (*Decoded, error) {
	d := &Decoded{}
	nextVertex := geometry.PointIndex(0)
	si := 0   // index into symbols
	spi := 0  // index into splitVertex

	for _, faceCount := range componentFaces {
		faceIdx0 := len(d.Faces)
		v0, v1, v2 := nextVertex, nextVertex+1, nextVertex+2
		nextVertex += 3
		d.Faces = append(d.Faces, geometry.Face{v0, v1, v2})
		d.VertexOrder = append(d.VertexOrder, v0, v1, v2)
		d.IntroCorner = append(d.IntroCorner,
			geometry.CornerIndex(3*faceIdx0+0),
			geometry.CornerIndex(3*faceIdx0+1),
			geometry.CornerIndex(3*faceIdx0+2))

		type loopState struct {
			loop []geometry.PointIndex
			g    gate
		}
		cur := loopState{loop: []geometry.PointIndex{v0, v1, v2}, g: gate{v1, v2}}
		var stack []loopState

		processed := 1
		for processed < faceCount {
			if si >= len(symbols) {
				return nil, errs.Wrap("edgebreaker.Decode", errs.KindBufferUnderflow, fmt.Errorf("edgebreaker: ran out of symbols mid-component"))
			}
			sym := symbols[si]
			si++

			switch sym {
			case SymbolC:
				w := nextVertex
				nextVertex++
				idx, err := findGateIndex(cur.loop, cur.g)
				if err != nil {
					return nil, err
				}
				cur.loop = insertAfter(cur.loop, idx, w)
				newFaceIdx := len(d.Faces)
				d.Faces = append(d.Faces, geometry.Face{cur.g.to, cur.g.from, w})
				d.VertexOrder = append(d.VertexOrder, w)
				d.IntroCorner = append(d.IntroCorner, geometry.CornerIndex(3*newFaceIdx+2))
				cur.g = gate{cur.g.from, w}
				processed++

			case SymbolL:
				idx, err := findGateIndex(cur.loop, cur.g)
				if err != nil {
					return nil, err
				}
				n := len(cur.loop)
				q := cur.loop[(idx+2)%n]
				d.Faces = append(d.Faces, geometry.Face{cur.g.to, cur.g.from, q})
				cur.loop = removeAt(cur.loop, (idx+1)%n)
				cur.g = gate{cur.g.from, q}
				processed++

			case SymbolR:
				idx, err := findGateIndex(cur.loop, cur.g)
				if err != nil {
					return nil, err
				}
				n := len(cur.loop)
				p := cur.loop[(idx-1+n)%n]
				d.Faces = append(d.Faces, geometry.Face{cur.g.to, cur.g.from, p})
				cur.loop = removeAt(cur.loop, idx)
				cur.g = gate{p, cur.g.to}
				processed++

			case SymbolS:
				if spi >= len(splitVertex) {
					return nil, errs.Wrap("edgebreaker.Decode", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: missing split-vertex auxiliary data"))
				}
				apexOrder := splitVertex[spi]
				spi++
				if int(apexOrder) >= len(d.VertexOrder) {
					return nil, errs.Wrap("edgebreaker.Decode", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: split-vertex index %d out of range", apexOrder))
				}
				apex := d.VertexOrder[apexOrder]
				idx, err := findGateIndex(cur.loop, cur.g)
				if err != nil {
					return nil, err
				}
				jdx, err := findVertexIndex(cur.loop, apex, idx)
				if err != nil {
					return nil, err
				}
				n := len(cur.loop)
				d.Faces = append(d.Faces, geometry.Face{cur.g.to, cur.g.from, apex})
				processed++

				sub1 := cyclicSlice(cur.loop, (idx+1)%n, jdx)
				sub2 := cyclicSlice(cur.loop, jdx, idx)
				stack = append(stack, loopState{loop: sub1, g: gate{apex, cur.g.to}})
				cur = loopState{loop: sub2, g: gate{cur.g.from, apex}}

			case SymbolE:
				if len(cur.loop) != 3 {
					return nil, errs.Wrap("edgebreaker.Decode", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: E symbol on a loop of size %d, want 3", len(cur.loop)))
				}
				idx, err := findGateIndex(cur.loop, cur.g)
				if err != nil {
					return nil, err
				}
				third := cur.loop[(idx+2)%3]
				d.Faces = append(d.Faces, geometry.Face{cur.g.to, cur.g.from, third})
				processed++
				if len(stack) == 0 {
					break
				}
				cur = stack[len(stack)-1]
				stack = stack[:len(stack)-1]

			default:
				return nil, errs.Wrap("edgebreaker.Decode", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: unknown symbol %d", sym))
			}
		}
	}
	d.NumVertices = int(nextVertex)
	return d, nil
}

func findGateIndex(loop []geometry.PointIndex, g gate) (int, error) {
	n := len(loop)
	for i := 0; i < n; i++ {
		if loop[i] == g.from && loop[(i+1)%n] == g.to {
			return i, nil
		}
	}
	return 0, errs.Wrap("edgebreaker.findGateIndex", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: gate (%d,%d) not found in loop", g.from, g.to))
}

// findVertexIndex returns the first occurrence of v in loop found by
// walking cyclically forward from two positions past skip; positions
// skip and skip+1 hold the gate itself, not the pinch point, and are
// never matched.
func findVertexIndex(loop []geometry.PointIndex, v geometry.PointIndex, skip int) (int, error) {
	n := len(loop)
	for step := 2; step < n; step++ {
		i := (skip + step) % n
		if loop[i] == v {
			return i, nil
		}
	}
	return 0, errs.Wrap("edgebreaker.findVertexIndex", errs.KindCorruptBitstream, fmt.Errorf("edgebreaker: split vertex %d not found in active loop", v))
}

func insertAfter(loop []geometry.PointIndex, idx int, v geometry.PointIndex) []geometry.PointIndex {
	out := make([]geometry.PointIndex, 0, len(loop)+1)
	out = append(out, loop[:idx+1]...)
	out = append(out, v)
	out = append(out, loop[idx+1:]...)
	return out
}

func removeAt(loop []geometry.PointIndex, idx int) []geometry.PointIndex {
	out := make([]geometry.PointIndex, 0, len(loop)-1)
	out = append(out, loop[:idx]...)
	out = append(out, loop[idx+1:]...)
	return out
}

// cyclicSlice returns the elements of loop from index from to index to
// inclusive, walking forward and wrapping around the end.
func cyclicSlice(loop []geometry.PointIndex, from, to int) []geometry.PointIndex {
	n := len(loop)
	var out []geometry.PointIndex
	for i := from;; i = (i + 1) % n {
		out = append(out, loop[i])
		if i == to {
			break
		}
	}
	return out
}
