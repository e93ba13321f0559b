// Package edgebreaker implements the EdgeBreaker connectivity codec: it
// encodes a triangle mesh's connectivity as a stream of {C,L,R,S,E}
// symbols produced by a single deterministic traversal of the corner
// table, and sequences attribute residuals in that same traversal order
// so the decoder can rebuild connectivity and attribute values
// together.
package edgebreaker

import "fmt"

// Symbol is one of the five EdgeBreaker connectivity symbols. This
// implementation resolves topological splits (S) by carrying one
// auxiliary integer per split symbol identifying the pinch vertex by
// its position in the overall traversal order; it does not implement
// the separate M/N handle symbols.
type Symbol uint8

const (
	SymbolC Symbol = iota
	SymbolL
	SymbolR
	SymbolS
	SymbolE
)

// NumSymbols is the alphabet size entropy-coded for connectivity.
const NumSymbols = 5

func (s Symbol) String() string {
	switch s {
	case SymbolC:
		return "C"
	case SymbolL:
		return "L"
	case SymbolR:
		return "R"
	case SymbolS:
		return "S"
	case SymbolE:
		return "E"
	default:
		return fmt.Sprintf("Symbol(%d)", uint8(s))
	}
}
