package entropy

import (
	"testing"

	"github.com/cocosip/go-mesh-codec/buffer"
)

func TestRansSymbolRoundTrip(t *testing.T) {
	cases := [][]uint32{
		{0, 0, 0, 1, 2, 3, 3, 3, 3, 4},
		{0, 1, 0, 1, 0, 1, 0, 1},
		{5},
		make([]uint32, 200),
	}
	for i := range cases[3] {
		cases[3][i] = uint32(i % 7)
	}
	for ci, symbols := range cases {
		tbl, err := BuildTable(symbols, 8, 10)
		if err != nil {
			t.Fatalf("case %d: BuildTable: %v", ci, err)
		}
		var sum uint32
		for _, f := range tbl.Freq {
			sum += f
		}
		if sum != 1<<10 {
			t.Fatalf("case %d: freq sums to %d, want %d", ci, sum, 1<<10)
		}

		enc := buffer.NewEncoderBuffer()
		if err := EncodeSymbols(enc, symbols, tbl); err != nil {
			t.Fatalf("case %d: EncodeSymbols: %v", ci, err)
		}
		dec := buffer.NewDecoderBuffer(enc.Bytes())
		got, _, err := DecodeSymbols(dec, len(symbols))
		if err != nil {
			t.Fatalf("case %d: DecodeSymbols: %v", ci, err)
		}
		if len(got) != len(symbols) {
			t.Fatalf("case %d: got %d symbols, want %d", ci, len(got), len(symbols))
		}
		for i := range symbols {
			if got[i] != symbols[i] {
				t.Fatalf("case %d: symbol %d: got %d, want %d", ci, i, got[i], symbols[i])
			}
		}
	}
}

func TestRansBitRoundTrip(t *testing.T) {
	bits := make([]bool, 0, 500)
	for i := 0; i < 500; i++ {
		bits = append(bits, (i*37)%5 == 0)
	}
	e := NewRansBitEncoder()
	for _, b := range bits {
		e.EncodeBit(b)
	}
	enc := buffer.NewEncoderBuffer()
	if err := e.Flush(enc); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	dec := buffer.NewDecoderBuffer(enc.Bytes())
	d, err := NewRansBitDecoder(dec)
	if err != nil {
		t.Fatalf("NewRansBitDecoder: %v", err)
	}
	if d.Remaining() != len(bits) {
		t.Fatalf("remaining = %d, want %d", d.Remaining(), len(bits))
	}
	for i, want := range bits {
		got, err := d.DecodeBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestCorruptFrequencyTable(t *testing.T) {
	enc := buffer.NewEncoderBuffer()
	_ = enc.WriteVarint(4)
	_ = enc.WriteUint8(4) // precision bits -> L=16
	// Frequencies that do not sum to 16.
	_ = enc.WriteVarint(2) // count 1
	_ = enc.WriteVarint(2) // count 1
	_ = enc.WriteVarint(2) // count 1
	_ = enc.WriteVarint(2) // count 1
	dec := buffer.NewDecoderBuffer(enc.Bytes())
	if _, err := ReadTable(dec); err == nil {
		t.Fatal("expected error for malformed frequency table")
	}
}
