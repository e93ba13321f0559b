package tools

import "testing"

func TestGoldenHashDeterministic(t *testing.T) {
	a := []byte("draco-mesh-stream-fixture")
	if GoldenHash(a) != GoldenHash(a) {
		t.Fatal("GoldenHash is not deterministic over the same input")
	}
}

func TestGoldenHashDistinguishesStreams(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	b := []byte{1, 2, 3, 5}
	if GoldenHashString(a) == GoldenHashString(b) {
		t.Fatal("GoldenHashString collided on distinct short inputs")
	}
}

func TestMatchesGolden(t *testing.T) {
	stream := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	golden := GoldenHashString(stream)
	if !MatchesGolden(stream, golden) {
		t.Fatal("MatchesGolden rejected the stream against its own recorded hash")
	}
	if MatchesGolden(append(append([]byte{}, stream...), 0x00), golden) {
		t.Fatal("MatchesGolden accepted a mutated stream")
	}
}

func TestDiffIdentical(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	if d := Diff(a, b); d != nil {
		t.Fatalf("Diff on identical streams returned %v, want nil", d)
	}
}

func TestDiffByteMismatch(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 9, 3}
	d := Diff(a, b)
	if d == nil || d.Offset != 1 || d.Want != 2 || d.Got != 9 {
		t.Fatalf("Diff = %+v, want mismatch at offset 1 (2 vs 9)", d)
	}
}

func TestDiffLengthMismatch(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3, 4}
	d := Diff(a, b)
	if d == nil || d.Offset != 3 || d.WantLen != 3 || d.GotLen != 4 {
		t.Fatalf("Diff = %+v, want length mismatch at offset 3", d)
	}
}
