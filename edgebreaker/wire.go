package edgebreaker

import (
	"github.com/cocosip/go-mesh-codec/buffer"
	"github.com/cocosip/go-mesh-codec/entropy"
)

// symbolPrecisionBits is the rANS table precision for the 5-symbol
// connectivity alphabet.
const symbolPrecisionBits = 8

// WriteConnectivity serializes a Connectivity's symbol stream, split
// vertex indices, and component face counts.
func WriteConnectivity(enc *buffer.EncoderBuffer, conn *Connectivity) error {
	if err := enc.WriteVarint(uint64(len(conn.ComponentFaces))); err != nil {
		return err
	}
	for _, fc := range conn.ComponentFaces {
		if err := enc.WriteVarint(uint64(fc)); err != nil {
			return err
		}
	}
	if err := enc.WriteVarint(uint64(len(conn.Symbols))); err != nil {
		return err
	}
	symU32 := make([]uint32, len(conn.Symbols))
	for i, s := range conn.Symbols {
		symU32[i] = uint32(s)
	}
	table, err := entropy.BuildTable(symU32, NumSymbols, symbolPrecisionBits)
	if err != nil {
		return err
	}
	if err := entropy.EncodeSymbols(enc, symU32, table); err != nil {
		return err
	}
	if err := enc.WriteVarint(uint64(len(conn.SplitVertex))); err != nil {
		return err
	}
	for _, sv := range conn.SplitVertex {
		if err := enc.WriteVarint(uint64(sv)); err != nil {
			return err
		}
	}
	return nil
}

// ReadConnectivity inverts WriteConnectivity, returning the decoded
// symbol stream, split vertex indices, and per-component face counts
// ready for Decode.
func ReadConnectivity(dec *buffer.DecoderBuffer) (symbols []Symbol, splitVertex []uint32, componentFaces []int, err error) {
	nc, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, nil, err
	}
	componentFaces = make([]int, nc)
	for i := range componentFaces {
		fc, err := dec.ReadVarint()
		if err != nil {
			return nil, nil, nil, err
		}
		componentFaces[i] = int(fc)
	}
	ns, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, nil, err
	}
	symU32, _, err := entropy.DecodeSymbols(dec, int(ns))
	if err != nil {
		return nil, nil, nil, err
	}
	symbols = make([]Symbol, len(symU32))
	for i, u := range symU32 {
		symbols[i] = Symbol(u)
	}
	nsv, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, nil, err
	}
	splitVertex = make([]uint32, nsv)
	for i := range splitVertex {
		v, err := dec.ReadVarint()
		if err != nil {
			return nil, nil, nil, err
		}
		splitVertex[i] = uint32(v)
	}
	return symbols, splitVertex, componentFaces, nil
}
