// Package codec is the thin top-level entry point: a named registry of
// encoder profiles (preset framing.EncoderOptions) plus convenience
// Encode/Decode wrappers around the framing package.
package codec

import (
	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/framing"
	"github.com/cocosip/go-mesh-codec/geometry"
)

// Profile is a named, registerable encoder configuration.
type Profile interface {
	Name() string
	UID() string
	Options() *framing.EncoderOptions
}

type namedProfile struct {
	name, uid string
	opts      *framing.EncoderOptions
}

func (p *namedProfile) Name() string                    { return p.name }
func (p *namedProfile) UID() string                     { return p.uid }
func (p *namedProfile) Options() *framing.EncoderOptions { return p.opts }

// ErrProfileNotFound is returned by Get for an unregistered name or UID.
var ErrProfileNotFound = errs.New("codec.Get", errs.KindInvalidParameter, "profile not found")

func init() {
	Register(&namedProfile{
		name: "edgebreaker",
		uid:  "draco-mesh-edgebreaker-v1",
		opts: framing.NewEncoderOptions(),
	})

	compact := framing.NewEncoderOptions()
	compact.EncodingSpeed = 0 // framing only range-checks EncodingSpeed, so this profile emits the same stream as "edgebreaker"
	Register(&namedProfile{
		name: "edgebreaker-compact",
		uid:  "draco-mesh-edgebreaker-compact-v1",
		opts: compact,
	})

	seq := framing.NewEncoderOptions()
	seq.EncodingMethod = framing.MethodSequential
	Register(&namedProfile{
		name: "sequential",
		uid:  "draco-sequential-v1",
		opts: seq,
	})
}

// Encode compresses cloud (and mesh, if non-nil) using the named or
// UID-identified profile's preset options. It is a convenience wrapper
// around framing.Encode for callers that want a canned options profile
// instead of building framing.EncoderOptions by hand.
func Encode(nameOrUID string, cloud *geometry.PointCloud, mesh *geometry.Mesh, meta *framing.Metadata) ([]byte, error) {
	p, err := Get(nameOrUID)
	if err != nil {
		return nil, err
	}
	return framing.Encode(cloud, mesh, p.Options(), meta)
}

// Decode parses a self-describing byte stream produced by Encode (of
// this package or framing.Encode directly); the profile used to encode
// it need not be known or registered, since the stream carries its own
// encoder type and per-attribute metadata.
func Decode(data []byte) (*framing.Decoded, error) {
	return framing.Decode(data)
}
