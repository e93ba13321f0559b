// Package framing ties the codec's subsystems together: header layout,
// encoder/decoder options, metadata, and the top-level Encode/Decode
// entry points that dispatch to the sequential or EdgeBreaker codec.
//
// A thin struct of named options with defaults and a Validate method,
// dispatching to the concrete codec by a method enum rather than a
// runtime-registered implementation.
package framing

import (
	"fmt"

	"github.com/cocosip/go-mesh-codec/errs"
	"github.com/cocosip/go-mesh-codec/geometry"
	"github.com/cocosip/go-mesh-codec/prediction"
)

// EncodingMethod selects the connectivity strategy.
type EncodingMethod uint8

const (
	MethodSequential EncodingMethod = iota
	MethodEdgebreaker
)

// AttributeOptions carries the per-attribute overrides: quantization_bits
// and an optional forced prediction_scheme.
type AttributeOptions struct {
	QuantizationBits uint
	PredictionScheme *prediction.Scheme // nil: the encoder uses prediction.DefaultScheme
}

// EncoderOptions holds global encoding fields plus a per-attribute keyed
// override map.
type EncoderOptions struct {
	EncodingSpeed  int // 0-10; range-checked by Validate, not otherwise read by the encoder
	DecodingSpeed  int // 0-10; advisory hint
	EncodingMethod EncodingMethod

	Attributes map[geometry.AttributeID]AttributeOptions
}

// NewEncoderOptions returns the default options: encoding and decoding
// speed 10, edgebreaker method, and the per-semantic quantization_bits
// defaults (14 position, 10 normal, 8 color, 12 texcoord), applied lazily
// per attribute by defaultQuantizationBits when no override is present.
// At every EncodingSpeed the prediction scheme is the per-attribute
// override or prediction.DefaultScheme; no trial encode is run.
func NewEncoderOptions() *EncoderOptions {
	return &EncoderOptions{
		EncodingSpeed:  10,
		DecodingSpeed:  10,
		EncodingMethod: MethodEdgebreaker,
		Attributes:     make(map[geometry.AttributeID]AttributeOptions),
	}
}

// Validate checks EncoderOptions is well-formed.
func (o *EncoderOptions) Validate() error {
	if o == nil {
		return errs.New("framing.EncoderOptions.Validate", errs.KindInvalidParameter, "nil options")
	}
	if o.EncodingSpeed < 0 || o.EncodingSpeed > 10 {
		return errs.Wrap("framing.EncoderOptions.Validate", errs.KindInvalidParameter, fmt.Errorf("framing: encoding_speed %d out of [0,10]", o.EncodingSpeed))
	}
	if o.DecodingSpeed < 0 || o.DecodingSpeed > 10 {
		return errs.Wrap("framing.EncoderOptions.Validate", errs.KindInvalidParameter, fmt.Errorf("framing: decoding_speed %d out of [0,10]", o.DecodingSpeed))
	}
	if o.EncodingMethod != MethodSequential && o.EncodingMethod != MethodEdgebreaker {
		return errs.Wrap("framing.EncoderOptions.Validate", errs.KindInvalidParameter, fmt.Errorf("framing: unknown encoding method %d", o.EncodingMethod))
	}
	for id, a := range o.Attributes {
		if a.QuantizationBits != 0 && (a.QuantizationBits < 1 || a.QuantizationBits > 30) {
			return errs.Wrap("framing.EncoderOptions.Validate", errs.KindInvalidParameter, fmt.Errorf("framing: attribute %d: quantization_bits %d out of [1,30]", id, a.QuantizationBits))
		}
	}
	return nil
}

// defaultQuantizationBits returns the per-semantic default.
func defaultQuantizationBits(t geometry.AttributeType) uint {
	switch t {
	case geometry.AttributePosition:
		return 14
	case geometry.AttributeNormal:
		return 10
	case geometry.AttributeColor:
		return 8
	case geometry.AttributeTexCoord:
		return 12
	default:
		return 12
	}
}

func (o *EncoderOptions) quantizationBitsFor(attr *geometry.PointAttribute) uint {
	if a, ok := o.Attributes[attr.ID]; ok && a.QuantizationBits != 0 {
		return a.QuantizationBits
	}
	return defaultQuantizationBits(attr.Type)
}

func (o *EncoderOptions) schemeFor(attr *geometry.PointAttribute) prediction.Scheme {
	if a, ok := o.Attributes[attr.ID]; ok && a.PredictionScheme != nil {
		return *a.PredictionScheme
	}
	return prediction.DefaultScheme(
		attr.Type == geometry.AttributePosition,
		attr.Type == geometry.AttributeTexCoord,
		attr.Type == geometry.AttributeNormal,
		o.DecodingSpeed,
	)
}
