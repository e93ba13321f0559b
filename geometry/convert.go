package geometry

import "math"

// decodeComponentFloat32 interprets b (DataType.ByteSize() bytes, little
// endian by construction of RawBytes callers) as a float32. Integer types
// are read as fixed point in [0,1] (unsigned) or [-1,1] (signed) when
// the normalized flag is set.
func decodeComponentFloat32(dt DataType, normalized bool, b []byte) float32 {
	switch dt {
	case DataTypeFloat32:
		return math.Float32frombits(leUint32(b))
	case DataTypeFloat64:
		return float32(math.Float64frombits(leUint64(b)))
	case DataTypeInt8:
		v := int8(b[0])
		if normalized {
			return clampNormSigned(float32(v), 127)
		}
		return float32(v)
	case DataTypeUint8:
		v := b[0]
		if normalized {
			return float32(v) / 255
		}
		return float32(v)
	case DataTypeInt16:
		v := int16(leUint16(b))
		if normalized {
			return clampNormSigned(float32(v), 32767)
		}
		return float32(v)
	case DataTypeUint16:
		v := leUint16(b)
		if normalized {
			return float32(v) / 65535
		}
		return float32(v)
	case DataTypeInt32:
		v := int32(leUint32(b))
		if normalized {
			return clampNormSigned(float32(v), 2147483647)
		}
		return float32(v)
	case DataTypeUint32:
		v := leUint32(b)
		if normalized {
			return float32(v) / 4294967295
		}
		return float32(v)
	case DataTypeInt64:
		v := int64(leUint64(b))
		if normalized {
			return clampNormSigned(float32(v), float32(1<<63-1))
		}
		return float32(v)
	case DataTypeUint64:
		v := leUint64(b)
		if normalized {
			return float32(v) / float32(1<<64-1)
		}
		return float32(v)
	case DataTypeBool:
		if b[0] != 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func clampNormSigned(v, maxAbs float32) float32 {
	r := v / maxAbs
	if r < -1 {
		return -1
	}
	return r
}

func encodeComponentFloat32(dt DataType, normalized bool, b []byte, v float32) {
	switch dt {
	case DataTypeFloat32:
		putLeUint32(b, math.Float32bits(v))
	case DataTypeFloat64:
		putLeUint64(b, math.Float64bits(float64(v)))
	case DataTypeInt8:
		if normalized {
			v *= 127
		}
		b[0] = byte(int8(v))
	case DataTypeUint8:
		if normalized {
			v *= 255
		}
		b[0] = byte(uint8(v))
	case DataTypeInt16:
		if normalized {
			v *= 32767
		}
		putLeUint16(b, uint16(int16(v)))
	case DataTypeUint16:
		if normalized {
			v *= 65535
		}
		putLeUint16(b, uint16(v))
	case DataTypeInt32:
		if normalized {
			v *= 2147483647
		}
		putLeUint32(b, uint32(int32(v)))
	case DataTypeUint32:
		if normalized {
			v *= 4294967295
		}
		putLeUint32(b, uint32(v))
	case DataTypeInt64:
		if normalized {
			v *= float32(1 << 62)
		}
		putLeUint64(b, uint64(int64(v)))
	case DataTypeUint64:
		if normalized {
			v *= float32(1 << 63)
		}
		putLeUint64(b, uint64(v))
	case DataTypeBool:
		if v != 0 {
			b[0] = 1
		} else {
			b[0] = 0
		}
	}
}

func leUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func leUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
func putLeUint16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putLeUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
