package okskema

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind names the variant of a Value.
type Kind int

const (
	KindUnknown Kind = iota // Foreign Go type; never accepted by a schema.
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// KindOf reports the Value variant of v.
//
// Values follow the shape produced by encoding/json style decoders: nil,
// bool, string, []any, map[string]any, and json.Number or any Go numeric type.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	case json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	default:
		return KindUnknown
	}
}

// UnknownPolicy controls how undeclared object properties are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Ignore unknown keys and drop them from the output (default).
	UnknownPassthrough                      // Ignore unknown keys but copy them into the output unvalidated.
	UnknownStrict                           // Reject each unknown key with a failure.
)

// AsFloat64 converts a numeric Value to float64. NaN and infinities are not
// numbers of the value model and fail the conversion.
func AsFloat64(v any) (float64, bool) {
	f, ok := toFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// AsInt64 converts a numeric Value to int64. It fails for fractional values
// and for values outside the int64 range.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// AsUint64 converts a numeric Value to uint64. It fails for negative or
// fractional values and for values outside the uint64 range.
func AsUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case json.Number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, true
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return floatToUint64(f)
	case float64:
		return floatToUint64(n)
	case float32:
		return floatToUint64(float64(n))
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	if i, ok := AsInt64(v); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}

// 2^63 and 2^64 are exactly representable; anything at or above them overflows.
const (
	_twoPow63 = float64(1 << 63)
	_twoPow64 = float64(1<<63) * 2
)

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if f < -_twoPow63 || f >= _twoPow63 {
		return 0, false
	}
	return int64(f), true
}

func floatToUint64(f float64) (uint64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if f < 0 || f >= _twoPow64 {
		return 0, false
	}
	return uint64(f), true
}
