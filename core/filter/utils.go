package filter

import (
	"fmt"
	"reflect"
	"strconv"
)

func toString(v any) string {
	return fmt.Sprintf("%v", v)
}

// toFloat64 converts a value of various numeric types to a float64. It
// returns the converted float64 and whether the conversion was possible.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// valuesEqual is the strict equality used by equals/in. Numeric values compare
// numerically regardless of their Go type, so an int 25 equals a float64 25
// coming out of a JSON round trip; everything else compares by deep equality.
func valuesEqual(a, b any) bool {
	if fa, ok := toFloat64AnyNumeric(a); ok {
		if fb, ok := toFloat64AnyNumeric(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// toFloat64AnyNumeric is toFloat64 restricted to genuinely numeric inputs;
// numeric-looking strings stay strings for equality purposes.
func toFloat64AnyNumeric(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return toFloat64(v)
}

// isEmptyValue reports whether a resolved field value counts as empty for the
// isEmpty/isNotEmpty operators: nil, empty string, boolean false or numeric
// zero.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	default:
		if f, ok := toFloat64(v); ok {
			return f == 0
		}
		return false
	}
}
