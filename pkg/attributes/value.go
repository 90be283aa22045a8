package attributes

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType represents the type of an attribute value
type ValueType uint8

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a typed, comparable attribute value
type Value struct {
	Type ValueType
	b    bool
	i    int64
	f    float64
	s    string
}

// Helper functions to create typed values
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, b: b}
}

func IntValue(i int64) Value {
	return Value{Type: TypeInt, i: i}
}

func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, f: f}
}

func StringValue(s string) Value {
	return Value{Type: TypeString, s: s}
}

// ValueOf converts a plain Go value, as decoded from YAML or JSON, to a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint64:
		return uintValue(x)
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case string:
		return StringValue(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported attribute value type %T", v)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("integer %d overflows int64", u)
	}
	return IntValue(int64(u)), nil
}

func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) {
		return Value{}, fmt.Errorf("NaN is not a valid attribute value")
	}
	return FloatValue(f), nil
}

// Equal reports whether two values have the same type and content. Floats
// compare by bit pattern, so a value always equals itself.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeBool:
		return v.b == other.b
	case TypeInt:
		return v.i == other.i
	case TypeFloat:
		return math.Float64bits(v.f) == math.Float64bits(other.f)
	default:
		return v.s == other.s
	}
}

// Decode methods
func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return v.b, nil
}

func (v Value) AsInt() (int64, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return v.i, nil
}

func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return v.s, nil
}

// Interface returns the value as a plain Go value
func (v Value) Interface() any {
	switch v.Type {
	case TypeBool:
		return v.b
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	default:
		return v.s
	}
}

// String formats the value for logs and error messages
func (v Value) String() string {
	switch v.Type {
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return strconv.Quote(v.s)
	}
}
