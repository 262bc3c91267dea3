package operator

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags a ParamType.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindTuple
)

// ParamType is a schema entry: a scalar kind or a fixed-arity tuple.
type ParamType struct {
	Kind  Kind
	Elems []ParamType
}

// Scalar parameter types.
var (
	IntType    = ParamType{Kind: KindInt}
	FloatType  = ParamType{Kind: KindFloat}
	StringType = ParamType{Kind: KindString}
)

// TupleOf declares a fixed-arity tuple type.
func TupleOf(elems ...ParamType) ParamType {
	return ParamType{Kind: KindTuple, Elems: elems}
}

// ColorType is the (int, int, int) tuple used for RGB parameters.
var ColorType = TupleOf(IntType, IntType, IntType)

func (t ParamType) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "tuple[" + strings.Join(parts, ",") + "]"
	}
	return "unknown"
}

// MarshalJSON writes the type name, e.g. "tuple[int,int,int]".
func (t ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Accepts reports whether v satisfies the type.
func (t ParamType) Accepts(v Value) bool {
	switch val := v.(type) {
	case Int:
		return t.Kind == KindInt || t.Kind == KindFloat
	case Float:
		return t.Kind == KindFloat
	case String:
		return t.Kind == KindString
	case Tuple:
		if t.Kind != KindTuple || len(val) != len(t.Elems) {
			return false
		}
		for i, elem := range val {
			if !t.Elems[i].Accepts(elem) {
				return false
			}
		}
		return true
	}
	return false
}

// Coerce widens Int values in Float positions so that decoded numbers such as
// 1.0, which arrive as Int, take the declared type. Values that do not fit the
// type are returned unchanged for Accepts to reject.
func (t ParamType) Coerce(v Value) Value {
	switch val := v.(type) {
	case Int:
		if t.Kind == KindFloat {
			return Float(val)
		}
	case Tuple:
		if t.Kind != KindTuple || len(val) != len(t.Elems) {
			return v
		}
		out := make(Tuple, len(val))
		for i, elem := range val {
			out[i] = t.Elems[i].Coerce(elem)
		}
		return out
	}
	return v
}

// Value is a parameter value: Int, Float, String or Tuple.
type Value interface {
	TypeName() string
	fmt.Stringer
	isValue()
}

// Int is an integer parameter value.
type Int int64

// Float is a floating point parameter value.
type Float float64

// String is a string parameter value.
type String string

// Tuple is a fixed sequence of values.
type Tuple []Value

func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Tuple) isValue()  {}

func (Int) TypeName() string    { return "int" }
func (Float) TypeName() string  { return "float" }
func (String) TypeName() string { return "string" }

func (t Tuple) TypeName() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.TypeName()
	}
	return "tuple[" + strings.Join(parts, ",") + "]"
}

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string {
	f := float64(v)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v String) String() string { return strconv.Quote(string(v)) }

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// IntTuple builds a tuple of Int values.
func IntTuple(vals ...int) Tuple {
	t := make(Tuple, len(vals))
	for i, v := range vals {
		t[i] = Int(v)
	}
	return t
}

// ValueFromJSON converts a decoded JSON or YAML value.
//
// Integral numbers become Int, other numbers Float, and arrays Tuple.
func ValueFromJSON(v interface{}) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case float32:
		return ValueFromJSON(float64(val))
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return Float(f), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case string:
		return String(val), nil
	case []interface{}:
		t := make(Tuple, len(val))
		for i, elem := range val {
			ev, err := ValueFromJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			t[i] = ev
		}
		return t, nil
	case nil:
		return nil, fmt.Errorf("null is not a valid parameter value")
	}
	return nil, fmt.Errorf("unsupported parameter value of type %T", v)
}

// Params maps parameter names to values.
type Params map[string]Value

// ParamsFromJSON converts a decoded JSON object.
func ParamsFromJSON(m map[string]interface{}) (Params, error) {
	p := make(Params, len(m))
	for name, raw := range m {
		v, err := ValueFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		p[name] = v
	}
	return p, nil
}

// Names returns the parameter names sorted.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy; values are immutable.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, name := range p.Names() {
		parts = append(parts, name+"="+p[name].String())
	}
	return strings.Join(parts, ", ")
}

// Int returns an integer parameter.
func (p Params) Int(name string) (int64, error) {
	switch v := p[name].(type) {
	case Int:
		return int64(v), nil
	case nil:
		return 0, fmt.Errorf("missing parameter %q", name)
	default:
		return 0, fmt.Errorf("parameter %q is %s, not int", name, v.TypeName())
	}
}

// Float returns a numeric parameter, widening Int.
func (p Params) Float(name string) (float64, error) {
	switch v := p[name].(type) {
	case Float:
		return float64(v), nil
	case Int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("missing parameter %q", name)
	default:
		return 0, fmt.Errorf("parameter %q is %s, not float", name, v.TypeName())
	}
}

// Str returns a string parameter.
func (p Params) Str(name string) (string, error) {
	switch v := p[name].(type) {
	case String:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("missing parameter %q", name)
	default:
		return "", fmt.Errorf("parameter %q is %s, not string", name, v.TypeName())
	}
}

// Tuple returns a tuple parameter.
func (p Params) Tuple(name string) (Tuple, error) {
	switch v := p[name].(type) {
	case Tuple:
		return v, nil
	case nil:
		return nil, fmt.Errorf("missing parameter %q", name)
	default:
		return nil, fmt.Errorf("parameter %q is %s, not tuple", name, v.TypeName())
	}
}
