package cost

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// value is a runtime value: float64, string or tuple.
type value interface{}

type tuple []value

func fromParam(v operator.Value) value {
	switch val := v.(type) {
	case operator.Int:
		return float64(val)
	case operator.Float:
		return float64(val)
	case operator.String:
		return string(val)
	case operator.Tuple:
		out := make(tuple, len(val))
		for i, elem := range val {
			out[i] = fromParam(elem)
		}
		return out
	}
	return nil
}

func typeName(v value) string {
	switch v.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case tuple:
		return "tuple"
	}
	return "unknown"
}

func asNumber(v value, context string) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: expected number, got %s", context, typeName(v))
	}
	return f, nil
}

func equalValues(a, b value) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case tuple:
		bv, ok := b.(tuple)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func boolValue(b bool) value {
	if b {
		return 1.0
	}
	return 0.0
}

func (n *numberLit) eval(map[string]value) (value, error) { return n.v, nil }
func (n *stringLit) eval(map[string]value) (value, error) { return n.v, nil }

func (n *varRef) eval(env map[string]value) (value, error) {
	v, ok := env[n.name]
	if !ok {
		return nil, fmt.Errorf("name %q is not defined", n.name)
	}
	return v, nil
}

func (n *tupleLit) eval(env map[string]value) (value, error) {
	out := make(tuple, len(n.elems))
	for i, elem := range n.elems {
		v, err := elem.eval(env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (n *unaryOp) eval(env map[string]value) (value, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	f, err := asNumber(v, "unary "+n.op)
	if err != nil {
		return nil, err
	}
	if n.op == "-" {
		return -f, nil
	}
	return f, nil
}

func (n *binaryOp) eval(env map[string]value) (value, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}
	return binary(n.op, left, right)
}

// eval stops at the first pair that does not hold; later operands are not
// evaluated.
func (n *compareChain) eval(env map[string]value) (value, error) {
	left, err := n.operands[0].eval(env)
	if err != nil {
		return nil, err
	}
	for i, op := range n.ops {
		right, err := n.operands[i+1].eval(env)
		if err != nil {
			return nil, err
		}
		holds, err := binary(op, left, right)
		if err != nil {
			return nil, err
		}
		if holds == 0.0 {
			return holds, nil
		}
		left = right
	}
	return boolValue(true), nil
}

func binary(op string, left, right value) (value, error) {
	switch op {
	case "==":
		return boolValue(equalValues(left, right)), nil
	case "!=":
		return boolValue(!equalValues(left, right)), nil
	}

	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return stringOp(op, ls, rs)
		}
	}

	a, err := asNumber(left, "operator "+op)
	if err != nil {
		return nil, err
	}
	b, err := asNumber(right, "operator "+op)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, errDivisionByZero
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return nil, errDivisionByZero
		}
		// Result takes the sign of the divisor.
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r, nil
	case "**":
		if a == 0 && b < 0 {
			return nil, errDivisionByZero
		}
		return math.Pow(a, b), nil
	case "<":
		return boolValue(a < b), nil
	case "<=":
		return boolValue(a <= b), nil
	case ">":
		return boolValue(a > b), nil
	case ">=":
		return boolValue(a >= b), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func stringOp(op, a, b string) (value, error) {
	switch op {
	case "+":
		return a + b, nil
	case "<":
		return boolValue(a < b), nil
	case "<=":
		return boolValue(a <= b), nil
	case ">":
		return boolValue(a > b), nil
	case ">=":
		return boolValue(a >= b), nil
	}
	return nil, fmt.Errorf("operator %s: unsupported for strings", op)
}

func (n *callExpr) eval(env map[string]value) (value, error) {
	args := make([]value, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := n.fn(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.name, err)
	}
	return v, nil
}

type builtin func(args []value) (value, error)

var builtins = map[string]builtin{
	"sqrt":       unaryMath(sqrt),
	"cbrt":       unaryMath(func(x float64) (float64, error) { return math.Pow(x, 1.0/3), nil }),
	"fourthrt":   unaryMath(func(x float64) (float64, error) { return math.Pow(x, 0.25), nil }),
	"abs":        unaryMath(func(x float64) (float64, error) { return math.Abs(x), nil }),
	"sum":        sumOf,
	"diff":       diffOf,
	"rgb_to_val": rgbToVal,
	"delta_e":    deltaE,
}

func arity(args []value, n int) error {
	if len(args) != n {
		return fmt.Errorf("takes %d argument(s), got %d", n, len(args))
	}
	return nil
}

func unaryMath(fn func(float64) (float64, error)) builtin {
	return func(args []value) (value, error) {
		if err := arity(args, 1); err != nil {
			return nil, err
		}
		x, err := asNumber(args[0], "argument")
		if err != nil {
			return nil, err
		}
		return fn(x)
	}
}

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, errors.New("math domain error")
	}
	return math.Sqrt(x), nil
}

func sumOf(args []value) (value, error) {
	if len(args) == 0 {
		return nil, errors.New("takes at least 1 argument")
	}
	items := args
	if len(args) == 1 {
		seq, ok := args[0].(tuple)
		if !ok {
			return nil, fmt.Errorf("expected tuple, got %s", typeName(args[0]))
		}
		items = seq
	}
	total := 0.0
	for _, item := range items {
		f, err := asNumber(item, "element")
		if err != nil {
			return nil, err
		}
		total += f
	}
	return total, nil
}

func diffOf(args []value) (value, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	if equalValues(args[0], args[1]) {
		return 0.0, nil
	}
	return 3.0, nil
}

func rgbToVal(args []value) (value, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	c, err := components(args[0])
	if err != nil {
		return nil, err
	}
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2], nil
}

func deltaE(args []value) (value, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	a, err := colorArg(args[0])
	if err != nil {
		return nil, err
	}
	b, err := colorArg(args[1])
	if err != nil {
		return nil, err
	}
	return a.DeltaE(b), nil
}

func colorArg(v value) (region.RGB, error) {
	c, err := components(v)
	if err != nil {
		return region.RGB{}, err
	}
	return region.FromInts(int64(c[0]), int64(c[1]), int64(c[2]))
}

// components accepts an (r, g, b) tuple or its "(r, g, b)" string form.
func components(v value) ([3]float64, error) {
	var comps [3]float64
	switch val := v.(type) {
	case tuple:
		if len(val) != 3 {
			return comps, fmt.Errorf("expected 3 color components, got %d", len(val))
		}
		for i, c := range val {
			f, err := asNumber(c, "color component")
			if err != nil {
				return comps, err
			}
			comps[i] = f
		}
	case string:
		parts := strings.Split(strings.Trim(strings.TrimSpace(val), "()"), ",")
		if len(parts) != 3 {
			return comps, fmt.Errorf("malformed color string %q", val)
		}
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return comps, fmt.Errorf("malformed color string %q", val)
			}
			comps[i] = f
		}
	default:
		return comps, fmt.Errorf("expected color, got %s", typeName(v))
	}
	return comps, nil
}
