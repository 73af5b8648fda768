package formula

import (
	"math"
)

// value is a number or a boolean. Booleans take part in arithmetic as 1 and
// 0 but are not a numeric formula result.
type value struct {
	num    float64
	isBool bool
}

func number(n float64) value {
	return value{num: n}
}

func boolean(b bool) value {
	if b {
		return value{num: 1, isBool: true}
	}
	return value{num: 0, isBool: true}
}

func (v value) truthy() bool {
	return v.num != 0 && !math.IsNaN(v.num)
}

type helper struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	fn               func(args []float64) float64
}

var helpers = map[string]helper{
	"abs":   {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"ceil":  {1, 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"floor": {1, 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"round": {1, 1, func(a []float64) float64 { return math.Floor(a[0] + 0.5) }},
	"trunc": {1, 1, func(a []float64) float64 { return math.Trunc(a[0]) }},
	"sqrt":  {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"pow":   {2, 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"sign": {1, 1, func(a []float64) float64 {
		switch {
		case a[0] > 0:
			return 1
		case a[0] < 0:
			return -1
		}
		return a[0]
	}},
	"min": {0, -1, func(a []float64) float64 {
		m := math.Inf(1)
		for _, v := range a {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {0, -1, func(a []float64) float64 {
		m := math.Inf(-1)
		for _, v := range a {
			m = math.Max(m, v)
		}
		return m
	}},
}

func (n *numberNode) eval(Vars) (value, error) {
	return number(n.val), nil
}

func (n *boolNode) eval(Vars) (value, error) {
	return boolean(n.val), nil
}

func (n *identNode) eval(vars Vars) (value, error) {
	v, ok := vars[n.name]
	if !ok {
		return value{}, evalErrorf("%s is not defined", n.name)
	}
	return number(v), nil
}

func (n *unaryNode) eval(vars Vars) (value, error) {
	v, err := n.operand.eval(vars)
	if err != nil {
		return value{}, err
	}
	switch n.op {
	case "-":
		return number(-v.num), nil
	case "+":
		return number(v.num), nil
	default:
		return boolean(!v.truthy()), nil
	}
}

func (n *binaryNode) eval(vars Vars) (value, error) {
	left, err := n.left.eval(vars)
	if err != nil {
		return value{}, err
	}

	// logical operators short-circuit and yield one of their operands
	switch n.op {
	case "&&":
		if !left.truthy() {
			return left, nil
		}
		return n.right.eval(vars)
	case "||":
		if left.truthy() {
			return left, nil
		}
		return n.right.eval(vars)
	}

	right, err := n.right.eval(vars)
	if err != nil {
		return value{}, err
	}

	a, b := left.num, right.num
	switch n.op {
	case "+":
		return number(a + b), nil
	case "-":
		return number(a - b), nil
	case "*":
		return number(a * b), nil
	case "/":
		return number(a / b), nil
	case "%":
		return number(math.Mod(a, b)), nil
	case "**":
		return number(math.Pow(a, b)), nil
	case "<":
		return boolean(a < b), nil
	case ">":
		return boolean(a > b), nil
	case "<=":
		return boolean(a <= b), nil
	case ">=":
		return boolean(a >= b), nil
	case "==":
		return boolean(a == b), nil
	case "!=":
		return boolean(a != b), nil
	case "===":
		return boolean(left.isBool == right.isBool && a == b), nil
	case "!==":
		return boolean(left.isBool != right.isBool || a != b), nil
	}
	return value{}, evalErrorf("unsupported operator %s", n.op)
}

func (n *ternaryNode) eval(vars Vars) (value, error) {
	cond, err := n.cond.eval(vars)
	if err != nil {
		return value{}, err
	}
	if cond.truthy() {
		return n.then.eval(vars)
	}
	return n.otherwise.eval(vars)
}

func (n *callNode) eval(vars Vars) (value, error) {
	h := helpers[n.name]
	if len(n.args) < h.minArgs || (h.maxArgs >= 0 && len(n.args) > h.maxArgs) {
		return value{}, evalErrorf("Math.%s called with %d arguments", n.name, len(n.args))
	}
	args := make([]float64, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(vars)
		if err != nil {
			return value{}, err
		}
		args[i] = v.num
	}
	return number(h.fn(args)), nil
}
