package jsast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Env binds identifier names to runtime values. Values are nil (null/undefined),
// bool, float64, string, map[string]any, []any or *Function. Integers are
// accepted and widened to float64.
type Env map[string]any

// Function is a closure produced by evaluating an arrow function.
type Function struct {
	params []string
	body   Expression
	env    Env
}

var ErrNotCallable = errors.New("value is not callable")

// Eval evaluates e in env using JavaScript semantics for the subset of
// expressions the compiler synthesizes. JSX nodes cannot be evaluated.
func Eval(e Expression, env Env) (any, error) {
	switch v := e.(type) {
	case *Identifier:
		val, ok := env[v.Name]
		if !ok {
			return nil, fmt.Errorf("%s is not defined", v.Name)
		}
		return normalize(val), nil
	case *StringLiteral:
		return v.Value, nil
	case *NumericLiteral:
		return v.Value, nil
	case *BooleanLiteral:
		return v.Value, nil
	case *NullLiteral:
		return nil, nil
	case *UnaryExpression:
		arg, err := Eval(v.Argument, env)
		if err != nil {
			return nil, err
		}
		switch v.Operator {
		case "!":
			return !Truthy(arg), nil
		case "-":
			return -toNumber(arg), nil
		}
		return nil, fmt.Errorf("unsupported unary operator %q", v.Operator)
	case *BinaryExpression:
		left, err := Eval(v.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := Eval(v.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(v.Operator, left, right)
	case *LogicalExpression:
		left, err := Eval(v.Left, env)
		if err != nil {
			return nil, err
		}
		if (v.Operator == "&&") != Truthy(left) {
			return left, nil
		}
		return Eval(v.Right, env)
	case *ConditionalExpression:
		test, err := Eval(v.Test, env)
		if err != nil {
			return nil, err
		}
		if Truthy(test) {
			return Eval(v.Consequent, env)
		}
		return Eval(v.Alternate, env)
	case *ArrowFunctionExpression:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = p.Name
		}
		return &Function{params: params, body: v.Body, env: env}, nil
	case *CallExpression:
		callee, err := Eval(v.Callee, env)
		if err != nil {
			return nil, err
		}
		fn, ok := callee.(*Function)
		if !ok {
			return nil, ErrNotCallable
		}
		args := make([]any, len(v.Arguments))
		for i, a := range v.Arguments {
			if args[i], err = Eval(a, env); err != nil {
				return nil, err
			}
		}
		return fn.Call(args...)
	case *MemberExpression:
		obj, err := Eval(v.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := memberKey(v, env)
		if err != nil {
			return nil, err
		}
		switch o := obj.(type) {
		case map[string]any:
			return normalize(o[key]), nil
		case nil:
			return nil, fmt.Errorf("cannot read property %q of null", key)
		}
		return nil, nil
	case *ObjectExpression:
		out := make(map[string]any, len(v.Properties))
		for _, p := range v.Properties {
			val, err := Eval(p.Value, env)
			if err != nil {
				return nil, err
			}
			out[p.Key] = val
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot evaluate %T", e)
}

func memberKey(m *MemberExpression, env Env) (string, error) {
	if id, ok := m.Property.(*Identifier); ok && !m.Computed {
		return id.Name, nil
	}
	k, err := Eval(m.Property, env)
	if err != nil {
		return "", err
	}
	return ToString(k), nil
}

// Call invokes f. Missing arguments are undefined, extra ones are ignored.
func (f *Function) Call(args ...any) (any, error) {
	scope := make(Env, len(f.env)+len(f.params))
	for k, v := range f.env {
		scope[k] = v
	}
	for i, name := range f.params {
		var arg any
		if i < len(args) {
			arg = args[i]
		}
		scope[name] = arg
	}
	return Eval(f.body, scope)
}

// Arity is the number of declared parameters.
func (f *Function) Arity() int { return len(f.params) }

// CallHelper evaluates a helper declaration and invokes it with args.
func CallHelper(decl *VariableDeclaration, args ...any) (any, error) {
	if len(decl.Declarations) != 1 || decl.Declarations[0].Init == nil {
		return nil, fmt.Errorf("helper %q must have exactly one initialized declarator", decl.Name())
	}
	val, err := Eval(decl.Declarations[0].Init, Env{})
	if err != nil {
		return nil, err
	}
	fn, ok := val.(*Function)
	if !ok {
		return nil, fmt.Errorf("helper %q: %w", decl.Name(), ErrNotCallable)
	}
	return fn.Call(args...)
}

// Truthy applies JavaScript truthiness.
func Truthy(v any) bool {
	switch t := normalize(v).(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}

// ToString applies JavaScript string conversion for primitive values.
func ToString(v any) string {
	switch t := normalize(v).(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if math.IsNaN(t) {
			return "NaN"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		return "[array]"
	case *Function:
		return "[function]"
	}
	return "[object Object]"
}

func binary(op string, left, right any) (any, error) {
	switch op {
	case "+":
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			return ToString(left) + ToString(right), nil
		}
		return toNumber(left) + toNumber(right), nil
	case "-":
		return toNumber(left) - toNumber(right), nil
	case "*":
		return toNumber(left) * toNumber(right), nil
	case "===":
		return strictEqual(left, right), nil
	case "!==":
		return !strictEqual(left, right), nil
	}
	return nil, fmt.Errorf("unsupported binary operator %q", op)
}

// objects compare unequal; identity is not tracked
func strictEqual(a, b any) bool {
	switch a.(type) {
	case nil, bool, string, float64:
		return a == b
	}
	return false
}

func toNumber(v any) float64 {
	switch t := normalize(v).(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case float32:
		return float64(t)
	}
	return v
}
