package expr

import (
	"fmt"
	"maps"

	"github.com/roach88/peano/internal/nat"
)

// DefaultMaxMagnitude is the magnitude limit used by Eval.
const DefaultMaxMagnitude = 1 << 16

// Env binds names to values.
type Env map[string]nat.Nat

// Clone returns a shallow copy of the env. Nat values are immutable,
// so the copy is independent of the original.
func (e Env) Clone() Env {
	return maps.Clone(e)
}

// Evaluator evaluates expression trees.
// The zero value has an empty Env and no magnitude limit.
type Evaluator struct {
	Env Env

	// MaxMagnitude bounds every literal and intermediate result.
	// Zero or negative means unlimited.
	MaxMagnitude int
}

// Eval parses and evaluates src with DefaultMaxMagnitude.
func Eval(src string, env Env) (Value, error) {
	e := &Evaluator{Env: env, MaxMagnitude: DefaultMaxMagnitude}
	return e.EvalString(src)
}

// EvalString parses and evaluates src.
func (e *Evaluator) EvalString(src string) (Value, error) {
	n, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(n)
}

// Eval evaluates a parsed expression.
func (e *Evaluator) Eval(n Node) (Value, error) {
	switch node := n.(type) {
	case Number:
		if err := e.checkMagnitude(node.Value); err != nil {
			return Value{}, &EvalError{Pos: node.Pos, Err: err}
		}
		v, err := nat.FromInt(node.Value)
		if err != nil {
			return Value{}, &EvalError{Pos: node.Pos, Err: err}
		}
		return NatValue(v), nil

	case Ident:
		if node.Name == "Z" {
			return NatValue(nat.Zero{}), nil
		}
		v, ok := e.Env[node.Name]
		if !ok {
			return Value{}, &EvalError{Pos: node.Pos, Op: node.Name, Err: ErrUndefined}
		}
		return NatValue(v), nil

	case Call:
		return e.evalCall(node)

	case Binary:
		return e.evalBinary(node)

	default:
		return Value{}, fmt.Errorf("unknown node type: %T", n)
	}
}

func (e *Evaluator) evalCall(c Call) (Value, error) {
	args := make([]nat.Nat, len(c.Args))
	for i, a := range c.Args {
		v, err := e.number(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	arity := func(want int) error {
		if len(args) != want {
			return &EvalError{Pos: c.Pos, Op: c.Name, Err: fmt.Errorf("%w: want %d, got %d", ErrArity, want, len(args))}
		}
		return nil
	}

	switch c.Name {
	case "S":
		if err := arity(1); err != nil {
			return Value{}, err
		}
		if err := e.checkMagnitude(nat.ToInt(args[0]) + 1); err != nil {
			return Value{}, &EvalError{Pos: c.Pos, Op: c.Name, Err: err}
		}
		return NatValue(nat.Succ{Pred: args[0]}), nil

	case "pred":
		if err := arity(1); err != nil {
			return Value{}, err
		}
		p, ok := nat.Pred(args[0])
		if !ok {
			return Absent(), nil
		}
		return NatValue(p), nil

	case "min", "max":
		if len(args) == 0 {
			return Value{}, &EvalError{Pos: c.Pos, Op: c.Name, Err: fmt.Errorf("%w: want at least 1", ErrArity)}
		}
		if c.Name == "min" {
			return NatValue(nat.Min(args[0], args[1:]...)), nil
		}
		return NatValue(nat.Max(args[0], args[1:]...)), nil

	case "distance":
		if err := arity(2); err != nil {
			return Value{}, err
		}
		return NatValue(nat.Distance(args[0], args[1])), nil

	default:
		return Value{}, &EvalError{Pos: c.Pos, Op: c.Name, Err: ErrUndefined}
	}
}

func (e *Evaluator) evalBinary(b Binary) (Value, error) {
	left, err := e.number(b.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := e.number(b.Right)
	if err != nil {
		return Value{}, err
	}

	switch b.Op {
	case "==":
		return BoolValue(nat.Equal(left, right)), nil
	case "!=":
		return BoolValue(!nat.Equal(left, right)), nil
	case "<":
		return BoolValue(nat.Less(left, right)), nil
	case "<=":
		return BoolValue(nat.LessEqual(left, right)), nil
	case ">":
		return BoolValue(nat.Greater(left, right)), nil
	case ">=":
		return BoolValue(nat.GreaterEqual(left, right)), nil
	}

	if e.MaxMagnitude > 0 && !fits(b.Op, nat.ToInt(left), nat.ToInt(right), e.MaxMagnitude) {
		return Value{}, &EvalError{Pos: b.Pos, Op: b.Op, Err: fmt.Errorf("%w (max %d)", ErrMagnitude, e.MaxMagnitude)}
	}

	var (
		result nat.Nat
		opErr  error
	)
	switch b.Op {
	case "+":
		result = nat.Add(left, right)
	case "-":
		result = nat.Sub(left, right)
	case "*":
		result = nat.Mul(left, right)
	case "^":
		result = nat.Pow(left, right)
	case "%":
		result, opErr = nat.Mod(left, right)
	case "/":
		result, opErr = nat.Div(left, right)
	default:
		return Value{}, &SyntaxError{Pos: b.Pos, Msg: fmt.Sprintf("unknown operator %q", b.Op)}
	}
	if opErr != nil {
		return Value{}, &EvalError{Pos: b.Pos, Op: b.Op, Err: opErr}
	}
	return NatValue(result), nil
}

// number evaluates n and requires a natural number result.
func (e *Evaluator) number(n Node) (nat.Nat, error) {
	v, err := e.Eval(n)
	if err != nil {
		return nil, err
	}
	switch v.Kind {
	case KindNat:
		return v.Nat, nil
	case KindAbsent:
		return nil, &EvalError{Pos: n.Position(), Err: ErrAbsent}
	default:
		return nil, &EvalError{Pos: n.Position(), Err: ErrNotNumber}
	}
}

func (e *Evaluator) checkMagnitude(k int) error {
	if e.MaxMagnitude > 0 && k > e.MaxMagnitude {
		return fmt.Errorf("%w: %d > %d", ErrMagnitude, k, e.MaxMagnitude)
	}
	return nil
}

// fits reports whether applying op to operands of integer size a and b
// produces a result no larger than limit. Only growing operators can fail.
func fits(op string, a, b, limit int) bool {
	switch op {
	case "+":
		return a <= limit-b
	case "*":
		return a == 0 || b <= limit/a
	case "^":
		if b == 0 || a <= 1 {
			return true
		}
		r := 1
		for i := 0; i < b; i++ {
			if r > limit/a {
				return false
			}
			r *= a
		}
		return true
	default:
		return true
	}
}
