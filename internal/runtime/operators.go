package runtime

import (
	"fmt"
	"math"

	"github.com/cwbudde/figscript/internal/ast"
)

// OpError is returned by the operator functions in this file for every
// domain failure (type mismatch, division by zero, non-numeric unary
// operand, ...). internal/evaluator wraps it into a positioned
// ferrors.Error with ErrorKind ValueError.
type OpError struct {
	Message string
}

func (e *OpError) Error() string { return e.Message }

func opErr(format string, args ...any) error {
	return &OpError{Message: fmt.Sprintf(format, args...)}
}

// numericOperand returns (float64 value, isInt, ok) for v.
func numericOperand(v Value) (float64, bool, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true, true
	case Double:
		return float64(n), false, true
	default:
		return 0, false, false
	}
}

// isIntegerValued reports whether f has no fractional part and fits
// losslessly in an int64 — the test unifyNumeric applies to decide
// between the Int and Double result variants.
//
// The int64 bounds are compared as exact powers of two, not as the
// literal int64 min/max: 9223372036854775807 (int64 max) has no exact
// float64 representation and rounds up to 9223372036854775808.0 (2^63)
// at compile time, so a "<=" comparison against that literal would
// silently admit 2^63 itself, which overflows int64 on conversion.
func isIntegerValued(f float64) bool {
	if math.Trunc(f) != f {
		return false
	}
	const twoPow63 = 9223372036854775808.0
	return f >= -twoPow63 && f < twoPow63
}

// unifyNumeric takes the double-precision exact result of a numeric
// operator and classifies it Int or Double per the unification rule.
func unifyNumeric(result float64, bothInt bool) Value {
	if bothInt && isIntegerValued(result) {
		return Int(int64(result))
	}
	return Double(result)
}

// Add implements `+`: numeric add with unification, or string
// concatenation when both operands are String.
func Add(l, r Value) (Value, error) {
	if ls, ok := l.(String); ok {
		if rs, ok := r.(String); ok {
			return ls + rs, nil
		}
		return nil, opErr("operator + requires matching operand types, got String and %s", TypeNameOf(r))
	}
	lf, lInt, lOk := numericOperand(l)
	rf, rInt, rOk := numericOperand(r)
	if !lOk || !rOk {
		return nil, opErr("operator + requires numeric or String operands, got %s and %s", TypeNameOf(l), TypeNameOf(r))
	}
	return unifyNumeric(lf+rf, lInt && rInt), nil
}

// Sub, Mul implement `-` and `*`: numeric-only with unification.
func Sub(l, r Value) (Value, error) { return binaryNumeric("-", l, r, func(a, b float64) (float64, error) { return a - b, nil }) }
func Mul(l, r Value) (Value, error) { return binaryNumeric("*", l, r, func(a, b float64) (float64, error) { return a * b, nil }) }

// Div implements `/`: numeric-only; fails on RHS zero.
func Div(l, r Value) (Value, error) {
	return binaryNumeric("/", l, r, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, opErr("division by zero")
		}
		return a / b, nil
	})
}

// Mod implements `%`: numeric-only; fails on RHS zero.
func Mod(l, r Value) (Value, error) {
	return binaryNumeric("%", l, r, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, opErr("modulo by zero")
		}
		return math.Mod(a, b), nil
	})
}

// Pow implements `**`: result is Int iff both operands are Int, the
// exact result is integer-valued, and it is in range.
func Pow(l, r Value) (Value, error) {
	return binaryNumeric("**", l, r, func(a, b float64) (float64, error) {
		return math.Pow(a, b), nil
	})
}

func binaryNumeric(op string, l, r Value, f func(a, b float64) (float64, error)) (Value, error) {
	lf, lInt, lOk := numericOperand(l)
	rf, rInt, rOk := numericOperand(r)
	if !lOk || !rOk {
		return nil, opErr("operator %s requires numeric operands, got %s and %s", op, TypeNameOf(l), TypeNameOf(r))
	}
	result, err := f(lf, rf)
	if err != nil {
		return nil, err
	}
	return unifyNumeric(result, lInt && rInt), nil
}

// Eq implements `==`: raw variant-then-value equality — cross-variant
// operands (including Int vs Double) are never equal.
func Eq(l, r Value) Value {
	return Bool(l.Equals(r))
}

// Neq implements `!=`.
func Neq(l, r Value) Value {
	return Bool(!l.Equals(r))
}

// Compare implements `< <= > >=`: numeric comparison with unification,
// or lexicographic byte comparison for String/String; all other
// combinations fail.
func Compare(op ast.BinaryOp, l, r Value) (Value, error) {
	if ls, ok := l.(String); ok {
		if rs, ok := r.(String); ok {
			return compareStrings(op, string(ls), string(rs)), nil
		}
	}
	lf, lOk := numericOrFalse(l)
	rf, rOk := numericOrFalse(r)
	if !lOk || !rOk {
		return nil, opErr("operator %s requires numeric or String operands, got %s and %s", op, TypeNameOf(l), TypeNameOf(r))
	}
	switch op {
	case ast.OpLt:
		return Bool(lf < rf), nil
	case ast.OpLte:
		return Bool(lf <= rf), nil
	case ast.OpGt:
		return Bool(lf > rf), nil
	case ast.OpGte:
		return Bool(lf >= rf), nil
	default:
		return nil, opErr("unsupported comparison operator %s", op)
	}
}

func numericOrFalse(v Value) (float64, bool) {
	f, _, ok := numericOperand(v)
	return f, ok
}

func compareStrings(op ast.BinaryOp, l, r string) Value {
	switch op {
	case ast.OpLt:
		return Bool(l < r)
	case ast.OpLte:
		return Bool(l <= r)
	case ast.OpGt:
		return Bool(l > r)
	case ast.OpGte:
		return Bool(l >= r)
	default:
		return Bool(false)
	}
}

// LogicalAnd and LogicalOr implement `&&`/`||`: both operands must
// already be Bool. Strict (non-short-circuiting) evaluation happens in
// the evaluator, not here.
func LogicalAnd(l, r Value) (Value, error) {
	lb, lOk := l.(Bool)
	rb, rOk := r.(Bool)
	if !lOk || !rOk {
		return nil, opErr("operator && requires Bool operands, got %s and %s", TypeNameOf(l), TypeNameOf(r))
	}
	return Bool(bool(lb) && bool(rb)), nil
}

func LogicalOr(l, r Value) (Value, error) {
	lb, lOk := l.(Bool)
	rb, rOk := r.(Bool)
	if !lOk || !rOk {
		return nil, opErr("operator || requires Bool operands, got %s and %s", TypeNameOf(l), TypeNameOf(r))
	}
	return Bool(bool(lb) || bool(rb)), nil
}

// LogicalNot implements unary `!`.
func LogicalNot(v Value) (Value, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, opErr("operator ! requires a Bool operand, got %s", TypeNameOf(v))
	}
	return Bool(!bool(b)), nil
}

// Negate implements unary `-`: Int or Double only.
func Negate(v Value) (Value, error) {
	switch n := v.(type) {
	case Int:
		return -n, nil
	case Double:
		return -n, nil
	default:
		return nil, opErr("unary - requires a numeric operand, got %s", TypeNameOf(v))
	}
}

// intOperand extracts an int64 for the bitwise operators, which
// require both operands to be Int.
func intOperand(v Value) (int64, bool) {
	n, ok := v.(Int)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func bitwise(op string, l, r Value, f func(a, b int64) int64) (Value, error) {
	lv, lOk := intOperand(l)
	rv, rOk := intOperand(r)
	if !lOk || !rOk {
		return nil, opErr("operator %s requires Int operands, got %s and %s", op, TypeNameOf(l), TypeNameOf(r))
	}
	return Int(f(lv, rv)), nil
}

func BitAnd(l, r Value) (Value, error) {
	return bitwise("&", l, r, func(a, b int64) int64 { return a & b })
}

func BitOr(l, r Value) (Value, error) {
	return bitwise("|", l, r, func(a, b int64) int64 { return a | b })
}

func BitXor(l, r Value) (Value, error) {
	return bitwise("^", l, r, func(a, b int64) int64 { return a ^ b })
}

func ShiftLeft(l, r Value) (Value, error) {
	return bitwise("<<", l, r, func(a, b int64) int64 { return a << uint(b) })
}

func ShiftRight(l, r Value) (Value, error) {
	return bitwise(">>", l, r, func(a, b int64) int64 { return a >> uint(b) })
}

// BitNot implements unary `~`.
func BitNot(v Value) (Value, error) {
	n, ok := intOperand(v)
	if !ok {
		return nil, opErr("unary ~ requires an Int operand, got %s", TypeNameOf(v))
	}
	return Int(^n), nil
}
