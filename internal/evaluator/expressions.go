package evaluator

import (
	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/runtime"
)

// evalExpr dispatches one expression node
func (e *Evaluator) evalExpr(expr ast.Expression) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return runtime.Int(n.Value), nil
	case *ast.DoubleLiteral:
		return runtime.Double(n.Value), nil
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.BoolLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NullLiteral:
		return runtime.NullValue, nil
	case *ast.VarRef:
		return e.evalVarRef(n)
	case *ast.Binary:
		return e.evalBinary(n)
	case *ast.Unary:
		return e.evalUnary(n)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n)
	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(n)
	case *ast.InitExpr:
		return e.evalInitExpr(n)
	case *ast.ListExpr:
		return nil, ferrors.New(ferrors.NotSupported, n.Pos(), "list expressions are not supported")
	case *ast.AccessExpr:
		return e.evalAccessExpr(n)
	default:
		return nil, ferrors.New(ferrors.RuntimeError, expr.Pos(), "unreachable expression node %T", expr)
	}
}

func (e *Evaluator) evalVarRef(n *ast.VarRef) (runtime.Value, error) {
	v, ok := e.current.Get(n.Name)
	if !ok {
		return nil, ferrors.New(ferrors.UndefinedVariable, n.Pos(), "undefined variable %q", n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalUnary(n *ast.Unary) (runtime.Value, error) {
	operand, err := e.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	var result runtime.Value
	var opErr error
	switch n.Op {
	case ast.OpNeg:
		result, opErr = runtime.Negate(operand)
	case ast.OpNot:
		result, opErr = runtime.LogicalNot(operand)
	case ast.OpBitNot:
		result, opErr = runtime.BitNot(operand)
	default:
		return nil, ferrors.New(ferrors.NotSupported, n.Pos(), "unsupported unary operator %s", n.Op)
	}
	if opErr != nil {
		return nil, ferrors.Wrap(ferrors.ValueError, n.Pos(), opErr)
	}
	return result, nil
}

// evalBinary evaluates both operands strictly left-to-right before
// applying the operator — including && and ||, which never
// short-circuit here.
func (e *Evaluator) evalBinary(n *ast.Binary) (runtime.Value, error) {
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	var result runtime.Value
	var opErr error
	switch n.Op {
	case ast.OpAdd:
		result, opErr = runtime.Add(left, right)
	case ast.OpSub:
		result, opErr = runtime.Sub(left, right)
	case ast.OpMul:
		result, opErr = runtime.Mul(left, right)
	case ast.OpDiv:
		result, opErr = runtime.Div(left, right)
	case ast.OpMod:
		result, opErr = runtime.Mod(left, right)
	case ast.OpPow:
		result, opErr = runtime.Pow(left, right)
	case ast.OpEq:
		return runtime.Eq(left, right), nil
	case ast.OpNeq:
		return runtime.Neq(left, right), nil
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		result, opErr = runtime.Compare(n.Op, left, right)
	case ast.OpAnd:
		result, opErr = runtime.LogicalAnd(left, right)
	case ast.OpOr:
		result, opErr = runtime.LogicalOr(left, right)
	case ast.OpBitAnd:
		result, opErr = runtime.BitAnd(left, right)
	case ast.OpBitOr:
		result, opErr = runtime.BitOr(left, right)
	case ast.OpBitXor:
		result, opErr = runtime.BitXor(left, right)
	case ast.OpShiftL:
		result, opErr = runtime.ShiftLeft(left, right)
	case ast.OpShiftR:
		result, opErr = runtime.ShiftRight(left, right)
	case ast.OpWalrus:
		// Walrus is parser-level sugar for VarDef's type-inferred form;
		// it never reaches the evaluator as a binary operator. A parser
		// that nonetheless emits one here gets NotSupported rather than
		// being silently accepted.
		return nil, ferrors.New(ferrors.NotSupported, n.Pos(), "walrus is not a binary operator")
	default:
		return nil, ferrors.New(ferrors.NotSupported, n.Pos(), "unsupported binary operator %s", n.Op)
	}
	if opErr != nil {
		return nil, ferrors.Wrap(ferrors.ValueError, n.Pos(), opErr)
	}
	return result, nil
}

func (e *Evaluator) evalFunctionLiteral(n *ast.FunctionLiteral) (runtime.Value, error) {
	body := n.Body
	if body == nil && n.BodyExpr != nil {
		// Arrow form: synthesize an implicit Return(expr) at the same
		// source location
		body = &ast.BlockStatement{
			Statements: []ast.Statement{&ast.Return{Expr: n.BodyExpr, Position: n.Position}},
			Position:   n.Position,
		}
	}
	retType := n.RetType
	if retType == "" {
		retType = "Any"
	}
	return runtime.NewUserFunction(n.Name, n.Params, n.Variadic, n.VariadicName, retType, body, e.current), nil
}
