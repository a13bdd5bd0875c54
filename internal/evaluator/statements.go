package evaluator

import (
	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/position"
	"github.com/cwbudde/figscript/internal/runtime"
)

// evalStatement dispatches one statement node: VarDef/control-flow
// statements per their own contracts below.
func (e *Evaluator) evalStatement(stmt ast.Statement) (StatementResult, error) {
	switch n := stmt.(type) {
	case *ast.ExpressionStmt:
		v, err := e.evalExpr(n.Expr)
		if err != nil {
			return StatementResult{}, err
		}
		return normal(v), nil
	case *ast.BlockStatement:
		return e.evalBlock(n)
	case *ast.VarDef:
		return e.evalVarDef(n)
	case *ast.VarAssign:
		return e.evalVarAssign(n)
	case *ast.AccessAssignStmt:
		return e.evalAccessAssign(n)
	case *ast.FunctionDef:
		return e.evalFunctionDef(n)
	case *ast.StructDef:
		return e.evalStructDef(n)
	case *ast.If:
		return e.evalIf(n)
	case *ast.While:
		return e.evalWhile(n)
	case *ast.Return:
		return e.evalReturn(n)
	case *ast.Break:
		return breakResult(), nil
	case *ast.Continue:
		return continueResult(), nil
	case *ast.Import:
		// Import statements are accepted but have no effect: the module
		// system is out of scope for this evaluator.
		return normal(runtime.NullValue), nil
	default:
		return StatementResult{}, ferrors.New(ferrors.RuntimeError, stmt.Pos(), "unreachable statement node %T", stmt)
	}
}

// evalBlock creates a fresh child context (parent = current), executes
// each statement in order, stopping at the first non-Normal result, and
// restores the prior current context on every exit path including
// error, via scoped acquisition.
func (e *Evaluator) evalBlock(block *ast.BlockStatement) (StatementResult, error) {
	child := e.newBlockContext(block.Position)
	restore := e.pushContext(child)
	defer restore()

	result := normal(runtime.NullValue)
	for _, stmt := range block.Statements {
		sr, err := e.evalStatement(stmt)
		if err != nil {
			return StatementResult{}, err
		}
		result = sr
		if !sr.isNormal() {
			break
		}
	}
	return result, nil
}

func (e *Evaluator) evalVarDef(n *ast.VarDef) (StatementResult, error) {
	var value runtime.Value
	typeName := n.TypeName

	switch {
	case typeName == ast.VarDefTypeFollowed:
		// `var x := expr`: declared type follows from the initializer.
		v, err := e.evalExpr(n.Initializer)
		if err != nil {
			return StatementResult{}, err
		}
		value = v
		typeName = runtime.TypeNameOf(v)
	case n.Initializer != nil:
		v, err := e.evalExpr(n.Initializer)
		if err != nil {
			return StatementResult{}, err
		}
		if !runtime.ConformsTo(v, typeName) {
			return StatementResult{}, ferrors.New(ferrors.VariableTypeMismatch, n.Pos(),
				"variable %q declared %s, initializer is %s", n.Name, typeName, runtime.TypeNameOf(v))
		}
		value = v
	default:
		value = runtime.ZeroValueFor(typeName)
	}

	access := ast.DeriveAccessModifier(n.IsPublic, n.IsConst)
	if !e.current.Def(n.Name, typeName, access, value) {
		return StatementResult{}, ferrors.New(ferrors.Redeclaration, n.Pos(), "%q is already defined in this scope", n.Name)
	}
	return normal(value), nil
}

func (e *Evaluator) evalVarAssign(n *ast.VarAssign) (StatementResult, error) {
	v, err := e.evalExpr(n.Expr)
	if err != nil {
		return StatementResult{}, err
	}
	if err := e.current.Set(n.Name, v); err != nil {
		return StatementResult{}, mapAssignError(n.Pos(), n.Name, err)
	}
	return normal(v), nil
}

func mapAssignError(pos position.Position, name string, err error) error {
	switch {
	case runtime.IsVariableNotFound(err):
		return ferrors.New(ferrors.VariableNotFound, pos, "assignment to undeclared variable %q", name)
	case runtime.IsConstAssignment(err):
		return ferrors.New(ferrors.ConstAssignment, pos, "cannot assign to const variable %q", name)
	case runtime.IsTypeMismatch(err):
		return ferrors.Wrap(ferrors.VariableTypeMismatch, pos, err)
	default:
		return ferrors.Wrap(ferrors.RuntimeError, pos, err)
	}
}

func (e *Evaluator) evalFunctionDef(n *ast.FunctionDef) (StatementResult, error) {
	retType := n.RetType
	if retType == "" {
		retType = "Any"
	}
	fn := runtime.NewUserFunction(n.Name, n.Params, n.Variadic, n.VariadicName, retType, n.Body, e.current)
	access := ast.Const
	if n.IsPublic {
		access = ast.PublicConst
	}
	if !e.current.Def(n.Name, "Any", access, fn) {
		return StatementResult{}, ferrors.New(ferrors.Redeclaration, n.Pos(), "%q is already defined in this scope", n.Name)
	}
	return normal(fn), nil
}

func (e *Evaluator) evalStructDef(n *ast.StructDef) (StatementResult, error) {
	seen := make(map[string]bool, len(n.Fields))
	fields := make([]runtime.Field, len(n.Fields))
	for i, fd := range n.Fields {
		if seen[fd.Name] {
			return StatementResult{}, ferrors.New(ferrors.Redeclaration, n.Pos(), "duplicate field %q in struct %s", fd.Name, n.Name)
		}
		seen[fd.Name] = true
		fields[i] = runtime.Field{
			Access:   ast.DeriveFieldAccessModifier(fd.IsPublic, fd.IsConst, fd.IsFinal),
			Name:     fd.Name,
			TypeName: fd.TypeName,
			Default:  fd.Default,
		}
	}
	structType := runtime.NewStructType(n.Name, fields, e.current)
	access := ast.Const
	if n.IsPublic {
		access = ast.PublicConst
	}
	if !e.current.Def(n.Name, "Any", access, structType) {
		return StatementResult{}, ferrors.New(ferrors.Redeclaration, n.Pos(), "%q is already defined in this scope", n.Name)
	}
	return normal(structType), nil
}

func (e *Evaluator) evalCondition(expr ast.Expression) (bool, error) {
	v, err := e.evalExpr(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(runtime.Bool)
	if !ok {
		return false, ferrors.New(ferrors.ConditionType, expr.Pos(), "condition must be Bool, got %s", runtime.TypeNameOf(v))
	}
	return bool(b), nil
}

func (e *Evaluator) evalIf(n *ast.If) (StatementResult, error) {
	cond, err := e.evalCondition(n.Cond)
	if err != nil {
		return StatementResult{}, err
	}
	if cond {
		return e.evalBlock(n.Body)
	}
	for _, elif := range n.Elifs {
		cond, err := e.evalCondition(elif.Cond)
		if err != nil {
			return StatementResult{}, err
		}
		if cond {
			return e.evalBlock(elif.Body)
		}
	}
	if n.Else != nil {
		return e.evalBlock(n.Else)
	}
	return normal(runtime.NullValue), nil
}

func (e *Evaluator) evalWhile(n *ast.While) (StatementResult, error) {
	for {
		cond, err := e.evalCondition(n.Cond)
		if err != nil {
			return StatementResult{}, err
		}
		if !cond {
			return normal(runtime.NullValue), nil
		}
		sr, err := e.evalBlock(n.Body)
		if err != nil {
			return StatementResult{}, err
		}
		switch sr.Flow {
		case ReturnFlow:
			return sr, nil
		case BreakFlow:
			return normal(runtime.NullValue), nil
		case ContinueFlow:
			continue
		}
	}
}

// evalReturn walks the scope chain for a frame whose name marks a
// function call; fails with ReturnOutsideFunction if none is found.
func (e *Evaluator) evalReturn(n *ast.Return) (StatementResult, error) {
	found := false
	for cur := e.current; cur != nil; cur = cur.Parent {
		if inFunctionScope(cur.Name) {
			found = true
			break
		}
	}
	if !found {
		return StatementResult{}, ferrors.New(ferrors.ReturnOutsideFunction, n.Pos(), "return outside of a function")
	}
	if n.Expr == nil {
		return returnResult(runtime.NullValue), nil
	}
	v, err := e.evalExpr(n.Expr)
	if err != nil {
		return StatementResult{}, err
	}
	return returnResult(v), nil
}
