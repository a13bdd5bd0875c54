package evaluator

import (
	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/runtime"
)

// evalAccessExpr and evalAccessAssign resolve the target instance,
// look up the field slot in its local context, and enforce the
// field's access modifier on writes.

func (e *Evaluator) resolveInstance(target ast.Expression) (*runtime.StructInstance, error) {
	v, err := e.evalExpr(target)
	if err != nil {
		return nil, err
	}
	instance, ok := v.(*runtime.StructInstance)
	if !ok {
		return nil, ferrors.New(ferrors.ValueError, target.Pos(), "cannot access a field on a value of type %s", runtime.TypeNameOf(v))
	}
	return instance, nil
}

func (e *Evaluator) evalAccessExpr(n *ast.AccessExpr) (runtime.Value, error) {
	instance, err := e.resolveInstance(n.Target)
	if err != nil {
		return nil, err
	}
	_, ok := instance.Parent.FieldByName(n.Field)
	if !ok {
		return nil, ferrors.New(ferrors.UndefinedVariable, n.Pos(), "%s has no field %q", instance.Parent.Name, n.Field)
	}
	// Field reads are unguarded by access modifier: Fig has no module
	// system, so there is no "external" caller to distinguish from the
	// declaring scope. IsPublic only matters once a module boundary
	// exists; until then every reader is "internal". Const/Final still
	// gate writes in evalAccessAssign below.
	v, ok := instance.FieldValue(n.Field)
	if !ok {
		return nil, ferrors.New(ferrors.RuntimeError, n.Pos(), "field %q of %s was never initialized", n.Field, instance.Parent.Name)
	}
	return v, nil
}

func (e *Evaluator) evalAccessAssign(n *ast.AccessAssignStmt) (StatementResult, error) {
	instance, err := e.resolveInstance(n.Target)
	if err != nil {
		return StatementResult{}, err
	}
	field, ok := instance.Parent.FieldByName(n.Field)
	if !ok {
		return StatementResult{}, ferrors.New(ferrors.UndefinedVariable, n.Pos(), "%s has no field %q", instance.Parent.Name, n.Field)
	}
	if field.IsConst() || field.IsFinal() {
		return StatementResult{}, ferrors.New(ferrors.ConstAssignment, n.Pos(), "field %q of %s is immutable", n.Field, instance.Parent.Name)
	}
	v, err := e.evalExpr(n.Expr)
	if err != nil {
		return StatementResult{}, err
	}
	if !runtime.ConformsTo(v, field.TypeName) {
		return StatementResult{}, ferrors.New(ferrors.VariableTypeMismatch, n.Pos(),
			"field %q of %s expects %s, got %s", n.Field, instance.Parent.Name, field.TypeName, runtime.TypeNameOf(v))
	}
	instance.SetFieldValue(n.Field, v)
	return normal(runtime.NullValue), nil
}
