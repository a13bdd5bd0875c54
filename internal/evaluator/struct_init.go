package evaluator

import (
	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/runtime"
)

// evalInitExpr implements struct construction in its
// three modes: positional, named, shorthand.
func (e *Evaluator) evalInitExpr(n *ast.InitExpr) (runtime.Value, error) {
	target, err := e.evalExpr(n.StructExpr)
	if err != nil {
		return nil, err
	}
	structType, ok := target.(*runtime.StructType)
	if !ok {
		return nil, ferrors.New(ferrors.NotAFunction, n.Pos(), "cannot construct a value of type %s", runtime.TypeNameOf(target))
	}

	supplied := make(map[string]runtime.Value, len(n.Args))
	switch n.Mode {
	case ast.InitPositional:
		if len(n.Args) > len(structType.Fields) {
			return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
				"%s expects at most %d field(s), got %d", structType.Name, len(structType.Fields), len(n.Args))
		}
		for i, arg := range n.Args {
			v, err := e.evalExpr(arg.Value)
			if err != nil {
				return nil, err
			}
			supplied[structType.Fields[i].Name] = v
		}
	case ast.InitNamed:
		for _, arg := range n.Args {
			if _, ok := structType.FieldByName(arg.Name); !ok {
				return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
					"%s has no field %q", structType.Name, arg.Name)
			}
			v, err := e.evalExpr(arg.Value)
			if err != nil {
				return nil, err
			}
			supplied[arg.Name] = v
		}
	case ast.InitShorthand:
		for _, arg := range n.Args {
			if _, ok := structType.FieldByName(arg.Name); !ok {
				return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
					"%s has no field %q", structType.Name, arg.Name)
			}
			v, ok := e.current.Get(arg.Name)
			if !ok {
				return nil, ferrors.New(ferrors.UndefinedVariable, n.Pos(), "undefined variable %q", arg.Name)
			}
			supplied[arg.Name] = v
		}
	default:
		return nil, ferrors.New(ferrors.RuntimeError, n.Pos(), "unreachable init mode %d", n.Mode)
	}

	instance := runtime.NewStructInstance(structType)
	for _, field := range structType.Fields {
		v, ok := supplied[field.Name]
		if !ok {
			if field.Default == nil {
				return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
					"missing required field %q of %s", field.Name, structType.Name)
			}
			// Defaults evaluate in the struct type's defining context,
			// not the caller's, so they see the bindings visible at the
			// struct's declaration site. The instance's own fields are
			// not in that context, so a default cannot read a sibling
			// field.
			restore := e.pushContext(structType.DefContext)
			defaultVal, err := e.evalExpr(field.Default)
			restore()
			if err != nil {
				return nil, err
			}
			v = defaultVal
		}
		if !runtime.ConformsTo(v, field.TypeName) {
			return nil, ferrors.New(ferrors.VariableTypeMismatch, n.Pos(),
				"field %q of %s expects %s, got %s", field.Name, structType.Name, field.TypeName, runtime.TypeNameOf(v))
		}
		instance.Context.Def(field.Name, field.TypeName, field.Access, v)
	}
	return instance, nil
}
