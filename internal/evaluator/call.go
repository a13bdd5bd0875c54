package evaluator

import (
	"fmt"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/runtime"
)

// evalFunctionCall implements the 8-step call protocol: arity check,
// argument evaluation in the caller's context, default-fill, a fresh
// call context parented to the closure, parameter binding, body
// execution, return-type check, and context restore.
func (e *Evaluator) evalFunctionCall(n *ast.FunctionCall) (runtime.Value, error) {
	calleeVal, err := e.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*runtime.Function)
	if !ok {
		return nil, ferrors.New(ferrors.NotAFunction, n.Pos(), "cannot call a value of type %s", runtime.TypeNameOf(calleeVal))
	}

	// Step 2: evaluate arguments in the caller's context, left-to-right.
	argVals := make([]runtime.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}

	if fn.IsBuiltin {
		return e.callBuiltin(n, fn, argVals)
	}
	return e.callUserFunction(n, fn, argVals)
}

func (e *Evaluator) callBuiltin(n *ast.FunctionCall, fn *runtime.Function, argVals []runtime.Value) (runtime.Value, error) {
	if fn.Arity >= 0 && len(argVals) != fn.Arity {
		return nil, ferrors.New(ferrors.BuiltinArgumentMismatch, n.Pos(),
			"%s expects %d argument(s), got %d", fn.Name(), fn.Arity, len(argVals))
	}
	result, err := fn.Builtin(argVals)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ValueError, n.Pos(), err)
	}
	return result, nil
}

func (e *Evaluator) callUserFunction(n *ast.FunctionCall, fn *runtime.Function, argVals []runtime.Value) (runtime.Value, error) {
	p := fn.PositionalCount()
	total := len(fn.Params)

	// Step 1: arity check, P <= k <= N. fn.Variadic is deliberately not
	// consulted here, matching original_source's evalFunctionCall,
	// which derives this same bound purely from
	// fnParas.posParas.size()/fnParas.size() and never reads
	// FunctionParameters.variadic either (see runtime.Function's
	// Variadic field doc for why: there is no array/list Value variant
	// to collect surplus arguments into).
	if len(argVals) < p || len(argVals) > total {
		return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
			"%s expects between %d and %d argument(s), got %d", fn.Name(), p, total, len(argVals))
	}

	// Step 2 (continued): check each supplied argument's type.
	for i, v := range argVals {
		param := fn.Params[i]
		if !runtime.ConformsTo(v, param.TypeName) {
			return nil, ferrors.New(ferrors.ArgumentTypeMismatch, n.Pos(),
				"parameter %q of %s expects %s, got %s", param.Name, fn.Name(), param.TypeName, runtime.TypeNameOf(v))
		}
	}

	// Step 3: default filling. Each unsupplied default expression is
	// evaluated in the *caller's* current context, not the callee's
	// closure context, which is only installed afterward in step 4.
	allArgs := make([]runtime.Value, total)
	copy(allArgs, argVals)
	for i := len(argVals); i < total; i++ {
		param := fn.Params[i]
		if param.Default == nil {
			return nil, ferrors.New(ferrors.ArgumentMismatch, n.Pos(),
				"missing required argument %q of %s", param.Name, fn.Name())
		}
		v, err := e.evalExpr(param.Default)
		if err != nil {
			return nil, err
		}
		if !runtime.ConformsTo(v, param.TypeName) {
			return nil, ferrors.New(ferrors.DefaultParameterType, n.Pos(),
				"default value for parameter %q of %s expects %s, got %s", param.Name, fn.Name(), param.TypeName, runtime.TypeNameOf(v))
		}
		allArgs[i] = v
	}

	// Step 4: create the call context, parented to the captured
	// closure context (not the caller).
	scopeName := fmt.Sprintf("%s%s()>", functionScopePrefix, fn.Name())
	callCtx := runtime.NewContext(scopeName, fn.Closure)

	// Step 5: bind parameters as Const slots.
	for i, param := range fn.Params {
		callCtx.Def(param.Name, param.TypeName, ast.Const, allArgs[i])
	}

	restore := e.pushContext(callCtx)
	defer restore()

	// Step 6: execute the body.
	result := runtime.Value(runtime.NullValue)
	if fn.Body != nil {
		sr, err := e.evalBlock(fn.Body)
		if err != nil {
			return nil, err
		}
		if sr.Flow == ReturnFlow {
			result = sr.Value
		}
	}

	// Step 7: return-type check.
	if fn.RetType != "" && fn.RetType != "Any" && !runtime.ConformsTo(result, fn.RetType) {
		return nil, ferrors.New(ferrors.ReturnTypeMismatch, n.Pos(),
			"%s declares return type %s, got %s", fn.Name(), fn.RetType, runtime.TypeNameOf(result))
	}

	// Step 8: restore happens via the deferred restore() above.
	return result, nil
}
