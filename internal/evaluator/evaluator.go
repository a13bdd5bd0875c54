package evaluator

import (
	"fmt"
	"strings"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/builtins"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/position"
	"github.com/cwbudde/figscript/internal/runtime"
)

// functionScopePrefix marks a Context as belonging to a function-call
// frame: its name starts with this prefix, which evalReturn scans for
// when unwinding the scope chain.
const functionScopePrefix = "<Function "

// Evaluator walks a Program's statements against a context chain
// rooted at Global.
type Evaluator struct {
	Global  *runtime.Context
	current *runtime.Context
}

// New constructs an Evaluator with a fresh global context seeded with
// the built-in registry.
func New(streams builtins.IO) *Evaluator {
	global := runtime.NewContext("global", nil)
	builtins.Seed(global, streams)
	return &Evaluator{Global: global, current: global}
}

// Run evaluates prog's top-level statements in order against the
// global context. It returns the first error encountered; evaluation
// aborts the whole program on error.
func (e *Evaluator) Run(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if _, err := e.evalStatement(stmt); err != nil {
			return e.attachStack(err)
		}
	}
	return nil
}

// attachStack adds the current context chain (innermost first) to a
// *ferrors.Error before it leaves Run, so the CLI driver can render a
// stack trace.
func (e *Evaluator) attachStack(err error) error {
	if fe, ok := err.(*ferrors.Error); ok {
		return fe.WithStack(e.current.StackTrace())
	}
	return err
}

// pushContext installs child as current and returns a restore func the
// caller must invoke on every exit path, including error paths.
func (e *Evaluator) pushContext(child *runtime.Context) func() {
	prev := e.current
	e.current = child
	return func() { e.current = prev }
}

func (e *Evaluator) newBlockContext(pos position.Position) *runtime.Context {
	return runtime.NewContext(fmt.Sprintf("<Block %s>", pos), e.current)
}

// inFunctionScope reports whether name marks a function-call frame.
func inFunctionScope(name string) bool {
	return strings.HasPrefix(name, functionScopePrefix)
}
