package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/builtins"
	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/internal/runtime"
)

func newTestEvaluator() (*Evaluator, *bytes.Buffer) {
	var out bytes.Buffer
	streams := builtins.NewIO(strings.NewReader(""), &out)
	return New(streams), &out
}

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{Value: v} }

func TestWhileLoopBreaksOnCondition(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "i", TypeName: "Int", Initializer: intLit(0)},
		&ast.While{
			Cond: &ast.Binary{Op: ast.OpLt, Left: &ast.VarRef{Name: "i"}, Right: intLit(3)},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.VarAssign{Name: "i", Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.VarRef{Name: "i"}, Right: intLit(1)}},
			}},
		},
	}}
	if err := e.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := e.Global.Get("i")
	if !ok {
		t.Fatal("expected i to remain bound in the global context")
	}
	if v.(runtime.Int) != 3 {
		t.Fatalf("want i == 3, got %v", v)
	}
}

func TestBreakExitsNearestLoop(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "i", TypeName: "Int", Initializer: intLit(0)},
		&ast.While{
			Cond: &ast.BoolLiteral{Value: true},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.If{
					Cond: &ast.Binary{Op: ast.OpGte, Left: &ast.VarRef{Name: "i"}, Right: intLit(2)},
					Body: &ast.BlockStatement{Statements: []ast.Statement{&ast.Break{}}},
				},
				&ast.VarAssign{Name: "i", Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.VarRef{Name: "i"}, Right: intLit(1)}},
			}},
		},
	}}
	if err := e.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := e.Global.Get("i")
	if v.(runtime.Int) != 2 {
		t.Fatalf("want i == 2 after break, got %v", v)
	}
}

func TestContinueSkipsRestOfBody(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "i", TypeName: "Int", Initializer: intLit(0)},
		&ast.VarDef{Name: "sum", TypeName: "Int", Initializer: intLit(0)},
		&ast.While{
			Cond: &ast.Binary{Op: ast.OpLt, Left: &ast.VarRef{Name: "i"}, Right: intLit(5)},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.VarAssign{Name: "i", Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.VarRef{Name: "i"}, Right: intLit(1)}},
				&ast.If{
					Cond: &ast.Binary{Op: ast.OpEq, Left: &ast.Binary{Op: ast.OpMod, Left: &ast.VarRef{Name: "i"}, Right: intLit(2)}, Right: intLit(0)},
					Body: &ast.BlockStatement{Statements: []ast.Statement{&ast.Continue{}}},
				},
				&ast.VarAssign{Name: "sum", Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.VarRef{Name: "sum"}, Right: &ast.VarRef{Name: "i"}}},
			}},
		},
	}}
	if err := e.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := e.Global.Get("sum")
	if v.(runtime.Int) != 9 { // odd i in 1..5: 1 + 3 + 5
		t.Fatalf("want sum == 9, got %v", v)
	}
}

func TestVarDefRedeclarationFails(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "x", TypeName: "Int", Initializer: intLit(1)},
		&ast.VarDef{Name: "x", TypeName: "Int", Initializer: intLit(2)},
	}}
	err := e.Run(prog)
	if !ferrors.Is(err, ferrors.Redeclaration) {
		t.Fatalf("want Redeclaration, got %v", err)
	}
}

func TestBlockShadowingDoesNotLeakOut(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "x", TypeName: "Int", Initializer: intLit(1)},
		&ast.If{
			Cond: &ast.BoolLiteral{Value: true},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.VarDef{Name: "x", TypeName: "Int", Initializer: intLit(99)},
			}},
		},
	}}
	if err := e.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := e.Global.Get("x")
	if v.(runtime.Int) != 1 {
		t.Fatalf("inner block's x should not overwrite the outer binding, got %v", v)
	}
}

func TestConstReassignmentFails(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDef{Name: "x", TypeName: "Int", Initializer: intLit(1), IsConst: true},
		&ast.VarAssign{Name: "x", Expr: intLit(2)},
	}}
	err := e.Run(prog)
	if !ferrors.Is(err, ferrors.ConstAssignment) {
		t.Fatalf("want ConstAssignment, got %v", err)
	}
}

func TestFunctionArityMismatchFails(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDef{
			Name:    "add",
			Params:  []ast.Param{{Name: "a", TypeName: "Int"}, {Name: "b", TypeName: "Int"}},
			RetType: "Int",
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.Return{Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.VarRef{Name: "a"}, Right: &ast.VarRef{Name: "b"}}},
			}},
		},
		&ast.ExpressionStmt{Expr: &ast.FunctionCall{Callee: &ast.VarRef{Name: "add"}, Args: []ast.Expression{intLit(1)}}},
	}}
	err := e.Run(prog)
	if !ferrors.Is(err, ferrors.ArgumentMismatch) {
		t.Fatalf("want ArgumentMismatch, got %v", err)
	}
}

func TestFunctionDefaultParameterFillsMissingArgument(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDef{
			Name: "greetCount",
			Params: []ast.Param{
				{Name: "times", TypeName: "Int", Default: intLit(2)},
			},
			RetType: "Int",
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.Return{Expr: &ast.VarRef{Name: "times"}},
			}},
		},
		&ast.VarDef{
			Name:     "result",
			TypeName: ast.VarDefTypeFollowed,
			Initializer: &ast.FunctionCall{
				Callee: &ast.VarRef{Name: "greetCount"},
				Args:   nil,
			},
		},
	}}
	if err := e.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := e.Global.Get("result")
	if v.(runtime.Int) != 2 {
		t.Fatalf("want default-filled result == 2, got %v", v)
	}
}

func TestFunctionParametersAreConstInsideBody(t *testing.T) {
	e, _ := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDef{
			Name:   "tryMutate",
			Params: []ast.Param{{Name: "n", TypeName: "Int"}},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.VarAssign{Name: "n", Expr: intLit(0)},
			}},
		},
		&ast.ExpressionStmt{Expr: &ast.FunctionCall{Callee: &ast.VarRef{Name: "tryMutate"}, Args: []ast.Expression{intLit(1)}}},
	}}
	err := e.Run(prog)
	if !ferrors.Is(err, ferrors.ConstAssignment) {
		t.Fatalf("want parameter reassignment to fail as ConstAssignment, got %v", err)
	}
}
