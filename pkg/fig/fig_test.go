package fig

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// runYAML loads a YAML-fixture program, evaluates it against a fresh
// Engine, and returns whatever the built-ins wrote to stdout.
func runYAML(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := LoadProgram([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	var out bytes.Buffer
	engine := New(WithStdout(&out))
	err = engine.Run(program)
	return out.String(), err
}

func TestClosureCapturesLiveVariable(t *testing.T) {
	const src = `
statements:
  - kind: vardef
    name: counter
    typeName: "$typeFollowed"
    initializer: {kind: int, int: 0}
  - kind: vardef
    name: increment
    typeName: "$typeFollowed"
    initializer:
      kind: func
      params: []
      bodyExpr:
        kind: binary
        op: "+"
        left: {kind: var, name: counter}
        right: {kind: int, int: 1}
  - kind: varassign
    name: counter
    expr: {kind: call, callee: {kind: var, name: increment}, args: []}
  - kind: varassign
    name: counter
    expr: {kind: call, callee: {kind: var, name: increment}, args: []}
  - kind: expr
    expr: {kind: call, callee: {kind: var, name: __fstdout_println}, args: [{value: {kind: var, name: counter}}]}
`
	out, err := runYAML(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "closure_counter_output", out)
}

func TestDefaultParameterReevaluatedOnEachCall(t *testing.T) {
	const src = `
statements:
  - kind: vardef
    name: bonus
    typeName: Int
    initializer: {kind: int, int: 10}
  - kind: funcdef
    name: addBonus
    params:
      - name: x
        typeName: Int
      - name: extra
        typeName: Int
        default: {kind: var, name: bonus}
    retType: Int
    body:
      - kind: return
        expr: {kind: binary, op: "+", left: {kind: var, name: x}, right: {kind: var, name: extra}}
  - kind: vardef
    name: first
    typeName: "$typeFollowed"
    initializer: {kind: call, callee: {kind: var, name: addBonus}, args: [{value: {kind: int, int: 5}}]}
  - kind: varassign
    name: bonus
    expr: {kind: int, int: 100}
  - kind: vardef
    name: second
    typeName: "$typeFollowed"
    initializer: {kind: call, callee: {kind: var, name: addBonus}, args: [{value: {kind: int, int: 5}}]}
  - kind: expr
    expr:
      kind: call
      callee: {kind: var, name: __fstdout_println}
      args:
        - value: {kind: var, name: first}
        - value: {kind: var, name: second}
`
	out, err := runYAML(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "15105\n" {
		t.Fatalf("want default re-evaluated per call (5+10, then 5+100 after bonus changes), got %q", out)
	}
}

func TestNumericUnificationAcrossOperators(t *testing.T) {
	const src = `
statements:
  - kind: expr
    expr:
      kind: call
      callee: {kind: var, name: __fstdout_println}
      args:
        - value: {kind: binary, op: "+", left: {kind: int, int: 2}, right: {kind: int, int: 2}}
        - value: {kind: binary, op: "/", left: {kind: int, int: 1}, right: {kind: int, int: 4}}
        - value: {kind: call, callee: {kind: var, name: __fvalue_type}, args: [{value: {kind: binary, op: "+", left: {kind: int, int: 2}, right: {kind: int, int: 2}}}]}
        - value: {kind: call, callee: {kind: var, name: __fvalue_type}, args: [{value: {kind: binary, op: "/", left: {kind: int, int: 1}, right: {kind: int, int: 4}}}]}
`
	out, err := runYAML(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "numeric_unification_output", out)
}

func TestReturnTypeMismatchFails(t *testing.T) {
	const src = `
statements:
  - kind: funcdef
    name: wrongReturn
    params: []
    retType: Int
    body:
      - kind: return
        expr: {kind: string, string: "not an int"}
  - kind: expr
    expr: {kind: call, callee: {kind: var, name: wrongReturn}, args: []}
`
	_, err := runYAML(t, src)
	if err == nil {
		t.Fatal("want ReturnTypeMismatch error, got nil")
	}
	if !strings.Contains(err.Error(), "ReturnTypeMismatch") {
		t.Fatalf("want ReturnTypeMismatch in error, got %q", err.Error())
	}
}

func TestStructConstructionPositionalAndNamed(t *testing.T) {
	const src = `
statements:
  - kind: structdef
    name: Point
    fields:
      - name: x
        typeName: Int
      - name: y
        typeName: Int
        default: {kind: int, int: 0}
  - kind: vardef
    name: a
    typeName: "$typeFollowed"
    initializer:
      kind: init
      structExpr: {kind: var, name: Point}
      mode: positional
      args:
        - value: {kind: int, int: 3}
  - kind: vardef
    name: b
    typeName: "$typeFollowed"
    initializer:
      kind: init
      structExpr: {kind: var, name: Point}
      mode: named
      args:
        - name: y
          value: {kind: int, int: 7}
        - name: x
          value: {kind: int, int: 1}
  - kind: expr
    expr:
      kind: call
      callee: {kind: var, name: __fstdout_println}
      args:
        - value: {kind: access, target: {kind: var, name: a}, field: x}
        - value: {kind: access, target: {kind: var, name: a}, field: y}
        - value: {kind: access, target: {kind: var, name: b}, field: x}
        - value: {kind: access, target: {kind: var, name: b}, field: y}
`
	out, err := runYAML(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "struct_construction_output", out)
}

func TestReturnOutsideFunctionFails(t *testing.T) {
	const src = `
statements:
  - kind: return
    expr: {kind: int, int: 1}
`
	_, err := runYAML(t, src)
	if err == nil {
		t.Fatal("want ReturnOutsideFunction error, got nil")
	}
	if !strings.Contains(err.Error(), "ReturnOutsideFunction") {
		t.Fatalf("want ReturnOutsideFunction in error, got %q", err.Error())
	}
}

func TestConstFieldAssignmentFails(t *testing.T) {
	const src = `
statements:
  - kind: structdef
    name: Id
    fields:
      - name: value
        typeName: Int
        isFinal: true
  - kind: vardef
    name: a
    typeName: "$typeFollowed"
    initializer:
      kind: init
      structExpr: {kind: var, name: Id}
      mode: positional
      args:
        - value: {kind: int, int: 1}
  - kind: accessassign
    target: {kind: var, name: a}
    field: value
    expr: {kind: int, int: 2}
`
	_, err := runYAML(t, src)
	if err == nil {
		t.Fatal("want ConstAssignment error, got nil")
	}
	if !strings.Contains(err.Error(), "ConstAssignment") {
		t.Fatalf("want ConstAssignment in error, got %q", err.Error())
	}
}
