// Package builtins seeds the evaluator's global context with the
// built-in values and host functions, registered by name with no
// overloads or units.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/runtime"
)

// IO bundles the stdio streams built-ins read from / write to. The
// evaluator core has no process-environment dependency beyond these.
type IO struct {
	Stdin  *bufio.Reader
	Stdout io.Writer
}

// NewIO wraps raw reader/writer streams with the buffering Read/ReadLine
// need.
func NewIO(stdin io.Reader, stdout io.Writer) IO {
	return IO{Stdin: bufio.NewReader(stdin), Stdout: stdout}
}

// Seed installs null/true/false and the ten built-in functions into
// global, each as a PublicConst slot.
func Seed(global *runtime.Context, streams IO) {
	defPublicConst(global, "null", "Any", runtime.NullValue)
	defPublicConst(global, "true", "Bool", runtime.Bool(true))
	defPublicConst(global, "false", "Bool", runtime.Bool(false))

	defBuiltin(global, "__fstdout_print", -1, printFunc(streams, false))
	defBuiltin(global, "__fstdout_println", -1, printFunc(streams, true))
	defBuiltin(global, "__fstdin_read", 0, readTokenFunc(streams))
	defBuiltin(global, "__fstdin_readln", 0, readLineFunc(streams))
	defBuiltin(global, "__fvalue_type", 1, valueTypeFunc)
	defBuiltin(global, "__fvalue_int_parse", 1, intParseFunc)
	defBuiltin(global, "__fvalue_int_from", 1, intFromFunc)
	defBuiltin(global, "__fvalue_double_parse", 1, doubleParseFunc)
	defBuiltin(global, "__fvalue_double_from", 1, doubleFromFunc)
	defBuiltin(global, "__fvalue_string_from", 1, stringFromFunc)
}

func defPublicConst(global *runtime.Context, name, typeName string, value runtime.Value) {
	global.Def(name, typeName, ast.PublicConst, value)
}

func defBuiltin(global *runtime.Context, name string, arity int, call runtime.BuiltinCall) {
	fn := runtime.NewBuiltinFunction(name, arity, call)
	global.Def(name, "Any", ast.PublicConst, fn)
}

func printFunc(streams IO, newline bool) runtime.BuiltinCall {
	return func(args []runtime.Value) (runtime.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(a.String())
		}
		if newline {
			b.WriteByte('\n')
		}
		if _, err := fmt.Fprint(streams.Stdout, b.String()); err != nil {
			return nil, err
		}
		return runtime.Int(len(args)), nil
	}
}

func readTokenFunc(streams IO) runtime.BuiltinCall {
	return func(args []runtime.Value) (runtime.Value, error) {
		var b strings.Builder
		for {
			r, _, err := streams.Stdin.ReadRune()
			if err != nil {
				if b.Len() > 0 {
					break
				}
				if err == io.EOF {
					return runtime.String(""), nil
				}
				return nil, err
			}
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				if b.Len() == 0 {
					continue
				}
				break
			}
			b.WriteRune(r)
		}
		return runtime.String(b.String()), nil
	}
}

func readLineFunc(streams IO) runtime.BuiltinCall {
	return func(args []runtime.Value) (runtime.Value, error) {
		line, err := streams.Stdin.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return runtime.String(""), nil
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		return runtime.String(line), nil
	}
}

func valueTypeFunc(args []runtime.Value) (runtime.Value, error) {
	return runtime.String(runtime.TypeNameOf(args[0])), nil
}

func intParseFunc(args []runtime.Value) (runtime.Value, error) {
	s, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("__fvalue_int_parse requires a String argument, got %s", runtime.TypeNameOf(args[0]))
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("__fvalue_int_parse: malformed integer %q", string(s))
	}
	return runtime.Int(n), nil
}

func intFromFunc(args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.Double:
		return runtime.Int(int64(v)), nil
	case runtime.Bool:
		if v {
			return runtime.Int(1), nil
		}
		return runtime.Int(0), nil
	default:
		return nil, fmt.Errorf("__fvalue_int_from requires Double or Bool, got %s", runtime.TypeNameOf(args[0]))
	}
}

func doubleParseFunc(args []runtime.Value) (runtime.Value, error) {
	s, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("__fvalue_double_parse requires a String argument, got %s", runtime.TypeNameOf(args[0]))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return nil, fmt.Errorf("__fvalue_double_parse: malformed double %q", string(s))
	}
	return runtime.Double(f), nil
}

func doubleFromFunc(args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.Int:
		return runtime.Double(v), nil
	case runtime.Bool:
		if v {
			return runtime.Double(1), nil
		}
		return runtime.Double(0), nil
	default:
		return nil, fmt.Errorf("__fvalue_double_from requires Int or Bool, got %s", runtime.TypeNameOf(args[0]))
	}
}

func stringFromFunc(args []runtime.Value) (runtime.Value, error) {
	return runtime.String(args[0].String()), nil
}
