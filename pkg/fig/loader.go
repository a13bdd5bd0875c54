package fig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/position"
)

// yamlNode is the generic on-disk shape every expression/statement
// node decodes into: a "kind" tag plus kind-specific fields. There is
// no lexer/parser here, so YAML is the only program representation
// the CLI and fixtures can load.
type yamlNode struct {
	Kind string `yaml:"kind"`

	// Literals
	Int    *int64   `yaml:"int"`
	Double *float64 `yaml:"double"`
	Str    *string  `yaml:"string"`
	Bool   *bool    `yaml:"bool"`

	// VarRef / VarAssign / VarDef names, FunctionDef/StructDef names
	Name string `yaml:"name"`

	// Binary / Unary
	Op    string     `yaml:"op"`
	Left  *yamlNode  `yaml:"left"`
	Right *yamlNode  `yaml:"right"`
	Expr  *yamlNode  `yaml:"expr"`

	// FunctionCall / InitExpr args
	Callee *yamlNode   `yaml:"callee"`
	Args   []yamlArg   `yaml:"args"`

	// FunctionLiteral / FunctionDef
	Params       []yamlParam `yaml:"params"`
	Variadic     bool        `yaml:"variadic"`
	VariadicName string      `yaml:"variadicName"`
	RetType      string      `yaml:"retType"`
	Body         []yamlNode  `yaml:"body"`
	BodyExpr     *yamlNode   `yaml:"bodyExpr"`
	IsPublic     bool        `yaml:"isPublic"`
	IsConst      bool        `yaml:"isConst"`
	IsFinal      bool        `yaml:"isFinal"`

	// VarDef
	TypeName    string    `yaml:"typeName"`
	Initializer *yamlNode `yaml:"initializer"`

	// InitExpr
	StructExpr *yamlNode `yaml:"structExpr"`
	Mode       string    `yaml:"mode"`

	// ListExpr
	Elements []yamlNode `yaml:"elements"`

	// AccessExpr / AccessAssignStmt
	Target *yamlNode `yaml:"target"`
	Field  string    `yaml:"field"`

	// StructDef
	Fields []yamlField `yaml:"fields"`

	// If
	Cond  *yamlNode    `yaml:"cond"`
	Then  []yamlNode   `yaml:"then"`
	Elifs []yamlElif   `yaml:"elifs"`
	Else  []yamlNode   `yaml:"else"`

	// Import
	Path string `yaml:"path"`
}

type yamlArg struct {
	Name  string    `yaml:"name"`
	Value *yamlNode `yaml:"value"`
}

type yamlParam struct {
	Name     string    `yaml:"name"`
	TypeName string    `yaml:"typeName"`
	Default  *yamlNode `yaml:"default"`
}

type yamlField struct {
	Name     string    `yaml:"name"`
	TypeName string    `yaml:"typeName"`
	Default  *yamlNode `yaml:"default"`
	IsPublic bool      `yaml:"isPublic"`
	IsConst  bool      `yaml:"isConst"`
	IsFinal  bool      `yaml:"isFinal"`
}

type yamlElif struct {
	Cond *yamlNode  `yaml:"cond"`
	Then []yamlNode `yaml:"then"`
}

// yamlProgram is the document root.
type yamlProgram struct {
	File       string     `yaml:"file"`
	Statements []yamlNode `yaml:"statements"`
}

// LoadProgramFile decodes a YAML fixture file into an *ast.Program.
func LoadProgramFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadProgram(data, path)
}

// LoadProgram decodes YAML bytes into an *ast.Program. file is used
// only to stamp source positions.
func LoadProgram(data []byte, file string) (*ast.Program, error) {
	var doc yamlProgram
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fig: decoding program: %w", err)
	}
	if doc.File != "" {
		file = doc.File
	}
	stmts := make([]ast.Statement, len(doc.Statements))
	for i, n := range doc.Statements {
		s, err := n.toStatement(file)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
	}
	return &ast.Program{Statements: stmts, Position: position.Position{File: file, Line: 1, Column: 1}}, nil
}

func pos(file string) position.Position {
	return position.Position{File: file, Line: 1, Column: 1}
}

func toBlock(file string, nodes []yamlNode) (*ast.BlockStatement, error) {
	stmts := make([]ast.Statement, len(nodes))
	for i, n := range nodes {
		s, err := n.toStatement(file)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
	}
	return &ast.BlockStatement{Statements: stmts, Position: pos(file)}, nil
}

func (n *yamlNode) toExpr(file string) (ast.Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("fig: nil expression node")
	}
	switch n.Kind {
	case "int":
		if n.Int == nil {
			return nil, fmt.Errorf("fig: int literal missing value")
		}
		return &ast.IntLiteral{Value: *n.Int, Position: pos(file)}, nil
	case "double":
		if n.Double == nil {
			return nil, fmt.Errorf("fig: double literal missing value")
		}
		return &ast.DoubleLiteral{Value: *n.Double, Position: pos(file)}, nil
	case "string":
		if n.Str == nil {
			return nil, fmt.Errorf("fig: string literal missing value")
		}
		return &ast.StringLiteral{Value: *n.Str, Position: pos(file)}, nil
	case "bool":
		if n.Bool == nil {
			return nil, fmt.Errorf("fig: bool literal missing value")
		}
		return &ast.BoolLiteral{Value: *n.Bool, Position: pos(file)}, nil
	case "null":
		return &ast.NullLiteral{Position: pos(file)}, nil
	case "var":
		return &ast.VarRef{Name: n.Name, Position: pos(file)}, nil
	case "binary":
		left, err := n.Left.toExpr(file)
		if err != nil {
			return nil, err
		}
		right, err := n.Right.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.BinaryOp(n.Op), Left: left, Right: right, Position: pos(file)}, nil
	case "unary":
		operand, err := n.Expr.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryOp(n.Op), Operand: operand, Position: pos(file)}, nil
	case "call":
		callee, err := n.Callee.toExpr(file)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expression, len(n.Args))
		for i, a := range n.Args {
			v, err := a.Value.toExpr(file)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return &ast.FunctionCall{Callee: callee, Args: args, Position: pos(file)}, nil
	case "func":
		params, err := toParams(n.Params, file)
		if err != nil {
			return nil, err
		}
		var body *ast.BlockStatement
		var bodyExpr ast.Expression
		if len(n.Body) > 0 {
			body, err = toBlock(file, n.Body)
			if err != nil {
				return nil, err
			}
		} else if n.BodyExpr != nil {
			bodyExpr, err = n.BodyExpr.toExpr(file)
			if err != nil {
				return nil, err
			}
		}
		return &ast.FunctionLiteral{Name: n.Name, Params: params, Variadic: n.Variadic, VariadicName: n.VariadicName, RetType: n.RetType, Body: body, BodyExpr: bodyExpr, Position: pos(file)}, nil
	case "init":
		structExpr, err := n.StructExpr.toExpr(file)
		if err != nil {
			return nil, err
		}
		mode, args, err := toInitArgs(n.Mode, n.Args, file)
		if err != nil {
			return nil, err
		}
		return &ast.InitExpr{StructExpr: structExpr, Args: args, Mode: mode, Position: pos(file)}, nil
	case "list":
		elems := make([]ast.Expression, len(n.Elements))
		for i := range n.Elements {
			v, err := n.Elements[i].toExpr(file)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &ast.ListExpr{Elements: elems, Position: pos(file)}, nil
	case "access":
		target, err := n.Target.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.AccessExpr{Target: target, Field: n.Field, Position: pos(file)}, nil
	default:
		return nil, fmt.Errorf("fig: unknown expression kind %q", n.Kind)
	}
}

func toParams(in []yamlParam, file string) ([]ast.Param, error) {
	out := make([]ast.Param, len(in))
	for i, p := range in {
		var def ast.Expression
		if p.Default != nil {
			d, err := p.Default.toExpr(file)
			if err != nil {
				return nil, err
			}
			def = d
		}
		out[i] = ast.Param{Name: p.Name, TypeName: p.TypeName, Default: def}
	}
	return out, nil
}

func toInitArgs(mode string, in []yamlArg, file string) (ast.InitMode, []ast.InitArg, error) {
	var m ast.InitMode
	switch mode {
	case "named":
		m = ast.InitNamed
	case "shorthand":
		m = ast.InitShorthand
	default:
		m = ast.InitPositional
	}
	out := make([]ast.InitArg, len(in))
	for i, a := range in {
		var v ast.Expression
		if a.Value != nil {
			val, err := a.Value.toExpr(file)
			if err != nil {
				return 0, nil, err
			}
			v = val
		}
		out[i] = ast.InitArg{Name: a.Name, Value: v}
	}
	return m, out, nil
}

func (n *yamlNode) toStatement(file string) (ast.Statement, error) {
	switch n.Kind {
	case "expr":
		e, err := n.Expr.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStmt{Expr: e, Position: pos(file)}, nil
	case "block":
		return toBlock(file, n.Body)
	case "vardef":
		typeName := n.TypeName
		if typeName == "" && n.Initializer != nil {
			typeName = ast.VarDefTypeFollowed
		}
		var init ast.Expression
		if n.Initializer != nil {
			v, err := n.Initializer.toExpr(file)
			if err != nil {
				return nil, err
			}
			init = v
		}
		return &ast.VarDef{Name: n.Name, TypeName: typeName, Initializer: init, IsPublic: n.IsPublic, IsConst: n.IsConst, Position: pos(file)}, nil
	case "varassign":
		e, err := n.Expr.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.VarAssign{Name: n.Name, Expr: e, Position: pos(file)}, nil
	case "accessassign":
		target, err := n.Target.toExpr(file)
		if err != nil {
			return nil, err
		}
		e, err := n.Expr.toExpr(file)
		if err != nil {
			return nil, err
		}
		return &ast.AccessAssignStmt{Target: target, Field: n.Field, Expr: e, Position: pos(file)}, nil
	case "funcdef":
		params, err := toParams(n.Params, file)
		if err != nil {
			return nil, err
		}
		body, err := toBlock(file, n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDef{Name: n.Name, Params: params, Variadic: n.Variadic, VariadicName: n.VariadicName, RetType: n.RetType, Body: body, IsPublic: n.IsPublic, Position: pos(file)}, nil
	case "structdef":
		fields := make([]ast.FieldDef, len(n.Fields))
		for i, f := range n.Fields {
			var def ast.Expression
			if f.Default != nil {
				d, err := f.Default.toExpr(file)
				if err != nil {
					return nil, err
				}
				def = d
			}
			fields[i] = ast.FieldDef{Name: f.Name, TypeName: f.TypeName, Default: def, IsPublic: f.IsPublic, IsConst: f.IsConst, IsFinal: f.IsFinal}
		}
		return &ast.StructDef{Name: n.Name, Fields: fields, IsPublic: n.IsPublic, Position: pos(file)}, nil
	case "if":
		cond, err := n.Cond.toExpr(file)
		if err != nil {
			return nil, err
		}
		then, err := toBlock(file, n.Then)
		if err != nil {
			return nil, err
		}
		elifs := make([]ast.ElifClause, len(n.Elifs))
		for i, el := range n.Elifs {
			c, err := el.Cond.toExpr(file)
			if err != nil {
				return nil, err
			}
			b, err := toBlock(file, el.Then)
			if err != nil {
				return nil, err
			}
			elifs[i] = ast.ElifClause{Cond: c, Body: b}
		}
		var elseBlock *ast.BlockStatement
		if len(n.Else) > 0 {
			elseBlock, err = toBlock(file, n.Else)
			if err != nil {
				return nil, err
			}
		}
		return &ast.If{Cond: cond, Body: then, Elifs: elifs, Else: elseBlock, Position: pos(file)}, nil
	case "while":
		cond, err := n.Cond.toExpr(file)
		if err != nil {
			return nil, err
		}
		body, err := toBlock(file, n.Then)
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body, Position: pos(file)}, nil
	case "return":
		var e ast.Expression
		if n.Expr != nil {
			v, err := n.Expr.toExpr(file)
			if err != nil {
				return nil, err
			}
			e = v
		}
		return &ast.Return{Expr: e, Position: pos(file)}, nil
	case "break":
		return &ast.Break{Position: pos(file)}, nil
	case "continue":
		return &ast.Continue{Position: pos(file)}, nil
	case "import":
		return &ast.Import{Path: n.Path, Position: pos(file)}, nil
	default:
		return nil, fmt.Errorf("fig: unknown statement kind %q", n.Kind)
	}
}
