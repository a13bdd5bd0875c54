// Package runtime implements the tagged value model and the lexical
// context/scope chain. The two live in one package because a Function
// value holds a captured *Context and a Context stores Values —
// splitting them would be a straight import cycle.
package runtime

import "fmt"

// Kind tags the eight Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindDouble
	KindString
	KindBool
	KindFunction
	KindStructType
	KindStructInstance
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInt:
		return "Int"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindFunction:
		return "Function"
	case KindStructType:
		return "StructType"
	case KindStructInstance:
		return "StructInstance"
	default:
		return "Unknown"
	}
}

// Value is the tagged union every runtime value variant satisfies.
type Value interface {
	Kind() Kind
	String() string
	// Equals is variant-then-value equality: values of different Kind
	// are never equal, including Int vs Double.
	Equals(other Value) bool
}

// Null is the singleton null value.
type Null struct{}

var NullValue Value = Null{}

func (Null) Kind() Kind          { return KindNull }
func (Null) String() string      { return "null" }
func (Null) Equals(o Value) bool { return o.Kind() == KindNull }

// Int wraps a 64-bit signed integer.
type Int int64

func (Int) Kind() Kind     { return KindInt }
func (v Int) String() string { return fmt.Sprintf("%d", int64(v)) }
func (v Int) Equals(o Value) bool {
	other, ok := o.(Int)
	return ok && other == v
}

// Double wraps a 64-bit IEEE-754 float.
type Double float64

func (Double) Kind() Kind { return KindDouble }
func (v Double) String() string {
	return fmt.Sprintf("%g", float64(v))
}
func (v Double) Equals(o Value) bool {
	other, ok := o.(Double)
	return ok && other == v
}

// String wraps a UTF-8 byte sequence; equality is bytewise.
type String string

func (String) Kind() Kind       { return KindString }
func (v String) String() string { return string(v) }
func (v String) Equals(o Value) bool {
	other, ok := o.(String)
	return ok && other == v
}

// Bool wraps a boolean.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (v Bool) String() string { return fmt.Sprintf("%t", bool(v)) }
func (v Bool) Equals(o Value) bool {
	other, ok := o.(Bool)
	return ok && other == v
}

// ZeroValueFor returns the default value a VarDef with an explicit type
// and no initializer takes
func ZeroValueFor(typeName string) Value {
	switch typeName {
	case "Int":
		return Int(0)
	case "Double":
		return Double(0)
	case "String":
		return String("")
	case "Bool":
		return Bool(false)
	default:
		return NullValue
	}
}

// TypeNameOf returns the declared-type name a Value satisfies, used by
// __fvalue_type and by type-conformance checks.
func TypeNameOf(v Value) string {
	return v.Kind().String()
}

// ConformsTo reports whether v may be stored in a slot declared with
// typeName ("Any" accepts everything).
func ConformsTo(v Value, typeName string) bool {
	if typeName == "Any" || typeName == "" {
		return true
	}
	return TypeNameOf(v) == typeName
}
