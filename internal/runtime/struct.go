package runtime

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/figscript/internal/ast"
)

// nextStructTypeID is the monotonic identity counter for StructType
// values.
var nextStructTypeID atomic.Uint64

func allocStructTypeID() uint64 {
	return nextStructTypeID.Add(1)
}

// Field describes one member of a StructType
type Field struct {
	Access   ast.AccessModifier
	Name     string
	TypeName string
	Default  ast.Expression // nil if the field has no default
}

func (f Field) IsPublic() bool { return f.Access.IsPublic() }
func (f Field) IsConst() bool  { return f.Access.IsConst() }
func (f Field) IsFinal() bool  { return f.Access.IsFinal() }

// StructType is a named record schema.
type StructType struct {
	id         uint64
	Name       string
	Fields     []Field
	DefContext *Context // scope the type was defined in; defaults evaluate here
}

// NewStructType allocates a StructType with a fresh monotonic identity.
func NewStructType(name string, fields []Field, defContext *Context) *StructType {
	return &StructType{
		id:         allocStructTypeID(),
		Name:       name,
		Fields:     fields,
		DefContext: defContext,
	}
}

func (*StructType) Kind() Kind { return KindStructType }
func (t *StructType) ID() uint64 { return t.id }

func (t *StructType) String() string {
	return fmt.Sprintf("<StructType %s@%d>", t.Name, t.id)
}

// Equals is identity equality by the type's monotonic id.
func (t *StructType) Equals(o Value) bool {
	other, ok := o.(*StructType)
	return ok && other.id == t.id
}

// FieldByName looks up a field by name, reporting ok=false if absent.
func (t *StructType) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// StructInstance is a runtime record bound to a specific StructType.
// Fields live in Context, a dedicated local context parented to
// nothing (field lookups never walk past it) so that access-modifier
// enforcement in the evaluator stays a flat lookup.
type StructInstance struct {
	Parent  *StructType
	Context *Context
}

// NewStructInstance allocates a fresh instance bound to parent, with an
// empty local field context.
func NewStructInstance(parent *StructType) *StructInstance {
	return &StructInstance{
		Parent:  parent,
		Context: NewContext(fmt.Sprintf("<Instance %s>", parent.Name), nil),
	}
}

func (*StructInstance) Kind() Kind { return KindStructInstance }

func (s *StructInstance) String() string {
	return fmt.Sprintf("<StructInstance %s@%p>", s.Parent.Name, s.Context)
}

// Equals reports whether two StructInstances refer to the same
// underlying instance object: pointer identity of the
// instance's local context, since that is the one thing each instance
// uniquely owns.
func (s *StructInstance) Equals(o Value) bool {
	other, ok := o.(*StructInstance)
	return ok && other.Context == s.Context
}

// FieldValue reads a field's raw current value out of the instance's
// local context. Access-modifier and type enforcement are the
// evaluator's responsibility (internal/evaluator/access.go), which can
// attach a source position to the resulting error; this layer only
// exposes the data.
func (s *StructInstance) FieldValue(name string) (Value, bool) {
	return s.Context.GetLocal(name)
}

// SetFieldValue overwrites a field's raw value in the instance's local
// context, bypassing modifier/type checks (the caller must have already
// performed them).
func (s *StructInstance) SetFieldValue(name string, value Value) {
	s.Context.defineOrReplace(name, value)
}
