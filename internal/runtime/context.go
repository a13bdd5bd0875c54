package runtime

import (
	"fmt"

	"github.com/cwbudde/figscript/internal/ast"
)

// slot is one binding in a Context: a declared type, an access
// modifier, and the current value.
type slot struct {
	typeName string
	access   ast.AccessModifier
	value    Value
}

// slotMutable reports whether a slot with this access modifier may be
// reassigned via set/AccessAssign.
func slotMutable(a ast.AccessModifier) bool {
	return !a.IsConst() && !a.IsFinal()
}

// Context is one frame of the lexical scope chain:
// a name, a slot map local to this frame, and a parent link.
type Context struct {
	Name   string
	slots  map[string]*slot
	Parent *Context
}

// NewContext creates a fresh, empty context. parent may be nil for the
// root/global context.
func NewContext(name string, parent *Context) *Context {
	return &Context{
		Name:   name,
		slots:  make(map[string]*slot),
		Parent: parent,
	}
}

// Def declares a new binding in this frame only. Fails (returns false)
// if name already exists in this exact frame — shadowing across frames
// is fine, redeclaration within one frame is not.
func (c *Context) Def(name, typeName string, access ast.AccessModifier, value Value) bool {
	if _, exists := c.slots[name]; exists {
		return false
	}
	c.slots[name] = &slot{typeName: typeName, access: access, value: value}
	return true
}

// defineOrReplace is the StructInstance field-write path
// (StructInstance.SetFieldValue): it overwrites an existing slot's
// value without the mutability and type checks Set makes, which the
// caller has already made. A name with no slot gets a new one with no
// declared type. Construction populates fields through Def instead.
func (c *Context) defineOrReplace(name string, value Value) {
	if s, ok := c.slots[name]; ok {
		s.value = value
		return
	}
	c.slots[name] = &slot{value: value}
}

// lookup walks the parent chain for the nearest slot bound to name.
func (c *Context) lookup(name string) (*Context, *slot) {
	for cur := c; cur != nil; cur = cur.Parent {
		if s, ok := cur.slots[name]; ok {
			return cur, s
		}
	}
	return nil, nil
}

// Get returns the value bound to name, walking the parent chain.
func (c *Context) Get(name string) (Value, bool) {
	_, s := c.lookup(name)
	if s == nil {
		return nil, false
	}
	return s.value, true
}

// GetLocal returns the value bound to name in this exact frame only,
// without walking the parent chain (used for struct instance field
// access, where a field context has no meaningful parent to search).
func (c *Context) GetLocal(name string) (Value, bool) {
	s, ok := c.slots[name]
	if !ok {
		return nil, false
	}
	return s.value, true
}

// Contains reports whether name is bound anywhere on the chain.
func (c *Context) Contains(name string) bool {
	_, s := c.lookup(name)
	return s != nil
}

// IsVariableMutable reports whether the nearest slot bound to name may
// be reassigned. The second return is false if name is unbound.
func (c *Context) IsVariableMutable(name string) (bool, bool) {
	_, s := c.lookup(name)
	if s == nil {
		return false, false
	}
	return slotMutable(s.access), true
}

// GetTypeInfo returns the declared type of the nearest slot bound to
// name.
func (c *Context) GetTypeInfo(name string) (string, bool) {
	_, s := c.lookup(name)
	if s == nil {
		return "", false
	}
	return s.typeName, true
}

// Set locates the nearest slot bound to name and replaces its value,
// enforcing mutability and type conformance. The evaluator is responsible for turning the returned
// sentinel errors into typed ferrors with a source position.
func (c *Context) Set(name string, value Value) error {
	_, s := c.lookup(name)
	if s == nil {
		return errVariableNotFound{name}
	}
	if !slotMutable(s.access) {
		return errConstAssignment{name}
	}
	if !ConformsTo(value, s.typeName) {
		return errTypeMismatch{name, s.typeName, TypeNameOf(value)}
	}
	s.value = value
	return nil
}

// errVariableNotFound, errConstAssignment and errTypeMismatch are
// internal sentinels Context.Set returns; internal/evaluator maps them
// onto the evaluator's ErrorKind taxonomy with a source position attached.
// They are not exported error types themselves because the Context
// layer has no notion of source position.

type errVariableNotFound struct{ name string }

func (e errVariableNotFound) Error() string {
	return fmt.Sprintf("variable %q not found", e.name)
}

type errConstAssignment struct{ name string }

func (e errConstAssignment) Error() string {
	return fmt.Sprintf("cannot assign to const variable %q", e.name)
}

type errTypeMismatch struct {
	name, want, got string
}

func (e errTypeMismatch) Error() string {
	return fmt.Sprintf("variable %q expects %s, got %s", e.name, e.want, e.got)
}

// IsVariableNotFound, IsConstAssignment and IsTypeMismatch classify the
// sentinel errors Context.Set can return.
func IsVariableNotFound(err error) bool { _, ok := err.(errVariableNotFound); return ok }
func IsConstAssignment(err error) bool  { _, ok := err.(errConstAssignment); return ok }
func IsTypeMismatch(err error) bool     { _, ok := err.(errTypeMismatch); return ok }

// StackTrace walks the context chain from c to the root, returning
// each scope's name, innermost first.
func (c *Context) StackTrace() []string {
	var names []string
	for cur := c; cur != nil; cur = cur.Parent {
		names = append(names, cur.Name)
	}
	return names
}
