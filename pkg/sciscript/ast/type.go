package ast

import (
	"fmt"
	"strings"
)

// Type is the SciScript type lattice. Assignability is structural and
// covariant in component positions; equality ignores any carried
// NumberConstant.
type Type interface {
	// CanBeAssignedTo determines whether a value of this type may flow into
	// a binding declared with the other type.
	CanBeAssignedTo(other Type) bool
	// String renders the type the way a diagnostic reports it.
	String() string
}

// ============================================================================
// AnyType
// ============================================================================

// AnyType is the top of the lattice: every type is assignable to it, and it
// is assignable to anything.
type AnyType struct{}

// Any is the canonical AnyType instance.
var Any Type = AnyType{}

// CanBeAssignedTo implements Type: Any is universally accepted on either side
// of an assignment.
func (AnyType) CanBeAssignedTo(Type) bool {
	return true
}

func (AnyType) String() string { return "any" }

// ============================================================================
// VoidType
// ============================================================================

// VoidType is the type of `null` and of control-flow expressions whose
// branches disagree.
type VoidType struct{}

// Void is the canonical VoidType instance.
var Void Type = VoidType{}

// CanBeAssignedTo implements Type.
func (VoidType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	_, ok := other.(VoidType)
	return ok
}

func (VoidType) String() string { return "void" }

// ============================================================================
// BoolType
// ============================================================================

// BoolType is the type of `true`/`false` and of comparison results.
type BoolType struct{}

// Bool is the canonical BoolType instance.
var Bool Type = BoolType{}

// CanBeAssignedTo implements Type.
func (BoolType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	_, ok := other.(BoolType)
	return ok
}

func (BoolType) String() string { return "bool" }

// ============================================================================
// RangeType
// ============================================================================

// RangeType is the result of `a..b`.
type RangeType struct{}

// RangeT is the canonical RangeType instance.
var RangeT Type = RangeType{}

// CanBeAssignedTo implements Type.
func (RangeType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	_, ok := other.(RangeType)
	return ok
}

func (RangeType) String() string { return "range" }

// ============================================================================
// NumberType
// ============================================================================

// NumberType is a scalar quantity, optionally carrying a compile-time
// constant value (only meaningful through an immutable binding).
type NumberType struct {
	Unit  UnitSet
	Const *NumberConstant
}

// NewNumberType constructs a Number type with no carried constant.
func NewNumberType(unit UnitSet) NumberType {
	return NumberType{Unit: unit}
}

// NewNumberConst constructs a Number type carrying a compile-time constant.
func NewNumberConst(unit UnitSet, c NumberConstant) NumberType {
	return NumberType{Unit: unit, Const: &c}
}

// CanBeAssignedTo implements Type: Number(u1,_) assignable to Number(u2,_)
// iff u1 == u2; the carried constant never affects assignability.
func (n NumberType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(NumberType)
	return ok && n.Unit.Equal(o.Unit)
}

func (n NumberType) String() string {
	if n.Unit.IsEmpty() {
		return "num"
	}
	return fmt.Sprintf("num[%s]", n.Unit.String())
}

// ============================================================================
// SymType
// ============================================================================

// SymType is a symbolic scalar: the result of a `syms`-declared symbol, or
// any arithmetic that mixes a number with a symbol.
type SymType struct {
	Unit UnitSet
}

// CanBeAssignedTo implements Type. Two symbolic types are mutually
// assignable regardless of unit; symbolic values cannot be range-checked
// statically, so their dimensions are tracked but not enforced here.
func (s SymType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	_, ok := other.(SymType)
	return ok
}

func (s SymType) String() string {
	if s.Unit.IsEmpty() {
		return "sym"
	}
	return fmt.Sprintf("sym[%s]", s.Unit.String())
}

// ============================================================================
// MatrixType
// ============================================================================

// MatrixType is a fixed-shape matrix. Unit is nil at declaration sites that
// are unit-polymorphic (e.g. a bare `mat[3,3]` annotation).
type MatrixType struct {
	Rows, Cols uint
	Unit       *UnitSet
}

// CanBeAssignedTo implements Type: shapes must match exactly; a side with no
// declared unit (a bare `mat[r,c]` annotation) is unit-polymorphic, otherwise
// both units must match.
func (m MatrixType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(MatrixType)
	if !ok || m.Rows != o.Rows || m.Cols != o.Cols {
		return false
	}
	if m.Unit == nil || o.Unit == nil {
		return true
	}
	return m.Unit.Equal(*o.Unit)
}

func (m MatrixType) String() string {
	if m.Unit == nil {
		return fmt.Sprintf("mat[%d,%d]", m.Rows, m.Cols)
	}
	return fmt.Sprintf("mat[%d,%d,%s]", m.Rows, m.Cols, m.Unit.String())
}

// ============================================================================
// ListType
// ============================================================================

// ListType is a homogeneous list.
type ListType struct {
	Elem Type
}

// CanBeAssignedTo implements Type.
func (l ListType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(ListType)
	return ok && l.Elem.CanBeAssignedTo(o.Elem)
}

func (l ListType) String() string {
	return fmt.Sprintf("list[%s]", l.Elem.String())
}

// ============================================================================
// MapType
// ============================================================================

// MapType is a homogeneous map.
type MapType struct {
	Key, Value Type
}

// CanBeAssignedTo implements Type.
func (m MapType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(MapType)
	return ok && m.Key.CanBeAssignedTo(o.Key) && m.Value.CanBeAssignedTo(o.Value)
}

func (m MapType) String() string {
	return fmt.Sprintf("map[%s,%s]", m.Key.String(), m.Value.String())
}

// ============================================================================
// FunctionType
// ============================================================================

// Parameter describes one parameter of a FunctionType.
type Parameter struct {
	Name     string
	Type     Type
	Required bool
}

// FunctionType is the type of a lambda or struct-constructor value.
type FunctionType struct {
	Parameters []Parameter
	Return     Type
}

// CanBeAssignedTo implements Type: equal arity and pointwise assignability
// of parameters and return type.
func (f FunctionType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(FunctionType)
	if !ok || len(f.Parameters) != len(o.Parameters) {
		return false
	}
	for i := range f.Parameters {
		if !f.Parameters[i].Type.CanBeAssignedTo(o.Parameters[i].Type) {
			return false
		}
	}
	return f.Return.CanBeAssignedTo(o.Return)
}

func (f FunctionType) String() string {
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type.String())
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Return.String())
}

// ============================================================================
// StructType
// ============================================================================

// StructField describes one field of a StructType.
type StructField struct {
	Name     string
	Type     Type
	Required bool
}

// StructType is a user-defined structure. Assignability requires equal field
// order, names and types.
type StructType struct {
	Fields []StructField
}

// CanBeAssignedTo implements Type.
func (s StructType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(StructType)
	if !ok || len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i].Name != o.Fields[i].Name || !s.Fields[i].Type.CanBeAssignedTo(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (s StructType) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("struct{%s}", strings.Join(parts, ", "))
}

// ============================================================================
// TypeValueType
// ============================================================================

// TypeCtor is a built-in type constructor: a meta-function from type
// arguments to a concrete type, used for `list[T]`, `map[K,V]`, `mat[r,c,u]`
// and `num[u]`.
type TypeCtor func(args []Type) (Type, error)

// TypeValueType is a type-valued value usable in annotations and in
// generic-application expressions. Ctor, when present, makes the value
// callable as a constructor at the value level (e.g. a struct literal).
type TypeValueType struct {
	// At least one of Concrete or Ctor is non-nil; `num` carries both (its
	// bare form and its `num[unit]` constructor).
	Concrete Type
	Ctor     TypeCtor
	// Signature is present when this type value is also a callable
	// constructor (struct literals and `num`; list/map/mat are not directly
	// callable at the value level in SciScript, only indexable).
	Signature *FunctionType
}

// CanBeAssignedTo implements Type. Type-values are compared by equality of
// their wrapped concrete type when both sides carry one; constructor-only
// type values are never mutually assignable. Nothing in the language ever
// assigns a type expression to another type-annotated binding, so the
// conservative reading suffices.
func (t TypeValueType) CanBeAssignedTo(other Type) bool {
	if _, ok := other.(AnyType); ok {
		return true
	}
	o, ok := other.(TypeValueType)
	if !ok {
		return false
	}
	if t.Concrete != nil && o.Concrete != nil {
		return TypesEqual(t.Concrete, o.Concrete)
	}
	return false
}

func (t TypeValueType) String() string {
	if t.Concrete != nil {
		return fmt.Sprintf("type[%s]", t.Concrete.String())
	}
	return "type[ctor]"
}

// TypesEqual reports structural equality of two types; equality ignores any
// carried NumberConstant.
func TypesEqual(a, b Type) bool {
	return a.CanBeAssignedTo(b) && b.CanBeAssignedTo(a)
}
