package typesystem

import (
	"github.com/llir/llvm/ir/types"
)

// Type is a surface-syntax type descriptor: int, float, bool, string, void,
// array-of-T, or struct-by-name. It knows how to map itself to the IR type
// the lowering visitor builds values of.
type Type interface {
	// IRType returns the IR type this surface type lowers to. Struct names
	// are resolved against ts, which must already have the struct
	// registered (see spec.md §3 invariant: a struct name resolves iff its
	// declaration has been lowered first).
	IRType(ts *TypeSys) (types.Type, error)
	IsArray() bool
	IsStruct() bool
	String() string
}

// Int is the 32-bit signed integer primitive.
type Int struct{}

func (Int) IRType(*TypeSys) (types.Type, error) { return types.I32, nil }
func (Int) IsArray() bool                       { return false }
func (Int) IsStruct() bool                      { return false }
func (Int) String() string                      { return "int" }

// Float is the 32-bit IEEE floating primitive.
type Float struct{}

func (Float) IRType(*TypeSys) (types.Type, error) { return types.Float, nil }
func (Float) IsArray() bool                       { return false }
func (Float) IsStruct() bool                      { return false }
func (Float) String() string                      { return "float" }

// Bool is the 1-bit boolean primitive.
type Bool struct{}

func (Bool) IRType(*TypeSys) (types.Type, error) { return types.I1, nil }
func (Bool) IsArray() bool                       { return false }
func (Bool) IsStruct() bool                      { return false }
func (Bool) String() string                      { return "bool" }

// String is a pointer-to-byte primitive.
type String struct{}

func (String) IRType(*TypeSys) (types.Type, error) { return types.NewPointer(types.I8), nil }
func (String) IsArray() bool                       { return false }
func (String) IsStruct() bool                      { return false }
func (String) String() string                      { return "string" }

// Void may appear only as a function return type.
type Void struct{}

func NewVoid() Type { return Void{} }

func (Void) IRType(*TypeSys) (types.Type, error) { return types.Void, nil }
func (Void) IsArray() bool                       { return false }
func (Void) IsStruct() bool                      { return false }
func (Void) String() string                      { return "void" }

// Array is a pointer to contiguous storage of Elem. The element-count
// expression lives on the ast.VarDecl that carries this annotation (not
// here) so that this package does not import ast. Elem must not itself be
// an array.
type Array struct {
	Elem Type
}

func (a Array) IRType(ts *TypeSys) (types.Type, error) {
	elem, err := a.Elem.IRType(ts)
	if err != nil {
		return nil, err
	}
	return types.NewPointer(elem), nil
}
func (Array) IsArray() bool  { return true }
func (Array) IsStruct() bool { return false }
func (a Array) String() string {
	return "[" + a.Elem.String() + "]"
}

// Struct is a pointer to a named record type registered in TypeSys.
type Struct struct {
	Name string
}

func (s Struct) IRType(ts *TypeSys) (types.Type, error) {
	st, err := ts.StructIRType(s.Name)
	if err != nil {
		return nil, err
	}
	return types.NewPointer(st), nil
}
func (Struct) IsArray() bool    { return false }
func (s Struct) IsStruct() bool { return true }
func (s Struct) String() string { return s.Name }

// DefaultValue is undefined for composite (array/struct) types; the
// lowering visitor never calls it on those.
func DefaultValue(t Type) (int64, float64, bool) {
	switch t.(type) {
	case Int:
		return 0, 0, true
	case Float:
		return 0, 0, true
	}
	return 0, 0, false
}
