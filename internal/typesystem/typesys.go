package typesystem

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ArithOp identifies which IR arithmetic instruction a math_op table entry
// emits. It stands in for llvm::Instruction::BinaryOps in the original
// C++: the table stores this enum, and a single emit switch (below)
// applies it, rather than one table entry per llir builder method.
type ArithOp int

const (
	OpIAdd ArithOp = iota
	OpISub
	OpIMul
	OpSDiv
	OpSRem
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
)

// CastOp identifies which IR conversion instruction a cast table entry
// emits (stands in for llvm::CastInst::CastOps).
type CastOp int

const (
	CastSIToFP CastOp = iota
	CastFPExt
	CastFPToSI
)

type coerceKey struct{ l, r string }
type castKey struct{ from, to string }
type mathKey struct {
	t  string
	op string
}

// TypeSys owns the coercion table, the cast table, the arithmetic-opcode
// table, comparison-predicate selection, and the struct layout registry.
// It is created once per lowering pass and is exclusively owned by the
// Generator for that pass's duration (spec.md §5).
type TypeSys struct {
	IntTy    types.Type
	FloatTy  types.Type
	DoubleTy types.Type
	BoolTy   types.Type

	coerceTab map[coerceKey]types.Type
	castTab   map[castKey]CastOp
	mathTab   map[mathKey]ArithOp

	structs     map[string]*types.StructType
	structOrder map[string][]string
}

// New builds a TypeSys pre-populated with the built-in coercion, cast, and
// arithmetic tables from spec.md §4.2 / the C++ original's TypeSys
// constructor.
func New() *TypeSys {
	ts := &TypeSys{
		IntTy:       types.I32,
		FloatTy:     types.Float,
		DoubleTy:    types.Double,
		BoolTy:      types.I1,
		coerceTab:   make(map[coerceKey]types.Type),
		castTab:     make(map[castKey]CastOp),
		mathTab:     make(map[mathKey]ArithOp),
		structs:     make(map[string]*types.StructType),
		structOrder: make(map[string][]string),
	}

	ts.addCoercion(ts.IntTy, ts.FloatTy, ts.FloatTy)

	ts.addCast(ts.IntTy, ts.FloatTy, CastSIToFP)
	ts.addCast(ts.IntTy, ts.DoubleTy, CastSIToFP)
	ts.addCast(ts.BoolTy, ts.DoubleTy, CastSIToFP)
	ts.addCast(ts.FloatTy, ts.DoubleTy, CastFPExt)
	ts.addCast(ts.FloatTy, ts.IntTy, CastFPToSI)
	ts.addCast(ts.DoubleTy, ts.IntTy, CastFPToSI)

	for _, t := range []types.Type{ts.IntTy, ts.FloatTy, ts.DoubleTy} {
		fp := t != ts.IntTy
		if fp {
			ts.addOp(t, "+", OpFAdd)
			ts.addOp(t, "-", OpFSub)
			ts.addOp(t, "*", OpFMul)
			ts.addOp(t, "/", OpFDiv)
			ts.addOp(t, "%", OpFRem)
		} else {
			ts.addOp(t, "+", OpIAdd)
			ts.addOp(t, "-", OpISub)
			ts.addOp(t, "*", OpIMul)
			ts.addOp(t, "/", OpSDiv)
			ts.addOp(t, "%", OpSRem)
		}
	}

	return ts
}

func (ts *TypeSys) addCoercion(l, r, result types.Type) {
	ts.coerceTab[coerceKey{l.String(), r.String()}] = result
}

func (ts *TypeSys) addCast(from, to types.Type, op CastOp) {
	ts.castTab[castKey{from.String(), to.String()}] = op
}

func (ts *TypeSys) addOp(t types.Type, op string, arith ArithOp) {
	ts.mathTab[mathKey{t.String(), op}] = arith
}

// Coerce returns the common type two operand types implicitly convert to.
// Identical types coerce to themselves with no table lookup. The table is
// consulted symmetrically: (l,r) and (r,l) are both tried.
func (ts *TypeSys) Coerce(l, r types.Type) (types.Type, error) {
	if l.Equal(r) {
		return l, nil
	}
	if t, ok := ts.coerceTab[coerceKey{l.String(), r.String()}]; ok {
		return t, nil
	}
	if t, ok := ts.coerceTab[coerceKey{r.String(), l.String()}]; ok {
		return t, nil
	}
	return nil, NewNoConversionError(l.String(), r.String())
}

// Cast converts v to target, emitting a conversion instruction into block
// when needed. If v is already of type target, v is returned unchanged
// (spec.md §8 round-trip property: cast(v, v.ty, block) == v).
func (ts *TypeSys) Cast(block *ir.Block, v value.Value, target types.Type) (value.Value, error) {
	if v.Type().Equal(target) {
		return v, nil
	}
	op, ok := ts.castTab[castKey{v.Type().String(), target.String()}]
	if !ok {
		return nil, NewUnknownCastError(v.Type().String(), target.String())
	}
	switch op {
	case CastSIToFP:
		return block.NewSIToFP(v, target), nil
	case CastFPExt:
		return block.NewFPExt(v, target), nil
	case CastFPToSI:
		return block.NewFPToSI(v, target), nil
	default:
		return nil, NewUnknownCastError(v.Type().String(), target.String())
	}
}

// MathOp looks up which arithmetic instruction to emit for op over operand
// type t (already coerced to a single common type).
func (ts *TypeSys) MathOp(t types.Type, op string) (ArithOp, error) {
	a, ok := ts.mathTab[mathKey{t.String(), op}]
	if !ok {
		return 0, NewUnknownBinaryOpError(op)
	}
	return a, nil
}

// EmitMath emits the instruction MathOp selects for (t, op) over l, r.
func (ts *TypeSys) EmitMath(block *ir.Block, t types.Type, op string, l, r value.Value) (value.Value, error) {
	a, err := ts.MathOp(t, op)
	if err != nil {
		return nil, err
	}
	switch a {
	case OpIAdd:
		return block.NewAdd(l, r), nil
	case OpISub:
		return block.NewSub(l, r), nil
	case OpIMul:
		return block.NewMul(l, r), nil
	case OpSDiv:
		return block.NewSDiv(l, r), nil
	case OpSRem:
		return block.NewSRem(l, r), nil
	case OpFAdd:
		return block.NewFAdd(l, r), nil
	case OpFSub:
		return block.NewFSub(l, r), nil
	case OpFMul:
		return block.NewFMul(l, r), nil
	case OpFDiv:
		return block.NewFDiv(l, r), nil
	case OpFRem:
		return block.NewFRem(l, r), nil
	default:
		return nil, NewUnknownBinaryOpError(op)
	}
}

// IsFP reports whether t is a floating-point type (i.e. not the 32-bit
// integer type). Bool is not a valid operand of arithmetic/comparison in
// this table and must be rejected by the caller before IsFP is consulted
// for that purpose (spec.md §9 Open Questions).
func (ts *TypeSys) IsFP(t types.Type) bool {
	return !t.Equal(ts.IntTy)
}

var intPredicates = map[string]enum.IPred{
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
	"<":  enum.IPredSLT,
	">":  enum.IPredSGT,
	"<=": enum.IPredSLE,
	">=": enum.IPredSGE,
}

var floatPredicates = map[string]enum.FPred{
	"==": enum.FPredOEQ,
	"!=": enum.FPredONE,
	"<":  enum.FPredOLT,
	">":  enum.FPredOGT,
	"<=": enum.FPredOLE,
	">=": enum.FPredOGE,
}

// EmitCmp emits the ordered floating comparison (when t is a floating
// type) or the signed integer comparison (otherwise) for op over l, r.
func (ts *TypeSys) EmitCmp(block *ir.Block, t types.Type, op string, l, r value.Value) (value.Value, error) {
	if ts.IsFP(t) {
		pred, ok := floatPredicates[op]
		if !ok {
			return nil, NewUnknownBinaryOpError(op)
		}
		return block.NewFCmp(pred, l, r), nil
	}
	pred, ok := intPredicates[op]
	if !ok {
		return nil, NewUnknownBinaryOpError(op)
	}
	return block.NewICmp(pred, l, r), nil
}

// RegisterStruct creates the named IR record type for name, with its
// member types filled in, and records its member order. Re-registering the same name replaces the
// previous definition (structs are lowered once, in source order, and
// never redeclared by a well-formed program).
func (ts *TypeSys) RegisterStruct(name string, memberNames []string, memberTypes []types.Type) *types.StructType {
	st := types.NewStruct(memberTypes...)
	st.TypeName = name
	ts.structs[name] = st
	order := make([]string, len(memberNames))
	copy(order, memberNames)
	ts.structOrder[name] = order
	return st
}

// StructIRType returns the registered IR record type for name.
func (ts *TypeSys) StructIRType(name string) (*types.StructType, error) {
	st, ok := ts.structs[name]
	if !ok {
		return nil, NewUnknownStructError(name)
	}
	return st, nil
}

// MemberIndex returns the field index of member within structName's
// registered member order.
func (ts *TypeSys) MemberIndex(structName, member string) (int, error) {
	order, ok := ts.structOrder[structName]
	if !ok {
		return 0, NewNotAStructError(structName)
	}
	for i, m := range order {
		if m == member {
			return i, nil
		}
	}
	return 0, NewUnknownMemberError(structName, member)
}

// StructNameOf returns the registered struct name for an IR struct type,
// by identity of the *types.StructType value. Mirrors the C++ original's
// Generator::visit(StructMember&), which re-derives the struct name from
// the loaded pointee's IR type rather than the AST's static annotation
// (see SPEC_FULL.md §5).
func (ts *TypeSys) StructNameOf(st *types.StructType) (string, error) {
	for name, registered := range ts.structs {
		if registered == st {
			return name, nil
		}
	}
	return "", NewNotAStructError(st.String())
}
