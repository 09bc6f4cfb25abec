package lowering

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/typesystem"
)

func (g *Generator) lowerExpr(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return constant.NewInt(types.I32, int64(e.Value)), nil
	case *ast.FloatLiteral:
		return constant.NewFloat(types.Float, float64(e.Value)), nil
	case *ast.BoolLiteral:
		return constant.NewInt(types.I1, boolToInt(e.Value)), nil
	case *ast.StringLiteral:
		return g.lowerStringConstant(e.Value), nil
	case *ast.Identifier:
		return g.lowerIdentifier(e)
	case *ast.BinaryOp:
		return g.lowerBinaryOp(e)
	case *ast.FunctionCall:
		return g.lowerFunctionCall(e.VirtualName(), e.Args)
	case *ast.VersionInv:
		return g.lowerFunctionCall(e.VirtualName(g.currentFunc.Name), e.Args)
	case *ast.ArrayLiteral:
		return g.lowerArrayLiteral(e)
	case *ast.ArrayIndex:
		return g.lowerArrayIndex(e)
	case *ast.StructMember:
		return g.lowerStructMember(e)
	default:
		panic("lowering: unhandled expression node")
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// loadSlot loads the value held at slot, whose IR type is always some
// pointer type. For scalar variables this yields the scalar value; for
// array/struct variables (whose slot holds a pointer to the instance, not
// the instance itself — spec.md §9 design notes) this yields that pointer
// directly, with no further dereference.
func (g *Generator) loadSlot(slot value.Value) (value.Value, error) {
	ptrType, ok := slot.Type().(*types.PointerType)
	if !ok {
		panic("lowering: storage slot is not a pointer type")
	}
	return g.block.NewLoad(ptrType.ElemType, slot), nil
}

func (g *Generator) lowerIdentifier(id *ast.Identifier) (value.Value, error) {
	slot, ok := g.scopes.Current().Get(id.Name)
	if !ok {
		return nil, &UndefinedSymbolError{Name: id.Name}
	}
	return g.loadSlot(slot)
}

// lowerStringConstant emits a private ".str" global containing s plus a
// trailing NUL and yields a pointer to its first byte (spec.md §4.4
// String).
func (g *Generator) lowerStringConstant(s string) value.Value {
	data := constant.NewCharArrayFromString(s + "\x00")
	global := g.module.NewGlobalDef(".str", data)
	global.Linkage = enum.LinkagePrivate
	global.Immutable = true
	return g.block.NewGetElementPtr(data.Type(), global, zero32(), zero32())
}

func (g *Generator) lowerArrayIndex(idx *ast.ArrayIndex) (value.Value, error) {
	slot, ok := g.scopes.Current().Get(idx.Name)
	if !ok {
		return nil, &UndefinedSymbolError{Name: idx.Name}
	}
	arrPtr, err := g.loadSlot(slot)
	if err != nil {
		return nil, err
	}
	elemIR := arrPtr.Type().(*types.PointerType).ElemType

	index, err := g.lowerExpr(idx.Index)
	if err != nil {
		return nil, err
	}

	elemPtr := g.block.NewGetElementPtr(elemIR, arrPtr, index)
	return g.block.NewLoad(elemIR, elemPtr), nil
}

func (g *Generator) lowerStructMember(m *ast.StructMember) (value.Value, error) {
	slot, ok := g.scopes.Current().Get(m.Variable)
	if !ok {
		return nil, &UndefinedSymbolError{Name: m.Variable}
	}
	structPtr, err := g.loadSlot(slot)
	if err != nil {
		return nil, err
	}
	structT := structPtr.Type().(*types.PointerType).ElemType.(*types.StructType)

	structName, err := g.ts.StructNameOf(structT)
	if err != nil {
		return nil, err
	}
	idx, err := g.ts.MemberIndex(structName, m.Member)
	if err != nil {
		return nil, err
	}

	fieldPtr := g.block.NewGetElementPtr(structT, structPtr, zero32(), constant.NewInt(types.I32, int64(idx)))
	return g.block.NewLoad(structT.Fields[idx], fieldPtr), nil
}

// lowerArrayLiteral allocates storage sized by the element count, lowers
// every element expression, and stores each at its index (spec.md §4.4
// Array). The first element's IR type drives the whole literal's element
// type; a later element that the coercion table cannot relate to it fails
// NoConversion (spec.md §9 Open Questions).
func (g *Generator) lowerArrayLiteral(lit *ast.ArrayLiteral) (value.Value, error) {
	values := make([]value.Value, len(lit.Elements))
	for i, el := range lit.Elements {
		v, err := g.lowerExpr(el)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	elemIR := values[0].Type()
	arrType := types.NewArray(uint64(len(values)), elemIR)
	storage := g.block.NewAlloca(arrType)

	for i, v := range values {
		if !v.Type().Equal(elemIR) {
			if _, err := g.ts.Coerce(elemIR, v.Type()); err != nil {
				return nil, err
			}
			cast, err := g.ts.Cast(g.block, v, elemIR)
			if err != nil {
				return nil, err
			}
			v = cast
		}
		idx := constant.NewInt(types.I32, int64(i))
		elemPtr := g.block.NewGetElementPtr(arrType, storage, zero32(), idx)
		g.block.NewStore(v, elemPtr)
	}

	return g.block.NewGetElementPtr(arrType, storage, zero32(), zero32()), nil
}

// lowerBinaryOp coerces both operands to a common type, then emits either
// an arithmetic instruction or a comparison, per spec.md §4.4 BinaryOp.
// Boolean operands are rejected outright: spec.md §9 Open Questions
// decides that relying on bool in an arithmetic/comparison context
// surfaces a TypeError rather than emitting undefined IR.
func (g *Generator) lowerBinaryOp(b *ast.BinaryOp) (value.Value, error) {
	l, err := g.lowerExpr(b.Left)
	if err != nil {
		return nil, err
	}
	r, err := g.lowerExpr(b.Right)
	if err != nil {
		return nil, err
	}

	if l.Type().Equal(g.ts.BoolTy) || r.Type().Equal(g.ts.BoolTy) {
		return nil, typesystem.NewTypeError("boolean operand is not valid in arithmetic or comparison")
	}

	t, err := g.ts.Coerce(l.Type(), r.Type())
	if err != nil {
		return nil, err
	}
	lc, err := g.ts.Cast(g.block, l, t)
	if err != nil {
		return nil, err
	}
	rc, err := g.ts.Cast(g.block, r, t)
	if err != nil {
		return nil, err
	}

	if isComparison(b.Op) {
		return g.ts.EmitCmp(g.block, t, b.Op, lc, rc)
	}
	return g.ts.EmitMath(g.block, t, b.Op, lc, rc)
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// lowerFunctionCall resolves virtualName against the module's functions,
// then the intrinsic alias table, evaluates every argument, promotes a
// 32-bit float argument to double when the callee is variadic (the C
// variadic promotion rule), and emits the call (spec.md §4.4 FunctionCall
// / VersionInv).
func (g *Generator) lowerFunctionCall(virtualName string, argExprs []ast.Expression) (value.Value, error) {
	callee, ok := g.functions[virtualName]
	if !ok {
		callee, ok = g.functionAlias[virtualName]
	}
	if !ok {
		return nil, &FunctionNotDefinedError{VirtualName: virtualName}
	}

	args := make([]value.Value, len(argExprs))
	for i, ae := range argExprs {
		v, err := g.lowerExpr(ae)
		if err != nil {
			return nil, err
		}
		if callee.Sig.Variadic && v.Type().Equal(g.ts.FloatTy) {
			v = g.block.NewFPExt(v, types.Double)
		}
		args[i] = v
	}

	return g.block.NewCall(callee, args...), nil
}
