package lowering

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/typesystem"
)

// lowerBlock visits statements in order; the produced value is
// insignificant (spec.md §4.4 Block lowering).
func (g *Generator) lowerBlock(b *ast.Block) error {
	for _, stmt := range b.Statements {
		if err := g.lowerStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) lowerStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return g.lowerVarDecl(s)
	case *ast.Assignment:
		return g.lowerAssignment(s)
	case *ast.ArrayAssignment:
		return g.lowerArrayAssignment(s)
	case *ast.StructAssignment:
		return g.lowerStructAssignment(s)
	case *ast.Return:
		return g.lowerReturn(s)
	case *ast.If:
		return g.lowerIf(s)
	case *ast.For:
		return g.lowerFor(s)
	case *ast.Print:
		return g.lowerPrint(s)
	case *ast.ExpressionStatement:
		_, err := g.lowerExpr(s.Expr)
		return err
	default:
		panic("lowering: unhandled statement node")
	}
}

func (g *Generator) lowerVarDecl(decl *ast.VarDecl) error {
	switch {
	case decl.Type != nil && decl.Type.IsArray():
		return g.lowerArrayVarDecl(decl)
	case decl.Type != nil && decl.Type.IsStruct():
		return g.lowerStructVarDecl(decl)
	default:
		return g.lowerScalarVarDecl(decl)
	}
}

func (g *Generator) lowerScalarVarDecl(decl *ast.VarDecl) error {
	var initVal value.Value
	if decl.Init != nil {
		v, err := g.lowerExpr(decl.Init)
		if err != nil {
			return err
		}
		initVal = v
	}

	var declIR types.Type
	if decl.Type != nil {
		t, err := decl.Type.IRType(g.ts)
		if err != nil {
			return err
		}
		declIR = t
	} else {
		if initVal == nil {
			return &NoTypeForInferenceError{Name: decl.Name}
		}
		declIR = initVal.Type()
	}

	slot := g.block.NewAlloca(declIR)

	switch {
	case initVal != nil && decl.Type != nil:
		cast, err := g.ts.Cast(g.block, initVal, declIR)
		if err != nil {
			return err
		}
		g.block.NewStore(cast, slot)
	case initVal != nil:
		g.block.NewStore(initVal, slot)
	default:
		if c, ok := defaultConstant(decl.Type, declIR); ok {
			g.block.NewStore(c, slot)
		}
	}

	return g.bind(decl.Name, slot)
}

// defaultConstant returns the zero constant for int/float declared types,
// mirroring typesystem.DefaultValue (spec.md §4.1): bool and string have
// no defined default and are left uninitialized.
func defaultConstant(t typesystem.Type, ir types.Type) (value.Value, bool) {
	switch t.(type) {
	case typesystem.Int:
		return constant.NewInt(ir.(*types.IntType), 0), true
	case typesystem.Float:
		return constant.NewFloat(ir.(*types.FloatType), 0), true
	}
	return nil, false
}

// lowerArrayVarDecl implements the array "fake initial" double allocation
// (spec.md §9 design notes): the slot bound to the variable's name holds a
// pointer to the instance, here the decayed pointer-to-first-element that
// Array.IRType describes, not the raw [N x elem] storage.
func (g *Generator) lowerArrayVarDecl(decl *ast.VarDecl) error {
	arr := decl.Type.(typesystem.Array)
	elemIR, err := arr.Elem.IRType(g.ts)
	if err != nil {
		return err
	}

	var decayed value.Value
	if decl.Init != nil {
		v, err := g.lowerExpr(decl.Init)
		if err != nil {
			return err
		}
		decayed = v
	} else {
		n, err := g.constArraySize(decl.ArraySize)
		if err != nil {
			return err
		}
		arrType := types.NewArray(n, elemIR)
		storage := g.block.NewAlloca(arrType)
		decayed = g.block.NewGetElementPtr(arrType, storage, zero32(), zero32())
	}

	slot := g.block.NewAlloca(types.NewPointer(elemIR))
	g.block.NewStore(decayed, slot)
	return g.bind(decl.Name, slot)
}

func (g *Generator) lowerStructVarDecl(decl *ast.VarDecl) error {
	st := decl.Type.(typesystem.Struct)
	structT, err := g.ts.StructIRType(st.Name)
	if err != nil {
		return err
	}

	var structPtr value.Value
	if decl.Init != nil {
		v, err := g.lowerExpr(decl.Init)
		if err != nil {
			return err
		}
		structPtr = v
	} else {
		structPtr = g.block.NewAlloca(structT)
	}

	slot := g.block.NewAlloca(types.NewPointer(structT))
	g.block.NewStore(structPtr, slot)
	return g.bind(decl.Name, slot)
}

// constArraySize folds size to a compile-time element count. Dynamic
// (non-constant) array sizes are not supported by this llir/llvm-based
// backend, since a stack allocation needs a concrete [N x T] IR type; see
// DESIGN.md.
func (g *Generator) constArraySize(size ast.Expression) (uint64, error) {
	v, err := g.lowerExpr(size)
	if err != nil {
		return 0, err
	}
	ci, ok := v.(*constant.Int)
	if !ok {
		return 0, &ArraySizeError{}
	}
	return ci.X.Uint64(), nil
}

func (g *Generator) bind(name string, slot value.Value) error {
	if err := g.scopes.Current().Add(name, slot); err != nil {
		return translateScopeErr(err)
	}
	return nil
}

func zero32() value.Value {
	return constant.NewInt(types.I32, 0)
}

func (g *Generator) lowerAssignment(a *ast.Assignment) error {
	slot, ok := g.scopes.Current().Get(a.Variable)
	if !ok {
		return &UndefinedSymbolError{Name: a.Variable}
	}
	v, err := g.lowerExpr(a.Expr)
	if err != nil {
		return err
	}
	declIR := slot.Type().(*types.PointerType).ElemType
	cast, err := g.ts.Cast(g.block, v, declIR)
	if err != nil {
		return err
	}
	g.block.NewStore(cast, slot)
	return nil
}

func (g *Generator) lowerArrayAssignment(a *ast.ArrayAssignment) error {
	slot, ok := g.scopes.Current().Get(a.Variable)
	if !ok {
		return &UndefinedSymbolError{Name: a.Variable}
	}
	arrPtr, err := g.loadSlot(slot)
	if err != nil {
		return err
	}
	elemIR := arrPtr.Type().(*types.PointerType).ElemType

	idx, err := g.lowerExpr(a.Index)
	if err != nil {
		return err
	}
	v, err := g.lowerExpr(a.Expr)
	if err != nil {
		return err
	}

	elemPtr := g.block.NewGetElementPtr(elemIR, arrPtr, idx)
	g.block.NewStore(v, elemPtr)
	return nil
}

func (g *Generator) lowerStructAssignment(a *ast.StructAssignment) error {
	slot, ok := g.scopes.Current().Get(a.Variable)
	if !ok {
		return &UndefinedSymbolError{Name: a.Variable}
	}
	structPtr, err := g.loadSlot(slot)
	if err != nil {
		return err
	}
	structT := structPtr.Type().(*types.PointerType).ElemType.(*types.StructType)

	structName, err := g.ts.StructNameOf(structT)
	if err != nil {
		return err
	}
	idx, err := g.ts.MemberIndex(structName, a.Member)
	if err != nil {
		return err
	}

	v, err := g.lowerExpr(a.Expr)
	if err != nil {
		return err
	}

	fieldPtr := g.block.NewGetElementPtr(structT, structPtr, zero32(), constant.NewInt(types.I32, int64(idx)))
	g.block.NewStore(v, fieldPtr)
	return nil
}

// lowerReturn evaluates Expr through the ordinary expression path. An
// array/struct-typed identifier already resolves to the pointer-to-
// instance via a single slot load (loadSlot), so no extra dereference is
// needed here to satisfy spec.md §4.4's "load one level before returning".
func (g *Generator) lowerReturn(r *ast.Return) error {
	if r.Expr == nil {
		g.block.NewRet(nil)
		return nil
	}
	v, err := g.lowerExpr(r.Expr)
	if err != nil {
		return err
	}
	g.block.NewRet(v)
	return nil
}

func (g *Generator) lowerPrint(p *ast.Print) error {
	v, err := g.lowerExpr(p.Expr)
	if err != nil {
		return err
	}

	format, promote := printFormat(v.Type())
	fmtPtr := g.lowerStringConstant(format)

	callee := g.functionAlias["Print.format"]
	arg := v
	if promote {
		arg = g.block.NewFPExt(v, types.Double)
	}
	g.block.NewCall(callee, fmtPtr, arg)
	return nil
}

// printFormat chooses printf's format string from the evaluated value's IR
// type, not the AST's static type (spec.md §9 design notes / §5 of
// SPEC_FULL.md): integer -> %d, any floating type -> %g (with promotion to
// double for a 32-bit float argument), anything else (pointer) -> %s.
func printFormat(t types.Type) (format string, promoteToDouble bool) {
	switch tt := t.(type) {
	case *types.IntType:
		return "%d\n", false
	case *types.FloatType:
		return "%g\n", tt.Kind == types.FloatKindFloat
	default:
		return "%s\n", false
	}
}
