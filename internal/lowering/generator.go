package lowering

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/scope"
	"github.com/funvibe/vfsc/internal/typesystem"
)

// Generator owns the IR module, the insertion point, the scope stack, the
// type system, and the identity of the function currently being lowered.
// It is created once per Generate call and is never reused across passes
// (spec.md §5: all state is exclusively owned for the duration of one
// lowering pass).
type Generator struct {
	module *ir.Module
	ts     *typesystem.TypeSys
	scopes scope.Stack

	functions     map[string]*ir.Func
	functionAlias map[string]*ir.Func

	currentFunc   *ast.Function
	currentLLFunc *ir.Func
	block         *ir.Block
}

// Generate lowers prog's structs, then its functions, into a fresh IR
// module named "main" (spec.md §6 Output).
func Generate(prog *ast.Program) (*ir.Module, error) {
	g := &Generator{
		module:        ir.NewModule(),
		ts:            typesystem.New(),
		functions:     make(map[string]*ir.Func),
		functionAlias: make(map[string]*ir.Func),
	}
	g.module.SourceFilename = "main"

	g.registerIntrinsics()

	for _, s := range prog.Structs {
		if err := g.lowerStruct(s); err != nil {
			return nil, err
		}
	}

	// Two passes over functions: the first declares every signature so
	// that a call to a function defined later in source order (or a
	// versioned sibling) resolves, matching the forward-declare-then-
	// define convention in other_examples/ea1011ca_dshills-alas's
	// GenerateModule.
	for _, f := range prog.Functions {
		if err := g.declareFunction(f); err != nil {
			return nil, err
		}
	}
	for _, f := range prog.Functions {
		if err := g.generateFunction(f); err != nil {
			return nil, err
		}
	}

	return g.module, nil
}

// registerIntrinsics pre-registers the Print.format -> printf alias
// (spec.md §4.4 step 1 / §6 Intrinsic bindings).
func (g *Generator) registerIntrinsics() {
	printf := g.module.NewFunc("printf", types.I32, ir.NewParam("", types.NewPointer(types.I8)))
	printf.Sig.Variadic = true
	g.functionAlias["Print.format"] = printf
}

func (g *Generator) lowerStruct(s *ast.Struct) error {
	memberNames := make([]string, len(s.Members))
	memberTypes := make([]types.Type, len(s.Members))
	for i, m := range s.Members {
		t, err := m.Type.IRType(g.ts)
		if err != nil {
			return err
		}
		memberNames[i] = m.Name
		memberTypes[i] = t
	}
	st := g.ts.RegisterStruct(s.Name, memberNames, memberTypes)
	g.module.TypeDefs = append(g.module.TypeDefs, st)
	return nil
}

func (g *Generator) declareFunction(f *ast.Function) error {
	retType, err := f.ReturnType.IRType(g.ts)
	if err != nil {
		return err
	}
	params := make([]*ir.Param, len(f.Parameters))
	for i, p := range f.Parameters {
		t, err := p.Type.IRType(g.ts)
		if err != nil {
			return err
		}
		params[i] = ir.NewParam(p.Name, t)
	}
	llFunc := g.module.NewFunc(f.VirtualName(), retType, params...)
	g.functions[f.VirtualName()] = llFunc
	return nil
}

// generateFunction lowers f's body into the signature declareFunction
// already created. An entry block is made current, a scope is pushed,
// every parameter is given a stack slot, the body is lowered, and an
// implicit "ret void" closes any block left without a terminator
// (spec.md §4.4 Function lowering).
func (g *Generator) generateFunction(f *ast.Function) error {
	llFunc := g.functions[f.VirtualName()]

	g.currentFunc = f
	g.currentLLFunc = llFunc

	entry := llFunc.NewBlock("entry")
	g.block = entry

	g.scopes.Push()
	for i, p := range f.Parameters {
		t, err := p.Type.IRType(g.ts)
		if err != nil {
			return err
		}
		slot := entry.NewAlloca(t)
		entry.NewStore(llFunc.Params[i], slot)
		if err := g.scopes.Current().Add(p.Name, slot); err != nil {
			return translateScopeErr(err)
		}
	}

	if err := g.lowerBlock(f.Body); err != nil {
		return err
	}

	if g.block.Term == nil {
		g.block.NewRet(nil)
	}

	g.scopes.Pop()
	return nil
}

func translateScopeErr(err error) error {
	if re, ok := err.(*scope.RedeclaredError); ok {
		return &RedeclaredError{Name: re.Name}
	}
	return err
}
