package lowering

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/typesystem"
)

// lowerIf implements spec.md §4.4's If / state machine: then/else/ifcont
// blocks are created up front in the current function (block order has no
// semantic effect in LLVM IR; only branch edges do), the condition
// branches into then/ifcont or then/else, each arm is lowered under its
// own scope, and an unterminated arm falls through to ifcont.
func (g *Generator) lowerIf(stmt *ast.If) error {
	cond, err := g.lowerExpr(stmt.Cond)
	if err != nil {
		return err
	}
	if !cond.Type().Equal(g.ts.BoolTy) {
		return typesystem.NewTypeError("if condition must be bool")
	}

	thenBlock := g.currentLLFunc.NewBlock("then")
	var elseBlock *ir.Block
	if stmt.Else != nil {
		elseBlock = g.currentLLFunc.NewBlock("else")
	}
	ifcont := g.currentLLFunc.NewBlock("ifcont")

	if elseBlock != nil {
		g.block.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		g.block.NewCondBr(cond, thenBlock, ifcont)
	}

	g.block = thenBlock
	g.scopes.Push()
	if err := g.lowerBlock(stmt.Then); err != nil {
		return err
	}
	if g.block.Term == nil {
		g.block.NewBr(ifcont)
	}
	g.scopes.Pop()

	if elseBlock != nil {
		g.block = elseBlock
		g.scopes.Push()
		if err := g.lowerBlock(stmt.Else); err != nil {
			return err
		}
		if g.block.Term == nil {
			g.block.NewBr(ifcont)
		}
		g.scopes.Pop()
	}

	g.block = ifcont
	return nil
}

// lowerFor implements spec.md §4.4's For: the induction variable is
// declared in the enclosing scope (not a fresh one — only the body gets
// its own scope), the condition is evaluated once for the pre-test and
// again at the bottom of forloop (the double-evaluation is a documented,
// retained quirk — spec.md §9 Open Questions), and forcont is left open
// for continuation.
func (g *Generator) lowerFor(stmt *ast.For) error {
	initVal, err := g.lowerExpr(stmt.Init)
	if err != nil {
		return err
	}
	slot := g.block.NewAlloca(initVal.Type())
	g.block.NewStore(initVal, slot)
	if err := g.bind(stmt.Var, slot); err != nil {
		return err
	}

	cond1, err := g.lowerExpr(stmt.Cond)
	if err != nil {
		return err
	}

	forloop := g.currentLLFunc.NewBlock("forloop")
	forcont := g.currentLLFunc.NewBlock("forcont")
	g.block.NewCondBr(cond1, forloop, forcont)

	g.block = forloop
	g.scopes.Push()
	if err := g.lowerBlock(stmt.Body); err != nil {
		return err
	}
	if g.block.Term == nil {
		cur, err := g.loadSlot(slot)
		if err != nil {
			return err
		}

		var incr value.Value
		if stmt.Incr != nil {
			v, err := g.lowerExpr(stmt.Incr)
			if err != nil {
				return err
			}
			incr = v
		} else {
			incr = defaultIncrement(cur.Type())
		}
		incr, err = g.ts.Cast(g.block, incr, cur.Type())
		if err != nil {
			return err
		}

		next, err := g.ts.EmitMath(g.block, cur.Type(), "+", cur, incr)
		if err != nil {
			return err
		}
		g.block.NewStore(next, slot)

		cond2, err := g.lowerExpr(stmt.Cond)
		if err != nil {
			return err
		}
		g.block.NewCondBr(cond2, forloop, forcont)
	}
	g.scopes.Pop()

	g.block = forcont
	return nil
}

func defaultIncrement(t types.Type) value.Value {
	if it, ok := t.(*types.IntType); ok {
		return constant.NewInt(it, 1)
	}
	return constant.NewFloat(t.(*types.FloatType), 1)
}
