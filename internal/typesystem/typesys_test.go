package typesystem

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func newBlock() *ir.Block {
	f := ir.NewModule().NewFunc("f", types.Void)
	return f.NewBlock("entry")
}

func TestCoerce(t *testing.T) {
	ts := New()

	got, err := ts.Coerce(ts.IntTy, ts.FloatTy)
	if err != nil {
		t.Fatalf("Coerce(int, float) error: %v", err)
	}
	if !got.Equal(ts.FloatTy) {
		t.Errorf("Coerce(int, float) = %s, want float", got)
	}

	got, err = ts.Coerce(ts.FloatTy, ts.IntTy)
	if err != nil {
		t.Fatalf("Coerce(float, int) error: %v", err)
	}
	if !got.Equal(ts.FloatTy) {
		t.Errorf("Coerce(float, int) = %s, want float", got)
	}

	if _, err := ts.Coerce(ts.IntTy, ts.DoubleTy); err == nil {
		t.Errorf("Coerce(int, double) should fail: no table entry")
	}

	if got, err := ts.Coerce(ts.BoolTy, ts.BoolTy); err != nil || !got.Equal(ts.BoolTy) {
		t.Errorf("Coerce(bool, bool) should succeed via identity, got %v, %v", got, err)
	}
}

func TestCastRoundTrip(t *testing.T) {
	ts := New()
	block := newBlock()

	v := constant.NewInt(ts.IntTy.(*types.IntType), 5)
	same, err := ts.Cast(block, v, ts.IntTy)
	if err != nil {
		t.Fatalf("Cast to own type: %v", err)
	}
	if same != v {
		t.Errorf("Cast(v, v.ty) should return v unchanged")
	}

	fp, err := ts.Cast(block, v, ts.FloatTy)
	if err != nil {
		t.Fatalf("Cast(int, float): %v", err)
	}
	if !fp.Type().Equal(ts.FloatTy) {
		t.Errorf("Cast(int, float) result type = %s, want float", fp.Type())
	}

	if _, err := ts.Cast(block, v, ts.BoolTy); err == nil {
		t.Errorf("Cast(int, bool) should fail: no cast table entry")
	}
}

func TestEmitMathAndCmp(t *testing.T) {
	ts := New()
	block := newBlock()

	l := constant.NewInt(ts.IntTy.(*types.IntType), 3)
	r := constant.NewInt(ts.IntTy.(*types.IntType), 4)

	sum, err := ts.EmitMath(block, ts.IntTy, "+", l, r)
	if err != nil {
		t.Fatalf("EmitMath +: %v", err)
	}
	if !sum.Type().Equal(ts.IntTy) {
		t.Errorf("EmitMath + result type = %s, want int", sum.Type())
	}

	if _, err := ts.EmitMath(block, ts.IntTy, "^", l, r); err == nil {
		t.Errorf("EmitMath with unknown op should fail")
	}

	cmp, err := ts.EmitCmp(block, ts.IntTy, "<", l, r)
	if err != nil {
		t.Fatalf("EmitCmp <: %v", err)
	}
	if !cmp.Type().Equal(ts.BoolTy) {
		t.Errorf("EmitCmp result type = %s, want bool", cmp.Type())
	}
}

func TestStructRegistry(t *testing.T) {
	ts := New()
	st := ts.RegisterStruct("Point", []string{"x", "y"}, []types.Type{ts.IntTy, ts.IntTy})

	got, err := ts.StructIRType("Point")
	if err != nil || got != st {
		t.Fatalf("StructIRType(Point) = %v, %v, want %v, nil", got, err, st)
	}

	idx, err := ts.MemberIndex("Point", "y")
	if err != nil || idx != 1 {
		t.Errorf("MemberIndex(Point, y) = %d, %v, want 1, nil", idx, err)
	}

	if _, err := ts.MemberIndex("Point", "z"); err == nil {
		t.Errorf("MemberIndex(Point, z) should fail: no such member")
	}

	name, err := ts.StructNameOf(st)
	if err != nil || name != "Point" {
		t.Errorf("StructNameOf(st) = %q, %v, want Point, nil", name, err)
	}
}

func TestDefaultValue(t *testing.T) {
	if i, _, ok := DefaultValue(Int{}); !ok || i != 0 {
		t.Errorf("DefaultValue(Int{}) = %d, %v, want 0, true", i, ok)
	}
	if _, f, ok := DefaultValue(Float{}); !ok || f != 0 {
		t.Errorf("DefaultValue(Float{}) = %v, %v, want 0, true", f, ok)
	}
	if _, _, ok := DefaultValue(Bool{}); ok {
		t.Errorf("DefaultValue(Bool{}) should report no default")
	}
}
