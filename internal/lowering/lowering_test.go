package lowering

import (
	"strings"
	"testing"

	"github.com/funvibe/vfsc/internal/parser"
)

func generateIR(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	module, err := Generate(prog)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return module.String()
}

func TestTrivialMain(t *testing.T) {
	ir := generateIR(t, `
func Main() {
    return 0;
}
`)
	if !strings.Contains(ir, "define i32 @main()") {
		t.Errorf("expected a defined @main returning i32, got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret i32 0") {
		t.Errorf("expected 'ret i32 0', got:\n%s", ir)
	}
}

func TestArithmeticWithCoercion(t *testing.T) {
	ir := generateIR(t, `
func Main() {
    let x: float = 1 + 2.0;
    print x;
}
`)
	if !strings.Contains(ir, "fadd") {
		t.Errorf("expected an fadd instruction after coercing 1 to float, got:\n%s", ir)
	}
	if !strings.Contains(ir, "sitofp") {
		t.Errorf("expected a sitofp cast of the integer literal, got:\n%s", ir)
	}
	if !strings.Contains(ir, "fpext") {
		t.Errorf("expected the printed float to be fpext'd to double, got:\n%s", ir)
	}
	if !strings.Contains(ir, "%g") {
		t.Errorf("expected the %%g format string for a float print, got:\n%s", ir)
	}
}

func TestVersionedDispatch(t *testing.T) {
	ir := generateIR(t, `
func greet() {
    ::spanish();
    return;
}
func greet.spanish() {
    print 1;
    return;
}
`)
	if !strings.Contains(ir, "define void @greet()") {
		t.Errorf("expected @greet, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define void @greet.spanish()") {
		t.Errorf("expected @greet.spanish, got:\n%s", ir)
	}
	if !strings.Contains(ir, "call void @greet.spanish()") {
		t.Errorf("expected greet's body to call @greet.spanish, got:\n%s", ir)
	}
}

func TestIfElseNestedScope(t *testing.T) {
	ir := generateIR(t, `
func Main() {
    let x: int = 0;
    if (x == 0) {
        let x: int = 1;
    } else {
        let x: int = 2;
    }
    return x;
}
`)
	for _, label := range []string{"then:", "else:", "ifcont:"} {
		if !strings.Contains(ir, label) {
			t.Errorf("expected a %q block, got:\n%s", label, ir)
		}
	}
}

func TestForLoopSum(t *testing.T) {
	ir := generateIR(t, `
func Main() {
    let s: int = 0;
    for i = 0; i < 3; i = i + 1 {
        s = s + i;
    }
    return s;
}
`)
	for _, label := range []string{"forloop:", "forcont:"} {
		if !strings.Contains(ir, label) {
			t.Errorf("expected a %q block, got:\n%s", label, ir)
		}
	}
	// The pre-test and the back-edge are both conditional branches to
	// forloop/forcont.
	if strings.Count(ir, "label %forloop, label %forcont") < 2 {
		t.Errorf("expected a back-edge branch to forloop, got:\n%s", ir)
	}
}

func TestStructMember(t *testing.T) {
	ir := generateIR(t, `
struct Pt {
    x: int,
    y: int
}
func Main() {
    let p: Pt;
    p.x = 7;
    return p.x;
}
`)
	if !strings.Contains(ir, "%Pt = type { i32, i32 }") {
		t.Errorf("expected the Pt struct type to be registered, got:\n%s", ir)
	}
	if !strings.Contains(ir, "getelementptr") {
		t.Errorf("expected a getelementptr for the member access, got:\n%s", ir)
	}
}

func TestBoolOperandRejected(t *testing.T) {
	prog, err := parser.Parse(`
func Main() {
    let b: bool = true;
    let x: int = b + 1;
    return x;
}
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Generate(prog); err == nil {
		t.Fatal("expected a TypeError lowering a bool operand in arithmetic")
	}
}

func TestUndefinedSymbol(t *testing.T) {
	prog, err := parser.Parse(`
func Main() {
    return y;
}
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Generate(prog)
	if _, ok := err.(*UndefinedSymbolError); !ok {
		t.Fatalf("expected *UndefinedSymbolError, got %v (%T)", err, err)
	}
}

func TestEmptyFunctionBodyGetsImplicitRetVoid(t *testing.T) {
	ir := generateIR(t, `
func noop() {
}
`)
	if !strings.Contains(ir, "define void @noop()") {
		t.Errorf("expected void @noop, got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret void") {
		t.Errorf("expected an implicit 'ret void', got:\n%s", ir)
	}
}

func TestForLoopFalseConditionNeverEntersBody(t *testing.T) {
	ir := generateIR(t, `
func Main() {
    let s: int = 0;
    for i = 0; i < 0; i = i + 1 {
        s = s + 1;
    }
    return s;
}
`)
	if !strings.Contains(ir, "alloca i32") {
		t.Errorf("induction variable i should still be allocated even though the loop never runs, got:\n%s", ir)
	}
}
