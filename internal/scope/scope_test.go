package scope

import (
	"errors"
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func TestStackPushPopScoping(t *testing.T) {
	var s Stack
	s.Push()

	outer := constant.NewInt(types.I32, 1)
	if err := s.Current().Add("x", outer); err != nil {
		t.Fatalf("Add(x) in outer scope: %v", err)
	}

	s.Push()
	inner := constant.NewInt(types.I32, 2)
	if err := s.Current().Add("y", inner); err != nil {
		t.Fatalf("Add(y) in inner scope: %v", err)
	}

	if got, ok := s.Current().Get("x"); !ok || got != outer {
		t.Errorf("inner scope should see outer binding x, got %v, %v", got, ok)
	}
	if got, ok := s.Current().Get("y"); !ok || got != inner {
		t.Errorf("Get(y) = %v, %v, want inner, true", got, ok)
	}

	s.Pop()
	if _, ok := s.Current().Get("y"); ok {
		t.Errorf("y should not be visible after popping its scope")
	}
	if got, ok := s.Current().Get("x"); !ok || got != outer {
		t.Errorf("x should still be visible after popping the inner scope")
	}
}

func TestScopeShadowing(t *testing.T) {
	var s Stack
	s.Push()
	outer := constant.NewInt(types.I32, 1)
	if err := s.Current().Add("x", outer); err != nil {
		t.Fatalf("Add(x): %v", err)
	}

	s.Push()
	inner := constant.NewInt(types.I32, 2)
	if err := s.Current().Add("x", inner); err != nil {
		t.Fatalf("shadowing an outer binding should be allowed: %v", err)
	}
	if got, _ := s.Current().Get("x"); got != inner {
		t.Errorf("shadowed lookup should resolve to the inner binding")
	}
}

func TestScopeRedeclared(t *testing.T) {
	var s Stack
	s.Push()
	v := constant.NewInt(types.I32, 1)
	if err := s.Current().Add("x", v); err != nil {
		t.Fatalf("first Add(x): %v", err)
	}
	err := s.Current().Add("x", v)
	var redeclared *RedeclaredError
	if !errors.As(err, &redeclared) {
		t.Fatalf("second Add(x) at the same scope level should fail with *RedeclaredError, got %v", err)
	}
}
