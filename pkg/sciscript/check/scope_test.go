package check

import (
	"testing"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
)

func Test_Scope_DeclareLookup(t *testing.T) {
	s := NewScope()
	id := s.Declare("x", ast.Bool, false)
	b, ok := s.Lookup("x")
	if !ok || b.id != id || b.constant {
		t.Fatalf("lookup = %#v", b)
	}
	if _, ok := s.Lookup("y"); ok {
		t.Fatal("phantom binding")
	}
}

func Test_Scope_Shadowing(t *testing.T) {
	s := NewScope()
	outer := s.Declare("x", ast.Bool, false)
	s.Push()
	inner := s.Declare("x", ast.Void, true)
	if b, _ := s.Lookup("x"); b.id != inner {
		t.Fatal("inner binding does not shadow the outer one")
	}
	s.Pop()
	if b, _ := s.Lookup("x"); b.id != outer {
		t.Fatal("outer binding not restored after pop")
	}
}

func Test_Scope_PopReturnsDeclared(t *testing.T) {
	s := NewScope()
	s.Push()
	a := s.Declare("a", ast.Bool, false)
	b := s.Declare("b", ast.Bool, false)
	declared := s.Pop()
	if !declared.Contains(a) || !declared.Contains(b) || declared.Len() != 2 {
		t.Fatalf("declared = %v", declared.ToSlice())
	}
}

func Test_Scope_FreshIDsAreUnique(t *testing.T) {
	s := NewScope()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.Declare("x", ast.Bool, false)
		if seen[id] {
			t.Fatalf("duplicate stable_id %s", id)
		}
		seen[id] = true
	}
}

func Test_Scope_MutableNumberLosesConstant(t *testing.T) {
	s := NewScope()
	typ := ast.NewNumberConst(ast.EmptyUnitSet(), ast.NewIntConstant(5))

	s.Declare("mutable", typ, false)
	b, _ := s.Lookup("mutable")
	if b.typ.(ast.NumberType).Const != nil {
		t.Fatal("mutable binding kept its compile-time constant")
	}

	s.Declare("immutable", typ, true)
	b, _ = s.Lookup("immutable")
	if b.typ.(ast.NumberType).Const == nil {
		t.Fatal("immutable binding lost its compile-time constant")
	}
}
