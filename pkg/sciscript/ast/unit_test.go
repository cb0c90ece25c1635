package ast

import "testing"

func Test_Unit_Empty(t *testing.T) {
	u := EmptyUnitSet()
	if !u.IsEmpty() {
		t.Fatal("empty unit set reported non-empty")
	}
	if u.String() != "" {
		t.Fatalf("empty unit set rendered %q", u.String())
	}
}

func Test_Unit_AddSub(t *testing.T) {
	m := SingleUnit("m")
	s := SingleUnit("s")
	// m * m / s => m2 s-1
	got := m.Add(m).Sub(s)
	if got.String() != "m2 s-1" {
		t.Fatalf("got %q", got.String())
	}
}

func Test_Unit_Cancellation(t *testing.T) {
	m := SingleUnit("m")
	if !m.Sub(m).IsEmpty() {
		t.Fatal("m/m did not cancel to the empty unit set")
	}
	// canonical form: a cancelled unit set equals the empty one
	if !m.Sub(m).Equal(EmptyUnitSet()) {
		t.Fatal("cancelled unit set not equal to empty")
	}
}

func Test_Unit_Scale(t *testing.T) {
	m := SingleUnit("m")
	if m.Scale(3).String() != "m3" {
		t.Fatalf("got %q", m.Scale(3).String())
	}
	if !m.Scale(0).IsEmpty() {
		t.Fatal("scaling by zero must produce the dimensionless set")
	}
	if m.Scale(-1).String() != "m-1" {
		t.Fatalf("got %q", m.Scale(-1).String())
	}
}

func Test_Unit_Equal(t *testing.T) {
	a := SingleUnit("m").Add(SingleUnit("s"))
	b := SingleUnit("s").Add(SingleUnit("m"))
	if !a.Equal(b) {
		t.Fatal("unit set equality must be order independent")
	}
	if a.Equal(SingleUnit("m")) {
		t.Fatal("distinct unit sets compared equal")
	}
}
