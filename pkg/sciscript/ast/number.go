package ast

import (
	"math"
	"strconv"
)

// NumberConstant is a compile-time numeric value carried inside a Number
// type. It is kept around so that matrix dimensions and unit exponents in
// power expressions can be resolved statically; it is stripped the moment a
// value flows into a mutable binding.
type NumberConstant struct {
	isFloat bool
	i       int64
	f       float64
}

// NewIntConstant constructs an integer-valued constant.
func NewIntConstant(i int64) NumberConstant {
	return NumberConstant{i: i}
}

// NewFloatConstant constructs a float-valued constant.
func NewFloatConstant(f float64) NumberConstant {
	return NumberConstant{isFloat: true, f: f}
}

// IsFloat determines whether this constant is the Float variant.
func (n NumberConstant) IsFloat() bool {
	return n.isFloat
}

// Int returns the underlying integer value; only meaningful when !IsFloat().
func (n NumberConstant) Int() int64 {
	return n.i
}

// Float returns the value as a float64, widening an integer if necessary.
func (n NumberConstant) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// String renders the constant the way the host language expects a numeric
// literal to read.
func (n NumberConstant) String() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

// Negate returns the sign-flipped constant, preserving its Integer/Float
// variant.
func (n NumberConstant) Negate() NumberConstant {
	if n.isFloat {
		return NewFloatConstant(-n.f)
	}
	return NewIntConstant(-n.i)
}

// Add implements constant folding for '+'. Integer op Integer stays integer;
// any Float operand widens the result to Float.
func (n NumberConstant) Add(o NumberConstant) NumberConstant {
	if !n.isFloat && !o.isFloat {
		return NewIntConstant(n.i + o.i)
	}
	return NewFloatConstant(n.Float() + o.Float())
}

// Sub implements constant folding for binary '-'.
func (n NumberConstant) Sub(o NumberConstant) NumberConstant {
	if !n.isFloat && !o.isFloat {
		return NewIntConstant(n.i - o.i)
	}
	return NewFloatConstant(n.Float() - o.Float())
}

// Mul implements constant folding for '*'.
func (n NumberConstant) Mul(o NumberConstant) NumberConstant {
	if !n.isFloat && !o.isFloat {
		return NewIntConstant(n.i * o.i)
	}
	return NewFloatConstant(n.Float() * o.Float())
}

// Div implements constant folding for '/'. Division of two integers always
// widens to Float, even when it divides evenly.
func (n NumberConstant) Div(o NumberConstant) NumberConstant {
	if !n.isFloat && !o.isFloat {
		return NewFloatConstant(float64(n.i) / float64(o.i))
	}
	return NewFloatConstant(n.Float() / o.Float())
}

// Mod implements constant folding for '%'.
func (n NumberConstant) Mod(o NumberConstant) NumberConstant {
	if !n.isFloat && !o.isFloat {
		return NewIntConstant(n.i % o.i)
	}
	return NewFloatConstant(math.Mod(n.Float(), o.Float()))
}

// Pow implements constant folding for '**'. Exponentiation always yields a
// Float, regardless of operand kinds.
func (n NumberConstant) Pow(o NumberConstant) NumberConstant {
	return NewFloatConstant(math.Pow(n.Float(), o.Float()))
}

// AsInt64 returns the constant as an int64 together with whether it is
// exactly representable as an integer (i.e. it is the Integer variant).
func (n NumberConstant) AsInt64() (int64, bool) {
	if n.isFloat {
		return 0, false
	}
	return n.i, true
}

// Equal reports whether two constants denote the same variant and value.
func (n NumberConstant) Equal(o NumberConstant) bool {
	if n.isFloat != o.isFloat {
		return false
	}
	if n.isFloat {
		return n.f == o.f
	}
	return n.i == o.i
}

