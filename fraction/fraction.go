// Package fraction implements exact rational arithmetic for durations
// and beat offsets.
package fraction

import (
	"fmt"
)

// Fraction is an immutable rational number. The zero value is 0/1.
//
// Arithmetic does not depend on normalized form; results are reduced only
// to keep numerators and denominators small over long pieces.
type Fraction struct {
	Num int
	Den int
}

// New returns num/den. den must be positive.
func New(num, den int) Fraction {
	return Fraction{Num: num, Den: den}
}

// Whole returns n/1.
func Whole(n int) Fraction {
	return Fraction{Num: n, Den: 1}
}

func (f Fraction) den() int {
	if f.Den == 0 {
		return 1
	}
	return f.Den
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Simplify reduces f to lowest terms with a positive denominator.
func (f Fraction) Simplify() Fraction {
	num, den := f.Num, f.den()
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	g := gcd(num, den)
	return Fraction{Num: num / g, Den: den / g}
}

func (f Fraction) Add(o Fraction) Fraction {
	return Fraction{
		Num: f.Num*o.den() + o.Num*f.den(),
		Den: f.den() * o.den(),
	}.Simplify()
}

func (f Fraction) Subtract(o Fraction) Fraction {
	return Fraction{
		Num: f.Num*o.den() - o.Num*f.den(),
		Den: f.den() * o.den(),
	}.Simplify()
}

func (f Fraction) Multiply(o Fraction) Fraction {
	return Fraction{
		Num: f.Num * o.Num,
		Den: f.den() * o.den(),
	}.Simplify()
}

// IsEqual compares by cross-multiplication, so 1/2 equals 2/4.
func (f Fraction) IsEqual(o Fraction) bool {
	return f.Num*o.den() == o.Num*f.den()
}

// IsEquivalent reports whether f and o are displayed the same way. It is
// used when comparing signature values and agrees with IsEqual.
func (f Fraction) IsEquivalent(o Fraction) bool {
	return f.IsEqual(o)
}

// Compare returns -1, 0 or 1. Denominators are positive.
func (f Fraction) Compare(o Fraction) int {
	l := f.Num * o.den()
	r := o.Num * f.den()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (f Fraction) IsLessThan(o Fraction) bool {
	return f.Compare(o) < 0
}

func (f Fraction) IsGreaterThan(o Fraction) bool {
	return f.Compare(o) > 0
}

func (f Fraction) IsZero() bool {
	return f.Num == 0
}

func (f Fraction) ToDecimal() float64 {
	return float64(f.Num) / float64(f.den())
}

func (f Fraction) String() string {
	s := f.Simplify()
	if s.Den == 1 {
		return fmt.Sprintf("%d", s.Num)
	}
	return fmt.Sprintf("%d/%d", s.Num, s.Den)
}
