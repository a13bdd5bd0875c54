package runtime

import (
	"testing"

	"github.com/cwbudde/figscript/internal/ast"
)

func TestAddIntUnification(t *testing.T) {
	v, err := Add(Int(2), Int(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindInt || v.(Int) != Int(4) {
		t.Fatalf("want Int(4), got %v", v)
	}
}

func TestDivProducesDouble(t *testing.T) {
	v, err := Div(Int(2), Int(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindDouble || v.(Double) != Double(0.5) {
		t.Fatalf("want Double(0.5), got %v", v)
	}
}

func TestAddDoubleIntegerValuedStaysDouble(t *testing.T) {
	// 2.0 + 2 -> 4, but the variant is Double since an operand was
	// Double: the unification rule only collapses to Int when both
	// operands are Int.
	v, err := Add(Double(2.0), Int(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindDouble {
		t.Fatalf("want Double, got %s", v.Kind())
	}
	if v.(Double) != Double(4) {
		t.Fatalf("want 4, got %v", v)
	}
}

func TestIntOverflowPromotesToDouble(t *testing.T) {
	// Int(INT_MAX) + Int(1) -> Double, no silent wraparound.
	v, err := Add(Int(9223372036854775807), Int(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindDouble {
		t.Fatalf("want Double on overflow, got %s (%v)", v.Kind(), v)
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	if _, err := Div(Int(1), Int(0)); err == nil {
		t.Fatal("want division-by-zero error, got nil")
	}
}

func TestModuloByZeroFails(t *testing.T) {
	if _, err := Mod(Int(1), Int(0)); err == nil {
		t.Fatal("want modulo-by-zero error, got nil")
	}
}

func TestPowerZeroToZeroIsOne(t *testing.T) {
	v, err := Pow(Int(0), Int(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindInt || v.(Int) != Int(1) {
		t.Fatalf("want Int(1), got %v", v)
	}
}

func TestStringConcatenation(t *testing.T) {
	v, err := Add(String(""), String(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(String) != String("") {
		t.Fatalf("want empty string, got %v", v)
	}
}

func TestAddRejectsMixedStringNonString(t *testing.T) {
	if _, err := Add(String("x"), Int(1)); err == nil {
		t.Fatal("want error mixing String and Int in +, got nil")
	}
}

func TestCrossVariantEqualityIsFalse(t *testing.T) {
	// Int(3) != Double(3.0): equality never unifies across variants.
	if Eq(Int(3), Double(3.0)).(Bool) {
		t.Fatal("Int(3) should not equal Double(3.0)")
	}
	if !Neq(Int(3), Double(3.0)).(Bool) {
		t.Fatal("Int(3) should be != Double(3.0)")
	}
}

func TestSameVariantEquality(t *testing.T) {
	if !Eq(Int(3), Int(3)).(Bool) {
		t.Fatal("Int(3) should equal Int(3)")
	}
	if !Eq(Double(3.5), Double(3.5)).(Bool) {
		t.Fatal("Double(3.5) should equal Double(3.5)")
	}
}

func TestCompareStringsLexicographic(t *testing.T) {
	v, err := Compare(ast.OpLt, String("abc"), String("abd"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.(Bool) {
		t.Fatal("want \"abc\" < \"abd\"")
	}
}

func TestLogicalOperatorsRequireBool(t *testing.T) {
	if _, err := LogicalAnd(Int(1), Bool(true)); err == nil {
		t.Fatal("want error for && with non-Bool operand")
	}
}

func TestBitwiseRequiresInt(t *testing.T) {
	if _, err := BitAnd(Double(1), Int(1)); err == nil {
		t.Fatal("want error for & with non-Int operand")
	}
	v, err := BitAnd(Int(6), Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != Int(2) {
		t.Fatalf("want 6 & 3 == 2, got %v", v)
	}
}
