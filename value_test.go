package ooroo

import (
	"math"
	"testing"
)

func TestValue_intComparisons(t *testing.T) {
	r, ok := IntValue(5).Compare(OpLt, IntValue(10))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if !r {
		t.Errorf("expected 5 < 10")
	}
}

func TestValue_intFloatCrossComparison(t *testing.T) {
	r, ok := IntValue(5).Compare(OpEq, FloatValue(5.0))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if !r {
		t.Errorf("expected 5 == 5.0")
	}
}

func TestValue_stringLexicographicOrdering(t *testing.T) {
	r, ok := StringValue("apple").Compare(OpLt, StringValue("banana"))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if !r {
		t.Errorf("expected \"apple\" < \"banana\"")
	}
}

func TestValue_boolEquality(t *testing.T) {
	r, ok := BoolValue(true).Compare(OpEq, BoolValue(true))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if !r {
		t.Errorf("expected true == true")
	}
}

func TestValue_typeMismatchReturnsNotOK(t *testing.T) {
	if _, ok := IntValue(1).Compare(OpEq, StringValue("1")); ok {
		t.Errorf("expected int vs string to be not comparable")
	}
}

func TestValue_boolVsIntIsNotOK(t *testing.T) {
	if _, ok := BoolValue(true).Compare(OpEq, IntValue(1)); ok {
		t.Errorf("expected bool vs int to be not comparable")
	}
}

func TestValue_nanIsUnordered(t *testing.T) {
	nan := FloatValue(math.NaN())
	eq, ok := nan.Compare(OpEq, FloatValue(1))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if eq {
		t.Errorf("expected NaN == 1 to be false")
	}

	ne, ok := nan.Compare(OpNe, FloatValue(1))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if !ne {
		t.Errorf("expected NaN != 1 to be true")
	}

	lt, ok := nan.Compare(OpLt, FloatValue(1))
	if !ok {
		t.Fatalf("expected comparable values")
	}
	if lt {
		t.Errorf("expected NaN < 1 to be false")
	}
}

func TestValue_stringDisplayIsQuoted(t *testing.T) {
	if got, want := StringValue("hello").String(), `"hello"`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestValue_intDisplay(t *testing.T) {
	if got, want := IntValue(42).String(), "42"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
