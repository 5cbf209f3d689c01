package ooroo

import "strconv"

// ValueKind identifies which variant of Value is populated.
type ValueKind uint8

const (
	KindInt ValueKind = iota
	KindFloat
	KindBool
	KindString
)

// String returns the kind's name, used in error messages and diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the four scalar types a Context field
// or a rule literal may hold. It is a plain value type: comparing, copying,
// and passing it around never allocates or boxes.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
}

// IntValue builds a Value holding a 64-bit integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue builds a Value holding a 64-bit float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue builds a Value holding a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// StringValue builds a Value holding a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the underlying int64. Only meaningful when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the underlying float64. Only meaningful when Kind() == KindFloat.
func (v Value) Float() float64 { return v.f }

// Bool returns the underlying bool. Only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Str returns the underlying string. Only meaningful when Kind() == KindString.
func (v Value) Str() string { return v.s }

// String renders v the way it would appear in a diagnostic report. Strings
// are quoted; the other variants use their natural textual form.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// CompareOp names a comparison operator usable between two Values.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String renders the operator the way it appears in the DSL.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Compare applies op between v and other. The second return value is false
// when the two operands are not comparable under op (mismatched types, with
// the sole exception of int/float cross-comparison, or a NaN operand under
// an ordering operator); evaluation treats an incomparable pair as a missed
// match rather than a hard error, per the Context/IndexedContext evaluation
// contract.
func (v Value) Compare(op CompareOp, other Value) (result bool, ok bool) {
	switch {
	case v.kind == KindInt && other.kind == KindInt:
		return compareOrdered(cmpInt64(v.i, other.i), op), true
	case v.kind == KindFloat && other.kind == KindFloat:
		return compareFloat(v.f, other.f, op)
	case v.kind == KindInt && other.kind == KindFloat:
		return compareFloat(float64(v.i), other.f, op)
	case v.kind == KindFloat && other.kind == KindInt:
		return compareFloat(v.f, float64(other.i), op)
	case v.kind == KindBool && other.kind == KindBool:
		return compareBool(v.b, other.b, op)
	case v.kind == KindString && other.kind == KindString:
		return compareOrdered(cmpString(v.s, other.s), op), true
	default:
		return false, false
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(cmp int, op CompareOp) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	default:
		return false
	}
}

// compareFloat handles NaN explicitly: every ordering comparison against a
// NaN operand is unordered (false, but still "ok" - this is a defined
// outcome, not a type mismatch).
func compareFloat(a, b float64, op CompareOp) (bool, bool) {
	if isNaN(a) || isNaN(b) {
		if op == OpEq {
			return false, true
		}
		if op == OpNe {
			return true, true
		}
		return false, true
	}
	cmp := 0
	switch {
	case a < b:
		cmp = -1
	case a > b:
		cmp = 1
	}
	return compareOrdered(cmp, op), true
}

func isNaN(f float64) bool { return f != f }

// compareBool supports equality directly; ordering operators fall back to
// treating false < true, matching the original implementation's note that
// this is "technically valid but semantically odd" - the DSL and builder
// type checker steer callers away from ordering two booleans in practice.
func compareBool(a, b bool, op CompareOp) (bool, bool) {
	cmp := 0
	switch {
	case !a && b:
		cmp = -1
	case a && !b:
		cmp = 1
	}
	return compareOrdered(cmp, op), true
}
