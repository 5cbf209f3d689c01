// Package parse implements a recursive-descent parser for the Ooroo DSL.
// It builds its own small neutral syntax tree rather than the rule
// engine's own Expr type: a bare identifier in source text (`user.age` or
// `is_adult`) is syntactically ambiguous between a field reference and a
// reference to another rule, and resolving that ambiguity needs the full
// set of declared rule names, which isn't known until the whole file has
// been parsed. Package dsl, which does know the full rule set, performs
// that resolution while converting this tree into the engine's own Expr.
//
// The grammar mirrors the reference implementation's winnow-based parser:
//
//	ruleset      := rule_def*
//	rule_def     := "rule" IDENT priority_annotation? ":" expr
//	priority_ann := "(" "priority" INT ")"
//	expr         := or_expr
//	or_expr      := and_expr (("OR"|"or") and_expr)*
//	and_expr     := unary (("AND"|"and") unary)*
//	unary        := ("NOT"|"not") unary | primary
//	primary      := "(" expr ")" | ident (compare_op value)?
//	compare_op   := ">=" | ">" | "<=" | "<" | "==" | "!="
//	value        := STRING | "true" | "false" | FLOAT | INT
package parse

// Span is a byte offset range into the source text being parsed.
type Span struct {
	Start, End int
}

// LitKind identifies which field of a literal Expr is populated.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
)

// CompareOp mirrors ooroo.CompareOp's variants and ordering exactly, so
// package dsl can convert between them with a single table.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// ExprKind identifies which variant of Expr is populated.
type ExprKind uint8

const (
	ELit ExprKind = iota
	EIdent
	ECmp
	ENot
	EAnd
	EOr
)

// Expr is one node of a parsed (but not yet semantically resolved)
// condition expression.
type Expr struct {
	Kind ExprKind
	Span Span

	// ELit
	LitKind LitKind
	I       int64
	F       float64
	B       bool
	S       string

	// EIdent: a raw identifier, not yet known to be a field path or a
	// rule reference.
	Ident string

	// ECmp
	Op CompareOp

	// ECmp: both operands. ENot: Left only. EAnd/EOr: both.
	Left, Right *Expr
}

// Rule is one `rule NAME ...: expr` declaration.
type Rule struct {
	Name      string
	NameSpan  Span
	DeclOrder int

	// Expr is nil if the rule was declared with nothing after the colon.
	Expr     *Expr
	ExprSpan Span

	// IsTerminal reports whether a `(priority N)` annotation was present;
	// Priority is meaningful only when IsTerminal is true.
	IsTerminal bool
	Priority   int
}

// File is the result of parsing one DSL source document.
type File struct {
	Rules []Rule
}
