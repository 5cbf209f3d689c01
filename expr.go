package ooroo

// ExprKind identifies which variant of Expr is populated. The same Expr
// type carries a rule condition through every compilation stage: a freshly
// built or parsed tree uses exprIdent/exprFieldRef/exprRuleRef; after
// semantic analysis, field references carry a resolved slot; after
// scheduling, rule references carry a resolved index.
type ExprKind uint8

const (
	exprLit ExprKind = iota
	exprIdent
	exprFieldRef
	exprSlotRef
	exprRuleRef
	exprRuleIdx
	exprCmp
	exprNot
	exprAnd
	exprOr
)

// Expr is a node in a rule's condition tree. It is a closed sum type: the
// Kind field says which of the other fields are meaningful. Trees are built
// bottom-up and never mutated in place; each compilation stage that needs
// to change a node (resolving a field path to a slot, a rule name to an
// index, folding a constant) produces a new Expr rather than editing the
// one it was given, so an AST or IR tree handed to one stage is never
// surprised out from under it by another.
type Expr struct {
	Kind ExprKind

	// Span locates e in DSL source text. Builder-constructed nodes carry
	// a zero Span (see Span.IsZero); dsl.PlanFromDSL/PlanFromFile set a
	// real one on every node, forwarded from internal/parse's own Span.
	Span Span

	Lit Value // exprLit

	Ident string // exprIdent: raw identifier path, not yet disambiguated

	FieldPath string // exprFieldRef
	Slot      int    // exprSlotRef

	RuleName string // exprRuleRef
	RuleIdx  int     // exprRuleIdx

	Op          CompareOp // exprCmp
	Left, Right *Expr     // exprCmp: operands. exprNot: Left only. exprAnd/exprOr: both.
}

// WithSpan attaches source position information to e, returning e for
// chaining. Used by dsl to record where each node of a parsed condition
// came from, so compile errors found later can point back at it.
func (e *Expr) WithSpan(span Span) *Expr {
	e.Span = span
	return e
}

// Lit builds a literal boolean/int/float/string leaf.
func Lit(v Value) *Expr { return &Expr{Kind: exprLit, Lit: v} }

// FieldExpr is the fluent builder returned by Field, used to construct a
// Cmp node comparing a field against a literal or another field.
type FieldExpr struct {
	path string
}

// Field starts a comparison against the dotted field path.
func Field(path string) FieldExpr { return FieldExpr{path: path} }

func (f FieldExpr) ref() *Expr { return &Expr{Kind: exprFieldRef, FieldPath: f.path} }

func cmp(op CompareOp, left, right *Expr) *Expr {
	return &Expr{Kind: exprCmp, Op: op, Left: left, Right: right}
}

// Eq builds `field == value`.
func (f FieldExpr) Eq(v Value) *Expr { return cmp(OpEq, f.ref(), Lit(v)) }

// Ne builds `field != value`.
func (f FieldExpr) Ne(v Value) *Expr { return cmp(OpNe, f.ref(), Lit(v)) }

// Lt builds `field < value`.
func (f FieldExpr) Lt(v Value) *Expr { return cmp(OpLt, f.ref(), Lit(v)) }

// Le builds `field <= value`.
func (f FieldExpr) Le(v Value) *Expr { return cmp(OpLe, f.ref(), Lit(v)) }

// Gt builds `field > value`.
func (f FieldExpr) Gt(v Value) *Expr { return cmp(OpGt, f.ref(), Lit(v)) }

// Ge builds `field >= value`.
func (f FieldExpr) Ge(v Value) *Expr { return cmp(OpGe, f.ref(), Lit(v)) }

// EqField builds `field == other field`.
func (f FieldExpr) EqField(other FieldExpr) *Expr { return cmp(OpEq, f.ref(), other.ref()) }

// IsTrue treats the field itself, taken as a bare boolean, as a condition.
func (f FieldExpr) IsTrue() *Expr { return f.ref() }

// RuleRefExpr refers to the result of a previously declared rule. The rule
// named here does not need to exist yet at the time this Expr is built -
// only by the time Compile runs.
func RuleRefExpr(name string) *Expr { return &Expr{Kind: exprRuleRef, RuleName: name} }

// And builds the conjunction of e and other.
func (e *Expr) And(other *Expr) *Expr { return &Expr{Kind: exprAnd, Left: e, Right: other} }

// Or builds the disjunction of e and other.
func (e *Expr) Or(other *Expr) *Expr { return &Expr{Kind: exprOr, Left: e, Right: other} }

// Not builds the negation of e.
func Not(e *Expr) *Expr { return &Expr{Kind: exprNot, Left: e} }

// walkRuleRefs calls fn for every rule name directly referenced by e
// (exprRuleRef or exprRuleIdx resolved back through a name table is not
// needed here; this only runs pre-schedule, while refs are still names),
// along with the span of that particular reference.
func walkRuleRefs(e *Expr, fn func(name string, span Span)) {
	if e == nil {
		return
	}
	switch e.Kind {
	case exprRuleRef:
		fn(e.RuleName, e.Span)
	case exprCmp:
		walkRuleRefs(e.Left, fn)
		walkRuleRefs(e.Right, fn)
	case exprNot:
		walkRuleRefs(e.Left, fn)
	case exprAnd, exprOr:
		walkRuleRefs(e.Left, fn)
		walkRuleRefs(e.Right, fn)
	}
}

// cloneExpr performs a deep, structural copy, returning a new tree that
// shares no pointers with e.
func cloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	c := *e
	c.Left = cloneExpr(e.Left)
	c.Right = cloneExpr(e.Right)
	return &c
}
