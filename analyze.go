package ooroo

// fieldRegistry interns dotted field paths into small integer slots, so the
// evaluator can index into a pre-sized slice instead of hashing a string on
// every field access. Ported from the reference implementation's
// FieldRegistry: register is idempotent, returning the slot a path already
// has if it was registered before.
type fieldRegistry struct {
	index map[string]int
	paths []string
}

func newFieldRegistry() *fieldRegistry {
	return &fieldRegistry{index: make(map[string]int)}
}

func (r *fieldRegistry) register(path string) int {
	if idx, ok := r.index[path]; ok {
		return idx
	}
	idx := len(r.paths)
	r.index[path] = idx
	r.paths = append(r.paths, path)
	return idx
}

// typeClass is a coarse type bucket used by the analyzer's type checker.
// Int and Float are merged into typeNumeric because Value.Compare already
// promotes between them at evaluation time; the analyzer only needs to
// catch mismatches that Compare can never paper over (bool vs string, and
// so on).
type typeClass uint8

const (
	classUnknown typeClass = iota
	classNumeric
	classBool
	classString
)

func classOfLit(v Value) typeClass {
	switch v.Kind() {
	case KindInt, KindFloat:
		return classNumeric
	case KindBool:
		return classBool
	case KindString:
		return classString
	default:
		return classUnknown
	}
}

func (c typeClass) String() string {
	switch c {
	case classNumeric:
		return "numeric"
	case classBool:
		return "bool"
	case classString:
		return "string"
	default:
		return "unknown"
	}
}

// analyzed is the output of semantic analysis: rule declarations with every
// exprIdent and exprFieldRef resolved to exprSlotRef or exprRuleRef, and the
// interned field registry those slots index into.
type analyzed struct {
	rules     []ruleDecl
	fields    *fieldRegistry
	slotClass map[int]typeClass
}

// analyze runs semantic analysis over rules and terminals: structural
// checks, rule-reference resolution and validation, field-path interning,
// and a best-effort type check. It does not touch the dependency graph;
// cycle detection and scheduling happen afterward, in schedule.go.
func analyze(rules []ruleDecl, terminals []terminalDecl) (*analyzed, *CompileError) {
	if len(rules) == 0 {
		return nil, emptyRuleSetError()
	}

	seen := make(map[string]bool, len(rules))
	ruleNames := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.name] {
			return nil, duplicateRuleError(r.name, r.span)
		}
		seen[r.name] = true
		ruleNames[r.name] = true
	}

	for _, r := range rules {
		if r.expr == nil {
			return nil, missingConditionError(r.name, r.span)
		}
	}

	if len(terminals) == 0 {
		return nil, noTerminalsError()
	}
	terminalSeen := make(map[string]bool, len(terminals))
	for _, term := range terminals {
		if !ruleNames[term.ruleName] {
			return nil, undefinedTerminalError(term.ruleName, term.span)
		}
		if terminalSeen[term.ruleName] {
			return nil, duplicateTerminalError(term.ruleName, term.span)
		}
		terminalSeen[term.ruleName] = true
	}

	fields := newFieldRegistry()
	slotClass := make(map[int]typeClass)
	slotSpan := make(map[int]Span)

	resolved := make([]ruleDecl, len(rules))
	for i, r := range rules {
		a := &analyzer{ruleNames: ruleNames, fields: fields, slotClass: slotClass, slotSpan: slotSpan, ruleName: r.name}
		newExpr, err := a.resolve(r.expr)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
		resolved[i].expr = newExpr
	}

	return &analyzed{rules: resolved, fields: fields, slotClass: slotClass}, nil
}

type analyzer struct {
	ruleNames map[string]bool
	fields    *fieldRegistry
	slotClass map[int]typeClass
	slotSpan  map[int]Span
	ruleName  string
}

// resolve walks e, disambiguating identifiers (field vs. rule reference for
// DSL-sourced exprIdent nodes, and validating builder-sourced exprFieldRef/
// exprRuleRef directly), interning field paths, and checking types. It
// returns a new tree; e is never mutated.
func (a *analyzer) resolve(e *Expr) (*Expr, *CompileError) {
	resolved, _, err := a.resolveTyped(e)
	return resolved, err
}

// resolveTyped resolves e and additionally reports its type class, when
// knowable without having seen a sibling operand yet.
func (a *analyzer) resolveTyped(e *Expr) (*Expr, typeClass, *CompileError) {
	switch e.Kind {
	case exprLit:
		return e, classOfLit(e.Lit), nil

	case exprIdent:
		return a.resolveIdent(e.Ident, e.Span)

	case exprFieldRef:
		slot := a.fields.register(e.FieldPath)
		return &Expr{Kind: exprSlotRef, Span: e.Span, FieldPath: e.FieldPath, Slot: slot}, a.slotClass[slot], nil

	case exprRuleRef:
		if !a.ruleNames[e.RuleName] {
			return nil, classUnknown, undefinedRuleRefError(a.ruleName, e.RuleName, e.Span)
		}
		return &Expr{Kind: exprRuleRef, Span: e.Span, RuleName: e.RuleName}, classBool, nil

	case exprCmp:
		return a.resolveCmp(e)

	case exprNot:
		operand, _, err := a.resolveBoolOperand(e.Left)
		if err != nil {
			return nil, classUnknown, err
		}
		return &Expr{Kind: exprNot, Span: e.Span, Left: operand}, classBool, nil

	case exprAnd, exprOr:
		left, _, err := a.resolveBoolOperand(e.Left)
		if err != nil {
			return nil, classUnknown, err
		}
		right, _, err := a.resolveBoolOperand(e.Right)
		if err != nil {
			return nil, classUnknown, err
		}
		return &Expr{Kind: e.Kind, Span: e.Span, Left: left, Right: right}, classBool, nil

	default:
		return nil, classUnknown, typeMismatchError(a.ruleName, "malformed expression", e.Span)
	}
}

// resolveIdent disambiguates a raw identifier per the same rule the DSL
// grammar documents: a dotted path is always a field; a bare name that
// matches a declared rule is a rule reference; anything else is a field.
func (a *analyzer) resolveIdent(name string, span Span) (*Expr, typeClass, *CompileError) {
	if !hasDot(name) && a.ruleNames[name] {
		return &Expr{Kind: exprRuleRef, Span: span, RuleName: name}, classBool, nil
	}
	slot := a.fields.register(name)
	return &Expr{Kind: exprSlotRef, Span: span, FieldPath: name, Slot: slot}, a.slotClass[slot], nil
}

func hasDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// resolveBoolOperand resolves e exactly like resolveTyped, but additionally
// enforces that e is usable as a boolean: a bare literal must be a bool
// literal, and a bare field reference has its slot constrained to bool.
func (a *analyzer) resolveBoolOperand(e *Expr) (*Expr, typeClass, *CompileError) {
	resolved, class, err := a.resolveTyped(e)
	if err != nil {
		return nil, classUnknown, err
	}
	switch resolved.Kind {
	case exprLit:
		if class != classBool {
			return nil, classUnknown, typeMismatchError(a.ruleName, "expected a boolean expression, found a "+class.String()+" literal", resolved.Span)
		}
	case exprSlotRef:
		if err := a.constrain(resolved.Slot, classBool, resolved.Span); err != nil {
			return nil, classUnknown, err
		}
		class = classBool
	}
	return resolved, class, nil
}

// resolveCmp resolves a comparison's two operands and checks that they are
// type-compatible, constraining any field-ref operand's slot to the other
// side's class when the other side's class is already known.
func (a *analyzer) resolveCmp(e *Expr) (*Expr, typeClass, *CompileError) {
	left, leftClass, err := a.resolveTyped(e.Left)
	if err != nil {
		return nil, classUnknown, err
	}
	right, rightClass, err := a.resolveTyped(e.Right)
	if err != nil {
		return nil, classUnknown, err
	}

	if leftClass != classUnknown && rightClass != classUnknown && leftClass != rightClass {
		// A field operand's class was pinned by an earlier use; constrain
		// reports the conflict with that earlier use's span.
		if left.Kind == exprSlotRef {
			return nil, classUnknown, a.constrain(left.Slot, rightClass, right.Span)
		}
		if right.Kind == exprSlotRef {
			return nil, classUnknown, a.constrain(right.Slot, leftClass, left.Span)
		}
		return nil, classUnknown, typeMismatchError(a.ruleName,
			e.Op.String()+" compares a "+leftClass.String()+" with a "+rightClass.String(),
			e.Span, left.Span, right.Span)
	}

	if isOrdering(e.Op) {
		for _, c := range []typeClass{leftClass, rightClass} {
			if c == classBool {
				return nil, classUnknown, typeMismatchError(a.ruleName, e.Op.String()+" does not support boolean operands", e.Span)
			}
		}
	}

	if left.Kind == exprSlotRef && rightClass != classUnknown {
		if err := a.constrain(left.Slot, rightClass, right.Span); err != nil {
			return nil, classUnknown, err
		}
	}
	if right.Kind == exprSlotRef && leftClass != classUnknown {
		if err := a.constrain(right.Slot, leftClass, left.Span); err != nil {
			return nil, classUnknown, err
		}
	}

	return &Expr{Kind: exprCmp, Span: e.Span, Op: e.Op, Left: left, Right: right}, classBool, nil
}

func isOrdering(op CompareOp) bool {
	return op == OpLt || op == OpLe || op == OpGt || op == OpGe
}

// constrain records that slot must be of class c, failing if an earlier use
// in the same rule set already pinned it to a different class. span locates
// the use making this call; on conflict it becomes the primary span, and the
// earlier use (recorded in slotSpan the first time a class was pinned)
// becomes the related one.
func (a *analyzer) constrain(slot int, c typeClass, span Span) *CompileError {
	if existing, ok := a.slotClass[slot]; ok {
		if existing != c {
			return typeMismatchError(a.ruleName, "field used as both "+existing.String()+" and "+c.String(), span, a.slotSpan[slot])
		}
		return nil
	}
	a.slotClass[slot] = c
	a.slotSpan[slot] = span
	return nil
}
