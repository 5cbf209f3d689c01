package ooroo

// stackScratchSize is the largest rule count whose scratch buffer needs no
// heap allocation: evaluation keeps a fixed-size array on the stack and slices
// into it, falling back to a heap slice only for rule sets bigger than
// this. 64 rules covers the overwhelming majority of real rule sets while
// keeping the fast path's stack frame small.
const stackScratchSize = 64

// Evaluate runs rs against ctx and returns the first terminal, in priority
// order, whose rule evaluated true. The second return value is false if no
// terminal's rule evaluated true.
func (rs *RuleSet) Evaluate(ctx *Context) (Verdict, bool) {
	if len(rs.rules) <= stackScratchSize {
		var buf [stackScratchSize]bool
		results := buf[:len(rs.rules)]
		for _, r := range rs.rules {
			results[r.Index] = evalDynamic(r.Expr, ctx, results)
		}
		return rs.pickVerdict(results)
	}
	results := make([]bool, len(rs.rules))
	for _, r := range rs.rules {
		results[r.Index] = evalDynamic(r.Expr, ctx, results)
	}
	return rs.pickVerdict(results)
}

// EvaluateIndexed is Evaluate's counterpart for an IndexedContext, built
// via RuleSet.ContextBuilder. It avoids the string hashing Evaluate pays
// for every field access.
func (rs *RuleSet) EvaluateIndexed(ctx *IndexedContext) (Verdict, bool) {
	if len(rs.rules) <= stackScratchSize {
		var buf [stackScratchSize]bool
		results := buf[:len(rs.rules)]
		for _, r := range rs.rules {
			results[r.Index] = evalIndexed(r.Expr, ctx, results)
		}
		return rs.pickVerdict(results)
	}
	results := make([]bool, len(rs.rules))
	for _, r := range rs.rules {
		results[r.Index] = evalIndexed(r.Expr, ctx, results)
	}
	return rs.pickVerdict(results)
}

func (rs *RuleSet) pickVerdict(results []bool) (Verdict, bool) {
	for _, t := range rs.terminals {
		if results[t.RuleIndex] {
			return Verdict{Terminal: t.Name, Result: true}, true
		}
	}
	return Verdict{}, false
}

// evalDynamic evaluates e against a dynamic Context. A missing field and a
// type mismatch between a comparison's operands are both treated as the
// comparison being false - evaluation never fails, it simply produces no
// match. EvaluateDetailed (report.go) re-runs with diagnostics collected
// for exactly this reason: to tell those two silent-false cases apart after
// the fact.
func evalDynamic(e *Expr, ctx *Context, results []bool) bool {
	switch e.Kind {
	case exprLit:
		return e.Lit.Kind() == KindBool && e.Lit.Bool()
	case exprSlotRef:
		v, ok := ctx.Get(e.FieldPath)
		return ok && v.Kind() == KindBool && v.Bool()
	case exprRuleIdx:
		return results[e.RuleIdx]
	case exprCmp:
		return compareDynamic(e, ctx)
	case exprNot:
		return !evalDynamic(e.Left, ctx, results)
	case exprAnd:
		return evalDynamic(e.Left, ctx, results) && evalDynamic(e.Right, ctx, results)
	case exprOr:
		return evalDynamic(e.Left, ctx, results) || evalDynamic(e.Right, ctx, results)
	default:
		return false
	}
}

func compareDynamic(e *Expr, ctx *Context) bool {
	left, ok := operandDynamic(e.Left, ctx)
	if !ok {
		return false
	}
	right, ok := operandDynamic(e.Right, ctx)
	if !ok {
		return false
	}
	result, ok := left.Compare(e.Op, right)
	return ok && result
}

func operandDynamic(e *Expr, ctx *Context) (Value, bool) {
	switch e.Kind {
	case exprLit:
		return e.Lit, true
	case exprSlotRef:
		return ctx.Get(e.FieldPath)
	default:
		return Value{}, false
	}
}

func evalIndexed(e *Expr, ctx *IndexedContext, results []bool) bool {
	switch e.Kind {
	case exprLit:
		return e.Lit.Kind() == KindBool && e.Lit.Bool()
	case exprSlotRef:
		v, ok := ctx.Get(e.Slot)
		return ok && v.Kind() == KindBool && v.Bool()
	case exprRuleIdx:
		return results[e.RuleIdx]
	case exprCmp:
		return compareIndexed(e, ctx)
	case exprNot:
		return !evalIndexed(e.Left, ctx, results)
	case exprAnd:
		return evalIndexed(e.Left, ctx, results) && evalIndexed(e.Right, ctx, results)
	case exprOr:
		return evalIndexed(e.Left, ctx, results) || evalIndexed(e.Right, ctx, results)
	default:
		return false
	}
}

func compareIndexed(e *Expr, ctx *IndexedContext) bool {
	left, ok := operandIndexed(e.Left, ctx)
	if !ok {
		return false
	}
	right, ok := operandIndexed(e.Right, ctx)
	if !ok {
		return false
	}
	result, ok := left.Compare(e.Op, right)
	return ok && result
}

func operandIndexed(e *Expr, ctx *IndexedContext) (Value, bool) {
	switch e.Kind {
	case exprLit:
		return e.Lit, true
	case exprSlotRef:
		return ctx.Get(e.Slot)
	default:
		return Value{}, false
	}
}
