package ooroo

// optimize folds constants and removes rules no terminal (transitively)
// depends on. It runs after scheduling, so every exprRuleRef has already
// become an exprRuleIdx: dependencies always have a lower index than their
// dependents, which lets dead-rule elimination run as a single backward
// sweep instead of a graph search.
func optimize(rules []CompiledRule, terminals []Terminal) ([]CompiledRule, []Terminal) {
	folded := make([]CompiledRule, len(rules))
	for i, r := range rules {
		folded[i] = CompiledRule{Name: r.Name, Index: r.Index, Expr: foldExpr(r.Expr)}
	}
	return eliminateDeadRules(folded, terminals)
}

// foldExpr evaluates constant subexpressions at compile time, returning a
// new, possibly smaller tree. It never changes which terminal a given
// input selects - only how much work reaching that answer takes.
func foldExpr(e *Expr) *Expr {
	switch e.Kind {
	case exprLit, exprSlotRef, exprRuleIdx, exprFieldRef, exprRuleRef, exprIdent:
		return e

	case exprNot:
		operand := foldExpr(e.Left)
		if operand.Kind == exprLit {
			return Lit(BoolValue(!operand.Lit.Bool()))
		}
		if operand.Kind == exprNot {
			return operand.Left
		}
		return &Expr{Kind: exprNot, Left: operand}

	case exprAnd:
		left, right := foldExpr(e.Left), foldExpr(e.Right)
		if left.Kind == exprLit {
			if !left.Lit.Bool() {
				return Lit(BoolValue(false))
			}
			return right
		}
		if right.Kind == exprLit {
			if !right.Lit.Bool() {
				return Lit(BoolValue(false))
			}
			return left
		}
		return &Expr{Kind: exprAnd, Left: left, Right: right}

	case exprOr:
		left, right := foldExpr(e.Left), foldExpr(e.Right)
		if left.Kind == exprLit {
			if left.Lit.Bool() {
				return Lit(BoolValue(true))
			}
			return right
		}
		if right.Kind == exprLit {
			if right.Lit.Bool() {
				return Lit(BoolValue(true))
			}
			return left
		}
		return &Expr{Kind: exprOr, Left: left, Right: right}

	case exprCmp:
		left, right := foldExpr(e.Left), foldExpr(e.Right)
		if left.Kind == exprLit && right.Kind == exprLit {
			if result, ok := left.Lit.Compare(e.Op, right.Lit); ok {
				return Lit(BoolValue(result))
			}
		}
		return &Expr{Kind: exprCmp, Op: e.Op, Left: left, Right: right}

	default:
		return e
	}
}

func walkRuleIdx(e *Expr, fn func(idx int)) {
	if e == nil {
		return
	}
	switch e.Kind {
	case exprRuleIdx:
		fn(e.RuleIdx)
	case exprCmp, exprAnd, exprOr:
		walkRuleIdx(e.Left, fn)
		walkRuleIdx(e.Right, fn)
	case exprNot:
		walkRuleIdx(e.Left, fn)
	}
}

func remapRuleIdx(e *Expr, newIndex []int) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case exprRuleIdx:
		return &Expr{Kind: exprRuleIdx, RuleIdx: newIndex[e.RuleIdx]}
	case exprCmp:
		return &Expr{Kind: exprCmp, Op: e.Op, Left: remapRuleIdx(e.Left, newIndex), Right: remapRuleIdx(e.Right, newIndex)}
	case exprNot:
		return &Expr{Kind: exprNot, Left: remapRuleIdx(e.Left, newIndex)}
	case exprAnd, exprOr:
		return &Expr{Kind: e.Kind, Left: remapRuleIdx(e.Left, newIndex), Right: remapRuleIdx(e.Right, newIndex)}
	default:
		return e
	}
}

// eliminateDeadRules drops every rule no live rule or terminal reads,
// compacting indices and remapping the rule references that survive.
func eliminateDeadRules(rules []CompiledRule, terminals []Terminal) ([]CompiledRule, []Terminal) {
	n := len(rules)
	live := make([]bool, n)
	for _, t := range terminals {
		live[t.RuleIndex] = true
	}
	for i := n - 1; i >= 0; i-- {
		if live[i] {
			walkRuleIdx(rules[i].Expr, func(idx int) { live[idx] = true })
		}
	}

	newIndex := make([]int, n)
	kept := make([]CompiledRule, 0, n)
	for i := 0; i < n; i++ {
		if live[i] {
			newIndex[i] = len(kept)
			kept = append(kept, rules[i])
		}
	}
	for i := range kept {
		kept[i].Index = i
		kept[i].Expr = remapRuleIdx(kept[i].Expr, newIndex)
	}

	newTerminals := make([]Terminal, len(terminals))
	for i, t := range terminals {
		newTerminals[i] = Terminal{Name: t.Name, Priority: t.Priority, RuleIndex: newIndex[t.RuleIndex]}
	}
	return kept, newTerminals
}
