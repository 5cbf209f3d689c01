package ooroo

import "github.com/ooroo-rules/ooroo/internal/graph"

// schedule runs dependency-cycle detection and priority-aware topological
// scheduling over the analyzed rule set, then rewrites every exprRuleRef
// into an exprRuleIdx pointing at the rule's final position, producing the
// compiled (but not yet optimized) rule and terminal lists.
func schedule(a *analyzed, terminals []terminalDecl) ([]CompiledRule, []Terminal, *CompileError) {
	nodes := make([]graph.Node, len(a.rules))
	for i, r := range a.rules {
		var deps []string
		var depSpans []graph.Span
		walkRuleRefs(r.expr, func(name string, span Span) {
			deps = append(deps, name)
			depSpans = append(depSpans, graph.Span{Start: span.Start, End: span.End})
		})
		nodes[i] = graph.Node{Name: r.name, DeclOrder: r.declOrder, Deps: deps, DepSpans: depSpans}
	}

	if cycle, cycleSpans := graph.FindCycle(nodes); cycle != nil {
		spans := make([]Span, len(cycleSpans))
		for i, s := range cycleSpans {
			spans[i] = Span{Start: s.Start, End: s.End}
		}
		return nil, nil, cyclicDependencyError(cycle, spans)
	}

	terminalNames := make([]string, len(terminals))
	priorityOf := make(map[string]int, len(terminals))
	for i, t := range terminals {
		terminalNames[i] = t.ruleName
		if existing, ok := priorityOf[t.ruleName]; !ok || t.priority < existing {
			priorityOf[t.ruleName] = t.priority
		}
	}

	reachable, minPriority := graph.Reachable(nodes, terminalNames, priorityOf)
	order := graph.Schedule(nodes, reachable, minPriority)

	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}

	byName := make(map[string]ruleDecl, len(a.rules))
	for _, r := range a.rules {
		byName[r.name] = r
	}

	compiled := make([]CompiledRule, len(order))
	for i, name := range order {
		r := byName[name]
		compiled[i] = CompiledRule{Name: name, Index: i, Expr: resolveRuleIdx(r.expr, index)}
	}

	compiledTerminals := make([]Terminal, 0, len(terminals))
	for _, t := range terminals {
		if idx, ok := index[t.ruleName]; ok {
			compiledTerminals = append(compiledTerminals, Terminal{Name: t.ruleName, RuleIndex: idx, Priority: t.priority})
		}
	}
	sortTerminals(compiledTerminals)

	return compiled, compiledTerminals, nil
}

// resolveRuleIdx rewrites every exprRuleRef in e into an exprRuleIdx using
// index, producing a new tree.
func resolveRuleIdx(e *Expr, index map[string]int) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case exprRuleRef:
		return &Expr{Kind: exprRuleIdx, Span: e.Span, RuleIdx: index[e.RuleName]}
	case exprCmp:
		return &Expr{Kind: exprCmp, Span: e.Span, Op: e.Op, Left: resolveRuleIdx(e.Left, index), Right: resolveRuleIdx(e.Right, index)}
	case exprNot:
		return &Expr{Kind: exprNot, Span: e.Span, Left: resolveRuleIdx(e.Left, index)}
	case exprAnd, exprOr:
		return &Expr{Kind: e.Kind, Span: e.Span, Left: resolveRuleIdx(e.Left, index), Right: resolveRuleIdx(e.Right, index)}
	default:
		return e
	}
}

func sortTerminals(ts []Terminal) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && terminalLess(ts[j], ts[j-1]); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

func terminalLess(a, b Terminal) bool { return a.Priority < b.Priority }
