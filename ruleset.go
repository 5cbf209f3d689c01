package ooroo

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// CompiledRule is one rule after compilation: its name, its fully resolved
// condition (every field reference is a slot index, every rule reference
// is the index of another CompiledRule earlier in the same RuleSet), and
// its own index in evaluation order.
type CompiledRule struct {
	Name  string
	Index int
	Expr  *Expr
}

// Terminal is one compiled terminal: which rule it watches, its priority,
// and that rule's index.
type Terminal struct {
	Name      string
	RuleIndex int
	Priority  int
}

// RuleSet is an immutable compiled plan, ready to be evaluated any number
// of times, from any number of goroutines, without synchronization.
// Construct one with Builder.Compile or dsl.PlanFromDSL/dsl.PlanFromFile.
type RuleSet struct {
	rules       []CompiledRule
	terminals   []Terminal
	slotCount   int
	pathIndex   map[string]int
	slotPaths   []string
	nameIndex   map[string]int
}

// compile is the single entry point every construction path (Builder,
// dsl.PlanFromDSL) funnels through: resolve names and types, detect
// cycles, schedule, fold, and eliminate dead rules.
func compile(rules []ruleDecl, terminals []terminalDecl, opts ...CompileOption) (*RuleSet, error) {
	o := defaultCompileOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a, cerr := analyze(rules, terminals)
	if cerr != nil {
		return nil, cerr
	}

	compiledRules, compiledTerminals, cerr := schedule(a, terminals)
	if cerr != nil {
		return nil, cerr
	}

	if o.optimize {
		compiledRules, compiledTerminals = optimize(compiledRules, compiledTerminals)
	}

	nameIndex := make(map[string]int, len(compiledRules))
	for _, r := range compiledRules {
		nameIndex[r.Name] = r.Index
	}

	return &RuleSet{
		rules:     compiledRules,
		terminals: compiledTerminals,
		slotCount: len(a.fields.paths),
		pathIndex: a.fields.index,
		slotPaths: a.fields.paths,
		nameIndex: nameIndex,
	}, nil
}

// RuleNames returns every surviving rule's name, in evaluation order. A
// rule present in the Builder but unreachable from every terminal (pruned
// during scheduling, or by the optimizer after constant folding) will not
// appear here.
func (rs *RuleSet) RuleNames() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}

// TerminalNames returns the name of every terminal, in priority order
// (lowest priority value first).
func (rs *RuleSet) TerminalNames() []string {
	names := make([]string, len(rs.terminals))
	for i, t := range rs.terminals {
		names[i] = t.Name
	}
	return names
}

// RuleCount reports how many rules survived compilation.
func (rs *RuleSet) RuleCount() int { return len(rs.rules) }

// FieldPaths returns every field path interned during compilation, indexed
// by slot. Use this to build an IndexedContext's backing field registry.
func (rs *RuleSet) FieldPaths() []string {
	paths := make([]string, len(rs.slotPaths))
	copy(paths, rs.slotPaths)
	return paths
}

// SlotOf reports the slot a field path was interned to, if it appears
// anywhere in the rule set.
func (rs *RuleSet) SlotOf(path string) (int, bool) {
	slot, ok := rs.pathIndex[path]
	return slot, ok
}

// ContextBuilder returns a new ContextBuilder for feeding an IndexedContext
// evaluation of this rule set.
func (rs *RuleSet) ContextBuilder() *ContextBuilder {
	return newContextBuilder(rs.pathIndex, rs.slotCount)
}

// String renders the compiled evaluation schedule as a table: each rule's
// position, name, and condition, in the order Evaluate will walk them, and
// which rules are terminals. Grounded on the teacher's Rule.String(), which
// renders a rule hierarchy the same way.
func (rs *RuleSet) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nOOROO RULE SET\n")
	tw.AppendHeader(table.Row{"\n#", "\nRule", "\nCondition", "Terminal\nPriority"})

	terminalPriority := make(map[int]int, len(rs.terminals))
	for _, t := range rs.terminals {
		terminalPriority[t.RuleIndex] = t.Priority
	}

	maxWidth := 48
	for _, r := range rs.rules {
		priorityCell := ""
		if p, ok := terminalPriority[r.Index]; ok {
			priorityCell = fmt.Sprintf("%d", p)
		}
		tw.AppendRow(table.Row{r.Index, r.Name, rs.exprString(r.Expr), priorityCell})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: maxWidth},
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// Explain renders the same information as String, plus the field paths
// interned during compilation and their assigned slots.
func (rs *RuleSet) Explain() string {
	out := rs.String()
	out += "\n\nFIELD SLOTS\n"
	for slot, path := range rs.slotPaths {
		out += fmt.Sprintf("  %3d  %s\n", slot, path)
	}
	return out
}

func (rs *RuleSet) exprString(e *Expr) string {
	switch e.Kind {
	case exprLit:
		return e.Lit.String()
	case exprSlotRef:
		return e.FieldPath
	case exprRuleIdx:
		if e.RuleIdx >= 0 && e.RuleIdx < len(rs.rules) {
			return rs.rules[e.RuleIdx].Name
		}
		return fmt.Sprintf("rule#%d", e.RuleIdx)
	case exprCmp:
		return rs.exprString(e.Left) + " " + e.Op.String() + " " + rs.exprString(e.Right)
	case exprNot:
		return "NOT " + rs.exprString(e.Left)
	case exprAnd:
		return "(" + rs.exprString(e.Left) + " AND " + rs.exprString(e.Right) + ")"
	case exprOr:
		return "(" + rs.exprString(e.Left) + " OR " + rs.exprString(e.Right) + ")"
	default:
		return "?"
	}
}
