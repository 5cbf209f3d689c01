package ooroo

// ruleDecl is a declared rule before compilation: either handed to the
// Builder directly, or produced by the DSL parser.
type ruleDecl struct {
	name      string
	expr      *Expr // nil means "declared without a condition" -> MissingCondition
	declOrder int
	span      Span
}

// terminalDecl is a declared terminal before compilation.
type terminalDecl struct {
	ruleName  string
	priority  int
	declOrder int
	span      Span
}

// Builder assembles a rule set programmatically, ahead of a call to
// Compile. It does no validation itself - duplicate names, dangling
// references, missing conditions and cycles are all reported by Compile,
// in one place, so the DSL loader and the Builder share one error path.
type Builder struct {
	rules     []ruleDecl
	terminals []terminalDecl
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Rule declares a rule named name with the given condition. expr may be
// nil; a nil condition compiles to a KindMissingCondition error, mirroring
// what the DSL rejects when a `rule NAME :` has nothing after the colon.
//
// span is optional and exists for package dsl, which knows where in the
// source text name was declared; callers building a rule set programmatically
// normally omit it, leaving any resulting diagnostic's position empty.
func (b *Builder) Rule(name string, expr *Expr, span ...Span) *Builder {
	b.rules = append(b.rules, ruleDecl{name: name, expr: expr, declOrder: len(b.rules), span: firstSpan(span)})
	return b
}

// Terminal declares ruleName as a terminal with the given priority. Lower
// priority values are preferred: Evaluate returns the first terminal, in
// priority order, whose rule evaluated true.
//
// span is optional; see Rule.
func (b *Builder) Terminal(ruleName string, priority int, span ...Span) *Builder {
	b.terminals = append(b.terminals, terminalDecl{ruleName: ruleName, priority: priority, declOrder: len(b.terminals), span: firstSpan(span)})
	return b
}

func firstSpan(spans []Span) Span {
	if len(spans) == 0 {
		return Span{}
	}
	return spans[0]
}

// CompileOption configures a single call to Compile.
type CompileOption func(*compileOptions)

type compileOptions struct {
	optimize bool
}

func defaultCompileOptions() compileOptions {
	return compileOptions{optimize: true}
}

// WithOptimizer turns the constant-folding and dead-rule-elimination pass
// on or off. It defaults to on; turning it off is mainly useful when
// writing tests against the pre-optimization schedule. Rules unreachable
// from every terminal are dropped during scheduling either way; only rules
// that become unreachable through constant folding are kept when it is off.
func WithOptimizer(enabled bool) CompileOption {
	return func(o *compileOptions) { o.optimize = enabled }
}

// Compile validates and schedules the declared rules, producing an
// immutable RuleSet ready for repeated evaluation. See compile (in
// ruleset.go) for the full pipeline.
func (b *Builder) Compile(opts ...CompileOption) (*RuleSet, error) {
	return compile(b.rules, b.terminals, opts...)
}
