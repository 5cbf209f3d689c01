package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooroo-rules/ooroo"
)

func TestPlanFromDSL_simpleComparisonRule(t *testing.T) {
	rs, err := PlanFromDSL(`
rule is_adult (priority 0): age >= 18
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"is_adult"}, rs.RuleNames())

	ctx := ooroo.NewContext().Set("age", ooroo.IntValue(21))
	v, ok := rs.Evaluate(ctx)
	require.True(t, ok)
	assert.Equal(t, "is_adult", v.Terminal)
}

func TestPlanFromDSL_ruleReferenceResolvesToRuleNotField(t *testing.T) {
	rs, err := PlanFromDSL(`
rule is_adult: user.age >= 18
rule is_banned: user.banned == true
rule eligible (priority 0): is_adult and not is_banned
`)
	require.NoError(t, err)

	ctx := ooroo.NewContext().
		Set("user.age", ooroo.IntValue(25)).
		Set("user.banned", ooroo.BoolValue(false))
	v, ok := rs.Evaluate(ctx)
	require.True(t, ok)
	assert.Equal(t, "eligible", v.Terminal)
}

func TestPlanFromDSL_dottedPathIsAlwaysAField(t *testing.T) {
	// even if a rule were declared as "user.age" (the lexer accepts dots
	// inside an identifier, rule names included) a dotted ident inside an
	// expression is unambiguously a field.
	rs, err := PlanFromDSL(`
rule flagged (priority 0): user.is_admin
`)
	require.NoError(t, err)
	ctx := ooroo.NewContext().Set("user.is_admin", ooroo.BoolValue(true))
	_, ok := rs.Evaluate(ctx)
	assert.True(t, ok)
}

func TestPlanFromDSL_bareUndottedNonRuleIdentIsAField(t *testing.T) {
	rs, err := PlanFromDSL(`
rule flagged (priority 0): enabled
`)
	require.NoError(t, err)
	ctx := ooroo.NewContext().Set("enabled", ooroo.BoolValue(true))
	_, ok := rs.Evaluate(ctx)
	assert.True(t, ok)
}

func TestPlanFromDSL_orAndParenPrecedence(t *testing.T) {
	rs, err := PlanFromDSL(`
rule r (priority 0): (a == 1 or b == 1) and c == 1
`)
	require.NoError(t, err)

	ctx := ooroo.NewContext().
		Set("a", ooroo.IntValue(1)).
		Set("b", ooroo.IntValue(99)).
		Set("c", ooroo.IntValue(1))
	_, ok := rs.Evaluate(ctx)
	assert.True(t, ok)
}

func TestPlanFromDSL_lowercaseKeywordsWork(t *testing.T) {
	rs, err := PlanFromDSL(`
rule r (priority 0): a == 1 and not (b == 1)
`)
	require.NoError(t, err)

	ctx := ooroo.NewContext().Set("a", ooroo.IntValue(1)).Set("b", ooroo.IntValue(2))
	_, ok := rs.Evaluate(ctx)
	assert.True(t, ok)
}

func TestPlanFromDSL_stringAndBoolLiterals(t *testing.T) {
	rs, err := PlanFromDSL(`
rule r (priority 0): status == "active" and enabled == true
`)
	require.NoError(t, err)

	ctx := ooroo.NewContext().Set("status", ooroo.StringValue("active")).Set("enabled", ooroo.BoolValue(true))
	_, ok := rs.Evaluate(ctx)
	assert.True(t, ok)
}

func TestPlanFromDSL_missingConditionFails(t *testing.T) {
	_, err := PlanFromDSL(`
rule r (priority 0):
`)
	require.Error(t, err)
	cerr, ok := err.(*ooroo.CompileError)
	require.True(t, ok)
	assert.Equal(t, ooroo.KindMissingCondition, cerr.Kind)
}

func TestPlanFromDSL_syntaxErrorReportsParseErrorWithSpan(t *testing.T) {
	_, err := PlanFromDSL(`rule r (priority 0): age >=`)
	require.Error(t, err)
	cerr, ok := err.(*ooroo.CompileError)
	require.True(t, ok)
	assert.Equal(t, ooroo.KindParseError, cerr.Kind)
	assert.False(t, cerr.PrimarySpan.IsZero())
}

func TestPlanFromDSL_undeclaredBareIdentIsFieldNotUndefinedRule(t *testing.T) {
	_, err := PlanFromDSL(`
rule r (priority 0): ghost_rule
`)
	// ghost_rule is undotted but never declared as a rule, so it resolves
	// to a field reference instead of an undefined-rule-reference error.
	require.NoError(t, err)
}

func TestPlanFromDSL_cyclicDependencyReportsReferenceSpans(t *testing.T) {
	_, err := PlanFromDSL(`
rule a: b
rule b: a
rule term (priority 0): a
`)
	require.Error(t, err)
	cerr, ok := err.(*ooroo.CompileError)
	require.True(t, ok)
	require.Equal(t, ooroo.KindCyclicDependency, cerr.Kind)
	require.NotEmpty(t, cerr.RelatedSpans)
	for _, s := range cerr.RelatedSpans {
		assert.False(t, s.IsZero())
	}
	assert.False(t, cerr.PrimarySpan.IsZero())
}

func TestPlanFromDSL_typeMismatchReportsBothSpans(t *testing.T) {
	_, err := PlanFromDSL(`
rule r (priority 0): x == 1 and x == "a"
`)
	require.Error(t, err)
	cerr, ok := err.(*ooroo.CompileError)
	require.True(t, ok)
	require.Equal(t, ooroo.KindTypeMismatch, cerr.Kind)
	assert.False(t, cerr.PrimarySpan.IsZero())
	require.NotEmpty(t, cerr.RelatedSpans)
	assert.False(t, cerr.RelatedSpans[0].IsZero())
}

func TestPlanFromFile_missingFileWrapsError(t *testing.T) {
	_, err := PlanFromFile("/nonexistent/path/to/rules.ooroo")
	require.Error(t, err)
}

func TestPlanFromDSL_optimizerCanBeDisabled(t *testing.T) {
	rs, err := PlanFromDSL(`
rule live: a == 1
rule dead: b == 1
rule terminal_rule (priority 0): live
`, ooroo.WithOptimizer(false))
	require.NoError(t, err)
	// "dead" is unreachable from every terminal, so scheduling drops it
	// even with the optimizer off.
	assert.ElementsMatch(t, []string{"live", "terminal_rule"}, rs.RuleNames())
}
